package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf-social/internal/model"
)

func TestSearchUsers(t *testing.T) {
	profiles := &fakeProfiles{rows: map[string]model.ProfileSnapshot{
		"1": {ID: "1", Username: "jsmith", DisplayName: "Jonathan Smith"},
		"2": {ID: "2", Username: "carla"},
		"3": {ID: "3", Username: "smithj"},
	}}
	svc := NewSearchService(profiles)

	got, err := svc.SearchUsers(context.Background(), "jsmith")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "1", got[0].ID)

	all, err := svc.SearchUsers(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	profiles.err = errStoreDown
	_, err = svc.SearchUsers(context.Background(), "x")
	assert.ErrorIs(t, err, errStoreDown)
}
