package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/shelf-social/internal/model"
)

func TestReferenceJoiner_OneQueryPerKindWithDistinctKeys(t *testing.T) {
	papers := &fakePapers{rows: map[string]*model.Paper{"W1": {ID: "W1", Title: "Attention"}}}
	profiles := &fakeProfiles{rows: map[string]model.ProfileSnapshot{"u1": {ID: "u1", Username: "ann"}}}
	j := NewReferenceJoiner(papers, profiles, 0, nil)

	refs := j.Join(context.Background(), RefKeys{
		PaperIDs: []string{"W1", "W1", "", "W404"},
		UserIDs:  []string{"u1", "u1", "u2"},
	})

	require.Len(t, papers.calls, 1)
	assert.Equal(t, []string{"W1", "W404"}, papers.calls[0])
	require.Len(t, profiles.calls, 1)
	assert.Equal(t, []string{"u1", "u2"}, profiles.calls[0])

	assert.Equal(t, "Attention", refs.Paper(strp("W1")).Title)
	assert.Nil(t, refs.Paper(strp("W404")))
	assert.Nil(t, refs.Paper(nil))
	assert.Equal(t, "ann", refs.Profile("u1").Username)
	assert.Nil(t, refs.Profile("u2"))
	assert.Empty(t, refs.Degraded)
}

func TestReferenceJoiner_NoKeysNoQueries(t *testing.T) {
	papers := &fakePapers{}
	profiles := &fakeProfiles{}
	refs := NewReferenceJoiner(papers, profiles, 0, nil).Join(context.Background(), RefKeys{})

	assert.Empty(t, papers.calls)
	assert.Empty(t, profiles.calls)
	assert.NotNil(t, refs.Papers)
	assert.NotNil(t, refs.Profiles)
}

func TestReferenceJoiner_TruncatesAtCap(t *testing.T) {
	papers := &fakePapers{rows: map[string]*model.Paper{}}
	ids := make([]string, 0, DefaultMaxBatchKeys+5)
	for i := 0; i < DefaultMaxBatchKeys+5; i++ {
		id := fmt.Sprintf("W%d", i)
		ids = append(ids, id)
		papers.rows[id] = &model.Paper{ID: id}
	}
	j := NewReferenceJoiner(papers, &fakeProfiles{}, 0, nil)

	refs := j.Join(context.Background(), RefKeys{PaperIDs: ids})

	require.Len(t, papers.calls, 1)
	assert.Len(t, papers.calls[0], DefaultMaxBatchKeys)
	assert.Len(t, refs.Papers, DefaultMaxBatchKeys)
	assert.NotNil(t, refs.Paper(strp("W0")))
	assert.Nil(t, refs.Paper(strp(fmt.Sprintf("W%d", DefaultMaxBatchKeys))))
	assert.Empty(t, refs.Degraded)
}

func TestReferenceJoiner_FailedSectionDegrades(t *testing.T) {
	rec := &countingRecorder{}
	papers := &fakePapers{err: errStoreDown}
	profiles := &fakeProfiles{rows: map[string]model.ProfileSnapshot{"u1": {ID: "u1", Username: "ann"}}}
	j := NewReferenceJoiner(papers, profiles, 0, rec)

	refs := j.Join(context.Background(), RefKeys{PaperIDs: []string{"W1"}, UserIDs: []string{"u1"}})

	assert.Equal(t, []string{SectionPapers}, refs.Degraded)
	assert.Empty(t, refs.Papers)
	assert.NotNil(t, refs.Profile("u1"))
	assert.Equal(t, []string{SectionPapers}, rec.degraded)
}
