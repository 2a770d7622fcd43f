package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestPackageHelpersWriteToCurrentLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	prev := L()
	Set(zap.New(core))
	t.Cleanup(func() { Set(prev) })

	Warn("section degraded", zap.String("section", "papers"))
	Info("ready")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, "papers", entries[0].ContextMap()["section"])
	assert.Equal(t, "ready", entries[1].Message)
}

func TestInitRejectsUnknownLevel(t *testing.T) {
	prev := L()
	t.Cleanup(func() { Set(prev) })

	assert.Error(t, Init("debug", "loud"))
	assert.NoError(t, Init("release", "warn"))
}
