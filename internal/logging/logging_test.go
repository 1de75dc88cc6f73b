package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew_LevelIsAdjustable(t *testing.T) {
	logger, err := New("info", "json")
	require.NoError(t, err)

	assert.False(t, logger.Core().Enabled(zapcore.DebugLevel))

	require.NoError(t, SetLevel(logger.Level, "debug"))
	assert.True(t, logger.Core().Enabled(zapcore.DebugLevel))
}

func TestNew_InvalidLevel(t *testing.T) {
	_, err := New("loud", "console")
	assert.Error(t, err)
}
