package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	tests := []struct {
		level       string
		development bool
		want        zapcore.Level
	}{
		{"", false, zap.InfoLevel},
		{"debug", true, zap.DebugLevel},
		{"warn", false, zap.WarnLevel},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger, err := New(tt.level, tt.development)
			require.NoError(t, err)
			assert.Equal(t, tt.want, logger.Level())
		})
	}
}

func TestNew_DevelopmentDefaultsToDebug(t *testing.T) {
	logger, err := New("", true)
	require.NoError(t, err)
	assert.True(t, logger.Core().Enabled(zap.DebugLevel))
}

func TestNew_BadLevel(t *testing.T) {
	_, err := New("loud", false)
	assert.Error(t, err)
}
