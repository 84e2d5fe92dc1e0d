package logger

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNewQuietIsNop(t *testing.T) {
	l, err := New(false)
	require.NoError(t, err)
	require.False(t, l.Core().Enabled(zapcore.ErrorLevel))
}

func TestNewVerbose(t *testing.T) {
	l, err := New(true)
	require.NoError(t, err)
	require.True(t, l.Core().Enabled(zapcore.DebugLevel))
}
