package log

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	logconfig "github.com/proxykit/v1/internal/config/log"
	"github.com/proxykit/v1/pkg/types"
)

func TestLoggerInterfaceSurface(t *testing.T) {
	logger := NewNopLogger()

	logger.Debug("debug message")
	logger.Info("info message")
	logger.Warn("warn message")
	logger.Error("error message")
	logger.Debugf("formatted %s", "debug")
	logger.Infof("formatted %d", 1)

	withFields := logger.With("key", "value")
	require.NotNil(t, withFields)
	withFields.Info("with fields")

	assert.NotNil(t, logger.GetZapLogger())
	assert.NoError(t, logger.Sync())
}

func TestNewLoggerConsoleOnly(t *testing.T) {
	level := "debug"
	console := true
	filePath := ""
	cfg := logconfig.New(&types.LogConfig{
		Level:     &level,
		ToConsole: &console,
		FilePath:  &filePath,
	})

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	logger.Info("console sink only")
}
