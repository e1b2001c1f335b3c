package logger

import (
	"testing"

	"installations-bknd/internal/config"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap/zapcore"
)

func TestBuildByEnvironment(t *testing.T) {
	prod := build("production")
	assert.Equal(t, "json", prod.Encoding)
	assert.Equal(t, "timestamp", prod.EncoderConfig.TimeKey)

	dev := build("development")
	assert.Equal(t, "console", dev.Encoding)
	assert.True(t, dev.Development)
}

func TestNewCLILogsToStderr(t *testing.T) {
	l := NewCLI(&config.Config{Environment: "production"})
	defer l.Sync()
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
}
