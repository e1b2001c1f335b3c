package logger

import (
	"installations-bknd/internal/config"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Logger struct {
	*zap.Logger
}

// New creates a zap logger configured by environment.
func New(cfg *config.Config) *Logger {
	l, err := build(cfg.Environment).Build()
	if err != nil {
		panic(err)
	}
	return &Logger{l}
}

// NewCLI is New with output on stderr, leaving stdout to command results.
func NewCLI(cfg *config.Config) *Logger {
	zapCfg := build(cfg.Environment)
	zapCfg.OutputPaths = []string{"stderr"}
	l, err := zapCfg.Build()
	if err != nil {
		panic(err)
	}
	return &Logger{l}
}

func build(environment string) zap.Config {
	var zapCfg zap.Config

	if environment == "production" {
		zapCfg = zap.NewProductionConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	} else {
		zapCfg = zap.NewDevelopmentConfig()
		zapCfg.EncoderConfig.TimeKey = "timestamp"
		zapCfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	return zapCfg
}

// Sync flushes any buffered log entries
func (l *Logger) Sync() {
	_ = l.Logger.Sync() // ignore sync errors (often harmless in dev)
}
