package logger

import (
	"fmt"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap with environment-driven configuration.
type Logger struct {
	*zap.Logger
	config *LoggerConfig
}

var (
	globalLogger *Logger
	once         sync.Once
)

// NewLogger initializes the process-wide logger. It is designed to be
// called once; subsequent calls return the existing instance.
func NewLogger() *Logger {
	once.Do(func() {
		cfg := DefaultConfig()

		var zapConfig zap.Config
		if cfg.Level == "debug" {
			zapConfig = zap.NewDevelopmentConfig()
			zapConfig.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
		} else {
			zapConfig = zap.NewProductionConfig()
			zapConfig.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
		}
		zapConfig.Level.SetLevel(cfg.ToZapLevel())
		if cfg.Format == "text" {
			zapConfig.Encoding = "console"
		}

		zl, err := zapConfig.Build(zap.AddCallerSkip(0))
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to build zap logger, falling back to no-op: %v\n", err)
			zl = zap.NewNop()
		}

		globalLogger = &Logger{Logger: zl, config: cfg}
	})
	return globalLogger
}

// Named returns a child logger with the given name segment.
func (l *Logger) Named(name string) *Logger {
	return &Logger{Logger: l.Logger.Named(name), config: l.config}
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	return l.Logger.Sync()
}
