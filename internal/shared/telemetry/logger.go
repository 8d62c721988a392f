package telemetry

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu     sync.RWMutex
	logger = mustBuild()
)

func mustBuild() *zap.Logger {
	cfg := zap.NewProductionConfig()
	cfg.OutputPaths = []string{"stdout"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	cfg.EncoderConfig.TimeKey = "ts"
	cfg.EncoderConfig.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.DisableStacktrace = true
	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// L returns the process logger.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return logger
}

// SetLogger replaces the process logger and returns a func restoring the previous one.
func SetLogger(l *zap.Logger) func() {
	if l == nil {
		l = zap.NewNop()
	}
	mu.Lock()
	prev := logger
	logger = l
	mu.Unlock()
	return func() {
		mu.Lock()
		logger = prev
		mu.Unlock()
	}
}

// Sync flushes buffered log entries.
func Sync() {
	_ = L().Sync()
}

// Info writes an info-level log line with the given fields.
func Info(msg string, fields map[string]any) {
	L().Info(msg, toZap(fields)...)
}

// Warn writes a warn-level log line with the given fields.
func Warn(msg string, fields map[string]any) {
	L().Warn(msg, toZap(fields)...)
}

// Error writes an error-level log line with the given fields.
func Error(msg string, fields map[string]any) {
	L().Error(msg, toZap(fields)...)
}

func toZap(fields map[string]any) []zap.Field {
	out := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		if err, ok := v.(error); ok {
			out = append(out, zap.NamedError(k, err))
			continue
		}
		out = append(out, zap.Any(k, v))
	}
	return out
}
