// Package log provides structured logging with client session context.
// Log output goes to stderr so the result stream on stdout stays clean.
package log

import (
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Context identifies the client session in every log entry.
type Context struct {
	// ClientID is the per-process client identity.
	ClientID string
	// Zone is the catalog zone the client authenticates to.
	Zone string
	// Host is the catalog host.
	Host string
}

// Logger provides structured logging with client context fields attached
// at construction.
type Logger struct {
	zap *zap.Logger
}

// NewLogger creates a logger writing JSON entries to stderr.
func NewLogger(lctx Context) *Logger {
	return newLoggerWithWriter(lctx, os.Stderr)
}

// WithOutput returns a new logger with a different output writer.
func (l *Logger) WithOutput(w io.Writer) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)
	return &Logger{zap: l.zap.WithOptions(zap.WrapCore(func(zapcore.Core) zapcore.Core { return core }))}
}

func newLoggerWithWriter(lctx Context, w io.Writer) *Logger {
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderConfig()),
		zapcore.AddSync(w),
		zapcore.DebugLevel,
	)

	contextFields := []zap.Field{
		zap.String("client_id", lctx.ClientID),
	}
	if lctx.Zone != "" {
		contextFields = append(contextFields, zap.String("zone", lctx.Zone))
	}
	if lctx.Host != "" {
		contextFields = append(contextFields, zap.String("host", lctx.Host))
	}

	return &Logger{zap: zap.New(core).With(contextFields...)}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:     "timestamp",
		LevelKey:    "level",
		MessageKey:  "message",
		EncodeTime:  zapcore.RFC3339NanoTimeEncoder,
		EncodeLevel: zapcore.LowercaseLevelEncoder,
	}
}

// Debug logs a debug message.
func (l *Logger) Debug(message string, fields map[string]any) {
	l.zap.Debug(message, zap.Any("fields", fields))
}

// Info logs an info message.
func (l *Logger) Info(message string, fields map[string]any) {
	l.zap.Info(message, zap.Any("fields", fields))
}

// Warn logs a warning message.
func (l *Logger) Warn(message string, fields map[string]any) {
	l.zap.Warn(message, zap.Any("fields", fields))
}

// Error logs an error message.
func (l *Logger) Error(message string, fields map[string]any) {
	l.zap.Error(message, zap.Any("fields", fields))
}
