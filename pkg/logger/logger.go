// Package logger provides a zap-based application logger whose methods take
// a context so trace and request ids ride along on every line.
package logger

import (
	"context"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Level is a logging priority.
type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

// TraceIDFn extracts a trace id from a context. It may return "".
type TraceIDFn func(ctx context.Context) string

// Logger writes JSON lines through zap.
type Logger struct {
	z       *zap.SugaredLogger
	traceID TraceIDFn
}

// New builds a logger writing to w at minLevel and above. Every line carries
// the service name; when traceIDFn is non-nil its result is added as trace_id.
func New(w io.Writer, minLevel Level, service string, traceIDFn TraceIDFn) *Logger {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(zapcore.NewJSONEncoder(enc), zapcore.AddSync(w), minLevel)
	z := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1)).Sugar().With("service", service)
	return &Logger{z: z, traceID: traceIDFn}
}

// ParseLevel maps a level name to a Level, falling back to info.
func ParseLevel(s string) Level {
	lvl, err := zapcore.ParseLevel(strings.ToLower(strings.TrimSpace(s)))
	if err != nil {
		return LevelInfo
	}
	return lvl
}

// With returns a child logger that always adds kv.
func (l *Logger) With(kv ...any) *Logger {
	return &Logger{z: l.z.With(kv...), traceID: l.traceID}
}

func (l *Logger) Debug(ctx context.Context, msg string, kv ...any) {
	l.z.Debugw(msg, l.fields(ctx, kv)...)
}

func (l *Logger) Info(ctx context.Context, msg string, kv ...any) {
	l.z.Infow(msg, l.fields(ctx, kv)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, kv ...any) {
	l.z.Warnw(msg, l.fields(ctx, kv)...)
}

func (l *Logger) Error(ctx context.Context, msg string, kv ...any) {
	l.z.Errorw(msg, l.fields(ctx, kv)...)
}

// Sync flushes buffered entries.
func (l *Logger) Sync() error {
	return l.z.Sync()
}

func (l *Logger) fields(ctx context.Context, kv []any) []any {
	if ctx == nil {
		return kv
	}
	if l.traceID != nil {
		if id := l.traceID(ctx); id != "" {
			kv = append(kv, "trace_id", id)
		}
	}
	if id := RequestID(ctx); id != "" {
		kv = append(kv, "request_id", id)
	}
	return kv
}

type requestIDKey struct{}

// WithRequestID stores a request id in ctx.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

// RequestID returns the request id stored in ctx, if any.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}
