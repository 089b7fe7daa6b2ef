package logging

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const DefaultLoggerName = "main"

type Logger struct {
	zap *zap.Logger
}

// NewLogger tees every sink into one zap logger named "main". Each sink
// receives entries at or above both level and its own threshold.
func NewLogger(meta AppMeta, level zapcore.Level, sinks ...Sink) *Logger {
	cores := make([]zapcore.Core, 0, len(sinks))
	for _, sink := range sinks {
		sink := sink
		enabler := zap.LevelEnablerFunc(func(l zapcore.Level) bool {
			return l >= level && l >= sink.MinLevel
		})
		cores = append(cores, zapcore.NewCore(NewRecordEncoder(sink.Formatter, meta), sink.Writer, enabler))
	}

	return &Logger{
		zap: zap.New(zapcore.NewTee(cores...)).Named(DefaultLoggerName),
	}
}

func parseLogLevel(level string) (zapcore.Level, error) {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel, nil
	case "debug":
		return zapcore.DebugLevel, nil
	case "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	case "critical":
		return zapcore.DPanicLevel, nil
	default:
		return zapcore.InfoLevel, fmt.Errorf("unknown log level: %s, defaulting to info", level)
	}
}

// Ctx returns a logger stamped with the trace and span ids carried by ctx.
func (l *Logger) Ctx(ctx context.Context) *Logger {
	fields := correlationFields(ctx)
	if len(fields) == 0 {
		return l
	}
	return l.With(fields...)
}

func (l *Logger) Trace(msg string, fields ...zap.Field) {
	l.zap.Log(TraceLevel, msg, fields...)
}

func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, fields...)
}

func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, fields...)
}

func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, fields...)
}

func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, fields...)
}

func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, fields...)
}

func (l *Logger) With(fields ...zap.Field) *Logger {
	return &Logger{
		zap: l.zap.With(fields...),
	}
}

func (l *Logger) Named(name string) *Logger {
	return &Logger{
		zap: l.zap.Named(name),
	}
}

func (l *Logger) Sync() error {
	return l.zap.Sync()
}

func (l *Logger) GetZap() *zap.Logger {
	return l.zap
}

// Props attaches an arbitrary mapping under the record's props key.
func Props(props map[string]any) zap.Field {
	return zap.Reflect(FieldProps, props)
}

// Duration overrides the record duration, in milliseconds.
func Duration(ms int64) zap.Field {
	return zap.Int64(FieldDuration, ms)
}
