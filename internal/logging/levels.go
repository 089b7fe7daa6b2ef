package logging

import (
	"fmt"

	"go.uber.org/zap/zapcore"
)

// TraceLevel sits one step below zap's debug level.
const TraceLevel = zapcore.DebugLevel - 1

const (
	LevelTrace    = "TRACE"
	LevelDebug    = "DEBUG"
	LevelInfo     = "INFO"
	LevelWarning  = "WARNING"
	LevelError    = "ERROR"
	LevelCritical = "CRITICAL"
)

const colorReset = "\033[0m"

var levelColors = map[string]string{
	LevelDebug:    "\033[94m",
	LevelInfo:     "\033[92m",
	LevelWarning:  "\033[93m",
	LevelError:    "\033[91m",
	LevelCritical: "\033[91m",
}

// LevelName maps a zap level onto the closed set of record level names.
func LevelName(level zapcore.Level) (string, error) {
	switch level {
	case TraceLevel:
		return LevelTrace, nil
	case zapcore.DebugLevel:
		return LevelDebug, nil
	case zapcore.InfoLevel:
		return LevelInfo, nil
	case zapcore.WarnLevel:
		return LevelWarning, nil
	case zapcore.ErrorLevel:
		return LevelError, nil
	case zapcore.DPanicLevel, zapcore.PanicLevel, zapcore.FatalLevel:
		return LevelCritical, nil
	default:
		return "", fmt.Errorf("unmapped log level: %d", int8(level))
	}
}

func levelColor(name string) string {
	if color, ok := levelColors[name]; ok {
		return color
	}
	return colorReset
}
