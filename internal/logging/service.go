package logging

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	fileMaxSizeMB  = 10
	fileMaxBackups = 30
)

// Sink is one destination for rendered records.
type Sink struct {
	Name      string
	Writer    zapcore.WriteSyncer
	Formatter Formatter
	MinLevel  zapcore.Level
}

// Service owns the sinks behind the application logger and the rotating
// file they may write to.
type Service struct {
	sinks []Sink
	file  *lumberjack.Logger
}

// NewService selects sinks for the environment. Deployed environments log
// plain JSON to stdout, everything else gets colorized JSON. The rotating
// file sink is attached when logFilePath is set; its directory must exist.
func NewService(deployed bool, logFilePath string) (*Service, error) {
	s := &Service{}

	console := Sink{
		Name:     "console",
		Writer:   zapcore.Lock(os.Stdout),
		MinLevel: TraceLevel,
	}
	if deployed {
		console.Name = "json"
		console.Formatter = NewJSONFormatter()
	} else {
		console.Name = "colored"
		console.Formatter = NewColoredJSONFormatter()
	}
	s.sinks = append(s.sinks, console)

	if logFilePath == "" {
		return s, nil
	}

	logDir := filepath.Dir(logFilePath)
	info, err := os.Stat(logDir)
	if err != nil {
		return nil, fmt.Errorf("log directory %s must exist: %w", logDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("log directory %s is not a directory", logDir)
	}

	s.file = &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    fileMaxSizeMB,
		MaxBackups: fileMaxBackups,
		LocalTime:  true,
	}
	s.sinks = append(s.sinks, Sink{
		Name:      "file",
		Writer:    zapcore.AddSync(s.file),
		Formatter: NewJSONFormatter(),
		MinLevel:  zapcore.InfoLevel,
	})

	return s, nil
}

func (s *Service) Sinks() []Sink {
	return s.sinks
}

// Rotate forces the file sink onto a fresh file.
func (s *Service) Rotate() error {
	if s.file == nil {
		return nil
	}
	return s.file.Rotate()
}

func (s *Service) Close() error {
	if s.file != nil {
		return s.file.Close()
	}
	return nil
}
