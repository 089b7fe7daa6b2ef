package logging

import (
	"bytes"
	"fmt"
	"regexp"

	json "github.com/goccy/go-json"
)

// Formatter renders a record and its extra named fields as one line,
// without the trailing newline.
type Formatter interface {
	Format(record *LogRecord, extra map[string]any) ([]byte, error)
}

// Lines that start with a client address carry their detail in the
// structured fields, so the plain formatter drops the message text.
var addressPrefix = regexp.MustCompile(`^\d{1,3}(\.\d{1,3}){3}`)

type JSONFormatter struct{}

func NewJSONFormatter() *JSONFormatter {
	return &JSONFormatter{}
}

func (f *JSONFormatter) Format(record *LogRecord, extra map[string]any) ([]byte, error) {
	r := *record
	if addressPrefix.MatchString(r.Message) {
		r.Message = ""
	}
	return renderJSON(&r, extra)
}

// ColoredJSONFormatter wraps the JSON line in the ANSI color of its level.
// Intended for interactive consoles only.
type ColoredJSONFormatter struct{}

func NewColoredJSONFormatter() *ColoredJSONFormatter {
	return &ColoredJSONFormatter{}
}

func (f *ColoredJSONFormatter) Format(record *LogRecord, extra map[string]any) ([]byte, error) {
	line, err := renderJSON(record, extra)
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	buf.Grow(len(line) + 16)
	buf.WriteString(levelColor(record.LevelName))
	buf.Write(line)
	buf.WriteString(colorReset)
	return buf.Bytes(), nil
}

func renderJSON(record *LogRecord, extra map[string]any) ([]byte, error) {
	object := record.fields()
	for key, value := range extra {
		if value == nil {
			if _, base := object[key]; base {
				continue
			}
		}
		object[key] = value
	}

	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(object); err != nil {
		return nil, fmt.Errorf("failed to encode log record: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
