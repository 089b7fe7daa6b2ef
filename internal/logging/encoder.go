package logging

import (
	"os"
	"time"

	"go.uber.org/zap/buffer"
	"go.uber.org/zap/zapcore"
)

var bufferPool = buffer.NewPool()

// RecordEncoder is a zapcore.Encoder that turns each entry into a
// LogRecord and renders it through a Formatter. Fields it does not
// recognise are passed to the formatter as extra top-level keys.
type RecordEncoder struct {
	*zapcore.MapObjectEncoder
	formatter Formatter
	meta      AppMeta
	pid       int
}

func NewRecordEncoder(formatter Formatter, meta AppMeta) *RecordEncoder {
	return &RecordEncoder{
		MapObjectEncoder: zapcore.NewMapObjectEncoder(),
		formatter:        formatter,
		meta:             meta,
		pid:              os.Getpid(),
	}
}

func (e *RecordEncoder) Clone() zapcore.Encoder {
	clone := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		clone.Fields[k] = v
	}
	return &RecordEncoder{
		MapObjectEncoder: clone,
		formatter:        e.formatter,
		meta:             e.meta,
		pid:              e.pid,
	}
}

func (e *RecordEncoder) EncodeEntry(ent zapcore.Entry, fields []zapcore.Field) (*buffer.Buffer, error) {
	levelName, err := LevelName(ent.Level)
	if err != nil {
		return nil, err
	}

	collected := zapcore.NewMapObjectEncoder()
	for k, v := range e.Fields {
		collected.Fields[k] = v
	}
	for _, f := range fields {
		f.AddTo(collected)
	}
	extra := collected.Fields

	record := &LogRecord{
		Thread:     e.pid,
		LevelName:  levelName,
		Message:    ent.Message,
		SourceLog:  ent.LoggerName,
		Timestamp:  FormatTimestamp(ent.Time),
		AppName:    e.meta.Name,
		AppVersion: e.meta.Version,
		AppEnv:     e.meta.Environment,
		Duration:   int64(ent.Time.Nanosecond() / int(time.Millisecond)),
	}

	if id, ok := takeString(extra, FieldTraceID); ok && id != "" {
		record.TraceID = id
	} else {
		record.TraceID = NewTraceID()
	}
	record.SpanID, _ = takeString(extra, FieldSpanID)
	record.ParentID, _ = takeString(extra, FieldParentID)

	if d, ok := takeInt(extra, FieldDuration); ok {
		record.Duration = d
	}
	if props, ok := extra[FieldProps].(map[string]any); ok {
		record.Props = props
		delete(extra, FieldProps)
	}
	record.Exceptions = takeExceptions(extra)

	line, err := e.formatter.Format(record, extra)
	if err != nil {
		return nil, err
	}

	buf := bufferPool.Get()
	_, _ = buf.Write(line)
	buf.AppendByte('\n')
	return buf, nil
}

func takeString(m map[string]any, key string) (string, bool) {
	v, ok := m[key].(string)
	if ok {
		delete(m, key)
	}
	return v, ok
}

func takeInt(m map[string]any, key string) (int64, bool) {
	var out int64
	switch v := m[key].(type) {
	case int64:
		out = v
	case int:
		out = int64(v)
	case int32:
		out = int64(v)
	case float64:
		out = int64(v)
	case time.Duration:
		out = v.Milliseconds()
	default:
		return 0, false
	}
	delete(m, key)
	return out, true
}

func takeExceptions(m map[string]any) *Exceptions {
	var exc *Exceptions
	switch v := m[FieldExceptions].(type) {
	case []any:
		lines := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				lines = append(lines, s)
			}
		}
		exc = &Exceptions{Lines: lines}
	case string:
		exc = &Exceptions{Text: v}
	}
	if exc != nil {
		delete(m, FieldExceptions)
	}

	// zap.Error fields become the exception text when nothing richer is set.
	if text, ok := takeString(m, "error"); ok && exc == nil {
		exc = &Exceptions{Text: text}
	}
	if verbose, ok := takeString(m, "errorVerbose"); ok && exc != nil && exc.Lines == nil {
		exc.Text = verbose
	}
	return exc
}
