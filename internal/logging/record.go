package logging

import (
	"time"

	json "github.com/goccy/go-json"
)

const (
	FieldTraceID    = "trace_id"
	FieldThread     = "thread"
	FieldLevelName  = "level_name"
	FieldMessage    = "message"
	FieldSourceLog  = "source_log"
	FieldTimestamp  = "timestamp"
	FieldAppName    = "app_name"
	FieldAppVersion = "app_version"
	FieldAppEnv     = "app_env"
	FieldDuration   = "duration"
	FieldExceptions = "exceptions"
	FieldProps      = "props"
	FieldSpanID     = "span_id"
	FieldParentID   = "parent_id"
)

const timestampLayout = "2006-01-02T15:04:05-07:00"

// AppMeta is the static application identity stamped on every record.
type AppMeta struct {
	Name        string
	Version     string
	Environment string
}

// LogRecord is one structured log line before rendering. Optional fields
// are omitted from the output when empty.
type LogRecord struct {
	TraceID    string         `json:"trace_id"`
	Thread     int            `json:"thread"`
	LevelName  string         `json:"level_name"`
	Message    string         `json:"message"`
	SourceLog  string         `json:"source_log"`
	Timestamp  string         `json:"timestamp"`
	AppName    string         `json:"app_name"`
	AppVersion string         `json:"app_version"`
	AppEnv     string         `json:"app_env"`
	Duration   int64          `json:"duration"`
	Exceptions *Exceptions    `json:"exceptions,omitempty"`
	Props      map[string]any `json:"props,omitempty"`
	SpanID     string         `json:"span_id,omitempty"`
	ParentID   string         `json:"parent_id,omitempty"`
}

// Exceptions holds either rendered traceback lines or a single text blob.
type Exceptions struct {
	Lines []string
	Text  string
}

func (e *Exceptions) MarshalJSON() ([]byte, error) {
	if e.Lines != nil {
		return json.Marshal(e.Lines)
	}
	return json.Marshal(e.Text)
}

func (e *Exceptions) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '[' {
		return json.Unmarshal(data, &e.Lines)
	}
	return json.Unmarshal(data, &e.Text)
}

func (e *Exceptions) empty() bool {
	return e == nil || (e.Lines == nil && e.Text == "")
}

// FormatTimestamp renders t in the local zone with seconds precision.
func FormatTimestamp(t time.Time) string {
	return t.Local().Truncate(time.Second).Format(timestampLayout)
}

func (r *LogRecord) fields() map[string]any {
	m := map[string]any{
		FieldTraceID:    r.TraceID,
		FieldThread:     r.Thread,
		FieldLevelName:  r.LevelName,
		FieldMessage:    r.Message,
		FieldSourceLog:  r.SourceLog,
		FieldTimestamp:  r.Timestamp,
		FieldAppName:    r.AppName,
		FieldAppVersion: r.AppVersion,
		FieldAppEnv:     r.AppEnv,
		FieldDuration:   r.Duration,
	}
	if !r.Exceptions.empty() {
		m[FieldExceptions] = r.Exceptions
	}
	if len(r.Props) > 0 {
		m[FieldProps] = r.Props
	}
	if r.SpanID != "" {
		m[FieldSpanID] = r.SpanID
	}
	if r.ParentID != "" {
		m[FieldParentID] = r.ParentID
	}
	return m
}
