package logging

import "go.uber.org/zap/zapcore"

const DirectionIn = "in"

// Headers is a flattened, already redacted header map.
type Headers map[string]string

func (h Headers) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	for k, v := range h {
		enc.AddString(k, v)
	}
	return nil
}

// RequestSummary is the structured payload of one request log line.
type RequestSummary struct {
	URI                string  `json:"request_uri"`
	Referer            string  `json:"request_referer"`
	Method             string  `json:"request_method"`
	Path               string  `json:"request_path"`
	Host               string  `json:"request_host"`
	Size               int64   `json:"request_size"`
	ContentType        string  `json:"request_content_type"`
	Headers            Headers `json:"request_headers"`
	Body               *string `json:"request_body,omitempty"`
	Direction          string  `json:"request_direction"`
	ResponseStatusCode int     `json:"response_status_code"`
	ResponseSize       int64   `json:"response_size"`
	ResponseHeaders    Headers `json:"response_headers"`
	ResponseBody       *string `json:"response_body,omitempty"`
	Duration           int64   `json:"duration"`
}

func (s *RequestSummary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("request_uri", s.URI)
	enc.AddString("request_referer", s.Referer)
	enc.AddString("request_method", s.Method)
	enc.AddString("request_path", s.Path)
	enc.AddString("request_host", s.Host)
	enc.AddInt64("request_size", s.Size)
	enc.AddString("request_content_type", s.ContentType)
	if err := enc.AddObject("request_headers", s.Headers); err != nil {
		return err
	}
	if s.Body != nil {
		enc.AddString("request_body", *s.Body)
	}
	enc.AddString("request_direction", s.Direction)
	enc.AddInt("response_status_code", s.ResponseStatusCode)
	enc.AddInt64("response_size", s.ResponseSize)
	if err := enc.AddObject("response_headers", s.ResponseHeaders); err != nil {
		return err
	}
	if s.ResponseBody != nil {
		enc.AddString("response_body", *s.ResponseBody)
	}
	enc.AddInt64(FieldDuration, s.Duration)
	return nil
}
