package logging

import (
	"bytes"
	"encoding/json"
	"regexp"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

var ansiEscape = regexp.MustCompile(`\x1b\[[0-9;]*m`)

type lineBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lineBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lineBuffer) Sync() error { return nil }

func (b *lineBuffer) reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

func (b *lineBuffer) lines() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	raw := strings.TrimRight(b.buf.String(), "\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\n")
}

func (b *lineBuffer) records(t *testing.T) []map[string]any {
	t.Helper()
	var out []map[string]any
	for _, line := range b.lines() {
		var rec map[string]any
		require.NoError(t, json.Unmarshal([]byte(ansiEscape.ReplaceAllString(line, "")), &rec), line)
		out = append(out, rec)
	}
	return out
}

var testMeta = AppMeta{Name: "app", Version: "v1", Environment: "test"}

func newTestLogger(formatter Formatter) (*Logger, *lineBuffer) {
	buf := &lineBuffer{}
	logger := NewLogger(testMeta, TraceLevel, Sink{
		Name:      "test",
		Writer:    buf,
		Formatter: formatter,
		MinLevel:  TraceLevel,
	})
	return logger, buf
}
