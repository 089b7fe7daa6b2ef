package logging

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *LogRecord {
	return &LogRecord{
		TraceID:    "d8cc300ce77a4454a3db6487640f0f66",
		Thread:     4242,
		LevelName:  LevelInfo,
		Message:    "user logged in",
		SourceLog:  "main",
		Timestamp:  "2024-03-12T19:09:26+08:00",
		AppName:    "app",
		AppVersion: "v1",
		AppEnv:     "test",
		Duration:   61,
	}
}

func TestJSONFormatter_Format(t *testing.T) {
	formatter := NewJSONFormatter()

	t.Run("BaseSchema", func(t *testing.T) {
		output, err := formatter.Format(sampleRecord(), nil)
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))

		assert.Equal(t, "d8cc300ce77a4454a3db6487640f0f66", result["trace_id"])
		assert.Equal(t, float64(4242), result["thread"])
		assert.Equal(t, "INFO", result["level_name"])
		assert.Equal(t, "user logged in", result["message"])
		assert.Equal(t, "main", result["source_log"])
		assert.Equal(t, float64(61), result["duration"])
		assert.Equal(t, "test", result["app_env"])
		assert.False(t, strings.HasSuffix(string(output), "\n"))
	})

	t.Run("OptionalFieldsOmitted", func(t *testing.T) {
		output, err := formatter.Format(sampleRecord(), nil)
		require.NoError(t, err)

		for _, key := range []string{"exceptions", "props", "span_id", "parent_id"} {
			assert.NotContains(t, string(output), `"`+key+`"`)
		}
	})

	t.Run("OptionalFieldsPresent", func(t *testing.T) {
		rec := sampleRecord()
		rec.Exceptions = &Exceptions{Lines: []string{"panic: boom", "  main.run"}}
		rec.Props = map[string]any{"user": "alice"}
		rec.SpanID = "00f067aa0ba902b7"

		output, err := formatter.Format(rec, nil)
		require.NoError(t, err)

		var result LogRecord
		require.NoError(t, json.Unmarshal(output, &result))
		assert.Equal(t, []string{"panic: boom", "  main.run"}, result.Exceptions.Lines)
		assert.Equal(t, "alice", result.Props["user"])
		assert.Equal(t, "00f067aa0ba902b7", result.SpanID)
	})

	t.Run("ExceptionText", func(t *testing.T) {
		rec := sampleRecord()
		rec.Exceptions = &Exceptions{Text: "connection reset"}

		output, err := formatter.Format(rec, nil)
		require.NoError(t, err)
		assert.Contains(t, string(output), `"exceptions":"connection reset"`)
	})

	t.Run("NonASCIIAndHTMLUnescaped", func(t *testing.T) {
		rec := sampleRecord()
		rec.Message = "héllo 日本 <b>&</b>"

		output, err := formatter.Format(rec, nil)
		require.NoError(t, err)
		assert.Contains(t, string(output), "héllo 日本 <b>&</b>")
	})

	t.Run("ExtraFieldsMerged", func(t *testing.T) {
		output, err := formatter.Format(sampleRecord(), map[string]any{
			"response_status_code": 401,
			"duration":             int64(75),
			"level_name":           nil,
		})
		require.NoError(t, err)

		var result map[string]any
		require.NoError(t, json.Unmarshal(output, &result))
		assert.Equal(t, float64(401), result["response_status_code"])
		assert.Equal(t, float64(75), result["duration"])
		assert.Equal(t, "INFO", result["level_name"], "nil extras must not remove base fields")
	})

	t.Run("AddressMessagesBlanked", func(t *testing.T) {
		rec := sampleRecord()
		rec.Message = `127.0.0.1:41742 - 2024-03-12T19:09:26.026217 d8cc "POST   http://localhost:8000/api/v1/auth/login HTTP/1.1" 200 "OK" 61ms`

		output, err := formatter.Format(rec, nil)
		require.NoError(t, err)
		assert.Contains(t, string(output), `"message":""`)
		assert.Equal(t, `127.0.0.1:41742 - 2024-03-12T19:09:26.026217 d8cc "POST   http://localhost:8000/api/v1/auth/login HTTP/1.1" 200 "OK" 61ms`, rec.Message, "input record must not be mutated")
	})

	t.Run("Idempotent", func(t *testing.T) {
		extra := map[string]any{"request_method": "GET", "request_headers": map[string]any{"b": "2", "a": "1"}}
		first, err := formatter.Format(sampleRecord(), extra)
		require.NoError(t, err)
		second, err := formatter.Format(sampleRecord(), extra)
		require.NoError(t, err)
		assert.Equal(t, first, second)
	})
}

func TestColoredJSONFormatter_Format(t *testing.T) {
	formatter := NewColoredJSONFormatter()

	cases := map[string]string{
		LevelDebug:    "\033[94m",
		LevelInfo:     "\033[92m",
		LevelWarning:  "\033[93m",
		LevelError:    "\033[91m",
		LevelCritical: "\033[91m",
		LevelTrace:    "\033[0m",
	}
	for level, color := range cases {
		t.Run(level, func(t *testing.T) {
			rec := sampleRecord()
			rec.LevelName = level

			output, err := formatter.Format(rec, nil)
			require.NoError(t, err)
			assert.True(t, strings.HasPrefix(string(output), color+"{"))
			assert.True(t, strings.HasSuffix(string(output), "}\033[0m"))
		})
	}

	t.Run("SamePayloadAsPlain", func(t *testing.T) {
		rec := sampleRecord()
		colored, err := formatter.Format(rec, nil)
		require.NoError(t, err)
		plain, err := NewJSONFormatter().Format(rec, nil)
		require.NoError(t, err)
		assert.Equal(t, string(plain), ansiEscape.ReplaceAllString(string(colored), ""))
	})

	t.Run("KeepsAddressMessages", func(t *testing.T) {
		rec := sampleRecord()
		rec.Message = "127.0.0.1:41742 - summary"

		output, err := formatter.Format(rec, nil)
		require.NoError(t, err)
		assert.Contains(t, string(output), "127.0.0.1:41742 - summary")
	})
}

func TestFormatTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 7, 18, 39, 45, 425493000, time.Local)
	assert.Regexp(t, `^2024-03-07T18:39:45[+-]\d{2}:\d{2}$`, FormatTimestamp(ts))
}
