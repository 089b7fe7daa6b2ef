package logging

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedactor_Headers(t *testing.T) {
	redactor := NewRedactor([]string{"Authorization"}, []string{"cookie"})

	t.Run("MaskAndDrop", func(t *testing.T) {
		h := http.Header{}
		h.Set("Authorization", "Bearer abc")
		h.Set("Cookie", "session=1")
		h.Add("Accept", "text/html")
		h.Add("Accept", "application/json")

		got := redactor.Headers(h)

		assert.Equal(t, Headers{
			"authorization": MaskToken,
			"accept":        "text/html, application/json",
		}, got)
	})

	t.Run("AbsentAuthorizationStaysAbsent", func(t *testing.T) {
		h := http.Header{}
		h.Set("Content-Type", "application/json")

		got := redactor.Headers(h)
		assert.NotContains(t, got, "authorization")
	})

	t.Run("RawHeaderNames", func(t *testing.T) {
		h := http.Header{
			"authorization": {"Basic xyz"},
			"COOKIE":        {"a=b"},
		}

		got := redactor.Headers(h)
		assert.Equal(t, Headers{"authorization": MaskToken}, got)
	})

	t.Run("Extensible", func(t *testing.T) {
		custom := NewRedactor([]string{"authorization", "x-api-key"}, []string{"cookie", "set-cookie"})
		h := http.Header{}
		h.Set("X-Api-Key", "secret")
		h.Set("Set-Cookie", "id=1")

		got := custom.Headers(h)
		assert.Equal(t, Headers{"x-api-key": MaskToken}, got)
	})
}

func TestFilterBody(t *testing.T) {
	cases := []struct {
		name string
		body []byte
		want string
	}{
		{"DropsData", []byte(`{"total":2,"data":[1,2]}`), `{"total":2}`},
		{"ObjectWithoutData", []byte(`{"message":"Hello"}`), `{"message":"Hello"}`},
		{"Array", []byte(`[{"data":1}]`), `[{"data":1}]`},
		{"NotJSON", []byte(`plain text`), `plain text`},
		{"Truncated", []byte(`{"data":`), `{"data":`},
		{"Empty", nil, ""},
		{"Binary", []byte{0xff, 0xfe, 0x00}, "file_bytes"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, FilterBody(tc.body))
		})
	}
}

func TestExemptions(t *testing.T) {
	e := DefaultExemptions("v1")

	for _, path := range []string{
		"/", "/metrics", "/api/v1/openapi.json", "/api/v1/docs",
		"/api/v1/redoc", "/api/v1/healthcheck", "/static/js/app.worker.js.map",
	} {
		assert.True(t, e.Match(path), path)
	}
	for _, path := range []string{
		"/widgets", "/api/v2/healthcheck", "/api/v1/auth/login", "/app.worker.js", "/metrics/extra",
	} {
		assert.False(t, e.Match(path), path)
	}
}
