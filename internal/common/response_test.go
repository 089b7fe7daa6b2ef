package common

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
)

func TestHTTPErrorHandler(t *testing.T) {
	tests := []struct {
		name   string
		method string
		err    error
		code   int
		body   string
	}{
		{"Unauthorized", http.MethodPost, echo.NewHTTPError(http.StatusUnauthorized, "invalid credentials"), http.StatusUnauthorized, `{"error":"invalid credentials"}`},
		{"NotFound", http.MethodGet, echo.ErrNotFound, http.StatusNotFound, `{"error":"Not Found"}`},
		{"ServiceUnavailable", http.MethodGet, echo.NewHTTPError(http.StatusServiceUnavailable, errors.New("store down")), http.StatusServiceUnavailable, `{"error":"store down"}`},
		{"NoMessage", http.MethodGet, &echo.HTTPError{Code: http.StatusConflict}, http.StatusConflict, `{"error":"Conflict"}`},
		{"PlainError", http.MethodGet, errors.New("boom"), http.StatusInternalServerError, `{"error":"Internal Server Error"}`},
	}

	e := echo.New()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(tt.method, "/", nil), rec)

			HTTPErrorHandler(tt.err, c)

			assert.Equal(t, tt.code, rec.Code)
			assert.JSONEq(t, tt.body, rec.Body.String())
		})
	}
}

func TestHTTPErrorHandler_Head(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodHead, "/", nil), rec)

	HTTPErrorHandler(echo.ErrNotFound, c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestHTTPErrorHandler_Committed(t *testing.T) {
	rec := httptest.NewRecorder()
	c := echo.New().NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	_ = SendMessage(c, "done")

	HTTPErrorHandler(echo.ErrNotFound, c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"done"}`, rec.Body.String())
}
