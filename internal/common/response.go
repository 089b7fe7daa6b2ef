package common

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
)

func SendSuccess(c echo.Context, data any) error {
	return c.JSON(http.StatusOK, data)
}

func SendMessage(c echo.Context, message string) error {
	return c.JSON(http.StatusOK, map[string]string{
		"message": message,
	})
}

func SendError(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, map[string]string{
		"error": message,
	})
}

func SendUnauthorized(c echo.Context, message string) error {
	return SendError(c, http.StatusUnauthorized, message)
}

func SendNotFound(c echo.Context, message string) error {
	return SendError(c, http.StatusNotFound, message)
}

// HTTPErrorHandler renders every error as {"error": message}. Errors that
// are not *echo.HTTPError become a generic 500.
func HTTPErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)
	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = errorMessage(he)
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		switch code {
		case http.StatusUnauthorized:
			err = SendUnauthorized(c, message)
		case http.StatusNotFound:
			err = SendNotFound(c, message)
		default:
			err = SendError(c, code, message)
		}
	}
	if err != nil {
		c.Logger().Error(err)
	}
}

func errorMessage(he *echo.HTTPError) string {
	switch m := he.Message.(type) {
	case string:
		return m
	case error:
		return m.Error()
	case nil:
		return http.StatusText(he.Code)
	default:
		return fmt.Sprint(m)
	}
}
