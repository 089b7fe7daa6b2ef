package health

import (
	"github.com/tech-arch1tect/ultimate-logging/internal/common"

	"github.com/labstack/echo/v4"
)

type Handler struct{}

func NewHandler() *Handler {
	return &Handler{}
}

func (h *Handler) Health(c echo.Context) error {
	return common.SendSuccess(c, map[string]string{
		"status": "healthy",
	})
}
