package root

import (
	"github.com/tech-arch1tect/ultimate-logging/config"
	"github.com/tech-arch1tect/ultimate-logging/internal/common"
	"github.com/tech-arch1tect/ultimate-logging/internal/logging"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	message string
	logger  *logging.Logger
}

func NewHandler(cfg *config.Config, logger *logging.Logger) *Handler {
	return &Handler{
		message: cfg.AppMessage,
		logger:  logger,
	}
}

func (h *Handler) Root(c echo.Context) error {
	h.logger.Ctx(c.Request().Context()).Info("root endpoint")
	return common.SendMessage(c, h.message)
}
