package main

import (
	"context"
	"errors"
	"net/http"

	"github.com/tech-arch1tect/ultimate-logging/config"
	"github.com/tech-arch1tect/ultimate-logging/internal/common"
	"github.com/tech-arch1tect/ultimate-logging/internal/health"
	"github.com/tech-arch1tect/ultimate-logging/internal/logging"
	"github.com/tech-arch1tect/ultimate-logging/internal/metrics"
	"github.com/tech-arch1tect/ultimate-logging/internal/root"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"
)

func main() {
	fx.New(
		config.Module,
		logging.Module,
		metrics.Module,
		health.Module,
		root.Module,
		fx.WithLogger(NewEventLogger),
		fx.Provide(NewEcho),
		fx.Invoke(RegisterRoutes),
		fx.Invoke(StartServer),
	).Run()
}

func NewEventLogger(logger *logging.Logger) fxevent.Logger {
	return &fxevent.ZapLogger{Logger: logger.Named("fx").GetZap()}
}

func NewEcho(interceptor *logging.Interceptor, collector *metrics.Collector) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = common.HTTPErrorHandler
	// The interceptor already logged the panic with its trace id.
	e.Use(echomiddleware.RecoverWithConfig(echomiddleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			return err
		},
	}))
	e.Use(collector.Middleware())
	e.Use(interceptor.Middleware())
	return e
}

func RegisterRoutes(
	e *echo.Echo,
	cfg *config.Config,
	rootHandler *root.Handler,
	healthHandler *health.Handler,
	collector *metrics.Collector,
) {
	e.GET("/", rootHandler.Root)

	api := e.Group("/api/" + cfg.APIVersion)
	api.GET("/healthcheck", healthHandler.Health)

	if collector.Enabled() {
		e.GET("/metrics", echo.WrapHandler(collector.Handler()))
	}
}

func StartServer(lc fx.Lifecycle, e *echo.Echo, cfg *config.Config, logger *logging.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				logger.Info("server starting", zap.String("port", cfg.Port), zap.String("environment", cfg.Environment))
				if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
					logger.Fatal("server failed to start", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return e.Shutdown(ctx)
		},
	})
}
