package logging

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/tech-arch1tect/ultimate-logging/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var Module = fx.Options(
	fx.Provide(NewServiceFromConfig),
	fx.Provide(NewLoggerFromConfig),
	fx.Provide(NewRedactorFromConfig),
	fx.Provide(NewInterceptorFromConfig),
	fx.Invoke(RegisterShutdown),
	fx.Invoke(RegisterLoggerShutdown),
	fx.Invoke(RegisterRotateSignal),
)

func NewServiceFromConfig(cfg *config.Config) (*Service, error) {
	return NewService(cfg.IsDeployed(), cfg.LogFilePath)
}

func NewLoggerFromConfig(cfg *config.Config, service *Service) (*Logger, error) {
	level := zapcore.InfoLevel
	if cfg.Debug {
		level = zapcore.DebugLevel
	}
	if cfg.LogLevel != "" {
		parsed, err := parseLogLevel(cfg.LogLevel)
		if err != nil {
			return nil, err
		}
		level = parsed
	}

	return NewLogger(MetaFromConfig(cfg), level, service.Sinks()...), nil
}

func NewRedactorFromConfig(cfg *config.Config) *Redactor {
	return NewRedactor(cfg.RedactMaskHeaders, cfg.RedactDropHeaders)
}

func NewInterceptorFromConfig(cfg *config.Config, logger *Logger, redactor *Redactor) *Interceptor {
	return NewInterceptor(logger, redactor, InterceptorOptions{
		Exemptions:         DefaultExemptions(cfg.APIVersion),
		CaptureRequestBody: cfg.LogRequestBody,
		DefaultHost:        "localhost:" + cfg.Port,
	})
}

func MetaFromConfig(cfg *config.Config) AppMeta {
	return AppMeta{
		Name:        cfg.ProjectName,
		Version:     cfg.APIVersion,
		Environment: cfg.Environment,
	}
}

func RegisterShutdown(lc fx.Lifecycle, service *Service) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return service.Close()
		},
	})
}

func RegisterLoggerShutdown(lc fx.Lifecycle, logger *Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			_ = logger.Sync()
			return nil
		},
	})
}

// RegisterRotateSignal reopens the log file on SIGHUP so external tools can
// move it aside.
func RegisterRotateSignal(lc fx.Lifecycle, service *Service, logger *Logger) {
	signals := make(chan os.Signal, 1)
	done := make(chan struct{})
	stopped := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			signal.Notify(signals, syscall.SIGHUP)
			go func() {
				defer close(stopped)
				rotateOnSignal(service, logger, signals, done)
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			signal.Stop(signals)
			close(done)
			<-stopped
			return nil
		},
	})
}

func rotateOnSignal(service *Service, logger *Logger, signals <-chan os.Signal, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case sig := <-signals:
			if err := service.Rotate(); err != nil {
				logger.Error("log rotation failed", zap.Error(err))
				continue
			}
			logger.Info("log file rotated", zap.String("signal", sig.String()))
		}
	}
}
