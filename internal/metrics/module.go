package metrics

import (
	"github.com/tech-arch1tect/ultimate-logging/config"

	"go.uber.org/fx"
)

var Module = fx.Options(
	fx.Provide(NewCollectorFromConfig),
)

func NewCollectorFromConfig(cfg *config.Config) *Collector {
	return NewCollector(cfg.PrometheusEnabled, cfg.ProjectName)
}
