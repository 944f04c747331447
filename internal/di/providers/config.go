// Package providers holds the samber/do providers that build pagetrail's
// long-lived components.
package providers

import (
	"github.com/samber/do/v2"

	"github.com/listenupapp/pagetrail/internal/config"
	"github.com/listenupapp/pagetrail/internal/logger"
)

// ProvideConfig loads configuration from the process arguments.
func ProvideConfig(_ do.Injector) (*config.Config, error) {
	return config.LoadConfig()
}

// ProvideLogger builds the root logger. Source locations are only attached
// outside production.
func ProvideLogger(i do.Injector) (*logger.Logger, error) {
	cfg := do.MustInvoke[*config.Config](i)

	log := logger.New(logger.Config{
		Level:       logger.ParseLevel(cfg.Logger.Level),
		AddSource:   cfg.App.Environment != "production",
		Environment: cfg.App.Environment,
	})

	log.Info("pagetrail configured",
		"env", cfg.App.Environment,
		"level", cfg.Logger.Level,
		"storage", cfg.Storage.Driver,
		"data_path", cfg.Storage.DataPath,
		"port", cfg.Server.Port,
	)
	return log, nil
}
