package logger

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/ofirte/wedding-sub001/internal/config"
)

// New builds the application logger: JSON output in production, console
// output everywhere else. log.level overrides the environment's level.
// Every entry carries the environment and the store driver.
func New(cfg *config.Config) (*zap.Logger, error) {
	zcfg := zap.NewDevelopmentConfig()
	if cfg.Env == "production" {
		zcfg = zap.NewProductionConfig()
	}

	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("parse log level: %w", err)
		}
		zcfg.Level = level
	}

	lg, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("build logger: %w", err)
	}

	return lg.With(
		zap.String("env", cfg.Env),
		zap.String("store", cfg.Store.Driver),
	), nil
}
