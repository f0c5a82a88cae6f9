package main

import (
	"context"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/dukex/betula/pkg/config"
	"github.com/dukex/betula/pkg/log"
	"github.com/dukex/betula/pkg/persistence"
	"github.com/dukex/betula/pkg/persistence/file"
	"github.com/dukex/betula/pkg/persistence/postgresql"
	"github.com/dukex/betula/pkg/registry"
	"github.com/dukex/betula/pkg/treesupport"
)

func loadConfig(configPath, logLevel string) (config.RunnerConfig, *logrus.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.RunnerConfig{}, nil, err
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}

	logger := log.Setup(cfg.LogLevel)

	return cfg, logger, nil
}

func buildTreeSupport(cfg config.RunnerConfig, logger *logrus.Logger) (*treesupport.TreeSupport, error) {
	support := treesupport.New()

	registry.RegisterStockTypes(support, logger)

	if err := registry.LoadPlugins(support, cfg.PluginDir, logger); err != nil {
		return nil, fmt.Errorf("betula: loading plugins: %w", err)
	}

	return support, nil
}

func buildRepository(ctx context.Context, cfg config.RunnerConfig, logger *logrus.Logger) (persistence.Repository, error) {
	switch cfg.Persistence {
	case "postgresql":
		databaseURL := os.Getenv("DATABASE_URL")
		if databaseURL == "" {
			return nil, fmt.Errorf("betula: DATABASE_URL is required for the postgresql persistence backend")
		}

		return postgresql.New(ctx, logger, databaseURL)
	default:
		return file.NewRepository(cfg.ProjectDir), nil
	}
}
