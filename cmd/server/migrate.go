package main

import (
	"context"

	"github.com/soaringjerry/Mindtrack/internal/config"
	"github.com/soaringjerry/Mindtrack/internal/db"
	"github.com/soaringjerry/Mindtrack/internal/logging"
)

// migrate opens the configured store, which applies pending migrations,
// and closes it again.
func migrate(ctx context.Context, cfg *config.Config, logger *logging.ZapLogger) error {
	if cfg.Backend == db.BackendMemory {
		logger.Infof("memory backend has no schema; nothing to migrate")
		return nil
	}
	store, err := db.Open(ctx, storeOptions(cfg), logger.Named("store"))
	if err != nil {
		return err
	}
	logger.Infof("%s schema is up to date", cfg.Backend)
	return store.Close()
}
