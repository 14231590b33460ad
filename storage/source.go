package storage

import (
	"context"
	"fmt"
	"time"

	"shoe-report/config"
	"shoe-report/utils"
)

// OpenSource returns the TableSource selected by cfg.DataSource.
func OpenSource(ctx context.Context, cfg *config.Config, logger *utils.Logger) (TableSource, error) {
	switch cfg.DataSource {
	case config.SourceCSV:
		return NewCSVSource(cfg.DataPath), nil
	case config.SourcePostgres:
		retry := &utils.RetryConfig{
			MaxAttempts: cfg.MaxRetries,
			BaseDelay:   2 * time.Second,
			Logger:      logger,
		}
		return NewPostgresStore(ctx, cfg.DSN(), retry, logger)
	case config.SourceSQLite:
		return NewSQLiteStore(ctx, cfg.SQLitePath, logger)
	default:
		return nil, fmt.Errorf("storage: unknown data source %q", cfg.DataSource)
	}
}
