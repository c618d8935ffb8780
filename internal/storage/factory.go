package storage

import (
	"context"
	"fmt"

	"github.com/hrcadm/sleeptracker/internal"
	"github.com/hrcadm/sleeptracker/internal/config"
)

// New selects the storage backend from configuration.
func New(ctx context.Context, cfg *config.Config, logger internal.Logger) (Store, error) {
	switch cfg.StorageBackend {
	case "postgres":
		return NewPostgresStore(ctx, cfg.DatabaseURL, logger)
	case "file":
		return NewFileStore(cfg.UsersFile, cfg.SleepFile, cfg.LogsFile, logger)
	default:
		return nil, fmt.Errorf("storage: unknown backend %q", cfg.StorageBackend)
	}
}
