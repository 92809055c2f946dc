package store

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/black-lotus-01/data-organizer/internal/config"
	"github.com/black-lotus-01/data-organizer/internal/organizer"
)

// NewStoreFromConfig creates a StateStore based on the store config type.
func NewStoreFromConfig(cfg config.StoreConfig) (organizer.StateStore, error) {
	switch cfg.Type {
	case "memory":
		return NewMemoryStore(), nil
	case "sqlite":
		if cfg.DataDir == "" {
			return nil, fmt.Errorf("sqlite store requires data_dir to be set")
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
		return NewSQLiteStore(filepath.Join(cfg.DataDir, "organizer.db"))
	default:
		return nil, fmt.Errorf("unknown store type: %s", cfg.Type)
	}
}
