// Package store persists the link snapshot between runs.
package store

import (
	"context"
	"fmt"

	"link-notifier/config"
	"link-notifier/db"
	"link-notifier/models"

	"github.com/rs/zerolog"
)

// Store reads and replaces the single link snapshot
type Store interface {
	// Read returns the persisted links, or an empty set when no snapshot exists
	Read(ctx context.Context) (models.LinkSet, error)
	// Write replaces the snapshot with links
	Write(ctx context.Context, links models.LinkSet) error
	Close() error
}

// Open creates the Store selected by cfg.Driver
func Open(ctx context.Context, cfg config.StoreConfig, log zerolog.Logger) (Store, error) {
	switch cfg.Driver {
	case "", "csv":
		return NewCSVStore(cfg.Path, log), nil
	case "sqlite":
		return openDB(ctx, db.DriverSQLite, cfg.Path, log)
	case "postgres":
		return openDB(ctx, db.DriverPostgres, cfg.DSN, log)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Driver)
	}
}

func openDB(ctx context.Context, driver, dsn string, log zerolog.Logger) (Store, error) {
	conn, err := db.Open(ctx, driver, dsn, log)
	if err != nil {
		return nil, err
	}
	return conn, nil
}
