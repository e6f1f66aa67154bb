// Package db persists what the notification loops last processed and
// posted, so a restart neither re-posts nor misses a cycle.
package db

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
)

// Loop names used as bookkeeping keys
const (
	LoopEureka = "eureka"
	LoopOcean  = "ocean"
)

// Post is a chat message that the next tick rewrites into its historical form
type Post struct {
	ID        string
	Loop      string
	MessageID string
	// Tick is the cycle the post describes: virtual seconds for eureka,
	// Unix seconds for ocean.
	Tick     int64
	PostedAt time.Time
	EditedAt *time.Time
}

// Store is the bookkeeping the loops need
type Store interface {
	// LastTick returns the last tick saved for loop. The eureka loop saves
	// processed cycle starts; the ocean loop saves announced departures.
	LastTick(ctx context.Context, loop string) (int64, bool, error)
	SaveTick(ctx context.Context, loop string, tick int64) error

	// SavePost records a post, assigning an ID if empty
	SavePost(ctx context.Context, post *Post) error
	// PendingPosts lists posts of loop not yet edited, oldest first
	PendingPosts(ctx context.Context, loop string) ([]Post, error)
	MarkPostEdited(ctx context.Context, id string, at time.Time) error

	// Cleanup deletes edited posts older than retention
	Cleanup(ctx context.Context, retention time.Duration) (int64, error)
	Close() error
}

// Drivers accepted by Open
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

// Open connects to the configured store and ensures its schema
func Open(ctx context.Context, driver, sqlitePath, databaseURL string, logger *zap.Logger) (Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch driver {
	case DriverSQLite, "":
		db, err := Connect(sqlitePath, logger)
		if err != nil {
			return nil, err
		}
		if err := db.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, err
		}
		return db, nil
	case DriverPostgres:
		pg, err := ConnectPostgres(ctx, databaseURL, logger)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(ctx); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}
}
