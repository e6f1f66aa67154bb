package db

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"
)

// schemaSQL is embedded at compile time from schema.sql
//
//go:embed schema.sql
var schemaSQL string

// timeFormat sorts lexically in time order, so cutoffs can compare text
const timeFormat = "2006-01-02T15:04:05.000000Z"

// DB wraps a SQLite database connection with write serialization
type DB struct {
	conn    *sql.DB
	writeMu sync.Mutex // Serializes all write operations (SQLite has a single writer)
	logger  *zap.Logger
}

var _ Store = (*DB)(nil)

// Connect opens a SQLite database with WAL mode enabled
func Connect(dbPath string, logger *zap.Logger) (*DB, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	dsn := dbPath + "?_journal=WAL&_fk=1&_busy_timeout=5000"
	conn, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection plus writeMu avoids "database is locked" between the loops
	conn.SetMaxOpenConns(1)
	conn.SetMaxIdleConns(1)
	conn.SetConnMaxLifetime(time.Hour)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := conn.Exec(pragma); err != nil {
			logger.Warn("failed to set pragma", zap.String("pragma", pragma), zap.Error(err))
		}
	}

	logger.Info("connected to SQLite database", zap.String("path", dbPath))
	return &DB{conn: conn, logger: logger}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// LockWrite acquires the write mutex. Must be paired with UnlockWrite.
func (db *DB) LockWrite() {
	db.writeMu.Lock()
}

// UnlockWrite releases the write mutex.
func (db *DB) UnlockWrite() {
	db.writeMu.Unlock()
}

// EnsureSchema creates tables if they don't exist
func (db *DB) EnsureSchema(ctx context.Context) error {
	db.LockWrite()
	defer db.UnlockWrite()

	if _, err := db.conn.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	db.logger.Debug("database schema ensured")
	return nil
}

// LastTick returns the last tick saved for loop
func (db *DB) LastTick(ctx context.Context, loop string) (int64, bool, error) {
	var tick int64
	err := db.conn.QueryRowContext(ctx, "SELECT tick FROM loop_ticks WHERE loop = ?", loop).Scan(&tick)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query last tick: %w", err)
	}
	return tick, true, nil
}

// SaveTick upserts the last processed tick for loop
func (db *DB) SaveTick(ctx context.Context, loop string, tick int64) error {
	db.LockWrite()
	defer db.UnlockWrite()

	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO loop_ticks (loop, tick, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(loop) DO UPDATE SET tick = excluded.tick, updated_at = excluded.updated_at`,
		loop, tick, formatTime(time.Now()),
	)
	if err != nil {
		return fmt.Errorf("failed to save tick: %w", err)
	}
	return nil
}

// SavePost inserts a post record
func (db *DB) SavePost(ctx context.Context, post *Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.PostedAt.IsZero() {
		post.PostedAt = time.Now().UTC()
	}

	db.LockWrite()
	defer db.UnlockWrite()

	_, err := db.conn.ExecContext(ctx,
		"INSERT INTO posts (post_id, loop, message_id, tick, posted_at) VALUES (?, ?, ?, ?, ?)",
		post.ID, post.Loop, post.MessageID, post.Tick, formatTime(post.PostedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

// PendingPosts lists posts of loop that have not been edited yet
func (db *DB) PendingPosts(ctx context.Context, loop string) ([]Post, error) {
	rows, err := db.conn.QueryContext(ctx, `
		SELECT post_id, loop, message_id, tick, posted_at
		FROM posts
		WHERE loop = ? AND edited_at IS NULL
		ORDER BY tick, posted_at`, loop)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var postedAt string
		if err := rows.Scan(&p.ID, &p.Loop, &p.MessageID, &p.Tick, &postedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		if p.PostedAt, err = time.Parse(timeFormat, postedAt); err != nil {
			return nil, fmt.Errorf("failed to parse posted_at %q: %w", postedAt, err)
		}
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

// MarkPostEdited records that a post was rewritten at the given time
func (db *DB) MarkPostEdited(ctx context.Context, id string, at time.Time) error {
	db.LockWrite()
	defer db.UnlockWrite()

	result, err := db.conn.ExecContext(ctx, "UPDATE posts SET edited_at = ? WHERE post_id = ?", formatTime(at), id)
	if err != nil {
		return fmt.Errorf("failed to mark post edited: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return fmt.Errorf("failed to mark post edited: post %s not found", id)
	}
	return nil
}

// Cleanup deletes edited posts older than retention
func (db *DB) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := formatTime(time.Now().Add(-retention))

	db.LockWrite()
	defer db.UnlockWrite()

	result, err := db.conn.ExecContext(ctx,
		"DELETE FROM posts WHERE edited_at IS NOT NULL AND edited_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup posts: %w", err)
	}
	deleted, _ := result.RowsAffected()
	if deleted > 0 {
		db.logger.Info("cleanup deleted posts",
			zap.Int64("deleted", deleted),
			zap.Duration("retention", retention))
	}
	return deleted, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeFormat)
}
