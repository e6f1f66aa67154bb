package db

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

//go:embed schema_postgres.sql
var postgresSchemaSQL string

// PostgresStore keeps the bookkeeping in PostgreSQL
type PostgresStore struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

var _ Store = (*PostgresStore)(nil)

// ConnectPostgres opens a connection pool and checks it with a ping
func ConnectPostgres(ctx context.Context, databaseURL string, logger *zap.Logger) (*PostgresStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create connection pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logger.Info("connected to PostgreSQL database")
	return &PostgresStore{pool: pool, logger: logger}, nil
}

// Close closes the pool
func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

// EnsureSchema creates tables if they don't exist
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, postgresSchemaSQL); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func (s *PostgresStore) LastTick(ctx context.Context, loop string) (int64, bool, error) {
	var tick int64
	err := s.pool.QueryRow(ctx, "SELECT tick FROM loop_ticks WHERE loop = $1", loop).Scan(&tick)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("failed to query last tick: %w", err)
	}
	return tick, true, nil
}

func (s *PostgresStore) SaveTick(ctx context.Context, loop string, tick int64) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO loop_ticks (loop, tick, updated_at) VALUES ($1, $2, NOW())
		ON CONFLICT (loop) DO UPDATE SET tick = EXCLUDED.tick, updated_at = EXCLUDED.updated_at`,
		loop, tick)
	if err != nil {
		return fmt.Errorf("failed to save tick: %w", err)
	}
	return nil
}

func (s *PostgresStore) SavePost(ctx context.Context, post *Post) error {
	if post.ID == "" {
		post.ID = uuid.New().String()
	}
	if post.PostedAt.IsZero() {
		post.PostedAt = time.Now().UTC()
	}

	_, err := s.pool.Exec(ctx,
		"INSERT INTO posts (post_id, loop, message_id, tick, posted_at) VALUES ($1, $2, $3, $4, $5)",
		post.ID, post.Loop, post.MessageID, post.Tick, post.PostedAt)
	if err != nil {
		return fmt.Errorf("failed to save post: %w", err)
	}
	return nil
}

func (s *PostgresStore) PendingPosts(ctx context.Context, loop string) ([]Post, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT post_id, loop, message_id, tick, posted_at
		FROM posts
		WHERE loop = $1 AND edited_at IS NULL
		ORDER BY tick, posted_at`, loop)
	if err != nil {
		return nil, fmt.Errorf("failed to query pending posts: %w", err)
	}
	defer rows.Close()

	var posts []Post
	for rows.Next() {
		var p Post
		var id uuid.UUID
		if err := rows.Scan(&id, &p.Loop, &p.MessageID, &p.Tick, &p.PostedAt); err != nil {
			return nil, fmt.Errorf("failed to scan post: %w", err)
		}
		p.ID = id.String()
		p.PostedAt = p.PostedAt.UTC()
		posts = append(posts, p)
	}
	return posts, rows.Err()
}

func (s *PostgresStore) MarkPostEdited(ctx context.Context, id string, at time.Time) error {
	tag, err := s.pool.Exec(ctx, "UPDATE posts SET edited_at = $1 WHERE post_id = $2", at, id)
	if err != nil {
		return fmt.Errorf("failed to mark post edited: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to mark post edited: post %s not found", id)
	}
	return nil
}

func (s *PostgresStore) Cleanup(ctx context.Context, retention time.Duration) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		"DELETE FROM posts WHERE edited_at IS NOT NULL AND edited_at < $1",
		time.Now().Add(-retention))
	if err != nil {
		return 0, fmt.Errorf("failed to cleanup posts: %w", err)
	}
	if n := tag.RowsAffected(); n > 0 {
		s.logger.Info("cleanup deleted posts", zap.Int64("deleted", n), zap.Duration("retention", retention))
	}
	return tag.RowsAffected(), nil
}
