package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"

	"fitlife-bot/config"
)

// SQLiteBackend keeps all users in a single local file.
type SQLiteBackend struct {
	db *sql.DB
}

func NewSQLiteBackend(ctx context.Context, cfg config.SQLiteConfig) (*SQLiteBackend, error) {
	db, err := sql.Open("sqlite", cfg.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}
	// One writer at a time.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("failed to set %q: %w", pragma, err)
		}
	}

	schema := `
        CREATE TABLE IF NOT EXISTS user_state (
            user_id    INTEGER NOT NULL,
            namespace  TEXT    NOT NULL,
            payload    TEXT    NOT NULL,
            updated_at TEXT    NOT NULL DEFAULT CURRENT_TIMESTAMP,
            PRIMARY KEY (user_id, namespace)
        )
    `
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create user_state table: %w", err)
	}

	return &SQLiteBackend{db: db}, nil
}

func (s *SQLiteBackend) Get(ctx context.Context, userID int64, ns Namespace) ([]byte, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM user_state WHERE user_id = ? AND namespace = ?`,
		userID, string(ns),
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s for user %d: %w", ns, userID, err)
	}
	return []byte(payload), nil
}

func (s *SQLiteBackend) Put(ctx context.Context, userID int64, ns Namespace, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO user_state (user_id, namespace, payload)
        VALUES (?, ?, ?)
        ON CONFLICT (user_id, namespace) DO UPDATE
        SET payload = excluded.payload, updated_at = CURRENT_TIMESTAMP
    `, userID, string(ns), string(data))
	if err != nil {
		return fmt.Errorf("failed to save %s for user %d: %w", ns, userID, err)
	}
	return nil
}

func (s *SQLiteBackend) Close() error {
	return s.db.Close()
}
