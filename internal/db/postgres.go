package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4"
	"github.com/jackc/pgx/v4/pgxpool"

	"fitlife-bot/config"
)

type PostgresBackend struct {
	pool *pgxpool.Pool
}

func NewPostgresBackend(cfg config.DBConfig) (*PostgresBackend, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%s user=%s password=%s dbname=%s sslmode=%s pool_max_conns=%d",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode, cfg.MaxOpenConns,
	)

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DB connection string: %w", err)
	}

	// Set connection pool parameters
	poolConfig.MaxConns = int32(cfg.MaxOpenConns)
	poolConfig.MinConns = int32(cfg.MaxIdleConns)
	poolConfig.MaxConnLifetime = cfg.ConnLifetime
	poolConfig.MaxConnIdleTime = 15 * time.Minute

	// Connect with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.ConnectConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &PostgresBackend{pool: pool}, nil
}

// Migrate creates the state table if it does not exist yet.
func (db *PostgresBackend) Migrate(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS user_state (
            user_id    BIGINT      NOT NULL,
            namespace  TEXT        NOT NULL,
            payload    JSONB       NOT NULL,
            updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
            PRIMARY KEY (user_id, namespace)
        )
    `
	if _, err := db.pool.Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create user_state table: %w", err)
	}
	return nil
}

func (db *PostgresBackend) Get(ctx context.Context, userID int64, ns Namespace) ([]byte, error) {
	query := `
        SELECT payload
        FROM user_state
        WHERE user_id = $1 AND namespace = $2
    `

	var payload []byte
	err := db.pool.QueryRow(ctx, query, userID, string(ns)).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s for user %d: %w", ns, userID, err)
	}
	return payload, nil
}

func (db *PostgresBackend) Put(ctx context.Context, userID int64, ns Namespace, data []byte) error {
	query := `
        INSERT INTO user_state (user_id, namespace, payload)
        VALUES ($1, $2, $3::jsonb)
        ON CONFLICT (user_id, namespace) DO UPDATE
        SET payload = EXCLUDED.payload, updated_at = NOW()
    `

	if _, err := db.pool.Exec(ctx, query, userID, string(ns), string(data)); err != nil {
		return fmt.Errorf("failed to save %s for user %d: %w", ns, userID, err)
	}
	return nil
}

func (db *PostgresBackend) Close() error {
	if db.pool != nil {
		db.pool.Close()
	}
	return nil
}
