// Package state persists users, operations, operation logs and pool
// metric bundles in PostgreSQL.
package state

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/poolscout/poolscout/internal/logger"
)

var stateLogger = logger.GetForComponent("state")

// DBConfig holds the connection settings for the Postgres store.
type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
}

// Store wraps the database handle. All persistence goes through it.
type Store struct {
	db *sqlx.DB
}

// Open connects to Postgres and verifies the connection.
func Open(cfg DBConfig) (*Store, error) {
	if cfg.SSLMode == "" {
		cfg.SSLMode = "disable"
	}
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.Name, cfg.SSLMode,
	)

	db, err := sqlx.Connect("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	stateLogger.Info().Str("host", cfg.Host).Str("database", cfg.Name).Msg("Connected to database")
	return &Store{db: db}, nil
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// EnsureSchema creates the tables used by the service if they do not
// already exist.
func (s *Store) EnsureSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		user_id_raw TEXT PRIMARY KEY,
		user_id UUID UNIQUE NOT NULL,
		delegated_wallet_hash TEXT NOT NULL DEFAULT '',
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS operations (
		operation_id UUID PRIMARY KEY,
		user_id UUID NOT NULL REFERENCES users(user_id),
		operation_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		invested_amount DOUBLE PRECISION NOT NULL DEFAULT 0,
		risky_investment DOUBLE PRECISION NOT NULL DEFAULT 0,
		non_risky_investment DOUBLE PRECISION NOT NULL DEFAULT 0,
		log_id TEXT,
		status TEXT NOT NULL,
		recommended_pools JSONB,
		profit DOUBLE PRECISION NOT NULL DEFAULT 0,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE TABLE IF NOT EXISTS operations_logs (
		log_id UUID PRIMARY KEY,
		operation_id UUID NOT NULL REFERENCES operations(operation_id),
		description TEXT NOT NULL,
		create_date TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		step_number INT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		UNIQUE (operation_id, step_number)
	);

	CREATE TABLE IF NOT EXISTS pools (
		pool_id TEXT PRIMARY KEY,
		pool JSONB NOT NULL,
		token_quality JSONB,
		impermanent_loss JSONB,
		token_correlation JSONB,
		tokens_volatility JSONB,
		pool_growth_trend JSONB,
		apy_volatility JSONB,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	);

	CREATE INDEX IF NOT EXISTS idx_operations_user_id ON operations(user_id);
	CREATE INDEX IF NOT EXISTS idx_operations_status ON operations(status);
	CREATE INDEX IF NOT EXISTS idx_operations_logs_operation_id ON operations_logs(operation_id);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	stateLogger.Info().Msg("Database schema verified")
	return nil
}

// ResetSchema drops every table and recreates the schema. Used by the
// reset script only.
func (s *Store) ResetSchema() error {
	drop := `
	DROP TABLE IF EXISTS operations_logs CASCADE;
	DROP TABLE IF EXISTS operations CASCADE;
	DROP TABLE IF EXISTS users CASCADE;
	DROP TABLE IF EXISTS pools CASCADE;
	`
	if _, err := s.db.Exec(drop); err != nil {
		return fmt.Errorf("failed to drop tables: %w", err)
	}
	stateLogger.Info().Msg("Dropped all tables")
	return s.EnsureSchema()
}
