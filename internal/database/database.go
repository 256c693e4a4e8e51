package database

import (
	"database/sql"
	"fmt"
	"log"

	_ "github.com/lib/pq"
)

// DB wraps the database connection
type DB struct {
	conn *sql.DB
}

// New creates a new database connection
func New(dsn string) (*DB, error) {
	conn, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	db := &DB{conn: conn}

	if err := db.createTables(); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	if err := db.migrateSchema(); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return db, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.conn.Close()
}

// GetConnection returns the underlying database connection
func (db *DB) GetConnection() *sql.DB {
	return db.conn
}

// createTables creates the necessary tables
func (db *DB) createTables() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS voice_sessions (
			id TEXT PRIMARY KEY,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			username TEXT NOT NULL,
			channel_id TEXT NOT NULL,
			channel_name TEXT NOT NULL,
			join_time TIMESTAMPTZ NOT NULL,
			leave_time TIMESTAMPTZ,
			duration BIGINT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_voice_sessions_guild ON voice_sessions (guild_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voice_sessions_user ON voice_sessions (user_id)`,
		`CREATE TABLE IF NOT EXISTS voice_logs (
			id BIGSERIAL PRIMARY KEY,
			guild_id TEXT NOT NULL,
			user_id TEXT NOT NULL,
			username TEXT NOT NULL,
			channel_id TEXT,
			channel_name TEXT,
			action TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT now(),
			details TEXT
		)`,
		`CREATE INDEX IF NOT EXISTS idx_voice_logs_guild ON voice_logs (guild_id)`,
		`CREATE INDEX IF NOT EXISTS idx_voice_logs_user ON voice_logs (user_id)`,
		`CREATE TABLE IF NOT EXISTS voice_logger_settings (
			guild_id TEXT PRIMARY KEY,
			log_channel_id TEXT,
			enabled BOOLEAN NOT NULL DEFAULT TRUE,
			log_join BOOLEAN NOT NULL DEFAULT TRUE,
			log_leave BOOLEAN NOT NULL DEFAULT TRUE,
			log_move BOOLEAN NOT NULL DEFAULT TRUE,
			log_mute BOOLEAN NOT NULL DEFAULT TRUE,
			log_deaf BOOLEAN NOT NULL DEFAULT TRUE,
			log_stream BOOLEAN NOT NULL DEFAULT TRUE,
			log_video BOOLEAN NOT NULL DEFAULT TRUE
		)`,
	}

	for _, query := range queries {
		if _, err := db.conn.Exec(query); err != nil {
			return fmt.Errorf("failed to create table: %w", err)
		}
	}

	return nil
}

// migrateSchema handles database schema migrations
func (db *DB) migrateSchema() error {
	migrations := []string{
		// Early deployments stored duration as INT; widen it.
		`ALTER TABLE voice_sessions ALTER COLUMN duration TYPE BIGINT`,

		// username was added after the first release; backfill with the user id.
		`ALTER TABLE voice_sessions ADD COLUMN IF NOT EXISTS username TEXT`,
		`UPDATE voice_sessions SET username = user_id WHERE username IS NULL`,
		`ALTER TABLE voice_sessions ALTER COLUMN username SET NOT NULL`,
		`ALTER TABLE voice_logs ADD COLUMN IF NOT EXISTS username TEXT`,
		`UPDATE voice_logs SET username = user_id WHERE username IS NULL`,
		`ALTER TABLE voice_logs ALTER COLUMN username SET NOT NULL`,
	}

	for _, migration := range migrations {
		if _, err := db.conn.Exec(migration); err != nil {
			log.Printf("Warning: Migration failed (this might be expected): %v", err)
		}
	}

	return nil
}
