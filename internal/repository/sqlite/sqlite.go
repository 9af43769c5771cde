// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// The app is a single-server deployment with per-user rows and no cross-user
// queries of any size. An embedded database in the binary means nothing to
// install or operate, and ":memory:" gives fast hermetic tests.
//
// WHY modernc.org/sqlite?
// It is a pure Go translation of SQLite — no CGo, no C compiler, trivial
// cross-compilation. The driver registers itself as "sqlite" via the blank
// import below.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and implements every repository
// interface in the repository package.
type DB struct {
	conn *sql.DB
}

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" for an ephemeral database in tests.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads during a write, which a web server needs.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are off by default in SQLite.
	if _, err := conn.Exec("PRAGMA foreign_keys=ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: enabling foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: running migrations: %w", err)
	}

	return db, nil
}

// Close closes the connection pool.
func (db *DB) Close() error {
	return db.conn.Close()
}

// Ping verifies the database is reachable. Used by the health endpoint.
func (db *DB) Ping(ctx context.Context) error {
	return db.conn.PingContext(ctx)
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS keeps this safe
// to run on every start; a schema change beyond adding tables would move
// to a real migration tool.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id                TEXT PRIMARY KEY,
			email             TEXT NOT NULL UNIQUE,
			name              TEXT NOT NULL DEFAULT '',
			password_hash     TEXT NOT NULL,
			api_key_encrypted TEXT NOT NULL DEFAULT '',
			linkedin_enabled  INTEGER NOT NULL DEFAULT 0,
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	// One row per user; the four flags mirror model.OnboardingState.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS onboarding_states (
			user_id             TEXT PRIMARY KEY REFERENCES users(id) ON DELETE CASCADE,
			api_key_submitted   INTEGER NOT NULL DEFAULT 0,
			resume_uploaded     INTEGER NOT NULL DEFAULT 0,
			linkedin_enabled    INTEGER NOT NULL DEFAULT 0,
			onboarding_complete INTEGER NOT NULL DEFAULT 0,
			updated_at          DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating onboarding_states table: %w", err)
	}

	// requirements and generated_content are stored as JSON text —
	// they're read and written whole, never queried into.
	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS jobs (
			id                TEXT PRIMARY KEY,
			user_id           TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title             TEXT NOT NULL,
			company           TEXT NOT NULL,
			location          TEXT NOT NULL DEFAULT '',
			salary            TEXT NOT NULL DEFAULT '',
			description       TEXT NOT NULL DEFAULT '',
			requirements      TEXT NOT NULL DEFAULT '[]',
			url               TEXT NOT NULL DEFAULT '',
			stage             TEXT NOT NULL DEFAULT 'saved',
			notes             TEXT NOT NULL DEFAULT '',
			generated_content TEXT,
			created_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at        DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_jobs_user_id ON jobs(user_id);
		CREATE INDEX IF NOT EXISTS idx_jobs_user_stage ON jobs(user_id, stage);
	`)
	if err != nil {
		return fmt.Errorf("creating jobs table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS resumes (
			id          TEXT PRIMARY KEY,
			user_id     TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			filename    TEXT NOT NULL,
			file_size   INTEGER NOT NULL,
			parsed_data TEXT NOT NULL DEFAULT '{}',
			created_at  DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_resumes_user_created ON resumes(user_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating resumes table: %w", err)
	}

	return nil
}
