// Package sqlite implements the repository interfaces on SQLite.
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// SQLite: no C toolchain, works everywhere Go works, same driver interface
// through database/sql.
//
// The store holds four independent tables (users, events, visits, reviews).
// Every query is an exact-match filter plus, for visits, a timestamp DESC
// sort. Each statement is individually atomic; nothing here needs a
// multi-row transaction.
package sqlite

import (
	"database/sql"
	"fmt"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init function.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool. The per-table repositories (UserDB,
// EventDB, VisitDB, ReviewDB) are thin views over the same pool, handed out
// by the accessor methods below. The tables share a connection, a migration
// step, and a lifecycle.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this connection.
func (db *DB) Users() *UserDB { return &UserDB{conn: db.conn} }

// Events returns the event repository backed by this connection.
func (db *DB) Events() *EventDB { return &EventDB{conn: db.conn} }

// Visits returns the visit repository backed by this connection.
func (db *DB) Visits() *VisitDB { return &VisitDB{conn: db.conn} }

// Reviews returns the review repository backed by this connection.
func (db *DB) Reviews() *ReviewDB { return &ReviewDB{conn: db.conn} }

// New opens (or creates) the database at dbPath and runs migrations.
// Use ":memory:" in tests for a throwaway database.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	// sql.Open doesn't actually connect; Ping forces the first connection so
	// a bad path or permission problem surfaces here, not on the first query.
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL allows concurrent reads while a write is in flight, and this is a web
	// server, requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

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

// Close closes the connection pool. Callers must defer this next to New.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the tables. CREATE TABLE IF NOT EXISTS keeps this
// idempotent, so it's safe to run on every start.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id         TEXT PRIMARY KEY,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL UNIQUE,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			latitude      REAL NOT NULL,
			longitude     REAL NOT NULL,
			image_url     TEXT NOT NULL DEFAULT '',
			creator_email TEXT NOT NULL,
			creator_name  TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_events_creator_email ON events(creator_email);
	`)
	if err != nil {
		return fmt.Errorf("creating events table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS visits (
			id            TEXT PRIMARY KEY,
			host_email    TEXT NOT NULL,
			visitor_name  TEXT NOT NULL,
			visitor_email TEXT NOT NULL,
			timestamp     DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_visits_host_email ON visits(host_email, timestamp);
	`)
	if err != nil {
		return fmt.Errorf("creating visits table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS reviews (
			id                 TEXT PRIMARY KEY,
			establishment_name TEXT NOT NULL,
			address            TEXT NOT NULL,
			latitude           REAL NOT NULL,
			longitude          REAL NOT NULL,
			rating             INTEGER NOT NULL,
			author_name        TEXT NOT NULL,
			author_email       TEXT NOT NULL,
			access_token       TEXT NOT NULL,
			token_issued_at    DATETIME NOT NULL,
			token_expires_at   DATETIME NOT NULL,
			image_url          TEXT NOT NULL DEFAULT '',
			created_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at         DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_reviews_created_at ON reviews(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating reviews table: %w", err)
	}

	return nil
}
