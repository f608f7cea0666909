// Package sqlite implements the repository interfaces using SQLite as the
// storage backend.
//
// WHY SQLITE?
// SQLite is an embedded database — it lives inside the Go binary as a single
// file. No separate database server to install, configure, or manage. That
// fits this app exactly: a single-server community site whose default store
// is a local file (override with DB_PATH for real deployments, or use
// ":memory:" in tests).
//
// WHY modernc.org/sqlite INSTEAD OF github.com/mattn/go-sqlite3?
// mattn/go-sqlite3 uses CGo, which needs a C compiler and makes
// cross-compilation painful. modernc.org/sqlite is a pure Go translation of
// the SQLite sources — works everywhere Go works.
package sqlite

import (
	"database/sql"
	"fmt"
	"strings"

	// Blank import: the driver registers itself with database/sql under the
	// name "sqlite" in its init(). We never use its symbols directly.
	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB connection pool and hands out the per-table
// repositories (Users, Mentorships, Messages). One owner for the pool keeps
// the wiring in server.go to a single value and lets the tables share a
// migration; the sub-repositories are cheap views over the same pool.
type DB struct {
	conn *sql.DB
}

// Users returns the user repository backed by this pool.
func (db *DB) Users() *UserDB {
	return &UserDB{conn: db.conn}
}

// Mentorships returns the mentorship-request repository backed by this pool.
func (db *DB) Mentorships() *MentorshipDB {
	return &MentorshipDB{conn: db.conn}
}

// Messages returns the message repository backed by this pool.
func (db *DB) Messages() *MessageDB {
	return &MessageDB{conn: db.conn}
}

// New opens (or creates) the database at dbPath, configures it, and runs the
// schema migration.
//
// sql.Open does not actually connect — the pool connects lazily on first
// use. Ping forces an immediate connection so a bad path or permissions
// problem surfaces at startup rather than on the first request.
func New(dbPath string) (*DB, error) {
	conn, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("sqlite: opening database: %w", err)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: pinging database: %w", err)
	}

	// WAL mode allows concurrent reads while a write is in progress —
	// important for a web server where requests overlap.
	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("sqlite: setting WAL mode: %w", err)
	}

	// Foreign keys are OFF by default in SQLite. We need them ON: messages
	// reference their request with ON DELETE CASCADE, and requests reference
	// users. Without this pragma the cascade never fires.
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

// Close closes the connection pool. The server defers this on shutdown so
// the WAL is flushed and the file lock released.
func (db *DB) Close() error {
	return db.conn.Close()
}

// migrate creates the schema. CREATE TABLE IF NOT EXISTS makes it idempotent
// — safe to run on every startup against an existing database.
//
// SCHEMA NOTES:
//   - users.email is UNIQUE with COLLATE NOCASE: the store itself rejects
//     "Ada@x.com" after "ada@x.com" registered, independent of the service's
//     normalisation.
//   - messages.mentorship_id carries ON DELETE CASCADE: a request
//     exclusively owns its messages, so deleting the request removes them.
//   - mentorship_requests.mentor_id/mentee_id are plain RESTRICT foreign
//     keys — users are never deleted in this app, requests must not vanish
//     behind their participants' backs.
func (db *DB) migrate() error {
	_, err := db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS users (
			id            TEXT PRIMARY KEY,
			name          TEXT NOT NULL,
			email         TEXT NOT NULL UNIQUE COLLATE NOCASE,
			role          TEXT NOT NULL,
			bio           TEXT NOT NULL DEFAULT '',
			skills        TEXT NOT NULL DEFAULT '',
			availability  TEXT NOT NULL DEFAULT '',
			password_hash TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_users_role ON users(role);
	`)
	if err != nil {
		return fmt.Errorf("creating users table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS mentorship_requests (
			id         TEXT PRIMARY KEY,
			mentor_id  TEXT NOT NULL REFERENCES users(id),
			mentee_id  TEXT NOT NULL REFERENCES users(id),
			goal       TEXT NOT NULL,
			status     TEXT NOT NULL DEFAULT 'pending',
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_requests_mentor ON mentorship_requests(mentor_id);
		CREATE INDEX IF NOT EXISTS idx_requests_mentee ON mentorship_requests(mentee_id);
		CREATE INDEX IF NOT EXISTS idx_requests_created_at ON mentorship_requests(created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating mentorship_requests table: %w", err)
	}

	_, err = db.conn.Exec(`
		CREATE TABLE IF NOT EXISTS messages (
			id            TEXT PRIMARY KEY,
			mentorship_id TEXT NOT NULL REFERENCES mentorship_requests(id) ON DELETE CASCADE,
			sender_id     TEXT NOT NULL REFERENCES users(id),
			body          TEXT NOT NULL,
			created_at    DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
		);
		CREATE INDEX IF NOT EXISTS idx_messages_mentorship ON messages(mentorship_id, created_at);
	`)
	if err != nil {
		return fmt.Errorf("creating messages table: %w", err)
	}

	return nil
}

// isUniqueViolation reports whether err is SQLite complaining about a UNIQUE
// constraint. The driver exposes constraint failures only through the error
// text, so a substring check is the established way to detect them.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
