package database

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"

	"github.com/cockroachdb/errors"
	_ "github.com/mattn/go-sqlite3"
)

// Store is the ledger's only source of truth. Every method either succeeds or
// returns an error marked with exactly one of the kinds in errors.go.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the SQLite database at path and makes sure
// the schema exists.
func Open(path string) (*Store, error) {
	q := url.Values{}
	q.Set("_foreign_keys", "on")
	q.Set("_busy_timeout", "5000")
	// Write transactions grab the database lock up front so a debit can never
	// interleave with another read-modify-write on the same balance.
	q.Set("_txlock", "immediate")

	db, err := sql.Open("sqlite3", "file:"+path+"?"+q.Encode())
	if err != nil {
		return nil, unavailable(err, "open database")
	}
	// SQLite serializes writers anyway; a single connection also keeps the
	// dispatcher's statements strictly ordered.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, unavailable(err, "ping database")
	}
	if err := createSchema(db); err != nil {
		db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database is reachable.
func (s *Store) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return unavailable(err, "ping database")
	}
	return nil
}

// createSchema creates the tables if they do not exist
func createSchema(db *sql.DB) error {
	sqlStmt := `
	CREATE TABLE IF NOT EXISTS team_registration (
		team_id    TEXT NOT NULL PRIMARY KEY,
		team_name  TEXT NOT NULL UNIQUE COLLATE NOCASE,
		entry_code TEXT NOT NULL UNIQUE
	);
	CREATE TABLE IF NOT EXISTS teams (
		id         TEXT NOT NULL PRIMARY KEY REFERENCES team_registration(team_id),
		name       TEXT NOT NULL UNIQUE COLLATE NOCASE,
		balance    INTEGER NOT NULL,
		channel_id TEXT
	);
	CREATE TABLE IF NOT EXISTS users (
		id       TEXT NOT NULL PRIMARY KEY,
		slack_id TEXT NOT NULL UNIQUE,
		name     TEXT NOT NULL,
		team_id  TEXT REFERENCES teams(id)
	);
	CREATE TABLE IF NOT EXISTS transactions (
		id               TEXT NOT NULL PRIMARY KEY,
		created_at       TIMESTAMP NOT NULL,
		origin_user      TEXT NOT NULL REFERENCES users(slack_id),
		destination_user TEXT NOT NULL REFERENCES users(slack_id),
		amount           INTEGER NOT NULL CHECK (amount > 0),
		description      TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS transactions_created_at ON transactions(created_at);
	CREATE TABLE IF NOT EXISTS permissions (
		slack_id TEXT NOT NULL PRIMARY KEY,
		role     TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS rewards (
		id          TEXT NOT NULL PRIMARY KEY,
		created_at  TIMESTAMP NOT NULL,
		admin_user  TEXT NOT NULL,
		team_id     TEXT,
		amount      INTEGER NOT NULL,
		description TEXT NOT NULL
	);
	CREATE TABLE IF NOT EXISTS requests (
		id           INTEGER PRIMARY KEY AUTOINCREMENT,
		created_at   TIMESTAMP NOT NULL,
		token        TEXT NOT NULL,
		team_id      TEXT NOT NULL,
		team_domain  TEXT NOT NULL,
		channel_id   TEXT NOT NULL,
		channel_name TEXT NOT NULL,
		user_id      TEXT NOT NULL,
		user_name    TEXT NOT NULL,
		command      TEXT NOT NULL,
		command_text TEXT NOT NULL,
		response_url TEXT NOT NULL,
		success      BOOLEAN NOT NULL,
		description  TEXT NOT NULL
	);
	`
	if _, err := db.Exec(sqlStmt); err != nil {
		return unavailable(err, "create schema")
	}
	return nil
}

// inTx runs fn inside a write transaction, rolling back on any error.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return unavailable(err, "begin transaction")
	}
	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return errors.CombineErrors(err, unavailable(rbErr, "rollback"))
		}
		return err
	}
	if err := tx.Commit(); err != nil {
		return unavailable(err, "commit transaction")
	}
	return nil
}

// exists runs a SELECT EXISTS(...) query.
func (s *Store) exists(ctx context.Context, what, query string, args ...any) (bool, error) {
	var found bool
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&found); err != nil {
		return false, unavailable(err, fmt.Sprintf("check %s", what))
	}
	return found, nil
}
