// Package sqlite implements the store driver on an embedded SQLite
// database, the default deployment backend.
package sqlite

import (
	"context"
	"database/sql"

	_ "modernc.org/sqlite"
)

type DB struct {
	db *sql.DB
}

func NewDB(db *sql.DB) *DB {
	return &DB{db: db}
}

func (d *DB) Close() error {
	return d.db.Close()
}

// Every text column is declared NOT NULL with a default: the scan layer
// reads plain strings, so a NULL anywhere would fail whole result sets.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS vendor (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			name             TEXT NOT NULL,
			address          TEXT NOT NULL DEFAULT '',
			contact_no       TEXT NOT NULL DEFAULT '',
			type             TEXT NOT NULL DEFAULT '',
			email            TEXT NOT NULL DEFAULT '',
			acc_no           TEXT NOT NULL DEFAULT '',
			bank_code        TEXT NOT NULL DEFAULT '',
			is_international INTEGER NOT NULL DEFAULT 0,
			deleted          INTEGER,
			created_ts       BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
	`CREATE TABLE IF NOT EXISTS role (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			deleted    INTEGER,
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
	`CREATE TABLE IF NOT EXISTS user_account (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			email      TEXT NOT NULL DEFAULT '',
			username   TEXT NOT NULL DEFAULT '',
			role_id    INTEGER NOT NULL REFERENCES role(id),
			blocked    INTEGER NOT NULL DEFAULT 0,
			deleted    INTEGER,
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
	`CREATE TABLE IF NOT EXISTS commodity (
			id               INTEGER PRIMARY KEY AUTOINCREMENT,
			code             TEXT NOT NULL DEFAULT '',
			name             TEXT NOT NULL,
			short_name       TEXT NOT NULL DEFAULT '',
			unit             TEXT NOT NULL DEFAULT '',
			lot_size         REAL NOT NULL DEFAULT 0,
			bank_code        TEXT NOT NULL DEFAULT '',
			is_international INTEGER NOT NULL DEFAULT 0,
			deleted          INTEGER,
			created_ts       BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
	`CREATE TABLE IF NOT EXISTS currency (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			name       TEXT NOT NULL,
			short_name TEXT NOT NULL DEFAULT '',
			deleted    INTEGER,
			created_ts BIGINT NOT NULL DEFAULT (strftime('%s', 'now'))
		)`,
}

func (d *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := d.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
