// Package mysql implements the store driver for MySQL.
package mysql

import (
	"context"
	"database/sql"

	_ "github.com/go-sql-driver/mysql"
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
			id               INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name             VARCHAR(256) NOT NULL,
			address          VARCHAR(512) NOT NULL DEFAULT '',
			contact_no       VARCHAR(64) NOT NULL DEFAULT '',
			type             VARCHAR(64) NOT NULL DEFAULT '',
			email            VARCHAR(256) NOT NULL DEFAULT '',
			acc_no           VARCHAR(64) NOT NULL DEFAULT '',
			bank_code        VARCHAR(64) NOT NULL DEFAULT '',
			is_international TINYINT(1) NOT NULL DEFAULT 0,
			deleted          TINYINT(1),
			created_ts       BIGINT NOT NULL DEFAULT (UNIX_TIMESTAMP())
		)`,
	`CREATE TABLE IF NOT EXISTS role (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name       VARCHAR(256) NOT NULL,
			deleted    TINYINT(1),
			created_ts BIGINT NOT NULL DEFAULT (UNIX_TIMESTAMP())
		)`,
	`CREATE TABLE IF NOT EXISTS user_account (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name       VARCHAR(256) NOT NULL,
			email      VARCHAR(256) NOT NULL DEFAULT '',
			username   VARCHAR(256) NOT NULL DEFAULT '',
			role_id    INT NOT NULL,
			blocked    TINYINT(1) NOT NULL DEFAULT 0,
			deleted    TINYINT(1),
			created_ts BIGINT NOT NULL DEFAULT (UNIX_TIMESTAMP()),
			CONSTRAINT fk_user_account_role FOREIGN KEY (role_id) REFERENCES role(id)
		)`,
	`CREATE TABLE IF NOT EXISTS commodity (
			id               INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			code             VARCHAR(64) NOT NULL DEFAULT '',
			name             VARCHAR(256) NOT NULL,
			short_name       VARCHAR(64) NOT NULL DEFAULT '',
			unit             VARCHAR(64) NOT NULL DEFAULT '',
			lot_size         DOUBLE NOT NULL DEFAULT 0,
			bank_code        VARCHAR(64) NOT NULL DEFAULT '',
			is_international TINYINT(1) NOT NULL DEFAULT 0,
			deleted          TINYINT(1),
			created_ts       BIGINT NOT NULL DEFAULT (UNIX_TIMESTAMP())
		)`,
	`CREATE TABLE IF NOT EXISTS currency (
			id         INT NOT NULL AUTO_INCREMENT PRIMARY KEY,
			name       VARCHAR(256) NOT NULL,
			short_name VARCHAR(64) NOT NULL DEFAULT '',
			deleted    TINYINT(1),
			created_ts BIGINT NOT NULL DEFAULT (UNIX_TIMESTAMP())
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
