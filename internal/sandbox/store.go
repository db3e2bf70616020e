// Package sandbox is a HostingClient backed by a local SQLite database.
// Scripts run against it change nothing outside the database file, which
// makes it the place to rehearse a script before pointing it at an account.
package sandbox

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"

	_ "github.com/mattn/go-sqlite3"

	"tipctl/internal/errors"
)

const schema = `
CREATE TABLE IF NOT EXISTS domains (
	name TEXT PRIMARY KEY,
	auth_code TEXT NOT NULL DEFAULT '',
	is_locked BOOLEAN NOT NULL DEFAULT 0,
	registration_date TEXT NOT NULL DEFAULT '',
	renewal_date TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS dns_entries (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	domain TEXT NOT NULL,
	name TEXT NOT NULL,
	expire INTEGER NOT NULL,
	type TEXT NOT NULL,
	content TEXT NOT NULL,
	FOREIGN KEY (domain) REFERENCES domains(name),
	UNIQUE (domain, name, expire, type, content)
);

CREATE TABLE IF NOT EXISTS invoices (
	number TEXT PRIMARY KEY,
	creation_date TEXT NOT NULL DEFAULT '',
	due_date TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT '',
	total_amount INTEGER NOT NULL DEFAULT 0,
	total_amount_incl_vat INTEGER NOT NULL DEFAULT 0,
	pdf TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS products (
	name TEXT PRIMARY KEY,
	category TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	price INTEGER NOT NULL DEFAULT 0,
	recurring_price INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS product_elements (
	product TEXT NOT NULL,
	name TEXT NOT NULL,
	description TEXT NOT NULL DEFAULT '',
	amount INTEGER NOT NULL DEFAULT 0,
	FOREIGN KEY (product) REFERENCES products(name),
	PRIMARY KEY (product, name)
);

CREATE TABLE IF NOT EXISTS vps (
	name TEXT PRIMARY KEY,
	description TEXT NOT NULL DEFAULT '',
	product_name TEXT NOT NULL DEFAULT '',
	operating_system TEXT NOT NULL DEFAULT '',
	status TEXT NOT NULL DEFAULT 'stopped',
	is_locked BOOLEAN NOT NULL DEFAULT 0,
	availability_zone TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS availability_zones (
	name TEXT PRIMARY KEY,
	country TEXT NOT NULL DEFAULT '',
	is_default BOOLEAN NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS mailboxes (
	domain TEXT NOT NULL,
	local_part TEXT NOT NULL,
	password_hash TEXT NOT NULL,
	max_disk_usage INTEGER NOT NULL DEFAULT 0,
	forward_to TEXT NOT NULL DEFAULT '',
	FOREIGN KEY (domain) REFERENCES domains(name),
	PRIMARY KEY (domain, local_part)
);

CREATE TABLE IF NOT EXISTS mail_forwards (
	domain TEXT NOT NULL,
	local_part TEXT NOT NULL,
	forward_to TEXT NOT NULL,
	FOREIGN KEY (domain) REFERENCES domains(name),
	PRIMARY KEY (domain, local_part)
);
`

// Store is a sandbox hosting account.
type Store struct {
	db *sql.DB
}

// Open opens or creates the sandbox database at path and ensures its schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.ConfigError("sandbox database path is empty").
			WithSuggestion("Pass --sandbox <file> or set TIPCTL_SANDBOX_DB")
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.FileErrorWithCause("failed to create sandbox directory", err).
				WithContext("dir", dir)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_foreign_keys=on")
	if err != nil {
		return nil, errors.FileErrorWithCause("failed to open sandbox database", err).
			WithContext("path", path)
	}
	db.SetMaxOpenConns(1)

	store := &Store{db: db}
	if err := store.initSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return errors.FileErrorWithCause("failed to initialize sandbox schema", err)
	}
	return nil
}

// inTx runs fn in a transaction, rolling back when fn fails.
func (s *Store) inTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.APIErrorWithCause("failed to begin transaction", err)
	}

	if err := fn(tx); err != nil {
		tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return errors.APIErrorWithCause("failed to commit transaction", err)
	}
	return nil
}
