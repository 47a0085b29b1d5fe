package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for the function catalog.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates all tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS documents (
  id              INTEGER PRIMARY KEY,
  source          TEXT NOT NULL UNIQUE,
  content_hash    TEXT NOT NULL,
  indexed_at      TIMESTAMP,
  function_count  INTEGER NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS functions (
  id                  INTEGER PRIMARY KEY,
  document_id         INTEGER NOT NULL REFERENCES documents(id),
  ordinal             INTEGER NOT NULL,
  name                TEXT NOT NULL,
  name_lower          TEXT NOT NULL,
  category            TEXT NOT NULL,
  description         TEXT,
  syntax              TEXT,
  return_type         TEXT,
  return_description  TEXT,
  deprecated          BOOLEAN DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS parameters (
  id              INTEGER PRIMARY KEY,
  function_id     INTEGER NOT NULL REFERENCES functions(id),
  ordinal         INTEGER NOT NULL,
  name            TEXT NOT NULL,
  required        BOOLEAN DEFAULT FALSE,
  type            TEXT,
  description     TEXT
);

CREATE TABLE IF NOT EXISTS examples (
  id              INTEGER PRIMARY KEY,
  function_id     INTEGER NOT NULL REFERENCES functions(id),
  ordinal         INTEGER NOT NULL,
  code            TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_functions_document ON functions(document_id);
CREATE INDEX IF NOT EXISTS idx_functions_name_lower ON functions(name_lower);
CREATE INDEX IF NOT EXISTS idx_functions_category ON functions(category);
CREATE INDEX IF NOT EXISTS idx_parameters_function ON parameters(function_id);
CREATE INDEX IF NOT EXISTS idx_examples_function ON examples(function_id);
`
