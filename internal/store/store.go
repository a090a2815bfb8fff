// Package store is the SQLite persistence layer for catkin's declaration
// index: which Kotlin files were indexed, the callable declarations they
// contain, and their parameters.
package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite data access layer for catkin's four tables.
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
CREATE TABLE IF NOT EXISTS files (
  id              INTEGER PRIMARY KEY,
  path            TEXT NOT NULL UNIQUE,
  hash            TEXT,
  line_count      INTEGER,
  last_indexed    TIMESTAMP
);

CREATE TABLE IF NOT EXISTS decls (
  id              INTEGER PRIMARY KEY,
  file_id         INTEGER NOT NULL REFERENCES files(id),
  name            TEXT NOT NULL,
  kind            TEXT NOT NULL,
  container       TEXT,
  receiver        TEXT,
  return_type     TEXT,
  is_operator     BOOLEAN DEFAULT FALSE,
  start_line      INTEGER,
  start_col       INTEGER,
  end_line        INTEGER,
  end_col         INTEGER,
  parent_decl_id  INTEGER REFERENCES decls(id)
);

CREATE TABLE IF NOT EXISTS decl_params (
  id              INTEGER PRIMARY KEY,
  decl_id         INTEGER NOT NULL REFERENCES decls(id),
  name            TEXT,
  ordinal         INTEGER NOT NULL,
  type_expr       TEXT,
  has_default     BOOLEAN DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS metadata (
  key             TEXT PRIMARY KEY,
  value           TEXT
);

CREATE INDEX IF NOT EXISTS idx_decls_file ON decls(file_id);
CREATE INDEX IF NOT EXISTS idx_decls_name ON decls(name);
CREATE INDEX IF NOT EXISTS idx_decls_kind ON decls(kind);
CREATE INDEX IF NOT EXISTS idx_decl_params_decl ON decl_params(decl_id);
`

// DeleteFileData transactionally removes a file's declarations, their
// parameters, and the file record itself. Deletes in reverse-dependency
// order to respect FK constraints.
func (s *Store) DeleteFileData(fileID int64) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	rows, err := tx.Query("SELECT id FROM decls WHERE file_id = ?", fileID)
	if err != nil {
		return fmt.Errorf("query decls: %w", err)
	}
	var declIDs []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return fmt.Errorf("scan decl id: %w", err)
		}
		declIDs = append(declIDs, id)
	}
	rows.Close()

	if len(declIDs) > 0 {
		placeholders := placeholderList(len(declIDs))
		args := int64sToArgs(declIDs)
		if _, err := tx.Exec("DELETE FROM decl_params WHERE decl_id IN ("+placeholders+")", args...); err != nil {
			return fmt.Errorf("delete decl params: %w", err)
		}
	}

	if _, err := tx.Exec("DELETE FROM decls WHERE file_id = ?", fileID); err != nil {
		return fmt.Errorf("delete decls: %w", err)
	}
	if _, err := tx.Exec("DELETE FROM files WHERE id = ?", fileID); err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}

	return tx.Commit()
}

// SetMetadata stores a key/value pair, replacing any existing value.
func (s *Store) SetMetadata(key, value string) error {
	_, err := s.db.Exec(
		"INSERT INTO metadata (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value",
		key, value,
	)
	if err != nil {
		return fmt.Errorf("set metadata: %w", err)
	}
	return nil
}

// GetMetadata returns the value for key, or "" when absent.
func (s *Store) GetMetadata(key string) (string, error) {
	var value string
	err := s.db.QueryRow("SELECT value FROM metadata WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("get metadata: %w", err)
	}
	return value, nil
}
