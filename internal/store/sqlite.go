package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/starford/folio/internal/apperr"
	"github.com/starford/folio/internal/models"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS content (
	id         INTEGER PRIMARY KEY CHECK (id = 1),
	body       TEXT     NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// SQLite stores the document as a single JSON row.
type SQLite struct {
	conn *sql.DB
}

// OpenSQLite opens (or creates) the database at dsn and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Load returns the stored document.
func (s *SQLite) Load(ctx context.Context) (*models.ContentDocument, error) {
	var body string
	err := s.conn.QueryRowContext(ctx, `SELECT body FROM content WHERE id = 1`).Scan(&body)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperr.ErrNotFound
		}
		return nil, fmt.Errorf("store: load: %w", err)
	}
	return decode([]byte(body))
}

// Save upserts the document row.
func (s *SQLite) Save(ctx context.Context, doc *models.ContentDocument) error {
	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("store: encode: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO content (id, body, updated_at) VALUES (1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			body       = excluded.body,
			updated_at = excluded.updated_at
	`, string(body), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: save: %w", err)
	}
	return nil
}

// UpdatedAt returns the time of the last save.
func (s *SQLite) UpdatedAt(ctx context.Context) (time.Time, error) {
	var ts time.Time
	err := s.conn.QueryRowContext(ctx, `SELECT updated_at FROM content WHERE id = 1`).Scan(&ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, apperr.ErrNotFound
		}
		return time.Time{}, fmt.Errorf("store: updated_at: %w", err)
	}
	return ts, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}
