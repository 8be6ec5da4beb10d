package store

import (
	"context"
	"database/sql"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema_sqlite.sql
var sqliteSchema string

// SQLite stores shared results in a local SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if needed) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(path string) (*SQLite, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	// Each connection to :memory: is a separate database.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	pragmas := []string{
		"PRAGMA busy_timeout=5000",
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("init schema: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// SaveShared inserts a shared result.
func (s *SQLite) SaveShared(ctx context.Context, shared *SharedResult) error {
	payload, err := json.Marshal(shared.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal shared result: %w", err)
	}

	var expiresAt sql.NullInt64
	if !shared.ExpiresAt.IsZero() {
		expiresAt = sql.NullInt64{Int64: shared.ExpiresAt.Unix(), Valid: true}
	}

	_, err = s.db.ExecContext(ctx,
		`INSERT INTO shared_results (id, email, results, created_at, expires_at)
		 VALUES (?, ?, ?, ?, ?)`,
		shared.ID, shared.Email, string(payload), shared.CreatedAt.Unix(), expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to save shared result: %w", err)
	}
	return nil
}

// GetShared loads a shared result. Unknown and expired ids return ErrNotFound.
func (s *SQLite) GetShared(ctx context.Context, id string) (*SharedResult, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var (
		shared    SharedResult
		payload   string
		createdAt int64
		expiresAt sql.NullInt64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT id, email, results, created_at, expires_at
		 FROM shared_results WHERE id = ?`,
		id,
	).Scan(&shared.ID, &shared.Email, &payload, &createdAt, &expiresAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shared result: %w", err)
	}

	shared.CreatedAt = time.Unix(createdAt, 0).UTC()
	if expiresAt.Valid {
		shared.ExpiresAt = time.Unix(expiresAt.Int64, 0).UTC()
	}
	if shared.Expired(time.Now()) {
		return nil, ErrNotFound
	}

	if err := json.Unmarshal([]byte(payload), &shared.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shared result: %w", err)
	}
	return &shared, nil
}

// DeleteExpired removes expired links and returns how many were deleted.
func (s *SQLite) DeleteExpired(ctx context.Context) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`DELETE FROM shared_results WHERE expires_at IS NOT NULL AND expires_at <= ?`,
		time.Now().Unix(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired results: %w", err)
	}
	return res.RowsAffected()
}
