package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

//go:embed schema_postgres.sql
var postgresSchema string

// Postgres stores shared results in PostgreSQL.
type Postgres struct {
	pool *pgxpool.Pool
}

// ConnectPostgres establishes a connection pool and applies the schema.
func ConnectPostgres(ctx context.Context, databaseURL string) (*Postgres, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if _, err := pool.Exec(ctx, postgresSchema); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &Postgres{pool: pool}, nil
}

// Close closes the connection pool
func (p *Postgres) Close() error {
	if p.pool != nil {
		p.pool.Close()
	}
	return nil
}

// SaveShared inserts a shared result.
func (p *Postgres) SaveShared(ctx context.Context, shared *SharedResult) error {
	payload, err := json.Marshal(shared.Result)
	if err != nil {
		return fmt.Errorf("failed to marshal shared result: %w", err)
	}

	_, err = p.pool.Exec(ctx,
		`INSERT INTO shared_results (id, email, results, created_at, expires_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		shared.ID, shared.Email, payload, shared.CreatedAt, nullableTime(shared.ExpiresAt),
	)
	if err != nil {
		return fmt.Errorf("failed to save shared result: %w", err)
	}
	return nil
}

// GetShared loads a shared result. Unknown and expired ids return ErrNotFound.
func (p *Postgres) GetShared(ctx context.Context, id string) (*SharedResult, error) {
	if !validID(id) {
		return nil, ErrNotFound
	}

	var (
		shared    SharedResult
		payload   []byte
		expiresAt *time.Time
	)
	err := p.pool.QueryRow(ctx,
		`SELECT id::text, email, results, created_at, expires_at
		 FROM shared_results WHERE id = $1`,
		id,
	).Scan(&shared.ID, &shared.Email, &payload, &shared.CreatedAt, &expiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get shared result: %w", err)
	}

	if expiresAt != nil {
		shared.ExpiresAt = *expiresAt
	}
	if shared.Expired(time.Now()) {
		return nil, ErrNotFound
	}

	if err := json.Unmarshal(payload, &shared.Result); err != nil {
		return nil, fmt.Errorf("failed to unmarshal shared result: %w", err)
	}
	return &shared, nil
}

// DeleteExpired removes expired links and returns how many were deleted.
func (p *Postgres) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := p.pool.Exec(ctx,
		`DELETE FROM shared_results WHERE expires_at IS NOT NULL AND expires_at <= NOW()`,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired results: %w", err)
	}
	return tag.RowsAffected(), nil
}

func nullableTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
