// Package store persists analysis results shared by link.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/pathgenie/internal/types"
)

// ErrNotFound is returned for unknown or expired share ids.
var ErrNotFound = errors.New("results not found or link has expired")

// SharedResult is an analysis result published under an opaque id.
// ExpiresAt is zero for links that never expire.
type SharedResult struct {
	ID        string               `json:"id"`
	Email     string               `json:"email"`
	Result    types.AnalysisResult `json:"results"`
	CreatedAt time.Time            `json:"created_at"`
	ExpiresAt time.Time            `json:"expires_at,omitempty"`
}

// Expired reports whether the link has expired at now.
func (s *SharedResult) Expired(now time.Time) bool {
	return !s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt)
}

// Store saves and loads shared results.
type Store interface {
	SaveShared(ctx context.Context, shared *SharedResult) error
	GetShared(ctx context.Context, id string) (*SharedResult, error)
	DeleteExpired(ctx context.Context) (int64, error)
	Close() error
}

// NewSharedResult prepares a result for sharing. A ttl of 0 never expires.
func NewSharedResult(email string, result *types.AnalysisResult, ttl time.Duration) *SharedResult {
	now := time.Now().UTC()
	s := &SharedResult{
		ID:        uuid.NewString(),
		Email:     email,
		Result:    *result,
		CreatedAt: now,
	}
	if ttl > 0 {
		s.ExpiresAt = now.Add(ttl)
	}
	return s
}

// validID rejects ids that could not have been issued by NewSharedResult.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
