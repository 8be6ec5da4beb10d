// Package session keeps the per-student state of the PathGenie flow:
// landing, questionnaire, analysis and results.
package session

import (
	"context"
	"errors"
	"time"

	"github.com/jonathan/pathgenie/internal/questionnaire"
	"github.com/jonathan/pathgenie/internal/results"
	"github.com/jonathan/pathgenie/internal/types"
)

// Step is the screen a session is on.
type Step string

// Steps, in flow order
const (
	StepLanding       Step = "landing"
	StepQuestionnaire Step = "questionnaire"
	StepAnalysis      Step = "analysis"
	StepResults       Step = "results"
)

// ErrNotFound is returned for unknown or expired sessions.
var ErrNotFound = errors.New("session not found")

// Session is the serializable state of one student's visit.
type Session struct {
	ID             string                `json:"id"`
	Email          string                `json:"email"`
	Step           Step                  `json:"step"`
	Questionnaire  questionnaire.State   `json:"questionnaire"`
	Analyzing      bool                  `json:"analyzing"`
	AnalyzingSince time.Time             `json:"analyzing_since,omitzero"`
	AnalysisRun    string                `json:"analysis_run,omitempty"`
	Generation     int                   `json:"generation"` // Bumped whenever Result is replaced or cleared
	LastError      string                `json:"last_error,omitempty"`
	Result         *types.AnalysisResult `json:"result,omitempty"`
	Cards          results.CardState     `json:"cards,omitempty"`
	Conversation   []types.Turn          `json:"conversation,omitempty"`
	ShareID        string                `json:"share_id,omitempty"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// AnalysisRunning reports whether an analysis started less than staleAfter
// before now is still in flight. Older runs are treated as abandoned.
func (s *Session) AnalysisRunning(now time.Time, staleAfter time.Duration) bool {
	return s.Analyzing && now.Sub(s.AnalyzingSince) < staleAfter
}

// Store persists sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
	Delete(ctx context.Context, id string) error
}
