package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonathan/pathgenie/internal/analysis"
	"github.com/jonathan/pathgenie/internal/catalog"
	"github.com/jonathan/pathgenie/internal/chat"
	"github.com/jonathan/pathgenie/internal/llm"
	"github.com/jonathan/pathgenie/internal/questionnaire"
	"github.com/jonathan/pathgenie/internal/results"
	"github.com/jonathan/pathgenie/internal/store"
	"github.com/jonathan/pathgenie/internal/types"
)

// DefaultAnalysisTimeout bounds one analysis run. A run older than this is
// considered abandoned and no longer blocks the session.
const DefaultAnalysisTimeout = 2 * time.Minute

// Manager drives sessions through the flow. Mutations of one session are
// serialized; different sessions proceed independently.
type Manager struct {
	sessions        Store
	catalog         *catalog.Catalog
	analyzer        *analysis.Analyzer
	client          llm.Client
	shared          store.Store
	shareTTL        time.Duration
	analysisTimeout time.Duration

	locks sync.Map // session id -> *sync.Mutex
	chats sync.Map // session id -> chatEntry
	now   func() time.Time
}

// chatEntry is a chat controller bound to one result generation.
type chatEntry struct {
	generation int
	ctrl       *chat.Controller
}

// Config wires a Manager. Shared may be nil to disable sharing.
type Config struct {
	Sessions Store
	Catalog  *catalog.Catalog
	Client   llm.Client
	Shared   store.Store
	ShareTTL time.Duration
	// AnalysisTimeout defaults to DefaultAnalysisTimeout.
	AnalysisTimeout time.Duration
}

// NewManager creates a session manager.
func NewManager(cfg Config) *Manager {
	timeout := cfg.AnalysisTimeout
	if timeout <= 0 {
		timeout = DefaultAnalysisTimeout
	}
	return &Manager{
		sessions:        cfg.Sessions,
		catalog:         cfg.Catalog,
		analyzer:        analysis.NewAnalyzer(cfg.Client),
		client:          cfg.Client,
		shared:          cfg.Shared,
		shareTTL:        cfg.ShareTTL,
		analysisTimeout: timeout,
		now:             time.Now,
	}
}

// Catalog returns the question catalog sessions are answered against.
func (m *Manager) Catalog() *catalog.Catalog {
	return m.catalog
}

func (m *Manager) lock(id string) *sync.Mutex {
	mu, _ := m.locks.LoadOrStore(id, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// forget drops the in-process state kept for a session.
func (m *Manager) forget(id string) {
	m.chats.Delete(id)
	m.locks.Delete(id)
}

// Sweep drops the in-process state of sessions that are gone from the
// store, typically because they expired. It returns how many were dropped.
func (m *Manager) Sweep(ctx context.Context) int {
	ids := make(map[string]struct{})
	collect := func(key, _ any) bool {
		ids[key.(string)] = struct{}{}
		return true
	}
	m.locks.Range(collect)
	m.chats.Range(collect)

	dropped := 0
	for id := range ids {
		if ctx.Err() != nil {
			break
		}
		if v, ok := m.locks.Load(id); ok {
			mu := v.(*sync.Mutex)
			if !mu.TryLock() {
				continue
			}
			if m.gone(ctx, id) {
				m.forget(id)
				dropped++
			}
			mu.Unlock()
			continue
		}
		if m.gone(ctx, id) {
			m.forget(id)
			dropped++
		}
	}
	return dropped
}

func (m *Manager) gone(ctx context.Context, id string) bool {
	_, err := m.sessions.Get(ctx, id)
	return errors.Is(err, ErrNotFound)
}

// Analyzing reports whether an analysis is running for the session.
func (m *Manager) Analyzing(s *Session) bool {
	return s.AnalysisRunning(m.now(), m.analysisTimeout)
}

// update loads a session, applies fn and saves it. Nothing is saved when fn fails.
func (m *Manager) update(ctx context.Context, id string, fn func(s *Session) error) (*Session, error) {
	mu := m.lock(id)
	mu.Lock()
	defer mu.Unlock()

	s, err := m.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.forget(id)
		}
		return nil, err
	}
	if err := fn(s); err != nil {
		return nil, err
	}
	s.UpdatedAt = m.now().UTC()
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (m *Manager) controller(s *Session) (*questionnaire.Controller, error) {
	ctrl, err := questionnaire.Restore(m.catalog, s.Questionnaire)
	if err != nil {
		return nil, fmt.Errorf("corrupt questionnaire state: %w", err)
	}
	return ctrl, nil
}

// editQuestionnaire applies fn to the questionnaire of a session on the questionnaire step.
func (m *Manager) editQuestionnaire(ctx context.Context, id, op string, fn func(ctrl *questionnaire.Controller, s *Session) error) (*Session, error) {
	return m.update(ctx, id, func(s *Session) error {
		if s.Step != StepQuestionnaire {
			return &StepError{Op: op, Step: s.Step}
		}
		ctrl, err := m.controller(s)
		if err != nil {
			return err
		}
		if err := fn(ctrl, s); err != nil {
			return err
		}
		s.Questionnaire = ctrl.State()
		return nil
	})
}

// Start validates the email and opens a session on the first question.
func (m *Manager) Start(ctx context.Context, email string) (*Session, error) {
	req := types.StartSessionRequest{Email: strings.TrimSpace(email)}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	now := m.now().UTC()
	s := &Session{
		ID:            uuid.NewString(),
		Email:         req.Email,
		Step:          StepQuestionnaire,
		Questionnaire: questionnaire.New(m.catalog).State(),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := m.sessions.Save(ctx, s); err != nil {
		return nil, err
	}
	log.Printf("[session] %s started", s.ID)
	return s, nil
}

// Get loads a session.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	return m.sessions.Get(ctx, id)
}

// Answer records a raw JSON answer for a question.
func (m *Manager) Answer(ctx context.Context, id, questionID string, raw json.RawMessage) (*Session, error) {
	q, ok := m.catalog.Get(questionID)
	if !ok {
		return nil, &questionnaire.UnknownQuestionError{QuestionID: questionID}
	}
	answer, err := types.DecodeAnswer(q.Kind, raw)
	if err != nil {
		return nil, &questionnaire.InvalidAnswerError{QuestionID: questionID, Message: err.Error()}
	}

	return m.editQuestionnaire(ctx, id, "answer", func(ctrl *questionnaire.Controller, _ *Session) error {
		return ctrl.SetAnswer(questionID, answer)
	})
}

// Toggle adds or removes one option of a multi-select answer.
func (m *Manager) Toggle(ctx context.Context, id, questionID, value string) (*Session, error) {
	return m.editQuestionnaire(ctx, id, "toggle", func(ctrl *questionnaire.Controller, _ *Session) error {
		return ctrl.Toggle(questionID, value)
	})
}

// Next advances to the following question. Completing the last question
// moves the session to the analysis step.
func (m *Manager) Next(ctx context.Context, id string) (*Session, error) {
	return m.editQuestionnaire(ctx, id, "advance", func(ctrl *questionnaire.Controller, s *Session) error {
		finished, err := ctrl.Advance()
		if err != nil {
			return err
		}
		if finished {
			s.Step = StepAnalysis
			s.LastError = ""
		}
		return nil
	})
}

// Back returns to the previous question.
func (m *Manager) Back(ctx context.Context, id string) (*Session, error) {
	return m.editQuestionnaire(ctx, id, "go back", func(ctrl *questionnaire.Controller, _ *Session) error {
		ctrl.Retreat()
		return nil
	})
}

// Analyze submits the finished questionnaire. On failure the session
// returns to the questionnaire with every answer kept, and the
// *analysis.Error is returned alongside the updated session.
func (m *Manager) Analyze(ctx context.Context, id string) (*Session, error) {
	var answers *questionnaire.Answers
	run := uuid.NewString()
	_, err := m.update(ctx, id, func(s *Session) error {
		if m.Analyzing(s) {
			return ErrAnalysisInProgress
		}
		if s.Step != StepAnalysis {
			return &StepError{Op: "analyze", Step: s.Step}
		}
		ctrl, err := m.controller(s)
		if err != nil {
			return err
		}
		if s.Analyzing {
			log.Printf("[session] %s: abandoning analysis started at %s", id, s.AnalyzingSince.Format(time.RFC3339))
		}
		answers = ctrl.Answers()
		s.Analyzing = true
		s.AnalyzingSince = m.now().UTC()
		s.AnalysisRun = run
		s.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}

	result, analyzeErr := m.runAnalysis(ctx, answers)

	// The outcome is recorded even if the caller went away.
	s, err := m.update(context.WithoutCancel(ctx), id, func(s *Session) error {
		if s.AnalysisRun != run {
			return ErrSessionChanged
		}
		s.Analyzing = false
		s.AnalyzingSince = time.Time{}
		s.AnalysisRun = ""
		if analyzeErr != nil {
			ctrl, err := m.controller(s)
			if err != nil {
				return err
			}
			ctrl.Reopen()
			s.Questionnaire = ctrl.State()
			s.Step = StepQuestionnaire
			s.LastError = userMessage(analyzeErr)
			return nil
		}
		s.Result = result
		s.Generation++
		s.Step = StepResults
		s.Cards = results.CardState{}
		s.Conversation = nil
		s.ShareID = ""
		return nil
	})
	if errors.Is(err, ErrSessionChanged) {
		log.Printf("[session] %s: dropping outcome of a superseded analysis", id)
	}
	if err != nil {
		return nil, err
	}
	m.chats.Delete(id)
	return s, analyzeErr
}

// runAnalysis calls the analyzer within the analysis timeout. A panic is
// reported as a service error so the session never stays locked.
func (m *Manager) runAnalysis(ctx context.Context, answers *questionnaire.Answers) (result *types.AnalysisResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, m.analysisTimeout)
	defer cancel()
	defer func() {
		if r := recover(); r != nil {
			log.Printf("[analysis] panic: %v", r)
			result = nil
			err = &analysis.Error{Kind: analysis.KindServiceError, Message: fmt.Sprintf("analysis panicked: %v", r)}
		}
	}()
	return m.analyzer.Analyze(ctx, m.catalog, answers)
}

func userMessage(err error) string {
	var aerr *analysis.Error
	if errors.As(err, &aerr) {
		return aerr.UserMessage()
	}
	return "Failed to analyze your profile. Please try again."
}

// ToggleCard expands or collapses the recommendation card with the given rank.
func (m *Manager) ToggleCard(ctx context.Context, id string, rank int) (*Session, error) {
	return m.update(ctx, id, func(s *Session) error {
		if s.Step != StepResults || s.Result == nil {
			return &StepError{Op: "toggle a card", Step: s.Step}
		}
		found := false
		for _, r := range s.Result.Recommendations {
			if r.Rank == rank {
				found = true
				break
			}
		}
		if !found {
			return &UnknownCardError{Rank: rank}
		}
		if s.Cards == nil {
			s.Cards = results.CardState{}
		}
		s.Cards.Toggle(rank)
		return nil
	})
}

// View builds the results page model of a session.
func (m *Manager) View(ctx context.Context, id string) (*results.View, error) {
	s, err := m.sessions.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if s.Step != StepResults || s.Result == nil {
		return nil, &StepError{Op: "view results", Step: s.Step}
	}
	v := results.NewView(s.Result, s.Cards)
	return &v, nil
}

func (m *Manager) chatController(s *Session) *chat.Controller {
	if v, ok := m.chats.Load(s.ID); ok {
		if e := v.(chatEntry); e.generation == s.Generation {
			return e.ctrl
		}
	}
	e := chatEntry{generation: s.Generation, ctrl: chat.NewController(m.client, s.Result, s.Conversation)}
	m.chats.Store(s.ID, e)
	return e.ctrl
}

// Chat sends a follow-up question about the session's results.
// chat.ErrEmptyMessage and chat.ErrBusy leave the conversation unchanged.
// A reply that arrives after the result was replaced or cleared is
// discarded with ErrSessionChanged.
func (m *Manager) Chat(ctx context.Context, id, text string) (types.Turn, error) {
	s, err := m.sessions.Get(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			m.forget(id)
		}
		return types.Turn{}, err
	}
	if s.Step != StepResults || s.Result == nil {
		return types.Turn{}, &StepError{Op: "chat", Step: s.Step}
	}

	generation := s.Generation
	ctrl := m.chatController(s)
	reply, err := ctrl.Send(ctx, text)
	if err != nil {
		return types.Turn{}, err
	}

	_, err = m.update(context.WithoutCancel(ctx), id, func(s *Session) error {
		if s.Step != StepResults || s.Generation != generation {
			return ErrSessionChanged
		}
		s.Conversation = ctrl.Turns()
		return nil
	})
	if err != nil {
		return types.Turn{}, err
	}
	return reply, nil
}

// ResetChat clears the conversation of a session.
func (m *Manager) ResetChat(ctx context.Context, id string) (*Session, error) {
	return m.update(ctx, id, func(s *Session) error {
		if v, ok := m.chats.Load(id); ok {
			if err := v.(chatEntry).ctrl.Reset(); err != nil {
				return err
			}
		}
		s.Conversation = nil
		return nil
	})
}

// Restart discards the result and answers and returns the session to the landing step.
func (m *Manager) Restart(ctx context.Context, id string) (*Session, error) {
	s, err := m.update(ctx, id, func(s *Session) error {
		if m.Analyzing(s) {
			return ErrAnalysisInProgress
		}
		s.Email = ""
		s.Step = StepLanding
		s.Questionnaire = questionnaire.New(m.catalog).State()
		s.Analyzing = false
		s.AnalyzingSince = time.Time{}
		s.AnalysisRun = ""
		s.Result = nil
		s.Generation++
		s.Cards = nil
		s.Conversation = nil
		s.ShareID = ""
		s.LastError = ""
		return nil
	})
	if err != nil {
		return nil, err
	}
	m.chats.Delete(id)
	return s, nil
}

// Begin starts a landing session again with a new email.
func (m *Manager) Begin(ctx context.Context, id, email string) (*Session, error) {
	req := types.StartSessionRequest{Email: strings.TrimSpace(email)}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return m.update(ctx, id, func(s *Session) error {
		if s.Step != StepLanding {
			return &StepError{Op: "begin", Step: s.Step}
		}
		s.Email = req.Email
		s.Step = StepQuestionnaire
		return nil
	})
}

// Share publishes the session's result and returns the shared record.
func (m *Manager) Share(ctx context.Context, id string) (*store.SharedResult, error) {
	if m.shared == nil {
		return nil, ErrSharingDisabled
	}

	var shared *store.SharedResult
	_, err := m.update(ctx, id, func(s *Session) error {
		if s.Step != StepResults || s.Result == nil {
			return &StepError{Op: "share", Step: s.Step}
		}
		shared = store.NewSharedResult(s.Email, s.Result, m.shareTTL)
		if err := m.shared.SaveShared(ctx, shared); err != nil {
			return err
		}
		s.ShareID = shared.ID
		return nil
	})
	if err != nil {
		return nil, err
	}
	log.Printf("[session] %s shared as %s", id, shared.ID)
	return shared, nil
}

// Delete removes a session.
func (m *Manager) Delete(ctx context.Context, id string) error {
	m.forget(id)
	return m.sessions.Delete(ctx, id)
}
