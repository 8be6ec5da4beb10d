// Package server provides the HTTP API of PathGenie.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"time"

	"github.com/jonathan/pathgenie/internal/analysis"
	"github.com/jonathan/pathgenie/internal/server/ratelimit"
	"github.com/jonathan/pathgenie/internal/session"
	"github.com/jonathan/pathgenie/internal/store"
	"golang.org/x/sync/errgroup"
)

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	manager         *session.Manager
	shared          store.Store
	rateLimiter     *ratelimit.Limiter
	stageInterval   time.Duration
	janitorInterval time.Duration
}

// Config holds server configuration
type Config struct {
	Port    int
	Manager *session.Manager
	// Shared serves GET /shared/{id}; nil disables the route.
	Shared store.Store
	// RateLimit defaults to the environment configuration when nil.
	RateLimit *ratelimit.Config
	// JanitorInterval is how often expired shared results and session state are swept (default 1h, <0 disables).
	JanitorInterval time.Duration
}

// New creates a new server instance
func New(cfg Config) *Server {
	rl := cfg.RateLimit
	if rl == nil {
		rl = ratelimit.LoadConfig()
	}
	janitor := cfg.JanitorInterval
	if janitor == 0 {
		janitor = time.Hour
	}

	s := &Server{
		manager:         cfg.Manager,
		shared:          cfg.Shared,
		rateLimiter:     ratelimit.NewLimiter(rl),
		stageInterval:   analysis.StageInterval,
		janitorInterval: janitor,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      s.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // Analysis can take a while
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /questions", s.handleQuestions)
	mux.HandleFunc("GET /chat/suggestions", s.handleSuggestions)

	// Session lifecycle
	mux.HandleFunc("POST /sessions", s.handleCreateSession)
	mux.HandleFunc("GET /sessions/{id}", s.handleGetSession)
	mux.HandleFunc("DELETE /sessions/{id}", s.handleDeleteSession)
	mux.HandleFunc("POST /sessions/{id}/restart", s.handleRestart)
	mux.HandleFunc("POST /sessions/{id}/begin", s.handleBegin)

	// Questionnaire
	mux.HandleFunc("PUT /sessions/{id}/answers/{question_id}", s.handleAnswer)
	mux.HandleFunc("POST /sessions/{id}/answers/{question_id}/toggle", s.handleToggle)
	mux.HandleFunc("POST /sessions/{id}/next", s.handleNext)
	mux.HandleFunc("POST /sessions/{id}/back", s.handleBack)

	// Analysis
	mux.HandleFunc("POST /sessions/{id}/analyze", s.handleAnalyze)
	mux.HandleFunc("POST /sessions/{id}/analyze/stream", s.handleAnalyzeStream)

	// Results
	mux.HandleFunc("GET /sessions/{id}/results", s.handleResults)
	mux.HandleFunc("POST /sessions/{id}/cards/{rank}/toggle", s.handleToggleCard)
	mux.HandleFunc("POST /sessions/{id}/chat", s.handleChat)
	mux.HandleFunc("DELETE /sessions/{id}/chat", s.handleResetChat)
	mux.HandleFunc("POST /sessions/{id}/share", s.handleShare)
	mux.HandleFunc("GET /shared/{id}", s.handleGetShared)

	// Reports
	mux.HandleFunc("GET /sessions/{id}/report", s.handleSessionReport)
	mux.HandleFunc("POST /report", s.handleReport)

	return s.withRateLimit(s.withLogging(s.withCORS(mux)))
}

// Run serves until ctx is cancelled, then shuts down gracefully.
// Expired shared results are purged in the background while serving.
func (s *Server) Run(ctx context.Context) error {
	defer s.rateLimiter.Stop()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Printf("Server starting on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		log.Println("Shutting down server...")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}
		return nil
	})

	if s.janitorInterval > 0 {
		g.Go(func() error {
			s.runJanitor(gctx)
			return nil
		})
	}

	err := g.Wait()
	log.Println("Server stopped")
	return err
}

func (s *Server) runJanitor(ctx context.Context) {
	ticker := time.NewTicker(s.janitorInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

// sweep deletes expired shared results and drops in-process state of
// expired sessions.
func (s *Server) sweep(ctx context.Context) {
	if n := s.manager.Sweep(ctx); n > 0 {
		log.Printf("[janitor] dropped state of %d expired sessions", n)
	}
	if s.shared == nil {
		return
	}
	n, err := s.shared.DeleteExpired(ctx)
	if err != nil {
		log.Printf("[janitor] failed to delete expired shared results: %v", err)
		return
	}
	if n > 0 {
		log.Printf("[janitor] deleted %d expired shared results", n)
	}
}

// withCORS adds CORS headers
func (s *Server) withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// withRateLimit adds rate limiting middleware
func (s *Server) withRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		allowed, info := s.rateLimiter.Allow(s.extractClientID(r), r.URL.Path, r.Method)
		s.setRateLimitHeaders(w, info)
		if !allowed {
			s.rateLimitResponse(w, info)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// withLogging adds request logging
func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log.Printf("[%s] %s %s", r.Method, r.URL.Path, r.RemoteAddr)
		next.ServeHTTP(w, r)
		log.Printf("[%s] %s completed in %v", r.Method, r.URL.Path, time.Since(start))
	})
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, map[string]string{"status": "ok"})
}

// jsonResponse writes a JSON response
func (s *Server) jsonResponse(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Error encoding JSON response: %v", err)
	}
}

// errorResponse writes an error JSON response
func (s *Server) errorResponse(w http.ResponseWriter, status int, message string) {
	s.jsonResponse(w, status, map[string]string{"error": message})
}

// extractClientID extracts the client identifier from the request.
// This uses the IP address from RemoteAddr; forwarded headers are not trusted.
func (s *Server) extractClientID(r *http.Request) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return ip
}

// setRateLimitHeaders sets standard rate limit headers on the response.
func (s *Server) setRateLimitHeaders(w http.ResponseWriter, info ratelimit.Info) {
	if info.Limit > 0 {
		w.Header().Set("X-RateLimit-Limit", fmt.Sprintf("%d", info.Limit))
		w.Header().Set("X-RateLimit-Remaining", fmt.Sprintf("%d", info.Remaining))
		w.Header().Set("X-RateLimit-Reset", fmt.Sprintf("%d", info.ResetTime.Unix()))
	}
}

// rateLimitResponse writes a 429 Too Many Requests response with rate limit information.
func (s *Server) rateLimitResponse(w http.ResponseWriter, info ratelimit.Info) {
	response := map[string]any{
		"error":     "Rate limit exceeded. Please try again in a moment.",
		"limit":     info.Limit,
		"remaining": info.Remaining,
	}
	if !info.ResetTime.IsZero() {
		response["reset_at"] = info.ResetTime.Format(time.RFC3339)
	}

	if info.RetryAfter > 0 {
		seconds := int(info.RetryAfter.Seconds() + 0.999)
		response["retry_after"] = seconds
		w.Header().Set("Retry-After", fmt.Sprintf("%d", seconds))
	}

	log.Printf("[rate-limit] Rate limit exceeded: Limit=%d Remaining=%d", info.Limit, info.Remaining)

	s.jsonResponse(w, http.StatusTooManyRequests, response)
}
