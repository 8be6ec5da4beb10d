package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jonathan/pathgenie/internal/catalog"
	"github.com/jonathan/pathgenie/internal/config"
	"github.com/jonathan/pathgenie/internal/llm"
	"github.com/jonathan/pathgenie/internal/session"
	"github.com/jonathan/pathgenie/internal/store"
)

// app holds the components shared by the commands.
type app struct {
	cfg     *config.Config
	client  llm.Client
	shared  store.Store
	manager *session.Manager
	closers []func() error
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			log.Printf("[shutdown] %v", err)
		}
	}
}

// openShared opens the configured shared result store, or returns nil when none is configured.
func openShared(ctx context.Context, cfg *config.Config) (store.Store, error) {
	switch {
	case cfg.DatabaseURL != "":
		pg, err := store.ConnectPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		return pg, nil
	case cfg.SQLitePath != "":
		db, err := store.OpenSQLite(cfg.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", cfg.SQLitePath, err)
		}
		return db, nil
	default:
		return nil, nil
	}
}

// openSessions returns the Redis session store when configured, otherwise an in-process one.
func openSessions(ctx context.Context, cfg *config.Config) (session.Store, func() error, error) {
	ttl := time.Duration(cfg.SessionTTL)
	if cfg.RedisURL == "" {
		return session.NewMemoryStore(ttl), func() error { return nil }, nil
	}
	rs, err := session.ConnectRedis(ctx, cfg.RedisURL, ttl)
	if err != nil {
		return nil, nil, err
	}
	return rs, rs.Close, nil
}

func newClient(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("GEMINI_API_KEY (or LLM_API_KEY for the gateway) is required")
	}
	client, err := llm.NewClient(ctx, cfg.LLM(), cfg.APIKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create LLM client: %w", err)
	}
	return client, nil
}

// newApp loads the configuration and connects every backend.
func newApp(ctx context.Context) (*app, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, err
	}
	a := &app{cfg: cfg}

	ok := false
	defer func() {
		if !ok {
			a.Close()
		}
	}()

	if a.client, err = newClient(ctx, cfg); err != nil {
		return nil, err
	}
	a.closers = append(a.closers, a.client.Close)

	if a.shared, err = openShared(ctx, cfg); err != nil {
		return nil, err
	}
	if a.shared != nil {
		a.closers = append(a.closers, a.shared.Close)
	}

	sessions, closeSessions, err := openSessions(ctx, cfg)
	if err != nil {
		return nil, err
	}
	a.closers = append(a.closers, closeSessions)

	c, err := catalog.Default()
	if err != nil {
		return nil, err
	}

	mcfg := session.Config{
		Sessions: sessions,
		Catalog:  c,
		Client:   a.client,
		ShareTTL: time.Duration(cfg.ShareTTL),
	}
	if a.shared != nil {
		mcfg.Shared = a.shared
	}
	a.manager = session.NewManager(mcfg)

	ok = true
	return a, nil
}
