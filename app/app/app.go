package app

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/promptimpact/impact-proxy/app/internal/clock"
	"github.com/promptimpact/impact-proxy/app/internal/config"
	"github.com/promptimpact/impact-proxy/app/internal/gateway"
	"github.com/promptimpact/impact-proxy/app/internal/handlers"
	"github.com/promptimpact/impact-proxy/app/internal/queue"
	"github.com/promptimpact/impact-proxy/app/internal/repository"
	"github.com/promptimpact/impact-proxy/app/internal/session"

	_ "github.com/mattn/go-sqlite3"
)

// App holds all application dependencies
type App struct {
	Config         *config.Config
	Repository     repository.Repository
	SessionManager *session.SessionManager
	Queue          *queue.Queue
	Gateway        *gateway.Client
}

// NewApp creates and initializes all application dependencies
func NewApp() (*App, error) {
	cfg := config.GetConfig()
	clk := clock.System{}
	ttl := time.Duration(cfg.Session.TTLHours) * time.Hour

	var repo repository.Repository
	var err error

	log.Printf("Initializing session repository with type: %s", cfg.Repository.Type)

	switch cfg.Repository.Type {
	case "sqlite":
		repo, err = repository.NewSQLiteRepository(cfg.Repository.SQLiteDSN, ttl, clk)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize SQLite repository: %w", err)
		}
	case "memory":
		fallthrough
	default:
		repo = repository.NewMemoryRepository(ttl, clk)
	}

	if err := repo.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize repository: %w", err)
	}

	sessionManager := session.NewSessionManager(repo, clk)

	queueInstance := queue.NewQueue(cfg.Anthropic.RateLimitPerMin,
		time.Duration(cfg.Anthropic.UpstreamTimeoutSeconds)*time.Second)

	gatewayClient := gateway.NewClient(cfg.Anthropic.APIKey, cfg.Anthropic.BaseURL,
		cfg.Anthropic.DefaultModel, queueInstance)

	return &App{
		Config:         cfg,
		Repository:     repo,
		SessionManager: sessionManager,
		Queue:          queueInstance,
		Gateway:        gatewayClient,
	}, nil
}

// Close cleans up all dependencies
func (a *App) Close() error {
	if a.Queue != nil {
		a.Queue.Close()
	}
	if a.SessionManager != nil {
		if err := a.SessionManager.Close(); err != nil {
			return fmt.Errorf("failed to close session manager: %w", err)
		}
	}
	return nil
}

// Run wires the HTTP surface and serves until the listener fails.
func (a *App) Run() error {
	countHandler := handlers.NewCountHandler(a.Gateway)
	rewriteHandler := handlers.NewRewriteHandler(a.Gateway)
	sessionHandler := handlers.NewSessionHandler(a.SessionManager)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /health", handlers.Health)
	mux.HandleFunc("POST /count", countHandler.Handle)
	mux.HandleFunc("POST /rewrite", rewriteHandler.Handle)
	mux.HandleFunc("POST /score", handlers.ScoreHandler)
	mux.HandleFunc("POST /whatif", handlers.WhatIfHandler)
	mux.HandleFunc("POST /session/ingest", sessionHandler.HandleIngest)
	mux.HandleFunc("GET /session/metrics", sessionHandler.HandleMetrics)
	mux.HandleFunc("POST /session/reset", sessionHandler.HandleReset)
	mux.HandleFunc("GET /session/export", sessionHandler.HandleExport)
	mux.HandleFunc("GET /sessions/status", sessionHandler.HandleList)

	addr := fmt.Sprintf(":%d", a.Config.HTTP.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Available endpoints:")
	log.Printf("  - Health: GET /health")
	log.Printf("  - Token count + impact: POST /count")
	log.Printf("  - Prompt rewrite: POST /rewrite")
	log.Printf("  - Prompt score: POST /score")
	log.Printf("  - What-if projections: POST /whatif")
	log.Printf("  - Session ingest/metrics/reset/export: /session/...")
	log.Printf("  - Session stats: GET /sessions/status")
	return http.ListenAndServe(addr, handlers.CORS(a.Config.HTTP.AllowedOrigin, mux))
}
