package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/api"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/broadcaster"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/bus"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/config"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/directory"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/metrics"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/monitor"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/queue"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/router"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/storage"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/internal/websocket"
	"github.com/Nawel-Bellil/SATIM-CallCenter-Automation/pkg/middleware"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Configure logger
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	// Set log level
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		log.Warn().Str("level", cfg.LogLevel).Msg("invalid log level, using info")
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("port", cfg.Port).
		Strs("allowed_origins", cfg.AllowedOrigins).
		Str("log_level", cfg.LogLevel).
		Msg("starting call center dispatch server")

	// Create context for services
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Core dispatch components
	eventBus := bus.New(cfg.EventHistoryLimit, log.Logger)
	agentDir := directory.New(log.Logger)
	waitingQueue := queue.New(log.Logger)
	callRouter := router.New(eventBus, agentDir, waitingQueue, log.Logger)
	callRouter.Subscribe()

	// Persistence for completed call records
	store, err := storage.NewStore(ctx, log.Logger)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize call record store")
	}
	callRouter.SetStore(store)

	// Create WebSocket hub
	hub := websocket.NewHub(log.Logger)
	go hub.Run()

	// Create WebSocket handler
	wsHandler := websocket.NewHandler(hub, cfg, log.Logger)

	// Periodic dashboard snapshots over the hub
	broadcastService := broadcaster.New(callRouter, hub, cfg.BroadcastInterval, cfg.DashboardWindow, log.Logger)
	go broadcastService.Start(ctx)

	// Periodic system metrics events and queue alerts
	monitorService := monitor.New(eventBus, callRouter, cfg.MonitorInterval, cfg.DashboardWindow, cfg.QueueAlertThreshold, log.Logger)
	go monitorService.Start(ctx)

	// HTTP handlers
	eventHandler := api.NewEventHandler(eventBus, log.Logger)
	queryHandler := api.NewQueryHandler(callRouter, eventBus, store, cfg.DashboardWindow, log.Logger)
	adminHandler := api.NewAdminHandler(callRouter, store, log.Logger)

	// Create router
	r := chi.NewRouter()

	// Add middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(log.Logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.AllowedOrigins))

	// Health and metrics
	r.Get("/health", healthHandler)
	r.Get("/metrics", metrics.Get().Handler())

	// Event ingestion
	r.Post("/call/incoming", eventHandler.HandleIncomingCall)
	r.Post("/call/ended", eventHandler.HandleCallEnded)
	r.Post("/agent/status", eventHandler.HandleAgentStatus)
	r.Post("/faq/ask", eventHandler.HandleAskQuestion)
	r.Post("/transcript", eventHandler.HandleTranscript)
	r.Post("/call/data", eventHandler.HandleExtractedData)

	// Read-side queries
	r.Get("/queue", queryHandler.HandleQueue)
	r.Get("/agents", queryHandler.HandleAgents)
	r.Get("/dashboard", queryHandler.HandleDashboard)
	r.Get("/calls/{callID}", queryHandler.HandleGetCall)
	r.Get("/events/history", queryHandler.HandleEventHistory)
	r.Get("/records/calls", queryHandler.HandleCallRecords)
	r.Get("/records/agents/{agentID}", queryHandler.HandleAgentHistory)

	// Dashboard stream
	r.Get("/ws", wsHandler.ServeHTTP)

	// Internal routes for operator tooling
	r.Route("/internal", func(r chi.Router) {
		r.Post("/agents/roster", adminHandler.HandleRoster)
		r.Delete("/calls", adminHandler.HandleWipe)
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().Msgf("server listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")

	// Stop background services
	cancel()

	// Create shutdown context with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}

// healthHandler handles health check requests
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","service":"callcenter-dispatch"}`)
}
