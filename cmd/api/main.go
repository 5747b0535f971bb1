// Package main is the entry point for the API server.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/swiftly-ai/assistant-api/internal/config"
	"github.com/swiftly-ai/assistant-api/internal/handler"
	"github.com/swiftly-ai/assistant-api/internal/llm"
	"github.com/swiftly-ai/assistant-api/internal/middleware"
	"github.com/swiftly-ai/assistant-api/internal/rag"
	"github.com/swiftly-ai/assistant-api/internal/service"
	"github.com/swiftly-ai/assistant-api/internal/session"
	"github.com/swiftly-ai/assistant-api/pkg/logger"
	"github.com/swiftly-ai/assistant-api/pkg/metrics"
	"github.com/swiftly-ai/assistant-api/pkg/tracing"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Initialize logger
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	logger.SetGlobal(log)

	log.Info("starting API server")

	// Initialize tracing if enabled
	ctx := context.Background()
	if cfg.TracingEnabled {
		tp, err := tracing.InitTracer(ctx, "assistant-api", cfg.TracingEndpoint)
		if err != nil {
			log.Warn("failed to initialize tracing", zap.Error(err))
		} else {
			defer tracing.Shutdown(ctx, tp)
		}
	}

	// Initialize LLM client. A missing credential leaves the gateway
	// unavailable and the health endpoint degraded, not the process dead.
	var llmClient llm.Client
	if cfg.OpenAIAPIKey != "" {
		client, err := llm.NewOpenAIClient(cfg.OpenAIAPIKey)
		if err != nil {
			log.Warn("failed to create OpenAI client, AI features disabled", zap.Error(err))
		} else {
			llmClient = client
		}
	} else if cfg.AnthropicAPIKey != "" {
		client, err := llm.NewAnthropicClient(cfg.AnthropicAPIKey)
		if err != nil {
			log.Warn("failed to create Anthropic client, AI features disabled", zap.Error(err))
		} else {
			llmClient = client
		}
	} else {
		log.Warn("no model credential configured, AI features disabled")
	}

	gateway := llm.NewGateway(llmClient, cfg.ModelName, log)

	// Initialize stores and services
	knowledgeStore := rag.NewStore(cfg.KnowledgeBasePath, log)
	retriever := rag.NewRetriever(knowledgeStore, cfg.MaxContextLength)
	sessions := session.NewStore(log)

	defaults := llm.GenerationConfig{
		Temperature:     cfg.Temperature,
		TopP:            cfg.TopP,
		TopK:            cfg.TopK,
		MaxOutputTokens: cfg.MaxOutputTokens,
		CandidateCount:  1,
	}
	intentSampling := llm.GenerationConfig{
		Temperature:     cfg.TaskIntentTemperature,
		TopP:            0.8,
		TopK:            20,
		MaxOutputTokens: cfg.TaskIntentMaxTokens,
		CandidateCount:  1,
	}

	assistantSvc := service.NewAssistantService(gateway, sessions, retriever, defaults, log)
	intentSvc := service.NewIntentService(gateway, intentSampling, log)

	// Periodic expired-session cleanup
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.CleanupSchedule, func() {
		removed := sessions.CleanupExpired(cfg.SessionMaxAge)
		metrics.SessionsExpiredTotal.Add(float64(removed))
		metrics.SessionsActive.Set(float64(sessions.Count()))
	}); err != nil {
		log.Error("failed to schedule session cleanup", zap.Error(err))
		os.Exit(1)
	}
	scheduler.Start()
	defer scheduler.Stop()

	// Initialize handlers
	healthHandler := handler.NewHealthHandler(gateway)
	assistantHandler := handler.NewAssistantHandler(assistantSvc, intentSvc, log)
	conversationHandler := handler.NewConversationHandler(sessions, log)
	knowledgeHandler := handler.NewKnowledgeHandler(knowledgeStore, log)

	// Create router
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logging(log))
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Correlation-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(middleware.RateLimit(cfg.RateLimitRequests, cfg.RateLimitWindow))

	// Health and metrics
	r.Get("/health", healthHandler.Health)
	r.Handle("/metrics", promhttp.Handler())

	// Assistant endpoints
	r.Post("/ask", assistantHandler.Ask)
	r.Post("/ask-natural", assistantHandler.AskNatural)
	r.Post("/analyze-task-intent", assistantHandler.AnalyzeTaskIntent)

	// Conversation management
	r.Route("/conversation/{session_id}", func(r chi.Router) {
		r.Delete("/", conversationHandler.Clear)
		r.Get("/info", conversationHandler.Info)
	})

	// Knowledge base
	r.Route("/rag", func(r chi.Router) {
		r.Get("/stats", knowledgeHandler.Stats)
		r.Get("/search", knowledgeHandler.Search)
	})

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Host + ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  cfg.ServerReadTimeout,
		WriteTimeout: cfg.ServerWriteTimeout,
		IdleTimeout:  120 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Info("server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("server error", zap.Error(err))
			os.Exit(1)
		}
	}()

	// Wait for shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
	}

	log.Info("server stopped")
}
