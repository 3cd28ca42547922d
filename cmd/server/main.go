package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/dgallion1/policyaudit/internal/analyzer"
	"github.com/dgallion1/policyaudit/internal/api"
	"github.com/dgallion1/policyaudit/internal/config"
	"github.com/dgallion1/policyaudit/internal/embedding"
	"github.com/dgallion1/policyaudit/internal/pipeline"
	"github.com/dgallion1/policyaudit/internal/qa"
	"github.com/dgallion1/policyaudit/internal/vectorstore"
)

func main() {
	// Optional .env for local development; real deployments set env vars.
	_ = godotenv.Load()

	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize model clients.
	embedder := embedding.NewOllamaEmbedder(cfg.EmbedModel, cfg.EmbedDim)
	qaStats := qa.NewStats(time.Hour)
	extractor := qa.NewOllamaExtractor(cfg.ExtractModel, cfg.ExtractTimeout, qaStats)

	// Select the vector store backend.
	var store vectorstore.Store
	if cfg.PostgresDSN != "" {
		pg, err := vectorstore.NewPostgresStore(ctx, cfg.PostgresDSN, cfg.EmbedDim)
		if err != nil {
			log.Error("postgres store init failed", "error", err)
			os.Exit(1)
		}
		if err := pg.Initialize(ctx); err != nil {
			log.Error("postgres schema init failed", "error", err)
			os.Exit(1)
		}
		defer pg.Close()
		store = pg
		log.Info("using postgres vector store")
	} else {
		store = vectorstore.NewMemoryStore(cfg.EmbedDim)
		log.Info("using in-memory vector store")
	}

	anl := analyzer.New(embedder, store, extractor, log, analyzer.Config{
		TopK:                   cfg.TopK,
		MaxConcurrentEmbed:     cfg.MaxConcurrentEmbed,
		MaxConcurrentQuestions: cfg.MaxConcurrentQuestions,
		QuestionTimeout:        cfg.QuestionTimeout,
	})

	// Initialize pipeline.
	orch := pipeline.NewOrchestrator(cfg, anl, log)
	orch.Start(ctx)

	// Initialize HTTP server.
	srv := api.NewServer(orch, qaStats, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		// Drain the HTTP server before closing the pipeline so no
		// in-flight request submits to a stopped queue.
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		orch.Stop()
	}()

	log.Info("starting policyaudit", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
