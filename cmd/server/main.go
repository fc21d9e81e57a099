package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgallion1/bailgen/internal/api"
	"github.com/dgallion1/bailgen/internal/config"
	"github.com/dgallion1/bailgen/internal/doctree"
	"github.com/dgallion1/bailgen/internal/loader"
	"github.com/dgallion1/bailgen/internal/pipeline"
)

func main() {
	dotenvErr := config.LoadDotenv()
	cfg := config.Load()

	var log *slog.Logger
	if cfg.LogJSON {
		log = slog.New(slog.NewJSONHandler(os.Stdout, nil))
	} else {
		log = slog.New(slog.NewTextHandler(os.Stdout, nil))
	}
	if dotenvErr != nil {
		log.Warn(".env file not loaded", "error", dotenvErr)
	}

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Load the rule table once; it is read-only afterwards.
	table, err := loader.LoadRulesFile(cfg.RulesPath)
	if err != nil {
		log.Error("load rules", "path", cfg.RulesPath, "error", err)
		os.Exit(1)
	}
	log.Info("rules loaded", "path", cfg.RulesPath, "rows", table.Len(), "sections", len(table.Sections()))

	letterheads := map[string]doctree.Letterhead{}
	if cfg.LetterheadsPath != "" {
		letterheads, err = loader.LoadLetterheadsFile(cfg.LetterheadsPath)
		if err != nil {
			log.Error("load letterheads", "path", cfg.LetterheadsPath, "error", err)
			os.Exit(1)
		}
		log.Info("letterheads loaded", "companies", len(letterheads))
	}

	gen := pipeline.NewGenerator(table, time.Now, log)
	store := pipeline.NewStore(cfg.GenerationTTL)
	go store.Run(ctx, 5*time.Minute)

	// Initialize HTTP server.
	srv := api.NewServer(gen, store, letterheads, log, cfg)

	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      srv,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown.
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info("shutting down...")

		cancel()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)
	}()

	log.Info("starting bailgen", "port", cfg.Port)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Error("server error", "error", err)
		os.Exit(1)
	}
}
