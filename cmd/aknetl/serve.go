package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/bmcallis/aknetl/internal/api"
	"github.com/bmcallis/aknetl/internal/config"
	"github.com/bmcallis/aknetl/internal/confirm"
	"github.com/bmcallis/aknetl/internal/pipeline"
	"github.com/bmcallis/aknetl/internal/scan"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP conversion service",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe()
		},
	}
}

func runServe() error {
	log := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	scanner, err := newScanner(cfg.PatternFile)
	if err != nil {
		return err
	}

	var claude *confirm.ClaudeSuggester
	if cfg.AnthropicAPIKey != "" {
		claude = confirm.NewClaudeSuggester(cfg.AnthropicAPIKey, cfg.AnthropicModel)
	} else {
		log.Warn("no ANTHROPIC_API_KEY, boundaries keep pattern confidence")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	orch := pipeline.NewOrchestrator(cfg, scanner, claude, log)
	orch.Start(ctx)

	srv := api.NewServer(orch, log, cfg)

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

		orch.Stop()

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()
		httpServer.Shutdown(shutdownCtx)

		if claude != nil {
			claude.Close()
		}
	}()

	log.Info("starting aknetl", "port", cfg.Port, "llm", claude != nil)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newScanner(patternFile string) (*scan.Scanner, error) {
	if patternFile == "" {
		return scan.Default(), nil
	}
	patterns, err := scan.LoadPatternsWithDefaults(patternFile)
	if err != nil {
		return nil, err
	}
	return scan.New(patterns), nil
}
