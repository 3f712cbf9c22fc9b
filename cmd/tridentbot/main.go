// Package main provides the chat bot binary: it joins the configured Twitch
// channel and answers commands until interrupted.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"go.uber.org/zap"

	"github.com/cory-johannsen/tridentbot/internal/bot"
	"github.com/cory-johannsen/tridentbot/internal/chat"
	"github.com/cory-johannsen/tridentbot/internal/config"
	"github.com/cory-johannsen/tridentbot/internal/observability"
	"github.com/cory-johannsen/tridentbot/internal/server"
	"github.com/cory-johannsen/tridentbot/internal/storage"
	_ "github.com/cory-johannsen/tridentbot/internal/storage/postgres"
	_ "github.com/cory-johannsen/tridentbot/internal/storage/sqlite"
)

const healthInterval = 30 * time.Second

func main() {
	start := time.Now()

	configPath := flag.String("config", "configs/dev.yaml", "path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("loading config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logging, "tridentbot")
	if err != nil {
		log.Fatalf("initializing logger: %v", err)
	}

	err = run(context.Background(), cfg, logger, start)
	if err != nil {
		logger.Error("bot stopped", zap.Error(err))
	} else {
		logger.Info("bot stopped")
	}
	_ = logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run wires the store, dispatcher and chat client and blocks until shutdown.
//
// Postcondition: The store is closed on return. Returns the first error of
// startup or of a running service; nil after a signal-driven shutdown.
func run(ctx context.Context, cfg config.Config, logger *zap.Logger, start time.Time) error {
	store, err := storage.Open(ctx, cfg.Database, logger)
	if err != nil {
		return fmt.Errorf("opening store: %w", err)
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("closing store", zap.Error(err))
		}
	}()

	opts, err := bot.OptionsFromConfig(cfg.Bot)
	if err != nil {
		return fmt.Errorf("loading bot content: %w", err)
	}
	dispatcher, err := bot.NewDispatcher(store, opts, logger)
	if err != nil {
		return fmt.Errorf("creating dispatcher: %w", err)
	}

	client := chat.NewClient(cfg.Twitch, chat.NewDialer(cfg.Twitch), dispatcher, logger)

	lifecycle := server.NewLifecycle(logger)
	lifecycle.Add("store", server.NewContextService(func(ctx context.Context) error {
		ticker := time.NewTicker(healthInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				if err := store.Health(ctx, 5*time.Second); err != nil {
					logger.Warn("database health check failed", zap.Error(err))
				}
			}
		}
	}))
	lifecycle.Add("chat", server.NewContextService(client.Run))

	logger.Info("bot initialized",
		zap.Duration("startup", time.Since(start)),
		zap.String("channel", cfg.Twitch.Channel),
		zap.String("transport", cfg.Twitch.Transport),
		zap.String("database", cfg.Database.Driver),
	)

	return lifecycle.Run(ctx)
}
