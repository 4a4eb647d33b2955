// cmd/bot/main.go
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"fitlife-bot/config"
	"fitlife-bot/internal/agent"
	"fitlife-bot/internal/bot"
	"fitlife-bot/internal/db"
	"fitlife-bot/internal/gpt"
	"fitlife-bot/internal/i18n"
	"fitlife-bot/internal/payment"
	"fitlife-bot/internal/server"
	"fitlife-bot/internal/service"
	"fitlife-bot/internal/storage"
	"fitlife-bot/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.New().Fatalw("Failed to load config", "error", err)
	}

	l := logger.NewWithLevel(cfg.Log.Level)
	if cfg.Log.Development {
		l = logger.NewDevelopment()
	}
	defer l.Sync()
	l.Info("Starting FitLife bot...")

	if err := cfg.Validate(); err != nil {
		l.Fatalw("Invalid configuration", "error", err)
	}
	cfg.Watch(func(next *config.Config) {
		l.SetLevel(next.Log.Level)
		l.Infow("Configuration reloaded", "log_level", next.Log.Level)
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	backend, err := openBackend(ctx, cfg, l)
	if err != nil {
		l.Fatalw("Failed to open storage backend", "driver", cfg.Store.Driver, "error", err)
	}
	defer backend.Close()

	gptClient := gpt.NewClient(cfg.GPT)
	svc := service.New(service.Deps{
		Backend:   backend,
		Generator: gpt.NewPipeline(gptClient, cfg.GPT, l),
		Exercises: gpt.NewSubstituter(gptClient, cfg.GPT),
		NewChat: func(lang i18n.Language) agent.Transport {
			return gptClient.NewChat(gpt.ChatSystemPrompt(lang))
		},
		MaxToolRounds: cfg.GPT.MaxToolRounds,
		Logger:        l,
	})

	deps := bot.Deps{
		Service:  svc,
		Media:    gptClient,
		Logger:   l,
		Language: i18n.Parse(cfg.Language, i18n.Spanish),
	}
	if cfg.PaymentsEnabled() {
		deps.Payments = payment.NewStripeClient(cfg.Stripe)
	} else {
		l.Warn("Stripe is not configured, plans are generated without payment")
	}
	if cfg.PhotosEnabled() {
		photos, err := storage.NewS3Storage(ctx, cfg.S3, l)
		if err != nil {
			l.Fatalw("Failed to initialize photo storage", "error", err)
		}
		deps.Photos = photos
	}

	telegramBot, err := bot.NewTelegramBot(cfg.Telegram, deps)
	if err != nil {
		l.Fatalw("Failed to create Telegram bot", "error", err)
	}

	l.Info("Starting Telegram bot...")
	if err := telegramBot.Start(ctx); err != nil {
		l.Fatalw("Failed to start Telegram bot", "error", err)
	}
	l.Info("Telegram bot started successfully")

	// Start webhook server
	httpServer := server.NewServer(cfg.Server.Port, telegramBot, l)
	go func() {
		if err := httpServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			l.Errorw("HTTP server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	l.Info("Shutting down bot...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Stop HTTP server first
	if err := httpServer.Stop(shutdownCtx); err != nil {
		l.Errorw("Error during HTTP server shutdown", "error", err)
	}

	// Then stop bot
	if err := telegramBot.Stop(shutdownCtx); err != nil {
		l.Errorw("Error during bot shutdown", "error", err)
	}

	l.Info("Bot stopped successfully")
}

// openBackend connects the configured store. Postgres is retried while the database starts up.
func openBackend(ctx context.Context, cfg *config.Config, l *logger.Logger) (db.Backend, error) {
	switch cfg.Store.Driver {
	case "postgres":
		var database *db.PostgresBackend
		var err error
		maxRetries := 5
		for i := 0; i < maxRetries; i++ {
			database, err = db.NewPostgresBackend(cfg.DB)
			if err == nil {
				break
			}
			l.Warnw("Failed to connect to database, retrying...", "attempt", i+1, "error", err)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(i+1) * time.Second):
			}
		}
		if database == nil {
			return nil, fmt.Errorf("connect after %d attempts: %w", maxRetries, err)
		}
		if err := database.Migrate(ctx); err != nil {
			database.Close()
			return nil, err
		}
		return database, nil
	case "sqlite":
		return db.NewSQLiteBackend(ctx, cfg.SQLite)
	case "mongo":
		return db.NewMongoBackend(ctx, cfg.Mongo)
	case "memory":
		l.Warn("Using in-memory storage, state is lost on restart")
		return db.NewMemoryBackend(), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
