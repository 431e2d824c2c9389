package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os/signal"
	"syscall"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/aliskhannn/geoquiz-bot/internal/config"
	"github.com/aliskhannn/geoquiz-bot/internal/delivery/telegram"
	"github.com/aliskhannn/geoquiz-bot/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/geoquiz-bot/internal/infra/postgres/repository"
	"github.com/aliskhannn/geoquiz-bot/internal/infra/sqlite"
	"github.com/aliskhannn/geoquiz-bot/internal/logger"
	"github.com/aliskhannn/geoquiz-bot/internal/platform/gemini"
	"github.com/aliskhannn/geoquiz-bot/internal/repository"
	"github.com/aliskhannn/geoquiz-bot/internal/service"
	"github.com/aliskhannn/geoquiz-bot/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	lg, err := logger.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	defer func() { _ = lg.Sync() }()

	if err := run(cfg, lg); err != nil && !errors.Is(err, context.Canceled) {
		lg.Fatal("bot stopped with error", zap.Error(err))
	}
}

func run(cfg *config.Config, lg *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := tgbotapi.NewBotAPI(cfg.TelegramAPIToken)
	if err != nil {
		return fmt.Errorf("create bot: %w", err)
	}

	// Set commands.
	commands := []tgbotapi.BotCommand{
		{Command: "start", Description: "Start the bot"},
		{Command: "list", Description: "Browse countries and mark the ones you know"},
		{Command: "search", Description: "Find a country or capital (usage: /search par)"},
		{Command: "quiz", Description: "Quiz yourself on memorized countries"},
		{Command: "hint", Description: "Get a memory cue (usage: /hint France)"},
		{Command: "reset", Description: "Forget all memorized countries"},
		{Command: "help", Description: "Help"},
	}
	if _, err := bot.Request(tgbotapi.NewSetMyCommands(commands...)); err != nil {
		lg.Warn("failed to set bot commands", zap.Error(err))
	}

	bot.Debug = cfg.Env != "production"
	lg.Info("authorized on account", zap.String("username", bot.Self.UserName))

	// Initialize repositories and services.
	catalog, err := repository.NewCatalogRepository(cfg.CatalogPath)
	if err != nil {
		return err
	}

	kv, closeKV, err := openKeyValueStore(ctx, cfg, lg)
	if err != nil {
		return err
	}
	defer closeKV()

	var generator service.HintGenerator
	if cfg.Hint.Enabled() {
		g, err := gemini.NewHintGenerator(ctx, gemini.Config{
			APIKey: cfg.Hint.GeminiAPIKey,
			Model:  cfg.Hint.Model,
		}, lg)
		if err != nil {
			return err
		}
		generator = g
	} else {
		lg.Info("GEMINI_API_KEY is not set, memory cues are disabled")
	}

	sessions := storage.NewQuizStorage()

	memorizationService := service.NewMemorizationService(catalog, kv, lg)
	catalogService := service.NewCatalogService(catalog, memorizationService)
	quizService := service.NewQuizService(
		catalog,
		memorizationService,
		service.NewQuizGenerator(nil),
		sessions,
		service.QuizConfig{
			Length:             cfg.Quiz.Length,
			OptionsPerQuestion: cfg.Quiz.OptionsPerQuestion,
		},
		lg,
	)
	hintService := service.NewHintService(catalog, generator, cfg.Hint.Timeout, lg)

	janitor := service.NewSessionJanitor(sessions, cfg.Quiz.SessionTTL, cfg.Quiz.JanitorSchedule, lg)
	go janitor.Start(ctx)

	handler := telegram.NewHandler(
		bot,
		lg,
		catalogService,
		memorizationService,
		quizService,
		hintService,
	)

	err = handler.Run(ctx)
	lg.Info("shutdown signal received")
	return err
}

// openKeyValueStore opens the store backing memorized sets for the configured driver.
func openKeyValueStore(ctx context.Context, cfg *config.Config, lg *zap.Logger) (service.KeyValueStore, func(), error) {
	switch cfg.Storage.Driver {
	case config.StorageDriverPostgres:
		dsn, err := cfg.DB.DSN()
		if err != nil {
			return nil, nil, err
		}

		if err := postgres.Migrate(ctx, dsn, lg); err != nil {
			return nil, nil, err
		}

		pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
			MaxConns:        int32(cfg.DB.MaxConnections),
			MaxConnLifetime: cfg.DB.MaxConnLifetime,
		})
		if err != nil {
			return nil, nil, err
		}

		lg.Info("using postgres storage")
		return pgrepo.NewKVRepository(pool), pool.Close, nil

	case config.StorageDriverSQLite:
		store, err := sqlite.Open(ctx, cfg.Storage.SQLitePath)
		if err != nil {
			return nil, nil, err
		}

		lg.Info("using sqlite storage", zap.String("dsn", cfg.Storage.SQLitePath))
		return store, func() {
			if err := store.Close(); err != nil {
				lg.Warn("failed to close sqlite", zap.Error(err))
			}
		}, nil

	default:
		lg.Warn("using in-memory storage, memorized sets are lost on restart")
		return storage.NewMemoryKV(), func() {}, nil
	}
}
