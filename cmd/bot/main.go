package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/siteforge/intake-system/internal/bot"
	"github.com/siteforge/intake-system/internal/core/ports"
	"github.com/siteforge/intake-system/internal/core/service"
	"github.com/siteforge/intake-system/internal/form"
	"github.com/siteforge/intake-system/internal/infrastructure/config"
	mongodb "github.com/siteforge/intake-system/internal/infrastructure/db/mongo"
	redisdb "github.com/siteforge/intake-system/internal/infrastructure/db/redis"
	ophttp "github.com/siteforge/intake-system/internal/infrastructure/http"
	"github.com/siteforge/intake-system/internal/infrastructure/webhook"
	"github.com/siteforge/intake-system/internal/queue"
	"github.com/siteforge/intake-system/pkg/logger"
)

const shutdownTimeout = 10 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		fallbackLog := logger.New(logger.Options{})
		fallbackLog.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	client, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to mongo")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = client.Disconnect(disconnectCtx)
	}()

	rdb, err := redisdb.Connect(ctx, redisdb.Config{
		Addr: cfg.Redis.Addr,
		DB:   cfg.Redis.DB,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to redis")
	}
	defer rdb.Close()

	userRepo := mongodb.NewUserRepository(db)
	roleRepo := mongodb.NewRoleRepository(db)
	requestRepo := mongodb.NewRequestRepository(db)
	for _, err := range []error{
		userRepo.EnsureIndexes(ctx),
		requestRepo.EnsureIndexes(ctx),
	} {
		if err != nil {
			log.Fatal().Err(err).Msg("failed to ensure indexes")
		}
	}

	var generator ports.SiteGenerator
	if cfg.WebhookURL != "" {
		generator = webhook.NewClient(cfg.WebhookURL, cfg.WebhookSecret, log)
	}

	userService := service.NewUserService(userRepo, roleRepo, cfg.AdminSecret, log)
	requestService := service.NewRequestService(requestRepo, userRepo, generator, log)

	api, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to create telegram client")
	}

	b := bot.New(bot.Options{
		API:             api,
		Engine:          form.NewEngine(form.NewSessionStore()),
		Users:           userService,
		Requests:        requestService,
		Dedup:           redisdb.NewUpdateDedup(rdb),
		Dispatcher:      queue.NewDispatcher(cfg.Workers, log),
		GenerateEnabled: generator != nil,
		Logger:          log,
	})

	ops := ophttp.NewRouter(db, rdb)
	go func() {
		if err := ops.Start(":" + cfg.HTTPPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ops server stopped")
		}
	}()

	runErr := b.Run(ctx)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := ops.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("ops server shutdown failed")
	}

	if runErr != nil && !errors.Is(runErr, context.Canceled) {
		log.Fatal().Err(runErr).Msg("bot stopped")
	}
	log.Info().Msg("shutdown complete")
}
