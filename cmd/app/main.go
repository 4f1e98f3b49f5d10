package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"telegram-reminder-bot/internal/application"
	"telegram-reminder-bot/internal/config"
	"telegram-reminder-bot/internal/domain/ports/repository"
	tele "telegram-reminder-bot/internal/infra/adapters/telegram"
	"telegram-reminder-bot/internal/infra/api"
	pg "telegram-reminder-bot/internal/infra/db/postgres"
	"telegram-reminder-bot/internal/infra/logging"
	"telegram-reminder-bot/internal/infra/memory"
	red "telegram-reminder-bot/internal/infra/redis"
	"telegram-reminder-bot/internal/infra/sched"
	"telegram-reminder-bot/internal/usecase"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// ---- CLI flags ----
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	devMode := flag.Bool("dev", false, "enable developer mode (console logs, relaxed checks)")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, *devMode)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger := logging.New(cfg.Log, cfg.Runtime.Dev)
	if cfg.Runtime.Dev {
		logger.Info().Msg("dev mode enabled")
	}

	// ---- Timezone ----
	zone, err := time.LoadLocation(cfg.Resolver.Timezone)
	if err != nil {
		logger.Fatal().Err(err).Str("tz", cfg.Resolver.Timezone).Msg("invalid resolver timezone")
	}

	// ---- Postgres ----
	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 10)
	if err != nil {
		logger.Fatal().Err(err).Msg("postgres connect failed")
	}
	defer pool.Close()
	if err := pg.EnsureSchema(ctx, pool); err != nil {
		logger.Fatal().Err(err).Msg("schema setup failed")
	}
	reminderRepo := pg.NewReminderRepo(pool)

	// ---- Sessions: Redis when configured, in-memory otherwise ----
	var sessionRepo repository.SessionRepository
	if cfg.Redis.URL != "" {
		redisClient, err := red.NewClient(ctx, &cfg.Redis)
		if err != nil {
			logger.Fatal().Err(err).Msg("redis connect failed")
		}
		defer redisClient.Close()
		sessionRepo = red.NewSessionRepo(redisClient, cfg.Resolver.SessionTTL)
	} else {
		logger.Warn().Msg("redis.url not set; conversation state is in-memory and lost on restart")
		sessionRepo = memory.NewSessionRepo(cfg.Resolver.SessionTTL)
	}

	// ---- Use cases ----
	remUC := usecase.NewReminderUseCase(reminderRepo, logger)
	convUC := usecase.NewConversationUseCase(sessionRepo, remUC, zone, logger)

	// ---- Facade + Telegram ----
	facade := application.NewBotFacade(convUC, remUC, zone, logger)
	bot, err := tele.NewRealTelegramBot(&cfg.Bot, facade, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("telegram setup failed")
	}
	go func() {
		if err := bot.StartPolling(ctx); err != nil && ctx.Err() == nil {
			logger.Error().Err(err).Msg("telegram polling stopped")
		}
	}()

	// ---- Due dispatcher ----
	dispatchUC := usecase.NewDispatchUseCase(reminderRepo, bot, cfg.Dispatcher.MaxAttempts, logger)
	worker := sched.NewDispatchWorker(cfg.Dispatcher.Interval, cfg.Dispatcher.WarmupDelay, dispatchUC, logger)
	go func() { _ = worker.Run(ctx) }()

	// ---- Admin / metrics ----
	var admin *api.Server
	if cfg.Admin.Port > 0 {
		admin = api.NewServer(cfg.Admin.Port, logger)
		admin.Start()
	}

	// ---- Graceful shutdown ----
	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	<-sigc
	logger.Info().Msg("shutdown requested")
	cancel()
	if admin != nil {
		shutdownCtx, stop := context.WithTimeout(context.Background(), 5*time.Second)
		defer stop()
		_ = admin.Shutdown(shutdownCtx)
	}
}
