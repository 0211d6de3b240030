package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"homework_status_bot/internal/app"
	"homework_status_bot/internal/domain/homework"
	"homework_status_bot/internal/infra/config"
	idb "homework_status_bot/internal/infra/database"
	"homework_status_bot/internal/infra/logger"
	"homework_status_bot/internal/infra/practicum"
	"homework_status_bot/internal/infra/scheduler"
	"homework_status_bot/internal/infra/telegram"

	"github.com/sirupsen/logrus"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Could not load application configuration: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Could not initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()
	log := logger.Get().WithField("component", "main")

	if !cfg.CheckTokens() {
		log.Fatal("Отсутствуют обязательные переменные окружения: PRACTICUM_TOKEN, TELEGRAM_TOKEN, TELEGRAM_CHAT_ID")
	}

	log.WithFields(logrus.Fields{
		"environment": cfg.Environment,
		"endpoint":    cfg.Endpoint,
		"schedule":    cfg.PollSchedule,
		"chat_id":     cfg.TelegramChatID,
	}).Info("Configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	bot, err := telegram.NewBot(cfg.TelegramToken, cfg.TelegramAPIURL, cfg.HTTPTimeout)
	if err != nil {
		log.WithError(err).Fatal("Could not create Telegram bot")
	}

	var journal homework.Journal
	if cfg.DatabaseURL != "" {
		db, err := idb.NewPostgresConnection(ctx, cfg.DatabaseURL)
		if err != nil {
			log.WithError(err).Fatal("Could not connect to database")
		}
		defer db.Close()

		repo := idb.NewPostgresJournalRepository(db)
		if err := repo.EnsureSchema(ctx); err != nil {
			log.WithError(err).Fatal("Could not prepare notification journal")
		}
		journal = repo
		log.Info("Notification journal enabled")
	}

	pollScheduler, err := scheduler.NewPollScheduler(cfg.PollSchedule, logger.Get().WithField("component", "scheduler"))
	if err != nil {
		log.WithError(err).Fatal("Could not create poll scheduler")
	}

	notifier := app.NewNotifier(
		telegram.NewTelebotAdapter(bot),
		cfg.TelegramChatID,
		logger.Get().WithField("component", "notifier"),
	)
	poller := app.NewPoller(
		practicum.NewClient(cfg.Endpoint, cfg.PracticumToken, cfg.HTTPTimeout),
		notifier,
		cfg.Verdicts,
		journal,
		pollScheduler,
		logger.Get().WithField("component", "poller"),
	)

	if err := poller.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.WithError(err).Error("Poller exited unexpectedly")
		return
	}
	log.Info("Application shut down gracefully")
}
