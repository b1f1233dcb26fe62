package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/vetrovs/mediabot/internal/config"
	"github.com/vetrovs/mediabot/internal/handler"
	"github.com/vetrovs/mediabot/internal/jobs/models"
	"github.com/vetrovs/mediabot/internal/jobs/outbox"
	"github.com/vetrovs/mediabot/internal/kafka"
	"github.com/vetrovs/mediabot/internal/messages"
	"github.com/vetrovs/mediabot/internal/notify"
	"github.com/vetrovs/mediabot/internal/scheduler"
	pg "github.com/vetrovs/mediabot/internal/storage/postgres"
	"github.com/vetrovs/mediabot/internal/tools"
)

func run(ctx context.Context) error {
	_ = godotenv.Load()
	cfg := config.Load()

	logger := zerolog.New(os.Stderr).With().Timestamp().Logger()

	if cfg.Database.DSN == "" {
		return fmt.Errorf("DATABASE_URL is empty")
	}
	if cfg.Telegram.Token == "" {
		return fmt.Errorf("TELEGRAM_TOKEN is empty")
	}

	db, err := pg.Connect(ctx, cfg.Database.DSN)
	if err != nil {
		return fmt.Errorf("db connect: %w", err)
	}
	defer db.Close()

	if err := pg.InitSchema(ctx, db); err != nil {
		return err
	}

	jobRepo := pg.NewJobRepo(db)
	resultRepo := pg.NewResultRepo(db)
	outboxRepo := pg.NewOutboxRepo(db)

	// External tools are validated once here; everything downstream receives
	// already-checked adapters.
	runner := tools.NewRunner(logger)
	ytdlp := tools.NewYtDlp(cfg.Tools.YtDlpPath, runner, logger)
	whisper := tools.NewWhisper(cfg.Tools.WhisperPath, cfg.Tools.WhisperModel, cfg.Tools.WhisperThreads, runner, logger)
	llama := tools.NewLlama(cfg.Tools.LlamaURL, cfg.Tools.LlamaTimeout, logger)
	if err := tools.Check(ctx, ytdlp, whisper, llama); err != nil {
		return fmt.Errorf("tool check: %w", err)
	}

	notifier := notify.NewTelegram(cfg.Telegram.Token, cfg.Telegram.APIBase, logger)

	transcribe := handler.NewTranscribeHandler(resultRepo, ytdlp, whisper, cfg.Delivery.TempDir,
		notifier, logger, cfg.Delivery.ChunkSize, cfg.Delivery.SendDelay)

	registry := handler.NewRegistry()
	registry.Register(models.FetchVideo, handler.NewFetchHandler(models.FetchVideo, ytdlp, cfg.Delivery.DownloadDir,
		notifier, logger, cfg.Delivery.ChunkSize, cfg.Delivery.SendDelay))
	registry.Register(models.FetchAudio, handler.NewFetchHandler(models.FetchAudio, ytdlp, cfg.Delivery.DownloadDir,
		notifier, logger, cfg.Delivery.ChunkSize, cfg.Delivery.SendDelay))
	registry.Register(models.Transcribe, transcribe)
	registry.Register(models.Normalize, handler.NewNormalizeHandler(resultRepo, llama, transcribe,
		notifier, logger, cfg.Delivery.ChunkSize, cfg.Delivery.SendDelay))
	registry.Register(models.FullBundle, handler.NewBundleHandler(resultRepo, ytdlp, llama, transcribe,
		cfg.Delivery.TempDir, notifier, logger, cfg.Delivery.ChunkSize, cfg.Delivery.SendDelay))

	producer, err := kafka.NewProducer(kafka.ProducerConfig{
		Brokers: cfg.Kafka.Brokers,
		Topic:   cfg.Kafka.Topic,
		Logger:  logger,
	})
	if err != nil {
		return fmt.Errorf("kafka producer: %w", err)
	}
	defer producer.Close()

	publisher, err := outbox.NewPublisher(outbox.PublisherConfig{
		OutboxRepo: outboxRepo,
		Producer:   producer,
		Interval:   cfg.Kafka.OutboxInterval,
		BatchSize:  cfg.Kafka.OutboxBatch,
		Logger:     logger,
	})
	if err != nil {
		return fmt.Errorf("outbox publisher: %w", err)
	}

	sched, err := scheduler.New(scheduler.Config{
		Jobs:       jobRepo,
		Registry:   registry,
		Notifier:   notifier,
		Events:     outboxRepo,
		Interval:   cfg.Scheduler.PollInterval,
		StuckAfter: cfg.Scheduler.StuckThreshold,
		OnCompleted: func(ctx context.Context, job *models.Job) {
			if err := notifier.SendText(ctx, job.ChatID, messages.Get("common.done_next", job.Locale)); err != nil {
				logger.Error().Err(err).Int64("chat_id", job.ChatID).Msg("follow-up not delivered")
			}
		},
		Logger: logger,
	})
	if err != nil {
		return fmt.Errorf("scheduler: %w", err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	errCh := make(chan error, 2)
	go func() { errCh <- publisher.Start(runCtx) }()
	go func() { errCh <- sched.Run(runCtx) }()

	// First fatal error wins; cancel the sibling loop and drain it.
	var firstErr error
	for i := 0; i < 2; i++ {
		err := <-errCh
		if firstErr == nil && err != nil && !errors.Is(err, context.Canceled) {
			firstErr = err
		}
		cancel()
	}
	return firstErr
}
