// Package config loads worker configuration from the environment.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Database  DatabaseConfig
	Scheduler SchedulerConfig
	Delivery  DeliveryConfig
	Tools     ToolsConfig
	Telegram  TelegramConfig
	Kafka     KafkaConfig
}

type DatabaseConfig struct {
	DSN string
}

type SchedulerConfig struct {
	PollInterval   time.Duration
	StuckThreshold time.Duration
}

type DeliveryConfig struct {
	ChunkSize   int
	SendDelay   time.Duration
	DownloadDir string
	TempDir     string
}

type ToolsConfig struct {
	YtDlpPath      string
	WhisperPath    string
	WhisperModel   string
	WhisperThreads int
	LlamaURL       string
	LlamaTimeout   time.Duration
}

type TelegramConfig struct {
	Token   string
	APIBase string
}

type KafkaConfig struct {
	Brokers        []string
	Topic          string
	OutboxInterval time.Duration
	OutboxBatch    int
}

func Load() *Config {
	return &Config{
		Database: DatabaseConfig{
			DSN: getEnv("DATABASE_URL", ""),
		},
		Scheduler: SchedulerConfig{
			PollInterval:   getEnvAsDuration("POLL_INTERVAL", 10*time.Second),
			StuckThreshold: getEnvAsDuration("STUCK_THRESHOLD", time.Hour),
		},
		Delivery: DeliveryConfig{
			ChunkSize:   getEnvAsInt("MESSAGE_CHUNK_SIZE", 4000),
			SendDelay:   getEnvAsDuration("MESSAGE_SEND_DELAY", time.Second),
			DownloadDir: getEnv("DOWNLOAD_DIR", "downloads"),
			TempDir:     getEnv("TEMP_DIR", os.TempDir()),
		},
		Tools: ToolsConfig{
			YtDlpPath:      getEnv("YTDLP_PATH", "yt-dlp"),
			WhisperPath:    getEnv("WHISPER_PATH", "whisper/whisper-cli"),
			WhisperModel:   getEnv("WHISPER_MODEL", "whisper/models/ggml-large-v3.bin"),
			WhisperThreads: getEnvAsInt("WHISPER_THREADS", 4),
			LlamaURL:       getEnv("LLAMA_URL", "http://localhost:8081"),
			LlamaTimeout:   getEnvAsDuration("LLAMA_TIMEOUT", 5*time.Minute),
		},
		Telegram: TelegramConfig{
			Token:   getEnv("TELEGRAM_TOKEN", ""),
			APIBase: getEnv("TELEGRAM_API_BASE", "https://api.telegram.org"),
		},
		Kafka: KafkaConfig{
			Brokers:        strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
			Topic:          getEnv("KAFKA_TOPIC", "job-events"),
			OutboxInterval: getEnvAsDuration("OUTBOX_INTERVAL", 5*time.Second),
			OutboxBatch:    getEnvAsInt("OUTBOX_BATCH", 100),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
