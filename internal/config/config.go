package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port string

	// Auth
	APIKey string

	// Ollama models
	EmbedModel   string
	EmbedDim     int
	ExtractModel string

	// Vector store. Empty DSN selects the in-memory store.
	PostgresDSN string

	// Retrieval
	TopK int

	// Worker pool
	WorkerCount            int
	MaxQueueSize           int
	MaxConcurrentEmbed     int
	MaxConcurrentQuestions int

	// Timeouts
	ExtractTimeout  time.Duration
	QuestionTimeout time.Duration

	// Upload limits
	MaxUploadBytes int64

	// Job state
	JobTTL time.Duration

	// PDF parsing
	PDFFallbackPdftotext bool
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8090"),

		APIKey: os.Getenv("POLICYAUDIT_API_KEY"),

		EmbedModel:   envOr("EMBED_MODEL", "all-minilm"),
		EmbedDim:     envInt("EMBED_DIM", 384),
		ExtractModel: envOr("EXTRACT_MODEL", "llama3.2"),

		PostgresDSN: os.Getenv("POSTGRES_DSN"),

		TopK: envInt("TOP_K", 3),

		WorkerCount:            envInt("WORKER_COUNT", 2),
		MaxQueueSize:           envInt("MAX_QUEUE_SIZE", 100),
		MaxConcurrentEmbed:     envInt("MAX_CONCURRENT_EMBED", 4),
		MaxConcurrentQuestions: envInt("MAX_CONCURRENT_QUESTIONS", 2),

		ExtractTimeout:  envDuration("EXTRACT_TIMEOUT", 60*time.Second),
		QuestionTimeout: envDuration("QUESTION_TIMEOUT", 2*time.Minute),

		MaxUploadBytes: envInt64("MAX_UPLOAD_BYTES", 52428800), // 50MB

		JobTTL: envDuration("JOB_TTL", 1*time.Hour),

		PDFFallbackPdftotext: envBool("PDF_FALLBACK_PDFTOTEXT", true),
	}

	if cfg.EmbedDim <= 0 {
		cfg.EmbedDim = 384
	}
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	if cfg.WorkerCount <= 0 {
		cfg.WorkerCount = 2
	}
	if cfg.MaxQueueSize <= 0 {
		cfg.MaxQueueSize = 100
	}
	if cfg.MaxConcurrentEmbed <= 0 {
		cfg.MaxConcurrentEmbed = 4
	}
	if cfg.MaxConcurrentQuestions <= 0 {
		cfg.MaxConcurrentQuestions = 2
	}
	if cfg.MaxUploadBytes <= 0 {
		cfg.MaxUploadBytes = 52428800
	}
	if cfg.JobTTL <= 0 {
		cfg.JobTTL = 1 * time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.APIKey == "" {
		return fmt.Errorf("POLICYAUDIT_API_KEY is required")
	}
	if c.EmbedModel == "" {
		return fmt.Errorf("EMBED_MODEL is required")
	}
	if c.ExtractModel == "" {
		return fmt.Errorf("EXTRACT_MODEL is required")
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
