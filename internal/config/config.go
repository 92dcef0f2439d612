package config

import (
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/joho/godotenv"
	"go-simpler.org/env"
)

type Config struct {
	AppEnv string `env:"APP_ENV" default:"development"`
	Port   string `env:"PORT" default:"8000"`

	// AllowedOrigin is the single static origin permitted by CORS and the
	// websocket origin check (the frontend dev server in development).
	AllowedOrigin string `env:"ALLOWED_ORIGIN" default:"http://localhost:5173"`

	// InferenceURL is the base URL of the model inference server hosting
	// the classification pipelines.
	InferenceURL   string `env:"INFERENCE_URL"`
	ToxicityModel  string `env:"TOXICITY_MODEL" default:"unitary/toxic-bert"`
	SentimentModel string `env:"SENTIMENT_MODEL" default:"distilbert-base-uncased-finetuned-sst-2-english"`

	LogLevel  string `env:"LOG_LEVEL" default:"info"`
	LogFormat string `env:"LOG_FORMAT" default:"text"`

	MaxConnections int64 `env:"MAX_CONNECTIONS" default:"10000"`

	APIRatePerSecond float64 `env:"API_RATE_PER_SECOND" default:"20"`
	APIRateBurst     int     `env:"API_RATE_BURST" default:"40"`

	InferenceTimeout time.Duration `env:"INFERENCE_TIMEOUT" default:"30s"`
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	var cfg Config
	if err := env.Load(&cfg, nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func validate(cfg *Config) error {
	if cfg.InferenceURL == "" {
		return fmt.Errorf("INFERENCE_URL is required")
	}
	if _, err := url.ParseRequestURI(cfg.InferenceURL); err != nil {
		return fmt.Errorf("INFERENCE_URL must be a valid URL: %w", err)
	}
	if _, err := url.ParseRequestURI(cfg.AllowedOrigin); err != nil {
		return fmt.Errorf("ALLOWED_ORIGIN must be a valid URL: %w", err)
	}
	if cfg.MaxConnections <= 0 {
		return fmt.Errorf("MAX_CONNECTIONS must be positive, got %d", cfg.MaxConnections)
	}
	if cfg.APIRatePerSecond <= 0 {
		return fmt.Errorf("API_RATE_PER_SECOND must be positive, got %g", cfg.APIRatePerSecond)
	}
	return nil
}
