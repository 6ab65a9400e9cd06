package config

import (
	"fmt"

	"github.com/caarlos0/env/v10"
	"github.com/go-playground/validator/v10"
)

// Config holds runtime configuration for the converter and the serving
// process. Values come from the environment; the conversion entry points
// additionally accept explicit source/destination arguments that override
// SOURCE_PATH and OUTPUT_PATH.
type Config struct {
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Schema
	Dimension int `env:"EMBEDDING_DIM" envDefault:"512" validate:"gt=0"`

	// Extraction
	SourceFormat string `env:"SOURCE_FORMAT" envDefault:"listing" validate:"oneof=listing yaml openai"`
	SourcePath   string `env:"SOURCE_PATH"`

	// Sink
	OutputFormat string `env:"OUTPUT_FORMAT" envDefault:"bin" validate:"oneof=bin sqlite postgres"`
	OutputPath   string `env:"OUTPUT_PATH" envDefault:"data/embeddings.bin"`
	DBURL        string `env:"DB_URL"`

	// Decoder-side processes (inspect, serve)
	StrictDecode bool `env:"STRICT_DECODE"`

	// Embeddings API (SOURCE_FORMAT=openai)
	OpenAIKey      string `env:"OPENAI_API_KEY"`
	EmbeddingModel string `env:"EMBEDDING_MODEL" envDefault:"text-embedding-3-small"`

	// Vector cache
	CacheProvider string `env:"CACHE_PROVIDER" envDefault:"none" validate:"oneof=none redis"`
	RedisAddr     string `env:"REDIS_ADDR" envDefault:"localhost:6379"`
	RedisPassword string `env:"REDIS_PASSWORD"`

	// Server
	Port int `env:"PORT" envDefault:"8080" validate:"gt=0,lte=65535"`
}

// Load reads configuration from environment variables and validates it.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse env: %w", err)
	}
	if err := validator.New().Struct(&cfg); err != nil {
		return Config{}, fmt.Errorf("config: invalid: %w", err)
	}
	return cfg, nil
}
