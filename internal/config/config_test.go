package config

import (
	"os"
	"testing"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{
		"LOG_LEVEL", "EMBEDDING_DIM", "SOURCE_FORMAT", "SOURCE_PATH",
		"OUTPUT_FORMAT", "OUTPUT_PATH", "DB_URL", "STRICT_DECODE",
		"OPENAI_API_KEY", "EMBEDDING_MODEL", "CACHE_PROVIDER",
		"REDIS_ADDR", "REDIS_PASSWORD", "PORT",
	} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	tests := []struct {
		name     string
		got      interface{}
		expected interface{}
	}{
		{"LogLevel", cfg.LogLevel, "info"},
		{"Dimension", cfg.Dimension, 512},
		{"SourceFormat", cfg.SourceFormat, "listing"},
		{"OutputFormat", cfg.OutputFormat, "bin"},
		{"OutputPath", cfg.OutputPath, "data/embeddings.bin"},
		{"EmbeddingModel", cfg.EmbeddingModel, "text-embedding-3-small"},
		{"CacheProvider", cfg.CacheProvider, "none"},
		{"Port", cfg.Port, 8080},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.expected {
				t.Errorf("expected %s=%v, got %v", tt.name, tt.expected, tt.got)
			}
		})
	}
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("EMBEDDING_DIM", "768")
	t.Setenv("SOURCE_FORMAT", "yaml")
	t.Setenv("OUTPUT_FORMAT", "sqlite")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Dimension != 768 {
		t.Errorf("expected dimension 768, got %d", cfg.Dimension)
	}
	if cfg.SourceFormat != "yaml" {
		t.Errorf("expected source format 'yaml', got %s", cfg.SourceFormat)
	}
	if cfg.OutputFormat != "sqlite" {
		t.Errorf("expected output format 'sqlite', got %s", cfg.OutputFormat)
	}
}

func TestLoadRejectsInvalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown source format", "SOURCE_FORMAT", "csv"},
		{"unknown output format", "OUTPUT_FORMAT", "parquet"},
		{"zero dimension", "EMBEDDING_DIM", "0"},
		{"negative dimension", "EMBEDDING_DIM", "-5"},
		{"port out of range", "PORT", "70000"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			t.Setenv(tt.key, tt.value)
			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.value)
			}
		})
	}
}
