package app

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/openai/openai-go/v3"
	_ "modernc.org/sqlite"

	"embedpack/internal/binfmt"
	"embedpack/internal/cache"
	"embedpack/internal/config"
	"embedpack/internal/embeddings"
	"embedpack/internal/extract"
	"embedpack/internal/logger"
	"embedpack/internal/store"
)

// ConvertDeps bundles runtime dependencies for a conversion run.
type ConvertDeps struct {
	Config    config.Config
	Log       *slog.Logger
	Extractor extract.Extractor
	Sink      store.Sink

	closers []func() error
}

// Close releases connections opened during Build.
func (d *ConvertDeps) Close() {
	for _, c := range d.closers {
		_ = c()
	}
}

// BuildConvert loads env, config, and the extractor/sink pair. Non-empty
// sourcePath and outputPath override the configured locations, keeping the
// codec decoupled from any fixed filesystem layout.
func BuildConvert(sourcePath, outputPath string) (*ConvertDeps, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if sourcePath != "" {
		cfg.SourcePath = sourcePath
	}
	if outputPath != "" {
		cfg.OutputPath = outputPath
	}
	if cfg.SourcePath == "" {
		return nil, fmt.Errorf("source path required (SOURCE_PATH or argument)")
	}
	log := logger.New(cfg.LogLevel)

	deps := &ConvertDeps{Config: cfg, Log: log}

	if err := buildExtractor(deps); err != nil {
		return nil, fmt.Errorf("failed to initialize extractor: %w", err)
	}
	if err := buildSink(deps); err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to initialize sink: %w", err)
	}
	return deps, nil
}

func buildExtractor(deps *ConvertDeps) error {
	cfg, log := deps.Config, deps.Log
	switch cfg.SourceFormat {
	case "listing":
		deps.Extractor = extract.NewListingExtractor(cfg.SourcePath)
	case "yaml":
		deps.Extractor = extract.NewYAMLExtractor(cfg.SourcePath)
	case "openai":
		if cfg.OpenAIKey == "" {
			return fmt.Errorf("OPENAI_API_KEY is required when SOURCE_FORMAT=openai")
		}
		embedder, err := embeddings.NewOpenAIEmbedder(cfg.OpenAIKey, openai.EmbeddingModel(cfg.EmbeddingModel), cfg.Dimension)
		if err != nil {
			return err
		}
		vc, err := buildCache(cfg, log)
		if err != nil {
			return err
		}
		deps.closers = append(deps.closers, vc.Close)
		deps.Extractor = extract.NewEmbedExtractor(cfg.SourcePath, cfg.EmbeddingModel, embedder, vc)
		log.Info("using OpenAI embedder", "model", cfg.EmbeddingModel, "dim", cfg.Dimension)
	default:
		return fmt.Errorf("invalid SOURCE_FORMAT: %s", cfg.SourceFormat)
	}
	return nil
}

func buildCache(cfg config.Config, log *slog.Logger) (cache.VectorCache, error) {
	switch cfg.CacheProvider {
	case "redis":
		vc, err := cache.NewRedisCache(cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			return nil, err
		}
		log.Info("using Redis vector cache", "addr", cfg.RedisAddr)
		return vc, nil
	default:
		return cache.NewNoOpCache(), nil
	}
}

func buildSink(deps *ConvertDeps) error {
	cfg, log := deps.Config, deps.Log
	codec := binfmt.New(cfg.Dimension)
	switch cfg.OutputFormat {
	case "bin":
		deps.Sink = store.NewFileSink(cfg.OutputPath, codec)
	case "sqlite":
		db, err := sql.Open("sqlite", cfg.OutputPath)
		if err != nil {
			return fmt.Errorf("open sqlite %s: %w", cfg.OutputPath, err)
		}
		sink, err := store.NewSQLiteSink(db, cfg.OutputPath)
		if err != nil {
			db.Close()
			return err
		}
		deps.closers = append(deps.closers, db.Close)
		deps.Sink = sink
		log.Info("using SQLite sink", "path", cfg.OutputPath)
	case "postgres":
		if cfg.DBURL == "" {
			return fmt.Errorf("DB_URL is required when OUTPUT_FORMAT=postgres")
		}
		sink, err := store.NewPostgresSink(cfg.DBURL, cfg.Dimension)
		if err != nil {
			return err
		}
		deps.closers = append(deps.closers, sink.Close)
		deps.Sink = sink
		log.Info("using Postgres sink")
	default:
		return fmt.Errorf("invalid OUTPUT_FORMAT: %s", cfg.OutputFormat)
	}
	return nil
}

// ServeDeps bundles what the serving process needs: the decoded table.
type ServeDeps struct {
	Config config.Config
	Log    *slog.Logger
	Codec  binfmt.Codec
	Table  embeddings.Table
}

// BuildServe loads env and config, then decodes the artifact at
// artifactPath (or OUTPUT_PATH when empty) into memory.
func BuildServe(artifactPath string) (*ServeDeps, error) {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if artifactPath != "" {
		cfg.OutputPath = artifactPath
	}
	log := logger.New(cfg.LogLevel)

	codec := binfmt.New(cfg.Dimension)
	table, err := LoadArtifact(codec, cfg.OutputPath, cfg.StrictDecode)
	if err != nil {
		return nil, err
	}
	log.Info("loaded embedding table", "path", cfg.OutputPath, "categories", len(table), "dim", cfg.Dimension)

	return &ServeDeps{Config: cfg, Log: log, Codec: codec, Table: table}, nil
}

// LoadArtifact decodes the binary artifact at path.
func LoadArtifact(codec binfmt.Codec, path string, strict bool) (embeddings.Table, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", extract.ErrSourceNotFound, path)
		}
		return nil, fmt.Errorf("open artifact %s: %w", path, err)
	}
	defer f.Close()

	if strict {
		return codec.DecodeStrict(f)
	}
	return codec.Decode(f)
}
