// Command inspect decodes a binary embedding artifact and prints its table
// of contents.
//
//	inspect [artifact]
//
// The argument overrides OUTPUT_PATH.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"embedpack/internal/app"
	"embedpack/internal/binfmt"
	"embedpack/internal/config"

	"github.com/joho/godotenv"
)

func main() {
	if err := run(); err != nil {
		slog.Default().Error("inspect failed", "err", err)
		os.Exit(1)
	}
}

func run() error {
	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	path := cfg.OutputPath
	if len(os.Args) > 1 {
		path = os.Args[1]
	}

	codec := binfmt.New(cfg.Dimension)
	table, err := app.LoadArtifact(codec, path, cfg.StrictDecode)
	if err != nil {
		return err
	}

	info, err := os.Stat(path)
	if err != nil {
		return err
	}

	fmt.Printf("%s: %d categories, dim %d, %d bytes\n", path, len(table), codec.Dim, info.Size())
	for _, e := range table {
		fmt.Printf("  - %s\n", e.Name)
	}
	return nil
}
