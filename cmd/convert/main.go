// Command convert extracts a category embedding table from a source and
// writes it to the configured sink, printing a run summary on success.
//
//	convert [source] [destination]
//
// Arguments override SOURCE_PATH and OUTPUT_PATH. Per-entry warnings and
// structured logs go to stderr; the summary goes to stdout.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"embedpack/internal/app"
	"embedpack/internal/convert"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		slog.Default().Error("conversion failed", "err", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var sourcePath, outputPath string
	if len(args) > 0 {
		sourcePath = args[0]
	}
	if len(args) > 1 {
		outputPath = args[1]
	}

	deps, err := app.BuildConvert(sourcePath, outputPath)
	if err != nil {
		return err
	}
	defer deps.Close()

	summary, err := convert.Run(context.Background(), deps.Log, deps.Extractor, deps.Sink, deps.Config.Dimension)
	if err != nil {
		return err
	}

	fmt.Println(summary)
	return nil
}
