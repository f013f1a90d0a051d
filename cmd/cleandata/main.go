package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"forestcli/internal/cleaner"
	"forestcli/internal/config"
	"forestcli/internal/dataset"
	"forestcli/internal/errors"
	"forestcli/internal/infrastructure"
	"forestcli/internal/validation"
)

func main() {
	inPath := flag.String("in", "", "path to the raw dataset (CSV or XLSX)")
	outPath := flag.String("out", "", "path for the cleaned CSV")
	summaryPath := flag.String("summary", "", "path for the cleaning summary JSON (defaults to <out>.summary.json)")
	flag.Parse()

	if *inPath == "" || *outPath == "" {
		fmt.Fprintln(os.Stderr, "usage: cleandata -in <raw file> -out <cleaned csv> [-summary <json>]")
		flag.PrintDefaults()
		os.Exit(1)
	}
	if *summaryPath == "" {
		*summaryPath = *outPath + ".summary.json"
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.EnsureRunID(context.Background())

	logger.InfoContext(ctx, "Starting forest cover cleaning",
		slog.String("input", *inPath),
		slog.String("output", *outPath),
		slog.Int("study_start", cfg.Study.StartYear),
		slog.Int("study_end", cfg.Study.EndYear),
		slog.Bool("fill_missing", cfg.Cleaning.FillMissing))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(*inPath); err != nil {
		fatal(ctx, logger, "input validation failed", err)
	}
	if err := validator.ValidateOutputFile(*outPath, *inPath); err != nil {
		fatal(ctx, logger, "output validation failed", err)
	}

	rows, err := dataset.ReadRaw(*inPath)
	if err != nil {
		fatal(ctx, logger, "failed to read raw dataset", err)
	}

	// Progress message for callers driving the pipeline
	fmt.Printf("Read %d rows from %s\n", len(rows), *inPath)

	c := cleaner.New(logger, cleaner.Options{
		StartYear:   cfg.Study.StartYear,
		EndYear:     cfg.Study.EndYear,
		FillMissing: cfg.Cleaning.FillMissing,
	})

	records, summary, err := c.Clean(ctx, rows)
	if err != nil {
		fatal(ctx, logger, "cleaning failed", err)
	}

	if err := dataset.WriteRecords(*outPath, records, cfg.Cleaning.AreaPrecision); err != nil {
		fatal(ctx, logger, "failed to write cleaned table", err)
	}

	if err := summary.WriteJSON(ctx, *summaryPath); err != nil {
		fatal(ctx, logger, "failed to write cleaning summary", err)
	}

	logger.InfoContext(ctx, "Cleaning complete",
		slog.Int("rows_read", summary.RowsRead),
		slog.Int("rows_kept", summary.RowsKept),
		slog.Int("rows_excluded", summary.TotalExcluded()),
		slog.Int("duplicates_removed", summary.DuplicatesRemoved),
		slog.Int("missing_filled", summary.MissingFilled),
		slog.String("output", *outPath),
		slog.String("summary", *summaryPath))

	fmt.Printf("Kept %d of %d rows (%d excluded, %d duplicates removed, %d filled)\n",
		summary.RowsKept, summary.RowsRead, summary.TotalExcluded(),
		summary.DuplicatesRemoved, summary.MissingFilled)
	fmt.Printf("Cleaned table written to %s\n", *outPath)
	fmt.Println("Cleaning complete")
}

// fatal logs the error with its kind and terminates with a non-zero status.
func fatal(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(ctx, msg,
		slog.String("error", err.Error()),
		slog.String("kind", string(errors.TypeOf(err))))
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
