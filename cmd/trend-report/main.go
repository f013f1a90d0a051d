package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"forestcli/internal/chart"
	"forestcli/internal/config"
	"forestcli/internal/dataset"
	"forestcli/internal/errors"
	"forestcli/internal/infrastructure"
	"forestcli/internal/trend"
	"forestcli/internal/validation"
)

const (
	resultsFile = "trend_results.csv"
	summaryFile = "trend_summary.txt"
)

func main() {
	inPath := flag.String("in", "", "path to the cleaned CSV")
	outDir := flag.String("out", "", "directory for analysis artifacts")
	noCharts := flag.Bool("no-charts", false, "skip PNG chart rendering")
	flag.Parse()

	if *inPath == "" || *outDir == "" {
		fmt.Fprintln(os.Stderr, "usage: trend-report -in <cleaned csv> -out <artifact dir> [-no-charts]")
		flag.PrintDefaults()
		os.Exit(1)
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

	logger.InfoContext(ctx, "Starting forest cover trend analysis",
		slog.String("input", *inPath),
		slog.String("output_dir", *outDir))

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateInputFile(*inPath); err != nil {
		fatal(ctx, logger, "input validation failed", err)
	}
	if err := validator.ValidateOutputDirectory(*outDir); err != nil {
		fatal(ctx, logger, "output validation failed", err)
	}

	records, err := dataset.LoadRecords(*inPath)
	if err != nil {
		fatal(ctx, logger, "failed to load cleaned table", err)
	}

	fmt.Printf("Loaded %d records from %s\n", len(records), *inPath)

	analyzer := trend.NewAnalyzer(logger)
	trends, err := analyzer.Analyze(ctx, records)
	if err != nil {
		fatal(ctx, logger, "trend analysis failed", err)
	}

	global, err := analyzer.GlobalTrend(ctx, records)
	if err != nil {
		fatal(ctx, logger, "global trend computation failed", err)
	}

	resultsPath := filepath.Join(*outDir, resultsFile)
	if err := trend.SaveResultsCSV(trends, resultsPath); err != nil {
		fatal(ctx, logger, "failed to write trend results", err)
	}
	fmt.Printf("Trend results written to %s\n", resultsPath)

	summaryPath := filepath.Join(*outDir, summaryFile)
	if err := trend.SaveSummaryReport(trends, global, summaryPath); err != nil {
		fatal(ctx, logger, "failed to write summary report", err)
	}
	fmt.Printf("Summary report written to %s\n", summaryPath)

	if !*noCharts {
		renderer := chart.NewRenderer(logger, cfg.Charts)
		charts, err := renderer.RenderAll(ctx, records, trends, global, *outDir)
		if err != nil {
			fatal(ctx, logger, "chart rendering failed", err)
		}
		for _, path := range charts {
			fmt.Printf("Chart written to %s\n", path)
		}
	}

	fmt.Println()
	trend.RenderTable(os.Stdout, trends)

	logger.InfoContext(ctx, "Trend analysis complete",
		slog.Int("records", len(records)),
		slog.Int("regions", len(trends)),
		slog.String("output_dir", *outDir))

	fmt.Println("Analysis complete")
}

// fatal logs the error with its kind and terminates with a non-zero status.
func fatal(ctx context.Context, logger *slog.Logger, msg string, err error) {
	logger.ErrorContext(ctx, msg,
		slog.String("error", err.Error()),
		slog.String("kind", string(errors.TypeOf(err))))
	fmt.Fprintf(os.Stderr, "%s: %v\n", msg, err)
	os.Exit(1)
}
