package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"docproc/internal/application/usecase"
	"docproc/internal/di"
	"docproc/internal/infrastructure/env"
	"docproc/internal/infrastructure/userinteraction"
)

const (
	exitOK          = 0
	exitFailure     = 1
	exitInterrupted = 130
)

func main() {
	os.Exit(run())
}

func run() int {
	envService := env.NewEnvService()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	runName := "interactive"
	if len(os.Args) > 1 {
		runName = filepath.Base(os.Args[1])
	}

	container, err := di.NewContainer(di.Config{
		OpenRouterAPIKey: envService.MustGet("OPENROUTER_API_KEY"),
		OpenRouterModel:  envService.MustGet("OPENROUTER_MODEL_NAME"),
		OpenRouterURL:    envService.Get("OPENROUTER_BASE_URL"),
		LogLevel:         envService.GetDefault("LOG_LEVEL", "info"),
		LogHTTP:          envService.GetBool("LOG_HTTP", false),
		RunName:          runName,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "initialization failed: %v\n", err)
		return exitFailure
	}
	defer container.Close()

	var cfg usecase.BatchConfig
	if len(os.Args) > 1 {
		parsed, err := parseArgs(os.Args[1:])
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return exitFailure
		}
		cfg = parsed
	} else {
		collected, confirmed, err := container.Console.CollectBatchConfig()
		if err != nil {
			fmt.Fprintf(os.Stderr, "%v\n", err)
			return exitFailure
		}
		if !confirmed {
			fmt.Println("Aborted.")
			return exitOK
		}
		cfg = collected
	}

	report, err := container.Batch.Run(ctx, cfg)
	if err != nil {
		container.Logger.Error("Batch failed", "error", err)
		return exitFailure
	}

	userinteraction.PrintSummary(report)

	if report.Interrupted {
		container.Logger.Warn("Run interrupted")
		return exitInterrupted
	}
	if !report.AllSucceeded() {
		return exitFailure
	}
	return exitOK
}

func parseArgs(args []string) (usecase.BatchConfig, error) {
	var cfg usecase.BatchConfig

	if len(args) < 3 {
		return cfg, fmt.Errorf("usage: docproc <input_dir> <output_dir> <template_file> [--quality-standards file] [--prompt text] [-c n] [--max-retries n] [--skip-processed]")
	}
	cfg.InputDir = args[0]
	cfg.OutputDir = args[1]
	cfg.TemplateFile = args[2]

	fs := flag.NewFlagSet("docproc", flag.ContinueOnError)
	fs.StringVar(&cfg.QualityStandardsFile, "quality-standards", "", "quality standards file to verify processed documents against")
	fs.StringVar(&cfg.CustomInstruction, "prompt", "", "custom prompt to override the default processing instruction")
	fs.IntVar(&cfg.Concurrency, "c", 5, "maximum number of files to process concurrently")
	fs.IntVar(&cfg.Concurrency, "concurrency", 5, "maximum number of files to process concurrently")
	fs.IntVar(&cfg.MaxRetries, "max-retries", 3, "maximum retry attempts for failed files")
	fs.BoolVar(&cfg.SkipProcessed, "skip-processed", false, "skip inputs whose output file already exists")

	if err := fs.Parse(args[3:]); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	return cfg, nil
}
