package usecase

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"docproc/internal/application/port/output"
	"docproc/internal/application/service"
	"docproc/internal/domain/entity"
)

const documentSuffix = ".md"

// BatchConfig carries every parameter the batch needs, whether it came from
// CLI flags or the interactive wizard.
type BatchConfig struct {
	InputDir             string
	OutputDir            string
	TemplateFile         string
	QualityStandardsFile string
	// QualityStandards holds standards text directly when no file is
	// involved (interactive quality tiers). The file takes precedence.
	QualityStandards  string
	CustomInstruction string
	Concurrency       int
	MaxRetries        int
	SkipProcessed     bool
}

// BatchReport aggregates every TaskResult of a run.
type BatchReport struct {
	Results       []entity.TaskResult
	WallTime      time.Duration
	StandardsUsed bool
	Interrupted   bool
}

func (r *BatchReport) Successes() []entity.TaskResult {
	var out []entity.TaskResult
	for _, res := range r.Results {
		if res.Success {
			out = append(out, res)
		}
	}
	return out
}

func (r *BatchReport) Failures() []entity.TaskResult {
	var out []entity.TaskResult
	for _, res := range r.Results {
		if !res.Success {
			out = append(out, res)
		}
	}
	return out
}

// AverageSuccessTime is the mean per-task duration over successful tasks.
func (r *BatchReport) AverageSuccessTime() time.Duration {
	successes := r.Successes()
	if len(successes) == 0 {
		return 0
	}
	var sum time.Duration
	for _, res := range successes {
		sum += res.Duration
	}
	return sum / time.Duration(len(successes))
}

// Efficiency is summed per-task time divided by wall time. It is bounded
// above by the concurrency limit, not a true speedup figure.
func (r *BatchReport) Efficiency() float64 {
	if r.WallTime <= 0 {
		return 0
	}
	var sum time.Duration
	for _, res := range r.Results {
		sum += res.Duration
	}
	return float64(sum) / float64(r.WallTime)
}

func (r *BatchReport) AllSucceeded() bool {
	for _, res := range r.Results {
		if !res.Success {
			return false
		}
	}
	return true
}

// BatchRunner turns a directory plus configuration into a populated output
// directory and a report. Tasks run concurrently up to the gate's limit and
// a failing task never cancels the others.
type BatchRunner struct {
	processor *Processor
	files     output.FileStorePort
	logger    output.LoggerPort
}

func NewBatchRunner(processor *Processor, files output.FileStorePort, logger output.LoggerPort) *BatchRunner {
	return &BatchRunner{
		processor: processor,
		files:     files,
		logger:    logger,
	}
}

// Validate checks every precondition that must fail the run before any task
// launches.
func (b *BatchRunner) Validate(cfg BatchConfig) error {
	var problems []string

	if !b.files.Exists(cfg.InputDir) {
		problems = append(problems, fmt.Sprintf("input directory not found: %s", cfg.InputDir))
	} else if !b.files.IsDir(cfg.InputDir) {
		problems = append(problems, fmt.Sprintf("input path is not a directory: %s", cfg.InputDir))
	}

	if !b.files.Exists(cfg.TemplateFile) {
		problems = append(problems, fmt.Sprintf("template file not found: %s", cfg.TemplateFile))
	} else if !b.files.IsFile(cfg.TemplateFile) {
		problems = append(problems, fmt.Sprintf("template path is not a file: %s", cfg.TemplateFile))
	}

	if cfg.QualityStandardsFile != "" {
		if !b.files.Exists(cfg.QualityStandardsFile) {
			problems = append(problems, fmt.Sprintf("quality standards file not found: %s", cfg.QualityStandardsFile))
		} else if !b.files.IsFile(cfg.QualityStandardsFile) {
			problems = append(problems, fmt.Sprintf("quality standards path is not a file: %s", cfg.QualityStandardsFile))
		}
	}

	if cfg.Concurrency < 1 {
		problems = append(problems, "concurrency must be at least 1")
	}
	if cfg.MaxRetries < 0 {
		problems = append(problems, "max retries must be 0 or greater")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Run executes the batch. A non-nil error means a configuration failure
// before any task launched; per-task failures are reported only through the
// report.
func (b *BatchRunner) Run(ctx context.Context, cfg BatchConfig) (*BatchReport, error) {
	if err := b.Validate(cfg); err != nil {
		return nil, err
	}

	if err := b.files.EnsureDir(cfg.OutputDir); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	template, err := b.files.ReadText(cfg.TemplateFile)
	if err != nil {
		return nil, fmt.Errorf("read template file: %w", err)
	}

	standards := cfg.QualityStandards
	if cfg.QualityStandardsFile != "" {
		standards, err = b.files.ReadText(cfg.QualityStandardsFile)
		if err != nil {
			return nil, fmt.Errorf("read quality standards file: %w", err)
		}
		b.logger.Info("Loaded quality standards", "file", cfg.QualityStandardsFile)
	}

	inputs, err := b.files.ListFiles(cfg.InputDir, documentSuffix)
	if err != nil {
		return nil, fmt.Errorf("list input files: %w", err)
	}

	if cfg.SkipProcessed {
		inputs = b.filterProcessed(inputs, cfg.OutputDir)
	}

	report := &BatchReport{StandardsUsed: standards != ""}
	if len(inputs) == 0 {
		b.logger.Warn("No markdown files to process", "dir", cfg.InputDir)
		return report, nil
	}

	mode := "sequential"
	if cfg.Concurrency > 1 {
		mode = fmt.Sprintf("concurrent (limit: %d)", cfg.Concurrency)
	}
	b.logger.Info("Starting batch", "files", len(inputs), "mode", mode)
	b.logFileList(inputs)

	start := time.Now()
	gate := make(chan struct{}, cfg.Concurrency)
	progress := service.NewProgressCounter(len(inputs))
	results := make([]entity.TaskResult, len(inputs))

	var wg sync.WaitGroup
	for i, input := range inputs {
		task := entity.Task{
			InputPath:         input,
			OutputPath:        filepath.Join(cfg.OutputDir, filepath.Base(input)),
			Template:          template,
			QualityStandards:  standards,
			CustomInstruction: cfg.CustomInstruction,
			MaxRetries:        cfg.MaxRetries,
		}
		wg.Add(1)
		go func(i int, task entity.Task) {
			defer wg.Done()
			results[i] = b.processor.Process(ctx, task, gate, progress)
		}(i, task)
	}
	wg.Wait()

	report.Results = results
	report.WallTime = time.Since(start)
	report.Interrupted = ctx.Err() != nil
	return report, nil
}

func (b *BatchRunner) filterProcessed(inputs []string, outputDir string) []string {
	var remaining []string
	for _, input := range inputs {
		out := filepath.Join(outputDir, filepath.Base(input))
		if b.files.Exists(out) {
			b.logger.Info("Skipping already processed file", "file", filepath.Base(input))
			continue
		}
		remaining = append(remaining, input)
	}
	return remaining
}

func (b *BatchRunner) logFileList(inputs []string) {
	names := make([]string, len(inputs))
	for i, input := range inputs {
		names[i] = filepath.Base(input)
	}
	if len(names) <= 10 {
		b.logger.Info("Files to process", "files", strings.Join(names, ", "))
		return
	}
	b.logger.Info("Files to process",
		"first", strings.Join(names[:3], ", "),
		"more", len(names)-3)
}
