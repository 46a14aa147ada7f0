package usecase

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"docproc/internal/application/port/output"
	"docproc/internal/application/service"
	"docproc/internal/domain/entity"
	"docproc/internal/infrastructure/prompts"
)

const dateLayout = "January 2, 2006"

// Processor executes a single Task to completion: it holds a slot in the
// shared concurrency gate for the whole task body, retries failed attempts
// with exponential backoff, and always returns exactly one TaskResult.
// No failure mode escapes; a failing task never aborts its siblings.
type Processor struct {
	llm      output.LLMPort
	files    output.FileStorePort
	verifier *Verifier
	logger   output.LoggerPort
	sleep    func(ctx context.Context, d time.Duration)
	now      func() time.Time
}

type ProcessorConfig struct {
	// Sleep and Now are injectable for tests; nil means real time.
	Sleep func(ctx context.Context, d time.Duration)
	Now   func() time.Time
}

func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{}
}

func NewProcessor(llm output.LLMPort, files output.FileStorePort, verifier *Verifier, logger output.LoggerPort, cfg ProcessorConfig) *Processor {
	sleep := cfg.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	return &Processor{
		llm:      llm,
		files:    files,
		verifier: verifier,
		logger:   logger,
		sleep:    sleep,
		now:      now,
	}
}

// Process runs one task under the shared gate. The gate slot is acquired
// before any work, held across all retries, and released on every exit path.
func (p *Processor) Process(ctx context.Context, task entity.Task, gate chan struct{}, progress *service.ProgressCounter) entity.TaskResult {
	start := time.Now()
	name := filepath.Base(task.InputPath)

	select {
	case <-ctx.Done():
		progress.MarkComplete(false)
		return entity.TaskResult{
			Success:   false,
			InputPath: task.InputPath,
			Error:     "interrupted before start",
			Duration:  time.Since(start),
		}
	case gate <- struct{}{}:
	}
	defer func() { <-gate }()

	retryCount := 0

	for attempt := 0; attempt < task.MaxRetries; attempt++ {
		p.logger.Info("Processing document", "progress", progress.Status(), "file", name)

		document, err := p.files.ReadText(task.InputPath)
		if err != nil {
			// Retrying an unreadable file only burns the backoff budget.
			return p.fail(task, progress, start, retryCount, fmt.Errorf("read input: %w", err))
		}

		attemptErr := p.attempt(ctx, task, document, name)
		if attemptErr == nil {
			progress.MarkComplete(true)
			duration := time.Since(start)
			p.logger.Info("Document processed", "file", filepath.Base(task.OutputPath), "duration", duration, "retries", retryCount)
			return entity.TaskResult{
				Success:         true,
				InputPath:       task.InputPath,
				OutputPath:      task.OutputPath,
				Duration:        duration,
				RetryCount:      retryCount,
				QualityVerified: task.QualityStandards != "",
			}
		}

		retryCount++
		if attempt < task.MaxRetries-1 {
			wait := time.Duration(1<<attempt) * time.Second
			p.logger.Warn("Retrying document",
				"file", name,
				"retry", fmt.Sprintf("%d/%d", retryCount, task.MaxRetries-1),
				"error", attemptErr,
				"wait", wait)
			p.sleep(ctx, wait)
			continue
		}

		return p.fail(task, progress, start, retryCount, attemptErr)
	}

	// MaxRetries < 1: the loop never ran, but the contract still demands
	// one result and one progress mark.
	return p.fail(task, progress, start, retryCount, fmt.Errorf("no processing attempts configured"))
}

// attempt performs one full processing pass: prompt, model call, optional
// quality verification, write. The output is only written after the
// verification passes, so a failed task never leaves a file behind.
func (p *Processor) attempt(ctx context.Context, task entity.Task, document, name string) error {
	currentDate := p.now().Format(dateLayout)
	prompt := prompts.BuildProcessingPrompt(task.Template, document, currentDate, task.QualityStandards, task.CustomInstruction)

	content, err := p.llm.Complete(ctx, output.CompletionRequest{
		SystemPrompt: prompts.ProcessorSystemPrompt,
		Prompt:       prompt,
		Temperature:  0.0,
	})
	if err != nil {
		return fmt.Errorf("completion: %w", err)
	}

	if task.QualityStandards != "" {
		passed, reason := p.verifier.Verify(ctx, content, task.QualityStandards, name)
		if !passed {
			p.logger.Warn("Quality verification failed", "file", name, "reason", reason)
			return &qualityError{reason: reason}
		}
	}

	if err := p.files.WriteText(task.OutputPath, content); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

func (p *Processor) fail(task entity.Task, progress *service.ProgressCounter, start time.Time, retryCount int, err error) entity.TaskResult {
	progress.MarkComplete(false)
	duration := time.Since(start)
	p.logger.Error("Document failed", "file", filepath.Base(task.InputPath), "retries", retryCount, "error", err)

	result := entity.TaskResult{
		Success:    false,
		InputPath:  task.InputPath,
		Error:      err.Error(),
		Duration:   duration,
		RetryCount: retryCount,
	}
	var qerr *qualityError
	if errors.As(err, &qerr) {
		result.QualityError = qerr.reason
	}
	return result
}

// qualityError marks an attempt failure caused by the verification verdict,
// so the terminal result can carry the reason separately.
type qualityError struct {
	reason string
}

func (e *qualityError) Error() string {
	return "quality verification failed: " + e.reason
}

func sleepWithContext(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}
