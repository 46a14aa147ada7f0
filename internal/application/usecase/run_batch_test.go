package usecase

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"docproc/internal/application/port/output"
	"docproc/internal/infrastructure/fs"
)

func newBatchRunner(llm output.LLMPort) *BatchRunner {
	files := fs.NewStore()
	verifier := NewVerifier(llm, nopLogger{})
	processor := NewProcessor(llm, files, verifier, nopLogger{}, ProcessorConfig{
		Sleep: func(ctx context.Context, d time.Duration) {},
	})
	return NewBatchRunner(processor, files, nopLogger{})
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func baseConfig(t *testing.T) BatchConfig {
	t.Helper()
	inputDir := t.TempDir()
	templateFile := filepath.Join(t.TempDir(), "template.md")
	writeFile(t, templateFile, "# Template")
	return BatchConfig{
		InputDir:     inputDir,
		OutputDir:    filepath.Join(t.TempDir(), "out"),
		TemplateFile: templateFile,
		Concurrency:  1,
		MaxRetries:   3,
	}
}

func echoLLM() *fakeLLM {
	return &fakeLLM{fn: func(n int, req output.CompletionRequest) (string, error) {
		return "processed content", nil
	}}
}

func TestRunZeroFilesIsSuccess(t *testing.T) {
	runner := newBatchRunner(echoLLM())
	cfg := baseConfig(t)

	report, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Results) != 0 {
		t.Errorf("Expected no results, got %d", len(report.Results))
	}
	if !report.AllSucceeded() {
		t.Error("Expected empty run to count as success")
	}

	entries, err := os.ReadDir(cfg.OutputDir)
	if err != nil {
		t.Fatalf("read output dir: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no output files, got %d", len(entries))
	}
}

func TestRunTwoFilesSequential(t *testing.T) {
	runner := newBatchRunner(echoLLM())
	cfg := baseConfig(t)
	writeFile(t, filepath.Join(cfg.InputDir, "a.md"), "# A")
	writeFile(t, filepath.Join(cfg.InputDir, "b.md"), "# B")

	report, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Results) != 2 {
		t.Fatalf("Expected 2 results, got %d", len(report.Results))
	}
	if len(report.Successes()) != 2 || len(report.Failures()) != 0 {
		t.Errorf("Expected 2 successes / 0 failures, got %d/%d",
			len(report.Successes()), len(report.Failures()))
	}

	for _, name := range []string{"a.md", "b.md"} {
		data, err := os.ReadFile(filepath.Join(cfg.OutputDir, name))
		if err != nil {
			t.Fatalf("Expected output %s: %v", name, err)
		}
		if string(data) != "processed content" {
			t.Errorf("Expected substituted content in %s, got %q", name, data)
		}
	}
}

func TestRunOneResultPerFile(t *testing.T) {
	runner := newBatchRunner(echoLLM())
	cfg := baseConfig(t)
	cfg.Concurrency = 4

	const files = 9
	for i := 0; i < files; i++ {
		writeFile(t, filepath.Join(cfg.InputDir, fmt.Sprintf("doc%d.md", i)), "# Doc")
	}

	report, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Results) != files {
		t.Fatalf("Expected %d results, got %d", files, len(report.Results))
	}

	seen := make(map[string]bool)
	for _, res := range report.Results {
		if seen[res.InputPath] {
			t.Errorf("Duplicate result for %s", res.InputPath)
		}
		seen[res.InputPath] = true
	}
	if len(seen) != files {
		t.Errorf("Expected %d distinct inputs, got %d", files, len(seen))
	}
}

func TestRunFailedTaskDoesNotAbortSiblings(t *testing.T) {
	llm := &fakeLLM{fn: func(n int, req output.CompletionRequest) (string, error) {
		if strings.Contains(req.Prompt, "broken document") {
			return "", fmt.Errorf("service unavailable")
		}
		return "processed content", nil
	}}
	runner := newBatchRunner(llm)
	cfg := baseConfig(t)
	writeFile(t, filepath.Join(cfg.InputDir, "bad.md"), "broken document")
	writeFile(t, filepath.Join(cfg.InputDir, "good.md"), "# Good")

	report, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Successes()) != 1 || len(report.Failures()) != 1 {
		t.Fatalf("Expected 1 success / 1 failure, got %d/%d",
			len(report.Successes()), len(report.Failures()))
	}
	failure := report.Failures()[0]
	if filepath.Base(failure.InputPath) != "bad.md" {
		t.Errorf("Expected bad.md to fail, got %s", failure.InputPath)
	}
	if failure.RetryCount != cfg.MaxRetries {
		t.Errorf("Expected retry_count=%d, got %d", cfg.MaxRetries, failure.RetryCount)
	}
	if report.AllSucceeded() {
		t.Error("Expected AllSucceeded=false")
	}
}

func TestRunSkipProcessed(t *testing.T) {
	runner := newBatchRunner(echoLLM())
	cfg := baseConfig(t)
	cfg.SkipProcessed = true
	writeFile(t, filepath.Join(cfg.InputDir, "a.md"), "# A")
	writeFile(t, filepath.Join(cfg.InputDir, "b.md"), "# B")

	if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
		t.Fatal(err)
	}
	writeFile(t, filepath.Join(cfg.OutputDir, "a.md"), "already processed")

	report, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if len(report.Results) != 1 {
		t.Fatalf("Expected 1 result, got %d", len(report.Results))
	}
	if filepath.Base(report.Results[0].InputPath) != "b.md" {
		t.Errorf("Expected only b.md processed, got %s", report.Results[0].InputPath)
	}

	data, err := os.ReadFile(filepath.Join(cfg.OutputDir, "a.md"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "already processed" {
		t.Error("Expected existing output to be left untouched")
	}
}

func TestRunValidation(t *testing.T) {
	runner := newBatchRunner(echoLLM())

	cases := []struct {
		name   string
		mutate func(cfg *BatchConfig)
	}{
		{"missing input dir", func(cfg *BatchConfig) { cfg.InputDir = filepath.Join(cfg.InputDir, "nope") }},
		{"input is a file", func(cfg *BatchConfig) { cfg.InputDir = cfg.TemplateFile }},
		{"missing template", func(cfg *BatchConfig) { cfg.TemplateFile = cfg.TemplateFile + ".nope" }},
		{"template is a dir", func(cfg *BatchConfig) { cfg.TemplateFile = cfg.InputDir }},
		{"missing standards file", func(cfg *BatchConfig) { cfg.QualityStandardsFile = "does-not-exist.md" }},
		{"zero concurrency", func(cfg *BatchConfig) { cfg.Concurrency = 0 }},
		{"negative retries", func(cfg *BatchConfig) { cfg.MaxRetries = -1 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := baseConfig(t)
			tc.mutate(&cfg)
			if _, err := runner.Run(context.Background(), cfg); err == nil {
				t.Error("Expected configuration error")
			}
		})
	}
}

func TestRunInlineStandards(t *testing.T) {
	var sawStandards bool
	llm := &fakeLLM{fn: func(n int, req output.CompletionRequest) (string, error) {
		if strings.Contains(req.Prompt, "QUALITY STANDARDS:") {
			sawStandards = true
		}
		if strings.Contains(req.Prompt, "DOCUMENT TO VERIFY:") {
			return "PASS", nil
		}
		return "processed content", nil
	}}
	runner := newBatchRunner(llm)
	cfg := baseConfig(t)
	cfg.QualityStandards = "All sections must be present."
	writeFile(t, filepath.Join(cfg.InputDir, "a.md"), "# A")

	report, err := runner.Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !sawStandards {
		t.Error("Expected inline standards to reach the prompt")
	}
	if len(report.Successes()) != 1 {
		t.Fatalf("Expected 1 success, got %d", len(report.Successes()))
	}
	if !report.Successes()[0].QualityVerified {
		t.Error("Expected quality_verified=true")
	}
	if !report.StandardsUsed {
		t.Error("Expected StandardsUsed=true")
	}
}

func TestRunInterruptStopsDispatch(t *testing.T) {
	runner := newBatchRunner(echoLLM())
	cfg := baseConfig(t)
	writeFile(t, filepath.Join(cfg.InputDir, "a.md"), "# A")
	writeFile(t, filepath.Join(cfg.InputDir, "b.md"), "# B")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := runner.Run(ctx, cfg)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if !report.Interrupted {
		t.Error("Expected report marked interrupted")
	}
	if len(report.Results) != 2 {
		t.Fatalf("Expected a result per task, got %d", len(report.Results))
	}
}
