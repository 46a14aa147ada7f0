package entity

import "time"

// Task is one input-document-to-output-document processing job.
// Immutable once constructed by the batch runner.
type Task struct {
	InputPath         string
	OutputPath        string
	Template          string
	QualityStandards  string
	CustomInstruction string
	MaxRetries        int
}

// TaskResult is the single outcome produced for a Task, either on success
// or after the retry budget is exhausted.
type TaskResult struct {
	Success         bool
	InputPath       string
	OutputPath      string
	Error           string
	Duration        time.Duration
	RetryCount      int
	QualityVerified bool
	QualityError    string
}
