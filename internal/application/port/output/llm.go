package output

import "context"

type LLMPort interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

type CompletionRequest struct {
	SystemPrompt string
	Prompt       string
	Temperature  float32
}
