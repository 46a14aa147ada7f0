package usecase

import (
	"context"
	"fmt"
	"strings"

	"docproc/internal/application/port/output"
	"docproc/internal/infrastructure/prompts"
)

// Verifier judges processed content against quality standards with a second
// model call. The model is instructed to answer strictly "PASS" or
// "FAIL: <reason>".
type Verifier struct {
	llm    output.LLMPort
	logger output.LoggerPort
}

func NewVerifier(llm output.LLMPort, logger output.LoggerPort) *Verifier {
	return &Verifier{
		llm:    llm,
		logger: logger,
	}
}

// Verify returns whether the content passed and, if not, the reason.
// A transport failure counts as a verification failure so the caller's
// retry loop treats it like any other failed attempt.
func (v *Verifier) Verify(ctx context.Context, content, qualityStandards, fileName string) (bool, string) {
	prompt := prompts.BuildVerificationPrompt(content, qualityStandards)

	resp, err := v.llm.Complete(ctx, output.CompletionRequest{
		SystemPrompt: prompts.VerifierSystemPrompt,
		Prompt:       prompt,
		Temperature:  0.0,
	})
	if err != nil {
		v.logger.Warn("Quality verification request failed", "file", fileName, "error", err)
		return false, fmt.Sprintf("Verification error: %v", err)
	}

	return parseVerdict(resp)
}

func parseVerdict(resp string) (bool, string) {
	verdict := strings.TrimSpace(resp)
	upper := strings.ToUpper(verdict)

	switch {
	case upper == "PASS":
		return true, ""
	case strings.HasPrefix(upper, "FAIL"):
		reason := strings.TrimSpace(strings.TrimPrefix(verdict[4:], ":"))
		if reason == "" {
			reason = "Quality standards not met"
		}
		return false, reason
	default:
		return false, fmt.Sprintf("Unexpected verification response: %s", verdict)
	}
}
