package usecase

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"docproc/internal/application/port/output"
)

func TestParseVerdictPass(t *testing.T) {
	passed, reason := parseVerdict("PASS")
	if !passed {
		t.Error("Expected PASS verdict to pass")
	}
	if reason != "" {
		t.Errorf("Expected empty reason, got %q", reason)
	}
}

func TestParseVerdictPassWithWhitespace(t *testing.T) {
	passed, _ := parseVerdict("\n  pass  \n")
	if !passed {
		t.Error("Expected whitespace-padded lowercase pass to pass")
	}
}

func TestParseVerdictFailWithReason(t *testing.T) {
	passed, reason := parseVerdict("FAIL: missing sections")
	if passed {
		t.Error("Expected FAIL verdict to fail")
	}
	if reason != "missing sections" {
		t.Errorf("Expected reason \"missing sections\", got %q", reason)
	}
}

func TestParseVerdictFailWithoutReason(t *testing.T) {
	passed, reason := parseVerdict("FAIL")
	if passed {
		t.Error("Expected FAIL verdict to fail")
	}
	if reason != "Quality standards not met" {
		t.Errorf("Expected default reason, got %q", reason)
	}
}

func TestParseVerdictUnexpected(t *testing.T) {
	passed, reason := parseVerdict("The document looks fine to me")
	if passed {
		t.Error("Expected unexpected response to fail")
	}
	if !strings.HasPrefix(reason, "Unexpected verification response:") {
		t.Errorf("Expected unexpected-response reason, got %q", reason)
	}
}

func TestVerifyTransportErrorBecomesFailure(t *testing.T) {
	llm := &fakeLLM{fn: func(n int, req output.CompletionRequest) (string, error) {
		return "", fmt.Errorf("service unreachable")
	}}
	v := NewVerifier(llm, nopLogger{})

	passed, reason := v.Verify(context.Background(), "content", "standards", "a.md")
	if passed {
		t.Error("Expected transport error to fail verification")
	}
	if !strings.HasPrefix(reason, "Verification error:") {
		t.Errorf("Expected verification-error reason, got %q", reason)
	}
}
