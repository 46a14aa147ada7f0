package prompts

import (
	_ "embed"
)

//go:embed processor_system.txt
var ProcessorSystemPrompt string

//go:embed verifier_system.txt
var VerifierSystemPrompt string

//go:embed standards_standard.txt
var StandardsStandard string

//go:embed standards_high.txt
var StandardsHigh string
