package prompts

import "fmt"

const defaultInstruction = "Update the following markdown document using the provided template as guidance."

// BuildProcessingPrompt assembles the prompt for one processing attempt.
// currentDate is resolved at attempt time so "[Date]" placeholders reflect
// when the document was actually processed.
func BuildProcessingPrompt(template, document, currentDate, qualityStandards, customInstruction string) string {
	instruction := customInstruction
	if instruction == "" {
		instruction = defaultInstruction
	}

	qualitySection := ""
	if qualityStandards != "" {
		qualitySection = fmt.Sprintf(`

QUALITY STANDARDS:
%s

IMPORTANT: Ensure the processed document meets all the quality standards specified above.`, qualityStandards)
	}

	return fmt.Sprintf(`%s

TEMPLATE:
%s%s

DOCUMENT TO UPDATE:
%s

IMPORTANT: Replace any "[Date]" placeholders with today's date: %s

Please return only the updated markdown content without any explanations or additional text.`,
		instruction, template, qualitySection, document, currentDate)
}

// BuildVerificationPrompt assembles the prompt that asks the model to judge
// processed content against the quality standards with a strict verdict.
func BuildVerificationPrompt(content, qualityStandards string) string {
	return fmt.Sprintf(`Please verify if the following markdown document meets the specified quality standards.

QUALITY STANDARDS:
%s

DOCUMENT TO VERIFY:
%s

Please respond with ONLY one of the following:
- "PASS" if the document meets all quality standards
- "FAIL: [specific reason]" if the document fails to meet any standard

Do not provide explanations or additional text.`, qualityStandards, content)
}
