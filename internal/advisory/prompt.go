package advisory

import (
	"encoding/json"
	"fmt"
)

// buildPrompt renders the fixed format-only verification prompt. The
// contract forbids the model from using outside knowledge; it may only
// check the stated format rules against the supplied JSON.
func buildPrompt(extracted map[string]any, validations map[string]any) (string, error) {
	extractedJSON, err := json.MarshalIndent(extracted, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode extracted data: %w", err)
	}
	validationsJSON, err := json.MarshalIndent(validations, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode validation results: %w", err)
	}

	return fmt.Sprintf(`You are a strict compliance assistant.

TASK:
Verify ONLY document format validity.
Do NOT assume anything.
Do NOT use external knowledge.

FORMAT RULES:
- GST: 15 characters
- PAN: 10 characters
- Udyam: UDYAM-XX-00-0000000

Return ONLY valid JSON.

EXTRACTED DATA:
%s

VALIDATION RESULTS:
%s

JSON RESPONSE FORMAT:
{
  "overall_verdict": "AGREES" | "DISAGREES" | "INCONCLUSIVE",
  "confidence": 0.0-1.0,
  "notes": "short explanation"
}
`, extractedJSON, validationsJSON), nil
}
