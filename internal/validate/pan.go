package validate

import (
	"fmt"
	"regexp"
	"strings"
)

var panShape = regexp.MustCompile(`^[A-Z]{5}[0-9]{4}[A-Z]$`)

// PANResult is the outcome of PAN number validation.
type PANResult struct {
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	FullNumber string `json:"full_number,omitempty"`
}

// ValidatePAN checks a PAN number positionally, short-circuiting at the
// first failure: length, shape, alpha block, digit block, trailing letter.
func ValidatePAN(panNumber string) PANResult {
	if panNumber == "" {
		return PANResult{Error: "Empty PAN"}
	}

	pan := strings.ToUpper(strings.TrimSpace(panNumber))

	if len(pan) != 10 {
		return PANResult{Error: fmt.Sprintf("PAN must be 10 chars, got %d", len(pan))}
	}
	if !panShape.MatchString(pan) {
		return PANResult{Error: "Invalid PAN format"}
	}
	if !isAlpha(pan[:5]) {
		return PANResult{Error: "First 5 must be letters"}
	}
	if !isDigits(pan[5:9]) {
		return PANResult{Error: "Chars 6-9 must be digits"}
	}
	if !isAlpha(pan[9:]) {
		return PANResult{Error: "Last char must be letter"}
	}

	return PANResult{Valid: true, Message: "PAN valid", FullNumber: pan}
}

func isAlpha(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'A' || r > 'Z') && (r < 'a' || r > 'z') {
			return false
		}
	}
	return true
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
