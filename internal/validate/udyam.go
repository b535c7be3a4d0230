package validate

import (
	"regexp"
	"strings"
)

var udyamShape = regexp.MustCompile(`^(?i)UDYAM-[A-Z]{2}-[0-9]{2}-[0-9]{6,7}$`)

// UdyamResult is the outcome of Udyam registration number validation.
type UdyamResult struct {
	Valid        bool   `json:"valid"`
	Error        string `json:"error,omitempty"`
	Message      string `json:"message,omitempty"`
	State        string `json:"state,omitempty"`
	District     string `json:"district,omitempty"`
	Registration string `json:"registration,omitempty"`
	FullNumber   string `json:"full_number,omitempty"`
}

// ValidateUdyam checks a Udyam number: overall shape, then each of the four
// hyphen-delimited parts independently for type and length.
func ValidateUdyam(udyamNumber string) UdyamResult {
	if udyamNumber == "" {
		return UdyamResult{Error: "Empty Udyam"}
	}

	udyam := strings.ToUpper(strings.TrimSpace(udyamNumber))

	if !udyamShape.MatchString(udyam) {
		return UdyamResult{Error: "Invalid Udyam format"}
	}

	parts := strings.Split(udyam, "-")
	if len(parts) != 4 {
		return UdyamResult{Error: "Invalid Udyam structure"}
	}
	if parts[0] != "UDYAM" {
		return UdyamResult{Error: "Must start with UDYAM"}
	}
	if len(parts[1]) != 2 || !isAlpha(parts[1]) {
		return UdyamResult{Error: "Invalid state code"}
	}
	if len(parts[2]) != 2 || !isDigits(parts[2]) {
		return UdyamResult{Error: "Invalid district code"}
	}
	if (len(parts[3]) != 6 && len(parts[3]) != 7) || !isDigits(parts[3]) {
		return UdyamResult{Error: "Invalid registration number"}
	}

	return UdyamResult{
		Valid:        true,
		Message:      "Udyam valid",
		State:        parts[1],
		District:     parts[2],
		Registration: parts[3],
		FullNumber:   udyam,
	}
}
