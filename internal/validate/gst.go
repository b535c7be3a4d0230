// Package validate holds the pure field validators. Each validator takes a
// candidate string and returns a closed result struct; nothing here touches
// extraction or evidence state.
package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
)

// gstShape is the anchored structural pattern: 2 digits, 5 letters,
// 4 digits, 1 letter, 1 alphanumeric, literal Z, 1 alphanumeric.
var gstShape = regexp.MustCompile(`^[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]$`)

// GSTResult is the outcome of GST number validation.
type GSTResult struct {
	Valid      bool   `json:"valid"`
	Error      string `json:"error,omitempty"`
	Message    string `json:"message,omitempty"`
	StateCode  string `json:"state_code,omitempty"`
	PAN        string `json:"pan,omitempty"`
	FullNumber string `json:"full_number,omitempty"`
}

// ValidateGST checks a GST number end to end: length, structural shape,
// state-code whitelist, and the embedded PAN at positions 3-12.
func ValidateGST(gstNumber string) GSTResult {
	if gstNumber == "" {
		return GSTResult{Error: "Empty GST"}
	}

	gst := strings.ToUpper(strings.TrimSpace(gstNumber))

	if len(gst) != 15 {
		return GSTResult{Error: fmt.Sprintf("GST must be 15 chars, got %d", len(gst))}
	}
	if !gstShape.MatchString(gst) {
		return GSTResult{Error: "Invalid GST format"}
	}

	stateCode := gst[:2]
	if _, ok := constants.ValidGSTStateCodes[stateCode]; !ok {
		return GSTResult{Error: fmt.Sprintf("Invalid state code: %s", stateCode)}
	}

	panPortion := gst[2:12]
	if pan := ValidatePAN(panPortion); !pan.Valid {
		return GSTResult{Error: "Invalid PAN in GST"}
	}

	return GSTResult{
		Valid:      true,
		Message:    "GST valid",
		StateCode:  stateCode,
		PAN:        panPortion,
		FullNumber: gst,
	}
}
