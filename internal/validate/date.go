package validate

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
)

// Accepted date layouts, tried in order; first successful parse wins.
var dateLayouts = []string{
	"2-1-2006",
	"2/1/2006",
	"2006-1-2",
	"2 Jan 2006",
	"2 January 2006",
	"January 2, 2006",
}

// nowFunc is swapped in tests.
var nowFunc = time.Now

// DateResult is the outcome of certificate date validation.
type DateResult struct {
	Valid         bool   `json:"valid"`
	Error         string `json:"error,omitempty"`
	Message       string `json:"message,omitempty"`
	ExpiryDate    string `json:"expiry_date,omitempty"`
	DaysRemaining int    `json:"days_remaining,omitempty"`
	OriginalDate  string `json:"original_date,omitempty"`
}

// CheckDateValidity parses a free-text certificate date and computes expiry
// from the certificate type's validity window (Udyam: 5 years, otherwise
// 1 year). An already-expired certificate is Invalid with days overdue.
func CheckDateValidity(dateStr, certType string) DateResult {
	if dateStr == "" {
		return DateResult{Error: "No date"}
	}

	trimmed := strings.TrimSpace(dateStr)
	var certDate time.Time
	parsed := false
	for _, layout := range dateLayouts {
		if d, err := time.Parse(layout, trimmed); err == nil {
			certDate = d
			parsed = true
			break
		}
	}
	if !parsed {
		return DateResult{Error: "Cannot parse date"}
	}

	validityDays := constants.GSTValidityDays
	if strings.EqualFold(certType, string(constants.DocUdyam)) {
		validityDays = constants.UdyamValidityDays
	}

	expiry := certDate.AddDate(0, 0, validityDays)
	// floor, not truncate: a partially elapsed expiry day counts as expired
	daysLeft := int(math.Floor(expiry.Sub(nowFunc()).Hours() / 24))

	if daysLeft < 0 {
		return DateResult{
			Error:        fmt.Sprintf("Expired %d days ago", -daysLeft),
			ExpiryDate:   expiry.Format("02-01-2006"),
			OriginalDate: dateStr,
		}
	}

	return DateResult{
		Valid:         true,
		Message:       fmt.Sprintf("Valid for %d days", daysLeft),
		ExpiryDate:    expiry.Format("02-01-2006"),
		DaysRemaining: daysLeft,
		OriginalDate:  dateStr,
	}
}
