package validate

import (
	"fmt"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
)

// CompletenessResult summarizes how many required fields were extracted.
type CompletenessResult struct {
	Score         float64  `json:"score"`
	Present       int      `json:"present"`
	Total         int      `json:"total"`
	Percentage    string   `json:"percentage"`
	MissingFields []string `json:"missing_fields"`
	PresentFields []string `json:"present_fields"`
}

// CompletenessScore computes the presence-only percentage over the required
// field set. A nil required list uses the default set.
func CompletenessScore(extracted map[string]any, required []string) CompletenessResult {
	if required == nil {
		required = constants.RequiredFields
	}

	var present, missing []string
	for _, f := range required {
		if hasValue(extracted, f) {
			present = append(present, f)
		} else {
			missing = append(missing, f)
		}
	}

	score := 0.0
	if len(required) > 0 {
		score = float64(len(present)) / float64(len(required)) * 100
	}

	return CompletenessResult{
		Score:         score,
		Present:       len(present),
		Total:         len(required),
		Percentage:    fmt.Sprintf("%.1f%%", score),
		MissingFields: missing,
		PresentFields: present,
	}
}

func hasValue(extracted map[string]any, field string) bool {
	v, ok := extracted[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	}
	return true
}
