package extract

import (
	"strings"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
)

// TextFragment is one located piece of document text. Fragments are
// immutable once produced and ordered page-major, then by discovery order.
type TextFragment struct {
	Page       int                  `json:"page"`
	Line       string               `json:"line"` // line number or label like "table1_row2"
	Text       string               `json:"text"`
	SourceType constants.SourceType `json:"type"`
	Confidence float64              `json:"confidence"` // 0..1
}

// JoinText concatenates fragment texts with single spaces.
func JoinText(frags []TextFragment) string {
	if len(frags) == 0 {
		return ""
	}
	parts := make([]string, 0, len(frags))
	for _, f := range frags {
		parts = append(parts, f.Text)
	}
	return strings.Join(parts, " ")
}

// TotalChars sums the text lengths across fragments.
func TotalChars(frags []TextFragment) int {
	n := 0
	for _, f := range frags {
		n += len(f.Text)
	}
	return n
}
