package validate

import (
	"strings"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
)

// SignatureResult is the outcome of signature keyword spotting.
type SignatureResult struct {
	Found           bool     `json:"found"`
	Error           string   `json:"error,omitempty"`
	Confidence      float64  `json:"confidence"`
	Count           int      `json:"count,omitempty"`
	KeywordsFound   []string `json:"keywords_found,omitempty"`
	KeywordsChecked []string `json:"keywords_checked,omitempty"`
}

// CheckSignaturePresence spots signature keywords over the concatenated
// document text. Confidence is 0.25 per distinct keyword, capped at 1.0;
// no keyword at all is a hard not-found.
func CheckSignaturePresence(frags []extract.TextFragment) SignatureResult {
	allText := strings.ToLower(extract.JoinText(frags))

	var found []string
	for _, keyword := range constants.SignatureKeywords {
		if strings.Contains(allText, keyword) {
			found = append(found, keyword)
		}
	}

	if len(found) == 0 {
		return SignatureResult{
			Error:           "No signature keywords found",
			KeywordsChecked: constants.SignatureKeywords,
		}
	}

	confidence := float64(len(found)) * 0.25
	if confidence > 1.0 {
		confidence = 1.0
	}
	return SignatureResult{
		Found:         true,
		Confidence:    confidence,
		Count:         len(found),
		KeywordsFound: found,
	}
}
