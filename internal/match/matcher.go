// Package match locates named field patterns inside extracted fragments.
package match

import (
	"log/slog"
	"regexp"
	"strings"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
)

const snippetLen = 100

// Match is one deduplicated pattern occurrence with provenance.
type Match struct {
	Field      string  `json:"field"`
	Value      string  `json:"value"`
	Page       int     `json:"page"`
	Line       string  `json:"line"`
	Snippet    string  `json:"snippet"`
	Confidence float64 `json:"confidence"`
}

// Matcher applies patterns fragment by fragment. A field split across two
// fragments is deliberately not matched.
type Matcher struct {
	logger *slog.Logger
}

func NewMatcher(logger *slog.Logger) *Matcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Matcher{logger: logger}
}

// Find returns matches of pattern over the fragments, case-insensitively,
// deduplicated by matched value. First occurrence wins; insertion order is
// scan order. An invalid pattern yields no matches.
func (m *Matcher) Find(frags []extract.TextFragment, pattern, field string) []Match {
	re, err := regexp.Compile("(?i)" + pattern)
	if err != nil {
		m.logger.Error("match.bad_pattern", "field", field, "pattern", pattern, "error", err)
		return nil
	}

	var results []Match
	seen := make(map[string]struct{})
	for _, frag := range frags {
		for _, loc := range re.FindAllStringSubmatchIndex(frag.Text, -1) {
			value := frag.Text[loc[0]:loc[1]]
			if _, dup := seen[value]; dup {
				continue
			}
			seen[value] = struct{}{}
			results = append(results, Match{
				Field:      field,
				Value:      value,
				Page:       frag.Page,
				Line:       frag.Line,
				Snippet:    clip(frag.Text, snippetLen),
				Confidence: frag.Confidence,
			})
		}
	}
	return results
}

// FindWithDiagnostics behaves like Find, but when nothing matches it scans
// for degraded variants of the expected structure and reports them as
// advisory log events. Degraded hits are never added to results.
func (m *Matcher) FindWithDiagnostics(frags []extract.TextFragment, pattern, field string) []Match {
	results := m.Find(frags, pattern, field)
	if len(results) == 0 {
		m.logger.Info("match.not_found", "field", field, "pattern", pattern, "fragments", len(frags))
		m.reportDegraded(frags, field)
	}
	return results
}

// Degraded shapes: right character classes and lengths, wrong or missing
// separators. Used only to explain why a strict pattern failed to match.
var degradedShapes = map[string][]*regexp.Regexp{
	"gst": {
		regexp.MustCompile(`[0-9]{2}[A-Z0-9]{13}`),
	},
	"pan": {
		regexp.MustCompile(`[A-Z]{5}[0-9]{4}[A-Z]`),
	},
	"udyam": {
		regexp.MustCompile(`[A-Z]{2}[-\s]?[0-9]{2}[-\s]?[0-9]{7}`),
	},
}

func (m *Matcher) reportDegraded(frags []extract.TextFragment, field string) {
	all := extract.JoinText(frags)
	lowerField := strings.ToLower(field)
	lowerAll := strings.ToLower(all)

	for keyword, shapes := range degradedShapes {
		if !strings.Contains(lowerField, keyword) {
			continue
		}
		for _, re := range shapes {
			if hits := re.FindAllString(strings.ToUpper(all), 3); len(hits) > 0 {
				m.logger.Info("match.degraded_variant",
					"field", field, "samples", strings.Join(hits, ","))
			}
		}
		if strings.Contains(lowerAll, keyword) {
			m.logger.Info("match.keyword_present", "field", field, "keyword", keyword)
		}
	}
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
