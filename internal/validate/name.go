package validate

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
)

// Corporate-suffix synonyms collapsed before comparison, applied in order.
var suffixReplacements = []struct{ old, new string }{
	{"pvt ltd", "private limited"},
	{"pvt. ltd.", "private limited"},
	{"llp", "limited liability partnership"},
	{"limited", ""},
	{"private", ""},
}

var punctuation = regexp.MustCompile(`[^\w\s]`)

// NameResult is the outcome of company-name consistency checking.
type NameResult struct {
	Consistent bool     `json:"consistent"`
	Error      string   `json:"error,omitempty"`
	Message    string   `json:"message,omitempty"`
	Similarity float64  `json:"similarity,omitempty"`
	Names      []string `json:"names,omitempty"`
}

// CheckNameConsistency normalizes each name and compares every subsequent
// name against the first with a Gestalt similarity ratio. Any pair below
// the threshold makes the set inconsistent.
func CheckNameConsistency(names []string) NameResult {
	if len(names) < 2 {
		return NameResult{Consistent: true, Message: "Single name"}
	}

	cleaned := make([]string, 0, len(names))
	for _, n := range names {
		if n == "" {
			continue
		}
		cleaned = append(cleaned, cleanName(n))
	}
	if len(cleaned) < 2 {
		return NameResult{Consistent: true, Message: "Not enough names to compare"}
	}

	base := cleaned[0]
	for _, name := range cleaned[1:] {
		similarity := Similarity(base, name)
		if similarity < constants.NameSimilarityThreshold {
			return NameResult{
				Error:      fmt.Sprintf("Name mismatch (similarity: %.1f%%)", similarity*100),
				Similarity: similarity,
				Names:      names,
			}
		}
	}

	return NameResult{Consistent: true, Message: "Names match", Similarity: 1.0}
}

func cleanName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, r := range suffixReplacements {
		name = strings.ReplaceAll(name, r.old, r.new)
	}
	return strings.TrimSpace(punctuation.ReplaceAllString(name, ""))
}

// Similarity is the Gestalt (Ratcliff/Obershelp) ratio: twice the number of
// matching characters over the total length, where matches come from the
// longest common blocks found recursively.
func Similarity(a, b string) float64 {
	if len(a)+len(b) == 0 {
		return 1.0
	}
	return 2.0 * float64(matchingChars(a, b)) / float64(len(a)+len(b))
}

func matchingChars(a, b string) int {
	if a == "" || b == "" {
		return 0
	}
	ai, bi, size := longestCommonBlock(a, b)
	if size == 0 {
		return 0
	}
	return size +
		matchingChars(a[:ai], b[:bi]) +
		matchingChars(a[ai+size:], b[bi+size:])
}

func longestCommonBlock(a, b string) (ai, bi, size int) {
	// lengths[j] holds the common-suffix length ending at a[i-1], b[j-1]
	prev := make([]int, len(b)+1)
	cur := make([]int, len(b)+1)
	for i := 1; i <= len(a); i++ {
		for j := 1; j <= len(b); j++ {
			if a[i-1] == b[j-1] {
				cur[j] = prev[j-1] + 1
				if cur[j] > size {
					size = cur[j]
					ai = i - size
					bi = j - size
				}
			} else {
				cur[j] = 0
			}
		}
		prev, cur = cur, prev
	}
	return ai, bi, size
}
