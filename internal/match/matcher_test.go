package match

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
)

func frag(page int, line, text string) extract.TextFragment {
	return extract.TextFragment{
		Page:       page,
		Line:       line,
		Text:       text,
		SourceType: constants.SourceNativeText,
		Confidence: 1.0,
	}
}

func TestMatcherFind(t *testing.T) {
	m := NewMatcher(nil)
	frags := []extract.TextFragment{
		frag(1, "3", "GSTIN: 27ABCDE1234F1Z5"),
		frag(1, "9", "repeated below 27ABCDE1234F1Z5"),
		frag(2, "1", "second number 29FGHIJ5678K2Z9"),
	}

	matches := m.Find(frags, constants.GSTPattern, constants.FieldGSTNumber)
	require.Len(t, matches, 2)

	assert.Equal(t, "27ABCDE1234F1Z5", matches[0].Value)
	assert.Equal(t, 1, matches[0].Page)
	assert.Equal(t, "3", matches[0].Line)
	assert.Equal(t, "29FGHIJ5678K2Z9", matches[1].Value)
	assert.Equal(t, 2, matches[1].Page)
}

func TestMatcherFindIdempotent(t *testing.T) {
	m := NewMatcher(nil)
	frags := []extract.TextFragment{
		frag(1, "1", "PAN ABCDE1234F and again ABCDE1234F"),
		frag(1, "2", "another FGHIJ5678K"),
	}

	first := m.Find(frags, constants.PANPattern, constants.FieldPANNumber)
	second := m.Find(frags, constants.PANPattern, constants.FieldPANNumber)
	assert.Equal(t, first, second)
	assert.Len(t, first, 2)
}

func TestMatcherNoCrossFragmentMatch(t *testing.T) {
	m := NewMatcher(nil)
	// identifier split across two fragments must not match
	frags := []extract.TextFragment{
		frag(1, "1", "27ABCDE"),
		frag(1, "2", "1234F1Z5"),
	}
	assert.Empty(t, m.Find(frags, constants.GSTPattern, constants.FieldGSTNumber))
}

func TestMatcherCaseInsensitive(t *testing.T) {
	m := NewMatcher(nil)
	frags := []extract.TextFragment{frag(1, "1", "udyam-mh-12-1234567")}
	matches := m.Find(frags, constants.UdyamPattern, constants.FieldUdyamNumber)
	require.Len(t, matches, 1)
	assert.Equal(t, "udyam-mh-12-1234567", matches[0].Value)
}

func TestMatcherSnippetClipped(t *testing.T) {
	m := NewMatcher(nil)
	long := "ABCDE1234F " + strings.Repeat("x", 300)
	matches := m.Find([]extract.TextFragment{frag(1, "1", long)}, constants.PANPattern, constants.FieldPANNumber)
	require.Len(t, matches, 1)
	assert.LessOrEqual(t, len(matches[0].Snippet), 100)
}

func TestMatcherBadPattern(t *testing.T) {
	m := NewMatcher(nil)
	assert.Nil(t, m.Find([]extract.TextFragment{frag(1, "1", "text")}, `([`, "broken"))
}

func TestFindWithDiagnosticsReturnsSameMatches(t *testing.T) {
	m := NewMatcher(nil)
	frags := []extract.TextFragment{frag(1, "1", "27ABCDE1234F1Z5")}
	assert.Equal(t,
		m.Find(frags, constants.GSTPattern, constants.FieldGSTNumber),
		m.FindWithDiagnostics(frags, constants.GSTPattern, constants.FieldGSTNumber),
	)

	// degraded scan path must not invent matches
	degraded := []extract.TextFragment{frag(1, "1", "gst number 27ABCDE1234F1X5 printed here")}
	assert.Empty(t, m.FindWithDiagnostics(degraded, constants.GSTPattern, constants.FieldGSTNumber))
}
