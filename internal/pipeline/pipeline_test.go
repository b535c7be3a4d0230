package pipeline

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/classify"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/decision"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/match"
)

// stubExtractor returns canned fragments per path.
type stubExtractor struct {
	byPath map[string][]extract.TextFragment
}

func (s *stubExtractor) Extract(_ context.Context, path string) []extract.TextFragment {
	return s.byPath[path]
}

func lines(texts ...string) []extract.TextFragment {
	frags := make([]extract.TextFragment, len(texts))
	for i, text := range texts {
		frags[i] = extract.TextFragment{
			Page:       1,
			Line:       "1",
			Text:       text,
			SourceType: constants.SourceNativeText,
			Confidence: 1.0,
		}
	}
	return frags
}

func testPipeline(t *testing.T, extractor extract.TextExtractor) *Pipeline {
	t.Helper()
	classifier := classify.NewClassifier(common.ClassifierConfig{
		ModelPath: filepath.Join(t.TempDir(), "missing.json"),
	}, nil)
	arbiter := decision.NewArbiter(classifier, nil, nil, nil)
	return New(extractor, match.NewMatcher(nil), arbiter, nil, nil)
}

func TestAnalyzeNoDocuments(t *testing.T) {
	p := testPipeline(t, &stubExtractor{})
	resp := p.Analyze(context.Background(), nil)

	assert.False(t, resp.Success)
	assert.Equal(t, "No documents uploaded", resp.Error)
}

func TestAnalyzeFullDocumentSet(t *testing.T) {
	ex := &stubExtractor{byPath: map[string][]extract.TextFragment{
		"gst.pdf": lines(
			"GSTIN: 27ABCDE1234F1Z5",
			"Acme Industries Pvt Ltd",
		),
		"pan.pdf": lines("Permanent Account Number ABCDE1234F"),
		"udyam.pdf": lines(
			"UDYAM-MH-12-1234567",
			"Acme Industries Private Limited",
		),
		"quote.pdf": lines(
			"Quotation",
			"Acme Industries Pvt Ltd",
			// one month old keeps the certificate window satisfied whenever the test runs
			"Date: "+time.Now().AddDate(0, -1, 0).Format("02/01/2006"),
			"Total: INR 1,00,000.00",
			"Authorized Signatory",
		),
	}}
	p := testPipeline(t, ex)

	resp := p.Analyze(context.Background(), []Document{
		{Type: constants.DocGST, Path: "gst.pdf"},
		{Type: constants.DocPAN, Path: "pan.pdf"},
		{Type: constants.DocUdyam, Path: "udyam.pdf"},
		{Type: constants.DocQuotation, Path: "quote.pdf"},
	})

	require.True(t, resp.Success)
	require.NotNil(t, resp.Analysis)
	assert.Equal(t, constants.DecisionApprove, resp.Analysis.Decision)
	assert.GreaterOrEqual(t, resp.Analysis.Confidence, 0.5)
	assert.Equal(t, 4, resp.DocumentCount)

	assert.Equal(t, "27ABCDE1234F1Z5", resp.ExtractedData[constants.FieldGSTNumber])
	assert.Equal(t, "ABCDE1234F", resp.ExtractedData[constants.FieldPANNumber])
	assert.Equal(t, "UDYAM-MH-12-1234567", resp.ExtractedData[constants.FieldUdyamNumber])
	assert.NotEmpty(t, resp.ExtractedData[constants.FieldCompanyName])

	require.NotNil(t, resp.ValidationResults.GST)
	assert.True(t, resp.ValidationResults.GST.Valid)
	require.NotNil(t, resp.ValidationResults.GSTPANConsistency)
	assert.True(t, resp.ValidationResults.GSTPANConsistency.Consistent)
	require.NotNil(t, resp.ValidationResults.NameConsistency)
	assert.True(t, resp.ValidationResults.NameConsistency.Consistent)
	require.NotNil(t, resp.ValidationResults.Signature)
	assert.True(t, resp.ValidationResults.Signature.Found)

	assert.Equal(t, 100.0, resp.ComplianceScore)
	assert.Empty(t, resp.DetailedErrors)
	require.NotNil(t, resp.EvidenceReport)
	assert.Greater(t, resp.EvidenceReport.ComplianceScore, 0.0)
	assert.NotEmpty(t, resp.Recommendations)
	assert.NotEmpty(t, resp.PatternsUsed)
}

func TestAnalyzeZeroText(t *testing.T) {
	p := testPipeline(t, &stubExtractor{})

	resp := p.Analyze(context.Background(), []Document{
		{Type: constants.DocGST, Path: "empty.pdf"},
	})

	require.True(t, resp.Success)
	assert.Equal(t, constants.DecisionReject, resp.Analysis.Decision)
	assert.Equal(t, 0.9999, resp.Analysis.Confidence)
	assert.Equal(t, constants.SourceFallback, resp.Analysis.AnalysisSource)
}

func TestAnalyzeGSTPANMismatchRecorded(t *testing.T) {
	ex := &stubExtractor{byPath: map[string][]extract.TextFragment{
		"gst.pdf": lines("GSTIN: 27ABCDE1234F1Z5"),
		"pan.pdf": lines("PAN XYZDE1234F"),
	}}
	p := testPipeline(t, ex)

	resp := p.Analyze(context.Background(), []Document{
		{Type: constants.DocGST, Path: "gst.pdf"},
		{Type: constants.DocPAN, Path: "pan.pdf"},
	})

	require.True(t, resp.Success)
	require.NotNil(t, resp.ValidationResults.GSTPANConsistency)
	assert.False(t, resp.ValidationResults.GSTPANConsistency.Consistent)

	found := false
	for _, m := range resp.EvidenceReport.Mismatches {
		if m.Field == constants.FieldGSTPAN {
			found = true
		}
	}
	assert.True(t, found, "gst_pan mismatch must be recorded")
}

func TestAnalyzeNameMismatchRecordedHigh(t *testing.T) {
	ex := &stubExtractor{byPath: map[string][]extract.TextFragment{
		"gst.pdf":   lines("GSTIN: 27ABCDE1234F1Z5", "Alpha Tech Pvt Ltd"),
		"quote.pdf": lines("Quotation issued by Beta Corp Limited"),
	}}
	p := testPipeline(t, ex)

	resp := p.Analyze(context.Background(), []Document{
		{Type: constants.DocGST, Path: "gst.pdf"},
		{Type: constants.DocQuotation, Path: "quote.pdf"},
	})

	require.True(t, resp.Success)
	require.NotNil(t, resp.ValidationResults.NameConsistency)
	assert.False(t, resp.ValidationResults.NameConsistency.Consistent)

	var severity constants.Severity
	for _, m := range resp.EvidenceReport.Mismatches {
		if m.Field == constants.FieldCompanyName {
			severity = m.Severity
		}
	}
	assert.Equal(t, constants.SeverityHigh, severity)
}

func TestDetailedErrorsAndRecommendations(t *testing.T) {
	ex := &stubExtractor{byPath: map[string][]extract.TextFragment{
		"gst.pdf": lines("GSTIN: 27ABCDE1234F1Z5"),
	}}
	p := testPipeline(t, ex)

	resp := p.Analyze(context.Background(), []Document{
		{Type: constants.DocGST, Path: "gst.pdf"},
	})

	require.True(t, resp.Success)
	require.NotEmpty(t, resp.DetailedErrors)

	fields := map[string]FieldError{}
	for _, e := range resp.DetailedErrors {
		fields[e.Field] = e
	}
	panErr, ok := fields[constants.FieldPANNumber]
	require.True(t, ok)
	assert.Contains(t, panErr.Error, "not found")
	assert.NotEmpty(t, panErr.ExpectedFormat)
	assert.NotEmpty(t, panErr.Help)

	// recommendations include both fixes and confirmations
	var hasFix, hasConfirmation bool
	for _, r := range resp.Recommendations {
		if strings.HasPrefix(r, "Fix ") {
			hasFix = true
		}
		if strings.Contains(r, "extracted successfully") {
			hasConfirmation = true
		}
	}
	assert.True(t, hasFix)
	assert.True(t, hasConfirmation)
}
