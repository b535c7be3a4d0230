package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
)

// stubRunner replays canned output per binary name.
type stubRunner struct {
	stdout map[string]string
	err    map[string]error
	calls  []string
}

func (s *stubRunner) Run(_ context.Context, name string, args ...string) ([]byte, []byte, error) {
	s.calls = append(s.calls, name+" "+strings.Join(args, " "))
	return []byte(s.stdout[name]), nil, s.err[name]
}

func testExtractor(runner Runner) *Extractor {
	e := NewExtractor(common.OCRConfig{}, nil, nil)
	e.runner = runner
	return e
}

func touch(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("stub"), 0o644))
	return path
}

func TestExtractUnreadableFile(t *testing.T) {
	e := testExtractor(&stubRunner{})
	assert.Nil(t, e.Extract(context.Background(), "/no/such/file.pdf"))
}

func TestExtractUnsupportedExtension(t *testing.T) {
	e := testExtractor(&stubRunner{})
	assert.Nil(t, e.Extract(context.Background(), touch(t, "notes.txt")))
}

func TestExtractPDFTextLayer(t *testing.T) {
	page1 := "GSTIN: 27ABCDE1234F1Z5\nAcme Industries Pvt Ltd\n" + strings.Repeat("body text line\n", 10)
	page2 := "second page content here"
	runner := &stubRunner{stdout: map[string]string{
		"pdftotext": page1 + "\f" + page2,
	}}
	e := testExtractor(runner)

	frags := e.Extract(context.Background(), touch(t, "doc.pdf"))
	require.NotEmpty(t, frags)

	assert.Equal(t, 1, frags[0].Page)
	assert.Equal(t, "GSTIN: 27ABCDE1234F1Z5", frags[0].Text)
	assert.Equal(t, constants.SourceNativeText, frags[0].SourceType)
	assert.Equal(t, 1.0, frags[0].Confidence)

	last := frags[len(frags)-1]
	assert.Equal(t, 2, last.Page)
	assert.Equal(t, "second page content here", last.Text)
}

func TestExtractPDFTableRows(t *testing.T) {
	// three column gaps make a table row fragment
	text := "Item        Quantity        Price\n" + strings.Repeat("padding line to stay above threshold\n", 5)
	runner := &stubRunner{stdout: map[string]string{"pdftotext": text}}
	e := testExtractor(runner)

	frags := e.Extract(context.Background(), touch(t, "doc.pdf"))

	var table []TextFragment
	for _, f := range frags {
		if f.SourceType == constants.SourceTableCell {
			table = append(table, f)
		}
	}
	require.Len(t, table, 1)
	assert.Equal(t, "Item Quantity Price", table[0].Text)
	assert.Equal(t, "table1_row1", table[0].Line)
}

func TestExtractPDFLowTextFallsBack(t *testing.T) {
	// -layout yields almost nothing; OCR produces no page images; the plain
	// re-read is the last tier and is tagged at reduced confidence.
	runner := &stubRunner{stdout: map[string]string{
		"pdftotext": "tiny",
		"pdftoppm":  "",
		"tesseract": "",
	}}
	e := testExtractor(runner)

	frags := e.Extract(context.Background(), touch(t, "scan.pdf"))
	require.NotEmpty(t, frags)
	assert.Equal(t, constants.SourceOCRFallback, frags[0].SourceType)
	assert.Equal(t, 0.3, frags[0].Confidence)
}

func TestExtractPDFAllTiersFail(t *testing.T) {
	runner := &stubRunner{
		stdout: map[string]string{},
		err: map[string]error{
			"pdftotext": fmt.Errorf("broken"),
			"pdftoppm":  fmt.Errorf("broken"),
		},
	}
	e := testExtractor(runner)
	assert.Empty(t, e.Extract(context.Background(), touch(t, "bad.pdf")))
}

func TestTesseractTSVParsing(t *testing.T) {
	// TSV: level page_num block_num par_num line_num word_num left top width height conf text
	tsv := strings.Join([]string{
		"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext",
		"5\t1\t1\t1\t1\t1\t10\t10\t50\t20\t95.5\tGSTIN:",
		"5\t1\t1\t1\t1\t2\t70\t10\t90\t20\t88.0\t27ABCDE1234F1Z5",
		"5\t1\t1\t1\t2\t1\t10\t40\t50\t20\t12.0\tnoise",
		"5\t1\t1\t1\t2\t2\t70\t40\t50\t20\t-1\t",
	}, "\n")
	runner := &stubRunner{stdout: map[string]string{"tesseract": tsv}}
	e := testExtractor(runner)

	frags, err := e.tesseractWords(context.Background(), "page.png", 1, constants.SourceOCR)
	require.NoError(t, err)
	require.Len(t, frags, 2, "low-confidence tokens are dropped")

	assert.Equal(t, "GSTIN:", frags[0].Text)
	assert.InDelta(t, 0.955, frags[0].Confidence, 1e-9)
	assert.Equal(t, constants.SourceOCR, frags[0].SourceType)
	assert.Equal(t, 1, frags[0].Page)
}

func TestExtractImageUsesOCR(t *testing.T) {
	tsv := strings.Join([]string{
		"level\tpage_num\tblock_num\tpar_num\tline_num\tword_num\tleft\ttop\twidth\theight\tconf\ttext",
		"5\t1\t1\t1\t1\t1\t0\t0\t1\t1\t90\tABCDE1234F",
	}, "\n")
	runner := &stubRunner{stdout: map[string]string{"tesseract": tsv}}
	e := testExtractor(runner)

	frags := e.Extract(context.Background(), touch(t, "card.png"))
	require.Len(t, frags, 1)
	assert.Equal(t, constants.SourceImageOCR, frags[0].SourceType)
	assert.Equal(t, "ABCDE1234F", frags[0].Text)
}

func TestJoinTextAndTotalChars(t *testing.T) {
	frags := []TextFragment{
		{Text: "one"},
		{Text: "two"},
	}
	assert.Equal(t, 6, TotalChars(frags))
	assert.Contains(t, JoinText(frags), "one")
	assert.Contains(t, JoinText(frags), "two")
}
