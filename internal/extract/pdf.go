package extract

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
)

// columnGap splits -layout output on runs of 2+ spaces, which pdftotext
// uses to preserve horizontal table structure.
var columnGap = regexp.MustCompile(`\s{2,}`)

// pdfTextFragments extracts the native text layer. Each non-empty line of
// each page becomes one fragment at confidence 1.0; lines that look like
// table rows (two or more column gaps) are re-emitted as a collapsed
// table_cell fragment so that matchers see the row as a unit.
func (e *Extractor) pdfTextFragments(ctx context.Context, path string) []TextFragment {
	// pdftotext -layout -enc UTF-8 -eol unix <path> -
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-layout", "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		e.logger.Warn("extract.pdftotext_failed", "path", path, "stderr", truncate(string(errb), 1<<10))
		return nil
	}

	var frags []TextFragment
	// A form-feed \f is used as page separator by default.
	for pageIdx, pageText := range strings.Split(string(out), "\f") {
		page := pageIdx + 1
		tableRow := 0
		for lineIdx, line := range strings.Split(pageText, "\n") {
			text := strings.TrimSpace(line)
			if text == "" {
				continue
			}
			frags = append(frags, TextFragment{
				Page:       page,
				Line:       strconv.Itoa(lineIdx + 1),
				Text:       text,
				SourceType: constants.SourceNativeText,
				Confidence: 1.0,
			})
			if cells := columnGap.Split(text, -1); len(cells) >= 3 {
				tableRow++
				frags = append(frags, TextFragment{
					Page:       page,
					Line:       "table1_row" + strconv.Itoa(tableRow),
					Text:       strings.Join(cells, " "),
					SourceType: constants.SourceTableCell,
					Confidence: 1.0,
				})
			}
		}
	}
	return frags
}

// pdfFallbackFragments is the last extraction tier: a minimal text-layer
// re-read without layout reconstruction, tagged at reduced confidence.
func (e *Extractor) pdfFallbackFragments(ctx context.Context, path string) []TextFragment {
	out, errb, err := e.runner.Run(ctx, e.cfg.Pdftotext, "-enc", "UTF-8", "-eol", "unix", path, "-")
	if err != nil {
		e.logger.Warn("extract.fallback_failed", "path", path, "stderr", truncate(string(errb), 1<<10))
		return nil
	}

	var frags []TextFragment
	for i, line := range strings.Split(string(out), "\n") {
		text := strings.TrimSpace(strings.ReplaceAll(line, "\f", " "))
		if text == "" {
			continue
		}
		frags = append(frags, TextFragment{
			Page:       1,
			Line:       strconv.Itoa(i + 1),
			Text:       text,
			SourceType: constants.SourceOCRFallback,
			Confidence: 0.3,
		})
	}
	return frags
}
