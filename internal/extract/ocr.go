package extract

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
)

// pdfOCRFragments rasterizes every page at the configured DPI, preprocesses
// each page image, and runs word-level recognition. One quality gauge is
// emitted per page (mean token confidence) and one per document.
func (e *Extractor) pdfOCRFragments(ctx context.Context, path string) []TextFragment {
	tmpDir, err := os.MkdirTemp("", "govdoc-pp-*")
	if err != nil {
		e.logger.Error("extract.ocr.tmpdir_failed", "error", err)
		return nil
	}
	defer func() {
		if rmErr := os.RemoveAll(tmpDir); rmErr != nil {
			e.logger.Warn("extract.ocr.tmpdir_cleanup_failed", "dir", tmpDir, "error", rmErr)
		}
	}()

	prefix := filepath.Join(tmpDir, "page")
	// pdftoppm -r <dpi> -png <in.pdf> <tmp/page>
	_, errb, err := e.runner.Run(ctx, e.cfg.Pdftoppm, "-r", strconv.Itoa(e.cfg.DPI), "-png", path, prefix)
	if err != nil {
		e.logger.Warn("extract.ocr.rasterize_failed", "path", path, "stderr", truncate(string(errb), 1<<10))
		return nil
	}

	// collect generated pngs (prefix-1.png, prefix-2.png, ...)
	pages, _ := filepath.Glob(prefix + "-*.png")
	sort.Strings(pages)
	if e.cfg.MaxPages > 0 && len(pages) > e.cfg.MaxPages {
		pages = pages[:e.cfg.MaxPages]
	}
	if len(pages) == 0 {
		e.logger.Warn("extract.ocr.no_pages", "path", path)
		return nil
	}

	var frags []TextFragment
	var pageMeans []float64
	for i, img := range pages {
		page := i + 1
		input := img
		if proc, prepErr := PreprocessPNG(img); prepErr == nil {
			input = proc
		} else {
			e.logger.Warn("extract.ocr.preprocess_failed", "page", page, "error", prepErr)
		}

		words, ocrErr := e.tesseractWords(ctx, input, page, constants.SourceOCR)
		if ocrErr != nil {
			e.logger.Warn("extract.ocr.page_failed", "page", page, "error", ocrErr)
			continue
		}
		frags = append(frags, words...)

		if mean, ok := meanConfidence(words); ok {
			e.metrics.Gauge("ocr.confidence", mean,
				fmt.Sprintf("page:%d", page), "source:tesseract")
			pageMeans = append(pageMeans, mean)
		}
	}

	if len(pageMeans) > 0 {
		var sum float64
		for _, m := range pageMeans {
			sum += m
		}
		e.metrics.Gauge("ocr.document_confidence", sum/float64(len(pageMeans)),
			"document_type:pdf", "ocr_engine:tesseract")
	}
	return frags
}

// extractImage runs recognition directly on a raster image input.
func (e *Extractor) extractImage(ctx context.Context, path string) []TextFragment {
	words, err := e.tesseractWords(ctx, path, 1, constants.SourceImageOCR)
	if err != nil {
		e.logger.Warn("extract.image.ocr_failed", "path", path, "error", err)
		return nil
	}
	if mean, ok := meanConfidence(words); ok {
		e.metrics.Gauge("ocr.confidence", mean, "page:1", "source:tesseract")
		e.metrics.Gauge("ocr.document_confidence", mean,
			"document_type:image", "ocr_engine:tesseract")
	}
	return words
}

// tesseractWords runs tesseract in TSV mode and keeps word tokens above the
// confidence floor. TSV columns:
// level page block par line word left top width height conf text
func (e *Extractor) tesseractWords(ctx context.Context, path string, page int, src constants.SourceType) ([]TextFragment, error) {
	args := []string{path, "stdout", "-l", e.cfg.Language, "--psm", "6"}
	if e.cfg.TessdataDir != "" {
		args = append(args, "--tessdata-dir", e.cfg.TessdataDir)
	}
	args = append(args, "tsv")

	out, errb, err := e.runner.Run(ctx, e.cfg.Tesseract, args...)
	if err != nil {
		return nil, fmt.Errorf("tesseract: %w (%s)", err, truncate(string(errb), 512))
	}

	var frags []TextFragment
	for i, ln := range strings.Split(string(out), "\n") {
		if i == 0 || ln == "" {
			continue // skip header
		}
		cols := strings.Split(ln, "\t")
		if len(cols) < 12 {
			continue
		}
		text := strings.TrimSpace(cols[11])
		if text == "" {
			continue
		}
		conf, convErr := strconv.ParseFloat(cols[10], 64)
		if convErr != nil || conf <= constants.OCRMinWordConfidence {
			continue
		}
		frags = append(frags, TextFragment{
			Page:       page,
			Line:       cols[4],
			Text:       text,
			SourceType: src,
			Confidence: conf / 100.0,
		})
	}
	return frags, nil
}

func meanConfidence(frags []TextFragment) (float64, bool) {
	if len(frags) == 0 {
		return 0, false
	}
	var sum float64
	for _, f := range frags {
		sum += f.Confidence
	}
	return sum / float64(len(frags)), true
}
