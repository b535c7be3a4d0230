// Package extract converts document files into ordered text fragments.
//
// PDFs get a hybrid treatment: the text layer is read first via pdftotext,
// and documents that yield almost no text are rasterized with pdftoppm and
// recognized with tesseract. Raster images go straight to tesseract.
// Extraction never fails upward; every error tier degrades toward an empty
// fragment list, which downstream stages treat as "field not found".
package extract

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/common"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/metrics"
)

// TextExtractor is the capability consumed by the pipeline.
type TextExtractor interface {
	Extract(ctx context.Context, path string) []TextFragment
}

// Extractor implements TextExtractor over external poppler/tesseract binaries.
type Extractor struct {
	cfg     common.OCRConfig
	runner  Runner
	metrics *metrics.Client
	logger  *slog.Logger
}

// NewExtractor builds an Extractor. Zero-value config fields get defaults.
func NewExtractor(cfg common.OCRConfig, sink *metrics.Client, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.Pdftotext == "" {
		cfg.Pdftotext = "pdftotext"
	}
	if cfg.Pdftoppm == "" {
		cfg.Pdftoppm = "pdftoppm"
	}
	if cfg.Tesseract == "" {
		cfg.Tesseract = "tesseract"
	}
	if cfg.Language == "" {
		cfg.Language = "eng"
	}
	if cfg.DPI <= 0 {
		cfg.DPI = 300
	}
	return &Extractor{cfg: cfg, runner: execRunner{}, metrics: sink, logger: logger}
}

// Extract picks a strategy based on file extension. It never returns an
// error: unreadable or unsupported input yields an empty slice.
func (e *Extractor) Extract(ctx context.Context, path string) []TextFragment {
	if _, err := os.Stat(path); err != nil {
		e.logger.Warn("extract.file_unreadable", "path", path, "error", err)
		return nil
	}

	ext := constants.NormalizeExt(filepath.Ext(path))
	switch {
	case ext == "pdf":
		return e.extractPDF(ctx, path)
	case constants.IsImageExt(ext):
		return e.extractImage(ctx, path)
	default:
		e.logger.Warn("extract.unsupported_extension", "path", path, "ext", ext)
		return nil
	}
}

// extractPDF tries the text layer first and falls back to OCR when the
// document looks image-only (under constants.MinTextChars of text).
func (e *Extractor) extractPDF(ctx context.Context, path string) []TextFragment {
	frags := e.pdfTextFragments(ctx, path)

	total := TotalChars(frags)
	if total >= constants.MinTextChars {
		e.logger.Info("extract.pdf.text_layer",
			"path", path, "fragments", len(frags), "chars", total)
		return frags
	}

	e.logger.Warn("extract.pdf.low_text",
		"path", path, "chars", total, "threshold", constants.MinTextChars)

	ocr := e.pdfOCRFragments(ctx, path)
	if len(ocr) > 0 {
		e.logger.Info("extract.pdf.ocr", "path", path, "fragments", len(ocr))
		return ocr
	}

	e.logger.Warn("extract.pdf.ocr_empty", "path", path)
	fb := e.pdfFallbackFragments(ctx, path)
	if len(fb) == 0 {
		e.logger.Error("extract.pdf.exhausted", "path", path)
	}
	return fb
}
