package constants

import "strings"

// Field names used as keys in extracted data, validation results and evidence.
const (
	FieldGSTNumber      = "gst_number"
	FieldPANNumber      = "pan_number"
	FieldUdyamNumber    = "udyam_number"
	FieldCompanyName    = "company_name"
	FieldCompanyNames   = "company_names"
	FieldSignature      = "signature"
	FieldQuotationDate  = "quotation_date"
	FieldQuotationPrice = "quotation_price"
	FieldPrices         = "prices"
	FieldGSTPAN         = "gst_pan"
)

// DocumentType is one of the four upload slots accepted per analysis.
type DocumentType string

const (
	DocGST       DocumentType = "gst"
	DocPAN       DocumentType = "pan"
	DocUdyam     DocumentType = "udyam"
	DocQuotation DocumentType = "quotation"
)

// DocumentTypes in processing order.
var DocumentTypes = []DocumentType{DocGST, DocPAN, DocUdyam, DocQuotation}

// EvidenceStatus is the canonical status for evidence ledger entries.
type EvidenceStatus string

const (
	StatusFound   EvidenceStatus = "found"
	StatusValid   EvidenceStatus = "valid"
	StatusInvalid EvidenceStatus = "invalid"
)

// Severity classifies recorded mismatches.
type Severity string

const (
	SeverityHigh   Severity = "HIGH"
	SeverityMedium Severity = "MEDIUM"
	SeverityLow    Severity = "LOW"
)

// DecisionLabel is a terminal analysis outcome.
type DecisionLabel string

const (
	DecisionApprove  DecisionLabel = "APPROVE"
	DecisionNeedMore DecisionLabel = "NEEDS_MORE_DOCUMENTS"
	DecisionReject   DecisionLabel = "REJECT"
)

// DecisionSource records which path produced the final label.
type DecisionSource string

const (
	SourceLocal         DecisionSource = "local"
	SourceRuleBased     DecisionSource = "rule_based"
	SourceCrossVerified DecisionSource = "cross_verified"
	SourceFallback      DecisionSource = "fallback"
)

// SourceType tags where a text fragment came from.
type SourceType string

const (
	SourceNativeText  SourceType = "native_text"
	SourceTableCell   SourceType = "table_cell"
	SourceOCR         SourceType = "ocr"
	SourceOCRFallback SourceType = "ocr_fallback"
	SourceImageOCR    SourceType = "image_ocr"
)

// AllowedExtensions holds the accepted upload file extensions.
var AllowedExtensions = map[string]struct{}{
	"pdf":  {},
	"png":  {},
	"jpg":  {},
	"jpeg": {},
}

// NormalizeExt lowercases and trims the dot from a file extension.
func NormalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// IsAllowedExt reports whether a (dotted or bare) extension is accepted.
func IsAllowedExt(ext string) bool {
	_, ok := AllowedExtensions[NormalizeExt(ext)]
	return ok
}

// IsImageExt reports whether the extension maps to a raster image input.
func IsImageExt(ext string) bool {
	switch NormalizeExt(ext) {
	case "png", "jpg", "jpeg":
		return true
	}
	return false
}
