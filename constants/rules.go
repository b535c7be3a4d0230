package constants

// Validation patterns. Matching is applied per text fragment,
// case-insensitively, by the pattern matcher.
const (
	GSTPattern         = `\b[0-9]{2}[A-Z]{5}[0-9]{4}[A-Z][1-9A-Z]Z[0-9A-Z]\b`
	PANPattern         = `\b[A-Z]{5}[0-9]{4}[A-Z]\b`
	UdyamPattern       = `\bUDYAM-[A-Z]{2}-[0-9]{2}-[0-9]{6,7}\b`
	DatePattern        = `\b(0?[1-9]|[12][0-9]|3[01])[\/\-](0?[1-9]|1[012])[\/\-](19|20)\d{2}\b`
	PricePattern       = `\b(INR|Rs\.?)\s?[0-9]{1,3}(?:,[0-9]{2,3})*(?:\.[0-9]{2})?\b`
	CompanyNamePattern = `\b[A-Z][A-Za-z0-9&\s\.-]{2,}?(?:Pvt\.?\sLtd|Private\sLimited|LLP|Limited)\b`
	SignaturePattern   = `\b(signature|signed|authorized\s+signatory|digitally\s+signed|director|proprietor)\b`
)

// ValidGSTStateCodes is the whitelist of two-digit jurisdiction prefixes.
var ValidGSTStateCodes = map[string]struct{}{
	"01": {}, "02": {}, "03": {}, "04": {}, "05": {}, "06": {}, "07": {},
	"08": {}, "09": {}, "10": {}, "11": {}, "12": {}, "13": {}, "14": {},
	"15": {}, "16": {}, "17": {}, "18": {}, "19": {}, "20": {}, "21": {},
	"22": {}, "23": {}, "24": {}, "26": {}, "27": {}, "28": {}, "29": {},
	"30": {}, "31": {}, "32": {}, "33": {}, "34": {}, "35": {}, "36": {},
	"37": {},
}

// Certificate validity windows, in days.
const (
	GSTValidityDays   = 365
	UdyamValidityDays = 365 * 5
)

// RequiredFields drive the completeness score and the detailed-errors list.
var RequiredFields = []string{
	FieldGSTNumber,
	FieldPANNumber,
	FieldUdyamNumber,
	FieldCompanyName,
	FieldSignature,
	FieldQuotationDate,
}

// FieldWeights is the evidence scoring table. Weights sum to 100.
var FieldWeights = map[string]int{
	FieldGSTNumber:      25,
	FieldPANNumber:      20,
	FieldUdyamNumber:    15,
	FieldSignature:      15,
	FieldCompanyName:    10,
	FieldQuotationDate:  10,
	FieldQuotationPrice: 5,
}

// Mismatch penalties by severity.
const (
	PenaltyHigh   = 15
	PenaltyMedium = 10
	PenaltyLow    = 5
)

// Evidence-score arbitration thresholds.
const (
	ApproveThreshold  = 80
	NeedMoreThreshold = 60
)

// SignatureKeywords is the fixed vocabulary for signature spotting.
// Confidence is 0.25 per distinct keyword found, capped at 1.0.
var SignatureKeywords = []string{
	"signature",
	"signed",
	"authorized signatory",
	"director",
	"proprietor",
	"for and on behalf",
	"digitally signed",
}

// NameSimilarityThreshold is the minimum pairwise Gestalt ratio for
// company names to be considered consistent.
const NameSimilarityThreshold = 0.75

// MinTextChars is the extracted-character threshold below which a PDF is
// treated as image-only and routed to OCR.
const MinTextChars = 100

// OCRMinWordConfidence drops OCR tokens at or below this percent confidence.
const OCRMinWordConfidence = 30
