package pipeline

import (
	"fmt"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/decision"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/evidence"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/validate"
)

// FieldError is one detailed per-field failure surfaced to the caller.
type FieldError struct {
	Field          string `json:"field"`
	Error          string `json:"error"`
	ExpectedFormat string `json:"expected_format"`
	Help           string `json:"help"`
}

// Response is the full analysis payload. Success is false only for request
// level failures (nothing uploaded, boundary panic); a REJECT decision is
// still a successful analysis.
type Response struct {
	Success           bool               `json:"success"`
	Error             string             `json:"error,omitempty"`
	CommonFixes       []string           `json:"common_fixes,omitempty"`
	Analysis          *decision.Analysis `json:"analysis,omitempty"`
	ExtractedData     map[string]any     `json:"extracted_data,omitempty"`
	ValidationResults *validate.Set      `json:"validation_results,omitempty"`
	DetailedErrors    []FieldError       `json:"detailed_errors"`
	ComplianceScore   float64            `json:"compliance_score"`
	EvidenceReport    *evidence.Report   `json:"evidence_report,omitempty"`
	DocumentCount     int                `json:"document_count"`
	Recommendations   []string           `json:"recommendations,omitempty"`
	PatternsUsed      map[string]string  `json:"patterns_used,omitempty"`
}

// fieldSpec drives the detailed-errors list: expected format and help text
// per required field.
var fieldSpecs = map[string]struct{ format, help string }{
	constants.FieldGSTNumber: {
		format: "15 characters: 2 digits, 5 letters, 4 digits, 1 letter, 1 alphanumeric, Z, 1 alphanumeric",
		help:   "Check the GST certificate for the GSTIN printed near the top",
	},
	constants.FieldPANNumber: {
		format: "10 characters: 5 letters, 4 digits, 1 letter",
		help:   "Check the PAN card for the permanent account number",
	},
	constants.FieldUdyamNumber: {
		format: "UDYAM-XX-00-0000000",
		help:   "Check the Udyam registration certificate for the registration number",
	},
	constants.FieldCompanyName: {
		format: "Registered company name ending in Pvt Ltd, Private Limited, LLP or Limited",
		help:   "Ensure the company name is printed clearly on the documents",
	},
	constants.FieldSignature: {
		format: "Signature block or authorized signatory text",
		help:   "Ensure the quotation carries a signature or signatory designation",
	},
	constants.FieldQuotationDate: {
		format: "DD-MM-YYYY, DD/MM/YYYY or a written month date",
		help:   "Ensure the quotation carries an issue date",
	},
}

// fieldTitles for human-readable recommendation text.
var fieldTitles = map[string]string{
	constants.FieldGSTNumber:     "GST number",
	constants.FieldPANNumber:     "PAN number",
	constants.FieldUdyamNumber:   "Udyam number",
	constants.FieldCompanyName:   "Company name",
	constants.FieldSignature:     "Signature",
	constants.FieldQuotationDate: "Quotation date",
}

// detailedErrors walks the required fields in order and reports each one that
// is missing or failed validation, with its expected format and help text.
func detailedErrors(extracted map[string]any, vals *validate.Set) []FieldError {
	errs := make([]FieldError, 0, len(constants.RequiredFields))

	add := func(field, msg string) {
		spec := fieldSpecs[field]
		errs = append(errs, FieldError{
			Field:          field,
			Error:          msg,
			ExpectedFormat: spec.format,
			Help:           spec.help,
		})
	}

	for _, field := range constants.RequiredFields {
		present := hasValue(extracted, field)

		switch field {
		case constants.FieldGSTNumber:
			if !present {
				add(field, "GST number not found in documents")
			} else if vals.GST != nil && !vals.GST.Valid {
				add(field, vals.GST.Error)
			}
		case constants.FieldPANNumber:
			if !present {
				add(field, "PAN number not found in documents")
			} else if vals.PAN != nil && !vals.PAN.Valid {
				add(field, vals.PAN.Error)
			}
		case constants.FieldUdyamNumber:
			if !present {
				add(field, "Udyam number not found in documents")
			} else if vals.Udyam != nil && !vals.Udyam.Valid {
				add(field, vals.Udyam.Error)
			}
		case constants.FieldCompanyName:
			if !present {
				add(field, "Company name not found in documents")
			} else if vals.NameConsistency != nil && !vals.NameConsistency.Consistent {
				add(field, vals.NameConsistency.Error)
			}
		case constants.FieldSignature:
			if vals.Signature == nil || !vals.Signature.Found {
				add(field, "Signature not found in documents")
			}
		case constants.FieldQuotationDate:
			if !present {
				add(field, "Quotation date not found in documents")
			} else if vals.Date != nil && !vals.Date.Valid {
				add(field, vals.Date.Error)
			}
		}
	}

	if vals.GSTPANConsistency != nil && !vals.GSTPANConsistency.Consistent {
		errs = append(errs, FieldError{
			Field:          constants.FieldGSTPAN,
			Error:          vals.GSTPANConsistency.Message,
			ExpectedFormat: "PAN embedded in GST (characters 3-12) must equal the PAN on record",
			Help:           "Verify the GST certificate and PAN card belong to the same entity",
		})
	}

	return errs
}

// recommendations turns detailed errors into fix suggestions and adds a
// positive confirmation for each headline field that was extracted.
func recommendations(errs []FieldError, extracted map[string]any) []string {
	recs := make([]string, 0, len(errs)+len(constants.RequiredFields))

	for _, e := range errs {
		title := fieldTitles[e.Field]
		if title == "" {
			title = e.Field
		}
		recs = append(recs, fmt.Sprintf("Fix %s: %s. %s", title, e.Error, e.Help))
	}

	for _, field := range constants.RequiredFields {
		if field == constants.FieldSignature || !hasValue(extracted, field) {
			continue
		}
		recs = append(recs, fmt.Sprintf("%s extracted successfully (%v)", fieldTitles[field], extracted[field]))
	}

	return recs
}

func hasValue(extracted map[string]any, field string) bool {
	v, ok := extracted[field]
	if !ok || v == nil {
		return false
	}
	switch t := v.(type) {
	case string:
		return t != ""
	case []string:
		return len(t) > 0
	}
	return true
}
