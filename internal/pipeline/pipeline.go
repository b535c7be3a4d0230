// Package pipeline sequences extraction, matching, validation, evidence
// accumulation, cross-checks and decision arbitration for one document set,
// and assembles the response payload. State is per-run; the pipeline itself
// holds only injected collaborators and is safe for concurrent Analyze calls.
package pipeline

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/decision"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/evidence"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/match"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/metrics"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/validate"
)

// Document is one uploaded file with its declared category.
type Document struct {
	Type constants.DocumentType `json:"type"`
	Path string                 `json:"path"`
}

// CommonFixes are the remediation hints attached to boundary failures and
// to extraction debug responses when no text comes out of a document.
var CommonFixes = []string{
	"Ensure the PDF is not password protected",
	"Upload a searchable PDF or a clear scan",
	"Keep each file under the upload size limit",
	"Check that images are sharp and well lit",
}

// PatternsUsed is echoed in responses for operator transparency.
var PatternsUsed = map[string]string{
	constants.FieldGSTNumber:      constants.GSTPattern,
	constants.FieldPANNumber:      constants.PANPattern,
	constants.FieldUdyamNumber:    constants.UdyamPattern,
	constants.FieldCompanyName:    constants.CompanyNamePattern,
	constants.FieldQuotationDate:  constants.DatePattern,
	constants.FieldQuotationPrice: constants.PricePattern,
}

// Pipeline is the per-request orchestrator.
type Pipeline struct {
	extractor extract.TextExtractor
	matcher   *match.Matcher
	arbiter   *decision.Arbiter
	metrics   *metrics.Client
	logger    *slog.Logger
}

func New(extractor extract.TextExtractor, matcher *match.Matcher, arbiter *decision.Arbiter, sink *metrics.Client, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		extractor: extractor,
		matcher:   matcher,
		arbiter:   arbiter,
		metrics:   sink,
		logger:    logger,
	}
}

// Analyze runs the full pipeline over one document set. It never panics out:
// an unexpected failure becomes a structured failure response with
// remediation hints.
func (p *Pipeline) Analyze(ctx context.Context, docs []Document) (resp Response) {
	defer func() {
		if r := recover(); r != nil {
			p.logger.Error("pipeline.panic", "panic", r)
			p.metrics.Incr("pipeline.panic")
			resp = Response{
				Success:        false,
				Error:          "Analysis failed unexpectedly",
				CommonFixes:    CommonFixes,
				DetailedErrors: []FieldError{},
			}
		}
	}()

	if len(docs) == 0 {
		return Response{
			Success:        false,
			Error:          "No documents uploaded",
			DetailedErrors: []FieldError{},
		}
	}

	start := time.Now()
	p.metrics.Incr("analysis.request", "documents:"+strconv.Itoa(len(docs)))
	run := newRun(p)
	for _, doc := range docs {
		run.processDocument(ctx, doc)
	}
	run.crossChecks()

	resp = run.assemble(ctx, len(docs))

	p.metrics.Gauge("pipeline.duration_ms", float64(time.Since(start).Milliseconds()))
	p.metrics.Incr("pipeline.analyzed",
		"documents:"+strconv.Itoa(len(docs)),
		"decision:"+string(resp.Analysis.Decision))
	p.logger.Info("pipeline.done",
		"documents", len(docs),
		"decision", resp.Analysis.Decision,
		"confidence", resp.Analysis.Confidence,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return resp
}

// run is the mutable state of one Analyze call.
type run struct {
	p *Pipeline

	extracted    map[string]any
	vals         *validate.Set
	ledger       *evidence.Ledger
	allFrags     []extract.TextFragment
	companyNames []string
}

func newRun(p *Pipeline) *run {
	return &run{
		p:         p,
		extracted: make(map[string]any),
		vals:      &validate.Set{},
		ledger:    evidence.NewLedger(p.metrics, p.logger),
	}
}

func (r *run) processDocument(ctx context.Context, doc Document) {
	frags := r.p.extractor.Extract(ctx, doc.Path)
	r.allFrags = append(r.allFrags, frags...)
	r.p.logger.Info("pipeline.document",
		"type", doc.Type, "fragments", len(frags), "chars", extract.TotalChars(frags))

	switch doc.Type {
	case constants.DocGST:
		r.identifier(frags, constants.GSTPattern, constants.FieldGSTNumber, func(v string) {
			res := validate.ValidateGST(v)
			r.vals.GST = &res
		})
		r.collectCompanyNames(frags)
	case constants.DocPAN:
		r.identifier(frags, constants.PANPattern, constants.FieldPANNumber, func(v string) {
			res := validate.ValidatePAN(v)
			r.vals.PAN = &res
		})
	case constants.DocUdyam:
		r.identifier(frags, constants.UdyamPattern, constants.FieldUdyamNumber, func(v string) {
			res := validate.ValidateUdyam(v)
			r.vals.Udyam = &res
		})
		r.collectCompanyNames(frags)
	case constants.DocQuotation:
		r.quotation(frags)
	default:
		r.p.logger.Warn("pipeline.unknown_document_type", "type", doc.Type)
	}
}

// identifier matches one identifier field, validates the first hit, and
// records evidence with the validation outcome.
func (r *run) identifier(frags []extract.TextFragment, pattern, field string, apply func(string)) {
	matches := r.p.matcher.FindWithDiagnostics(frags, pattern, field)
	if len(matches) == 0 {
		return
	}

	m := matches[0]
	value := strings.ToUpper(m.Value)
	r.extracted[field] = value
	apply(value)

	status := constants.StatusInvalid
	if r.vals.IdentifierValid(field) {
		status = constants.StatusValid
	}
	r.ledger.Record(field, value, m.Page, m.Line, m.Snippet, status)
}

func (r *run) quotation(frags []extract.TextFragment) {
	r.collectCompanyNames(frags)

	if dates := r.p.matcher.Find(frags, constants.DatePattern, constants.FieldQuotationDate); len(dates) > 0 {
		m := dates[0]
		r.extracted[constants.FieldQuotationDate] = m.Value
		res := validate.CheckDateValidity(m.Value, string(constants.DocQuotation))
		r.vals.Date = &res

		status := constants.StatusInvalid
		if res.Valid {
			status = constants.StatusValid
		}
		r.ledger.Record(constants.FieldQuotationDate, m.Value, m.Page, m.Line, m.Snippet, status)
	}

	if prices := r.p.matcher.Find(frags, constants.PricePattern, constants.FieldQuotationPrice); len(prices) > 0 {
		m := prices[0]
		r.extracted[constants.FieldQuotationPrice] = m.Value
		if len(prices) > 1 {
			all := make([]string, len(prices))
			for i, pm := range prices {
				all[i] = pm.Value
			}
			r.extracted[constants.FieldPrices] = all
		}
		r.ledger.Record(constants.FieldQuotationPrice, m.Value, m.Page, m.Line, m.Snippet, constants.StatusFound)
	}
}

// collectCompanyNames accumulates names for cross-document consistency. The
// first name found anywhere becomes the headline company_name.
func (r *run) collectCompanyNames(frags []extract.TextFragment) {
	matches := r.p.matcher.Find(frags, constants.CompanyNamePattern, constants.FieldCompanyName)
	for _, m := range matches {
		name := strings.TrimSpace(m.Value)
		if name == "" {
			continue
		}
		r.companyNames = append(r.companyNames, name)
		if _, ok := r.extracted[constants.FieldCompanyName]; !ok {
			r.extracted[constants.FieldCompanyName] = name
			r.ledger.Record(constants.FieldCompanyName, name, m.Page, m.Line, m.Snippet, constants.StatusFound)
		}
	}
}

// crossChecks runs after every document is processed: document-level
// signature spotting, GST-PAN embedded-identifier equality, and company-name
// consistency across documents.
func (r *run) crossChecks() {
	sig := validate.CheckSignaturePresence(r.allFrags)
	r.vals.Signature = &sig
	if sig.Found {
		r.extracted[constants.FieldSignature] = strings.Join(sig.KeywordsFound, ", ")
		r.ledger.Record(constants.FieldSignature, r.extracted[constants.FieldSignature].(string),
			0, "document", "", constants.StatusFound)
	}

	gst, gstOK := r.extracted[constants.FieldGSTNumber].(string)
	pan, panOK := r.extracted[constants.FieldPANNumber].(string)
	if gstOK && panOK {
		res := validate.CheckGSTPANConsistency(gst, pan)
		r.vals.GSTPANConsistency = &res
		if !res.Consistent {
			r.ledger.RecordMismatch(constants.FieldGSTPAN, res.GSTPAN, res.PAN, "cross_document")
		}
	}

	if len(r.companyNames) > 1 {
		r.extracted[constants.FieldCompanyNames] = r.companyNames
		res := validate.CheckNameConsistency(r.companyNames)
		r.vals.NameConsistency = &res
		if !res.Consistent {
			r.ledger.RecordMismatch(constants.FieldCompanyName,
				r.companyNames[0], strings.Join(r.companyNames[1:], "; "), "cross_document")
		}
	}
}

func (r *run) assemble(ctx context.Context, docCount int) Response {
	comp := validate.CompletenessScore(r.extracted, constants.RequiredFields)
	r.vals.Completeness = &comp

	analysis := r.p.arbiter.Decide(ctx, r.extracted, r.vals, r.allFrags)
	report := r.ledger.Report()
	errs := detailedErrors(r.extracted, r.vals)

	return Response{
		Success:           true,
		Analysis:          &analysis,
		ExtractedData:     r.extracted,
		ValidationResults: r.vals,
		DetailedErrors:    errs,
		ComplianceScore:   comp.Score,
		EvidenceReport:    &report,
		DocumentCount:     docCount,
		Recommendations:   recommendations(errs, r.extracted),
		PatternsUsed:      PatternsUsed,
	}
}
