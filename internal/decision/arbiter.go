// Package decision arbitrates between the local classifier prediction and a
// deterministic rule evaluation. When the two disagree, an evidence score over
// the identifier fields breaks the tie; the advisory verdict, when present, is
// attached to the output but never changes the label.
package decision

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/advisory"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/classify"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/extract"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/metrics"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/validate"
)

// identifierFields in fixed reason order.
var identifierFields = []string{
	constants.FieldGSTNumber,
	constants.FieldPANNumber,
	constants.FieldUdyamNumber,
}

// Analysis is the arbitrated outcome attached to every response.
type Analysis struct {
	Decision             constants.DecisionLabel  `json:"decision"`
	Confidence           float64                  `json:"confidence"`
	Reasons              []string                 `json:"reasons"`
	Summary              string                   `json:"summary"`
	AnalysisSource       constants.DecisionSource `json:"analysis_source"`
	LocalDecision        constants.DecisionLabel  `json:"local_decision,omitempty"`
	RuleBasedDecision    constants.DecisionLabel  `json:"rule_based_decision,omitempty"`
	EvidenceScore        int                      `json:"evidence_score"`
	ModelType            string                   `json:"model_type,omitempty"`
	AdvisoryVerification *advisory.Verdict        `json:"advisory_verification,omitempty"`
	Timestamp            string                   `json:"timestamp"`
}

// Arbiter produces the final decision for an analysis run.
type Arbiter struct {
	classifier *classify.Classifier
	advisory   *advisory.Client
	metrics    *metrics.Client
	logger     *slog.Logger
}

// NewArbiter wires the arbitration dependencies. The advisory client may be
// nil; the classifier must not be.
func NewArbiter(classifier *classify.Classifier, adv *advisory.Client, m *metrics.Client, logger *slog.Logger) *Arbiter {
	if logger == nil {
		logger = slog.Default()
	}
	return &Arbiter{classifier: classifier, advisory: adv, metrics: m, logger: logger}
}

var nowFunc = time.Now

// Decide arbitrates a single document set. It never returns an error: every
// degraded path still yields a labeled Analysis.
func (a *Arbiter) Decide(ctx context.Context, extracted map[string]any, vals *validate.Set, frags []extract.TextFragment) Analysis {
	if len(extracted) == 0 {
		a.logger.Warn("decision.empty_extraction")
		a.metrics.Incr("decision.made", "label:"+string(constants.DecisionReject), "source:"+string(constants.SourceFallback))
		return Analysis{
			Decision:       constants.DecisionReject,
			Confidence:     0.9999,
			Reasons:        []string{"No data could be extracted from the uploaded documents"},
			Summary:        summaryFor(constants.DecisionReject, 1),
			AnalysisSource: constants.SourceFallback,
			Timestamp:      nowFunc().UTC().Format(time.RFC3339),
		}
	}

	local := a.classifier.Predict(frags)
	rule := ruleBasedDecision(extracted, vals)
	score := evidenceScore(extracted, vals)

	final := local.Label
	source := constants.SourceLocal
	if local.Label != rule {
		final, source = breakTie(score)
		a.logger.Info("decision.disagreement",
			"local", local.Label, "rule_based", rule, "evidence_score", score, "final", final)
	}

	confidence := math.Round(math.Min(0.5+float64(score)/200.0, 0.99)*100) / 100

	reasons, failures := buildReasons(extracted, vals)

	analysis := Analysis{
		Decision:          final,
		Confidence:        confidence,
		Reasons:           reasons,
		Summary:           summaryFor(final, failures),
		AnalysisSource:    source,
		LocalDecision:     local.Label,
		RuleBasedDecision: rule,
		EvidenceScore:     score,
		ModelType:         local.ModelType,
		Timestamp:         nowFunc().UTC().Format(time.RFC3339),
	}

	if verdict := a.secondOpinion(ctx, extracted, vals); verdict != nil {
		analysis.AdvisoryVerification = verdict
		analysis.AnalysisSource = constants.SourceCrossVerified
	}

	a.metrics.Incr("decision.made",
		"label:"+string(analysis.Decision), "source:"+string(analysis.AnalysisSource))
	a.logger.Info("decision.final",
		"label", analysis.Decision,
		"confidence", analysis.Confidence,
		"source", analysis.AnalysisSource,
		"evidence_score", score,
	)
	return analysis
}

// secondOpinion asks the advisory capability when configured. Every failure
// is a skip, never an outcome change.
func (a *Arbiter) secondOpinion(ctx context.Context, extracted map[string]any, vals *validate.Set) *advisory.Verdict {
	if a.advisory == nil {
		return nil
	}
	verdict, err := a.advisory.Verify(ctx, extracted, validationMap(vals))
	if err != nil {
		a.logger.Warn("decision.advisory_skipped", "error", err)
		return nil
	}
	return verdict
}

// ruleBasedDecision applies the deterministic policy: all three identifiers
// valid plus a signature and consistent names approves; two or more valid
// identifiers asks for more documents; anything less rejects.
func ruleBasedDecision(extracted map[string]any, vals *validate.Set) constants.DecisionLabel {
	validDocs := 0
	for _, field := range identifierFields {
		if _, ok := extracted[field]; ok && vals.IdentifierValid(field) {
			validDocs++
		}
	}

	switch {
	case validDocs == len(identifierFields) && vals.SignatureFound() && vals.NamesConsistent():
		return constants.DecisionApprove
	case validDocs >= 2:
		return constants.DecisionNeedMore
	default:
		return constants.DecisionReject
	}
}

// evidenceScore is the tie-break metric: 10 points for each identifier
// present, 10 more for each that validates, 20 for a signature, capped at 100.
func evidenceScore(extracted map[string]any, vals *validate.Set) int {
	score := 0
	for _, field := range identifierFields {
		if _, ok := extracted[field]; ok {
			score += 10
			if vals.IdentifierValid(field) {
				score += 10
			}
		}
	}
	if vals.SignatureFound() {
		score += 20
	}
	if score > 100 {
		score = 100
	}
	return score
}

func breakTie(score int) (constants.DecisionLabel, constants.DecisionSource) {
	switch {
	case score >= constants.ApproveThreshold:
		return constants.DecisionApprove, constants.SourceRuleBased
	case score >= constants.NeedMoreThreshold:
		return constants.DecisionNeedMore, constants.SourceRuleBased
	default:
		return constants.DecisionReject, constants.SourceRuleBased
	}
}

// buildReasons lists the check outcomes in a fixed order and returns how many
// of them failed.
func buildReasons(extracted map[string]any, vals *validate.Set) ([]string, int) {
	reasons := make([]string, 0, 6)
	failures := 0

	addr := func(ok bool, pass, fail string) {
		if ok {
			reasons = append(reasons, pass)
			return
		}
		reasons = append(reasons, fail)
		failures++
	}

	names := map[string]string{
		constants.FieldGSTNumber:   "GST number",
		constants.FieldPANNumber:   "PAN number",
		constants.FieldUdyamNumber: "Udyam number",
	}
	for _, field := range identifierFields {
		label := names[field]
		if _, ok := extracted[field]; !ok {
			addr(false, "", fmt.Sprintf("%s not found in documents", label))
			continue
		}
		addr(vals.IdentifierValid(field),
			fmt.Sprintf("%s valid", label),
			fmt.Sprintf("%s failed format validation", label))
	}

	addr(vals.SignatureFound(), "Signature present", "Signature not found")

	if vals != nil && vals.NameConsistency != nil {
		addr(vals.NameConsistency.Consistent,
			"Company names consistent across documents",
			"Company names differ across documents")
	}
	if vals != nil && vals.GSTPANConsistency != nil {
		addr(vals.GSTPANConsistency.Consistent,
			"GST and PAN numbers consistent",
			"PAN does not match the PAN embedded in GST")
	}

	return reasons, failures
}

func summaryFor(label constants.DecisionLabel, failures int) string {
	switch label {
	case constants.DecisionApprove:
		return "All compliance checks passed"
	case constants.DecisionNeedMore:
		return fmt.Sprintf("%d issue(s) need correction before approval", failures)
	default:
		return fmt.Sprintf("%d critical compliance failure(s)", failures)
	}
}

// validationMap flattens the validation set into the generic shape the
// advisory prompt expects.
func validationMap(vals *validate.Set) map[string]any {
	out := map[string]any{}
	if vals == nil {
		return out
	}
	if vals.GST != nil {
		out[constants.FieldGSTNumber] = vals.GST
	}
	if vals.PAN != nil {
		out[constants.FieldPANNumber] = vals.PAN
	}
	if vals.Udyam != nil {
		out[constants.FieldUdyamNumber] = vals.Udyam
	}
	if vals.Date != nil {
		out[constants.FieldQuotationDate] = vals.Date
	}
	if vals.Signature != nil {
		out[constants.FieldSignature] = vals.Signature
	}
	if vals.NameConsistency != nil {
		out["name_consistency"] = vals.NameConsistency
	}
	if vals.GSTPANConsistency != nil {
		out[constants.FieldGSTPAN] = vals.GSTPANConsistency
	}
	return out
}
