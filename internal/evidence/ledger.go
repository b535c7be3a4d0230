// Package evidence is the append-only audit ledger for field observations
// and cross-document mismatches, and the single source of truth for the
// weighted compliance score.
package evidence

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/metrics"
)

// Entry is one recorded field observation. Entries are immutable once
// appended; corrections require a new entry.
type Entry struct {
	Value     string                   `json:"value"`
	Page      int                      `json:"page"`
	Line      string                   `json:"line"`
	Snippet   string                   `json:"snippet"`
	Status    constants.EvidenceStatus `json:"status"`
	Timestamp string                   `json:"timestamp"`
}

// Mismatch is one recorded cross-document inconsistency.
type Mismatch struct {
	Field     string             `json:"field"`
	Expected  string             `json:"expected"`
	Found     string             `json:"found"`
	Location  string             `json:"location"`
	Severity  constants.Severity `json:"severity"`
	Timestamp string             `json:"timestamp"`
}

// Report is the ledger's read side.
type Report struct {
	Summary         Summary            `json:"summary"`
	EvidenceByField map[string][]Entry `json:"evidence_by_field"`
	Mismatches      []Mismatch         `json:"mismatches"`
	CriticalIssues  []Mismatch         `json:"critical_issues"`
	ComplianceScore float64            `json:"compliance_score"`
	Timestamp       string             `json:"timestamp"`
}

// Summary carries the headline ledger counts.
type Summary struct {
	TotalFieldsFound int     `json:"total_fields_found"`
	TotalMismatches  int     `json:"total_mismatches"`
	CriticalIssues   int     `json:"critical_issues"`
	ComplianceScore  float64 `json:"compliance_score"`
}

var nowFunc = time.Now

// Ledger accumulates evidence for one analysis run. Not safe for concurrent
// use; the pipeline is single-threaded per request.
type Ledger struct {
	entries    map[string][]Entry
	mismatches []Mismatch
	metrics    *metrics.Client
	logger     *slog.Logger
}

func NewLedger(sink *metrics.Client, logger *slog.Logger) *Ledger {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ledger{
		entries: make(map[string][]Entry),
		metrics: sink,
		logger:  logger,
	}
}

// Record appends one field observation. Only the first entry per field
// counts toward the score; later ones are retained for audit.
func (l *Ledger) Record(field, value string, page int, line, snippet string, status constants.EvidenceStatus) {
	l.entries[field] = append(l.entries[field], Entry{
		Value:     value,
		Page:      page,
		Line:      line,
		Snippet:   clip(snippet, 150),
		Status:    status,
		Timestamp: nowFunc().Format(time.RFC3339),
	})

	l.metrics.Incr("evidence.generated",
		fmt.Sprintf("field:%s", field), fmt.Sprintf("status:%s", status))
}

// RecordMismatch appends one inconsistency. Severity is a static function
// of the field: identifiers and company name are HIGH, signature/date/price
// MEDIUM, everything else LOW.
func (l *Ledger) RecordMismatch(field, expected, found, location string) {
	severity := severityOf(field)
	l.mismatches = append(l.mismatches, Mismatch{
		Field:     field,
		Expected:  clip(expected, 100),
		Found:     clip(found, 100),
		Location:  location,
		Severity:  severity,
		Timestamp: nowFunc().Format(time.RFC3339),
	})

	l.logger.Warn("evidence.mismatch",
		"field", field, "severity", severity, "location", location)
	l.metrics.Incr("compliance.mismatch",
		fmt.Sprintf("field:%s", field), fmt.Sprintf("severity:%s", severity))
}

// Score computes the weighted compliance score, clamped to [0, 100].
func (l *Ledger) Score() float64 {
	total := 0
	for field, weight := range constants.FieldWeights {
		entries := l.entries[field]
		if len(entries) == 0 {
			continue
		}
		if s := entries[0].Status; s == constants.StatusFound || s == constants.StatusValid {
			total += weight
		}
	}

	for _, m := range l.mismatches {
		switch m.Severity {
		case constants.SeverityHigh:
			total -= constants.PenaltyHigh
		case constants.SeverityMedium:
			total -= constants.PenaltyMedium
		default:
			total -= constants.PenaltyLow
		}
	}

	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return float64(total)
}

// FieldEvidence returns the recorded entries for one field.
func (l *Ledger) FieldEvidence(field string) []Entry {
	return l.entries[field]
}

// CriticalIssues returns the HIGH-severity mismatches.
func (l *Ledger) CriticalIssues() []Mismatch {
	var critical []Mismatch
	for _, m := range l.mismatches {
		if m.Severity == constants.SeverityHigh {
			critical = append(critical, m)
		}
	}
	return critical
}

// Report assembles the full evidence report and emits the score gauges.
func (l *Ledger) Report() Report {
	score := l.Score()
	critical := l.CriticalIssues()

	l.metrics.Gauge("compliance.score", score,
		fmt.Sprintf("critical_issues:%d", len(critical)))
	l.metrics.Gauge("evidence.fields_found", float64(len(l.entries)))
	l.metrics.Gauge("compliance.mismatches", float64(len(l.mismatches)))
	l.metrics.Gauge("compliance.critical_issues", float64(len(critical)))

	return Report{
		Summary: Summary{
			TotalFieldsFound: len(l.entries),
			TotalMismatches:  len(l.mismatches),
			CriticalIssues:   len(critical),
			ComplianceScore:  score,
		},
		EvidenceByField: l.entries,
		Mismatches:      l.mismatches,
		CriticalIssues:  critical,
		ComplianceScore: score,
		Timestamp:       nowFunc().Format(time.RFC3339),
	}
}

func severityOf(field string) constants.Severity {
	switch field {
	case constants.FieldGSTNumber, constants.FieldPANNumber,
		constants.FieldUdyamNumber, constants.FieldCompanyName:
		return constants.SeverityHigh
	case constants.FieldSignature, constants.FieldQuotationDate,
		constants.FieldQuotationPrice, "date", "price":
		return constants.SeverityMedium
	}
	return constants.SeverityLow
}

func clip(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
