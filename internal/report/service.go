// Package report renders a completed analysis into an XLSX compliance
// report: title, decision, summary, reasons, a tabular checklist, and
// recommendations.
package report

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/constants"
	"github.com/k-a-v-i-n-0-0-2/google-govdocgenie/internal/pipeline"
)

// Service produces XLSX bytes for a compliance report.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// decisionFill maps labels to a severity color.
var decisionFill = map[constants.DecisionLabel]string{
	constants.DecisionApprove:  "C6EFCE",
	constants.DecisionNeedMore: "FFEB9C",
	constants.DecisionReject:   "FFC7CE",
}

// RenderXLSX returns a compliance report workbook for one analysis response.
func (s *Service) RenderXLSX(resp pipeline.Response) ([]byte, error) {
	if resp.Analysis == nil {
		return nil, fmt.Errorf("response carries no analysis")
	}
	start := time.Now()

	f := excelize.NewFile()
	const sheet = "Compliance Report"
	if index, _ := f.GetSheetIndex(sheet); index == -1 {
		if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(sheet)
	f.SetActiveSheet(activeIndex)
	_ = f.DeleteSheet("Sheet1")

	write := func(col, row int, v any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, v)
	}

	row := 1
	write(1, row, "GovDoc Genie Compliance Report")
	row++
	write(1, row, "Generated")
	write(2, row, time.Now().UTC().Format("2006-01-02 15:04 UTC"))
	row += 2

	write(1, row, "Decision")
	write(2, row, string(resp.Analysis.Decision))
	if fill, ok := decisionFill[resp.Analysis.Decision]; ok {
		if styleID, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{fill}},
		}); err == nil {
			cell, _ := excelize.CoordinatesToCellName(2, row)
			_ = f.SetCellStyle(sheet, cell, cell, styleID)
		}
	}
	row++
	write(1, row, "Confidence")
	write(2, row, resp.Analysis.Confidence)
	row++
	write(1, row, "Compliance Score")
	write(2, row, resp.ComplianceScore)
	row++
	write(1, row, "Summary")
	write(2, row, resp.Analysis.Summary)
	row += 2

	write(1, row, "Reasons")
	row++
	for _, reason := range resp.Analysis.Reasons {
		write(2, row, reason)
		row++
	}
	row++

	write(1, row, "Compliance Checklist")
	row++
	for i, h := range []string{"Field", "Extracted Value", "Status", "Detail"} {
		write(i+1, row, h)
	}
	row++
	for _, field := range constants.RequiredFields {
		value := ""
		if v, ok := resp.ExtractedData[field]; ok {
			value = fmt.Sprintf("%v", v)
		}
		status, detail := checklistStatus(field, resp)
		write(1, row, field)
		write(2, row, value)
		write(3, row, status)
		write(4, row, detail)
		row++
	}
	row++

	if len(resp.Recommendations) > 0 {
		write(1, row, "Recommendations")
		row++
		for _, rec := range resp.Recommendations {
			write(2, row, rec)
			row++
		}
	}

	_ = f.SetColWidth(sheet, "A", "A", 24)
	_ = f.SetColWidth(sheet, "B", "B", 36)
	_ = f.SetColWidth(sheet, "C", "C", 12)
	_ = f.SetColWidth(sheet, "D", "D", 64)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("report.xlsx.ok",
		"decision", resp.Analysis.Decision,
		"rows", row,
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// checklistStatus folds the detailed errors back into a per-field PASS/FAIL
// cell with the first matching error message as detail.
func checklistStatus(field string, resp pipeline.Response) (string, string) {
	for _, e := range resp.DetailedErrors {
		if e.Field == field {
			return "FAIL", e.Error
		}
	}
	if _, ok := resp.ExtractedData[field]; !ok && field != constants.FieldSignature {
		return "MISSING", "Not found in documents"
	}
	return "PASS", ""
}
