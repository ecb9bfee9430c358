// Package report renders an audit trail as an XLSX workbook: one sheet
// listing every change record in sequence order, one summarizing
// mutations and diagnostics per section.
package report

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/calebwren/redline/internal/audit"
)

const (
	changesSheet = "Changes"
	summarySheet = "Summary"
)

// Service produces workbook bytes from audit records.
type Service struct {
	logger *slog.Logger
}

func NewService(logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{logger: logger}
}

// ExportXLSX renders the trail's records and per-section summaries as an
// XLSX workbook.
func (s *Service) ExportXLSX(trail *audit.Trail) ([]byte, error) {
	start := time.Now()

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", changesSheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return nil, fmt.Errorf("create summary sheet: %w", err)
	}
	activeIndex, _ := f.GetSheetIndex(changesSheet)
	f.SetActiveSheet(activeIndex)

	if err := writeChanges(f, trail.Records()); err != nil {
		return nil, err
	}
	if err := writeSummary(f, trail.Summaries()); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}

	s.logger.Info("report.xlsx.ok",
		"run_id", trail.RunID(),
		"records", trail.Len(),
		"elapsed_ms", time.Since(start).Milliseconds(),
	)
	return buf.Bytes(), nil
}

// ExportXLSXFile writes the workbook to path.
func (s *Service) ExportXLSXFile(trail *audit.Trail, path string) error {
	data, err := s.ExportXLSX(trail)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func writeChanges(f *excelize.File, records []audit.ChangeRecord) error {
	headers := []string{
		"Sequence",
		"Section",
		"Operation",
		"Location",
		"Before",
		"After",
		"Reason",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(changesSheet, cell, h); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	row := 2
	for _, rec := range records {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(changesSheet, cell, v)
		}
		write(1, rec.Sequence)
		write(2, rec.Section)
		write(3, rec.Operation)
		write(4, rec.Location)
		write(5, rec.Before)
		write(6, rec.After)
		write(7, rec.Reason)
		row++
	}

	_ = f.SetColWidth(changesSheet, "A", "A", 10)
	_ = f.SetColWidth(changesSheet, "B", "B", 16)
	_ = f.SetColWidth(changesSheet, "C", "D", 22)
	_ = f.SetColWidth(changesSheet, "E", "F", 48)
	_ = f.SetColWidth(changesSheet, "G", "G", 40)

	return nil
}

func writeSummary(f *excelize.File, summaries []audit.SectionSummary) error {
	headers := []string{"Section", "Mutations", "Diagnostics"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(summarySheet, cell, h); err != nil {
			return fmt.Errorf("write summary header: %w", err)
		}
	}

	row := 2
	for _, sum := range summaries {
		write := func(col int, v any) {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			_ = f.SetCellValue(summarySheet, cell, v)
		}
		write(1, sum.Section)
		write(2, sum.Mutations)
		write(3, sum.Diagnostics)
		row++
	}

	_ = f.SetColWidth(summarySheet, "A", "A", 16)
	_ = f.SetColWidth(summarySheet, "B", "C", 14)

	return nil
}
