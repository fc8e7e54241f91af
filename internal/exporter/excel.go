package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"claimshape/pkg/contracts/domain"
)

// Sheet names of the exported claims workbook.
const (
	sheetKPIs      = "KPIs"
	sheetCauses    = "Top Causes"
	sheetLocations = "Top Locations"
	sheetStatus    = "Status"
	sheetByYear    = "By Year"
	sheetClaims    = "Claims"
)

// ExcelWriter builds the claims report workbook.
type ExcelWriter struct {
	logger *slog.Logger
}

// NewExcelWriter creates a new Excel writer instance.
func NewExcelWriter(logger *slog.Logger) *ExcelWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &ExcelWriter{logger: logger}
}

// WriteReport writes the full claims report workbook to a file.
func (w *ExcelWriter) WriteReport(path string, report *Report) error {
	w.logger.Info("writing claims Excel report",
		slog.String("path", path),
		slog.Int("record_count", len(report.Records)))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := w.buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save Excel report: %w", err)
	}
	return nil
}

// WriteReportTo streams the workbook, for HTTP downloads.
func (w *ExcelWriter) WriteReportTo(out io.Writer, report *Report) error {
	f, err := w.buildWorkbook(report)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write Excel report: %w", err)
	}
	return nil
}

// buildWorkbook assembles one sheet per aggregate view plus the full
// claims table.
func (w *ExcelWriter) buildWorkbook(report *Report) (*excelize.File, error) {
	f := excelize.NewFile()

	moneyFmt := "$#,##0.00"
	moneyStyle, err := f.NewStyle(&excelize.Style{CustomNumFmt: &moneyFmt})
	if err != nil {
		return nil, fmt.Errorf("failed to create money style: %w", err)
	}

	if err := w.writeKPISheet(f, report, moneyStyle); err != nil {
		return nil, err
	}
	if err := w.writeGroupSheet(f, sheetCauses, "Cause of Loss", report.TopCauses, moneyStyle); err != nil {
		return nil, err
	}
	if err := w.writeGroupSheet(f, sheetLocations, "Location", report.TopLocations, moneyStyle); err != nil {
		return nil, err
	}
	if err := w.writeStatusSheet(f, report); err != nil {
		return nil, err
	}
	if err := w.writeYearSheet(f, report, moneyStyle); err != nil {
		return nil, err
	}
	if err := w.writeClaimsSheet(f, report); err != nil {
		return nil, err
	}

	// Drop the default sheet and land on the KPI overview
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return nil, fmt.Errorf("failed to remove default sheet: %w", err)
	}
	index, err := f.GetSheetIndex(sheetKPIs)
	if err != nil {
		return nil, fmt.Errorf("failed to find KPI sheet: %w", err)
	}
	f.SetActiveSheet(index)

	return f, nil
}

func (w *ExcelWriter) writeKPISheet(f *excelize.File, report *Report, moneyStyle int) error {
	if _, err := f.NewSheet(sheetKPIs); err != nil {
		return fmt.Errorf("failed to create KPI sheet: %w", err)
	}

	rows := [][]interface{}{
		{"Metric", "Value"},
		{"Total Incurred", report.KPIs.TotalIncurred},
		{"Total Paid", report.KPIs.TotalPaid},
		{"Total Open Claims", report.KPIs.OpenClaimCount},
		{"Avg Cost per Open Claim", report.KPIs.AvgCostPerOpenClaim},
		{"Claim Count", len(report.Records)},
		{"Generated At", report.GeneratedAt.Format("2006-01-02 15:04:05")},
	}
	if err := writeRows(f, sheetKPIs, rows); err != nil {
		return err
	}

	if err := f.SetCellStyle(sheetKPIs, "B2", "B3", moneyStyle); err != nil {
		return fmt.Errorf("failed to style KPI sheet: %w", err)
	}
	if err := f.SetCellStyle(sheetKPIs, "B5", "B5", moneyStyle); err != nil {
		return fmt.Errorf("failed to style KPI sheet: %w", err)
	}
	return f.SetColWidth(sheetKPIs, "A", "A", 26)
}

func (w *ExcelWriter) writeGroupSheet(f *excelize.File, sheet, valueHeader string, groups []domain.GroupTotal, moneyStyle int) error {
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}

	rows := [][]interface{}{{valueHeader, "Total Incurred", "Claim Count"}}
	for _, group := range groups {
		rows = append(rows, []interface{}{group.Value, group.TotalIncurred, group.ClaimCount})
	}
	if err := writeRows(f, sheet, rows); err != nil {
		return err
	}

	if len(groups) > 0 {
		last, _ := excelize.CoordinatesToCellName(2, len(groups)+1)
		if err := f.SetCellStyle(sheet, "B2", last, moneyStyle); err != nil {
			return fmt.Errorf("failed to style sheet %s: %w", sheet, err)
		}
	}
	return f.SetColWidth(sheet, "A", "A", 24)
}

func (w *ExcelWriter) writeStatusSheet(f *excelize.File, report *Report) error {
	if _, err := f.NewSheet(sheetStatus); err != nil {
		return fmt.Errorf("failed to create status sheet: %w", err)
	}

	rows := [][]interface{}{{"Claim Status", "Count"}}
	for _, status := range report.StatusCounts {
		rows = append(rows, []interface{}{status.Status, status.Count})
	}
	return writeRows(f, sheetStatus, rows)
}

func (w *ExcelWriter) writeYearSheet(f *excelize.File, report *Report, moneyStyle int) error {
	if _, err := f.NewSheet(sheetByYear); err != nil {
		return fmt.Errorf("failed to create year sheet: %w", err)
	}

	rows := [][]interface{}{{"Loss Year", "Total Incurred", "Claim Count"}}
	for _, year := range report.IncurredByYear {
		rows = append(rows, []interface{}{year.Year, year.TotalIncurred, year.ClaimCount})
	}
	if err := writeRows(f, sheetByYear, rows); err != nil {
		return err
	}

	if len(report.IncurredByYear) > 0 {
		last, _ := excelize.CoordinatesToCellName(2, len(report.IncurredByYear)+1)
		if err := f.SetCellStyle(sheetByYear, "B2", last, moneyStyle); err != nil {
			return fmt.Errorf("failed to style year sheet: %w", err)
		}
	}
	return nil
}

func (w *ExcelWriter) writeClaimsSheet(f *excelize.File, report *Report) error {
	if _, err := f.NewSheet(sheetClaims); err != nil {
		return fmt.Errorf("failed to create claims sheet: %w", err)
	}

	header := make([]interface{}, len(claimsHeader))
	for i, name := range claimsHeader {
		header[i] = name
	}
	rows := [][]interface{}{header}

	for _, record := range report.Records {
		rows = append(rows, []interface{}{
			record.ClaimNumber,
			record.ClaimStatus,
			domain.FormatDate(record.DateOfLoss),
			domain.FormatDate(record.DateReported),
			record.CauseOfLoss,
			record.Location,
			formatYear(record.LossYear),
			record.TotalIncurred,
			record.TotalPaid,
			record.PaidIndemnity,
			record.PaidExpense,
			record.ReserveIndemnity,
			record.ReserveExpense,
		})
	}

	return writeRows(f, sheetClaims, rows)
}

// writeRows writes values row by row starting at A1.
func writeRows(f *excelize.File, sheet string, rows [][]interface{}) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d of sheet %s: %w", i+1, sheet, err)
		}
	}
	return nil
}
