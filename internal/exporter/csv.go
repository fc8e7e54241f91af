package exporter

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"

	"claimshape/pkg/contracts/domain"
)

// claimsHeader is the column order of exported claim CSVs. Derived columns
// sit next to the identity columns for readability, matching the report
// table layout.
var claimsHeader = []string{
	"ClaimNumber", "ClaimStatus", "DateOfLoss", "DateReported",
	"CauseOfLoss", "Location", "LossYear",
	"TotalIncurred", "TotalPaid",
	"PaidIndemnity", "PaidExpense", "ReserveIndemnity", "ReserveExpense",
}

// CSVWriter provides CSV export functionality for claim reports.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// WriteClaimsTo writes the normalized claim records as CSV.
func (w *CSVWriter) WriteClaimsTo(out io.Writer, records []domain.ClaimRecord) error {
	writer := csv.NewWriter(out)

	if err := writer.Write(claimsHeader); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for i, record := range records {
		row := []string{
			record.ClaimNumber,
			record.ClaimStatus,
			domain.FormatDate(record.DateOfLoss),
			domain.FormatDate(record.DateReported),
			record.CauseOfLoss,
			record.Location,
			formatYear(record.LossYear),
			formatAmount(record.TotalIncurred),
			formatAmount(record.TotalPaid),
			formatAmount(record.PaidIndemnity),
			formatAmount(record.PaidExpense),
			formatAmount(record.ReserveIndemnity),
			formatAmount(record.ReserveExpense),
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV record %d: %w", i, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteClaims writes the claim records to a CSV file with a UTF-8 BOM so
// Excel opens it correctly.
func (w *CSVWriter) WriteClaims(path string, records []domain.ClaimRecord) error {
	w.logger.Info("writing claims CSV",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	file, err := w.createWithBOM(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return w.WriteClaimsTo(file, records)
}

// WriteGroupTotals writes a top-N grouping view to a CSV file.
func (w *CSVWriter) WriteGroupTotals(path, valueHeader string, groups []domain.GroupTotal) error {
	file, err := w.createWithBOM(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{valueHeader, "TotalIncurred", "ClaimCount"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, group := range groups {
		row := []string{group.Value, formatAmount(group.TotalIncurred), strconv.Itoa(group.ClaimCount)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}

// WriteYearTotals writes the incurred-by-year view to a CSV file.
func (w *CSVWriter) WriteYearTotals(path string, years []domain.YearTotal) error {
	file, err := w.createWithBOM(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write([]string{"LossYear", "TotalIncurred", "ClaimCount"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for _, year := range years {
		row := []string{strconv.Itoa(year.Year), formatAmount(year.TotalIncurred), strconv.Itoa(year.ClaimCount)}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}

	return writer.Error()
}

// createWithBOM creates the file, its parent directory, and writes the
// UTF-8 BOM Excel expects.
func (w *CSVWriter) createWithBOM(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create file: %w", err)
	}

	if _, err := file.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to write BOM: %w", err)
	}

	return file, nil
}

func formatAmount(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func formatYear(year *int) string {
	if year == nil {
		return ""
	}
	return strconv.Itoa(*year)
}
