package claims

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	apperrors "claimshape/internal/errors"
	"claimshape/pkg/contracts/domain"
)

// Column names expected in the claims CSV header row.
const (
	ColClaimNumber      = "ClaimNumber"
	ColClaimStatus      = "ClaimStatus"
	ColDateOfLoss       = "DateOfLoss"
	ColDateReported     = "DateReported"
	ColCauseOfLoss      = "CauseOfLoss"
	ColLocation         = "Location"
	ColPaidIndemnity    = "PaidIndemnity"
	ColPaidExpense      = "PaidExpense"
	ColReserveIndemnity = "ReserveIndemnity"
	ColReserveExpense   = "ReserveExpense"
)

// requiredColumns are the columns a claims CSV must carry.
var requiredColumns = []string{
	ColClaimNumber, ColClaimStatus, ColDateOfLoss, ColDateReported,
	ColCauseOfLoss, ColLocation, ColPaidIndemnity, ColPaidExpense,
	ColReserveIndemnity, ColReserveExpense,
}

// dateLayouts are the calendar formats accepted for claim dates.
// Anything else coerces to nil rather than failing the row.
var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// LoadCSV reads the claims dataset file and returns normalized records.
// A missing file is reported as a data source error, distinct from any
// other failure, so callers can surface it as a user-facing notice.
func LoadCSV(path string) ([]domain.ClaimRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewDataSourceError(path, err)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open claims file %s", path), err)
	}
	defer f.Close()

	records, err := Parse(f)
	if err != nil {
		return nil, err
	}

	slog.Info("loaded claims dataset",
		slog.String("path", path),
		slog.Int("record_count", len(records)))

	return records, nil
}

// Parse reads claim rows from a CSV stream and normalizes each one.
// Per-row malformed values never fail the parse: unparseable dates become
// nil and non-numeric monetary values become 0. Only a structurally
// unreadable stream or a missing required column is an error.
func Parse(r io.Reader) ([]domain.ClaimRecord, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError("failed to read claims CSV", err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("claims CSV has no header row", nil)
	}

	columnMap, err := mapColumns(rows[0])
	if err != nil {
		return nil, err
	}

	records := make([]domain.ClaimRecord, 0, len(rows)-1)
	for _, row := range rows[1:] {
		if isEmptyRow(row) {
			continue
		}
		records = append(records, normalizeRow(row, columnMap))
	}

	return records, nil
}

// mapColumns maps header names to column positions.
func mapColumns(header []string) (map[string]int, error) {
	columnMap := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if i == 0 {
			// Strip UTF-8 BOM written by spreadsheet exports
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columnMap[name] = i
	}

	for _, col := range requiredColumns {
		if _, ok := columnMap[col]; !ok {
			return nil, apperrors.NewParsingError(fmt.Sprintf("claims CSV is missing required column: %s", col), nil)
		}
	}

	return columnMap, nil
}

// normalizeRow converts one raw CSV row into a ClaimRecord and computes
// the derived fields.
func normalizeRow(row []string, columnMap map[string]int) domain.ClaimRecord {
	getString := func(col string) string {
		if idx, ok := columnMap[col]; ok && idx < len(row) {
			return strings.TrimSpace(row[idx])
		}
		return ""
	}

	record := domain.ClaimRecord{
		ClaimNumber:      getString(ColClaimNumber),
		ClaimStatus:      getString(ColClaimStatus),
		DateOfLoss:       parseDate(getString(ColDateOfLoss)),
		DateReported:     parseDate(getString(ColDateReported)),
		CauseOfLoss:      getString(ColCauseOfLoss),
		Location:         getString(ColLocation),
		PaidIndemnity:    parseMoney(getString(ColPaidIndemnity)),
		PaidExpense:      parseMoney(getString(ColPaidExpense)),
		ReserveIndemnity: parseMoney(getString(ColReserveIndemnity)),
		ReserveExpense:   parseMoney(getString(ColReserveExpense)),
	}

	record.TotalIncurred = record.PaidIndemnity + record.PaidExpense +
		record.ReserveIndemnity + record.ReserveExpense
	record.TotalPaid = record.PaidIndemnity + record.PaidExpense

	if record.DateOfLoss != nil {
		year := record.DateOfLoss.Year()
		record.LossYear = &year
	}

	return record
}

// parseDate parses a calendar date against the accepted layouts.
// Unparseable input coerces to nil.
func parseDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// parseMoney parses a monetary amount, tolerating currency symbols and
// thousands separators. Non-numeric or blank input coerces to 0.
func parseMoney(value string) float64 {
	value = strings.TrimSpace(value)
	value = strings.TrimPrefix(value, "$")
	value = strings.ReplaceAll(value, ",", "")
	if value == "" {
		return 0
	}
	v, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0
	}
	return v
}

// isEmptyRow reports whether every cell of the row is blank.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
