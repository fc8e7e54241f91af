package exporter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"claimshape/pkg/contracts/domain"
)

func testReport() *Report {
	loss := time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC)
	reported := time.Date(2023, 5, 12, 0, 0, 0, 0, time.UTC)
	year := 2023

	return &Report{
		SnapshotID:  "test-snapshot",
		GeneratedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC),
		Records: []domain.ClaimRecord{
			{
				ClaimNumber:   "CLM-001",
				ClaimStatus:   "Open",
				DateOfLoss:    &loss,
				DateReported:  &reported,
				CauseOfLoss:   "Fire",
				Location:      "Texas",
				PaidIndemnity: 1000,
				PaidExpense:   200,
				TotalIncurred: 1200,
				TotalPaid:     1200,
				LossYear:      &year,
			},
			{
				ClaimNumber:   "CLM-002",
				ClaimStatus:   "Closed",
				CauseOfLoss:   "Water",
				Location:      "Ohio",
				TotalIncurred: 800,
				TotalPaid:     500,
			},
		},
		KPIs: domain.KPISet{
			TotalIncurred:       2000,
			TotalPaid:           1700,
			OpenClaimCount:      1,
			AvgCostPerOpenClaim: 1200,
		},
		TopCauses: []domain.GroupTotal{
			{Value: "Fire", TotalIncurred: 1200, ClaimCount: 1},
			{Value: "Water", TotalIncurred: 800, ClaimCount: 1},
		},
		TopLocations: []domain.GroupTotal{
			{Value: "Texas", TotalIncurred: 1200, ClaimCount: 1},
		},
		StatusCounts: []domain.StatusCount{
			{Status: "Open", Count: 1},
			{Status: "Closed", Count: 1},
		},
		IncurredByYear: []domain.YearTotal{
			{Year: 2023, TotalIncurred: 1200, ClaimCount: 1},
		},
	}
}

func TestCSVWriter_WriteClaims(t *testing.T) {
	report := testReport()
	path := filepath.Join(t.TempDir(), "claims.csv")

	writer := NewCSVWriter(slog.Default())
	require.NoError(t, writer.WriteClaims(path, report.Records))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	// UTF-8 BOM for Excel
	assert.True(t, bytes.HasPrefix(data, []byte{0xEF, 0xBB, 0xBF}))

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, claimsHeader, rows[0])
	assert.Equal(t, "CLM-001", rows[1][0])
	assert.Equal(t, "2023-05-10", rows[1][2])
	assert.Equal(t, "2023", rows[1][6])
	assert.Equal(t, "1200.00", rows[1][7])

	// Missing dates and year export as blanks
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "", rows[2][6])
}

func TestCSVWriter_WriteGroupTotals(t *testing.T) {
	report := testReport()
	path := filepath.Join(t.TempDir(), "causes.csv")

	writer := NewCSVWriter(slog.Default())
	require.NoError(t, writer.WriteGroupTotals(path, "CauseOfLoss", report.TopCauses))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"CauseOfLoss", "TotalIncurred", "ClaimCount"}, rows[0])
	assert.Equal(t, []string{"Fire", "1200.00", "1"}, rows[1])
}

func TestCSVWriter_WriteYearTotals(t *testing.T) {
	report := testReport()
	path := filepath.Join(t.TempDir(), "years.csv")

	writer := NewCSVWriter(slog.Default())
	require.NoError(t, writer.WriteYearTotals(path, report.IncurredByYear))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	reader := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, []byte{0xEF, 0xBB, 0xBF})))
	rows, err := reader.ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"2023", "1200.00", "1"}, rows[1])
}

func TestExcelWriter_WriteReport(t *testing.T) {
	report := testReport()
	path := filepath.Join(t.TempDir(), "report.xlsx")

	writer := NewExcelWriter(slog.Default())
	require.NoError(t, writer.WriteReport(path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	sheets := f.GetSheetList()
	assert.Contains(t, sheets, sheetKPIs)
	assert.Contains(t, sheets, sheetCauses)
	assert.Contains(t, sheets, sheetLocations)
	assert.Contains(t, sheets, sheetStatus)
	assert.Contains(t, sheets, sheetByYear)
	assert.Contains(t, sheets, sheetClaims)
	assert.NotContains(t, sheets, "Sheet1")

	metric, err := f.GetCellValue(sheetKPIs, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Total Incurred", metric)

	cause, err := f.GetCellValue(sheetCauses, "A2")
	require.NoError(t, err)
	assert.Equal(t, "Fire", cause)

	claim, err := f.GetCellValue(sheetClaims, "A2")
	require.NoError(t, err)
	assert.Equal(t, "CLM-001", claim)
}

func TestExcelWriter_WriteReportTo(t *testing.T) {
	report := testReport()

	var buf bytes.Buffer
	writer := NewExcelWriter(slog.Default())
	require.NoError(t, writer.WriteReportTo(&buf, report))
	assert.NotZero(t, buf.Len())

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	value, err := f.GetCellValue(sheetKPIs, "B6")
	require.NoError(t, err)
	assert.Equal(t, "2", value)
}

func TestWriteJSON(t *testing.T) {
	report := testReport()
	path := filepath.Join(t.TempDir(), "report.json")

	require.NoError(t, WriteJSON(path, report))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var payload map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &payload))

	assert.Equal(t, "claim_report_v1", payload["format"])
	assert.Equal(t, float64(2), payload["claim_count"])
	require.Contains(t, payload, "report")
}
