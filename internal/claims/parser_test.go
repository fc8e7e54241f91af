package claims

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "claimshape/internal/errors"
)

const testHeader = "ClaimNumber,ClaimStatus,DateOfLoss,DateReported,CauseOfLoss,Location,PaidIndemnity,PaidExpense,ReserveIndemnity,ReserveExpense"

func TestParse_NormalizesRows(t *testing.T) {
	csvData := testHeader + "\n" +
		"CLM-001,Open,2023-05-10,2023-05-12,Fire,Texas,1000,200,0,0\n" +
		"CLM-002,Closed,2022-11-03,2022-11-05,Water,Ohio,500,0,300,0\n"

	records, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 2)

	a := records[0]
	assert.Equal(t, "CLM-001", a.ClaimNumber)
	assert.Equal(t, "Open", a.ClaimStatus)
	assert.Equal(t, "Fire", a.CauseOfLoss)
	assert.Equal(t, "Texas", a.Location)
	assert.Equal(t, 1200.0, a.TotalIncurred)
	assert.Equal(t, 1200.0, a.TotalPaid)
	require.NotNil(t, a.DateOfLoss)
	assert.Equal(t, time.Date(2023, 5, 10, 0, 0, 0, 0, time.UTC), *a.DateOfLoss)
	require.NotNil(t, a.LossYear)
	assert.Equal(t, 2023, *a.LossYear)

	b := records[1]
	assert.Equal(t, 800.0, b.TotalIncurred)
	assert.Equal(t, 500.0, b.TotalPaid)
	require.NotNil(t, b.LossYear)
	assert.Equal(t, 2022, *b.LossYear)
}

func TestParse_MoneyCoercion(t *testing.T) {
	tests := []struct {
		name          string
		paidIndemnity string
		want          float64
	}{
		{name: "plain number", paidIndemnity: "1500", want: 1500},
		{name: "decimal", paidIndemnity: "1500.75", want: 1500.75},
		{name: "dollar sign and commas", paidIndemnity: "\"$1,500\"", want: 1500},
		{name: "non-numeric coerces to zero", paidIndemnity: "N/A", want: 0},
		{name: "blank coerces to zero", paidIndemnity: "", want: 0},
		{name: "garbage coerces to zero", paidIndemnity: "abc123", want: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csvData := testHeader + "\n" +
				"CLM-001,Open,2023-05-10,2023-05-12,Fire,Texas," + tt.paidIndemnity + ",0,0,0\n"

			records, err := Parse(strings.NewReader(csvData))
			require.NoError(t, err)
			require.Len(t, records, 1)

			assert.Equal(t, tt.want, records[0].PaidIndemnity)
			assert.Equal(t, tt.want, records[0].TotalIncurred)
			assert.Equal(t, tt.want, records[0].TotalPaid)
			assert.False(t, records[0].TotalIncurred < 0)
		})
	}
}

func TestParse_DateCoercion(t *testing.T) {
	tests := []struct {
		name     string
		date     string
		wantNil  bool
		wantYear int
	}{
		{name: "iso date", date: "2021-07-15", wantYear: 2021},
		{name: "slash date", date: "2021/07/15", wantYear: 2021},
		{name: "us date", date: "07/15/2021", wantYear: 2021},
		{name: "datetime", date: "2021-07-15 08:30:00", wantYear: 2021},
		{name: "unparseable", date: "not-a-date", wantNil: true},
		{name: "blank", date: "", wantNil: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			csvData := testHeader + "\n" +
				"CLM-001,Open," + tt.date + ",2021-07-16,Fire,Texas,100,0,0,0\n"

			records, err := Parse(strings.NewReader(csvData))
			require.NoError(t, err)
			require.Len(t, records, 1)

			if tt.wantNil {
				assert.Nil(t, records[0].DateOfLoss)
				assert.Nil(t, records[0].LossYear)
			} else {
				require.NotNil(t, records[0].LossYear)
				assert.Equal(t, tt.wantYear, *records[0].LossYear)
			}
		})
	}
}

func TestParse_Idempotent(t *testing.T) {
	csvData := testHeader + "\n" +
		"CLM-001,Open,2023-05-10,bad-date,Fire,Texas,1000,N/A,50,0\n" +
		"CLM-002,Closed,,2022-11-05,Water,Ohio,500,0,300,\n"

	first, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)

	second, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestParse_SkipsEmptyRows(t *testing.T) {
	csvData := testHeader + "\n" +
		"CLM-001,Open,2023-05-10,2023-05-12,Fire,Texas,100,0,0,0\n" +
		",,,,,,,,,\n"

	records, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestParse_MissingColumn(t *testing.T) {
	csvData := "ClaimNumber,ClaimStatus\nCLM-001,Open\n"

	_, err := Parse(strings.NewReader(csvData))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestParse_BOMHeader(t *testing.T) {
	csvData := "\ufeff" + testHeader + "\n" +
		"CLM-001,Open,2023-05-10,2023-05-12,Fire,Texas,100,0,0,0\n"

	records, err := Parse(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "CLM-001", records[0].ClaimNumber)
}

func TestLoadCSV_MissingFile(t *testing.T) {
	_, err := LoadCSV(filepath.Join(t.TempDir(), "does-not-exist.csv"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeDataSource, appErr.Type)
}

func TestLoadCSV_ReadsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "claims.csv")
	csvData := testHeader + "\n" +
		"CLM-001,Open,2023-05-10,2023-05-12,Fire,Texas,1000,200,0,0\n"
	require.NoError(t, os.WriteFile(path, []byte(csvData), 0644))

	records, err := LoadCSV(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 1200.0, records[0].TotalIncurred)
}
