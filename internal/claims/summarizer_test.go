package claims

import (
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"claimshape/pkg/contracts/domain"
)

func intPtr(v int) *int { return &v }

func testRecord(status, cause, location string, year *int, incurred float64) domain.ClaimRecord {
	return domain.ClaimRecord{
		ClaimStatus:   status,
		CauseOfLoss:   cause,
		Location:      location,
		LossYear:      year,
		TotalIncurred: incurred,
	}
}

func TestSummarizer_KPIs(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(slog.Default(), DefaultSummarizerConfig())

	tests := []struct {
		name    string
		records []domain.ClaimRecord
		want    domain.KPISet
	}{
		{
			name:    "empty records",
			records: nil,
			want:    domain.KPISet{},
		},
		{
			name: "no open claims yields zero average",
			records: []domain.ClaimRecord{
				{ClaimStatus: "Closed", TotalIncurred: 900, TotalPaid: 400},
			},
			want: domain.KPISet{TotalIncurred: 900, TotalPaid: 400},
		},
		{
			name: "mixed open and closed",
			records: []domain.ClaimRecord{
				{ClaimStatus: "Open", PaidIndemnity: 1000, PaidExpense: 200, TotalIncurred: 1200, TotalPaid: 1200},
				{ClaimStatus: "Closed", PaidIndemnity: 500, ReserveIndemnity: 300, TotalIncurred: 800, TotalPaid: 500},
			},
			want: domain.KPISet{
				TotalIncurred:       2000,
				TotalPaid:           1700,
				OpenClaimCount:      1,
				AvgCostPerOpenClaim: 1200,
			},
		},
		{
			name: "average over multiple open claims",
			records: []domain.ClaimRecord{
				{ClaimStatus: "Open", TotalIncurred: 100},
				{ClaimStatus: "Open", TotalIncurred: 300},
				{ClaimStatus: "Closed", TotalIncurred: 1000},
			},
			want: domain.KPISet{
				TotalIncurred:       1400,
				OpenClaimCount:      2,
				AvgCostPerOpenClaim: 200,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := summarizer.KPIs(ctx, tt.records)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSummarizer_TopByGroup(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(slog.Default(), DefaultSummarizerConfig())

	records := []domain.ClaimRecord{
		testRecord("Open", "Fire", "Texas", nil, 500),
		testRecord("Open", "Water", "Ohio", nil, 300),
		testRecord("Closed", "Fire", "Texas", nil, 700),
		testRecord("Closed", "Wind", "Iowa", nil, 300),
		testRecord("Closed", "Theft", "Utah", nil, 100),
	}

	got := summarizer.TopByGroup(ctx, records, ByCauseOfLoss, 3)
	require.Len(t, got, 3)

	assert.Equal(t, "Fire", got[0].Value)
	assert.Equal(t, 1200.0, got[0].TotalIncurred)
	assert.Equal(t, 2, got[0].ClaimCount)

	// Water and Wind tie at 300; Water appeared first in the input.
	assert.Equal(t, "Water", got[1].Value)
	assert.Equal(t, "Wind", got[2].Value)

	// Sorted descending by summed incurred.
	for i := 1; i < len(got); i++ {
		assert.GreaterOrEqual(t, got[i-1].TotalIncurred, got[i].TotalIncurred)
	}
}

func TestSummarizer_TopByGroup_NeverExceedsN(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(slog.Default(), DefaultSummarizerConfig())

	records := []domain.ClaimRecord{
		testRecord("Open", "Fire", "", nil, 1),
		testRecord("Open", "Water", "", nil, 2),
	}

	got := summarizer.TopByGroup(ctx, records, ByCauseOfLoss, 10)
	assert.Len(t, got, 2)

	got = summarizer.TopByGroup(ctx, records, ByCauseOfLoss, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "Water", got[0].Value)
}

func TestSummarizer_TopByGroup_DefaultCount(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(slog.Default(), SummarizerConfig{TopGroupCount: 2})

	records := []domain.ClaimRecord{
		testRecord("Open", "Fire", "", nil, 3),
		testRecord("Open", "Water", "", nil, 2),
		testRecord("Open", "Wind", "", nil, 1),
	}

	// n <= 0 falls back to the configured count.
	got := summarizer.TopByGroup(ctx, records, ByCauseOfLoss, 0)
	assert.Len(t, got, 2)
}

func TestSummarizer_TopLocations(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(slog.Default(), DefaultSummarizerConfig())

	records := []domain.ClaimRecord{
		testRecord("Open", "Fire", "Texas", nil, 100),
		testRecord("Open", "Fire", "Ohio", nil, 400),
	}

	got := summarizer.TopLocations(ctx, records, 5)
	require.Len(t, got, 2)
	assert.Equal(t, "Ohio", got[0].Value)
	assert.Equal(t, "Texas", got[1].Value)
}

func TestSummarizer_StatusBreakdown(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(slog.Default(), DefaultSummarizerConfig())

	records := []domain.ClaimRecord{
		{ClaimStatus: "Open"},
		{ClaimStatus: "Closed"},
		{ClaimStatus: "Closed"},
		{ClaimStatus: "Reopened"},
	}

	got := summarizer.StatusBreakdown(ctx, records)
	require.Len(t, got, 3)
	assert.Equal(t, domain.StatusCount{Status: "Closed", Count: 2}, got[0])
	// Open and Reopened tie at 1; Open appeared first.
	assert.Equal(t, domain.StatusCount{Status: "Open", Count: 1}, got[1])
	assert.Equal(t, domain.StatusCount{Status: "Reopened", Count: 1}, got[2])
}

func TestSummarizer_IncurredByYear(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(slog.Default(), DefaultSummarizerConfig())

	records := []domain.ClaimRecord{
		testRecord("Open", "Fire", "", intPtr(2023), 100),
		testRecord("Open", "Water", "", intPtr(2021), 200),
		testRecord("Closed", "Wind", "", intPtr(2023), 50),
		testRecord("Closed", "Hail", "", nil, 999), // no loss year, excluded
	}

	got := summarizer.IncurredByYear(ctx, records)
	require.Len(t, got, 2)
	assert.Equal(t, domain.YearTotal{Year: 2021, TotalIncurred: 200, ClaimCount: 1}, got[0])
	assert.Equal(t, domain.YearTotal{Year: 2023, TotalIncurred: 150, ClaimCount: 2}, got[1])
}

func TestSummarizer_IncurredByYear_Empty(t *testing.T) {
	ctx := context.Background()
	summarizer := NewSummarizer(slog.Default(), DefaultSummarizerConfig())

	got := summarizer.IncurredByYear(ctx, nil)
	assert.Empty(t, got)
}
