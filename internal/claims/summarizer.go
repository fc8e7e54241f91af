package claims

import (
	"context"
	"log/slog"
	"sort"

	"claimshape/pkg/contracts/domain"
)

// Summarizer computes the aggregate views over a loaded claim set.
// Every method is a pure read of the records passed in; the record set is
// never mutated, so one Summarizer can serve any number of consumers.
type Summarizer struct {
	logger        *slog.Logger
	topGroupCount int
}

// SummarizerConfig holds configuration options for the Summarizer.
type SummarizerConfig struct {
	TopGroupCount int // Number of groups returned by the top-N views
}

// DefaultSummarizerConfig returns a default configuration for typical use cases.
func DefaultSummarizerConfig() SummarizerConfig {
	return SummarizerConfig{TopGroupCount: 5}
}

// NewSummarizer creates a new claims summarizer with the given configuration.
func NewSummarizer(logger *slog.Logger, config SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	if config.TopGroupCount <= 0 {
		config.TopGroupCount = 5
	}

	return &Summarizer{
		logger:        logger,
		topGroupCount: config.TopGroupCount,
	}
}

// KPIs computes the headline figures across all records. The average cost
// per open claim is 0 when there are no open claims.
func (s *Summarizer) KPIs(ctx context.Context, records []domain.ClaimRecord) domain.KPISet {
	var kpis domain.KPISet
	var openIncurred float64

	for _, record := range records {
		kpis.TotalIncurred += record.TotalIncurred
		kpis.TotalPaid += record.TotalPaid
		if record.IsOpen() {
			kpis.OpenClaimCount++
			openIncurred += record.TotalIncurred
		}
	}

	if kpis.OpenClaimCount > 0 {
		kpis.AvgCostPerOpenClaim = openIncurred / float64(kpis.OpenClaimCount)
	}

	s.logger.DebugContext(ctx, "computed claim KPIs",
		slog.Int("record_count", len(records)),
		slog.Int("open_claim_count", kpis.OpenClaimCount))

	return kpis
}

// GroupKeyFunc extracts the grouping value from a claim record.
type GroupKeyFunc func(domain.ClaimRecord) string

// ByCauseOfLoss groups claims by their cause of loss.
func ByCauseOfLoss(record domain.ClaimRecord) string { return record.CauseOfLoss }

// ByLocation groups claims by their location.
func ByLocation(record domain.ClaimRecord) string { return record.Location }

// TopByGroup groups records by the given key, sums total incurred per
// group, and returns at most n groups sorted by sum descending. Groups
// with equal sums keep the order in which their value first appeared in
// the input, so the output is deterministic for identical input.
func (s *Summarizer) TopByGroup(ctx context.Context, records []domain.ClaimRecord, keyFn GroupKeyFunc, n int) []domain.GroupTotal {
	if n <= 0 {
		n = s.topGroupCount
	}

	totals := make(map[string]*domain.GroupTotal)
	order := make([]string, 0)

	for _, record := range records {
		key := keyFn(record)
		group, ok := totals[key]
		if !ok {
			group = &domain.GroupTotal{Value: key}
			totals[key] = group
			order = append(order, key)
		}
		group.TotalIncurred += record.TotalIncurred
		group.ClaimCount++
	}

	firstSeen := make(map[string]int, len(order))
	for i, key := range order {
		firstSeen[key] = i
	}

	groups := make([]domain.GroupTotal, 0, len(order))
	for _, key := range order {
		groups = append(groups, *totals[key])
	}

	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].TotalIncurred != groups[j].TotalIncurred {
			return groups[i].TotalIncurred > groups[j].TotalIncurred
		}
		return firstSeen[groups[i].Value] < firstSeen[groups[j].Value]
	})

	if len(groups) > n {
		groups = groups[:n]
	}

	s.logger.DebugContext(ctx, "computed top groups",
		slog.Int("group_count", len(groups)),
		slog.Int("record_count", len(records)))

	return groups
}

// TopCauses returns the top causes of loss by total incurred.
func (s *Summarizer) TopCauses(ctx context.Context, records []domain.ClaimRecord, n int) []domain.GroupTotal {
	return s.TopByGroup(ctx, records, ByCauseOfLoss, n)
}

// TopLocations returns the top locations by total incurred.
func (s *Summarizer) TopLocations(ctx context.Context, records []domain.ClaimRecord, n int) []domain.GroupTotal {
	return s.TopByGroup(ctx, records, ByLocation, n)
}

// StatusBreakdown counts claims per status, ordered by count descending
// with first-seen order breaking ties.
func (s *Summarizer) StatusBreakdown(ctx context.Context, records []domain.ClaimRecord) []domain.StatusCount {
	counts := make(map[string]int)
	order := make([]string, 0)

	for _, record := range records {
		if _, ok := counts[record.ClaimStatus]; !ok {
			order = append(order, record.ClaimStatus)
		}
		counts[record.ClaimStatus]++
	}

	firstSeen := make(map[string]int, len(order))
	for i, status := range order {
		firstSeen[status] = i
	}

	breakdown := make([]domain.StatusCount, 0, len(order))
	for _, status := range order {
		breakdown = append(breakdown, domain.StatusCount{Status: status, Count: counts[status]})
	}

	sort.SliceStable(breakdown, func(i, j int) bool {
		if breakdown[i].Count != breakdown[j].Count {
			return breakdown[i].Count > breakdown[j].Count
		}
		return firstSeen[breakdown[i].Status] < firstSeen[breakdown[j].Status]
	})

	return breakdown
}

// IncurredByYear sums total incurred per loss year, ordered ascending by
// year. Records with no loss year are excluded.
func (s *Summarizer) IncurredByYear(ctx context.Context, records []domain.ClaimRecord) []domain.YearTotal {
	totals := make(map[int]*domain.YearTotal)

	for _, record := range records {
		if record.LossYear == nil {
			continue
		}
		year := *record.LossYear
		total, ok := totals[year]
		if !ok {
			total = &domain.YearTotal{Year: year}
			totals[year] = total
		}
		total.TotalIncurred += record.TotalIncurred
		total.ClaimCount++
	}

	years := make([]domain.YearTotal, 0, len(totals))
	for _, total := range totals {
		years = append(years, *total)
	}

	sort.Slice(years, func(i, j int) bool {
		return years[i].Year < years[j].Year
	})

	return years
}
