package domain

import (
	"fmt"
	"time"
)

// Claim status values observed in broker data. The set is not closed;
// unknown statuses pass through untouched.
const (
	StatusOpen   = "Open"
	StatusClosed = "Closed"
)

// ClaimRecord represents one normalized insurance claim row.
// Monetary fields are always numeric (blank or malformed input coerces to 0)
// and date fields are nil when the raw value could not be parsed.
type ClaimRecord struct {
	ClaimNumber  string     `json:"claim_number" csv:"ClaimNumber"`
	ClaimStatus  string     `json:"claim_status" csv:"ClaimStatus"`
	DateOfLoss   *time.Time `json:"date_of_loss" csv:"DateOfLoss"`
	DateReported *time.Time `json:"date_reported" csv:"DateReported"`
	CauseOfLoss  string     `json:"cause_of_loss" csv:"CauseOfLoss"`
	Location     string     `json:"location" csv:"Location"`

	PaidIndemnity    float64 `json:"paid_indemnity" csv:"PaidIndemnity"`
	PaidExpense      float64 `json:"paid_expense" csv:"PaidExpense"`
	ReserveIndemnity float64 `json:"reserve_indemnity" csv:"ReserveIndemnity"`
	ReserveExpense   float64 `json:"reserve_expense" csv:"ReserveExpense"`

	// Derived at load time, invariant for the session.
	TotalIncurred float64 `json:"total_incurred" csv:"TotalIncurred"`
	TotalPaid     float64 `json:"total_paid" csv:"TotalPaid"`
	LossYear      *int    `json:"loss_year" csv:"LossYear"`
}

// IsOpen reports whether the claim is still open.
func (c ClaimRecord) IsOpen() bool {
	return c.ClaimStatus == StatusOpen
}

// KPISet holds the headline figures for the loaded claim set.
type KPISet struct {
	TotalIncurred       float64 `json:"total_incurred"`
	TotalPaid           float64 `json:"total_paid"`
	OpenClaimCount      int     `json:"open_claim_count"`
	AvgCostPerOpenClaim float64 `json:"avg_cost_per_open_claim"`
}

// GroupTotal is one entry of a top-N grouping: a category value and the
// total incurred amount summed across its claims.
type GroupTotal struct {
	Value         string  `json:"value"`
	TotalIncurred float64 `json:"total_incurred"`
	ClaimCount    int     `json:"claim_count"`
}

// StatusCount is the number of claims in one status.
type StatusCount struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
}

// YearTotal is the incurred amount summed over one loss year.
type YearTotal struct {
	Year          int     `json:"year"`
	TotalIncurred float64 `json:"total_incurred"`
	ClaimCount    int     `json:"claim_count"`
}

// DateDisplayFormat is the format used when rendering claim dates.
const DateDisplayFormat = "2006-01-02"

// FormatDate renders a claim date for display, empty when nil.
func FormatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(DateDisplayFormat)
}

// FormatMoney renders a monetary amount as whole dollars with thousands
// separators, matching the report display convention.
func FormatMoney(v float64) string {
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v + 0.5)
	s := fmt.Sprintf("%d", whole)
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-$" + s
	}
	return "$" + s
}
