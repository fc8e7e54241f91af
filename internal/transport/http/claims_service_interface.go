package http

import (
	"context"

	"claimshape/internal/services"
	"claimshape/pkg/contracts/domain"
)

// ClaimsServiceInterface defines what the claims handler needs from the
// service layer. Satisfied by *services.ClaimsService.
type ClaimsServiceInterface interface {
	Snapshot(ctx context.Context) (*services.Snapshot, error)
	Records(ctx context.Context) ([]domain.ClaimRecord, error)
	KPIs(ctx context.Context) (domain.KPISet, error)
	TopCauses(ctx context.Context, n int) ([]domain.GroupTotal, error)
	TopLocations(ctx context.Context, n int) ([]domain.GroupTotal, error)
	StatusBreakdown(ctx context.Context) ([]domain.StatusCount, error)
	IncurredByYear(ctx context.Context) ([]domain.YearTotal, error)
}
