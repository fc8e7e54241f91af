package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"claimshape/internal/claims"
	"claimshape/internal/config"
	apperrors "claimshape/internal/errors"
	"claimshape/pkg/contracts/domain"
)

// Snapshot holds one loaded claim set together with its precomputed
// aggregate views. A snapshot is immutable once built; the aggregates are
// pure functions of the record set, computed once per load.
type Snapshot struct {
	ID             string               `json:"id"`
	LoadedAt       time.Time            `json:"loaded_at"`
	Records        []domain.ClaimRecord `json:"records"`
	KPIs           domain.KPISet        `json:"kpis"`
	TopCauses      []domain.GroupTotal  `json:"top_causes"`
	TopLocations   []domain.GroupTotal  `json:"top_locations"`
	StatusCounts   []domain.StatusCount `json:"status_counts"`
	IncurredByYear []domain.YearTotal   `json:"incurred_by_year"`
}

// ClaimsService loads the claims dataset once and serves the immutable
// snapshot to presentation consumers. Reads are safe from any number of
// goroutines; Reload swaps the snapshot atomically.
type ClaimsService struct {
	config     *config.Config
	summarizer *claims.Summarizer
	logger     *slog.Logger

	mu       sync.RWMutex
	snapshot *Snapshot
}

// NewClaimsService creates a new claims service using the default logger.
func NewClaimsService(cfg *config.Config) *ClaimsService {
	return NewClaimsServiceWithLogger(cfg, slog.Default())
}

// NewClaimsServiceWithLogger creates a new claims service with a specific logger.
func NewClaimsServiceWithLogger(cfg *config.Config, logger *slog.Logger) *ClaimsService {
	if logger == nil {
		logger = slog.Default()
	}

	logger.Info("ClaimsService initialized",
		slog.String("dataset_path", cfg.DatasetPath()),
		slog.Int("top_group_count", cfg.Report.TopGroupCount))

	return &ClaimsService{
		config: cfg,
		summarizer: claims.NewSummarizer(logger, claims.SummarizerConfig{
			TopGroupCount: cfg.Report.TopGroupCount,
		}),
		logger: logger,
	}
}

// Load reads the dataset and builds the session snapshot. A missing data
// source is returned as ErrDataSourceNotFound so callers can surface it
// as a user-facing notice rather than a generic failure.
func (s *ClaimsService) Load(ctx context.Context) error {
	path := s.config.DatasetPath()

	records, err := claims.LoadCSV(path)
	if err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrTypeDataSource {
			return fmt.Errorf("%w: %s", ErrDataSourceNotFound, path)
		}
		return err
	}

	snapshot := s.buildSnapshot(ctx, records)

	s.mu.Lock()
	s.snapshot = snapshot
	s.mu.Unlock()

	s.logger.InfoContext(ctx, "claims snapshot built",
		slog.String("snapshot_id", snapshot.ID),
		slog.Int("record_count", len(snapshot.Records)),
		slog.Int("open_claim_count", snapshot.KPIs.OpenClaimCount))

	return nil
}

// Reload rebuilds the snapshot from the current dataset file.
func (s *ClaimsService) Reload(ctx context.Context) error {
	return s.Load(ctx)
}

// buildSnapshot computes every aggregate view once over the loaded records.
func (s *ClaimsService) buildSnapshot(ctx context.Context, records []domain.ClaimRecord) *Snapshot {
	n := s.config.Report.TopGroupCount
	return &Snapshot{
		ID:             uuid.NewString(),
		LoadedAt:       time.Now().UTC(),
		Records:        records,
		KPIs:           s.summarizer.KPIs(ctx, records),
		TopCauses:      s.summarizer.TopCauses(ctx, records, n),
		TopLocations:   s.summarizer.TopLocations(ctx, records, n),
		StatusCounts:   s.summarizer.StatusBreakdown(ctx, records),
		IncurredByYear: s.summarizer.IncurredByYear(ctx, records),
	}
}

// Snapshot returns the current snapshot, or ErrNotLoaded before the first
// successful Load.
func (s *ClaimsService) Snapshot(ctx context.Context) (*Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.snapshot == nil {
		return nil, ErrNotLoaded
	}
	return s.snapshot, nil
}

// Records returns the normalized record set.
func (s *ClaimsService) Records(ctx context.Context) ([]domain.ClaimRecord, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.Records, nil
}

// KPIs returns the precomputed headline figures.
func (s *ClaimsService) KPIs(ctx context.Context) (domain.KPISet, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return domain.KPISet{}, err
	}
	return snapshot.KPIs, nil
}

// TopCauses returns the top causes of loss. When n matches the configured
// report size the precomputed view is returned; other sizes recompute.
func (s *ClaimsService) TopCauses(ctx context.Context, n int) ([]domain.GroupTotal, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n == s.config.Report.TopGroupCount {
		return snapshot.TopCauses, nil
	}
	return s.summarizer.TopCauses(ctx, snapshot.Records, n), nil
}

// TopLocations returns the top locations by total incurred.
func (s *ClaimsService) TopLocations(ctx context.Context, n int) ([]domain.GroupTotal, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 || n == s.config.Report.TopGroupCount {
		return snapshot.TopLocations, nil
	}
	return s.summarizer.TopLocations(ctx, snapshot.Records, n), nil
}

// StatusBreakdown returns the claim counts per status.
func (s *ClaimsService) StatusBreakdown(ctx context.Context) ([]domain.StatusCount, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.StatusCounts, nil
}

// IncurredByYear returns the yearly incurred totals.
func (s *ClaimsService) IncurredByYear(ctx context.Context) ([]domain.YearTotal, error) {
	snapshot, err := s.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return snapshot.IncurredByYear, nil
}
