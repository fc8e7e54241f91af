package http

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/go-playground/validator/v10"

	apierrors "claimshape/internal/errors"
	"claimshape/internal/exporter"
	"claimshape/internal/services"
)

// ClaimsHandler serves the claims report API.
type ClaimsHandler struct {
	service      ClaimsServiceInterface
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
	validate     *validator.Validate
	csvWriter    *exporter.CSVWriter
	excelWriter  *exporter.ExcelWriter
}

// NewClaimsHandler creates a new claims handler.
func NewClaimsHandler(service ClaimsServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ClaimsHandler {
	return &ClaimsHandler{
		service:      service,
		logger:       logger.With(slog.String("component", "claims_handler")),
		errorHandler: errorHandler,
		validate:     validator.New(),
		csvWriter:    exporter.NewCSVWriter(logger),
		excelWriter:  exporter.NewExcelWriter(logger),
	}
}

// Routes returns the claims routes.
func (h *ClaimsHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetClaims)
	r.Get("/kpis", h.GetKPIs)
	r.Get("/top-causes", h.GetTopCauses)
	r.Get("/top-locations", h.GetTopLocations)
	r.Get("/status-breakdown", h.GetStatusBreakdown)
	r.Get("/incurred-by-year", h.GetIncurredByYear)

	r.Route("/export/{format}", func(r chi.Router) {
		r.Use(h.ExportCtx)
		r.Get("/", h.ExportReport)
	})

	return r
}

// topQuery is the validated query for the top-N views.
type topQuery struct {
	N int `validate:"min=1,max=50"`
}

// parseTopQuery reads and validates the n query parameter, defaulting to 5.
func (h *ClaimsHandler) parseTopQuery(r *http.Request) (topQuery, error) {
	query := topQuery{N: 5}

	if raw := r.URL.Query().Get("n"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			return query, apierrors.ErrValidation("n", "must be an integer")
		}
		query.N = n
	}

	if err := h.validate.Struct(query); err != nil {
		return query, apierrors.ErrValidation("n", "must be between 1 and 50")
	}

	return query, nil
}

// ExportCtx middleware validates the export format parameter.
func (h *ClaimsHandler) ExportCtx(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		format := chi.URLParam(r, "format")

		validFormats := map[string]bool{
			"csv":  true,
			"xlsx": true,
			"json": true,
		}

		if !validFormats[format] {
			h.errorHandler.HandleError(w, r, apierrors.ErrValidation("format", fmt.Sprintf("Invalid export format: %s", format)))
			return
		}

		next.ServeHTTP(w, r)
	})
}

// GetClaims handles GET /api/claims
func (h *ClaimsHandler) GetClaims(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Records(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   records,
		"count":  len(records),
	})
}

// GetKPIs handles GET /api/claims/kpis
func (h *ClaimsHandler) GetKPIs(w http.ResponseWriter, r *http.Request) {
	kpis, err := h.service.KPIs(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   kpis,
	})
}

// GetTopCauses handles GET /api/claims/top-causes
func (h *ClaimsHandler) GetTopCauses(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseTopQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	causes, err := h.service.TopCauses(r.Context(), query.N)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   causes,
		"count":  len(causes),
	})
}

// GetTopLocations handles GET /api/claims/top-locations
func (h *ClaimsHandler) GetTopLocations(w http.ResponseWriter, r *http.Request) {
	query, err := h.parseTopQuery(r)
	if err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	locations, err := h.service.TopLocations(r.Context(), query.N)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   locations,
		"count":  len(locations),
	})
}

// GetStatusBreakdown handles GET /api/claims/status-breakdown
func (h *ClaimsHandler) GetStatusBreakdown(w http.ResponseWriter, r *http.Request) {
	breakdown, err := h.service.StatusBreakdown(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   breakdown,
		"count":  len(breakdown),
	})
}

// GetIncurredByYear handles GET /api/claims/incurred-by-year
func (h *ClaimsHandler) GetIncurredByYear(w http.ResponseWriter, r *http.Request) {
	years, err := h.service.IncurredByYear(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   years,
		"count":  len(years),
	})
}

// ExportReport handles GET /api/claims/export/{format}
func (h *ClaimsHandler) ExportReport(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapServiceError(err))
		return
	}

	report := &exporter.Report{
		SnapshotID:     snapshot.ID,
		GeneratedAt:    time.Now().UTC(),
		Records:        snapshot.Records,
		KPIs:           snapshot.KPIs,
		TopCauses:      snapshot.TopCauses,
		TopLocations:   snapshot.TopLocations,
		StatusCounts:   snapshot.StatusCounts,
		IncurredByYear: snapshot.IncurredByYear,
	}

	format := chi.URLParam(r, "format")
	filename := "claims_report_" + time.Now().UTC().Format("20060102")

	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		if err := h.csvWriter.WriteClaimsTo(w, report.Records); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to stream CSV export",
				slog.String("error", err.Error()))
		}
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.xlsx", filename))
		if err := h.excelWriter.WriteReportTo(w, report); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to stream Excel export",
				slog.String("error", err.Error()))
		}
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s.json", filename))
		if err := exporter.WriteJSONTo(w, report); err != nil {
			h.logger.ErrorContext(r.Context(), "failed to stream JSON export",
				slog.String("error", err.Error()))
		}
	}
}

// mapServiceError maps service sentinel errors onto the report error
// taxonomy: the data-source-missing notice versus a generic failure.
func (h *ClaimsHandler) mapServiceError(err error) error {
	if errors.Is(err, services.ErrDataSourceNotFound) || errors.Is(err, services.ErrNotLoaded) {
		return apierrors.DataSourceNotFoundError(err)
	}
	return err
}
