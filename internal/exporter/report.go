package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"claimshape/pkg/contracts/domain"
)

// Report bundles the normalized record set and every aggregate view for
// export. The rendering layer decides the output shape; this is the data
// contract.
type Report struct {
	SnapshotID     string               `json:"snapshot_id,omitempty"`
	GeneratedAt    time.Time            `json:"generated_at"`
	Records        []domain.ClaimRecord `json:"records"`
	KPIs           domain.KPISet        `json:"kpis"`
	TopCauses      []domain.GroupTotal  `json:"top_causes"`
	TopLocations   []domain.GroupTotal  `json:"top_locations"`
	StatusCounts   []domain.StatusCount `json:"status_counts"`
	IncurredByYear []domain.YearTotal   `json:"incurred_by_year"`
}

// WriteJSONTo writes the report as indented JSON with metadata.
func WriteJSONTo(w io.Writer, report *Report) error {
	payload := map[string]interface{}{
		"report":       report,
		"claim_count":  len(report.Records),
		"generated_at": report.GeneratedAt.Format(time.RFC3339),
		"format":       "claim_report_v1",
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(payload)
}

// WriteJSON writes the report as a JSON file.
func WriteJSON(path string, report *Report) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory for JSON report: %w", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create JSON report file: %w", err)
	}
	defer file.Close()

	if err := WriteJSONTo(file, report); err != nil {
		return fmt.Errorf("failed to encode JSON report: %w", err)
	}
	return nil
}
