package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"claimshape/internal/claims"
	apperrors "claimshape/internal/errors"
	"claimshape/internal/exporter"
	"claimshape/pkg/contracts/domain"
)

func main() {
	dataPath := flag.String("data", filepath.Join("data", "synthetic_claims_data.csv"), "path to the claims CSV")
	outputDir := flag.String("out", "reports", "output directory for report files")
	format := flag.String("format", "all", "output format: csv, xlsx, json, or all")
	topN := flag.Int("top", 5, "number of groups in the top causes/locations views")
	flag.Parse()

	if err := run(*dataPath, *outputDir, *format, *topN); err != nil {
		var appErr *apperrors.AppError
		if errors.As(err, &appErr) && appErr.Type == apperrors.ErrTypeDataSource {
			slog.Error("Claims data source not found",
				"path", *dataPath,
				"hint", "Place the claims CSV at the given path or pass -data")
		} else {
			slog.Error("Failed to generate claims report", "error", err)
		}
		os.Exit(1)
	}
}

func run(dataPath, outputDir, format string, topN int) error {
	ctx := context.Background()

	slog.Info("Loading claims data", "path", dataPath)
	records, err := claims.LoadCSV(dataPath)
	if err != nil {
		return err
	}

	summarizer := claims.NewSummarizer(slog.Default(), claims.SummarizerConfig{TopGroupCount: topN})

	report := &exporter.Report{
		GeneratedAt:    time.Now().UTC(),
		Records:        records,
		KPIs:           summarizer.KPIs(ctx, records),
		TopCauses:      summarizer.TopCauses(ctx, records, topN),
		TopLocations:   summarizer.TopLocations(ctx, records, topN),
		StatusCounts:   summarizer.StatusBreakdown(ctx, records),
		IncurredByYear: summarizer.IncurredByYear(ctx, records),
	}

	printSummary(report)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	stamp := report.GeneratedAt.Format("20060102")

	if format == "csv" || format == "all" {
		csvWriter := exporter.NewCSVWriter(slog.Default())
		if err := csvWriter.WriteClaims(filepath.Join(outputDir, "claims_"+stamp+".csv"), records); err != nil {
			return err
		}
		if err := csvWriter.WriteGroupTotals(filepath.Join(outputDir, "top_causes_"+stamp+".csv"), "CauseOfLoss", report.TopCauses); err != nil {
			return err
		}
		if err := csvWriter.WriteGroupTotals(filepath.Join(outputDir, "top_locations_"+stamp+".csv"), "Location", report.TopLocations); err != nil {
			return err
		}
		if err := csvWriter.WriteYearTotals(filepath.Join(outputDir, "incurred_by_year_"+stamp+".csv"), report.IncurredByYear); err != nil {
			return err
		}
	}

	if format == "xlsx" || format == "all" {
		excelWriter := exporter.NewExcelWriter(slog.Default())
		if err := excelWriter.WriteReport(filepath.Join(outputDir, "claims_report_"+stamp+".xlsx"), report); err != nil {
			return err
		}
	}

	if format == "json" || format == "all" {
		if err := exporter.WriteJSON(filepath.Join(outputDir, "claims_report_"+stamp+".json"), report); err != nil {
			return err
		}
	}

	slog.Info("Report generated", "output_dir", outputDir, "records", len(records))
	return nil
}

// printSummary logs the headline figures so a console run is useful on
// its own, without opening the exported files.
func printSummary(report *exporter.Report) {
	slog.Info("Claims report summary",
		"total_incurred", domain.FormatMoney(report.KPIs.TotalIncurred),
		"total_paid", domain.FormatMoney(report.KPIs.TotalPaid),
		"open_claims", report.KPIs.OpenClaimCount,
		"avg_cost_per_open_claim", domain.FormatMoney(report.KPIs.AvgCostPerOpenClaim))

	for _, cause := range report.TopCauses {
		slog.Info("Top cause of loss",
			"cause", cause.Value,
			"total_incurred", domain.FormatMoney(cause.TotalIncurred),
			"claims", cause.ClaimCount)
	}
}
