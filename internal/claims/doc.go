// Package claims provides loading, normalization, and aggregation for the
// broker claims dataset.
//
// # Architecture
//
// The package has two components:
//
// 1. Parser: reads the claims CSV, coerces dates and monetary fields, and
// computes the derived TotalIncurred, TotalPaid, and LossYear columns.
// 2. Summarizer: computes the aggregate views (KPIs, top groups by total
// incurred, status breakdown, incurred by year) as pure reads over the
// loaded records.
//
// # Usage
//
// Load and summarize:
//
//	records, err := claims.LoadCSV("data/synthetic_claims_data.csv")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summarizer := claims.NewSummarizer(slog.Default(), claims.DefaultSummarizerConfig())
//	kpis := summarizer.KPIs(ctx, records)
//	topCauses := summarizer.TopCauses(ctx, records, 5)
//
// Normalization never fails on malformed row values: unparseable dates
// coerce to nil and non-numeric money coerces to 0. Only a missing data
// source or an unreadable CSV structure returns an error.
package claims
