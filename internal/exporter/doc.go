// Package exporter renders the claims report into portable files.
//
// CSVWriter writes the normalized claim table and the aggregate views as
// CSV with a UTF-8 BOM for Excel compatibility. ExcelWriter assembles a
// multi-sheet workbook (KPIs, top causes, top locations, status breakdown,
// incurred by year, full claims table). WriteJSON emits the whole report
// as a single JSON document with metadata.
package exporter
