// Package exporter builds the Excel report workbook from parsed and
// downsampled logger data.
//
// This package contains four main components:
//
// ReportLayout: deterministic column and row assignments for the Raw Data
// sheet, computed up front from the channel group counts and passed
// read-only into the formula and chart stages.
//
// Formula templates: the per-row temperature rise formulas and the
// group summary formulas that read their window position and width live
// from the Config sheet, so the workbook stays recomputable after edits.
//
// Chart binding: three line charts on the Summary sheet plotting the
// summary series against elapsed minutes.
//
// ReportBuilder: assembles the four-sheet workbook (Summary of Results,
// Observations, Raw Data, Config) and persists it in one save, so no
// partial file is left behind on failure.
//
// Example usage:
//
//	builder := exporter.NewReportBuilder(logger, cfg)
//	f, err := builder.Build(sampled, groups, observed, "export.txt")
//	if err != nil {
//	    return err
//	}
//	err = builder.Save(f, "report.xlsx")
package exporter
