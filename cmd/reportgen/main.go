package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"thermcli/internal/config"
	"thermcli/internal/dataprocessing"
	"thermcli/internal/exporter"
	"thermcli/internal/infrastructure"
	"thermcli/pkg/contracts"
)

func main() {
	inPath := flag.String("in", "", "input logger export file (UTF-16 text, required)")
	outPath := flag.String("out", "", "output workbook path (defaults to input path with .xlsx extension)")
	tolerance := flag.Float64("tolerance", -1, "downsampling tolerance in seconds (overrides config when >= 0)")
	faceStart := flag.Int("face-start", 0, "first face thermocouple ordinal (overrides config when > 0)")
	faceCount := flag.Int("face-count", -1, "face window width (overrides config when >= 0)")
	coreStart := flag.Int("core-start", 0, "first core thermocouple ordinal (overrides config when > 0)")
	coreCount := flag.Int("core-count", -1, "core window width (overrides config when >= 0)")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	if *inPath == "" {
		fmt.Fprintln(os.Stderr, "usage: reportgen -in <logger export> [-out <report.xlsx>]")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *outPath == "" {
		*outPath = replaceExtension(*inPath, ".xlsx")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", "error", err)
		cfg = config.Default()
	}
	applyOverrides(&cfg.Report, *tolerance, *faceStart, *faceCount, *coreStart, *coreCount)

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx := infrastructure.ContextWithTraceID(context.Background())
	logger = infrastructure.LoggerWithContext(ctx)

	logger.Info("Starting thermal report generation",
		slog.String("input", *inPath),
		slog.String("output", *outPath),
		slog.Float64("tolerance_seconds", cfg.Report.ToleranceSeconds))

	parsed, err := dataprocessing.ParseFile(ctx, *inPath)
	if err != nil {
		logger.Error("Failed to parse logger export", slog.String("error", err.Error()))
		os.Exit(1)
	}
	logger.Info("Logger export parsed",
		slog.Int("channels", len(parsed.Channels)),
		slog.Int("rows", len(parsed.Rows)),
		slog.String("name", parsed.Metadata["Name"]))

	downsampled := dataprocessing.DownsampleFullMinutes(parsed, cfg.Report.ToleranceSeconds)
	logger.Info("Rows downsampled to whole minutes",
		slog.Int("kept", len(downsampled.Rows)),
		slog.Int("dropped", len(parsed.Rows)-len(downsampled.Rows)))

	groups := dataprocessing.ClassifyChannels(downsampled.Channels, cfg.Report.FurnaceMin, cfg.Report.FurnaceMax)
	logger.Info("Channels classified",
		slog.Int("specimen", len(groups.Specimen)),
		slog.Int("furnace", len(groups.Furnace)))

	summarizer := dataprocessing.NewSummarizer(logger, dataprocessing.SummarizerConfig{
		FaceStart: cfg.Report.FaceStart,
		FaceCount: cfg.Report.FaceCount,
		CoreStart: cfg.Report.CoreStart,
		CoreCount: cfg.Report.CoreCount,
	})
	observed := summarizer.ObservedStatistics(downsampled, groups)

	builder := exporter.NewReportBuilder(logger, cfg.Report)
	workbook, err := builder.Build(downsampled, groups, observed, filepath.Base(*inPath))
	if err != nil {
		logger.Error("Failed to build report workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer workbook.Close()

	if err := builder.Save(workbook, *outPath); err != nil {
		logger.Error("Failed to write report workbook", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("Report generation complete", slog.String("output", *outPath))
}

// applyOverrides merges command-line flag values over the loaded report
// configuration. Negative or zero sentinel values mean "not set".
func applyOverrides(report *config.ReportConfig, tolerance float64, faceStart, faceCount, coreStart, coreCount int) {
	if tolerance >= 0 {
		report.ToleranceSeconds = tolerance
	}
	if faceStart > 0 {
		report.FaceStart = faceStart
	}
	if faceCount >= 0 {
		report.FaceCount = faceCount
	}
	if coreStart > 0 {
		report.CoreStart = coreStart
	}
	if coreCount >= 0 {
		report.CoreCount = coreCount
	}
}

// replaceExtension swaps the file extension of path for ext.
func replaceExtension(path, ext string) string {
	return strings.TrimSuffix(path, filepath.Ext(path)) + ext
}
