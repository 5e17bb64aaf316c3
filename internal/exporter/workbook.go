package exporter

import (
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"thermcli/internal/config"
	apperrors "thermcli/internal/errors"
	"thermcli/pkg/contracts/domain"
)

// Sheet names in workbook order.
const (
	sheetSummary      = "Summary of Results"
	sheetObservations = "Observations"
	sheetRawData      = "Raw Data"
	sheetConfig       = "Config"
)

// First row of the observed-statistics block on the Summary sheet,
// placed below the third chart anchor.
const observedStatsRow = 57

// reportStyles holds the style ids registered once per workbook.
type reportStyles struct {
	title     int
	subtitle  int
	label     int
	header    int
	centered  int
	date      int
	timeOfDay int
	elapsed   int
	rise      int
	wrapped   int
}

// ReportBuilder assembles the four-sheet report workbook entirely in
// memory. Save is a separate step so a failed build never leaves a
// partial file on disk.
type ReportBuilder struct {
	logger *slog.Logger
	cfg    config.ReportConfig
}

// NewReportBuilder creates a builder with the given logger and report
// configuration. A nil logger falls back to slog.Default().
func NewReportBuilder(logger *slog.Logger, cfg config.ReportConfig) *ReportBuilder {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportBuilder{logger: logger, cfg: cfg}
}

// Build constructs the complete workbook from the downsampled parse
// result. Sheet order is Summary of Results, Observations, Raw Data,
// Config.
func (b *ReportBuilder) Build(parsed *domain.ParsedLoggerFile, groups domain.ChannelGroups, observed []domain.GroupStatistics, sourceFilename string) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName("Sheet1", sheetSummary); err != nil {
		return nil, fmt.Errorf("failed to rename summary sheet: %w", err)
	}
	for _, name := range []string{sheetObservations, sheetRawData, sheetConfig} {
		if _, err := f.NewSheet(name); err != nil {
			return nil, fmt.Errorf("failed to create sheet %q: %w", name, err)
		}
	}

	styles, err := registerStyles(f)
	if err != nil {
		return nil, err
	}

	layout := BuildReportLayout(len(groups.Specimen), len(groups.Furnace))

	if err := b.writeConfigSheet(f, styles, len(groups.Specimen)); err != nil {
		return nil, err
	}
	if err := b.writeRawDataSheet(f, styles, layout, parsed, groups, sourceFilename); err != nil {
		return nil, err
	}
	if err := b.writeSummarySheet(f, styles, groups, observed, sourceFilename); err != nil {
		return nil, err
	}
	if err := b.writeObservationsSheet(f, styles); err != nil {
		return nil, err
	}

	if err := addSummaryCharts(f, layout, len(parsed.Rows)); err != nil {
		return nil, err
	}

	hideGridlines := false
	for _, name := range []string{sheetSummary, sheetObservations, sheetRawData, sheetConfig} {
		if err := f.SetSheetView(name, -1, &excelize.ViewOptions{ShowGridLines: &hideGridlines}); err != nil {
			return nil, fmt.Errorf("failed to set sheet view on %q: %w", name, err)
		}
	}

	b.logger.Info("workbook built",
		slog.Int("rows", len(parsed.Rows)),
		slog.Int("specimen_channels", len(groups.Specimen)),
		slog.Int("furnace_channels", len(groups.Furnace)))

	return f, nil
}

// Save writes the built workbook to outPath in a single operation.
func (b *ReportBuilder) Save(f *excelize.File, outPath string) error {
	if err := f.SaveAs(outPath); err != nil {
		return apperrors.NewStorageError("failed to write report workbook", err).
			WithContext("path", outPath)
	}
	b.logger.Info("report written", slog.String("path", outPath))
	return nil
}

func registerStyles(f *excelize.File) (reportStyles, error) {
	var s reportStyles
	var err error

	if s.title, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 16},
	}); err != nil {
		return s, fmt.Errorf("failed to register title style: %w", err)
	}
	if s.subtitle, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Size: 14},
	}); err != nil {
		return s, fmt.Errorf("failed to register subtitle style: %w", err)
	}
	if s.label, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return s, fmt.Errorf("failed to register label style: %w", err)
	}
	if s.header, err = f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1F4E79"}},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
			WrapText:   true,
		},
	}); err != nil {
		return s, fmt.Errorf("failed to register header style: %w", err)
	}
	if s.centered, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	}); err != nil {
		return s, fmt.Errorf("failed to register centered style: %w", err)
	}

	numberStyles := []struct {
		id     *int
		format string
	}{
		{&s.date, "dd/mm/yyyy"},
		{&s.timeOfDay, "hh:mm:ss"},
		{&s.elapsed, "0"},
		{&s.rise, "0.0"},
	}
	for _, ns := range numberStyles {
		format := ns.format
		if *ns.id, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format}); err != nil {
			return s, fmt.Errorf("failed to register number format %q: %w", ns.format, err)
		}
	}

	if s.wrapped, err = f.NewStyle(&excelize.Style{
		Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"},
	}); err != nil {
		return s, fmt.Errorf("failed to register wrapped style: %w", err)
	}

	return s, nil
}

// writeConfigSheet writes the editable face/core window parameters. The
// counts are clamped to the specimen channels actually present so the
// defaults never describe a window wider than the data.
func (b *ReportBuilder) writeConfigSheet(f *excelize.File, styles reportStyles, specimenCount int) error {
	faceCount := b.cfg.FaceCount
	if faceCount > specimenCount {
		faceCount = specimenCount
	}
	remaining := specimenCount - faceCount
	if remaining < 0 {
		remaining = 0
	}
	coreCount := b.cfg.CoreCount
	if coreCount > remaining {
		coreCount = remaining
	}

	cells := []struct {
		ref   string
		value interface{}
		style int
	}{
		{"A1", "Group configuration (edit these if your TC layout differs)", styles.label},
		{"A3", "Face start TC #", 0},
		{"A4", "Face count", 0},
		{"A6", "Core start TC #", 0},
		{"A7", "Core count", 0},
		{"B3", b.cfg.FaceStart, 0},
		{"B4", faceCount, 0},
		{"B6", b.cfg.CoreStart, 0},
		{"B7", coreCount, 0},
	}
	for _, c := range cells {
		if err := f.SetCellValue(sheetConfig, c.ref, c.value); err != nil {
			return fmt.Errorf("failed to write config cell %s: %w", c.ref, err)
		}
		if c.style != 0 {
			if err := f.SetCellStyle(sheetConfig, c.ref, c.ref, c.style); err != nil {
				return fmt.Errorf("failed to style config cell %s: %w", c.ref, err)
			}
		}
	}

	if err := f.SetColWidth(sheetConfig, "A", "A", 28); err != nil {
		return fmt.Errorf("failed to set config column width: %w", err)
	}
	if err := f.SetColWidth(sheetConfig, "B", "B", 16); err != nil {
		return fmt.Errorf("failed to set config column width: %w", err)
	}
	return nil
}

func (b *ReportBuilder) writeRawDataSheet(f *excelize.File, styles reportStyles, layout ReportLayout, parsed *domain.ParsedLoggerFile, groups domain.ChannelGroups, sourceFilename string) error {
	if err := f.SetCellValue(sheetRawData, "A1", "Imported logger data (absolute and temperature rise)"); err != nil {
		return fmt.Errorf("failed to write raw data title: %w", err)
	}
	if err := f.SetCellStyle(sheetRawData, "A1", "A1", styles.subtitle); err != nil {
		return fmt.Errorf("failed to style raw data title: %w", err)
	}

	if err := b.writeMetadataBlock(f, styles, parsed, groups, sourceFilename); err != nil {
		return err
	}
	if err := b.writeHeaders(f, styles, layout, groups); err != nil {
		return err
	}
	if err := b.writeDataRows(f, styles, layout, parsed, groups); err != nil {
		return err
	}
	if err := b.writeFormulas(f, styles, layout, groups, len(parsed.Rows)); err != nil {
		return err
	}
	return b.applyRawDataLayout(f, layout)
}

func (b *ReportBuilder) writeMetadataBlock(f *excelize.File, styles reportStyles, parsed *domain.ParsedLoggerFile, groups domain.ChannelGroups, sourceFilename string) error {
	metaRows := []struct {
		label string
		value string
	}{
		{"Source file", sourceFilename},
		{"Name", parsed.Metadata["Name"]},
		{"Owner", parsed.Metadata["Owner"]},
		{"Acquisition", parsed.Metadata["Acquisition"]},
		{"Total channels", fmt.Sprintf("%d", len(parsed.Channels))},
		{"Specimen TCs", fmt.Sprintf("%d", len(groups.Specimen))},
		{"Furnace TCs", fmt.Sprintf("%d", len(groups.Furnace))},
	}
	for i, m := range metaRows {
		labelCell := cellName(1, metaStartRow+i)
		if err := f.SetCellValue(sheetRawData, labelCell, m.label); err != nil {
			return fmt.Errorf("failed to write metadata label %q: %w", m.label, err)
		}
		if err := f.SetCellStyle(sheetRawData, labelCell, labelCell, styles.label); err != nil {
			return fmt.Errorf("failed to style metadata label %q: %w", m.label, err)
		}
		if err := f.SetCellValue(sheetRawData, cellName(2, metaStartRow+i), m.value); err != nil {
			return fmt.Errorf("failed to write metadata value %q: %w", m.label, err)
		}
	}
	return nil
}

// writeHeaders fills the group-label row and the column-header row.
// Group labels use ordinal positions (TC1, TC2, ...) while the header
// row carries the logger channel ids for the absolute columns.
func (b *ReportBuilder) writeHeaders(f *excelize.File, styles reportStyles, layout ReportLayout, groups domain.ChannelGroups) error {
	set := func(row, col int, value interface{}) error {
		if err := f.SetCellValue(sheetRawData, cellName(col, row), value); err != nil {
			return fmt.Errorf("failed to write header cell (%d,%d): %w", col, row, err)
		}
		return nil
	}

	baseHeaders := []string{"Scan", "Date", "Time", "Elapsed (min)"}
	for i, h := range baseHeaders {
		if err := set(layout.HeaderRow, layout.Base.Start+i, h); err != nil {
			return err
		}
	}

	for i, ch := range groups.Specimen {
		if err := set(layout.GroupLabelRow, layout.SpecimenAbs.Start+i, fmt.Sprintf("TC%d", i+1)); err != nil {
			return err
		}
		if err := set(layout.HeaderRow, layout.SpecimenAbs.Start+i, ch); err != nil {
			return err
		}
		if err := set(layout.GroupLabelRow, layout.SpecimenRise.Start+i, fmt.Sprintf("TC%d ΔT", i+1)); err != nil {
			return err
		}
		if err := set(layout.HeaderRow, layout.SpecimenRise.Start+i, fmt.Sprintf("ΔT%d", i+1)); err != nil {
			return err
		}
	}

	for i, ch := range groups.Furnace {
		if err := set(layout.GroupLabelRow, layout.FurnaceAbs.Start+i, fmt.Sprintf("Furnace TC%d", i+1)); err != nil {
			return err
		}
		if err := set(layout.HeaderRow, layout.FurnaceAbs.Start+i, ch); err != nil {
			return err
		}
		if err := set(layout.GroupLabelRow, layout.FurnaceRise.Start+i, fmt.Sprintf("Furnace TC%d ΔT", i+1)); err != nil {
			return err
		}
		if err := set(layout.HeaderRow, layout.FurnaceRise.Start+i, fmt.Sprintf("FΔT%d", i+1)); err != nil {
			return err
		}
	}

	summaryHeaders := []string{
		"Mean face ΔT",
		"Max face ΔT",
		"Mean core ΔT",
		"Furnace mean (abs)",
		"Furnace mean ΔT",
	}
	for i, h := range summaryHeaders {
		if err := set(layout.GroupLabelRow, layout.Summary.Start+i, "Summary"); err != nil {
			return err
		}
		if err := set(layout.HeaderRow, layout.Summary.Start+i, h); err != nil {
			return err
		}
	}

	headerRange := func(row int) (string, string) {
		return cellName(1, row), cellName(layout.Summary.End, row)
	}
	from, to := headerRange(layout.HeaderRow)
	if err := f.SetCellStyle(sheetRawData, from, to, styles.header); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}
	from, to = headerRange(layout.GroupLabelRow)
	if err := f.SetCellStyle(sheetRawData, from, to, styles.centered); err != nil {
		return fmt.Errorf("failed to style group label row: %w", err)
	}
	return nil
}

func (b *ReportBuilder) writeDataRows(f *excelize.File, styles reportStyles, layout ReportLayout, parsed *domain.ParsedLoggerFile, groups domain.ChannelGroups) error {
	for i, reading := range parsed.Rows {
		row := layout.DataStartRow + i

		if err := f.SetCellValue(sheetRawData, cellName(layout.Base.Start, row), reading.Scan); err != nil {
			return fmt.Errorf("failed to write scan at row %d: %w", row, err)
		}
		if err := f.SetCellValue(sheetRawData, cellName(layout.Base.Start+1, row), reading.Timestamp); err != nil {
			return fmt.Errorf("failed to write date at row %d: %w", row, err)
		}
		if err := f.SetCellValue(sheetRawData, cellName(layout.Base.Start+2, row), reading.Timestamp); err != nil {
			return fmt.Errorf("failed to write time at row %d: %w", row, err)
		}
		if err := f.SetCellValue(sheetRawData, cellName(layout.ElapsedCol(), row), reading.ElapsedMinutes); err != nil {
			return fmt.Errorf("failed to write elapsed at row %d: %w", row, err)
		}

		for j, ch := range groups.Specimen {
			if v, ok := reading.Values[ch]; ok {
				if err := f.SetCellValue(sheetRawData, cellName(layout.SpecimenAbs.Start+j, row), v); err != nil {
					return fmt.Errorf("failed to write specimen value at row %d: %w", row, err)
				}
			}
		}
		for j, ch := range groups.Furnace {
			if v, ok := reading.Values[ch]; ok {
				if err := f.SetCellValue(sheetRawData, cellName(layout.FurnaceAbs.Start+j, row), v); err != nil {
					return fmt.Errorf("failed to write furnace value at row %d: %w", row, err)
				}
			}
		}
	}

	lastRow := layout.LastDataRow(len(parsed.Rows))
	numberBlocks := []struct {
		col   int
		style int
	}{
		{layout.Base.Start + 1, styles.date},
		{layout.Base.Start + 2, styles.timeOfDay},
		{layout.ElapsedCol(), styles.elapsed},
	}
	for _, nb := range numberBlocks {
		from := cellName(nb.col, layout.DataStartRow)
		to := cellName(nb.col, lastRow)
		if err := f.SetCellStyle(sheetRawData, from, to, nb.style); err != nil {
			return fmt.Errorf("failed to apply number format to column %d: %w", nb.col, err)
		}
	}
	return nil
}

// writeFormulas fills the rise and summary columns. The summary values
// are live formulas reading the face/core window from the Config sheet,
// so the workbook recomputes when a user edits that tab.
func (b *ReportBuilder) writeFormulas(f *excelize.File, styles reportStyles, layout ReportLayout, groups domain.ChannelGroups, rowCount int) error {
	ambientRow := layout.DataStartRow
	lastRow := layout.LastDataRow(rowCount)

	for row := layout.DataStartRow; row <= lastRow; row++ {
		for j := range groups.Specimen {
			cell := cellName(layout.SpecimenRise.Start+j, row)
			if err := f.SetCellFormula(sheetRawData, cell, riseFormula(layout.SpecimenAbs.Start+j, row, ambientRow)); err != nil {
				return fmt.Errorf("failed to write specimen rise formula at %s: %w", cell, err)
			}
		}
		for j := range groups.Furnace {
			cell := cellName(layout.FurnaceRise.Start+j, row)
			if err := f.SetCellFormula(sheetRawData, cell, riseFormula(layout.FurnaceAbs.Start+j, row, ambientRow)); err != nil {
				return fmt.Errorf("failed to write furnace rise formula at %s: %w", cell, err)
			}
		}

		summaryFormulas := []struct {
			col     int
			formula string
		}{
			{layout.MeanFaceCol(), meanFaceFormula(layout, row)},
			{layout.MaxFaceCol(), maxFaceFormula(layout, row)},
			{layout.MeanCoreCol(), meanCoreFormula(layout, row)},
		}
		for _, sf := range summaryFormulas {
			cell := cellName(sf.col, row)
			if err := f.SetCellFormula(sheetRawData, cell, sf.formula); err != nil {
				return fmt.Errorf("failed to write summary formula at %s: %w", cell, err)
			}
		}

		if len(groups.Furnace) > 0 {
			cell := cellName(layout.FurnaceMeanAbsCol(), row)
			if err := f.SetCellFormula(sheetRawData, cell, rangeAverageFormula(layout.FurnaceAbs, row)); err != nil {
				return fmt.Errorf("failed to write furnace mean formula at %s: %w", cell, err)
			}
			cell = cellName(layout.FurnaceMeanRiseCol(), row)
			if err := f.SetCellFormula(sheetRawData, cell, rangeAverageFormula(layout.FurnaceRise, row)); err != nil {
				return fmt.Errorf("failed to write furnace rise mean formula at %s: %w", cell, err)
			}
		}
	}

	riseBlocks := []ColumnBlock{layout.SpecimenRise, layout.FurnaceRise, layout.Summary}
	for _, block := range riseBlocks {
		if block.Count() == 0 {
			continue
		}
		from := cellName(block.Start, layout.DataStartRow)
		to := cellName(block.End, lastRow)
		if err := f.SetCellStyle(sheetRawData, from, to, styles.rise); err != nil {
			return fmt.Errorf("failed to apply rise number format: %w", err)
		}
	}
	return nil
}

// applyRawDataLayout sets row heights, freeze panes, column widths and
// hides the intermediate rise columns the way the legacy report does.
func (b *ReportBuilder) applyRawDataLayout(f *excelize.File, layout ReportLayout) error {
	if err := f.SetRowHeight(sheetRawData, layout.GroupLabelRow, 22); err != nil {
		return fmt.Errorf("failed to set group label row height: %w", err)
	}
	if err := f.SetRowHeight(sheetRawData, layout.HeaderRow, 28); err != nil {
		return fmt.Errorf("failed to set header row height: %w", err)
	}

	freezeCell := cellName(layout.SpecimenAbs.Start, layout.DataStartRow)
	if err := f.SetPanes(sheetRawData, &excelize.Panes{
		Freeze:      true,
		XSplit:      layout.Base.Count(),
		YSplit:      layout.HeaderRow,
		TopLeftCell: freezeCell,
		ActivePane:  "bottomRight",
	}); err != nil {
		return fmt.Errorf("failed to freeze panes: %w", err)
	}

	widths := []struct {
		col   string
		width float64
	}{
		{"A", 18},
		{"B", 80},
		{"C", 12},
		{"D", 13},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheetRawData, w.col, w.col, w.width); err != nil {
			return fmt.Errorf("failed to set column %s width: %w", w.col, err)
		}
	}

	for _, block := range []ColumnBlock{layout.SpecimenRise, layout.FurnaceRise} {
		if block.Count() == 0 {
			continue
		}
		colRange := columnName(block.Start) + ":" + columnName(block.End)
		if err := f.SetColVisible(sheetRawData, colRange, false); err != nil {
			return fmt.Errorf("failed to hide rise columns %s: %w", colRange, err)
		}
	}
	return nil
}

func (b *ReportBuilder) writeSummarySheet(f *excelize.File, styles reportStyles, groups domain.ChannelGroups, observed []domain.GroupStatistics, sourceFilename string) error {
	cells := []struct {
		ref   string
		value interface{}
		style int
	}{
		{"A1", "Test summary (auto-generated)", styles.title},
		{"A3", "Source file", styles.label},
		{"B3", sourceFilename, 0},
		{"A4", "Total specimen TCs", styles.label},
		{"B4", len(groups.Specimen), 0},
		{"A5", "Total furnace TCs", styles.label},
		{"B5", len(groups.Furnace), 0},
		{"A6", "Note", styles.label},
		{"B6", "Edit Config tab if face/core grouping differs (defaults: face 1-5, core 6-10).", 0},
	}
	for _, c := range cells {
		if err := f.SetCellValue(sheetSummary, c.ref, c.value); err != nil {
			return fmt.Errorf("failed to write summary cell %s: %w", c.ref, err)
		}
		if c.style != 0 {
			if err := f.SetCellStyle(sheetSummary, c.ref, c.ref, c.style); err != nil {
				return fmt.Errorf("failed to style summary cell %s: %w", c.ref, err)
			}
		}
	}

	if err := f.SetColWidth(sheetSummary, "A", "A", 22); err != nil {
		return fmt.Errorf("failed to set summary column width: %w", err)
	}
	if err := f.SetColWidth(sheetSummary, "B", "B", 70); err != nil {
		return fmt.Errorf("failed to set summary column width: %w", err)
	}

	return b.writeObservedStatistics(f, styles, observed)
}

// writeObservedStatistics writes the static peak-statistics block below
// the charts. These are snapshots computed over the downsampled rows;
// the live per-row values stay on the Raw Data sheet.
func (b *ReportBuilder) writeObservedStatistics(f *excelize.File, styles reportStyles, observed []domain.GroupStatistics) error {
	if len(observed) == 0 {
		return nil
	}

	titleCell := cellName(1, observedStatsRow)
	if err := f.SetCellValue(sheetSummary, titleCell, "Observed statistics (computed at generation time)"); err != nil {
		return fmt.Errorf("failed to write observed statistics title: %w", err)
	}
	if err := f.SetCellStyle(sheetSummary, titleCell, titleCell, styles.label); err != nil {
		return fmt.Errorf("failed to style observed statistics title: %w", err)
	}

	for i, stat := range observed {
		row := observedStatsRow + 1 + i
		if err := f.SetCellValue(sheetSummary, cellName(1, row), stat.Label); err != nil {
			return fmt.Errorf("failed to write observed statistic label %q: %w", stat.Label, err)
		}
		valueCell := cellName(2, row)
		if err := f.SetCellValue(sheetSummary, valueCell, stat.Peak); err != nil {
			return fmt.Errorf("failed to write observed statistic value %q: %w", stat.Label, err)
		}
		if err := f.SetCellStyle(sheetSummary, valueCell, valueCell, styles.rise); err != nil {
			return fmt.Errorf("failed to style observed statistic value %q: %w", stat.Label, err)
		}
		if err := f.SetCellValue(sheetSummary, cellName(3, row), fmt.Sprintf("at %g min", stat.PeakAtMin)); err != nil {
			return fmt.Errorf("failed to write observed statistic minute %q: %w", stat.Label, err)
		}
	}
	return nil
}

func (b *ReportBuilder) writeObservationsSheet(f *excelize.File, styles reportStyles) error {
	if err := f.SetCellValue(sheetObservations, "A1", "Observations"); err != nil {
		return fmt.Errorf("failed to write observations title: %w", err)
	}
	if err := f.SetCellStyle(sheetObservations, "A1", "A1", styles.subtitle); err != nil {
		return fmt.Errorf("failed to style observations title: %w", err)
	}
	if err := f.SetCellValue(sheetObservations, "A3",
		"(This tab is intentionally free-form. Paste or type your test-specific notes here.)"); err != nil {
		return fmt.Errorf("failed to write observations prompt: %w", err)
	}
	if err := f.SetCellStyle(sheetObservations, "A3", "A3", styles.wrapped); err != nil {
		return fmt.Errorf("failed to style observations prompt: %w", err)
	}
	if err := f.SetColWidth(sheetObservations, "A", "A", 100); err != nil {
		return fmt.Errorf("failed to set observations column width: %w", err)
	}
	return nil
}
