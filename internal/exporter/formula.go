package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Fixed cell addresses of the editable grouping configuration on the
// Config sheet. Raw Data formulas reference these live, so the workbook
// recomputes if a user edits them after generation.
const (
	cfgFaceStartRef = "Config!$B$3"
	cfgFaceCountRef = "Config!$B$4"
	cfgCoreStartRef = "Config!$B$6"
	cfgCoreCountRef = "Config!$B$7"
)

// cellName converts 1-based column/row coordinates to an A1 reference.
func cellName(col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		// Coordinates come from a computed ReportLayout and are always >= 1.
		panic(fmt.Sprintf("invalid cell coordinates (%d,%d): %v", col, row, err))
	}
	return name
}

// columnName converts a 1-based column number to its letter name.
func columnName(col int) string {
	name, err := excelize.ColumnNumberToName(col)
	if err != nil {
		panic(fmt.Sprintf("invalid column number %d: %v", col, err))
	}
	return name
}

// riseFormula yields the temperature rise for one channel cell: the
// absolute reading minus the same channel's ambient-row reading, blank
// when the absolute cell is blank so missing data propagates instead of
// producing a spurious zero.
func riseFormula(absCol, row, ambientRow int) string {
	abs := cellName(absCol, row)
	amb := cellName(absCol, ambientRow)
	return fmt.Sprintf(`IF(%[1]s="","",%[1]s-%[2]s)`, abs, amb)
}

// windowedAggFormula aggregates a dynamically-sized window into the
// specimen rise columns. The window offset and width are read live from
// the Config sheet; a zero-width window yields blank.
func windowedAggFormula(fn string, anchorCol, row int, startRef, countRef string) string {
	anchor := cellName(anchorCol, row)
	return fmt.Sprintf(`IF(%[4]s=0,"",%[1]s(OFFSET(%[2]s,0,%[3]s-1,1,%[4]s)))`,
		fn, anchor, startRef, countRef)
}

// meanFaceFormula is the mean rise over the configured face window.
func meanFaceFormula(l ReportLayout, row int) string {
	return windowedAggFormula("AVERAGE", l.SpecimenRise.Start, row, cfgFaceStartRef, cfgFaceCountRef)
}

// maxFaceFormula is the max rise over the configured face window.
func maxFaceFormula(l ReportLayout, row int) string {
	return windowedAggFormula("MAX", l.SpecimenRise.Start, row, cfgFaceStartRef, cfgFaceCountRef)
}

// meanCoreFormula is the mean rise over the configured core window.
func meanCoreFormula(l ReportLayout, row int) string {
	return windowedAggFormula("AVERAGE", l.SpecimenRise.Start, row, cfgCoreStartRef, cfgCoreCountRef)
}

// rangeAverageFormula averages a fixed column range on one row; used for
// the furnace mean columns which cover the full furnace blocks.
func rangeAverageFormula(block ColumnBlock, row int) string {
	return fmt.Sprintf("AVERAGE(%s:%s)", cellName(block.Start, row), cellName(block.End, row))
}
