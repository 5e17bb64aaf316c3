package exporter

// Fixed row positions on the Raw Data sheet. The metadata block occupies
// rows 3-9; the two header rows and data region follow below it.
const (
	groupLabelRow = 12
	headerRow     = 13
	dataStartRow  = 14

	metaStartRow = 3

	baseColumnCount    = 4 // scan, date, time, elapsed minutes
	summaryColumnCount = 5
)

// ColumnBlock is a contiguous 1-based inclusive column range.
// End < Start means the block is empty.
type ColumnBlock struct {
	Start int
	End   int
}

// Count returns the number of columns in the block.
func (b ColumnBlock) Count() int {
	if b.End < b.Start {
		return 0
	}
	return b.End - b.Start + 1
}

// ReportLayout assigns every column block of the Raw Data sheet. It is
// computed once from the channel group counts, before any cell is
// written, and consumed read-only by the formula and chart stages.
type ReportLayout struct {
	GroupLabelRow int
	HeaderRow     int
	DataStartRow  int

	Base         ColumnBlock
	SpecimenAbs  ColumnBlock
	SpecimenRise ColumnBlock
	FurnaceAbs   ColumnBlock
	FurnaceRise  ColumnBlock
	Summary      ColumnBlock
}

// BuildReportLayout computes the deterministic column assignment: base
// columns, specimen absolute block, specimen rise block, furnace absolute
// block, furnace rise block, then the five summary columns.
func BuildReportLayout(specimenCount, furnaceCount int) ReportLayout {
	layout := ReportLayout{
		GroupLabelRow: groupLabelRow,
		HeaderRow:     headerRow,
		DataStartRow:  dataStartRow,
	}

	col := 1
	next := func(count int) ColumnBlock {
		block := ColumnBlock{Start: col, End: col + count - 1}
		col += count
		return block
	}

	layout.Base = next(baseColumnCount)
	layout.SpecimenAbs = next(specimenCount)
	layout.SpecimenRise = next(specimenCount)
	layout.FurnaceAbs = next(furnaceCount)
	layout.FurnaceRise = next(furnaceCount)
	layout.Summary = next(summaryColumnCount)

	return layout
}

// Summary column accessors, in fixed order.

// MeanFaceCol is the mean-face-rise summary column.
func (l ReportLayout) MeanFaceCol() int { return l.Summary.Start }

// MaxFaceCol is the max-face-rise summary column.
func (l ReportLayout) MaxFaceCol() int { return l.Summary.Start + 1 }

// MeanCoreCol is the mean-core-rise summary column.
func (l ReportLayout) MeanCoreCol() int { return l.Summary.Start + 2 }

// FurnaceMeanAbsCol is the furnace mean absolute summary column.
func (l ReportLayout) FurnaceMeanAbsCol() int { return l.Summary.Start + 3 }

// FurnaceMeanRiseCol is the furnace mean rise summary column.
func (l ReportLayout) FurnaceMeanRiseCol() int { return l.Summary.Start + 4 }

// ElapsedCol is the elapsed-minutes base column, the chart category axis.
func (l ReportLayout) ElapsedCol() int { return l.Base.Start + 3 }

// LastDataRow returns the final data row for the given row count.
func (l ReportLayout) LastDataRow(rowCount int) int {
	return l.DataStartRow + rowCount - 1
}
