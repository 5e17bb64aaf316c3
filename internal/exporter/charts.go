package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// Chart anchor cells on the Summary sheet, one per summary series.
var chartAnchors = [3]string{"A9", "A25", "A41"}

const (
	chartWidth  = 640
	chartHeight = 300
)

// addSummaryCharts creates the three line charts on the Summary sheet,
// each plotting one summary column of the Raw Data sheet against the
// elapsed-minutes column over the full downsampled data range.
func addSummaryCharts(f *excelize.File, layout ReportLayout, rowCount int) error {
	lastRow := layout.LastDataRow(rowCount)
	categories := sheetRangeRef(sheetRawData, layout.ElapsedCol(), layout.DataStartRow, lastRow)

	charts := []struct {
		title  string
		col    int
		anchor string
	}{
		{"Mean temperature rise (face)", layout.MeanFaceCol(), chartAnchors[0]},
		{"Maximum temperature rise (face)", layout.MaxFaceCol(), chartAnchors[1]},
		{"Mean temperature rise (core)", layout.MeanCoreCol(), chartAnchors[2]},
	}

	for _, c := range charts {
		chart := &excelize.Chart{
			Type: excelize.Line,
			Series: []excelize.ChartSeries{
				{
					Categories: categories,
					Values:     sheetRangeRef(sheetRawData, c.col, layout.DataStartRow, lastRow),
				},
			},
			Title:  []excelize.RichTextRun{{Text: c.title}},
			Legend: excelize.ChartLegend{Position: "none"},
			XAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Elapsed (min)"}}},
			YAxis:  excelize.ChartAxis{Title: []excelize.RichTextRun{{Text: "Temperature rise (°C)"}}},
			Dimension: excelize.ChartDimension{
				Width:  chartWidth,
				Height: chartHeight,
			},
		}
		if err := f.AddChart(sheetSummary, c.anchor, chart); err != nil {
			return fmt.Errorf("failed to add chart %q: %w", c.title, err)
		}
	}

	return nil
}

// sheetRangeRef builds an absolute single-column range reference like
// 'Raw Data'!$D$14:$D$73.
func sheetRangeRef(sheet string, col, fromRow, toRow int) string {
	letter := columnName(col)
	return fmt.Sprintf("'%s'!$%s$%d:$%s$%d", sheet, letter, fromRow, letter, toRow)
}
