package domain

import (
	"time"
)

// LayoutVariant identifies which of the two known logger export layouts
// a file uses. The variant is detected once per file and every downstream
// parser is parameterized by it.
type LayoutVariant string

const (
	// TabLayout is the tab-delimited export: separate date and time fields.
	TabLayout LayoutVariant = "tab"
	// CommaLayout is the comma-delimited export: one combined "date time" field.
	CommaLayout LayoutVariant = "comma"
)

// Delimiter returns the field separator for the variant.
func (v LayoutVariant) Delimiter() string {
	if v == CommaLayout {
		return ","
	}
	return "\t"
}

// Reading represents a single timestamped sample from the data logger.
// Values maps channel id to the parsed reading; a channel is absent from
// the map when its field was blank, unparsable, or the row was truncated
// before it. Absence is not an error.
type Reading struct {
	Scan           int             `json:"scan" validate:"min=0"`
	Timestamp      time.Time       `json:"timestamp" validate:"required"`
	ElapsedMinutes float64         `json:"elapsed_minutes" validate:"min=0"`
	Values         map[int]float64 `json:"values"`
}

// ParsedLoggerFile is the structured form of one logger export.
// Channels preserves definition order; Rows preserves acquisition order
// and is non-decreasing in ElapsedMinutes. The first row is the ambient
// reference row.
type ParsedLoggerFile struct {
	Metadata map[string]string `json:"metadata"`
	Channels []int             `json:"channels" validate:"required,min=1"`
	Rows     []Reading         `json:"rows" validate:"required,min=1"`
}

// ChannelGroups partitions the channel list into furnace and specimen
// thermocouples. Both slices are sorted ascending and hard-capped
// (5 furnace, 35 specimen); excess channels are dropped from the report.
type ChannelGroups struct {
	Furnace  []int `json:"furnace"`
	Specimen []int `json:"specimen"`
}

// GroupStatistics holds observed peak statistics for one summary series,
// computed in Go over the downsampled rows. These are static echoes on the
// Summary sheet; the live per-row values remain spreadsheet formulas.
type GroupStatistics struct {
	Label     string  `json:"label"`
	Peak      float64 `json:"peak"`
	PeakAtMin float64 `json:"peak_at_min"`
}
