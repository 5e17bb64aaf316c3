package dataprocessing

import (
	"math"

	"thermcli/pkg/contracts/domain"
)

// DefaultToleranceSeconds is the standard minute-alignment tolerance.
const DefaultToleranceSeconds = 0.6

// DownsampleFullMinutes reduces the parsed rows to those landing on (or
// within tolSeconds of) whole-minute elapsed marks. Row 0 is the ambient
// reference and is always retained. Retained rows have ElapsedMinutes
// snapped to the whole-minute grid; rows failing tolerance are dropped
// with no interpolation. A distance exactly equal to the tolerance keeps
// the row.
func DownsampleFullMinutes(parsed *domain.ParsedLoggerFile, tolSeconds float64) *domain.ParsedLoggerFile {
	kept := make([]domain.Reading, 0, len(parsed.Rows))
	for idx, r := range parsed.Rows {
		if idx == 0 {
			kept = append(kept, r)
			continue
		}
		elapsedSec := r.ElapsedMinutes * 60.0
		nearest := math.Round(elapsedSec / 60.0)
		dist := math.Abs(elapsedSec - nearest*60.0)
		if dist <= tolSeconds {
			r.ElapsedMinutes = nearest
			kept = append(kept, r)
		}
	}
	return &domain.ParsedLoggerFile{
		Metadata: parsed.Metadata,
		Channels: parsed.Channels,
		Rows:     kept,
	}
}
