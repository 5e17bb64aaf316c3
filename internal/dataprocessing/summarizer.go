package dataprocessing

import (
	"log/slog"

	"github.com/montanaflynn/stats"

	"thermcli/pkg/contracts/domain"
)

// SummarizerConfig selects the face and core windows over the specimen
// group. Start values are 1-based offsets, matching the editable Config
// sheet of the generated workbook.
type SummarizerConfig struct {
	FaceStart int
	FaceCount int
	CoreStart int
	CoreCount int
}

// Summarizer computes observed peak statistics over downsampled rows.
// These are static echoes for the Summary sheet; the per-row values in
// the workbook remain live spreadsheet formulas.
type Summarizer struct {
	logger *slog.Logger
	cfg    SummarizerConfig
}

// NewSummarizer creates a summarizer with the given logger and config.
// A nil logger falls back to slog.Default().
func NewSummarizer(logger *slog.Logger, cfg SummarizerConfig) *Summarizer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Summarizer{logger: logger, cfg: cfg}
}

// ObservedStatistics returns the peak mean face rise, peak max face rise,
// and peak mean core rise over all rows, with the elapsed minute each peak
// occurs at. Groups with an empty window are omitted.
func (s *Summarizer) ObservedStatistics(parsed *domain.ParsedLoggerFile, groups domain.ChannelGroups) []domain.GroupStatistics {
	if len(parsed.Rows) == 0 {
		return nil
	}
	ambient := parsed.Rows[0].Values

	face := windowChannels(groups.Specimen, s.cfg.FaceStart, s.cfg.FaceCount)
	core := windowChannels(groups.Specimen, s.cfg.CoreStart, s.cfg.CoreCount)

	type peak struct {
		label string
		chans []int
		agg   func(stats.Float64Data) (float64, error)
	}
	series := []peak{
		{label: "Peak mean face rise", chans: face, agg: stats.Mean},
		{label: "Peak max face rise", chans: face, agg: stats.Max},
		{label: "Peak mean core rise", chans: core, agg: stats.Mean},
	}

	var out []domain.GroupStatistics
	for _, p := range series {
		if len(p.chans) == 0 {
			continue
		}
		var best float64
		var bestAt float64
		found := false
		for _, row := range parsed.Rows {
			rises := riseWindow(row.Values, ambient, p.chans)
			if len(rises) == 0 {
				continue
			}
			v, err := p.agg(rises)
			if err != nil {
				continue
			}
			if !found || v > best {
				best = v
				bestAt = row.ElapsedMinutes
				found = true
			}
		}
		if !found {
			continue
		}
		s.logger.Debug("Observed series peak",
			slog.String("label", p.label),
			slog.Float64("peak", best),
			slog.Float64("at_minute", bestAt))
		out = append(out, domain.GroupStatistics{Label: p.label, Peak: best, PeakAtMin: bestAt})
	}
	return out
}

// windowChannels selects a 1-based window of count channels, clamped to
// the available specimen list. A zero-width or out-of-range window is empty.
func windowChannels(specimen []int, start, count int) []int {
	if start < 1 || count <= 0 {
		return nil
	}
	lo := start - 1
	if lo >= len(specimen) {
		return nil
	}
	hi := lo + count
	if hi > len(specimen) {
		hi = len(specimen)
	}
	return specimen[lo:hi]
}

// riseWindow collects rise values (reading minus ambient) for the given
// channels, skipping channels absent from either row.
func riseWindow(values, ambient map[int]float64, chans []int) stats.Float64Data {
	rises := make(stats.Float64Data, 0, len(chans))
	for _, ch := range chans {
		v, ok := values[ch]
		if !ok {
			continue
		}
		a, ok := ambient[ch]
		if !ok {
			continue
		}
		rises = append(rises, v-a)
	}
	return rises
}
