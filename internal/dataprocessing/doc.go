// Package dataprocessing converts raw thermal data-logger exports into
// structured, downsampled reading sets ready for report generation.
//
// # Architecture
//
// The package is organized as a linear pipeline:
//
// 1. Reader: decodes the UTF-16 vendor export into lines
// 2. Detector: picks the delimiter/layout variant (tab or comma)
// 3. Parsers: metadata fields, channel definition table, data rows
// 4. Downsampler: reduces 10-second data to whole elapsed minutes
// 5. Classifier: partitions channels into furnace and specimen groups
// 6. Summarizer: computes observed peak statistics per summary group
//
// # Usage
//
// Basic parsing example:
//
//	parsed, err := dataprocessing.ParseFile(ctx, "export.txt")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	sampled := dataprocessing.DownsampleFullMinutes(parsed, 0.6)
//	groups := dataprocessing.ClassifyChannels(sampled.Channels, 300, 400)
//
// # Error Handling
//
// Three fatal error types abort a run: a missing section or marker
// (STRUCTURAL_PARSE), a malformed timestamp (TIMESTAMP_PARSE), and a file
// that yields zero usable rows (NO_DATA). Row-level anomalies such as
// blank readings, truncated rows, or re-stated header lines are tolerated
// by skipping the offending unit.
package dataprocessing
