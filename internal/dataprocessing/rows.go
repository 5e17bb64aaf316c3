package dataprocessing

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	apperrors "thermcli/internal/errors"
	"thermcli/pkg/contracts/domain"
)

// timePattern matches hh:mm:ss with an optional millisecond group, the
// two time encodings seen in vendor exports.
var timePattern = regexp.MustCompile(`^(\d{1,2}):(\d{2}):(\d{2})(?::(\d{1,3}))?$`)

// parseTimestamp reconstructs a timestamp from separate date (dd/mm/yyyy)
// and time (hh:mm:ss[:fff]) fields, as found in the tab layout.
func parseTimestamp(dateStr, timeStr string) (time.Time, error) {
	d, err := time.Parse("02/01/2006", strings.TrimSpace(dateStr))
	if err != nil {
		return time.Time{}, apperrors.NewTimestampError(dateStr)
	}

	m := timePattern.FindStringSubmatch(strings.TrimSpace(timeStr))
	if m == nil {
		return time.Time{}, apperrors.NewTimestampError(timeStr)
	}
	hh, _ := strconv.Atoi(m[1])
	mm, _ := strconv.Atoi(m[2])
	ss, _ := strconv.Atoi(m[3])
	millis := 0
	if m[4] != "" {
		millis, _ = strconv.Atoi(m[4])
	}

	return time.Date(d.Year(), d.Month(), d.Day(), hh, mm, ss, millis*int(time.Millisecond), time.UTC), nil
}

// parseTimestampCombined handles the comma layout's single "date time"
// field, split on the first space.
func parseTimestampCombined(s string) (time.Time, error) {
	trimmed := strings.TrimSpace(s)
	dateStr, timeStr, found := strings.Cut(trimmed, " ")
	if !found {
		return time.Time{}, apperrors.NewTimestampError(s)
	}
	return parseTimestamp(dateStr, timeStr)
}

// parseOptionalFloat is the explicit present/absent parse for tolerated
// reading fields. A blank or unparsable field yields absent, never an error.
func parseOptionalFloat(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// findDataHeader locates the data table header, a line beginning with
// Scan then Time under the detected delimiter convention.
func findDataHeader(lines []string, variant domain.LayoutVariant) (int, error) {
	prefix := "Scan\tTime"
	if variant == domain.CommaLayout {
		prefix = "Scan,Time"
	}
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), prefix) {
			return i, nil
		}
	}
	return 0, apperrors.NewStructuralError("data table header (Scan Time)")
}

// ParseDataRows parses every non-blank line after the data header into a
// timestamped reading set. Each channel occupies two consecutive value
// columns (reading, alarm flag); only the reading column is consumed.
// Elapsed minutes are computed from the first row's timestamp.
//
// Tolerated by skipping: rows with an unparsable scan number, re-stated
// header lines embedded in the data region, and truncated rows (channels
// past the truncation point are simply absent). A malformed timestamp is
// the one hard failure inside row parsing.
func ParseDataRows(lines []string, headerIdx int, channels []int, variant domain.LayoutVariant) ([]domain.Reading, error) {
	var rows []domain.Reading
	var firstTS time.Time

	for _, line := range lines[headerIdx+1:] {
		if strings.TrimSpace(line) == "" {
			continue
		}

		parts := splitFields(line, variant)
		if len(parts) < 3 {
			continue
		}

		// Re-stated header lines appear when the logger restarts mid-acquisition
		if strings.HasPrefix(strings.ToLower(parts[0]), "scan") &&
			strings.Contains(strings.ToLower(parts[1]), "time") {
			continue
		}

		scan, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}

		var ts time.Time
		var dataStart int
		if variant == domain.TabLayout {
			if len(parts) < 4 {
				continue
			}
			ts, err = parseTimestamp(parts[1], parts[2])
			if err != nil {
				return nil, err
			}
			dataStart = 3
		} else {
			ts, err = parseTimestampCombined(parts[1])
			if err != nil {
				return nil, err
			}
			dataStart = 2
		}

		if firstTS.IsZero() {
			firstTS = ts
		}
		elapsedMin := ts.Sub(firstTS).Seconds() / 60.0

		values := make(map[int]float64, len(channels))
		for ci, ch := range channels {
			vIdx := dataStart + ci*2
			if vIdx >= len(parts) {
				break
			}
			if v, ok := parseOptionalFloat(parts[vIdx]); ok {
				values[ch] = v
			}
		}

		rows = append(rows, domain.Reading{
			Scan:           scan,
			Timestamp:      ts,
			ElapsedMinutes: elapsedMin,
			Values:         values,
		})
	}

	return rows, nil
}
