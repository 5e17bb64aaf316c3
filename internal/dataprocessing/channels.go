package dataprocessing

import (
	"strconv"
	"strings"

	apperrors "thermcli/internal/errors"
	"thermcli/pkg/contracts/domain"
)

// findChannelBlock returns the half-open line index range of the channel
// definition rows: the line after the table header up to (excluding) the
// "Scan ... Control:" marker that separates the channel table from the
// data header in both layouts.
func findChannelBlock(lines []string, variant domain.LayoutVariant) (int, int, error) {
	header := channelHeaderTab
	if variant == domain.CommaLayout {
		header = channelHeaderComma
	}

	start := -1
	for i, line := range lines {
		if strings.HasPrefix(strings.TrimSpace(line), header) {
			start = i + 1
			break
		}
	}
	if start == -1 {
		return 0, 0, apperrors.NewStructuralError("channel definition table header (Channel Name Function)")
	}

	for i := start; i < len(lines); i++ {
		s := strings.TrimLeft(lines[i], " \t")
		if strings.HasPrefix(s, "Scan") && strings.Contains(s, "Control:") {
			return start, i, nil
		}
	}
	return 0, 0, apperrors.NewStructuralError("end of channel definition block (Scan Control:)")
}

// ParseChannelTable locates and parses the channel definition block,
// returning channel ids in definition order. Rows whose first field is not
// a valid integer are skipped; blank and comment rows are common between
// definitions. Zero resulting channels is a structural failure.
func ParseChannelTable(lines []string, variant domain.LayoutVariant) ([]int, error) {
	start, end, err := findChannelBlock(lines, variant)
	if err != nil {
		return nil, err
	}

	var channels []int
	for _, line := range lines[start:end] {
		parts := splitFields(line, variant)
		if len(parts) == 0 {
			continue
		}
		ch, err := strconv.Atoi(parts[0])
		if err != nil {
			continue
		}
		channels = append(channels, ch)
	}

	if len(channels) == 0 {
		return nil, apperrors.NewAppError(apperrors.ErrTypeStructural,
			"no channels found in channel definition block", nil)
	}
	return channels, nil
}
