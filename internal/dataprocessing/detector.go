package dataprocessing

import (
	"strings"

	"thermcli/pkg/contracts/domain"
)

const (
	channelHeaderTab   = "Channel\tName\tFunction"
	channelHeaderComma = "Channel,Name,Function"

	// detectHeaderWindow bounds the search for the channel table header.
	detectHeaderWindow = 200
	// detectVoteWindow bounds the delimiter majority vote fallback.
	detectVoteWindow = 50
)

// DetectLayout inspects raw lines and decides which of the two known
// export layouts the file uses. The channel table header is authoritative
// when present; otherwise the more frequent delimiter among early lines
// wins. There is no error path: ties and empty files resolve to TabLayout.
func DetectLayout(lines []string) domain.LayoutVariant {
	for i, line := range lines {
		if i >= detectHeaderWindow {
			break
		}
		s := strings.TrimSpace(line)
		if !strings.HasPrefix(s, "Channel") || !strings.Contains(s, "Name") || !strings.Contains(s, "Function") {
			continue
		}
		if strings.Contains(s, channelHeaderTab) {
			return domain.TabLayout
		}
		if strings.Contains(s, channelHeaderComma) {
			return domain.CommaLayout
		}
	}

	// Fallback: majority vote among early lines
	tabHits, commaHits := 0, 0
	for i, line := range lines {
		if i >= detectVoteWindow {
			break
		}
		if strings.Contains(line, "\t") {
			tabHits++
		}
		if strings.Contains(line, ",") {
			commaHits++
		}
	}
	if tabHits >= commaHits {
		return domain.TabLayout
	}
	return domain.CommaLayout
}

// splitFields splits a line by the variant's delimiter and trims each
// field. Some exports pad fields with spaces before markers like Control:.
func splitFields(line string, variant domain.LayoutVariant) []string {
	parts := strings.Split(line, variant.Delimiter())
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts
}
