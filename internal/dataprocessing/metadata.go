package dataprocessing

import (
	"strings"
)

// metadataWindow bounds the header scan: metadata always precedes the
// channel table in both export layouts.
const metadataWindow = 60

// metadataFields is the fixed set of recognized header field names.
var metadataFields = map[string]bool{
	"Name":             true,
	"Owner":            true,
	"Comments":         true,
	"Total":            true,
	"Acquisition":      true,
	"Acquisition Date": true,
}

// ExtractMetadata pulls free-form key/value header fields from the first
// lines of the export. Each line is split on tab when one is present,
// comma otherwise; the key has any trailing colon stripped and the value
// is the remaining non-empty fields joined with a single space.
// Unrecognized keys are ignored; missing fields are simply absent.
func ExtractMetadata(lines []string) map[string]string {
	meta := make(map[string]string)
	for i, line := range lines {
		if i >= metadataWindow {
			break
		}

		var parts []string
		if strings.Contains(line, "\t") {
			parts = strings.Split(line, "\t")
		} else {
			parts = strings.Split(line, ",")
		}
		for j := range parts {
			parts[j] = strings.TrimSpace(parts[j])
		}
		if len(parts) == 0 {
			continue
		}

		key := strings.TrimSuffix(parts[0], ":")
		if !metadataFields[key] {
			continue
		}

		var fields []string
		for _, p := range parts[1:] {
			if p != "" {
				fields = append(fields, p)
			}
		}
		meta[key] = strings.Join(fields, " ")
	}
	return meta
}
