package dataprocessing

import (
	"bufio"
	"os"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	apperrors "thermcli/internal/errors"
)

// ReadLoggerLines reads a logger export file and returns its lines.
// The vendor export is UTF-16 encoded; the decoder honours a BOM when
// present and assumes little-endian otherwise.
func ReadLoggerLines(filePath string) ([]string, error) {
	f, err := os.Open(filePath)
	if err != nil {
		return nil, apperrors.NewStorageError("failed to open input file", err).
			WithContext("path", filePath)
	}
	defer f.Close()

	decoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder()
	scanner := bufio.NewScanner(transform.NewReader(f, decoder))
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimSuffix(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, apperrors.NewStorageError("failed to read input file", err).
			WithContext("path", filePath)
	}

	return lines, nil
}
