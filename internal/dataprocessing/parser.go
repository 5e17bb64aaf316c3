package dataprocessing

import (
	"context"
	"log/slog"

	apperrors "thermcli/internal/errors"
	"thermcli/internal/infrastructure"
	"thermcli/pkg/contracts/domain"
)

// ParseFile reads a thermal logger export file and extracts the metadata,
// channel list, and timestamped reading rows.
func ParseFile(ctx context.Context, filePath string) (*domain.ParsedLoggerFile, error) {
	logger := infrastructure.WithComponent(infrastructure.LoggerWithContext(ctx), "parser")

	lines, err := ReadLoggerLines(filePath)
	if err != nil {
		return nil, err
	}

	variant := DetectLayout(lines)
	logger.Info("Detected export layout",
		slog.String("file", filePath),
		slog.String("variant", string(variant)),
		slog.Int("line_count", len(lines)))

	meta := ExtractMetadata(lines)

	channels, err := ParseChannelTable(lines, variant)
	if err != nil {
		return nil, err
	}
	logger.Info("Parsed channel definition table", slog.Int("channel_count", len(channels)))

	headerIdx, err := findDataHeader(lines, variant)
	if err != nil {
		return nil, err
	}

	rows, err := ParseDataRows(lines, headerIdx, channels, variant)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNoDataError(filePath)
	}

	logger.Info("Parsing complete",
		slog.Int("row_count", len(rows)),
		slog.Float64("span_minutes", rows[len(rows)-1].ElapsedMinutes))

	return &domain.ParsedLoggerFile{
		Metadata: meta,
		Channels: channels,
		Rows:     rows,
	}, nil
}
