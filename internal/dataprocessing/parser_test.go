package dataprocessing

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/unicode"

	apperrors "thermcli/internal/errors"
	"thermcli/pkg/contracts/domain"
)

// writeUTF16File encodes content as UTF-16LE with BOM, the encoding the
// vendor logger uses for its exports.
func writeUTF16File(t *testing.T, content string) string {
	t.Helper()
	encoder := unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewEncoder()
	encoded, err := encoder.String(content)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "export.csv")
	require.NoError(t, os.WriteFile(path, []byte(encoded), 0644))
	return path
}

const tabExport = "Name:\tFire resistance test 7\n" +
	"Owner:\tLab 2\n" +
	"Acquisition\t10 sec interval\n" +
	"\n" +
	"Channel\tName\tFunction\n" +
	"1\tTC1\tTemp (C)\n" +
	"2\tTC2\tTemp (C)\n" +
	"305\tFurnace 1\tTemp (C)\n" +
	"Scan\tControl:\tImmediate\n" +
	"Scan\tTime\t1\tAlarm 1\t2\tAlarm 2\t305\tAlarm 305\n" +
	"1\t01/01/2025\t10:00:00:000\t20\t0\t21\t0\t400\t0\n" +
	"2\t01/01/2025\t10:00:10:000\t20.5\t0\t\t0\t410\t0\n" +
	"3\t01/01/2025\t10:01:00:000\t25\t0\t26\t0\n"

const commaExport = "Name,Fire resistance test 7\n" +
	"Owner,Lab 2\n" +
	"Channel,Name,Function\n" +
	"1,TC1,Temp (C)\n" +
	"305,Furnace 1,Temp (C)\n" +
	"Scan,Control:,Immediate\n" +
	"Scan,Time,1,Alarm 1,305,Alarm 305\n" +
	"1,01/01/2025 10:00:00,20,0,400,0\n" +
	"2,01/01/2025 10:00:10,20.5,0,410,0\n" +
	"3,01/01/2025 10:01:00,25,0,420,0\n"

func TestDetectLayout(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  domain.LayoutVariant
	}{
		{
			name:  "tab channel header",
			lines: strings.Split(tabExport, "\n"),
			want:  domain.TabLayout,
		},
		{
			name:  "comma channel header",
			lines: strings.Split(commaExport, "\n"),
			want:  domain.CommaLayout,
		},
		{
			name:  "no header falls back to tab majority",
			lines: []string{"a\tb", "c\td", "e,f"},
			want:  domain.TabLayout,
		},
		{
			name:  "no header falls back to comma majority",
			lines: []string{"a,b", "c,d", "e\tf"},
			want:  domain.CommaLayout,
		},
		{
			name:  "empty input defaults to tab",
			lines: nil,
			want:  domain.TabLayout,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectLayout(tt.lines))
		})
	}
}

func TestExtractMetadata(t *testing.T) {
	lines := strings.Split(tabExport, "\n")
	meta := ExtractMetadata(lines)

	assert.Equal(t, "Fire resistance test 7", meta["Name"])
	assert.Equal(t, "Lab 2", meta["Owner"])
	assert.Equal(t, "10 sec interval", meta["Acquisition"])
	_, ok := meta["Channel"]
	assert.False(t, ok, "unrecognized keys must be ignored")
}

func TestParseChannelTable(t *testing.T) {
	tests := []struct {
		name    string
		content string
		variant domain.LayoutVariant
		want    []int
		wantErr error
	}{
		{
			name:    "tab layout",
			content: tabExport,
			variant: domain.TabLayout,
			want:    []int{1, 2, 305},
		},
		{
			name:    "comma layout",
			content: commaExport,
			variant: domain.CommaLayout,
			want:    []int{1, 305},
		},
		{
			name:    "missing header",
			content: "Name\tx\nScan\tControl:\n",
			variant: domain.TabLayout,
			wantErr: apperrors.ErrStructuralParse,
		},
		{
			name:    "missing end marker",
			content: "Channel\tName\tFunction\n1\tTC1\tTemp\n",
			variant: domain.TabLayout,
			wantErr: apperrors.ErrStructuralParse,
		},
		{
			name:    "no integer channel rows",
			content: "Channel\tName\tFunction\nx\ty\tz\nScan\tControl:\n",
			variant: domain.TabLayout,
			wantErr: apperrors.ErrStructuralParse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			channels, err := ParseChannelTable(strings.Split(tt.content, "\n"), tt.variant)
			if tt.wantErr != nil {
				require.Error(t, err)
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, channels)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		date    string
		time    string
		want    time.Time
		wantErr bool
	}{
		{
			name: "with milliseconds",
			date: "19/11/2025",
			time: "14:30:21:759",
			want: time.Date(2025, 11, 19, 14, 30, 21, 759*int(time.Millisecond), time.UTC),
		},
		{
			name: "without milliseconds",
			date: "01/01/2025",
			time: "10:00:00",
			want: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		{
			name:    "truncated time",
			date:    "01/01/2025",
			time:    "10:00",
			wantErr: true,
		},
		{
			name:    "bad date",
			date:    "2025-01-01",
			time:    "10:00:00",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseTimestamp(tt.date, tt.time)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, apperrors.ErrTimestampParse))
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got))
		})
	}
}

func TestParseTimestampCombined_MatchesSplitFields(t *testing.T) {
	combined, err := parseTimestampCombined("01/01/2025 10:00:00")
	require.NoError(t, err)

	split, err := parseTimestamp("01/01/2025", "10:00:00")
	require.NoError(t, err)

	assert.True(t, combined.Equal(split))
}

func TestParseTimestampCombined_MissingSpace(t *testing.T) {
	_, err := parseTimestampCombined("01/01/2025")
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTimestampParse))
}

func TestParseFile_TabLayout(t *testing.T) {
	path := writeUTF16File(t, tabExport)

	parsed, err := ParseFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 305}, parsed.Channels)
	require.Len(t, parsed.Rows, 3)

	// First row is the ambient reference
	assert.Equal(t, 1, parsed.Rows[0].Scan)
	assert.Zero(t, parsed.Rows[0].ElapsedMinutes)
	assert.InDelta(t, 20.0, parsed.Rows[0].Values[1], 1e-9)
	assert.InDelta(t, 400.0, parsed.Rows[0].Values[305], 1e-9)

	// Second row: blank reading for channel 2 is absent, not zero
	assert.InDelta(t, 10.0/60.0, parsed.Rows[1].ElapsedMinutes, 1e-9)
	_, ok := parsed.Rows[1].Values[2]
	assert.False(t, ok)

	// Third row is truncated before channel 305
	assert.InDelta(t, 1.0, parsed.Rows[2].ElapsedMinutes, 1e-9)
	_, ok = parsed.Rows[2].Values[305]
	assert.False(t, ok)

	// Elapsed time is non-decreasing
	for i := 1; i < len(parsed.Rows); i++ {
		assert.GreaterOrEqual(t, parsed.Rows[i].ElapsedMinutes, parsed.Rows[i-1].ElapsedMinutes)
	}
}

func TestParseFile_CommaLayout(t *testing.T) {
	path := writeUTF16File(t, commaExport)

	parsed, err := ParseFile(context.Background(), path)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 305}, parsed.Channels)
	require.Len(t, parsed.Rows, 3)
	assert.True(t, parsed.Rows[0].Timestamp.Equal(time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)))
	assert.InDelta(t, 20.5, parsed.Rows[1].Values[1], 1e-9)
}

func TestParseFile_MissingScanControlMarker(t *testing.T) {
	content := "Channel\tName\tFunction\n" +
		"1\tTC1\tTemp\n" +
		"Scan\tTime\t1\tAlarm 1\n" +
		"1\t01/01/2025\t10:00:00\t20\t0\n"
	path := writeUTF16File(t, content)

	_, err := ParseFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrStructuralParse))
}

func TestParseFile_MalformedTimeFails(t *testing.T) {
	content := "Channel\tName\tFunction\n" +
		"1\tTC1\tTemp\n" +
		"Scan\tControl:\tImmediate\n" +
		"Scan\tTime\t1\tAlarm 1\n" +
		"1\t01/01/2025\tnot-a-time\t20\t0\n"
	path := writeUTF16File(t, content)

	_, err := ParseFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrTimestampParse))
}

func TestParseFile_NoDataRows(t *testing.T) {
	content := "Channel\tName\tFunction\n" +
		"1\tTC1\tTemp\n" +
		"Scan\tControl:\tImmediate\n" +
		"Scan\tTime\t1\tAlarm 1\n" +
		"junk line without scan number\n"
	path := writeUTF16File(t, content)

	_, err := ParseFile(context.Background(), path)
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperrors.ErrNoData))
}

func TestParseDataRows_SkipsRestatedHeader(t *testing.T) {
	lines := []string{
		"Scan\tTime\t1\tAlarm 1",
		"1\t01/01/2025\t10:00:00\t20\t0",
		"Scan\tTime\t1\tAlarm 1",
		"2\t01/01/2025\t10:00:10\t21\t0",
	}
	rows, err := ParseDataRows(lines, 0, []int{1}, domain.TabLayout)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, 1, rows[0].Scan)
	assert.Equal(t, 2, rows[1].Scan)
}
