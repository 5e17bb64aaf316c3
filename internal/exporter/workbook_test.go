package exporter

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"thermcli/internal/config"
	apperrors "thermcli/internal/errors"
	"thermcli/pkg/contracts/domain"
)

func testParsedFile() *domain.ParsedLoggerFile {
	base := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	row := func(scan int, minutes float64, values map[int]float64) domain.Reading {
		return domain.Reading{
			Scan:           scan,
			Timestamp:      base.Add(time.Duration(minutes * float64(time.Minute))),
			ElapsedMinutes: minutes,
			Values:         values,
		}
	}
	return &domain.ParsedLoggerFile{
		Metadata: map[string]string{
			"Name":        "Door assembly FD-60",
			"Owner":       "Lab 2",
			"Acquisition": "1 second",
		},
		Channels: []int{101, 102, 103, 301},
		Rows: []domain.Reading{
			row(1, 0, map[int]float64{101: 20.1, 102: 20.3, 103: 19.9, 301: 21.0}),
			row(61, 1, map[int]float64{101: 24.5, 102: 25.0, 301: 350.2}),
			row(121, 2, map[int]float64{101: 31.2, 102: 33.8, 103: 30.0, 301: 520.7}),
		},
	}
}

func testGroups() domain.ChannelGroups {
	return domain.ChannelGroups{
		Specimen: []int{101, 102, 103},
		Furnace:  []int{301},
	}
}

func TestReportBuilder_Build(t *testing.T) {
	builder := NewReportBuilder(nil, config.DefaultReportConfig())
	observed := []domain.GroupStatistics{
		{Label: "Peak mean face rise", Peak: 9.9, PeakAtMin: 2},
	}

	f, err := builder.Build(testParsedFile(), testGroups(), observed, "export_0001.txt")
	require.NoError(t, err)
	defer f.Close()

	t.Run("sheet order", func(t *testing.T) {
		assert.Equal(t,
			[]string{"Summary of Results", "Observations", "Raw Data", "Config"},
			f.GetSheetList())
	})

	t.Run("config sheet clamps window to specimen count", func(t *testing.T) {
		for ref, want := range map[string]string{
			"A3": "Face start TC #",
			"B3": "1",
			"B4": "3", // clamped from 5 to the 3 specimen channels
			"B6": "6",
			"B7": "0", // no channels left after the face window
		} {
			got, err := f.GetCellValue("Config", ref)
			require.NoError(t, err)
			assert.Equal(t, want, got, "cell %s", ref)
		}
	})

	t.Run("metadata block", func(t *testing.T) {
		for ref, want := range map[string]string{
			"A3": "Source file",
			"B3": "export_0001.txt",
			"B4": "Door assembly FD-60",
			"B5": "Lab 2",
			"B6": "1 second",
			"B7": "4",
			"B8": "3",
			"B9": "1",
		} {
			got, err := f.GetCellValue("Raw Data", ref)
			require.NoError(t, err)
			assert.Equal(t, want, got, "cell %s", ref)
		}
	})

	t.Run("header rows", func(t *testing.T) {
		for ref, want := range map[string]string{
			"A13": "Scan",
			"D13": "Elapsed (min)",
			"E12": "TC1",
			"E13": "101",
			"H12": "TC1 ΔT",
			"H13": "ΔT1",
			"K12": "Furnace TC1",
			"K13": "301",
			"L13": "FΔT1",
			"M12": "Summary",
			"M13": "Mean face ΔT",
			"Q13": "Furnace mean ΔT",
		} {
			got, err := f.GetCellValue("Raw Data", ref)
			require.NoError(t, err)
			assert.Equal(t, want, got, "cell %s", ref)
		}
	})

	t.Run("data cells", func(t *testing.T) {
		scan, err := f.GetCellValue("Raw Data", "A14")
		require.NoError(t, err)
		assert.Equal(t, "1", scan)

		v, err := f.GetCellValue("Raw Data", "E16")
		require.NoError(t, err)
		assert.Equal(t, "31.2", v)

		// Channel 103 is absent on the second row; its cell stays blank.
		blank, err := f.GetCellValue("Raw Data", "G15")
		require.NoError(t, err)
		assert.Empty(t, blank)
	})

	t.Run("rise and summary formulas", func(t *testing.T) {
		for ref, want := range map[string]string{
			"H15": `IF(E15="","",E15-E14)`,
			"L16": `IF(K16="","",K16-K14)`,
			"M15": `IF(Config!$B$4=0,"",AVERAGE(OFFSET(H15,0,Config!$B$3-1,1,Config!$B$4)))`,
			"N15": `IF(Config!$B$4=0,"",MAX(OFFSET(H15,0,Config!$B$3-1,1,Config!$B$4)))`,
			"O15": `IF(Config!$B$7=0,"",AVERAGE(OFFSET(H15,0,Config!$B$6-1,1,Config!$B$7)))`,
			"P15": "AVERAGE(K15:K15)",
			"Q15": "AVERAGE(L15:L15)",
		} {
			got, err := f.GetCellFormula("Raw Data", ref)
			require.NoError(t, err)
			assert.Equal(t, want, got, "cell %s", ref)
		}
	})

	t.Run("rise columns hidden", func(t *testing.T) {
		for _, col := range []string{"H", "I", "J", "L"} {
			visible, err := f.GetColVisible("Raw Data", col)
			require.NoError(t, err)
			assert.False(t, visible, "column %s", col)
		}
		visible, err := f.GetColVisible("Raw Data", "E")
		require.NoError(t, err)
		assert.True(t, visible)
	})

	t.Run("summary sheet", func(t *testing.T) {
		for ref, want := range map[string]string{
			"A1":  "Test summary (auto-generated)",
			"B3":  "export_0001.txt",
			"B4":  "3",
			"B5":  "1",
			"A58": "Peak mean face rise",
			"B58": "9.9",
			"C58": "at 2 min",
		} {
			got, err := f.GetCellValue("Summary of Results", ref)
			require.NoError(t, err)
			assert.Equal(t, want, got, "cell %s", ref)
		}
	})
}

func TestReportBuilder_Build_NoFurnace(t *testing.T) {
	builder := NewReportBuilder(nil, config.DefaultReportConfig())
	groups := domain.ChannelGroups{Specimen: []int{101, 102, 103}}

	f, err := builder.Build(testParsedFile(), groups, nil, "export.txt")
	require.NoError(t, err)
	defer f.Close()

	// Summary block follows the specimen rise block directly; the
	// furnace mean columns carry no formula.
	for _, ref := range []string{"N14", "O14"} {
		formula, err := f.GetCellFormula("Raw Data", ref)
		require.NoError(t, err)
		assert.Empty(t, formula, "cell %s", ref)
	}

	header, err := f.GetCellValue("Raw Data", "K13")
	require.NoError(t, err)
	assert.Equal(t, "Mean face ΔT", header)
}

func TestReportBuilder_Save(t *testing.T) {
	builder := NewReportBuilder(nil, config.DefaultReportConfig())
	f, err := builder.Build(testParsedFile(), testGroups(), nil, "export.txt")
	require.NoError(t, err)
	defer f.Close()

	outPath := filepath.Join(t.TempDir(), "report.xlsx")
	require.NoError(t, builder.Save(f, outPath))

	info, err := os.Stat(outPath)
	require.NoError(t, err)
	assert.Greater(t, info.Size(), int64(0))
}

func TestReportBuilder_Save_BadPath(t *testing.T) {
	builder := NewReportBuilder(nil, config.DefaultReportConfig())
	f, err := builder.Build(testParsedFile(), testGroups(), nil, "export.txt")
	require.NoError(t, err)
	defer f.Close()

	err = builder.Save(f, filepath.Join(t.TempDir(), "missing", "report.xlsx"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrTypeStorage, appErr.Type)
}
