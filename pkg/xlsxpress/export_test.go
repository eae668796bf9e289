package xlsxpress

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/models"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
)

func TestExtractModes(t *testing.T) {
	path := writeFixture(t)

	tests := []struct {
		mode        Mode
		wantCharts  int
		wantLinks   bool
		wantStyles  bool
		wantDetails bool
	}{
		{ModeLight, 0, false, false, false},
		{ModeStandard, 1, false, false, true},
		{ModeVerbose, 1, true, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.mode), func(t *testing.T) {
			data, err := Extract(path, testOptions(), ExportOptions{Mode: tt.mode})
			require.NoError(t, err)
			assert.Equal(t, "fixture.xlsx", data.BookName)
			assert.Equal(t, []string{"Sheet1", "Notes"}, data.SheetNames)

			sheet := data.Sheets["Sheet1"]
			require.NotEmpty(t, sheet.Rows)
			first := sheet.Rows[0]
			assert.Equal(t, 1, first.R)
			assert.Equal(t, "Old", first.C["1"])
			assert.Len(t, sheet.Charts, tt.wantCharts)
			assert.Equal(t, tt.wantLinks, first.Links["11"] == "https://example.com/docs")
			assert.Equal(t, tt.wantStyles, strings.Contains(first.Styles["1"], "bold"))
			assert.Equal(t, tt.wantDetails, sheet.Dimensions != nil)
			assert.Equal(t, tt.wantDetails, len(sheet.MergedRanges) == 1)
			assert.Equal(t, tt.wantDetails, data.Names["Counts"] == "Sheet1!$B$2:$B$4")
			assert.Equal(t, tt.wantDetails, data.Properties["title"] == "Fixture")
		})
	}
}

func TestExportValues(t *testing.T) {
	wb := New(testOptions())
	defer wb.Close()
	ws, err := wb.AddSheet("S")
	require.NoError(t, err)
	require.NoError(t, ws.Set(coord.MustNew(0, 0), 3))
	require.NoError(t, ws.Set(coord.MustNew(0, 1), 2.5))
	require.NoError(t, ws.SetFormula(coord.MustNew(0, 2), "=A1*B1"))
	require.NoError(t, ws.SetStyle(coord.MustNew(2, 0), wb.AddStyle(style.New().WithFill(style.SolidFill("FFFF00")))))

	data, err := wb.Export("memory", ExportOptions{Mode: ModeVerbose})
	require.NoError(t, err)
	sheet := data.Sheets["S"]
	require.Len(t, sheet.Rows, 2, "styled blank cells keep their row in verbose mode")
	assert.Equal(t, map[string]any{"1": int64(3), "2": 2.5, "3": "=A1*B1"}, sheet.Rows[0].C)
	assert.Equal(t, map[string]string{"1": "fill:FFFF00"}, sheet.Rows[1].Styles)
	assert.Equal(t, &models.Range{R1: 1, C1: 1, R2: 3, C2: 3}, sheet.Dimensions)
	assert.Nil(t, data.Properties)

	data, err = wb.Export("memory", DefaultExportOptions())
	require.NoError(t, err)
	assert.Len(t, data.Sheets["S"].Rows, 1)
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("verbose")
	require.NoError(t, err)
	assert.Equal(t, ModeVerbose, m)
	_, err = ParseMode("loud")
	assert.Error(t, err)

	yes := true
	assert.True(t, ExportOptions{Mode: ModeLight, IncludeLinks: &yes}.ShouldIncludeLinks())
	assert.False(t, DefaultExportOptions().ShouldIncludeLinks())
}

func TestExportPrintAreas(t *testing.T) {
	wb := New(testOptions())
	defer wb.Close()
	ws, err := wb.AddSheet("Report")
	require.NoError(t, err)
	other, err := wb.AddSheet("Other")
	require.NoError(t, err)
	require.NoError(t, ws.Set(coord.MustNew(0, 0), "x"))
	require.NoError(t, ws.DefineName("_xlnm.Print_Area", "Report!$A$1:$B$2,Report!$D$1:$D$4"))
	require.NoError(t, other.DefineName("_xlnm.Print_Area", "'Other'!$C$3:$E$5"))

	data, err := wb.Export("memory", DefaultExportOptions())
	require.NoError(t, err)
	assert.Equal(t, []models.Range{{R1: 1, C1: 1, R2: 2, C2: 2}, {R1: 1, C1: 4, R2: 4, C2: 4}}, data.Sheets["Report"].PrintAreas)
	assert.Equal(t, []models.Range{{R1: 3, C1: 3, R2: 5, C2: 5}}, data.Sheets["Other"].PrintAreas)

	data, err = wb.Export("memory", ExportOptions{Mode: ModeLight})
	require.NoError(t, err)
	assert.Empty(t, data.Sheets["Report"].PrintAreas)
}
