package writer

import (
	"archive/zip"
	"bytes"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/source"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
)

var when = time.Date(2024, 3, 15, 9, 30, 0, 0, time.UTC)

// encode builds a workbook with two streaming sheets around one holding a
// chart, a validation and a link.
func encode(t *testing.T) []byte {
	t.Helper()
	in := style.NewInterner()
	bold := in.Intern(style.New().WithFont(style.Font{}.WithBold(true)))

	b := NewBuilder(in)
	require.NoError(t, b.AddSheet("Sales Data"))
	require.NoError(t, b.SetColWidth("Sales Data", 1, 24))
	require.NoError(t, b.SetRowHeight("Sales Data", 3, 30))
	require.NoError(t, b.SetRowHeight("Sales Data", 5, 22))
	require.NoError(t, b.SetCell("Sales Data", coord.MustNew(0, 0), cell.String("Product"), bold))
	require.NoError(t, b.SetCell("Sales Data", coord.MustNew(1, 1), cell.Number(1234.56), style.Handle{}))
	require.NoError(t, b.SetCell("Sales Data", coord.MustNew(1, 3), cell.Formula("SUM(B2:C2)"), style.Handle{}))
	require.NoError(t, b.SetCell("Sales Data", coord.MustNew(2, 0), cell.Bool(true), style.Handle{}))
	require.NoError(t, b.SetCell("Sales Data", coord.MustNew(2, 1), cell.Error(cell.ErrNA), style.Handle{}))
	require.NoError(t, b.SetCell("Sales Data", coord.MustNew(5, 2), cell.Date(when), style.Handle{}))
	require.NoError(t, b.SetCell("Sales Data", coord.MustNew(6, 0), cell.Empty(), bold))
	require.NoError(t, b.Merge("Sales Data", coord.Range{Start: coord.MustNew(8, 0), End: coord.MustNew(9, 1)}))

	require.NoError(t, b.AddSheet("Report"))
	for i := range uint32(3) {
		require.NoError(t, b.SetCell("Report", coord.MustNew(i, 0), cell.String(string(rune('a'+i))), style.Handle{}))
		require.NoError(t, b.SetCell("Report", coord.MustNew(i, 1), cell.Number(float64(i+1)), style.Handle{}))
	}
	line := chart.New(chart.Line).WithTitle("Trend").At(coord.MustNew(4, 3)).WithSeries(chart.Series{
		Name:       "Count",
		Categories: "Report!$A$1:$A$3",
		Values:     "Report!$B$1:$B$3",
	})
	require.NoError(t, b.InsertChart("Report", line))
	require.NoError(t, b.AddValidation("Report", validation.NewList(coord.Single(coord.MustNew(0, 4)), "yes", "no")))
	require.NoError(t, b.AddHyperlink("Report", coord.MustNew(0, 0), meta.Hyperlink{Target: "https://example.com"}))
	require.NoError(t, b.AddSheet("Notes"))
	require.NoError(t, b.SetCell("Notes", coord.MustNew(0, 0), cell.String("second streaming sheet"), style.Handle{}))

	b.DefineName(meta.DefinedName{Name: "Counts", RefersTo: "Report!$B$1:$B$3"})
	b.SetDocProps(meta.DocProps{Title: "Quarterly", Creator: "writer tests"})

	sink := NewExcelizeSink(zerolog.Nop())
	defer sink.Close()
	require.NoError(t, b.Replay(sink))

	var buf bytes.Buffer
	_, err := sink.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

func TestExcelizeSinkLayout(t *testing.T) {
	data := encode(t)
	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Sales Data", "Report", "Notes"}, f.GetSheetList())

	width, err := f.GetColWidth("Sales Data", "B")
	require.NoError(t, err)
	assert.Equal(t, 24.0, width)

	for row, expected := range map[int]float64{4: 30, 6: 22} {
		h, err := f.GetRowHeight("Sales Data", row)
		require.NoError(t, err)
		assert.Equal(t, expected, h, "row %d", row)
	}

	merges, err := f.GetMergeCells("Sales Data")
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "A9", merges[0].GetStartAxis())
	assert.Equal(t, "B10", merges[0].GetEndAxis())

	dvs, err := f.GetDataValidations("Report")
	require.NoError(t, err)
	require.Len(t, dvs, 1)
	assert.Equal(t, "E1", dvs[0].Sqref)

	ok, target, err := f.GetCellHyperLink("Report", "A1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://example.com", target)

	names := f.GetDefinedName()
	require.Len(t, names, 1)
	assert.Equal(t, "Counts", names[0].Name)

	props, err := f.GetDocProps()
	require.NoError(t, err)
	assert.Equal(t, "Quarterly", props.Title)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	var charts int
	for _, zf := range zr.File {
		if zf.Name == "xl/charts/chart1.xml" {
			charts++
		}
	}
	assert.Equal(t, 1, charts)
}

func TestExcelizeSinkValues(t *testing.T) {
	src, err := source.Open(encode(t), "", source.Options{Logger: zerolog.Nop()})
	require.NoError(t, err)
	defer src.Close()

	it, err := src.Rows("Sales Data")
	require.NoError(t, err)
	defer it.Close()

	got := make(map[string]source.Cell)
	for it.Next() {
		for _, c := range it.Row().Cells {
			got[c.Coord.String()] = c
		}
	}
	require.NoError(t, it.Err())

	tests := []struct {
		ref      string
		expected cell.Value
	}{
		{"A1", cell.String("Product")},
		{"B2", cell.Number(1234.56)},
		{"D2", cell.Formula("SUM(B2:C2)")},
		{"A3", cell.Bool(true)},
		{"B3", cell.Error(cell.ErrNA)},
		{"C6", cell.Date(when)},
		{"A7", cell.Empty()},
	}
	for _, tt := range tests {
		c, ok := got[tt.ref]
		if !assert.True(t, ok, "%s missing", tt.ref) {
			continue
		}
		assert.True(t, tt.expected.Equal(c.Value), "%s: got %v, expected %v", tt.ref, c.Value, tt.expected)
	}

	st, err := src.(source.StyleSource).Style(got["A7"].StyleID)
	require.NoError(t, err)
	assert.True(t, st.IsBold())
}

func TestExcelizeSinkProtocol(t *testing.T) {
	sink := NewExcelizeSink(zerolog.Nop())
	defer sink.Close()

	_, err := sink.WriteTo(&bytes.Buffer{})
	assert.Error(t, err, "a workbook needs a sheet")

	require.NoError(t, sink.AddSheet("One", true))
	assert.Error(t, sink.AddSheet("Two", true), "previous sheet still open")
	assert.Error(t, sink.WriteCell("Other", coord.MustNew(0, 0), cell.Number(1), 0))

	err = sink.InsertChart("One", chart.New(chart.Bar))
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "One", ee.Sheet)

	require.NoError(t, sink.WriteCell("One", coord.MustNew(0, 0), cell.Number(1), 0))
	require.NoError(t, sink.EndSheet("One"))

	_, err = sink.WriteTo(&bytes.Buffer{})
	assert.NoError(t, err)
}

func TestExcelizeSinkDeterministic(t *testing.T) {
	assert.Equal(t, encode(t), encode(t))
}
