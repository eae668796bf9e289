package writer

import (
	"errors"
	"fmt"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
)

// recordingSink logs every call it receives.
type recordingSink struct {
	calls  []string
	styles []style.Style
}

func (r *recordingSink) log(format string, args ...any) error {
	r.calls = append(r.calls, fmt.Sprintf(format, args...))
	return nil
}

func (r *recordingSink) AddSheet(name string, streaming bool) error {
	return r.log("sheet %s streaming=%t", name, streaming)
}

func (r *recordingSink) AddStyle(s style.Style) (int, error) {
	r.styles = append(r.styles, s)
	return len(r.styles), nil
}

func (r *recordingSink) SetColWidth(sheet string, col uint32, width float64) error {
	return r.log("width %d=%g", col, width)
}

func (r *recordingSink) SetRowHeight(sheet string, row uint32, height float64) error {
	return r.log("height %d=%g", row, height)
}

func (r *recordingSink) WriteCell(sheet string, at coord.Coordinate, v cell.Value, styleIndex int) error {
	return r.log("cell %s %s s%d", at, v, styleIndex)
}

func (r *recordingSink) MergeCells(sheet string, rng coord.Range) error {
	return r.log("merge %s", rng)
}

func (r *recordingSink) InsertChart(sheet string, c chart.Chart) error {
	return r.log("chart %s", c.Kind())
}

func (r *recordingSink) AddValidation(sheet string, v validation.Validation) error {
	return r.log("validation %s", v.Range())
}

func (r *recordingSink) AddHyperlink(sheet string, at coord.Coordinate, link meta.Hyperlink) error {
	return r.log("link %s %s", at, link.Target)
}

func (r *recordingSink) EndSheet(sheet string) error { return r.log("end %s", sheet) }

func (r *recordingSink) DefineName(n meta.DefinedName) error { return r.log("name %s", n.Name) }

func (r *recordingSink) SetDocProps(p meta.DocProps) error { return r.log("props %s", p.Title) }

func (r *recordingSink) WriteTo(w io.Writer) (int64, error) { return 0, nil }

func (r *recordingSink) Close() error { return nil }

func TestBuilderReplayOrder(t *testing.T) {
	in := style.NewInterner()
	bold := in.Intern(style.New().WithFont(style.Font{}.WithBold(true)))
	b := NewBuilder(in)

	require.NoError(t, b.AddSheet("Data"))
	require.NoError(t, b.AddSheet("Plain"))

	// collections recorded before cells are still replayed after them
	require.NoError(t, b.Merge("Data", coord.Range{Start: coord.MustNew(5, 0), End: coord.MustNew(5, 1)}))
	require.NoError(t, b.SetRowHeight("Data", 3, 30))
	require.NoError(t, b.SetRowHeight("Data", 1, 18))
	require.NoError(t, b.SetColWidth("Data", 2, 12))
	require.NoError(t, b.SetColWidth("Data", 0, 20))
	require.NoError(t, b.SetCell("Data", coord.MustNew(0, 0), cell.String("Product"), bold))
	require.NoError(t, b.SetCell("Data", coord.MustNew(1, 1), cell.Number(1234.56), style.Handle{}))
	require.NoError(t, b.AddHyperlink("Data", coord.MustNew(0, 0), meta.Hyperlink{Target: "https://example.com"}))
	require.NoError(t, b.SetCell("Plain", coord.MustNew(0, 0), cell.Bool(true), bold))
	b.DefineName(meta.DefinedName{Name: "Totals", RefersTo: "Data!$B$2"})
	b.SetDocProps(meta.DocProps{Title: "Report"})

	sink := &recordingSink{}
	require.NoError(t, b.Replay(sink))

	expected := []string{
		"sheet Data streaming=false",
		"width 0=20",
		"width 2=12",
		"height 1=18",
		"height 3=30",
		"cell A1 string(Product) s1",
		"cell B2 number(1234.56) s0",
		"merge A6:B6",
		"link A1 https://example.com",
		"end Data",
		"sheet Plain streaming=true",
		"cell A1 bool(TRUE) s1",
		"end Plain",
		"name Totals",
		"props Report",
	}
	assert.Equal(t, expected, sink.calls)
	assert.Len(t, sink.styles, 1, "a handle maps to one backend style")

	assert.ErrorIs(t, b.Replay(sink), ErrReplayed)
}

func TestBuilderRasterOrder(t *testing.T) {
	b := NewBuilder(style.NewInterner())
	require.NoError(t, b.AddSheet("S"))

	require.NoError(t, b.SetCell("S", coord.MustNew(1, 3), cell.Number(1), style.Handle{}))

	tests := []struct {
		name string
		at   coord.Coordinate
		err  bool
	}{
		{"same cell", coord.MustNew(1, 3), true},
		{"earlier column", coord.MustNew(1, 2), true},
		{"earlier row", coord.MustNew(0, 9), true},
		{"next column", coord.MustNew(1, 4), false},
		{"next row", coord.MustNew(2, 0), false},
	}
	for _, tt := range tests {
		err := b.SetCell("S", tt.at, cell.Number(2), style.Handle{})
		if tt.err {
			assert.ErrorIs(t, err, ErrOutOfOrder, tt.name)
		} else {
			assert.NoError(t, err, tt.name)
		}
	}
}

func TestBuilderRejections(t *testing.T) {
	b := NewBuilder(style.NewInterner())
	require.NoError(t, b.AddSheet("S"))
	assert.Error(t, b.AddSheet("S"))

	err := b.SetCell("Missing", coord.MustNew(0, 0), cell.Number(1), style.Handle{})
	assert.ErrorIs(t, err, ErrUnknownSheet)

	foreign := style.NewInterner().Intern(style.New().WithFill(style.SolidFill("FF0000")))
	err = b.SetCell("S", coord.MustNew(0, 0), cell.Number(1), foreign)
	var fh *style.ForeignHandleError
	assert.ErrorAs(t, err, &fh)

	err = b.SetCell("S", coord.Coordinate{Row: coord.MaxRows}, cell.Number(1), style.Handle{})
	var oob *coord.OutOfBoundsError
	assert.ErrorAs(t, err, &oob)

	assert.ErrorIs(t, b.InsertChart("S", chart.New(chart.Line)), chart.ErrNoSeries)
	assert.ErrorIs(t, b.AddValidation("S", validation.NewList(coord.Single(coord.MustNew(0, 0)))), validation.ErrEmptyList)
}

func TestBuilderSetRange(t *testing.T) {
	b := NewBuilder(style.NewInterner())
	require.NoError(t, b.AddSheet("S"))
	rows := [][]cell.Value{
		{cell.String("a"), cell.Empty(), cell.String("c")},
		{cell.Number(1), cell.Number(2)},
	}
	require.NoError(t, b.SetRange("S", coord.MustNew(2, 1), rows, style.Handle{}))

	sink := &recordingSink{}
	require.NoError(t, b.Replay(sink))
	assert.Equal(t, []string{
		"sheet S streaming=true",
		"cell B3 string(a) s0",
		"cell D3 string(c) s0",
		"cell B4 number(1) s0",
		"cell C4 number(2) s0",
		"end S",
	}, sink.calls)
}

func TestBuilderDateStyle(t *testing.T) {
	in := style.NewInterner()
	bold := in.Intern(style.New().WithFont(style.Font{}.WithBold(true)))
	b := NewBuilder(in)
	require.NoError(t, b.AddSheet("S"))

	day := cell.Date(time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC))
	require.NoError(t, b.SetCell("S", coord.MustNew(0, 0), day, style.Handle{}))
	require.NoError(t, b.SetCell("S", coord.MustNew(0, 1), day, style.Handle{}))
	require.NoError(t, b.SetCell("S", coord.MustNew(0, 2), day, bold))
	require.NoError(t, b.SetCell("S", coord.MustNew(0, 3), cell.String("x"), bold))

	sink := &recordingSink{}
	require.NoError(t, b.Replay(sink))

	require.Len(t, sink.styles, 3)
	assert.True(t, sink.styles[0].IsDate())
	assert.False(t, sink.styles[0].IsBold())
	assert.True(t, sink.styles[1].IsDate())
	assert.True(t, sink.styles[1].IsBold())
	assert.False(t, sink.styles[2].IsDate())
	assert.Contains(t, sink.calls, "cell D1 string(x) s3")
}

type failingSink struct {
	recordingSink
}

var errSinkFull = errors.New("sink full")

func (f *failingSink) WriteCell(sheet string, at coord.Coordinate, v cell.Value, styleIndex int) error {
	return NewEncodeError(sheet, at.String(), "write cell", errSinkFull)
}

func TestBuilderReplayError(t *testing.T) {
	b := NewBuilder(style.NewInterner())
	require.NoError(t, b.AddSheet("S"))
	require.NoError(t, b.SetCell("S", coord.MustNew(2, 2), cell.Number(1), style.Handle{}))

	err := b.Replay(&failingSink{})
	var ee *EncodeError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "S", ee.Sheet)
	assert.Equal(t, "C3", ee.Cell)
	assert.ErrorIs(t, err, errSinkFull)
	assert.Equal(t, `encode sheet "S" cell C3: write cell: sink full`, err.Error())
}
