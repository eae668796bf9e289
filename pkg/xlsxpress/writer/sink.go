package writer

import (
	"io"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
)

// Sink is a forward-only encode backend. A sheet is opened with AddSheet,
// filled, and finished with EndSheet before the next one is opened. Within
// a sheet, widths and heights precede cells, which arrive in raster order.
type Sink interface {
	// AddSheet opens a sheet. streaming is set when the sheet holds no
	// charts, validations or hyperlinks.
	AddSheet(name string, streaming bool) error
	// AddStyle registers a style and returns its backend index.
	AddStyle(s style.Style) (int, error)
	SetColWidth(sheet string, col uint32, width float64) error
	SetRowHeight(sheet string, row uint32, height float64) error
	WriteCell(sheet string, at coord.Coordinate, v cell.Value, styleIndex int) error
	MergeCells(sheet string, r coord.Range) error
	InsertChart(sheet string, c chart.Chart) error
	AddValidation(sheet string, v validation.Validation) error
	AddHyperlink(sheet string, at coord.Coordinate, link meta.Hyperlink) error
	EndSheet(sheet string) error
	DefineName(n meta.DefinedName) error
	SetDocProps(p meta.DocProps) error
	// WriteTo serializes the workbook.
	WriteTo(w io.Writer) (int64, error)
	Close() error
}
