// Package source decodes existing workbooks into a read-only, row-streaming
// view. Each file format is a backend behind the Source interface.
package source

import (
	"errors"
	"fmt"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
)

// ErrUnsupportedFormat indicates a container no backend can decode.
var ErrUnsupportedFormat = errors.New("unsupported workbook format")

// Cell is a non-empty or styled source cell.
type Cell struct {
	Coord coord.Coordinate
	Value cell.Value
	// StyleID is the backend style index, 0 for the default style.
	StyleID int
}

// Row is a source row. Rows without cells are only produced when they carry
// a custom height.
type Row struct {
	Index  uint32
	Height float64 // 0 means default
	Cells  []Cell
}

// RowIterator walks the rows of one sheet in ascending order.
//
//	for it.Next() {
//		row := it.Row()
//	}
//	if err := it.Err(); err != nil { ... }
type RowIterator interface {
	Next() bool
	Row() Row
	Err() error
	Close() error
}

// Source is a decoded workbook.
type Source interface {
	// SheetNames returns the worksheet names in workbook order.
	SheetNames() []string
	// Rows returns a fresh iterator over the sheet.
	Rows(sheet string) (RowIterator, error)
	// Dimensions returns the number of rows and columns spanned from A1 to
	// the last used cell.
	Dimensions(sheet string) (rows, cols uint32, err error)
	Close() error
}

// StyleSource is implemented by backends that expose their style table.
type StyleSource interface {
	Style(id int) (style.Style, error)
}

// SheetFeatures are the worksheet-level collections of a source sheet.
type SheetFeatures struct {
	Merges      []coord.Range
	Validations []validation.Validation
	Charts      []chart.Chart
	Hyperlinks  map[coord.Coordinate]meta.Hyperlink
	// ColWidths maps zero-based columns to their width in characters.
	ColWidths map[uint32]float64
}

// FeatureSource is implemented by backends that decode more than cell data.
type FeatureSource interface {
	Features(sheet string) (SheetFeatures, error)
	DefinedNames() ([]meta.DefinedName, error)
	DocProps() (meta.DocProps, error)
}

// DecodeError is returned when a source cannot be decoded.
type DecodeError struct {
	Sheet  string // empty for workbook-level failures
	Offset int64  // byte offset within the sheet part, or -1
	Reason string
	Err    error
}

func (e *DecodeError) Error() string {
	msg := "decode"
	if e.Sheet != "" {
		msg += fmt.Sprintf(" sheet %q", e.Sheet)
	}
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset %d", e.Offset)
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// NewDecodeError creates a DecodeError without a byte offset.
func NewDecodeError(sheet, reason string, err error) *DecodeError {
	return &DecodeError{
		Sheet:  sheet,
		Offset: -1,
		Reason: reason,
		Err:    err,
	}
}

// SheetNotFoundError is returned for an unknown sheet name.
type SheetNotFoundError struct {
	Name string
}

func (e *SheetNotFoundError) Error() string {
	return fmt.Sprintf("sheet %q not found", e.Name)
}
