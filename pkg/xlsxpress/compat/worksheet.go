package compat

import (
	"errors"
	"fmt"
	"iter"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

// ErrorValue is the value of a cell holding an error literal such as
// "#N/A". It keeps error cells apart from text that reads the same.
type ErrorValue string

func (e ErrorValue) String() string { return string(e) }

// Cell is a cell position with its value as a plain Go value: nil, string,
// float64, bool, time.Time or ErrorValue. Formulas read as their text with a
// leading "=".
type Cell struct {
	Row    int // 1-based
	Column int // 1-based
	Value  any
}

// Coordinate returns the A1 reference of c.
func (c Cell) Coordinate() string {
	return coord.FormatReference(coord.Coordinate{Row: uint32(c.Row - 1), Col: uint32(c.Column - 1)})
}

func newCell(c xlsxpress.Cell) Cell {
	return Cell{Row: int(c.Coord.Row) + 1, Column: int(c.Coord.Col) + 1, Value: plain(c.Value)}
}

func plain(v cell.Value) any {
	if code, ok := v.ErrorCode(); ok {
		return ErrorValue(code)
	}
	return v.Interface()
}

// toValue is cell.Infer with ErrorValue mapped to an error literal.
func toValue(raw any) (cell.Value, error) {
	if e, ok := raw.(ErrorValue); ok {
		return cell.Error(string(e)), nil
	}
	return cell.Infer(raw)
}

// Bounds limits IterRows and IterCols. Numbers are 1-based and inclusive.
// Zero minimums start at 1; zero maximums stop at the sheet dimensions.
type Bounds struct {
	MinRow, MaxRow int
	MinCol, MaxCol int
}

// Worksheet wraps an xlsxpress.Worksheet.
type Worksheet struct {
	ws *xlsxpress.Worksheet
}

// Unwrap returns the underlying worksheet.
func (w *Worksheet) Unwrap() *xlsxpress.Worksheet { return w.ws }

// Title returns the sheet name.
func (w *Worksheet) Title() string { return w.ws.Name() }

// position converts 1-based numbers to a coordinate.
func position(row, column int) (coord.Coordinate, error) {
	if row < 1 || column < 1 {
		return coord.Coordinate{}, &xlsxpress.InvalidRangeError{
			Ref:    fmt.Sprintf("row %d, column %d", row, column),
			Reason: "rows and columns start at 1",
		}
	}
	return coord.New(uint32(min(row-1, coord.MaxRows)), uint32(min(column-1, coord.MaxCols)))
}

// Get returns the cell at an A1 reference.
func (w *Worksheet) Get(ref string) (Cell, error) {
	c, err := coord.ParseReference(ref)
	if err != nil {
		return Cell{}, err
	}
	return w.at(c)
}

// Set stores v at an A1 reference. v is converted with cell.Infer; pass a
// cell.Value to store a formula, or an ErrorValue to store an error.
func (w *Worksheet) Set(ref string, v any) error {
	c, err := coord.ParseReference(ref)
	if err != nil {
		return err
	}
	return w.store(c, v)
}

// Cell returns the cell at a 1-based row and column.
func (w *Worksheet) Cell(row, column int) (Cell, error) {
	c, err := position(row, column)
	if err != nil {
		return Cell{}, err
	}
	return w.at(c)
}

// SetCell stores v at a 1-based row and column.
func (w *Worksheet) SetCell(row, column int, v any) error {
	c, err := position(row, column)
	if err != nil {
		return err
	}
	return w.store(c, v)
}

func (w *Worksheet) store(c coord.Coordinate, raw any) error {
	v, err := toValue(raw)
	if err != nil {
		return err
	}
	return w.ws.SetValue(c, v)
}

func (w *Worksheet) at(c coord.Coordinate) (Cell, error) {
	xc, err := w.ws.Cell(c)
	if err != nil {
		return Cell{}, err
	}
	return newCell(xc), nil
}

// Append writes values into the row below the last used one, starting at
// column A. nil leaves a cell untouched. Nothing is written if any value
// cannot be converted.
func (w *Worksheet) Append(values ...any) error {
	converted := make([]cell.Value, len(values))
	for i, raw := range values {
		v, err := toValue(raw)
		if err != nil {
			return err
		}
		converted[i] = v
	}
	rows, _, err := w.ws.Dimensions()
	if err != nil {
		return err
	}
	for i, v := range converted {
		if v.IsEmpty() {
			continue
		}
		c, err := coord.New(rows, uint32(i))
		if err != nil {
			return err
		}
		if err := w.ws.SetValue(c, v); err != nil {
			return err
		}
	}
	return nil
}

// MaxRow returns the last used row number, or 0 for an empty sheet.
func (w *Worksheet) MaxRow() (int, error) {
	rows, _, err := w.ws.Dimensions()
	return int(rows), err
}

// MaxColumn returns the last used column number, or 0 for an empty sheet.
func (w *Worksheet) MaxColumn() (int, error) {
	_, cols, err := w.ws.Dimensions()
	return int(cols), err
}

// resolve fills the zero fields of b from the sheet dimensions.
func (w *Worksheet) resolve(b Bounds) (Bounds, error) {
	rows, cols, err := w.ws.Dimensions()
	if err != nil {
		return b, err
	}
	b.MinRow, b.MinCol = max(b.MinRow, 1), max(b.MinCol, 1)
	if b.MaxRow == 0 {
		b.MaxRow = int(rows)
	}
	if b.MaxCol == 0 {
		b.MaxCol = int(cols)
	}
	return b, nil
}

// IterRows yields the cells of the bounded rectangle one row at a time,
// including empty ones.
func (w *Worksheet) IterRows(b Bounds) iter.Seq2[[]Cell, error] {
	return w.iterate(b, false)
}

// IterCols yields the cells of the bounded rectangle one column at a time,
// including empty ones.
func (w *Worksheet) IterCols(b Bounds) iter.Seq2[[]Cell, error] {
	return w.iterate(b, true)
}

func (w *Worksheet) iterate(b Bounds, byColumn bool) iter.Seq2[[]Cell, error] {
	return func(yield func([]Cell, error) bool) {
		b, err := w.resolve(b)
		if err != nil {
			yield(nil, err)
			return
		}
		outerLo, outerHi, innerLo, innerHi := b.MinRow, b.MaxRow, b.MinCol, b.MaxCol
		if byColumn {
			outerLo, outerHi, innerLo, innerHi = b.MinCol, b.MaxCol, b.MinRow, b.MaxRow
		}
		for i := outerLo; i <= outerHi; i++ {
			line := make([]Cell, 0, max(innerHi-innerLo+1, 0))
			for j := innerLo; j <= innerHi; j++ {
				row, col := i, j
				if byColumn {
					row, col = j, i
				}
				c, err := w.Cell(row, col)
				if err != nil {
					yield(nil, err)
					return
				}
				line = append(line, c)
			}
			if !yield(line, nil) {
				return
			}
		}
	}
}

var errStop = errors.New("stop")

// Rows yields the cells of each row that holds a value or a style, in the
// order a save writes them. Styled cells without a value come with a nil
// Value.
func (w *Worksheet) Rows() iter.Seq2[[]Cell, error] {
	return func(yield func([]Cell, error) bool) {
		var line []Cell
		err := w.ws.Walk(func(xc xlsxpress.Cell) error {
			c := newCell(xc)
			if len(line) > 0 && line[0].Row != c.Row {
				if !yield(line, nil) {
					return errStop
				}
				line = nil
			}
			line = append(line, c)
			return nil
		})
		switch {
		case errors.Is(err, errStop):
		case err != nil:
			yield(nil, err)
		case len(line) > 0:
			yield(line, nil)
		}
	}
}

// MergeCells merges a range such as "A1:B2".
func (w *Worksheet) MergeCells(ref string) error {
	return w.ws.MergeRef(ref)
}

// UnmergeCells removes the merged range ref.
func (w *Worksheet) UnmergeCells(ref string) error {
	r, err := coord.ParseRange(ref)
	if err != nil {
		return err
	}
	if !w.ws.Unmerge(r) {
		return fmt.Errorf("range %s on sheet %q is not merged", ref, w.Title())
	}
	return nil
}

// ToList returns the values from A1 to the far corner of the used range as
// a dense grid. Empty cells are nil.
func (w *Worksheet) ToList() ([][]any, error) {
	rows, cols, err := w.ws.Dimensions()
	if err != nil {
		return nil, err
	}
	grid := make([][]any, rows)
	for i := range grid {
		grid[i] = make([]any, cols)
	}
	err = w.ws.Walk(func(c xlsxpress.Cell) error {
		grid[c.Coord.Row][c.Coord.Col] = plain(c.Value)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return grid, nil
}
