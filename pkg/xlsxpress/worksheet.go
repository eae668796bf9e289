package xlsxpress

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/source"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/writer"
)

// Cell is a positioned value with its style.
type Cell struct {
	Coord coord.Coordinate
	Value cell.Value
	Style style.Handle
}

// IsBlank reports whether the cell holds neither a value nor a style.
func (c Cell) IsBlank() bool {
	return c.Value.IsEmpty() && c.Style.IsZero()
}

// edit is a pending change to one coordinate. Parts not set fall through to
// the original cell, or to a blank cell once the coordinate was cleared.
type edit struct {
	value    cell.Value
	hasValue bool
	style    style.Handle
	hasStyle bool
	cleared  bool

	// hidesOriginal is set when the edit was written after a Clear.
	hidesOriginal bool
}

// Worksheet is one sheet of a Workbook.
type Worksheet struct {
	wb   *Workbook
	name string
	// srcName is the sheet's name in the opened file, empty for new sheets.
	srcName string

	edits map[coord.Coordinate]*edit

	merges      []coord.Range
	validations []validation.Validation
	charts      []chart.Chart
	links       map[coord.Coordinate]meta.Hyperlink
	widths      map[uint32]float64
	heights     map[uint32]float64
	names       []meta.DefinedName

	used      coord.Range
	hasUsed   bool
	usedValid bool
}

func newWorksheet(wb *Workbook, name string) *Worksheet {
	return &Worksheet{
		wb:      wb,
		name:    name,
		edits:   make(map[coord.Coordinate]*edit),
		links:   make(map[coord.Coordinate]meta.Hyperlink),
		widths:  make(map[uint32]float64),
		heights: make(map[uint32]float64),
	}
}

// Name returns the sheet name.
func (ws *Worksheet) Name() string { return ws.name }

// Workbook returns the owning workbook.
func (ws *Worksheet) Workbook() *Workbook { return ws.wb }

func (ws *Worksheet) touch(c coord.Coordinate) (*edit, error) {
	if ws.wb.closed {
		return nil, ErrClosed
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	ws.usedValid = false
	e, ok := ws.edits[c]
	switch {
	case !ok:
		e = &edit{}
		ws.edits[c] = e
	case e.cleared:
		e = &edit{hidesOriginal: true}
		ws.edits[c] = e
	}
	return e, nil
}

// SetValue stores v at c, keeping the cell's style.
func (ws *Worksheet) SetValue(c coord.Coordinate, v cell.Value) error {
	e, err := ws.touch(c)
	if err != nil {
		return err
	}
	e.value, e.hasValue = v, true
	return nil
}

// Set infers a cell value from a native Go value and stores it at c.
// Strings are stored as text even when they look like formulas or error
// codes; use SetFormula or cell.Error for those.
func (ws *Worksheet) Set(c coord.Coordinate, raw any) error {
	v, err := cell.Infer(raw)
	if err != nil {
		return err
	}
	return ws.SetValue(c, v)
}

// SetFormula stores formula text at c. A leading "=" is optional.
func (ws *Worksheet) SetFormula(c coord.Coordinate, formula string) error {
	return ws.SetValue(c, cell.Formula(formula))
}

// SetStyle applies a style handle to c, keeping the cell's value.
func (ws *Worksheet) SetStyle(c coord.Coordinate, h style.Handle) error {
	if !ws.wb.styles.Owns(h) {
		return &ForeignHandleError{Handle: h}
	}
	e, err := ws.touch(c)
	if err != nil {
		return err
	}
	e.style, e.hasStyle = h, true
	return nil
}

// SetCell stores a value and a style at c.
func (ws *Worksheet) SetCell(c coord.Coordinate, v cell.Value, h style.Handle) error {
	if !ws.wb.styles.Owns(h) {
		return &ForeignHandleError{Handle: h}
	}
	e, err := ws.touch(c)
	if err != nil {
		return err
	}
	e.value, e.hasValue = v, true
	e.style, e.hasStyle = h, true
	return nil
}

// SetRangeStyle applies a style to every cell of r.
func (ws *Worksheet) SetRangeStyle(r coord.Range, h style.Handle) error {
	if !ws.wb.styles.Owns(h) {
		return &ForeignHandleError{Handle: h}
	}
	for row := r.Start.Row; row <= r.End.Row; row++ {
		for col := r.Start.Col; col <= r.End.Col; col++ {
			if err := ws.SetStyle(coord.Coordinate{Row: row, Col: col}, h); err != nil {
				return err
			}
		}
	}
	return nil
}

// Clear removes the cell at c, including any cell of the opened file and
// the hyperlink on it.
func (ws *Worksheet) Clear(c coord.Coordinate) error {
	if ws.wb.closed {
		return ErrClosed
	}
	if err := c.Validate(); err != nil {
		return err
	}
	ws.usedValid = false
	ws.edits[c] = &edit{cleared: true}
	delete(ws.links, c)
	return nil
}

// Cell returns the cell at c: a pending edit, else the opened file's cell,
// else an empty cell. It never fails for coordinates beyond the used range.
func (ws *Worksheet) Cell(c coord.Coordinate) (Cell, error) {
	if err := c.Validate(); err != nil {
		return Cell{}, err
	}
	e, ok := ws.edits[c]
	if ok && e.cleared {
		return Cell{Coord: c, Value: cell.Empty()}, nil
	}
	if ok && e.hidesOriginal {
		return e.apply(Cell{Coord: c, Value: cell.Empty()}), nil
	}
	if ok && e.hasValue && e.hasStyle {
		return Cell{Coord: c, Value: e.value, Style: e.style}, nil
	}

	orig, err := ws.original(c)
	if err != nil {
		return Cell{}, err
	}
	if ok {
		return e.apply(orig), nil
	}
	return orig, nil
}

// Value returns the value at c.
func (ws *Worksheet) Value(c coord.Coordinate) (cell.Value, error) {
	got, err := ws.Cell(c)
	return got.Value, err
}

// original reads c from the opened file.
func (ws *Worksheet) original(c coord.Coordinate) (Cell, error) {
	if ws.srcName == "" {
		return Cell{Coord: c, Value: cell.Empty()}, nil
	}
	if ws.wb.closed {
		return Cell{}, ErrClosed
	}
	sc, err := ws.wb.src.Cell(ws.srcName, c)
	if err != nil {
		return Cell{}, err
	}
	return ws.importCell(sc)
}

func (ws *Worksheet) importCell(sc source.Cell) (Cell, error) {
	h, err := ws.wb.importStyle(sc.StyleID)
	if err != nil {
		return Cell{}, err
	}
	return Cell{Coord: sc.Coord, Value: sc.Value, Style: h}, nil
}

func (e *edit) apply(orig Cell) Cell {
	if e.hasValue {
		orig.Value = e.value
	}
	if e.hasStyle {
		orig.Style = e.style
	}
	return orig
}

// Walk calls fn for every non-blank cell in raster order, merging the
// opened file with pending edits. This is the traversal Save encodes.
func (ws *Worksheet) Walk(fn func(Cell) error) error {
	return ws.walk(fn, nil)
}

func (ws *Worksheet) walk(fn func(Cell) error, onRow func(source.Row)) error {
	if ws.wb.closed {
		return ErrClosed
	}
	keys := slices.SortedFunc(maps.Keys(ws.edits), coord.Coordinate.Compare)
	ki := 0

	emit := func(c Cell) error {
		if c.IsBlank() {
			return nil
		}
		return fn(c)
	}
	blank := func(at coord.Coordinate) Cell { return Cell{Coord: at, Value: cell.Empty()} }
	emitEdit := func(at coord.Coordinate, orig Cell) error {
		e := ws.edits[at]
		switch {
		case e.cleared:
			return nil
		case e.hidesOriginal:
			return emit(e.apply(blank(at)))
		}
		return emit(e.apply(orig))
	}

	if ws.srcName != "" {
		it, err := ws.wb.src.Rows(ws.srcName)
		if err != nil {
			return err
		}
		defer it.Close()
		for it.Next() {
			row := it.Row()
			if onRow != nil {
				onRow(row)
			}
			for _, sc := range row.Cells {
				for ki < len(keys) && keys[ki].Less(sc.Coord) {
					if err := emitEdit(keys[ki], blank(keys[ki])); err != nil {
						return err
					}
					ki++
				}
				orig, err := ws.importCell(sc)
				if err != nil {
					return err
				}
				if ki < len(keys) && keys[ki] == sc.Coord {
					err = emitEdit(keys[ki], orig)
					ki++
				} else {
					err = emit(orig)
				}
				if err != nil {
					return err
				}
			}
		}
		if err := it.Err(); err != nil {
			return err
		}
	}
	for ; ki < len(keys); ki++ {
		if err := emitEdit(keys[ki], blank(keys[ki])); err != nil {
			return err
		}
	}
	return nil
}

// UsedRange returns the smallest range holding every non-empty or styled
// cell. ok is false for a blank sheet.
func (ws *Worksheet) UsedRange() (r coord.Range, ok bool, err error) {
	if ws.usedValid {
		return ws.used, ws.hasUsed, nil
	}
	var used coord.Range
	var has bool
	err = ws.Walk(func(c Cell) error {
		if !has {
			used, has = coord.Single(c.Coord), true
		} else {
			used = used.Extend(c.Coord)
		}
		return nil
	})
	if err != nil {
		return coord.Range{}, false, err
	}
	ws.used, ws.hasUsed, ws.usedValid = used, has, true
	return used, has, nil
}

// Dimensions returns the number of rows and columns from A1 to the far
// corner of the used range.
func (ws *Worksheet) Dimensions() (rows, cols uint32, err error) {
	r, ok, err := ws.UsedRange()
	if err != nil || !ok {
		return 0, 0, err
	}
	return r.End.Row + 1, r.End.Col + 1, nil
}

// Merge merges the cells of r. It fails with a MergeOverlapError when r
// shares a cell with an existing merged range.
func (ws *Worksheet) Merge(r coord.Range) error {
	if err := r.Start.Validate(); err != nil {
		return err
	}
	if err := r.End.Validate(); err != nil {
		return err
	}
	if r.Start == r.End {
		return &InvalidRangeError{Ref: r.String(), Reason: "a merge needs more than one cell"}
	}
	for _, m := range ws.merges {
		if m.Overlaps(r) {
			return &MergeOverlapError{Sheet: ws.name, Range: r, Existing: m}
		}
	}
	ws.merges = append(ws.merges, r)
	return nil
}

// MergeRef is Merge for a reference such as "A1:B2".
func (ws *Worksheet) MergeRef(ref string) error {
	r, err := coord.ParseRange(ref)
	if err != nil {
		return err
	}
	return ws.Merge(r)
}

// Unmerge removes the merged range equal to r. It reports whether one existed.
func (ws *Worksheet) Unmerge(r coord.Range) bool {
	i := slices.Index(ws.merges, r)
	if i < 0 {
		return false
	}
	ws.merges = slices.Delete(ws.merges, i, i+1)
	return true
}

// MergedRanges returns the merged ranges.
func (ws *Worksheet) MergedRanges() []coord.Range { return slices.Clone(ws.merges) }

// AddValidation attaches a data-validation rule.
func (ws *Worksheet) AddValidation(v validation.Validation) error {
	if err := v.Validate(); err != nil {
		return err
	}
	ws.validations = append(ws.validations, v)
	return nil
}

// Validations returns the data-validation rules.
func (ws *Worksheet) Validations() []validation.Validation { return slices.Clone(ws.validations) }

// RemoveValidation deletes the i-th rule.
func (ws *Worksheet) RemoveValidation(i int) error {
	if i < 0 || i >= len(ws.validations) {
		return fmt.Errorf("validation index %d out of range [0,%d)", i, len(ws.validations))
	}
	ws.validations = slices.Delete(ws.validations, i, i+1)
	return nil
}

// AddChart appends a chart. Charts cannot be changed once added.
func (ws *Worksheet) AddChart(c chart.Chart) error {
	if err := c.Validate(); err != nil {
		return err
	}
	ws.charts = append(ws.charts, c)
	return nil
}

// Charts returns the charts in insertion order.
func (ws *Worksheet) Charts() []chart.Chart { return slices.Clone(ws.charts) }

// RemoveChart deletes the i-th chart.
func (ws *Worksheet) RemoveChart(i int) error {
	if i < 0 || i >= len(ws.charts) {
		return fmt.Errorf("chart index %d out of range [0,%d)", i, len(ws.charts))
	}
	ws.charts = slices.Delete(ws.charts, i, i+1)
	return nil
}

// SetHyperlink links the cell at c and writes the display text, or the
// target when display is empty, as its value. Targets starting with "#" or
// "internal:" point into the workbook, e.g. "#Sheet2!A1".
func (ws *Worksheet) SetHyperlink(c coord.Coordinate, target, display string) error {
	if target == "" {
		return fmt.Errorf("empty hyperlink target at %s", c)
	}
	link := meta.Hyperlink{Target: target, Display: display}
	for _, prefix := range []string{"#", "internal:"} {
		if rest, ok := strings.CutPrefix(target, prefix); ok {
			link.Target, link.Internal = rest, true
		}
	}
	text := display
	if text == "" {
		text = link.Target
	}
	if err := ws.SetValue(c, cell.String(text)); err != nil {
		return err
	}
	ws.links[c] = link
	return nil
}

// Hyperlink returns the link on c.
func (ws *Worksheet) Hyperlink(c coord.Coordinate) (meta.Hyperlink, bool) {
	link, ok := ws.links[c]
	return link, ok
}

// RemoveHyperlink drops the link on c; the cell value stays.
func (ws *Worksheet) RemoveHyperlink(c coord.Coordinate) {
	delete(ws.links, c)
}

// SetColumnWidth sets the width of a column in characters.
func (ws *Worksheet) SetColumnWidth(col uint32, width float64) error {
	if col >= coord.MaxCols {
		return &OutOfBoundsError{Col: col}
	}
	if width < 0 || width > 255 {
		return fmt.Errorf("column width %g outside [0,255]", width)
	}
	ws.widths[col] = width
	return nil
}

// ColumnWidth returns the width set for col, if any.
func (ws *Worksheet) ColumnWidth(col uint32) (float64, bool) {
	w, ok := ws.widths[col]
	return w, ok
}

// SetRowHeight sets the height of a row in points, overriding the opened
// file's height.
func (ws *Worksheet) SetRowHeight(row uint32, height float64) error {
	if row >= coord.MaxRows {
		return &OutOfBoundsError{Row: row}
	}
	if height < 0 || height > 409 {
		return fmt.Errorf("row height %g outside [0,409]", height)
	}
	ws.heights[row] = height
	return nil
}

// DefinedNames returns the names scoped to this sheet.
func (ws *Worksheet) DefinedNames() []meta.DefinedName {
	names := slices.Clone(ws.names)
	for i := range names {
		names[i].Scope = ws.name
	}
	return names
}

// DefineName adds or replaces a name scoped to this sheet.
func (ws *Worksheet) DefineName(name, refersTo string) error {
	n, err := newDefinedName(name, refersTo)
	if err != nil {
		return err
	}
	ws.names = upsertName(ws.names, n)
	return nil
}

// RemoveName deletes a sheet-scoped name. It reports whether it existed.
func (ws *Worksheet) RemoveName(name string) bool {
	var ok bool
	ws.names, ok = removeName(ws.names, name)
	return ok
}

// plan records the sheet into b in the order the encoder needs.
func (ws *Worksheet) plan(b *writer.Builder) error {
	if err := b.AddSheet(ws.name); err != nil {
		return err
	}
	for col, w := range ws.widths {
		if err := b.SetColWidth(ws.name, col, w); err != nil {
			return err
		}
	}

	srcHeights := make(map[uint32]float64)
	err := ws.walk(func(c Cell) error {
		return b.SetCell(ws.name, c.Coord, c.Value, c.Style)
	}, func(row source.Row) {
		if row.Height > 0 {
			srcHeights[row.Index] = row.Height
		}
	})
	if err != nil {
		return err
	}
	maps.Copy(srcHeights, ws.heights)
	for row, h := range srcHeights {
		if err := b.SetRowHeight(ws.name, row, h); err != nil {
			return err
		}
	}

	for _, m := range ws.merges {
		if err := b.Merge(ws.name, m); err != nil {
			return err
		}
	}
	for _, v := range ws.validations {
		if err := b.AddValidation(ws.name, v); err != nil {
			return err
		}
	}
	for _, c := range slices.SortedFunc(maps.Keys(ws.links), coord.Coordinate.Compare) {
		if err := b.AddHyperlink(ws.name, c, ws.links[c]); err != nil {
			return err
		}
	}
	for _, c := range ws.charts {
		if err := b.InsertChart(ws.name, c); err != nil {
			return err
		}
	}
	return nil
}
