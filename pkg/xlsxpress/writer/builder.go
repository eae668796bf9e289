// Package writer accumulates workbook write instructions and replays them,
// in one forward pass, into an encode backend.
package writer

import (
	"fmt"
	"maps"
	"slices"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
)

type cellOp struct {
	at    coord.Coordinate
	value cell.Value
	style style.Handle
}

type linkOp struct {
	at   coord.Coordinate
	link meta.Hyperlink
}

type sheetPlan struct {
	name        string
	widths      map[uint32]float64
	heights     map[uint32]float64
	cells       []cellOp
	merges      []coord.Range
	validations []validation.Validation
	links       []linkOp
	charts      []chart.Chart
}

// streaming reports whether the sheet only needs features the constant
// memory encoder supports.
func (p *sheetPlan) streaming() bool {
	return len(p.charts) == 0 && len(p.validations) == 0 && len(p.links) == 0
}

// Builder records write instructions per sheet. Cells of a sheet must be
// added in raster order; everything else may arrive in any order and is
// replayed in a fixed order: widths, heights, cells, merges, validations,
// hyperlinks, charts. Defined names and document properties follow the
// last sheet.
type Builder struct {
	styles   *style.Interner
	sheets   []*sheetPlan
	byName   map[string]*sheetPlan
	names    []meta.DefinedName
	props    meta.DocProps
	replayed bool
}

// NewBuilder returns a builder resolving style handles through styles.
func NewBuilder(styles *style.Interner) *Builder {
	return &Builder{
		styles: styles,
		byName: make(map[string]*sheetPlan),
	}
}

func (b *Builder) plan(sheet string) (*sheetPlan, error) {
	p, ok := b.byName[sheet]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSheet, sheet)
	}
	return p, nil
}

// AddSheet appends a sheet. Sheets are written in the order added.
func (b *Builder) AddSheet(name string) error {
	if _, ok := b.byName[name]; ok {
		return fmt.Errorf("sheet %q added twice", name)
	}
	p := &sheetPlan{
		name:    name,
		widths:  make(map[uint32]float64),
		heights: make(map[uint32]float64),
	}
	b.sheets = append(b.sheets, p)
	b.byName[name] = p
	return nil
}

// SetColWidth records the width of a column in characters.
func (b *Builder) SetColWidth(sheet string, col uint32, width float64) error {
	p, err := b.plan(sheet)
	if err != nil {
		return err
	}
	if col >= coord.MaxCols {
		return &coord.OutOfBoundsError{Row: 0, Col: col}
	}
	p.widths[col] = width
	return nil
}

// SetRowHeight records the height of a row in points.
func (b *Builder) SetRowHeight(sheet string, row uint32, height float64) error {
	p, err := b.plan(sheet)
	if err != nil {
		return err
	}
	if row >= coord.MaxRows {
		return &coord.OutOfBoundsError{Row: row, Col: 0}
	}
	p.heights[row] = height
	return nil
}

// SetCell appends a cell. at must come strictly after the previous cell of
// the sheet in raster order, otherwise ErrOutOfOrder is returned.
func (b *Builder) SetCell(sheet string, at coord.Coordinate, v cell.Value, h style.Handle) error {
	p, err := b.plan(sheet)
	if err != nil {
		return err
	}
	if err := at.Validate(); err != nil {
		return err
	}
	if !b.styles.Owns(h) {
		return &style.ForeignHandleError{Handle: h}
	}
	if n := len(p.cells); n > 0 && !p.cells[n-1].at.Less(at) {
		return fmt.Errorf("%w: %s after %s on %q", ErrOutOfOrder, at, p.cells[n-1].at, sheet)
	}
	p.cells = append(p.cells, cellOp{at: at, value: v, style: h})
	return nil
}

// SetRange appends a block of values anchored at origin, row by row, all
// sharing one style. Empty values are skipped unless styled.
func (b *Builder) SetRange(sheet string, origin coord.Coordinate, rows [][]cell.Value, h style.Handle) error {
	for i, row := range rows {
		for j, v := range row {
			if v.IsEmpty() && h.IsZero() {
				continue
			}
			at, err := coord.New(origin.Row+uint32(i), origin.Col+uint32(j))
			if err != nil {
				return err
			}
			if err := b.SetCell(sheet, at, v, h); err != nil {
				return err
			}
		}
	}
	return nil
}

// Merge records a merged range.
func (b *Builder) Merge(sheet string, r coord.Range) error {
	p, err := b.plan(sheet)
	if err != nil {
		return err
	}
	p.merges = append(p.merges, r)
	return nil
}

// InsertChart records a chart.
func (b *Builder) InsertChart(sheet string, c chart.Chart) error {
	p, err := b.plan(sheet)
	if err != nil {
		return err
	}
	if err := c.Validate(); err != nil {
		return err
	}
	p.charts = append(p.charts, c)
	return nil
}

// AddValidation records a data-validation rule.
func (b *Builder) AddValidation(sheet string, v validation.Validation) error {
	p, err := b.plan(sheet)
	if err != nil {
		return err
	}
	if err := v.Validate(); err != nil {
		return err
	}
	p.validations = append(p.validations, v)
	return nil
}

// AddHyperlink records a link on the cell at.
func (b *Builder) AddHyperlink(sheet string, at coord.Coordinate, link meta.Hyperlink) error {
	p, err := b.plan(sheet)
	if err != nil {
		return err
	}
	p.links = append(p.links, linkOp{at: at, link: link})
	return nil
}

// DefineName records a defined name.
func (b *Builder) DefineName(n meta.DefinedName) {
	b.names = append(b.names, n)
}

// SetDocProps records the document properties.
func (b *Builder) SetDocProps(p meta.DocProps) {
	b.props = p
}

// Replay drives sink through every recorded instruction. A builder can be
// replayed once.
func (b *Builder) Replay(sink Sink) error {
	if b.replayed {
		return ErrReplayed
	}
	b.replayed = true

	rs := &replayState{b: b, sink: sink, indices: make(map[styleKey]int)}
	for _, p := range b.sheets {
		if err := rs.sheet(p); err != nil {
			return err
		}
	}
	for _, n := range b.names {
		if err := sink.DefineName(n); err != nil {
			return err
		}
	}
	if !b.props.IsZero() {
		if err := sink.SetDocProps(b.props); err != nil {
			return err
		}
	}
	return nil
}

// styleKey identifies a backend style: a handle, optionally with a date
// number format forced onto it.
type styleKey struct {
	handle style.Handle
	date   bool
}

type replayState struct {
	b       *Builder
	sink    Sink
	indices map[styleKey]int
}

func (rs *replayState) sheet(p *sheetPlan) error {
	sink := rs.sink
	if err := sink.AddSheet(p.name, p.streaming()); err != nil {
		return err
	}
	for _, col := range slices.Sorted(maps.Keys(p.widths)) {
		if err := sink.SetColWidth(p.name, col, p.widths[col]); err != nil {
			return err
		}
	}
	for _, row := range slices.Sorted(maps.Keys(p.heights)) {
		if err := sink.SetRowHeight(p.name, row, p.heights[row]); err != nil {
			return err
		}
	}
	for _, op := range p.cells {
		idx, err := rs.styleIndex(op.style, op.value.Kind() == cell.KindDate)
		if err != nil {
			return err
		}
		if err := sink.WriteCell(p.name, op.at, op.value, idx); err != nil {
			return err
		}
	}
	for _, r := range p.merges {
		if err := sink.MergeCells(p.name, r); err != nil {
			return err
		}
	}
	for _, v := range p.validations {
		if err := sink.AddValidation(p.name, v); err != nil {
			return err
		}
	}
	for _, l := range p.links {
		if err := sink.AddHyperlink(p.name, l.at, l.link); err != nil {
			return err
		}
	}
	for _, c := range p.charts {
		if err := sink.InsertChart(p.name, c); err != nil {
			return err
		}
	}
	return sink.EndSheet(p.name)
}

// styleIndex maps a handle to a backend index on first use. Date values
// whose style carries no date format get a derived style that does, so they
// read back as dates.
func (rs *replayState) styleIndex(h style.Handle, date bool) (int, error) {
	st, err := rs.b.styles.Resolve(h)
	if err != nil {
		return 0, err
	}
	key := styleKey{handle: h, date: date && !st.IsDate()}
	if idx, ok := rs.indices[key]; ok {
		return idx, nil
	}
	if key.date {
		st = st.WithNumberFormat(style.DateTimeFormat())
	}
	idx := 0
	if !st.IsZero() {
		if idx, err = rs.sink.AddStyle(st); err != nil {
			return 0, err
		}
	}
	rs.indices[key] = idx
	return idx, nil
}
