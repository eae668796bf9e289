package source

import (
	"cmp"
	"slices"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

// sheetData is a fully decoded sheet, used by backends whose libraries load
// a whole sheet at once.
type sheetData struct {
	name string
	rows []Row
}

func (s *sheetData) dimensions() (rows, cols uint32) {
	for _, r := range s.rows {
		for _, c := range r.Cells {
			rows = max(rows, c.Coord.Row+1)
			cols = max(cols, c.Coord.Col+1)
		}
	}
	return rows, cols
}

// appendCell adds c to the sheet. Cells must arrive in raster order.
func (s *sheetData) appendCell(c Cell) {
	if n := len(s.rows); n == 0 || s.rows[n-1].Index != c.Coord.Row {
		s.rows = append(s.rows, Row{Index: c.Coord.Row})
	}
	last := &s.rows[len(s.rows)-1]
	last.Cells = append(last.Cells, c)
}

func (s *sheetData) sort() {
	slices.SortFunc(s.rows, func(a, b Row) int { return cmp.Compare(a.Index, b.Index) })
	for i := range s.rows {
		slices.SortFunc(s.rows[i].Cells, func(a, b Cell) int { return a.Coord.Compare(b.Coord) })
	}
}

// sliceRows iterates a decoded sheet.
type sliceRows struct {
	rows []Row
	pos  int
}

func newSliceRows(rows []Row) *sliceRows {
	return &sliceRows{rows: rows, pos: -1}
}

func (it *sliceRows) Next() bool {
	if it.pos+1 >= len(it.rows) {
		it.pos = len(it.rows)
		return false
	}
	it.pos++
	return true
}

func (it *sliceRows) Row() Row {
	if it.pos < 0 || it.pos >= len(it.rows) {
		return Row{}
	}
	r := it.rows[it.pos]
	r.Cells = slices.Clone(r.Cells)
	return r
}

func (it *sliceRows) Err() error   { return nil }
func (it *sliceRows) Close() error { return nil }

// memorySource serves sheets decoded up front.
type memorySource struct {
	sheets []*sheetData
	closer func() error
}

func (m *memorySource) SheetNames() []string {
	names := make([]string, len(m.sheets))
	for i, s := range m.sheets {
		names[i] = s.name
	}
	return names
}

func (m *memorySource) sheet(name string) (*sheetData, error) {
	for _, s := range m.sheets {
		if s.name == name {
			return s, nil
		}
	}
	return nil, &SheetNotFoundError{Name: name}
}

func (m *memorySource) Rows(sheet string) (RowIterator, error) {
	s, err := m.sheet(sheet)
	if err != nil {
		return nil, err
	}
	return newSliceRows(s.rows), nil
}

func (m *memorySource) Dimensions(sheet string) (uint32, uint32, error) {
	s, err := m.sheet(sheet)
	if err != nil {
		return 0, 0, err
	}
	rows, cols := s.dimensions()
	return rows, cols, nil
}

func (m *memorySource) Close() error {
	if m.closer == nil {
		return nil
	}
	closer := m.closer
	m.closer = nil
	return closer()
}

// inGrid reports whether the zero-based position fits the worksheet grid.
func inGrid(row, col int) bool {
	return row >= 0 && col >= 0 && row < coord.MaxRows && col < coord.MaxCols
}
