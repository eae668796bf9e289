// Package coord converts between A1-style references and zero-based
// row/column coordinates.
package coord

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

const (
	// MaxRows is the number of rows in a worksheet.
	MaxRows = 1048576
	// MaxCols is the number of columns in a worksheet.
	MaxCols = 16384
)

// Coordinate is a zero-based cell position.
type Coordinate struct {
	Row uint32
	Col uint32
}

// New returns the coordinate at row, col, or an OutOfBoundsError.
func New(row, col uint32) (Coordinate, error) {
	c := Coordinate{Row: row, Col: col}
	if err := c.Validate(); err != nil {
		return Coordinate{}, err
	}
	return c, nil
}

// MustNew is like New but panics on an out-of-range position.
func MustNew(row, col uint32) Coordinate {
	c, err := New(row, col)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate reports whether c lies inside the worksheet grid.
func (c Coordinate) Validate() error {
	if c.Row >= MaxRows || c.Col >= MaxCols {
		return &OutOfBoundsError{Row: c.Row, Col: c.Col}
	}
	return nil
}

// Less orders coordinates in raster order: row-major, then column.
func (c Coordinate) Less(o Coordinate) bool {
	if c.Row != o.Row {
		return c.Row < o.Row
	}
	return c.Col < o.Col
}

// Compare returns -1, 0 or +1 following raster order.
func (c Coordinate) Compare(o Coordinate) int {
	switch {
	case c.Less(o):
		return -1
	case o.Less(c):
		return 1
	}
	return 0
}

// String returns the A1 reference of c.
func (c Coordinate) String() string {
	return FormatReference(c)
}

// ParseReference parses an A1-style reference such as "B12" or "$B$12".
func ParseReference(ref string) (Coordinate, error) {
	clean := strings.ReplaceAll(strings.TrimSpace(ref), "$", "")
	col, row, err := excelize.CellNameToCoordinates(clean)
	if err != nil {
		return Coordinate{}, fmt.Errorf("invalid cell reference %q: %w", ref, err)
	}
	return New(uint32(row-1), uint32(col-1))
}

// FormatReference returns the A1 reference of c.
func FormatReference(c Coordinate) string {
	return ColumnName(c.Col) + fmt.Sprint(c.Row+1)
}

// ColumnName returns the letters of the zero-based column index, e.g. 0 -> "A", 26 -> "AA".
func ColumnName(col uint32) string {
	var buf [8]byte
	i := len(buf)
	n := col + 1
	for n > 0 {
		n--
		i--
		buf[i] = byte('A' + n%26)
		n /= 26
	}
	return string(buf[i:])
}

// ColumnIndex returns the zero-based index of column letters, e.g. "AA" -> 26.
func ColumnIndex(name string) (uint32, error) {
	n, err := excelize.ColumnNameToNumber(name)
	if err != nil {
		return 0, err
	}
	return uint32(n - 1), nil
}
