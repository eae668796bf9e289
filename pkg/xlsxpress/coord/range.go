package coord

import (
	"strings"
)

// Range is an inclusive rectangle of cells.
type Range struct {
	Start Coordinate
	End   Coordinate
}

// NewRange returns the range spanning start..end. The end must not precede
// the start in either dimension.
func NewRange(start, end Coordinate) (Range, error) {
	if end.Row < start.Row || end.Col < start.Col {
		return Range{}, &InvalidRangeError{Ref: FormatReference(start) + ":" + FormatReference(end), Reason: "end precedes start"}
	}
	if err := start.Validate(); err != nil {
		return Range{}, err
	}
	if err := end.Validate(); err != nil {
		return Range{}, err
	}
	return Range{Start: start, End: end}, nil
}

// Single returns the one-cell range at c.
func Single(c Coordinate) Range {
	return Range{Start: c, End: c}
}

// ParseRange parses "A1:B10". A lone reference such as "C3" is a single-cell range.
func ParseRange(ref string) (Range, error) {
	clean := strings.TrimSpace(ref)
	if i := strings.LastIndex(clean, "!"); i >= 0 {
		clean = clean[i+1:]
	}
	parts := strings.Split(clean, ":")
	if len(parts) > 2 || parts[0] == "" {
		return Range{}, &InvalidRangeError{Ref: ref, Reason: "malformed range"}
	}
	start, err := ParseReference(parts[0])
	if err != nil {
		return Range{}, &InvalidRangeError{Ref: ref, Reason: err.Error()}
	}
	if len(parts) == 1 {
		return Single(start), nil
	}
	end, err := ParseReference(parts[1])
	if err != nil {
		return Range{}, &InvalidRangeError{Ref: ref, Reason: err.Error()}
	}
	r, err := NewRange(start, end)
	if err != nil {
		return Range{}, &InvalidRangeError{Ref: ref, Reason: "end precedes start"}
	}
	return r, nil
}

// String returns "A1:B10", or "A1" for a single cell.
func (r Range) String() string {
	if r.Start == r.End {
		return FormatReference(r.Start)
	}
	return FormatReference(r.Start) + ":" + FormatReference(r.End)
}

// Contains reports whether c lies within r.
func (r Range) Contains(c Coordinate) bool {
	return c.Row >= r.Start.Row && c.Row <= r.End.Row &&
		c.Col >= r.Start.Col && c.Col <= r.End.Col
}

// Overlaps reports whether r and o share at least one cell.
func (r Range) Overlaps(o Range) bool {
	return r.Start.Row <= o.End.Row && o.Start.Row <= r.End.Row &&
		r.Start.Col <= o.End.Col && o.Start.Col <= r.End.Col
}

// Union returns the smallest range covering r and o.
func (r Range) Union(o Range) Range {
	return Range{
		Start: Coordinate{Row: min(r.Start.Row, o.Start.Row), Col: min(r.Start.Col, o.Start.Col)},
		End:   Coordinate{Row: max(r.End.Row, o.End.Row), Col: max(r.End.Col, o.End.Col)},
	}
}

// Extend returns the smallest range covering r and c.
func (r Range) Extend(c Coordinate) Range {
	return r.Union(Single(c))
}

// Rows returns the number of rows spanned by r.
func (r Range) Rows() uint32 { return r.End.Row - r.Start.Row + 1 }

// Cols returns the number of columns spanned by r.
func (r Range) Cols() uint32 { return r.End.Col - r.Start.Col + 1 }
