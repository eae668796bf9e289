package coord

import "fmt"

// OutOfBoundsError is returned for a coordinate outside the worksheet grid.
type OutOfBoundsError struct {
	Row uint32
	Col uint32
}

func (e *OutOfBoundsError) Error() string {
	return fmt.Sprintf("coordinate (row %d, col %d) outside the %dx%d grid", e.Row, e.Col, MaxRows, MaxCols)
}

// InvalidRangeError is returned for a malformed or inverted range.
type InvalidRangeError struct {
	Ref    string
	Reason string
}

func (e *InvalidRangeError) Error() string {
	return fmt.Sprintf("invalid range %q: %s", e.Ref, e.Reason)
}
