package writer

import (
	"errors"
	"fmt"
)

// ErrOutOfOrder is returned when a cell is added before or at the position
// of the previous cell of the same sheet.
var ErrOutOfOrder = errors.New("cells must be added in raster order")

// ErrReplayed is returned when a builder is replayed a second time.
var ErrReplayed = errors.New("builder has already been replayed")

// ErrUnknownSheet is returned for instructions addressed to a sheet that was
// never added.
var ErrUnknownSheet = errors.New("sheet was not added to the builder")

// EncodeError represents a failure of the encode backend.
type EncodeError struct {
	Sheet  string
	Cell   string // reference such as "B7", empty when not cell specific
	Reason string
	Err    error
}

func (e *EncodeError) Error() string {
	msg := "encode"
	if e.Sheet != "" {
		msg += fmt.Sprintf(" sheet %q", e.Sheet)
	}
	if e.Cell != "" {
		msg += " cell " + e.Cell
	}
	msg += ": " + e.Reason
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *EncodeError) Unwrap() error {
	return e.Err
}

// NewEncodeError creates a new EncodeError.
func NewEncodeError(sheet, cellRef, reason string, err error) *EncodeError {
	return &EncodeError{
		Sheet:  sheet,
		Cell:   cellRef,
		Reason: reason,
		Err:    err,
	}
}
