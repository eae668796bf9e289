package xlsxpress

import (
	"errors"
	"fmt"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/source"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/writer"
)

// Error types raised by the subpackages, re-exported for errors.As.
type (
	DecodeError        = source.DecodeError
	EncodeError        = writer.EncodeError
	SheetNotFoundError = source.SheetNotFoundError
	TypeInferenceError = cell.TypeInferenceError
	InvalidRangeError  = coord.InvalidRangeError
	OutOfBoundsError   = coord.OutOfBoundsError
	ForeignHandleError = style.ForeignHandleError
)

var (
	// ErrOutOfOrder indicates cells were handed to the encoder out of raster order.
	ErrOutOfOrder = writer.ErrOutOfOrder
	// ErrUnsupportedFormat indicates a container no decoder handles.
	ErrUnsupportedFormat = source.ErrUnsupportedFormat
)

// ErrConcurrentSave indicates a save was attempted while another save of the
// same workbook was running.
var ErrConcurrentSave = errors.New("workbook is already being saved")

// ErrNoSheets indicates a save of a workbook without worksheets.
var ErrNoSheets = errors.New("workbook has no sheets")

// ErrClosed indicates use of a workbook after Close.
var ErrClosed = errors.New("workbook is closed")

// ErrInvalidSheetName indicates a name the file format cannot store.
var ErrInvalidSheetName = errors.New("invalid sheet name")

// ErrInvalidName indicates a malformed or duplicate defined name.
var ErrInvalidName = errors.New("invalid defined name")

// MergeOverlapError represents a merge sharing cells with an existing one.
type MergeOverlapError struct {
	Sheet    string
	Range    coord.Range
	Existing coord.Range
}

func (e *MergeOverlapError) Error() string {
	return fmt.Sprintf("merge %s on sheet %q overlaps merged range %s", e.Range, e.Sheet, e.Existing)
}

// DuplicateSheetError represents a sheet name already in use. Names are
// compared case-insensitively.
type DuplicateSheetError struct {
	Name     string
	Existing string
}

func (e *DuplicateSheetError) Error() string {
	if e.Name == e.Existing {
		return fmt.Sprintf("sheet %q already exists", e.Name)
	}
	return fmt.Sprintf("sheet %q collides with existing sheet %q", e.Name, e.Existing)
}
