// Package compat offers a workbook API shaped like openpyxl: 1-based row and
// column numbers, A1 references and plain Go values.
package compat

import (
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress"
)

// defaultSheetTitle is the title openpyxl gives the first sheet of a new
// workbook.
const defaultSheetTitle = "Sheet"

// Workbook wraps an xlsxpress.Workbook and remembers the active sheet.
type Workbook struct {
	wb     *xlsxpress.Workbook
	active *xlsxpress.Worksheet
}

// LoadWorkbook opens the workbook at path. The first sheet is active.
func LoadWorkbook(path string, opts xlsxpress.Options) (*Workbook, error) {
	wb, err := xlsxpress.Open(path, opts)
	if err != nil {
		return nil, err
	}
	return &Workbook{wb: wb}, nil
}

// NewWorkbook returns a workbook holding one empty sheet named "Sheet".
func NewWorkbook(opts xlsxpress.Options) *Workbook {
	wb := xlsxpress.New(opts)
	// a fresh workbook cannot hold a conflicting name
	ws, err := wb.AddSheet(defaultSheetTitle)
	if err != nil {
		panic(err)
	}
	return &Workbook{wb: wb, active: ws}
}

// WithWorkbook opens the workbook at path, calls fn and closes it again.
// Changes are not saved unless fn calls Save.
func WithWorkbook(path string, opts xlsxpress.Options, fn func(*Workbook) error) (err error) {
	w, err := LoadWorkbook(path, opts)
	if err != nil {
		return err
	}
	defer func() {
		err = errors.Join(err, w.Close())
	}()
	return fn(w)
}

// Unwrap returns the underlying workbook.
func (w *Workbook) Unwrap() *xlsxpress.Workbook { return w.wb }

// SheetNames returns the sheet titles in order.
func (w *Workbook) SheetNames() []string { return w.wb.SheetNames() }

// Active returns the active sheet: the one last passed to SetActive while it
// still exists, else the first sheet.
func (w *Workbook) Active() (*Worksheet, error) {
	sheets := w.wb.Sheets()
	if len(sheets) == 0 {
		return nil, xlsxpress.ErrNoSheets
	}
	if w.active == nil || !slices.Contains(sheets, w.active) {
		w.active = sheets[0]
	}
	return &Worksheet{ws: w.active}, nil
}

// SetActive makes the named sheet active.
func (w *Workbook) SetActive(title string) error {
	ws, err := w.wb.Sheet(title)
	if err != nil {
		return err
	}
	w.active = ws
	return nil
}

// Sheet returns the sheet with the given title. Titles are case-sensitive.
func (w *Workbook) Sheet(title string) (*Worksheet, error) {
	ws, err := w.wb.Sheet(title)
	if err != nil {
		return nil, err
	}
	return &Worksheet{ws: ws}, nil
}

// SheetAt returns the sheet at a 0-based position.
func (w *Workbook) SheetAt(index int) (*Worksheet, error) {
	names := w.wb.SheetNames()
	if index < 0 || index >= len(names) {
		return nil, fmt.Errorf("sheet index %d out of range [0,%d)", index, len(names))
	}
	return w.Sheet(names[index])
}

// CreateSheet appends a sheet. An empty title picks the first free one of
// "Sheet", "Sheet1", "Sheet2" and so on.
func (w *Workbook) CreateSheet(title string) (*Worksheet, error) {
	if title == "" {
		title = w.freeTitle()
	}
	ws, err := w.wb.AddSheet(title)
	if err != nil {
		return nil, err
	}
	return &Worksheet{ws: ws}, nil
}

func (w *Workbook) freeTitle() string {
	names := w.wb.SheetNames()
	title := defaultSheetTitle
	taken := func(t string) bool {
		return slices.ContainsFunc(names, func(n string) bool { return strings.EqualFold(n, t) })
	}
	for i := 1; taken(title); i++ {
		title = defaultSheetTitle + strconv.Itoa(i)
	}
	return title
}

// RemoveSheet deletes a sheet.
func (w *Workbook) RemoveSheet(title string) error { return w.wb.RemoveSheet(title) }

// Save writes the workbook to path as xlsx.
func (w *Workbook) Save(path string) error { return w.wb.Save(path) }

// Close releases the workbook.
func (w *Workbook) Close() error { return w.wb.Close() }
