package xlsxpress

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/overlay"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/source"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/writer"
)

const maxSheetNameLength = 31

// Workbook is an editable workbook. Edits are kept in memory on top of the
// opened file and merged with it on save; the source file is never touched.
//
// A Workbook is meant to be used from one goroutine. Only Save and SaveTo
// guard against concurrent use and fail with ErrConcurrentSave.
type Workbook struct {
	log    zerolog.Logger
	styles *style.Interner
	src    *overlay.Overlay

	sheets []*Worksheet
	names  []meta.DefinedName
	props  meta.DocProps

	importMu sync.Mutex
	imported map[int]style.Handle

	saveMu sync.Mutex
	closed bool
}

// New returns an empty workbook without sheets.
func New(opts Options) *Workbook {
	return &Workbook{
		log:      opts.Logger,
		styles:   style.NewInterner(),
		imported: make(map[int]style.Handle),
	}
}

// Open reads the workbook at path. xlsx, xlsm, xlsb, xls and the add-in
// variants are recognized by content.
func Open(path string, opts Options) (*Workbook, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return OpenBytes(data, filepath.Base(path), opts)
}

// OpenReader reads a workbook from r. name, if set, helps format detection.
func OpenReader(r io.Reader, name string, opts Options) (*Workbook, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return OpenBytes(data, name, opts)
}

// OpenBytes decodes a workbook held in memory.
func OpenBytes(data []byte, name string, opts Options) (*Workbook, error) {
	src, err := source.Open(data, name, source.Options{Charset: opts.Charset, Logger: opts.Logger})
	if err != nil {
		return nil, err
	}
	wb := New(opts)
	wb.src = overlay.New(src, overlay.Options{
		CacheVisited: opts.ShouldCacheVisited(),
		Logger:       opts.Logger,
	})
	if err := wb.load(); err != nil {
		wb.src.Close()
		return nil, err
	}
	wb.log.Debug().Str("name", name).Int("sheets", len(wb.sheets)).Msg("workbook opened")
	return wb, nil
}

// load builds the worksheets and their original collections.
func (wb *Workbook) load() error {
	for _, name := range wb.src.SheetNames() {
		ws := newWorksheet(wb, name)
		ws.srcName = name
		feat, err := wb.src.Features(name)
		if err != nil {
			return err
		}
		ws.merges = feat.Merges
		ws.validations = feat.Validations
		ws.charts = feat.Charts
		for c, link := range feat.Hyperlinks {
			ws.links[c] = link
		}
		for col, w := range feat.ColWidths {
			ws.widths[col] = w
		}
		wb.sheets = append(wb.sheets, ws)
	}

	names, err := wb.src.DefinedNames()
	if err != nil {
		return err
	}
	for _, n := range names {
		if n.Scope == "" {
			wb.names = append(wb.names, n)
			continue
		}
		if ws := wb.sheet(n.Scope); ws != nil {
			ws.names = append(ws.names, n)
		} else {
			wb.log.Warn().Str("name", n.Name).Str("scope", n.Scope).Msg("dropping name scoped to unknown sheet")
		}
	}

	wb.props, err = wb.src.DocProps()
	return err
}

// Prefetch decodes the given source sheets concurrently, or all of them
// when none are named. It has no effect on a workbook created with New.
func (wb *Workbook) Prefetch(ctx context.Context, sheets ...string) error {
	if wb.src == nil {
		return nil
	}
	var src []string
	for _, name := range sheets {
		ws, err := wb.Sheet(name)
		if err != nil {
			return err
		}
		if ws.srcName != "" {
			src = append(src, ws.srcName)
		}
	}
	if len(sheets) > 0 && len(src) == 0 {
		return nil
	}
	return wb.src.Prefetch(ctx, src...)
}

// Styles returns the workbook's style interner.
func (wb *Workbook) Styles() *style.Interner { return wb.styles }

// AddStyle interns s and returns its handle.
func (wb *Workbook) AddStyle(s style.Style) style.Handle { return wb.styles.Intern(s) }

// importStyle interns a source style index.
func (wb *Workbook) importStyle(id int) (style.Handle, error) {
	if id == 0 || wb.src == nil {
		return style.Handle{}, nil
	}
	wb.importMu.Lock()
	defer wb.importMu.Unlock()
	if h, ok := wb.imported[id]; ok {
		return h, nil
	}
	st, err := wb.src.Style(id)
	if err != nil {
		return style.Handle{}, err
	}
	h := wb.styles.Intern(st)
	wb.imported[id] = h
	return h, nil
}

// Sheets returns the worksheets in order.
func (wb *Workbook) Sheets() []*Worksheet { return slices.Clone(wb.sheets) }

// SheetNames returns the worksheet names in order.
func (wb *Workbook) SheetNames() []string {
	names := make([]string, len(wb.sheets))
	for i, ws := range wb.sheets {
		names[i] = ws.name
	}
	return names
}

func (wb *Workbook) sheet(name string) *Worksheet {
	for _, ws := range wb.sheets {
		if ws.name == name {
			return ws
		}
	}
	return nil
}

// Sheet returns the named worksheet. Lookup is case-sensitive.
func (wb *Workbook) Sheet(name string) (*Worksheet, error) {
	if ws := wb.sheet(name); ws != nil {
		return ws, nil
	}
	return nil, &SheetNotFoundError{Name: name}
}

// checkSheetName validates name for a new or renamed sheet. self is the
// sheet being renamed, if any.
func (wb *Workbook) checkSheetName(name string, self *Worksheet) error {
	switch {
	case name == "":
		return fmt.Errorf("%w: empty", ErrInvalidSheetName)
	case utf8.RuneCountInString(name) > maxSheetNameLength:
		return fmt.Errorf("%w: %q is longer than %d characters", ErrInvalidSheetName, name, maxSheetNameLength)
	case strings.ContainsAny(name, `:\/?*[]`):
		return fmt.Errorf("%w: %q contains one of : \\ / ? * [ ]", ErrInvalidSheetName, name)
	case strings.HasPrefix(name, "'") || strings.HasSuffix(name, "'"):
		return fmt.Errorf("%w: %q starts or ends with an apostrophe", ErrInvalidSheetName, name)
	}
	for _, ws := range wb.sheets {
		if ws != self && strings.EqualFold(ws.name, name) {
			return &DuplicateSheetError{Name: name, Existing: ws.name}
		}
	}
	return nil
}

// AddSheet appends an empty worksheet.
func (wb *Workbook) AddSheet(name string) (*Worksheet, error) {
	if wb.closed {
		return nil, ErrClosed
	}
	if err := wb.checkSheetName(name, nil); err != nil {
		return nil, err
	}
	ws := newWorksheet(wb, name)
	wb.sheets = append(wb.sheets, ws)
	return ws, nil
}

// RenameSheet renames a worksheet. Formulas referring to the old name are
// left as they are.
func (wb *Workbook) RenameSheet(oldName, newName string) error {
	ws, err := wb.Sheet(oldName)
	if err != nil {
		return err
	}
	if err := wb.checkSheetName(newName, ws); err != nil {
		return err
	}
	ws.name = newName
	return nil
}

// RemoveSheet deletes a worksheet together with its sheet-scoped names.
func (wb *Workbook) RemoveSheet(name string) error {
	i := slices.IndexFunc(wb.sheets, func(ws *Worksheet) bool { return ws.name == name })
	if i < 0 {
		return &SheetNotFoundError{Name: name}
	}
	wb.sheets = slices.Delete(wb.sheets, i, i+1)
	return nil
}

// DocProps returns the document properties.
func (wb *Workbook) DocProps() meta.DocProps { return wb.props }

// SetDocProps replaces the document properties.
func (wb *Workbook) SetDocProps(p meta.DocProps) { wb.props = p }

// DefinedNames returns the workbook-scoped names.
func (wb *Workbook) DefinedNames() []meta.DefinedName { return slices.Clone(wb.names) }

// DefineName adds or replaces a workbook-scoped name.
func (wb *Workbook) DefineName(name, refersTo string) error {
	n, err := newDefinedName(name, refersTo)
	if err != nil {
		return err
	}
	wb.names = upsertName(wb.names, n)
	return nil
}

// RemoveName deletes a workbook-scoped name. It reports whether it existed.
func (wb *Workbook) RemoveName(name string) bool {
	var ok bool
	wb.names, ok = removeName(wb.names, name)
	return ok
}

func newDefinedName(name, refersTo string) (meta.DefinedName, error) {
	if name == "" || strings.ContainsAny(name, " !") {
		return meta.DefinedName{}, fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	if refersTo == "" {
		return meta.DefinedName{}, fmt.Errorf("%w: %q refers to nothing", ErrInvalidName, name)
	}
	return meta.DefinedName{Name: name, RefersTo: strings.TrimPrefix(refersTo, "=")}, nil
}

func upsertName(names []meta.DefinedName, n meta.DefinedName) []meta.DefinedName {
	for i := range names {
		if strings.EqualFold(names[i].Name, n.Name) {
			names[i] = n
			return names
		}
	}
	return append(names, n)
}

func removeName(names []meta.DefinedName, name string) ([]meta.DefinedName, bool) {
	i := slices.IndexFunc(names, func(n meta.DefinedName) bool { return strings.EqualFold(n.Name, name) })
	if i < 0 {
		return names, false
	}
	return slices.Delete(names, i, i+1), true
}

// Save writes the workbook to path as xlsx. The file is written to a
// temporary name in the same directory and renamed into place, so a failed
// save leaves any existing file intact. Saving onto the opened file is
// allowed.
func (wb *Workbook) Save(path string) (err error) {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}
	tmp, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if err = wb.SaveTo(tmp); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// SaveTo encodes the workbook as xlsx into w. Saving does not consume the
// workbook; it can be edited and saved again.
func (wb *Workbook) SaveTo(w io.Writer) error {
	if !wb.saveMu.TryLock() {
		return ErrConcurrentSave
	}
	defer wb.saveMu.Unlock()

	if wb.closed {
		return ErrClosed
	}
	if len(wb.sheets) == 0 {
		return ErrNoSheets
	}

	start := time.Now()
	b := writer.NewBuilder(wb.styles)
	for _, ws := range wb.sheets {
		if err := ws.plan(b); err != nil {
			return err
		}
	}
	for _, n := range wb.names {
		b.DefineName(n)
	}
	for _, ws := range wb.sheets {
		for _, n := range ws.names {
			n.Scope = ws.name
			b.DefineName(n)
		}
	}
	b.SetDocProps(wb.props)

	sink := writer.NewExcelizeSink(wb.log)
	defer sink.Close()
	if err := b.Replay(sink); err != nil {
		return err
	}
	n, err := sink.WriteTo(w)
	if err != nil {
		return err
	}
	wb.log.Debug().Int("sheets", len(wb.sheets)).Int64("bytes", n).Dur("took", time.Since(start)).Msg("workbook saved")
	return nil
}

// Close releases the opened source. It is safe to call more than once.
func (wb *Workbook) Close() error {
	if wb.closed {
		return nil
	}
	wb.closed = true
	if wb.src != nil {
		return wb.src.Close()
	}
	return nil
}
