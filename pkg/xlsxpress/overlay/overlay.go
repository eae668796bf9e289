// Package overlay presents a decoded source as random-access and
// sequential views, caching visited sheets.
package overlay

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/source"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
)

// Options configures an Overlay.
type Options struct {
	// CacheVisited keeps the rows of a fully streamed sheet for later random
	// access. Without it only random access populates the cache.
	CacheVisited bool
	Logger       zerolog.Logger
}

// Overlay is a read-only view of a source. Reads of different sheets may run
// concurrently; reads of one sheet are serialized by a per-sheet lock.
type Overlay struct {
	src  source.Source
	opts Options

	mu     sync.Mutex
	sheets map[string]*sheetCache
	closed bool

	styleMu sync.Mutex
	styles  map[int]style.Style
}

// sheetCache holds the decoded rows of one sheet once complete.
type sheetCache struct {
	mu       sync.Mutex
	complete bool
	rows     []source.Row
	used     coord.Range
	hasUsed  bool
}

// New returns an overlay over src. The overlay owns src and closes it.
func New(src source.Source, opts Options) *Overlay {
	o := &Overlay{
		src:    src,
		opts:   opts,
		sheets: make(map[string]*sheetCache),
		styles: make(map[int]style.Style),
	}
	for _, name := range src.SheetNames() {
		o.sheets[name] = &sheetCache{}
	}
	return o
}

// SheetNames returns the source sheet names in workbook order.
func (o *Overlay) SheetNames() []string {
	return o.src.SheetNames()
}

// HasSheet reports whether the source contains the named sheet.
func (o *Overlay) HasSheet(name string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	_, ok := o.sheets[name]
	return ok
}

func (o *Overlay) cache(sheet string) (*sheetCache, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	sc, ok := o.sheets[sheet]
	if !ok {
		return nil, &source.SheetNotFoundError{Name: sheet}
	}
	return sc, nil
}

// load decodes the whole sheet into its cache. Callers hold sc.mu.
func (o *Overlay) load(sheet string, sc *sheetCache) error {
	if sc.complete {
		return nil
	}
	it, err := o.src.Rows(sheet)
	if err != nil {
		return err
	}
	defer it.Close()

	var rows []source.Row
	for it.Next() {
		rows = append(rows, it.Row())
	}
	if err := it.Err(); err != nil {
		return err
	}
	sc.commit(rows)
	o.opts.Logger.Debug().Str("sheet", sheet).Int("rows", len(rows)).Msg("sheet cached")
	return nil
}

// commit stores a complete pass over the sheet. Callers hold sc.mu.
func (sc *sheetCache) commit(rows []source.Row) {
	sc.rows = rows
	sc.complete = true
	sc.hasUsed = false
	for _, r := range rows {
		for _, c := range r.Cells {
			if !sc.hasUsed {
				sc.used, sc.hasUsed = coord.Single(c.Coord), true
				continue
			}
			sc.used = sc.used.Extend(c.Coord)
		}
	}
}

// Cell returns the source cell at c. Positions without a cell, including
// those beyond the used range, yield an Empty value.
func (o *Overlay) Cell(sheet string, c coord.Coordinate) (source.Cell, error) {
	sc, err := o.cache(sheet)
	if err != nil {
		return source.Cell{}, err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if err := o.load(sheet, sc); err != nil {
		return source.Cell{}, err
	}

	empty := source.Cell{Coord: c, Value: cell.Empty()}
	ri, ok := slices.BinarySearchFunc(sc.rows, c.Row, func(r source.Row, row uint32) int {
		return cmp.Compare(r.Index, row)
	})
	if !ok {
		return empty, nil
	}
	cells := sc.rows[ri].Cells
	ci, ok := slices.BinarySearchFunc(cells, c.Col, func(x source.Cell, col uint32) int {
		return cmp.Compare(x.Coord.Col, col)
	})
	if !ok {
		return empty, nil
	}
	return cells[ci], nil
}

// Rows returns a fresh iterator over the sheet in raster order. Cached
// sheets are served from memory; others stream from the source.
func (o *Overlay) Rows(sheet string) (source.RowIterator, error) {
	sc, err := o.cache(sheet)
	if err != nil {
		return nil, err
	}
	sc.mu.Lock()
	if sc.complete {
		rows := sc.rows
		sc.mu.Unlock()
		return &cachedRows{rows: rows, pos: -1}, nil
	}
	sc.mu.Unlock()

	it, err := o.src.Rows(sheet)
	if err != nil {
		return nil, err
	}
	return &streamRows{it: it, sc: sc, record: o.opts.CacheVisited}, nil
}

// UsedRange returns the bounding range of all non-empty or styled cells.
// ok is false for a sheet without cells.
func (o *Overlay) UsedRange(sheet string) (rng coord.Range, ok bool, err error) {
	sc, err := o.cache(sheet)
	if err != nil {
		return coord.Range{}, false, err
	}
	sc.mu.Lock()
	defer sc.mu.Unlock()
	if err := o.load(sheet, sc); err != nil {
		return coord.Range{}, false, err
	}
	return sc.used, sc.hasUsed, nil
}

// Dimensions returns the rows and columns spanned from A1 to the last used
// cell. Cached sheets answer from memory.
func (o *Overlay) Dimensions(sheet string) (rows, cols uint32, err error) {
	sc, err := o.cache(sheet)
	if err != nil {
		return 0, 0, err
	}
	sc.mu.Lock()
	if sc.complete {
		defer sc.mu.Unlock()
		if !sc.hasUsed {
			return 0, 0, nil
		}
		return sc.used.End.Row + 1, sc.used.End.Col + 1, nil
	}
	sc.mu.Unlock()
	return o.src.Dimensions(sheet)
}

// Style resolves a source style index. Sources without a style table
// resolve every index to the zero style.
func (o *Overlay) Style(id int) (style.Style, error) {
	ss, ok := o.src.(source.StyleSource)
	if !ok || id == 0 {
		return style.Style{}, nil
	}
	o.styleMu.Lock()
	defer o.styleMu.Unlock()
	if st, ok := o.styles[id]; ok {
		return st, nil
	}
	st, err := ss.Style(id)
	if err != nil {
		return style.Style{}, err
	}
	o.styles[id] = st
	return st, nil
}

// Features returns the worksheet-level collections of the source sheet, or
// none when the backend does not decode them.
func (o *Overlay) Features(sheet string) (source.SheetFeatures, error) {
	if _, err := o.cache(sheet); err != nil {
		return source.SheetFeatures{}, err
	}
	fs, ok := o.src.(source.FeatureSource)
	if !ok {
		return source.SheetFeatures{}, nil
	}
	return fs.Features(sheet)
}

// DefinedNames returns the source's defined names.
func (o *Overlay) DefinedNames() ([]meta.DefinedName, error) {
	if fs, ok := o.src.(source.FeatureSource); ok {
		return fs.DefinedNames()
	}
	return nil, nil
}

// DocProps returns the source's document properties.
func (o *Overlay) DocProps() (meta.DocProps, error) {
	if fs, ok := o.src.(source.FeatureSource); ok {
		return fs.DocProps()
	}
	return meta.DocProps{}, nil
}

// Prefetch decodes the given sheets concurrently, one goroutine per sheet.
// With no names every sheet is loaded.
func (o *Overlay) Prefetch(ctx context.Context, sheets ...string) error {
	if len(sheets) == 0 {
		sheets = o.SheetNames()
	}
	g, ctx := errgroup.WithContext(ctx)
	for _, name := range sheets {
		sc, err := o.cache(name)
		if err != nil {
			return err
		}
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			sc.mu.Lock()
			defer sc.mu.Unlock()
			return o.load(name, sc)
		})
	}
	return g.Wait()
}

// Close releases the source. It is safe to call more than once.
func (o *Overlay) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil
	}
	o.closed = true
	return o.src.Close()
}

// cachedRows iterates a cached sheet.
type cachedRows struct {
	rows []source.Row
	pos  int
}

func (it *cachedRows) Next() bool {
	if it.pos+1 >= len(it.rows) {
		it.pos = len(it.rows)
		return false
	}
	it.pos++
	return true
}

func (it *cachedRows) Row() source.Row {
	if it.pos < 0 || it.pos >= len(it.rows) {
		return source.Row{}
	}
	r := it.rows[it.pos]
	r.Cells = slices.Clone(r.Cells)
	return r
}

func (it *cachedRows) Err() error   { return nil }
func (it *cachedRows) Close() error { return nil }

// streamRows forwards a source iterator and, when recording, commits the
// rows to the sheet cache once the pass completes without error.
type streamRows struct {
	it     source.RowIterator
	sc     *sheetCache
	record bool
	rows   []source.Row
	done   bool
}

func (s *streamRows) Next() bool {
	if s.done {
		return false
	}
	if s.it.Next() {
		if s.record {
			s.rows = append(s.rows, s.it.Row())
		}
		return true
	}
	s.done = true
	if s.record && s.it.Err() == nil {
		s.sc.mu.Lock()
		if !s.sc.complete {
			s.sc.commit(s.rows)
		}
		s.sc.mu.Unlock()
	}
	s.rows = nil
	return false
}

func (s *streamRows) Row() source.Row { return s.it.Row() }
func (s *streamRows) Err() error      { return s.it.Err() }
func (s *streamRows) Close() error    { return s.it.Close() }
