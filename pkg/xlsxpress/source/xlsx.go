package source

import (
	"archive/zip"
	"bytes"
	"io"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/parser"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
)

// xlsxSource streams cell data straight from the sheet parts and uses
// excelize for styles and workbook metadata.
type xlsxSource struct {
	log      zerolog.Logger
	zr       *zip.Reader
	file     *excelize.File
	sheets   []parser.SheetPart
	date1904 bool

	sharedOnce sync.Once
	shared     []string
	sharedErr  error

	mu     sync.Mutex
	styles map[int]style.Style
}

func openXLSX(data []byte, log zerolog.Logger) (Source, error) {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewDecodeError("", "open zip container", err)
	}
	sheets, err := parser.WorkbookSheets(zr)
	if err != nil {
		return nil, NewDecodeError("", "read workbook part", err)
	}
	if len(sheets) == 0 {
		return nil, NewDecodeError("", "workbook lists no worksheets", nil)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, NewDecodeError("", "open xlsx", errors.Wrap(err, "excelize.OpenReader"))
	}

	src := &xlsxSource{
		log:    log,
		zr:     zr,
		file:   f,
		sheets: sheets,
		styles: make(map[int]style.Style),
	}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		src.date1904 = *props.Date1904
	}
	return src, nil
}

func (s *xlsxSource) SheetNames() []string {
	names := make([]string, len(s.sheets))
	for i, sp := range s.sheets {
		names[i] = sp.Name
	}
	return names
}

func (s *xlsxSource) part(sheet string) (parser.SheetPart, error) {
	for _, sp := range s.sheets {
		if sp.Name == sheet {
			return sp, nil
		}
	}
	return parser.SheetPart{}, &SheetNotFoundError{Name: sheet}
}

func (s *xlsxSource) sharedStrings() ([]string, error) {
	s.sharedOnce.Do(func() {
		rc, err := parser.OpenZipFile(s.zr, "xl/sharedStrings.xml")
		if err != nil || rc == nil {
			s.sharedErr = err
			return
		}
		defer rc.Close()
		s.shared, s.sharedErr = parser.ParseSharedStrings(rc)
	})
	return s.shared, s.sharedErr
}

// Style resolves a cell style index through excelize.
func (s *xlsxSource) Style(id int) (style.Style, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if st, ok := s.styles[id]; ok {
		return st, nil
	}
	es, err := s.file.GetStyle(id)
	if err != nil {
		return style.Style{}, errors.Wrapf(err, "style %d", id)
	}
	st := style.FromExcelize(es)
	s.styles[id] = st
	return st, nil
}

func (s *xlsxSource) Rows(sheet string) (RowIterator, error) {
	sp, err := s.part(sheet)
	if err != nil {
		return nil, err
	}
	shared, err := s.sharedStrings()
	if err != nil {
		return nil, NewDecodeError(sheet, "read shared strings", err)
	}
	rc, err := parser.OpenZipFile(s.zr, sp.Path)
	if err != nil {
		return nil, NewDecodeError(sheet, "open sheet part "+sp.Path, err)
	}
	if rc == nil {
		return nil, NewDecodeError(sheet, "missing sheet part "+sp.Path, nil)
	}
	return &xlsxRows{
		src:     s,
		sheet:   sheet,
		shared:  shared,
		rc:      rc,
		decoder: parser.NewSheetDecoder(rc),
	}, nil
}

func (s *xlsxSource) Dimensions(sheet string) (uint32, uint32, error) {
	sp, err := s.part(sheet)
	if err != nil {
		return 0, 0, err
	}
	sm, err := s.scanMeta(sp)
	if err != nil {
		return 0, 0, NewDecodeError(sheet, "scan sheet part", err)
	}
	if rng, err := coord.ParseRange(sm.Dimension); err == nil && !(sm.Dimension == "A1" || sm.Dimension == "") {
		return rng.End.Row + 1, rng.End.Col + 1, nil
	}

	// missing or placeholder dimension: measure the data
	it, err := s.Rows(sheet)
	if err != nil {
		return 0, 0, err
	}
	defer it.Close()
	var rows, cols uint32
	for it.Next() {
		for _, c := range it.Row().Cells {
			rows = max(rows, c.Coord.Row+1)
			cols = max(cols, c.Coord.Col+1)
		}
	}
	return rows, cols, it.Err()
}

func (s *xlsxSource) scanMeta(sp parser.SheetPart) (parser.SheetMeta, error) {
	rc, err := parser.OpenZipFile(s.zr, sp.Path)
	if err != nil || rc == nil {
		return parser.SheetMeta{}, err
	}
	defer rc.Close()
	return parser.ScanSheetMeta(rc)
}

// Features collects the merges, validations, charts, hyperlinks and column
// widths of a sheet. Parts that fail to decode are logged and skipped.
func (s *xlsxSource) Features(sheet string) (SheetFeatures, error) {
	sp, err := s.part(sheet)
	if err != nil {
		return SheetFeatures{}, err
	}
	log := s.log.With().Str("sheet", sheet).Logger()

	var feat SheetFeatures
	merges, err := s.file.GetMergeCells(sheet)
	if err != nil {
		return feat, NewDecodeError(sheet, "read merged cells", err)
	}
	for _, m := range merges {
		rng, err := coord.ParseRange(m.GetStartAxis() + ":" + m.GetEndAxis())
		if err != nil {
			log.Warn().Err(err).Msg("skipping merged range")
			continue
		}
		feat.Merges = append(feat.Merges, rng)
	}

	dvs, err := s.file.GetDataValidations(sheet)
	if err != nil {
		return feat, NewDecodeError(sheet, "read data validations", err)
	}
	for _, dv := range dvs {
		v, err := validation.FromExcelize(dv)
		if err != nil {
			log.Warn().Err(err).Str("sqref", dv.Sqref).Msg("skipping data validation")
			continue
		}
		feat.Validations = append(feat.Validations, v)
	}

	charts, skipped, err := parser.ExtractCharts(s.zr, sp.Path)
	if err != nil {
		return feat, NewDecodeError(sheet, "read charts", err)
	}
	for _, name := range skipped {
		log.Warn().Str("chart", name).Msg("dropping chart of unsupported type")
	}
	feat.Charts = charts

	sm, err := s.scanMeta(sp)
	if err != nil {
		return feat, NewDecodeError(sheet, "scan sheet part", err)
	}
	for _, cw := range sm.Cols {
		if feat.ColWidths == nil {
			feat.ColWidths = make(map[uint32]float64)
		}
		for col := cw.Min; col <= min(cw.Max, coord.MaxCols); col++ {
			feat.ColWidths[uint32(col-1)] = cw.Width
		}
	}
	for _, l := range sm.Links {
		c, err := coord.ParseRange(l.Ref)
		if err != nil {
			log.Warn().Err(err).Str("ref", l.Ref).Msg("skipping hyperlink")
			continue
		}
		link := meta.Hyperlink{Display: l.Display, Tooltip: l.Tooltip}
		if l.Location != "" {
			link.Target, link.Internal = l.Location, true
		} else {
			ok, target, err := s.file.GetCellHyperLink(sheet, c.Start.String())
			if err != nil || !ok || target == "" {
				log.Warn().Err(err).Str("ref", l.Ref).Msg("skipping hyperlink without target")
				continue
			}
			link.Target = target
		}
		if feat.Hyperlinks == nil {
			feat.Hyperlinks = make(map[coord.Coordinate]meta.Hyperlink)
		}
		feat.Hyperlinks[c.Start] = link
	}
	return feat, nil
}

func (s *xlsxSource) DefinedNames() ([]meta.DefinedName, error) {
	var names []meta.DefinedName
	for _, dn := range s.file.GetDefinedName() {
		names = append(names, meta.DefinedNameFromExcelize(dn))
	}
	return names, nil
}

func (s *xlsxSource) DocProps() (meta.DocProps, error) {
	dp, err := s.file.GetDocProps()
	if err != nil {
		return meta.DocProps{}, NewDecodeError("", "read document properties", err)
	}
	return meta.DocPropsFromExcelize(dp), nil
}

func (s *xlsxSource) Close() error {
	return s.file.Close()
}

// xlsxRows converts decoded sheet rows into source rows.
type xlsxRows struct {
	src     *xlsxSource
	sheet   string
	shared  []string
	rc      io.ReadCloser
	decoder *parser.SheetDecoder
	row     Row
	err     error
}

func (it *xlsxRows) Next() bool {
	if it.err != nil {
		return false
	}
	for it.decoder.Next() {
		raw := it.decoder.Row()
		if raw.Index >= coord.MaxRows {
			it.err = &DecodeError{Sheet: it.sheet, Offset: it.decoder.Offset(), Reason: "row beyond the worksheet grid"}
			return false
		}
		row := Row{Index: uint32(raw.Index)}
		if raw.CustomHeight {
			row.Height = raw.Height
		}
		for _, rc := range raw.Cells {
			c, err := it.convert(rc)
			if err != nil {
				it.err = &DecodeError{
					Sheet:  it.sheet,
					Offset: it.decoder.Offset(),
					Reason: "cell " + excelRef(rc.Row, rc.Col),
					Err:    err,
				}
				return false
			}
			if c.Value.IsEmpty() && c.StyleID == 0 {
				continue
			}
			row.Cells = append(row.Cells, c)
		}
		if len(row.Cells) == 0 && row.Height == 0 {
			continue
		}
		it.row = row
		return true
	}
	if err := it.decoder.Err(); err != nil {
		it.err = &DecodeError{Sheet: it.sheet, Offset: it.decoder.Offset(), Reason: "malformed sheet XML", Err: err}
	}
	return false
}

func (it *xlsxRows) Row() Row   { return it.row }
func (it *xlsxRows) Err() error { return it.err }

func (it *xlsxRows) Close() error {
	if it.rc == nil {
		return nil
	}
	err := it.rc.Close()
	it.rc = nil
	return err
}

func (it *xlsxRows) convert(rc parser.RawCell) (Cell, error) {
	c := Cell{StyleID: rc.Style}
	if !inGrid(rc.Row, rc.Col) {
		return c, errors.New("outside the worksheet grid")
	}
	c.Coord = coord.Coordinate{Row: uint32(rc.Row), Col: uint32(rc.Col)}

	if rc.HasFormula {
		text := rc.Formula
		if rc.SharedFormula {
			f, err := it.src.file.GetCellFormula(it.sheet, c.Coord.String())
			if err != nil {
				return c, errors.Wrap(err, "resolve shared formula")
			}
			text = f
		}
		text = strings.TrimPrefix(text, "=")
		if code, ok := cell.ParseErrorCode(text); ok {
			c.Value = cell.Error(code)
		} else if text != "" {
			c.Value = cell.Formula(text)
		}
		return c, nil
	}

	if !rc.HasValue {
		return c, nil
	}
	switch rc.Type {
	case "s":
		idx, err := strconv.Atoi(strings.TrimSpace(rc.Value))
		if err != nil || idx < 0 || idx >= len(it.shared) {
			return c, errors.Errorf("shared string index %q out of range", rc.Value)
		}
		c.Value = cell.String(it.shared[idx])
	case "str", "inlineStr":
		c.Value = cell.String(rc.Value)
	case "b":
		c.Value = cell.Bool(strings.TrimSpace(rc.Value) == "1" || strings.EqualFold(rc.Value, "true"))
	case "e":
		c.Value = cell.Error(strings.TrimSpace(rc.Value))
	case "d":
		t, err := parseISODate(rc.Value)
		if err != nil {
			return c, err
		}
		c.Value = cell.Date(t)
	default:
		n, err := strconv.ParseFloat(strings.TrimSpace(rc.Value), 64)
		if err != nil {
			return c, errors.Wrapf(err, "numeric value %q", rc.Value)
		}
		c.Value = cell.Number(n)
		if rc.Style != 0 {
			st, err := it.src.Style(rc.Style)
			if err != nil {
				return c, err
			}
			if st.IsDate() {
				c.Value = cell.Date(cell.SerialToDate(n, it.src.date1904))
			}
		}
	}
	return c, nil
}

func parseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, errors.Errorf("unparsable ISO 8601 date %q", s)
}

func excelRef(row, col int) string {
	if !inGrid(row, col) {
		return "R" + strconv.Itoa(row+1) + "C" + strconv.Itoa(col+1)
	}
	return coord.Coordinate{Row: uint32(row), Col: uint32(col)}.String()
}
