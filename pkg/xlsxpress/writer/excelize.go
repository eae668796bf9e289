package writer

import (
	"bytes"
	"fmt"
	"io"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
)

// defaultSheet is the sheet every new excelize file starts with.
const defaultSheet = "Sheet1"

// ExcelizeSink encodes xlsx with excelize. Streaming sheets go through an
// excelize.StreamWriter; the others use the in-memory worksheet API.
type ExcelizeSink struct {
	file   *excelize.File
	log    zerolog.Logger
	sheets int
	cur    *openSheet
}

// openSheet is the sheet between AddSheet and EndSheet.
type openSheet struct {
	name string
	sw   *excelize.StreamWriter

	// pending row of a streaming sheet
	row      uint32
	hasRow   bool
	firstCol uint32
	cells    []any

	heights     map[uint32]float64
	heightRows  []uint32
	nextHeight  int
	lastWritten uint32
	wroteRow    bool
}

// NewExcelizeSink returns a sink writing a new xlsx file.
func NewExcelizeSink(log zerolog.Logger) *ExcelizeSink {
	return &ExcelizeSink{
		file: excelize.NewFile(),
		log:  log,
	}
}

func (s *ExcelizeSink) sheet(name string) (*openSheet, error) {
	if s.cur == nil || s.cur.name != name {
		return nil, NewEncodeError(name, "", "sheet is not open", nil)
	}
	return s.cur, nil
}

func (s *ExcelizeSink) AddSheet(name string, streaming bool) error {
	if s.cur != nil {
		return NewEncodeError(name, "", fmt.Sprintf("sheet %q is still open", s.cur.name), nil)
	}
	if s.sheets == 0 {
		if err := s.file.SetSheetName(defaultSheet, name); err != nil {
			return NewEncodeError(name, "", "rename default sheet", err)
		}
	} else if _, err := s.file.NewSheet(name); err != nil {
		return NewEncodeError(name, "", "add sheet", err)
	}
	s.sheets++

	sh := &openSheet{name: name, heights: make(map[uint32]float64)}
	if streaming {
		sw, err := s.file.NewStreamWriter(name)
		if err != nil {
			return NewEncodeError(name, "", "open stream writer", err)
		}
		sh.sw = sw
	}
	s.cur = sh
	s.log.Debug().Str("sheet", name).Bool("streaming", streaming).Msg("encoding sheet")
	return nil
}

func (s *ExcelizeSink) AddStyle(st style.Style) (int, error) {
	idx, err := s.file.NewStyle(style.ToExcelize(st))
	if err != nil {
		return 0, NewEncodeError("", "", "add style", err)
	}
	return idx, nil
}

func (s *ExcelizeSink) SetColWidth(sheet string, col uint32, width float64) error {
	sh, err := s.sheet(sheet)
	if err != nil {
		return err
	}
	if sh.sw != nil {
		err = sh.sw.SetColWidth(int(col)+1, int(col)+1, width)
	} else {
		name := coord.ColumnName(col)
		err = s.file.SetColWidth(sheet, name, name, width)
	}
	if err != nil {
		return NewEncodeError(sheet, "", "set width of column "+coord.ColumnName(col), err)
	}
	return nil
}

func (s *ExcelizeSink) SetRowHeight(sheet string, row uint32, height float64) error {
	sh, err := s.sheet(sheet)
	if err != nil {
		return err
	}
	if sh.sw != nil {
		// applied when the row is written
		if _, ok := sh.heights[row]; !ok {
			sh.heightRows = append(sh.heightRows, row)
		}
		sh.heights[row] = height
		return nil
	}
	if err := s.file.SetRowHeight(sheet, int(row)+1, height); err != nil {
		return NewEncodeError(sheet, "", fmt.Sprintf("set height of row %d", row+1), err)
	}
	return nil
}

func (s *ExcelizeSink) WriteCell(sheet string, at coord.Coordinate, v cell.Value, styleIndex int) error {
	sh, err := s.sheet(sheet)
	if err != nil {
		return err
	}
	if sh.sw != nil {
		return sh.streamCell(at, v, styleIndex)
	}

	ref := at.String()
	switch v.Kind() {
	case cell.KindString:
		str, _ := v.AsString()
		err = s.file.SetCellStr(sheet, ref, str)
	case cell.KindNumber:
		n, _ := v.AsNumber()
		err = s.file.SetCellFloat(sheet, ref, n, -1, 64)
	case cell.KindBool:
		b, _ := v.AsBool()
		err = s.file.SetCellBool(sheet, ref, b)
	case cell.KindDate:
		t, _ := v.AsTime()
		err = s.file.SetCellFloat(sheet, ref, cell.DateToSerial(t, false), -1, 64)
	case cell.KindFormula:
		f, _ := v.FormulaText()
		err = s.file.SetCellFormula(sheet, ref, f)
	case cell.KindError:
		code, _ := v.ErrorCode()
		err = s.file.SetCellFormula(sheet, ref, code)
	}
	if err == nil && styleIndex > 0 {
		err = s.file.SetCellStyle(sheet, ref, ref, styleIndex)
	}
	if err != nil {
		return NewEncodeError(sheet, ref, "write cell", err)
	}
	return nil
}

// streamCell buffers the cell into the pending row, writing the previous
// row once a new one starts.
func (sh *openSheet) streamCell(at coord.Coordinate, v cell.Value, styleIndex int) error {
	if sh.hasRow && at.Row != sh.row {
		if err := sh.flushRow(); err != nil {
			return err
		}
	}
	if !sh.hasRow {
		sh.row, sh.firstCol, sh.hasRow = at.Row, at.Col, true
		sh.cells = sh.cells[:0]
	}
	for uint32(len(sh.cells)) < at.Col-sh.firstCol {
		sh.cells = append(sh.cells, nil)
	}
	sh.cells = append(sh.cells, streamValue(v, styleIndex))
	return nil
}

func streamValue(v cell.Value, styleIndex int) excelize.Cell {
	c := excelize.Cell{StyleID: styleIndex}
	switch v.Kind() {
	case cell.KindString, cell.KindNumber, cell.KindBool:
		c.Value = v.Interface()
	case cell.KindDate:
		t, _ := v.AsTime()
		c.Value = cell.DateToSerial(t, false)
	case cell.KindFormula:
		c.Formula, _ = v.FormulaText()
	case cell.KindError:
		c.Formula, _ = v.ErrorCode()
	}
	return c
}

func (sh *openSheet) flushRow() error {
	if !sh.hasRow {
		return nil
	}
	if err := sh.emitHeights(sh.row); err != nil {
		return err
	}
	ref, err := excelize.CoordinatesToCellName(int(sh.firstCol)+1, int(sh.row)+1)
	if err != nil {
		return NewEncodeError(sh.name, "", "row reference", err)
	}
	if err := sh.sw.SetRow(ref, sh.cells, excelize.RowOpts{Height: sh.heights[sh.row]}); err != nil {
		return NewEncodeError(sh.name, ref, "write row", err)
	}
	sh.lastWritten, sh.wroteRow = sh.row, true
	sh.hasRow = false
	return nil
}

// emitHeights writes the cell-less rows with a custom height below limit.
func (sh *openSheet) emitHeights(limit uint32) error {
	for sh.nextHeight < len(sh.heightRows) && sh.heightRows[sh.nextHeight] < limit {
		r := sh.heightRows[sh.nextHeight]
		sh.nextHeight++
		if sh.wroteRow && r <= sh.lastWritten {
			continue
		}
		ref, _ := excelize.CoordinatesToCellName(1, int(r)+1)
		if err := sh.sw.SetRow(ref, nil, excelize.RowOpts{Height: sh.heights[r]}); err != nil {
			return NewEncodeError(sh.name, "", fmt.Sprintf("set height of row %d", r+1), err)
		}
		sh.lastWritten, sh.wroteRow = r, true
	}
	return nil
}

func (s *ExcelizeSink) MergeCells(sheet string, r coord.Range) error {
	sh, err := s.sheet(sheet)
	if err != nil {
		return err
	}
	tl, br := r.Start.String(), r.End.String()
	if sh.sw != nil {
		err = sh.sw.MergeCell(tl, br)
	} else {
		err = s.file.MergeCell(sheet, tl, br)
	}
	if err != nil {
		return NewEncodeError(sheet, tl, "merge "+r.String(), err)
	}
	return nil
}

func (s *ExcelizeSink) InsertChart(sheet string, c chart.Chart) error {
	sh, err := s.sheet(sheet)
	if err != nil {
		return err
	}
	anchor, ec := chart.ToExcelize(c)
	if sh.sw != nil {
		return NewEncodeError(sheet, anchor, "charts need a non-streaming sheet", nil)
	}
	if err := s.file.AddChart(sheet, anchor, ec); err != nil {
		return NewEncodeError(sheet, anchor, "insert "+c.Kind().String()+" chart", err)
	}
	return nil
}

func (s *ExcelizeSink) AddValidation(sheet string, v validation.Validation) error {
	sh, err := s.sheet(sheet)
	if err != nil {
		return err
	}
	rng := v.Range().String()
	if sh.sw != nil {
		return NewEncodeError(sheet, rng, "validations need a non-streaming sheet", nil)
	}
	dv, err := validation.ToExcelize(v)
	if err == nil {
		err = s.file.AddDataValidation(sheet, dv)
	}
	if err != nil {
		return NewEncodeError(sheet, rng, "add "+v.Kind().String()+" validation", err)
	}
	return nil
}

func (s *ExcelizeSink) AddHyperlink(sheet string, at coord.Coordinate, link meta.Hyperlink) error {
	sh, err := s.sheet(sheet)
	if err != nil {
		return err
	}
	ref := at.String()
	if sh.sw != nil {
		return NewEncodeError(sheet, ref, "hyperlinks need a non-streaming sheet", nil)
	}
	if err := s.file.SetCellHyperLink(sheet, ref, link.Target, link.LinkType(), link.Options()...); err != nil {
		return NewEncodeError(sheet, ref, "add hyperlink", err)
	}
	return nil
}

func (s *ExcelizeSink) EndSheet(sheet string) error {
	sh, err := s.sheet(sheet)
	if err != nil {
		return err
	}
	s.cur = nil
	if sh.sw == nil {
		return nil
	}
	if err := sh.flushRow(); err != nil {
		return err
	}
	if err := sh.emitHeights(coord.MaxRows); err != nil {
		return err
	}
	if err := sh.sw.Flush(); err != nil {
		return NewEncodeError(sheet, "", "flush stream", err)
	}
	return nil
}

func (s *ExcelizeSink) DefineName(n meta.DefinedName) error {
	if err := s.file.SetDefinedName(n.ToExcelize()); err != nil {
		return NewEncodeError(n.Scope, "", "define name "+n.Name, err)
	}
	return nil
}

func (s *ExcelizeSink) SetDocProps(p meta.DocProps) error {
	if err := s.file.SetDocProps(p.ToExcelize()); err != nil {
		return NewEncodeError("", "", "set document properties", err)
	}
	return nil
}

func (s *ExcelizeSink) WriteTo(w io.Writer) (int64, error) {
	if s.cur != nil {
		return 0, NewEncodeError(s.cur.name, "", "sheet is still open", nil)
	}
	if s.sheets == 0 {
		return 0, NewEncodeError("", "", "workbook has no sheets", nil)
	}
	var buf bytes.Buffer
	if _, err := s.file.WriteTo(&buf); err != nil {
		return 0, NewEncodeError("", "", "serialize workbook", err)
	}
	n, err := sortZip(w, buf.Bytes())
	if err != nil {
		return n, NewEncodeError("", "", "write package", err)
	}
	return n, nil
}

func (s *ExcelizeSink) Close() error {
	return s.file.Close()
}
