package parser

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// RawCell is a <c> element as written in the sheet part.
type RawCell struct {
	Row, Col int // zero-based
	// Type is the t attribute: "", "n", "s", "str", "inlineStr", "b", "e" or "d".
	Type  string
	Style int
	// Value is the <v> text, or the joined inline string for inlineStr cells.
	Value      string
	HasValue   bool
	Formula    string
	HasFormula bool
	// SharedFormula is set for followers of a shared formula whose text lives
	// on the master cell.
	SharedFormula bool
}

// RawRow is a <row> element.
type RawRow struct {
	Index        int // zero-based
	Height       float64
	CustomHeight bool
	Cells        []RawCell
}

// SheetDecoder streams the rows of a worksheet part. It never holds more than
// one row in memory.
type SheetDecoder struct {
	decoder *xml.Decoder
	inData  bool
	done    bool
	lastRow int
	row     RawRow
	err     error
}

// NewSheetDecoder returns a decoder reading worksheet XML from r.
func NewSheetDecoder(r io.Reader) *SheetDecoder {
	return &SheetDecoder{decoder: xml.NewDecoder(r), lastRow: -1}
}

// Row returns the row read by the last successful Next.
func (s *SheetDecoder) Row() RawRow { return s.row }

// Err returns the first decoding error.
func (s *SheetDecoder) Err() error { return s.err }

// Offset returns the input byte offset of the decoder.
func (s *SheetDecoder) Offset() int64 { return s.decoder.InputOffset() }

// Next advances to the next row. It returns false at the end of the sheet
// data or on error.
func (s *SheetDecoder) Next() bool {
	if s.done || s.err != nil {
		return false
	}
	for {
		token, err := s.decoder.Token()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				s.err = err
			}
			s.done = true
			return false
		}

		switch t := token.(type) {
		case xml.StartElement:
			switch {
			case t.Name.Local == "sheetData":
				s.inData = true
			case s.inData && t.Name.Local == "row":
				row, err := s.parseRow(t)
				if err != nil {
					s.err = err
					return false
				}
				s.row = row
				s.lastRow = row.Index
				return true
			case !s.inData:
				// nothing before sheetData holds cells
			}
		case xml.EndElement:
			if t.Name.Local == "sheetData" {
				s.done = true
				return false
			}
		}
	}
}

func (s *SheetDecoder) parseRow(start xml.StartElement) (RawRow, error) {
	row := RawRow{Index: s.lastRow + 1}
	if r := attr(start, "r"); r != "" {
		n, err := strconv.Atoi(r)
		if err != nil || n < 1 {
			return row, fmt.Errorf("invalid row number %q", r)
		}
		row.Index = n - 1
	}
	if ht := attr(start, "ht"); ht != "" {
		row.Height, _ = strconv.ParseFloat(ht, 64)
	}
	row.CustomHeight = isTrue(attr(start, "customHeight"))

	lastCol := -1
	depth := 1
	for depth > 0 {
		token, err := s.decoder.Token()
		if err != nil {
			return row, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "c" {
				c, err := s.parseCell(t, row.Index, lastCol+1)
				if err != nil {
					return row, err
				}
				depth--
				lastCol = c.Col
				row.Cells = append(row.Cells, c)
			}
		case xml.EndElement:
			depth--
		}
	}
	return row, nil
}

func (s *SheetDecoder) parseCell(start xml.StartElement, row, nextCol int) (RawCell, error) {
	c := RawCell{Row: row, Col: nextCol, Type: attr(start, "t")}
	if ref := attr(start, "r"); ref != "" {
		col, r, err := excelize.CellNameToCoordinates(ref)
		if err != nil {
			return c, err
		}
		c.Row, c.Col = r-1, col-1
	}
	if st := attr(start, "s"); st != "" {
		c.Style, _ = strconv.Atoi(st)
	}

	depth := 1
	for depth > 0 {
		token, err := s.decoder.Token()
		if err != nil {
			return c, err
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "v":
				txt, err := readElementText(s.decoder)
				if err != nil {
					return c, err
				}
				depth--
				if c.Type != "inlineStr" {
					c.Value, c.HasValue = txt, true
				}
			case "f":
				shared := attr(t, "t") == "shared"
				txt, err := readElementText(s.decoder)
				if err != nil {
					return c, err
				}
				depth--
				c.Formula, c.HasFormula = txt, true
				c.SharedFormula = shared && strings.TrimSpace(txt) == ""
			case "is":
				txt, err := readRichText(s.decoder)
				if err != nil {
					return c, err
				}
				depth--
				c.Value, c.HasValue = txt, true
			}
		case xml.EndElement:
			depth--
		}
	}
	return c, nil
}

// readRichText joins the <t> runs of a string item, skipping phonetic runs.
func readRichText(decoder *xml.Decoder) (string, error) {
	var text strings.Builder
	depth := 1
	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			return text.String(), err
		}
		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "t":
				txt, err := readElementText(decoder)
				if err != nil {
					return text.String(), err
				}
				depth--
				text.WriteString(txt)
			case "rPh":
				if err := decoder.Skip(); err != nil {
					return text.String(), err
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}
	return text.String(), nil
}

// ParseSharedStrings reads the shared string table part.
func ParseSharedStrings(r io.Reader) ([]string, error) {
	var result []string
	decoder := xml.NewDecoder(r)
	for {
		token, err := decoder.Token()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return result, nil
			}
			return result, err
		}
		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "si" {
			txt, err := readRichText(decoder)
			if err != nil {
				return result, err
			}
			result = append(result, txt)
		}
	}
}

func isTrue(s string) bool {
	return s == "1" || strings.EqualFold(s, "true")
}
