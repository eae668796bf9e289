package source

import (
	"bytes"
	"math"
	"strconv"

	"github.com/extrame/xls"
	"github.com/pkg/errors"
	"golang.org/x/text/encoding/htmlindex"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

// DefaultCharset is used for legacy .xls strings that are not UTF-16.
const DefaultCharset = "utf-8"

// openXLS decodes a BIFF workbook. The library renders every cell as text,
// so numbers are recovered by parsing and dates arrive as formatted strings.
func openXLS(data []byte, charset string) (_ Source, err error) {
	if charset == "" {
		charset = DefaultCharset
	}
	if _, err := htmlindex.Get(charset); err != nil {
		return nil, NewDecodeError("", "unknown charset "+charset, err)
	}

	defer func() {
		// extrame/xls panics on some malformed streams
		if r := recover(); r != nil {
			err = NewDecodeError("", "malformed xls stream", errors.Errorf("%v", r))
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), charset)
	if err != nil {
		return nil, NewDecodeError("", "open xls", errors.Wrap(err, "xls.OpenReader"))
	}

	src := &memorySource{}
	for i := 0; i < wb.NumSheets(); i++ {
		sheet := wb.GetSheet(i)
		if sheet == nil {
			return nil, NewDecodeError("", "missing sheet "+strconv.Itoa(i), nil)
		}
		sd := &sheetData{name: sheet.Name}
		for n := 0; n <= int(sheet.MaxRow); n++ {
			row := sheet.Row(n)
			if row == nil {
				continue
			}
			for j := row.FirstCol(); j < row.LastCol(); j++ {
				v := parseXLSText(row.Col(j))
				if v.IsEmpty() || !inGrid(n, j) {
					continue
				}
				sd.appendCell(Cell{Coord: coord.Coordinate{Row: uint32(n), Col: uint32(j)}, Value: v})
			}
		}
		src.sheets = append(src.sheets, sd)
	}
	return src, nil
}

// parseXLSText classifies a rendered .xls cell.
func parseXLSText(s string) cell.Value {
	if s == "" {
		return cell.Empty()
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return cell.Number(f)
	}
	switch s {
	case "TRUE":
		return cell.Bool(true)
	case "FALSE":
		return cell.Bool(false)
	}
	return cell.String(s)
}
