package source

import (
	"bytes"
	"iter"

	"github.com/TsubasaBE/go-xlsb/workbook"
	"github.com/TsubasaBE/go-xlsb/worksheet"
	"github.com/pkg/errors"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

// openXLSB decodes a binary workbook. Error cells arrive as their literal
// text and are kept as strings.
func openXLSB(data []byte) (Source, error) {
	wb, err := workbook.OpenReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, NewDecodeError("", "open xlsb", errors.Wrap(err, "workbook.OpenReader"))
	}

	src := &memorySource{closer: wb.Close}
	for i, name := range wb.Sheets() {
		ws, err := wb.Sheet(i + 1)
		if err != nil {
			wb.Close()
			return nil, NewDecodeError(name, "open sheet", errors.Wrapf(err, "sheet %d", i+1))
		}

		sd := &sheetData{name: name}
		for row := range iter.Seq[[]worksheet.Cell](ws.Rows(true)) {
			for _, c := range row {
				if !inGrid(c.R, c.C) {
					continue
				}
				v := xlsbValue(c.V, wb.Styles.IsDate(c.Style), wb.Date1904)
				if v.IsEmpty() && c.Style == 0 {
					continue
				}
				sd.appendCell(Cell{
					Coord:   coord.Coordinate{Row: uint32(c.R), Col: uint32(c.C)},
					Value:   v,
					StyleID: c.Style,
				})
			}
		}
		sd.sort()
		src.sheets = append(src.sheets, sd)
	}
	return src, nil
}

func xlsbValue(v any, isDate, date1904 bool) cell.Value {
	switch x := v.(type) {
	case nil:
		return cell.Empty()
	case float64:
		if isDate {
			return cell.Date(cell.SerialToDate(x, date1904))
		}
		return cell.Number(x)
	case bool:
		return cell.Bool(x)
	case string:
		if x == "" {
			return cell.Empty()
		}
		return cell.String(x)
	}
	value, err := cell.Infer(v)
	if err != nil {
		return cell.Empty()
	}
	return value
}
