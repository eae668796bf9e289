package xlsxpress

import (
	"math"
	"path/filepath"
	"slices"
	"strconv"
	"strings"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/meta"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/models"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/parser"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/style"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/validation"
)

const printAreaName = "_xlnm.Print_Area"

// Extract opens the workbook at path and exports it.
func Extract(path string, opts Options, eopts ExportOptions) (*models.WorkbookData, error) {
	wb, err := Open(path, opts)
	if err != nil {
		return nil, err
	}
	defer wb.Close()
	return wb.Export(filepath.Base(path), eopts)
}

// Export converts the workbook, pending edits included, into its JSON
// export model.
func (wb *Workbook) Export(bookName string, opts ExportOptions) (*models.WorkbookData, error) {
	if wb.closed {
		return nil, ErrClosed
	}
	data := &models.WorkbookData{
		BookName:   bookName,
		SheetNames: wb.SheetNames(),
		Sheets:     make(map[string]models.SheetData, len(wb.sheets)),
	}
	for _, ws := range wb.sheets {
		sheet, err := ws.export(opts)
		if err != nil {
			return nil, err
		}
		data.Sheets[ws.name] = sheet
	}
	if opts.Mode != ModeLight {
		data.Names = nameMap(wb.names)
		data.Properties = propertyMap(wb.props)
	}
	return data, nil
}

func (ws *Worksheet) export(opts ExportOptions) (models.SheetData, error) {
	var sheet models.SheetData
	includeLinks := opts.ShouldIncludeLinks()
	verbose := opts.Mode == ModeVerbose

	var row *models.CellRow
	err := ws.Walk(func(c Cell) error {
		r := int(c.Coord.Row) + 1
		if row == nil || row.R != r {
			sheet.Rows = append(sheet.Rows, models.CellRow{R: r, C: make(map[string]any)})
			row = &sheet.Rows[len(sheet.Rows)-1]
		}
		key := strconv.Itoa(int(c.Coord.Col) + 1)
		if !c.Value.IsEmpty() {
			row.C[key] = exportValue(c.Value)
		}
		if link, ok := ws.links[c.Coord]; ok && includeLinks {
			if row.Links == nil {
				row.Links = make(map[string]string)
			}
			row.Links[key] = link.Target
		}
		if verbose && !c.Style.IsZero() {
			st, err := ws.wb.styles.Resolve(c.Style)
			if err != nil {
				return err
			}
			if summary := styleSummary(st); summary != "" {
				if row.Styles == nil {
					row.Styles = make(map[string]string)
				}
				row.Styles[key] = summary
			}
		}
		return nil
	})
	if err != nil {
		return sheet, err
	}
	// styled blank cells start rows without values
	sheet.Rows = dropEmptyRows(sheet.Rows)

	if opts.Mode == ModeLight {
		return sheet, nil
	}
	rows, cols, err := ws.Dimensions()
	if err != nil {
		return sheet, err
	}
	if rows > 0 {
		sheet.Dimensions = &models.Range{R1: 1, C1: 1, R2: int(rows), C2: int(cols)}
	}
	for _, c := range ws.charts {
		sheet.Charts = append(sheet.Charts, exportChart(c, verbose))
	}
	for _, m := range ws.merges {
		sheet.MergedRanges = append(sheet.MergedRanges, ExportRange(m))
	}
	for _, v := range ws.validations {
		sheet.Validations = append(sheet.Validations, exportValidation(v))
	}
	sheet.PrintAreas = ws.printAreas()
	sheet.Names = nameMap(ws.names)
	return sheet, nil
}

// printAreas collects the _xlnm.Print_Area ranges pointing at this sheet,
// whether the name is scoped to the sheet or to the workbook.
func (ws *Worksheet) printAreas() []models.Range {
	var areas []models.Range
	for _, n := range slices.Concat(ws.names, ws.wb.names) {
		if !strings.EqualFold(n.Name, printAreaName) {
			continue
		}
		sheet, ranges := parser.ParseNameReference(n.RefersTo)
		if sheet != ws.name && sheet != ws.srcName {
			continue
		}
		for _, r := range ranges {
			areas = append(areas, ExportRange(r))
		}
	}
	return areas
}

func dropEmptyRows(rows []models.CellRow) []models.CellRow {
	out := rows[:0]
	for _, r := range rows {
		if len(r.C) > 0 || len(r.Links) > 0 || len(r.Styles) > 0 {
			out = append(out, r)
		}
	}
	return out
}

// ExportRange converts r to 1-based export bounds.
func ExportRange(r coord.Range) models.Range {
	return models.Range{
		R1: int(r.Start.Row) + 1,
		C1: int(r.Start.Col) + 1,
		R2: int(r.End.Row) + 1,
		C2: int(r.End.Col) + 1,
	}
}

// maxExactInt is the largest magnitude below which every integer is exact
// in a float64 and prints without an exponent.
const maxExactInt = 1 << 53

// exportValue converts v for JSON. Whole numbers become int64.
func exportValue(v cell.Value) any {
	if n, ok := v.AsNumber(); ok && n == math.Trunc(n) && math.Abs(n) < maxExactInt {
		return int64(n)
	}
	return v.Interface()
}

func exportChart(c chart.Chart, verbose bool) models.Chart {
	out := models.Chart{
		ChartType:  c.Kind().String(),
		Title:      c.Title(),
		XAxisTitle: c.XAxisTitle(),
		YAxisTitle: c.YAxisTitle(),
		Legend:     c.ShowsLegend(),
		Anchor:     coord.FormatReference(c.Position().Anchor),
		Series:     []models.ChartSeries{},
	}
	for _, s := range c.Series() {
		out.Series = append(out.Series, models.ChartSeries{Name: s.Name, Categories: s.Categories, Values: s.Values})
	}
	if verbose {
		pos := c.Position()
		w, h := int(pos.Width), int(pos.Height)
		if w == 0 {
			w = chart.DefaultWidth
		}
		if h == 0 {
			h = chart.DefaultHeight
		}
		out.W, out.H = &w, &h
	}
	return out
}

func exportValidation(v validation.Validation) models.Validation {
	out := models.Validation{
		Type:    v.Kind().String(),
		Range:   v.Range().String(),
		Values:  v.Values(),
		Formula: v.Formula(),
	}
	if lo, ok := v.Min(); ok {
		out.Min = &lo
	}
	if hi, ok := v.Max(); ok {
		out.Max = &hi
	}
	return out
}

func nameMap(names []meta.DefinedName) map[string]string {
	if len(names) == 0 {
		return nil
	}
	m := make(map[string]string, len(names))
	for _, n := range names {
		m[n.Name] = n.RefersTo
	}
	return m
}

func propertyMap(p meta.DocProps) map[string]string {
	m := make(map[string]string)
	for k, v := range map[string]string{
		"title":       p.Title,
		"subject":     p.Subject,
		"creator":     p.Creator,
		"keywords":    p.Keywords,
		"description": p.Description,
		"category":    p.Category,
		"created":     p.Created,
		"modified":    p.Modified,
	} {
		if v != "" {
			m[k] = v
		}
	}
	if len(m) == 0 {
		return nil
	}
	return m
}

// styleSummary renders the notable parts of s, e.g. "bold|fill:FFFF00".
func styleSummary(s style.Style) string {
	var parts []string
	f := s.Font()
	for _, flag := range []struct {
		on   bool
		name string
	}{
		{f.IsBold(), "bold"},
		{f.IsItalic(), "italic"},
		{f.IsUnderline(), "underline"},
		{f.IsStrikethrough(), "strike"},
	} {
		if flag.on {
			parts = append(parts, flag.name)
		}
	}
	if f.Color() != "" {
		parts = append(parts, "color:"+f.Color())
	}
	if c := s.Fill().Color(); c != "" {
		parts = append(parts, "fill:"+c)
	}
	if nf := s.NumberFormat(); !nf.IsGeneral() {
		if nf.IsBuiltin() {
			parts = append(parts, "numfmt:"+strconv.Itoa(nf.ID()))
		} else {
			parts = append(parts, "numfmt:"+nf.Code())
		}
	}
	if s.Alignment().Wraps() {
		parts = append(parts, "wrap")
	}
	if !s.Border().IsZero() {
		parts = append(parts, "border")
	}
	return strings.Join(parts, "|")
}
