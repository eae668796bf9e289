package models

import "strconv"

// Range represents cell coordinate bounds.
type Range struct {
	// R1 is the start row (1-based).
	R1 int `json:"r1"`
	// C1 is the start column (1-based).
	C1 int `json:"c1"`
	// R2 is the end row (1-based, inclusive).
	R2 int `json:"r2"`
	// C2 is the end column (1-based, inclusive).
	C2 int `json:"c2"`
}

// Contains reports whether the 1-based row and column lie inside r.
func (r Range) Contains(row, col int) bool {
	return row >= r.R1 && row <= r.R2 && col >= r.C1 && col <= r.C2
}

// RangeView represents a slice of a sheet restricted to a range.
type RangeView struct {
	// BookName is the workbook name owning the range.
	BookName string `json:"book_name"`
	// SheetName is the sheet name owning the range.
	SheetName string `json:"sheet_name"`
	// Area is the range bounds.
	Area Range `json:"area"`
	// Rows contains rows within the area bounds, trimmed to its columns.
	Rows []CellRow `json:"rows,omitempty"`
}

// NewRangeView restricts sheet to area. Rows outside the area are dropped
// and the remaining rows keep only the columns inside it.
func NewRangeView(bookName, sheetName string, sheet SheetData, area Range) RangeView {
	view := RangeView{BookName: bookName, SheetName: sheetName, Area: area}
	for _, row := range sheet.Rows {
		if row.R < area.R1 || row.R > area.R2 {
			continue
		}
		trimmed := CellRow{R: row.R, C: make(map[string]any)}
		for key, v := range row.C {
			col, err := strconv.Atoi(key)
			if err != nil || !area.Contains(row.R, col) {
				continue
			}
			trimmed.C[key] = v
			if link, ok := row.Links[key]; ok {
				if trimmed.Links == nil {
					trimmed.Links = make(map[string]string)
				}
				trimmed.Links[key] = link
			}
			if s, ok := row.Styles[key]; ok {
				if trimmed.Styles == nil {
					trimmed.Styles = make(map[string]string)
				}
				trimmed.Styles[key] = s
			}
		}
		if len(trimmed.C) > 0 {
			view.Rows = append(view.Rows, trimmed)
		}
	}
	return view
}
