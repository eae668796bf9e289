// Package output serializes export models to JSON.
package output

import (
	"github.com/goccy/go-json"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/models"
)

func marshal(v any, pretty bool) ([]byte, error) {
	if pretty {
		return json.MarshalIndent(v, "", "  ")
	}
	return json.Marshal(v)
}

// ToJSON serializes a whole workbook.
func ToJSON(wb *models.WorkbookData, pretty bool) ([]byte, error) {
	return marshal(wb, pretty)
}

// SheetToJSON serializes one sheet.
func SheetToJSON(sheet *models.SheetData, pretty bool) ([]byte, error) {
	return marshal(sheet, pretty)
}

// RangeViewToJSON serializes a range view.
func RangeViewToJSON(view *models.RangeView, pretty bool) ([]byte, error) {
	return marshal(view, pretty)
}
