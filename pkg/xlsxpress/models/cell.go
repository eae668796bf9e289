// Package models defines the JSON export form of a workbook.
package models

// CellRow represents a single row of non-empty cells with optional hyperlinks.
type CellRow struct {
	// R is the row index (1-based).
	R int `json:"r"`
	// C maps column index (string, 1-based) to cell value.
	C map[string]any `json:"c"`
	// Links maps column index to hyperlink target (optional).
	Links map[string]string `json:"links,omitempty"`
	// Styles maps column index to a style summary such as "bold|fill:FFFF00" (verbose only).
	Styles map[string]string `json:"styles,omitempty"`
}
