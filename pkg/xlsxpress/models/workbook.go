package models

// WorkbookData represents workbook-level container with per-sheet data.
type WorkbookData struct {
	// BookName is the workbook file name (no path).
	BookName string `json:"book_name"`
	// SheetNames lists the sheets in workbook order.
	SheetNames []string `json:"sheet_names"`
	// Sheets maps sheet name to SheetData.
	Sheets map[string]SheetData `json:"sheets"`
	// Names maps workbook-scoped defined names to their formulas.
	Names map[string]string `json:"names,omitempty"`
	// Properties holds the non-empty document properties.
	Properties map[string]string `json:"properties,omitempty"`
}
