package models

// SheetData represents structured data for a single sheet.
type SheetData struct {
	// Dimensions is the extent from A1 to the far corner of the used range.
	Dimensions *Range `json:"dimensions,omitempty"`
	// Rows contains non-empty rows with cell values and links.
	Rows []CellRow `json:"rows,omitempty"`
	// Charts contains charts on the sheet.
	Charts []Chart `json:"charts,omitempty"`
	// MergedRanges contains merged cell ranges.
	MergedRanges []Range `json:"merged_ranges,omitempty"`
	// Validations contains data-validation rules.
	Validations []Validation `json:"validations,omitempty"`
	// PrintAreas contains user-defined print areas.
	PrintAreas []Range `json:"print_areas,omitempty"`
	// Names maps sheet-scoped defined names to their formulas.
	Names map[string]string `json:"names,omitempty"`
}
