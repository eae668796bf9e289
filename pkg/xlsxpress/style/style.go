// Package style models cell formatting as immutable values and interns them
// per workbook.
//
// Every component is a comparable value type, so two styles are equal exactly
// when == holds. Builders return modified copies.
package style

// Style is the full formatting of a cell. The zero Style means "no style".
type Style struct {
	font      Font
	fill      Fill
	border    Border
	alignment Alignment
	numFmt    NumberFormat
}

// New returns the empty style.
func New() Style { return Style{} }

// WithFont returns a copy of s using font f.
func (s Style) WithFont(f Font) Style { s.font = f; return s }

// WithFill returns a copy of s using fill f.
func (s Style) WithFill(f Fill) Style { s.fill = f; return s }

// WithBorder returns a copy of s using border b.
func (s Style) WithBorder(b Border) Style { s.border = b; return s }

// WithAlignment returns a copy of s using alignment a.
func (s Style) WithAlignment(a Alignment) Style { s.alignment = a; return s }

// WithNumberFormat returns a copy of s using number format n.
func (s Style) WithNumberFormat(n NumberFormat) Style { s.numFmt = n; return s }

// Font returns the font component.
func (s Style) Font() Font { return s.font }

// Fill returns the fill component.
func (s Style) Fill() Fill { return s.fill }

// Border returns the border component.
func (s Style) Border() Border { return s.border }

// Alignment returns the alignment component.
func (s Style) Alignment() Alignment { return s.alignment }

// NumberFormat returns the number format component.
func (s Style) NumberFormat() NumberFormat { return s.numFmt }

// IsBold is shorthand for s.Font().IsBold().
func (s Style) IsBold() bool { return s.font.bold }

// IsZero reports whether s carries no formatting.
func (s Style) IsZero() bool { return s == Style{} }

// IsDate reports whether s displays its value as a date or time.
func (s Style) IsDate() bool { return s.numFmt.IsDate() }
