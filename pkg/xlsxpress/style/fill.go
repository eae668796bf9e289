package style

// FillPattern is a cell background pattern.
type FillPattern uint8

const (
	FillNone FillPattern = iota
	FillSolid
	FillDarkGray
	FillMediumGray
	FillLightGray
	FillGray125
	FillGray0625
)

// excelize pattern indices, see excelize.Fill.Pattern.
var fillPatternIndex = map[FillPattern]int{
	FillSolid:      1,
	FillMediumGray: 2,
	FillDarkGray:   3,
	FillLightGray:  4,
	FillGray125:    17,
	FillGray0625:   18,
}

func fillPatternFromIndex(i int) FillPattern {
	for p, idx := range fillPatternIndex {
		if idx == i {
			return p
		}
	}
	return FillNone
}

// Fill is a cell background.
type Fill struct {
	pattern FillPattern
	color   string
}

// SolidFill returns a solid background of the given hex color.
func SolidFill(hex string) Fill {
	return Fill{pattern: FillSolid, color: normalizeColor(hex)}
}

// PatternFill returns a patterned background.
func PatternFill(p FillPattern, hex string) Fill {
	return Fill{pattern: p, color: normalizeColor(hex)}
}

// Pattern returns the fill pattern.
func (f Fill) Pattern() FillPattern { return f.pattern }

// Color returns the foreground RGB color.
func (f Fill) Color() string { return f.color }

// IsZero reports whether f is no fill.
func (f Fill) IsZero() bool { return f == Fill{} }
