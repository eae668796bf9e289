package style

// HAlign is horizontal alignment.
type HAlign uint8

const (
	HAlignGeneral HAlign = iota
	HAlignLeft
	HAlignCenter
	HAlignRight
	HAlignFill
	HAlignJustify
	HAlignCenterAcross
	HAlignDistributed
)

var hAlignNames = map[HAlign]string{
	HAlignLeft:         "left",
	HAlignCenter:       "center",
	HAlignRight:        "right",
	HAlignFill:         "fill",
	HAlignJustify:      "justify",
	HAlignCenterAcross: "centerContinuous",
	HAlignDistributed:  "distributed",
}

// VAlign is vertical alignment.
type VAlign uint8

const (
	VAlignBottom VAlign = iota
	VAlignTop
	VAlignCenter
	VAlignJustify
	VAlignDistributed
)

var vAlignNames = map[VAlign]string{
	VAlignTop:         "top",
	VAlignCenter:      "center",
	VAlignJustify:     "justify",
	VAlignDistributed: "distributed",
}

// MaxIndent is the deepest indent level.
const MaxIndent = 15

// Alignment positions text inside a cell.
type Alignment struct {
	horizontal HAlign
	vertical   VAlign
	wrap       bool
	shrink     bool
	rotation   int16
	indent     uint8
}

// WithHorizontal sets the horizontal alignment.
func (a Alignment) WithHorizontal(h HAlign) Alignment { a.horizontal = h; return a }

// WithVertical sets the vertical alignment.
func (a Alignment) WithVertical(v VAlign) Alignment { a.vertical = v; return a }

// WithWrap sets text wrapping.
func (a Alignment) WithWrap(b bool) Alignment { a.wrap = b; return a }

// WithShrink sets shrink-to-fit.
func (a Alignment) WithShrink(b bool) Alignment { a.shrink = b; return a }

// WithRotation sets the text angle in degrees. Values are clamped to -90..90;
// 255 means vertically stacked text.
func (a Alignment) WithRotation(deg int) Alignment {
	switch {
	case deg == 255:
	case deg > 90:
		deg = 90
	case deg < -90:
		deg = -90
	}
	a.rotation = int16(deg)
	return a
}

// WithIndent sets the indent level, capped at MaxIndent.
func (a Alignment) WithIndent(n int) Alignment {
	a.indent = uint8(max(0, min(n, MaxIndent)))
	return a
}

// Horizontal returns the horizontal alignment.
func (a Alignment) Horizontal() HAlign { return a.horizontal }

// Vertical returns the vertical alignment.
func (a Alignment) Vertical() VAlign { return a.vertical }

// Wraps reports whether text wraps.
func (a Alignment) Wraps() bool { return a.wrap }

// Shrinks reports whether text shrinks to fit.
func (a Alignment) Shrinks() bool { return a.shrink }

// Rotation returns the text angle in degrees.
func (a Alignment) Rotation() int { return int(a.rotation) }

// Indent returns the indent level.
func (a Alignment) Indent() int { return int(a.indent) }

// IsZero reports whether a is the default alignment.
func (a Alignment) IsZero() bool { return a == Alignment{} }
