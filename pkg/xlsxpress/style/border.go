package style

// BorderStyle is a line style. The values match excelize border style indices.
type BorderStyle uint8

const (
	BorderNone BorderStyle = iota
	BorderThin
	BorderMedium
	BorderDashed
	BorderDotted
	BorderThick
	BorderDouble
	BorderHair
	BorderMediumDashed
	BorderDashDot
	BorderMediumDashDot
	BorderDashDotDot
	BorderMediumDashDotDot
	BorderSlantDashDot
)

// Border describes the four edges and diagonals of a cell.
type Border struct {
	top, bottom, left, right BorderStyle
	diagonal                 BorderStyle
	diagUp, diagDown         bool
	color                    string
}

// AllBorders returns a border with every edge set to s.
func AllBorders(s BorderStyle) Border {
	return Border{top: s, bottom: s, left: s, right: s}
}

// WithTop sets the top edge.
func (b Border) WithTop(s BorderStyle) Border { b.top = s; return b }

// WithBottom sets the bottom edge.
func (b Border) WithBottom(s BorderStyle) Border { b.bottom = s; return b }

// WithLeft sets the left edge.
func (b Border) WithLeft(s BorderStyle) Border { b.left = s; return b }

// WithRight sets the right edge.
func (b Border) WithRight(s BorderStyle) Border { b.right = s; return b }

// WithColor sets the RGB color of every edge.
func (b Border) WithColor(hex string) Border { b.color = normalizeColor(hex); return b }

// WithDiagonal sets the diagonal line style and its directions.
func (b Border) WithDiagonal(s BorderStyle, up, down bool) Border {
	b.diagonal, b.diagUp, b.diagDown = s, up, down
	return b
}

// Top returns the top edge style.
func (b Border) Top() BorderStyle { return b.top }

// Bottom returns the bottom edge style.
func (b Border) Bottom() BorderStyle { return b.bottom }

// Left returns the left edge style.
func (b Border) Left() BorderStyle { return b.left }

// Right returns the right edge style.
func (b Border) Right() BorderStyle { return b.right }

// Color returns the edge color.
func (b Border) Color() string { return b.color }

// IsZero reports whether b has no edges.
func (b Border) IsZero() bool { return b == Border{} }
