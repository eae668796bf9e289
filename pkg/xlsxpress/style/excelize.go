package style

import (
	"github.com/xuri/excelize/v2"
)

// border edge names used by excelize.
const (
	edgeLeft     = "left"
	edgeRight    = "right"
	edgeTop      = "top"
	edgeBottom   = "bottom"
	edgeDiagUp   = "diagonalUp"
	edgeDiagDown = "diagonalDown"
)

// ToExcelize converts s into the structure accepted by excelize.File.NewStyle.
func ToExcelize(s Style) *excelize.Style {
	out := &excelize.Style{}

	if f := s.font; !f.IsZero() {
		out.Font = &excelize.Font{
			Family: f.name,
			Size:   f.size,
			Bold:   f.bold,
			Italic: f.italic,
			Strike: f.strike,
			Color:  f.color,
		}
		if f.underline {
			out.Font.Underline = "single"
		}
	}

	if f := s.fill; f.pattern != FillNone {
		out.Fill = excelize.Fill{Type: "pattern", Pattern: fillPatternIndex[f.pattern]}
		if f.color != "" {
			out.Fill.Color = []string{f.color}
		}
	}

	b := s.border
	for _, e := range []struct {
		name  string
		style BorderStyle
	}{
		{edgeLeft, b.left},
		{edgeRight, b.right},
		{edgeTop, b.top},
		{edgeBottom, b.bottom},
	} {
		if e.style != BorderNone {
			out.Border = append(out.Border, excelize.Border{Type: e.name, Color: b.color, Style: int(e.style)})
		}
	}
	if b.diagonal != BorderNone {
		if b.diagUp {
			out.Border = append(out.Border, excelize.Border{Type: edgeDiagUp, Color: b.color, Style: int(b.diagonal)})
		}
		if b.diagDown {
			out.Border = append(out.Border, excelize.Border{Type: edgeDiagDown, Color: b.color, Style: int(b.diagonal)})
		}
	}

	if a := s.alignment; !a.IsZero() {
		out.Alignment = &excelize.Alignment{
			Horizontal:  hAlignNames[a.horizontal],
			Vertical:    vAlignNames[a.vertical],
			WrapText:    a.wrap,
			ShrinkToFit: a.shrink,
			Indent:      int(a.indent),
		}
		switch r := int(a.rotation); {
		case r < 0:
			out.Alignment.TextRotation = 90 - r
		default:
			out.Alignment.TextRotation = r
		}
	}

	if n := s.numFmt; n.IsBuiltin() {
		out.NumFmt = int(n.id)
	} else {
		code := n.code
		out.CustomNumFmt = &code
	}
	return out
}

// FromExcelize converts a style read with excelize.File.GetStyle.
func FromExcelize(es *excelize.Style) Style {
	var s Style
	if es == nil {
		return s
	}

	if f := es.Font; f != nil {
		s.font = Font{
			name:      f.Family,
			size:      f.Size,
			bold:      f.Bold,
			italic:    f.Italic,
			underline: f.Underline != "" && f.Underline != "none",
			strike:    f.Strike,
			color:     normalizeColor(f.Color),
		}
	}

	if es.Fill.Type == "pattern" {
		if p := fillPatternFromIndex(es.Fill.Pattern); p != FillNone {
			s.fill = Fill{pattern: p}
			if len(es.Fill.Color) > 0 {
				s.fill.color = normalizeColor(es.Fill.Color[0])
			}
		}
	}

	for _, eb := range es.Border {
		bs := BorderStyle(eb.Style)
		if eb.Style < 0 || bs > BorderSlantDashDot || bs == BorderNone {
			continue
		}
		switch eb.Type {
		case edgeLeft:
			s.border.left = bs
		case edgeRight:
			s.border.right = bs
		case edgeTop:
			s.border.top = bs
		case edgeBottom:
			s.border.bottom = bs
		case edgeDiagUp:
			s.border.diagonal, s.border.diagUp = bs, true
		case edgeDiagDown:
			s.border.diagonal, s.border.diagDown = bs, true
		default:
			continue
		}
		if s.border.color == "" {
			s.border.color = normalizeColor(eb.Color)
		}
	}

	if a := es.Alignment; a != nil {
		for k, v := range hAlignNames {
			if v == a.Horizontal {
				s.alignment.horizontal = k
			}
		}
		for k, v := range vAlignNames {
			if v == a.Vertical {
				s.alignment.vertical = k
			}
		}
		s.alignment.wrap = a.WrapText
		s.alignment.shrink = a.ShrinkToFit
		s.alignment = s.alignment.WithIndent(a.Indent)
		switch r := a.TextRotation; {
		case r == 255:
			s.alignment.rotation = 255
		case r > 90 && r <= 180:
			s.alignment.rotation = int16(90 - r)
		default:
			s.alignment = s.alignment.WithRotation(r)
		}
	}

	if es.CustomNumFmt != nil && *es.CustomNumFmt != "" {
		s.numFmt = CustomFormat(*es.CustomNumFmt)
	} else if es.NumFmt > 0 {
		s.numFmt = BuiltinFormat(es.NumFmt)
	}
	return s
}
