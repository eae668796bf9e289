package style

import "strings"

// Font describes the typeface of a cell.
type Font struct {
	name      string
	size      float64
	bold      bool
	italic    bool
	underline bool
	strike    bool
	color     string
}

// NewFont returns a font with the given family name and point size.
func NewFont(name string, size float64) Font {
	return Font{name: name, size: size}
}

// WithName sets the font family.
func (f Font) WithName(name string) Font { f.name = name; return f }

// WithSize sets the size in points.
func (f Font) WithSize(size float64) Font { f.size = size; return f }

// WithBold sets bold.
func (f Font) WithBold(b bool) Font { f.bold = b; return f }

// WithItalic sets italic.
func (f Font) WithItalic(b bool) Font { f.italic = b; return f }

// WithUnderline sets a single underline.
func (f Font) WithUnderline(b bool) Font { f.underline = b; return f }

// WithStrikethrough sets strikethrough.
func (f Font) WithStrikethrough(b bool) Font { f.strike = b; return f }

// WithColor sets the RGB color, e.g. "FF0000" or "#ff0000".
func (f Font) WithColor(hex string) Font { f.color = normalizeColor(hex); return f }

// Name returns the font family.
func (f Font) Name() string { return f.name }

// Size returns the size in points, 0 when unset.
func (f Font) Size() float64 { return f.size }

// IsBold reports whether the font is bold.
func (f Font) IsBold() bool { return f.bold }

// IsItalic reports whether the font is italic.
func (f Font) IsItalic() bool { return f.italic }

// IsUnderline reports whether the font is underlined.
func (f Font) IsUnderline() bool { return f.underline }

// IsStrikethrough reports whether the font is struck through.
func (f Font) IsStrikethrough() bool { return f.strike }

// Color returns the upper-case RGB color, empty when unset.
func (f Font) Color() string { return f.color }

// IsZero reports whether f is the default font.
func (f Font) IsZero() bool { return f == Font{} }

// normalizeColor turns "#ff0000", "FF0000" or ARGB "FFFF0000" into "FF0000".
func normalizeColor(hex string) string {
	hex = strings.ToUpper(strings.TrimPrefix(strings.TrimSpace(hex), "#"))
	if len(hex) == 8 {
		hex = hex[2:]
	}
	return hex
}
