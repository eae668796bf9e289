package style

import (
	"strings"
)

// maxDecimals caps generated decimal places.
const maxDecimals = 30

const (
	builtinText     = 49
	defaultDateCode = "yyyy-mm-dd"
)

// NumberFormat is either a built-in format id or a custom format code.
// The zero value is General.
type NumberFormat struct {
	id   int16
	code string
}

// BuiltinFormat returns the built-in format with the given id.
func BuiltinFormat(id int) NumberFormat { return NumberFormat{id: int16(id)} }

// CustomFormat returns a format with a custom code such as "0.0%".
func CustomFormat(code string) NumberFormat {
	if code == "" || strings.EqualFold(code, "General") {
		return NumberFormat{}
	}
	return NumberFormat{id: -1, code: code}
}

// General is the default format.
func General() NumberFormat { return NumberFormat{} }

// Decimal returns "0.00"-style formats with d decimal places.
func Decimal(d int) NumberFormat { return CustomFormat("0" + decimals(d)) }

// Currency returns "$#,##0.00"-style formats.
func Currency(d int) NumberFormat { return CustomFormat("$#,##0" + decimals(d)) }

// Accounting returns the accounting format with d decimal places.
func Accounting(d int) NumberFormat {
	n := "#,##0" + decimals(d)
	return CustomFormat(`_($* ` + n + `_);_($* (` + n + `);_($* "-"??_);_(@_)`)
}

// Percentage returns "0.00%"-style formats.
func Percentage(d int) NumberFormat { return CustomFormat("0" + decimals(d) + "%") }

// Scientific returns "0.00E+00"-style formats.
func Scientific(d int) NumberFormat { return CustomFormat("0" + decimals(d) + "E+00") }

// DateFormat is "yyyy-mm-dd".
func DateFormat() NumberFormat { return CustomFormat(defaultDateCode) }

// TimeFormat is "hh:mm:ss".
func TimeFormat() NumberFormat { return CustomFormat("hh:mm:ss") }

// DateTimeFormat is "yyyy-mm-dd hh:mm:ss".
func DateTimeFormat() NumberFormat { return CustomFormat("yyyy-mm-dd hh:mm:ss") }

// FractionFormat is "# ?/?".
func FractionFormat() NumberFormat { return CustomFormat("# ?/?") }

// TextFormat is the built-in "@" format.
func TextFormat() NumberFormat { return BuiltinFormat(builtinText) }

func decimals(d int) string {
	d = max(0, min(d, maxDecimals))
	if d == 0 {
		return ""
	}
	return "." + strings.Repeat("0", d)
}

// IsBuiltin reports whether f refers to a built-in id.
func (f NumberFormat) IsBuiltin() bool { return f.code == "" }

// ID returns the built-in id, or -1 for a custom code.
func (f NumberFormat) ID() int { return int(f.id) }

// Code returns the custom code, or "" for a built-in format.
func (f NumberFormat) Code() string { return f.code }

// IsGeneral reports whether f is the default format.
func (f NumberFormat) IsGeneral() bool { return f == NumberFormat{} }

// IsDate reports whether values shown with f are dates or times.
func (f NumberFormat) IsDate() bool {
	if f.IsBuiltin() {
		return IsDateFormatID(int(f.id))
	}
	return IsDateFormatCode(f.code)
}

// IsDateFormatID reports whether a built-in format id displays a date or time.
func IsDateFormatID(id int) bool {
	return (id >= 14 && id <= 22) || (id >= 27 && id <= 36) || (id >= 45 && id <= 47) || (id >= 50 && id <= 58)
}

// IsDateFormatCode reports whether a custom format code displays a date or
// time. Quoted literals, bracketed sections and escaped characters are ignored.
func IsDateFormatCode(code string) bool {
	// only the positive section decides
	if i := strings.IndexByte(code, ';'); i >= 0 {
		code = code[:i]
	}
	inQuote, inBracket := false, false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case inBracket:
			if ch == ']' {
				inBracket = false
			}
		case ch == '"':
			inQuote = true
		case ch == '[':
			inBracket = true
			if i+1 < len(code) && strings.ContainsRune("hHmMsS", rune(code[i+1])) {
				// elapsed time such as [h]:mm
				return true
			}
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		default:
			if strings.IndexByte("yYdDhHmMsS", ch) >= 0 {
				return true
			}
		}
	}
	return false
}
