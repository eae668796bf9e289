// Package cell defines the value stored in a worksheet cell.
package cell

import (
	"strconv"
	"strings"
	"time"
)

// Kind identifies which variant of a Value is active.
type Kind uint8

const (
	// KindEmpty is a cell with no value.
	KindEmpty Kind = iota
	// KindString is a text value.
	KindString
	// KindNumber is an IEEE-754 double.
	KindNumber
	// KindBool is a boolean value.
	KindBool
	// KindDate is a calendar date-time.
	KindDate
	// KindFormula is opaque formula text, never evaluated.
	KindFormula
	// KindError is a spreadsheet error literal such as #DIV/0!.
	KindError
)

var kindNames = [...]string{
	KindEmpty:   "empty",
	KindString:  "string",
	KindNumber:  "number",
	KindBool:    "bool",
	KindDate:    "date",
	KindFormula: "formula",
	KindError:   "error",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "kind(" + strconv.Itoa(int(k)) + ")"
}

// MaxStringLength is the longest text a cell can hold.
const MaxStringLength = 32767

// Value is a tagged union over the cell variants. The zero Value is Empty.
type Value struct {
	kind Kind
	s    string
	n    float64
	b    bool
	t    time.Time
}

// Empty returns the empty value.
func Empty() Value { return Value{} }

// String returns a text value. The text is never interpreted as a formula or error.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Number returns a numeric value.
func Number(n float64) Value { return Value{kind: KindNumber, n: n} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Date returns a date-time value. Workbooks store no time zone, so the
// wall clock of t is kept as UTC, rounded to the millisecond.
func Date(t time.Time) Value {
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	return Value{kind: KindDate, t: wall.Round(time.Millisecond)}
}

// Formula returns a formula value. A single leading "=" is stripped.
func Formula(text string) Value {
	return Value{kind: KindFormula, s: strings.TrimPrefix(text, "=")}
}

// Error returns an error-literal value such as "#N/A".
func Error(code string) Value { return Value{kind: KindError, s: code} }

// Kind reports the active variant.
func (v Value) Kind() Kind { return v.kind }

// IsEmpty reports whether v is the empty value.
func (v Value) IsEmpty() bool { return v.kind == KindEmpty }

// AsString returns the text of a String value.
func (v Value) AsString() (string, bool) { return v.s, v.kind == KindString }

// AsNumber returns the number of a Number value.
func (v Value) AsNumber() (float64, bool) { return v.n, v.kind == KindNumber }

// AsBool returns the boolean of a Bool value.
func (v Value) AsBool() (bool, bool) { return v.b, v.kind == KindBool }

// AsTime returns the time of a Date value.
func (v Value) AsTime() (time.Time, bool) { return v.t, v.kind == KindDate }

// FormulaText returns the formula text, without a leading "=".
func (v Value) FormulaText() (string, bool) { return v.s, v.kind == KindFormula }

// ErrorCode returns the code of an Error value.
func (v Value) ErrorCode() (string, bool) { return v.s, v.kind == KindError }

// Equal reports whether v and o hold the same variant and payload.
// Dates compare by instant.
func (v Value) Equal(o Value) bool {
	if v.kind != o.kind {
		return false
	}
	switch v.kind {
	case KindEmpty:
		return true
	case KindNumber:
		return v.n == o.n
	case KindBool:
		return v.b == o.b
	case KindDate:
		return v.t.Equal(o.t)
	default:
		return v.s == o.s
	}
}

// Text returns the display form of v.
func (v Value) Text() string {
	switch v.kind {
	case KindString, KindError:
		return v.s
	case KindNumber:
		return strconv.FormatFloat(v.n, 'f', -1, 64)
	case KindBool:
		if v.b {
			return "TRUE"
		}
		return "FALSE"
	case KindDate:
		return v.t.Format(time.RFC3339)
	case KindFormula:
		return "=" + v.s
	}
	return ""
}

// String implements fmt.Stringer.
func (v Value) String() string {
	if v.kind == KindEmpty {
		return "empty"
	}
	return v.kind.String() + "(" + v.Text() + ")"
}

// Interface returns the payload as a plain Go value: nil, string, float64,
// bool or time.Time. Formulas render with a leading "=".
func (v Value) Interface() any {
	switch v.kind {
	case KindString, KindError:
		return v.s
	case KindNumber:
		return v.n
	case KindBool:
		return v.b
	case KindDate:
		return v.t
	case KindFormula:
		return "=" + v.s
	}
	return nil
}
