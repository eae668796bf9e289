// Package validation describes data-validation rules attached to cell ranges.
package validation

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

// Kind is the rule type.
type Kind uint8

const (
	List Kind = iota
	Decimal
	WholeNumber
	Date
	TextLength
	Custom
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case List:
		return "list"
	case Decimal:
		return "decimal"
	case WholeNumber:
		return "whole"
	case Date:
		return "date"
	case TextLength:
		return "textLength"
	case Custom:
		return "custom"
	}
	return fmt.Sprintf("Kind(%d)", uint8(k))
}

// ErrorStyle controls how a spreadsheet application reacts to invalid input.
type ErrorStyle uint8

const (
	Stop ErrorStyle = iota
	Warning
	Information
)

var (
	// ErrEmptyList is returned for a list rule without values.
	ErrEmptyList = errors.New("list validation needs at least one value")
	// ErrNoBounds is returned for a range rule without min and max.
	ErrNoBounds = errors.New("range validation needs a minimum or a maximum")
)

// Validation is a rule applied to one range.
type Validation struct {
	kind Kind
	rng  coord.Range

	values       []string
	hideDropdown bool
	min, max     *float64
	formula      string

	hasError   bool
	errStyle   ErrorStyle
	errTitle   string
	errMessage string

	promptTitle string
	prompt      string

	keepBlankStrict bool

	// set when the rule was read from a file; written back unchanged unless
	// the rule is modified
	raw *excelize.DataValidation
}

func newRule(kind Kind, rng coord.Range) Validation {
	return Validation{kind: kind, rng: rng}
}

// NewList restricts input to one of values, offered in a dropdown.
func NewList(rng coord.Range, values ...string) Validation {
	v := newRule(List, rng)
	v.values = slices.Clone(values)
	return v
}

// NewDecimal restricts input to numbers within the optional bounds.
func NewDecimal(rng coord.Range, min, max *float64) Validation {
	v := newRule(Decimal, rng)
	v.min, v.max = min, max
	return v
}

// NewWholeNumber restricts input to integers within the optional bounds.
func NewWholeNumber(rng coord.Range, min, max *int) Validation {
	v := newRule(WholeNumber, rng)
	v.min, v.max = intBound(min), intBound(max)
	return v
}

// NewDate restricts input to dates within the optional bounds.
func NewDate(rng coord.Range, min, max *time.Time) Validation {
	v := newRule(Date, rng)
	v.min, v.max = dateBound(min), dateBound(max)
	return v
}

// NewTextLength restricts the length of text input.
func NewTextLength(rng coord.Range, min, max *int) Validation {
	v := newRule(TextLength, rng)
	v.min, v.max = intBound(min), intBound(max)
	return v
}

// NewCustom accepts input for which formula evaluates to TRUE.
func NewCustom(rng coord.Range, formula string) Validation {
	v := newRule(Custom, rng)
	v.formula = formula
	return v
}

// Bound returns a pointer to f, for use as an optional limit.
func Bound(f float64) *float64 { return &f }

// IntBound returns a pointer to n, for use as an optional limit.
func IntBound(n int) *int { return &n }

func intBound(n *int) *float64 {
	if n == nil {
		return nil
	}
	f := float64(*n)
	return &f
}

func dateBound(t *time.Time) *float64 {
	if t == nil {
		return nil
	}
	f := cell.DateToSerial(*t, false)
	return &f
}

// WithError sets the message shown when input is rejected.
func (v Validation) WithError(style ErrorStyle, title, message string) Validation {
	v.hasError, v.errStyle, v.errTitle, v.errMessage = true, style, title, message
	v.raw = nil
	return v
}

// WithInput sets the prompt shown when a cell in the range is selected.
func (v Validation) WithInput(title, message string) Validation {
	v.promptTitle, v.prompt = title, message
	v.raw = nil
	return v
}

// WithIgnoreBlank controls whether empty cells pass validation. Blank
// cells are ignored by default.
func (v Validation) WithIgnoreBlank(ignore bool) Validation {
	v.keepBlankStrict = !ignore
	v.raw = nil
	return v
}

// WithDropdown shows or hides the in-cell dropdown of a list rule.
func (v Validation) WithDropdown(show bool) Validation {
	v.hideDropdown = !show
	v.raw = nil
	return v
}

// On returns v moved to another range.
func (v Validation) On(rng coord.Range) Validation { v.rng = rng; return v }

// Kind returns the rule kind.
func (v Validation) Kind() Kind { return v.kind }

// Range returns the cells the rule applies to.
func (v Validation) Range() coord.Range { return v.rng }

// Values returns the allowed entries of a list rule.
func (v Validation) Values() []string { return slices.Clone(v.values) }

// Formula returns the formula of a custom rule.
func (v Validation) Formula() string { return v.formula }

// IgnoresBlank reports whether blank cells pass.
func (v Validation) IgnoresBlank() bool { return !v.keepBlankStrict }

// ShowsDropdown reports whether a list rule shows its dropdown.
func (v Validation) ShowsDropdown() bool { return !v.hideDropdown }

// Min returns the lower bound, if any.
func (v Validation) Min() (float64, bool) { return deref(v.min) }

// Max returns the upper bound, if any.
func (v Validation) Max() (float64, bool) { return deref(v.max) }

// Prompt returns the input prompt shown on selection.
func (v Validation) Prompt() (title, message string) { return v.promptTitle, v.prompt }

// ErrorMessage returns the rejection message, if one is set.
func (v Validation) ErrorMessage() (style ErrorStyle, title, message string, ok bool) {
	return v.errStyle, v.errTitle, v.errMessage, v.hasError
}

func deref(p *float64) (float64, bool) {
	if p == nil {
		return 0, false
	}
	return *p, true
}

// Validate checks that v can be written.
func (v Validation) Validate() error {
	if v.raw != nil {
		return nil
	}
	switch v.kind {
	case List:
		if len(v.values) == 0 {
			return ErrEmptyList
		}
	case Decimal, WholeNumber, Date, TextLength:
		if v.min == nil && v.max == nil {
			return ErrNoBounds
		}
		if v.min != nil && v.max != nil && *v.min > *v.max {
			return fmt.Errorf("validation minimum %v exceeds maximum %v", *v.min, *v.max)
		}
	case Custom:
		if v.formula == "" {
			return errors.New("custom validation needs a formula")
		}
	default:
		return fmt.Errorf("unknown validation kind %s", v.kind)
	}
	if err := v.rng.Start.Validate(); err != nil {
		return err
	}
	return v.rng.End.Validate()
}
