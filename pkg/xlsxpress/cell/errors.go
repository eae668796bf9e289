package cell

import (
	"fmt"
	"strings"
)

// Error literal codes understood by spreadsheet applications.
const (
	ErrNull        = "#NULL!"
	ErrDiv0        = "#DIV/0!"
	ErrValue       = "#VALUE!"
	ErrRef         = "#REF!"
	ErrName        = "#NAME?"
	ErrNum         = "#NUM!"
	ErrNA          = "#N/A"
	ErrGettingData = "#GETTING_DATA"
)

var errorCodes = []string{ErrNull, ErrDiv0, ErrValue, ErrRef, ErrName, ErrNum, ErrNA, ErrGettingData}

// ParseErrorCode reports whether s is a known error literal, matched
// case-insensitively, and returns its canonical spelling.
func ParseErrorCode(s string) (string, bool) {
	s = strings.TrimSpace(s)
	for _, c := range errorCodes {
		if strings.EqualFold(s, c) {
			return c, true
		}
	}
	return "", false
}

// TypeInferenceError is returned when a native value has no cell representation.
type TypeInferenceError struct {
	Type   string
	Reason string
}

func (e *TypeInferenceError) Error() string {
	return fmt.Sprintf("cannot infer cell value from %s: %s", e.Type, e.Reason)
}

// NewTypeInferenceError creates a new TypeInferenceError.
func NewTypeInferenceError(value any, reason string) *TypeInferenceError {
	return &TypeInferenceError{
		Type:   fmt.Sprintf("%T", value),
		Reason: reason,
	}
}
