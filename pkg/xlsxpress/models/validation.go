package models

// Validation represents a data-validation rule.
type Validation struct {
	// Type is the rule kind (e.g., List, Decimal, Custom).
	Type string `json:"type"`
	// Range is the A1 range the rule applies to.
	Range string `json:"range"`
	// Values lists the allowed entries of a list rule.
	Values []string `json:"values,omitempty"`
	// Formula is the formula of a custom rule.
	Formula string `json:"formula,omitempty"`
	// Min is the lower bound when set.
	Min *float64 `json:"min,omitempty"`
	// Max is the upper bound when set.
	Max *float64 `json:"max,omitempty"`
}
