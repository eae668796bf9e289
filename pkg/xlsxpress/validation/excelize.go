package validation

import (
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/cell"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

const (
	maxWhole      = math.MaxInt32
	maxDateSerial = 2958465 // 9999-12-31
)

var kindTypes = map[Kind]excelize.DataValidationType{
	Decimal:     excelize.DataValidationTypeDecimal,
	WholeNumber: excelize.DataValidationTypeWhole,
	Date:        excelize.DataValidationTypeDate,
	TextLength:  excelize.DataValidationTypeTextLength,
}

var typeKinds = map[string]Kind{
	"list":       List,
	"decimal":    Decimal,
	"whole":      WholeNumber,
	"date":       Date,
	"textLength": TextLength,
	"custom":     Custom,
}

var errorStyles = map[ErrorStyle]excelize.DataValidationErrorStyle{
	Stop:        excelize.DataValidationErrorStyleStop,
	Warning:     excelize.DataValidationErrorStyleWarning,
	Information: excelize.DataValidationErrorStyleInformation,
}

func (v Validation) limits() (lo, hi float64) {
	switch v.kind {
	case Decimal:
		lo, hi = -math.MaxFloat32, math.MaxFloat32
	case WholeNumber:
		lo, hi = -maxWhole, maxWhole
	case Date:
		lo, hi = 0, maxDateSerial
	case TextLength:
		lo, hi = 0, cell.MaxStringLength
	}
	if v.min != nil {
		lo = *v.min
	}
	if v.max != nil {
		hi = *v.max
	}
	return lo, hi
}

// ToExcelize converts v for excelize.File.AddDataValidation.
func ToExcelize(v Validation) (*excelize.DataValidation, error) {
	if err := v.Validate(); err != nil {
		return nil, err
	}
	if v.raw != nil {
		dv := *v.raw
		dv.Sqref = v.rng.String()
		return &dv, nil
	}

	dv := excelize.NewDataValidation(v.IgnoresBlank())
	dv.Sqref = v.rng.String()
	switch v.kind {
	case List:
		if err := dv.SetDropList(v.values); err != nil {
			return nil, err
		}
		// the attribute is inverted: true hides the arrow
		dv.ShowDropDown = v.hideDropdown
	case Custom:
		dv.Type = "custom"
		dv.Formula1 = strings.TrimPrefix(v.formula, "=")
	default:
		lo, hi := v.limits()
		if err := dv.SetRange(lo, hi, kindTypes[v.kind], excelize.DataValidationOperatorBetween); err != nil {
			return nil, err
		}
	}
	if v.hasError {
		dv.SetError(errorStyles[v.errStyle], v.errTitle, v.errMessage)
	}
	if v.promptTitle != "" || v.prompt != "" {
		dv.SetInput(v.promptTitle, v.prompt)
	}
	return dv, nil
}

// FromExcelize converts a rule read with excelize.File.GetDataValidations.
// The original rule is kept and written back verbatim until v is modified.
func FromExcelize(dv *excelize.DataValidation) (Validation, error) {
	first, _, _ := strings.Cut(strings.TrimSpace(dv.Sqref), " ")
	rng, err := coord.ParseRange(first)
	if err != nil {
		return Validation{}, err
	}

	kind, ok := typeKinds[dv.Type]
	if !ok {
		kind = Custom
	}
	v := newRule(kind, rng)
	v.keepBlankStrict = !dv.AllowBlank
	v.hideDropdown = dv.ShowDropDown

	switch kind {
	case List:
		list := strings.TrimSpace(dv.Formula1)
		if unq, ok := strings.CutPrefix(list, `"`); ok {
			list = strings.ReplaceAll(strings.TrimSuffix(unq, `"`), `""`, `"`)
			v.values = strings.Split(list, ",")
		} else if isReference(list) {
			v.values = []string{"=" + strings.TrimPrefix(list, "=")}
		} else if list != "" {
			v.values = strings.Split(list, ",")
		}
	case Custom:
		v.formula = dv.Formula1
	default:
		v.min = parseBound(dv.Formula1)
		v.max = parseBound(dv.Formula2)
	}

	if dv.ShowErrorMessage {
		v.hasError = true
		v.errTitle = strValue(dv.ErrorTitle)
		v.errMessage = strValue(dv.Error)
		switch strValue(dv.ErrorStyle) {
		case "warning":
			v.errStyle = Warning
		case "information":
			v.errStyle = Information
		}
	}
	if dv.ShowInputMessage {
		v.promptTitle = strValue(dv.PromptTitle)
		v.prompt = strValue(dv.Prompt)
	}

	raw := *dv
	v.raw = &raw
	return v, nil
}

func isReference(s string) bool {
	return strings.HasPrefix(s, "=") || strings.ContainsAny(s, "$!:")
}

func parseBound(s string) *float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return nil
	}
	return &f
}

func strValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
