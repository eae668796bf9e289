package validation

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

func mustRange(t *testing.T, ref string) coord.Range {
	t.Helper()
	r, err := coord.ParseRange(ref)
	require.NoError(t, err)
	return r
}

func TestValidate(t *testing.T) {
	r := mustRange(t, "A1:A10")

	assert.ErrorIs(t, NewList(r).Validate(), ErrEmptyList)
	assert.ErrorIs(t, NewDecimal(r, nil, nil).Validate(), ErrNoBounds)
	assert.Error(t, NewDecimal(r, Bound(5), Bound(1)).Validate())
	assert.Error(t, NewCustom(r, "").Validate())

	assert.NoError(t, NewList(r, "a", "b").Validate())
	assert.NoError(t, NewDecimal(r, Bound(1), nil).Validate())
	assert.NoError(t, NewTextLength(r, nil, IntBound(10)).Validate())
}

func TestBuildersResetRaw(t *testing.T) {
	v := NewList(mustRange(t, "B2"), "x")
	v.raw = &excelize.DataValidation{}
	assert.Nil(t, v.WithInput("t", "m").raw)
	assert.NotNil(t, v.raw)
}

func TestToExcelizeList(t *testing.T) {
	v := NewList(mustRange(t, "B2:B5"), "red", "green").
		WithDropdown(false).
		WithError(Warning, "Oops", "pick a colour").
		WithInput("Colour", "choose one")

	dv, err := ToExcelize(v)
	require.NoError(t, err)
	assert.Equal(t, "B2:B5", dv.Sqref)
	assert.Equal(t, "list", dv.Type)
	assert.True(t, dv.ShowDropDown)
	assert.True(t, dv.AllowBlank)
	assert.True(t, dv.ShowErrorMessage)
	assert.True(t, dv.ShowInputMessage)
	require.NotNil(t, dv.ErrorTitle)
	assert.Equal(t, "Oops", *dv.ErrorTitle)
}

func TestToExcelizeCustom(t *testing.T) {
	dv, err := ToExcelize(NewCustom(mustRange(t, "C1"), "=ISNUMBER(C1)").WithIgnoreBlank(false))
	require.NoError(t, err)
	assert.Equal(t, "custom", dv.Type)
	assert.Equal(t, "ISNUMBER(C1)", dv.Formula1)
	assert.False(t, dv.AllowBlank)
}

func TestLimits(t *testing.T) {
	lo, hi := NewTextLength(mustRange(t, "A1"), nil, IntBound(20)).limits()
	assert.Equal(t, 0.0, lo)
	assert.Equal(t, 20.0, hi)

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lo, hi = NewDate(mustRange(t, "A1"), &start, nil).limits()
	assert.Equal(t, 45292.0, lo)
	assert.Equal(t, float64(maxDateSerial), hi)
}

func TestExcelizeRoundTrip(t *testing.T) {
	rules := []Validation{
		NewList(mustRange(t, "A1:A5"), "yes", "no").WithError(Stop, "Invalid", "yes or no"),
		NewDecimal(mustRange(t, "B1:B5"), Bound(0), Bound(100)),
		NewWholeNumber(mustRange(t, "C1"), IntBound(1), IntBound(9)).WithInput("Digit", "1-9"),
		NewTextLength(mustRange(t, "D1:D2"), nil, IntBound(8)),
	}

	f := excelize.NewFile()
	defer f.Close()
	for _, v := range rules {
		dv, err := ToExcelize(v)
		require.NoError(t, err)
		require.NoError(t, f.AddDataValidation("Sheet1", dv))
	}
	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	g, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer g.Close()
	dvs, err := g.GetDataValidations("Sheet1")
	require.NoError(t, err)
	require.Len(t, dvs, len(rules))

	for i, dv := range dvs {
		got, err := FromExcelize(dv)
		require.NoError(t, err)
		assert.Equal(t, rules[i].Kind(), got.Kind(), "rule %d", i)
		assert.Equal(t, rules[i].Range(), got.Range(), "rule %d", i)
		assert.NotNil(t, got.raw)
	}

	list, _ := FromExcelize(dvs[0])
	assert.Equal(t, []string{"yes", "no"}, list.Values())
	_, title, msg, ok := list.ErrorMessage()
	assert.True(t, ok)
	assert.Equal(t, "Invalid", title)
	assert.Equal(t, "yes or no", msg)

	dec, _ := FromExcelize(dvs[1])
	lo, ok := dec.Min()
	assert.True(t, ok)
	assert.Equal(t, 0.0, lo)
	hi, _ := dec.Max()
	assert.Equal(t, 100.0, hi)

	whole, _ := FromExcelize(dvs[2])
	title, msg = whole.Prompt()
	assert.Equal(t, "Digit", title)
	assert.Equal(t, "1-9", msg)
}
