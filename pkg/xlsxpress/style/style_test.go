package style

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func boldRed() Style {
	return New().
		WithFont(NewFont("Arial", 12).WithBold(true).WithColor("#ff0000")).
		WithFill(SolidFill("FFFF00"))
}

func TestInternDeduplicates(t *testing.T) {
	in := NewInterner()

	a := in.Intern(boldRed())
	b := in.Intern(boldRed())
	assert.Equal(t, a, b)
	assert.Equal(t, 1, in.Len())

	c := in.Intern(boldRed().WithAlignment(Alignment{}.WithWrap(true)))
	assert.NotEqual(t, a, c)
	assert.Equal(t, 2, in.Len())

	got, err := in.Resolve(a)
	require.NoError(t, err)
	assert.Equal(t, boldRed(), got)
	assert.True(t, got.IsBold())
}

func TestInternZeroStyle(t *testing.T) {
	in := NewInterner()
	h := in.Intern(New())
	assert.True(t, h.IsZero())
	assert.Equal(t, 0, in.Len())

	s, err := in.Resolve(Handle{})
	require.NoError(t, err)
	assert.True(t, s.IsZero())
}

func TestForeignHandle(t *testing.T) {
	a := NewInterner()
	b := NewInterner()

	h := a.Intern(boldRed())
	_, err := b.Resolve(h)
	var fhe *ForeignHandleError
	require.True(t, errors.As(err, &fhe))
	assert.Equal(t, h, fhe.Handle)
	assert.False(t, b.Owns(h))
	assert.True(t, a.Owns(h))
}

func TestInternConcurrent(t *testing.T) {
	in := NewInterner()
	var wg sync.WaitGroup
	handles := make([]Handle, 32)
	for i := range handles {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			handles[i] = in.Intern(boldRed())
		}(i)
	}
	wg.Wait()
	for _, h := range handles {
		assert.Equal(t, handles[0], h)
	}
	assert.Equal(t, 1, in.Len())
}

func TestBuildersAreImmutable(t *testing.T) {
	f := NewFont("Calibri", 11)
	g := f.WithBold(true)
	assert.False(t, f.IsBold())
	assert.True(t, g.IsBold())

	a := Alignment{}.WithIndent(40).WithRotation(400)
	assert.Equal(t, MaxIndent, a.Indent())
	assert.Equal(t, 90, a.Rotation())
}

func TestNormalizeColor(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"#ff0000", "FF0000"},
		{"00FF00", "00FF00"},
		{"FF0000FF", "0000FF"},
		{"", ""},
	}
	for _, tt := range tests {
		result := normalizeColor(tt.input)
		if result != tt.expected {
			t.Errorf("normalizeColor(%q) = %q, expected %q", tt.input, result, tt.expected)
		}
	}
}

func TestNumberFormatPresets(t *testing.T) {
	assert.Equal(t, "0.00", Decimal(2).Code())
	assert.Equal(t, "0", Decimal(0).Code())
	assert.Equal(t, "$#,##0.00", Currency(2).Code())
	assert.Equal(t, "0.0%", Percentage(1).Code())
	assert.Equal(t, "0.00E+00", Scientific(2).Code())
	assert.Equal(t, 49, TextFormat().ID())
	assert.True(t, CustomFormat("General").IsGeneral())
	assert.Len(t, Decimal(99).Code(), 2+maxDecimals)
}

func TestIsDateFormat(t *testing.T) {
	tests := []struct {
		format   NumberFormat
		expected bool
	}{
		{General(), false},
		{BuiltinFormat(14), true},
		{BuiltinFormat(22), true},
		{BuiltinFormat(2), false},
		{DateFormat(), true},
		{TimeFormat(), true},
		{DateTimeFormat(), true},
		{CustomFormat("[h]:mm:ss"), true},
		{CustomFormat("[Red]0.00"), false},
		{CustomFormat(`0.00" days"`), false},
		{Currency(2), false},
		{Accounting(2), false},
		{Scientific(3), false},
		{TextFormat(), false},
	}
	for _, tt := range tests {
		if got := tt.format.IsDate(); got != tt.expected {
			t.Errorf("IsDate(%+v) = %v, expected %v", tt.format, got, tt.expected)
		}
	}
}

func TestExcelizeConversionRoundTrip(t *testing.T) {
	styles := []Style{
		boldRed(),
		New().WithBorder(AllBorders(BorderThin).WithColor("000000")),
		New().WithBorder(Border{}.WithTop(BorderDouble).WithDiagonal(BorderDashed, true, false).WithColor("123456")),
		New().WithAlignment(Alignment{}.WithHorizontal(HAlignCenter).WithVertical(VAlignTop).WithWrap(true).WithRotation(-45).WithIndent(2)),
		New().WithNumberFormat(Percentage(2)),
		New().WithNumberFormat(BuiltinFormat(14)),
		New().WithFill(PatternFill(FillGray125, "C0C0C0")),
		New().WithFont(Font{}.WithItalic(true).WithUnderline(true).WithStrikethrough(true)),
	}
	for _, s := range styles {
		assert.Equal(t, s, FromExcelize(ToExcelize(s)))
	}
}
