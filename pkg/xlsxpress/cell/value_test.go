package cell

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type myInt int32

type myString string

func TestInfer(t *testing.T) {
	when := time.Date(2024, time.March, 5, 10, 30, 0, 0, time.UTC)
	n := 7
	var nilPtr *int

	tests := []struct {
		name string
		in   any
		want Value
	}{
		{"nil", nil, Empty()},
		{"nil pointer", nilPtr, Empty()},
		{"pointer", &n, Number(7)},
		{"bool", true, Bool(true)},
		{"int", 42, Number(42)},
		{"named int", myInt(-3), Number(-3)},
		{"uint8", uint8(200), Number(200)},
		{"float32", float32(1.5), Number(1.5)},
		{"float64", 3.25, Number(3.25)},
		{"string", "hello", String("hello")},
		{"named string", myString("x"), String("x")},
		{"bytes", []byte("raw"), String("raw")},
		{"formula-looking string", "=SUM(A1:A3)", String("=SUM(A1:A3)")},
		{"error-looking string", "#N/A", String("#N/A")},
		{"time", when, Date(when)},
		{"value passthrough", Formula("A1*2"), Formula("A1*2")},
		{"complex", complex(1, 2), String("(1+2i)")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Infer(tt.in)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "Infer(%v) = %v, expected %v", tt.in, got, tt.want)
		})
	}
}

func TestInferRejects(t *testing.T) {
	inputs := []any{
		math.NaN(),
		math.Inf(1),
		[]int{1, 2},
		map[string]int{"a": 1},
		struct{ A int }{1},
		func() {},
	}
	for _, in := range inputs {
		_, err := Infer(in)
		var tie *TypeInferenceError
		require.Error(t, err, "Infer(%T)", in)
		assert.True(t, errors.As(err, &tie), "Infer(%T) error type %T", in, err)
	}
}

func TestBareNumberIsNeverDate(t *testing.T) {
	v, err := Infer(45000.0)
	require.NoError(t, err)
	assert.Equal(t, KindNumber, v.Kind())
}

func TestFormulaStripsLeadingEquals(t *testing.T) {
	assert.True(t, Formula("=SUM(A1)").Equal(Formula("SUM(A1)")))
	text, ok := Formula("==A1").FormulaText()
	assert.True(t, ok)
	assert.Equal(t, "=A1", text)
}

func TestAccessors(t *testing.T) {
	s, ok := String("a").AsString()
	assert.True(t, ok)
	assert.Equal(t, "a", s)

	_, ok = Number(1).AsString()
	assert.False(t, ok)

	code, ok := Error(ErrDiv0).ErrorCode()
	assert.True(t, ok)
	assert.Equal(t, "#DIV/0!", code)

	assert.True(t, Empty().IsEmpty())
	assert.False(t, String("").IsEmpty())
}

func TestEqualDistinguishesKinds(t *testing.T) {
	assert.False(t, String("1").Equal(Number(1)))
	assert.False(t, Formula("A1").Equal(String("A1")))
	assert.False(t, Error(ErrNA).Equal(String(ErrNA)))
	assert.True(t, Empty().Equal(Value{}))
}

func TestParseErrorCode(t *testing.T) {
	tests := []struct {
		input    string
		expected string
		ok       bool
	}{
		{"#N/A", ErrNA, true},
		{"#div/0!", ErrDiv0, true},
		{" #REF! ", ErrRef, true},
		{"#FOO", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseErrorCode(tt.input)
		if got != tt.expected || ok != tt.ok {
			t.Errorf("ParseErrorCode(%q) = %q, %v, expected %q, %v", tt.input, got, ok, tt.expected, tt.ok)
		}
	}
}

func TestSerialRoundTrip(t *testing.T) {
	dates := []time.Time{
		time.Date(1900, time.January, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1900, time.February, 28, 0, 0, 0, 0, time.UTC),
		time.Date(1900, time.March, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, time.February, 29, 23, 59, 59, 0, time.UTC),
		time.Date(2012, time.November, 22, 10, 56, 19, 0, time.UTC),
	}
	for _, d := range dates {
		for _, date1904 := range []bool{false, true} {
			if date1904 && d.Year() < 1904 {
				continue
			}
			got := SerialToDate(DateToSerial(d, date1904), date1904)
			assert.True(t, d.Equal(got), "round trip %v (1904=%v) = %v", d, date1904, got)
		}
	}
}

func TestKnownSerials(t *testing.T) {
	assert.Equal(t, 1.0, DateToSerial(time.Date(1900, 1, 1, 0, 0, 0, 0, time.UTC), false))
	assert.Equal(t, 61.0, DateToSerial(time.Date(1900, 3, 1, 0, 0, 0, 0, time.UTC), false))
	assert.Equal(t, 45292.5, DateToSerial(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC), false))
}

func TestDateKeepsWallClock(t *testing.T) {
	zoned := time.Date(2024, time.May, 6, 7, 8, 9, 123456789, time.FixedZone("EEST", 3*60*60))
	v := Date(zoned)
	got, ok := v.AsTime()
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, time.May, 6, 7, 8, 9, 123000000, time.UTC), got)

	serial := DateToSerial(zoned, false)
	assert.True(t, v.Equal(Date(SerialToDate(serial, false))), "a stored date reads back equal")
}
