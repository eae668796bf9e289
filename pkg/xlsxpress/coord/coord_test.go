package coord

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestColumnName(t *testing.T) {
	tests := []struct {
		col      uint32
		expected string
	}{
		{0, "A"},
		{25, "Z"},
		{26, "AA"},
		{51, "AZ"},
		{52, "BA"},
		{701, "ZZ"},
		{702, "AAA"},
		{MaxCols - 1, "XFD"},
	}

	for _, tt := range tests {
		result := ColumnName(tt.col)
		if result != tt.expected {
			t.Errorf("ColumnName(%d) = %q, expected %q", tt.col, result, tt.expected)
		}
		back, err := ColumnIndex(tt.expected)
		if err != nil || back != tt.col {
			t.Errorf("ColumnIndex(%q) = %d, %v, expected %d", tt.expected, back, err, tt.col)
		}
	}
}

func TestReferenceRoundTrip(t *testing.T) {
	samples := []Coordinate{
		{0, 0},
		{9, 1},
		{MaxRows - 1, MaxCols - 1},
		{1048575, 0},
		{0, 16383},
		{12345, 777},
	}
	for _, c := range samples {
		ref := FormatReference(c)
		got, err := ParseReference(ref)
		require.NoError(t, err, ref)
		assert.Equal(t, c, got, ref)
	}
}

func TestParseReference(t *testing.T) {
	c, err := ParseReference("B12")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{Row: 11, Col: 1}, c)

	c, err = ParseReference("$C$3")
	require.NoError(t, err)
	assert.Equal(t, Coordinate{Row: 2, Col: 2}, c)

	for _, bad := range []string{"", "12", "A0", "XFE1", "A1048577"} {
		_, err := ParseReference(bad)
		assert.Error(t, err, bad)
	}
}

func TestNewOutOfBounds(t *testing.T) {
	_, err := New(MaxRows, 0)
	var oob *OutOfBoundsError
	require.True(t, errors.As(err, &oob))
	assert.Equal(t, uint32(MaxRows), oob.Row)

	_, err = New(0, MaxCols)
	assert.True(t, errors.As(err, &oob))

	_, err = New(MaxRows-1, MaxCols-1)
	assert.NoError(t, err)
}

func TestParseRange(t *testing.T) {
	r, err := ParseRange("A1:B10")
	require.NoError(t, err)
	assert.Equal(t, Range{Start: Coordinate{0, 0}, End: Coordinate{9, 1}}, r)
	assert.Equal(t, "A1:B10", r.String())

	r, err = ParseRange("A1:A1")
	require.NoError(t, err)
	assert.Equal(t, "A1", r.String())

	r, err = ParseRange("'My Sheet'!$C$3")
	require.NoError(t, err)
	assert.Equal(t, Single(Coordinate{2, 2}), r)

	for _, bad := range []string{"B2:A1", "A2:B1", "B1:A2", "A1:B2:C3", ":A1", "A1:"} {
		_, err := ParseRange(bad)
		var ire *InvalidRangeError
		assert.True(t, errors.As(err, &ire), "ParseRange(%q) = %v", bad, err)
	}
}

func TestRangeGeometry(t *testing.T) {
	a, _ := ParseRange("A1:C3")
	b, _ := ParseRange("C3:D4")
	c, _ := ParseRange("D1:E2")

	assert.True(t, a.Overlaps(b))
	assert.True(t, b.Overlaps(a))
	assert.False(t, a.Overlaps(c))
	assert.False(t, b.Overlaps(c))

	assert.True(t, a.Contains(Coordinate{2, 2}))
	assert.False(t, a.Contains(Coordinate{3, 0}))

	assert.Equal(t, "A1:E4", a.Union(b).Union(c).String())
	assert.Equal(t, uint32(3), a.Rows())
	assert.Equal(t, uint32(2), c.Cols())
}

func TestRasterOrder(t *testing.T) {
	assert.True(t, Coordinate{0, 5}.Less(Coordinate{1, 0}))
	assert.True(t, Coordinate{1, 0}.Less(Coordinate{1, 1}))
	assert.Equal(t, 0, Coordinate{2, 2}.Compare(Coordinate{2, 2}))
	assert.Equal(t, 1, Coordinate{3, 0}.Compare(Coordinate{2, 9}))
}
