// Package chart describes charts attached to a worksheet.
package chart

import (
	"errors"
	"fmt"
	"slices"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

// Kind is the chart type.
type Kind uint8

const (
	Line Kind = iota
	Bar
	Column
	Pie
	Scatter
	Area
	Doughnut
)

var kindNames = map[Kind]string{
	Line:     "Line",
	Bar:      "Bar",
	Column:   "Column",
	Pie:      "Pie",
	Scatter:  "Scatter",
	Area:     "Area",
	Doughnut: "Doughnut",
}

// String returns the kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Default chart size in pixels.
const (
	DefaultWidth  = 480
	DefaultHeight = 288
)

// ErrNoSeries is returned when a chart without data series is inserted.
var ErrNoSeries = errors.New("chart has no data series")

// Series is one data series. Ranges are sheet-qualified references such as
// "Sheet1!$B$2:$B$10".
type Series struct {
	// Name is a literal series name or a reference to the cell holding it.
	Name string
	// Categories is the category (or X value) range.
	Categories string
	// Values is the value range.
	Values string
}

// Position anchors the top-left corner of a chart to a cell.
type Position struct {
	Anchor coord.Coordinate
	Width  uint
	Height uint
}

// Chart is an immutable chart description.
type Chart struct {
	kind       Kind
	title      string
	xAxisTitle string
	yAxisTitle string
	hideLegend bool
	series     []Series
	position   Position
}

// New returns an empty chart of the given kind anchored at A1.
func New(kind Kind) Chart {
	return Chart{
		kind:     kind,
		position: Position{Width: DefaultWidth, Height: DefaultHeight},
	}
}

// WithTitle sets the chart title.
func (c Chart) WithTitle(t string) Chart { c.title = t; return c }

// WithXAxisTitle sets the category axis title.
func (c Chart) WithXAxisTitle(t string) Chart { c.xAxisTitle = t; return c }

// WithYAxisTitle sets the value axis title.
func (c Chart) WithYAxisTitle(t string) Chart { c.yAxisTitle = t; return c }

// WithLegend shows or hides the legend. Legends are shown by default.
func (c Chart) WithLegend(show bool) Chart { c.hideLegend = !show; return c }

// WithSeries returns a copy of c with s appended.
func (c Chart) WithSeries(s Series) Chart {
	c.series = append(slices.Clip(c.series), s)
	return c
}

// At anchors the chart at the given cell.
func (c Chart) At(anchor coord.Coordinate) Chart { c.position.Anchor = anchor; return c }

// WithSize sets the chart size in pixels. Zero keeps the default.
func (c Chart) WithSize(width, height uint) Chart {
	if width > 0 {
		c.position.Width = width
	}
	if height > 0 {
		c.position.Height = height
	}
	return c
}

// Kind returns the chart kind.
func (c Chart) Kind() Kind { return c.kind }

// Title returns the chart title.
func (c Chart) Title() string { return c.title }

// XAxisTitle returns the category axis title.
func (c Chart) XAxisTitle() string { return c.xAxisTitle }

// YAxisTitle returns the value axis title.
func (c Chart) YAxisTitle() string { return c.yAxisTitle }

// ShowsLegend reports whether the legend is shown.
func (c Chart) ShowsLegend() bool { return !c.hideLegend }

// Position returns the anchor and size.
func (c Chart) Position() Position { return c.position }

// Series returns a copy of the data series.
func (c Chart) Series() []Series { return slices.Clone(c.series) }

// Validate checks that c can be written.
func (c Chart) Validate() error {
	if _, ok := kindNames[c.kind]; !ok {
		return fmt.Errorf("unknown chart kind %d", c.kind)
	}
	if len(c.series) == 0 {
		return ErrNoSeries
	}
	for i, s := range c.series {
		if s.Values == "" {
			return fmt.Errorf("series %d has no values range", i)
		}
	}
	return c.position.Anchor.Validate()
}
