package chart

import (
	"github.com/xuri/excelize/v2"
)

var excelizeTypes = map[Kind]excelize.ChartType{
	Line:     excelize.Line,
	Bar:      excelize.Bar,
	Column:   excelize.Col,
	Pie:      excelize.Pie,
	Scatter:  excelize.Scatter,
	Area:     excelize.Area,
	Doughnut: excelize.Doughnut,
}

// ToExcelize returns the anchor cell and chart definition for excelize.File.AddChart.
func ToExcelize(c Chart) (string, *excelize.Chart) {
	ec := &excelize.Chart{
		Type: excelizeTypes[c.kind],
		Dimension: excelize.ChartDimension{
			Width:  c.position.Width,
			Height: c.position.Height,
		},
	}
	if c.title != "" {
		ec.Title = []excelize.RichTextRun{{Text: c.title}}
	}
	if c.xAxisTitle != "" {
		ec.XAxis.Title = []excelize.RichTextRun{{Text: c.xAxisTitle}}
	}
	if c.yAxisTitle != "" {
		ec.YAxis.Title = []excelize.RichTextRun{{Text: c.yAxisTitle}}
	}
	if c.hideLegend {
		ec.Legend.Position = "none"
	}
	for _, s := range c.series {
		ec.Series = append(ec.Series, excelize.ChartSeries{
			Name:       s.Name,
			Categories: s.Categories,
			Values:     s.Values,
		})
	}
	return c.position.Anchor.String(), ec
}
