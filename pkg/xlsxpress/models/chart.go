package models

// ChartSeries represents series metadata for a chart.
type ChartSeries struct {
	// Name is the series display name.
	Name string `json:"name"`
	// Categories is the range reference for category (X axis) values.
	Categories string `json:"categories,omitempty"`
	// Values is the range reference for the plotted values.
	Values string `json:"values"`
}

// Chart represents chart metadata including series and layout.
type Chart struct {
	// ChartType is the chart type (e.g., Column, Line).
	ChartType string `json:"chart_type"`
	// Title is the chart title.
	Title string `json:"title,omitempty"`
	// XAxisTitle is the X-axis title.
	XAxisTitle string `json:"x_axis_title,omitempty"`
	// YAxisTitle is the Y-axis title.
	YAxisTitle string `json:"y_axis_title,omitempty"`
	// Legend reports whether the legend is shown.
	Legend bool `json:"legend"`
	// Anchor is the A1 reference of the top-left cell.
	Anchor string `json:"anchor"`
	// W is the chart width in pixels (nil unless verbose mode).
	W *int `json:"w,omitempty"`
	// H is the chart height in pixels (nil unless verbose mode).
	H *int `json:"h,omitempty"`
	// Series is the list of series included in the chart.
	Series []ChartSeries `json:"series"`
}
