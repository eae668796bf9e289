package parser

import (
	"archive/zip"
	"encoding/xml"
	"path"
	"strconv"
	"strings"

	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/chart"
	"github.com/xlsxpress/xlsxpress-go/pkg/xlsxpress/coord"
)

// ChartTypeMap maps OOXML plot elements to chart kinds. Bar charts are
// refined by their barDir.
var ChartTypeMap = map[string]chart.Kind{
	"lineChart":     chart.Line,
	"line3DChart":   chart.Line,
	"barChart":      chart.Column,
	"bar3DChart":    chart.Column,
	"areaChart":     chart.Area,
	"area3DChart":   chart.Area,
	"pieChart":      chart.Pie,
	"pie3DChart":    chart.Pie,
	"ofPieChart":    chart.Pie,
	"doughnutChart": chart.Doughnut,
	"scatterChart":  chart.Scatter,
}

// unsupportedCharts are plot elements with no chart.Kind.
var unsupportedCharts = map[string]bool{
	"bubbleChart":    true,
	"radarChart":     true,
	"surfaceChart":   true,
	"surface3DChart": true,
	"stockChart":     true,
}

// chartInfo holds chart metadata from drawing.xml.
type chartInfo struct {
	name      string
	chartPath string
	pos       chartPosition
}

// chartPosition holds position info from drawing.xml.
type chartPosition struct {
	name   string
	anchor coord.Coordinate
	width  int
	height int
}

// anchorMarker is an xdr:from or xdr:to element.
type anchorMarker struct {
	col, row       int
	colOff, rowOff int64
}

// ExtractCharts returns the charts drawn on the worksheet at sheetPath, in
// drawing order. Charts whose type has no chart.Kind are reported in skipped.
func ExtractCharts(r *zip.Reader, sheetPath string) (charts []chart.Chart, skipped []string, err error) {
	sheetRelsXML, err := ReadZipFile(r, relsPathFor(sheetPath))
	if err != nil || sheetRelsXML == nil {
		return nil, nil, err
	}

	drawingRel, ok := findRelationship(parseRels(sheetRelsXML), "/drawing")
	if !ok {
		return nil, nil, nil
	}
	drawingPath := resolveRelativePath(drawingRel.Target, path.Dir(sheetPath))

	infos, err := getChartInfosFromDrawing(r, drawingPath)
	if err != nil {
		return nil, nil, err
	}
	for _, ci := range infos {
		chartXML, err := ReadZipFile(r, ci.chartPath)
		if err != nil {
			return nil, nil, err
		}
		if chartXML == nil {
			continue
		}
		c, kind, ok := parseChartXML(chartXML, ci.pos)
		if !ok {
			skipped = append(skipped, ci.name+" ("+kind+")")
			continue
		}
		charts = append(charts, c)
	}
	return charts, skipped, nil
}

// getChartInfosFromDrawing extracts chart info from a drawing XML file.
func getChartInfosFromDrawing(r *zip.Reader, drawingPath string) ([]chartInfo, error) {
	drawingXML, err := ReadZipFile(r, drawingPath)
	if err != nil || drawingXML == nil {
		return nil, err
	}

	chartPositions := parseDrawingForCharts(drawingXML)
	if len(chartPositions) == 0 {
		return nil, nil
	}

	relsXML, err := ReadZipFile(r, relsPathFor(drawingPath))
	if err != nil || relsXML == nil {
		return nil, err
	}
	rels := parseRels(relsXML)

	var result []chartInfo
	for _, cp := range chartPositions {
		rel, ok := rels[cp.rID]
		if !ok || !strings.Contains(strings.ToLower(rel.Type), "chart") {
			continue
		}
		result = append(result, chartInfo{
			name:      cp.pos.name,
			chartPath: resolveRelativePath(rel.Target, path.Dir(drawingPath)),
			pos:       cp.pos,
		})
	}
	return result, nil
}

type drawingChart struct {
	rID string
	pos chartPosition
}

// parseDrawingForCharts parses drawing XML to find chart anchors, in
// document order.
func parseDrawingForCharts(data []byte) []drawingChart {
	var result []drawingChart
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok && (se.Name.Local == "twoCellAnchor" || se.Name.Local == "oneCellAnchor") {
			rID, pos := parseAnchor(decoder)
			if rID != "" {
				result = append(result, drawingChart{rID: rID, pos: pos})
			}
		}
	}

	return result
}

// parseAnchor parses a cell anchor holding a graphicFrame with a chart.
func parseAnchor(decoder *xml.Decoder) (string, chartPosition) {
	var rID string
	var pos chartPosition
	var from, to anchorMarker
	var hasTo bool
	var extW, extH int
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "from":
				from = parseMarker(decoder)
				depth--
			case "to":
				to, hasTo = parseMarker(decoder), true
				depth--
			case "ext":
				// oneCellAnchor size
				if w, h := parseExt(t); w > 0 && h > 0 {
					extW, extH = w, h
				}
			case "graphicFrame":
				var frame chartPosition
				rID, frame = parseGraphicFrameContent(decoder)
				pos.name = frame.name
				if frame.width > 0 && frame.height > 0 {
					extW, extH = frame.width, frame.height
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	pos.anchor = coord.Coordinate{Row: uint32(max(from.row, 0)), Col: uint32(max(from.col, 0))}
	switch {
	case extW > 0 && extH > 0:
		pos.width, pos.height = extW, extH
	case hasTo:
		pos.width = (to.col-from.col)*DefaultColumnPixels + EMUToPixels(to.colOff-from.colOff)
		pos.height = (to.row-from.row)*DefaultRowPixels + EMUToPixels(to.rowOff-from.rowOff)
	}
	return rID, pos
}

// parseMarker parses the col/colOff/row/rowOff children of xdr:from or xdr:to.
func parseMarker(decoder *xml.Decoder) anchorMarker {
	var m anchorMarker
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			txt, err := readElementText(decoder)
			depth--
			if err != nil {
				continue
			}
			n, _ := strconv.ParseInt(strings.TrimSpace(txt), 10, 64)
			switch t.Name.Local {
			case "col":
				m.col = int(n)
			case "row":
				m.row = int(n)
			case "colOff":
				m.colOff = n
			case "rowOff":
				m.rowOff = n
			}
		case xml.EndElement:
			depth--
		}
	}

	return m
}

func parseExt(se xml.StartElement) (width, height int) {
	if cx, err := strconv.ParseInt(attr(se, "cx"), 10, 64); err == nil {
		width = EMUToPixels(cx)
	}
	if cy, err := strconv.ParseInt(attr(se, "cy"), 10, 64); err == nil {
		height = EMUToPixels(cy)
	}
	return width, height
}

// parseGraphicFrameContent parses graphicFrame content.
func parseGraphicFrameContent(decoder *xml.Decoder) (string, chartPosition) {
	var rID string
	var pos chartPosition
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "cNvPr":
				pos.name = attr(t, "name")
			case "ext":
				if w, h := parseExt(t); w > 0 && h > 0 {
					pos.width, pos.height = w, h
				}
			case "chart":
				rID = attr(t, "id")
			}
		case xml.EndElement:
			depth--
		}
	}

	return rID, pos
}

// chartElement collects what parseChartElement finds.
type chartElement struct {
	kind       chart.Kind
	kindName   string
	title      string
	xAxisTitle string
	yAxisTitle string
	legend     bool
	series     []chart.Series
}

// parseChartXML parses chart XML content. It reports false, with the
// element name, for unsupported chart types.
func parseChartXML(data []byte, pos chartPosition) (chart.Chart, string, bool) {
	decoder := xml.NewDecoder(strings.NewReader(string(data)))

	var ce chartElement
	for {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		if se, ok := token.(xml.StartElement); ok && se.Name.Local == "chart" {
			ce = parseChartElement(decoder)
		}
	}

	if ce.kindName == "" || unsupportedCharts[ce.kindName] {
		if ce.kindName == "" {
			ce.kindName = "unknown"
		}
		return chart.Chart{}, ce.kindName, false
	}

	c := chart.New(ce.kind).
		WithTitle(ce.title).
		WithXAxisTitle(ce.xAxisTitle).
		WithYAxisTitle(ce.yAxisTitle).
		WithLegend(ce.legend).
		At(pos.anchor).
		WithSize(uint(max(pos.width, 0)), uint(max(pos.height, 0)))
	for _, s := range ce.series {
		c = c.WithSeries(s)
	}
	return c, ce.kindName, true
}

// parseChartElement parses c:chart element.
func parseChartElement(decoder *xml.Decoder) chartElement {
	var ce chartElement
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "title":
				ce.title = parseChartTitle(decoder)
				depth--
			case "plotArea":
				parsePlotArea(decoder, &ce)
				depth--
			case "legend":
				ce.legend = true
			}
		case xml.EndElement:
			depth--
		}
	}

	return ce
}

// parseChartTitle parses chart title element, joining its text runs.
func parseChartTitle(decoder *xml.Decoder) string {
	var title strings.Builder
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "t" {
				if txt, err := readElementText(decoder); err == nil {
					title.WriteString(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return strings.TrimSpace(title.String())
}

// parsePlotArea parses plot area element.
func parsePlotArea(decoder *xml.Decoder, ce *chartElement) {
	depth := 1
	valAxes := 0

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			name := t.Name.Local
			switch {
			case strings.HasSuffix(name, "Chart"):
				barDir, series := parseChartSeries(decoder)
				depth--
				if ce.kindName == "" {
					ce.kindName = name
					ce.kind = ChartTypeMap[name]
					if barDir == "bar" && ce.kind == chart.Column {
						ce.kind = chart.Bar
					}
				}
				ce.series = append(ce.series, series...)
			case name == "catAx" || name == "dateAx":
				ce.xAxisTitle = parseAxisTitle(decoder)
				depth--
			case name == "valAx":
				title := parseAxisTitle(decoder)
				depth--
				valAxes++
				// scatter charts carry two value axes, X first
				if ce.kind == chart.Scatter && valAxes == 1 {
					ce.xAxisTitle = title
				} else {
					ce.yAxisTitle = title
				}
			}
		case xml.EndElement:
			depth--
		}
	}
}

// parseChartSeries parses series elements within a chart type. It returns
// the barDir value, when present.
func parseChartSeries(decoder *xml.Decoder) (barDir string, series []chart.Series) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "barDir":
				barDir = attr(t, "val")
			case "ser":
				series = append(series, parseSingleSeries(decoder))
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return barDir, series
}

// parseSingleSeries parses a single series element.
func parseSingleSeries(decoder *xml.Decoder) chart.Series {
	var s chart.Series
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "tx":
				name, nameRange := parseSeriesName(decoder)
				s.Name = name
				if nameRange != "" {
					s.Name = nameRange
				}
				depth--
			case "cat", "xVal":
				s.Categories = parseSeriesRange(decoder)
				depth--
			case "val", "yVal":
				s.Values = parseSeriesRange(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return s
}

// parseSeriesName parses series name from tx element.
func parseSeriesName(decoder *xml.Decoder) (name, nameRange string) {
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			switch t.Name.Local {
			case "f":
				if txt, err := readElementText(decoder); err == nil {
					nameRange = strings.TrimSpace(txt)
				}
				depth--
			case "v":
				if txt, err := readElementText(decoder); err == nil {
					name = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return
}

// parseSeriesRange parses range reference from cat or val element.
func parseSeriesRange(decoder *xml.Decoder) string {
	var ref string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "f" && ref == "" {
				if txt, err := readElementText(decoder); err == nil {
					ref = strings.TrimSpace(txt)
				}
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return ref
}

// parseAxisTitle returns the title of an axis element.
func parseAxisTitle(decoder *xml.Decoder) string {
	var title string
	depth := 1

	for depth > 0 {
		token, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := token.(type) {
		case xml.StartElement:
			depth++
			if t.Name.Local == "title" {
				title = parseChartTitle(decoder)
				depth--
			}
		case xml.EndElement:
			depth--
		}
	}

	return title
}
