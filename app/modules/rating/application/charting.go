package ratingservice

import (
	"bytes"
	"slices"
	"time"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	chartBackground = drawing.ColorFromHex("1e1f22")
	chartLine       = drawing.ColorFromHex("e63946")
	chartDot        = drawing.ColorFromHex("f4d35e")
	chartText       = drawing.ColorFromHex("e0e0e0")
)

// RenderPlayerHistoryChart produces a PNG line chart of a player's
// conservative score over time. History may be in any order.
func RenderPlayerHistoryChart(name string, history []HistoryPoint) ([]byte, error) {
	if len(history) == 0 {
		return renderNoDataPlaceholder("No tournaments played yet")
	}

	points := slices.Clone(history)
	slices.SortStableFunc(points, func(a, b HistoryPoint) int {
		return a.Date.Compare(b.Date)
	})

	xValues := make([]time.Time, len(points))
	yValues := make([]float64, len(points))
	for i, p := range points {
		xValues[i] = p.Date
		yValues[i] = p.Conservative
	}

	// go-chart needs two points to draw a line.
	if len(points) == 1 {
		xValues = append([]time.Time{xValues[0].AddDate(0, 0, -1)}, xValues...)
		yValues = append([]float64{yValues[0]}, yValues...)
	}

	series := chart.TimeSeries{
		Name:    name,
		XValues: xValues,
		YValues: yValues,
		Style: chart.Style{
			StrokeColor: chartLine,
			StrokeWidth: 2,
			DotWidth:    4,
			DotColor:    chartDot,
		},
	}

	graph := chart.Chart{
		Title:      name,
		TitleStyle: chart.Style{FontColor: chartText},
		Width:      800,
		Height:     400,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat(time.DateOnly),
			Style:          chart.Style{FontColor: chartText},
		},
		YAxis: chart.YAxis{
			Name:  "Score",
			Style: chart.Style{FontColor: chartText},
		},
		Series: []chart.Series{series},
	}

	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}

// renderNoDataPlaceholder draws msg on an empty canvas. go-chart refuses to
// render without a visible series, so a transparent one spans the canvas.
func renderNoDataPlaceholder(msg string) ([]byte, error) {
	graph := chart.Chart{
		Width:      400,
		Height:     200,
		Background: chart.Style{FillColor: chartBackground},
		Canvas:     chart.Style{FillColor: chartBackground},
		XAxis:      chart.XAxis{Style: chart.Style{Hidden: true}},
		YAxis:      chart.YAxis{Style: chart.Style{Hidden: true}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 1},
				Style:   chart.Style{StrokeColor: drawing.ColorTransparent},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, defaults chart.Style) {
				r.SetFont(defaults.Font)
				r.SetFontColor(chartText)
				r.SetFontSize(12.0)
				tb := r.MeasureText(msg)
				r.Text(msg, cb.Left+(cb.Width()-tb.Width())/2, cb.Top+(cb.Height()+tb.Height())/2)
			},
		},
	}
	buffer := bytes.NewBuffer([]byte{})
	if err := graph.Render(chart.PNG, buffer); err != nil {
		return nil, err
	}
	return buffer.Bytes(), nil
}
