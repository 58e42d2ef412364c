package services

import (
	"bytes"
	"sort"

	"github.com/GabeSucich/elmo-fire-bets-backend/scoring"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

const (
	chartWidth  = 1000
	chartHeight = 500
	noDataText  = "No closed parlays yet"
)

// ChartService renders season analytics as PNG images
type ChartService struct {
	width  int
	height int
}

func NewChartService() *ChartService {
	return &ChartService{width: chartWidth, height: chartHeight}
}

// RenderTimeSeries draws one corrected-score line per gambler. The x axis is
// the position of the closed parlay within the season replay.
func (c *ChartService) RenderTimeSeries(series map[int][]scoring.TimeSeriesDatum, names map[int]string) ([]byte, error) {
	ids := make([]int, 0, len(series))
	points := 0
	for id, data := range series {
		ids = append(ids, id)
		if len(data) > points {
			points = len(data)
		}
	}
	if points == 0 {
		return c.renderPlaceholder()
	}
	sort.Ints(ids)

	minY, maxY := 0.0, 0.0
	lines := make([]chart.Series, 0, len(ids))
	for i, id := range ids {
		data := series[id]
		if len(data) == 0 {
			continue
		}
		xs := make([]float64, len(data))
		ys := make([]float64, len(data))
		for j, datum := range data {
			xs[j] = float64(j + 1)
			ys[j] = datum.CorrectedScore
			minY = min(minY, datum.CorrectedScore)
			maxY = max(maxY, datum.CorrectedScore)
		}
		color := chart.GetDefaultColor(i)
		lines = append(lines, chart.ContinuousSeries{
			Name:    names[id],
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 2,
				DotColor:    color,
				DotWidth:    3,
			},
		})
	}

	graph := chart.Chart{
		Width:      c.width,
		Height:     c.height,
		Background: chart.Style{Padding: chart.Box{Top: 20, Left: 20, Right: 20, Bottom: 20}},
		XAxis: chart.XAxis{
			Name:  "Closed parlays",
			Range: &chart.ContinuousRange{Min: 0, Max: float64(points + 1)},
		},
		YAxis: chart.YAxis{
			Name:  "Corrected score",
			Range: &chart.ContinuousRange{Min: minY - 5, Max: maxY + 5},
		},
		Series: lines,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(&graph)}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// renderPlaceholder draws the no-data message. go-chart refuses to render a
// chart without series, so it carries one invisible flat line.
func (c *ChartService) renderPlaceholder() ([]byte, error) {
	hidden := chart.Style{Hidden: true}
	graph := chart.Chart{
		Width:  c.width / 2,
		Height: c.height / 2,
		XAxis:  chart.XAxis{Style: hidden, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		YAxis:  chart.YAxis{Style: hidden, Range: &chart.ContinuousRange{Min: 0, Max: 1}},
		Series: []chart.Series{
			chart.ContinuousSeries{
				XValues: []float64{0, 1},
				YValues: []float64{0, 0},
				Style: chart.Style{
					StrokeColor: drawing.ColorTransparent,
					StrokeWidth: 1,
				},
			},
		},
		Elements: []chart.Renderable{
			func(r chart.Renderer, cb chart.Box, _ chart.Style) {
				r.SetFontColor(drawing.ColorBlack)
				r.SetFontSize(12.0)
				tb := r.MeasureText(noDataText)
				r.Text(noDataText, (cb.Width()-tb.Width())/2, (cb.Height()+tb.Height())/2)
			},
		},
	}
	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
