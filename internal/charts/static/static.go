// Package static renders the stacked-area chart as a PNG or SVG image with
// go-chart, for reports and clients without JavaScript.
package static

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"salescharts/internal/charts/palette"
	"salescharts/internal/dataset"
)

// Format is an image encoding.
type Format string

const (
	PNG Format = "png"
	SVG Format = "svg"
)

// ErrNoData is returned for a table without dates or products.
var ErrNoData = errors.New("no data to render")

// ParseFormat accepts "png" or "svg" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(s)) {
	case PNG:
		return PNG, nil
	case SVG:
		return SVG, nil
	}
	return "", fmt.Errorf("unsupported image format %q", s)
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == SVG {
		return "image/svg+xml"
	}
	return "image/png"
}

// Options configures the static image.
type Options struct {
	Width       int
	Height      int
	Title       string
	LegendLimit int
}

// DefaultOptions returns the report image layout.
func DefaultOptions() Options {
	return Options{
		Width:       1000,
		Height:      500,
		Title:       "Product Sales Over Time (Stacked Area Chart)",
		LegendLimit: 20,
	}
}

// legendOnlySeries is a dummy series used only to populate the chart legend
type legendOnlySeries struct {
	name  string
	color drawing.Color
}

func (ls legendOnlySeries) GetName() string { return ls.name }
func (ls legendOnlySeries) GetStyle() chart.Style {
	return chart.Style{FillColor: ls.color, StrokeColor: ls.color, StrokeWidth: 4}
}
func (ls legendOnlySeries) GetYAxis() chart.YAxisType { return chart.YAxisPrimary }
func (ls legendOnlySeries) Len() int                  { return 0 }
func (ls legendOnlySeries) Validate() error           { return nil }
func (ls legendOnlySeries) Render(r chart.Renderer, canvasBox chart.Box, xrange, yrange chart.Range, defaults chart.Style) {
}

// Render writes t as a stacked-area image. Bands are filled from their
// cumulative upper edge down, topmost first, so lower bands paint over the
// ones above them.
func Render(t *dataset.SeriesTable, w io.Writer, format Format, o Options) error {
	if t.Len() == 0 || len(t.Products) == 0 {
		return ErrNoData
	}

	times, err := t.Times()
	if err != nil {
		return err
	}

	bands := t.Stack()
	yMin, yMax := 0.0, 0.0
	for _, b := range bands {
		for _, v := range b.Upper {
			yMin, yMax = min(yMin, v), max(yMax, v)
		}
	}

	series := make([]chart.Series, 0, len(bands))
	for i := len(bands) - 1; i >= 0; i-- {
		c := drawing.ColorFromHex(strings.TrimPrefix(palette.Pick(palette.Vivid20, i), "#"))
		series = append(series, chart.TimeSeries{
			Name: bands[i].Product,
			Style: chart.Style{
				StrokeColor: c,
				StrokeWidth: 0.5,
				FillColor:   c.WithAlpha(230),
			},
			XValues: times,
			YValues: bands[i].Upper,
		})
	}

	legend := &chart.Chart{}
	for i, p := range t.Head(o.LegendLimit) {
		legend.Series = append(legend.Series, legendOnlySeries{
			name:  p,
			color: drawing.ColorFromHex(strings.TrimPrefix(palette.Pick(palette.Vivid20, i), "#")),
		})
	}

	graph := chart.Chart{
		Title: o.Title,
		TitleStyle: chart.Style{
			FontSize:  14,
			FontColor: drawing.ColorBlack,
		},
		Width:  o.Width,
		Height: o.Height,
		Background: chart.Style{
			Padding: chart.Box{
				Top:    50,
				Left:   130,
				Right:  20,
				Bottom: 20,
			},
			FillColor: drawing.Color{R: 248, G: 249, B: 250, A: 255},
		},
		XAxis: chart.XAxis{
			Name:           "Date",
			ValueFormatter: chart.TimeValueFormatterWithFormat("2006-01"),
		},
		YAxis: chart.YAxis{
			Name:  "Total Sales",
			Range: &chart.ContinuousRange{Min: yMin, Max: max(yMax, yMin+1)},
		},
		Series: series,
	}
	graph.Elements = []chart.Renderable{chart.LegendLeft(legend)}

	provider := chart.PNG
	if format == SVG {
		provider = chart.SVG
	}
	if err := graph.Render(provider, w); err != nil {
		return fmt.Errorf("failed to render %s chart: %w", format, err)
	}
	return nil
}
