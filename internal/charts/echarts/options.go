package echarts

import (
	"bytes"
	"fmt"
	"io"
	"regexp"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/goccy/go-json"

	"salescharts/internal/charts/palette"
	"salescharts/internal/dataset"
)

// DefaultAssetsHost serves echarts.min.js.
const DefaultAssetsHost = "https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/"

// StackName groups every series into one stack.
const StackName = "Total"

const (
	tooltipFormatter = `function (params) {
		var result = params[0].axisValue + '<br/>';
		var total = 0;
		params.forEach(function (param) {
			total += param.value;
			result += param.marker + ' ' + param.seriesName + ': ' + param.value.toLocaleString() + '<br/>';
		});
		result += '<strong>Total: ' + total.toLocaleString() + '</strong>';
		return result;
	}`
	dateLabelFormatter = `function (value) {
		return new Date(value).toLocaleDateString('en-US', { year: 'numeric', month: 'short' });
	}`
	numberLabelFormatter = `function (value) { return value.toLocaleString(); }`
)

// Options configures the ECharts chart.
type Options struct {
	Title       string
	Width       string
	Height      string
	LegendLimit int
	ChartID     string
	AssetsHost  string
	Theme       string
}

// DefaultOptions returns the standard dashboard configuration.
func DefaultOptions() Options {
	return Options{
		Title:       "Product Sales Over Time (Stacked Area Chart)",
		Width:       "100%",
		Height:      "600px",
		LegendLimit: 20,
		ChartID:     "sales_stacked_area",
		AssetsHost:  DefaultAssetsHost,
		Theme:       "white",
	}
}

// ValidTheme reports whether go-echarts can load the named theme. The
// 20-color palette is only applied with the white theme.
func ValidTheme(name string) bool {
	switch name {
	case "", "white", "dark":
		return true
	}
	return types.PresetTheme(name)
}

var nonIdent = regexp.MustCompile(`[^A-Za-z0-9_]`)

// ChartID derives a chart id usable as a JavaScript identifier from a
// container id.
func ChartID(containerID string) string {
	return "echarts_" + nonIdent.ReplaceAllString(containerID, "_")
}

// NewChart configures a stacked-area line chart for t: one smooth, symbol-free
// series per product, all stacked on StackName.
func NewChart(t *dataset.SeriesTable, o Options) *charts.Line {
	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithInitializationOpts(opts.Initialization{
			PageTitle:  o.Title,
			Width:      o.Width,
			Height:     o.Height,
			ChartID:    o.ChartID,
			AssetsHost: o.AssetsHost,
			Theme:      o.Theme,
		}),
		charts.WithTitleOpts(opts.Title{
			Title: o.Title,
			Left:  "center",
			TitleStyle: &opts.TextStyle{
				FontSize:   16,
				FontWeight: "bold",
			},
		}),
		charts.WithTooltipOpts(opts.Tooltip{
			Show:    opts.Bool(true),
			Trigger: "axis",
			AxisPointer: &opts.AxisPointer{
				Type:  "cross",
				Label: &opts.Label{BackgroundColor: "#6a7985"},
			},
			Formatter: opts.FuncOpts(tooltipFormatter),
		}),
		charts.WithLegendOpts(opts.Legend{
			Show:      opts.Bool(true),
			Type:      "scroll",
			Orient:    "vertical",
			Right:     "10",
			Top:       "50",
			Bottom:    "20",
			Data:      t.Head(o.LegendLimit),
			TextStyle: &opts.TextStyle{FontSize: 10},
		}),
		charts.WithGridOpts(opts.Grid{
			Left:         "3%",
			Right:        "15%",
			Bottom:       "10%",
			ContainLabel: opts.Bool(true),
		}),
		charts.WithToolboxOpts(opts.Toolbox{
			Show: opts.Bool(true),
			Feature: &opts.ToolBoxFeature{
				SaveAsImage: &opts.ToolBoxFeatureSaveAsImage{Show: opts.Bool(true), Title: "Save as Image"},
				DataZoom: &opts.ToolBoxFeatureDataZoom{
					Show:  opts.Bool(true),
					Title: map[string]string{"zoom": "Zoom", "back": "Reset Zoom"},
				},
				Restore: &opts.ToolBoxFeatureRestore{Show: opts.Bool(true), Title: "Restore"},
			},
		}),
		charts.WithXAxisOpts(opts.XAxis{
			Type: "category",
			AxisLabel: &opts.AxisLabel{
				Rotate:    45,
				Formatter: opts.FuncOpts(dateLabelFormatter),
			},
		}),
		charts.WithYAxisOpts(opts.YAxis{
			Type:         "value",
			Name:         "Sales",
			NameLocation: "middle",
			NameGap:      50,
			AxisLabel: &opts.AxisLabel{
				Show:      opts.Bool(true),
				Formatter: opts.FuncOpts(numberLabelFormatter),
			},
		}),
		charts.WithDataZoomOpts(
			opts.DataZoom{Type: "slider", Start: 0, End: 100},
			opts.DataZoom{Type: "inside", Start: 0, End: 100},
		),
		charts.WithColorsOpts(opts.Colors(palette.Vivid20)),
	)

	line.Accept(optionVisitor{})
	line.SetXAxis(t.Dates)
	for i, p := range t.Products {
		values := t.Matrix[p]
		data := make([]opts.LineData, len(values))
		for j, v := range values {
			data[j] = opts.LineData{Value: v}
		}
		line.AddSeries(p, data,
			charts.WithLineChartOpts(opts.LineChart{
				Stack:      StackName,
				Smooth:     opts.Bool(true),
				ShowSymbol: opts.Bool(false),
				Symbol:     "none",
			}),
			charts.WithAreaStyleOpts(opts.AreaStyle{Opacity: opts.Float(0.8)}),
			// a zero width is dropped from the option, hide the stroke instead
			charts.WithLineStyleOpts(opts.LineStyle{Opacity: opts.Float(0)}),
			charts.WithItemStyleOpts(opts.ItemStyle{Color: palette.Pick(palette.Vivid20, i)}),
			charts.WithEmphasisOpts(opts.Emphasis{Focus: "series"}),
		)
	}
	return line
}

// categoryAxis is an x axis whose areas start and end on the first and last
// category instead of between ticks.
type categoryAxis struct {
	opts.XAxis
	BoundaryGap bool `json:"boundaryGap"`
}

// sliderZoom places the slider data zoom in a strip under the grid.
type sliderZoom struct {
	opts.DataZoom
	Height int `json:"height"`
	Bottom int `json:"bottom"`
}

// optionVisitor fills in the option fields go-echarts has no struct field for.
type optionVisitor struct {
	charts.BaseConfigurationVisitor
}

func (optionVisitor) VisitXAxis(xAxis []opts.XAxis) interface{} {
	axes := make([]categoryAxis, len(xAxis))
	for i, x := range xAxis {
		axes[i] = categoryAxis{XAxis: x}
	}
	return axes
}

func (optionVisitor) VisitDataZooms(dataZooms []opts.DataZoom) interface{} {
	zooms := make([]interface{}, len(dataZooms))
	for i, z := range dataZooms {
		if z.Type == "slider" {
			zooms[i] = sliderZoom{DataZoom: z, Height: 20, Bottom: 30}
			continue
		}
		zooms[i] = z
	}
	return zooms
}

// VisitSeriesOpt keeps an empty chart's series a list.
func (optionVisitor) VisitSeriesOpt(series charts.MultiSeries) interface{} {
	if series == nil {
		return charts.MultiSeries{}
	}
	return series
}

var funcMarker = []byte("__f__")

// OptionJSON returns the ECharts option object for obs. JavaScript callbacks
// are kept as source strings.
func OptionJSON(obs []dataset.Observation) ([]byte, error) {
	chart := NewChart(dataset.Reshape(obs), DefaultOptions())
	chart.Validate()

	data, err := json.Marshal(chart.JSON())
	if err != nil {
		return nil, fmt.Errorf("failed to marshal echarts option: %w", err)
	}
	return bytes.ReplaceAll(data, funcMarker, nil), nil
}

// Page writes a standalone HTML page holding only the chart.
func Page(obs []dataset.Observation, w io.Writer) error {
	chart := NewChart(dataset.Reshape(obs), DefaultOptions())
	if err := chart.Render(w); err != nil {
		return fmt.Errorf("failed to render echarts page: %w", err)
	}
	return nil
}
