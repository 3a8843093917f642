package grammar

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"strings"
	"time"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"

	"salescharts/internal/charts/palette"
	"salescharts/internal/dataset"
	"salescharts/internal/logger"
	"salescharts/internal/observability"
	"salescharts/internal/page"
)

// Library is the name used in logs and metrics.
const Library = "grammar"

// AssetHint tells the caller how to make the library available.
const AssetHint = "construct the renderer with grammar.NewSVGBinding() to draw with github.com/aclements/go-gg"

// ErrNoData is returned when there is nothing to plot.
var ErrNoData = errors.New("no data to plot")

// Column names of the plot table.
const (
	colDay     = "day"
	colLower   = "lower"
	colUpper   = "upper"
	colProduct = "product"
)

// Margin is the space around the plot area in pixels.
type Margin struct {
	Top, Right, Bottom, Left int
}

// Options configures the grammar renderer. Width and Height are the plot
// area; the drawn figure adds Margin on each side.
type Options struct {
	Width       int
	Height      int
	Margin      Margin
	Title       string
	XLabel      string
	YLabel      string
	LegendLimit int
}

// DefaultOptions returns the standard dashboard layout.
func DefaultOptions() Options {
	return Options{
		Width:       800,
		Height:      400,
		Margin:      Margin{Top: 20, Right: 120, Bottom: 60, Left: 60},
		Title:       "Product Sales Over Time (Stacked Area Chart)",
		XLabel:      "Date",
		YLabel:      "Total Sales",
		LegendLimit: 20,
	}
}

// Renderer draws observations as a stacked-area plot.
type Renderer struct {
	binding Binding
	opts    Options
	log     *logger.Logger
}

// NewRenderer creates a renderer. A nil binding is accepted; rendering is
// then skipped with a diagnostic.
func NewRenderer(binding Binding, opts Options, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Component(Library)
	}
	return &Renderer{binding: binding, opts: opts, log: log}
}

// Options returns the renderer configuration.
func (r *Renderer) Options() Options {
	return r.opts
}

// Render reshapes obs and draws it into the container with the given id.
// A missing binding or container is logged and the call returns without a
// chart.
func (r *Renderer) Render(doc *page.Document, containerID string, obs []dataset.Observation) {
	if r.binding == nil {
		observability.CountSkip(Library, observability.ReasonNoBinding)
		r.log.Error("Chart library not available", nil, map[string]interface{}{
			"library": Library,
			"hint":    AssetHint,
		})
		return
	}

	el := doc.Element(containerID)
	if el == nil {
		observability.CountSkip(Library, observability.ReasonNoContainer)
		r.log.Error("Container not found", nil, map[string]interface{}{
			"library":   Library,
			"container": containerID,
		})
		return
	}

	start := time.Now()
	defer observability.ObserveRender(Library, start)

	el.Clear()
	t := dataset.Reshape(obs)
	if t.Len() == 0 || len(t.Products) == 0 {
		el.Set(template.HTML(`<p class="chart-empty">No data</p>`))
		r.log.Warn("No observations to plot", map[string]interface{}{"container": containerID})
		return
	}

	plot, err := r.Plot(t)
	if err != nil {
		observability.CountSkip(Library, observability.ReasonFailed)
		r.log.Error("Failed to build plot", err, map[string]interface{}{"container": containerID})
		return
	}

	if err := r.binding.Draw(el, plot, r.opts.Width, r.opts.Height); err != nil {
		observability.CountSkip(Library, observability.ReasonFailed)
		r.log.Error("Failed to draw plot", err, map[string]interface{}{"container": containerID})
		return
	}
	el.Set(r.frame(el.HTML(), t))

	r.log.Debug("Rendered stacked area plot", map[string]interface{}{
		"container": containerID,
		"dates":     t.Len(),
		"products":  len(t.Products),
	})
}

// Plot builds the go-gg plot for a series table: one area layer of stacked
// bands filled by product over a day-index x axis.
func (r *Renderer) Plot(t *dataset.SeriesTable) (*gg.Plot, error) {
	times, err := t.Times()
	if err != nil {
		return nil, err
	}

	rows := t.Len() * len(t.Products)
	days := make([]float64, 0, rows)
	lowers := make([]float64, 0, rows)
	uppers := make([]float64, 0, rows)
	products := make([]string, 0, rows)
	for _, band := range t.Stack() {
		for i := range t.Dates {
			days = append(days, float64(i))
			lowers = append(lowers, band.Lower[i])
			uppers = append(uppers, band.Upper[i])
			products = append(products, band.Product)
		}
	}

	tab := new(table.Builder).
		Add(colDay, days).
		Add(colLower, lowers).
		Add(colUpper, uppers).
		Add(colProduct, products).
		Done()

	plot := gg.NewPlot(tab)

	// go-gg cannot tick a zero-width linear domain
	x := gg.NewLinearScaler()
	x.SetFormatter(dayFormatter(times))
	if t.Len() == 1 {
		x.SetMin(-0.5).SetMax(0.5)
	}
	plot.SetScale("x", x)

	y := gg.NewLinearScaler().Include(0)
	if flat(uppers) {
		y.Include(1)
	}
	plot.SetScale("y", y)

	fill := gg.NewOrdinalScale()
	fill.Ranger(gg.NewColorRanger(palette.Colors(palette.Tableau10)))
	plot.SetScale("fill", fill)

	plot.Add(gg.LayerArea{
		X:     colDay,
		Upper: colUpper,
		Lower: colLower,
		Fill:  colProduct,
	})
	plot.Add(gg.Title(r.opts.Title))
	plot.Add(gg.AxisLabel("x", r.opts.XLabel))
	plot.Add(gg.AxisLabel("y", r.opts.YLabel))

	return plot, nil
}

// WriteSVG writes the plot for t as a standalone SVG document.
func (r *Renderer) WriteSVG(w io.Writer, t *dataset.SeriesTable) error {
	if t.Len() == 0 || len(t.Products) == 0 {
		return ErrNoData
	}
	plot, err := r.Plot(t)
	if err != nil {
		return err
	}
	return writeSVG(w, plot, r.opts.Width, r.opts.Height)
}

// flat reports whether every value lies on zero, the point the y scale
// always includes.
func flat(values []float64) bool {
	for _, v := range values {
		if v != 0 {
			return false
		}
	}
	return len(values) > 0
}

// dayFormatter labels a day index with its year and month.
func dayFormatter(times []time.Time) func(float64) string {
	return func(v float64) string {
		i := int(v + 0.5)
		if i < 0 || i >= len(times) {
			return ""
		}
		return times[i].Format("2006-01")
	}
}

// frame wraps the drawn plot with the margins and the legend.
func (r *Renderer) frame(plot template.HTML, t *dataset.SeriesTable) template.HTML {
	m := r.opts.Margin
	var b strings.Builder
	fmt.Fprintf(&b, `<div class="grammar-figure" style="position:relative;width:%dpx;height:%dpx;padding:%dpx %dpx %dpx %dpx;">`,
		r.opts.Width, r.opts.Height, m.Top, m.Right, m.Bottom, m.Left)
	b.WriteString(string(plot))
	b.WriteString(string(r.legend(t)))
	b.WriteString(`</div>`)
	return template.HTML(b.String())
}

// legend lists the first LegendLimit products with their fill colors.
func (r *Renderer) legend(t *dataset.SeriesTable) template.HTML {
	var b strings.Builder
	fmt.Fprintf(&b, `<ul class="grammar-legend" style="position:absolute;top:%dpx;right:0;width:%dpx;list-style:none;margin:0;padding:0;font-size:12px;">`,
		r.opts.Margin.Top+20, r.opts.Margin.Right-10)
	for i, p := range t.Head(r.opts.LegendLimit) {
		fmt.Fprintf(&b, `<li style="height:18px;"><span style="display:inline-block;width:12px;height:12px;margin-right:4px;background:%s;"></span>%s</li>`,
			palette.Pick(palette.Tableau10, i), template.HTMLEscapeString(p))
	}
	b.WriteString(`</ul>`)
	return template.HTML(b.String())
}
