package echarts

import (
	"errors"
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/charts"

	"salescharts/internal/dataset"
	"salescharts/internal/logger"
	"salescharts/internal/observability"
	"salescharts/internal/page"
)

// Library is the name used in logs and metrics.
const Library = "echarts"

// AssetHint tells the caller how to make the library available.
const AssetHint = `<script src="https://cdn.jsdelivr.net/npm/echarts@5/dist/echarts.min.js"></script>`

// ErrDisposed is returned when a disposed instance is used.
var ErrDisposed = errors.New("echarts instance disposed")

// Renderer mounts stacked-area charts through a Binding.
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

// Render mounts a chart for obs into the container with the given id and
// returns its instance handle. When the binding or container is missing it
// logs a diagnostic and returns nil.
func (r *Renderer) Render(doc *page.Document, containerID string, obs []dataset.Observation) *Instance {
	if r.binding == nil {
		observability.CountSkip(Library, observability.ReasonNoBinding)
		r.log.Error("ECharts not available, include it in the page", nil, map[string]interface{}{
			"library": Library,
			"hint":    AssetHint,
		})
		return nil
	}

	el := doc.Element(containerID)
	if el == nil {
		observability.CountSkip(Library, observability.ReasonNoContainer)
		r.log.Error(fmt.Sprintf("Container with id %q not found", containerID), nil, map[string]interface{}{
			"library":   Library,
			"container": containerID,
		})
		return nil
	}

	o := r.opts
	o.ChartID = ChartID(containerID)
	inst := &Instance{binding: r.binding, el: el, opts: o, log: r.log}
	if err := inst.mount(obs); err != nil {
		observability.CountSkip(Library, observability.ReasonFailed)
		r.log.Error("Failed to mount chart", err, map[string]interface{}{"container": containerID})
		return nil
	}
	return inst
}

// Instance is a mounted chart. Its methods re-render the chart into the
// same container.
type Instance struct {
	binding  Binding
	el       *page.Element
	opts     Options
	chart    *charts.Line
	disposed bool
	log      *logger.Logger
}

func (i *Instance) mount(obs []dataset.Observation) error {
	start := time.Now()
	defer observability.ObserveRender(Library, start)

	t := dataset.Reshape(obs)
	chart := NewChart(t, i.opts)
	if err := i.binding.Mount(i.el, chart); err != nil {
		return err
	}
	i.chart = chart
	i.log.Debug("Mounted echarts chart", map[string]interface{}{
		"chart_id": i.opts.ChartID,
		"dates":    t.Len(),
		"products": len(t.Products),
	})
	return nil
}

// ChartID returns the id of the chart's canvas element.
func (i *Instance) ChartID() string {
	return i.opts.ChartID
}

// Chart returns the current go-echarts configuration.
func (i *Instance) Chart() *charts.Line {
	return i.chart
}

// Size returns the configured canvas width and height.
func (i *Instance) Size() (string, string) {
	return i.opts.Width, i.opts.Height
}

// Disposed reports whether Dispose was called.
func (i *Instance) Disposed() bool {
	return i.disposed
}

// Resize changes the canvas dimensions and re-mounts the chart.
func (i *Instance) Resize(width, height string) error {
	if i.disposed {
		return ErrDisposed
	}
	i.opts.Width, i.opts.Height = width, height
	i.chart.Initialization.Width = width
	i.chart.Initialization.Height = height
	return i.binding.Mount(i.el, i.chart)
}

// UpdateData replaces the chart's option with one built from obs.
func (i *Instance) UpdateData(obs []dataset.Observation) error {
	if i.disposed {
		return ErrDisposed
	}
	return i.mount(obs)
}

// Dispose removes the chart from its container.
func (i *Instance) Dispose() {
	if i.disposed {
		return
	}
	i.el.Clear()
	i.disposed = true
}
