package vegalite

import (
	"time"

	"salescharts/internal/dataset"
	"salescharts/internal/logger"
	"salescharts/internal/observability"
	"salescharts/internal/page"
)

// Library is the name used in logs and metrics.
const Library = "vegalite"

// AssetHint lists the scripts vega-embed needs.
const AssetHint = `<script src="https://cdn.jsdelivr.net/npm/vega@5"></script> ` +
	`<script src="https://cdn.jsdelivr.net/npm/vega-lite@5"></script> ` +
	`<script src="https://cdn.jsdelivr.net/npm/vega-embed@6"></script>`

// Renderer embeds the stacked-area spec through a Binding.
type Renderer struct {
	binding Binding
	opts    EmbedOptions
	log     *logger.Logger
}

// NewRenderer creates a renderer. A nil binding is accepted; rendering is
// then skipped with a diagnostic.
func NewRenderer(binding Binding, opts EmbedOptions, log *logger.Logger) *Renderer {
	if log == nil {
		log = logger.Component(Library)
	}
	return &Renderer{binding: binding, opts: opts, log: log}
}

// Render embeds the spec for obs into the container with the given id.
func (r *Renderer) Render(doc *page.Document, containerID string, obs []dataset.Observation) {
	if r.binding == nil {
		observability.CountSkip(Library, observability.ReasonNoBinding)
		r.log.Error("Vega-Embed not available, include it in the page", nil, map[string]interface{}{
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

	spec := NewStackedAreaSpec(obs)
	if err := spec.Validate(); err != nil {
		observability.CountSkip(Library, observability.ReasonFailed)
		r.log.Error("Invalid vega-lite spec", err, nil)
		return
	}
	if err := r.binding.Embed(el, spec, r.opts); err != nil {
		observability.CountSkip(Library, observability.ReasonFailed)
		r.log.Error("Error rendering Vega chart", err, map[string]interface{}{"container": containerID})
		return
	}
	r.log.Info("Vega chart rendered successfully", map[string]interface{}{
		"container": containerID,
		"values":    len(spec.Data.Values),
	})
}
