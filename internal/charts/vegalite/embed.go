package vegalite

import (
	"fmt"
	"html/template"
	"strings"

	"github.com/goccy/go-json"

	"salescharts/internal/page"
)

// Script sources vega-embed needs, in load order.
var EmbedScripts = []string{
	"https://cdn.jsdelivr.net/npm/vega@5",
	"https://cdn.jsdelivr.net/npm/vega-lite@5",
	"https://cdn.jsdelivr.net/npm/vega-embed@6",
}

// EmbedOptions are passed to vegaEmbed.
type EmbedOptions struct {
	Theme   string `json:"theme,omitempty"`
	Actions bool   `json:"actions"`
	Tooltip bool   `json:"tooltip"`
}

// DefaultEmbedOptions returns the dashboard embed options.
func DefaultEmbedOptions() EmbedOptions {
	return EmbedOptions{Theme: "quartz", Actions: true, Tooltip: true}
}

// Binding embeds a spec into a page element.
type Binding interface {
	Embed(el *page.Element, spec *Spec, opts EmbedOptions) error
}

// EmbedBinding writes a vega-embed call for the spec.
type EmbedBinding struct{}

// NewEmbedBinding returns the vega-embed binding.
func NewEmbedBinding() *EmbedBinding {
	return &EmbedBinding{}
}

// Embed replaces the element content with a view target and the script
// that renders spec into it.
func (b *EmbedBinding) Embed(el *page.Element, spec *Spec, opts EmbedOptions) error {
	specJSON, err := json.Marshal(spec)
	if err != nil {
		return fmt.Errorf("failed to marshal vega-lite spec: %w", err)
	}
	optsJSON, err := json.Marshal(opts)
	if err != nil {
		return fmt.Errorf("failed to marshal embed options: %w", err)
	}

	for _, src := range EmbedScripts {
		el.RequireScript(src)
	}

	target := el.ID + "-view"
	var sb strings.Builder
	fmt.Fprintf(&sb, `<div id="%s"></div>`, template.HTMLEscapeString(target))
	fmt.Fprintf(&sb, `<script>(function(){vegaEmbed(%q, %s, %s).catch(function(err){console.error('Error rendering Vega chart:', err);});})();</script>`,
		"#"+target, specJSON, optsJSON)
	el.Set(template.HTML(sb.String()))
	return nil
}
