// Package echarts renders the stacked-area chart as an Apache ECharts line
// chart with stacked area series, configured through go-echarts.
package echarts

import (
	"fmt"
	"html/template"

	"github.com/go-echarts/go-echarts/v2/charts"

	"salescharts/internal/page"
)

// Binding mounts a configured chart into a page element.
type Binding interface {
	Mount(el *page.Element, chart *charts.Line) error
}

// SnippetBinding renders the chart as a go-echarts div and init script and
// registers the echarts script on the document.
type SnippetBinding struct {
	assetsHost string
}

// NewSnippetBinding returns a binding that loads echarts from assetsHost.
// An empty host keeps the chart's own setting.
func NewSnippetBinding(assetsHost string) *SnippetBinding {
	return &SnippetBinding{assetsHost: assetsHost}
}

// Mount replaces the element content with the chart snippet.
func (b *SnippetBinding) Mount(el *page.Element, chart *charts.Line) (err error) {
	// go-echarts panics on template errors
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to render chart snippet: %v", r)
		}
	}()

	if b.assetsHost != "" {
		chart.AssetsHost = b.assetsHost
	}
	snippet := chart.RenderSnippet()
	for _, src := range chart.JSAssets.Values {
		el.RequireScript(src)
	}
	el.Set(template.HTML(snippet.Element + "\n" + snippet.Script))
	return nil
}
