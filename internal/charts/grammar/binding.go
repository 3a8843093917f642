// Package grammar renders the stacked-area chart with go-gg, a grammar of
// graphics: the data is laid out as stacked band rows and mapped onto
// x, y and fill aesthetics, and the plot is emitted as inline SVG.
package grammar

import (
	"bytes"
	"fmt"
	"html/template"
	"io"
	"strings"

	"github.com/aclements/go-gg/gg"

	"salescharts/internal/page"
)

// Binding draws a finished plot into a page element.
type Binding interface {
	Draw(el *page.Element, plot *gg.Plot, width, height int) error
}

// SVGBinding writes the plot as an inline <svg> element.
type SVGBinding struct{}

// NewSVGBinding returns the go-gg SVG binding.
func NewSVGBinding() *SVGBinding {
	return &SVGBinding{}
}

// Draw renders plot at width x height pixels and replaces the element content.
func (b *SVGBinding) Draw(el *page.Element, plot *gg.Plot, width, height int) error {
	var buf bytes.Buffer
	if err := writeSVG(&buf, plot, width, height); err != nil {
		return err
	}
	el.Set(template.HTML(inlineSVG(buf.String())))
	return nil
}

// writeSVG turns a go-gg panic into an error.
func writeSVG(w io.Writer, plot *gg.Plot, width, height int) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("failed to write svg: %v", r)
		}
	}()

	if err := plot.WriteSVG(w, width, height); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

// inlineSVG drops the XML prolog so the document can be embedded in HTML.
func inlineSVG(doc string) string {
	if i := strings.Index(doc, "<svg"); i > 0 {
		return doc[i:]
	}
	return doc
}
