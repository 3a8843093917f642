// Package page assembles the HTML document charts are mounted into. A
// Document stands in for the browser DOM: renderers look up a container
// Element by id and replace its content.
package page

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"io"
	"slices"
	"time"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

//go:embed templates/document.html
var documentTemplate string

var tmpl = template.Must(template.New("document").Parse(documentTemplate))

// Element is a container a chart can be mounted into.
type Element struct {
	ID    string
	Title string

	doc  *Document
	body template.HTML
}

// Set replaces the element content.
func (e *Element) Set(content template.HTML) {
	e.body = content
}

// Clear removes the element content.
func (e *Element) Clear() {
	e.body = ""
}

// HTML returns the current element content.
func (e *Element) HTML() template.HTML {
	return e.body
}

// Mounted reports whether the element has content.
func (e *Element) Mounted() bool {
	return e.body != ""
}

// RequireScript asks the owning document to load src.
func (e *Element) RequireScript(src string) {
	e.doc.RequireScript(src)
}

// Document is an ordered set of elements plus the script assets they need.
type Document struct {
	Title       string
	Version     string
	GeneratedAt time.Time

	elements []*Element
	byID     map[string]*Element
	scripts  []string
	summary  template.HTML
	md       goldmark.Markdown
}

// New creates an empty document
func New(title string) *Document {
	md := goldmark.New(
		goldmark.WithExtensions(extension.GFM),
		goldmark.WithParserOptions(parser.WithAutoHeadingID()),
		goldmark.WithRendererOptions(html.WithHardWraps()),
	)

	return &Document{
		Title:       title,
		GeneratedAt: time.Now().UTC(),
		byID:        make(map[string]*Element),
		md:          md,
	}
}

// AddElement appends a container. Adding an existing id returns the existing element.
func (d *Document) AddElement(id, title string) *Element {
	if el, ok := d.byID[id]; ok {
		return el
	}
	el := &Element{ID: id, Title: title, doc: d}
	d.elements = append(d.elements, el)
	d.byID[id] = el
	return el
}

// Element returns the container with the given id, or nil when there is none.
func (d *Document) Element(id string) *Element {
	return d.byID[id]
}

// Elements returns the containers in insertion order.
func (d *Document) Elements() []*Element {
	return slices.Clone(d.elements)
}

// RequireScript adds a script source, once, in first-requested order.
func (d *Document) RequireScript(src string) {
	if src == "" || slices.Contains(d.scripts, src) {
		return
	}
	d.scripts = append(d.scripts, src)
}

// Scripts returns the script sources the document loads.
func (d *Document) Scripts() []string {
	return slices.Clone(d.scripts)
}

// SetSummaryMarkdown renders markdown into the summary section.
func (d *Document) SetSummaryMarkdown(markdown string) error {
	var buf bytes.Buffer
	if err := d.md.Convert([]byte(markdown), &buf); err != nil {
		return fmt.Errorf("failed to convert markdown: %w", err)
	}
	d.summary = template.HTML(buf.String())
	return nil
}

// Summary returns the rendered summary section.
func (d *Document) Summary() template.HTML {
	return d.summary
}

type templateData struct {
	Title       string
	Version     string
	GeneratedAt string
	Summary     template.HTML
	Scripts     []string
	Elements    []*Element
}

// Render writes the complete HTML document.
func (d *Document) Render(w io.Writer) error {
	data := templateData{
		Title:       d.Title,
		Version:     d.Version,
		GeneratedAt: d.GeneratedAt.Format("2006-01-02 15:04:05 UTC"),
		Summary:     d.summary,
		Scripts:     d.scripts,
		Elements:    d.elements,
	}
	if err := tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("failed to execute document template: %w", err)
	}
	return nil
}

// HTML renders the document to a string.
func (d *Document) HTML() (string, error) {
	var buf bytes.Buffer
	if err := d.Render(&buf); err != nil {
		return "", err
	}
	return buf.String(), nil
}
