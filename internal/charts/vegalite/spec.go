// Package vegalite describes the stacked-area chart as a Vega-Lite v5
// specification and embeds it with vega-embed.
package vegalite

import (
	"errors"
	"fmt"

	"github.com/goccy/go-json"

	"salescharts/internal/dataset"
)

// SchemaURL is the Vega-Lite schema the specs target.
const SchemaURL = "https://vega.github.io/schema/vega-lite/v5.json"

// Spec is a single-view Vega-Lite specification.
type Spec struct {
	Schema   string   `json:"$schema"`
	Title    string   `json:"title,omitempty"`
	Width    int      `json:"width,omitempty"`
	Height   int      `json:"height,omitempty"`
	Data     Data     `json:"data"`
	Mark     string   `json:"mark"`
	Encoding Encoding `json:"encoding"`
	Resolve  *Resolve `json:"resolve,omitempty"`
}

// Data holds inline data values.
type Data struct {
	Values []dataset.Observation `json:"values"`
}

// Encoding maps data fields to visual channels.
type Encoding struct {
	X     *PositionDef `json:"x,omitempty"`
	Y     *PositionDef `json:"y,omitempty"`
	Color *MarkPropDef `json:"color,omitempty"`
	Order *FieldDef    `json:"order,omitempty"`
}

// PositionDef encodes the x or y channel.
type PositionDef struct {
	Field     string `json:"field"`
	Type      string `json:"type"`
	Title     string `json:"title,omitempty"`
	Aggregate string `json:"aggregate,omitempty"`
	Stack     string `json:"stack,omitempty"`
	Axis      *Axis  `json:"axis,omitempty"`
}

// Axis configures an axis.
type Axis struct {
	Format     string `json:"format,omitempty"`
	LabelAngle int    `json:"labelAngle"`
}

// MarkPropDef encodes a mark property channel such as color.
type MarkPropDef struct {
	Field  string  `json:"field"`
	Type   string  `json:"type"`
	Title  string  `json:"title,omitempty"`
	Scale  *Scale  `json:"scale,omitempty"`
	Legend *Legend `json:"legend,omitempty"`
}

// Scale selects a color scheme.
type Scale struct {
	Scheme string `json:"scheme,omitempty"`
}

// Legend configures the legend of a channel.
type Legend struct {
	Orient      string `json:"orient,omitempty"`
	Columns     int    `json:"columns,omitempty"`
	SymbolLimit int    `json:"symbolLimit,omitempty"`
}

// FieldDef is a plain field reference.
type FieldDef struct {
	Field string `json:"field"`
	Type  string `json:"type"`
}

// Resolve controls scale sharing across layers.
type Resolve struct {
	Scale map[string]string `json:"scale,omitempty"`
}

// Field types
const (
	Temporal     = "temporal"
	Quantitative = "quantitative"
	Nominal      = "nominal"
)

// NewStackedAreaSpec returns the stacked-area spec over obs: sales summed
// per date and stacked from zero, colored and ordered by product.
func NewStackedAreaSpec(obs []dataset.Observation) *Spec {
	if obs == nil {
		obs = []dataset.Observation{}
	}
	return &Spec{
		Schema: SchemaURL,
		Title:  "Product Sales Over Time (Stacked Area Chart)",
		Width:  800,
		Height: 400,
		Data:   Data{Values: obs},
		Mark:   "area",
		Encoding: Encoding{
			X: &PositionDef{
				Field: "date",
				Type:  Temporal,
				Title: "Date",
				Axis:  &Axis{Format: "%Y-%m", LabelAngle: -45},
			},
			Y: &PositionDef{
				Field:     "sales",
				Type:      Quantitative,
				Title:     "Total Sales",
				Aggregate: "sum",
				Stack:     "zero",
			},
			Color: &MarkPropDef{
				Field:  "product",
				Type:   Nominal,
				Title:  "Product",
				Scale:  &Scale{Scheme: "category20"},
				Legend: &Legend{Orient: "right", Columns: 1, SymbolLimit: 20},
			},
			Order: &FieldDef{Field: "product", Type: Nominal},
		},
		Resolve: &Resolve{Scale: map[string]string{"color": "independent"}},
	}
}

var (
	errNoSchema = errors.New("spec has no $schema")
	errNoMark   = errors.New("spec has no mark")
)

// Validate checks the parts vega-embed cannot default.
func (s *Spec) Validate() error {
	if s.Schema == "" {
		return errNoSchema
	}
	if s.Mark == "" {
		return errNoMark
	}
	for name, def := range map[string]*PositionDef{"x": s.Encoding.X, "y": s.Encoding.Y} {
		if def != nil && def.Field == "" {
			return fmt.Errorf("encoding %s has no field", name)
		}
	}
	return nil
}

// JSON encodes the spec.
func (s *Spec) JSON() ([]byte, error) {
	return json.Marshal(s)
}
