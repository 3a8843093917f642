// Package palette holds the categorical color schemes shared by the chart
// renderers and exports.
package palette

import (
	"fmt"
	"image/color"
)

// Tableau10 is the scheme used by the grammar renderer.
var Tableau10 = []string{
	"#4e79a7", "#f28e2c", "#e15759", "#76b7b2", "#59a14f",
	"#edc949", "#af7aa1", "#ff9da7", "#9c755f", "#bab0ab",
}

// Vivid20 is the per-series scheme used by the ECharts renderer and the
// static exports.
var Vivid20 = []string{
	"#ff6b6b", "#4ecdc4", "#45b7d1", "#96ceb4", "#feca57",
	"#ff9ff3", "#54a0ff", "#5f27cd", "#00d2d3", "#ff9f43",
	"#10ac84", "#ee5a6f", "#0abde3", "#3867d6", "#8854d0",
	"#a55eea", "#26de81", "#2bcbba", "#eb3b5a", "#fa8231",
}

// Pick returns the scheme entry for series i, cycling through the scheme.
func Pick(scheme []string, i int) string {
	if len(scheme) == 0 {
		return "#000000"
	}
	return scheme[i%len(scheme)]
}

// RGBA parses a #rrggbb color.
func RGBA(hex string) (color.RGBA, error) {
	var c color.RGBA
	c.A = 0xff
	if _, err := fmt.Sscanf(hex, "#%02x%02x%02x", &c.R, &c.G, &c.B); err != nil {
		return color.RGBA{}, fmt.Errorf("invalid color %q: %w", hex, err)
	}
	return c, nil
}

// Colors converts a scheme to image colors. Invalid entries become black.
func Colors(scheme []string) []color.Color {
	out := make([]color.Color, len(scheme))
	for i, hex := range scheme {
		c, err := RGBA(hex)
		if err != nil {
			c = color.RGBA{A: 0xff}
		}
		out[i] = c
	}
	return out
}
