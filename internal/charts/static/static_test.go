package static

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescharts/internal/dataset"
)

func sampleTable() *dataset.SeriesTable {
	return dataset.Reshape([]dataset.Observation{
		{Date: "2020-01-01", Product: "product1", Value: 100},
		{Date: "2020-01-01", Product: "product2", Value: 50},
		{Date: "2020-02-01", Product: "product1", Value: 120},
		{Date: "2020-02-01", Product: "product2", Value: 80},
		{Date: "2020-03-01", Product: "product1", Value: 90},
	})
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PNG")
	require.NoError(t, err)
	assert.Equal(t, PNG, f)
	assert.Equal(t, "image/png", f.ContentType())

	f, err = ParseFormat("svg")
	require.NoError(t, err)
	assert.Equal(t, SVG, f)
	assert.Equal(t, "image/svg+xml", f.ContentType())

	_, err = ParseFormat("gif")
	assert.Error(t, err)
}

func TestRenderPNG(t *testing.T) {
	opts := DefaultOptions()
	opts.Width, opts.Height = 640, 320

	var buf bytes.Buffer
	require.NoError(t, Render(sampleTable(), &buf, PNG, opts))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 640, img.Bounds().Dx())
	assert.Equal(t, 320, img.Bounds().Dy())
}

func TestRenderSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Render(sampleTable(), &buf, SVG, DefaultOptions()))

	out := buf.String()
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "product1")
	assert.Contains(t, out, "product2")
	assert.Contains(t, out, "Product Sales Over Time")
}

func TestRenderLegendLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.LegendLimit = 1

	var buf bytes.Buffer
	require.NoError(t, Render(sampleTable(), &buf, SVG, opts))

	assert.Contains(t, buf.String(), "product1")
	assert.NotContains(t, buf.String(), "product2")
}

func TestRenderEmpty(t *testing.T) {
	var buf bytes.Buffer
	err := Render(dataset.Reshape(nil), &buf, PNG, DefaultOptions())
	assert.ErrorIs(t, err, ErrNoData)
}

func TestRenderSingleDate(t *testing.T) {
	table := dataset.Reshape([]dataset.Observation{
		{Date: "2020-01-01", Product: "product1", Value: 1},
	})

	var buf bytes.Buffer
	assert.Error(t, Render(table, &buf, PNG, DefaultOptions()))
}

func TestRenderBadDate(t *testing.T) {
	table := dataset.Reshape([]dataset.Observation{
		{Date: "not-a-date", Product: "product1", Value: 1},
		{Date: "2020-01-02", Product: "product1", Value: 2},
	})

	var buf bytes.Buffer
	assert.Error(t, Render(table, &buf, SVG, DefaultOptions()))
}
