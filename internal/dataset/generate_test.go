package dataset

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateDefaultShape(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	obs := Generate(cfg)

	require.Equal(t, 366, cfg.Days())
	require.Len(t, obs, 366*100)

	assert.Equal(t, Observation{Date: "2020-01-01", Product: "product1", Value: obs[0].Value}, obs[0])
	assert.Equal(t, "2020-12-31", obs[len(obs)-1].Date)
	assert.Equal(t, "product100", obs[len(obs)-1].Product)
}

func TestGenerateValueBounds(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Products = 10
	for _, o := range Generate(cfg) {
		// base in [100, 1100), seasonal in [0.7, 1.3], product factor in (0.5, 2.0]
		assert.GreaterOrEqual(t, o.Value, float64(100*0.7*0.5)-1)
		assert.LessOrEqual(t, o.Value, float64(1100*1.3*2.0)+1)
		assert.Equal(t, float64(int64(o.Value)), o.Value, "values are whole units")
	}
}

func TestGenerateDeterministic(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Products = 5

	assert.Equal(t, Generate(cfg), Generate(cfg))

	other := cfg
	other.Seed = cfg.Seed + 1
	assert.NotEqual(t, Generate(cfg), Generate(other))
}

func TestGenerateEmptyRanges(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Products = 0
	assert.Empty(t, Generate(cfg))

	cfg = DefaultGeneratorConfig()
	cfg.End = cfg.Start.Add(-24 * time.Hour)
	assert.Equal(t, 0, cfg.Days())
	assert.Empty(t, Generate(cfg))
}

func TestSummarize(t *testing.T) {
	cfg := DefaultGeneratorConfig()
	cfg.Products = 4
	obs := Generate(cfg)

	s := Summarize(obs)
	assert.Equal(t, 366*4, s.Count)
	assert.Equal(t, 4, s.Products)
	assert.Equal(t, "2020-01-01", s.FirstDate)
	assert.Equal(t, "2020-12-31", s.LastDate)
	assert.Equal(t, obs[:5], s.Sample)
	assert.Equal(t, 366*4, s.Fields()["count"])

	empty := Summarize(nil)
	assert.Equal(t, 0, empty.Count)
	assert.Empty(t, empty.Sample)
}

func TestJSONRoundTrip(t *testing.T) {
	obs := []Observation{
		{Date: "2020-01-01", Product: "product1", Value: 12},
		{Date: "2020-01-02", Product: "product2", Value: 7},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteJSON(&buf, obs))
	assert.Contains(t, buf.String(), `"sales":12`)

	loaded, err := LoadJSON(&buf)
	require.NoError(t, err)
	assert.Equal(t, obs, loaded)
}

func TestLoadJSONErrors(t *testing.T) {
	_, err := LoadJSON(bytes.NewBufferString(`{"date":`))
	assert.Error(t, err)

	obs, err := LoadJSON(bytes.NewBufferString(`null`))
	require.NoError(t, err)
	assert.NotNil(t, obs)
	assert.Empty(t, obs)
}
