package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadWithLookuper(context.Background(), envconfig.MapLookuper(map[string]string{}))
	require.NoError(t, err)

	assert.Equal(t, "8990", cfg.Port)
	assert.Equal(t, "local", cfg.DeploymentMode)
	assert.Equal(t, "./reports", cfg.LocalReportsDir)
	assert.Equal(t, "2020-01-01", cfg.DatasetStart)
	assert.Equal(t, "2020-12-31", cfg.DatasetEnd)
	assert.Equal(t, 100, cfg.DatasetProducts)
	assert.Equal(t, int64(1), cfg.DatasetSeed)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 800, cfg.ChartWidth)
	assert.Equal(t, 400, cfg.ChartHeight)
	assert.Equal(t, "white", cfg.EChartsTheme)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Empty(t, cfg.DatasetURL)
}

func TestLoadCustomValues(t *testing.T) {
	cfg, err := LoadWithLookuper(context.Background(), envconfig.MapLookuper(map[string]string{
		"PORT":             "9000",
		"DEPLOYMENT_MODE":  "gcs",
		"GCS_BUCKET":       "sales-charts",
		"DATASET_URL":      "https://example.com/sales.json",
		"DATASET_PRODUCTS": "12",
		"DATASET_SEED":     "42",
		"FETCH_TIMEOUT":    "5s",
		"CHART_WIDTH":      "1024",
		"LOG_LEVEL":        "debug",
		"LOG_FORMAT":       "text",
		"ECHARTS_THEME":    "westeros",
	}))
	require.NoError(t, err)

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "gcs", cfg.DeploymentMode)
	assert.Equal(t, "sales-charts", cfg.GCSBucket)
	assert.Equal(t, "https://example.com/sales.json", cfg.DatasetURL)
	assert.Equal(t, 12, cfg.DatasetProducts)
	assert.Equal(t, int64(42), cfg.DatasetSeed)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 1024, cfg.ChartWidth)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "westeros", cfg.EChartsTheme)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"gcs without bucket", map[string]string{"DEPLOYMENT_MODE": "gcs"}},
		{"unknown deployment mode", map[string]string{"DEPLOYMENT_MODE": "s3"}},
		{"zero products", map[string]string{"DATASET_PRODUCTS": "0"}},
		{"negative width", map[string]string{"CHART_WIDTH": "-1"}},
		{"bad start date", map[string]string{"DATASET_START": "01/01/2020"}},
		{"end before start", map[string]string{"DATASET_START": "2020-06-01", "DATASET_END": "2020-01-01"}},
		{"non-numeric seed", map[string]string{"DATASET_SEED": "abc"}},
		{"unknown echarts theme", map[string]string{"ECHARTS_THEME": "neon"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadWithLookuper(context.Background(), envconfig.MapLookuper(tt.env))
			assert.Error(t, err)
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "7000")
	t.Setenv("DATASET_PRODUCTS", "3")

	cfg, err := Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "7000", cfg.Port)
	assert.Equal(t, 3, cfg.DatasetProducts)
}

func TestDatasetRange(t *testing.T) {
	cfg := &Config{DatasetStart: "2020-01-01", DatasetEnd: "2020-12-31"}

	start, end, err := cfg.DatasetRange()
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2020, 12, 31, 0, 0, 0, 0, time.UTC), end)
}
