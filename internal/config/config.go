package config

import (
	"context"
	"fmt"
	"time"

	"github.com/go-echarts/go-echarts/v2/types"
	"github.com/sethvargo/go-envconfig"
)

// DateLayout is the calendar-day layout used by the dataset range settings.
const DateLayout = "2006-01-02"

// Config holds all configuration for the sales chart service
type Config struct {
	// Server configuration
	Port string `env:"PORT,default=8990"`

	// Storage configuration: "local" writes under LocalReportsDir, "gcs" uploads to GCSBucket
	DeploymentMode  string `env:"DEPLOYMENT_MODE,default=local"`
	LocalReportsDir string `env:"LOCAL_REPORTS_DIR,default=./reports"`
	GCPProjectID    string `env:"GCP_PROJECT_ID"`
	GCSBucket       string `env:"GCS_BUCKET"`

	// Dataset configuration. When DatasetURL is set the observations are fetched
	// from it instead of being generated.
	DatasetURL      string        `env:"DATASET_URL"`
	DatasetStart    string        `env:"DATASET_START,default=2020-01-01"`
	DatasetEnd      string        `env:"DATASET_END,default=2020-12-31"`
	DatasetProducts int           `env:"DATASET_PRODUCTS,default=100"`
	DatasetSeed     int64         `env:"DATASET_SEED,default=1"`
	FetchTimeout    time.Duration `env:"FETCH_TIMEOUT,default=30s"`

	// Chart configuration
	ChartWidth        int    `env:"CHART_WIDTH,default=800"`
	ChartHeight       int    `env:"CHART_HEIGHT,default=400"`
	EChartsAssetsHost string `env:"ECHARTS_ASSETS_HOST,default=https://cdn.jsdelivr.net/npm/echarts@5.4.3/dist/"`
	EChartsTheme      string `env:"ECHARTS_THEME,default=white"`

	// Service configuration
	Environment string `env:"ENVIRONMENT,default=development"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`
	LogFormat   string `env:"LOG_FORMAT,default=json"`
}

// Load loads configuration from environment variables
func Load(ctx context.Context) (*Config, error) {
	return LoadWithLookuper(ctx, envconfig.OsLookuper())
}

// LoadWithLookuper loads configuration from the given lookuper
func LoadWithLookuper(ctx context.Context, l envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &cfg, l); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cross-field constraints envconfig cannot express
func (c *Config) Validate() error {
	switch c.DeploymentMode {
	case "local":
	case "gcs":
		if c.GCSBucket == "" {
			return fmt.Errorf("GCS_BUCKET is required when DEPLOYMENT_MODE is gcs")
		}
	default:
		return fmt.Errorf("unsupported deployment mode: %s", c.DeploymentMode)
	}

	if c.DatasetProducts <= 0 {
		return fmt.Errorf("DATASET_PRODUCTS must be positive, got %d", c.DatasetProducts)
	}
	if c.ChartWidth <= 0 || c.ChartHeight <= 0 {
		return fmt.Errorf("chart size must be positive, got %dx%d", c.ChartWidth, c.ChartHeight)
	}

	switch c.EChartsTheme {
	case "", "white", "dark":
	default:
		if !types.PresetTheme(c.EChartsTheme) {
			return fmt.Errorf("unknown ECHARTS_THEME %q", c.EChartsTheme)
		}
	}

	start, end, err := c.DatasetRange()
	if err != nil {
		return err
	}
	if end.Before(start) {
		return fmt.Errorf("DATASET_END %s is before DATASET_START %s", c.DatasetEnd, c.DatasetStart)
	}
	return nil
}

// DatasetRange parses the inclusive dataset date range
func (c *Config) DatasetRange() (time.Time, time.Time, error) {
	start, err := time.Parse(DateLayout, c.DatasetStart)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid DATASET_START %q: %w", c.DatasetStart, err)
	}
	end, err := time.Parse(DateLayout, c.DatasetEnd)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("invalid DATASET_END %q: %w", c.DatasetEnd, err)
	}
	return start, end, nil
}
