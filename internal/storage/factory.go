package storage

import (
	"context"
	"errors"
	"fmt"

	"salescharts/internal/config"
)

// DeploymentMode selects where reports are stored
type DeploymentMode string

const (
	DeploymentLocal DeploymentMode = "local"
	DeploymentGCS   DeploymentMode = "gcs"
)

const defaultReportsDir = "reports"

// ModeOf returns the deployment mode configured in cfg.
func ModeOf(cfg *config.Config) DeploymentMode {
	return DeploymentMode(cfg.DeploymentMode)
}

// NewStorageClient opens the report store for cfg: a directory tree in
// local mode, a bucket in gcs mode.
func NewStorageClient(ctx context.Context, cfg *config.Config) (StorageClient, error) {
	switch mode := ModeOf(cfg); mode {
	case DeploymentLocal:
		dir := cfg.LocalReportsDir
		if dir == "" {
			dir = defaultReportsDir
		}
		client, err := NewLocalStorageClient(dir)
		if err != nil {
			return nil, fmt.Errorf("failed to open report directory %s: %w", dir, err)
		}
		return client, nil

	case DeploymentGCS:
		if cfg.GCSBucket == "" {
			return nil, errors.New("gcs mode needs GCS_BUCKET")
		}
		client, err := NewGCSClient(ctx, cfg.GCSBucket)
		if err != nil {
			return nil, fmt.Errorf("failed to open bucket %s: %w", cfg.GCSBucket, err)
		}
		return client, nil

	default:
		return nil, fmt.Errorf("unsupported deployment mode %q", mode)
	}
}
