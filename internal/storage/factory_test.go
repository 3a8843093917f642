package storage

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"salescharts/internal/config"
)

func TestNewStorageClientLocal(t *testing.T) {
	cfg := &config.Config{DeploymentMode: "local", LocalReportsDir: filepath.Join(t.TempDir(), "out")}

	client, err := NewStorageClient(context.Background(), cfg)
	require.NoError(t, err)
	defer client.Close()

	local, ok := client.(*LocalStorageClient)
	require.True(t, ok)
	assert.Equal(t, cfg.LocalReportsDir, local.RootDir())
}

func TestNewStorageClientErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  *config.Config
		want string
	}{
		{"unsupported mode", &config.Config{DeploymentMode: "ftp"}, `unsupported deployment mode "ftp"`},
		{"empty mode", &config.Config{}, `unsupported deployment mode ""`},
		{"gcs without bucket", &config.Config{DeploymentMode: "gcs"}, "GCS_BUCKET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewStorageClient(context.Background(), tt.cfg)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestModeOf(t *testing.T) {
	assert.Equal(t, DeploymentGCS, ModeOf(&config.Config{DeploymentMode: "gcs"}))
	assert.Equal(t, DeploymentLocal, ModeOf(&config.Config{DeploymentMode: "local"}))
}
