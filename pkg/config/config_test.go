package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukex/betula/pkg/config"
)

func TestLoadMissingFileFallsBackToDefault(t *testing.T) {
	t.Parallel()

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
}

func TestLoadReadsYAMLFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "runner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project_dir: /srv/trees\ntick_rate_hz: 30\npersistence: postgresql\n"), 0o644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/trees", cfg.ProjectDir)
	assert.InDelta(t, 30, cfg.TickRateHz, 0.001)
	assert.Equal(t, "postgresql", cfg.Persistence)
	assert.Equal(t, ":8080", cfg.ListenAddress, "unset fields keep their default")
}

func TestLoadEnvOverlayWinsOverFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "runner.yaml")
	require.NoError(t, os.WriteFile(path, []byte("project_dir: /srv/trees\n"), 0o644))

	t.Setenv("BETULA_PROJECT_DIR", "/srv/override")

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/override", cfg.ProjectDir)
}

func TestValidateRejectsNonPositiveTickRate(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.TickRateHz = 0

	err := config.Validate(cfg)
	require.Error(t, err)
}

func TestValidateRejectsUnknownPersistence(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Persistence = "mongo"

	err := config.Validate(cfg)
	require.Error(t, err)
}
