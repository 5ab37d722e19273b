package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	require.NoError(t, err)

	assert.NotEmpty(t, cfg.DataDir)
	assert.Empty(t, cfg.BackupDir)
	assert.False(t, cfg.BackupConfigured())
	assert.Equal(t, time.Hour, cfg.CheckInterval)
	assert.Equal(t, 30*time.Second, cfg.ScanTimeout)
}

func TestLoadParsesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
data_dir = "/tmp/chireaders-data"
backup_dir = "/tmp/chireaders-backups"
check_interval = "30m"
scan_timeout = "10s"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/chireaders-data", cfg.DataDir)
	assert.Equal(t, "/tmp/chireaders-backups", cfg.BackupDir)
	assert.True(t, cfg.BackupConfigured())
	assert.Equal(t, 30*time.Minute, cfg.CheckInterval)
	assert.Equal(t, 10*time.Second, cfg.ScanTimeout)
}

func TestLoadRejectsBadInterval(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`check_interval = "soon"`), 0o644))

	_, err := Load(path)
	assert.Error(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`check_interval = "-5m"`), 0o644))
	_, err = Load(path)
	assert.Error(t, err)
}

func TestLoadRejectsMalformedToml(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`data_dir = `), 0o644))

	_, err := Load(path)
	assert.Error(t, err)
}
