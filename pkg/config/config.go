package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config is the on-disk app configuration. The backup directory is optional:
// an empty value means auto-backup is not configured, which is a normal
// state rather than an error.
type Config struct {
	DataDir       string
	BackupDir     string
	CheckInterval time.Duration
	ScanTimeout   time.Duration
}

const (
	defaultConfigPath    = "~/.config/chireaders/config.toml"
	defaultDataDir       = "~/.local/share/chireaders"
	defaultCheckInterval = time.Hour
	defaultScanTimeout   = 30 * time.Second
)

// DefaultPath returns the standard config file location.
func DefaultPath() string {
	return mustExpand(defaultConfigPath)
}

// Load parses the config file at path (or the default location when path is
// empty), falling back to defaults for a missing file or missing fields.
func Load(path string) (Config, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Config{}, err
	}

	cfg := Config{
		DataDir:       mustExpand(defaultDataDir),
		CheckInterval: defaultCheckInterval,
		ScanTimeout:   defaultScanTimeout,
	}

	raw, err := os.ReadFile(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("open config: %w", err)
	}

	var file struct {
		DataDir       string `toml:"data_dir"`
		BackupDir     string `toml:"backup_dir"`
		CheckInterval string `toml:"check_interval"`
		ScanTimeout   string `toml:"scan_timeout"`
	}
	if err := toml.Unmarshal(raw, &file); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}

	if dir := strings.TrimSpace(file.DataDir); dir != "" {
		cfg.DataDir = mustExpand(dir)
	}
	if dir := strings.TrimSpace(file.BackupDir); dir != "" {
		cfg.BackupDir = mustExpand(dir)
	}
	if cfg.CheckInterval, err = parseInterval(file.CheckInterval, defaultCheckInterval); err != nil {
		return Config{}, fmt.Errorf("parse check_interval: %w", err)
	}
	if cfg.ScanTimeout, err = parseInterval(file.ScanTimeout, defaultScanTimeout); err != nil {
		return Config{}, fmt.Errorf("parse scan_timeout: %w", err)
	}

	return cfg, nil
}

// BackupConfigured reports whether a backup folder has been granted.
func (c Config) BackupConfigured() bool {
	return strings.TrimSpace(c.BackupDir) != ""
}

func parseInterval(value string, fallback time.Duration) (time.Duration, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, err
	}
	if d <= 0 {
		return 0, fmt.Errorf("must be positive: %s", trimmed)
	}
	return d, nil
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultConfigPath)
	}
	return expandPath(path)
}

func mustExpand(path string) string {
	expanded, err := expandPath(path)
	if err != nil {
		return path
	}
	return expanded
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
