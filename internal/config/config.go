package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Default values used when no config file overrides them.
const (
	DefaultRequirementsFile   = "requirements.txt"
	DefaultPackageManager     = "pip"
	DefaultEnvironmentManager = "conda"
	DefaultConfigFile         = ".ffinstall.yaml"
	lockFileName              = "ffinstall.lock"
)

// Config represents ffinstall configuration.
type Config struct {
	// RequirementsFile is read relative to the working directory.
	RequirementsFile string `yaml:"requirements"`
	// PackageManager is the executable used for install and uninstall.
	PackageManager string `yaml:"packageManager"`
	// EnvironmentManager is the executable used to persist environment variables.
	EnvironmentManager string `yaml:"environmentManager"`
	// LockFile guards against concurrent installer runs.
	LockFile string `yaml:"lockFile"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		RequirementsFile:   DefaultRequirementsFile,
		PackageManager:     DefaultPackageManager,
		EnvironmentManager: DefaultEnvironmentManager,
		LockFile:           defaultLockFile(),
	}
}

// defaultLockFile returns a lock path owned by the current user.
// Users sharing a host each get their own lock.
func defaultLockFile() string {
	return lockFilePath(os.UserCacheDir, os.TempDir(), os.Getuid())
}

func lockFilePath(cacheDir func() (string, error), tempDir string, uid int) string {
	if dir, err := cacheDir(); err == nil && dir != "" {
		return filepath.Join(dir, "ffinstall", lockFileName)
	}
	return filepath.Join(tempDir, fmt.Sprintf("ffinstall-%d.lock", uid))
}

// LoadConfig loads configuration from path.
// An empty path means DefaultConfigFile in the working directory, which may be absent.
// An explicitly named file must exist.
func LoadConfig(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, os.ErrNotExist) {
			return DefaultConfig(), nil
		}
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.UnmarshalWithOptions(data, cfg, yaml.DisallowUnknownField()); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	// Keys present with empty values fall back to defaults.
	def := DefaultConfig()
	if cfg.RequirementsFile == "" {
		cfg.RequirementsFile = def.RequirementsFile
	}
	if cfg.PackageManager == "" {
		cfg.PackageManager = def.PackageManager
	}
	if cfg.EnvironmentManager == "" {
		cfg.EnvironmentManager = def.EnvironmentManager
	}
	if cfg.LockFile == "" {
		cfg.LockFile = def.LockFile
	}

	return cfg, nil
}
