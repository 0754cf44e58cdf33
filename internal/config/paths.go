package config

import (
	"path/filepath"

	"github.com/adrg/xdg"
)

// Paths contains commonly used file paths.
type Paths struct {
	Database string // Local SQLite database
	CacheDir string // Persisted catalog cache blobs
	LogDir   string // Log files
	Config   string // Config file
}

// GetPaths returns all commonly used paths based on config.
func GetPaths(cfg *Config) Paths {
	return Paths{
		Database: filepath.Join(cfg.BaseDir, "strainsync.db"),
		CacheDir: CacheDir(cfg.BaseDir),
		LogDir:   LogDir(cfg.BaseDir),
		Config:   ConfigFilePath(cfg.BaseDir),
	}
}

// DefaultBaseDir returns the default base directory, following the XDG data
// home convention.
func DefaultBaseDir() string {
	return filepath.Join(xdg.DataHome, "strainsync")
}

// CacheDir returns the catalog cache directory under a base dir.
func CacheDir(baseDir string) string {
	return filepath.Join(baseDir, "cache")
}

// LogDir returns the log directory under a base dir.
func LogDir(baseDir string) string {
	return filepath.Join(baseDir, "logs")
}

// ConfigFilePath returns the config file path under a base dir.
func ConfigFilePath(baseDir string) string {
	return filepath.Join(baseDir, "config.yaml")
}
