// Package config handles application configuration. Values are layered:
// defaults, then the YAML config file, then STRAINSYNC_* environment
// variables, then command-line flags.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// envPrefix namespaces environment variables, e.g. STRAINSYNC_CATALOG_API_KEY.
const envPrefix = "STRAINSYNC_"

// Config holds all application configuration.
type Config struct {
	// BaseDir is the root for all strainsync data.
	BaseDir string `koanf:"base_dir"`

	// Language is the target language for translated attributes.
	Language string `koanf:"language" validate:"len=2"`

	Debug bool `koanf:"debug"`

	Catalog CatalogConfig `koanf:"catalog"`
	Remote  RemoteConfig  `koanf:"remote"`
}

// CatalogConfig holds external strain catalog API settings.
type CatalogConfig struct {
	BaseURL  string `koanf:"base_url" validate:"required,url"`
	APIKey   string `koanf:"api_key"`
	APIHost  string `koanf:"api_host"`
	PageSize int    `koanf:"page_size" validate:"gte=0,lte=200"`
}

// RemoteConfig holds backend store and auth settings. All fields optional:
// without them strainsync runs local-only and favorite writes stay on-device.
type RemoteConfig struct {
	DatabaseURL string `koanf:"database_url" validate:"omitempty,uri"`
	TokenURL    string `koanf:"token_url" validate:"omitempty,url"`
	APIKey      string `koanf:"api_key"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		BaseDir:  DefaultBaseDir(),
		Language: "en",
		Catalog: CatalogConfig{
			BaseURL:  "https://weed-db.p.rapidapi.com",
			APIHost:  "weed-db.p.rapidapi.com",
			PageSize: 50,
		},
	}
}

// Load builds the configuration from defaults, the config file, environment
// variables, and the given flag set (flags may be nil).
func Load(flags *pflag.FlagSet) (*Config, error) {
	cfg := Default()
	k := koanf.New(".")

	path := ConfigFilePath(cfg.BaseDir)
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file: %w", err)
		}
	}

	err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".")
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("load env config: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return nil, fmt.Errorf("load flag config: %w", err)
		}
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if err := ensureDirectories(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints.
func (c *Config) Validate() error {
	v := validator.New()
	if err := v.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// ensureDirectories creates required directories if they don't exist.
func ensureDirectories(cfg *Config) error {
	dirs := []string{
		cfg.BaseDir,
		CacheDir(cfg.BaseDir),
		LogDir(cfg.BaseDir),
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
