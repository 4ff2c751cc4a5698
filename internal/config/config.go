package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Verbosity controls how much the CLI prints.
type Verbosity int

const (
	Normal Verbosity = iota
	Quiet
	Verbose
)

type AnalysisConfig struct {
	// Source is "cargo" (run rustdoc locally) or "docs.rs".
	Source       string   `mapstructure:"source"`
	Version      string   `mapstructure:"version"`
	Toolchain    string   `mapstructure:"toolchain"`
	RustdocArgs  []string `mapstructure:"rustdoc_args"`
	RewriteLinks bool     `mapstructure:"rewrite_links"`
}

type ServeConfig struct {
	Addr string `mapstructure:"addr"`
}

type WatchConfig struct {
	Debounce time.Duration `mapstructure:"debounce"`
	Include  []string      `mapstructure:"include"`
}

type LedgerConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type Config struct {
	Analysis AnalysisConfig `mapstructure:"analysis"`
	Serve    ServeConfig    `mapstructure:"serve"`
	Watch    WatchConfig    `mapstructure:"watch"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`

	Verbosity    Verbosity `mapstructure:"-"`
	ManifestPath string    `mapstructure:"-"`
	Manifest     *Manifest `mapstructure:"-"`
}

const (
	SourceCargo  = "cargo"
	SourceDocsRs = "docs.rs"
)

// cacheBase returns the base cache directory for ferrisdoc.
// Checks XDG_CACHE_HOME, then ~/.cache, then /tmp/ferrisdoc as fallback.
func cacheBase() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "ferrisdoc")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "ferrisdoc")
	}
	return filepath.Join(os.TempDir(), "ferrisdoc")
}

// DBPath returns the path to the build ledger database.
func DBPath() string {
	return filepath.Join(cacheBase(), "ledger.db")
}

// CASDir returns the path to the content-addressable storage directory.
func CASDir() string {
	return filepath.Join(cacheBase(), "cas")
}

// JSONCacheDir returns the path to the rustdoc JSON cache directory.
func JSONCacheDir() string {
	return filepath.Join(cacheBase(), "json")
}

// RootPath is the directory containing the Cargo manifest.
func (c *Config) RootPath() string {
	return filepath.Dir(c.ManifestPath)
}

// TargetPath is cargo's target directory for the crate.
func (c *Config) TargetPath() string {
	if dir := os.Getenv("CARGO_TARGET_DIR"); dir != "" {
		return dir
	}
	return filepath.Join(c.RootPath(), "target")
}

// OutputPath is where generated documentation is written.
func (c *Config) OutputPath() string {
	return filepath.Join(c.TargetPath(), "doc")
}

// CrateName is the library name rustdoc reports for the crate.
func (c *Config) CrateName() string {
	return c.Manifest.CrateName()
}

// newViper builds a viper instance searching the crate root and the user
// config directory for ferrisdoc.toml.
func newViper(rootPath, configFile string) *viper.Viper {
	v := viper.New()
	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName("ferrisdoc")
		v.SetConfigType("toml")
		v.AddConfigPath(rootPath)
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			v.AddConfigPath(filepath.Join(xdg, "ferrisdoc"))
		} else if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "ferrisdoc"))
		}
	}

	v.SetDefault("analysis.source", SourceCargo)
	v.SetDefault("analysis.version", "latest")
	v.SetDefault("analysis.toolchain", "nightly")
	v.SetDefault("analysis.rustdoc_args", []string{})
	v.SetDefault("analysis.rewrite_links", true)
	v.SetDefault("serve.addr", "127.0.0.1:4000")
	v.SetDefault("watch.debounce", "500ms")
	v.SetDefault("watch.include", []string{"**/*.rs", "**/Cargo.toml"})
	v.SetDefault("ledger.enabled", true)

	v.SetEnvPrefix("FERRISDOC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

// Load reads ferrisdoc.toml (if any) and the Cargo manifest at manifestPath.
// configFile overrides the config search when non-empty.
func Load(verbosity Verbosity, manifestPath, configFile string) (*Config, error) {
	absManifest, err := filepath.Abs(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("resolving manifest path %s: %w", manifestPath, err)
	}

	manifest, err := LoadManifest(absManifest)
	if err != nil {
		return nil, err
	}

	v := newViper(filepath.Dir(absManifest), configFile)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok || configFile != "" {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var config Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		Result: &config,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	if err := decoder.Decode(v.AllSettings()); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	config.Verbosity = verbosity
	config.ManifestPath = absManifest
	config.Manifest = manifest
	return &config, nil
}

func (c *Config) validate() error {
	switch c.Analysis.Source {
	case SourceCargo, SourceDocsRs:
	default:
		return fmt.Errorf("unknown analysis source %q (want %q or %q)", c.Analysis.Source, SourceCargo, SourceDocsRs)
	}
	if c.Watch.Debounce <= 0 {
		c.Watch.Debounce = 500 * time.Millisecond
	}
	return nil
}
