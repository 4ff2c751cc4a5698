package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Manifest is the subset of Cargo.toml ferrisdoc needs.
type Manifest struct {
	Path    string
	Package string
	Version string
	LibName string
}

// LoadManifest reads a Cargo manifest.
func LoadManifest(path string) (*Manifest, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("reading cargo manifest: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("toml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("parsing cargo manifest %s: %w", path, err)
	}

	m := &Manifest{
		Path:    path,
		Package: v.GetString("package.name"),
		Version: v.GetString("package.version"),
		LibName: v.GetString("lib.name"),
	}
	if m.Package == "" {
		return nil, fmt.Errorf("cargo manifest %s has no package.name (workspaces are not supported)", path)
	}
	return m, nil
}

// CrateName is the lib target name: lib.name when set, otherwise the
// package name with dashes replaced by underscores.
func (m *Manifest) CrateName() string {
	if m.LibName != "" {
		return m.LibName
	}
	return strings.ReplaceAll(m.Package, "-", "_")
}
