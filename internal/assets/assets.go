// Package assets holds the browser front-end that renders data.json.
package assets

import (
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

//go:embed static
var static embed.FS

// FS returns the front-end files rooted at the output directory layout.
func FS() fs.FS {
	sub, err := fs.Sub(static, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// Names lists every embedded asset path, relative to the output directory.
func Names() ([]string, error) {
	var names []string
	err := fs.WalkDir(FS(), ".", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			names = append(names, path)
		}
		return nil
	})
	return names, err
}

// Write copies every asset into dir, creating directories as needed.
func Write(dir string) error {
	names, err := Names()
	if err != nil {
		return fmt.Errorf("listing assets: %w", err)
	}
	for _, name := range names {
		data, err := fs.ReadFile(FS(), name)
		if err != nil {
			return fmt.Errorf("reading asset %s: %w", name, err)
		}
		dst := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
			return fmt.Errorf("creating asset directory: %w", err)
		}
		if err := os.WriteFile(dst, data, 0644); err != nil {
			return fmt.Errorf("writing asset %s: %w", name, err)
		}
	}
	return nil
}
