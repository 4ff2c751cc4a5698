package docs

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/klauspost/compress/zstd"
)

func crateCachePath(name, version string) string {
	return filepath.Join(config.JSONCacheDir(), name+"_"+version+".json.zst")
}

// SaveCrateCache compresses rustdoc JSON fetched for name@version to disk.
func SaveCrateCache(data []byte, name, version string) error {
	if err := os.MkdirAll(config.JSONCacheDir(), 0755); err != nil {
		return fmt.Errorf("creating json cache dir: %w", err)
	}

	enc, err := zstd.NewWriter(nil)
	if err != nil {
		return fmt.Errorf("creating zstd writer: %w", err)
	}
	defer enc.Close()

	path := crateCachePath(name, version)
	if err := os.WriteFile(path+".tmp", enc.EncodeAll(data, nil), 0644); err != nil {
		return fmt.Errorf("writing cache file: %w", err)
	}
	return os.Rename(path+".tmp", path)
}

// LoadCrateCache loads and parses cached rustdoc JSON for name@version.
func LoadCrateCache(name, version string) (*RustdocCrate, error) {
	f, err := os.Open(crateCachePath(name, version))
	if err != nil {
		return nil, fmt.Errorf("opening cache file: %w", err)
	}
	defer f.Close()

	r, err := zstd.NewReader(f)
	if err != nil {
		return nil, fmt.Errorf("creating zstd reader: %w", err)
	}
	defer r.Close()

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("decompressing cache file: %w", err)
	}
	return Parse(data)
}

// HasCrateCache checks whether a cached rustdoc JSON file exists on disk.
func HasCrateCache(name, version string) bool {
	_, err := os.Stat(crateCachePath(name, version))
	return err == nil
}
