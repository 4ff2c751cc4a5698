package assets

import (
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"testing"
)

func TestNames(t *testing.T) {
	names, err := Names()
	if err != nil {
		t.Fatal(err)
	}
	sort.Strings(names)
	want := []string{"app.js", "index.html", "style.css"}
	if len(names) != len(want) {
		t.Fatalf("got %v, want %v", names, want)
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("names[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestWrite(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "target", "doc")
	if err := Write(dir); err != nil {
		t.Fatal(err)
	}

	names, _ := Names()
	for _, name := range names {
		got, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			t.Fatalf("asset %s not written: %v", name, err)
		}
		want, _ := fs.ReadFile(FS(), name)
		if string(got) != string(want) {
			t.Errorf("asset %s content differs", name)
		}
	}
}

func TestWrite_Overwrites(t *testing.T) {
	dir := t.TempDir()
	stale := filepath.Join(dir, "index.html")
	if err := os.WriteFile(stale, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := Write(dir); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(stale)
	if string(got) == "stale" {
		t.Error("index.html was not replaced")
	}
}
