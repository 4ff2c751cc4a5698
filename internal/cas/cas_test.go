package cas

import (
	"errors"
	"os"
	"testing"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	content := []byte(`{"data":{"type":"crate","id":"demo","attributes":{"docs":""}},"included":[]}`)
	hash, err := Write(content)
	if err != nil {
		t.Fatal(err)
	}
	if hash != Hash(content) {
		t.Fatalf("hash = %s, want %s", hash, Hash(content))
	}
	if !Has(hash) {
		t.Fatal("Has reported missing content after Write")
	}

	got, err := Read(hash)
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != string(content) {
		t.Errorf("round-trip failed: got %q, want %q", got, content)
	}
}

func TestWrite_Dedup(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	content := []byte("duplicate content")
	hash1, err := Write(content)
	if err != nil {
		t.Fatal(err)
	}
	hash2, err := Write(content)
	if err != nil {
		t.Fatal(err)
	}
	if hash1 != hash2 {
		t.Errorf("same content produced different hashes: %s vs %s", hash1, hash2)
	}
}

func TestWrite_DifferentContent(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	hash1, err := Write([]byte("content A"))
	if err != nil {
		t.Fatal(err)
	}
	hash2, err := Write([]byte("content B"))
	if err != nil {
		t.Fatal(err)
	}
	if hash1 == hash2 {
		t.Error("different content should produce different hashes")
	}
}

func TestRead_MissingHash(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	_, err := Read("0000000000000000000000000000000000000000000000000000000000000000")
	if err == nil {
		t.Fatal("expected error for missing hash")
	}
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestValidHash(t *testing.T) {
	tests := []struct {
		hash string
		want bool
	}{
		{Hash([]byte("x")), true},
		{"abc", false},
		{"", false},
		{"zz" + Hash([]byte("x"))[2:], false},
	}
	for _, tt := range tests {
		if got := ValidHash(tt.hash); got != tt.want {
			t.Errorf("ValidHash(%q) = %v, want %v", tt.hash, got, tt.want)
		}
	}
}

func TestRead_ShortHash(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	if _, err := Read("a"); err == nil {
		t.Fatal("expected error for short hash")
	}
	if Has("a") {
		t.Error("Has accepted a short hash")
	}
}
