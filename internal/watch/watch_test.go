package watch

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaultInclude = []string{"**/*.rs", "**/Cargo.toml"}

func crateDir(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	for _, dir := range []string{"src", "target/doc", ".git", "generated"} {
		require.NoError(t, os.MkdirAll(filepath.Join(root, dir), 0755))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte("/generated\n*.bak.rs\n"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "Cargo.toml"), []byte("[package]\nname = \"demo\"\n"), 0644))
	return root
}

func TestMatcher_Match(t *testing.T) {
	root := crateDir(t)
	m, err := NewMatcher(root, defaultInclude, []string{filepath.Join(root, "target")})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"src/lib.rs", true},
		{"build.rs", true},
		{"src/deep/mod.rs", true},
		{"Cargo.toml", true},
		{"README.md", false},
		{"target/doc/data.json", false},
		{"target/debug/build.rs", false},
		{".git/HEAD.rs", false},
		{"generated/out.rs", false},
		{"src/old.bak.rs", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, m.Match(filepath.Join(root, filepath.FromSlash(tt.path))))
		})
	}

	assert.False(t, m.Match(filepath.Join(filepath.Dir(root), "elsewhere.rs")))
}

func TestMatcher_SkipDir(t *testing.T) {
	root := crateDir(t)
	m, err := NewMatcher(root, defaultInclude, []string{filepath.Join(root, "target")})
	require.NoError(t, err)

	assert.False(t, m.SkipDir(root))
	assert.False(t, m.SkipDir(filepath.Join(root, "src")))
	assert.True(t, m.SkipDir(filepath.Join(root, "target")))
	assert.True(t, m.SkipDir(filepath.Join(root, "target", "doc")))
	assert.True(t, m.SkipDir(filepath.Join(root, ".git")))
	assert.True(t, m.SkipDir(filepath.Join(root, "generated")))
}

func TestMatcher_NoGitignore(t *testing.T) {
	root := t.TempDir()
	m, err := NewMatcher(root, defaultInclude, nil)
	require.NoError(t, err)
	assert.True(t, m.Match(filepath.Join(root, "src", "lib.rs")))
}

func TestMatcher_InvalidPattern(t *testing.T) {
	_, err := NewMatcher(t.TempDir(), []string{"src/[.rs"}, nil)
	assert.Error(t, err)
}

type recorder struct {
	mu    sync.Mutex
	calls [][]string
	fired chan struct{}
}

func newRecorder() *recorder {
	return &recorder{fired: make(chan struct{}, 16)}
}

func (r *recorder) onChange(ctx context.Context, changed []string) {
	r.mu.Lock()
	r.calls = append(r.calls, changed)
	r.mu.Unlock()
	r.fired <- struct{}{}
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

func startWatcher(t *testing.T, root string, rec *recorder) {
	t.Helper()
	m, err := NewMatcher(root, defaultInclude, []string{filepath.Join(root, "target")})
	require.NoError(t, err)
	w := New(root, m, 100*time.Millisecond, rec.onChange)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-done)
	})

	select {
	case <-w.Ready():
	case err := <-done:
		t.Fatalf("watcher exited early: %v", err)
	case <-time.After(5 * time.Second):
		t.Fatal("watcher never became ready")
	}
}

func TestWatcher_DebouncesBurst(t *testing.T) {
	root := crateDir(t)
	rec := newRecorder()
	startWatcher(t, root, rec)

	for _, name := range []string{"lib.rs", "a.rs", "b.rs"} {
		require.NoError(t, os.WriteFile(filepath.Join(root, "src", name), []byte("// x\n"), 0644))
	}

	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after source change")
	}
	time.Sleep(300 * time.Millisecond)

	require.Equal(t, 1, rec.count())
	rec.mu.Lock()
	changed := rec.calls[0]
	rec.mu.Unlock()
	assert.Contains(t, changed, filepath.Join(root, "src", "lib.rs"))
	assert.Contains(t, changed, filepath.Join(root, "src", "b.rs"))
}

func TestWatcher_IgnoresOutputAndUnmatched(t *testing.T) {
	root := crateDir(t)
	rec := newRecorder()
	startWatcher(t, root, rec)

	require.NoError(t, os.WriteFile(filepath.Join(root, "target", "doc", "data.json"), []byte("{}"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "README.md"), []byte("hi"), 0644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "generated", "x.rs"), []byte("// x\n"), 0644))

	time.Sleep(400 * time.Millisecond)
	assert.Equal(t, 0, rec.count())
}

func TestWatcher_NewDirectory(t *testing.T) {
	root := crateDir(t)
	rec := newRecorder()
	startWatcher(t, root, rec)

	dir := filepath.Join(root, "src", "nested")
	require.NoError(t, os.Mkdir(dir, 0755))
	// Give the watcher a moment to pick up the new directory.
	time.Sleep(200 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "mod.rs"), []byte("// x\n"), 0644))

	select {
	case <-rec.fired:
	case <-time.After(5 * time.Second):
		t.Fatal("no rebuild after change in new directory")
	}
}
