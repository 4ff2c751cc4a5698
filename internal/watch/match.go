package watch

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// Matcher decides which paths under a crate root are worth rebuilding for.
type Matcher struct {
	root      string
	include   []string
	exclude   []string
	gitignore *ignore.GitIgnore
}

// NewMatcher builds a matcher for root. include holds doublestar globs
// relative to root; exclude holds directories that are never watched. The
// root's .gitignore is honoured when present.
func NewMatcher(root string, include, exclude []string) (*Matcher, error) {
	for _, p := range include {
		if !doublestar.ValidatePattern(p) {
			return nil, fmt.Errorf("invalid watch pattern %q", p)
		}
	}

	m := &Matcher{root: filepath.Clean(root), include: include}
	for _, dir := range exclude {
		abs, err := filepath.Abs(dir)
		if err != nil {
			return nil, fmt.Errorf("resolving excluded dir %s: %w", dir, err)
		}
		m.exclude = append(m.exclude, abs)
	}

	gi, err := ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	switch {
	case err == nil:
		m.gitignore = gi
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("reading .gitignore: %w", err)
	}
	return m, nil
}

func (m *Matcher) rel(path string) (string, bool) {
	rel, err := filepath.Rel(m.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return filepath.ToSlash(rel), true
}

func (m *Matcher) excluded(path string) bool {
	for _, dir := range m.exclude {
		if path == dir || strings.HasPrefix(path, dir+string(filepath.Separator)) {
			return true
		}
	}
	return false
}

func hidden(rel string) bool {
	for _, part := range strings.Split(rel, "/") {
		if len(part) > 1 && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}

// SkipDir reports whether dir should not be watched at all.
func (m *Matcher) SkipDir(dir string) bool {
	rel, ok := m.rel(dir)
	if !ok {
		return true
	}
	if rel == "." {
		return false
	}
	if hidden(rel) || m.excluded(dir) {
		return true
	}
	return m.gitignore != nil && (m.gitignore.MatchesPath(rel) || m.gitignore.MatchesPath(rel+"/"))
}

// Match reports whether a change to path should trigger a rebuild.
func (m *Matcher) Match(path string) bool {
	rel, ok := m.rel(path)
	if !ok || rel == "." || hidden(rel) || m.excluded(path) {
		return false
	}
	if m.gitignore != nil && m.gitignore.MatchesPath(rel) {
		return false
	}
	for _, p := range m.include {
		if ok, _ := doublestar.Match(p, rel); ok {
			return true
		}
	}
	return false
}

func isDir(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
