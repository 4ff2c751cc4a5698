// Package cargo produces analysis data for a crate, either by running
// rustdoc locally or by fetching a prebuilt index from docs.rs.
package cargo

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/jcdickinson/ferrisdoc/internal/docs"
)

// Analyzer produces the analysis index for the configured crate.
type Analyzer interface {
	Analyze(ctx context.Context) (*docs.Index, error)
}

// CommandError reports a failed cargo invocation.
type CommandError struct {
	Args   []string
	Stderr string
	Err    error
}

func (e *CommandError) Error() string {
	msg := fmt.Sprintf("cargo %s: %v", strings.Join(e.Args, " "), e.Err)
	if s := strings.TrimSpace(e.Stderr); s != "" {
		msg += "\n" + s
	}
	return msg
}

func (e *CommandError) Unwrap() error { return e.Err }

// New returns the analyzer selected by cfg.Analysis.Source.
func New(cfg *config.Config) (Analyzer, error) {
	switch cfg.Analysis.Source {
	case config.SourceCargo:
		return NewCargo(cfg), nil
	case config.SourceDocsRs:
		return NewDocsRs(cfg), nil
	default:
		return nil, fmt.Errorf("unknown analysis source %q", cfg.Analysis.Source)
	}
}

func indexOptions(cfg *config.Config) []docs.IndexOption {
	if cfg.Analysis.RewriteLinks {
		return []docs.IndexOption{docs.WithLinkRewriting()}
	}
	return nil
}

// Runner executes cargo with args in dir, streaming diagnostics to stderr.
type Runner func(ctx context.Context, dir string, stderr io.Writer, args ...string) error

func execRunner(ctx context.Context, dir string, stderr io.Writer, args ...string) error {
	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = dir
	cmd.Stdout = stderr
	cmd.Stderr = stderr
	return cmd.Run()
}

// Cargo runs `cargo rustdoc` with JSON output against the local crate.
type Cargo struct {
	cfg *config.Config
	run Runner
}

func NewCargo(cfg *config.Config) *Cargo {
	return &Cargo{cfg: cfg, run: execRunner}
}

// WithRunner replaces how cargo is invoked.
func (c *Cargo) WithRunner(run Runner) *Cargo {
	c.run = run
	return c
}

// Args is the cargo command line used to produce rustdoc JSON.
func (c *Cargo) Args() []string {
	var args []string
	if tc := c.cfg.Analysis.Toolchain; tc != "" {
		args = append(args, "+"+tc)
	}
	args = append(args,
		"rustdoc",
		"--manifest-path", c.cfg.ManifestPath,
		"--lib",
		"--",
		"-Z", "unstable-options",
		"--output-format", "json",
	)
	return append(args, c.cfg.Analysis.RustdocArgs...)
}

// JSONPath is where rustdoc writes the crate's JSON.
func (c *Cargo) JSONPath() string {
	return filepath.Join(c.cfg.OutputPath(), c.cfg.CrateName()+".json")
}

func (c *Cargo) Analyze(ctx context.Context) (*docs.Index, error) {
	args := c.Args()
	slog.Debug("running cargo", "args", args)

	var stderr bytes.Buffer
	var w io.Writer = &stderr
	if c.cfg.Verbosity == config.Verbose {
		w = io.MultiWriter(&stderr, os.Stderr)
	}
	if err := c.run(ctx, c.cfg.RootPath(), w, args...); err != nil {
		return nil, &CommandError{Args: args, Stderr: stderr.String(), Err: err}
	}

	data, err := os.ReadFile(c.JSONPath())
	if err != nil {
		return nil, fmt.Errorf("reading rustdoc output: %w", err)
	}
	crate, err := docs.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", c.JSONPath(), err)
	}
	return docs.NewIndex(crate, indexOptions(c.cfg)...), nil
}

// DocsRs fetches the published rustdoc JSON for the crate from docs.rs,
// caching it on disk per version.
type DocsRs struct {
	cfg *config.Config
}

func NewDocsRs(cfg *config.Config) *DocsRs {
	return &DocsRs{cfg: cfg}
}

func (d *DocsRs) version() string {
	if v := d.cfg.Analysis.Version; v != "" {
		return v
	}
	return "latest"
}

func (d *DocsRs) Analyze(ctx context.Context) (*docs.Index, error) {
	name := d.cfg.Manifest.Package
	version := d.version()

	// "latest" moves, so only pinned versions are served from cache.
	if version != "latest" && docs.HasCrateCache(name, version) {
		crate, err := docs.LoadCrateCache(name, version)
		if err == nil {
			slog.Debug("using cached rustdoc json", "crate", name, "version", version)
			return docs.NewIndex(crate, indexOptions(d.cfg)...), nil
		}
		slog.Warn("ignoring unreadable cache entry", "crate", name, "version", version, "error", err)
	}

	slog.Info("fetching rustdoc json from docs.rs", "crate", name, "version", version)
	data, err := docs.FetchRustdocJSON(ctx, name, version)
	if err != nil {
		return nil, err
	}
	crate, err := docs.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing docs.rs json for %s@%s: %w", name, version, err)
	}

	if v := crate.CrateVersion; v != nil && *v != "" {
		version = *v
	}
	if err := docs.SaveCrateCache(data, name, version); err != nil {
		slog.Warn("failed to cache rustdoc json", "crate", name, "error", err)
	}
	return docs.NewIndex(crate, indexOptions(d.cfg)...), nil
}
