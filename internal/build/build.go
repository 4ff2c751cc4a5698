// Package build turns analysis data into the documentation output directory.
package build

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jcdickinson/ferrisdoc/internal/assets"
	"github.com/jcdickinson/ferrisdoc/internal/cargo"
	"github.com/jcdickinson/ferrisdoc/internal/config"
	"github.com/jcdickinson/ferrisdoc/internal/jsonapi"
	"github.com/jcdickinson/ferrisdoc/internal/markdown"
	"golang.org/x/sync/singleflight"
)

// DataFile is the name of the generated document in the output directory.
const DataFile = "data.json"

type Builder struct {
	cfg      *config.Config
	analyzer cargo.Analyzer
	ledger   Ledger
	metrics  *Metrics
	out      io.Writer

	group singleflight.Group
	mu    sync.Mutex
}

type Option func(*Builder)

// WithLedger records every JSON build in l.
func WithLedger(l Ledger) Option {
	return func(b *Builder) { b.ledger = l }
}

// WithMetrics reports artifact builds to m.
func WithMetrics(m *Metrics) Option {
	return func(b *Builder) { b.metrics = m }
}

// WithOutput sets where progress messages are printed. Quiet configs print
// nothing regardless.
func WithOutput(w io.Writer) Option {
	return func(b *Builder) { b.out = w }
}

func New(cfg *config.Config, analyzer cargo.Analyzer, opts ...Option) *Builder {
	b := &Builder{cfg: cfg, analyzer: analyzer, out: os.Stdout}
	for _, opt := range opts {
		opt(b)
	}
	if cfg.Verbosity == config.Quiet {
		b.out = io.Discard
	}
	return b
}

// OutputPath is the directory the builder writes into.
func (b *Builder) OutputPath() string {
	return b.cfg.OutputPath()
}

// Build produces the requested artifacts in build order. Concurrent calls
// for the same artifacts share one run, and distinct runs never overlap.
func (b *Builder) Build(ctx context.Context, artifacts []Artifact) error {
	ordered, err := ParseArtifacts(artifactNames(artifacts))
	if err != nil {
		return err
	}

	_, err, shared := b.group.Do(joinArtifacts(ordered), func() (interface{}, error) {
		b.mu.Lock()
		defer b.mu.Unlock()
		return nil, b.build(ctx, ordered)
	})
	if shared {
		slog.Debug("joined in-flight build", "artifacts", joinArtifacts(ordered))
	}
	return err
}

// Rebuild runs Build for the watcher. Failures are reported, never returned.
func (b *Builder) Rebuild(ctx context.Context, artifacts []Artifact) {
	if err := b.Build(ctx, artifacts); err != nil {
		slog.Error("rebuild failed", "error", err)
		fmt.Fprintf(b.out, "Docs failed to rebuild: %v\n", err)
		return
	}
	fmt.Fprintln(b.out, "Docs have been successfully rebuilt.")
}

// generated is a serialized document that has not been written yet.
type generated struct {
	crate   string
	version string
	doc     *jsonapi.Documentation
	data    []byte
}

// build generates every fallible artifact before touching the output
// directory, so a failed build leaves it as it was.
func (b *Builder) build(ctx context.Context, artifacts []Artifact) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	elapsed := make(map[Artifact]time.Duration, len(artifacts))
	var gen *generated
	for _, a := range artifacts {
		if a != JSON {
			continue
		}
		start := time.Now()
		var err error
		gen, err = b.generateJSON(ctx)
		elapsed[a] = time.Since(start)
		if err != nil {
			b.metrics.observe(a, elapsed[a], err)
			return fmt.Errorf("building %s: %w", a, err)
		}
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, a := range artifacts {
		start := time.Now()
		var err error
		switch a {
		case Assets:
			err = b.buildAssets()
		case JSON:
			err = b.writeJSON(gen)
		}
		elapsed[a] += time.Since(start)
		b.metrics.observe(a, elapsed[a], err)
		if err != nil {
			return fmt.Errorf("building %s: %w", a, err)
		}
	}
	return nil
}

func (b *Builder) buildAssets() error {
	slog.Debug("writing assets", "dir", b.OutputPath())
	return assets.Write(b.OutputPath())
}

func (b *Builder) generateJSON(ctx context.Context) (*generated, error) {
	index, err := b.analyzer.Analyze(ctx)
	if err != nil {
		return nil, fmt.Errorf("analyzing crate: %w", err)
	}

	name := b.cfg.CrateName()
	doc, data, err := jsonapi.CreateJSON(index, name)
	if err != nil {
		return nil, err
	}

	version := index.Version()
	if version == "" {
		version = b.cfg.Manifest.Version
	}
	return &generated{crate: name, version: version, doc: doc, data: data}, nil
}

func (b *Builder) writeJSON(gen *generated) error {
	if err := writeAtomic(filepath.Join(b.OutputPath(), DataFile), gen.data); err != nil {
		return err
	}

	stats := gen.doc.Stats()
	b.metrics.setItems(stats.Items)
	slog.Info("documentation generated",
		"crate", gen.crate,
		"items", stats.Items,
		"size", humanize.Bytes(uint64(len(gen.data))),
		"summary", markdown.Summary(gen.doc.Data.Attributes["docs"]),
	)

	if b.ledger == nil {
		return nil
	}
	rec, err := b.ledger.Record(Record{Crate: gen.crate, Version: gen.version, Content: gen.data, Stats: stats})
	if err != nil {
		// The output is already in place; a ledger failure is not a build failure.
		slog.Warn("failed to record build", "crate", gen.crate, "error", err)
		return nil
	}
	slog.Debug("recorded build", "crate", gen.crate, "hash", rec.ContentHash)
	return nil
}

// writeAtomic replaces path with data so readers never see a partial file.
func writeAtomic(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing %s: %w", filepath.Base(path), err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replacing %s: %w", filepath.Base(path), err)
	}
	return nil
}

func artifactNames(as []Artifact) []string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = string(a)
	}
	return names
}
