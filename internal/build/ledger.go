package build

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/jcdickinson/ferrisdoc/internal/cas"
	"github.com/jcdickinson/ferrisdoc/internal/db"
	"github.com/jcdickinson/ferrisdoc/internal/jsonapi"
)

// Record describes one finished JSON build.
type Record struct {
	Crate   string
	Version string
	Content []byte
	Stats   jsonapi.Stats
}

// Ledger remembers finished builds.
type Ledger interface {
	Record(rec Record) (*db.Build, error)
}

// DBLedger stores build content in the CAS and the build row in DuckDB.
type DBLedger struct {
	db *db.DB
}

func NewDBLedger(database *db.DB) *DBLedger {
	return &DBLedger{db: database}
}

func (l *DBLedger) Record(rec Record) (*db.Build, error) {
	since, unchanged, err := l.unchangedSince(rec.Crate, cas.Hash(rec.Content))
	if err != nil {
		return nil, err
	}
	if unchanged {
		slog.Info("documentation unchanged", "crate", rec.Crate, "since", humanize.Time(since))
	}

	hash, err := cas.Write(rec.Content)
	if err != nil {
		return nil, fmt.Errorf("storing build content: %w", err)
	}

	c, err := l.db.UpsertCrate(rec.Crate, rec.Version)
	if err != nil {
		return nil, err
	}

	b := &db.Build{
		CrateID:     c.ID,
		Version:     rec.Version,
		ContentHash: hash,
		Items:       rec.Stats.Items,
		Modules:     rec.Stats.Buckets[jsonapi.ModuleResource.Bucket],
		Structs:     rec.Stats.Buckets[jsonapi.StructResource.Bucket],
	}
	if err := l.db.InsertBuild(b); err != nil {
		return nil, err
	}
	return b, nil
}

// unchangedSince reports when hash was last recorded for crate, provided it
// is the latest build and its content is still stored.
func (l *DBLedger) unchangedSince(crate, hash string) (time.Time, bool, error) {
	prev, err := l.db.LatestBuild(crate)
	if err != nil {
		return time.Time{}, false, err
	}
	if prev == nil || prev.ContentHash != hash || !cas.Has(hash) {
		return time.Time{}, false, nil
	}
	return prev.BuiltAt, true, nil
}
