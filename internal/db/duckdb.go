// Package db records documentation builds in a DuckDB ledger.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/marcboeker/go-duckdb" // DuckDB driver
)

type DB struct {
	conn *sql.DB
}

type Crate struct {
	ID      int
	Name    string
	Version string
}

type Build struct {
	ID          int
	CrateID     int
	Version     string
	ContentHash string
	Items       int
	Modules     int
	Structs     int
	BuiltAt     time.Time
}

func New(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("creating cache directory: %w", err)
	}

	conn, err := sql.Open("duckdb", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.initSchema(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return db, nil
}

func (db *DB) Close() error {
	return db.conn.Close()
}

func (db *DB) initSchema() error {
	queries := []string{
		`CREATE SEQUENCE IF NOT EXISTS seq_crate_id START 1;`,
		`CREATE SEQUENCE IF NOT EXISTS seq_build_id START 1;`,

		`CREATE TABLE IF NOT EXISTS crates (
			id INTEGER PRIMARY KEY,
			name TEXT NOT NULL,
			version TEXT NOT NULL,
			UNIQUE(name, version)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_crates_name ON crates (name)`,

		`CREATE TABLE IF NOT EXISTS builds (
			id INTEGER PRIMARY KEY,
			crate_id INTEGER REFERENCES crates(id),
			content_hash TEXT NOT NULL,
			items INTEGER NOT NULL,
			modules INTEGER NOT NULL,
			structs INTEGER NOT NULL,
			built_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE INDEX IF NOT EXISTS idx_builds_crate ON builds (crate_id)`,
	}

	for _, q := range queries {
		if _, err := db.conn.Exec(q); err != nil {
			return fmt.Errorf("executing %q: %w", q, err)
		}
	}
	return nil
}

// UpsertCrate returns the crate row for name@version, creating it if needed.
func (db *DB) UpsertCrate(name, version string) (*Crate, error) {
	c := Crate{Name: name, Version: version}
	err := db.conn.QueryRow(
		`SELECT id FROM crates WHERE name = ? AND version = ?`,
		name, version,
	).Scan(&c.ID)

	if err == nil {
		return &c, nil
	}
	if err != sql.ErrNoRows {
		return nil, fmt.Errorf("checking crate: %w", err)
	}

	_, err = db.conn.Exec(
		`INSERT INTO crates (id, name, version) VALUES (nextval('seq_crate_id'), ?, ?)`,
		name, version,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting crate: %w", err)
	}

	if err := db.conn.QueryRow("SELECT currval('seq_crate_id')").Scan(&c.ID); err != nil {
		return nil, fmt.Errorf("getting crate id: %w", err)
	}
	return &c, nil
}

// InsertBuild records a build. BuiltAt defaults to now when zero.
func (db *DB) InsertBuild(b *Build) error {
	if b.BuiltAt.IsZero() {
		b.BuiltAt = time.Now().UTC()
	}
	_, err := db.conn.Exec(
		`INSERT INTO builds (id, crate_id, content_hash, items, modules, structs, built_at)
		 VALUES (nextval('seq_build_id'), ?, ?, ?, ?, ?, ?)`,
		b.CrateID, b.ContentHash, b.Items, b.Modules, b.Structs, b.BuiltAt,
	)
	if err != nil {
		return fmt.Errorf("inserting build: %w", err)
	}
	if err := db.conn.QueryRow("SELECT currval('seq_build_id')").Scan(&b.ID); err != nil {
		return fmt.Errorf("getting build id: %w", err)
	}
	return nil
}

const buildColumns = `b.id, b.crate_id, c.version, b.content_hash, b.items, b.modules, b.structs, b.built_at`

func scanBuilds(rows *sql.Rows) ([]Build, error) {
	defer rows.Close()
	var builds []Build
	for rows.Next() {
		var b Build
		if err := rows.Scan(&b.ID, &b.CrateID, &b.Version, &b.ContentHash, &b.Items, &b.Modules, &b.Structs, &b.BuiltAt); err != nil {
			return nil, err
		}
		builds = append(builds, b)
	}
	return builds, rows.Err()
}

// ListBuilds returns every recorded build of the named crate, newest first.
func (db *DB) ListBuilds(name string) ([]Build, error) {
	rows, err := db.conn.Query(
		`SELECT `+buildColumns+`
		 FROM builds b JOIN crates c ON c.id = b.crate_id
		 WHERE c.name = ?
		 ORDER BY b.built_at DESC, b.id DESC`,
		name,
	)
	if err != nil {
		return nil, fmt.Errorf("listing builds: %w", err)
	}
	return scanBuilds(rows)
}

// LatestBuild returns the most recent build of the named crate, or nil.
func (db *DB) LatestBuild(name string) (*Build, error) {
	builds, err := db.ListBuilds(name)
	if err != nil {
		return nil, err
	}
	if len(builds) == 0 {
		return nil, nil
	}
	return &builds[0], nil
}
