// Package analysistest provides an in-memory analysis.Host for tests.
package analysistest

import (
	"fmt"

	"github.com/jcdickinson/ferrisdoc/internal/analysis"
)

// Host is a hand-assembled symbol graph. The zero value is not usable; call
// NewHost.
type Host struct {
	roots    []analysis.Root
	defs     map[analysis.ID]analysis.Def
	children map[analysis.ID][]analysis.ID

	// Injected failures, keyed by the ID whose query should fail.
	FailDef      map[analysis.ID]error
	FailChildren map[analysis.ID]error
	FailRoots    error

	// Query counters.
	DefCalls   map[analysis.ID]int
	ChildCalls map[analysis.ID]int
}

func NewHost() *Host {
	return &Host{
		defs:         make(map[analysis.ID]analysis.Def),
		children:     make(map[analysis.ID][]analysis.ID),
		FailDef:      make(map[analysis.ID]error),
		FailChildren: make(map[analysis.ID]error),
		DefCalls:     make(map[analysis.ID]int),
		ChildCalls:   make(map[analysis.ID]int),
	}
}

// AddCrate registers a crate root and returns its ID.
func (h *Host) AddCrate(name, docs string) analysis.ID {
	id := analysis.ID("root:" + name)
	h.roots = append(h.roots, analysis.Root{ID: id, Name: name})
	h.defs[id] = analysis.Def{ID: id, Kind: analysis.Mod, QualName: name, Name: name, Docs: docs}
	return id
}

// Add registers a symbol as a child of parent. The ID defaults to the
// qualified name. Adding the same ID under several parents creates a DAG.
func (h *Host) Add(parent analysis.ID, kind analysis.DefKind, qualName, name, docs string) analysis.ID {
	id := analysis.ID(qualName)
	h.defs[id] = analysis.Def{ID: id, Kind: kind, QualName: qualName, Name: name, Docs: docs}
	h.Link(parent, id)
	return id
}

// Link adds child to parent's children without registering metadata.
func (h *Host) Link(parent, child analysis.ID) {
	h.children[parent] = append(h.children[parent], child)
}

func (h *Host) DefRoots() ([]analysis.Root, error) {
	if h.FailRoots != nil {
		return nil, h.FailRoots
	}
	return h.roots, nil
}

func (h *Host) GetDef(id analysis.ID) (analysis.Def, error) {
	h.DefCalls[id]++
	if err := h.FailDef[id]; err != nil {
		return analysis.Def{}, &analysis.ResolutionError{ID: id, Err: err}
	}
	def, ok := h.defs[id]
	if !ok {
		return analysis.Def{}, &analysis.ResolutionError{ID: id, Err: analysis.ErrNoSuchDef}
	}
	return def, nil
}

func (h *Host) ChildDefs(id analysis.ID) ([]analysis.ID, error) {
	h.ChildCalls[id]++
	if err := h.FailChildren[id]; err != nil {
		return nil, &analysis.EnumerationError{ID: id, Err: err}
	}
	if _, ok := h.defs[id]; !ok {
		return nil, &analysis.EnumerationError{ID: id, Err: fmt.Errorf("%w: %s", analysis.ErrNoSuchDef, id)}
	}
	return h.children[id], nil
}
