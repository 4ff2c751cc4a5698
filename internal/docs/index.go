package docs

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jcdickinson/ferrisdoc/internal/analysis"
)

// Index exposes a parsed rustdoc crate as an analysis.Host. An Index is not
// safe for concurrent use.
type Index struct {
	crate        *RustdocCrate
	rewriteLinks bool

	// parents records where each item was first reached, so items without
	// an entry in Paths (fields, variants) still get a qualified name.
	parents map[string]string
}

type IndexOption func(*Index)

// WithLinkRewriting rewrites intra-doc links in item docs to front-end
// anchors of the form #/<kind>/<path>.
func WithLinkRewriting() IndexOption {
	return func(ix *Index) { ix.rewriteLinks = true }
}

func NewIndex(crate *RustdocCrate, opts ...IndexOption) *Index {
	ix := &Index{crate: crate, parents: make(map[string]string)}
	for _, opt := range opts {
		opt(ix)
	}
	return ix
}

// Version returns the crate version recorded by rustdoc, if any.
func (ix *Index) Version() string {
	if ix.crate.CrateVersion == nil {
		return ""
	}
	return *ix.crate.CrateVersion
}

func (ix *Index) DefRoots() ([]analysis.Root, error) {
	id := strconv.Itoa(ix.crate.Root)
	item, ok := ix.crate.Index[id]
	if !ok || item.Name == nil {
		return nil, fmt.Errorf("root item %s missing from rustdoc index", id)
	}
	return []analysis.Root{{ID: analysis.ID(id), Name: *item.Name}}, nil
}

func (ix *Index) GetDef(id analysis.ID) (analysis.Def, error) {
	item, ok := ix.crate.Index[string(id)]
	if !ok {
		return analysis.Def{}, &analysis.ResolutionError{ID: id, Err: analysis.ErrNoSuchDef}
	}

	var name, docs string
	if item.Name != nil {
		name = *item.Name
	}
	if item.Docs != nil {
		docs = *item.Docs
	}
	if ix.rewriteLinks {
		docs = RewriteDocLinks(docs, &item, ix.crate)
	}

	return analysis.Def{
		ID:       id,
		Kind:     analysis.ParseDefKind(ix.kind(string(id), &item)),
		QualName: ix.qualName(string(id), name),
		Name:     name,
		Docs:     docs,
	}, nil
}

func (ix *Index) ChildDefs(id analysis.ID) ([]analysis.ID, error) {
	item, ok := ix.crate.Index[string(id)]
	if !ok {
		return nil, &analysis.EnumerationError{ID: id, Err: analysis.ErrNoSuchDef}
	}

	raw, err := childIDs(item.Inner, innerKind(item.Inner))
	if err != nil {
		return nil, &analysis.EnumerationError{ID: id, Err: err}
	}

	children := make([]analysis.ID, 0, len(raw))
	for _, n := range raw {
		childID := strconv.Itoa(n)
		child, ok := ix.crate.Index[childID]
		if !ok || child.CrateID != 0 {
			continue
		}
		if _, seen := ix.parents[childID]; !seen && n != ix.crate.Root {
			ix.parents[childID] = string(id)
		}
		children = append(children, analysis.ID(childID))
	}
	return children, nil
}

func (ix *Index) kind(id string, item *RustdocItem) string {
	if summary, ok := ix.crate.Paths[id]; ok && summary.Kind != "" {
		return summary.Kind
	}
	return innerKind(item.Inner)
}

func (ix *Index) qualName(id, name string) string {
	if summary, ok := ix.crate.Paths[id]; ok && len(summary.Path) > 0 {
		return strings.Join(summary.Path, "::")
	}
	parent, ok := ix.parents[id]
	if !ok {
		return name
	}
	parentItem := ix.crate.Index[parent]
	var parentName string
	if parentItem.Name != nil {
		parentName = *parentItem.Name
	}
	prefix := ix.qualName(parent, parentName)
	if name == "" {
		return prefix
	}
	if prefix == "" {
		return name
	}
	return prefix + "::" + name
}
