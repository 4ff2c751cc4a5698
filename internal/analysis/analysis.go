// Package analysis defines the view of a crate's symbol graph that the
// documentation core consumes. Implementations wrap a pre-built analysis
// index such as rustdoc's JSON output.
package analysis

import (
	"errors"
	"fmt"
)

// ID is an opaque handle used to re-query a Host.
type ID string

// Def is the metadata of a single symbol.
type Def struct {
	ID       ID
	Kind     DefKind
	QualName string // globally unique, e.g. "mycrate::sub::Thing"
	Name     string
	Docs     string
}

// Root pairs a crate name with the ID of its root module.
type Root struct {
	ID   ID
	Name string
}

// Host resolves symbols of one or more crates. A Host is expected to answer
// synchronously and in-process.
type Host interface {
	DefRoots() ([]Root, error)
	GetDef(id ID) (Def, error)
	ChildDefs(id ID) ([]ID, error)
}

// FindRoot returns the root ID of crateName.
func FindRoot(host Host, crateName string) (ID, error) {
	roots, err := host.DefRoots()
	if err != nil {
		return "", fmt.Errorf("listing crate roots: %w", err)
	}
	for _, r := range roots {
		if r.Name == crateName {
			return r.ID, nil
		}
	}
	return "", &CrateNotFoundError{Name: crateName}
}

// CrateNotFoundError reports a crate name with no matching root symbol.
type CrateNotFoundError struct {
	Name string
}

func (e *CrateNotFoundError) Error() string {
	return fmt.Sprintf("crate %s not found in analysis data", e.Name)
}

// ResolutionError reports a symbol whose metadata could not be resolved.
type ResolutionError struct {
	ID  ID
	Err error
}

func (e *ResolutionError) Error() string {
	return fmt.Sprintf("resolving def %s: %v", e.ID, e.Err)
}

func (e *ResolutionError) Unwrap() error { return e.Err }

// EnumerationError reports a symbol whose children could not be listed.
type EnumerationError struct {
	ID  ID
	Err error
}

func (e *EnumerationError) Error() string {
	return fmt.Sprintf("enumerating children of %s: %v", e.ID, e.Err)
}

func (e *EnumerationError) Unwrap() error { return e.Err }

// ErrNoSuchDef is returned by hosts for IDs they do not know.
var ErrNoSuchDef = errors.New("no such def")

// IsCrateNotFound reports whether err is, or wraps, a CrateNotFoundError.
func IsCrateNotFound(err error) bool {
	var nf *CrateNotFoundError
	return errors.As(err, &nf)
}
