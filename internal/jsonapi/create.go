package jsonapi

import (
	"encoding/json"
	"fmt"

	"github.com/jcdickinson/ferrisdoc/internal/analysis"
)

// Assembler accumulates classified symbols for a single build. It must not be
// reused across builds.
type Assembler struct {
	included      []*Document
	relationships map[string]*Relationship
}

func NewAssembler() *Assembler {
	return &Assembler{
		included:      []*Document{},
		relationships: make(map[string]*Relationship),
	}
}

// Add records def if its kind is classified. It reports whether a resource
// was produced.
func (a *Assembler) Add(def analysis.Def) bool {
	rt, ok := Classify(def.Kind)
	if !ok {
		return false
	}

	a.included = append(a.included,
		NewDocument(rt.Type, def.QualName).
			WithAttribute("name", def.Name).
			WithAttribute("docs", def.Docs),
	)

	rel, ok := a.relationships[rt.Bucket]
	if !ok {
		rel = &Relationship{Data: []Data{}}
		a.relationships[rt.Bucket] = rel
	}
	rel.Data = append(rel.Data, Data{Type: rt.Type, ID: def.QualName})
	return true
}

// Finish builds the crate record and returns the envelope.
func (a *Assembler) Finish(crateName, crateDocs string) *Documentation {
	crate := NewDocument(CrateType, crateName).WithAttribute("docs", crateDocs)
	if len(a.relationships) > 0 {
		crate.Relationships = a.relationships
	}

	return &Documentation{Data: crate, Included: a.included}
}

// Create builds the documentation envelope for crateName.
func Create(host analysis.Host, crateName string) (*Documentation, error) {
	rootID, err := analysis.FindRoot(host, crateName)
	if err != nil {
		return nil, err
	}
	rootDef, err := host.GetDef(rootID)
	if err != nil {
		return nil, fmt.Errorf("resolving crate root: %w", err)
	}

	asm := NewAssembler()
	err = Traverse(host, rootID, func(def analysis.Def) error {
		asm.Add(def)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", crateName, err)
	}

	return asm.Finish(crateName, rootDef.Docs), nil
}

// SerializationError wraps a failure to render the envelope.
type SerializationError struct {
	Err error
}

func (e *SerializationError) Error() string {
	return fmt.Sprintf("serializing documentation: %v", e.Err)
}

func (e *SerializationError) Unwrap() error { return e.Err }

// Marshal renders doc as JSON. Map keys, including relationship buckets, are
// emitted in sorted order, so unchanged input yields identical bytes.
func Marshal(doc *Documentation) ([]byte, error) {
	b, err := json.Marshal(doc)
	if err != nil {
		return nil, &SerializationError{Err: err}
	}
	return b, nil
}

// CreateJSON builds and serializes the documentation for crateName. Nothing
// is returned unless both steps succeed.
func CreateJSON(host analysis.Host, crateName string) (*Documentation, []byte, error) {
	doc, err := Create(host, crateName)
	if err != nil {
		return nil, nil, err
	}
	data, err := Marshal(doc)
	if err != nil {
		return nil, nil, err
	}
	return doc, data, nil
}

// Stats summarises an envelope for logging and the build ledger.
type Stats struct {
	Items   int
	Buckets map[string]int
}

func (d *Documentation) Stats() Stats {
	s := Stats{Items: len(d.Included), Buckets: make(map[string]int)}
	for bucket, rel := range d.Data.Relationships {
		s.Buckets[bucket] = len(rel.Data)
	}
	return s
}
