package jsonapi

import (
	"errors"
	"fmt"

	"github.com/jcdickinson/ferrisdoc/internal/analysis"
)

// Traverse walks the graph below root breadth-first and calls visit with the
// metadata of every reachable symbol. The root itself is not visited.
//
// Each step dequeues an ID, enqueues its children, then resolves and visits
// it. An ID is enqueued at most once per walk, so shared children and cycles
// are visited a single time. Any error from host or visit stops the walk.
func Traverse(host analysis.Host, root analysis.ID, visit func(analysis.Def) error) error {
	seeds, err := host.ChildDefs(root)
	if err != nil {
		return enumerationErr(root, err)
	}

	seen := map[analysis.ID]bool{root: true}
	var queue []analysis.ID
	enqueue := func(ids []analysis.ID) {
		for _, id := range ids {
			if seen[id] {
				continue
			}
			seen[id] = true
			queue = append(queue, id)
		}
	}
	enqueue(seeds)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		children, err := host.ChildDefs(id)
		if err != nil {
			return enumerationErr(id, err)
		}
		enqueue(children)

		def, err := host.GetDef(id)
		if err != nil {
			var re *analysis.ResolutionError
			if errors.As(err, &re) {
				return err
			}
			return &analysis.ResolutionError{ID: id, Err: err}
		}
		if err := visit(def); err != nil {
			return fmt.Errorf("visiting %s: %w", def.QualName, err)
		}
	}
	return nil
}

func enumerationErr(id analysis.ID, err error) error {
	var ee *analysis.EnumerationError
	if errors.As(err, &ee) {
		return err
	}
	return &analysis.EnumerationError{ID: id, Err: err}
}
