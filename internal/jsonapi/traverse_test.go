package jsonapi

import (
	"errors"
	"testing"

	"github.com/jcdickinson/ferrisdoc/internal/analysis"
	"github.com/jcdickinson/ferrisdoc/internal/analysis/analysistest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func collect(t *testing.T, h analysis.Host, root analysis.ID) []string {
	t.Helper()
	var visited []string
	err := Traverse(h, root, func(def analysis.Def) error {
		visited = append(visited, def.QualName)
		return nil
	})
	require.NoError(t, err)
	return visited
}

func TestTraverse_BreadthFirst(t *testing.T) {
	t.Parallel()

	h := analysistest.NewHost()
	root := h.AddCrate("c", "")
	a := h.Add(root, analysis.Mod, "a", "a", "")
	b := h.Add(root, analysis.Mod, "b", "b", "")
	h.Add(a, analysis.Struct, "a::A1", "A1", "")
	aa := h.Add(a, analysis.Mod, "a::inner", "inner", "")
	h.Add(b, analysis.Struct, "b::B1", "B1", "")
	h.Add(aa, analysis.Struct, "a::inner::Deep", "Deep", "")

	assert.Equal(t, []string{"a", "b", "a::A1", "a::inner", "b::B1", "a::inner::Deep"}, collect(t, h, root))
}

func TestTraverse_RootNotVisited(t *testing.T) {
	t.Parallel()

	h := analysistest.NewHost()
	root := h.AddCrate("c", "")
	h.Add(root, analysis.Struct, "S", "S", "")

	assert.Equal(t, []string{"S"}, collect(t, h, root))
	assert.Zero(t, h.DefCalls[root])
}

func TestTraverse_OneQueryOfEachKindPerNode(t *testing.T) {
	t.Parallel()

	h := demoHost()
	collect(t, h, "root:demo")

	for _, id := range []analysis.ID{"a", "a::X", "a::Y"} {
		assert.Equal(t, 1, h.ChildCalls[id], "children of %s", id)
		assert.Equal(t, 1, h.DefCalls[id], "metadata of %s", id)
	}
}

func TestTraverse_SharedChildVisitedOnce(t *testing.T) {
	t.Parallel()

	h := analysistest.NewHost()
	root := h.AddCrate("c", "")
	a := h.Add(root, analysis.Mod, "a", "a", "")
	b := h.Add(root, analysis.Mod, "b", "b", "")
	shared := h.Add(a, analysis.Struct, "a::Shared", "Shared", "")
	h.Link(b, shared)

	assert.Equal(t, []string{"a", "b", "a::Shared"}, collect(t, h, root))
}

func TestTraverse_CycleTerminates(t *testing.T) {
	t.Parallel()

	h := analysistest.NewHost()
	root := h.AddCrate("c", "")
	a := h.Add(root, analysis.Mod, "a", "a", "")
	b := h.Add(a, analysis.Mod, "a::b", "b", "")
	h.Link(b, a)
	h.Link(b, root)

	assert.Equal(t, []string{"a", "a::b"}, collect(t, h, root))
}

func TestTraverse_RootEnumerationFailure(t *testing.T) {
	t.Parallel()

	h := analysistest.NewHost()
	root := h.AddCrate("c", "")
	h.FailChildren[root] = errors.New("broken")

	called := false
	err := Traverse(h, root, func(analysis.Def) error {
		called = true
		return nil
	})
	require.Error(t, err)
	assert.False(t, called)
}

func TestTraverse_VisitErrorStops(t *testing.T) {
	t.Parallel()

	h := demoHost()
	stop := errors.New("stop")
	var seen []string
	err := Traverse(h, "root:demo", func(def analysis.Def) error {
		seen = append(seen, def.QualName)
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, []string{"a"}, seen)
}

func TestClassify(t *testing.T) {
	t.Parallel()

	rt, ok := Classify(analysis.Mod)
	assert.True(t, ok)
	assert.Equal(t, ResourceType{Type: "module", Bucket: "modules"}, rt)

	rt, ok = Classify(analysis.Struct)
	assert.True(t, ok)
	assert.Equal(t, ResourceType{Type: "struct", Bucket: "structs"}, rt)

	for _, k := range []analysis.DefKind{analysis.Unknown, analysis.Enum, analysis.Trait, analysis.Function, analysis.Impl, analysis.Use} {
		_, ok := Classify(k)
		assert.False(t, ok, "%s should not be classified", k)
	}
}
