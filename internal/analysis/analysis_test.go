package analysis_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jcdickinson/ferrisdoc/internal/analysis"
	"github.com/jcdickinson/ferrisdoc/internal/analysis/analysistest"
)

func TestFindRoot(t *testing.T) {
	t.Parallel()

	h := analysistest.NewHost()
	h.AddCrate("other", "")
	want := h.AddCrate("mine", "")

	got, err := analysis.FindRoot(h, "mine")
	if err != nil {
		t.Fatal(err)
	}
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestFindRoot_NotFound(t *testing.T) {
	t.Parallel()

	h := analysistest.NewHost()
	h.AddCrate("other", "")

	_, err := analysis.FindRoot(h, "mine")
	if !analysis.IsCrateNotFound(err) {
		t.Fatalf("expected CrateNotFoundError, got %v", err)
	}
	if err.Error() != "crate mine not found in analysis data" {
		t.Errorf("unexpected message: %s", err)
	}
}

func TestFindRoot_RootsError(t *testing.T) {
	t.Parallel()

	h := analysistest.NewHost()
	h.FailRoots = errors.New("no index")

	_, err := analysis.FindRoot(h, "mine")
	if err == nil || analysis.IsCrateNotFound(err) {
		t.Fatalf("expected a plain error, got %v", err)
	}
}

func TestIsCrateNotFound_Wrapped(t *testing.T) {
	t.Parallel()

	err := fmt.Errorf("building: %w", &analysis.CrateNotFoundError{Name: "x"})
	if !analysis.IsCrateNotFound(err) {
		t.Error("wrapped error not detected")
	}
}

func TestParseDefKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want analysis.DefKind
	}{
		{"module", analysis.Mod},
		{"struct", analysis.Struct},
		{"enum", analysis.Enum},
		{"function", analysis.Function},
		{"struct_field", analysis.Field},
		{"use", analysis.Use},
		{"proc_derive", analysis.Macro},
		{"something_new", analysis.Unknown},
	}
	for _, tt := range tests {
		if got := analysis.ParseDefKind(tt.in); got != tt.want {
			t.Errorf("ParseDefKind(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestDefKindString_RoundTrips(t *testing.T) {
	t.Parallel()

	for k := analysis.Unknown; k <= analysis.ExternCrate; k++ {
		if got := analysis.ParseDefKind(k.String()); got != k {
			t.Errorf("%d: ParseDefKind(%q) = %s", k, k.String(), got)
		}
	}
}
