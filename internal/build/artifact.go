package build

import (
	"fmt"
	"strings"
)

// Artifact is one kind of output a build can produce.
type Artifact string

const (
	Assets Artifact = "assets"
	JSON   Artifact = "json"
)

// AllArtifacts lists every artifact in build order.
var AllArtifacts = []Artifact{Assets, JSON}

// ParseArtifacts validates --emit values and returns them in build order.
// Values may be comma separated; no values selects every artifact.
func ParseArtifacts(values []string) ([]Artifact, error) {
	if len(values) == 0 {
		return AllArtifacts, nil
	}

	want := make(map[Artifact]bool)
	for _, v := range values {
		for _, name := range strings.Split(v, ",") {
			name = strings.TrimSpace(name)
			if name == "" {
				continue
			}
			a := Artifact(name)
			if !a.valid() {
				return nil, fmt.Errorf("unknown artifact %q (valid: %s)", name, joinArtifacts(AllArtifacts))
			}
			want[a] = true
		}
	}
	if len(want) == 0 {
		return AllArtifacts, nil
	}

	var out []Artifact
	for _, a := range AllArtifacts {
		if want[a] {
			out = append(out, a)
		}
	}
	return out, nil
}

func (a Artifact) valid() bool {
	for _, known := range AllArtifacts {
		if a == known {
			return true
		}
	}
	return false
}

func joinArtifacts(as []Artifact) string {
	names := make([]string, len(as))
	for i, a := range as {
		names[i] = string(a)
	}
	return strings.Join(names, ",")
}
