package jsonapi

import "github.com/jcdickinson/ferrisdoc/internal/analysis"

// ResourceType is the document type of a classified symbol and the
// relationship bucket it is listed under.
type ResourceType struct {
	Type   string
	Bucket string
}

var (
	ModuleResource = ResourceType{Type: "module", Bucket: "modules"}
	StructResource = ResourceType{Type: "struct", Bucket: "structs"}
)

// CrateType is the document type of the envelope's data record.
const CrateType = "crate"

// Classify reports the resource type for kind. Kinds without a resource type
// are left out of the document.
func Classify(kind analysis.DefKind) (ResourceType, bool) {
	switch kind {
	case analysis.Mod:
		return ModuleResource, true
	case analysis.Struct:
		return StructResource, true
	case analysis.Unknown, analysis.Enum, analysis.Union, analysis.Trait, analysis.TraitAlias,
		analysis.Function, analysis.Method, analysis.Field, analysis.Variant, analysis.Const,
		analysis.Static, analysis.TypeAlias, analysis.Macro, analysis.Impl, analysis.Use,
		analysis.AssocConst, analysis.AssocType, analysis.Primitive, analysis.ExternCrate:
		return ResourceType{}, false
	}
	return ResourceType{}, false
}
