package analysis

// DefKind is the closed vocabulary of symbol kinds.
type DefKind int

const (
	Unknown DefKind = iota
	Mod
	Struct
	Enum
	Union
	Trait
	TraitAlias
	Function
	Method
	Field
	Variant
	Const
	Static
	TypeAlias
	Macro
	Impl
	Use
	AssocConst
	AssocType
	Primitive
	ExternCrate
)

var kindNames = [...]string{
	Unknown:     "unknown",
	Mod:         "module",
	Struct:      "struct",
	Enum:        "enum",
	Union:       "union",
	Trait:       "trait",
	TraitAlias:  "trait_alias",
	Function:    "function",
	Method:      "method",
	Field:       "struct_field",
	Variant:     "variant",
	Const:       "constant",
	Static:      "static",
	TypeAlias:   "type_alias",
	Macro:       "macro",
	Impl:        "impl",
	Use:         "use",
	AssocConst:  "assoc_const",
	AssocType:   "assoc_type",
	Primitive:   "primitive",
	ExternCrate: "extern_crate",
}

func (k DefKind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return kindNames[Unknown]
	}
	return kindNames[k]
}

// ParseDefKind maps rustdoc kind strings, from either the "paths" table or
// the single key of an item's "inner" object, to a DefKind.
func ParseDefKind(s string) DefKind {
	switch s {
	case "module", "mod":
		return Mod
	case "struct":
		return Struct
	case "enum":
		return Enum
	case "union":
		return Union
	case "trait":
		return Trait
	case "trait_alias":
		return TraitAlias
	case "function":
		return Function
	case "method", "tymethod":
		return Method
	case "struct_field", "field":
		return Field
	case "variant":
		return Variant
	case "constant", "const":
		return Const
	case "static":
		return Static
	case "type_alias", "typedef":
		return TypeAlias
	case "macro", "proc_macro", "proc_attribute", "proc_derive":
		return Macro
	case "impl":
		return Impl
	case "use", "import":
		return Use
	case "assoc_const":
		return AssocConst
	case "assoc_type":
		return AssocType
	case "primitive":
		return Primitive
	case "extern_crate":
		return ExternCrate
	default:
		return Unknown
	}
}
