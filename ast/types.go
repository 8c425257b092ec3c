package ast

// TypeSpec is the parser's syntactic rendering of a type: not yet resolved
// against the symbol table (typedef names unexpanded, struct tags unresolved,
// array sizes still expressions). internal/sema resolves a TypeSpec into a
// ctypes.DataType while descending into a scope.
type TypeSpec interface {
	implTypeSpec()
}

// PrimaryKind enumerates the scalar kinds the parser recognizes directly.
type PrimaryKind int

const (
	PrimaryVoid PrimaryKind = iota
	PrimarySignedChar
	PrimaryUnsignedChar
	PrimarySignedShort
	PrimaryUnsignedShort
	PrimarySignedInt
	PrimaryUnsignedInt
	PrimarySignedLong
	PrimaryUnsignedLong
	PrimaryFloat
	PrimaryDouble
)

// PrimaryTypeSpec names a primary scalar or void, with qualifiers.
type PrimaryTypeSpec struct {
	Kind    PrimaryKind
	IsConst bool
}

func (*PrimaryTypeSpec) implTypeSpec() {}

// PointerTypeSpec is `T *`.
type PointerTypeSpec struct {
	Pointee TypeSpec
	IsConst bool
}

func (*PointerTypeSpec) implTypeSpec() {}

// ArrayTypeSpec is `T[N]`; NumElements is nil for an incomplete array type
// (e.g. `extern int a[];`).
type ArrayTypeSpec struct {
	Element     TypeSpec
	NumElements Expression
	IsConst     bool
}

func (*ArrayTypeSpec) implTypeSpec() {}

// StructFieldSpec is one field in a struct's parsed field list.
type StructFieldSpec struct {
	Name string
	Type TypeSpec // may be *StructSelfSpec
}

// StructSelfSpec stands for "pointer to the enclosing struct" inside a
// struct's own field list (see spec §3.1, §9).
type StructSelfSpec struct{}

func (*StructSelfSpec) implTypeSpec() {}

// StructTypeSpec is `struct tag { ... }` or a bare `struct tag` reference.
// Fields is nil for a bare reference to a tag declared elsewhere.
type StructTypeSpec struct {
	Tag     string // "" for anonymous
	Fields  []StructFieldSpec
	IsConst bool
}

func (*StructTypeSpec) implTypeSpec() {}

// EnumTypeSpec is `enum tag` (members are carried by an EnumDeclaration, not here).
type EnumTypeSpec struct {
	Tag string
}

func (*EnumTypeSpec) implTypeSpec() {}

// FunctionTypeSpec is a function type, used for function pointers and prototypes.
type FunctionTypeSpec struct {
	Return TypeSpec
	Params []TypeSpec
}

func (*FunctionTypeSpec) implTypeSpec() {}

// TypedefNameSpec references a name previously bound by `typedef`.
type TypedefNameSpec struct {
	Name string
}

func (*TypedefNameSpec) implTypeSpec() {}
