package ctypes

// DataType is the closed sum described in spec §3.1. Every concrete type
// below implements it via an unexported marker method, so the compiler
// enforces exhaustive type switches wherever behavior differs per kind
// (spec §9's "inheritance/dispatch in the AST" design note, applied here to
// the type algebra too).
type DataType interface {
	Kind() Kind
	implDataType()
	// String renders the type the way diagnostics in spec §7 expect it,
	// e.g. "signed int", "struct X", "pointer to signed int".
	String() string
}

// Primary is a scalar type (spec §3.1).
type Primary struct {
	Prim    PrimitiveKind
	IsConst bool
}

func (*Primary) Kind() Kind       { return KindPrimary }
func (*Primary) implDataType()    {}
func (p *Primary) String() string { return p.Prim.String() }

// Pointer is `pointee *` (spec §3.1). Pointee is a *Void for `void *`.
type Pointer struct {
	Pointee DataType
	IsConst bool
}

func (*Pointer) Kind() Kind    { return KindPointer }
func (*Pointer) implDataType() {}
func (p *Pointer) String() string {
	return "pointer to " + p.Pointee.String()
}

// Array is `element[Length]` (spec §3.1). Length must already be folded by
// the caller (the Compile-Time Evaluator); ctypes never evaluates expressions.
type Array struct {
	Element DataType
	Length  int64
	IsConst bool
}

func (*Array) Kind() Kind    { return KindArray }
func (*Array) implDataType() {}
func (a *Array) String() string {
	return "array of " + a.Element.String()
}

// Field is one member of a Struct's ordered field list. Type is a
// *StructSelfPointer when the field is a self-referencing pointer.
type Field struct {
	Tag  string
	Type DataType
}

// Struct is a structure type (spec §3.1). Tag is "" for an anonymous struct.
type Struct struct {
	Tag     string
	Fields  []Field
	IsConst bool
}

func (*Struct) Kind() Kind    { return KindStruct }
func (*Struct) implDataType() {}
func (s *Struct) String() string {
	if s.Tag == "" {
		return "struct <anonymous>"
	}
	return "struct " + s.Tag
}

// StructSelfPointer stands for "pointer to the enclosing struct" inside that
// struct's own field list (spec §3.1, §9). EnclosingTag pins down which
// struct it refers to so compatibility checks can conservatively require
// matching tags (spec §9's Open Question).
type StructSelfPointer struct {
	EnclosingTag string
}

func (*StructSelfPointer) Kind() Kind    { return KindStructSelfPointer }
func (*StructSelfPointer) implDataType() {}
func (s *StructSelfPointer) String() string {
	return "pointer to struct " + s.EnclosingTag
}

// EnumMember is one (name, value) pair in an enum's ordered member list.
type EnumMember struct {
	Name  string
	Value int64
}

// Enum is an enum type (spec §3.1); all enums have the representation of
// `signed int` (spec §4.1).
type Enum struct {
	Tag     string
	Members []EnumMember
	IsConst bool
}

func (*Enum) Kind() Kind    { return KindEnum }
func (*Enum) implDataType() {}
func (e *Enum) String() string {
	if e.Tag == "" {
		return "enum <anonymous>"
	}
	return "enum " + e.Tag
}

// Function is a function type (spec §3.1). Return is a *Void for a void
// function; it is never an array (arrays decay before being stored here).
type Function struct {
	Return     DataType
	Parameters []DataType
}

func (*Function) Kind() Kind    { return KindFunction }
func (*Function) implDataType() {}
func (f *Function) String() string {
	return "function returning " + f.Return.String()
}

// Void is the unit type; it appears only as a function return type or as a
// pointer's pointee (spec §3.1).
type Void struct{}

func (*Void) Kind() Kind      { return KindVoid }
func (*Void) implDataType()   {}
func (*Void) String() string { return "void" }
