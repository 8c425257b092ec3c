// Package ast defines the parsed C abstract syntax tree consumed by the
// semantic analyzer. The tokenizer/parser that produces these nodes is an
// external collaborator (see c-slang's spec §6) — this package only pins
// down the shape the Processor depends on.
package ast

// Position locates a node in the original source for diagnostics.
type Position struct {
	Start Loc
	End   Loc
}

// Loc is a single point in the source text.
type Loc struct {
	Line   int
	Column int
}

// ModuleName identifies an included runtime-imports module (see modules.Repository).
type ModuleName string

// Root is the parser's output: one translation unit.
type Root struct {
	IncludedModules []ModuleName
	Children        []TopLevel
}

// TopLevel is implemented by FunctionDefinition, Declaration and EnumDeclaration.
type TopLevel interface {
	implTopLevel()
	Pos() Position
}

// StorageClass is the (at most one) storage-class specifier on a declaration.
type StorageClass int

const (
	StorageNone StorageClass = iota
	StorageStatic
	StorageExtern
	StorageTypedef
)

// Declarator names one declared identifier and its derived type within a Declaration.
type Declarator struct {
	Name        string
	Type        TypeSpec
	Initializer Initializer // nil if none
	Position    Position
}

// Declaration is a (possibly multi-declarator) declaration: variables, typedefs,
// struct/union tags without a variable, function prototypes.
type Declaration struct {
	Storage     StorageClass
	Declarators []Declarator
	Position    Position
}

func (*Declaration) implTopLevel()     {}
func (d *Declaration) Pos() Position   { return d.Position }

// EnumDeclaration introduces (or redefines) an enum tag and its enumerators.
type EnumDeclaration struct {
	Tag      string // "" if anonymous
	Members  []EnumMember
	Position Position
}

// EnumMember is one `name` or `name = expr` inside an enum body.
type EnumMember struct {
	Name  string
	Value Expression // nil if implicit (previous + 1, or 0 for the first)
}

func (*EnumDeclaration) implTopLevel()   {}
func (e *EnumDeclaration) Pos() Position { return e.Position }

// Param is one parameter in a function's prototype or definition.
type Param struct {
	Name string // "" permitted in prototypes
	Type TypeSpec
}

// FunctionDefinition is a function with a body (as opposed to a prototype-only Declaration).
type FunctionDefinition struct {
	Name       string
	ReturnType TypeSpec
	Params     []Param
	Body       []Statement
	Position   Position
}

func (*FunctionDefinition) implTopLevel()   {}
func (f *FunctionDefinition) Pos() Position { return f.Position }
