// Package ir defines the Processor's output tree (spec §3.3): a typed,
// memory-addressed lowering of the input AST ready for a WebAssembly code
// generator. Every sum type here is closed and dispatched by exhaustive type
// switch, the same pattern the input ast package uses — grounded on
// raymyers-ralph-cc-go's csharpminor ast.go, the clearest example in the
// corpus of a Go IR built this way for a C-like language.
package ir

import "github.com/MrShadowKiller/c-slang/internal/ctypes"

// Root is the whole processed translation unit.
type Root struct {
	Functions []*FunctionDefinitionP

	// DataSegmentByteStr is the `\XX`-per-byte-encoded (two hex digits,
	// little-endian per scalar) initial contents of the data segment.
	DataSegmentByteStr     string
	DataSegmentSizeInBytes int

	// ExternalFunctions holds the signatures recognized from the Module
	// Repository, copied here so the code generator can emit imports.
	ExternalFunctions map[string]ExternalFunction

	// FunctionTable lists, in order of first reference, every function named
	// in an expression, a call's callee included. Its indices are stable and
	// are what Address{Space: FunctionTableAddress} refers to.
	FunctionTable []string
}

// ExternalFunction is a recognized module function signature, copied from
// the Module Repository (spec §6).
type ExternalFunction struct {
	ModuleName string
	Name       string
	Type       *ctypes.Function
}

// ParamLayout is one parameter's slot in a function's frame; a struct
// parameter occupies a single slot of the whole struct's type and size.
type ParamLayout struct {
	Offset int
	Type   ctypes.DataType
}

// FunctionDefinitionP is a processed function body.
type FunctionDefinitionP struct {
	Name         string
	Parameters   []ParamLayout
	ReturnType   ctypes.DataType
	SizeOfLocals int
	Body         []StatementP
}

// ExpressionWrapperP is the public shape returned for any processed
// expression (spec §4.5): the source-level type before decay/conversion
// bookkeeping, and the flattened sequence of scalar IR expressions that
// realize it (length 1 for scalars, one element per primary field in
// layout order for a struct value).
type ExpressionWrapperP struct {
	OriginalDataType ctypes.DataType
	Exprs            []ExpressionP
}
