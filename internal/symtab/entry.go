package symtab

import "github.com/MrShadowKiller/c-slang/internal/ctypes"

// EntryKind discriminates what an identifier or tag is bound to (spec §4.3).
type EntryKind int

const (
	EntryLocalVariable EntryKind = iota
	EntryDataSegmentVariable
	EntryFunction
	EntryTypedef
	EntryEnumerator
	EntryTag
)

func (k EntryKind) String() string {
	switch k {
	case EntryLocalVariable:
		return "variable"
	case EntryDataSegmentVariable:
		return "variable"
	case EntryFunction:
		return "function"
	case EntryTypedef:
		return "typedef"
	case EntryEnumerator:
		return "enumerator"
	case EntryTag:
		return "tag"
	default:
		return "unknown"
	}
}

// Entry is a single binding in a Scope. Which fields are meaningful depends
// on Kind: Offset for the two variable kinds, FunctionDefined for functions
// (tracks whether a body has already been seen, to detect body-vs-body
// redefinition), EnumValue for enumerators.
type Entry struct {
	Kind           EntryKind
	Type           ctypes.DataType
	Offset         int
	FunctionDefined bool
	EnumValue      int64
}

func (e *Entry) isVariable() bool {
	return e.Kind == EntryLocalVariable || e.Kind == EntryDataSegmentVariable
}
