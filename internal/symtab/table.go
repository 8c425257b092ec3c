// Package symtab implements the Symbol Table (spec §4.3): a stack of lexical
// scopes with two namespaces (ordinary identifiers and struct/enum tags),
// local-frame offset allocation, and the single append-only data-segment
// byte accumulator shared by the whole translation unit.
//
// Grounded on the teacher's own layered-state pattern (transcoder/internal/layout
// threads an accumulating offset through field processing); generalized here
// to a full scope stack since the domain needs lexical nesting the teacher's
// flat ABI layout never did.
package symtab

import (
	"errors"
	"fmt"

	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

// Table is the Processor's single symbol table instance. Per spec §5 it is
// not reentrant: one Table serves exactly one Process call.
type Table struct {
	current *scope

	dataSegment []byte

	// frameCursor is the running magnitude of the current function's local
	// frame; reset to 0 by ResetFrame at the start of each function
	// definition. AllocateLocal grows it downward (spec §4.3: "returns a
	// negative offset... locals pack downward").
	frameCursor int

	// paramCursor is the running offset of the current function's parameter
	// area, reset to 0 alongside frameCursor. Parameters grow toward high
	// addresses starting from the frame pointer (spec §4.6), the opposite
	// direction from locals.
	paramCursor int
}

// New returns a Table with a single root (file) scope.
func New() *Table {
	return &Table{current: newScope(nil)}
}

// PushScope opens a nested lexical scope.
func (t *Table) PushScope() {
	t.current = newScope(t.current)
}

// PopScope closes the innermost lexical scope. Popping the root scope is a
// programmer error (the Processor always balances push/pop), so it panics
// rather than returning an error a caller could silently ignore.
func (t *Table) PopScope() {
	if t.current.parent == nil {
		panic("symtab: PopScope called on root scope")
	}
	t.current = t.current.parent
}

// Lookup resolves an ordinary identifier (variable, function, typedef,
// enumerator), walking outward through enclosing scopes.
func (t *Table) Lookup(name string) (*Entry, bool) {
	return t.current.lookup(name)
}

// LookupTag resolves a struct/enum tag, walking outward through enclosing
// scopes. Tags live in a namespace separate from Lookup.
func (t *Table) LookupTag(name string) (*Entry, bool) {
	return t.current.lookupTag(name)
}

// HasSymbol reports whether name is bound anywhere in the visible scope
// chain.
func (t *Table) HasSymbol(name string) bool {
	_, ok := t.current.lookup(name)
	return ok
}

// ErrUndeclared is a sentinel for an undeclared name. No function in this
// package returns it; Undeclared builds the "'x' undeclared" message as a
// separate error that does not wrap it.
var ErrUndeclared = errors.New("undeclared")

// Undeclared renders the canonical "'x' undeclared" message.
func Undeclared(name string) error {
	return fmt.Errorf("'%s' undeclared", name)
}

// AddVariable binds name as a local or data-segment variable in the current
// scope. Identical variable redeclaration in the same scope is an error;
// rebinding to an incompatible kind is an error (spec §4.3).
func (t *Table) AddVariable(name string, kind EntryKind, dt ctypes.DataType, offset int) (*Entry, error) {
	if existing, ok := t.current.lookupLocal(name); ok {
		return nil, redeclarationError(name, existing, kind)
	}
	e := &Entry{Kind: kind, Type: dt, Offset: offset}
	t.current.symbols[name] = e
	return e, nil
}

// AddParameter binds a function parameter name, using the canonical
// "redefinition of parameter 'x'" phrasing on collision within one list
// (spec §4.3, §7).
func (t *Table) AddParameter(name string, dt ctypes.DataType, offset int) (*Entry, error) {
	if _, ok := t.current.lookupLocal(name); ok {
		return nil, fmt.Errorf("redefinition of parameter '%s'", name)
	}
	e := &Entry{Kind: EntryLocalVariable, Type: dt, Offset: offset}
	t.current.symbols[name] = e
	return e, nil
}

// AddTypedef binds name as a typedef in the current scope.
func (t *Table) AddTypedef(name string, dt ctypes.DataType) (*Entry, error) {
	if existing, ok := t.current.lookupLocal(name); ok {
		return nil, redeclarationError(name, existing, EntryTypedef)
	}
	e := &Entry{Kind: EntryTypedef, Type: dt}
	t.current.symbols[name] = e
	return e, nil
}

// AddEnumerator binds name as an enum member with its constant value.
func (t *Table) AddEnumerator(name string, dt ctypes.DataType, value int64) (*Entry, error) {
	if existing, ok := t.current.lookupLocal(name); ok {
		return nil, redeclarationError(name, existing, EntryEnumerator)
	}
	e := &Entry{Kind: EntryEnumerator, Type: dt, EnumValue: value}
	t.current.symbols[name] = e
	return e, nil
}

// AddFunction binds or re-binds name as a function. A compatible
// redeclaration (same signature, at most one body) is permitted; anything
// else is an error (spec §4.3).
func (t *Table) AddFunction(name string, dt *ctypes.Function, hasBody bool) (*Entry, error) {
	if existing, ok := t.current.lookupLocal(name); ok {
		if existing.Kind != EntryFunction {
			return nil, redeclarationError(name, existing, EntryFunction)
		}
		if !ctypes.IsCompatible(existing.Type, dt, true) {
			return nil, fmt.Errorf("redeclaration of '%s'", name)
		}
		if hasBody && existing.FunctionDefined {
			return nil, fmt.Errorf("redeclaration of '%s'", name)
		}
		if hasBody {
			existing.FunctionDefined = true
			existing.Type = dt
		}
		return existing, nil
	}
	e := &Entry{Kind: EntryFunction, Type: dt, FunctionDefined: hasBody}
	t.current.symbols[name] = e
	return e, nil
}

// redeclarationError renders spec §7's "redeclaration of 'x'" phrasing,
// used uniformly whether the clash is same-kind (identical variable
// redeclaration) or cross-kind (variable vs typedef vs function vs enumerator).
func redeclarationError(name string, existing *Entry, newKind EntryKind) error {
	return fmt.Errorf("redeclaration of '%s'", name)
}

// TagKind is the kind of a tag binding: struct or enum.
type TagKind int

const (
	TagStruct TagKind = iota
	TagEnum
)

// AddTag binds a struct or enum tag, implementing spec §4.3's tag
// redefinition policy: redefining the same kind of tag in one scope is
// "redefinition of 'kind tag'"; redefining it as the other kind is
// "redefinition of 'X' as wrong kind of tag".
func (t *Table) AddTag(name string, kind TagKind, dt ctypes.DataType) (*Entry, error) {
	if existing, ok := t.current.lookupTagLocal(name); ok {
		existingKind := tagKindOf(existing.Type)
		if existingKind != kind {
			return nil, fmt.Errorf("redefinition of '%s' as wrong kind of tag", name)
		}
		return nil, fmt.Errorf("redefinition of '%s %s'", tagKindWord(kind), name)
	}
	e := &Entry{Kind: EntryTag, Type: dt}
	t.current.tags[name] = e
	return e, nil
}

func tagKindOf(dt ctypes.DataType) TagKind {
	if dt.Kind() == ctypes.KindEnum {
		return TagEnum
	}
	return TagStruct
}

func tagKindWord(k TagKind) string {
	if k == TagEnum {
		return "enum"
	}
	return "struct"
}

// ResetFrame begins a new function's local frame, returning the Table to a
// clean cursor. Call it before processing a function definition's body.
func (t *Table) ResetFrame() {
	t.frameCursor = 0
	t.paramCursor = 0
}

// SizeOfLocals reports the current function's accumulated local size; call
// after the body has been fully processed (spec §8's "Local frame size"
// property).
func (t *Table) SizeOfLocals() int {
	return t.frameCursor
}

// AllocateLocal reserves size bytes in the current function's frame,
// returning a negative offset (spec §4.3: locals pack downward from the
// frame pointer, alignment 1).
func (t *Table) AllocateLocal(size int) int {
	t.frameCursor += size
	return -t.frameCursor
}

// AllocateParameter reserves size bytes in the current function's parameter
// area, returning a non-negative offset from the frame pointer (spec §4.6:
// "parameters grow toward high addresses starting from the frame pointer").
func (t *Table) AllocateParameter(size int) int {
	offset := t.paramCursor
	t.paramCursor += size
	return offset
}

// AllocateDataSegment appends initBytes to the data segment and returns the
// absolute offset it was written at (spec §4.3, §9: "append-only byte
// string and a monotonically increasing offset; no back-patching").
func (t *Table) AllocateDataSegment(initBytes []byte) int {
	offset := len(t.dataSegment)
	t.dataSegment = append(t.dataSegment, initBytes...)
	return offset
}

// DataSegment returns the accumulated data-segment bytes.
func (t *Table) DataSegment() []byte {
	return t.dataSegment
}
