// Package cerr implements the single ProcessingError category described in
// spec §7: every error is fatal, carries a human-readable canonical message
// (the exact phrasings in §7's table, because the test suite asserts on
// them), and an optional source position.
//
// The shape is grounded on the teacher's errors.Error/errors.Builder
// (phase + kind + detail + cause), but Error() renders only the canonical
// detail string plus a position suffix — Phase and Kind stay available for
// programmatic triage without leaking into the rendered message.
package cerr

import (
	"fmt"

	"github.com/MrShadowKiller/c-slang/ast"
)

// Phase records which component raised the error.
type Phase string

const (
	PhaseTypes     Phase = "types"
	PhaseConst     Phase = "consteval"
	PhaseSymtab    Phase = "symtab"
	PhaseInit      Phase = "initializer"
	PhaseExpr      Phase = "expression"
	PhaseStmt      Phase = "statement"
	PhaseDriver    Phase = "driver"
)

// Kind categorizes the error per spec §7's taxonomy table.
type Kind string

const (
	KindRedeclaration Kind = "redeclaration"
	KindUndeclared    Kind = "undeclared"
	KindArgCount      Kind = "argument_count"
	KindArgType       Kind = "argument_type"
	KindOperandType   Kind = "operand_type"
	KindLvalue        Kind = "lvalue"
	KindSizeof        Kind = "sizeof"
	KindMember        Kind = "member"
	KindInitializer   Kind = "initializer"
	KindDeclaration   Kind = "declaration"
	KindStatement     Kind = "statement"
	KindTopLevel      Kind = "top_level"
)

// ProcessingError is the single fatal error category of spec §7.
type ProcessingError struct {
	Phase    Phase
	Kind     Kind
	Message  string // the exact canonical phrasing
	Position *ast.Position
	Cause    error
}

func (e *ProcessingError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("%s at %d:%d", e.Message, e.Position.Start.Line, e.Position.Start.Column)
	}
	return e.Message
}

func (e *ProcessingError) Unwrap() error { return e.Cause }

// New constructs a ProcessingError with the given canonical message.
func New(phase Phase, kind Kind, message string) *ProcessingError {
	return &ProcessingError{Phase: phase, Kind: kind, Message: message}
}

// Newf is New with fmt.Sprintf-style formatting of the canonical message.
func Newf(phase Phase, kind Kind, format string, args ...any) *ProcessingError {
	return New(phase, kind, fmt.Sprintf(format, args...))
}

// At attaches a source position to err, producing a ProcessingError. If err
// is already a *ProcessingError, its position is set (first attachment
// wins, matching spec §7's "attached at the nearest catch point where the
// current AST node is known"); otherwise a new KindStatement error wraps it.
func At(pos ast.Position, err error) *ProcessingError {
	if pe, ok := err.(*ProcessingError); ok {
		if pe.Position == nil {
			p := pos
			pe.Position = &p
		}
		return pe
	}
	p := pos
	return &ProcessingError{Phase: PhaseDriver, Kind: KindStatement, Message: err.Error(), Position: &p, Cause: err}
}

// Warning is a non-fatal diagnostic collected alongside the IR (spec §7).
type Warning struct {
	Message  string
	Position *ast.Position
}

func (w Warning) String() string {
	if w.Position != nil {
		return fmt.Sprintf("%s at %d:%d", w.Message, w.Position.Start.Line, w.Position.Start.Column)
	}
	return w.Message
}
