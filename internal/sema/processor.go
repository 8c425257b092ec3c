// Package sema implements the Expression Processor and the Statement /
// Function Processor (spec §4.5, §4.6): the bulk of the Processor, wired on
// top of internal/ctypes, internal/consteval, internal/symtab and
// internal/initpack.
//
// The Processor is represented as a single stateful object threaded through
// every statement/expression call (spec §9's "mutable per-function
// counters" design note), the same shape the teacher's engine.Engine uses
// to carry mutable runtime state through a call chain.
package sema

import (
	"fmt"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/cerr"
	"github.com/MrShadowKiller/c-slang/internal/consteval"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/internal/symtab"
	"github.com/MrShadowKiller/c-slang/ir"
	"github.com/MrShadowKiller/c-slang/modules"
)

// Processor holds all mutable state for one translation unit (spec §5:
// "Reentrancy is not supported: a second invocation must use a fresh
// Processor instance").
type Processor struct {
	Table *symtab.Table
	Repo  *modules.Repository

	includedModules []string
	externalFuncs   map[string]ir.ExternalFunction

	functionTable      []string
	functionTableIndex map[string]int

	// currentReturnType is the enclosing function's declared return type,
	// consulted by ReturnStmt processing.
	currentReturnType ctypes.DataType

	// loopOrSwitchDepth / loopDepth gate break/continue validity (spec §4.6).
	loopOrSwitchDepth int
	loopDepth         int

	// stmts accumulates the statement list the Expression Processor emits
	// side-effecting nodes into (function calls, compound assignments to
	// struct lvalues, the lowering of ternary and short-circuit operators).
	// The Statement Processor swaps it out per block/branch via withStatements.
	stmts []ir.StatementP

	// Functions accumulates each processed function definition in source order.
	Functions []*ir.FunctionDefinitionP

	Warnings []cerr.Warning
}

// New returns a Processor ready to process one ast.Root.
func New(repo *modules.Repository, includedModules []ast.ModuleName) *Processor {
	mods := make([]string, len(includedModules))
	for i, m := range includedModules {
		mods[i] = string(m)
	}
	return &Processor{
		Table:               symtab.New(),
		Repo:                repo,
		includedModules:     mods,
		externalFuncs:       make(map[string]ir.ExternalFunction),
		functionTableIndex:  make(map[string]int),
	}
}

// warn records a non-fatal diagnostic (spec §7: "Warnings... are collected
// and returned alongside the IR; they do not abort processing").
func (p *Processor) warn(pos ast.Position, message string) {
	at := pos
	p.Warnings = append(p.Warnings, cerr.Warning{Message: message, Position: &at})
}

// FunctionTable returns the ordered list of functions referenced by name
// during processing (direct callees included), ready for ir.Root assembly.
func (p *Processor) FunctionTable() []string {
	return p.functionTable
}

// functionTableIndexFor returns the stable index of name in the function
// table, registering it on first reference (spec §6: "functionTable is an
// ordered list of functions whose address was taken... establishing stable
// indices for indirect calls").
func (p *Processor) functionTableIndexFor(name string) int {
	if idx, ok := p.functionTableIndex[name]; ok {
		return idx
	}
	idx := len(p.functionTable)
	p.functionTable = append(p.functionTable, name)
	p.functionTableIndex[name] = idx
	return idx
}

// --- consteval.Env ---

func (p *Processor) Enumerator(name string) (int64, bool) {
	e, ok := p.Table.Lookup(name)
	if !ok || e.Kind != symtab.EntryEnumerator {
		return 0, false
	}
	return e.EnumValue, true
}

func (p *Processor) DataSegmentVariable(name string) (int, ctypes.DataType, bool) {
	e, ok := p.Table.Lookup(name)
	if !ok || e.Kind != symtab.EntryDataSegmentVariable {
		return 0, nil, false
	}
	return e.Offset, e.Type, true
}

func (p *Processor) SizeofType(t ast.TypeSpec) (int, error) {
	dt, err := p.ResolveType(t)
	if err != nil {
		return 0, err
	}
	return sizeofChecked(dt)
}

func (p *Processor) SizeofExpr(e ast.Expression) (int, error) {
	wrapper, err := p.ProcessExpression(e)
	if err != nil {
		return 0, err
	}
	return sizeofChecked(wrapper.OriginalDataType)
}

func sizeofChecked(dt ctypes.DataType) (int, error) {
	if _, ok := dt.(*ctypes.Function); ok {
		return 0, cerr.New(cerr.PhaseExpr, cerr.KindSizeof, "invalid application of 'sizeof' to function type")
	}
	if st, ok := dt.(*ctypes.Struct); ok && st.Fields == nil {
		return 0, cerr.New(cerr.PhaseExpr, cerr.KindSizeof, "invalid application of 'sizeof' to incomplete type")
	}
	if arr, ok := dt.(*ctypes.Array); ok && arr.Length == 0 {
		return 0, cerr.New(cerr.PhaseExpr, cerr.KindSizeof, "invalid application of 'sizeof' to incomplete type")
	}
	return ctypes.Size(dt)
}

// emit appends s to the statement list currently being built — the
// enclosing block, loop body, or switch arm the Statement Processor is
// assembling, or a branch captured by withStatements.
func (p *Processor) emit(s ir.StatementP) {
	p.stmts = append(p.stmts, s)
}

// withStatements runs fn against a fresh statement accumulator and returns
// everything it emitted, restoring the previous accumulator afterward. Used
// wherever a side effect must be captured rather than flushed unconditionally
// — a ternary or short-circuit operand, a block, a loop body — since naively
// appending to the enclosing list would run the side effect even when control
// flow skips that branch.
func (p *Processor) withStatements(fn func() error) ([]ir.StatementP, error) {
	saved := p.stmts
	p.stmts = nil
	err := fn()
	result := p.stmts
	p.stmts = saved
	return result, err
}

// Eval folds a compile-time constant, the entry point internal/initpack uses.
func (p *Processor) Eval(e ast.Expression) (consteval.Constant, error) {
	return consteval.Eval(e, p)
}

// IsNullPointerConstant reports whether e is an integer constant expression
// with value 0, usable as a null-pointer constant (GLOSSARY).
func (p *Processor) IsNullPointerConstant(e ast.Expression) bool {
	c, err := consteval.Eval(e, p)
	return err == nil && c.IsZero()
}

func undeclared(pos ast.Position, name string) error {
	return cerr.At(pos, cerr.New(cerr.PhaseExpr, cerr.KindUndeclared, fmt.Sprintf("'%s' undeclared", name)))
}
