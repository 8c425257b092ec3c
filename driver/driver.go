// Package driver implements the Driver (spec §2 item 7, §4.6's tail, §7's
// Top-level error class): it walks an ast.Root's children in source order,
// dispatching each to the Statement/Function Processor, then verifies a
// main function was defined and assembles the finished ir.Root.
//
// Grounded on the teacher's engine.Engine.Run, which threads a single
// stateful object through a fixed sequence of phases and reports the first
// fatal error rather than attempting any recovery.
package driver

import (
	"fmt"
	"strings"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/cerr"
	"github.com/MrShadowKiller/c-slang/internal/diag"
	"github.com/MrShadowKiller/c-slang/internal/sema"
	"github.com/MrShadowKiller/c-slang/internal/symtab"
	"github.com/MrShadowKiller/c-slang/ir"
	"github.com/MrShadowKiller/c-slang/modules"
)

// Result is everything Process produces for a successful run: the IR plus
// any warnings collected along the way (spec §7: "Warnings... are collected
// and returned alongside the IR; they do not abort processing").
type Result struct {
	Root     *ir.Root
	Warnings []cerr.Warning
}

// Process runs the whole Processor over one translation unit: every
// top-level construct in root.Children, in source order, then the
// "main presence" check (spec §8), then IR assembly. The first error from
// any construct is fatal and is returned immediately with no partial IR
// (spec §7: "every error is fatal... no recovery, no partial IR").
func Process(root *ast.Root, repo *modules.Repository) (*Result, error) {
	p := sema.New(repo, root.IncludedModules)

	for _, child := range root.Children {
		if err := p.ProcessTopLevel(child); err != nil {
			diag.Debugf("driver: fatal error processing top-level construct: %v", err)
			return nil, err
		}
	}

	if !hasMain(p) {
		return nil, cerr.New(cerr.PhaseDriver, cerr.KindTopLevel, "main function not defined")
	}

	out := &ir.Root{
		Functions:              p.Functions,
		DataSegmentByteStr:     encodeDataSegment(p.Table.DataSegment()),
		DataSegmentSizeInBytes: len(p.Table.DataSegment()),
		ExternalFunctions:      p.ExternalFunctions(),
		FunctionTable:          p.FunctionTable(),
	}

	diag.Debugf("driver: processed %d function(s), %d byte(s) of data segment, %d external import(s)",
		len(out.Functions), out.DataSegmentSizeInBytes, len(out.ExternalFunctions))

	return &Result{Root: out, Warnings: p.Warnings}, nil
}

// hasMain reports whether a function named main was defined (not merely
// prototyped) somewhere in the translation unit (spec §8's "main presence":
// "the Driver succeeds iff a function named main is defined").
func hasMain(p *sema.Processor) bool {
	e, ok := p.Table.Lookup("main")
	if !ok || e.Kind != symtab.EntryFunction {
		return false
	}
	return e.FunctionDefined
}

// encodeDataSegment renders the data segment as the `\XX`-per-byte text form
// spec §6 describes, two lowercase hex digits per byte with no separator.
func encodeDataSegment(b []byte) string {
	var sb strings.Builder
	sb.Grow(len(b) * 3)
	for _, by := range b {
		fmt.Fprintf(&sb, `\%02x`, by)
	}
	return sb.String()
}
