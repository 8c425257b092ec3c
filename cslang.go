// Package cslang is a thin façade over the Processor's subpackages, the way
// the teacher's root package re-exports Memory and Allocator over its own
// engine/linker/component layers.
//
// A translation unit arrives as an ast.Root (see package ast) together with
// a modules.Repository describing the functions a runtime-imports catalog
// makes available. Process runs the whole pipeline — the Expression
// Processor and Statement/Function Processor in internal/sema, driven by
// the Driver in package driver — and returns the finished ir.Root: typed,
// memory-addressed IR ready for a WebAssembly code generator, which this
// module does not implement.
package cslang

import (
	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/cerr"
	"github.com/MrShadowKiller/c-slang/driver"
	"github.com/MrShadowKiller/c-slang/ir"
	"github.com/MrShadowKiller/c-slang/modules"
)

// Re-exported so callers need import only this package for the common path.
type (
	Root            = ast.Root
	ProcessedIR     = ir.Root
	Repository      = modules.Repository
	ProcessingError = cerr.ProcessingError
	Warning         = cerr.Warning
)

// Process runs the Processor over one translation unit: every declaration
// and function definition in root.Children, in source order, then verifies
// a main function was defined. The first error encountered is fatal and is
// returned with no partial IR (spec §7).
func Process(root *ast.Root, repo *modules.Repository) (*ProcessedIR, []Warning, error) {
	result, err := driver.Process(root, repo)
	if err != nil {
		return nil, nil, err
	}
	return result.Root, result.Warnings, nil
}
