package sema

import (
	"fmt"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/cerr"
	"github.com/MrShadowKiller/c-slang/internal/consteval"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/internal/initpack"
	"github.com/MrShadowKiller/c-slang/internal/symtab"
	"github.com/MrShadowKiller/c-slang/ir"
)

// ProcessTopLevel dispatches one file-scope construct in source order (spec
// §4.6's driver loop over ast.Root.Children).
func (p *Processor) ProcessTopLevel(tl ast.TopLevel) error {
	if err := p.processTopLevel(tl); err != nil {
		return cerr.At(tl.Pos(), err)
	}
	return nil
}

func (p *Processor) processTopLevel(tl ast.TopLevel) error {
	switch v := tl.(type) {
	case *ast.FunctionDefinition:
		return p.processFunctionDefinition(v)
	case *ast.Declaration:
		return p.processDeclaration(v, true)
	case *ast.EnumDeclaration:
		return p.processEnumDeclaration(v)
	default:
		return fmt.Errorf("sema: unrecognized top-level construct %T", tl)
	}
}

// processEnumDeclaration registers the enum's tag (if named) and every
// member as an int-typed enumerator constant, applying the implicit-value
// rule (spec §4.3): absent an explicit value, a member is one more than its
// predecessor, or 0 for the first member.
func (p *Processor) processEnumDeclaration(ed *ast.EnumDeclaration) error {
	et := &ctypes.Enum{Tag: ed.Tag}
	members := make([]ctypes.EnumMember, len(ed.Members))

	var next int64
	for i, m := range ed.Members {
		val := next
		if m.Value != nil {
			c, err := p.Eval(m.Value)
			if err != nil || c.Kind != consteval.KindInt {
				return fmt.Errorf("enumerator value for '%s' is not an integer constant expression", m.Name)
			}
			val = c.Int.Int64()
		}
		members[i] = ctypes.EnumMember{Name: m.Name, Value: val}
		next = val + 1
	}
	et.Members = members

	if ed.Tag != "" {
		if _, err := p.Table.AddTag(ed.Tag, symtab.TagEnum, et); err != nil {
			return err
		}
	}
	for _, m := range members {
		if _, err := p.Table.AddEnumerator(m.Name, et, m.Value); err != nil {
			return err
		}
	}
	return nil
}

// processBlockDeclaration handles a declaration nested inside a function
// body (spec §4.6's Block case).
func (p *Processor) processBlockDeclaration(d *ast.Declaration) error {
	return p.processDeclaration(d, false)
}

func (p *Processor) processDeclaration(d *ast.Declaration, atFileScope bool) error {
	if len(d.Declarators) == 0 {
		if d.Storage != ast.StorageNone {
			return cerr.New(cerr.PhaseTypes, cerr.KindDeclaration, "useless storage class qualifier in empty declaration")
		}
		return cerr.New(cerr.PhaseTypes, cerr.KindDeclaration, "empty declaration")
	}
	for _, decl := range d.Declarators {
		if err := p.processDeclarator(d.Storage, decl, atFileScope); err != nil {
			return cerr.At(decl.Position, err)
		}
	}
	return nil
}

func (p *Processor) processDeclarator(storage ast.StorageClass, decl ast.Declarator, atFileScope bool) error {
	dt, err := p.ResolveType(decl.Type)
	if err != nil {
		return err
	}

	if storage == ast.StorageTypedef {
		_, err := p.Table.AddTypedef(decl.Name, dt)
		return err
	}

	if fn, ok := dt.(*ctypes.Function); ok {
		if decl.Initializer != nil {
			return cerr.Newf(cerr.PhaseInit, cerr.KindInitializer, "function '%s' is initialized like a variable", decl.Name)
		}
		_, err := p.Table.AddFunction(decl.Name, fn, false)
		return err
	}

	// A declaration with no declared name declares at most a tag: a
	// `struct Tag { ... };` was already registered by resolveStructType, and
	// a bare `struct Tag;` registers nothing.
	if decl.Name == "" {
		return nil
	}

	// A local, automatic-duration variable lives in the current function's
	// frame. Everything else — file-scope variables, and any variable
	// carrying static or extern storage regardless of scope — lives in the
	// single append-only data segment (spec §4.3).
	if !atFileScope && storage == ast.StorageNone {
		return p.processLocalVariable(decl, dt)
	}
	return p.processDataSegmentVariable(decl, dt)
}

// isIncompleteType reports whether dt cannot be given storage as-is: an
// array with no declared length, or a struct referenced only by a forward
// tag (spec §7's Declaration class: "'B' is an incomplete type").
func isIncompleteType(dt ctypes.DataType) bool {
	switch v := dt.(type) {
	case *ctypes.Array:
		return v.Length == 0
	case *ctypes.Struct:
		return v.Fields == nil
	default:
		return false
	}
}

func (p *Processor) processLocalVariable(decl ast.Declarator, dt ctypes.DataType) error {
	if isIncompleteType(dt) {
		return cerr.Newf(cerr.PhaseTypes, cerr.KindDeclaration, "'%s' is an incomplete type", decl.Name)
	}
	size, err := ctypes.Size(dt)
	if err != nil {
		return err
	}
	offset := p.Table.AllocateLocal(size)
	if _, err := p.Table.AddVariable(decl.Name, symtab.EntryLocalVariable, dt, offset); err != nil {
		return err
	}
	if decl.Initializer == nil {
		return nil
	}
	stmts, err := initpack.UnpackLocal(dt, decl.Initializer, ir.LocalAddress, offset, p)
	if err != nil {
		return err
	}
	for _, s := range stmts {
		p.emit(s)
	}
	return nil
}

func (p *Processor) processDataSegmentVariable(decl ast.Declarator, dt ctypes.DataType) error {
	if decl.Initializer == nil && isIncompleteType(dt) {
		return cerr.Newf(cerr.PhaseTypes, cerr.KindDeclaration, "'%s' is an incomplete type", decl.Name)
	}
	initBytes, err := initpack.UnpackDataSegment(dt, decl.Initializer, p)
	if err != nil {
		return err
	}
	offset := p.Table.AllocateDataSegment(initBytes)
	_, err = p.Table.AddVariable(decl.Name, symtab.EntryDataSegmentVariable, dt, offset)
	return err
}

// processFunctionDefinition resolves a function's signature, opens its
// parameter/body scope, and lays out its frame (spec §4.6): parameters take
// non-negative offsets growing upward from the frame pointer in their own
// area (Table.AllocateParameter), while locals pack downward at negative
// offsets; both are addressed as LocalAddress slots.
func (p *Processor) processFunctionDefinition(fd *ast.FunctionDefinition) error {
	ret, err := p.ResolveType(fd.ReturnType)
	if err != nil {
		return err
	}

	voidOnly := isVoidOnlyParams(fd.Params)
	var paramTypes []ctypes.DataType
	if !voidOnly {
		paramTypes = make([]ctypes.DataType, len(fd.Params))
		for i, prm := range fd.Params {
			pt, err := p.ResolveType(prm.Type)
			if err != nil {
				return err
			}
			paramTypes[i] = ctypes.Decay(pt)
		}
	}

	funcType := &ctypes.Function{Return: ret, Parameters: paramTypes}
	if _, err := p.Table.AddFunction(fd.Name, funcType, true); err != nil {
		return err
	}

	p.Table.PushScope()
	defer p.Table.PopScope()
	p.Table.ResetFrame()

	savedReturn, savedLoop, savedLoopOrSwitch := p.currentReturnType, p.loopDepth, p.loopOrSwitchDepth
	p.currentReturnType = ret
	p.loopDepth = 0
	p.loopOrSwitchDepth = 0
	defer func() {
		p.currentReturnType, p.loopDepth, p.loopOrSwitchDepth = savedReturn, savedLoop, savedLoopOrSwitch
	}()

	var paramLayouts []ir.ParamLayout
	if !voidOnly {
		paramLayouts = make([]ir.ParamLayout, len(fd.Params))
		for i, prm := range fd.Params {
			size, err := ctypes.Size(paramTypes[i])
			if err != nil {
				return err
			}
			offset := p.Table.AllocateParameter(size)
			paramLayouts[i] = ir.ParamLayout{Offset: offset, Type: paramTypes[i]}
			if prm.Name != "" {
				if _, err := p.Table.AddParameter(prm.Name, paramTypes[i], offset); err != nil {
					return err
				}
			}
		}
	}

	body, err := p.withStatements(func() error {
		for _, st := range fd.Body {
			if err := p.ProcessStatement(st); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	p.Functions = append(p.Functions, &ir.FunctionDefinitionP{
		Name:         fd.Name,
		Parameters:   paramLayouts,
		ReturnType:   ret,
		SizeOfLocals: p.Table.SizeOfLocals(),
		Body:         body,
	})
	return nil
}

func isVoidOnlyParams(params []ast.Param) bool {
	if len(params) != 1 {
		return false
	}
	pt, ok := params[0].Type.(*ast.PrimaryTypeSpec)
	return ok && pt.Kind == ast.PrimaryVoid
}
