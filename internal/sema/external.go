package sema

import (
	"fmt"

	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/ir"
)

// parseExternalType resolves one of modules.Signature's string-named types
// ("signed int", "pointer", "double", "" for void) into the analyzer's own
// type model. The Module Repository has no dependency on ctypes (spec §6's
// doc note), so this is the one place that crosses the boundary.
func parseExternalType(name string) (ctypes.DataType, error) {
	switch name {
	case "", "void":
		return &ctypes.Void{}, nil
	case "pointer":
		return &ctypes.Pointer{Pointee: &ctypes.Void{}}, nil
	}
	if pk, ok := ctypes.ParsePrimitiveName(name); ok {
		return &ctypes.Primary{Prim: pk}, nil
	}
	return nil, fmt.Errorf("sema: module repository names unrecognized type %q", name)
}

// resolveExternalFunction looks up name among the translation unit's
// included modules (spec §6), restricted to the modules ast.Root actually
// lists, and translates the found signature into a *ctypes.Function. It
// returns ok=false, not an error, when no included module exports the name
// — the caller falls back to the ordinary "'x' undeclared" diagnostic.
func (p *Processor) resolveExternalFunction(name string) (*ctypes.Function, string, bool, error) {
	if p.Repo == nil {
		return nil, "", false, nil
	}
	for _, modName := range p.includedModules {
		mod, ok := p.Repo.Modules[modName]
		if !ok {
			continue
		}
		sig, ok := mod.Functions[name]
		if !ok {
			continue
		}
		ret, err := parseExternalType(sig.ReturnType)
		if err != nil {
			return nil, "", false, err
		}
		params := make([]ctypes.DataType, len(sig.ParamTypes))
		for i, pt := range sig.ParamTypes {
			dt, err := parseExternalType(pt)
			if err != nil {
				return nil, "", false, err
			}
			params[i] = dt
		}
		return &ctypes.Function{Return: ret, Parameters: params}, modName, true, nil
	}
	return nil, "", false, nil
}

// bindExternalFunction registers name as an EntryFunction the first time it
// is referenced, and records its signature in externalFuncs so the Driver
// can copy it into ir.Root.ExternalFunctions for the code generator to
// import (spec §6). Subsequent references resolve through the ordinary
// symbol table lookup like any other function.
func (p *Processor) bindExternalFunction(name string) (*ctypes.Function, bool, error) {
	fn, modName, ok, err := p.resolveExternalFunction(name)
	if err != nil || !ok {
		return nil, ok, err
	}
	if _, err := p.Table.AddFunction(name, fn, true); err != nil {
		return nil, false, err
	}
	if p.externalFuncs == nil {
		p.externalFuncs = make(map[string]ir.ExternalFunction)
	}
	p.externalFuncs[name] = ir.ExternalFunction{ModuleName: modName, Name: name, Type: fn}
	return fn, true, nil
}

// ExternalFunctions returns every module function referenced so far, keyed
// by name, ready for ir.Root assembly.
func (p *Processor) ExternalFunctions() map[string]ir.ExternalFunction {
	return p.externalFuncs
}
