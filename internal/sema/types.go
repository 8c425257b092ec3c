package sema

import (
	"fmt"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/cerr"
	"github.com/MrShadowKiller/c-slang/internal/consteval"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/internal/symtab"
)

// ResolveType turns a parsed TypeSpec into a ctypes.DataType, expanding
// typedefs and tags against the current scope and folding array sizes
// through the Compile-Time Evaluator (spec §4.1).
func (p *Processor) ResolveType(ts ast.TypeSpec) (ctypes.DataType, error) {
	switch v := ts.(type) {
	case *ast.PrimaryTypeSpec:
		if v.Kind == ast.PrimaryVoid {
			return &ctypes.Void{}, nil
		}
		return &ctypes.Primary{Prim: primitiveOf(v.Kind), IsConst: v.IsConst}, nil

	case *ast.PointerTypeSpec:
		pointee, err := p.ResolveType(v.Pointee)
		if err != nil {
			return nil, err
		}
		return &ctypes.Pointer{Pointee: pointee, IsConst: v.IsConst}, nil

	case *ast.ArrayTypeSpec:
		elem, err := p.ResolveType(v.Element)
		if err != nil {
			return nil, err
		}
		if v.NumElements == nil {
			return &ctypes.Array{Element: elem, Length: 0, IsConst: v.IsConst}, nil
		}
		c, err := p.Eval(v.NumElements)
		if err != nil || c.Kind != consteval.KindInt {
			return nil, cerr.Newf(cerr.PhaseTypes, cerr.KindDeclaration, "Variable Length Arrays not supported")
		}
		return &ctypes.Array{Element: elem, Length: c.Int.Int64(), IsConst: v.IsConst}, nil

	case *ast.StructTypeSpec:
		return p.resolveStructType(v)

	case *ast.EnumTypeSpec:
		if e, ok := p.Table.LookupTag(v.Tag); ok {
			if et, ok := e.Type.(*ctypes.Enum); ok {
				return et, nil
			}
			return nil, fmt.Errorf("'%s' is not an enum tag", v.Tag)
		}
		return nil, fmt.Errorf("'enum %s' undeclared", v.Tag)

	case *ast.FunctionTypeSpec:
		ret, err := p.ResolveType(v.Return)
		if err != nil {
			return nil, err
		}
		params, err := p.resolveParamTypes(v.Params)
		if err != nil {
			return nil, err
		}
		return &ctypes.Function{Return: ret, Parameters: params}, nil

	case *ast.TypedefNameSpec:
		e, ok := p.Table.Lookup(v.Name)
		if !ok || e.Kind != symtab.EntryTypedef {
			return nil, fmt.Errorf("'%s' undeclared", v.Name)
		}
		return e.Type, nil

	default:
		return nil, fmt.Errorf("sema: unrecognized type spec %T", ts)
	}
}

func (p *Processor) resolveParamTypes(params []ast.TypeSpec) ([]ctypes.DataType, error) {
	if len(params) == 1 {
		if pt, ok := params[0].(*ast.PrimaryTypeSpec); ok && pt.Kind == ast.PrimaryVoid {
			return nil, nil
		}
	}
	out := make([]ctypes.DataType, len(params))
	for i, ts := range params {
		dt, err := p.ResolveType(ts)
		if err != nil {
			return nil, err
		}
		out[i] = ctypes.Decay(dt)
	}
	return out, nil
}

func (p *Processor) resolveStructType(v *ast.StructTypeSpec) (ctypes.DataType, error) {
	if v.Fields == nil {
		if v.Tag != "" {
			if e, ok := p.Table.LookupTag(v.Tag); ok {
				if st, ok := e.Type.(*ctypes.Struct); ok {
					return st, nil
				}
			}
		}
		// Forward reference to a tag not yet (or never) defined: an
		// incomplete struct type, usable only behind a pointer.
		return &ctypes.Struct{Tag: v.Tag, Fields: nil}, nil
	}

	if len(v.Fields) == 0 {
		return nil, cerr.New(cerr.PhaseTypes, cerr.KindDeclaration, "struct has no members")
	}

	st := &ctypes.Struct{Tag: v.Tag, IsConst: v.IsConst}
	fields := make([]ctypes.Field, len(v.Fields))
	for i, f := range v.Fields {
		if _, ok := f.Type.(*ast.StructSelfSpec); ok {
			fields[i] = ctypes.Field{Tag: f.Name, Type: &ctypes.StructSelfPointer{EnclosingTag: v.Tag}}
			continue
		}
		ft, err := p.ResolveType(f.Type)
		if err != nil {
			return nil, err
		}
		fields[i] = ctypes.Field{Tag: f.Name, Type: ft}
	}
	st.Fields = fields

	if v.Tag != "" {
		if _, err := p.Table.AddTag(v.Tag, symtab.TagStruct, st); err != nil {
			return nil, err
		}
	}
	return st, nil
}

func primitiveOf(k ast.PrimaryKind) ctypes.PrimitiveKind {
	switch k {
	case ast.PrimarySignedChar:
		return ctypes.SignedChar
	case ast.PrimaryUnsignedChar:
		return ctypes.UnsignedChar
	case ast.PrimarySignedShort:
		return ctypes.SignedShort
	case ast.PrimaryUnsignedShort:
		return ctypes.UnsignedShort
	case ast.PrimarySignedInt:
		return ctypes.SignedInt
	case ast.PrimaryUnsignedInt:
		return ctypes.UnsignedInt
	case ast.PrimarySignedLong:
		return ctypes.SignedLong
	case ast.PrimaryUnsignedLong:
		return ctypes.UnsignedLong
	case ast.PrimaryFloat:
		return ctypes.Float
	case ast.PrimaryDouble:
		return ctypes.Double
	default:
		return ctypes.SignedInt
	}
}
