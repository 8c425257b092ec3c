package initpack

import (
	"errors"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

// cursor walks one InitializerList's elements, shared by reference across
// recursive calls that consume from the same brace level (spec §4.4's
// "recurse at the same list level" case, i.e. brace elision).
type cursor struct {
	list *ast.InitializerList
	pos  int
}

func (c *cursor) peek() ast.Initializer {
	if c.pos < len(c.list.Elements) {
		return c.list.Elements[c.pos]
	}
	return nil
}

func (c *cursor) advance() { c.pos++ }

func (c *cursor) remaining() int {
	return len(c.list.Elements) - c.pos
}

type childSlot struct {
	Type   ctypes.DataType
	Offset int
}

func childSlots(dt ctypes.DataType) ([]childSlot, error) {
	switch v := dt.(type) {
	case *ctypes.Array:
		elemSize, err := ctypes.Size(v.Element)
		if err != nil {
			return nil, err
		}
		slots := make([]childSlot, v.Length)
		for i := range slots {
			slots[i] = childSlot{Type: v.Element, Offset: i * elemSize}
		}
		return slots, nil
	case *ctypes.Struct:
		offsets, err := ctypes.FieldOffsets(v)
		if err != nil {
			return nil, err
		}
		slots := make([]childSlot, len(v.Fields))
		for i, f := range v.Fields {
			slots[i] = childSlot{Type: f.Type, Offset: offsets[i]}
		}
		return slots, nil
	default:
		return nil, errors.New("initpack: not an aggregate type")
	}
}

// flattenScalarSlots lists every primary scalar slot of dt, depth-first in
// layout order, each with its absolute offset from base. Used by the local
// Sink to copy a whole aggregate value field-by-field.
func flattenScalarSlots(dt ctypes.DataType, base int) ([]childSlot, error) {
	if ctypes.IsScalar(dt) {
		return []childSlot{{Type: dt, Offset: base}}, nil
	}
	children, err := childSlots(dt)
	if err != nil {
		return nil, err
	}
	var out []childSlot
	for _, c := range children {
		sub, err := flattenScalarSlots(c.Type, base+c.Offset)
		if err != nil {
			return nil, err
		}
		out = append(out, sub...)
	}
	return out, nil
}

// resolveScalarPeel implements spec §4.4's scalar rule: peel nested
// single-element `{...}` wrappers until a bare expression is found; an
// empty peeled list means "use the zero value" (expr == nil, err == nil); a
// peeled list with more than one element is excess.
func resolveScalarPeel(init ast.Initializer) (ast.Expression, error) {
	for {
		switch v := init.(type) {
		case nil:
			return nil, nil
		case *ast.InitializerSingle:
			return v.Value, nil
		case *ast.InitializerList:
			switch len(v.Elements) {
			case 0:
				return nil, nil
			case 1:
				init = v.Elements[0]
			default:
				return nil, ErrExcessElements
			}
		default:
			return nil, errors.New("initpack: unrecognized initializer node")
		}
	}
}

// unpack is the single recursive algorithm spec §4.4 describes, driven by a
// Sink so the local and data-segment variants share every control-flow
// decision and differ only in how a scalar slot or aggregate copy is
// realized.
func unpack(dt ctypes.DataType, init ast.Initializer, byteOffset int, s sink, env Env) error {
	if ctypes.IsScalar(dt) {
		expr, err := resolveScalarPeel(init)
		if err != nil {
			return err
		}
		return s.scalar(dt, expr, byteOffset)
	}

	switch v := init.(type) {
	case nil:
		c := &cursor{list: &ast.InitializerList{}}
		return walkAggregate(dt, c, byteOffset, s, env)
	case *ast.InitializerList:
		c := &cursor{list: v}
		if err := walkAggregate(dt, c, byteOffset, s, env); err != nil {
			return err
		}
		if c.remaining() > 0 {
			return ErrExcessElements
		}
		return nil
	case *ast.InitializerSingle:
		if aggDT, ok := s.aggregateTypeOf(v.Value); ok && ctypes.IsCompatible(dt, aggDT, true) {
			return s.copyAggregate(dt, v.Value, byteOffset)
		}
		return errors.New("array/struct requires a brace-enclosed initializer")
	default:
		return errors.New("initpack: unrecognized initializer node")
	}
}

// walkAggregate visits every element/field slot of the aggregate dt,
// consuming from c. c may be shared with an enclosing aggregate (brace
// elision) or freshly created for this level (an explicit nested list).
func walkAggregate(dt ctypes.DataType, c *cursor, byteOffset int, s sink, env Env) error {
	slots, err := childSlots(dt)
	if err != nil {
		return err
	}

	for _, slot := range slots {
		offset := byteOffset + slot.Offset

		if ctypes.IsScalar(slot.Type) {
			item := c.peek()
			expr, err := resolveScalarPeel(item)
			if err != nil {
				return err
			}
			if err := s.scalar(slot.Type, expr, offset); err != nil {
				return err
			}
			if item != nil {
				c.advance()
			}
			continue
		}

		item := c.peek()
		switch v := item.(type) {
		case nil:
			if err := walkAggregate(slot.Type, &cursor{list: &ast.InitializerList{}}, offset, s, env); err != nil {
				return err
			}
		case *ast.InitializerSingle:
			if aggDT, ok := s.aggregateTypeOf(v.Value); ok && ctypes.IsCompatible(slot.Type, aggDT, true) {
				if err := s.copyAggregate(slot.Type, v.Value, offset); err != nil {
					return err
				}
				c.advance()
			} else {
				// Brace elision: the nested aggregate consumes directly
				// from the same enclosing list.
				if err := walkAggregate(slot.Type, c, offset, s, env); err != nil {
					return err
				}
			}
		case *ast.InitializerList:
			nested := &cursor{list: v}
			if err := walkAggregate(slot.Type, nested, offset, s, env); err != nil {
				return err
			}
			if nested.remaining() > 0 {
				return ErrExcessElements
			}
			c.advance()
		default:
			return errors.New("initpack: unrecognized initializer node")
		}
	}
	return nil
}
