package ctypes

import "errors"

// ErrVoidSize is returned by Size when asked for the size of void (spec §4.1,
// canonical message "void value not ignored as it should be").
var ErrVoidSize = errors.New("void value not ignored as it should be")

// Size computes the byte size of t per spec §4.1. Struct layout is packed in
// declaration order with no padding; alignment throughout this model is 1
// (symtab.AllocateLocal relies on this).
func Size(t DataType) (int, error) {
	switch v := t.(type) {
	case *Primary:
		return primitiveSizes[v.Prim], nil
	case *Pointer:
		return PointerSize, nil
	case *StructSelfPointer:
		return PointerSize, nil
	case *Array:
		elemSize, err := Size(v.Element)
		if err != nil {
			return 0, err
		}
		return elemSize * int(v.Length), nil
	case *Struct:
		total := 0
		for _, f := range v.Fields {
			sz, err := Size(f.Type)
			if err != nil {
				return 0, err
			}
			total += sz
		}
		return total, nil
	case *Enum:
		return primitiveSizes[SignedInt], nil
	case *Void:
		return 0, ErrVoidSize
	default:
		return 0, errors.New("size: unhandled data type")
	}
}

// FieldOffsets returns the packed byte offset of each field of s, in
// declaration order (spec §8 "Offset monotonicity").
func FieldOffsets(s *Struct) ([]int, error) {
	offsets := make([]int, len(s.Fields))
	offset := 0
	for i, f := range s.Fields {
		offsets[i] = offset
		sz, err := Size(f.Type)
		if err != nil {
			return nil, err
		}
		offset += sz
	}
	return offsets, nil
}

// FieldOffset returns the byte offset of the named field, or ok=false if s
// has no such field.
func FieldOffset(s *Struct, name string) (offset int, fieldType DataType, ok bool) {
	off := 0
	for _, f := range s.Fields {
		sz, err := Size(f.Type)
		if err != nil {
			return 0, nil, false
		}
		if f.Tag == name {
			return off, f.Type, true
		}
		off += sz
	}
	return 0, nil, false
}

// ScalarSlot is one primary scalar slot within an (possibly aggregate) type,
// at its absolute byte offset from the start of the type.
type ScalarSlot struct {
	Type   DataType
	Offset int
}

// FlattenScalarSlots lists every primary scalar slot of t, depth-first in
// layout order (spec §9's "Expression unpacking": "prefer materializing
// aggregate expressions as a flat vector of primary scalar expressions").
func FlattenScalarSlots(t DataType) ([]ScalarSlot, error) {
	return flattenScalarSlotsAt(t, 0)
}

func flattenScalarSlotsAt(t DataType, base int) ([]ScalarSlot, error) {
	if IsScalar(t) {
		return []ScalarSlot{{Type: t, Offset: base}}, nil
	}
	switch v := t.(type) {
	case *Struct:
		offsets, err := FieldOffsets(v)
		if err != nil {
			return nil, err
		}
		var out []ScalarSlot
		for i, f := range v.Fields {
			sub, err := flattenScalarSlotsAt(f.Type, base+offsets[i])
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	case *Array:
		elemSize, err := Size(v.Element)
		if err != nil {
			return nil, err
		}
		var out []ScalarSlot
		for i := int64(0); i < v.Length; i++ {
			sub, err := flattenScalarSlotsAt(v.Element, base+int(i)*elemSize)
			if err != nil {
				return nil, err
			}
			out = append(out, sub...)
		}
		return out, nil
	default:
		return nil, errors.New("flattenScalarSlots: unsupported aggregate type")
	}
}

// PrimaryFieldCount returns the number of primary (unpacked) scalar slots t
// occupies — 1 for every scalar kind, the sum of field counts for a struct,
// the element count times the element's count for an array
// (spec §8 "Size consistency" is the byte-size analogue of this count).
func PrimaryFieldCount(t DataType) int {
	if a, ok := t.(*Array); ok {
		return int(a.Length) * PrimaryFieldCount(a.Element)
	}
	s, ok := t.(*Struct)
	if !ok {
		return 1
	}
	count := 0
	for _, f := range s.Fields {
		count += PrimaryFieldCount(f.Type)
	}
	return count
}
