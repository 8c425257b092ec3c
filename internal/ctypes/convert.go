package ctypes

// Decay implements spec §4.1's decay: array → pointer-to-element,
// function → pointer-to-function, everything else unchanged. Applying Decay
// twice equals applying it once (spec §8 "Decay idempotence"), since the
// result of decaying is never itself an array or function type.
func Decay(t DataType) DataType {
	switch v := t.(type) {
	case *Array:
		return &Pointer{Pointee: v.Element}
	case *Function:
		return &Pointer{Pointee: v}
	default:
		return t
	}
}

// PromoteInteger implements spec §4.1's integer promotion: char/short widths
// (signed or unsigned) become signed int; enums (which share signed int's
// representation) become signed int too; every other primary type is
// returned unchanged, without its qualifiers.
func PromoteInteger(t DataType) DataType {
	switch v := t.(type) {
	case *Primary:
		switch v.Prim {
		case SignedChar, UnsignedChar, SignedShort, UnsignedShort:
			return &Primary{Prim: SignedInt}
		default:
			return &Primary{Prim: v.Prim}
		}
	case *Enum:
		return &Primary{Prim: SignedInt}
	default:
		return t
	}
}

func rank(p PrimitiveKind) int {
	if p == SignedLong || p == UnsignedLong {
		return 2
	}
	return 1
}

// UsualArithmeticConversions implements spec §4.1's usual arithmetic
// conversions (C17 6.3.1.8). Both operands must already be arithmetic
// (*Primary or *Enum); the caller is expected to have checked this.
func UsualArithmeticConversions(a, b DataType) DataType {
	pa := PromoteInteger(a).(*Primary)
	pb := PromoteInteger(b).(*Primary)

	if pa.Prim == Double || pb.Prim == Double {
		return &Primary{Prim: Double}
	}
	if pa.Prim == Float || pb.Prim == Float {
		return &Primary{Prim: Float}
	}

	ra, rb := rank(pa.Prim), rank(pb.Prim)
	switch {
	case ra > rb:
		return &Primary{Prim: pa.Prim}
	case rb > ra:
		return &Primary{Prim: pb.Prim}
	case pa.Prim == pb.Prim:
		return &Primary{Prim: pa.Prim}
	case ra == 1:
		return &Primary{Prim: UnsignedInt}
	default:
		return &Primary{Prim: UnsignedLong}
	}
}

// IsScalar reports whether t is valid where C requires a scalar (arithmetic
// or pointer).
func IsScalar(t DataType) bool {
	switch t.(type) {
	case *Primary, *Enum, *Pointer, *StructSelfPointer:
		return true
	default:
		return false
	}
}

// IsModifiableLvalueType reports whether a value of type t can be the
// target of an lvalue-modifying operation, ignoring the separate checks for
// "is this expression actually an lvalue" and "is this an enumerator"
// (spec's GLOSSARY "Modifiable lvalue"): not an array, not a function, and
// not const-qualified.
func IsModifiableLvalueType(t DataType) bool {
	switch t.(type) {
	case *Array, *Function:
		return false
	}
	return !constOf(t)
}
