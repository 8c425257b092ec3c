// Package ctypes implements the Type Model & Utilities component (spec §4.1):
// the closed DataType algebra, size queries, compatibility, assignability,
// decay, integer promotion and the usual arithmetic conversions.
//
// The algebra is modeled the way the teacher's transcoder/internal/types and
// transcoder/internal/layout packages model the Component Model's WIT types:
// a small Kind enum for fast dispatch, concrete structs per kind, and a
// closed type switch wherever behavior differs per kind — never a generic
// visitor interface.
package ctypes

// Kind discriminates the members of the DataType sum (spec §3.1).
type Kind uint8

const (
	KindPrimary Kind = iota
	KindPointer
	KindArray
	KindStruct
	KindStructSelfPointer
	KindEnum
	KindFunction
	KindVoid
)

var kindNames = [...]string{
	KindPrimary:           "primary",
	KindPointer:           "pointer",
	KindArray:             "array",
	KindStruct:            "struct",
	KindStructSelfPointer: "struct-self-pointer",
	KindEnum:              "enum",
	KindFunction:          "function",
	KindVoid:              "void",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// PrimitiveKind enumerates the primary scalar kinds (spec §3.1).
type PrimitiveKind uint8

const (
	SignedChar PrimitiveKind = iota
	UnsignedChar
	SignedShort
	UnsignedShort
	SignedInt
	UnsignedInt
	SignedLong
	UnsignedLong
	Float
	Double
)

var primitiveNames = [...]string{
	SignedChar:    "signed char",
	UnsignedChar:  "unsigned char",
	SignedShort:   "signed short",
	UnsignedShort: "unsigned short",
	SignedInt:     "signed int",
	UnsignedInt:   "unsigned int",
	SignedLong:    "signed long",
	UnsignedLong:  "unsigned long",
	Float:         "float",
	Double:        "double",
}

func (p PrimitiveKind) String() string {
	if int(p) < len(primitiveNames) {
		return primitiveNames[p]
	}
	return "unknown"
}

// IsInteger reports whether p is one of the integral primitive kinds.
func (p PrimitiveKind) IsInteger() bool {
	return p <= UnsignedLong
}

// IsFloat reports whether p is float or double.
func (p PrimitiveKind) IsFloat() bool {
	return p == Float || p == Double
}

// IsSigned reports whether p is a signed integral kind. Meaningless for floats.
func (p PrimitiveKind) IsSigned() bool {
	switch p {
	case SignedChar, SignedShort, SignedInt, SignedLong:
		return true
	default:
		return false
	}
}

// primitiveSizes is the fixed byte size of each primary scalar kind (spec §4.1).
var primitiveSizes = [...]int{
	SignedChar:    1,
	UnsignedChar:  1,
	SignedShort:   2,
	UnsignedShort: 2,
	SignedInt:     4,
	UnsignedInt:   4,
	SignedLong:    8,
	UnsignedLong:  8,
	Float:         4,
	Double:        8,
}

// PointerSize is the fixed size in bytes of a pointer or struct-self-pointer (spec §4.1).
const PointerSize = 4

// ParsePrimitiveName resolves one of primitiveNames' spellings back to its
// PrimitiveKind, the inverse of PrimitiveKind.String. Used by the Module
// Repository adapter (spec §6), whose Signature fields name types by string
// since the repository has no dependency on this package.
func ParsePrimitiveName(name string) (PrimitiveKind, bool) {
	for k, s := range primitiveNames {
		if s == name {
			return PrimitiveKind(k), true
		}
	}
	return 0, false
}
