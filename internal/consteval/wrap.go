package consteval

import (
	"math/big"

	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

// Wrap is the exported form of wrap, used by internal/initpack to encode a
// folded constant into its scalar type's little-endian byte representation.
func Wrap(v *big.Int, t ctypes.DataType) *big.Int { return wrap(v, t) }

// wrap reduces v to the two's-complement representative of t's width and
// signedness (spec §4.2: "Integer overflow wraps per the two's-complement
// width of the result type").
func wrap(v *big.Int, t ctypes.DataType) *big.Int {
	prim, ok := t.(*ctypes.Primary)
	if !ok {
		return v
	}
	bits := widthBits(prim.Prim)
	mod := new(big.Int).Lsh(big.NewInt(1), bits)
	r := new(big.Int).Mod(v, mod)
	if r.Sign() < 0 {
		r.Add(r, mod)
	}
	if !prim.Prim.IsSigned() {
		return r
	}
	half := new(big.Int).Lsh(big.NewInt(1), bits-1)
	if r.Cmp(half) >= 0 {
		r.Sub(r, mod)
	}
	return r
}

func widthBits(p ctypes.PrimitiveKind) uint {
	switch p {
	case ctypes.SignedChar, ctypes.UnsignedChar:
		return 8
	case ctypes.SignedShort, ctypes.UnsignedShort:
		return 16
	case ctypes.SignedInt, ctypes.UnsignedInt:
		return 32
	case ctypes.SignedLong, ctypes.UnsignedLong:
		return 64
	default:
		return 32
	}
}
