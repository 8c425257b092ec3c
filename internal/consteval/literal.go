package consteval

import (
	"math/big"
	"strconv"
	"strings"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

// evalIntLiteral types an integer literal per spec §4.5's "Literal" rule:
// typed to the smallest of int, long, unsigned long that can represent it,
// matching C17's constant-typing rules including hex/octal sign-preservation
// (an unsuffixed hex or octal literal that doesn't fit in signed int may be
// unsigned int before it is long, unlike a decimal literal).
func evalIntLiteral(e *ast.IntLiteralExpr) (Constant, error) {
	base := 10
	if e.IsHexOrOct {
		base = 0 // strconv auto-detects 0x/0 prefixes
	}
	text := e.Text
	if base == 0 && !strings.HasPrefix(text, "0") {
		base = 10
	}
	val, ok := new(big.Int).SetString(text, base)
	if !ok {
		return Constant{}, ErrNotConstant
	}

	prim := classifyIntLiteral(val, e)
	return Constant{Kind: KindInt, Int: val, Type: intType(prim)}, nil
}

func classifyIntLiteral(val *big.Int, e *ast.IntLiteralExpr) ctypes.PrimitiveKind {
	fitsSigned := func(bits uint) bool {
		max := new(big.Int).Lsh(big.NewInt(1), bits-1)
		max.Sub(max, big.NewInt(1))
		return val.Cmp(max) <= 0
	}
	fitsUnsigned := func(bits uint) bool {
		max := new(big.Int).Lsh(big.NewInt(1), bits)
		max.Sub(max, big.NewInt(1))
		return val.Cmp(max) <= 0
	}

	candidates := intLiteralCandidates(e)
	for _, c := range candidates {
		switch c {
		case ctypes.SignedInt:
			if fitsSigned(32) {
				return c
			}
		case ctypes.UnsignedInt:
			if fitsUnsigned(32) {
				return c
			}
		case ctypes.SignedLong:
			if fitsSigned(64) {
				return c
			}
		case ctypes.UnsignedLong:
			if fitsUnsigned(64) {
				return c
			}
		}
	}
	return ctypes.UnsignedLong
}

// intLiteralCandidates orders the primitive kinds a literal is tried against,
// per C17 6.4.4.1's table: decimal unsuffixed literals skip unsigned kinds
// until long is exhausted; hex/octal unsuffixed literals try the unsigned
// kind at each width before moving to the next width ("sign-preservation").
func intLiteralCandidates(e *ast.IntLiteralExpr) []ctypes.PrimitiveKind {
	switch {
	case e.Unsigned && e.LongCount > 0:
		return []ctypes.PrimitiveKind{ctypes.UnsignedLong}
	case e.Unsigned:
		return []ctypes.PrimitiveKind{ctypes.UnsignedInt, ctypes.UnsignedLong}
	case e.LongCount > 0:
		if e.IsHexOrOct {
			return []ctypes.PrimitiveKind{ctypes.SignedLong, ctypes.UnsignedLong}
		}
		return []ctypes.PrimitiveKind{ctypes.SignedLong, ctypes.UnsignedLong}
	case e.IsHexOrOct:
		return []ctypes.PrimitiveKind{ctypes.SignedInt, ctypes.UnsignedInt, ctypes.SignedLong, ctypes.UnsignedLong}
	default:
		return []ctypes.PrimitiveKind{ctypes.SignedInt, ctypes.SignedLong, ctypes.UnsignedLong}
	}
}

func evalFloatLiteral(e *ast.FloatLiteralExpr) (Constant, error) {
	val, err := strconv.ParseFloat(e.Text, 64)
	if err != nil {
		return Constant{}, ErrNotConstant
	}
	prim := ctypes.Double
	if e.IsFloat {
		prim = ctypes.Float
	}
	return Constant{Kind: KindFloat, Float: val, Type: intType(prim)}, nil
}
