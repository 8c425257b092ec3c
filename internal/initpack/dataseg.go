package initpack

import (
	"math"
	"math/big"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/consteval"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

// dataSegSink realizes the data-segment variant: every scalar slot is
// folded to a compile-time constant and appended as little-endian bytes
// (spec §4.4). It never copies a whole aggregate from another expression —
// C restricts a global's initializer to constant expressions, and a
// reference to another object's value is never one.
type dataSegSink struct {
	env   Env
	bytes []byte
}

func (ds *dataSegSink) scalar(dt ctypes.DataType, expr ast.Expression, byteOffset int) error {
	if expr == nil {
		sz, err := ctypes.Size(dt)
		if err != nil {
			return err
		}
		ds.bytes = append(ds.bytes, make([]byte, sz)...)
		return nil
	}
	c, err := ds.env.Eval(expr)
	if err != nil {
		return ErrNotConstant
	}
	encoded, err := encodeScalar(dt, c)
	if err != nil {
		return err
	}
	ds.bytes = append(ds.bytes, encoded...)
	return nil
}

func (ds *dataSegSink) copyAggregate(dt ctypes.DataType, expr ast.Expression, byteOffset int) error {
	return ErrNotConstant
}

func (ds *dataSegSink) aggregateTypeOf(expr ast.Expression) (ctypes.DataType, bool) {
	return nil, false
}

func encodeScalar(dt ctypes.DataType, c consteval.Constant) ([]byte, error) {
	switch v := dt.(type) {
	case *ctypes.Pointer, *ctypes.StructSelfPointer:
		if c.Kind == consteval.KindDataSegmentAddress {
			return littleEndian(big.NewInt(int64(c.SymbolOffset)), ctypes.PointerSize), nil
		}
		if c.Kind == consteval.KindInt && c.IsZero() {
			return littleEndian(big.NewInt(0), ctypes.PointerSize), nil
		}
		return nil, ErrNotConstant

	case *ctypes.Primary:
		if v.Prim.IsFloat() {
			return floatBytes(c, v.Prim), nil
		}
		sz, err := ctypes.Size(dt)
		if err != nil {
			return nil, err
		}
		return littleEndian(consteval.Wrap(intValueOf(c), dt), sz), nil

	case *ctypes.Enum:
		sz, err := ctypes.Size(dt)
		if err != nil {
			return nil, err
		}
		signedInt := &ctypes.Primary{Prim: ctypes.SignedInt}
		return littleEndian(consteval.Wrap(intValueOf(c), signedInt), sz), nil

	default:
		return nil, ErrNotConstant
	}
}

func intValueOf(c consteval.Constant) *big.Int {
	if c.Kind == consteval.KindInt {
		return c.Int
	}
	i, _ := big.NewFloat(c.Float).Int(nil)
	return i
}

func floatBytes(c consteval.Constant, prim ctypes.PrimitiveKind) []byte {
	var f float64
	if c.Kind == consteval.KindFloat {
		f = c.Float
	} else {
		f, _ = new(big.Float).SetInt(c.Int).Float64()
	}
	if prim == ctypes.Float {
		bits := math.Float32bits(float32(f))
		return []byte{byte(bits), byte(bits >> 8), byte(bits >> 16), byte(bits >> 24)}
	}
	bits := math.Float64bits(f)
	buf := make([]byte, 8)
	for i := 0; i < 8; i++ {
		buf[i] = byte(bits >> (8 * i))
	}
	return buf
}

// littleEndian encodes v's two's-complement residue modulo 2^(8n) into n
// little-endian bytes.
func littleEndian(v *big.Int, n int) []byte {
	mod := new(big.Int).Lsh(big.NewInt(1), uint(n*8))
	u := new(big.Int).Mod(v, mod)
	if u.Sign() < 0 {
		u.Add(u, mod)
	}
	be := u.Bytes()
	buf := make([]byte, n)
	copy(buf[n-len(be):], be)
	for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return buf
}
