// Package consteval implements the Compile-Time Evaluator (spec §4.2): it
// folds constant expressions over integers and floats, used to resolve
// array sizes and data-segment initializers.
package consteval

import (
	"errors"
	"math/big"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

// ErrNotConstant is returned, unwrapped, when an expression is not foldable
// at compile time (spec §4.2). A data-segment initializer that fails to fold
// is reported by internal/initpack under its own "initializer element is not
// constant" error instead.
var ErrNotConstant = errors.New("expression is not a compile-time constant")

// ErrDivByZero is returned for constant division or remainder by zero.
var ErrDivByZero = errors.New("division by zero in constant expression")

// Kind discriminates the two representations a Constant can hold, plus the
// opaque data-segment-address case used only while folding initializers.
type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindDataSegmentAddress
)

// Constant is the Evaluator's output: an integer (arbitrary precision,
// already wrapped to its result type's width), a float64, or the address of
// a data-segment variable treated as an opaque constant pointer.
type Constant struct {
	Kind          Kind
	Int           *big.Int
	Float         float64
	SymbolName    string // set when Kind == KindDataSegmentAddress
	SymbolOffset  int
	Type          ctypes.DataType
}

// IsZero reports whether an integer constant has value exactly 0 (used to
// recognize a null-pointer constant per spec §4.1).
func (c Constant) IsZero() bool {
	return c.Kind == KindInt && c.Int != nil && c.Int.Sign() == 0
}

// Env supplies the outside information the evaluator needs without taking a
// dependency on the symbol table or the expression processor: enumerator
// values, data-segment variable addresses, and sizeof resolution (which in
// the general case requires the full type resolver/Expression Processor).
type Env interface {
	Enumerator(name string) (int64, bool)
	DataSegmentVariable(name string) (offset int, dt ctypes.DataType, ok bool)
	SizeofType(t ast.TypeSpec) (int, error)
	SizeofExpr(e ast.Expression) (int, error)
}

// Eval folds expr to a Constant, or returns an error (ErrNotConstant,
// ErrDivByZero, or a propagated SizeofType/SizeofExpr error).
func Eval(expr ast.Expression, env Env) (Constant, error) {
	switch e := expr.(type) {
	case *ast.IntLiteralExpr:
		return evalIntLiteral(e)
	case *ast.FloatLiteralExpr:
		return evalFloatLiteral(e)
	case *ast.CharLiteralExpr:
		return Constant{Kind: KindInt, Int: big.NewInt(e.Value), Type: intType(ctypes.SignedInt)}, nil
	case *ast.IdentifierExpr:
		if val, ok := env.Enumerator(e.Name); ok {
			return Constant{Kind: KindInt, Int: big.NewInt(val), Type: intType(ctypes.SignedInt)}, nil
		}
		return Constant{}, ErrNotConstant
	case *ast.UnaryExpr:
		return evalUnary(e, env)
	case *ast.SizeofTypeExpr:
		sz, err := env.SizeofType(e.Type)
		if err != nil {
			return Constant{}, err
		}
		return Constant{Kind: KindInt, Int: big.NewInt(int64(sz)), Type: intType(ctypes.UnsignedLong)}, nil
	case *ast.SizeofExprExpr:
		sz, err := env.SizeofExpr(e.Operand)
		if err != nil {
			return Constant{}, err
		}
		return Constant{Kind: KindInt, Int: big.NewInt(int64(sz)), Type: intType(ctypes.UnsignedLong)}, nil
	case *ast.CastExpr:
		return evalCast(e, env)
	case *ast.BinaryExpr:
		return evalBinary(e, env)
	case *ast.ConditionalExpr:
		return evalConditional(e, env)
	default:
		return Constant{}, ErrNotConstant
	}
}

func intType(p ctypes.PrimitiveKind) ctypes.DataType { return &ctypes.Primary{Prim: p} }

func evalUnary(e *ast.UnaryExpr, env Env) (Constant, error) {
	if e.Op == ast.OpAddrOf {
		if id, ok := e.Operand.(*ast.IdentifierExpr); ok {
			if off, dt, ok := env.DataSegmentVariable(id.Name); ok {
				return Constant{
					Kind:         KindDataSegmentAddress,
					SymbolName:   id.Name,
					SymbolOffset: off,
					Type:         &ctypes.Pointer{Pointee: dt},
				}, nil
			}
		}
		return Constant{}, ErrNotConstant
	}

	operand, err := Eval(e.Operand, env)
	if err != nil {
		return Constant{}, err
	}

	switch e.Op {
	case ast.OpPlus:
		return promoteUnary(operand), nil
	case ast.OpMinus:
		p := promoteUnary(operand)
		if p.Kind == KindFloat {
			p.Float = -p.Float
			return p, nil
		}
		p.Int = wrap(new(big.Int).Neg(p.Int), p.Type)
		return p, nil
	case ast.OpBitNot:
		p := promoteUnary(operand)
		if p.Kind != KindInt {
			return Constant{}, ErrNotConstant
		}
		p.Int = wrap(new(big.Int).Not(p.Int), p.Type)
		return p, nil
	case ast.OpLogNot:
		nonZero := isTruthy(operand)
		val := int64(0)
		if !nonZero {
			val = 1
		}
		return Constant{Kind: KindInt, Int: big.NewInt(val), Type: intType(ctypes.SignedInt)}, nil
	default:
		return Constant{}, ErrNotConstant
	}
}

func promoteUnary(c Constant) Constant {
	if c.Kind != KindInt {
		return c
	}
	promoted := ctypes.PromoteInteger(c.Type)
	return Constant{Kind: KindInt, Int: wrap(c.Int, promoted), Type: promoted}
}

func isTruthy(c Constant) bool {
	switch c.Kind {
	case KindInt:
		return c.Int.Sign() != 0
	case KindFloat:
		return c.Float != 0
	default:
		return true // an address constant is never the null pointer
	}
}

func evalCast(e *ast.CastExpr, env Env) (Constant, error) {
	operand, err := Eval(e.Operand, env)
	if err != nil {
		return Constant{}, err
	}
	// Only scalar casts participate in constant folding (spec §4.2).
	// Struct-tagged casts never occur in C; any non-primitive target keeps
	// the operand's representation unchanged (used for pointer casts during
	// data-segment initialization).
	prim, ok := castTargetPrimitive(e)
	if !ok {
		return operand, nil
	}
	if prim.IsFloat() {
		f := toFloat(operand)
		return Constant{Kind: KindFloat, Float: f, Type: intType(prim)}, nil
	}
	i := toInt(operand)
	return Constant{Kind: KindInt, Int: wrap(i, intType(prim)), Type: intType(prim)}, nil
}

func castTargetPrimitive(e *ast.CastExpr) (ctypes.PrimitiveKind, bool) {
	spec, ok := e.Type.(*ast.PrimaryTypeSpec)
	if !ok {
		return 0, false
	}
	return primitiveKindOfSpec(spec.Kind), spec.Kind != ast.PrimaryVoid
}

func primitiveKindOfSpec(k ast.PrimaryKind) ctypes.PrimitiveKind {
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

func toFloat(c Constant) float64 {
	if c.Kind == KindFloat {
		return c.Float
	}
	f := new(big.Float).SetInt(c.Int)
	v, _ := f.Float64()
	return v
}

func toInt(c Constant) *big.Int {
	if c.Kind == KindInt {
		return c.Int
	}
	i, _ := big.NewFloat(c.Float).Int(nil)
	return i
}

func evalConditional(e *ast.ConditionalExpr, env Env) (Constant, error) {
	cond, err := Eval(e.Cond, env)
	if err != nil {
		return Constant{}, err
	}
	if isTruthy(cond) {
		return Eval(e.Then, env)
	}
	return Eval(e.Else, env)
}
