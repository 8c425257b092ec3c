package consteval

import (
	"math/big"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

func evalBinary(e *ast.BinaryExpr, env Env) (Constant, error) {
	switch e.Op {
	case ast.OpLogAnd:
		l, err := Eval(e.Left, env)
		if err != nil {
			return Constant{}, err
		}
		if !isTruthy(l) {
			return boolConst(false), nil
		}
		r, err := Eval(e.Right, env)
		if err != nil {
			return Constant{}, err
		}
		return boolConst(isTruthy(r)), nil

	case ast.OpLogOr:
		l, err := Eval(e.Left, env)
		if err != nil {
			return Constant{}, err
		}
		if isTruthy(l) {
			return boolConst(true), nil
		}
		r, err := Eval(e.Right, env)
		if err != nil {
			return Constant{}, err
		}
		return boolConst(isTruthy(r)), nil

	case ast.OpComma:
		return Constant{}, ErrNotConstant
	}

	left, err := Eval(e.Left, env)
	if err != nil {
		return Constant{}, err
	}
	right, err := Eval(e.Right, env)
	if err != nil {
		return Constant{}, err
	}

	switch e.Op {
	case ast.OpShl, ast.OpShr:
		return evalShift(e.Op, left, right)
	}

	if left.Kind == KindFloat || right.Kind == KindFloat {
		return evalFloatBinary(e.Op, toFloat(left), toFloat(right))
	}

	resultType := ctypes.UsualArithmeticConversions(left.Type, right.Type)
	l := wrap(left.Int, resultType)
	r := wrap(right.Int, resultType)
	return evalIntBinary(e.Op, l, r, resultType)
}

func boolConst(b bool) Constant {
	v := int64(0)
	if b {
		v = 1
	}
	return Constant{Kind: KindInt, Int: big.NewInt(v), Type: intType(ctypes.SignedInt)}
}

func evalShift(op ast.BinaryOp, left, right Constant) (Constant, error) {
	if left.Kind != KindInt || right.Kind != KindInt {
		return Constant{}, ErrNotConstant
	}
	// §4.5: "<< >> promotes each operand individually (no common type) and
	// the result type is the promoted left type".
	lt := ctypes.PromoteInteger(left.Type)
	l := wrap(left.Int, lt)
	shift := uint(right.Int.Int64())

	var result *big.Int
	if op == ast.OpShl {
		result = new(big.Int).Lsh(l, shift)
	} else {
		result = new(big.Int).Rsh(l, shift)
	}
	return Constant{Kind: KindInt, Int: wrap(result, lt), Type: lt}, nil
}

func evalFloatBinary(op ast.BinaryOp, l, r float64) (Constant, error) {
	switch op {
	case ast.OpAdd:
		return Constant{Kind: KindFloat, Float: l + r, Type: intType(ctypes.Double)}, nil
	case ast.OpSub:
		return Constant{Kind: KindFloat, Float: l - r, Type: intType(ctypes.Double)}, nil
	case ast.OpMul:
		return Constant{Kind: KindFloat, Float: l * r, Type: intType(ctypes.Double)}, nil
	case ast.OpDiv:
		if r == 0 {
			return Constant{}, ErrDivByZero
		}
		return Constant{Kind: KindFloat, Float: l / r, Type: intType(ctypes.Double)}, nil
	case ast.OpLt:
		return boolConst(l < r), nil
	case ast.OpLe:
		return boolConst(l <= r), nil
	case ast.OpGt:
		return boolConst(l > r), nil
	case ast.OpGe:
		return boolConst(l >= r), nil
	case ast.OpEq:
		return boolConst(l == r), nil
	case ast.OpNe:
		return boolConst(l != r), nil
	default:
		return Constant{}, ErrNotConstant
	}
}

func evalIntBinary(op ast.BinaryOp, l, r *big.Int, resultType ctypes.DataType) (Constant, error) {
	switch op {
	case ast.OpAdd:
		return Constant{Kind: KindInt, Int: wrap(new(big.Int).Add(l, r), resultType), Type: resultType}, nil
	case ast.OpSub:
		return Constant{Kind: KindInt, Int: wrap(new(big.Int).Sub(l, r), resultType), Type: resultType}, nil
	case ast.OpMul:
		return Constant{Kind: KindInt, Int: wrap(new(big.Int).Mul(l, r), resultType), Type: resultType}, nil
	case ast.OpDiv:
		if r.Sign() == 0 {
			return Constant{}, ErrDivByZero
		}
		return Constant{Kind: KindInt, Int: wrap(new(big.Int).Quo(l, r), resultType), Type: resultType}, nil
	case ast.OpMod:
		if r.Sign() == 0 {
			return Constant{}, ErrDivByZero
		}
		return Constant{Kind: KindInt, Int: wrap(new(big.Int).Rem(l, r), resultType), Type: resultType}, nil
	case ast.OpBitAnd:
		return Constant{Kind: KindInt, Int: wrap(new(big.Int).And(l, r), resultType), Type: resultType}, nil
	case ast.OpBitOr:
		return Constant{Kind: KindInt, Int: wrap(new(big.Int).Or(l, r), resultType), Type: resultType}, nil
	case ast.OpBitXor:
		return Constant{Kind: KindInt, Int: wrap(new(big.Int).Xor(l, r), resultType), Type: resultType}, nil
	case ast.OpLt:
		return boolConst(l.Cmp(r) < 0), nil
	case ast.OpLe:
		return boolConst(l.Cmp(r) <= 0), nil
	case ast.OpGt:
		return boolConst(l.Cmp(r) > 0), nil
	case ast.OpGe:
		return boolConst(l.Cmp(r) >= 0), nil
	case ast.OpEq:
		return boolConst(l.Cmp(r) == 0), nil
	case ast.OpNe:
		return boolConst(l.Cmp(r) != 0), nil
	default:
		return Constant{}, ErrNotConstant
	}
}
