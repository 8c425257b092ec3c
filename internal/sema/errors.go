package sema

import (
	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/cerr"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

// scalarRequiredError renders spec §7's "used 'T' where scalar is required",
// raised by every context that requires a condition or logical operand
// (if/while/for conditions, &&/||, ! and the ternary condition).
func scalarRequiredError(t ctypes.DataType) *cerr.ProcessingError {
	return cerr.Newf(cerr.PhaseExpr, cerr.KindOperandType, "used '%s' where scalar is required", t.String())
}

func binaryOperandError(op string, a, b ctypes.DataType) *cerr.ProcessingError {
	return cerr.Newf(cerr.PhaseExpr, cerr.KindOperandType, "invalid operands to binary '%s' (have '%s' and '%s')", op, a.String(), b.String())
}

func wrongUnaryOperandError(op string, t ctypes.DataType) *cerr.ProcessingError {
	return cerr.Newf(cerr.PhaseExpr, cerr.KindOperandType, "wrong type argument to unary '%s' (have '%s')", op, t.String())
}

func binOpSymbol(op ast.BinaryOp) string {
	switch op {
	case ast.OpMul:
		return "*"
	case ast.OpDiv:
		return "/"
	case ast.OpMod:
		return "%"
	case ast.OpAdd:
		return "+"
	case ast.OpSub:
		return "-"
	case ast.OpShl:
		return "<<"
	case ast.OpShr:
		return ">>"
	case ast.OpLt:
		return "<"
	case ast.OpLe:
		return "<="
	case ast.OpGt:
		return ">"
	case ast.OpGe:
		return ">="
	case ast.OpEq:
		return "=="
	case ast.OpNe:
		return "!="
	case ast.OpBitAnd:
		return "&"
	case ast.OpBitXor:
		return "^"
	case ast.OpBitOr:
		return "|"
	case ast.OpLogAnd:
		return "&&"
	case ast.OpLogOr:
		return "||"
	case ast.OpComma:
		return ","
	default:
		return "?"
	}
}
