package initpack

import (
	"math/big"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/ir"
)

// localSink realizes the local variant: every scalar slot becomes a
// MemoryStore appended in visitation order (spec §4.4).
type localSink struct {
	space ir.AddressSpace
	base  int
	env   Env
	stmts []ir.StatementP
}

func (ls *localSink) scalar(dt ctypes.DataType, expr ast.Expression, byteOffset int) error {
	var value ir.ExpressionP
	if expr == nil {
		value = zeroConstant(dt)
	} else {
		wrapper, err := ls.env.ProcessExpression(expr)
		if err != nil {
			return err
		}
		isNullPointerConstant := false
		if c, err := ls.env.Eval(expr); err == nil && c.IsZero() {
			isNullPointerConstant = true
		}
		rvalueType := ctypes.Decay(wrapper.OriginalDataType)
		if !ctypes.CanAssign(dt, rvalueType, isNullPointerConstant) {
			return incompatibleTypeError(dt, rvalueType)
		}
		value = convertIfNeeded(wrapper.Exprs[0], rvalueType, dt)
	}

	ls.stmts = append(ls.stmts, &ir.MemoryStore{
		Addr:      &ir.Address{Space: ls.space, Offset: ls.base + byteOffset, ResultType: dt},
		Value:     value,
		ValueType: dt,
	})
	return nil
}

func (ls *localSink) copyAggregate(dt ctypes.DataType, expr ast.Expression, byteOffset int) error {
	wrapper, err := ls.env.ProcessExpression(expr)
	if err != nil {
		return err
	}
	slots, err := flattenScalarSlots(dt, ls.base+byteOffset)
	if err != nil {
		return err
	}
	if len(slots) != len(wrapper.Exprs) {
		return incompatibleTypeError(dt, wrapper.OriginalDataType)
	}
	for i, slot := range slots {
		ls.stmts = append(ls.stmts, &ir.MemoryStore{
			Addr:      &ir.Address{Space: ls.space, Offset: slot.Offset, ResultType: slot.Type},
			Value:     wrapper.Exprs[i],
			ValueType: slot.Type,
		})
	}
	return nil
}

func (ls *localSink) aggregateTypeOf(expr ast.Expression) (ctypes.DataType, bool) {
	wrapper, err := ls.env.ProcessExpression(expr)
	if err != nil {
		return nil, false
	}
	switch wrapper.OriginalDataType.(type) {
	case *ctypes.Array, *ctypes.Struct:
		return wrapper.OriginalDataType, true
	default:
		return nil, false
	}
}

func zeroConstant(dt ctypes.DataType) ir.ExpressionP {
	if p, ok := dt.(*ctypes.Primary); ok && p.Prim.IsFloat() {
		return &ir.ConstantP{IsFloat: true, FloatValue: 0, ResultType: dt}
	}
	return &ir.ConstantP{IntValue: big.NewInt(0), ResultType: dt}
}

// convertIfNeeded materializes an explicit conversion node whenever value's
// static type isn't already compatible with to (spec §4.5's "Conversions"
// note), so the code generator never has to re-derive an implicit
// conversion.
func convertIfNeeded(value ir.ExpressionP, from, to ctypes.DataType) ir.ExpressionP {
	if ctypes.IsCompatible(from, to, true) {
		return value
	}
	return &ir.UnaryExpressionP{Op: ir.OpConvert, Operand: value, From: from, ResultType: to}
}
