package ir

import (
	"math/big"

	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

// ExpressionP is the closed sum of processed expression nodes (spec §3.3).
type ExpressionP interface {
	Type() ctypes.DataType
	implExpressionP()
}

// BinaryOp is a lowered binary operator; shift and pointer-arithmetic
// scaling have already been resolved by the Expression Processor, so the
// code generator never needs to re-derive them.
type BinaryOp int

const (
	OpAdd BinaryOp = iota
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpLt
	OpLe
	OpGt
	OpGe
	OpEq
	OpNe
	OpLogAnd
	OpLogOr
)

// BinaryExpressionP is a fully-typed binary operation over two already
// scalar, already-converted operands.
type BinaryExpressionP struct {
	Op          BinaryOp
	Left, Right ExpressionP
	ResultType  ctypes.DataType
}

func (b *BinaryExpressionP) Type() ctypes.DataType { return b.ResultType }
func (*BinaryExpressionP) implExpressionP()        {}

// UnaryOp is a lowered unary operator. OpConvert represents an implicit or
// explicit scalar conversion, materialized explicitly per spec §4.5's
// "Conversions" note so the code generator need not re-derive them; From
// holds the source type in that case.
type UnaryOp int

const (
	OpNeg UnaryOp = iota
	OpPos
	OpBitNot
	OpLogNot
	OpConvert
)

// UnaryExpressionP is a unary operation (including materialized conversions).
type UnaryExpressionP struct {
	Op         UnaryOp
	Operand    ExpressionP
	From       ctypes.DataType // meaningful only when Op == OpConvert
	ResultType ctypes.DataType
}

func (u *UnaryExpressionP) Type() ctypes.DataType { return u.ResultType }
func (*UnaryExpressionP) implExpressionP()        {}

// ConstantP is a literal integer or float value, already wrapped to its
// type's width (for integers).
type ConstantP struct {
	IsFloat    bool
	IntValue   *big.Int
	FloatValue float64
	ResultType ctypes.DataType
}

func (c *ConstantP) Type() ctypes.DataType { return c.ResultType }
func (*ConstantP) implExpressionP()        {}

// AddressSpace discriminates which memory region an Address refers to.
type AddressSpace int

const (
	LocalAddress AddressSpace = iota
	DataSegmentAddress
	FunctionTableAddress
)

// Address is a bare address computation: a frame-relative local slot, an
// absolute data-segment offset, or an index into Root.FunctionTable.
type Address struct {
	Space        AddressSpace
	Offset       int // meaningful for LocalAddress, DataSegmentAddress
	FunctionIndex int // meaningful for FunctionTableAddress
	ResultType   ctypes.DataType
}

func (a *Address) Type() ctypes.DataType { return a.ResultType }
func (*Address) implExpressionP()        {}

// MemoryLoad reads a scalar value from the address Addr evaluates to.
type MemoryLoad struct {
	Addr       ExpressionP
	ResultType ctypes.DataType
}

func (m *MemoryLoad) Type() ctypes.DataType { return m.ResultType }
func (*MemoryLoad) implExpressionP()        {}

// PreStatementExpressionP sequences a store before its result is read: used
// for prefix `++`/`--`, whose value is the updated value (spec §4.5).
type PreStatementExpressionP struct {
	Update *MemoryStore
	Result ExpressionP // a MemoryLoad of the same address, post-update
}

func (p *PreStatementExpressionP) Type() ctypes.DataType { return p.Result.Type() }
func (*PreStatementExpressionP) implExpressionP()        {}

// PostStatementExpressionP sequences a store after its result is read: used
// for postfix `++`/`--`, whose value is the value before the update.
type PostStatementExpressionP struct {
	Result ExpressionP // a MemoryLoad of the address, pre-update
	Update *MemoryStore
}

func (p *PostStatementExpressionP) Type() ctypes.DataType { return p.Result.Type() }
func (*PostStatementExpressionP) implExpressionP()        {}
