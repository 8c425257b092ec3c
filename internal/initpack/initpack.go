// Package initpack implements the Initializer Unpacker (spec §4.4): a
// single recursive algorithm that walks a data type and an input
// initializer in lock-step and produces either local memory-store IR or a
// data-segment byte string, depending on which Sink it is driven with.
//
// Grounded on the teacher's transcoder/internal/layout package, which walks
// a WIT type tree and a byte cursor in lock-step to compute ABI offsets;
// here the cursor walks an ast.Initializer tree instead of a fixed byte
// layout, but the "recurse, advance a cursor, detect excess" shape is the
// same idiom.
package initpack

import (
	"errors"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/consteval"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/ir"
)

// ErrExcessElements is the canonical "excess elements in initializer" error
// (spec §7).
var ErrExcessElements = errors.New("excess elements in initializer")

// ErrNotConstant is the canonical "initializer element is not constant"
// error (spec §7), raised only by the data-segment variant.
var ErrNotConstant = errors.New("initializer element is not constant")

// Env supplies the collaborators the Unpacker needs without depending on
// the Expression Processor directly (same pattern as consteval.Env): the
// local variant needs to turn a scalar initializer expression into IR, the
// data-segment variant needs to fold it to a compile-time constant.
type Env interface {
	ProcessExpression(e ast.Expression) (*ir.ExpressionWrapperP, error)
	Eval(e ast.Expression) (consteval.Constant, error)
}

// sink receives each scalar slot the walk visits, in layout order. The
// local and data-segment variants differ only in how they implement it.
type sink interface {
	scalar(dt ctypes.DataType, expr ast.Expression, byteOffset int) error
	copyAggregate(dt ctypes.DataType, expr ast.Expression, byteOffset int) error
	// aggregateTypeOf reports expr's own type when it is itself an array or
	// struct value, so the walker can decide whether a bare (non-list)
	// initializer element should be consumed whole (spec §4.4).
	aggregateTypeOf(expr ast.Expression) (ctypes.DataType, bool)
}

// incompatibleTypeError renders spec §7's initializer-type-mismatch phrasing.
func incompatibleTypeError(lvalue, rvalue ctypes.DataType) error {
	return errIncompatible{lvalue, rvalue}
}

type errIncompatible struct {
	lvalue, rvalue ctypes.DataType
}

func (e errIncompatible) Error() string {
	return "incompatible types when initializing type '" + e.lvalue.String() +
		"' using type '" + e.rvalue.String() + "'"
}

// UnpackLocal runs the local variant: init must be non-nil (callers only
// invoke the Unpacker for declarations that actually carry an
// initializer); space and baseOffset fix where the object itself lives.
func UnpackLocal(dt ctypes.DataType, init ast.Initializer, space ir.AddressSpace, baseOffset int, env Env) ([]ir.StatementP, error) {
	s := &localSink{space: space, base: baseOffset, env: env}
	if err := unpack(dt, init, 0, s, env); err != nil {
		return nil, err
	}
	return s.stmts, nil
}

// UnpackDataSegment runs the data-segment variant. init may be nil, which
// per spec §4.4 produces a fully-zeroed byte string of the declared size
// (tentative definition semantics).
func UnpackDataSegment(dt ctypes.DataType, init ast.Initializer, env Env) ([]byte, error) {
	if init == nil {
		sz, err := ctypes.Size(dt)
		if err != nil {
			return nil, err
		}
		return make([]byte, sz), nil
	}
	s := &dataSegSink{env: env}
	if err := unpack(dt, init, 0, s, env); err != nil {
		return nil, err
	}
	return s.bytes, nil
}

