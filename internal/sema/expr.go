package sema

import (
	"fmt"
	"math/big"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/cerr"
	"github.com/MrShadowKiller/c-slang/internal/consteval"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/internal/symtab"
	"github.com/MrShadowKiller/c-slang/ir"
)

// lvalue is an address together with the type stored there. Addr is any
// ir.ExpressionP: a named-storage location is a *ir.Address whose Offset can
// be bumped in place at zero runtime cost, while a runtime-computed address
// (pointer arithmetic, `p->field`) is whatever expression computed it —
// ir.MemoryLoad/ir.MemoryStore accept either uniformly.
type lvalue struct {
	Addr ir.ExpressionP
	Type ctypes.DataType
}

// offsetAddr adds a constant byte offset to base. A named-storage Address
// just gets its Offset bumped; anything else is wrapped in pointer addition.
func offsetAddr(base ir.ExpressionP, add int) ir.ExpressionP {
	if add == 0 {
		return base
	}
	if a, ok := base.(*ir.Address); ok {
		cp := *a
		cp.Offset += add
		return &cp
	}
	addrType := &ctypes.Primary{Prim: ctypes.UnsignedInt}
	return &ir.BinaryExpressionP{Op: ir.OpAdd, Left: base, Right: intConst(int64(add), addrType), ResultType: base.Type()}
}

func intConst(v int64, t ctypes.DataType) ir.ExpressionP {
	return &ir.ConstantP{IntValue: big.NewInt(v), ResultType: t}
}

// loadFrom reads the value stored at addr, whose static type is t: a scalar
// becomes one MemoryLoad, a struct becomes one MemoryLoad per flattened
// scalar field (spec §9's flat-vector design note), and an array or function
// decays to the bare address value.
func loadFrom(addr ir.ExpressionP, t ctypes.DataType) (*ir.ExpressionWrapperP, error) {
	switch v := t.(type) {
	case *ctypes.Struct:
		slots, err := ctypes.FlattenScalarSlots(v)
		if err != nil {
			return nil, err
		}
		exprs := make([]ir.ExpressionP, len(slots))
		for i, s := range slots {
			exprs[i] = &ir.MemoryLoad{Addr: offsetAddr(addr, s.Offset), ResultType: s.Type}
		}
		return &ir.ExpressionWrapperP{OriginalDataType: t, Exprs: exprs}, nil
	case *ctypes.Array, *ctypes.Function:
		return &ir.ExpressionWrapperP{OriginalDataType: t, Exprs: []ir.ExpressionP{addr}}, nil
	case *ctypes.Void:
		return &ir.ExpressionWrapperP{OriginalDataType: t, Exprs: nil}, nil
	default:
		return &ir.ExpressionWrapperP{OriginalDataType: t, Exprs: []ir.ExpressionP{&ir.MemoryLoad{Addr: addr, ResultType: t}}}, nil
	}
}

func isArithmeticType(t ctypes.DataType) bool {
	switch t.(type) {
	case *ctypes.Primary, *ctypes.Enum:
		return true
	default:
		return false
	}
}

func isIntegerType(t ctypes.DataType) bool {
	switch v := t.(type) {
	case *ctypes.Primary:
		return v.Prim.IsInteger()
	case *ctypes.Enum:
		return true
	default:
		return false
	}
}

func isPointerType(t ctypes.DataType) (*ctypes.Pointer, bool) {
	p, ok := t.(*ctypes.Pointer)
	return p, ok
}

// convertIfNeeded materializes an explicit conversion node whenever value's
// static type isn't already compatible with to, mirroring
// internal/initpack's helper of the same name (spec §4.5's "Conversions" note).
func convertIfNeeded(value ir.ExpressionP, from, to ctypes.DataType) ir.ExpressionP {
	if ctypes.IsCompatible(from, to, true) {
		return value
	}
	return &ir.UnaryExpressionP{Op: ir.OpConvert, Operand: value, From: from, ResultType: to}
}

// ProcessExpression lowers e to its typed IR form (spec §4.5).
func (p *Processor) ProcessExpression(e ast.Expression) (*ir.ExpressionWrapperP, error) {
	switch v := e.(type) {
	case *ast.IdentifierExpr:
		return p.processIdentifier(v)
	case *ast.IntLiteralExpr:
		return p.processLiteral(v)
	case *ast.FloatLiteralExpr:
		return p.processLiteral(v)
	case *ast.CharLiteralExpr:
		return p.processLiteral(v)
	case *ast.StringLiteralExpr:
		return p.processStringLiteral(v)
	case *ast.UnaryExpr:
		return p.processUnary(v)
	case *ast.SizeofTypeExpr:
		return p.processSizeofType(v)
	case *ast.SizeofExprExpr:
		return p.processSizeofExpr(v)
	case *ast.CastExpr:
		return p.processCast(v)
	case *ast.BinaryExpr:
		return p.processBinary(v)
	case *ast.ConditionalExpr:
		return p.processConditional(v)
	case *ast.AssignExpr:
		return p.processAssign(v)
	case *ast.CallExpr:
		return p.processCall(v)
	case *ast.IndexExpr:
		return p.processIndex(v)
	case *ast.MemberExpr:
		return p.processMember(v)
	default:
		return nil, fmt.Errorf("sema: unrecognized expression %T", e)
	}
}

func (p *Processor) processIdentifier(v *ast.IdentifierExpr) (*ir.ExpressionWrapperP, error) {
	e, ok := p.Table.Lookup(v.Name)
	if !ok {
		if _, bound, err := p.bindExternalFunction(v.Name); err != nil {
			return nil, cerr.At(v.Pos(), err)
		} else if bound {
			e, ok = p.Table.Lookup(v.Name)
		}
	}
	if !ok {
		return nil, undeclared(v.Pos(), v.Name)
	}
	switch e.Kind {
	case symtab.EntryLocalVariable:
		return loadFrom(&ir.Address{Space: ir.LocalAddress, Offset: e.Offset, ResultType: e.Type}, e.Type)
	case symtab.EntryDataSegmentVariable:
		return loadFrom(&ir.Address{Space: ir.DataSegmentAddress, Offset: e.Offset, ResultType: e.Type}, e.Type)
	case symtab.EntryFunction:
		idx := p.functionTableIndexFor(v.Name)
		ptrType := &ctypes.Pointer{Pointee: e.Type}
		addr := &ir.Address{Space: ir.FunctionTableAddress, FunctionIndex: idx, ResultType: ptrType}
		return &ir.ExpressionWrapperP{OriginalDataType: e.Type, Exprs: []ir.ExpressionP{addr}}, nil
	case symtab.EntryEnumerator:
		signedInt := &ctypes.Primary{Prim: ctypes.SignedInt}
		return &ir.ExpressionWrapperP{OriginalDataType: signedInt, Exprs: []ir.ExpressionP{intConst(e.EnumValue, signedInt)}}, nil
	default:
		return nil, undeclared(v.Pos(), v.Name)
	}
}

func (p *Processor) processLiteral(e ast.Expression) (*ir.ExpressionWrapperP, error) {
	c, err := consteval.Eval(e, p)
	if err != nil {
		return nil, cerr.At(e.Pos(), err)
	}
	if c.Kind == consteval.KindFloat {
		return &ir.ExpressionWrapperP{OriginalDataType: c.Type, Exprs: []ir.ExpressionP{&ir.ConstantP{IsFloat: true, FloatValue: c.Float, ResultType: c.Type}}}, nil
	}
	return &ir.ExpressionWrapperP{OriginalDataType: c.Type, Exprs: []ir.ExpressionP{&ir.ConstantP{IntValue: c.Int, ResultType: c.Type}}}, nil
}

func (p *Processor) processStringLiteral(v *ast.StringLiteralExpr) (*ir.ExpressionWrapperP, error) {
	bytes := append([]byte(v.Value), 0)
	offset := p.Table.AllocateDataSegment(bytes)
	elemType := &ctypes.Primary{Prim: ctypes.SignedChar}
	arrType := &ctypes.Array{Element: elemType, Length: int64(len(bytes))}
	addr := &ir.Address{Space: ir.DataSegmentAddress, Offset: offset, ResultType: &ctypes.Pointer{Pointee: elemType}}
	return &ir.ExpressionWrapperP{OriginalDataType: arrType, Exprs: []ir.ExpressionP{addr}}, nil
}

func (p *Processor) processSizeofType(v *ast.SizeofTypeExpr) (*ir.ExpressionWrapperP, error) {
	sz, err := p.SizeofType(v.Type)
	if err != nil {
		return nil, cerr.At(v.Pos(), err)
	}
	ult := &ctypes.Primary{Prim: ctypes.UnsignedLong}
	return &ir.ExpressionWrapperP{OriginalDataType: ult, Exprs: []ir.ExpressionP{intConst(int64(sz), ult)}}, nil
}

func (p *Processor) processSizeofExpr(v *ast.SizeofExprExpr) (*ir.ExpressionWrapperP, error) {
	sz, err := p.SizeofExpr(v.Operand)
	if err != nil {
		return nil, cerr.At(v.Pos(), err)
	}
	ult := &ctypes.Primary{Prim: ctypes.UnsignedLong}
	return &ir.ExpressionWrapperP{OriginalDataType: ult, Exprs: []ir.ExpressionP{intConst(int64(sz), ult)}}, nil
}

func (p *Processor) processCast(v *ast.CastExpr) (*ir.ExpressionWrapperP, error) {
	wrapper, err := p.ProcessExpression(v.Operand)
	if err != nil {
		return nil, err
	}
	target, err := p.ResolveType(v.Type)
	if err != nil {
		return nil, err
	}
	target = ctypes.Decay(target)
	from := ctypes.Decay(wrapper.OriginalDataType)

	if target.Kind() == ctypes.KindVoid {
		return &ir.ExpressionWrapperP{OriginalDataType: target, Exprs: nil}, nil
	}
	if !ctypes.IsScalar(target) {
		return nil, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindOperandType, "used invalid type for cast"))
	}
	if !ctypes.IsScalar(from) {
		return nil, cerr.At(v.Pos(), scalarRequiredError(from))
	}
	val := convertIfNeeded(wrapper.Exprs[0], from, target)
	return &ir.ExpressionWrapperP{OriginalDataType: target, Exprs: []ir.ExpressionP{val}}, nil
}

// --- unary operators ---

func (p *Processor) processUnary(v *ast.UnaryExpr) (*ir.ExpressionWrapperP, error) {
	switch v.Op {
	case ast.OpAddrOf:
		return p.processAddrOf(v)
	case ast.OpDeref:
		lv, err := p.processLValue(v)
		if err != nil {
			return nil, err
		}
		return loadFrom(lv.Addr, lv.Type)
	case ast.OpPlus, ast.OpMinus:
		return p.processUnaryArith(v)
	case ast.OpBitNot:
		return p.processBitNot(v)
	case ast.OpLogNot:
		return p.processLogNot(v)
	case ast.OpPreInc, ast.OpPreDec, ast.OpPostInc, ast.OpPostDec:
		return p.processIncDec(v)
	default:
		return nil, fmt.Errorf("sema: unrecognized unary operator")
	}
}

func (p *Processor) processAddrOf(v *ast.UnaryExpr) (*ir.ExpressionWrapperP, error) {
	lv, err := p.processLValue(v.Operand)
	if err != nil {
		return nil, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindLvalue, "lvalue required for unary '&' operand"))
	}
	ptrType := &ctypes.Pointer{Pointee: lv.Type}
	return &ir.ExpressionWrapperP{OriginalDataType: ptrType, Exprs: []ir.ExpressionP{retypeAddr(lv.Addr, ptrType)}}, nil
}

func retypeAddr(addr ir.ExpressionP, ptrType *ctypes.Pointer) ir.ExpressionP {
	if a, ok := addr.(*ir.Address); ok {
		cp := *a
		cp.ResultType = ptrType
		return &cp
	}
	return addr
}

func (p *Processor) processUnaryArith(v *ast.UnaryExpr) (*ir.ExpressionWrapperP, error) {
	wrapper, err := p.ProcessExpression(v.Operand)
	if err != nil {
		return nil, err
	}
	rt := ctypes.Decay(wrapper.OriginalDataType)
	sym := "+"
	if v.Op == ast.OpMinus {
		sym = "-"
	}
	if !isArithmeticType(rt) {
		return nil, cerr.At(v.Pos(), wrongUnaryOperandError(sym, rt))
	}
	promoted := ctypes.PromoteInteger(rt)
	val := convertIfNeeded(wrapper.Exprs[0], rt, promoted)
	op := ir.OpPos
	if v.Op == ast.OpMinus {
		op = ir.OpNeg
	}
	un := &ir.UnaryExpressionP{Op: op, Operand: val, ResultType: promoted}
	return &ir.ExpressionWrapperP{OriginalDataType: promoted, Exprs: []ir.ExpressionP{un}}, nil
}

func (p *Processor) processBitNot(v *ast.UnaryExpr) (*ir.ExpressionWrapperP, error) {
	wrapper, err := p.ProcessExpression(v.Operand)
	if err != nil {
		return nil, err
	}
	rt := ctypes.Decay(wrapper.OriginalDataType)
	if !isIntegerType(rt) {
		return nil, cerr.At(v.Pos(), wrongUnaryOperandError("~", rt))
	}
	promoted := ctypes.PromoteInteger(rt)
	val := convertIfNeeded(wrapper.Exprs[0], rt, promoted)
	un := &ir.UnaryExpressionP{Op: ir.OpBitNot, Operand: val, ResultType: promoted}
	return &ir.ExpressionWrapperP{OriginalDataType: promoted, Exprs: []ir.ExpressionP{un}}, nil
}

func (p *Processor) processLogNot(v *ast.UnaryExpr) (*ir.ExpressionWrapperP, error) {
	wrapper, err := p.ProcessExpression(v.Operand)
	if err != nil {
		return nil, err
	}
	rt := ctypes.Decay(wrapper.OriginalDataType)
	if !ctypes.IsScalar(rt) {
		return nil, cerr.At(v.Pos(), scalarRequiredError(rt))
	}
	signedInt := &ctypes.Primary{Prim: ctypes.SignedInt}
	un := &ir.UnaryExpressionP{Op: ir.OpLogNot, Operand: wrapper.Exprs[0], ResultType: signedInt}
	return &ir.ExpressionWrapperP{OriginalDataType: signedInt, Exprs: []ir.ExpressionP{un}}, nil
}

func (p *Processor) processIncDec(v *ast.UnaryExpr) (*ir.ExpressionWrapperP, error) {
	lv, lvErr := p.processLValue(v.Operand)
	if lvErr != nil || !ctypes.IsModifiableLvalueType(lv.Type) {
		return nil, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindLvalue, "argument to increment is not a modifiable lvalue"))
	}

	isDec := v.Op == ast.OpPreDec || v.Op == ast.OpPostDec
	isPost := v.Op == ast.OpPostInc || v.Op == ast.OpPostDec

	var step ir.ExpressionP
	if ptr, ok := lv.Type.(*ctypes.Pointer); ok {
		sz, err := ctypes.Size(ptr.Pointee)
		if err != nil {
			return nil, cerr.At(v.Pos(), err)
		}
		step = intConst(int64(sz), &ctypes.Primary{Prim: ctypes.UnsignedInt})
	} else if isArithmeticType(lv.Type) {
		step = intConst(1, lv.Type)
	} else {
		return nil, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindLvalue, "argument to increment is not a modifiable lvalue"))
	}

	load := &ir.MemoryLoad{Addr: lv.Addr, ResultType: lv.Type}
	op := ir.OpAdd
	if isDec {
		op = ir.OpSub
	}
	updated := &ir.BinaryExpressionP{Op: op, Left: load, Right: step, ResultType: lv.Type}
	store := &ir.MemoryStore{Addr: lv.Addr, Value: updated, ValueType: lv.Type}

	var result ir.ExpressionP
	if isPost {
		result = &ir.PostStatementExpressionP{Result: &ir.MemoryLoad{Addr: lv.Addr, ResultType: lv.Type}, Update: store}
	} else {
		result = &ir.PreStatementExpressionP{Update: store, Result: &ir.MemoryLoad{Addr: lv.Addr, ResultType: lv.Type}}
	}
	return &ir.ExpressionWrapperP{OriginalDataType: lv.Type, Exprs: []ir.ExpressionP{result}}, nil
}

// --- lvalues ---

// processLValue resolves e to an address and its stored type. Only a subset
// of expression forms designate an lvalue (spec §4.5); anything else returns
// an error the caller turns into the context-appropriate canonical message.
func (p *Processor) processLValue(e ast.Expression) (lvalue, error) {
	switch v := e.(type) {
	case *ast.IdentifierExpr:
		ent, ok := p.Table.Lookup(v.Name)
		if !ok {
			return lvalue{}, undeclared(v.Pos(), v.Name)
		}
		switch ent.Kind {
		case symtab.EntryLocalVariable:
			return lvalue{Addr: &ir.Address{Space: ir.LocalAddress, Offset: ent.Offset, ResultType: ent.Type}, Type: ent.Type}, nil
		case symtab.EntryDataSegmentVariable:
			return lvalue{Addr: &ir.Address{Space: ir.DataSegmentAddress, Offset: ent.Offset, ResultType: ent.Type}, Type: ent.Type}, nil
		default:
			return lvalue{}, fmt.Errorf("sema: '%s' is not an lvalue", v.Name)
		}

	case *ast.UnaryExpr:
		if v.Op != ast.OpDeref {
			return lvalue{}, fmt.Errorf("sema: not an lvalue")
		}
		wrapper, err := p.ProcessExpression(v.Operand)
		if err != nil {
			return lvalue{}, err
		}
		ot := ctypes.Decay(wrapper.OriginalDataType)
		ptr, ok := ot.(*ctypes.Pointer)
		if !ok {
			return lvalue{}, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindOperandType, "cannot dereference non-pointer type"))
		}
		return lvalue{Addr: wrapper.Exprs[0], Type: ptr.Pointee}, nil

	case *ast.IndexExpr:
		bw, err := p.ProcessExpression(v.Base)
		if err != nil {
			return lvalue{}, err
		}
		bt := ctypes.Decay(bw.OriginalDataType)
		ptr, ok := bt.(*ctypes.Pointer)
		if !ok {
			return lvalue{}, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindOperandType, "cannot dereference non-pointer type"))
		}
		iw, err := p.ProcessExpression(v.Index)
		if err != nil {
			return lvalue{}, err
		}
		it := ctypes.Decay(iw.OriginalDataType)
		if !isIntegerType(it) {
			return lvalue{}, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindOperandType, "array subscript is not an integer"))
		}
		sum, err := p.pointerPlusInt(v.Pos(), ast.OpAdd, ptr, bw.Exprs[0], iw.Exprs[0], it)
		if err != nil {
			return lvalue{}, err
		}
		return lvalue{Addr: sum.Exprs[0], Type: ptr.Pointee}, nil

	case *ast.MemberExpr:
		base, err := p.memberBase(v)
		if err != nil {
			return lvalue{}, err
		}
		st, ok := base.Type.(*ctypes.Struct)
		if !ok {
			return lvalue{}, cerr.At(v.Pos(), cerr.Newf(cerr.PhaseExpr, cerr.KindMember, "request for member '%s' in something that is not a structure", v.Field))
		}
		offset, fieldType, ok := ctypes.FieldOffset(st, v.Field)
		if !ok {
			return lvalue{}, cerr.At(v.Pos(), cerr.Newf(cerr.PhaseExpr, cerr.KindMember, "struct %s has no member named '%s'", st.Tag, v.Field))
		}
		if _, isSelf := fieldType.(*ctypes.StructSelfPointer); isSelf {
			fieldType = &ctypes.Pointer{Pointee: st}
		}
		return lvalue{Addr: offsetAddr(base.Addr, offset), Type: fieldType}, nil

	default:
		return lvalue{}, fmt.Errorf("sema: not an lvalue")
	}
}

func (p *Processor) memberBase(v *ast.MemberExpr) (lvalue, error) {
	if v.IsArrow {
		ow, err := p.ProcessExpression(v.Object)
		if err != nil {
			return lvalue{}, err
		}
		ot := ctypes.Decay(ow.OriginalDataType)
		ptr, ok := ot.(*ctypes.Pointer)
		if !ok {
			return lvalue{}, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindOperandType, "cannot dereference non-pointer type"))
		}
		return lvalue{Addr: ow.Exprs[0], Type: ptr.Pointee}, nil
	}
	return p.processLValue(v.Object)
}

func (p *Processor) processIndex(v *ast.IndexExpr) (*ir.ExpressionWrapperP, error) {
	lv, err := p.processLValue(v)
	if err != nil {
		return nil, err
	}
	return loadFrom(lv.Addr, lv.Type)
}

func (p *Processor) processMember(v *ast.MemberExpr) (*ir.ExpressionWrapperP, error) {
	lv, err := p.processLValue(v)
	if err != nil {
		return nil, err
	}
	return loadFrom(lv.Addr, lv.Type)
}

// --- binary operators ---

func (p *Processor) processBinary(v *ast.BinaryExpr) (*ir.ExpressionWrapperP, error) {
	if v.Op == ast.OpComma {
		if _, err := p.ProcessExpression(v.Left); err != nil {
			return nil, err
		}
		return p.ProcessExpression(v.Right)
	}
	if v.Op == ast.OpLogAnd || v.Op == ast.OpLogOr {
		return p.processLogical(v)
	}

	lw, err := p.ProcessExpression(v.Left)
	if err != nil {
		return nil, err
	}
	rw, err := p.ProcessExpression(v.Right)
	if err != nil {
		return nil, err
	}
	lt := ctypes.Decay(lw.OriginalDataType)
	rt := ctypes.Decay(rw.OriginalDataType)
	return p.dispatchBinary(v.Pos(), v.Op, lw.Exprs[0], rw.Exprs[0], lt, rt)
}

// dispatchBinary applies the binary rule for op to already-evaluated
// operands, independent of the ast.BinaryExpr node — shared between plain
// binary expressions and compound assignment's implicit binary step.
func (p *Processor) dispatchBinary(pos ast.Position, op ast.BinaryOp, l, r ir.ExpressionP, lt, rt ctypes.DataType) (*ir.ExpressionWrapperP, error) {
	switch op {
	case ast.OpShl, ast.OpShr:
		return p.processShift(pos, op, l, r, lt, rt)
	case ast.OpAdd, ast.OpSub:
		return p.processAdditive(pos, op, l, r, lt, rt)
	default:
		return p.processArithmeticOrComparison(pos, op, l, r, lt, rt)
	}
}

// processLogical lowers && and || with genuine short-circuit control flow: the
// right operand's side effects are captured (not flushed unconditionally) and
// attached as the appropriate branch of a SelectionStatementP, since the IR
// has no boolean-valued control node of its own.
func (p *Processor) processLogical(v *ast.BinaryExpr) (*ir.ExpressionWrapperP, error) {
	lw, err := p.ProcessExpression(v.Left)
	if err != nil {
		return nil, err
	}
	lt := ctypes.Decay(lw.OriginalDataType)
	if !ctypes.IsScalar(lt) {
		return nil, cerr.At(v.Pos(), scalarRequiredError(lt))
	}

	signedInt := &ctypes.Primary{Prim: ctypes.SignedInt}
	tmp := p.Table.AllocateLocal(4)
	tmpAddr := &ir.Address{Space: ir.LocalAddress, Offset: tmp, ResultType: signedInt}

	rhsStmts, err := p.withStatements(func() error {
		rw, err := p.ProcessExpression(v.Right)
		if err != nil {
			return err
		}
		rt := ctypes.Decay(rw.OriginalDataType)
		if !ctypes.IsScalar(rt) {
			return scalarRequiredError(rt)
		}
		truth := &ir.UnaryExpressionP{Op: ir.OpLogNot, Operand: &ir.UnaryExpressionP{Op: ir.OpLogNot, Operand: rw.Exprs[0], ResultType: signedInt}, ResultType: signedInt}
		p.emit(&ir.MemoryStore{Addr: tmpAddr, Value: truth, ValueType: signedInt})
		return nil
	})
	if err != nil {
		return nil, cerr.At(v.Pos(), err)
	}

	zero := &ir.MemoryStore{Addr: tmpAddr, Value: intConst(0, signedInt), ValueType: signedInt}
	one := &ir.MemoryStore{Addr: tmpAddr, Value: intConst(1, signedInt), ValueType: signedInt}

	var sel *ir.SelectionStatementP
	if v.Op == ast.OpLogAnd {
		sel = &ir.SelectionStatementP{Cond: lw.Exprs[0], Then: rhsStmts, Else: []ir.StatementP{zero}}
	} else {
		sel = &ir.SelectionStatementP{Cond: lw.Exprs[0], Then: []ir.StatementP{one}, Else: rhsStmts}
	}
	p.emit(sel)
	return loadFrom(tmpAddr, signedInt)
}

func (p *Processor) processShift(pos ast.Position, op ast.BinaryOp, l, r ir.ExpressionP, lt, rt ctypes.DataType) (*ir.ExpressionWrapperP, error) {
	if !isIntegerType(lt) || !isIntegerType(rt) {
		return nil, cerr.At(pos, binaryOperandError(binOpSymbol(op), lt, rt))
	}
	promotedL := ctypes.PromoteInteger(lt)
	promotedR := ctypes.PromoteInteger(rt)
	lv := convertIfNeeded(l, lt, promotedL)
	rv := convertIfNeeded(r, rt, promotedR)
	irOp := ir.OpShl
	if op == ast.OpShr {
		irOp = ir.OpShr
	}
	bin := &ir.BinaryExpressionP{Op: irOp, Left: lv, Right: rv, ResultType: promotedL}
	return &ir.ExpressionWrapperP{OriginalDataType: promotedL, Exprs: []ir.ExpressionP{bin}}, nil
}

func (p *Processor) processAdditive(pos ast.Position, op ast.BinaryOp, l, r ir.ExpressionP, lt, rt ctypes.DataType) (*ir.ExpressionWrapperP, error) {
	lp, lIsPtr := isPointerType(lt)
	rp, rIsPtr := isPointerType(rt)

	switch {
	case lIsPtr && rIsPtr && op == ast.OpSub:
		if !ctypes.IsCompatible(lp.Pointee, rp.Pointee, true) {
			return nil, cerr.At(pos, binaryOperandError("-", lt, rt))
		}
		elemSize, err := ctypes.Size(lp.Pointee)
		if err != nil {
			return nil, cerr.At(pos, err)
		}
		longType := &ctypes.Primary{Prim: ctypes.SignedLong}
		diff := &ir.BinaryExpressionP{Op: ir.OpSub, Left: l, Right: r, ResultType: longType}
		divided := &ir.BinaryExpressionP{Op: ir.OpDiv, Left: diff, Right: intConst(int64(elemSize), longType), ResultType: longType}
		return &ir.ExpressionWrapperP{OriginalDataType: longType, Exprs: []ir.ExpressionP{divided}}, nil

	case lIsPtr && isIntegerType(rt):
		return p.pointerPlusInt(pos, op, lp, l, r, rt)

	case rIsPtr && isIntegerType(lt) && op == ast.OpAdd:
		return p.pointerPlusInt(pos, op, rp, r, l, lt)

	case isArithmeticType(lt) && isArithmeticType(rt):
		resultType := ctypes.UsualArithmeticConversions(lt, rt)
		lv := convertIfNeeded(l, lt, resultType)
		rv := convertIfNeeded(r, rt, resultType)
		irOp := ir.OpAdd
		if op == ast.OpSub {
			irOp = ir.OpSub
		}
		bin := &ir.BinaryExpressionP{Op: irOp, Left: lv, Right: rv, ResultType: resultType}
		return &ir.ExpressionWrapperP{OriginalDataType: resultType, Exprs: []ir.ExpressionP{bin}}, nil

	default:
		return nil, cerr.At(pos, binaryOperandError(binOpSymbol(op), lt, rt))
	}
}

// pointerPlusInt scales idxVal by sizeof(ptr.Pointee) and adds it to ptrVal
// (spec §4.1's pointer arithmetic), used by +/- and by array subscripting,
// which is defined as `*(a + i)`.
func (p *Processor) pointerPlusInt(pos ast.Position, op ast.BinaryOp, ptr *ctypes.Pointer, ptrVal, idxVal ir.ExpressionP, idxType ctypes.DataType) (*ir.ExpressionWrapperP, error) {
	elemSize, err := ctypes.Size(ptr.Pointee)
	if err != nil {
		return nil, cerr.At(pos, err)
	}
	promoted := ctypes.PromoteInteger(idxType)
	idx := convertIfNeeded(idxVal, idxType, promoted)
	scaled := &ir.BinaryExpressionP{Op: ir.OpMul, Left: idx, Right: intConst(int64(elemSize), promoted), ResultType: promoted}
	ptrType := &ctypes.Pointer{Pointee: ptr.Pointee}
	irOp := ir.OpAdd
	if op == ast.OpSub {
		irOp = ir.OpSub
	}
	bin := &ir.BinaryExpressionP{Op: irOp, Left: ptrVal, Right: scaled, ResultType: ptrType}
	return &ir.ExpressionWrapperP{OriginalDataType: ptrType, Exprs: []ir.ExpressionP{bin}}, nil
}

func (p *Processor) processArithmeticOrComparison(pos ast.Position, op ast.BinaryOp, l, r ir.ExpressionP, lt, rt ctypes.DataType) (*ir.ExpressionWrapperP, error) {
	switch op {
	case ast.OpMul, ast.OpDiv, ast.OpMod, ast.OpBitAnd, ast.OpBitXor, ast.OpBitOr:
		needInt := op == ast.OpMod || op == ast.OpBitAnd || op == ast.OpBitXor || op == ast.OpBitOr
		if needInt {
			if !isIntegerType(lt) || !isIntegerType(rt) {
				return nil, cerr.At(pos, binaryOperandError(binOpSymbol(op), lt, rt))
			}
		} else if !isArithmeticType(lt) || !isArithmeticType(rt) {
			return nil, cerr.At(pos, binaryOperandError(binOpSymbol(op), lt, rt))
		}
		resultType := ctypes.UsualArithmeticConversions(lt, rt)
		lv := convertIfNeeded(l, lt, resultType)
		rv := convertIfNeeded(r, rt, resultType)
		bin := &ir.BinaryExpressionP{Op: irBinOp(op), Left: lv, Right: rv, ResultType: resultType}
		return &ir.ExpressionWrapperP{OriginalDataType: resultType, Exprs: []ir.ExpressionP{bin}}, nil

	case ast.OpLt, ast.OpLe, ast.OpGt, ast.OpGe, ast.OpEq, ast.OpNe:
		return p.processComparison(pos, op, l, r, lt, rt)

	default:
		return nil, fmt.Errorf("sema: unhandled binary operator")
	}
}

func (p *Processor) processComparison(pos ast.Position, op ast.BinaryOp, l, r ir.ExpressionP, lt, rt ctypes.DataType) (*ir.ExpressionWrapperP, error) {
	signedInt := &ctypes.Primary{Prim: ctypes.SignedInt}

	if isArithmeticType(lt) && isArithmeticType(rt) {
		commonType := ctypes.UsualArithmeticConversions(lt, rt)
		lv := convertIfNeeded(l, lt, commonType)
		rv := convertIfNeeded(r, rt, commonType)
		bin := &ir.BinaryExpressionP{Op: irBinOp(op), Left: lv, Right: rv, ResultType: signedInt}
		return &ir.ExpressionWrapperP{OriginalDataType: signedInt, Exprs: []ir.ExpressionP{bin}}, nil
	}

	if lp, ok := isPointerType(lt); ok {
		if rp, ok := isPointerType(rt); ok {
			_, lVoid := lp.Pointee.(*ctypes.Void)
			_, rVoid := rp.Pointee.(*ctypes.Void)
			if lVoid || rVoid || ctypes.IsCompatible(lp.Pointee, rp.Pointee, true) {
				bin := &ir.BinaryExpressionP{Op: irBinOp(op), Left: l, Right: r, ResultType: signedInt}
				return &ir.ExpressionWrapperP{OriginalDataType: signedInt, Exprs: []ir.ExpressionP{bin}}, nil
			}
		}
	}

	return nil, cerr.At(pos, binaryOperandError(binOpSymbol(op), lt, rt))
}

func irBinOp(op ast.BinaryOp) ir.BinaryOp {
	switch op {
	case ast.OpMul:
		return ir.OpMul
	case ast.OpDiv:
		return ir.OpDiv
	case ast.OpMod:
		return ir.OpMod
	case ast.OpAdd:
		return ir.OpAdd
	case ast.OpSub:
		return ir.OpSub
	case ast.OpBitAnd:
		return ir.OpBitAnd
	case ast.OpBitXor:
		return ir.OpBitXor
	case ast.OpBitOr:
		return ir.OpBitOr
	case ast.OpLt:
		return ir.OpLt
	case ast.OpLe:
		return ir.OpLe
	case ast.OpGt:
		return ir.OpGt
	case ast.OpGe:
		return ir.OpGe
	case ast.OpEq:
		return ir.OpEq
	case ast.OpNe:
		return ir.OpNe
	default:
		return ir.OpAdd
	}
}

// --- conditional ---

func (p *Processor) processConditional(v *ast.ConditionalExpr) (*ir.ExpressionWrapperP, error) {
	cw, err := p.ProcessExpression(v.Cond)
	if err != nil {
		return nil, err
	}
	ct := ctypes.Decay(cw.OriginalDataType)
	if !ctypes.IsScalar(ct) {
		return nil, cerr.At(v.Pos(), scalarRequiredError(ct))
	}

	var aw, bw *ir.ExpressionWrapperP
	thenStmts, err := p.withStatements(func() error {
		var e error
		aw, e = p.ProcessExpression(v.Then)
		return e
	})
	if err != nil {
		return nil, err
	}
	at := ctypes.Decay(aw.OriginalDataType)

	elseStmts, err := p.withStatements(func() error {
		var e error
		bw, e = p.ProcessExpression(v.Else)
		return e
	})
	if err != nil {
		return nil, err
	}
	bt := ctypes.Decay(bw.OriginalDataType)

	resultType, err := conditionalResultType(at, bt, p.IsNullPointerConstant(v.Then), p.IsNullPointerConstant(v.Else))
	if err != nil {
		return nil, cerr.At(v.Pos(), err)
	}

	size, err := ctypes.Size(resultType)
	if err != nil {
		return nil, cerr.At(v.Pos(), err)
	}
	tmp := p.Table.AllocateLocal(size)

	thenStmts = append(thenStmts, storeValue(aw, at, resultType, tmp)...)
	elseStmts = append(elseStmts, storeValue(bw, bt, resultType, tmp)...)

	p.emit(&ir.SelectionStatementP{Cond: cw.Exprs[0], Then: thenStmts, Else: elseStmts})
	return loadFrom(&ir.Address{Space: ir.LocalAddress, Offset: tmp, ResultType: resultType}, resultType)
}

func conditionalResultType(a, b ctypes.DataType, aIsNull, bIsNull bool) (ctypes.DataType, error) {
	if isArithmeticType(a) && isArithmeticType(b) {
		return ctypes.UsualArithmeticConversions(a, b), nil
	}
	if as, ok := a.(*ctypes.Struct); ok {
		if bs, ok := b.(*ctypes.Struct); ok && ctypes.IsCompatible(as, bs, true) {
			return as, nil
		}
	}
	ap, aIsPtr := isPointerType(a)
	bp, bIsPtr := isPointerType(b)
	if aIsPtr && bIsPtr {
		_, aVoid := ap.Pointee.(*ctypes.Void)
		_, bVoid := bp.Pointee.(*ctypes.Void)
		if aVoid {
			return a, nil
		}
		if bVoid {
			return b, nil
		}
		if ctypes.IsCompatible(ap.Pointee, bp.Pointee, true) {
			return a, nil
		}
	}
	if aIsPtr && bIsNull {
		return a, nil
	}
	if bIsPtr && aIsNull {
		return b, nil
	}
	return nil, fmt.Errorf("invalid operands to ternary conditional (have '%s' and '%s')", a.String(), b.String())
}

// storeValue builds the statements that write w's value, statically typed
// fromType, into the toType-sized slot at local-frame offset base. Used by
// ternary lowering; for a struct, every flattened field gets its own store.
func storeValue(w *ir.ExpressionWrapperP, fromType, toType ctypes.DataType, base int) []ir.StatementP {
	if toType.Kind() == ctypes.KindStruct {
		slots, err := ctypes.FlattenScalarSlots(toType)
		if err != nil {
			return nil
		}
		stmts := make([]ir.StatementP, len(slots))
		for i, s := range slots {
			stmts[i] = &ir.MemoryStore{Addr: &ir.Address{Space: ir.LocalAddress, Offset: base + s.Offset, ResultType: s.Type}, Value: w.Exprs[i], ValueType: s.Type}
		}
		return stmts
	}
	value := convertIfNeeded(w.Exprs[0], fromType, toType)
	return []ir.StatementP{&ir.MemoryStore{Addr: &ir.Address{Space: ir.LocalAddress, Offset: base, ResultType: toType}, Value: value, ValueType: toType}}
}

// --- assignment ---

func compoundToBinaryOp(op ast.AssignOp) ast.BinaryOp {
	switch op {
	case ast.AssignAdd:
		return ast.OpAdd
	case ast.AssignSub:
		return ast.OpSub
	case ast.AssignMul:
		return ast.OpMul
	case ast.AssignDiv:
		return ast.OpDiv
	case ast.AssignMod:
		return ast.OpMod
	case ast.AssignShl:
		return ast.OpShl
	case ast.AssignShr:
		return ast.OpShr
	case ast.AssignAnd:
		return ast.OpBitAnd
	case ast.AssignXor:
		return ast.OpBitXor
	case ast.AssignOr:
		return ast.OpBitOr
	default:
		return ast.OpAdd
	}
}

func (p *Processor) processAssign(v *ast.AssignExpr) (*ir.ExpressionWrapperP, error) {
	lv, lvErr := p.processLValue(v.LHS)
	if lvErr != nil {
		rw, err := p.ProcessExpression(v.LHS)
		if err != nil {
			return nil, err
		}
		return nil, cerr.At(v.Pos(), cerr.Newf(cerr.PhaseExpr, cerr.KindLvalue, "assignment to expression with type '%s'", rw.OriginalDataType.String()))
	}
	if !ctypes.IsModifiableLvalueType(lv.Type) {
		return nil, cerr.At(v.Pos(), cerr.Newf(cerr.PhaseExpr, cerr.KindLvalue, "assignment to non-modifiable lvalue with type '%s'", lv.Type.String()))
	}

	var rw *ir.ExpressionWrapperP
	var err error
	if v.Op == ast.AssignPlain {
		rw, err = p.ProcessExpression(v.RHS)
		if err != nil {
			return nil, err
		}
	} else {
		loaded, lerr := loadFrom(lv.Addr, lv.Type)
		if lerr != nil {
			return nil, lerr
		}
		rhsWrapper, rerr := p.ProcessExpression(v.RHS)
		if rerr != nil {
			return nil, rerr
		}
		rw, err = p.dispatchBinary(v.Pos(), compoundToBinaryOp(v.Op), loaded.Exprs[0], rhsWrapper.Exprs[0], ctypes.Decay(loaded.OriginalDataType), ctypes.Decay(rhsWrapper.OriginalDataType))
		if err != nil {
			return nil, err
		}
	}

	rt := ctypes.Decay(rw.OriginalDataType)
	isNull := v.Op == ast.AssignPlain && p.IsNullPointerConstant(v.RHS)
	if !ctypes.CanAssign(lv.Type, rt, isNull) {
		return nil, cerr.At(v.Pos(), cerr.Newf(cerr.PhaseExpr, cerr.KindInitializer, "incompatible types when initializing type '%s' using type '%s'", lv.Type.String(), rt.String()))
	}

	if lv.Type.Kind() == ctypes.KindStruct {
		slots, err := ctypes.FlattenScalarSlots(lv.Type)
		if err != nil {
			return nil, cerr.At(v.Pos(), err)
		}
		exprs := make([]ir.ExpressionP, len(slots))
		for i, s := range slots {
			addr := offsetAddr(lv.Addr, s.Offset)
			p.emit(&ir.MemoryStore{Addr: addr, Value: rw.Exprs[i], ValueType: s.Type})
			exprs[i] = &ir.MemoryLoad{Addr: addr, ResultType: s.Type}
		}
		return &ir.ExpressionWrapperP{OriginalDataType: lv.Type, Exprs: exprs}, nil
	}

	value := convertIfNeeded(rw.Exprs[0], rt, lv.Type)
	store := &ir.MemoryStore{Addr: lv.Addr, Value: value, ValueType: lv.Type}
	result := &ir.PreStatementExpressionP{Update: store, Result: &ir.MemoryLoad{Addr: lv.Addr, ResultType: lv.Type}}
	return &ir.ExpressionWrapperP{OriginalDataType: lv.Type, Exprs: []ir.ExpressionP{result}}, nil
}

// --- calls ---

func (p *Processor) processCall(v *ast.CallExpr) (*ir.ExpressionWrapperP, error) {
	calleeWrapper, err := p.ProcessExpression(v.Callee)
	if err != nil {
		return nil, err
	}
	calleeType := ctypes.Decay(calleeWrapper.OriginalDataType)
	fnPtr, ok := calleeType.(*ctypes.Pointer)
	var fnType *ctypes.Function
	if ok {
		fnType, ok = fnPtr.Pointee.(*ctypes.Function)
	}
	if !ok {
		return nil, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindOperandType, "called object is not a function"))
	}
	if len(v.Args) != len(fnType.Parameters) {
		return nil, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindArgCount, "number of arguments provided to function call does not match number of parameters specfied in prototype"))
	}

	var args []ir.ExpressionP
	for i, a := range v.Args {
		aw, err := p.ProcessExpression(a)
		if err != nil {
			return nil, err
		}
		at := ctypes.Decay(aw.OriginalDataType)
		isNull := p.IsNullPointerConstant(a)
		if !ctypes.CanAssign(fnType.Parameters[i], at, isNull) {
			return nil, cerr.At(v.Pos(), cerr.New(cerr.PhaseExpr, cerr.KindArgType, "cannot assign function call argument to parameter"))
		}
		if fnType.Parameters[i].Kind() == ctypes.KindStruct {
			args = append(args, aw.Exprs...)
		} else {
			args = append(args, convertIfNeeded(aw.Exprs[0], at, fnType.Parameters[i]))
		}
	}

	retType := fnType.Return
	var retOffset int
	if retType.Kind() != ctypes.KindVoid {
		sz, err := ctypes.Size(retType)
		if err != nil {
			return nil, cerr.At(v.Pos(), err)
		}
		retOffset = p.Table.AllocateLocal(sz)
	}
	p.emit(&ir.FunctionCallP{Callee: calleeWrapper.Exprs[0], Args: args, ReturnType: retType, ReturnAreaOffset: retOffset})

	if retType.Kind() == ctypes.KindVoid {
		return &ir.ExpressionWrapperP{OriginalDataType: retType, Exprs: nil}, nil
	}
	return loadFrom(&ir.Address{Space: ir.LocalAddress, Offset: retOffset, ResultType: retType}, retType)
}
