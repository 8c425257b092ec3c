package ctypes

func isArithmetic(t DataType) bool {
	switch t.(type) {
	case *Primary, *Enum:
		return true
	default:
		return false
	}
}

func isPointerLike(t DataType) (*Pointer, bool) {
	p, ok := t.(*Pointer)
	return p, ok
}

// CanAssign implements spec §4.1's canAssign(lvalueType, rvalueExpr), per
// C17 6.5.16.1. The caller has already evaluated whether the rvalue is a
// null-pointer constant (an integer constant expression with value 0 used
// in a pointer context) since that requires the Compile-Time Evaluator,
// which this package does not depend on.
func CanAssign(lvalue, rvalue DataType, rvalueIsNullPointerConstant bool) bool {
	if isArithmetic(lvalue) && isArithmetic(rvalue) {
		return true
	}

	if ls, ok := lvalue.(*Struct); ok {
		if rs, ok := rvalue.(*Struct); ok {
			return IsCompatible(ls, rs, false)
		}
		return false
	}

	if lp, ok := isPointerLike(lvalue); ok {
		if rp, ok := isPointerLike(rvalue); ok {
			_, lVoid := lp.Pointee.(*Void)
			_, rVoid := rp.Pointee.(*Void)
			if lVoid || rVoid {
				return true
			}
			if !IsCompatible(lp.Pointee, rp.Pointee, true) {
				return false
			}
			// lvalue pointee must carry every qualifier the rvalue pointee has.
			if rvalueConst(rp) && !lvalueConst(lp) {
				return false
			}
			return true
		}
		if rvalueIsNullPointerConstant {
			return true
		}
		return false
	}

	return false
}

func rvalueConst(p *Pointer) bool { return constOf(p.Pointee) }
func lvalueConst(p *Pointer) bool { return constOf(p.Pointee) }

func constOf(t DataType) bool {
	switch v := t.(type) {
	case *Primary:
		return v.IsConst
	case *Pointer:
		return v.IsConst
	case *Array:
		return v.IsConst
	case *Struct:
		return v.IsConst
	case *Enum:
		return v.IsConst
	default:
		return false
	}
}
