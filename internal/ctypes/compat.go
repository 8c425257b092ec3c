package ctypes

// IsCompatible implements spec §4.1's isCompatible(a, b, ignoreQualifiers).
func IsCompatible(a, b DataType, ignoreQualifiers bool) bool {
	if a.Kind() != b.Kind() {
		// enum-to-enum is always compatible regardless of kind equality with
		// primary, per spec: "enum-to-enum always compatible (all enums are
		// signed int)" — but that rule only applies kind==kind==Enum, so a
		// plain kind mismatch here is simply incompatible, matching C: an
		// enum type is not interchangeable with `signed int` as a *type*,
		// only as a representation.
		return false
	}

	switch av := a.(type) {
	case *Primary:
		bv := b.(*Primary)
		if !ignoreQualifiers && av.IsConst != bv.IsConst {
			return false
		}
		return av.Prim == bv.Prim

	case *Pointer:
		bv := b.(*Pointer)
		if !ignoreQualifiers && av.IsConst != bv.IsConst {
			return false
		}
		_, aVoid := av.Pointee.(*Void)
		_, bVoid := bv.Pointee.(*Void)
		if aVoid && bVoid {
			return true
		}
		return IsCompatible(av.Pointee, bv.Pointee, ignoreQualifiers)

	case *Array:
		bv := b.(*Array)
		if !ignoreQualifiers && av.IsConst != bv.IsConst {
			return false
		}
		if av.Length != bv.Length {
			return false
		}
		return IsCompatible(av.Element, bv.Element, ignoreQualifiers)

	case *Struct:
		bv := b.(*Struct)
		if !ignoreQualifiers && av.IsConst != bv.IsConst {
			return false
		}
		if av.Tag != bv.Tag {
			return false
		}
		if len(av.Fields) != len(bv.Fields) {
			return false
		}
		for i := range av.Fields {
			fa, fb := av.Fields[i], bv.Fields[i]
			if fa.Tag != fb.Tag {
				return false
			}
			if !isCompatibleField(fa.Type, fb.Type, ignoreQualifiers) {
				return false
			}
		}
		return true

	case *StructSelfPointer:
		bv := b.(*StructSelfPointer)
		// Conservative per spec §9's Open Question: require matching tags.
		return av.EnclosingTag == bv.EnclosingTag

	case *Enum:
		// "enum-to-enum always compatible" (spec §4.1).
		return true

	case *Function:
		bv := b.(*Function)
		if !isReturnCompatible(av.Return, bv.Return) {
			return false
		}
		if len(av.Parameters) != len(bv.Parameters) {
			return false
		}
		for i := range av.Parameters {
			if !IsCompatible(av.Parameters[i], bv.Parameters[i], ignoreQualifiers) {
				return false
			}
		}
		return true

	case *Void:
		_ = b.(*Void)
		return true

	default:
		return false
	}
}

func isReturnCompatible(a, b DataType) bool {
	_, aVoid := a.(*Void)
	_, bVoid := b.(*Void)
	if aVoid || bVoid {
		return aVoid && bVoid
	}
	return IsCompatible(a, b, true)
}

// isCompatibleField handles a struct field's type, which may be a
// StructSelfPointer standing in for "pointer to enclosing struct".
func isCompatibleField(a, b DataType, ignoreQualifiers bool) bool {
	_, aSelf := a.(*StructSelfPointer)
	_, bSelf := b.(*StructSelfPointer)
	if aSelf || bSelf {
		// "struct-self-pointer compatible only with struct-self-pointer" (spec §4.1).
		if !aSelf || !bSelf {
			return false
		}
	}
	return IsCompatible(a, b, ignoreQualifiers)
}
