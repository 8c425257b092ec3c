package ctypes

import "testing"

func mustSize(t *testing.T, dt DataType) int {
	t.Helper()
	sz, err := Size(dt)
	if err != nil {
		t.Fatalf("Size(%v) returned error: %v", dt, err)
	}
	return sz
}

func TestSizeOfPrimaries(t *testing.T) {
	cases := []struct {
		prim PrimitiveKind
		want int
	}{
		{SignedChar, 1}, {UnsignedChar, 1},
		{SignedShort, 2}, {UnsignedShort, 2},
		{SignedInt, 4}, {UnsignedInt, 4},
		{SignedLong, 8}, {UnsignedLong, 8},
		{Float, 4}, {Double, 8},
	}
	for _, c := range cases {
		got := mustSize(t, &Primary{Prim: c.prim})
		if got != c.want {
			t.Errorf("size of %s = %d, want %d", c.prim, got, c.want)
		}
	}
}

func TestSizeOfVoidErrors(t *testing.T) {
	_, err := Size(&Void{})
	if err != ErrVoidSize {
		t.Fatalf("Size(void) error = %v, want ErrVoidSize", err)
	}
}

func TestSizeConsistencyForStruct(t *testing.T) {
	// struct { signed int a; signed char b; pointer-to-self next; }
	st := &Struct{
		Tag: "node",
		Fields: []Field{
			{Tag: "a", Type: &Primary{Prim: SignedInt}},
			{Tag: "b", Type: &Primary{Prim: SignedChar}},
			{Tag: "next", Type: &StructSelfPointer{EnclosingTag: "node"}},
		},
	}
	got := mustSize(t, st)
	want := 4 + 1 + PointerSize
	if got != want {
		t.Errorf("struct size = %d, want %d", got, want)
	}
	if PrimaryFieldCount(st) != 3 {
		t.Errorf("PrimaryFieldCount = %d, want 3", PrimaryFieldCount(st))
	}
}

func TestOffsetMonotonicity(t *testing.T) {
	st := &Struct{Fields: []Field{
		{Tag: "a", Type: &Primary{Prim: SignedLong}},
		{Tag: "b", Type: &Primary{Prim: SignedChar}},
		{Tag: "c", Type: &Primary{Prim: SignedInt}},
	}}
	offs, err := FieldOffsets(st)
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(offs); i++ {
		if offs[i] < offs[i-1] {
			t.Fatalf("offsets not monotonic: %v", offs)
		}
	}
	if offs[0] != 0 || offs[1] != 8 || offs[2] != 9 {
		t.Errorf("unexpected packed offsets: %v", offs)
	}
}

func TestCompatibilityReflexiveAndSymmetric(t *testing.T) {
	types := []DataType{
		&Primary{Prim: SignedInt},
		&Pointer{Pointee: &Primary{Prim: Double}},
		&Array{Element: &Primary{Prim: SignedChar}, Length: 10},
		&Struct{Tag: "p", Fields: []Field{{Tag: "x", Type: &Primary{Prim: SignedInt}}}},
		&Enum{Tag: "e", Members: []EnumMember{{Name: "A", Value: 1}}},
		&Void{},
	}
	for _, ty := range types {
		if !IsCompatible(ty, ty, false) {
			t.Errorf("IsCompatible(%v, %v) = false, want true (reflexivity)", ty, ty)
		}
	}

	a := &Pointer{Pointee: &Primary{Prim: SignedInt}}
	b := &Pointer{Pointee: &Primary{Prim: SignedInt}, IsConst: true}
	if IsCompatible(a, b, false) != IsCompatible(b, a, false) {
		t.Errorf("IsCompatible not symmetric for %v, %v", a, b)
	}
}

func TestEnumToEnumAlwaysCompatible(t *testing.T) {
	a := &Enum{Tag: "x", Members: []EnumMember{{Name: "A", Value: 1}}}
	b := &Enum{Tag: "y", Members: []EnumMember{{Name: "B", Value: 2}}}
	if !IsCompatible(a, b, false) {
		t.Errorf("two distinct enums should be compatible")
	}
}

func TestNullPointerAssignability(t *testing.T) {
	targets := []DataType{
		&Pointer{Pointee: &Primary{Prim: SignedInt}},
		&Pointer{Pointee: &Void{}},
		&Pointer{Pointee: &Struct{Tag: "s"}},
	}
	for _, target := range targets {
		if !CanAssign(target, &Primary{Prim: SignedInt}, true) {
			t.Errorf("CanAssign(%v, int, nullPointerConstant=true) = false, want true", target)
		}
	}
}

func TestDecayIdempotence(t *testing.T) {
	arr := &Array{Element: &Primary{Prim: SignedInt}, Length: 4}
	d1 := Decay(arr)
	d2 := Decay(d1)
	if d1.String() != d2.String() {
		t.Errorf("decay not idempotent: %v vs %v", d1, d2)
	}

	fn := &Function{Return: &Void{}, Parameters: nil}
	f1 := Decay(fn)
	f2 := Decay(f1)
	if f1.String() != f2.String() {
		t.Errorf("decay not idempotent for function: %v vs %v", f1, f2)
	}
}

func TestUsualArithmeticConversionsDoubleWins(t *testing.T) {
	got := UsualArithmeticConversions(&Primary{Prim: Double}, &Primary{Prim: SignedInt})
	if got.(*Primary).Prim != Double {
		t.Errorf("expected double, got %v", got)
	}
}

func TestUsualArithmeticConversionsSignPreference(t *testing.T) {
	got := UsualArithmeticConversions(&Primary{Prim: SignedInt}, &Primary{Prim: UnsignedInt})
	if got.(*Primary).Prim != UnsignedInt {
		t.Errorf("expected unsigned int, got %v", got)
	}
}

func TestPromoteIntegerWidensSmallTypes(t *testing.T) {
	got := PromoteInteger(&Primary{Prim: UnsignedChar})
	if got.(*Primary).Prim != SignedInt {
		t.Errorf("expected promotion to signed int, got %v", got)
	}
	got = PromoteInteger(&Primary{Prim: SignedLong})
	if got.(*Primary).Prim != SignedLong {
		t.Errorf("promotion should not change signed long")
	}
}

func TestIsCompatibleStructSelfPointerRequiresMatchingEnclosingTag(t *testing.T) {
	a := &StructSelfPointer{EnclosingTag: "node"}
	b := &StructSelfPointer{EnclosingTag: "other"}
	if IsCompatible(a, b, false) {
		t.Errorf("self-pointers with differing enclosing tags should not be compatible")
	}
	if !IsCompatible(a, &StructSelfPointer{EnclosingTag: "node"}, false) {
		t.Errorf("self-pointers with same enclosing tag should be compatible")
	}
}
