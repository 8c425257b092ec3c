package symtab

import (
	"testing"

	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

func intType() ctypes.DataType { return &ctypes.Primary{Prim: ctypes.SignedInt} }

func TestAddVariableRedeclarationInSameScopeErrors(t *testing.T) {
	tbl := New()
	if _, err := tbl.AddVariable("x", EntryLocalVariable, intType(), tbl.AllocateLocal(4)); err != nil {
		t.Fatal(err)
	}
	_, err := tbl.AddVariable("x", EntryLocalVariable, intType(), tbl.AllocateLocal(4))
	if err == nil || err.Error() != "redeclaration of 'x'" {
		t.Fatalf("got %v, want redeclaration of 'x'", err)
	}
}

func TestAddVariableInNestedScopeShadowsNotConflicts(t *testing.T) {
	tbl := New()
	if _, err := tbl.AddVariable("x", EntryLocalVariable, intType(), tbl.AllocateLocal(4)); err != nil {
		t.Fatal(err)
	}
	tbl.PushScope()
	if _, err := tbl.AddVariable("x", EntryLocalVariable, intType(), tbl.AllocateLocal(4)); err != nil {
		t.Fatalf("shadowing in a nested scope should not error, got %v", err)
	}
	tbl.PopScope()
}

func TestLookupWalksParentScopes(t *testing.T) {
	tbl := New()
	tbl.AddVariable("outer", EntryLocalVariable, intType(), tbl.AllocateLocal(4))
	tbl.PushScope()
	defer tbl.PopScope()
	if _, ok := tbl.Lookup("outer"); !ok {
		t.Fatal("expected lookup to walk to parent scope")
	}
}

func TestLookupMissingReturnsUndeclared(t *testing.T) {
	tbl := New()
	if _, ok := tbl.Lookup("nope"); ok {
		t.Fatal("expected lookup failure")
	}
	if got := Undeclared("nope").Error(); got != "'nope' undeclared" {
		t.Fatalf("got %q", got)
	}
}

func TestAddTagRedefinitionSameKindErrors(t *testing.T) {
	tbl := New()
	enumType := &ctypes.Enum{Tag: "x", Members: []ctypes.EnumMember{{Name: "A", Value: 1}}}
	if _, err := tbl.AddTag("x", TagEnum, enumType); err != nil {
		t.Fatal(err)
	}
	_, err := tbl.AddTag("x", TagEnum, enumType)
	if err == nil || err.Error() != "redefinition of 'enum x'" {
		t.Fatalf("got %v, want redefinition of 'enum x'", err)
	}
}

func TestAddTagRedefinitionWrongKindErrors(t *testing.T) {
	tbl := New()
	tbl.AddTag("X", TagStruct, &ctypes.Struct{Tag: "X"})
	_, err := tbl.AddTag("X", TagEnum, &ctypes.Enum{Tag: "X"})
	if err == nil || err.Error() != "redefinition of 'X' as wrong kind of tag" {
		t.Fatalf("got %v, want redefinition of 'X' as wrong kind of tag", err)
	}
}

func TestAddFunctionCompatibleRedeclarationPermitted(t *testing.T) {
	tbl := New()
	sig := &ctypes.Function{Return: &ctypes.Void{}, Parameters: []ctypes.DataType{intType()}}
	if _, err := tbl.AddFunction("f", sig, false); err != nil {
		t.Fatal(err)
	}
	if _, err := tbl.AddFunction("f", sig, true); err != nil {
		t.Fatalf("compatible redeclaration with a body should be permitted, got %v", err)
	}
	if _, err := tbl.AddFunction("f", sig, true); err == nil {
		t.Fatal("expected error redefining a function that already has a body")
	}
}

func TestAddParameterCollisionErrors(t *testing.T) {
	tbl := New()
	if _, err := tbl.AddParameter("x", intType(), tbl.AllocateLocal(4)); err != nil {
		t.Fatal(err)
	}
	_, err := tbl.AddParameter("x", intType(), tbl.AllocateLocal(4))
	if err == nil || err.Error() != "redefinition of parameter 'x'" {
		t.Fatalf("got %v, want redefinition of parameter 'x'", err)
	}
}

func TestAllocateLocalPacksDownward(t *testing.T) {
	tbl := New()
	off1 := tbl.AllocateLocal(4)
	off2 := tbl.AllocateLocal(2)
	if off1 != -4 {
		t.Errorf("got %d, want -4", off1)
	}
	if off2 != -6 {
		t.Errorf("got %d, want -6", off2)
	}
	if tbl.SizeOfLocals() != 6 {
		t.Errorf("got %d, want 6", tbl.SizeOfLocals())
	}
}

func TestResetFrameStartsFreshPerFunction(t *testing.T) {
	tbl := New()
	tbl.AllocateLocal(4)
	tbl.ResetFrame()
	off := tbl.AllocateLocal(8)
	if off != -8 {
		t.Errorf("got %d, want -8", off)
	}
}

func TestAllocateDataSegmentAppendsAndReturnsOffset(t *testing.T) {
	tbl := New()
	off1 := tbl.AllocateDataSegment([]byte{0x0a, 0, 0, 0})
	off2 := tbl.AllocateDataSegment([]byte{0x14, 0, 0, 0})
	if off1 != 0 || off2 != 4 {
		t.Errorf("got offsets %d, %d, want 0, 4", off1, off2)
	}
	want := []byte{0x0a, 0, 0, 0, 0x14, 0, 0, 0}
	got := tbl.DataSegment()
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v, want %v", got, want)
		}
	}
}
