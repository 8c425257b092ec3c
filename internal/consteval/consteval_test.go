package consteval

import (
	"testing"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
)

type fakeEnv struct {
	enumerators map[string]int64
	dataSeg     map[string]struct {
		off int
		dt  ctypes.DataType
	}
}

func newFakeEnv() *fakeEnv {
	return &fakeEnv{
		enumerators: map[string]int64{},
		dataSeg: map[string]struct {
			off int
			dt  ctypes.DataType
		}{},
	}
}

func (f *fakeEnv) Enumerator(name string) (int64, bool) {
	v, ok := f.enumerators[name]
	return v, ok
}

func (f *fakeEnv) DataSegmentVariable(name string) (int, ctypes.DataType, bool) {
	v, ok := f.dataSeg[name]
	return v.off, v.dt, ok
}

func (f *fakeEnv) SizeofType(t ast.TypeSpec) (int, error) { return 4, nil }
func (f *fakeEnv) SizeofExpr(e ast.Expression) (int, error) { return 4, nil }

func intLit(text string) *ast.IntLiteralExpr {
	return &ast.IntLiteralExpr{Text: text}
}

func TestEvalAdditionSumsToThirty(t *testing.T) {
	expr := &ast.BinaryExpr{Op: ast.OpAdd, Left: intLit("10"), Right: intLit("20")}
	c, err := Eval(expr, newFakeEnv())
	if err != nil {
		t.Fatal(err)
	}
	if c.Int.Int64() != 30 {
		t.Errorf("got %v, want 30", c.Int)
	}
}

func TestEvalUnaryMinusOnUnsignedIntWraps(t *testing.T) {
	// unsigned int d = -10; -> stored bit pattern reads back as 4294967286 unsigned.
	expr := &ast.UnaryExpr{Op: ast.OpMinus, Operand: intLit("10")}
	c, err := Eval(expr, newFakeEnv())
	if err != nil {
		t.Fatal(err)
	}
	// Cast to unsigned int as if declaring `unsigned int d = -10;`.
	wrapped := wrap(c.Int, &ctypes.Primary{Prim: ctypes.UnsignedInt})
	if wrapped.Int64() != 4294967286 {
		t.Errorf("got %v, want 4294967286", wrapped)
	}
	// Read back as signed int should show -10.
	signed := wrap(wrapped, &ctypes.Primary{Prim: ctypes.SignedInt})
	if signed.Int64() != -10 {
		t.Errorf("got %v, want -10", signed)
	}
}

func TestEvalDivisionByZeroErrors(t *testing.T) {
	expr := &ast.BinaryExpr{Op: ast.OpDiv, Left: intLit("1"), Right: intLit("0")}
	_, err := Eval(expr, newFakeEnv())
	if err != ErrDivByZero {
		t.Fatalf("got %v, want ErrDivByZero", err)
	}
}

func TestEvalLogicalAndShortCircuits(t *testing.T) {
	expr := &ast.BinaryExpr{
		Op:   ast.OpLogAnd,
		Left: intLit("0"),
		Right: &ast.BinaryExpr{
			Op: ast.OpDiv, Left: intLit("1"), Right: intLit("0"),
		},
	}
	c, err := Eval(expr, newFakeEnv())
	if err != nil {
		t.Fatalf("short-circuit should avoid the division by zero, got err: %v", err)
	}
	if c.Int.Int64() != 0 {
		t.Errorf("got %v, want 0", c.Int)
	}
}

func TestEvalEnumeratorReference(t *testing.T) {
	env := newFakeEnv()
	env.enumerators["A"] = 1
	c, err := Eval(&ast.IdentifierExpr{Name: "A"}, env)
	if err != nil {
		t.Fatal(err)
	}
	if c.Int.Int64() != 1 {
		t.Errorf("got %v, want 1", c.Int)
	}
}

func TestEvalNonConstantIdentifierErrors(t *testing.T) {
	_, err := Eval(&ast.IdentifierExpr{Name: "x"}, newFakeEnv())
	if err != ErrNotConstant {
		t.Fatalf("got %v, want ErrNotConstant", err)
	}
}

func TestIntLiteralClassification(t *testing.T) {
	c, err := Eval(intLit("4294967296"), newFakeEnv())
	if err != nil {
		t.Fatal(err)
	}
	prim := c.Type.(*ctypes.Primary).Prim
	if prim != ctypes.SignedLong {
		t.Errorf("4294967296 should classify as signed long, got %v", prim)
	}
}
