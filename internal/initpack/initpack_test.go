package initpack

import (
	"testing"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/internal/consteval"
	"github.com/MrShadowKiller/c-slang/internal/ctypes"
	"github.com/MrShadowKiller/c-slang/ir"
)

// fakeEnv is a minimal stand-in for the Expression Processor: it evaluates
// every expression through the Compile-Time Evaluator (sufficient for these
// literal-only tests) and wraps the result as a single-element
// ExpressionWrapperP.
type fakeEnv struct{}

func (fakeEnv) Eval(e ast.Expression) (consteval.Constant, error) {
	return consteval.Eval(e, fakeConstEnv{})
}

func (f fakeEnv) ProcessExpression(e ast.Expression) (*ir.ExpressionWrapperP, error) {
	c, err := f.Eval(e)
	if err != nil {
		return nil, err
	}
	if c.Kind == consteval.KindFloat {
		return &ir.ExpressionWrapperP{
			OriginalDataType: c.Type,
			Exprs:            []ir.ExpressionP{&ir.ConstantP{IsFloat: true, FloatValue: c.Float, ResultType: c.Type}},
		}, nil
	}
	return &ir.ExpressionWrapperP{
		OriginalDataType: c.Type,
		Exprs:            []ir.ExpressionP{&ir.ConstantP{IntValue: c.Int, ResultType: c.Type}},
	}, nil
}

type fakeConstEnv struct{}

func (fakeConstEnv) Enumerator(string) (int64, bool)                             { return 0, false }
func (fakeConstEnv) DataSegmentVariable(string) (int, ctypes.DataType, bool)     { return 0, nil, false }
func (fakeConstEnv) SizeofType(ast.TypeSpec) (int, error)                       { return 4, nil }
func (fakeConstEnv) SizeofExpr(ast.Expression) (int, error)                     { return 4, nil }

func intLit(text string) ast.Expression { return &ast.IntLiteralExpr{Text: text} }

func singleInit(text string) ast.Initializer {
	return &ast.InitializerSingle{Value: intLit(text)}
}

func TestUnpackLocalScalarEmitsOneStore(t *testing.T) {
	dt := &ctypes.Primary{Prim: ctypes.SignedInt}
	stmts, err := UnpackLocal(dt, singleInit("10"), ir.LocalAddress, -4, fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 1 {
		t.Fatalf("got %d statements, want 1", len(stmts))
	}
	store := stmts[0].(*ir.MemoryStore)
	addr := store.Addr.(*ir.Address)
	if addr.Offset != -4 {
		t.Errorf("got offset %d, want -4", addr.Offset)
	}
}

func TestUnpackLocalArrayPartialInitZeroFillsRest(t *testing.T) {
	dt := &ctypes.Array{Element: &ctypes.Primary{Prim: ctypes.SignedInt}, Length: 3}
	init := &ast.InitializerList{Elements: []ast.Initializer{singleInit("1"), singleInit("2")}}
	stmts, err := UnpackLocal(dt, init, ir.LocalAddress, -12, fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 3 {
		t.Fatalf("got %d stores, want 3", len(stmts))
	}
	third := stmts[2].(*ir.MemoryStore)
	c := third.Value.(*ir.ConstantP)
	if c.IntValue.Int64() != 0 {
		t.Errorf("got %v, want 0 for the zero-filled trailing element", c.IntValue)
	}
}

func TestUnpackLocalExcessElementsErrors(t *testing.T) {
	dt := &ctypes.Array{Element: &ctypes.Primary{Prim: ctypes.SignedInt}, Length: 2}
	init := &ast.InitializerList{Elements: []ast.Initializer{singleInit("1"), singleInit("2"), singleInit("3")}}
	_, err := UnpackLocal(dt, init, ir.LocalAddress, 0, fakeEnv{})
	if err != ErrExcessElements {
		t.Fatalf("got %v, want ErrExcessElements", err)
	}
}

func TestUnpackLocalStructBraceElision(t *testing.T) {
	point := &ctypes.Struct{
		Tag: "Point",
		Fields: []ctypes.Field{
			{Tag: "x", Type: &ctypes.Primary{Prim: ctypes.SignedInt}},
			{Tag: "y", Type: &ctypes.Primary{Prim: ctypes.SignedInt}},
		},
	}
	// `struct Point p = {1, 2};` with no inner braces around the fields.
	init := &ast.InitializerList{Elements: []ast.Initializer{singleInit("1"), singleInit("2")}}
	stmts, err := UnpackLocal(point, init, ir.LocalAddress, -8, fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if len(stmts) != 2 {
		t.Fatalf("got %d stores, want 2", len(stmts))
	}
	first := stmts[0].(*ir.MemoryStore)
	second := stmts[1].(*ir.MemoryStore)
	if first.Addr.(*ir.Address).Offset != -8 || second.Addr.(*ir.Address).Offset != -4 {
		t.Errorf("got offsets %d, %d, want -8, -4",
			first.Addr.(*ir.Address).Offset, second.Addr.(*ir.Address).Offset)
	}
}

func TestUnpackDataSegmentEncodesLittleEndian(t *testing.T) {
	dt := &ctypes.Primary{Prim: ctypes.SignedInt}
	b, err := UnpackDataSegment(dt, singleInit("10"), fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0x0a, 0, 0, 0}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("got %v, want %v", b, want)
		}
	}
}

func TestUnpackDataSegmentUnsignedIntWrapNegativeTen(t *testing.T) {
	dt := &ctypes.Primary{Prim: ctypes.UnsignedInt}
	// unsigned int d = -10;
	neg := &ast.UnaryExpr{Op: ast.OpMinus, Operand: intLit("10")}
	b, err := UnpackDataSegment(dt, &ast.InitializerSingle{Value: neg}, fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	want := []byte{0xf6, 0xff, 0xff, 0xff}
	for i := range want {
		if b[i] != want[i] {
			t.Fatalf("got %x, want %x", b, want)
		}
	}
}

func TestUnpackDataSegmentNilInitializerZeroFills(t *testing.T) {
	dt := &ctypes.Primary{Prim: ctypes.SignedLong}
	b, err := UnpackDataSegment(dt, nil, fakeEnv{})
	if err != nil {
		t.Fatal(err)
	}
	if len(b) != 8 {
		t.Fatalf("got %d bytes, want 8", len(b))
	}
	for _, x := range b {
		if x != 0 {
			t.Fatalf("got %v, want all zero", b)
		}
	}
}

func TestUnpackDataSegmentNonConstantErrors(t *testing.T) {
	dt := &ctypes.Primary{Prim: ctypes.SignedInt}
	_, err := UnpackDataSegment(dt, &ast.InitializerSingle{Value: &ast.IdentifierExpr{Name: "x"}}, fakeEnv{})
	if err != ErrNotConstant {
		t.Fatalf("got %v, want ErrNotConstant", err)
	}
}
