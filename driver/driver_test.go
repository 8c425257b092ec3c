package driver

import (
	"strings"
	"testing"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/modules"
)

func intReturningZero(name string) *ast.FunctionDefinition {
	return &ast.FunctionDefinition{
		Name:       name,
		ReturnType: &ast.PrimaryTypeSpec{Kind: ast.PrimarySignedInt},
		Body: []ast.Statement{
			&ast.ReturnStmt{
				Value: &ast.IntLiteralExpr{Text: "0"},
			},
		},
	}
}

func TestProcessRequiresMain(t *testing.T) {
	root := &ast.Root{
		Children: []ast.TopLevel{intReturningZero("helper")},
	}

	_, err := Process(root, modules.NewRepository())
	if err == nil {
		t.Fatal("expected an error when no main function is defined")
	}
	if !strings.Contains(err.Error(), "main function not defined") {
		t.Errorf("got %q, want it to mention main function not defined", err.Error())
	}
}

func TestProcessAssemblesRoot(t *testing.T) {
	root := &ast.Root{
		Children: []ast.TopLevel{intReturningZero("main")},
	}

	result, err := Process(root, modules.NewRepository())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(result.Root.Functions) != 1 {
		t.Fatalf("got %d functions, want 1", len(result.Root.Functions))
	}
	if result.Root.Functions[0].Name != "main" {
		t.Errorf("got function %q, want main", result.Root.Functions[0].Name)
	}
	if result.Root.ExternalFunctions == nil {
		t.Error("ExternalFunctions should be a non-nil empty map, not nil")
	}
}

func TestEncodeDataSegment(t *testing.T) {
	got := encodeDataSegment([]byte{0x00, 0xff, 0x0a})
	want := `\00\ff\0a`
	if got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestEncodeDataSegmentEmpty(t *testing.T) {
	if got := encodeDataSegment(nil); got != "" {
		t.Errorf("got %q, want empty string", got)
	}
}
