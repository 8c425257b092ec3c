package cslang

import (
	"testing"

	"github.com/MrShadowKiller/c-slang/ast"
	"github.com/MrShadowKiller/c-slang/modules"
)

func TestProcessSurfacesDriverErrors(t *testing.T) {
	root := &Root{} // no children at all, so no main function
	_, _, err := Process(root, modules.NewRepository())
	if err == nil {
		t.Fatal("expected an error for a translation unit with no main function")
	}
}

func TestProcessReturnsIR(t *testing.T) {
	root := &Root{
		Children: []ast.TopLevel{
			&ast.FunctionDefinition{
				Name:       "main",
				ReturnType: &ast.PrimaryTypeSpec{Kind: ast.PrimarySignedInt},
				Body: []ast.Statement{
					&ast.ReturnStmt{Value: &ast.IntLiteralExpr{Text: "0"}},
				},
			},
		},
	}

	out, warnings, err := Process(root, modules.NewRepository())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(warnings) != 0 {
		t.Errorf("got %d warnings, want 0", len(warnings))
	}
	if len(out.Functions) != 1 || out.Functions[0].Name != "main" {
		t.Fatalf("got %+v, want a single main function", out.Functions)
	}
}
