package ast

import "testing"

const mainReturningZeroJSON = `{
  "IncludedModules": ["math"],
  "Children": [
    {
      "kind": "FunctionDefinition",
      "Name": "main",
      "ReturnType": {"kind": "Primary", "Kind": 5},
      "Params": [],
      "Body": [
        {
          "kind": "Return",
          "Value": {"kind": "IntLiteral", "Text": "0"}
        }
      ]
    }
  ]
}`

func TestUnmarshalRoot(t *testing.T) {
	var root Root
	if err := root.UnmarshalJSON([]byte(mainReturningZeroJSON)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(root.IncludedModules) != 1 || root.IncludedModules[0] != "math" {
		t.Fatalf("got %v, want [math]", root.IncludedModules)
	}

	if len(root.Children) != 1 {
		t.Fatalf("got %d children, want 1", len(root.Children))
	}

	fd, ok := root.Children[0].(*FunctionDefinition)
	if !ok {
		t.Fatalf("got %T, want *FunctionDefinition", root.Children[0])
	}
	if fd.Name != "main" {
		t.Errorf("got name %q, want main", fd.Name)
	}

	ret, ok := fd.ReturnType.(*PrimaryTypeSpec)
	if !ok {
		t.Fatalf("got return type %T, want *PrimaryTypeSpec", fd.ReturnType)
	}
	if ret.Kind != PrimarySignedInt {
		t.Errorf("got return kind %v, want PrimarySignedInt", ret.Kind)
	}

	if len(fd.Body) != 1 {
		t.Fatalf("got %d statements, want 1", len(fd.Body))
	}
	rs, ok := fd.Body[0].(*ReturnStmt)
	if !ok {
		t.Fatalf("got statement %T, want *ReturnStmt", fd.Body[0])
	}
	lit, ok := rs.Value.(*IntLiteralExpr)
	if !ok {
		t.Fatalf("got return value %T, want *IntLiteralExpr", rs.Value)
	}
	if lit.Text != "0" {
		t.Errorf("got literal text %q, want 0", lit.Text)
	}
}

func TestUnmarshalRootMissingKind(t *testing.T) {
	var root Root
	err := root.UnmarshalJSON([]byte(`{"Children": [{"Name": "main"}]}`))
	if err == nil {
		t.Fatal("expected an error for a node missing its kind discriminator")
	}
}

func TestUnmarshalRootUnrecognizedKind(t *testing.T) {
	var root Root
	err := root.UnmarshalJSON([]byte(`{"Children": [{"kind": "Bogus"}]}`))
	if err == nil {
		t.Fatal("expected an error for an unrecognized top-level kind")
	}
}
