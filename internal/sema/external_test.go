package sema

import (
	"testing"

	"github.com/MrShadowKiller/c-slang/internal/symtab"
	"github.com/MrShadowKiller/c-slang/modules"
)

func TestParseExternalType(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"void empty string", "", "void"},
		{"void keyword", "void", "void"},
		{"pointer", "pointer", "pointer to void"},
		{"primitive", "signed int", "signed int"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dt, err := parseExternalType(tc.in)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := dt.String(); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestParseExternalTypeUnrecognized(t *testing.T) {
	if _, err := parseExternalType("bogus"); err == nil {
		t.Fatal("expected an error for an unrecognized type name")
	}
}

func TestBindExternalFunction(t *testing.T) {
	repo := &modules.Repository{
		Modules: map[string]modules.Module{
			"math": {
				Name: "math",
				Functions: map[string]modules.Signature{
					"sqrt": {Name: "sqrt", ParamTypes: []string{"double"}, ReturnType: "double"},
				},
			},
		},
	}
	p := New(repo, nil)
	p.includedModules = []string{"math"}

	fn, ok, err := p.bindExternalFunction("sqrt")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !ok {
		t.Fatal("expected sqrt to resolve against the math module")
	}
	if len(fn.Parameters) != 1 {
		t.Fatalf("got %d parameters, want 1", len(fn.Parameters))
	}

	entry, ok := p.Table.Lookup("sqrt")
	if !ok {
		t.Fatal("expected sqrt to be bound in the symbol table")
	}
	if entry.Kind != symtab.EntryFunction {
		t.Errorf("got entry kind %v, want EntryFunction", entry.Kind)
	}

	ext, ok := p.ExternalFunctions()["sqrt"]
	if !ok {
		t.Fatal("expected sqrt to be recorded in ExternalFunctions")
	}
	if ext.ModuleName != "math" {
		t.Errorf("got module %q, want math", ext.ModuleName)
	}
}

func TestBindExternalFunctionNotFound(t *testing.T) {
	p := New(modules.NewRepository(), nil)
	_, ok, err := p.bindExternalFunction("nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if ok {
		t.Fatal("expected bindExternalFunction to report not-found rather than erroring")
	}
}
