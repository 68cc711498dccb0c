package binder

import (
	"testing"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/ingest"
)

func build(t *testing.T, src string) *Result {
	t.Helper()
	file, err := ingest.Parse([]byte(src))
	if err != nil {
		t.Fatalf("ingest.Parse: %v", err)
	}
	res, err := Build(file)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	return res
}

func TestBindSimpleLet(t *testing.T) {
	src := `{"name":"t","expression":{"kind":"Let","location":{"filename":"t","line":1,"start":0,"end":0},
		"name":{"text":"x","location":{"filename":"t","line":1,"start":0,"end":0}},
		"value":{"kind":"Int","value":1,"location":{"filename":"t","line":1,"start":0,"end":0}},
		"next":{"kind":"Var","text":"x","location":{"filename":"t","line":1,"start":0,"end":0}}}}`
	res := build(t, src)
	let, ok := res.Root.(*ast.LetExpr)
	if !ok {
		t.Fatalf("expected *ast.LetExpr root, got %T", res.Root)
	}
	if let.Binding == nil || let.Binding.Name != "x" {
		t.Fatalf("expected binding x, got %+v", let.Binding)
	}
	ref, ok := let.Next.(*ast.Reference)
	if !ok || ref.Var != let.Binding.Var {
		t.Fatalf("next reference should resolve to the same ScopeVar as the binding")
	}
}

func TestUndefinedIdentifierFails(t *testing.T) {
	file, err := ingest.Parse([]byte(`{"name":"t","expression":{"kind":"Var","text":"nope","location":{"filename":"t","line":1,"start":0,"end":0}}}`))
	if err != nil {
		t.Fatalf("ingest.Parse: %v", err)
	}
	if _, err := Build(file); err == nil {
		t.Errorf("expected an error resolving an undefined identifier")
	}
}

func TestNamedRecursionCanCaptureSelf(t *testing.T) {
	src := `{"name":"t","expression":{"kind":"Let","location":{"filename":"t","line":1,"start":0,"end":0},
		"name":{"text":"f","location":{"filename":"t","line":1,"start":0,"end":0}},
		"value":{"kind":"Function","location":{"filename":"t","line":1,"start":0,"end":0},
			"parameters":[{"text":"n","location":{"filename":"t","line":1,"start":0,"end":0}}],
			"value":{"kind":"Call","location":{"filename":"t","line":1,"start":0,"end":0},
				"callee":{"kind":"Var","text":"f","location":{"filename":"t","line":1,"start":0,"end":0}},
				"arguments":[{"kind":"Var","text":"n","location":{"filename":"t","line":1,"start":0,"end":0}}]}},
		"next":{"kind":"Var","text":"f","location":{"filename":"t","line":1,"start":0,"end":0}}}}`
	res := build(t, src)
	let := res.Root.(*ast.LetExpr)
	fn, ok := let.Value.(*ast.Function)
	if !ok {
		t.Fatalf("expected *ast.Function value, got %T", let.Value)
	}
	if fn.Self == nil {
		t.Fatalf("named recursive function should carry a self reference")
	}
	if fn.Self.Var != let.Binding.Var {
		t.Errorf("self reference should share the let binding's ScopeVar")
	}
	if len(fn.FuncScope.Captures) != 1 || fn.FuncScope.Captures[0].Var != let.Binding.Var {
		t.Errorf("calling f(n) recursively inside the body should capture f, got %+v", fn.FuncScope.Captures)
	}
}

func TestBranchesGetFreshScopes(t *testing.T) {
	src := `{"name":"t","expression":{"kind":"If","location":{"filename":"t","line":1,"start":0,"end":0},
		"condition":{"kind":"Bool","value":true,"location":{"filename":"t","line":1,"start":0,"end":0}},
		"then":{"kind":"Let","location":{"filename":"t","line":1,"start":0,"end":0},
			"name":{"text":"y","location":{"filename":"t","line":1,"start":0,"end":0}},
			"value":{"kind":"Int","value":1,"location":{"filename":"t","line":1,"start":0,"end":0}},
			"next":{"kind":"Var","text":"y","location":{"filename":"t","line":1,"start":0,"end":0}}},
		"otherwise":{"kind":"Int","value":2,"location":{"filename":"t","line":1,"start":0,"end":0}}}}`
	res := build(t, src)
	cond, ok := res.Root.(*ast.Conditional)
	if !ok {
		t.Fatalf("expected *ast.Conditional root, got %T", res.Root)
	}
	if cond.ThenScope == cond.AlternateScope {
		t.Errorf("then and alternate must have distinct scopes")
	}
	if _, err := cond.AlternateScope.Resolve("y"); err == nil {
		t.Errorf("y declared in the then-branch must not leak into the alternate branch")
	}
}
