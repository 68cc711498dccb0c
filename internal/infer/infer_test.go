package infer

import (
	"testing"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/binder"
	"github.com/coral-lang/coral/internal/ingest"
	"github.com/coral-lang/coral/internal/types"
)

func buildAndInfer(t *testing.T, src string) *binder.Result {
	t.Helper()
	file, err := ingest.Parse([]byte(src))
	if err != nil {
		t.Fatalf("ingest.Parse: %v", err)
	}
	res, err := binder.Build(file)
	if err != nil {
		t.Fatalf("binder.Build: %v", err)
	}
	if err := Run(res.Root, res.Registry); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return res
}

func loc() string {
	return `"location":{"filename":"t","line":1,"start":0,"end":0}`
}

// fib infers to Function((Integer),Integer): the classic recursive
// function whose return type depends on a recursive call buried in the
// alternate branch of a conditional (spec.md §4.2's edge case and §8's
// calibration scenario).
func TestInferFib(t *testing.T) {
	src := `{"name":"t","expression":{"kind":"Let",` + loc() + `,
		"name":{"text":"fib","location":{"filename":"t","line":1,"start":0,"end":0}},
		"value":{"kind":"Function",` + loc() + `,
			"parameters":[{"text":"n","location":{"filename":"t","line":1,"start":0,"end":0}}],
			"value":{"kind":"If",` + loc() + `,
				"condition":{"kind":"Binary",` + loc() + `,"op":"Lt",
					"lhs":{"kind":"Var","text":"n",` + loc() + `},
					"rhs":{"kind":"Int","value":2,` + loc() + `}},
				"then":{"kind":"Var","text":"n",` + loc() + `},
				"otherwise":{"kind":"Binary",` + loc() + `,"op":"Add",
					"lhs":{"kind":"Call",` + loc() + `,
						"callee":{"kind":"Var","text":"fib",` + loc() + `},
						"arguments":[{"kind":"Binary",` + loc() + `,"op":"Sub",
							"lhs":{"kind":"Var","text":"n",` + loc() + `},
							"rhs":{"kind":"Int","value":1,` + loc() + `}}]},
					"rhs":{"kind":"Call",` + loc() + `,
						"callee":{"kind":"Var","text":"fib",` + loc() + `},
						"arguments":[{"kind":"Binary",` + loc() + `,"op":"Sub",
							"lhs":{"kind":"Var","text":"n",` + loc() + `},
							"rhs":{"kind":"Int","value":2,` + loc() + `}}]}}}},
		"next":{"kind":"Call",` + loc() + `,
			"callee":{"kind":"Var","text":"fib",` + loc() + `},
			"arguments":[{"kind":"Int","value":10,` + loc() + `}]}}}`

	res := buildAndInfer(t, src)

	if !res.Registry.AllClean() {
		t.Fatalf("expected the fixed point to leave every ScopeVar clean")
	}

	let := res.Root.(*ast.LetExpr)
	want := types.Function{Params: []types.Type{types.IntegerType}, Return: types.IntegerType}
	if !let.Value.Type().Equal(want) {
		t.Errorf("fib's inferred type = %s, want %s", let.Value.Type(), want)
	}
	if !res.Root.Type().Equal(types.IntegerType) {
		t.Errorf("fib(10) call result = %s, want Integer", res.Root.Type())
	}
}

// A function returning Tuple(1, x) called with a boolean argument
// infers its body to Tuple<Integer,Boolean>: the call site's concrete
// argument is what concretizes the otherwise-unconstrained member.
func TestInferTupleFromCallSite(t *testing.T) {
	src := `{"name":"t","expression":{"kind":"Let",` + loc() + `,
		"name":{"text":"f","location":{"filename":"t","line":1,"start":0,"end":0}},
		"value":{"kind":"Function",` + loc() + `,
			"parameters":[{"text":"x","location":{"filename":"t","line":1,"start":0,"end":0}}],
			"value":{"kind":"Tuple",` + loc() + `,
				"first":{"kind":"Int","value":1,` + loc() + `},
				"second":{"kind":"Var","text":"x",` + loc() + `}}},
		"next":{"kind":"Call",` + loc() + `,
			"callee":{"kind":"Var","text":"f",` + loc() + `},
			"arguments":[{"kind":"Bool","value":true,` + loc() + `}]}}}`

	res := buildAndInfer(t, src)

	let := res.Root.(*ast.LetExpr)
	fn := let.Value.(*ast.Function)
	ft, ok := fn.Body.Type().(types.Tuple)
	if !ok {
		t.Fatalf("expected f's body type to be Tuple, got %s", fn.Body.Type())
	}
	if !ft.First.Equal(types.IntegerType) {
		t.Errorf("tuple.First = %s, want Integer", ft.First)
	}
	if !ft.Second.Equal(types.BooleanType) {
		t.Errorf("tuple.Second = %s, want Boolean", ft.Second)
	}
}

// Binding a boolean through == narrows the bound parameter's type in
// one round thanks to Equals' cross-operand narrowing.
func TestInferEqualsNarrowsBothSides(t *testing.T) {
	src := `{"name":"t","expression":{"kind":"Let",` + loc() + `,
		"name":{"text":"f","location":{"filename":"t","line":1,"start":0,"end":0}},
		"value":{"kind":"Function",` + loc() + `,
			"parameters":[{"text":"x","location":{"filename":"t","line":1,"start":0,"end":0}}],
			"value":{"kind":"Binary",` + loc() + `,"op":"Eq",
				"lhs":{"kind":"Var","text":"x",` + loc() + `},
				"rhs":{"kind":"Int","value":1,` + loc() + `}}},
		"next":{"kind":"Call",` + loc() + `,
			"callee":{"kind":"Var","text":"f",` + loc() + `},
			"arguments":[{"kind":"Int","value":2,` + loc() + `}]}}}`

	res := buildAndInfer(t, src)

	let := res.Root.(*ast.LetExpr)
	want := types.Function{Params: []types.Type{types.IntegerType}, Return: types.BooleanType}
	if !let.Value.Type().Equal(want) {
		t.Errorf("f's inferred type = %s, want %s", let.Value.Type(), want)
	}
	if !res.Root.Type().Equal(types.BooleanType) {
		t.Errorf("f(2) call result = %s, want Boolean", res.Root.Type())
	}
}

// A function called twice with distinct concrete argument types forces
// its parameter and return to Undefined instead of speculating a union
// (spec.md §4.2's "no speculative polymorphism" edge case).
func TestInferOverloadedCallForcesUndefined(t *testing.T) {
	src := `{"name":"t","expression":{"kind":"Let",` + loc() + `,
		"name":{"text":"id","location":{"filename":"t","line":1,"start":0,"end":0}},
		"value":{"kind":"Function",` + loc() + `,
			"parameters":[{"text":"x","location":{"filename":"t","line":1,"start":0,"end":0}}],
			"value":{"kind":"Var","text":"x",` + loc() + `}},
		"next":{"kind":"Let",` + loc() + `,
			"name":{"text":"_","location":{"filename":"t","line":1,"start":0,"end":0}},
			"value":{"kind":"Call",` + loc() + `,
				"callee":{"kind":"Var","text":"id",` + loc() + `},
				"arguments":[{"kind":"Int","value":1,` + loc() + `}]},
			"next":{"kind":"Call",` + loc() + `,
				"callee":{"kind":"Var","text":"id",` + loc() + `},
				"arguments":[{"kind":"Str","value":"s",` + loc() + `}]}}}}`

	res := buildAndInfer(t, src)

	if res.Root.Type().Kind() != types.KindUndefined {
		t.Errorf("program type = %s, want Undefined (incompatible overloaded uses)", res.Root.Type())
	}
}
