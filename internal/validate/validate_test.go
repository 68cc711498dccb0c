package validate

import (
	"strings"
	"testing"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/scope"
	"github.com/coral-lang/coral/internal/types"
)

func loc() ast.Location { return ast.Location{Filename: "t", Line: 1} }

func TestConcatenateWrapsDynamicOperand(t *testing.T) {
	left := ast.NewIntLit(loc(), 1)
	left.SetType(types.IntegerType)
	right := ast.NewIntLit(loc(), 2)
	right.SetType(types.AnyType) // pretend inference left this one unconstrained
	bin := ast.NewBinary(loc(), ast.OpAdd, left, right)
	bin.SetType(types.NewUnion(types.IntegerType, types.StringType))

	if err := Run(bin); err != nil {
		t.Fatalf("Run: %v", err)
	}
	tc, ok := bin.Right.(*ast.TypeCheck)
	if !ok {
		t.Fatalf("expected right operand wrapped in TypeCheck, got %T", bin.Right)
	}
	if tc.Operand != right {
		t.Errorf("TypeCheck should wrap the original right operand")
	}
}

func TestArithmeticRejectsStaticMismatch(t *testing.T) {
	left := ast.NewBoolLit(loc(), true)
	left.SetType(types.BooleanType)
	right := ast.NewIntLit(loc(), 1)
	right.SetType(types.IntegerType)
	bin := ast.NewBinary(loc(), ast.OpSub, left, right)
	bin.SetType(types.IntegerType)

	err := Run(bin)
	if err == nil {
		t.Fatalf("expected an error for Boolean - Integer")
	}
	if !strings.Contains(err.Error(), "cannot satisfy") {
		t.Errorf("error message = %q, want it to explain the mismatch", err.Error())
	}
}

func TestConditionalRejectsNonBooleanStaticCond(t *testing.T) {
	cond := ast.NewIntLit(loc(), 1)
	cond.SetType(types.IntegerType)
	then := ast.NewIntLit(loc(), 2)
	alt := ast.NewIntLit(loc(), 3)
	reg := scope.NewRegistry()
	cnd := ast.NewConditional(loc(), cond, then, alt, reg.New(nil), reg.New(nil))
	cnd.SetType(types.IntegerType)

	if err := Run(cnd); err == nil {
		t.Fatalf("expected an error for an Integer condition")
	}
}

func TestConditionalWrapsDynamicCond(t *testing.T) {
	reg := scope.NewRegistry()
	root := reg.New(nil)
	v, err := root.Declare("flag", types.AnyType)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	cond := ast.NewReference(loc(), "flag", v)
	then := ast.NewIntLit(loc(), 2)
	alt := ast.NewIntLit(loc(), 3)
	cnd := ast.NewConditional(loc(), cond, then, alt, reg.New(root), reg.New(root))
	cnd.SetType(types.IntegerType)

	if err := Run(cnd); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := cnd.Cond.(*ast.TypeCheck); !ok {
		t.Fatalf("expected cond wrapped in TypeCheck, got %T", cnd.Cond)
	}
}

func TestFirstOnProvenTupleNeedsNoCheck(t *testing.T) {
	tup := ast.NewTupleExpr(loc(), ast.NewIntLit(loc(), 1), ast.NewBoolLit(loc(), true))
	tup.SetType(types.Tuple{First: types.IntegerType, Second: types.BooleanType})
	first := ast.NewFirstExpr(loc(), tup)
	first.SetType(types.IntegerType)

	if err := Run(first); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if first.Operand != ast.Node(tup) {
		t.Errorf("a proven Tuple operand should not be wrapped in a TypeCheck")
	}
}

func TestFirstOnNonTupleStaticTypeIsRejected(t *testing.T) {
	lit := ast.NewIntLit(loc(), 1)
	lit.SetType(types.IntegerType)
	first := ast.NewFirstExpr(loc(), lit)
	first.SetType(types.UndefinedType)

	if err := Run(first); err == nil {
		t.Fatalf("expected an error: First on a statically non-Tuple operand")
	}
}

func TestFunctionBodyWrappedWhenReturnStaticButBodyDynamic(t *testing.T) {
	reg := scope.NewRegistry()
	funcScope := reg.New(nil)
	pv, err := funcScope.Declare("x", types.AnyType)
	if err != nil {
		t.Fatalf("Declare: %v", err)
	}
	param := ast.NewReference(loc(), "x", pv)
	body := ast.NewReference(loc(), "x", pv)
	body.SetType(types.AnyType)
	fn := ast.NewFunction(loc(), []*ast.Reference{param}, body, nil, funcScope)
	fn.SetType(types.Function{Params: []types.Type{types.AnyType}, Return: types.IntegerType})

	if err := Run(fn); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if _, ok := fn.Body.(*ast.TypeCheck); !ok {
		t.Fatalf("expected body wrapped in TypeCheck, got %T", fn.Body)
	}
}

func TestCallRejectsStaticArityMismatch(t *testing.T) {
	callee := ast.NewIntLit(loc(), 0) // stand-in node, only its Type matters here
	callee.SetType(types.Function{Params: []types.Type{types.IntegerType}, Return: types.IntegerType})
	call := ast.NewCall(loc(), callee, []ast.Node{ast.NewIntLit(loc(), 1), ast.NewIntLit(loc(), 2)})
	call.SetType(types.IntegerType)

	err := Run(call)
	if err == nil {
		t.Fatalf("expected an error: callee expects 1 argument, call passes 2")
	}
	if !strings.Contains(err.Error(), "expects 1") {
		t.Errorf("error message = %q, want it to name the expected arity", err.Error())
	}
}

func TestCallAllowsMatchingStaticArity(t *testing.T) {
	callee := ast.NewIntLit(loc(), 0)
	callee.SetType(types.Function{Params: []types.Type{types.IntegerType}, Return: types.IntegerType})
	call := ast.NewCall(loc(), callee, []ast.Node{ast.NewIntLit(loc(), 1)})
	call.SetType(types.IntegerType)

	if err := Run(call); err != nil {
		t.Fatalf("Run: %v", err)
	}
}

func TestCallSkipsArityCheckForDynamicCallee(t *testing.T) {
	callee := ast.NewIntLit(loc(), 0)
	callee.SetType(types.AnyType)
	call := ast.NewCall(loc(), callee, []ast.Node{ast.NewIntLit(loc(), 1), ast.NewIntLit(loc(), 2)})
	call.SetType(types.AnyType)

	if err := Run(call); err != nil {
		t.Fatalf("Run: %v, want no error — a dynamic callee's arity is only known at runtime", err)
	}
}
