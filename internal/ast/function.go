package ast

import (
	"github.com/coral-lang/coral/internal/scope"
	"github.com/coral-lang/coral/internal/types"
)

// Function is a function literal. Params are References bound to
// ScopeVars in FuncScope. Self, when non-nil, is the function's own
// name bound inside its body for named recursion (spec.md §4.1); the
// name is declared before the body is built so the function can
// capture itself.
type Function struct {
	base
	Params    []*Reference
	Body      Node
	Self      *Reference
	FuncScope *scope.Scope
}

// NewFunction builds a Function node. Its type is seeded as a
// Function-kind type of the right arity (every parameter and the
// return both Any) so the spec.md §3 invariant — "a Function node's
// type is always Function-kind with arity equal to its parameter
// count" — holds from construction, before inference ever runs.
func NewFunction(loc Location, params []*Reference, body Node, self *Reference, funcScope *scope.Scope) *Function {
	f := &Function{base: newBase(KindFunction, loc), Params: params, Body: body, Self: self, FuncScope: funcScope}
	paramTypes := make([]types.Type, len(params))
	for i := range paramTypes {
		paramTypes[i] = types.AnyType
	}
	f.typ = types.Function{Params: paramTypes, Return: types.AnyType}
	body.SetParent(f)
	return f
}

func (f *Function) SetBody(n Node) {
	f.Body = n
	n.SetParent(f)
}

// Arity returns the function's declared parameter count.
func (f *Function) Arity() int { return len(f.Params) }
