package infer

import (
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// inferCall implements spec.md §4.2's Call rule. Each argument is first
// inferred against whatever the callee's *current* signature already
// expects at that position (Any until the callee has been visited at
// least once), then the callee itself is inferred against a Function
// type built from the arguments' resulting types and supertype as the
// expected return — letting a call site feed information back into the
// function it calls, not just the other way around. The call's own
// type is the callee's resulting return type, or Undefined if the
// callee didn't resolve to a Function at all.
func (e *engine) inferCall(n *ast.Call, supertype types.Type) types.Type {
	current := currentType(n.Callee)
	cf, ok := current.(types.Function)
	if !ok || len(cf.Params) != len(n.Arguments) {
		cf = types.Function{Params: make([]types.Type, len(n.Arguments))}
		for i := range cf.Params {
			cf.Params[i] = types.AnyType
		}
	}

	argTypes := make([]types.Type, len(n.Arguments))
	for i, a := range n.Arguments {
		argTypes[i] = e.infer(a, cf.Params[i])
	}

	calleeType := e.infer(n.Callee, types.Function{Params: argTypes, Return: supertype})

	result := types.Type(types.UndefinedType)
	if rf, ok := calleeType.(types.Function); ok {
		result = rf.Return
	}
	n.SetType(result)
	return result
}
