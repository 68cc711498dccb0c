package infer

import (
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// inferLet implements spec.md §4.2's Let rule: the bound value is
// inferred against whatever the binding's ScopeVar currently expects
// (Any on the first round, narrower afterward as the fixed point
// progresses), the ScopeVar is updated with what came back, and Next is
// inferred against supertype. The Let's own type — and its return
// value — is simply Next's, since a let-expression's value is its
// body's value.
func (e *engine) inferLet(n *ast.LetExpr, supertype types.Type) types.Type {
	expected := types.Type(types.AnyType)
	if n.Binding != nil && n.Binding.Var != nil {
		expected = n.Binding.Var.Type
	}
	valueType := e.infer(n.Value, expected)
	if n.Binding != nil && n.Binding.Var != nil {
		n.Binding.Var.MayChange(valueType)
		n.Binding.Sync()
	}

	nextType := e.infer(n.Next, supertype)
	n.SetType(nextType)
	return nextType
}
