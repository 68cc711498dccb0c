package infer

import (
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// inferConditional implements spec.md §4.2's Conditional rule: Cond is
// inferred against Boolean, Then against supertype, and — before the
// Alternate is touched at all — the Then branch's resulting type is
// forwarded up through the enclosing return-position chain so that a
// recursive call in the Alternate sees an already-tightened function
// return type. Alternate is then inferred against supertype, and the
// node's own type is lower(then, alternate).
func (e *engine) inferConditional(n *ast.Conditional, supertype types.Type) types.Type {
	e.infer(n.Cond, types.BooleanType)

	thenType := e.infer(n.Then, supertype)
	propagateReturn(n, thenType)

	altType := e.infer(n.Alternate, supertype)

	result := types.Lower(thenType, altType)
	n.SetType(result)
	return result
}

// propagateReturn walks up the parent chain from a Conditional sitting
// in return position — through Let (when it's the Let's Next) and
// through an enclosing Conditional (when it's that Conditional's Then)
// — until it reaches a Function, at which point it tightens that
// Function's return type (and its self-reference, if named) with t,
// provided t is strictly more specific than what the function currently
// expects. Any other parent shape means the Conditional isn't actually
// in tail/return position and propagation stops without effect.
func propagateReturn(n ast.Node, t types.Type) {
	cur := ast.Node(n)
	for {
		parent := cur.Parent()
		if parent == nil {
			return
		}
		switch p := parent.(type) {
		case *ast.LetExpr:
			if p.Next != cur {
				return
			}
			cur = p
		case *ast.Conditional:
			if p.Then != cur {
				return
			}
			cur = p
		case *ast.Function:
			current := p.Type().(types.Function)
			if !moreSpecific(t, current.Return) {
				return
			}
			updated := types.Function{Params: current.Params, Return: t}
			p.SetType(updated)
			if p.Self != nil {
				p.Self.Var.MayChange(updated)
				p.Self.Sync()
			}
			return
		default:
			return
		}
	}
}
