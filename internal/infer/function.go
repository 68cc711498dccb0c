package infer

import (
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// moreSpecific reports whether candidate is a strictly narrower answer
// than current: different from it, and itself the result of lowering
// candidate by current (i.e. candidate already satisfies current's
// expectation with no information lost).
func moreSpecific(candidate, current types.Type) bool {
	if candidate == nil || current == nil || candidate.Equal(current) {
		return false
	}
	return types.Lower(candidate, current).Equal(candidate)
}

// inferFunction implements spec.md §4.2's Function rule. A Function
// node's type is always Function-kind with the right arity (enforced
// at construction and preserved here); supertype is lowered against
// that current signature, and — only when the result is still
// Function-kind of matching arity — the parameter References are
// pushed the narrowed parameter types and the body is inferred against
// the narrowed return type. The node's return type then tightens to
// whatever the body produced, if that's strictly more specific.
func (e *engine) inferFunction(n *ast.Function, supertype types.Type) types.Type {
	current := n.Type().(types.Function)
	narrowed := types.Lower(supertype, current)

	nf, ok := narrowed.(types.Function)
	if !ok || len(nf.Params) != len(current.Params) {
		// supertype is incompatible with a function of this arity; the
		// node's own type (always Function-kind) is left untouched.
		return types.UndefinedType
	}

	for i, p := range n.Params {
		e.infer(p, nf.Params[i])
	}
	bodyType := e.infer(n.Body, nf.Return)

	// Re-read each parameter's ScopeVar after the body runs: the body
	// may narrow a parameter beyond what pushing nf.Params alone did
	// (e.g. `x == 1` inside the body narrows x to Integer even though
	// the push above only offered it Any).
	resultParams := make([]types.Type, len(n.Params))
	for i, p := range n.Params {
		resultParams[i] = p.Var.Type
	}

	ret := nf.Return
	if moreSpecific(bodyType, nf.Return) {
		ret = bodyType
	}

	result := types.Function{Params: resultParams, Return: ret}
	n.SetType(result)
	if n.Self != nil {
		n.Self.Var.MayChange(result)
		n.Self.Sync()
	}
	return result
}
