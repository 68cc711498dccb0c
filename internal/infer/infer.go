// Package infer implements spec.md §4.2's bidirectional type inference
// engine: a fixed-point loop that repeatedly walks the typed AST
// (internal/ast), narrowing each node's type against an expected
// "supertype" handed down from its parent and pushing whatever it
// learns back onto the ScopeVars in internal/scope's registry, until a
// full round leaves every variable clean.
package infer

import (
	"fmt"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/config"
	"github.com/coral-lang/coral/internal/scope"
	"github.com/coral-lang/coral/internal/types"
)

// Run drives node to a type-inference fixed point in place, mutating
// every node's Type() and every ScopeVar in reg. It returns an error
// only if the round count exceeds config.InferenceMaxRounds without
// convergence (spec.md §9's "a maximum iteration count, e.g. N × depth"
// safety net — each round can only narrow a ScopeVar a bounded number
// of steps down the lattice, so any well-formed program converges in
// far fewer rounds than this; tripping it means a bug in a rule, not a
// legitimately slow program).
func Run(node ast.Node, reg *scope.Registry) error {
	e := &engine{}
	for round := 0; ; round++ {
		if round >= config.InferenceMaxRounds {
			return fmt.Errorf("infer: did not converge after %d rounds", config.InferenceMaxRounds)
		}
		reg.ClearDirty()
		e.infer(node, types.AnyType)
		if reg.AllClean() {
			return nil
		}
	}
}

// engine carries no state of its own today; it exists so rule
// implementations can grow shared bookkeeping (e.g. a visit counter for
// diagnostics) without changing every call site's signature.
type engine struct{}

// infer is the dispatcher spec.md §4.2 describes: given a node and the
// type its result is expected to satisfy, it narrows the node (and any
// ScopeVars it touches) and returns the node's resulting type, which is
// always lower(produced, supertype) unless a rule says otherwise.
func (e *engine) infer(n ast.Node, supertype types.Type) types.Type {
	switch node := n.(type) {
	case *ast.BoolLit:
		return e.inferLiteral(node, types.BooleanType, supertype)
	case *ast.IntLit:
		return e.inferLiteral(node, types.IntegerType, supertype)
	case *ast.StringLit:
		return e.inferLiteral(node, types.StringType, supertype)
	case *ast.Reference:
		return e.inferReference(node, supertype)
	case *ast.TupleExpr:
		return e.inferTuple(node, supertype)
	case *ast.FirstExpr:
		return e.inferFirst(node, supertype)
	case *ast.SecondExpr:
		return e.inferSecond(node, supertype)
	case *ast.PrintExpr:
		return e.inferPrint(node, supertype)
	case *ast.Binary:
		return e.inferBinary(node, supertype)
	case *ast.Conditional:
		return e.inferConditional(node, supertype)
	case *ast.Function:
		return e.inferFunction(node, supertype)
	case *ast.LetExpr:
		return e.inferLet(node, supertype)
	case *ast.Call:
		return e.inferCall(node, supertype)
	case *ast.TypeCheck:
		// internal/validate inserts these after inference runs; infer
		// never sees one, but a node's declared type is already final.
		return node.Type()
	default:
		panic(fmt.Sprintf("infer: unhandled node type %T", n))
	}
}

// currentType reads a node's freshest known type. A plain node's cached
// Type() is authoritative, but a Reference's cached type slot is only
// refreshed when that particular Reference is visited — and several
// distinct Reference nodes can share one ScopeVar — so callers that
// need to know "what does this name resolve to right now, before we've
// necessarily visited this occurrence this round" (Call's callee
// lookback) must read through the ScopeVar instead.
func currentType(n ast.Node) types.Type {
	if ref, ok := n.(*ast.Reference); ok && ref.Var != nil {
		return ref.Var.Type
	}
	return n.Type()
}

func (e *engine) inferLiteral(n ast.Node, produced, supertype types.Type) types.Type {
	result := types.Lower(produced, supertype)
	n.SetType(result)
	return result
}

// inferReference implements spec.md §4.2's Reference rule: narrow the
// ScopeVar by supertype and write the result straight through, so every
// other Reference to the same var observes the narrowing on its next
// visit via Sync.
func (e *engine) inferReference(ref *ast.Reference, supertype types.Type) types.Type {
	if ref.Var == nil {
		return ref.Type()
	}
	ref.Var.MayChange(types.Lower(ref.Var.Type, supertype))
	ref.Sync()
	return ref.Var.Type
}
