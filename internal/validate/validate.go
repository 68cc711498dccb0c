// Package validate implements spec.md §4.3's single post-inference
// pass: it rejects Binary operand combinations that are statically
// proven impossible, and inserts internal/ast.TypeCheck nodes wherever
// an operand's type can't statically prove it satisfies what the
// surrounding operator requires, so the generated code raises a
// runtime type error instead of miscompiling.
package validate

import (
	"errors"
	"fmt"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/diagnostics"
	"github.com/coral-lang/coral/internal/types"
)

// Run walks node, inserting TypeCheck nodes in place and collecting
// every statically-impossible operand combination it finds. A non-nil
// error means compilation must abort; node may have been partially
// mutated regardless (the caller discards it on error).
func Run(node ast.Node) error {
	v := &validator{}
	v.visit(node)
	if len(v.errs) == 0 {
		return nil
	}
	return errors.Join(v.errs...)
}

type validator struct {
	errs []error
}

func (v *validator) fail(n ast.Node, format string, args ...any) {
	v.errs = append(v.errs, &diagnostics.StaticTypeError{Loc: n.Location(), Msg: fmt.Sprintf(format, args...)})
}

// requirement classifies an operand's type against a set of kinds an
// operator accepts: needsCheck means the type is still dynamic (Any or
// a Union) and a runtime TypeCheck is required; otherwise the type is
// already concrete (or Undefined) and either satisfies the set or is a
// statically proven mismatch.
func requirement(t types.Type, allowed ...types.Kind) (needsCheck, isMismatch bool) {
	k := t.Kind()
	switch k {
	case types.KindAny, types.KindUnion:
		return true, false
	case types.KindUndefined:
		return false, true
	}
	for _, a := range allowed {
		if k == a {
			return false, false
		}
	}
	return false, true
}

// visit recurses into every child first (so nested mismatches are
// reported regardless of whether an outer TypeCheck gets inserted),
// then applies this node's own rule.
func (v *validator) visit(n ast.Node) {
	switch node := n.(type) {
	case *ast.Binary:
		v.visit(node.Left)
		v.visit(node.Right)
		v.checkBinary(node)
	case *ast.Conditional:
		v.visit(node.Cond)
		v.visit(node.Then)
		v.visit(node.Alternate)
		v.checkConditionalCond(node)
	case *ast.FirstExpr:
		v.visit(node.Operand)
		v.checkTupleOperand(node.Operand, func(tc *ast.TypeCheck) { node.SetOperand(tc) })
	case *ast.SecondExpr:
		v.visit(node.Operand)
		v.checkTupleOperand(node.Operand, func(tc *ast.TypeCheck) { node.SetOperand(tc) })
	case *ast.PrintExpr:
		v.visit(node.Operand)
	case *ast.TupleExpr:
		v.visit(node.First)
		v.visit(node.Second)
	case *ast.Function:
		for _, p := range node.Params {
			v.visit(p)
		}
		v.visit(node.Body)
		v.checkFunctionReturn(node)
	case *ast.LetExpr:
		if node.Binding != nil {
			v.visit(node.Binding)
		}
		v.visit(node.Value)
		v.visit(node.Next)
	case *ast.Call:
		v.visit(node.Callee)
		for _, a := range node.Arguments {
			v.visit(a)
		}
		v.checkCallArity(node)
	case *ast.Reference, *ast.BoolLit, *ast.IntLit, *ast.StringLit, *ast.TypeCheck:
		// leaves; nothing to check.
	default:
		panic(fmt.Sprintf("validate: unhandled node type %T", n))
	}
}

// requiredKinds returns the operand kind(s) op's category accepts.
func requiredKinds(op ast.BinaryOp) (kinds []types.Kind, required types.Type) {
	switch op.Category() {
	case ast.CategoryConcatenate:
		return []types.Kind{types.KindInteger, types.KindString}, types.NewUnion(types.IntegerType, types.StringType)
	case ast.CategoryArithmetic, ast.CategoryNumericComparison:
		return []types.Kind{types.KindInteger}, types.IntegerType
	case ast.CategoryBooleanOp:
		return []types.Kind{types.KindBoolean}, types.BooleanType
	case ast.CategoryEquals:
		return []types.Kind{types.KindBoolean, types.KindInteger, types.KindString},
			types.NewUnion(types.BooleanType, types.IntegerType, types.StringType)
	default:
		panic("validate: unhandled binary category")
	}
}

func (v *validator) checkBinary(n *ast.Binary) {
	kinds, required := requiredKinds(n.Op)
	n.SetLeft(v.checkOperand(n, n.Left, kinds, required))
	n.SetRight(v.checkOperand(n, n.Right, kinds, required))
}

// checkOperand reports a static mismatch against the enclosing node
// (for its source location) and returns the node to install in the
// operand's slot: either the original, or a TypeCheck wrapping it.
func (v *validator) checkOperand(owner ast.Node, operand ast.Node, kinds []types.Kind, required types.Type) ast.Node {
	needsCheck, isMismatch := requirement(operand.Type(), kinds...)
	if isMismatch {
		v.fail(owner, "operand of type %s cannot satisfy required type %s", operand.Type(), required)
		return operand
	}
	if needsCheck {
		return ast.NewTypeCheck(operand.Location(), operand, required)
	}
	return operand
}

func (v *validator) checkConditionalCond(n *ast.Conditional) {
	needsCheck, isMismatch := requirement(n.Cond.Type(), types.KindBoolean)
	if isMismatch {
		v.fail(n, "condition has type %s, which can never be Boolean", n.Cond.Type())
		return
	}
	if needsCheck {
		n.SetCond(ast.NewTypeCheck(n.Cond.Location(), n.Cond, types.BooleanType))
	}
}

func (v *validator) checkTupleOperand(operand ast.Node, set func(*ast.TypeCheck)) {
	needsCheck, isMismatch := requirement(operand.Type(), types.KindTuple)
	if isMismatch {
		v.fail(operand, "operand of type %s is never a Tuple", operand.Type())
		return
	}
	if needsCheck {
		set(ast.NewTypeCheck(operand.Location(), operand, types.BaseTupleType))
	}
}

// checkCallArity rejects a call whose argument count provably can't
// match its callee: when the callee's type is a concrete Function
// (not Any/Union — a dynamically dispatched call's arity is only
// known at runtime, and the ABI's function_call already enforces it
// there), internal/codegen's static-dispatch path indexes straight
// into that Function's parameter list one slot per argument, so a
// mismatch here would otherwise surface as an out-of-range index
// rather than a diagnostic.
func (v *validator) checkCallArity(n *ast.Call) {
	ft, ok := n.Callee.Type().(types.Function)
	if !ok {
		return
	}
	if len(n.Arguments) != len(ft.Params) {
		v.fail(n, "call passes %d argument(s), callee of type %s expects %d", len(n.Arguments), ft, len(ft.Params))
	}
}

// checkFunctionReturn implements "Function body: if declared return is
// static but body is not, insert TypeCheck around the body." The
// Function's final inferred Return is the "declared" type; Body's own
// type may be weaker when nothing external ever narrowed it.
func (v *validator) checkFunctionReturn(n *ast.Function) {
	fnType := n.Type().(types.Function)
	if !fnType.Return.IsStatic() {
		return
	}
	needsCheck, isMismatch := requirement(n.Body.Type(), fnType.Return.Kind())
	if isMismatch {
		v.fail(n, "function body has type %s, incompatible with its return type %s", n.Body.Type(), fnType.Return)
		return
	}
	if needsCheck {
		n.SetBody(ast.NewTypeCheck(n.Body.Location(), n.Body, fnType.Return))
	}
}
