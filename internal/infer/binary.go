package infer

import (
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// inferBinary dispatches to the refinement spec.md §3 puts each
// BinaryOp into, matching the five rules §4.2 gives for them.
func (e *engine) inferBinary(n *ast.Binary, supertype types.Type) types.Type {
	switch n.Op.Category() {
	case ast.CategoryConcatenate:
		return e.inferConcatenate(n, supertype)
	case ast.CategoryArithmetic:
		return e.inferArithmetic(n, supertype)
	case ast.CategoryNumericComparison:
		return e.inferNumericComparison(n, supertype)
	case ast.CategoryBooleanOp:
		return e.inferBooleanOp(n, supertype)
	case ast.CategoryEquals:
		return e.inferEquals(n, supertype)
	default:
		panic("infer: unhandled binary category")
	}
}

// isExactly reports whether t is precisely the given concrete kind,
// not merely lowerable to it — Concatenate needs to tell "both
// operands settled on Integer" apart from "still a pending Union".
func isExactly(t, want types.Type) bool {
	return t != nil && t.Kind() == want.Kind()
}

// inferConcatenate implements Add: both operands are inferred against
// Integer|String. If both resolved to exactly Integer, the result is
// Integer; if either resolved to exactly String, the result is String
// (rinha string concatenation coerces its partner); otherwise neither
// operand has committed yet and the result is still the pending union.
func (e *engine) inferConcatenate(n *ast.Binary, supertype types.Type) types.Type {
	expected := types.NewUnion(types.IntegerType, types.StringType)
	lt := e.infer(n.Left, expected)
	rt := e.infer(n.Right, expected)

	var produced types.Type
	switch {
	case isExactly(lt, types.IntegerType) && isExactly(rt, types.IntegerType):
		produced = types.IntegerType
	case isExactly(lt, types.StringType) || isExactly(rt, types.StringType):
		produced = types.StringType
	default:
		produced = expected
	}
	result := types.Lower(produced, supertype)
	n.SetType(result)
	return result
}

// inferArithmetic implements Sub/Mul/Div/Rem: both operands inferred
// against Integer, result Integer.
func (e *engine) inferArithmetic(n *ast.Binary, supertype types.Type) types.Type {
	e.infer(n.Left, types.IntegerType)
	e.infer(n.Right, types.IntegerType)
	result := types.Lower(types.IntegerType, supertype)
	n.SetType(result)
	return result
}

// inferNumericComparison implements Lt/Lte/Gt/Gte: both operands
// inferred against Integer, result Boolean.
func (e *engine) inferNumericComparison(n *ast.Binary, supertype types.Type) types.Type {
	e.infer(n.Left, types.IntegerType)
	e.infer(n.Right, types.IntegerType)
	result := types.Lower(types.BooleanType, supertype)
	n.SetType(result)
	return result
}

// inferBooleanOp implements And/Or: both operands inferred against
// Boolean, result Boolean.
func (e *engine) inferBooleanOp(n *ast.Binary, supertype types.Type) types.Type {
	e.infer(n.Left, types.BooleanType)
	e.infer(n.Right, types.BooleanType)
	result := types.Lower(types.BooleanType, supertype)
	n.SetType(result)
	return result
}

// singleOperandType reports the concrete Boolean/Integer/String type t
// has already settled on, if any — used by inferEquals to let one side
// of == narrow the other once it commits to a single kind.
func singleOperandType(t types.Type) (types.Type, bool) {
	switch t.(type) {
	case types.Boolean, types.Integer, types.String:
		return t, true
	default:
		return nil, false
	}
}

// inferEquals implements Eq/Neq: both operands are inferred against
// Boolean|Integer|String, but as soon as one side settles on a single
// concrete kind the other is re-inferred against that kind directly,
// so e.g. `x == 1` narrows x to Integer in one round instead of two.
// The result is always Boolean.
func (e *engine) inferEquals(n *ast.Binary, supertype types.Type) types.Type {
	expected := types.NewUnion(types.BooleanType, types.IntegerType, types.StringType)

	lt := e.infer(n.Left, expected)
	var rt types.Type
	if single, ok := singleOperandType(lt); ok {
		rt = e.infer(n.Right, single)
	} else {
		rt = e.infer(n.Right, expected)
	}
	if single, ok := singleOperandType(rt); ok {
		if _, alreadySingle := singleOperandType(lt); !alreadySingle {
			e.infer(n.Left, single)
		}
	}

	result := types.Lower(types.BooleanType, supertype)
	n.SetType(result)
	return result
}
