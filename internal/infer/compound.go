package infer

import (
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// inferTuple implements spec.md §4.2's Tuple rule. The supertype is
// first lowered against the widest tuple shape; if that's still
// Tuple-kind, each operand is inferred against the matching component
// of the narrowed shape and the node's type becomes the pair of their
// results. Otherwise a tuple was expected where one can't fit: the node
// keeps the widest tuple shape and the rule reports Undefined upward.
func (e *engine) inferTuple(n *ast.TupleExpr, supertype types.Type) types.Type {
	narrowed := types.Lower(supertype, types.BaseTupleType)
	tt, ok := narrowed.(types.Tuple)
	if !ok {
		n.SetType(types.BaseTupleType)
		return types.UndefinedType
	}
	first := e.infer(n.First, tt.First)
	second := e.infer(n.Second, tt.Second)
	result := types.Tuple{First: first, Second: second}
	n.SetType(result)
	return result
}

// inferFirst and inferSecond implement spec.md §4.2's First/Second
// rules: the operand is inferred against a tuple shape with the
// expected component set to supertype and the other left Any; if the
// operand's resulting type is actually Tuple-kind, the corresponding
// component is returned, otherwise Undefined.
func (e *engine) inferFirst(n *ast.FirstExpr, supertype types.Type) types.Type {
	operandType := e.infer(n.Operand, types.Tuple{First: supertype, Second: types.AnyType})
	result := types.UndefinedType
	if tt, ok := operandType.(types.Tuple); ok {
		result = tt.First
	}
	n.SetType(result)
	return result
}

func (e *engine) inferSecond(n *ast.SecondExpr, supertype types.Type) types.Type {
	operandType := e.infer(n.Operand, types.Tuple{First: types.AnyType, Second: supertype})
	result := types.UndefinedType
	if tt, ok := operandType.(types.Tuple); ok {
		result = tt.Second
	}
	n.SetType(result)
	return result
}

// inferPrint implements spec.md §4.2's Print rule: it is transparent to
// its operand's type, in both directions.
func (e *engine) inferPrint(n *ast.PrintExpr, supertype types.Type) types.Type {
	result := e.infer(n.Operand, supertype)
	n.SetType(result)
	return result
}
