package ast

import "github.com/coral-lang/coral/internal/types"

// TypeCheck is inserted by internal/validate around an operand whose
// static type cannot prove it satisfies an operator's requirement. At
// runtime it narrows the operand to Required, raising a dynamic type
// error if the operand's runtime kind doesn't match.
type TypeCheck struct {
	base
	Operand  Node
	Required types.Type
}

func NewTypeCheck(loc Location, operand Node, required types.Type) *TypeCheck {
	tc := &TypeCheck{base: newBase(KindTypeCheck, loc), Operand: operand, Required: required}
	tc.typ = required
	operand.SetParent(tc)
	return tc
}
