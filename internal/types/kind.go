// Package types implements the rinha type lattice: Any, Undefined,
// Boolean, Integer, String, Tuple, Function and Union, with the
// union/lower/lowers_any operations the inference engine drives to a
// fixed point.
package types

// Kind identifies which lattice shape a Type has. Disjoint: every Type
// belongs to exactly one Kind.
type Kind int

const (
	KindAny Kind = iota
	KindUndefined
	KindBoolean
	KindInteger
	KindString
	KindTuple
	KindFunction
	KindUnion
)

func (k Kind) String() string {
	switch k {
	case KindAny:
		return "Any"
	case KindUndefined:
		return "Undefined"
	case KindBoolean:
		return "Boolean"
	case KindInteger:
		return "Integer"
	case KindString:
		return "String"
	case KindTuple:
		return "Tuple"
	case KindFunction:
		return "Function"
	case KindUnion:
		return "Union"
	default:
		return "Kind(?)"
	}
}
