package ast

// LetExpr binds Value to Binding (nil when the source name was `_`,
// introducing no binding) and evaluates Next in the scope where the
// binding is visible.
type LetExpr struct {
	base
	Binding *Reference
	Value   Node
	Next    Node
}

func NewLetExpr(loc Location, binding *Reference, value, next Node) *LetExpr {
	l := &LetExpr{base: newBase(KindLet, loc), Binding: binding, Value: value, Next: next}
	value.SetParent(l)
	next.SetParent(l)
	return l
}
