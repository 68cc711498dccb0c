package ast

// TupleExpr pairs two expressions; its type is always Tuple-kind with
// exactly two operands (spec.md §3 invariant).
type TupleExpr struct {
	base
	First  Node
	Second Node
}

func NewTupleExpr(loc Location, first, second Node) *TupleExpr {
	t := &TupleExpr{base: newBase(KindTuple, loc), First: first, Second: second}
	first.SetParent(t)
	second.SetParent(t)
	return t
}

// FirstExpr extracts the first component of a tuple-typed operand.
type FirstExpr struct {
	base
	Operand Node
}

func NewFirstExpr(loc Location, operand Node) *FirstExpr {
	f := &FirstExpr{base: newBase(KindFirst, loc), Operand: operand}
	operand.SetParent(f)
	return f
}

func (f *FirstExpr) SetOperand(n Node) {
	f.Operand = n
	n.SetParent(f)
}

// SecondExpr extracts the second component of a tuple-typed operand.
type SecondExpr struct {
	base
	Operand Node
}

func NewSecondExpr(loc Location, operand Node) *SecondExpr {
	s := &SecondExpr{base: newBase(KindSecond, loc), Operand: operand}
	operand.SetParent(s)
	return s
}

func (s *SecondExpr) SetOperand(n Node) {
	s.Operand = n
	n.SetParent(s)
}

// PrintExpr prints its operand's runtime value and yields it unchanged.
type PrintExpr struct {
	base
	Operand Node
}

func NewPrintExpr(loc Location, operand Node) *PrintExpr {
	p := &PrintExpr{base: newBase(KindPrint, loc), Operand: operand}
	operand.SetParent(p)
	return p
}

func (p *PrintExpr) SetOperand(n Node) {
	p.Operand = n
	n.SetParent(p)
}
