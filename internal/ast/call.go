package ast

// Call applies Callee to Arguments. Spec.md §3 does not list it among
// the Data Model bullets, but §4.2's inference rules and §6's wire
// `kind: Call` both require it as a node kind in its own right.
type Call struct {
	base
	Callee    Node
	Arguments []Node
}

func NewCall(loc Location, callee Node, args []Node) *Call {
	c := &Call{base: newBase(KindCall, loc), Callee: callee, Arguments: args}
	callee.SetParent(c)
	for _, a := range args {
		a.SetParent(c)
	}
	return c
}
