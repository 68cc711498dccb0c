package ast

import "github.com/coral-lang/coral/internal/scope"

// Conditional is an if/then/else expression. Then and Alternate each
// live in a fresh child scope (spec.md §4.1) so that lets inside a
// branch cannot leak or collide with outer names.
type Conditional struct {
	base
	Cond           Node
	Then           Node
	Alternate      Node
	ThenScope      *scope.Scope
	AlternateScope *scope.Scope
}

func NewConditional(loc Location, cond, then, alternate Node, thenScope, altScope *scope.Scope) *Conditional {
	c := &Conditional{
		base: newBase(KindConditional, loc), Cond: cond, Then: then, Alternate: alternate,
		ThenScope: thenScope, AlternateScope: altScope,
	}
	cond.SetParent(c)
	then.SetParent(c)
	alternate.SetParent(c)
	return c
}

func (c *Conditional) SetCond(n Node) {
	c.Cond = n
	n.SetParent(c)
}
