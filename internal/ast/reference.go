package ast

import "github.com/coral-lang/coral/internal/scope"

// Reference is a use of a previously bound identifier. Its current
// type must always equal Var.Type (spec.md §3's invariant); infer.go
// maintains this by writing through Var on every visit.
type Reference struct {
	base
	Name string
	Var  *scope.ScopeVar
}

func NewReference(loc Location, name string, v *scope.ScopeVar) *Reference {
	r := &Reference{base: newBase(KindReference, loc), Name: name, Var: v}
	if v != nil {
		r.typ = v.Type
	}
	return r
}

// Sync copies the current ScopeVar type onto this Reference's own type
// slot, preserving the spec.md §3 invariant after the var changes.
func (r *Reference) Sync() {
	if r.Var != nil {
		r.typ = r.Var.Type
	}
}
