package scope

// Registry collects every Scope created while binding a program, so the
// inference fixed-point loop (internal/infer) can clear every
// ScopeVar's dirty flag before a round and check whether any variable
// changed after it, without needing child pointers on Scope itself.
type Registry struct {
	scopes []*Scope
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// New creates a scope with the given parent and records it.
func (r *Registry) New(parent *Scope) *Scope {
	s := New(parent)
	r.scopes = append(r.scopes, s)
	return s
}

// ClearDirty resets every recorded scope's local variables' dirty flags.
func (r *Registry) ClearDirty() {
	for _, s := range r.scopes {
		s.ClearDirty()
	}
}

// AnyDirty reports whether any recorded variable is currently dirty.
func (r *Registry) AnyDirty() bool {
	for _, s := range r.scopes {
		for _, v := range s.locals {
			if v.Dirty {
				return true
			}
		}
	}
	return false
}

// AllClean reports whether every recorded variable's dirty flag is
// false — the fixed-point postcondition (spec.md §8).
func (r *Registry) AllClean() bool {
	return !r.AnyDirty()
}
