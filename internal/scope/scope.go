// Package scope implements lexical scoping and write-once binding for
// the typed AST: ScopeVar (spec.md §3) and the Scope tree (spec.md §4.1).
package scope

import (
	"fmt"

	"github.com/coral-lang/coral/internal/types"
)

// ScopeVar is a named write-once binding. Its Type mutates during
// inference only; Dirty tracks whether it changed across the most
// recent may_change call, driving the fixed-point loop.
type ScopeVar struct {
	Name  string
	Type  types.Type
	Dirty bool
	// Index is the stable local slot this variable occupies in its
	// declaring scope, assigned at declare time.
	Index int
}

// MayChange updates the variable's type to newType, marking it dirty
// iff the type actually changed under structural equality.
func (v *ScopeVar) MayChange(newType types.Type) {
	if v.Type == nil || !v.Type.Equal(newType) {
		v.Type = newType
		v.Dirty = true
	}
}

// Capture records that a name resolved through an enclosing scope: the
// declaring ScopeVar, and the stable index this scope assigned it in
// its own captured-names list.
type Capture struct {
	Name  string
	Var   *ScopeVar
	Index int
}

// Scope is one node of the lexical scope tree. Locals are declarations
// made directly in this scope, in declaration order. Captures are
// names resolved through the parent chain, recorded on first
// cross-scope resolution with a stable capture index (spec.md §4.1).
type Scope struct {
	Parent   *Scope
	locals   []*ScopeVar
	byName   map[string]*ScopeVar
	Captures []*Capture
	captured map[string]*Capture
}

// New creates a scope with the given parent (nil for the root/program
// scope).
func New(parent *Scope) *Scope {
	return &Scope{
		Parent:   parent,
		byName:   make(map[string]*ScopeVar),
		captured: make(map[string]*Capture),
	}
}

// Locals returns this scope's direct declarations in declaration order.
func (s *Scope) Locals() []*ScopeVar { return s.locals }

// Declare introduces name with initialType as a new local. The
// underscore name is never declared — it is a discard marker, not a
// binding — and declaring it again is always legal; resolving it is
// always an error (see Resolve).
func (s *Scope) Declare(name string, initialType types.Type) (*ScopeVar, error) {
	if name == "_" {
		return nil, nil
	}
	if _, exists := s.byName[name]; exists {
		return nil, fmt.Errorf("identifier already defined: %s", name)
	}
	v := &ScopeVar{Name: name, Type: initialType, Index: len(s.locals)}
	s.locals = append(s.locals, v)
	s.byName[name] = v
	return v, nil
}

// Resolve looks up name: first in this scope's locals, then in names
// already captured by this scope, then recursively through the parent
// chain. A resolution that crosses into a parent scope records a new
// Capture in every intermediate scope it passes through, each with its
// own stable capture index, and always returns the identical *ScopeVar
// the declaring scope owns.
func (s *Scope) Resolve(name string) (*ScopeVar, error) {
	if name == "_" {
		return nil, fmt.Errorf("cannot reference discarded binding: _")
	}
	if v, ok := s.byName[name]; ok {
		return v, nil
	}
	if c, ok := s.captured[name]; ok {
		return c.Var, nil
	}
	if s.Parent == nil {
		return nil, fmt.Errorf("undefined identifier: %s", name)
	}
	v, err := s.Parent.Resolve(name)
	if err != nil {
		return nil, err
	}
	c := &Capture{Name: name, Var: v, Index: len(s.Captures)}
	s.Captures = append(s.Captures, c)
	s.captured[name] = c
	return v, nil
}

// ClearDirty resets the dirty flag on every local variable in this
// scope only. Scope has no child pointers of its own; Registry.ClearDirty
// covers every scope by iterating its flat list of recorded scopes.
func (s *Scope) ClearDirty() {
	for _, v := range s.locals {
		v.Dirty = false
	}
}
