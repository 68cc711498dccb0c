// Package ast defines the typed AST: the tree produced by
// internal/binder, mutated in place by internal/infer, and consumed by
// internal/validate and internal/codegen. Every node carries its
// current inferred type, a parent pointer, and a source location
// (spec.md §3).
package ast

import "github.com/coral-lang/coral/internal/types"

// NodeKind identifies which AST variant a Node is.
type NodeKind int

const (
	KindBoolLit NodeKind = iota
	KindIntLit
	KindStringLit
	KindReference
	KindTuple
	KindFirst
	KindSecond
	KindPrint
	KindBinary
	KindConditional
	KindFunction
	KindLet
	KindTypeCheck
	KindCall
)

// Location mirrors the wire AST's {filename, line, start, end}.
type Location struct {
	Filename string
	Line     int
	Start    int
	End      int
}

// Node is the interface every AST variant implements.
type Node interface {
	Kind() NodeKind
	Type() types.Type
	SetType(types.Type)
	Parent() Node
	SetParent(Node)
	Location() Location
}

// base is embedded in every concrete node and implements the Node
// accessors common to all of them.
type base struct {
	kind   NodeKind
	typ    types.Type
	parent Node
	loc    Location
}

func (b *base) Kind() NodeKind       { return b.kind }
func (b *base) Type() types.Type     { return b.typ }
func (b *base) SetType(t types.Type) { b.typ = t }
func (b *base) Parent() Node         { return b.parent }
func (b *base) SetParent(p Node)     { b.parent = p }
func (b *base) Location() Location   { return b.loc }

func newBase(kind NodeKind, loc Location) base {
	return base{kind: kind, typ: types.AnyType, loc: loc}
}
