// Package binder implements spec.md §4.1: it walks the raw wire AST
// (internal/ingest) and produces a typed AST (internal/ast) with
// resolved References, materialized lexical scopes, and captures
// recorded for every closure.
package binder

import (
	"encoding/json"
	"fmt"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/diagnostics"
	"github.com/coral-lang/coral/internal/ingest"
	"github.com/coral-lang/coral/internal/scope"
	"github.com/coral-lang/coral/internal/types"
)

// Result is the binder's output: the typed AST root plus the scope
// registry internal/infer needs to drive its fixed point.
type Result struct {
	Root     ast.Node
	Registry *scope.Registry
}

// Build binds a whole program. The program root scope has no parent.
func Build(file *ingest.File) (*Result, error) {
	reg := scope.NewRegistry()
	root := reg.New(nil)
	b := &binder{reg: reg}
	node, err := b.bind(file.Expression, root)
	if err != nil {
		return nil, err
	}
	return &Result{Root: node, Registry: reg}, nil
}

type binder struct {
	reg *scope.Registry
}

func loc(l ingest.Location) ast.Location {
	return ast.Location{Filename: l.Filename, Line: l.Line, Start: l.Start, End: l.End}
}

func (b *binder) bindNested(raw json.RawMessage, sc *scope.Scope) (ast.Node, error) {
	var t ingest.Term
	if err := json.Unmarshal(raw, &t); err != nil {
		return nil, fmt.Errorf("binder: malformed nested term: %w", err)
	}
	return b.bind(&t, sc)
}

func (b *binder) bind(t *ingest.Term, sc *scope.Scope) (ast.Node, error) {
	if t == nil {
		return nil, fmt.Errorf("binder: nil term")
	}
	l := loc(t.Location)

	switch t.Kind {
	case "Int":
		var v int64
		if err := json.Unmarshal(t.Value, &v); err != nil {
			return nil, fmt.Errorf("binder: Int at %s:%d: %w", l.Filename, l.Line, err)
		}
		return ast.NewIntLit(l, v), nil

	case "Str":
		var v string
		if err := json.Unmarshal(t.Value, &v); err != nil {
			return nil, fmt.Errorf("binder: Str at %s:%d: %w", l.Filename, l.Line, err)
		}
		return ast.NewStringLit(l, v), nil

	case "Bool":
		var v bool
		if err := json.Unmarshal(t.Value, &v); err != nil {
			return nil, fmt.Errorf("binder: Bool at %s:%d: %w", l.Filename, l.Line, err)
		}
		return ast.NewBoolLit(l, v), nil

	case "Tuple":
		if t.First == nil || t.Second == nil {
			return nil, fmt.Errorf("binder: Tuple at %s:%d missing first/second", l.Filename, l.Line)
		}
		first, err := b.bind(t.First, sc)
		if err != nil {
			return nil, err
		}
		second, err := b.bind(t.Second, sc)
		if err != nil {
			return nil, err
		}
		return ast.NewTupleExpr(l, first, second), nil

	case "Var":
		v, err := sc.Resolve(t.Text)
		if err != nil {
			return nil, &diagnostics.IdentifierError{Loc: l, Msg: err.Error()}
		}
		return ast.NewReference(l, t.Text, v), nil

	case "Print":
		operand, err := b.bindNested(t.Value, sc)
		if err != nil {
			return nil, err
		}
		return ast.NewPrintExpr(l, operand), nil

	case "First":
		operand, err := b.bindNested(t.Value, sc)
		if err != nil {
			return nil, err
		}
		return ast.NewFirstExpr(l, operand), nil

	case "Second":
		operand, err := b.bindNested(t.Value, sc)
		if err != nil {
			return nil, err
		}
		return ast.NewSecondExpr(l, operand), nil

	case "Binary":
		op, ok := ast.OpFromWire(t.Op)
		if !ok {
			return nil, fmt.Errorf("binder: unknown binary operator %q at %s:%d", t.Op, l.Filename, l.Line)
		}
		if t.Lhs == nil || t.Rhs == nil {
			return nil, fmt.Errorf("binder: Binary at %s:%d missing lhs/rhs", l.Filename, l.Line)
		}
		left, err := b.bind(t.Lhs, sc)
		if err != nil {
			return nil, err
		}
		right, err := b.bind(t.Rhs, sc)
		if err != nil {
			return nil, err
		}
		return ast.NewBinary(l, op, left, right), nil

	case "If":
		if t.Condition == nil || t.Then == nil || t.Otherwise == nil {
			return nil, fmt.Errorf("binder: If at %s:%d missing condition/then/otherwise", l.Filename, l.Line)
		}
		cond, err := b.bind(t.Condition, sc)
		if err != nil {
			return nil, err
		}
		thenScope := b.reg.New(sc)
		then, err := b.bind(t.Then, thenScope)
		if err != nil {
			return nil, err
		}
		altScope := b.reg.New(sc)
		alt, err := b.bind(t.Otherwise, altScope)
		if err != nil {
			return nil, err
		}
		return ast.NewConditional(l, cond, then, alt, thenScope, altScope), nil

	case "Function":
		return b.bindFunction(t, sc, nil)

	case "Call":
		if t.Callee == nil {
			return nil, fmt.Errorf("binder: Call at %s:%d missing callee", l.Filename, l.Line)
		}
		callee, err := b.bind(t.Callee, sc)
		if err != nil {
			return nil, err
		}
		args := make([]ast.Node, len(t.Arguments))
		for i, a := range t.Arguments {
			an, err := b.bind(a, sc)
			if err != nil {
				return nil, err
			}
			args[i] = an
		}
		return ast.NewCall(l, callee, args), nil

	case "Let":
		return b.bindLet(t, sc)

	default:
		return nil, fmt.Errorf("binder: unknown term kind %q at %s:%d", t.Kind, l.Filename, l.Line)
	}
}

// bindLet implements spec.md §4.1's special Let handling: when the
// value is a Function bound to a real name, the name is declared
// before the function body is built so the function can capture
// itself (named recursion with no forward declaration). Otherwise the
// value is built first, in a scope where the name is not yet visible,
// and the name is declared only afterward.
func (b *binder) bindLet(t *ingest.Term, sc *scope.Scope) (ast.Node, error) {
	l := loc(t.Location)
	if t.Name == nil || t.Value == nil || t.Next == nil {
		return nil, fmt.Errorf("binder: Let at %s:%d missing name/value/next", l.Filename, l.Line)
	}
	name := t.Name.Text

	var valueTerm ingest.Term
	if err := json.Unmarshal(t.Value, &valueTerm); err != nil {
		return nil, fmt.Errorf("binder: Let value at %s:%d: %w", l.Filename, l.Line, err)
	}

	var (
		bindingVar *scope.ScopeVar
		value      ast.Node
		err        error
	)

	if valueTerm.Kind == "Function" && name != "_" {
		bindingVar, err = sc.Declare(name, types.AnyType)
		if err != nil {
			return nil, &diagnostics.IdentifierError{Loc: l, Msg: err.Error()}
		}
		value, err = b.bindFunction(&valueTerm, sc, bindingVar)
		if err != nil {
			return nil, err
		}
	} else {
		value, err = b.bind(&valueTerm, sc)
		if err != nil {
			return nil, err
		}
		if name != "_" {
			bindingVar, err = sc.Declare(name, types.AnyType)
			if err != nil {
				return nil, &diagnostics.IdentifierError{Loc: l, Msg: err.Error()}
			}
		}
	}

	var binding *ast.Reference
	if bindingVar != nil {
		binding = ast.NewReference(loc(t.Name.Location), name, bindingVar)
	}

	next, err := b.bind(t.Next, sc)
	if err != nil {
		return nil, err
	}
	return ast.NewLetExpr(l, binding, value, next), nil
}

// bindFunction binds a Function term into a fresh child scope. When
// selfVar is non-nil the function was the value of a named Let and may
// recursively reference itself; selfVar is already declared in sc (the
// enclosing scope) by bindLet before this is called.
func (b *binder) bindFunction(t *ingest.Term, sc *scope.Scope, selfVar *scope.ScopeVar) (*ast.Function, error) {
	l := loc(t.Location)
	funcScope := b.reg.New(sc)

	params := make([]*ast.Reference, len(t.Parameters))
	for i, p := range t.Parameters {
		v, err := funcScope.Declare(p.Text, types.AnyType)
		if err != nil {
			return nil, &diagnostics.IdentifierError{Loc: l, Msg: err.Error()}
		}
		params[i] = ast.NewReference(loc(p.Location), p.Text, v)
	}

	body, err := b.bindNested(t.Value, funcScope)
	if err != nil {
		return nil, fmt.Errorf("binder: malformed Function value at %s:%d: %w", l.Filename, l.Line, err)
	}

	var self *ast.Reference
	if selfVar != nil {
		self = ast.NewReference(l, selfVar.Name, selfVar)
	}
	return ast.NewFunction(l, params, body, self, funcScope), nil
}
