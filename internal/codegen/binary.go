package codegen

import (
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// compileBinary lowers spec.md §3's five Binary refinements. Arithmetic,
// NumericComparison and BooleanOp operands are always statically
// Integer/Boolean after internal/validate (any dynamic operand there
// was already wrapped in a TypeCheck narrowing it to exactly that
// concrete kind), so those three categories always take the unboxed
// fast path. Concatenate and Equals can still reach codegen with a
// genuinely dynamic (Union) operand type — Integer|String and
// Bool|Int|String respectively have no unboxed representation of their
// own — so those two fall back to the runtime's boxed operator helper
// whenever either side isn't a single concrete static kind.
func (g *Generator) compileBinary(fc *FuncContext, n *ast.Binary) *Object {
	left := g.compile(n.Left, fc, false)
	right := g.compile(n.Right, fc, false)

	switch n.Op.Category() {
	case ast.CategoryArithmetic:
		return g.compileArithmetic(fc, n, left, right)
	case ast.CategoryNumericComparison:
		return g.compileComparison(fc, n, left, right)
	case ast.CategoryBooleanOp:
		return g.compileBooleanOp(fc, n, left, right)
	case ast.CategoryConcatenate:
		return g.compileConcatenate(fc, n, left, right)
	case ast.CategoryEquals:
		return g.compileEquals(fc, n, left, right)
	default:
		panic("codegen: unhandled binary category")
	}
}

func (g *Generator) compileArithmetic(fc *FuncContext, n *ast.Binary, left, right *Object) *Object {
	l, r := left.unbox(fc).Value, right.unbox(fc).Value
	switch n.Op {
	case ast.OpSub:
		return &Object{Type: n.Type(), Value: fc.Block.NewSub(l, r), Boxed: false}
	case ast.OpMul:
		return &Object{Type: n.Type(), Value: fc.Block.NewMul(l, r), Boxed: false}
	case ast.OpDiv:
		return &Object{Type: n.Type(), Value: fc.Block.NewSDiv(l, r), Boxed: false}
	case ast.OpRem:
		return &Object{Type: n.Type(), Value: fc.Block.NewSRem(l, r), Boxed: false}
	default:
		panic("codegen: unhandled arithmetic operator " + n.Op.String())
	}
}

func (g *Generator) compileComparison(fc *FuncContext, n *ast.Binary, left, right *Object) *Object {
	l, r := left.unbox(fc).Value, right.unbox(fc).Value
	pred := binopPredicate(n.Op.String())
	cmp := fc.Block.NewICmp(pred, l, r)
	return &Object{Type: n.Type(), Value: cmp, Boxed: false}
}

func (g *Generator) compileBooleanOp(fc *FuncContext, n *ast.Binary, left, right *Object) *Object {
	l, r := left.unbox(fc).Value, right.unbox(fc).Value
	if n.Op == ast.OpAnd {
		return &Object{Type: n.Type(), Value: fc.Block.NewAnd(l, r), Boxed: false}
	}
	return &Object{Type: n.Type(), Value: fc.Block.NewOr(l, r), Boxed: false}
}

// bothIntegerStatic reports whether both operand types are exactly the
// concrete Integer kind — the only case Concatenate can emit a raw add
// for instead of calling the runtime.
func bothIntegerStatic(left, right *Object) bool {
	return left.Type.Kind() == types.KindInteger && right.Type.Kind() == types.KindInteger
}

func (g *Generator) compileConcatenate(fc *FuncContext, n *ast.Binary, left, right *Object) *Object {
	if bothIntegerStatic(left, right) {
		l, r := left.unbox(fc).Value, right.unbox(fc).Value
		return &Object{Type: n.Type(), Value: fc.Block.NewAdd(l, r), Boxed: false}
	}
	lb, rb := left.box(fc), right.box(fc)
	call := fc.Block.NewCall(fc.RT.Add, lb.Value, rb.Value)
	fc.track(call)
	return (&Object{Type: n.Type(), Value: call, Boxed: true}).maybeUnbox(fc)
}

func (g *Generator) compileEquals(fc *FuncContext, n *ast.Binary, left, right *Object) *Object {
	if lk := left.Type.Kind(); lk == right.Type.Kind() && (lk == types.KindInteger || lk == types.KindBoolean) {
		l, r := left.unbox(fc).Value, right.unbox(fc).Value
		return &Object{Type: n.Type(), Value: fc.Block.NewICmp(binopPredicate(n.Op.String()), l, r), Boxed: false}
	}
	lb, rb := left.box(fc), right.box(fc)
	helper := fc.RT.Eq
	if n.Op == ast.OpNeq {
		helper = fc.RT.Neq
	}
	call := fc.Block.NewCall(helper, lb.Value, rb.Value)
	fc.track(call)
	return (&Object{Type: n.Type(), Value: call, Boxed: true}).maybeUnbox(fc)
}
