package codegen

import (
	"github.com/llir/llvm/ir"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// compileLet binds Value's compiled Object to Binding (when present)
// and evaluates Next in isReturn's position — Let never terminates a
// block itself, it only threads isReturn through to Next, matching
// spec.md §4.4's "isReturn propagates through Let's next."
func (g *Generator) compileLet(fc *FuncContext, n *ast.LetExpr, isReturn bool) *Object {
	val := g.compile(n.Value, fc, false)
	if n.Binding != nil {
		fc.Locals[n.Binding.Var] = val
	}
	return g.compile(n.Next, fc, isReturn)
}

// compileConditional implements spec.md §4.4's two conditional shapes.
// In return position, both branches compile themselves all the way to
// a `ret` (recursively, since a branch may itself be a Conditional or a
// Let ending in one) — there is no merge block, no phi, and the block
// left current afterward is unreachable by construction. Outside
// return position, both branches are converted to a common
// representation before branching to a merge block, where a phi (or,
// for a Tuple result, one phi per component) reassembles the value.
func (g *Generator) compileConditional(fc *FuncContext, n *ast.Conditional, isReturn bool) *Object {
	cond := g.compile(n.Cond, fc, false).unbox(fc)
	thenBlock := fc.Func.NewBlock(g.next("then"))
	altBlock := fc.Func.NewBlock(g.next("else"))
	fc.Block.NewCondBr(cond.Value, thenBlock, altBlock)

	if isReturn {
		fc.Block = thenBlock
		g.compile(n.Then, fc, true)
		fc.Block = altBlock
		g.compile(n.Alternate, fc, true)
		dead := fc.Func.NewBlock(g.next("unreachable"))
		dead.NewUnreachable()
		fc.Block = dead
		return nil
	}

	mergeBlock := fc.Func.NewBlock(g.next("merge"))

	fc.Block = thenBlock
	thenRaw := g.compile(n.Then, fc, false)
	thenConv := g.convertForMerge(fc, thenRaw, n.Type())
	thenEnd := fc.Block
	thenEnd.NewBr(mergeBlock)

	fc.Block = altBlock
	altRaw := g.compile(n.Alternate, fc, false)
	altConv := g.convertForMerge(fc, altRaw, n.Type())
	altEnd := fc.Block
	altEnd.NewBr(mergeBlock)

	fc.Block = mergeBlock
	return g.phiMerge(fc, thenConv, thenEnd, altConv, altEnd, n.Type())
}

// convertForMerge normalizes obj to the representation both branches
// must share before a phi can combine them: recursively for a Tuple
// result (each component normalized against its own expected type),
// unboxed for any other static result, boxed otherwise. It must run
// while fc.Block is still the branch's own block, before control
// transfers to the merge block.
func (g *Generator) convertForMerge(fc *FuncContext, obj *Object, resultType types.Type) *Object {
	if tt, ok := resultType.(types.Tuple); ok {
		first, second := tupleParts(fc, obj)
		return &Object{Type: resultType, Boxed: false, Members: []*Object{
			g.convertForMerge(fc, first, tt.First),
			g.convertForMerge(fc, second, tt.Second),
		}}
	}
	if resultType.IsStatic() {
		return obj.unbox(fc)
	}
	return obj.box(fc)
}

// tupleParts returns obj's two components, loading them through the
// runtime if obj isn't already an unboxed Tuple.
func tupleParts(fc *FuncContext, obj *Object) (*Object, *Object) {
	if len(obj.Members) == 2 {
		return obj.Members[0], obj.Members[1]
	}
	boxed := obj.box(fc)
	first := fc.Block.NewCall(fc.RT.TupleFirst, boxed.Value)
	second := fc.Block.NewCall(fc.RT.TupleSecond, boxed.Value)
	fc.track(first)
	fc.track(second)
	firstType, secondType := types.Type(types.AnyType), types.Type(types.AnyType)
	if tt, ok := obj.Type.(types.Tuple); ok {
		firstType, secondType = tt.First, tt.Second
	}
	fo := (&Object{Type: firstType, Value: first, Boxed: true}).maybeUnbox(fc)
	so := (&Object{Type: secondType, Value: second, Boxed: true}).maybeUnbox(fc)
	return fo, so
}

// phiMerge combines a and b (already normalized to the same shape by
// convertForMerge, coming from aBlock/bBlock respectively) into one
// Object valid in fc's current (merge) block.
func (g *Generator) phiMerge(fc *FuncContext, a *Object, aBlock *ir.Block, b *Object, bBlock *ir.Block, resultType types.Type) *Object {
	if len(a.Members) == 2 && len(b.Members) == 2 {
		tt := resultType.(types.Tuple)
		first := g.phiMerge(fc, a.Members[0], aBlock, b.Members[0], bBlock, tt.First)
		second := g.phiMerge(fc, a.Members[1], aBlock, b.Members[1], bBlock, tt.Second)
		return &Object{Type: resultType, Boxed: false, Members: []*Object{first, second}}
	}
	phi := fc.Block.NewPhi(ir.NewIncoming(a.Value, aBlock), ir.NewIncoming(b.Value, bBlock))
	return &Object{Type: resultType, Value: phi, Boxed: a.Boxed}
}
