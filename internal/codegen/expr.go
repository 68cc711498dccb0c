package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/coral-lang/coral/internal/abi"
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/scope"
	"github.com/coral-lang/coral/internal/types"
)

// compile is codegen's central dispatcher (spec.md §4.4): it lowers n
// into fc's current block and returns the Object holding its value.
// isReturn marks a tail position — the only positions where a bare
// Call may become a musttail and a Conditional needs no merge block,
// since both of its branches already terminate the function themselves
// (spec.md §4.4's "Tail calls" and "Conditional").
//
// compile never leaves fc.Block without exactly one live successor: a
// normal expression leaves it open for more instructions; a tail
// position either emits the function's one `ret` on this path or hands
// off entirely to a branch that did.
func (g *Generator) compile(n ast.Node, fc *FuncContext, isReturn bool) *Object {
	switch node := n.(type) {
	case *ast.BoolLit:
		return g.finishLeaf(fc, isReturn, &Object{Type: types.BooleanType, Value: boolConst(node.Value), Boxed: false})
	case *ast.IntLit:
		return g.finishLeaf(fc, isReturn, &Object{Type: types.IntegerType, Value: constant.NewInt(lltypes.I64, node.Value), Boxed: false})
	case *ast.StringLit:
		return g.finishLeaf(fc, isReturn, g.compileStringLit(fc, node))
	case *ast.Reference:
		return g.finishLeaf(fc, isReturn, g.compileReferenceVar(fc, node.Var))
	case *ast.TupleExpr:
		return g.finishLeaf(fc, isReturn, g.compileTuple(fc, node))
	case *ast.FirstExpr:
		return g.finishLeaf(fc, isReturn, g.compileFirst(fc, node))
	case *ast.SecondExpr:
		return g.finishLeaf(fc, isReturn, g.compileSecond(fc, node))
	case *ast.PrintExpr:
		return g.finishLeaf(fc, isReturn, g.compilePrint(fc, node))
	case *ast.TypeCheck:
		return g.finishLeaf(fc, isReturn, g.compileTypeCheck(fc, node))
	case *ast.Binary:
		return g.finishLeaf(fc, isReturn, g.compileBinary(fc, node))
	case *ast.Function:
		return g.finishLeaf(fc, isReturn, g.compileFunctionLiteral(fc, node))
	case *ast.LetExpr:
		return g.compileLet(fc, node, isReturn)
	case *ast.Conditional:
		return g.compileConditional(fc, node, isReturn)
	case *ast.Call:
		return g.compileCall(fc, node, isReturn)
	default:
		panic(fmt.Sprintf("codegen: unhandled node type %T", n))
	}
}

// finishLeaf implements the return-position contract for every node
// kind that doesn't manage its own control flow: compute the value
// normally, then — only if this is a tail position — release the GC
// list and return it from the enclosing function.
func (g *Generator) finishLeaf(fc *FuncContext, isReturn bool, obj *Object) *Object {
	if !isReturn {
		return obj
	}
	g.emitReturn(fc, obj)
	return nil
}

// emitReturn converts obj to the function's declared return
// representation, releases the GC list, and terminates fc.Block with
// it. Called from exactly one place per reachable return path.
func (g *Generator) emitReturn(fc *FuncContext, obj *Object) {
	want := fc.Func.Sig.RetType
	converted := obj
	if want == lltypes.I64 || want == lltypes.I1 {
		converted = obj.unbox(fc)
	} else {
		converted = obj.box(fc)
	}
	fc.release()
	fc.Block.NewRet(converted.Value)
}

func (g *Generator) compileStringLit(fc *FuncContext, n *ast.StringLit) *Object {
	gv := g.newGlobalString(n.Value)
	arrType := lltypes.NewArray(uint64(len(n.Value)+1), lltypes.I8)
	zero := constant.NewInt(lltypes.I64, 0)
	ptr := fc.Block.NewGetElementPtr(arrType, gv, zero, zero)
	call := fc.Block.NewCall(fc.RT.StringNew, ptr, constant.NewInt(lltypes.I64, int64(len(n.Value))))
	fc.track(call)
	return &Object{Type: n.Type(), Value: call, Boxed: true}
}

func (g *Generator) compileTuple(fc *FuncContext, n *ast.TupleExpr) *Object {
	first := g.compile(n.First, fc, false)
	second := g.compile(n.Second, fc, false)
	return &Object{Type: n.Type(), Boxed: false, Members: []*Object{first, second}}
}

func (g *Generator) compileFirst(fc *FuncContext, n *ast.FirstExpr) *Object {
	operand := g.compile(n.Operand, fc, false)
	if len(operand.Members) == 2 {
		return operand.Members[0]
	}
	boxed := operand.box(fc)
	call := fc.Block.NewCall(fc.RT.TupleFirst, boxed.Value)
	fc.track(call)
	return (&Object{Type: n.Type(), Value: call, Boxed: true}).maybeUnbox(fc)
}

func (g *Generator) compileSecond(fc *FuncContext, n *ast.SecondExpr) *Object {
	operand := g.compile(n.Operand, fc, false)
	if len(operand.Members) == 2 {
		return operand.Members[1]
	}
	boxed := operand.box(fc)
	call := fc.Block.NewCall(fc.RT.TupleSecond, boxed.Value)
	fc.track(call)
	return (&Object{Type: n.Type(), Value: call, Boxed: true}).maybeUnbox(fc)
}

// compilePrint boxes the operand only transiently to hand the runtime
// a uniform Object*; print_obj borrows it (spec.md §4.5), so the
// original — possibly still unboxed — Object is what Print yields.
func (g *Generator) compilePrint(fc *FuncContext, n *ast.PrintExpr) *Object {
	operand := g.compile(n.Operand, fc, false)
	boxed := operand.box(fc)
	fc.Block.NewCall(fc.RT.PrintObj, boxed.Value)
	return operand
}

// compileTypeCheck lowers a validate-inserted runtime narrowing: box
// the operand, ask the runtime to assert its kind tag is one of
// Required's, and continue with the (borrowed, unchanged) pointer typed
// as Required.
func (g *Generator) compileTypeCheck(fc *FuncContext, n *ast.TypeCheck) *Object {
	operand := g.compile(n.Operand, fc, false)
	boxed := operand.box(fc)
	mask := abi.KindMask(n.Required)
	checked := fc.Block.NewCall(fc.RT.TypeAssert, boxed.Value, constant.NewInt(lltypes.I64, mask))
	return (&Object{Type: n.Required, Value: checked, Boxed: true}).maybeUnbox(fc)
}

// compileReferenceVar resolves a ScopeVar to its Object in fc: a
// cached local, a just-loaded capture (cached for every subsequent
// use), or a lazily-materialized self-reference (function.go).
func (g *Generator) compileReferenceVar(fc *FuncContext, v *scope.ScopeVar) *Object {
	if o, ok := fc.Locals[v]; ok {
		if o.pendingSelf {
			return g.materializeSelf(fc, o)
		}
		return o
	}
	idx, ok := fc.CapturedIndex[v]
	if !ok {
		panic("codegen: reference to unbound variable " + v.Name)
	}
	loaded := g.loadGlobal(fc, fc.GlobalsPtr, idx)
	fc.Block.NewCall(fc.RT.Incref, loaded)
	fc.track(loaded)
	obj := (&Object{Type: v.Type, Value: loaded, Boxed: true}).maybeUnbox(fc)
	fc.Locals[v] = obj
	return obj
}

// loadGlobal GEPs into an ObjectArrayPtr's backing `objects` field and
// loads the boxed pointer at idx — the access pattern both a closure's
// captured-globals array and a lazily rebuilt self-reference share.
func (g *Generator) loadGlobal(fc *FuncContext, arr value.Value, idx int) value.Value {
	return loadIndexed(fc.Block, objectsField(fc.Block, arr), idx)
}
