package codegen

import (
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/types"
)

// compileCall implements spec.md §4.4's "Call": static dispatch straight
// to a known specialized function when the callee carries one, falling
// back to the ABI's function_call against a freshly marshaled argument
// array otherwise. In return position, a statically-dispatched call to
// this very function (the common named-recursion case) becomes a
// musttail call — the GC list is released first, as spec.md §4.4
// requires of every tail call.
func (g *Generator) compileCall(fc *FuncContext, n *ast.Call, isReturn bool) *Object {
	callee := g.resolveCallee(fc, n.Callee)
	if callee.StaticFn != nil {
		return g.compileStaticCall(fc, n, callee, isReturn)
	}
	return g.compileDynamicCall(fc, n, callee, isReturn)
}

// resolveCallee compiles n.Callee the way every other operand is
// compiled, except for one case: a direct reference to a named
// recursive binding still pending self-materialization (function.go)
// is used as-is, StaticFn and all, without forcing materializeSelf's
// heap allocation — a call never needs the placeholder's heap Function
// object, only its specialized function pointer, so calling through a
// name recursively never allocates on every call the way a non-call
// value-use of the same name (passing it to print, storing it in a
// tuple, …) legitimately does.
func (g *Generator) resolveCallee(fc *FuncContext, calleeNode ast.Node) *Object {
	if ref, ok := calleeNode.(*ast.Reference); ok {
		if o, ok := fc.Locals[ref.Var]; ok && o.pendingSelf {
			return o
		}
	}
	return g.compile(calleeNode, fc, false)
}

func (g *Generator) compileStaticCall(fc *FuncContext, n *ast.Call, callee *Object, isReturn bool) *Object {
	ft := callee.Type.(types.Function)
	args := make([]value.Value, 0, len(n.Arguments)+1)
	if callee.GlobalsPtr != nil {
		args = append(args, callee.GlobalsPtr)
	}
	for i, a := range n.Arguments {
		argObj := g.compile(a, fc, false)
		if ft.Params[i].IsStatic() {
			args = append(args, argObj.unbox(fc).Value)
			continue
		}
		boxed := argObj.box(fc)
		fc.Block.NewCall(fc.RT.Incref, boxed.Value)
		args = append(args, boxed.Value)
	}

	if isReturn && callee.StaticFn == value.Value(fc.Func) {
		fc.release()
		tail := fc.Block.NewCall(callee.StaticFn, args...)
		tail.Tail = enum.TailMustTail
		fc.Block.NewRet(tail)
		return nil
	}

	call := fc.Block.NewCall(callee.StaticFn, args...)
	result := &Object{Type: ft.Return, Value: call, Boxed: !ft.Return.IsStatic()}
	if result.Boxed {
		fc.track(call)
	}
	if isReturn {
		g.emitReturn(fc, result)
		return nil
	}
	return result
}

// compileDynamicCall marshals the argument list into a temporary
// ObjectArray (the same array shape used for a closure's own globals
// and GC list) and calls through the runtime's function_call, since the
// callee's arity isn't known well enough at compile time to call a
// specific specialized function directly. Each argument is increfed
// before being pushed (the array owns that unit until objarr_release
// drops it); the wrapper the callee dispatches through increfs again
// when forwarding to its own specialized function, so the two units —
// one for the marshaling array, one for the callee's own GC list — are
// each released exactly once, leaving the caller's original reference
// untouched throughout.
func (g *Generator) compileDynamicCall(fc *FuncContext, n *ast.Call, callee *Object, isReturn bool) *Object {
	boxedCallee := callee.box(fc)
	count := int64(len(n.Arguments))
	varArr := fc.Block.NewCall(fc.RT.ObjArrNew, constant.NewInt(lltypes.I64, count))
	for _, a := range n.Arguments {
		argObj := g.compile(a, fc, false)
		boxed := argObj.box(fc)
		fc.Block.NewCall(fc.RT.Incref, boxed.Value)
		fc.Block.NewCall(fc.RT.ObjArrPush, varArr, boxed.Value)
	}
	resultBoxed := fc.Block.NewCall(fc.RT.FunctionCall, boxedCallee.Value, constant.NewInt(lltypes.I64, count), varArr)
	fc.Block.NewCall(fc.RT.ObjArrRelease, varArr)
	fc.track(resultBoxed)

	result := (&Object{Type: n.Type(), Value: resultBoxed, Boxed: true}).maybeUnbox(fc)
	if isReturn {
		g.emitReturn(fc, result)
		return nil
	}
	return result
}
