package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/coral-lang/coral/internal/abi"
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/scope"
	"github.com/coral-lang/coral/internal/types"
)

// compileFunctionLiteral implements spec.md §4.4's "Closures": it
// declares the dynamic wrapper, builds the specialized function and
// compiles its body (a self-reference inside the body may need the
// wrapper's pointer, hence declaring it first), fills the wrapper's
// body in once the specialized function exists, and finally constructs
// the two representations the surrounding expression needs: a real
// heap Function object (for whenever this closure is used dynamically
// — printed, stored, called indirectly) and, when it has captures, a
// parallel globals array built the same way (for direct static
// dispatch from this same call site, which never goes through the
// heap object's internal array at all).
func (g *Generator) compileFunctionLiteral(fc *FuncContext, n *ast.Function) *Object {
	fnType := n.Type().(types.Function)
	captures := n.FuncScope.Captures
	hasCaptures := len(captures) > 0

	wrapperFn := g.Module.NewFunc(g.next("dispatch"), abi.ObjectPtr,
		ir.NewParam("globals", abi.ObjectArrayPtr), ir.NewParam("args", abi.ObjectArrayPtr))

	specFn, globalsParam := g.buildSpecialized(n, fnType, captures, hasCaptures, wrapperFn)
	g.fillWrapperBody(wrapperFn, specFn, fnType, hasCaptures)

	capCount := constant.NewInt(lltypes.I64, int64(len(captures)))
	arityConst := constant.NewInt(lltypes.I16, int64(len(n.Params)))
	fnObj := fc.Block.NewCall(fc.RT.FunctionNew, capCount, arityConst, wrapperFn)
	fc.track(fnObj)

	var staticGlobals value.Value
	if hasCaptures {
		staticGlobals = fc.Block.NewCall(fc.RT.ObjArrNew, capCount)
		fc.track(staticGlobals)
	}
	for _, cap := range captures {
		var val *Object
		if n.Self != nil && cap.Var == n.Self.Var {
			val = &Object{Type: n.Type(), Value: fnObj, Boxed: true}
		} else {
			val = g.compileReferenceVar(fc, cap.Var).box(fc)
		}
		fc.Block.NewCall(fc.RT.Incref, val.Value)
		fc.Block.NewCall(fc.RT.FunctionSetGlobal, fnObj, constant.NewInt(lltypes.I64, int64(cap.Index)), val.Value)
		fc.Block.NewCall(fc.RT.Incref, val.Value)
		fc.Block.NewCall(fc.RT.ObjArrPush, staticGlobals, val.Value)
	}

	_ = globalsParam
	return &Object{Type: n.Type(), Value: fnObj, Boxed: true, StaticFn: specFn, GlobalsPtr: staticGlobals}
}

// buildSpecialized emits the precise-signature IR function: an
// optional leading ObjectArrayPtr globals parameter, one parameter per
// declared argument (raw i64/i1 for a static Integer/Boolean,
// abi.ObjectPtr for every other type), and the body compiled in return
// position.
func (g *Generator) buildSpecialized(n *ast.Function, fnType types.Function, captures []*scope.Capture, hasCaptures bool, wrapperFn *ir.Func) (*ir.Func, *ir.Param) {
	retIR := irTypeOf(fnType.Return)
	params := make([]*ir.Param, 0, len(n.Params)+1)

	var globalsParam *ir.Param
	if hasCaptures {
		globalsParam = ir.NewParam("globals", abi.ObjectArrayPtr)
		params = append(params, globalsParam)
	}
	for i, p := range n.Params {
		params = append(params, ir.NewParam(p.Name, irTypeOf(fnType.Params[i])))
	}

	specFn := g.Module.NewFunc(g.next("fn"), retIR, params...)
	newFC := newFuncContext(g, specFn, globalsParam, captures)

	offset := 0
	if hasCaptures {
		offset = 1
	}
	for i, p := range n.Params {
		paramType := fnType.Params[i]
		isBoxed := !paramType.IsStatic()
		obj := &Object{Type: paramType, Value: specFn.Params[offset+i], Boxed: isBoxed}
		if isBoxed {
			newFC.track(obj.Value)
		}
		newFC.Locals[p.Var] = obj
	}

	if n.Self != nil {
		newFC.Locals[n.Self.Var] = &Object{
			Type: n.Type(), StaticFn: specFn, GlobalsPtr: globalsParamValue(globalsParam),
			pendingSelf: true, SelfArity: len(n.Params), SelfWrapper: wrapperFn,
		}
	}

	g.compile(n.Body, newFC, true)
	newFC.finalize()
	return specFn, globalsParam
}

func globalsParamValue(p *ir.Param) value.Value {
	if p == nil {
		return nil
	}
	return p
}

// fillWrapperBody adds the dynamic dispatch entry block every Function
// object exposes to the runtime (abi.WrapperFuncType) to an
// already-declared wrapperFn: unpack each vararg into the
// representation specialized expects, forward the call, and box the
// result back up.
func (g *Generator) fillWrapperBody(wrapperFn *ir.Func, specFn *ir.Func, fnType types.Function, hasCaptures bool) {
	globalsParam, argsParam := wrapperFn.Params[0], wrapperFn.Params[1]
	entry := wrapperFn.NewBlock("entry")

	var callArgs []value.Value
	if hasCaptures {
		callArgs = append(callArgs, globalsParam)
	}
	if len(fnType.Params) > 0 {
		objects := objectsField(entry, argsParam)
		for i, paramType := range fnType.Params {
			boxedArg := loadIndexed(entry, objects, i)
			entry.NewCall(g.RT.Incref, boxedArg)
			if paramType.IsStatic() {
				callArgs = append(callArgs, unboxRaw(entry, boxedArg, paramType.Kind()))
			} else {
				callArgs = append(callArgs, boxedArg)
			}
		}
	}
	result := entry.NewCall(specFn, callArgs...)
	boxedResult := boxRaw(entry, result, fnType.Return.Kind())
	entry.NewRet(boxedResult)
}

// materializeSelf implements a named recursive binding's non-call
// reference (spec.md §4.4: "stored as the freshly-created Function
// object itself", realized lazily here since the real object doesn't
// exist until after the body — which is where every self-reference
// lives — finishes compiling). It rebuilds an equivalent Function
// object from fc's own incoming captures and caches it, so every
// further non-call use of the same binding within this function shares
// one heap object.
func (g *Generator) materializeSelf(fc *FuncContext, placeholder *Object) *Object {
	capCount := constant.NewInt(lltypes.I64, int64(len(fc.CaptureList)))
	arityConst := constant.NewInt(lltypes.I16, int64(placeholder.SelfArity))
	fnObj := fc.Block.NewCall(fc.RT.FunctionNew, capCount, arityConst, placeholder.SelfWrapper)
	fc.track(fnObj)
	for _, cap := range fc.CaptureList {
		val := g.compileReferenceVar(fc, cap.Var).box(fc)
		fc.Block.NewCall(fc.RT.Incref, val.Value)
		fc.Block.NewCall(fc.RT.FunctionSetGlobal, fnObj, constant.NewInt(lltypes.I64, int64(cap.Index)), val.Value)
	}
	materialized := &Object{Type: placeholder.Type, Value: fnObj, Boxed: true, StaticFn: placeholder.StaticFn, GlobalsPtr: placeholder.GlobalsPtr}
	for v, o := range fc.Locals {
		if o == placeholder {
			fc.Locals[v] = materialized
		}
	}
	return materialized
}
