// Package abi declares spec.md §4.5's fixed runtime ABI as external
// declarations on an *ir.Module: the struct layouts codegen's Object
// abstraction targets, and the C function signatures it calls against.
// Nothing in this package emits a definition — runtime/runtime.c is the
// one implementation, linked in at JIT time (spec.md §6).
package abi

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/types"

	coraltypes "github.com/coral-lang/coral/internal/types"
)

// ObjectPtr is the boxed value representation: a pointer to `struct
// Object { int64 type; uint64 refcount; void* value; }`. coral never
// needs to address Object's fields directly from Go — every access
// goes through a runtime call — so it's declared as an anonymous
// literal struct of those three field types rather than a named type.
var (
	ObjectType = types.NewStruct(types.I64, types.I64, types.I8Ptr)
	ObjectPtr  = types.NewPointer(ObjectType)

	TupleType = types.NewStruct(ObjectPtr, ObjectPtr)
	TuplePtr  = types.NewPointer(TupleType)

	ObjectArrayType = types.NewStruct(types.NewPointer(ObjectPtr), types.I64, types.I64)
	ObjectArrayPtr  = types.NewPointer(ObjectArrayType)

	// WrapperFuncType is the dynamic-wrapper signature every closure
	// exposes to the runtime Function object: (globals ptr, varargs
	// ptr) -> boxed ptr (spec.md §4.4's "Closures"). Both globals and
	// varargs are ObjectArrayPtr: the same array-of-boxed-pointers
	// shape internal/codegen already uses for the per-function GC
	// list, reused here so one runtime helper pair (objarr_new/push)
	// marshals both a closure's captured environment and a dynamic
	// call's argument list.
	WrapperFuncType = types.NewFunc(ObjectPtr, ObjectArrayPtr, ObjectArrayPtr)
	WrapperFuncPtr  = types.NewPointer(WrapperFuncType)

	FunctionType = types.NewStruct(types.I16, ObjectArrayPtr, WrapperFuncPtr)
	FunctionPtr  = types.NewPointer(FunctionType)
)

// Runtime kind tags: the value stored in a heap Object's `type` field,
// and the bit position a TypeAssert mask uses to name that kind. These
// numbers are part of the ABI — runtime/runtime.c's enum must agree.
const (
	KindTagBoolean  = 0
	KindTagInteger  = 1
	KindTagString   = 2
	KindTagTuple    = 3
	KindTagFunction = 4
)

// kindTag maps a concrete coral Kind to its runtime tag. Any/Undefined/
// Union never appear as an observed runtime kind — every boxed Object
// is exactly one of the five concrete kinds above — so they have no
// tag of their own.
func kindTag(k coraltypes.Kind) int64 {
	switch k {
	case coraltypes.KindBoolean:
		return KindTagBoolean
	case coraltypes.KindInteger:
		return KindTagInteger
	case coraltypes.KindString:
		return KindTagString
	case coraltypes.KindTuple:
		return KindTagTuple
	case coraltypes.KindFunction:
		return KindTagFunction
	default:
		panic("abi: type has no runtime kind tag: " + k.String())
	}
}

// KindMask returns the bitmask of runtime kind tags t allows: a single
// bit for a concrete kind, one bit per member for a Union. TypeAssert
// uses this to check a boxed value's observed kind against whatever an
// operator requires, covering both a single-kind requirement (e.g.
// First/Second's Tuple) and a multi-kind one (Equals' Bool|Int|String).
func KindMask(t coraltypes.Type) int64 {
	if u, ok := t.(coraltypes.Union); ok {
		var mask int64
		for _, m := range u.Members() {
			mask |= 1 << kindTag(m.Kind())
		}
		return mask
	}
	return 1 << kindTag(t.Kind())
}

// Runtime collects every *ir.Func the code generator calls against,
// declared (not defined) on the owning module.
type Runtime struct {
	Incref    *ir.Func
	Decref    *ir.Func
	StringNew *ir.Func

	TupleNew    *ir.Func
	TupleFirst  *ir.Func
	TupleSecond *ir.Func

	ObjArrNew     *ir.Func
	ObjArrPush    *ir.Func
	ObjArrRelease *ir.Func

	FunctionNew       *ir.Func
	FunctionSetGlobal *ir.Func
	FunctionCall      *ir.Func

	Add, Sub, Mul, Div, Mod            *ir.Func
	Lt, Lte, Gt, Gte, Eq, Neq, And, Or *ir.Func

	PrintObj *ir.Func

	// TypeAssert is not part of spec.md §4.5's literal ABI list: it is
	// codegen's own bridge for internal/ast.TypeCheck, checking a boxed
	// value's runtime kind tag against a bitmask and raising a dynamic
	// type error (spec.md §7) on mismatch. It returns its argument
	// unchanged (borrowed, no ownership change) so callers treat it as
	// a transparent narrowing.
	TypeAssert *ir.Func
}

// Declare installs every ABI declaration onto m and returns the handle
// codegen threads through function compilation.
func Declare(m *ir.Module) *Runtime {
	declFunc := func(name string, ret types.Type, params ...types.Type) *ir.Func {
		irParams := make([]*ir.Param, len(params))
		for i, p := range params {
			irParams[i] = ir.NewParam("", p)
		}
		return m.NewFunc(name, ret, irParams...)
	}

	binop := func(name string) *ir.Func {
		return declFunc(name, ObjectPtr, ObjectPtr, ObjectPtr)
	}

	r := &Runtime{
		Incref:    declFunc("incref", types.Void, ObjectPtr),
		Decref:    declFunc("decref", types.Void, ObjectPtr),
		StringNew: declFunc("string_new", ObjectPtr, types.I8Ptr, types.I64),

		TupleNew:    declFunc("tuple_new", ObjectPtr, ObjectPtr, ObjectPtr),
		TupleFirst:  declFunc("tuple_first", ObjectPtr, ObjectPtr),
		TupleSecond: declFunc("tuple_second", ObjectPtr, ObjectPtr),

		ObjArrNew:     declFunc("objarr_new", ObjectArrayPtr, types.I64),
		ObjArrPush:    declFunc("objarr_push", types.Void, ObjectArrayPtr, ObjectPtr),
		ObjArrRelease: declFunc("objarr_release", types.Void, ObjectArrayPtr),

		FunctionNew:       declFunc("function_new", ObjectPtr, types.I64, types.I16, WrapperFuncPtr),
		FunctionSetGlobal: declFunc("function_set_global", types.Void, ObjectPtr, types.I64, ObjectPtr),
		FunctionCall:      declFunc("function_call", ObjectPtr, ObjectPtr, types.I64, ObjectArrayPtr),

		Add: binop("rinha_add"), Sub: binop("rinha_sub"), Mul: binop("rinha_mul"),
		Div: binop("rinha_div"), Mod: binop("rinha_mod"),
		Lt: binop("rinha_lt"), Lte: binop("rinha_lte"), Gt: binop("rinha_gt"), Gte: binop("rinha_gte"),
		Eq: binop("rinha_eq"), Neq: binop("rinha_neq"), And: binop("rinha_and"), Or: binop("rinha_or"),

		PrintObj: declFunc("print_obj", types.Void, ObjectPtr),

		TypeAssert: declFunc("rinha_type_assert", ObjectPtr, ObjectPtr, types.I64),
	}
	return r
}
