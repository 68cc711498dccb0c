package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	"github.com/llir/llvm/ir/enum"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/coral-lang/coral/internal/abi"
	"github.com/coral-lang/coral/internal/types"
)

// boxRaw and unboxRaw implement the tagged-pointer conversions for a
// bare IR value outside of any Object/FuncContext — the wrapper
// function (function.go) needs them before it has either.
func boxRaw(block *ir.Block, raw value.Value, k types.Kind) value.Value {
	switch k {
	case types.KindInteger:
		shifted := block.NewShl(raw, constant.NewInt(lltypes.I64, 2))
		tagged := block.NewOr(shifted, constant.NewInt(lltypes.I64, tagInt))
		return block.NewIntToPtr(tagged, abi.ObjectPtr)
	case types.KindBoolean:
		asInt := block.NewZExt(raw, lltypes.I64)
		shifted := block.NewShl(asInt, constant.NewInt(lltypes.I64, 2))
		tagged := block.NewOr(shifted, constant.NewInt(lltypes.I64, tagBool))
		return block.NewIntToPtr(tagged, abi.ObjectPtr)
	default:
		return raw
	}
}

func unboxRaw(block *ir.Block, boxed value.Value, k types.Kind) value.Value {
	switch k {
	case types.KindInteger:
		asInt := block.NewPtrToInt(boxed, lltypes.I64)
		return block.NewAShr(asInt, constant.NewInt(lltypes.I64, 2))
	case types.KindBoolean:
		asInt := block.NewPtrToInt(boxed, lltypes.I64)
		shifted := block.NewLShr(asInt, constant.NewInt(lltypes.I64, 2))
		return block.NewTrunc(shifted, lltypes.I1)
	default:
		return boxed
	}
}

// tagMask/tagInt/tagBool implement spec.md §4.5's tagged-pointer
// scheme: the low two bits of a pointer-sized integer distinguish a
// raw heap Object pointer (00) from an immediate Integer (01) or
// Boolean (10). Tagged immediates never touch the heap or the
// refcounting ABI.
const (
	tagHeap = 0
	tagInt  = 1
	tagBool = 2
)

// Object is codegen's Object abstraction (spec.md §4.4): every coral
// value flowing through a function body carries its inferred coral
// type, whether it is currently represented unboxed (a plain SSA
// value, no ABI pointer) or boxed (an abi.ObjectPtr, whether tagged
// immediate or real heap pointer), and the raw IR value itself.
//
// Tuple additionally keeps Members populated when unboxed (its two
// components live as separate Objects rather than one heap pointer);
// Function additionally keeps StaticFn/GlobalsPtr populated when the
// callee is known at compile time well enough to dispatch directly
// instead of through the ABI's dynamic wrapper.
type Object struct {
	Type  types.Type
	Value value.Value
	Boxed bool

	Members []*Object // Tuple, when unboxed

	StaticFn   value.Value // Function, direct IR function pointer when known
	GlobalsPtr value.Value // Function, captured-globals pointer paired with StaticFn

	// pendingSelf, SelfArity and SelfWrapper mark a not-yet-materialized
	// named recursive binding (function.go's self-reference
	// placeholder): StaticFn/GlobalsPtr are already valid for a direct
	// call, but no heap Function object has been constructed yet. A
	// non-call reference forces materializeSelf to build one — via
	// SelfWrapper, the dynamic-dispatch wrapper function_new needs,
	// declared before the body compiles precisely so this is possible —
	// lazily, the first time it's needed.
	pendingSelf bool
	SelfArity   int
	SelfWrapper value.Value
}

// box converts o to its boxed abi.ObjectPtr representation, allocating
// through the runtime where a real heap Object is unavoidable (String,
// boxed Tuple, Function) and using tagged-pointer arithmetic for
// Integer/Boolean, which never touch the heap.
func (o *Object) box(fc *FuncContext) *Object {
	if o.Boxed {
		return o
	}
	switch o.Type.Kind() {
	case types.KindInteger, types.KindBoolean:
		ptr := boxRaw(fc.Block, o.Value, o.Type.Kind())
		return &Object{Type: o.Type, Value: ptr, Boxed: true}
	case types.KindTuple:
		if len(o.Members) == 2 {
			first := o.Members[0].box(fc)
			second := o.Members[1].box(fc)
			fc.Block.NewCall(fc.RT.Incref, first.Value)
			fc.Block.NewCall(fc.RT.Incref, second.Value)
			ptr := fc.Block.NewCall(fc.RT.TupleNew, first.Value, second.Value)
			fc.track(ptr)
			return &Object{Type: o.Type, Value: ptr, Boxed: true}
		}
	}
	// Already-boxed kinds (String, Function, dynamic Any/Union) should
	// never reach here still unboxed; a compiler invariant violation.
	panic("codegen: box called on an object with no unboxed representation: " + o.Type.String())
}

// unbox converts a boxed Object back to its unboxed SSA representation
// where one exists (Integer/Boolean by tag-shift, Tuple by loading
// members through the runtime). String and Function have no unboxed
// form and are returned unchanged.
func (o *Object) unbox(fc *FuncContext) *Object {
	if !o.Boxed {
		return o
	}
	switch o.Type.Kind() {
	case types.KindInteger, types.KindBoolean:
		raw := unboxRaw(fc.Block, o.Value, o.Type.Kind())
		return &Object{Type: o.Type, Value: raw, Boxed: false}
	case types.KindTuple:
		if tt, ok := o.Type.(types.Tuple); ok {
			first := fc.Block.NewCall(fc.RT.TupleFirst, o.Value)
			second := fc.Block.NewCall(fc.RT.TupleSecond, o.Value)
			fc.track(first)
			fc.track(second)
			fo := (&Object{Type: tt.First, Value: first, Boxed: true}).maybeUnbox(fc)
			so := (&Object{Type: tt.Second, Value: second, Boxed: true}).maybeUnbox(fc)
			return &Object{Type: o.Type, Boxed: false, Members: []*Object{fo, so}}
		}
	}
	return o
}

// maybeUnbox unboxes o only when its coral type is_static, matching
// the ABI contract that only static kinds are ever represented
// unboxed.
func (o *Object) maybeUnbox(fc *FuncContext) *Object {
	if o.Type != nil && o.Type.IsStatic() {
		return o.unbox(fc)
	}
	return o
}

// irTypeOf returns the specialized (unboxed-where-possible) IR type a
// value of coral type t is represented with — used to build specialized
// function signatures (spec.md §4.4's "Closures").
func irTypeOf(t types.Type) lltypes.Type {
	switch t.Kind() {
	case types.KindInteger:
		return lltypes.I64
	case types.KindBoolean:
		return lltypes.I1
	default:
		return abi.ObjectPtr
	}
}

// boolConst is a small constant.Constant helper for I1 literals.
func boolConst(v bool) *constant.Int {
	if v {
		return constant.NewInt(lltypes.I1, 1)
	}
	return constant.NewInt(lltypes.I1, 0)
}

// binopPredicate maps a NumericComparison or Equals operator to the IR
// integer predicate used when both operands are statically Integer (or,
// for Equals, both statically Boolean).
func binopPredicate(op string) enum.IPred {
	switch op {
	case "Lt":
		return enum.IPredSLT
	case "Lte":
		return enum.IPredSLE
	case "Gt":
		return enum.IPredSGT
	case "Gte":
		return enum.IPredSGE
	case "Eq":
		return enum.IPredEQ
	case "Neq":
		return enum.IPredNE
	default:
		panic("codegen: unhandled comparison operator " + op)
	}
}
