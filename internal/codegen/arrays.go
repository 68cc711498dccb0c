package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/coral-lang/coral/internal/abi"
)

// objectsField GEPs an ObjectArrayPtr down to its backing `objects
// Object**` field and loads it. Every array-indexed load — a closure's
// captured globals, a dynamic call's varargs, a wrapper's own two
// parameters — goes through this one accessor.
func objectsField(block *ir.Block, arr value.Value) value.Value {
	zero64 := constant.NewInt(lltypes.I64, 0)
	field0 := constant.NewInt(lltypes.I32, 0)
	fieldPtr := block.NewGetElementPtr(abi.ObjectArrayType, arr, zero64, field0)
	return block.NewLoad(lltypes.NewPointer(abi.ObjectPtr), fieldPtr)
}

// loadIndexed reads the boxed Object* at idx from an already-loaded
// `objects` pointer.
func loadIndexed(block *ir.Block, objects value.Value, idx int) value.Value {
	elemPtr := block.NewGetElementPtr(abi.ObjectPtr, objects, constant.NewInt(lltypes.I64, int64(idx)))
	return block.NewLoad(abi.ObjectPtr, elemPtr)
}
