package codegen

import (
	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"
	"github.com/llir/llvm/ir/value"

	"github.com/coral-lang/coral/internal/abi"
	"github.com/coral-lang/coral/internal/scope"
)

// FuncContext is spec.md §4.4's "per-function state": everything
// compile() needs while it's emitting instructions into one IR
// function — the captured-globals pointer, the locals map, the GC
// list, and bookkeeping to finalize both once the body is done.
type FuncContext struct {
	Gen   *Generator
	RT    *abi.Runtime
	Func  *ir.Func
	Block *ir.Block

	// GlobalsPtr is the specialized function's first parameter when it
	// captures anything; nil for functions that capture nothing.
	GlobalsPtr *ir.Param

	// Locals maps a ScopeVar to the Object already computed for it in
	// this function (spec.md §4.4's "Globals" caching rule extended to
	// every local, not only captured ones).
	Locals map[*scope.ScopeVar]*Object

	// CapturedIndex maps a captured ScopeVar to its slot in GlobalsPtr,
	// mirroring scope.Scope.Captures' stable indices.
	CapturedIndex map[*scope.ScopeVar]int

	// CaptureList is the same captures in index order, kept so a named
	// recursive function can rebuild an equivalent globals array for
	// itself on demand (function.go's materializeSelf).
	CaptureList []*scope.Capture

	// gcAlloc is the entry-block objarr_new call whose placeholder
	// capacity argument finalize() patches once the true count is
	// known (spec.md §4.4's "Per-function state").
	gcAlloc *ir.InstCall
	gcCount int64
}

// newFuncContext allocates the GC list in fn's entry block with a
// placeholder capacity, to be patched in finalize.
func newFuncContext(gen *Generator, fn *ir.Func, globalsPtr *ir.Param, captures []*scope.Capture) *FuncContext {
	entry := fn.NewBlock("entry")
	capIdx := make(map[*scope.ScopeVar]int, len(captures))
	for _, c := range captures {
		capIdx[c.Var] = c.Index
	}
	fc := &FuncContext{
		Gen:           gen,
		RT:            gen.RT,
		Func:          fn,
		Block:         entry,
		GlobalsPtr:    globalsPtr,
		Locals:        make(map[*scope.ScopeVar]*Object),
		CapturedIndex: capIdx,
		CaptureList:   captures,
	}
	fc.gcAlloc = entry.NewCall(gen.RT.ObjArrNew, constant.NewInt(lltypes.I64, 0))
	return fc
}

// track appends a boxed value this frame owns to the GC list, per
// spec.md §4.4's "GC list semantics": any call producing a boxed value
// the current frame will own is recorded here for release on return.
func (fc *FuncContext) track(v value.Value) {
	fc.gcCount++
	fc.Block.NewCall(fc.RT.ObjArrPush, fc.gcAlloc, v)
}

// release emits the GC list's release call; compile() calls this on
// every return path and before a musttail call, never more than once
// per path (spec.md §4.4's "exactly once on each return path").
func (fc *FuncContext) release() {
	fc.Block.NewCall(fc.RT.ObjArrRelease, fc.gcAlloc)
}

// finalize patches the GC list's placeholder capacity with the true
// distinct-boxed-object count recorded via track. Since no loop can
// execute an instruction more than once per call (rinha has no
// looping construct), gcCount is an exact upper bound on live
// temporaries, matching spec.md §4.4's sizing rule.
func (fc *FuncContext) finalize() {
	fc.gcAlloc.Args[0] = constant.NewInt(lltypes.I64, fc.gcCount)
}
