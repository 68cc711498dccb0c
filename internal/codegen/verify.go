package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/enum"
	"github.com/llir/llvm/ir/value"

	"github.com/coral-lang/coral/internal/diagnostics"
)

// Verify implements spec.md §7's "IR verification errors": a structural
// check over the module Compile produced, run only when --verify-llvm
// asks for it. llir/llvm itself has no verifier (unlike the reference
// LLVM C++ API's Module::verify) — this checks the three invariants
// Compile's own construction relies on rather than attempting a general
// LLVM well-formedness pass: every block is terminated, every musttail
// call is the last instruction before a matching ret, and every call
// against one of the ABI's external declarations passes the arity that
// declaration expects.
func Verify(mod *ir.Module) error {
	declared := make(map[*ir.Func]int, len(mod.Funcs))
	for _, fn := range mod.Funcs {
		declared[fn] = len(fn.Params)
	}

	for _, fn := range mod.Funcs {
		if len(fn.Blocks) == 0 {
			continue // external ABI declaration, no body to check
		}
		for _, block := range fn.Blocks {
			if err := verifyBlock(fn, block, declared); err != nil {
				return &diagnostics.IRVerificationError{Msg: err.Error()}
			}
		}
	}
	return nil
}

func verifyBlock(fn *ir.Func, block *ir.Block, declared map[*ir.Func]int) error {
	if block.Term == nil {
		return fmt.Errorf("function %s: block %s has no terminator", fn.Name(), block.Name())
	}

	for i, inst := range block.Insts {
		call, ok := inst.(*ir.InstCall)
		if !ok {
			continue
		}
		if callee, ok := call.Callee.(*ir.Func); ok {
			if want, ok := declared[callee]; ok && len(call.Args) != want {
				return fmt.Errorf("function %s: call to %s passes %d arguments, want %d",
					fn.Name(), callee.Name(), len(call.Args), want)
			}
		}
		if call.Tail != enum.TailMustTail {
			continue
		}
		if i != len(block.Insts)-1 {
			return fmt.Errorf("function %s: block %s's musttail call is not its last instruction", fn.Name(), block.Name())
		}
		ret, ok := block.Term.(*ir.TermRet)
		if !ok || ret.X == nil || ret.X != value.Value(call) {
			return fmt.Errorf("function %s: block %s's musttail call is not immediately followed by a matching ret", fn.Name(), block.Name())
		}
	}
	return nil
}
