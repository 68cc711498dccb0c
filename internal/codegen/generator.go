// Package codegen implements spec.md §4.4: it lowers the validated
// typed AST (internal/ast) straight to LLVM IR via github.com/llir/llvm,
// targeting the fixed runtime ABI internal/abi declares. The main
// entry point is Compile (Verify checks its output); inside it, a
// compiler bug (a typed-AST invariant violated) surfaces as a panic,
// which Compile recovers into a diagnostics.CodegenInvariantError —
// spec.md §7's "abort with a diagnostic" applied to the one pass that
// has no user-facing error of its own to report.
package codegen

import (
	"fmt"

	"github.com/llir/llvm/ir"
	"github.com/llir/llvm/ir/constant"
	lltypes "github.com/llir/llvm/ir/types"

	"github.com/coral-lang/coral/internal/abi"
	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/diagnostics"
)

// Generator owns the *ir.Module under construction and the bookkeeping
// every function compiled into it shares: the ABI handle and a counter
// that names every generated function/block deterministically, never
// from a random or wall-clock source, matching spec.md §8's "two runs
// on the same input produce byte-identical IR modulo pointer identity."
type Generator struct {
	Module *ir.Module
	RT     *abi.Runtime

	counter int
}

// NewGenerator creates an empty module with the ABI declared on it.
func NewGenerator() *Generator {
	m := ir.NewModule()
	return &Generator{Module: m, RT: abi.Declare(m)}
}

// next returns prefix suffixed with a monotonically increasing,
// per-module counter, used for every function and block name codegen
// invents so two compiles of the same AST produce identical names.
func (g *Generator) next(prefix string) string {
	g.counter++
	return fmt.Sprintf("%s.%d", prefix, g.counter)
}

// newGlobalString installs s as a private global char array and
// returns an i8* pointing at its first byte, for string_new's buffer
// argument.
func (g *Generator) newGlobalString(s string) *ir.Global {
	data := constant.NewCharArray(append([]byte(s), 0))
	gv := g.Module.NewGlobalDef(g.next("str"), data)
	gv.Immutable = true
	return gv
}

// Compile lowers root (a fully bound, inferred, and validated program)
// to an LLVM module with a single entry point, `main`. It never mutates
// root's tree structure, only reads it.
func Compile(root ast.Node) (mod *ir.Module, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = &diagnostics.CodegenInvariantError{Msg: fmt.Sprint(r)}
		}
	}()
	g := NewGenerator()
	g.compileProgram(root)
	return g.Module, nil
}

// compileProgram builds the top-level `main` spec.md §4.4 names as the
// fifth output of "compiling a program": an IR function taking no
// arguments and returning i32, whose body is the program's expression
// compiled for its side effects (print). The program's resulting value
// is computed, participates in the top-level GC list like any other
// temporary, and is discarded — coral has no notion of a process exit
// value derived from the expression result.
func (g *Generator) compileProgram(root ast.Node) {
	mainFn := g.Module.NewFunc("main", lltypes.I32)
	fc := newFuncContext(g, mainFn, nil, nil)
	g.compile(root, fc, false)
	fc.release()
	fc.finalize()
	fc.Block.NewRet(constant.NewInt(lltypes.I32, 0))
}
