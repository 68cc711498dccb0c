// Package diagnostics implements spec.md §7's error taxonomy: one
// exported error struct per failure family, each carrying the typed
// payload its family needs and a plain Error() string — the same shape
// as the teacher's internal/typesystem/error.go's
// SymbolNotFoundError, generalized to coral's five families instead of
// funxy's one. It also owns where those errors (and the codegen
// invariant panics spec.md §7 calls "indicate a compiler bug") get
// written: stderr, colorized only when the stream is a real terminal,
// using the teacher's own mattn/go-isatty dependency
// (internal/evaluator/builtins_term.go's isatty.IsTerminal /
// isatty.IsCygwinTerminal pairing).
package diagnostics

import (
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/config"
)

// IdentifierError covers spec.md §7's "Identifier errors": undefined
// reference, re-declaration in the same scope, self-referential
// initialization.
type IdentifierError struct {
	Loc ast.Location
	Msg string
}

func (e *IdentifierError) Error() string {
	return fmt.Sprintf("%s:%d: identifier error: %s", e.Loc.Filename, e.Loc.Line, e.Msg)
}

// StaticTypeError covers spec.md §7's "Static type errors": provably
// incompatible operand types, non-boolean condition, non-tuple
// First/Second, a static/static return-type mismatch.
type StaticTypeError struct {
	Loc ast.Location
	Msg string
}

func (e *StaticTypeError) Error() string {
	return fmt.Sprintf("%s:%d: type error: %s", e.Loc.Filename, e.Loc.Line, e.Msg)
}

// DynamicTypeError is raised by a runtime TypeCheck or a runtime
// binary-op helper when a value's observed kind doesn't match what the
// operator required. coral's own process never constructs one directly
// — the compiled program's runtime does, via runtime/runtime.c's
// dynamic_type_error — and the shape is declared here so its message
// matches the one that runtime prints. cmd/coral does not run the
// compiled program and never constructs or reports this type.
type DynamicTypeError struct {
	Operator string
	Observed string
}

func (e *DynamicTypeError) Error() string {
	return fmt.Sprintf("dynamic type error: operator %s received a value of kind %s", e.Operator, e.Observed)
}

// IRVerificationError covers spec.md §7's "IR verification errors",
// surfaced only under --verify-llvm.
type IRVerificationError struct {
	Msg string
}

func (e *IRVerificationError) Error() string {
	return fmt.Sprintf("IR verification error: %s", e.Msg)
}

// CodegenInvariantError indicates a compiler bug: an invariant the
// typed AST should guarantee was violated. It is not a user-facing
// diagnostic in the normal sense, but it still goes through Report
// rather than a bare panic so the taxonomy and exit code stay uniform;
// internal/codegen still panics first (spec.md §7: "abort with a
// diagnostic") and cmd/coral recovers it into one of these.
type CodegenInvariantError struct {
	Msg string
}

func (e *CodegenInvariantError) Error() string {
	return fmt.Sprintf("codegen invariant violated: %s", e.Msg)
}

// colorEnabled reports whether w should receive ANSI color codes: only
// when it's an *os.File and that file is a real
// terminal (isatty.IsTerminal or, on Windows, isatty.IsCygwinTerminal —
// the teacher's own pairing), and never under config.IsTestMode.
func colorEnabled(w io.Writer) bool {
	if config.IsTestMode {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Report writes err to w, prefixed "error: " and colorized red when w
// is an interactive terminal. It never exits the process — cmd/coral
// decides the exit code.
func Report(w io.Writer, err error) {
	if err == nil {
		return
	}
	if colorEnabled(w) {
		fmt.Fprintf(w, "\x1b[31merror:\x1b[0m %s\n", err)
		return
	}
	fmt.Fprintf(w, "error: %s\n", err)
}
