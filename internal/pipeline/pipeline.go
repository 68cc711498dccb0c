// Package pipeline wires spec.md §2's five stages — ingest, bind,
// infer, validate, codegen — into the one entry point cmd/coral and
// its tests drive a whole program through.
package pipeline

import (
	"fmt"

	"github.com/llir/llvm/ir"

	"github.com/coral-lang/coral/internal/ast"
	"github.com/coral-lang/coral/internal/binder"
	"github.com/coral-lang/coral/internal/codegen"
	"github.com/coral-lang/coral/internal/infer"
	"github.com/coral-lang/coral/internal/ingest"
	"github.com/coral-lang/coral/internal/scope"
	"github.com/coral-lang/coral/internal/validate"
)

// Result carries every stage's output a caller might still want after
// Compile returns; Module is nil when Compile stopped before codegen.
type Result struct {
	Root     ast.Node
	Registry *scope.Registry
	Module   *ir.Module
}

// Stage names a point Compile can be asked to stop at, rather than
// always running every stage. cmd/coral always passes StageCodegen.
type Stage int

const (
	StageCodegen Stage = iota // run every stage (default)
	StageBind                 // stop after ingest+bind, before infer
	StageInfer                // stop after infer+validate, before codegen
)

// Compile runs source through every stage up to (and including) stop,
// returning whatever Result fields that far gets populated.
func Compile(source []byte, stop Stage) (*Result, error) {
	file, err := ingest.Parse(source)
	if err != nil {
		return nil, err
	}

	bound, err := binder.Build(file)
	if err != nil {
		return nil, err
	}
	res := &Result{Root: bound.Root, Registry: bound.Registry}
	if stop == StageBind {
		return res, nil
	}

	if err := infer.Run(bound.Root, bound.Registry); err != nil {
		return nil, fmt.Errorf("pipeline: %w", err)
	}
	if err := validate.Run(bound.Root); err != nil {
		return nil, err
	}
	if stop == StageInfer {
		return res, nil
	}

	mod, err := codegen.Compile(bound.Root)
	if err != nil {
		return nil, err
	}
	res.Module = mod
	return res, nil
}
