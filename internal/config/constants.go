// Package config holds coral's named constants: exit codes, the
// standard-library surface spec.md §1 allows (print, first, second),
// and the inference fixed point's safety-net iteration cap. Mirrors
// the teacher's internal/config/constants.go — one package, flat
// constant blocks, no per-component config scattered around the tree.
package config

// IsTestMode mirrors the teacher's package var toggled by tests; here
// it suppresses internal/diagnostics' isatty-based colorization so
// golden-output tests aren't sensitive to the terminal they run under.
var IsTestMode = false

// Exit codes (spec.md §6: "0 on successful execution/emission;
// non-zero on parse, inference, validation, or runtime error").
const (
	ExitSuccess = 0
	ExitError   = 1
)

// Standard library surface (spec.md §1's "no standard library beyond
// print, first, second" — these are wire term kinds, not call-by-name
// builtins, but naming them here keeps cmd/coral's messages and
// internal/diagnostics consistent with one source of truth).
const (
	BuiltinPrint  = "print"
	BuiltinFirst  = "first"
	BuiltinSecond = "second"
)

// InferenceMaxRounds bounds internal/infer's fixed-point loop
// (spec.md §9's "assert a maximum iteration count… and fail closed on
// exceedance").
const InferenceMaxRounds = 4096
