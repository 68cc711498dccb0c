// Package ingest is the thin AST-ingest stage (spec.md §2 step 1): it
// turns the wire JSON AST into an immutable Go value tree. It performs
// no scope resolution or type inference — internal/binder does that —
// it only validates that the JSON has the shape spec.md §6 describes.
package ingest

import (
	"encoding/json"
	"fmt"
)

// Location mirrors the wire `{filename, line, start, end}` object.
type Location struct {
	Filename string `json:"filename"`
	Line     int    `json:"line"`
	Start    int    `json:"start"`
	End      int    `json:"end"`
}

// Parameter is a bound name with its own location, used for Let names
// and Function parameters.
type Parameter struct {
	Text     string   `json:"text"`
	Location Location `json:"location"`
}

// Term is one AST node in the wire format. Only the fields relevant to
// Kind are populated; Value is reused for literal scalars (Int/Str/Bool)
// and for Print/First/Second's single operand term, disambiguated by
// Kind in internal/binder.
type Term struct {
	Kind     string          `json:"kind"`
	Location Location        `json:"location"`
	Value    json.RawMessage `json:"value,omitempty"`

	// Tuple
	First  *Term `json:"first,omitempty"`
	Second *Term `json:"second,omitempty"`

	// Binary
	Lhs *Term  `json:"lhs,omitempty"`
	Op  string `json:"op,omitempty"`
	Rhs *Term  `json:"rhs,omitempty"`

	// Function
	Parameters []Parameter `json:"parameters,omitempty"`

	// If
	Condition *Term `json:"condition,omitempty"`
	Then      *Term `json:"then,omitempty"`
	Otherwise *Term `json:"otherwise,omitempty"`

	// Call
	Callee    *Term   `json:"callee,omitempty"`
	Arguments []*Term `json:"arguments,omitempty"`

	// Let
	Name *Parameter `json:"name,omitempty"`
	Next *Term      `json:"next,omitempty"`

	// Var
	Text string `json:"text,omitempty"`
}

// File is the top-level wire object: `{"name": filename, "expression": <term>}`.
type File struct {
	Name       string `json:"name"`
	Expression *Term  `json:"expression"`
}

// Parse decodes the wire JSON AST. It is intentionally shallow: it
// reports malformed JSON or a missing expression, but defers all
// kind-specific structural checks (missing lhs/rhs, unknown op, …) to
// internal/binder, which has the location context to report them well.
func Parse(data []byte) (*File, error) {
	var f File
	if err := json.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("ingest: malformed JSON AST: %w", err)
	}
	if f.Expression == nil {
		return nil, fmt.Errorf("ingest: top-level object has no \"expression\"")
	}
	return &f, nil
}
