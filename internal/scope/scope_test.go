package scope

import (
	"testing"

	"github.com/coral-lang/coral/internal/types"
)

func TestDeclareAndResolve(t *testing.T) {
	reg := NewRegistry()
	root := reg.New(nil)
	v, err := root.Declare("x", types.AnyType)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	got, err := root.Resolve("x")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got != v {
		t.Errorf("resolve should return the identical ScopeVar")
	}
}

func TestRedeclareFails(t *testing.T) {
	reg := NewRegistry()
	root := reg.New(nil)
	if _, err := root.Declare("x", types.AnyType); err != nil {
		t.Fatalf("first declare: %v", err)
	}
	if _, err := root.Declare("x", types.AnyType); err == nil {
		t.Errorf("redeclaring x in the same scope should fail")
	}
}

func TestUnderscoreNeverBinds(t *testing.T) {
	reg := NewRegistry()
	root := reg.New(nil)
	v, err := root.Declare("_", types.AnyType)
	if err != nil || v != nil {
		t.Fatalf("declaring _ should be a silent no-op, got v=%v err=%v", v, err)
	}
	if _, err := root.Resolve("_"); err == nil {
		t.Errorf("resolving _ should always error")
	}
}

func TestCaptureAcrossScopes(t *testing.T) {
	reg := NewRegistry()
	root := reg.New(nil)
	outer, err := root.Declare("x", types.IntegerType)
	if err != nil {
		t.Fatalf("declare: %v", err)
	}
	child := reg.New(root)
	got, err := child.Resolve("x")
	if err != nil {
		t.Fatalf("resolve through parent: %v", err)
	}
	if got != outer {
		t.Errorf("captured variable should be the same identity as the outer ScopeVar")
	}
	if len(child.Captures) != 1 || child.Captures[0].Index != 0 {
		t.Errorf("expected one capture at index 0, got %+v", child.Captures)
	}
	// Resolving again must not add a second capture entry.
	if _, err := child.Resolve("x"); err != nil {
		t.Fatalf("second resolve: %v", err)
	}
	if len(child.Captures) != 1 {
		t.Errorf("resolving twice should not duplicate the capture, got %d entries", len(child.Captures))
	}
}

func TestUndefinedIdentifier(t *testing.T) {
	reg := NewRegistry()
	root := reg.New(nil)
	if _, err := root.Resolve("nope"); err == nil {
		t.Errorf("resolving an undeclared identifier should fail")
	}
}

func TestDirtyFlagTracksChange(t *testing.T) {
	reg := NewRegistry()
	root := reg.New(nil)
	v, _ := root.Declare("x", types.AnyType)
	reg.ClearDirty()
	if reg.AnyDirty() {
		t.Fatalf("freshly cleared registry should report no dirty vars")
	}
	v.MayChange(types.IntegerType)
	if !reg.AnyDirty() {
		t.Errorf("changing a var's type should mark it dirty")
	}
	reg.ClearDirty()
	v.MayChange(types.IntegerType) // same type again: no change
	if reg.AnyDirty() {
		t.Errorf("MayChange with an equal type should not mark dirty")
	}
}
