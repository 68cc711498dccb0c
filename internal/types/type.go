package types

import (
	"fmt"
	"strings"
)

// Type is the interface every lattice member implements. Concrete
// members are small value structs (Boolean{}, Integer{}, Tuple{...} …)
// rather than pointers: they are immutable once constructed, so sharing
// by value is cheap and safe, and equality is structural.
type Type interface {
	Kind() Kind
	// IsStatic reports whether this type is fully concrete — no Any,
	// Undefined or Union anywhere inside it (spec.md §3's is_static
	// column). Being static does not imply an unboxed machine
	// representation: String and Function are static but always boxed.
	IsStatic() bool
	String() string
	// Equal reports deep structural equality, used by the inference
	// fixed point to detect a ScopeVar's type actually changing.
	Equal(other Type) bool
}

// Any is the top of the lattice: the absorbing element for union, the
// identity element for lower.
type Any struct{}

func (Any) Kind() Kind         { return KindAny }
func (Any) IsStatic() bool     { return false }
func (Any) String() string     { return "Any" }
func (Any) Equal(o Type) bool  { _, ok := o.(Any); return ok }

// Undefined is the bottom: the absorbing element for lower, the
// identity element for union. It marks statically-impossible or
// not-yet-determined types.
type Undefined struct{}

func (Undefined) Kind() Kind        { return KindUndefined }
func (Undefined) IsStatic() bool    { return false }
func (Undefined) String() string    { return "Undefined" }
func (Undefined) Equal(o Type) bool { _, ok := o.(Undefined); return ok }

// Boolean is the concrete true/false type.
type Boolean struct{}

func (Boolean) Kind() Kind        { return KindBoolean }
func (Boolean) IsStatic() bool     { return true }
func (Boolean) String() string     { return "Boolean" }
func (Boolean) Equal(o Type) bool  { _, ok := o.(Boolean); return ok }

// Integer is the concrete 64-bit (two's-complement, wraparound) integer
// type.
type Integer struct{}

func (Integer) Kind() Kind        { return KindInteger }
func (Integer) IsStatic() bool     { return true }
func (Integer) String() string     { return "Integer" }
func (Integer) Equal(o Type) bool  { _, ok := o.(Integer); return ok }

// String is the concrete runtime-boxed string type; never unboxed.
type String struct{}

func (String) Kind() Kind        { return KindString }
func (String) IsStatic() bool     { return true }
func (String) String() string     { return "String" }
func (String) Equal(o Type) bool  { _, ok := o.(String); return ok }

// Tuple is a pair type. IsStatic iff both operands are static.
type Tuple struct {
	First  Type
	Second Type
}

func (t Tuple) Kind() Kind { return KindTuple }

func (t Tuple) IsStatic() bool {
	return t.First != nil && t.Second != nil && t.First.IsStatic() && t.Second.IsStatic()
}

func (t Tuple) String() string {
	f, s := "?", "?"
	if t.First != nil {
		f = t.First.String()
	}
	if t.Second != nil {
		s = t.Second.String()
	}
	return fmt.Sprintf("Tuple<%s, %s>", f, s)
}

func (t Tuple) Equal(o Type) bool {
	ot, ok := o.(Tuple)
	if !ok {
		return false
	}
	return typeEqual(t.First, ot.First) && typeEqual(t.Second, ot.Second)
}

// Function is a function signature type. IsStatic iff every parameter
// and the return type are static.
type Function struct {
	Params []Type
	Return Type
}

func (f Function) Kind() Kind { return KindFunction }

func (f Function) IsStatic() bool {
	if f.Return == nil || !f.Return.IsStatic() {
		return false
	}
	for _, p := range f.Params {
		if p == nil || !p.IsStatic() {
			return false
		}
	}
	return true
}

func (f Function) String() string {
	parts := make([]string, len(f.Params))
	for i, p := range f.Params {
		if p == nil {
			parts[i] = "?"
		} else {
			parts[i] = p.String()
		}
	}
	ret := "?"
	if f.Return != nil {
		ret = f.Return.String()
	}
	return fmt.Sprintf("Function((%s),%s)", strings.Join(parts, ","), ret)
}

func (f Function) Equal(o Type) bool {
	of, ok := o.(Function)
	if !ok || len(f.Params) != len(of.Params) {
		return false
	}
	for i := range f.Params {
		if !typeEqual(f.Params[i], of.Params[i]) {
			return false
		}
	}
	return typeEqual(f.Return, of.Return)
}

// Union holds a set of concrete (non Any/Undefined/Union/Function)
// member kinds, one representative Type each. Members is kept as a
// slice in insertion order plus an index map so that iteration order is
// deterministic (spec.md §5: "hash-map iteration must be in insertion
// order where it influences union membership ordering").
type Union struct {
	order   []Kind
	members map[Kind]Type
}

// NewUnion builds a Union from members in the given order, skipping
// duplicates by kind (first occurrence wins).
func NewUnion(members ...Type) Union {
	u := Union{members: make(map[Kind]Type, len(members))}
	for _, m := range members {
		u.insert(m)
	}
	return u
}

func (u *Union) insert(t Type) {
	if u.members == nil {
		u.members = make(map[Kind]Type)
	}
	if _, exists := u.members[t.Kind()]; exists {
		return
	}
	u.order = append(u.order, t.Kind())
	u.members[t.Kind()] = t
}

func (u Union) Kind() Kind     { return KindUnion }
func (u Union) IsStatic() bool { return false }

// Members returns the member types in deterministic insertion order.
func (u Union) Members() []Type {
	out := make([]Type, 0, len(u.order))
	for _, k := range u.order {
		out = append(out, u.members[k])
	}
	return out
}

// Has reports whether the union contains a member of the given kind,
// returning it if so.
func (u Union) Has(k Kind) (Type, bool) {
	t, ok := u.members[k]
	return t, ok
}

func (u Union) Len() int { return len(u.order) }

func (u Union) String() string {
	parts := make([]string, 0, len(u.order))
	for _, k := range u.order {
		parts = append(parts, u.members[k].String())
	}
	return strings.Join(parts, "|")
}

func (u Union) Equal(o Type) bool {
	ou, ok := o.(Union)
	if !ok || u.Len() != ou.Len() {
		return false
	}
	for _, k := range u.order {
		om, ok := ou.members[k]
		if !ok || !typeEqual(u.members[k], om) {
			return false
		}
	}
	return true
}

// typeEqual treats two nil Types as equal and guards against either
// operand being nil before delegating to Equal.
func typeEqual(a, b Type) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return a.Equal(b)
}

// Flyweight singletons, interned per spec.md §9 ("Interning the
// flyweight constants … is recommended").
var (
	AnyType       Type = Any{}
	UndefinedType Type = Undefined{}
	BooleanType   Type = Boolean{}
	IntegerType   Type = Integer{}
	StringType    Type = String{}
	// BaseTupleType is Tuple<Any,Any>, the widest tuple shape.
	BaseTupleType Type = Tuple{First: AnyType, Second: AnyType}
)

// EqualBoolIntString reports whether t is exactly Bool|Int|String (the
// supertype Equals operands are inferred against).
func EqualBoolIntString(t Type) bool {
	u, ok := t.(Union)
	if !ok || u.Len() != 3 {
		return false
	}
	_, hasB := u.Has(KindBoolean)
	_, hasI := u.Has(KindInteger)
	_, hasS := u.Has(KindString)
	return hasB && hasI && hasS
}
