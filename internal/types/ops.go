package types

// Union computes the least upper bound of a and b. Any absorbs
// everything; Undefined is its identity. Two distinct concrete kinds
// produce a Union{a, b}; two Unions merge member-wise; a concrete kind
// and a Union insert the kind into the union. Function union with a
// mismatched-arity Function is Undefined (spec.md §9, Open Question 3).
func Union2(a, b Type) Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if _, ok := a.(Any); ok {
		return AnyType
	}
	if _, ok := b.(Any); ok {
		return AnyType
	}
	if _, ok := a.(Undefined); ok {
		return b
	}
	if _, ok := b.(Undefined); ok {
		return a
	}
	if a.Equal(b) {
		return a
	}

	switch at := a.(type) {
	case Tuple:
		if bt, ok := b.(Tuple); ok {
			return Tuple{First: Union2(at.First, bt.First), Second: Union2(at.Second, bt.Second)}
		}
	case Function:
		if bt, ok := b.(Function); ok {
			if len(at.Params) != len(bt.Params) {
				return UndefinedType
			}
			params := make([]Type, len(at.Params))
			for i := range at.Params {
				params[i] = Union2(at.Params[i], bt.Params[i])
			}
			return Function{Params: params, Return: Union2(at.Return, bt.Return)}
		}
	case Union:
		merged := NewUnion(at.Members()...)
		if bu, ok := b.(Union); ok {
			for _, m := range bu.Members() {
				merged.insert(m)
			}
		} else {
			merged.insert(b)
		}
		return merged
	}
	if bu, ok := b.(Union); ok {
		merged := NewUnion(bu.Members()...)
		merged.insert(a)
		return merged
	}
	return NewUnion(a, b)
}

// Lower (the lattice's greatest-lower-bound / "intersect") narrows a by
// the expectation b. Any is the identity (lower(Any,T)=T); Undefined is
// absorbing (lower(Undefined,T)=Undefined); identical concrete kinds
// return themselves; distinct concrete kinds collapse to Undefined.
func Lower(a, b Type) Type {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	if _, ok := a.(Any); ok {
		return b
	}
	if _, ok := b.(Any); ok {
		return a
	}
	if _, ok := a.(Undefined); ok {
		return UndefinedType
	}
	if _, ok := b.(Undefined); ok {
		return UndefinedType
	}

	switch at := a.(type) {
	case Tuple:
		bt, ok := b.(Tuple)
		if !ok {
			return UndefinedType
		}
		return Tuple{First: Lower(at.First, bt.First), Second: Lower(at.Second, bt.Second)}
	case Function:
		bt, ok := b.(Function)
		if !ok || len(at.Params) != len(bt.Params) {
			return UndefinedType
		}
		params := make([]Type, len(at.Params))
		for i := range at.Params {
			params[i] = Lower(at.Params[i], bt.Params[i])
		}
		return Function{Params: params, Return: Lower(at.Return, bt.Return)}
	case Union:
		return lowerUnion(at, b)
	}
	if bu, ok := b.(Union); ok {
		return lowerUnion(bu, a)
	}
	if a.Equal(b) {
		return a
	}
	return UndefinedType
}

// lowerUnion narrows a union against a (possibly non-union) expected
// type, member-wise by kind.
func lowerUnion(u Union, b Type) Type {
	if bu, ok := b.(Union); ok {
		merged := NewUnion()
		for _, k := range u.order {
			if bm, ok := bu.Has(k); ok {
				merged.insert(Lower(u.members[k], bm))
			}
		}
		return collapseUnion(merged)
	}
	if m, ok := u.Has(b.Kind()); ok {
		return Lower(m, b)
	}
	return UndefinedType
}

// collapseUnion returns the single member directly when only one
// remains, matching the lattice's treatment of a singleton union as
// its concrete member.
func collapseUnion(u Union) Type {
	if u.Len() == 0 {
		return UndefinedType
	}
	if u.Len() == 1 {
		return u.Members()[0]
	}
	return u
}

// LowersAny reports whether lower(a, b) contains no Any operand at any
// depth (spec.md §3's lowers_any).
func LowersAny(a, b Type) bool {
	return !containsAny(Lower(a, b))
}

func containsAny(t Type) bool {
	switch v := t.(type) {
	case nil:
		return false
	case Any:
		return true
	case Tuple:
		return containsAny(v.First) || containsAny(v.Second)
	case Function:
		if containsAny(v.Return) {
			return true
		}
		for _, p := range v.Params {
			if containsAny(p) {
				return true
			}
		}
		return false
	case Union:
		for _, m := range v.Members() {
			if containsAny(m) {
				return true
			}
		}
		return false
	default:
		return false
	}
}
