package types

import "testing"

func TestUnionAbsorbing(t *testing.T) {
	if !Union2(AnyType, IntegerType).Equal(AnyType) {
		t.Errorf("union(Any, Integer) should be Any")
	}
	if !Union2(IntegerType, AnyType).Equal(AnyType) {
		t.Errorf("union(Integer, Any) should be Any")
	}
	if !Union2(UndefinedType, IntegerType).Equal(IntegerType) {
		t.Errorf("union(Undefined, Integer) should be Integer")
	}
}

func TestLowerIdentity(t *testing.T) {
	if !Lower(AnyType, IntegerType).Equal(IntegerType) {
		t.Errorf("lower(Any, Integer) should be Integer")
	}
	if !Lower(UndefinedType, IntegerType).Equal(UndefinedType) {
		t.Errorf("lower(Undefined, Integer) should be Undefined")
	}
	if !Lower(IntegerType, IntegerType).Equal(IntegerType) {
		t.Errorf("lower(Integer, Integer) should be Integer")
	}
}

func TestDistinctKinds(t *testing.T) {
	u := Union2(BooleanType, IntegerType)
	union, ok := u.(Union)
	if !ok || union.Len() != 2 {
		t.Fatalf("union(Boolean, Integer) should be a 2-member Union, got %v", u)
	}
	if !Lower(BooleanType, IntegerType).Equal(UndefinedType) {
		t.Errorf("lower(Boolean, Integer) should be Undefined")
	}
}

func TestTuplePointwise(t *testing.T) {
	a := Tuple{First: IntegerType, Second: AnyType}
	b := Tuple{First: AnyType, Second: StringType}
	got := Lower(a, b)
	want := Tuple{First: IntegerType, Second: StringType}
	if !got.Equal(want) {
		t.Errorf("lower(%v, %v) = %v, want %v", a, b, got, want)
	}
}

func TestFunctionArityMismatchIsUndefined(t *testing.T) {
	f1 := Function{Params: []Type{IntegerType}, Return: IntegerType}
	f2 := Function{Params: []Type{IntegerType, IntegerType}, Return: IntegerType}
	if !Lower(f1, f2).Equal(UndefinedType) {
		t.Errorf("lower of mismatched-arity functions should be Undefined")
	}
	if !Union2(f1, f2).Equal(UndefinedType) {
		t.Errorf("union of mismatched-arity functions should be Undefined (Open Question 3)")
	}
}

func TestUnionMemberWise(t *testing.T) {
	u1 := NewUnion(IntegerType, StringType)
	u2 := NewUnion(StringType, BooleanType)
	got := Union2(u1, u2)
	gu, ok := got.(Union)
	if !ok || gu.Len() != 3 {
		t.Fatalf("union of unions should merge member-wise, got %v", got)
	}
}

func TestLatticeLaws(t *testing.T) {
	pairs := []struct{ a, b Type }{
		{IntegerType, StringType},
		{BooleanType, IntegerType},
		{AnyType, IntegerType},
		{UndefinedType, StringType},
		{Tuple{First: IntegerType, Second: StringType}, Tuple{First: IntegerType, Second: BooleanType}},
	}
	for _, p := range pairs {
		u := Union2(p.a, p.b)
		if !Lower(p.a, u).Equal(p.a) {
			t.Errorf("lower(A, union(A,B)) != A for A=%v B=%v (got %v)", p.a, p.b, Lower(p.a, u))
		}
		l := Lower(p.a, p.b)
		if !Union2(p.a, l).Equal(p.a) {
			t.Errorf("union(A, lower(A,B)) != A for A=%v B=%v (got %v)", p.a, p.b, Union2(p.a, l))
		}
	}
}

func TestLowersAny(t *testing.T) {
	if !LowersAny(IntegerType, IntegerType) {
		t.Errorf("lowers_any(Integer, Integer) should be true")
	}
	if LowersAny(AnyType, AnyType) {
		t.Errorf("lowers_any(Any, Any) should be false: lower(Any,Any) is Any")
	}
	if !LowersAny(IntegerType, AnyType) {
		t.Errorf("lowers_any(Integer, Any) should be true: lower is Integer")
	}
}

func TestEqualBoolIntString(t *testing.T) {
	bis := NewUnion(BooleanType, IntegerType, StringType)
	if !EqualBoolIntString(bis) {
		t.Errorf("expected Bool|Int|String to be recognized")
	}
	if EqualBoolIntString(NewUnion(BooleanType, IntegerType)) {
		t.Errorf("2-member union should not match Bool|Int|String")
	}
}
