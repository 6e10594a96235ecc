package value

import "testing"

func TestTruthy(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{NilValue(), false},
		{BoolValue(false), false},
		{BoolValue(true), true},
		{IntValue(0), true},
		{StringValue(""), true},
	}
	for _, c := range cases {
		if got := c.v.Truthy(); got != c.want {
			t.Errorf("%+v.Truthy() = %v, want %v", c.v, got, c.want)
		}
	}
}

func TestEqualCrossKindNumeric(t *testing.T) {
	if !IntValue(2).Equal(FloatValue(2.0)) {
		t.Error("expected Int(2) == Float(2.0)")
	}
	if FloatValue(2.5).Equal(IntValue(2)) {
		t.Error("expected Float(2.5) != Int(2)")
	}
}

func TestAddStringCoercion(t *testing.T) {
	v, err := Add(StringValue("n="), IntValue(3))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsString() || v.Str != "n=3" {
		t.Errorf("got %+v", v)
	}
}

func TestAddNumericMixedPromotesToFloat(t *testing.T) {
	v, err := Add(IntValue(1), FloatValue(2.5))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !v.IsFloat() || v.Float != 3.5 {
		t.Errorf("got %+v", v)
	}
}

func TestDivideByZeroIsAnError(t *testing.T) {
	if _, err := Divide(IntValue(1), IntValue(0)); err == nil {
		t.Error("expected division by zero to error")
	}
	if _, err := Mod(IntValue(1), IntValue(0)); err == nil {
		t.Error("expected modulo by zero to error")
	}
}

func TestLessOnlySupportsHomogeneousPairs(t *testing.T) {
	if less, ok := IntValue(1).Less(IntValue(2)); !ok || !less {
		t.Errorf("got less=%v ok=%v", less, ok)
	}
	if _, ok := IntValue(1).Less(FloatValue(2)); ok {
		t.Error("expected Int/Float pair to be unorderable by Less directly")
	}
	if less, ok := StringValue("a").Less(StringValue("b")); !ok || !less {
		t.Errorf("got less=%v ok=%v", less, ok)
	}
}

func TestTypeDescriptorEquality(t *testing.T) {
	if !Any().Equal(Int()) {
		t.Error("Any should unify with anything")
	}
	if !Number().Equal(Int()) || !Number().Equal(Float()) {
		t.Error("Number should unify with Int and Float")
	}
	if Int().Equal(Str()) {
		t.Error("Int should not unify with String")
	}
	fn1 := FuncType([]*TypeDescriptor{Int()}, Bool())
	fn2 := FuncType([]*TypeDescriptor{Int()}, Bool())
	fn3 := FuncType([]*TypeDescriptor{Str()}, Bool())
	if !fn1.Equal(fn2) {
		t.Error("functions with identical signatures should be equal")
	}
	if fn1.Equal(fn3) {
		t.Error("functions with different parameter types should not be equal")
	}
}

func TestStructFieldLookup(t *testing.T) {
	st := StructType("Point", []StructField{
		{Name: "x", Type: Int(), Index: 0},
		{Name: "y", Type: Int(), Index: 1},
	})
	typ, idx, ok := st.GetField("y")
	if !ok || idx != 1 || typ.Tag != TInt {
		t.Errorf("got typ=%v idx=%d ok=%v", typ, idx, ok)
	}
	if _, _, ok := st.GetField("z"); ok {
		t.Error("expected missing field to report not found")
	}
}
