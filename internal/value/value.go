// Package value implements the Squat runtime data model: the closed Value
// variant, the Object heap variant and the TypeDescriptor structural type
// variant, grounded on squat_value.rs, object.rs and squat_type.rs from the
// original implementation.
package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Kind is the discriminant of a Value.
type Kind int

const (
	KindNil Kind = iota
	KindInt
	KindFloat
	KindBool
	KindString
	KindType
	KindObject
)

// Value is the closed variant every operand stack slot, global and local
// holds. Only one of the typed fields is meaningful, selected by Kind.
type Value struct {
	Kind  Kind
	Int   int64
	Float float64
	Bool  bool
	Str   string
	Type  *TypeDescriptor
	Obj   Object
}

func NilValue() Value                   { return Value{Kind: KindNil} }
func IntValue(n int64) Value            { return Value{Kind: KindInt, Int: n} }
func FloatValue(f float64) Value        { return Value{Kind: KindFloat, Float: f} }
func BoolValue(b bool) Value            { return Value{Kind: KindBool, Bool: b} }
func StringValue(s string) Value        { return Value{Kind: KindString, Str: s} }
func TypeValue(t *TypeDescriptor) Value { return Value{Kind: KindType, Type: t} }
func ObjectValue(o Object) Value        { return Value{Kind: KindObject, Obj: o} }

func (v Value) IsNil() bool    { return v.Kind == KindNil }
func (v Value) IsInt() bool    { return v.Kind == KindInt }
func (v Value) IsFloat() bool  { return v.Kind == KindFloat }
func (v Value) IsBool() bool   { return v.Kind == KindBool }
func (v Value) IsString() bool { return v.Kind == KindString }
func (v Value) IsObject() bool { return v.Kind == KindObject }

// Truthy implements the language's notion of a condition value: only
// Bool(false) and Nil are falsy.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindNil:
		return false
	case KindBool:
		return v.Bool
	default:
		return true
	}
}

// RuntimeType returns the TypeDescriptor describing this value, as surfaced
// by the type(..) native.
func (v Value) RuntimeType() *TypeDescriptor {
	switch v.Kind {
	case KindNil:
		return Nil()
	case KindInt:
		return Int()
	case KindFloat:
		return Float()
	case KindBool:
		return Bool()
	case KindString:
		return Str()
	case KindType:
		return Type()
	case KindObject:
		return v.Obj.TypeOf()
	default:
		return Nil()
	}
}

// Inspect renders a value the way println / string-coercion does: no
// quoting of strings, textual form of everything else.
func (v Value) Inspect() string {
	switch v.Kind {
	case KindNil:
		return "nil"
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	case KindBool:
		return strconv.FormatBool(v.Bool)
	case KindString:
		return v.Str
	case KindType:
		return v.Type.String()
	case KindObject:
		return v.Obj.Inspect()
	default:
		return "?"
	}
}

// Equal is structural equality, used for == / != and for Instance field
// comparison. Int and Float compare equal across kinds when numerically
// equal. Constant-pool deduplication does NOT use this directly — see
// Constants.Write, which additionally requires matching Kind so a Float
// literal can never collapse onto an Int constant's pool slot.
func (v Value) Equal(o Value) bool {
	switch {
	case v.Kind == KindInt && o.Kind == KindInt:
		return v.Int == o.Int
	case v.Kind == KindFloat && o.Kind == KindFloat:
		return v.Float == o.Float
	case v.Kind == KindInt && o.Kind == KindFloat:
		return float64(v.Int) == o.Float
	case v.Kind == KindFloat && o.Kind == KindInt:
		return v.Float == float64(o.Int)
	case v.Kind == KindBool && o.Kind == KindBool:
		return v.Bool == o.Bool
	case v.Kind == KindString && o.Kind == KindString:
		return v.Str == o.Str
	case v.Kind == KindNil && o.Kind == KindNil:
		return true
	case v.Kind == KindType && o.Kind == KindType:
		return v.Type.Equal(o.Type)
	case v.Kind == KindObject && o.Kind == KindObject:
		return v.Obj.equalObject(o.Obj)
	default:
		return false
	}
}

// Less implements the totally-ordered comparison (< <= > >=) over two ints,
// two floats or two strings; any other pairing is a runtime failure, left
// to the caller to report.
func (v Value) Less(o Value) (bool, bool) {
	switch {
	case v.Kind == KindInt && o.Kind == KindInt:
		return v.Int < o.Int, true
	case v.Kind == KindFloat && o.Kind == KindFloat:
		return v.Float < o.Float, true
	case v.Kind == KindString && o.Kind == KindString:
		return strings.Compare(v.Str, o.Str) < 0, true
	default:
		return false, false
	}
}

// Add implements arithmetic addition including the string-coercion rule:
// addition with at least one String operand coerces the other operand to
// its textual form and yields a String.
func Add(left, right Value) (Value, error) {
	if left.Kind == KindString || right.Kind == KindString {
		return StringValue(left.Inspect() + right.Inspect()), nil
	}
	return numericArith(left, right, func(a, b int64) int64 { return a + b }, func(a, b float64) float64 { return a + b })
}

func Subtract(left, right Value) (Value, error) {
	return numericArith(left, right, func(a, b int64) int64 { return a - b }, func(a, b float64) float64 { return a - b })
}

func Multiply(left, right Value) (Value, error) {
	return numericArith(left, right, func(a, b int64) int64 { return a * b }, func(a, b float64) float64 { return a * b })
}

func Divide(left, right Value) (Value, error) {
	if (right.Kind == KindInt && right.Int == 0) || (right.Kind == KindFloat && right.Float == 0) {
		return Value{}, fmt.Errorf("division by zero")
	}
	return numericArith(left, right, func(a, b int64) int64 { return a / b }, func(a, b float64) float64 { return a / b })
}

func Mod(left, right Value) (Value, error) {
	if (right.Kind == KindInt && right.Int == 0) || (right.Kind == KindFloat && right.Float == 0) {
		return Value{}, fmt.Errorf("division by zero")
	}
	return numericArith(left, right, func(a, b int64) int64 { return a % b }, mathMod)
}

func mathMod(a, b float64) float64 {
	r := a - b*float64(int64(a/b))
	return r
}

func numericArith(left, right Value, intOp func(a, b int64) int64, floatOp func(a, b float64) float64) (Value, error) {
	switch {
	case left.Kind == KindInt && right.Kind == KindInt:
		return IntValue(intOp(left.Int, right.Int)), nil
	case left.Kind == KindFloat && right.Kind == KindFloat:
		return FloatValue(floatOp(left.Float, right.Float)), nil
	case left.Kind == KindInt && right.Kind == KindFloat:
		return FloatValue(floatOp(float64(left.Int), right.Float)), nil
	case left.Kind == KindFloat && right.Kind == KindInt:
		return FloatValue(floatOp(left.Float, float64(right.Int))), nil
	default:
		return Value{}, fmt.Errorf("operands are not numeric: %s, %s", left.RuntimeType(), right.RuntimeType())
	}
}
