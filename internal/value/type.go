package value

import (
	"fmt"
	"strings"
)

// TypeTag is the discriminant of a TypeDescriptor.
type TypeTag int

const (
	TNil TypeTag = iota
	TInt
	TFloat
	TBool
	TString
	TNumber
	TAny
	TType
	TFunction
	TNativeFunction
	TStruct
	TInstance
)

// StructField describes one field of a struct type: its declared type and
// its dense position in the instance's property sequence.
type StructField struct {
	Name  string
	Type  *TypeDescriptor
	Index int
}

// TypeDescriptor is the compiler's closed type-variant, also reachable at
// runtime through the type(..) native. Function/NativeFunction compare by
// parameter and return type; Struct/Instance compare by name; Any and
// Number are unification wildcards.
type TypeDescriptor struct {
	Tag        TypeTag
	ParamTypes []*TypeDescriptor // Function, NativeFunction
	Variadic   bool              // NativeFunction: ParamTypes is ignored, any argument count is accepted
	ReturnType *TypeDescriptor   // Function, NativeFunction
	Name       string            // Struct, Instance
	Fields     []StructField     // Struct, in declaration order
}

func Nil() *TypeDescriptor    { return &TypeDescriptor{Tag: TNil} }
func Int() *TypeDescriptor    { return &TypeDescriptor{Tag: TInt} }
func Float() *TypeDescriptor  { return &TypeDescriptor{Tag: TFloat} }
func Bool() *TypeDescriptor   { return &TypeDescriptor{Tag: TBool} }
func Str() *TypeDescriptor    { return &TypeDescriptor{Tag: TString} }
func Number() *TypeDescriptor { return &TypeDescriptor{Tag: TNumber} }
func Any() *TypeDescriptor    { return &TypeDescriptor{Tag: TAny} }
func Type() *TypeDescriptor   { return &TypeDescriptor{Tag: TType} }

// FuncType describes a user-defined function's signature.
func FuncType(params []*TypeDescriptor, ret *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Tag: TFunction, ParamTypes: params, ReturnType: ret}
}

// NativeFuncType describes a fixed-arity native function's signature.
func NativeFuncType(params []*TypeDescriptor, ret *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Tag: TNativeFunction, ParamTypes: params, ReturnType: ret}
}

// VariadicNativeFuncType describes a native accepting any number of
// arguments of any type (print/println), bypassing checkArgs entirely.
func VariadicNativeFuncType(ret *TypeDescriptor) *TypeDescriptor {
	return &TypeDescriptor{Tag: TNativeFunction, Variadic: true, ReturnType: ret}
}

// StructType describes a declared struct's shape.
func StructType(name string, fields []StructField) *TypeDescriptor {
	return &TypeDescriptor{Tag: TStruct, Name: name, Fields: fields}
}

// InstanceType describes a value that is an instance of the named struct.
func InstanceType(structName string) *TypeDescriptor {
	return &TypeDescriptor{Tag: TInstance, Name: structName}
}

// GetField looks up a struct field by name, returning its type, dense index
// and whether it was found.
func (t *TypeDescriptor) GetField(name string) (*TypeDescriptor, int, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f.Type, f.Index, true
		}
	}
	return nil, 0, false
}

// IsNumeric reports whether t is Int, Float or Number.
func (t *TypeDescriptor) IsNumeric() bool {
	return t.Tag == TInt || t.Tag == TFloat || t.Tag == TNumber
}

// Equal implements the structural equality relation from spec.md §3: Any
// unifies with anything, Number unifies with Int/Float, Function and
// NativeFunction compare by signature, Struct/Instance compare by name.
func (t *TypeDescriptor) Equal(o *TypeDescriptor) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Tag == TAny || o.Tag == TAny {
		return true
	}
	if (t.Tag == TNumber && (o.Tag == TInt || o.Tag == TFloat || o.Tag == TNumber)) ||
		(o.Tag == TNumber && (t.Tag == TInt || t.Tag == TFloat)) {
		return true
	}
	if t.Tag != o.Tag {
		return false
	}
	switch t.Tag {
	case TNil, TInt, TFloat, TBool, TString, TType:
		return true
	case TFunction, TNativeFunction:
		if len(t.ParamTypes) != len(o.ParamTypes) {
			return false
		}
		for i := range t.ParamTypes {
			if !t.ParamTypes[i].Equal(o.ParamTypes[i]) {
				return false
			}
		}
		return t.ReturnType.Equal(o.ReturnType)
	case TStruct, TInstance:
		return t.Name == o.Name
	default:
		return false
	}
}

func (t *TypeDescriptor) String() string {
	switch t.Tag {
	case TNil:
		return "<type Nil>"
	case TInt:
		return "<type Int>"
	case TFloat:
		return "<type Float>"
	case TBool:
		return "<type Bool>"
	case TString:
		return "<type String>"
	case TNumber:
		return "<type Number>"
	case TAny:
		return "<type Any>"
	case TType:
		return "<type Type>"
	case TFunction, TNativeFunction:
		params := make([]string, len(t.ParamTypes))
		for i, p := range t.ParamTypes {
			params[i] = p.String()
		}
		label := "Function"
		if t.Tag == TNativeFunction {
			label = "NativeFunction"
		}
		return fmt.Sprintf("<type %s (%s) %s>", label, strings.Join(params, " "), t.ReturnType.String())
	case TStruct:
		return fmt.Sprintf("<type Struct %s>", t.Name)
	case TInstance:
		return fmt.Sprintf("<type Instance of %s>", t.Name)
	default:
		return "<type ?>"
	}
}
