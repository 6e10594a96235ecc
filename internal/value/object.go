package value

import "fmt"

// NativeBody is the host-language callable behind a NativeFunction object.
// It receives its arguments already popped in call order and returns either
// a Value or an error carrying the runtime-error message.
type NativeBody func(args []Value) (Value, error)

// Object is the closed runtime-heap variant: Function, NativeFunction,
// Struct, Instance. All four implement Object so the VM can treat a stack
// slot holding any of them uniformly.
type Object interface {
	TypeOf() *TypeDescriptor
	Inspect() string
	equalObject(Object) bool
}

// Function is a user-defined, compiled function: its name (for
// diagnostics), the instruction index its body starts at, and its arity.
type Function struct {
	Name    string
	StartIP int
	Arity   int
}

func (f *Function) TypeOf() *TypeDescriptor { return &TypeDescriptor{Tag: TFunction} }
func (f *Function) Inspect() string         { return fmt.Sprintf("<func %s>", f.Name) }
func (f *Function) equalObject(o Object) bool {
	other, ok := o.(*Function)
	return ok && other.StartIP == f.StartIP
}

// NativeFunction is a host-provided callable exposed to user code by name.
// Arity of -1 means variadic (any argument count is accepted).
type NativeFunction struct {
	Name  string
	Arity int
	Body  NativeBody
}

func (n *NativeFunction) TypeOf() *TypeDescriptor { return &TypeDescriptor{Tag: TNativeFunction} }
func (n *NativeFunction) Inspect() string         { return fmt.Sprintf("<native func %s>", n.Name) }
func (n *NativeFunction) equalObject(o Object) bool {
	other, ok := o.(*NativeFunction)
	return ok && other.Name == n.Name
}

// Struct is the runtime carrier for a declared struct: only its name. All
// shape information (field names, types, order) lives in the
// TypeDescriptor held by the compiler and constant pool.
type Struct struct {
	Name string
}

func (s *Struct) TypeOf() *TypeDescriptor { return &TypeDescriptor{Tag: TStruct, Name: s.Name} }
func (s *Struct) Inspect() string         { return fmt.Sprintf("<struct %s>", s.Name) }
func (s *Struct) equalObject(o Object) bool {
	other, ok := o.(*Struct)
	return ok && other.Name == s.Name
}

// Instance is a struct value: its struct's name plus an ordered sequence of
// field values, positioned by the struct type's declared field order.
type Instance struct {
	StructName string
	Properties []Value
}

func (i *Instance) TypeOf() *TypeDescriptor { return &TypeDescriptor{Tag: TInstance, Name: i.StructName} }
func (i *Instance) Inspect() string         { return fmt.Sprintf("<instance of %s>", i.StructName) }
func (i *Instance) equalObject(o Object) bool {
	other, ok := o.(*Instance)
	if !ok || other.StructName != i.StructName || len(other.Properties) != len(i.Properties) {
		return false
	}
	for idx := range i.Properties {
		if !i.Properties[idx].Equal(other.Properties[idx]) {
			return false
		}
	}
	return true
}
