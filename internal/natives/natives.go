// Package natives implements the fixed native function table (component N):
// a registry of built-in functions exposed to user code by name, each with
// a typed signature consulted by the compiler and a host-language body run
// by the VM's Call dispatch. Grounded on the teacher's vm_builtins.go
// registration-table idiom; bodies are new, wiring the domain-stack
// dependencies named in SPEC_FULL.md.
package natives

import (
	"io"
	"time"

	"github.com/funvibe/squat/internal/config"
	"github.com/funvibe/squat/internal/value"
)

// Signature is the compile-time contract the compiler checks call sites
// against: parameter types, a return type, and a Variadic flag that, when
// set, skips the argument count and type checks (Params is then ignored).
type Signature struct {
	Params   []*value.TypeDescriptor
	Variadic bool
	Return   *value.TypeDescriptor
}

type entry struct {
	fn  *value.NativeFunction
	sig Signature
}

// Registry is the fixed native table built once before compilation and
// shared, read-only, by the compiler (for signature checks) and the VM
// (for GetNative/Call dispatch).
type Registry struct {
	entries []entry
	byName  map[string]int
}

// New builds the registry, writing print/println output to out.
func New(out io.Writer) *Registry {
	r := &Registry{byName: make(map[string]int)}
	start := time.Now()

	r.register(config.PrintFuncName, -1, Signature{Variadic: true, Return: value.Nil()}, printBody(out, false))
	r.register(config.PrintlnFuncName, -1, Signature{Variadic: true, Return: value.Nil()}, printBody(out, true))
	r.register(config.LenFuncName, 1, Signature{Params: []*value.TypeDescriptor{value.Str()}, Return: value.Int()}, lenBody)
	r.register(config.TypeFuncName, 1, Signature{Params: []*value.TypeDescriptor{value.Any()}, Return: value.Type()}, typeBody)
	r.register(config.PanicFuncName, 1, Signature{Params: []*value.TypeDescriptor{value.Str()}, Return: value.Nil()}, panicBody)
	r.register(config.ClockFuncName, 0, Signature{Return: value.Float()}, clockBody(start))
	r.register(config.UUIDFuncName, 0, Signature{Return: value.Str()}, uuidBody)
	r.register(config.IsTerminalFuncName, 0, Signature{Return: value.Bool()}, isTerminalBody)
	r.register(config.ToYAMLFuncName, 1, Signature{Params: []*value.TypeDescriptor{value.Any()}, Return: value.Str()}, toYAMLBody)
	r.register(config.FromYAMLFuncName, 1, Signature{Params: []*value.TypeDescriptor{value.Str()}, Return: value.Any()}, fromYAMLBody)
	r.register(config.HumanizeBytesFunc, 1, Signature{Params: []*value.TypeDescriptor{value.Int()}, Return: value.Str()}, humanizeBytesBody)

	return r
}

func (r *Registry) register(name string, arity int, sig Signature, body value.NativeBody) {
	idx := len(r.entries)
	r.entries = append(r.entries, entry{
		fn:  &value.NativeFunction{Name: name, Arity: arity, Body: body},
		sig: sig,
	})
	r.byName[name] = idx
}

// Lookup returns the slot index and signature of a native by name.
func (r *Registry) Lookup(name string) (int, Signature, bool) {
	idx, ok := r.byName[name]
	if !ok {
		return 0, Signature{}, false
	}
	return idx, r.entries[idx].sig, true
}

// Get returns the NativeFunction object for a native slot, used by
// GetNative(i) and by the VM's Call dispatch.
func (r *Registry) Get(i int) *value.NativeFunction { return r.entries[i].fn }

// Len is the number of registered natives.
func (r *Registry) Len() int { return len(r.entries) }
