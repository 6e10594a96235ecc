// Package vm implements the stack-based bytecode virtual machine: the
// fetch-decode-execute loop, Call/CreateInstance/Return dispatch and
// runtime error reporting, grounded on vm.rs from the original
// implementation and on the teacher's vm.go call-frame/error-formatting
// idiom, simplified to a single-threaded, closure-free, module-free core.
package vm

import (
	"errors"
	"fmt"
	"io"

	"github.com/funvibe/squat/internal/bytecode"
	"github.com/funvibe/squat/internal/natives"
	"github.com/funvibe/squat/internal/value"
)

// frame is a call-frame: where this call's locals begin on the operand
// stack, the instruction to resume at on Return, and the function's name
// for diagnostics.
type frame struct {
	stackBase int
	returnIP  int
	name      string
}

// Options gates the optional tracing output named in spec.md §6.
type Options struct {
	LogChunk        bool // -c/--code: disassemble before execution
	LogGlobals      bool // -g/--globals: log globals every step
	LogInstructions bool // -i/--instructions: log each dispatched instruction
	LogStack        bool // -s/--stack: log the operand stack every step
}

// RuntimeError is a typed-but-unchecked failure at execution time (spec.md
// §7 phase 3): it carries the call-stack trace captured at the point of
// failure.
type RuntimeError struct {
	Message string
	Trace   []string
}

func (e *RuntimeError) Error() string {
	s := fmt.Sprintf("runtime error: %s", e.Message)
	for _, line := range e.Trace {
		s += "\n  " + line
	}
	return s
}

var errHalt = errors.New("vm: halt")

// VM owns everything mutated during execution: the operand stack, the
// call-frame stack, the globals vector, and holds read-only references to
// the chunk, constant pool and native table the compiler produced.
type VM struct {
	chunk     *bytecode.Chunk
	constants *bytecode.Constants
	natives   *natives.Registry

	globals   []value.Value
	globalSet []bool
	stack     []value.Value
	frames    []frame

	trac io.Writer
	opts Options
}

// New builds a VM ready to execute chunk, with globalCount globals slots
// (all initially unset) and reg as the native table. trace receives the
// optional -c/-g/-i/-s diagnostic output; natives write to their own
// writer, bound at natives.New time.
func New(chunk *bytecode.Chunk, constants *bytecode.Constants, reg *natives.Registry, globalCount int, trace io.Writer, opts Options) *VM {
	return &VM{
		chunk:     chunk,
		constants: constants,
		natives:   reg,
		globals:   make([]value.Value, globalCount),
		globalSet: make([]bool, globalCount),
		trac:      trace,
		opts:      opts,
	}
}

// Run executes the chunk to completion and returns the process exit code:
// main's return value if it is an Int, 0 otherwise. A RuntimeError is
// returned, not panicked, on any typed-but-unchecked failure.
func (vm *VM) Run() (int, error) {
	if vm.opts.LogChunk {
		fmt.Fprint(vm.trac, bytecode.Disassemble(vm.chunk, vm.constants))
	}

	vm.chunk.SetIP(0)
	vm.frames = append(vm.frames, frame{stackBase: 0, returnIP: -1, name: "main"})

	for {
		ins, ok := vm.chunk.Next()
		if !ok {
			return 0, nil
		}

		if vm.opts.LogInstructions {
			fmt.Fprintf(vm.trac, "%04d %s\n", vm.chunk.CurrentIP()-1, ins.Op)
		}
		if vm.opts.LogGlobals {
			fmt.Fprintf(vm.trac, "globals: %v\n", vm.globals)
		}
		if vm.opts.LogStack {
			fmt.Fprintf(vm.trac, "stack: %v\n", vm.renderStack())
		}

		exitCode, done, err := vm.step(ins)
		if err != nil {
			if errors.Is(err, errHalt) {
				return exitCode, nil
			}
			return 0, vm.wrapRuntimeError(err)
		}
		if done {
			return exitCode, nil
		}
	}
}

func (vm *VM) renderStack() []string {
	out := make([]string, len(vm.stack))
	for i, v := range vm.stack {
		out[i] = v.Inspect()
	}
	return out
}

func (vm *VM) wrapRuntimeError(err error) *RuntimeError {
	trace := make([]string, len(vm.frames))
	for i := len(vm.frames) - 1; i >= 0; i-- {
		f := vm.frames[i]
		line := 0
		if f.returnIP >= 0 && f.returnIP < vm.chunk.Size() {
			line = vm.chunk.GetLine(f.returnIP)
		}
		trace[len(vm.frames)-1-i] = fmt.Sprintf("at %s (line %d)", f.name, line)
	}
	return &RuntimeError{Message: err.Error(), Trace: trace}
}

func (vm *VM) push(v value.Value) { vm.stack = append(vm.stack, v) }

func (vm *VM) pop() value.Value {
	last := len(vm.stack) - 1
	v := vm.stack[last]
	vm.stack = vm.stack[:last]
	return v
}

func (vm *VM) peek(fromTop int) value.Value {
	return vm.stack[len(vm.stack)-1-fromTop]
}
