package vm

import (
	"fmt"

	"github.com/funvibe/squat/internal/bytecode"
	"github.com/funvibe/squat/internal/value"
)

// step executes one instruction, per the table in spec.md §4.4. It returns
// (exitCode, done, err): done is true once the program has finished
// (normally or via an internal halt), err is non-nil on a runtime failure.
func (vm *VM) step(ins bytecode.Instruction) (int, bool, error) {
	switch ins.Op {
	case bytecode.OpConstant:
		vm.push(vm.constants.Get(ins.A))
	case bytecode.OpNil:
		vm.push(value.NilValue())
	case bytecode.OpTrue:
		vm.push(value.BoolValue(true))
	case bytecode.OpFalse:
		vm.push(value.BoolValue(false))

	case bytecode.OpAdd, bytecode.OpSubtract, bytecode.OpMultiply, bytecode.OpDivide, bytecode.OpMod:
		right := vm.pop()
		left := vm.pop()
		result, err := arith(ins.Op, left, right)
		if err != nil {
			return 0, false, err
		}
		vm.push(result)

	case bytecode.OpEqual:
		right, left := vm.pop(), vm.pop()
		vm.push(value.BoolValue(left.Equal(right)))
	case bytecode.OpNotEqual:
		right, left := vm.pop(), vm.pop()
		vm.push(value.BoolValue(!left.Equal(right)))
	case bytecode.OpGreater, bytecode.OpGreaterEqual, bytecode.OpLess, bytecode.OpLessEqual:
		right := vm.pop()
		left := vm.pop()
		result, err := compare(ins.Op, left, right)
		if err != nil {
			return 0, false, err
		}
		vm.push(value.BoolValue(result))

	case bytecode.OpNot:
		v := vm.pop()
		vm.push(value.BoolValue(!v.Truthy()))
	case bytecode.OpNegate:
		v := vm.pop()
		switch v.Kind {
		case value.KindInt:
			vm.push(value.IntValue(-v.Int))
		case value.KindFloat:
			vm.push(value.FloatValue(-v.Float))
		default:
			return 0, false, fmt.Errorf("cannot negate a non-numeric value")
		}

	case bytecode.OpPop:
		vm.pop()

	case bytecode.OpDefineGlobal:
		vm.globals[ins.A] = vm.pop()
		vm.globalSet[ins.A] = true
	case bytecode.OpGetGlobal:
		if !vm.globalSet[ins.A] {
			return 0, false, fmt.Errorf("undefined global at slot %d", ins.A)
		}
		vm.push(vm.globals[ins.A])
	case bytecode.OpSetGlobal:
		if !vm.globalSet[ins.A] {
			return 0, false, fmt.Errorf("cannot set an undefined global at slot %d", ins.A)
		}
		vm.globals[ins.A] = vm.peek(0)

	case bytecode.OpGetLocal:
		vm.push(vm.stack[vm.currentFrame().stackBase+ins.A])
	case bytecode.OpSetLocal:
		vm.stack[vm.currentFrame().stackBase+ins.A] = vm.peek(0)

	case bytecode.OpGetNative:
		vm.push(value.ObjectValue(vm.natives.Get(ins.A)))

	case bytecode.OpGetProperty:
		inst, err := asInstance(vm.pop())
		if err != nil {
			return 0, false, err
		}
		vm.push(inst.Properties[ins.A])
	case bytecode.OpGetGlobalProperty:
		inst, err := asInstance(vm.globals[ins.A])
		if err != nil {
			return 0, false, err
		}
		vm.push(inst.Properties[ins.B])
	case bytecode.OpGetLocalProperty:
		inst, err := asInstance(vm.stack[vm.currentFrame().stackBase+ins.A])
		if err != nil {
			return 0, false, err
		}
		vm.push(inst.Properties[ins.B])
	case bytecode.OpSetGlobalProperty:
		inst, err := asInstance(vm.globals[ins.A])
		if err != nil {
			return 0, false, err
		}
		inst.Properties[ins.B] = vm.peek(0)
	case bytecode.OpSetLocalProperty:
		inst, err := asInstance(vm.stack[vm.currentFrame().stackBase+ins.A])
		if err != nil {
			return 0, false, err
		}
		inst.Properties[ins.B] = vm.peek(0)

	case bytecode.OpJumpTo:
		vm.chunk.SetIP(ins.A)
	case bytecode.OpJump:
		vm.chunk.SetIP(vm.chunk.CurrentIP() + ins.A)
	case bytecode.OpJumpIfFalse:
		if !vm.peek(0).Truthy() {
			vm.chunk.SetIP(vm.chunk.CurrentIP() + ins.A)
		}
	case bytecode.OpJumpIfTrue:
		if vm.peek(0).Truthy() {
			vm.chunk.SetIP(vm.chunk.CurrentIP() + ins.A)
		}
	case bytecode.OpLoop:
		vm.chunk.SetIP(ins.A)

	case bytecode.OpCall:
		if err := vm.call(ins.A); err != nil {
			return 0, false, err
		}
	case bytecode.OpCreateInstance:
		if err := vm.createInstance(ins.A); err != nil {
			return 0, false, err
		}
	case bytecode.OpReturn:
		exitCode, done, err := vm.doReturn()
		return exitCode, done, err

	case bytecode.OpIndex:
		idx := vm.pop()
		s := vm.pop()
		if !idx.IsInt() || !s.IsString() {
			return 0, false, fmt.Errorf("index requires (string, int)")
		}
		if idx.Int < 0 || int(idx.Int) >= len(s.Str) {
			return 0, false, fmt.Errorf("index %d out of range for string of length %d", idx.Int, len(s.Str))
		}
		vm.push(value.StringValue(string(s.Str[idx.Int])))

	case bytecode.OpStart:
		// inert marker

	case bytecode.OpStop:
		return 0, true, errHalt

	default:
		return 0, false, fmt.Errorf("internal error: unhandled opcode %s", ins.Op)
	}

	return 0, false, nil
}

func (vm *VM) currentFrame() *frame { return &vm.frames[len(vm.frames)-1] }

func asInstance(v value.Value) (*value.Instance, error) {
	if !v.IsObject() {
		return nil, fmt.Errorf("internal error: property access on a non-instance value")
	}
	inst, ok := v.Obj.(*value.Instance)
	if !ok {
		return nil, fmt.Errorf("internal error: property access on a non-instance value")
	}
	return inst, nil
}

func arith(op bytecode.Op, left, right value.Value) (value.Value, error) {
	switch op {
	case bytecode.OpAdd:
		return value.Add(left, right)
	case bytecode.OpSubtract:
		return value.Subtract(left, right)
	case bytecode.OpMultiply:
		return value.Multiply(left, right)
	case bytecode.OpDivide:
		return value.Divide(left, right)
	default:
		return value.Mod(left, right)
	}
}

func compare(op bytecode.Op, left, right value.Value) (bool, error) {
	less, ok := left.Less(right)
	if !ok {
		// mixed Int/Float: spec.md §9 open question (a) resolved as coercion.
		if (left.IsInt() || left.IsFloat()) && (right.IsInt() || right.IsFloat()) {
			lf, rf := asFloat(left), asFloat(right)
			less = lf < rf
		} else {
			return false, fmt.Errorf("cannot compare %s and %s", left.RuntimeType(), right.RuntimeType())
		}
	}
	switch op {
	case bytecode.OpLess:
		return less, nil
	case bytecode.OpLessEqual:
		return less || left.Equal(right), nil
	case bytecode.OpGreater:
		return !less && !left.Equal(right), nil
	default: // OpGreaterEqual
		return !less, nil
	}
}

func asFloat(v value.Value) float64 {
	if v.IsInt() {
		return float64(v.Int)
	}
	return v.Float
}

func (vm *VM) call(n int) error {
	slot := len(vm.stack) - n - 1
	callee := vm.stack[slot]
	if !callee.IsObject() {
		return fmt.Errorf("internal error: call target is not callable")
	}
	switch fn := callee.Obj.(type) {
	case *value.Function:
		base := slot + 1
		vm.frames = append(vm.frames, frame{stackBase: base, returnIP: vm.chunk.CurrentIP(), name: fn.Name})
		vm.chunk.SetIP(fn.StartIP)
		return nil
	case *value.NativeFunction:
		args := make([]value.Value, n)
		copy(args, vm.stack[slot+1:])
		vm.stack = vm.stack[:slot]
		result, err := fn.Body(args)
		if err != nil {
			return fmt.Errorf("%s: %w", fn.Name, err)
		}
		vm.push(result)
		return nil
	default:
		return fmt.Errorf("internal error: call target is not a function")
	}
}

func (vm *VM) createInstance(n int) error {
	slot := len(vm.stack) - n - 1
	callee := vm.stack[slot]
	if !callee.IsObject() {
		return fmt.Errorf("internal error: instantiation target is not a struct")
	}
	st, ok := callee.Obj.(*value.Struct)
	if !ok {
		return fmt.Errorf("internal error: instantiation target is not a struct")
	}
	fields := make([]value.Value, n)
	copy(fields, vm.stack[slot+1:])
	vm.stack = vm.stack[:slot]
	vm.push(value.ObjectValue(&value.Instance{StructName: st.Name, Properties: fields}))
	return nil
}

func (vm *VM) doReturn() (int, bool, error) {
	retVal := vm.pop()
	f := vm.frames[len(vm.frames)-1]
	vm.frames = vm.frames[:len(vm.frames)-1]

	if len(vm.frames) == 0 {
		exitCode := 0
		if retVal.IsInt() {
			exitCode = int(retVal.Int)
		}
		return exitCode, true, nil
	}

	vm.stack = vm.stack[:f.stackBase-1]
	vm.push(retVal)
	vm.chunk.SetIP(f.returnIP)
	return 0, false, nil
}
