// Package bytecode implements the instruction set, the instruction chunk
// with its run-length-encoded line table, and disassembly, grounded on
// op_code.rs and chunk.rs from the original implementation and on the
// teacher's opcodes.go/chunk.go/disasm.go naming style.
package bytecode

// Op is one arm of the instruction variant (spec.md §4.4). Per spec.md §9's
// design note, each instruction carries its own immediate operands rather
// than a packed byte stream: Instruction{Op, A, B} below is the "variant
// opcode" representation.
type Op int

const (
	OpConstant Op = iota
	OpNil
	OpTrue
	OpFalse

	OpAdd
	OpSubtract
	OpMultiply
	OpDivide
	OpMod

	OpEqual
	OpNotEqual
	OpGreater
	OpGreaterEqual
	OpLess
	OpLessEqual

	OpNot
	OpNegate

	OpPop

	OpDefineGlobal
	OpGetGlobal
	OpSetGlobal

	OpGetLocal
	OpSetLocal

	OpGetNative

	OpGetProperty
	OpGetGlobalProperty
	OpGetLocalProperty
	OpSetGlobalProperty
	OpSetLocalProperty

	OpJumpTo
	OpJump
	OpJumpIfFalse
	OpJumpIfTrue
	OpLoop

	OpCall
	OpCreateInstance

	OpReturn

	OpStart
	OpStop

	OpIndex
)

var opNames = map[Op]string{
	OpConstant:           "CONSTANT",
	OpNil:                "NIL",
	OpTrue:               "TRUE",
	OpFalse:              "FALSE",
	OpAdd:                "ADD",
	OpSubtract:           "SUBTRACT",
	OpMultiply:           "MULTIPLY",
	OpDivide:             "DIVIDE",
	OpMod:                "MOD",
	OpEqual:              "EQUAL",
	OpNotEqual:           "NOT_EQUAL",
	OpGreater:            "GREATER",
	OpGreaterEqual:       "GREATER_EQUAL",
	OpLess:               "LESS",
	OpLessEqual:          "LESS_EQUAL",
	OpNot:                "NOT",
	OpNegate:             "NEGATE",
	OpPop:                "POP",
	OpDefineGlobal:       "DEFINE_GLOBAL",
	OpGetGlobal:          "GET_GLOBAL",
	OpSetGlobal:          "SET_GLOBAL",
	OpGetLocal:           "GET_LOCAL",
	OpSetLocal:           "SET_LOCAL",
	OpGetNative:          "GET_NATIVE",
	OpGetProperty:        "GET_PROPERTY",
	OpGetGlobalProperty:  "GET_GLOBAL_PROPERTY",
	OpGetLocalProperty:   "GET_LOCAL_PROPERTY",
	OpSetGlobalProperty:  "SET_GLOBAL_PROPERTY",
	OpSetLocalProperty:   "SET_LOCAL_PROPERTY",
	OpJumpTo:             "JUMP_TO",
	OpJump:               "JUMP",
	OpJumpIfFalse:        "JUMP_IF_FALSE",
	OpJumpIfTrue:         "JUMP_IF_TRUE",
	OpLoop:               "LOOP",
	OpCall:                "CALL",
	OpCreateInstance:     "CREATE_INSTANCE",
	OpReturn:             "RETURN",
	OpStart:              "START",
	OpStop:               "STOP",
	OpIndex:              "INDEX",
}

func (o Op) String() string {
	if name, ok := opNames[o]; ok {
		return name
	}
	return "UNKNOWN"
}

// Instruction is a single bytecode instruction. A and B hold whatever
// immediate operands the opcode needs (constant index, jump offset/target,
// local/global/native slot, call arity) per the table in spec.md §4.4.
type Instruction struct {
	Op Op
	A  int
	B  int
}
