package compiler

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/funvibe/squat/internal/bytecode"
	"github.com/funvibe/squat/internal/token"
	"github.com/funvibe/squat/internal/value"
)

var rules map[token.Kind]parseRule

func init() {
	rules = map[token.Kind]parseRule{
		token.LeftParen:     {prefix: grouping, infix: call, prec: PrecCall},
		token.Dot:           {infix: dot, prec: PrecCall},
		token.Minus:         {prefix: unary, infix: binary, prec: PrecTerm},
		token.Plus:          {infix: binary, prec: PrecTerm},
		token.Slash:         {infix: binary, prec: PrecFactor},
		token.Star:          {infix: binary, prec: PrecFactor},
		token.Percent:       {infix: binary, prec: PrecFactor},
		token.Bang:          {prefix: unary},
		token.BangEqual:     {infix: binary, prec: PrecEquality},
		token.EqualEqual:    {infix: binary, prec: PrecEquality},
		token.Greater:       {infix: binary, prec: PrecComparison},
		token.GreaterEqual:  {infix: binary, prec: PrecComparison},
		token.Less:          {infix: binary, prec: PrecComparison},
		token.LessEqual:     {infix: binary, prec: PrecComparison},
		token.Identifier:    {prefix: identifier},
		token.String:        {prefix: stringLiteral},
		token.Number:        {prefix: number},
		token.And:           {infix: and, prec: PrecAnd},
		token.Or:            {infix: or, prec: PrecOr},
		token.False:         {prefix: literal},
		token.True:          {prefix: literal},
		token.Nil:           {prefix: literal},
		token.Question:      {infix: ternary, prec: PrecTernary},
	}
}

func getRule(k token.Kind) parseRule { return rules[k] }

func (c *Compiler) expression() *value.TypeDescriptor {
	return c.parsePrecedence(PrecAssignment)
}

// parsePrecedence is the canonical Pratt loop: consume a prefix rule for
// `previous`, then while the current token's infix precedence is >= min,
// consume it as an infix rule.
func (c *Compiler) parsePrecedence(min Precedence) *value.TypeDescriptor {
	c.advance()
	rule := getRule(c.previous.Kind)
	if rule.prefix == nil {
		c.errorAtPrevious(fmt.Sprintf("unexpected token %q", c.previous.Lexeme))
		return value.Any()
	}
	canAssign := min <= PrecAssignment
	left := rule.prefix(c, canAssign)

	for {
		infixRule := getRule(c.current.Kind)
		if infixRule.infix == nil || infixRule.prec < min {
			break
		}
		c.advance()
		left = infixRule.infix(c, left, canAssign)
	}

	if canAssign && c.match(token.Equal) {
		c.errorAtPrevious("invalid assignment target")
	}

	c.flushPending()
	return left
}

// flushPending emits the deferred Get for a bare identifier reference that
// no infix rule (assignment, '.') consumed.
func (c *Compiler) flushPending() {
	if c.pending == nil {
		return
	}
	p := c.pending
	c.pending = nil
	if p.isLocal {
		c.emit(bytecode.Instruction{Op: bytecode.OpGetLocal, A: p.slot})
	} else {
		c.emit(bytecode.Instruction{Op: bytecode.OpGetGlobal, A: p.slot})
	}
}

func number(c *Compiler, canAssign bool) *value.TypeDescriptor {
	lexeme := c.previous.Lexeme
	if strings.Contains(lexeme, ".") {
		f, _ := strconv.ParseFloat(lexeme, 64)
		c.emitConstant(c.constants.Write(value.FloatValue(f)))
		return value.Float()
	}
	n, _ := strconv.ParseInt(lexeme, 10, 64)
	c.emitConstant(c.constants.Write(value.IntValue(n)))
	return value.Int()
}

func stringLiteral(c *Compiler, canAssign bool) *value.TypeDescriptor {
	c.emitConstant(c.constants.Write(value.StringValue(c.previous.Lexeme)))
	return value.Str()
}

func literal(c *Compiler, canAssign bool) *value.TypeDescriptor {
	switch c.previous.Kind {
	case token.False:
		c.emit(bytecode.Instruction{Op: bytecode.OpFalse})
		return value.Bool()
	case token.True:
		c.emit(bytecode.Instruction{Op: bytecode.OpTrue})
		return value.Bool()
	default: // Nil
		c.emit(bytecode.Instruction{Op: bytecode.OpNil})
		return value.Nil()
	}
}

func grouping(c *Compiler, canAssign bool) *value.TypeDescriptor {
	c.flushPending()
	t := c.expression()
	c.consume(token.RightParen, "expect ')' after expression")
	return t
}

func unary(c *Compiler, canAssign bool) *value.TypeDescriptor {
	c.flushPending()
	op := c.previous.Kind
	operand := c.parsePrecedence(PrecUnary)
	switch op {
	case token.Bang:
		c.emit(bytecode.Instruction{Op: bytecode.OpNot})
		return value.Bool()
	default: // Minus
		if !operand.IsNumeric() {
			c.errorAtPrevious(fmt.Sprintf("cannot negate a %s", operand))
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpNegate})
		return operand
	}
}

func binary(c *Compiler, left *value.TypeDescriptor, canAssign bool) *value.TypeDescriptor {
	c.flushPending()
	op := c.previous.Kind
	rule := getRule(op)
	right := c.parsePrecedence(rule.prec.next())

	switch op {
	case token.Plus:
		c.emit(bytecode.Instruction{Op: bytecode.OpAdd})
		if left.Tag == value.TString || right.Tag == value.TString {
			return value.Str()
		}
		if !left.IsNumeric() || !right.IsNumeric() {
			c.errorAtPrevious(fmt.Sprintf("cannot add %s and %s", left, right))
		}
		return resultNumericType(left, right)
	case token.Minus, token.Star, token.Slash, token.Percent:
		op2 := map[token.Kind]bytecode.Op{token.Minus: bytecode.OpSubtract, token.Star: bytecode.OpMultiply, token.Slash: bytecode.OpDivide, token.Percent: bytecode.OpMod}[op]
		c.emit(bytecode.Instruction{Op: op2})
		if !left.IsNumeric() || !right.IsNumeric() {
			c.errorAtPrevious(fmt.Sprintf("arithmetic requires numeric operands, got %s and %s", left, right))
		}
		return resultNumericType(left, right)
	case token.EqualEqual:
		c.emit(bytecode.Instruction{Op: bytecode.OpEqual})
		return value.Bool()
	case token.BangEqual:
		c.emit(bytecode.Instruction{Op: bytecode.OpNotEqual})
		return value.Bool()
	case token.Less, token.LessEqual, token.Greater, token.GreaterEqual:
		comparisonOps := map[token.Kind]bytecode.Op{
			token.Less: bytecode.OpLess, token.LessEqual: bytecode.OpLessEqual,
			token.Greater: bytecode.OpGreater, token.GreaterEqual: bytecode.OpGreaterEqual,
		}
		c.emit(bytecode.Instruction{Op: comparisonOps[op]})
		orderable := (left.Tag == value.TInt || left.Tag == value.TFloat || left.Tag == value.TNumber) &&
			(right.Tag == value.TInt || right.Tag == value.TFloat || right.Tag == value.TNumber)
		orderable = orderable || (left.Tag == value.TString && right.Tag == value.TString)
		if !orderable {
			c.errorAtPrevious(fmt.Sprintf("cannot order %s and %s", left, right))
		}
		return value.Bool()
	}
	return value.Any()
}

func resultNumericType(left, right *value.TypeDescriptor) *value.TypeDescriptor {
	if left.Tag == value.TFloat || right.Tag == value.TFloat {
		return value.Float()
	}
	return value.Int()
}

// and implements: JumpIfFalse J; Pop; rhs; patch J.
func and(c *Compiler, left *value.TypeDescriptor, canAssign bool) *value.TypeDescriptor {
	c.flushPending()
	endJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})
	c.parsePrecedence(PrecAnd)
	c.patchJump(endJump)
	return value.Bool()
}

// or implements: JumpIfTrue J; Pop; rhs; patch J.
func or(c *Compiler, left *value.TypeDescriptor, canAssign bool) *value.TypeDescriptor {
	c.flushPending()
	endJump := c.emitJump(bytecode.OpJumpIfTrue)
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})
	c.parsePrecedence(PrecOr)
	c.patchJump(endJump)
	return value.Bool()
}

// ternary implements cond ? a : b, right-associative (recurses at the same
// precedence it was entered with, like assignment).
func ternary(c *Compiler, left *value.TypeDescriptor, canAssign bool) *value.TypeDescriptor {
	c.flushPending()
	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})
	aType := c.parsePrecedence(PrecTernary)

	elseJump := c.emitJump(bytecode.OpJump)
	c.patchJump(thenJump)
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})

	c.consume(token.Colon, "expect ':' in ternary expression")
	bType := c.parsePrecedence(PrecTernary)
	c.patchJump(elseJump)

	if !aType.Equal(bType) {
		c.errorAtPrevious(fmt.Sprintf("ternary branches disagree: %s vs %s", aType, bType))
	}
	return aType
}

// identifier resolves a name against locals, then globals, then natives,
// and handles assignment (`name = expr`) as part of the prefix rule.
func identifier(c *Compiler, canAssign bool) *value.TypeDescriptor {
	name := c.previous.Lexeme

	if slot, typ, ok := c.resolveLocal(name); ok {
		return identifierRef(c, canAssign, true, slot, typ)
	}
	if slot, typ, ok := c.resolveGlobal(name); ok {
		return identifierRef(c, canAssign, false, slot, typ)
	}
	if slot, sig, ok := c.natives.Lookup(name); ok {
		c.emit(bytecode.Instruction{Op: bytecode.OpGetNative, A: slot})
		if sig.Variadic {
			return value.VariadicNativeFuncType(sig.Return)
		}
		return value.NativeFuncType(sig.Params, sig.Return)
	}

	c.errorAtPrevious(fmt.Sprintf("undefined name %q", name))
	return value.Any()
}

func identifierRef(c *Compiler, canAssign bool, isLocal bool, slot int, typ *value.TypeDescriptor) *value.TypeDescriptor {
	if canAssign && c.check(token.Equal) {
		c.advance()
		rhsType := c.parsePrecedence(PrecAssignment)
		if !rhsType.Equal(typ) {
			c.errorAtPrevious(fmt.Sprintf("cannot assign %s to variable of type %s", rhsType, typ))
		}
		if isLocal {
			c.emit(bytecode.Instruction{Op: bytecode.OpSetLocal, A: slot})
		} else {
			c.emit(bytecode.Instruction{Op: bytecode.OpSetGlobal, A: slot})
		}
		return typ
	}

	if c.current.Kind == token.Dot {
		c.pending = &identRef{isLocal: isLocal, slot: slot}
	} else {
		if isLocal {
			c.emit(bytecode.Instruction{Op: bytecode.OpGetLocal, A: slot})
		} else {
			c.emit(bytecode.Instruction{Op: bytecode.OpGetGlobal, A: slot})
		}
	}
	return typ
}

// call implements function/native application and, when the callee names a
// struct, instance construction (spec.md: "struct instantiation is spelled
// as a call on a struct name").
func call(c *Compiler, left *value.TypeDescriptor, canAssign bool) *value.TypeDescriptor {
	c.flushPending()
	var argTypes []*value.TypeDescriptor
	if !c.check(token.RightParen) {
		for {
			argTypes = append(argTypes, c.parsePrecedence(PrecAssignment))
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RightParen, "expect ')' after arguments")

	switch left.Tag {
	case value.TFunction, value.TNativeFunction:
		if !left.Variadic {
			checkArgs(c, "call", argTypes, left.ParamTypes)
		}
		c.emit(bytecode.Instruction{Op: bytecode.OpCall, A: len(argTypes)})
		return left.ReturnType
	case value.TStruct:
		st := c.structs[left.Name]
		fieldTypes := make([]*value.TypeDescriptor, len(st.Fields))
		for i, f := range st.Fields {
			fieldTypes[i] = f.Type
		}
		checkArgs(c, "struct instantiation", argTypes, fieldTypes)
		c.emit(bytecode.Instruction{Op: bytecode.OpCreateInstance, A: len(argTypes)})
		return value.InstanceType(left.Name)
	default:
		c.errorAtPrevious(fmt.Sprintf("%s is not callable", left))
		return value.Any()
	}
}

func checkArgs(c *Compiler, what string, got, want []*value.TypeDescriptor) {
	if len(got) != len(want) {
		c.errorAtPrevious(fmt.Sprintf("%s expects %d argument(s), got %d", what, len(want), len(got)))
		return
	}
	for i := range got {
		if !got[i].Equal(want[i]) {
			c.errorAtPrevious(fmt.Sprintf("argument %d: expected %s, got %s", i+1, want[i], got[i]))
		}
	}
}

// dot implements one-level property access/assignment: `ident.field` and
// `ident.field = expr` (spec.md §9 open question (b) restricts assignment
// to exactly this shape).
func dot(c *Compiler, left *value.TypeDescriptor, canAssign bool) *value.TypeDescriptor {
	c.consume(token.Identifier, "expect field name after '.'")
	fieldName := c.previous.Lexeme

	if left.Tag != value.TInstance {
		c.errorAtPrevious(fmt.Sprintf("%s has no fields", left))
		return value.Any()
	}
	st := c.structs[left.Name]
	fieldType, fieldIndex, ok := st.GetField(fieldName)
	if !ok {
		c.errorAtPrevious(fmt.Sprintf("%s has no field %q", left, fieldName))
		fieldType = value.Any()
	}

	pending := c.pending
	c.pending = nil

	if canAssign && c.check(token.Equal) {
		c.advance()
		rhsType := c.parsePrecedence(PrecAssignment)
		if !rhsType.Equal(fieldType) {
			c.errorAtPrevious(fmt.Sprintf("cannot assign %s to field of type %s", rhsType, fieldType))
		}
		if pending == nil {
			c.errorAtPrevious("property assignment is restricted to ident.field = expr")
			return fieldType
		}
		if pending.isLocal {
			c.emit(bytecode.Instruction{Op: bytecode.OpSetLocalProperty, A: pending.slot, B: fieldIndex})
		} else {
			c.emit(bytecode.Instruction{Op: bytecode.OpSetGlobalProperty, A: pending.slot, B: fieldIndex})
		}
		return fieldType
	}

	if pending != nil {
		if pending.isLocal {
			c.emit(bytecode.Instruction{Op: bytecode.OpGetLocalProperty, A: pending.slot, B: fieldIndex})
		} else {
			c.emit(bytecode.Instruction{Op: bytecode.OpGetGlobalProperty, A: pending.slot, B: fieldIndex})
		}
	} else {
		c.emit(bytecode.Instruction{Op: bytecode.OpGetProperty, A: fieldIndex})
	}
	return fieldType
}
