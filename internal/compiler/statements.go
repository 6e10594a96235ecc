package compiler

import (
	"github.com/funvibe/squat/internal/bytecode"
	"github.com/funvibe/squat/internal/token"
)

// statement implements:
//
//	statement := 'if' '(' expr ')' stmt ['else' stmt]
//	           | 'while' '(' expr ')' stmt
//	           | 'for' '(' (var_decl|expr_stmt|';') [expr] ';' [expr] ')' stmt
//	           | 'return' expr ';'
//	           | '{' block '}'
//	           | expr ';'
func (c *Compiler) statement() {
	switch {
	case c.match(token.If):
		c.ifStatement()
	case c.match(token.While):
		c.whileStatement()
	case c.match(token.For):
		c.forStatement()
	case c.match(token.Return):
		c.returnStatement()
	case c.match(token.LeftBrace):
		c.beginScope()
		c.block()
		c.endScope()
	default:
		c.expressionStatement()
	}
}

func (c *Compiler) block() {
	for !c.check(token.RightBrace) && !c.check(token.Eof) {
		c.declarationInBlock()
	}
	c.consume(token.RightBrace, "expect '}' after block")
}

func (c *Compiler) expressionStatement() {
	c.expression()
	c.consume(token.Semicolon, "expect ';' after expression")
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})
}

func (c *Compiler) returnStatement() {
	c.expression()
	c.consume(token.Semicolon, "expect ';' after return value")
	c.emit(bytecode.Instruction{Op: bytecode.OpReturn})
}

// ifStatement follows spec.md §4.3's canonical template bit-for-bit:
// compile c; JumpIfFalse J1; Pop; compile t; Jump J2; patch J1; Pop;
// compile e; patch J2.
func (c *Compiler) ifStatement() {
	c.consume(token.LeftParen, "expect '(' after 'if'")
	c.expression()
	c.consume(token.RightParen, "expect ')' after condition")

	thenJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})
	c.statement()

	elseJump := c.emitJump(bytecode.OpJump)
	c.patchJump(thenJump)
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})

	if c.match(token.Else) {
		c.statement()
	}
	c.patchJump(elseJump)
}

// whileStatement: L = ip; compile c; JumpIfFalse J; Pop; body; Loop L;
// patch J; Pop.
func (c *Compiler) whileStatement() {
	loopStart := c.target.Size()
	c.consume(token.LeftParen, "expect '(' after 'while'")
	c.expression()
	c.consume(token.RightParen, "expect ')' after condition")

	exitJump := c.emitJump(bytecode.OpJumpIfFalse)
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})
	c.statement()
	c.emitLoop(loopStart)

	c.patchJump(exitJump)
	c.emit(bytecode.Instruction{Op: bytecode.OpPop})
}

// forStatement implements the canonical desugaring from spec.md §4.3: open
// scope; init; L = ip; if c present, JumpIfFalse Jexit then Pop; if step
// present, Jump Jbody, S = ip, step, Pop, Loop L, L = S, patch Jbody; body;
// Loop L; patch Jexit; Pop; close scope.
func (c *Compiler) forStatement() {
	c.beginScope()
	c.consume(token.LeftParen, "expect '(' after 'for'")

	switch {
	case c.match(token.Semicolon):
		// no initializer
	case c.isTypeAnnotationStart() && c.current.Kind != token.Identifier:
		t := c.consumeTypeAnnotation()
		c.varDeclaration(t, false)
	case c.current.Kind == token.Identifier && c.peekNext().Kind == token.Identifier:
		t := c.consumeTypeAnnotation()
		c.varDeclaration(t, false)
	default:
		c.expressionStatement()
	}

	loopStart := c.target.Size()
	exitJump := -1
	if !c.check(token.Semicolon) {
		c.expression()
		exitJump = c.emitJump(bytecode.OpJumpIfFalse)
		c.emit(bytecode.Instruction{Op: bytecode.OpPop})
	}
	c.consume(token.Semicolon, "expect ';' after loop condition")

	if !c.check(token.RightParen) {
		bodyJump := c.emitJump(bytecode.OpJump)
		stepStart := c.target.Size()
		c.expression()
		c.emit(bytecode.Instruction{Op: bytecode.OpPop})
		c.emitLoop(loopStart)
		loopStart = stepStart
		c.patchJump(bodyJump)
	}
	c.consume(token.RightParen, "expect ')' after for clauses")

	c.statement()
	c.emitLoop(loopStart)

	if exitJump != -1 {
		c.patchJump(exitJump)
		c.emit(bytecode.Instruction{Op: bytecode.OpPop})
	}
	c.endScope()
}
