// Package compiler implements Squat's single-pass Pratt compiler: parsing,
// name resolution, type checking and bytecode emission all happen in one
// walk over the token stream, grounded on compiler.rs from the original
// implementation and generalized per spec.md §4.3 to natives, structs and
// type checking the Rust snapshot retrieved for this project never wired
// together.
package compiler

import (
	"fmt"

	"github.com/funvibe/squat/internal/bytecode"
	"github.com/funvibe/squat/internal/lexer"
	"github.com/funvibe/squat/internal/natives"
	"github.com/funvibe/squat/internal/token"
	"github.com/funvibe/squat/internal/value"
)

// CompileError is one diagnostic surfaced during compilation.
type CompileError struct {
	Line    int
	Message string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("[COMPILE ERROR] (Line %d) %s", e.Line, e.Message)
}

type local struct {
	name  string
	depth int // -1 marks a reserved-but-uninitialised slot
	typ   *value.TypeDescriptor
}

type globalInfo struct {
	index int
	typ   *value.TypeDescriptor
}

// Result is the output of a successful compile: the executable chunk, its
// constant pool and the number of global slots the VM must allocate.
type Result struct {
	Chunk       *bytecode.Chunk
	Constants   *bytecode.Constants
	GlobalCount int
}

// Compiler drives the Pratt loop directly against a lexer, emitting into a
// single chunk (general code) and a deferred prelude chunk (global
// initializers), flushed once compilation completes.
type Compiler struct {
	lex *lexer.Lexer

	previous  token.Token
	current   token.Token
	lookahead *token.Token

	hadError  bool
	panicMode bool
	errors    []*CompileError

	chunk   *bytecode.Chunk
	prelude *bytecode.Chunk
	target  *bytecode.Chunk

	constants *bytecode.Constants
	natives   *natives.Registry

	locals     []local
	scopeDepth int

	globals   map[string]globalInfo
	globalSeq int

	structs map[string]*value.TypeDescriptor

	mainStart int
	mainCount int

	pending *identRef
}

// identRef remembers that the value of a just-resolved bare identifier has
// not been pushed onto the stack yet, so a following '.' can fuse it into
// GetLocalProperty/GetGlobalProperty instead of a separate Get + GetProperty.
type identRef struct {
	isLocal bool
	slot    int
}

// New prepares a Compiler over source, ready to resolve native calls
// against reg. The compiled chunk is named "main".
func New(source string, reg *natives.Registry) *Compiler {
	return NewNamed(source, "main", reg)
}

// NewNamed is New with an explicit chunk name, used by the CLI to label the
// compiled chunk after the source file (see config.TrimSourceExt) so -c
// disassembly headers read by filename rather than a fixed placeholder.
func NewNamed(source, chunkName string, reg *natives.Registry) *Compiler {
	c := &Compiler{
		lex:       lexer.New(source),
		chunk:     bytecode.New(chunkName),
		prelude:   bytecode.New("prelude"),
		constants: &bytecode.Constants{},
		natives:   reg,
		globals:   make(map[string]globalInfo),
		structs:   make(map[string]*value.TypeDescriptor),
	}
	c.target = c.chunk
	c.advance()
	return c
}

// Compile runs the whole program through the Pratt loop and returns the
// finished chunk, or a joined compile error if any were observed.
func (c *Compiler) Compile() (*Result, error) {
	c.emitRaw(bytecode.Instruction{Op: bytecode.OpStart}, 1)

	for !c.check(token.Eof) {
		c.declaration()
	}

	if c.mainCount == 0 {
		c.errorAtPrevious("program does not define a main function")
	} else if c.mainCount > 1 {
		c.errorAtPrevious("program defines more than one main function")
	}

	c.flushPrelude()
	c.chunk.Write(bytecode.Instruction{Op: bytecode.OpJumpTo, A: c.mainStart}, c.previous.Line)
	c.chunk.Write(bytecode.Instruction{Op: bytecode.OpStop}, c.previous.Line)

	if c.hadError {
		msg := ""
		for i, e := range c.errors {
			if i > 0 {
				msg += "\n"
			}
			msg += e.Error()
		}
		return nil, fmt.Errorf("%s", msg)
	}

	return &Result{Chunk: c.chunk, Constants: c.constants, GlobalCount: c.globalSeq}, nil
}

func (c *Compiler) flushPrelude() {
	for i := 0; i < c.prelude.Size(); i++ {
		c.chunk.Write(c.prelude.Code[i], c.prelude.GetLine(i))
	}
}

// ---- token stream plumbing ----

func (c *Compiler) nextRealToken() token.Token {
	for {
		tok, err := c.lex.NextToken()
		if err != nil {
			c.lexError(err)
			continue
		}
		return tok
	}
}

func (c *Compiler) advance() {
	c.previous = c.current
	if c.lookahead != nil {
		c.current = *c.lookahead
		c.lookahead = nil
	} else {
		c.current = c.nextRealToken()
	}
}

func (c *Compiler) peekNext() token.Token {
	if c.lookahead == nil {
		t := c.nextRealToken()
		c.lookahead = &t
	}
	return *c.lookahead
}

func (c *Compiler) check(k token.Kind) bool { return c.current.Kind == k }

func (c *Compiler) match(k token.Kind) bool {
	if !c.check(k) {
		return false
	}
	c.advance()
	return true
}

func (c *Compiler) consume(k token.Kind, message string) {
	if c.current.Kind == k {
		c.advance()
		return
	}
	c.errorAtCurrent(message)
}

// ---- emission ----

func (c *Compiler) emit(ins bytecode.Instruction) int {
	return c.target.Write(ins, c.previous.Line)
}

func (c *Compiler) emitRaw(ins bytecode.Instruction, line int) int {
	return c.target.Write(ins, line)
}

func (c *Compiler) emitConstant(idx int) {
	c.emit(bytecode.Instruction{Op: bytecode.OpConstant, A: idx})
}

func (c *Compiler) emitJump(op bytecode.Op) int {
	return c.emit(bytecode.Instruction{Op: op})
}

func (c *Compiler) patchJump(at int) {
	offset := c.target.Size() - at - 1
	c.target.Patch(at, offset)
}

func (c *Compiler) emitLoop(loopStart int) {
	c.emit(bytecode.Instruction{Op: bytecode.OpLoop, A: loopStart})
}

func (c *Compiler) withTarget(t *bytecode.Chunk, fn func()) {
	prev := c.target
	c.target = t
	fn()
	c.target = prev
}

// ---- error handling (spec.md §7 phases 1 and 2) ----

func (c *Compiler) lexError(err error) {
	var line int
	if le, ok := err.(*lexer.Error); ok {
		line = le.Line
	}
	c.reportError(line, err.Error())
}

func (c *Compiler) errorAtCurrent(message string) { c.reportError(c.current.Line, message) }
func (c *Compiler) errorAtPrevious(message string) { c.reportError(c.previous.Line, message) }

func (c *Compiler) reportError(line int, message string) {
	if c.panicMode {
		return
	}
	c.panicMode = true
	c.hadError = true
	c.errors = append(c.errors, &CompileError{Line: line, Message: message})
}

// synchronize discards tokens until a synchronising token (`;` or `}`) per
// spec.md §7 phase 2, then resumes normal parsing.
func (c *Compiler) synchronize() {
	c.panicMode = false
	for !c.check(token.Eof) {
		if c.previous.Kind == token.Semicolon {
			return
		}
		if c.current.Kind == token.RightBrace {
			return
		}
		c.advance()
	}
}

// ---- type helpers ----

func zeroValue(t *value.TypeDescriptor) value.Value {
	switch t.Tag {
	case value.TInt:
		return value.IntValue(0)
	case value.TFloat:
		return value.FloatValue(0)
	case value.TBool:
		return value.BoolValue(false)
	case value.TString:
		return value.StringValue("")
	default:
		return value.NilValue()
	}
}

func (c *Compiler) consumeTypeAnnotation() *value.TypeDescriptor {
	switch c.current.Kind {
	case token.IntType:
		c.advance()
		return value.Int()
	case token.FloatType:
		c.advance()
		return value.Float()
	case token.BoolType:
		c.advance()
		return value.Bool()
	case token.StringType:
		c.advance()
		return value.Str()
	case token.Identifier:
		name := c.current.Lexeme
		st, ok := c.structs[name]
		c.advance()
		if !ok {
			c.errorAtPrevious(fmt.Sprintf("undefined type %q", name))
			return value.Any()
		}
		return value.InstanceType(st.Name)
	default:
		c.errorAtCurrent("expected a type")
		return value.Any()
	}
}

func (c *Compiler) isTypeAnnotationStart() bool {
	switch c.current.Kind {
	case token.IntType, token.FloatType, token.BoolType, token.StringType:
		return true
	case token.Identifier:
		_, ok := c.structs[c.current.Lexeme]
		return ok
	default:
		return false
	}
}

