package compiler

import (
	"fmt"

	"github.com/funvibe/squat/internal/bytecode"
	"github.com/funvibe/squat/internal/config"
	"github.com/funvibe/squat/internal/token"
	"github.com/funvibe/squat/internal/value"
)

// declaration is the top-level production: decl := ';' | func_decl |
// class_decl | var_decl | statement.
func (c *Compiler) declaration() {
	switch {
	case c.match(token.Semicolon):
		// stray ';': a compile warning in the original, never tainting success.
	case c.match(token.Func):
		c.funcDeclaration()
	case c.match(token.Class):
		c.classDeclaration()
	case c.match(token.Var):
		c.varDeclaration(nil, true)
	case c.isTypeAnnotationStart() && c.current.Kind != token.Identifier:
		t := c.consumeTypeAnnotation()
		c.varDeclaration(t, true)
	case c.current.Kind == token.Identifier && c.peekNext().Kind == token.Identifier:
		t := c.consumeTypeAnnotation()
		c.varDeclaration(t, true)
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

// declarationInBlock restricts nested declarations inside `{ }` bodies to
// var_decl and statement: function and class declarations are only
// meaningful at top level in this implementation.
func (c *Compiler) declarationInBlock() {
	switch {
	case c.match(token.Semicolon):
	case c.match(token.Var):
		c.varDeclaration(nil, false)
	case c.isTypeAnnotationStart() && c.current.Kind != token.Identifier:
		t := c.consumeTypeAnnotation()
		c.varDeclaration(t, false)
	case c.current.Kind == token.Identifier && c.peekNext().Kind == token.Identifier:
		t := c.consumeTypeAnnotation()
		c.varDeclaration(t, false)
	default:
		c.statement()
	}
	if c.panicMode {
		c.synchronize()
	}
}

// varDeclaration implements: var_decl := (type | 'var') ident ['=' expr]
// ';'. declaredType is nil when introduced with 'var' (type inferred from
// the initializer, which is then mandatory).
func (c *Compiler) varDeclaration(declaredType *value.TypeDescriptor, topLevel bool) {
	c.consume(token.Identifier, "expect variable name")
	name := c.previous.Lexeme

	// Reserve the slot before compiling the initializer so self-reference
	// (`var x = x;`) resolves to this (uninitialised) slot and is rejected.
	var localIdx int
	if !topLevel {
		c.declareLocal(name)
		localIdx = len(c.locals) - 1
	}

	if topLevel {
		c.withTarget(c.prelude, func() {
			c.compileVarInitializer(name, declaredType, topLevel, localIdx)
		})
	} else {
		c.compileVarInitializer(name, declaredType, topLevel, localIdx)
	}
}

func (c *Compiler) compileVarInitializer(name string, declaredType *value.TypeDescriptor, topLevel bool, localIdx int) int {
	var resultType *value.TypeDescriptor
	hasInit := c.match(token.Equal)
	if hasInit {
		resultType = c.expression()
	} else if declaredType == nil {
		c.errorAtPrevious("var-typed declaration requires an initializer")
		resultType = value.Any()
	} else {
		c.emitConstant(c.constants.Write(zeroValue(declaredType)))
		resultType = declaredType
	}

	finalType := declaredType
	if finalType == nil {
		finalType = resultType
	} else if !resultType.Equal(finalType) {
		c.errorAtPrevious(fmt.Sprintf("cannot assign %s to variable of type %s", resultType, finalType))
	}

	c.consume(token.Semicolon, "expect ';' after variable declaration")

	if topLevel {
		idx := c.declareGlobal(name, finalType)
		c.emit(bytecode.Instruction{Op: bytecode.OpDefineGlobal, A: idx})
		return idx
	}
	c.markInitialized(finalType)
	return localIdx
}

// funcDeclaration implements: func_decl := 'func' ident '(' [ type ident
// {',' type ident} ] ')' [ type ] '{' block '}'.
func (c *Compiler) funcDeclaration() {
	c.consume(token.Identifier, "expect function name")
	name := c.previous.Lexeme
	isMain := name == config.MainFuncName

	c.consume(token.LeftParen, "expect '(' after function name")
	var paramNames []string
	var paramTypes []*value.TypeDescriptor
	if !c.check(token.RightParen) {
		for {
			pt := c.consumeTypeAnnotation()
			c.consume(token.Identifier, "expect parameter name")
			paramNames = append(paramNames, c.previous.Lexeme)
			paramTypes = append(paramTypes, pt)
			if !c.match(token.Comma) {
				break
			}
		}
	}
	c.consume(token.RightParen, "expect ')' after parameters")

	returnType := value.Nil()
	if c.isTypeAnnotationStart() {
		returnType = c.consumeTypeAnnotation()
	}

	if isMain && len(paramNames) != 0 {
		c.errorAtPrevious("main must take no parameters")
	}

	fnType := value.FuncType(paramTypes, returnType)
	globalIdx := c.declareGlobal(name, fnType)

	jumpOverBody := c.emitJump(bytecode.OpJump)
	startIP := c.chunk.Size()

	if isMain {
		c.mainStart = startIP
		c.mainCount++
	}

	c.withTarget(c.prelude, func() {
		fnObjIdx := c.constants.Write(value.ObjectValue(&value.Function{Name: name, StartIP: startIP, Arity: len(paramTypes)}))
		c.emitConstant(fnObjIdx)
		c.emit(bytecode.Instruction{Op: bytecode.OpDefineGlobal, A: globalIdx})
	})

	c.compileFunctionBody(paramNames, paramTypes, returnType)
	c.patchJump(jumpOverBody)
}

// compileFunctionBody compiles `'{' block '}'` as the function's own scope,
// at depth 1, with parameters pre-declared as locals: no wrapping
// beginScope/endScope Pop dance is needed since Return already unwinds the
// stack back to the frame's base.
func (c *Compiler) compileFunctionBody(paramNames []string, paramTypes []*value.TypeDescriptor, returnType *value.TypeDescriptor) {
	savedLocals := c.locals
	savedDepth := c.scopeDepth
	c.locals = nil
	c.scopeDepth = 1

	for i, name := range paramNames {
		c.declareLocal(name)
		c.markInitialized(paramTypes[i])
	}

	c.consume(token.LeftBrace, "expect '{' before function body")
	for !c.check(token.RightBrace) && !c.check(token.Eof) {
		c.declarationInBlock()
	}
	c.consume(token.RightBrace, "expect '}' after function body")

	// implicit fallback: functions whose body falls through return a
	// zero-like value of their declared return type.
	c.emitConstant(c.constants.Write(zeroValue(returnType)))
	c.emit(bytecode.Instruction{Op: bytecode.OpReturn})

	c.locals = savedLocals
	c.scopeDepth = savedDepth
}

// classDeclaration implements: class_decl := 'class' ident '{' { type ident
// ';' } '}'.
func (c *Compiler) classDeclaration() {
	c.consume(token.Identifier, "expect class name")
	name := c.previous.Lexeme
	if _, exists := c.structs[name]; exists {
		c.errorAtPrevious(fmt.Sprintf("struct %q already declared", name))
	}

	st := &value.TypeDescriptor{Tag: value.TStruct, Name: name}
	c.structs[name] = st

	c.consume(token.LeftBrace, "expect '{' after class name")
	index := 0
	for !c.check(token.RightBrace) && !c.check(token.Eof) {
		fieldType := c.consumeTypeAnnotation()
		c.consume(token.Identifier, "expect field name")
		fieldName := c.previous.Lexeme
		c.consume(token.Semicolon, "expect ';' after field declaration")
		st.Fields = append(st.Fields, value.StructField{Name: fieldName, Type: fieldType, Index: index})
		index++
	}
	c.consume(token.RightBrace, "expect '}' after class body")

	globalIdx := c.declareGlobal(name, st)
	c.withTarget(c.prelude, func() {
		objIdx := c.constants.Write(value.ObjectValue(&value.Struct{Name: name}))
		c.emitConstant(objIdx)
		c.emit(bytecode.Instruction{Op: bytecode.OpDefineGlobal, A: globalIdx})
	})
}
