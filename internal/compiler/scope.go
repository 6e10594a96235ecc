package compiler

import (
	"fmt"

	"github.com/funvibe/squat/internal/bytecode"
	"github.com/funvibe/squat/internal/value"
)

func (c *Compiler) beginScope() { c.scopeDepth++ }

// endScope pops every local declared at or below the scope being exited,
// emitting one Pop per popped local so the runtime stack matches (spec.md
// §8 "scope discipline").
func (c *Compiler) endScope() {
	c.scopeDepth--
	for len(c.locals) > 0 && c.locals[len(c.locals)-1].depth > c.scopeDepth {
		c.emit(bytecode.Instruction{Op: bytecode.OpPop})
		c.locals = c.locals[:len(c.locals)-1]
	}
}

// declareLocal reserves a slot for name at the current scope depth, with
// depth=-1 until markInitialized is called: the self-reference guard from
// spec.md §4.3.
func (c *Compiler) declareLocal(name string) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		l := c.locals[i]
		if l.depth != -1 && l.depth < c.scopeDepth {
			break
		}
		if l.name == name {
			c.errorAtPrevious(fmt.Sprintf("variable %q already declared in this scope", name))
			return
		}
	}
	c.locals = append(c.locals, local{name: name, depth: -1})
}

func (c *Compiler) markInitialized(typ *value.TypeDescriptor) {
	last := len(c.locals) - 1
	c.locals[last].depth = c.scopeDepth
	c.locals[last].typ = typ
}

// resolveLocal walks locals innermost-first. A slot still marked
// uninitialised (depth == -1) is invisible to resolution by name match
// alone except to report the self-initialisation error.
func (c *Compiler) resolveLocal(name string) (int, *value.TypeDescriptor, bool) {
	for i := len(c.locals) - 1; i >= 0; i-- {
		if c.locals[i].name == name {
			if c.locals[i].depth == -1 {
				c.errorAtPrevious(fmt.Sprintf("can't read local variable %q in its own initializer", name))
				return i, value.Any(), true
			}
			return i, c.locals[i].typ, true
		}
	}
	return 0, nil, false
}

// declareGlobal assigns name the next dense global slot index.
func (c *Compiler) declareGlobal(name string, typ *value.TypeDescriptor) int {
	if _, exists := c.globals[name]; exists {
		c.errorAtPrevious(fmt.Sprintf("global %q already declared", name))
		return c.globals[name].index
	}
	idx := c.globalSeq
	c.globalSeq++
	c.globals[name] = globalInfo{index: idx, typ: typ}
	return idx
}

func (c *Compiler) resolveGlobal(name string) (int, *value.TypeDescriptor, bool) {
	g, ok := c.globals[name]
	if !ok {
		return 0, nil, false
	}
	return g.index, g.typ, true
}
