package bytecode

import "github.com/funvibe/squat/internal/value"

// lineRun is one run-length-encoded entry of the line table: count
// consecutive instructions all attributed to line.
type lineRun struct {
	line  int
	count int
}

// Chunk is the named, growable instruction sequence the compiler writes and
// the VM executes, plus its attached line table. Invariant: the sum of
// counts across lines equals len(Code).
type Chunk struct {
	Name    string
	Code    []Instruction
	lines   []lineRun
	current int // read cursor used by Next
}

// New returns an empty, named Chunk.
func New(name string) *Chunk {
	return &Chunk{Name: name}
}

// Write appends an instruction at the given source line, merging into the
// line table's last run if it shares the line with the previous write.
// Returns the index the instruction was written at.
func (c *Chunk) Write(ins Instruction, line int) int {
	idx := len(c.Code)
	c.Code = append(c.Code, ins)
	if n := len(c.lines); n > 0 && c.lines[n-1].line == line {
		c.lines[n-1].count++
		return idx
	}
	c.lines = append(c.lines, lineRun{line: line, count: 1})
	return idx
}

// GetLine returns the source line instruction idx was written at.
func (c *Chunk) GetLine(idx int) int {
	i := 0
	for _, run := range c.lines {
		if idx < i+run.count {
			return run.line
		}
		i += run.count
	}
	return 0
}

// Size returns the number of instructions in the chunk.
func (c *Chunk) Size() int { return len(c.Code) }

// Patch overwrites the operand of an already-written jump instruction. Only
// Jump, JumpIfFalse and JumpIfTrue may be patched; anything else is an
// internal-assertion failure, since it means the compiler mis-tracked a
// jump location.
func (c *Chunk) Patch(at int, operand int) {
	switch c.Code[at].Op {
	case OpJump, OpJumpIfFalse, OpJumpIfTrue:
		c.Code[at].A = operand
	default:
		panic("bytecode: Patch called on a non-jump instruction")
	}
}

// Next advances the read cursor and returns the next instruction, or false
// at the end of the chunk.
func (c *Chunk) Next() (Instruction, bool) {
	if c.current >= len(c.Code) {
		return Instruction{}, false
	}
	ins := c.Code[c.current]
	c.current++
	return ins, true
}

// CurrentIP returns the index Next will read next.
func (c *Chunk) CurrentIP() int { return c.current }

// SetIP repositions the read cursor, used by jumps and calls.
func (c *Chunk) SetIP(ip int) { c.current = ip }

// Constants is the deduplicating constant pool (spec.md's ValueArray):
// write returns the index of an existing structurally-equal value rather
// than appending a duplicate.
type Constants struct {
	values []value.Value
}

// Write deduplicates v against the existing pool by structural equality and
// returns its stable index. Deduplication is kind-sensitive even though
// Value.Equal cross-equates Int and Float numerically for == / !=: a Float
// constant must never collapse onto an Int constant's slot (or vice versa),
// or the second-written literal would silently adopt the first's kind.
func (p *Constants) Write(v value.Value) int {
	for i, existing := range p.values {
		if existing.Kind == v.Kind && existing.Equal(v) {
			return i
		}
	}
	p.values = append(p.values, v)
	return len(p.values) - 1
}

func (p *Constants) Get(i int) value.Value { return p.values[i] }
func (p *Constants) Len() int              { return len(p.values) }
