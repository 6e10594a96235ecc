package bytecode

import (
	"testing"

	"github.com/funvibe/squat/internal/value"
)

func TestLineTableRunLengthEncodesConsecutiveWrites(t *testing.T) {
	c := New("test")
	c.Write(Instruction{Op: OpNil}, 1)
	c.Write(Instruction{Op: OpNil}, 1)
	c.Write(Instruction{Op: OpNil}, 2)

	if got := c.GetLine(0); got != 1 {
		t.Errorf("GetLine(0) = %d, want 1", got)
	}
	if got := c.GetLine(1); got != 1 {
		t.Errorf("GetLine(1) = %d, want 1", got)
	}
	if got := c.GetLine(2); got != 2 {
		t.Errorf("GetLine(2) = %d, want 2", got)
	}
}

func TestPatchOnlyAcceptsJumpOpcodes(t *testing.T) {
	c := New("test")
	at := c.Write(Instruction{Op: OpJumpIfFalse}, 1)
	c.Patch(at, 7)
	if c.Code[at].A != 7 {
		t.Errorf("got %d, want 7", c.Code[at].A)
	}

	defer func() {
		if recover() == nil {
			t.Error("expected Patch on a non-jump instruction to panic")
		}
	}()
	nonJump := c.Write(Instruction{Op: OpPop}, 1)
	c.Patch(nonJump, 1)
}

func TestNextIteratesInOrder(t *testing.T) {
	c := New("test")
	c.Write(Instruction{Op: OpTrue}, 1)
	c.Write(Instruction{Op: OpFalse}, 1)

	ins, ok := c.Next()
	if !ok || ins.Op != OpTrue {
		t.Errorf("got %v, %v", ins, ok)
	}
	ins, ok = c.Next()
	if !ok || ins.Op != OpFalse {
		t.Errorf("got %v, %v", ins, ok)
	}
	if _, ok := c.Next(); ok {
		t.Error("expected Next to report exhaustion")
	}
}

func TestConstantsDeduplicateByStructuralEquality(t *testing.T) {
	p := &Constants{}
	i1 := p.Write(value.IntValue(42))
	i2 := p.Write(value.IntValue(42))
	i3 := p.Write(value.StringValue("42"))

	if i1 != i2 {
		t.Errorf("expected identical constants to share an index: %d != %d", i1, i2)
	}
	if i3 == i1 {
		t.Error("expected a differently-typed constant to get a distinct index")
	}
	if p.Len() != 2 {
		t.Errorf("got %d constants, want 2", p.Len())
	}
}
