package compiler

import (
	"strings"
	"testing"

	"github.com/funvibe/squat/internal/natives"
)

func compile(t *testing.T, src string) (*Result, error) {
	t.Helper()
	reg := natives.New(new(strings.Builder))
	c := New(src, reg)
	return c.Compile()
}

func TestCompileRejectsProgramWithoutMain(t *testing.T) {
	_, err := compile(t, "func helper() {}")
	if err == nil {
		t.Fatal("expected a missing-main compile error")
	}
}

func TestCompileRejectsProgramWithMultipleMains(t *testing.T) {
	_, err := compile(t, "func main() {} func main() {}")
	if err == nil {
		t.Fatal("expected a duplicate-main compile error")
	}
}

func TestCompileAcceptsMinimalProgram(t *testing.T) {
	result, err := compile(t, "func main() {}")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result.Chunk.Size() == 0 {
		t.Error("expected a non-empty chunk")
	}
}

func TestSelfReferenceInLocalInitializerIsRejected(t *testing.T) {
	src := `func main() { int x = x; }`
	_, err := compile(t, src)
	if err == nil {
		t.Fatal("expected self-reference in initializer to be a compile error")
	}
	if !strings.Contains(err.Error(), "own initializer") {
		t.Errorf("got %v", err)
	}
}

func TestDuplicateLocalInSameScopeIsRejected(t *testing.T) {
	src := `func main() { int x = 1; int x = 2; }`
	_, err := compile(t, src)
	if err == nil {
		t.Fatal("expected duplicate local declaration to be a compile error")
	}
}

func TestTypeMismatchOnAssignmentIsRejected(t *testing.T) {
	src := `func main() { int x = 1; x = "nope"; }`
	_, err := compile(t, src)
	if err == nil {
		t.Fatal("expected a type-mismatch compile error")
	}
}

func TestDeepPropertyAssignmentIsRejected(t *testing.T) {
	src := `
		class Box { int v; }
		class Wrap { Box b; }
		func main() {
			Wrap w = Wrap(Box(1));
			w.b.v = 2;
		}
	`
	_, err := compile(t, src)
	if err == nil {
		t.Fatal("expected two-level property assignment to be rejected")
	}
}

func TestRecursiveFunctionCompiles(t *testing.T) {
	src := `
		func fib(int n) int {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		func main() { int r = fib(5); }
	`
	if _, err := compile(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestStructInstantiationAndFieldAccessCompiles(t *testing.T) {
	src := `
		class Point { int x; int y; }
		func main() {
			Point p = Point(3, 4);
			int sum = p.x + p.y;
		}
	`
	if _, err := compile(t, src); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
