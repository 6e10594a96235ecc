package vm

import (
	"strings"
	"testing"

	"github.com/funvibe/squat/internal/compiler"
	"github.com/funvibe/squat/internal/natives"
)

// run compiles and executes src, returning whatever println/print wrote to
// stdout and the VM's exit code.
func run(t *testing.T, src string) (string, int) {
	t.Helper()
	var out strings.Builder
	reg := natives.New(&out)
	c := compiler.New(src, reg)
	result, err := c.Compile()
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	machine := New(result.Chunk, result.Constants, reg, result.GlobalCount, &strings.Builder{}, Options{})
	code, err := machine.Run()
	if err != nil {
		t.Fatalf("runtime error: %v", err)
	}
	return out.String(), code
}

func TestHelloWorld(t *testing.T) {
	out, _ := run(t, `func main() { println("hello, world"); }`)
	if out != "hello, world\n" {
		t.Errorf("got %q", out)
	}
}

func TestRecursiveFibonacci(t *testing.T) {
	src := `
		func fib(int n) int {
			if (n < 2) { return n; }
			return fib(n - 1) + fib(n - 2);
		}
		func main() { println(fib(10)); }
	`
	out, _ := run(t, src)
	if out != "55\n" {
		t.Errorf("got %q, want 55", out)
	}
}

func TestForLoopSum(t *testing.T) {
	src := `
		func main() {
			int sum = 0;
			for (int i = 1; i <= 10; i = i + 1) {
				sum = sum + i;
			}
			println(sum);
		}
	`
	out, _ := run(t, src)
	if out != "55\n" {
		t.Errorf("got %q, want 55", out)
	}
}

func TestStringIntCoercion(t *testing.T) {
	src := `func main() { println("a" + 1); }`
	out, _ := run(t, src)
	if out != "a1\n" {
		t.Errorf("got %q, want a1", out)
	}
}

func TestStructFieldAccess(t *testing.T) {
	src := `
		class Point { int x; int y; }
		func main() {
			Point p = Point(3, 4);
			println(p.x + p.y);
		}
	`
	out, _ := run(t, src)
	if out != "7\n" {
		t.Errorf("got %q, want 7", out)
	}
}

func TestMainReturnValueBecomesExitCode(t *testing.T) {
	_, code := run(t, `func main() int { return 3; }`)
	if code != 3 {
		t.Errorf("got exit code %d, want 3", code)
	}
}

func TestWhileLoopAndLogicalOperators(t *testing.T) {
	src := `
		func main() {
			int n = 0;
			bool keepGoing = true;
			while (keepGoing and n < 5) {
				n = n + 1;
				keepGoing = n < 5 or n == 5;
			}
			println(n);
		}
	`
	out, _ := run(t, src)
	if out != "5\n" {
		t.Errorf("got %q, want 5", out)
	}
}

func TestTernaryExpression(t *testing.T) {
	src := `func main() { println(1 < 2 ? "yes" : "no"); }`
	out, _ := run(t, src)
	if out != "yes\n" {
		t.Errorf("got %q", out)
	}
}

func TestDivisionByZeroIsARuntimeError(t *testing.T) {
	var out strings.Builder
	reg := natives.New(&out)
	c := compiler.New(`func main() { int x = 1 / 0; }`, reg)
	result, err := c.Compile()
	if err != nil {
		t.Fatalf("compile error: %v", err)
	}
	machine := New(result.Chunk, result.Constants, reg, result.GlobalCount, &strings.Builder{}, Options{})
	_, err = machine.Run()
	if err == nil {
		t.Fatal("expected a runtime error for division by zero")
	}
	if _, ok := err.(*RuntimeError); !ok {
		t.Errorf("got %T, want *RuntimeError", err)
	}
}
