package natives

import (
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/funvibe/squat/internal/value"
)

func TestLookupAndGetRoundTrip(t *testing.T) {
	r := New(new(strings.Builder))
	idx, sig, ok := r.Lookup("println")
	if !ok {
		t.Fatal("expected println to be registered")
	}
	if !sig.Variadic {
		t.Error("println should be variadic")
	}
	if r.Get(idx).Name != "println" {
		t.Errorf("got %q", r.Get(idx).Name)
	}
	if _, _, ok := r.Lookup("nope"); ok {
		t.Error("expected unknown native to report not found")
	}
}

func TestLenBody(t *testing.T) {
	v, err := lenBody([]value.Value{value.StringValue("hello")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Int != 5 {
		t.Errorf("got %d, want 5", v.Int)
	}
	if _, err := lenBody([]value.Value{value.IntValue(1)}); err == nil {
		t.Error("expected len on a non-string to error")
	}
}

func TestTypeBody(t *testing.T) {
	v, err := typeBody([]value.Value{value.IntValue(1)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Type.Tag != value.TInt {
		t.Errorf("got %v", v.Type)
	}
}

func TestPanicBodyReturnsError(t *testing.T) {
	_, err := panicBody([]value.Value{value.StringValue("boom")})
	if err == nil || err.Error() != "boom" {
		t.Errorf("got %v", err)
	}
}

func TestYAMLRoundTrip(t *testing.T) {
	out, err := toYAMLBody([]value.Value{value.IntValue(42)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out.Str) != "42" {
		t.Errorf("got %q", out.Str)
	}
	back, err := fromYAMLBody([]value.Value{out})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if back.Int != 42 {
		t.Errorf("got %+v", back)
	}
}

func TestHumanizeBytesBody(t *testing.T) {
	v, err := humanizeBytesBody([]value.Value{value.IntValue(1024)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if v.Str != "1.0 kB" {
		t.Errorf("got %q", v.Str)
	}
	if _, err := humanizeBytesBody([]value.Value{value.StringValue("nope")}); err == nil {
		t.Error("expected humanizeBytes on a non-int to error")
	}
}

func TestUUIDBodyProducesAParsableUUID(t *testing.T) {
	v, err := uuidBody(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(v.Str) != 36 {
		t.Errorf("got %q, want a 36-char UUID string", v.Str)
	}
	if _, err := uuid.Parse(v.Str); err != nil {
		t.Errorf("got %q, which does not parse as a UUID: %v", v.Str, err)
	}
}

func TestPrintBodyWritesInspectedArgsToWriter(t *testing.T) {
	var out strings.Builder
	body := printBody(&out, true)
	if _, err := body([]value.Value{value.StringValue("a"), value.IntValue(1)}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.String() != "a 1\n" {
		t.Errorf("got %q", out.String())
	}
}
