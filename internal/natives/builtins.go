package natives

import (
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"gopkg.in/yaml.v3"

	"github.com/funvibe/squat/internal/value"
)

func printBody(out io.Writer, newline bool) value.NativeBody {
	return func(args []value.Value) (value.Value, error) {
		parts := make([]any, len(args))
		for i, a := range args {
			parts[i] = a.Inspect()
		}
		if newline {
			fmt.Fprintln(out, parts...)
		} else {
			fmt.Fprint(out, parts...)
		}
		return value.NilValue(), nil
	}
}

func lenBody(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return value.Value{}, fmt.Errorf("len expects a string argument")
	}
	return value.IntValue(int64(len(args[0].Str))), nil
}

func typeBody(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("type expects exactly one argument")
	}
	return value.TypeValue(args[0].RuntimeType()), nil
}

func panicBody(args []value.Value) (value.Value, error) {
	msg := "panic"
	if len(args) == 1 {
		msg = args[0].Inspect()
	}
	return value.Value{}, fmt.Errorf("%s", msg)
}

func clockBody(start time.Time) value.NativeBody {
	return func(args []value.Value) (value.Value, error) {
		return value.FloatValue(time.Since(start).Seconds()), nil
	}
}

func uuidBody(args []value.Value) (value.Value, error) {
	return value.StringValue(uuid.NewString()), nil
}

func isTerminalBody(args []value.Value) (value.Value, error) {
	return value.BoolValue(isatty.IsTerminal(1)), nil
}

func toYAMLBody(args []value.Value) (value.Value, error) {
	if len(args) != 1 {
		return value.Value{}, fmt.Errorf("toYaml expects exactly one argument")
	}
	out, err := yaml.Marshal(toYAMLNative(args[0]))
	if err != nil {
		return value.Value{}, fmt.Errorf("toYaml: %w", err)
	}
	return value.StringValue(string(out)), nil
}

func toYAMLNative(v value.Value) any {
	switch v.Kind {
	case value.KindNil:
		return nil
	case value.KindInt:
		return v.Int
	case value.KindFloat:
		return v.Float
	case value.KindBool:
		return v.Bool
	case value.KindString:
		return v.Str
	default:
		return v.Inspect()
	}
}

func fromYAMLBody(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsString() {
		return value.Value{}, fmt.Errorf("fromYaml expects a string argument")
	}
	var decoded any
	if err := yaml.Unmarshal([]byte(args[0].Str), &decoded); err != nil {
		return value.Value{}, fmt.Errorf("fromYaml: %w", err)
	}
	return fromYAMLNative(decoded), nil
}

func fromYAMLNative(v any) value.Value {
	switch t := v.(type) {
	case nil:
		return value.NilValue()
	case bool:
		return value.BoolValue(t)
	case int:
		return value.IntValue(int64(t))
	case int64:
		return value.IntValue(t)
	case float64:
		return value.FloatValue(t)
	case string:
		return value.StringValue(t)
	default:
		return value.StringValue(fmt.Sprintf("%v", t))
	}
}

func humanizeBytesBody(args []value.Value) (value.Value, error) {
	if len(args) != 1 || !args[0].IsInt() {
		return value.Value{}, fmt.Errorf("humanizeBytes expects an int argument")
	}
	return value.StringValue(humanize.Bytes(uint64(args[0].Int))), nil
}
