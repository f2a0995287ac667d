package script

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/jeeftor/automaton/internal/logging"
)

type builtinFunc func(in *Interpreter, args []Value) (Value, error)

type builtin struct {
	minArgs int
	maxArgs int // -1 for variadic
	usage   string
	fn      builtinFunc
}

var builtins map[string]builtin

func init() {
	builtins = map[string]builtin{
		"print":         {0, -1, "print(value, ...)", builtinPrint},
		"sleep":         {1, 1, "sleep(seconds)", builtinSleep},
		"str":           {1, 1, "str(value)", builtinStr},
		"cancelled":     {0, 0, "cancelled()", builtinCancelled},
		"moveMouse":     {2, 4, "moveMouse(x, y[, duration[, steps]])", builtinMoveMouse},
		"screenCapture": {0, 4, "screenCapture() or screenCapture(x, y, w, h)", builtinScreenCapture},
		"recordMouse":   {0, 1, "recordMouse([path])", builtinRecordMouse},
		"playback":      {0, 1, "playback([path])", builtinPlayback},
		"detectImage":   {1, 2, "detectImage(path[, confidence])", builtinDetectImage},
		"clickOnImage":  {1, 3, "clickOnImage(target[, button[, double]])", builtinClickOnImage},
		"waitForImage":  {1, 4, "waitForImage(path[, confidence[, timeout[, interval]]])", builtinWaitForImage},
	}
}

// Builtins lists the callable names with their usage lines, sorted by name
func Builtins() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	out := make([]string, len(names))
	for i, name := range names {
		out[i] = builtins[name].usage
	}
	return out
}

func checkArity(name string, n int) error {
	b, ok := builtins[name]
	if !ok {
		return fmt.Errorf("unknown function %q", name)
	}
	if n < b.minArgs || (b.maxArgs >= 0 && n > b.maxArgs) {
		return fmt.Errorf("wrong number of arguments to %s: got %d, usage %s", name, n, b.usage)
	}
	return nil
}

func (in *Interpreter) call(e *CallExpr) (Value, error) {
	if err := checkArity(e.Name, len(e.Args)); err != nil {
		return nil, in.fail(e, err)
	}
	args := make([]Value, len(e.Args))
	for i, a := range e.Args {
		v, err := in.eval(a)
		if err != nil {
			return nil, err
		}
		args[i] = v
	}

	in.frames = append(in.frames, frame{line: e.Line, what: e.Name + "()"})
	v, err := builtins[e.Name].fn(in, args)
	if err != nil {
		err = in.fail(e, fmt.Errorf("%s: %w", e.Name, err))
	}
	in.frames = in.frames[:len(in.frames)-1]
	return v, err
}

func argNumber(args []Value, i int, name string, def float64) (float64, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}
	f, ok := args[i].(float64)
	if !ok {
		return 0, fmt.Errorf("%s must be a number, got %s", name, typeName(args[i]))
	}
	return f, nil
}

func argInt(args []Value, i int, name string, def int) (int, error) {
	f, err := argNumber(args, i, name, float64(def))
	if err != nil {
		return 0, err
	}
	return int(math.Round(f)), nil
}

func argString(args []Value, i int, name string, def string) (string, error) {
	if i >= len(args) || args[i] == nil {
		return def, nil
	}
	s, ok := args[i].(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string, got %s", name, typeName(args[i]))
	}
	return s, nil
}

func argSeconds(args []Value, i int, name string, def time.Duration) (time.Duration, error) {
	f, err := argNumber(args, i, name, def.Seconds())
	if err != nil {
		return 0, err
	}
	if f < 0 {
		return 0, fmt.Errorf("%s must not be negative", name)
	}
	return time.Duration(f * float64(time.Second)), nil
}

func builtinPrint(in *Interpreter, args []Value) (Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = FormatValue(a)
	}
	_, err := fmt.Fprintln(in.out, strings.Join(parts, " "))
	return nil, err
}

func builtinSleep(in *Interpreter, args []Value) (Value, error) {
	d, err := argSeconds(args, 0, "seconds", 0)
	if err != nil {
		return nil, err
	}
	return nil, in.sleep(d)
}

func builtinStr(in *Interpreter, args []Value) (Value, error) {
	return FormatValue(args[0]), nil
}

func builtinCancelled(in *Interpreter, args []Value) (Value, error) {
	return in.token.IsSet(), nil
}

func builtinMoveMouse(in *Interpreter, args []Value) (Value, error) {
	x, err := argInt(args, 0, "x", 0)
	if err != nil {
		return nil, err
	}
	y, err := argInt(args, 1, "y", 0)
	if err != nil {
		return nil, err
	}
	d, err := argSeconds(args, 2, "duration", in.defaults.MoveDuration)
	if err != nil {
		return nil, err
	}
	steps, err := argInt(args, 3, "steps", in.defaults.MoveSteps)
	if err != nil {
		return nil, err
	}
	if steps < 1 {
		return nil, fmt.Errorf("steps must be at least 1")
	}
	if err := in.api.MoveMouse(in.ctx, x, y, d, steps); err != nil {
		return nil, err
	}
	fmt.Fprintf(in.out, "Mouse moved to (%d, %d)\n", x, y)
	return nil, nil
}

func builtinScreenCapture(in *Interpreter, args []Value) (Value, error) {
	var region *Region
	switch len(args) {
	case 0:
	case 4:
		vals := make([]int, 4)
		for i, name := range []string{"x", "y", "w", "h"} {
			v, err := argInt(args, i, name, 0)
			if err != nil {
				return nil, err
			}
			vals[i] = v
		}
		region = &Region{X: vals[0], Y: vals[1], W: vals[2], H: vals[3]}
	default:
		return nil, fmt.Errorf("expects no arguments or x, y, w, h")
	}
	path, err := in.api.ScreenCapture(in.ctx, region)
	if err != nil {
		return nil, err
	}
	fmt.Fprintf(in.out, "Region captured and saved to %s\n", path)
	return path, nil
}

func builtinRecordMouse(in *Interpreter, args []Value) (Value, error) {
	path, err := argString(args, 0, "path", in.defaults.EventsFile)
	if err != nil {
		return nil, err
	}
	return nil, in.api.RecordMouse(in.ctx, path)
}

func builtinPlayback(in *Interpreter, args []Value) (Value, error) {
	path, err := argString(args, 0, "path", in.defaults.EventsFile)
	if err != nil {
		return nil, err
	}
	if err := in.api.Playback(in.ctx, path); err != nil {
		return nil, err
	}
	fmt.Fprintln(in.out, "Mouse events replayed.")
	return nil, nil
}

func matchValue(m *Match) Value {
	if m == nil {
		return nil
	}
	return m
}

func builtinDetectImage(in *Interpreter, args []Value) (Value, error) {
	path, err := argString(args, 0, "path", "")
	if err != nil {
		return nil, err
	}
	conf, err := argNumber(args, 1, "confidence", in.defaults.Confidence)
	if err != nil {
		return nil, err
	}
	m, err := in.api.DetectImage(in.ctx, path, conf)
	if err != nil {
		return nil, err
	}
	if m == nil {
		fmt.Fprintln(in.out, "Image not found on the screen.")
	}
	return matchValue(m), nil
}

func builtinWaitForImage(in *Interpreter, args []Value) (Value, error) {
	path, err := argString(args, 0, "path", "")
	if err != nil {
		return nil, err
	}
	conf, err := argNumber(args, 1, "confidence", in.defaults.Confidence)
	if err != nil {
		return nil, err
	}
	timeout, err := argSeconds(args, 2, "timeout", in.defaults.Timeout)
	if err != nil {
		return nil, err
	}
	interval, err := argSeconds(args, 3, "interval", in.defaults.Interval)
	if err != nil {
		return nil, err
	}
	m, err := in.api.WaitForImage(in.ctx, path, conf, timeout, interval)
	if err != nil {
		return nil, err
	}
	if m == nil {
		fmt.Fprintln(in.out, "Timed out waiting for the image.")
	} else {
		fmt.Fprintf(in.out, "Image found at: %s\n", m)
	}
	return matchValue(m), nil
}

func builtinClickOnImage(in *Interpreter, args []Value) (Value, error) {
	var target *Match
	switch v := args[0].(type) {
	case nil:
	case *Match:
		target = v
	default:
		return nil, fmt.Errorf("target must be a match or none, got %s", typeName(v))
	}
	button, err := argString(args, 1, "button", "left")
	if err != nil {
		return nil, err
	}
	double := len(args) > 2 && Truthy(args[2])

	if target == nil {
		in.logger.Warn("Click skipped", "reason", "invalid target")
		fmt.Fprintln(in.out, "Invalid coordinates. Cannot perform the click.")
		return nil, nil
	}
	if err := in.api.ClickOnImage(in.ctx, target, button, double); err != nil {
		return nil, err
	}
	fmt.Fprintf(in.out, "Clicked at: %s\n", target)
	logging.Debug("Script click", "x", target.X, "y", target.Y, "button", button, "double", double)
	return nil, nil
}
