package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"sync/atomic"
	"time"

	"github.com/jeeftor/automaton/internal/constants"
	"github.com/jeeftor/automaton/internal/logging"
)

// maxRepeat bounds repeat counts so they fit an int on every platform
const maxRepeat = math.MaxInt32

// Region is a screen rectangle in pixels
type Region struct {
	X, Y, W, H int
}

// API is the set of host operations scripts can call. Every method receives
// a context that is cancelled when the job is stopped.
type API interface {
	ScreenCapture(ctx context.Context, region *Region) (string, error)
	RecordMouse(ctx context.Context, path string) error
	Playback(ctx context.Context, path string) error
	DetectImage(ctx context.Context, path string, confidence float64) (*Match, error)
	WaitForImage(ctx context.Context, path string, confidence float64, timeout, interval time.Duration) (*Match, error)
	ClickOnImage(ctx context.Context, target *Match, button string, double bool) error
	MoveMouse(ctx context.Context, x, y int, duration time.Duration, steps int) error
}

// Defaults fill in optional builtin arguments
type Defaults struct {
	Confidence   float64
	Timeout      time.Duration
	Interval     time.Duration
	EventsFile   string
	MoveDuration time.Duration
	MoveSteps    int
}

// DefaultDefaults returns the stock builtin defaults
func DefaultDefaults() Defaults {
	return Defaults{
		Confidence:   constants.DefaultConfidence,
		Timeout:      constants.DefaultMatchTimeout,
		Interval:     constants.DefaultMatchInterval,
		EventsFile:   constants.DefaultEventsFile,
		MoveDuration: constants.DefaultMoveDuration,
		MoveSteps:    constants.DefaultMoveSteps,
	}
}

type frame struct {
	line int
	what string
}

// Interpreter executes one Program. It is single use.
type Interpreter struct {
	api      API
	out      io.Writer
	defaults Defaults
	token    *CancelToken
	logger   *logging.ContextualLogger

	ctx    context.Context
	cancel context.CancelFunc
	killed atomic.Bool

	vars   map[string]Value
	frames []frame
}

// NewInterpreter creates an interpreter bound to token; output goes to out
func NewInterpreter(api API, token *CancelToken, out io.Writer, defaults Defaults) *Interpreter {
	ctx, cancel := context.WithCancel(token.Context())
	return &Interpreter{
		api:      api,
		out:      out,
		defaults: defaults,
		token:    token,
		logger:   logging.NewContextualLogger("", "interpreter"),
		ctx:      ctx,
		cancel:   cancel,
		vars:     make(map[string]Value),
	}
}

// Kill aborts execution at the next statement or loop iteration and
// cancels any in-flight host call. Safe to call from any goroutine.
func (in *Interpreter) Kill() {
	in.killed.Store(true)
	in.cancel()
}

// Killed reports whether Kill was called
func (in *Interpreter) Killed() bool {
	return in.killed.Load()
}

// Var returns a variable's value after execution
func (in *Interpreter) Var(name string) (Value, bool) {
	v, ok := in.vars[name]
	return v, ok
}

// Exec runs prog to completion
func (in *Interpreter) Exec(prog *Program) error {
	defer in.cancel()
	err := in.execBlock(prog.Body)
	if in.killed.Load() {
		return ErrKilled
	}
	return err
}

func (in *Interpreter) checkpoint() error {
	if in.killed.Load() {
		return ErrKilled
	}
	return nil
}

func (in *Interpreter) execBlock(body []Stmt) error {
	for _, s := range body {
		if err := in.checkpoint(); err != nil {
			return err
		}
		in.frames = append(in.frames, frame{line: s.Pos(), what: describeStmt(s)})
		err := in.execStmt(s)
		in.frames = in.frames[:len(in.frames)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

func describeStmt(s Stmt) string {
	switch s := s.(type) {
	case *AssignStmt:
		return "assignment to " + s.Name
	case *ExprStmt:
		if c, ok := s.X.(*CallExpr); ok {
			return c.Name + "()"
		}
		return "expression"
	case *IfStmt:
		return "if"
	case *WhileStmt:
		return "while"
	case *RepeatStmt:
		return "repeat"
	case *BreakStmt:
		return "break"
	case *ContinueStmt:
		return "continue"
	default:
		return "statement"
	}
}

// trace renders the active statement chain, outermost first
func (in *Interpreter) trace() string {
	var b strings.Builder
	b.WriteString("Traceback (most recent statement last):")
	for _, f := range in.frames {
		fmt.Fprintf(&b, "\n  line %d, in %s", f.line, f.what)
	}
	return b.String()
}

// fail wraps err as a ScriptError at n unless it already is one or is a
// control signal
func (in *Interpreter) fail(n Node, err error) error {
	if err == nil || errors.Is(err, ErrKilled) || err == errBreak || err == errContinue {
		return err
	}
	var se *ScriptError
	if errors.As(err, &se) {
		return err
	}
	return &ScriptError{Message: err.Error(), Line: n.Pos(), Trace: in.trace(), Err: err}
}

func (in *Interpreter) execStmt(s Stmt) error {
	switch s := s.(type) {
	case *AssignStmt:
		v, err := in.eval(s.Value)
		if err != nil {
			return err
		}
		if s.Op != "" {
			old, ok := in.vars[s.Name]
			if !ok {
				return in.fail(s, fmt.Errorf("undefined variable %q", s.Name))
			}
			if v, err = binaryOp(s.Op, old, v); err != nil {
				return in.fail(s, err)
			}
		}
		in.vars[s.Name] = v
		return nil

	case *ExprStmt:
		_, err := in.eval(s.X)
		return err

	case *IfStmt:
		for _, br := range s.Branches {
			cond, err := in.eval(br.Cond)
			if err != nil {
				return err
			}
			if Truthy(cond) {
				return in.execBlock(br.Body)
			}
		}
		return in.execBlock(s.Else)

	case *WhileStmt:
		for {
			if err := in.checkpoint(); err != nil {
				return err
			}
			cond, err := in.eval(s.Cond)
			if err != nil {
				return err
			}
			if !Truthy(cond) {
				return nil
			}
			if done, err := in.loopBody(s.Body); done || err != nil {
				return err
			}
		}

	case *RepeatStmt:
		cv, err := in.eval(s.Count)
		if err != nil {
			return err
		}
		n, ok := cv.(float64)
		if !ok || n < 0 || n != math.Trunc(n) {
			return in.fail(s, fmt.Errorf("repeat count must be a non-negative whole number, got %s", FormatValue(cv)))
		}
		if n > maxRepeat {
			return in.fail(s, fmt.Errorf("repeat count %s exceeds the limit of %d", FormatValue(cv), maxRepeat))
		}
		for i := 0; i < int(n); i++ {
			if err := in.checkpoint(); err != nil {
				return err
			}
			if done, err := in.loopBody(s.Body); done || err != nil {
				return err
			}
		}
		return nil

	case *BreakStmt:
		return errBreak

	case *ContinueStmt:
		return errContinue
	}
	return in.fail(s, fmt.Errorf("unsupported statement %T", s))
}

// loopBody runs one iteration; done is true when the loop should exit
func (in *Interpreter) loopBody(body []Stmt) (done bool, err error) {
	err = in.execBlock(body)
	switch err {
	case errBreak:
		return true, nil
	case errContinue:
		return false, nil
	}
	return err != nil, err
}

func (in *Interpreter) eval(e Expr) (Value, error) {
	switch e := e.(type) {
	case *Literal:
		return e.Value, nil

	case *StringExpr:
		var b strings.Builder
		for _, part := range e.Parts {
			if !part.ident {
				b.WriteString(part.text)
				continue
			}
			v, ok := in.vars[part.text]
			if !ok {
				return nil, in.fail(e, fmt.Errorf("undefined variable %q in string", part.text))
			}
			b.WriteString(FormatValue(v))
		}
		return b.String(), nil

	case *Ident:
		v, ok := in.vars[e.Name]
		if !ok {
			return nil, in.fail(e, fmt.Errorf("undefined variable %q", e.Name))
		}
		return v, nil

	case *UnaryExpr:
		x, err := in.eval(e.X)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "!":
			return !Truthy(x), nil
		case "-":
			n, ok := x.(float64)
			if !ok {
				return nil, in.fail(e, fmt.Errorf("cannot negate %s", typeName(x)))
			}
			return -n, nil
		}
		return nil, in.fail(e, fmt.Errorf("unknown operator %q", e.Op))

	case *BinaryExpr:
		x, err := in.eval(e.X)
		if err != nil {
			return nil, err
		}
		switch e.Op {
		case "&&":
			if !Truthy(x) {
				return false, nil
			}
			y, err := in.eval(e.Y)
			if err != nil {
				return nil, err
			}
			return Truthy(y), nil
		case "||":
			if Truthy(x) {
				return true, nil
			}
			y, err := in.eval(e.Y)
			if err != nil {
				return nil, err
			}
			return Truthy(y), nil
		}
		y, err := in.eval(e.Y)
		if err != nil {
			return nil, err
		}
		v, err := binaryOp(e.Op, x, y)
		if err != nil {
			return nil, in.fail(e, err)
		}
		return v, nil

	case *CallExpr:
		return in.call(e)

	case *MemberExpr:
		x, err := in.eval(e.X)
		if err != nil {
			return nil, err
		}
		m, ok := x.(*Match)
		if !ok || m == nil {
			return nil, in.fail(e, fmt.Errorf("%s has no field %q", typeName(x), e.Name))
		}
		switch e.Name {
		case "x":
			return float64(m.X), nil
		case "y":
			return float64(m.Y), nil
		case "score":
			return m.Score, nil
		}
		return nil, in.fail(e, fmt.Errorf("match has no field %q", e.Name))

	case *IndexExpr:
		x, err := in.eval(e.X)
		if err != nil {
			return nil, err
		}
		iv, err := in.eval(e.Index)
		if err != nil {
			return nil, err
		}
		v, err := index(x, iv)
		if err != nil {
			return nil, in.fail(e, err)
		}
		return v, nil
	}
	return nil, fmt.Errorf("unsupported expression %T", e)
}

func index(x, iv Value) (Value, error) {
	f, ok := iv.(float64)
	if !ok || f != math.Trunc(f) {
		return nil, fmt.Errorf("index must be a whole number, got %s", FormatValue(iv))
	}
	i := int(f)
	switch x := x.(type) {
	case *Match:
		if x == nil {
			break
		}
		switch i {
		case 0:
			return float64(x.X), nil
		case 1:
			return float64(x.Y), nil
		}
		return nil, fmt.Errorf("match index %d out of range", i)
	case string:
		r := []rune(x)
		if i < 0 {
			i += len(r)
		}
		if i < 0 || i >= len(r) {
			return nil, fmt.Errorf("string index %d out of range", int(f))
		}
		return string(r[i]), nil
	}
	return nil, fmt.Errorf("cannot index %s", typeName(x))
}

func binaryOp(op string, x, y Value) (Value, error) {
	switch op {
	case "==":
		return valuesEqual(x, y), nil
	case "!=":
		return !valuesEqual(x, y), nil
	}

	if op == "+" {
		if xs, ok := x.(string); ok {
			return xs + FormatValue(y), nil
		}
		if ys, ok := y.(string); ok {
			return FormatValue(x) + ys, nil
		}
	}

	if xs, ok := x.(string); ok {
		if ys, ok := y.(string); ok {
			switch op {
			case "<":
				return xs < ys, nil
			case "<=":
				return xs <= ys, nil
			case ">":
				return xs > ys, nil
			case ">=":
				return xs >= ys, nil
			}
		}
	}

	a, aok := x.(float64)
	b, bok := y.(float64)
	if !aok || !bok {
		return nil, fmt.Errorf("unsupported operand types for %s: %s and %s", op, typeName(x), typeName(y))
	}
	switch op {
	case "+":
		return a + b, nil
	case "-":
		return a - b, nil
	case "*":
		return a * b, nil
	case "/":
		if b == 0 {
			return nil, errors.New("division by zero")
		}
		return a / b, nil
	case "%":
		if b == 0 {
			return nil, errors.New("modulo by zero")
		}
		return math.Mod(a, b), nil
	case "<":
		return a < b, nil
	case "<=":
		return a <= b, nil
	case ">":
		return a > b, nil
	case ">=":
		return a >= b, nil
	}
	return nil, fmt.Errorf("unknown operator %q", op)
}

// sleep waits d or until the job is stopped
func (in *Interpreter) sleep(d time.Duration) error {
	if d <= 0 {
		return in.ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-in.ctx.Done():
		return in.ctx.Err()
	case <-timer.C:
		return nil
	}
}
