package script

import (
	"context"
	"errors"
	"fmt"
	"io"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jeeftor/automaton/internal/constants"
	"github.com/jeeftor/automaton/internal/logging"
)

// State is a job lifecycle state
type State int

const (
	StateIdle State = iota
	StateRunning
	StateCompleted
	StateFailed
	StateCancelled
	StateKilled
)

// String returns a human-readable representation of the State
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCompleted:
		return "completed"
	case StateFailed:
		return "failed"
	case StateCancelled:
		return "cancelled"
	case StateKilled:
		return "killed"
	default:
		return "unknown"
	}
}

// Terminal reports whether the state is final
func (s State) Terminal() bool {
	return s >= StateCompleted
}

// gatedWriter serializes writes and drops them once closed, so an abandoned
// worker cannot write after its job has ended
type gatedWriter struct {
	mu     sync.Mutex
	w      io.Writer
	closed bool
}

func (g *gatedWriter) Write(p []byte) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.closed {
		return len(p), nil
	}
	return g.w.Write(p)
}

func (g *gatedWriter) close() {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.closed = true
}

// Job is one execution of a script
type Job struct {
	ID     string
	Source string

	token  *CancelToken
	interp *Interpreter
	out    *gatedWriter
	done   chan struct{}
	notify func(*Job)

	mu       sync.Mutex
	state    State
	err      error
	started  time.Time
	finished time.Time
}

// State returns the current state
func (j *Job) State() State {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.state
}

// Err returns the failure of a Failed or Killed job
func (j *Job) Err() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.err
}

// Done is closed when the job reaches a terminal state
func (j *Job) Done() <-chan struct{} {
	return j.done
}

// Duration is the run time so far, or the total once finished
func (j *Job) Duration() time.Duration {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.finished.IsZero() {
		return time.Since(j.started)
	}
	return j.finished.Sub(j.started)
}

// Wait blocks until the job finishes or ctx ends
func (j *Job) Wait(ctx context.Context) (State, error) {
	select {
	case <-j.done:
		return j.State(), j.Err()
	case <-ctx.Done():
		return j.State(), ctx.Err()
	}
}

func (j *Job) waitDone(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-j.done:
		return true
	case <-timer.C:
		return false
	}
}

// finish moves the job to a terminal state; only the first call has effect
func (j *Job) finish(state State, err error) bool {
	j.mu.Lock()
	if j.state != StateRunning {
		j.mu.Unlock()
		return false
	}
	j.state = state
	j.err = err
	j.finished = time.Now()
	j.mu.Unlock()

	if state == StateFailed && err != nil {
		fmt.Fprintf(j.out, "Error: %v\n", err)
		var se *ScriptError
		if errors.As(err, &se) && se.Trace != "" {
			fmt.Fprintln(j.out, se.Trace)
		}
	}
	j.out.close()
	j.token.Set()
	close(j.done)
	if j.notify != nil {
		j.notify(j)
	}
	return true
}

// RuntimeOptions configure a Runtime
type RuntimeOptions struct {
	// Grace is how long Stop waits for cooperative exit before killing
	Grace time.Duration
	// KillWait bounds how long a killed worker is waited for before it is
	// abandoned
	KillWait time.Duration
	// Output receives script output and failure reports
	Output io.Writer
	// Defaults fill in optional builtin arguments
	Defaults Defaults
	// OnFinish is called once per job after it reaches a terminal state
	OnFinish func(*Job)
}

// Runtime runs at most one script job at a time on a background worker
type Runtime struct {
	api    API
	opts   RuntimeOptions
	logger *logging.ContextualLogger

	mu      sync.Mutex
	current *Job
}

// NewRuntime creates a runtime executing scripts against api
func NewRuntime(api API, opts RuntimeOptions) *Runtime {
	if opts.Grace <= 0 {
		opts.Grace = constants.DefaultStopGrace
	}
	if opts.KillWait <= 0 {
		opts.KillWait = constants.DefaultKillWait
	}
	if opts.Output == nil {
		opts.Output = io.Discard
	}
	if opts.Defaults == (Defaults{}) {
		opts.Defaults = DefaultDefaults()
	}
	return &Runtime{api: api, opts: opts, logger: logging.NewContextualLogger("", "script_runtime")}
}

// Current returns the most recent job, or nil before the first Run
func (r *Runtime) Current() *Job {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.current
}

// State is the current job's state, or Idle when none has run
func (r *Runtime) State() State {
	if job := r.Current(); job != nil {
		return job.State()
	}
	return StateIdle
}

// Run starts source on a new worker and returns without waiting. Each job
// gets a fresh cancellation token.
func (r *Runtime) Run(source string) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.current != nil && r.current.State() == StateRunning {
		return nil, ErrAlreadyRunning
	}

	token := NewCancelToken()
	out := &gatedWriter{w: r.opts.Output}
	job := &Job{
		ID:      uuid.NewString(),
		Source:  source,
		token:   token,
		interp:  NewInterpreter(r.api, token, out, r.opts.Defaults),
		out:     out,
		done:    make(chan struct{}),
		notify:  r.opts.OnFinish,
		state:   StateRunning,
		started: time.Now(),
	}
	r.current = job

	logging.Start("script " + job.ID[:8])
	go r.work(job)
	return job, nil
}

func (r *Runtime) work(job *Job) {
	log := r.logger.With("job", job.ID)

	defer func() {
		if p := recover(); p != nil {
			log.Error("Script worker panicked", "panic", p)
			job.finish(StateFailed, &ScriptError{
				Message: fmt.Sprintf("internal error: %v", p),
				Trace:   string(debug.Stack()),
			})
		}
	}()

	prog, err := Parse(job.Source)
	if err != nil {
		log.Debug("Parse failed", "error", err)
		job.finish(StateFailed, err)
		return
	}

	err = job.interp.Exec(prog)
	switch {
	case errors.Is(err, ErrKilled):
		job.finish(StateKilled, ErrKilled)
	case job.token.IsSet() && (err == nil || errors.Is(err, context.Canceled)):
		if job.finish(StateCancelled, nil) {
			logging.Stop("script " + job.ID[:8])
		}
	case err != nil:
		var se *ScriptError
		if !errors.As(err, &se) {
			err = &ScriptError{Message: err.Error(), Err: err}
		}
		if job.finish(StateFailed, err) {
			logging.Fail("script", err.Error())
		}
	default:
		if job.finish(StateCompleted, nil) {
			logging.Complete("script " + job.ID[:8])
		}
	}
	log.Debug("Worker exited", "state", job.State(), "duration", job.Duration())
}

// Stop asks the running job to stop. After the grace period the interpreter
// is killed; a worker stuck in a host call is abandoned after KillWait. In
// both forced cases the job ends Killed and a new Run is accepted at once.
func (r *Runtime) Stop() error {
	job := r.Current()
	if job == nil || job.State() != StateRunning {
		return ErrNotRunning
	}
	log := r.logger.With("job", job.ID)

	job.token.Set()
	log.Debug("Cancellation requested", "grace", r.opts.Grace)
	if job.waitDone(r.opts.Grace) {
		return nil
	}

	log.Warn("forced script termination", "grace", r.opts.Grace)
	job.interp.Kill()
	if !job.waitDone(r.opts.KillWait) {
		log.Warn("Script worker abandoned", "kill_wait", r.opts.KillWait)
	}
	job.finish(StateKilled, ErrKilled)
	return nil
}

// Check parses source without running it
func (r *Runtime) Check(source string) ValidationResult {
	return Check(source)
}
