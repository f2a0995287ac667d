package script

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/automaton/internal/logging"
)

func newTestRuntime(t *testing.T, api API) (*Runtime, *syncBuffer, *syncBuffer) {
	t.Helper()
	color.NoColor = true
	logs := &syncBuffer{}
	logging.SetOutput(logs)
	out := &syncBuffer{}
	rt := NewRuntime(api, RuntimeOptions{
		Grace:    200 * time.Millisecond,
		KillWait: 100 * time.Millisecond,
		Output:   out,
	})
	return rt, out, logs
}

func waitJob(t *testing.T, job *Job) State {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	state, err := job.Wait(ctx)
	require.NotErrorIs(t, err, context.DeadlineExceeded, "job did not finish")
	return state
}

func TestRuntimeCompletes(t *testing.T) {
	rt, out, _ := newTestRuntime(t, &fakeAPI{})
	assert.Equal(t, StateIdle, rt.State())

	job, err := rt.Run("print('hello')")
	require.NoError(t, err)
	assert.Len(t, job.ID, 36)

	assert.Equal(t, StateCompleted, waitJob(t, job))
	assert.NoError(t, job.Err())
	assert.Equal(t, "hello\n", out.String())
	assert.Equal(t, StateCompleted, rt.State())
	assert.True(t, rt.State().Terminal())
}

func TestRuntimeRejectsSecondRun(t *testing.T) {
	rt, _, _ := newTestRuntime(t, &fakeAPI{})

	job, err := rt.Run("sleep(5)")
	require.NoError(t, err)

	_, err = rt.Run("print(1)")
	assert.ErrorIs(t, err, ErrAlreadyRunning)

	require.NoError(t, rt.Stop())
	assert.Equal(t, StateCancelled, waitJob(t, job))
}

func TestRuntimeStopWhenIdle(t *testing.T) {
	rt, _, _ := newTestRuntime(t, &fakeAPI{})
	assert.ErrorIs(t, rt.Stop(), ErrNotRunning)

	job, err := rt.Run("x = 1")
	require.NoError(t, err)
	waitJob(t, job)
	assert.ErrorIs(t, rt.Stop(), ErrNotRunning)
}

func TestRuntimeCooperativeCancel(t *testing.T) {
	tests := []struct {
		name string
		src  string
	}{
		{"sleeping", "sleep(30)"},
		{"polling cancelled", "while !cancelled() { x = 1 }\nprint('bye')"},
		{"waiting for image", "waitForImage('never.png', 0.8, 30)"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rt, out, logs := newTestRuntime(t, &fakeAPI{})
			job, err := rt.Run(tt.src)
			require.NoError(t, err)
			time.Sleep(20 * time.Millisecond)

			start := time.Now()
			require.NoError(t, rt.Stop())
			assert.Less(t, time.Since(start), 200*time.Millisecond)

			assert.Equal(t, StateCancelled, waitJob(t, job))
			assert.NoError(t, job.Err())
			assert.NotContains(t, out.String(), "Error:")
			assert.NotContains(t, logs.String(), "forced script termination")
		})
	}
}

func TestRuntimeForcedKill(t *testing.T) {
	rt, out, logs := newTestRuntime(t, &fakeAPI{})

	job, err := rt.Run("while true { }")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	require.NoError(t, rt.Stop())
	elapsed := time.Since(start)

	assert.Equal(t, StateKilled, job.State())
	assert.ErrorIs(t, job.Err(), ErrKilled)
	assert.GreaterOrEqual(t, elapsed, 200*time.Millisecond)
	assert.Less(t, elapsed, time.Second)
	assert.Contains(t, logs.String(), "forced script termination")
	assert.NotContains(t, logs.String(), "Script worker abandoned")

	next, err := rt.Run("print('again')")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, waitJob(t, next))
	assert.Contains(t, out.String(), "again\n")
}

func TestRuntimeAbandonsStuckWorker(t *testing.T) {
	stuck := make(chan struct{})
	api := &fakeAPI{stuck: stuck}
	rt, out, logs := newTestRuntime(t, api)

	job, err := rt.Run("detectImage('x.png')\nprint('late')")
	require.NoError(t, err)
	time.Sleep(20 * time.Millisecond)

	start := time.Now()
	require.NoError(t, rt.Stop())
	assert.Less(t, time.Since(start), time.Second)
	assert.Equal(t, StateKilled, job.State())
	assert.Contains(t, logs.String(), "Script worker abandoned")

	api.mu.Lock()
	api.stuck = nil
	api.mu.Unlock()
	next, err := rt.Run("print('fresh')")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, waitJob(t, next))

	close(stuck)
	time.Sleep(20 * time.Millisecond)
	assert.NotContains(t, out.String(), "late")
	assert.Equal(t, StateKilled, job.State())
}

func TestRuntimeFailure(t *testing.T) {
	rt, out, _ := newTestRuntime(t, &fakeAPI{})

	job, err := rt.Run("x = 1\ny = x / 0")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, waitJob(t, job))

	var se *ScriptError
	require.True(t, errors.As(job.Err(), &se))
	assert.Equal(t, 2, se.Line)
	assert.Contains(t, out.String(), "Error: line 2: division by zero")
	assert.Contains(t, out.String(), "Traceback")
}

func TestRuntimeParseError(t *testing.T) {
	rt, out, _ := newTestRuntime(t, &fakeAPI{})

	job, err := rt.Run("if true {")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, waitJob(t, job))
	assert.Contains(t, out.String(), "Error: line 1")
}

func TestRuntimePanicBecomesFailure(t *testing.T) {
	rt, out, _ := newTestRuntime(t, &fakeAPI{panicMsg: "driver exploded"})

	job, err := rt.Run("moveMouse(1, 2)")
	require.NoError(t, err)
	assert.Equal(t, StateFailed, waitJob(t, job))
	assert.Contains(t, job.Err().Error(), "internal error: driver exploded")
	assert.Contains(t, out.String(), "Error: internal error")

	next, err := rt.Run("print(1)")
	require.NoError(t, err)
	assert.Equal(t, StateCompleted, waitJob(t, next))
}

func TestRuntimeOnFinish(t *testing.T) {
	finished := make(chan *Job, 1)
	rt := NewRuntime(&fakeAPI{}, RuntimeOptions{OnFinish: func(j *Job) { finished <- j }})

	job, err := rt.Run("print(1)")
	require.NoError(t, err)
	select {
	case got := <-finished:
		assert.Same(t, job, got)
		assert.Equal(t, StateCompleted, got.State())
	case <-time.After(2 * time.Second):
		t.Fatal("OnFinish not called")
	}
}
