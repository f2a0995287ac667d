package utils

import (
	"bytes"
	"errors"
	"testing"

	"github.com/jeeftor/automaton/internal/logging"
	"github.com/stretchr/testify/assert"
)

func captureExit(t *testing.T) *int {
	t.Helper()
	code := -1
	orig := exit
	exit = func(c int) { code = c }
	t.Cleanup(func() { exit = orig })
	return &code
}

func TestCheckErrorWithCode(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	code := captureExit(t)

	CheckErrorWithCode(nil, "noop", ExitCodeFileSystem)
	assert.Equal(t, -1, *code, "nil error must not exit")

	CheckErrorWithCode(errors.New("disk full"), "write log", ExitCodeFileSystem)
	assert.Equal(t, int(ExitCodeFileSystem), *code)
	assert.Contains(t, buf.String(), "write log: disk full")
}

func TestDeviceErrorExitCode(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)
	code := captureExit(t)

	DeviceError("capture", errors.New("no display"))
	assert.Equal(t, int(ExitCodeDevice), *code)
}

func TestWarnOnError(t *testing.T) {
	var buf bytes.Buffer
	logging.SetOutput(&buf)

	WarnOnError(nil, "ignored")
	assert.Empty(t, buf.String())

	WarnOnError(errors.New("late"), "thumbnail")
	assert.Contains(t, buf.String(), "thumbnail: late")
}

func TestExit(t *testing.T) {
	code := captureExit(t)
	Exit(ExitCodeInterrupted)
	assert.Equal(t, 130, *code)
}
