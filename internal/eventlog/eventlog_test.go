package eventlog

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/automaton/internal/device"
)

func sampleLog() Log {
	return Log{
		Move(0, 10, 20),
		Click(0.25, 10, 20, device.ButtonLeft, true),
		Click(0.31, 10, 20, device.ButtonLeft, false),
		Scroll(0.5, 10, 20, 0, -3),
		Click(0.75, 40, 50, device.ButtonRight, true),
		Click(0.8, 40, 50, device.ButtonMiddle, false),
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "events.json")
	want := sampleLog()

	require.NoError(t, Save(path, want))
	got, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestWireFormatFields(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleLog()[:4]))

	var raw []map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &raw))
	require.Len(t, raw, 4)

	assert.Equal(t, map[string]any{"type": "move", "time": 0.0, "x": 10.0, "y": 20.0}, raw[0])
	assert.Equal(t, "left", raw[1]["button"])
	assert.Equal(t, true, raw[1]["pressed"])
	assert.NotContains(t, raw[1], "dx")
	assert.Equal(t, -3.0, raw[3]["dy"])
	assert.Equal(t, 0.0, raw[3]["dx"])
	assert.NotContains(t, raw[3], "button")
}

func TestDecodeLegacyButtonSpelling(t *testing.T) {
	in := `[{"type":"click","time":0.1,"x":1,"y":2,"button":"Button.right","pressed":false}]`

	l, err := Decode(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, l, 1)
	assert.Equal(t, device.ButtonRight, l[0].Button)
	assert.False(t, l[0].Pressed)
}

func TestDecodeRejectsBadLogs(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"unknown type", `[{"type":"key","time":0,"x":0,"y":0}]`},
		{"decreasing time", `[{"type":"move","time":1,"x":0,"y":0},{"type":"move","time":0.5,"x":1,"y":1}]`},
		{"negative time", `[{"type":"move","time":-1,"x":0,"y":0}]`},
		{"click without pressed", `[{"type":"click","time":0,"x":0,"y":0,"button":"left"}]`},
		{"bad button", `[{"type":"click","time":0,"x":0,"y":0,"button":"Button.x1","pressed":true}]`},
		{"not json", `{`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(tt.in))
			assert.Error(t, err)
		})
	}
}

func TestEmptyLogEncodesAsArray(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.json")
	require.NoError(t, Save(path, nil))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
	assert.Equal(t, 0.0, Log(nil).Duration())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.json"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}
