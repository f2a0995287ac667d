package device

import (
	"context"
	"image"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseButton(t *testing.T) {
	tests := []struct {
		in      string
		want    Button
		wantErr bool
	}{
		{"left", ButtonLeft, false},
		{"RIGHT", ButtonRight, false},
		{"middle", ButtonMiddle, false},
		{"Button.left", ButtonLeft, false},
		{"Button.right", ButtonRight, false},
		{"", ButtonLeft, false},
		{"thumb", ButtonLeft, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseButton(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestButtonString(t *testing.T) {
	assert.Equal(t, "left", ButtonLeft.String())
	assert.Equal(t, "right", ButtonRight.String())
	assert.Equal(t, "middle", ButtonMiddle.String())
}

func TestMoveSmoothLandsOnTarget(t *testing.T) {
	p := NewFakePointer(0, 0)

	require.NoError(t, MoveSmooth(context.Background(), p, 100, 50, 50, 0))

	moves := p.CallsOf("move")
	require.Len(t, moves, 50)
	assert.Equal(t, 2, moves[0].X)
	assert.Equal(t, 1, moves[0].Y)
	last := moves[len(moves)-1]
	assert.Equal(t, 100, last.X)
	assert.Equal(t, 50, last.Y)
}

func TestMoveSmoothHonoursCancel(t *testing.T) {
	p := NewFakePointer(0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := MoveSmooth(ctx, p, 10, 10, 10, time.Second)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, p.Calls())
}

func TestFakeScreenRegion(t *testing.T) {
	frame := image.NewGray(image.Rect(0, 0, 40, 30))
	s := NewFakeScreen(frame)

	img, err := s.CaptureRegion(image.Rect(5, 5, 15, 10))
	require.NoError(t, err)
	assert.Equal(t, 10, img.Bounds().Dx())
	assert.Equal(t, 5, img.Bounds().Dy())

	_, err = s.CaptureRegion(image.Rect(30, 20, 50, 40))
	assert.Error(t, err)
	assert.Equal(t, 2, s.Captures())
}
