package capture

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jeeftor/automaton/internal/device"
)

func testFrame() *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, 200, 100))
	for y := 0; y < 100; y++ {
		for x := 0; x < 200; x++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 50, A: 255})
		}
	}
	return img
}

func TestCaptureRegionCollisionSuffixes(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "captures")
	store, err := NewStore(dir, device.NewFakeScreen(testFrame()))
	require.NoError(t, err)
	assert.DirExists(t, dir)

	var paths []string
	for i := 0; i < 3; i++ {
		p, err := store.CaptureRegion(10, 20, 30, 40, "")
		require.NoError(t, err)
		paths = append(paths, p)
	}

	assert.Equal(t, []string{
		filepath.Join(dir, "captured_region.png"),
		filepath.Join(dir, "captured_region_1.png"),
		filepath.Join(dir, "captured_region_2.png"),
	}, paths)

	f, err := os.Open(paths[0])
	require.NoError(t, err)
	defer f.Close()
	img, err := png.Decode(f)
	require.NoError(t, err)
	assert.Equal(t, 30, img.Bounds().Dx())
	assert.Equal(t, 40, img.Bounds().Dy())
}

func TestCaptureNamedAndListed(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir, device.NewFakeScreen(testFrame()))
	require.NoError(t, err)

	p, err := store.Capture("ok_button.png")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "ok_button.png"), p)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), nil, 0644))

	list, err := store.List()
	require.NoError(t, err)
	assert.Equal(t, []string{p}, list)
}

func TestCaptureRegionRejectsEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir(), device.NewFakeScreen(testFrame()))
	require.NoError(t, err)

	_, err = store.CaptureRegion(0, 0, 0, 10, "x")
	assert.Error(t, err)
}

func TestThumbnailFitsBox(t *testing.T) {
	store, err := NewStore(t.TempDir(), device.NewFakeScreen(testFrame()))
	require.NoError(t, err)
	p, err := store.Capture("wide")
	require.NoError(t, err)

	thumb, err := Thumbnail(p, 100)
	require.NoError(t, err)
	assert.Equal(t, 100, thumb.Bounds().Dx())
	assert.Equal(t, 50, thumb.Bounds().Dy())
}

func TestParseRegion(t *testing.T) {
	tests := []struct {
		in      string
		want    [4]int
		wantErr string
	}{
		{in: "10,20,30,40", want: [4]int{10, 20, 30, 40}},
		{in: " 0, 5 ,1,1", want: [4]int{0, 5, 1, 1}},
		{in: "1,2,3", wantErr: "must be x,y,w,h"},
		{in: "a,2,3,4", wantErr: "not a number"},
		{in: "1,2,0,4", wantErr: "positive width and height"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			x, y, w, h, err := ParseRegion(tt.in)
			if tt.wantErr != "" {
				assert.ErrorContains(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, [4]int{x, y, w, h})
		})
	}
}
