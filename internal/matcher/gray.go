package matcher

import "image"

// grayPlane is a row-major luminance buffer
type grayPlane struct {
	w, h int
	pix  []float64
}

func (g *grayPlane) at(x, y int) float64 {
	return g.pix[y*g.w+x]
}

// toGray converts img to luminance using the BT.601 weights
func toGray(img image.Image) *grayPlane {
	b := img.Bounds()
	g := &grayPlane{w: b.Dx(), h: b.Dy(), pix: make([]float64, b.Dx()*b.Dy())}

	if src, ok := img.(*image.Gray); ok {
		for y := 0; y < g.h; y++ {
			off := src.PixOffset(b.Min.X, b.Min.Y+y)
			for x, v := range src.Pix[off : off+g.w] {
				g.pix[y*g.w+x] = float64(v)
			}
		}
		return g
	}

	for y := 0; y < g.h; y++ {
		for x := 0; x < g.w; x++ {
			r, gg, bb, _ := img.At(b.Min.X+x, b.Min.Y+y).RGBA()
			g.pix[y*g.w+x] = (0.299*float64(r) + 0.587*float64(gg) + 0.114*float64(bb)) / 257
		}
	}
	return g
}
