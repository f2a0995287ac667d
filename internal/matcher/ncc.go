package matcher

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// flatVariance is the summed squared deviation below which a window or the
// template is treated as featureless. Any 8-bit patch with two distinct
// values exceeds it.
const flatVariance = 0.5

// noScore marks a featureless window. It is below every confidence, so
// flat regions never match.
var noScore = math.Inf(-1)

// integral holds summed-area tables of values and squared values with a
// zero row and column prepended
type integral struct {
	w   int
	sum []float64
	sqr []float64
}

func newIntegral(g *grayPlane) *integral {
	w := g.w + 1
	in := &integral{w: w, sum: make([]float64, w*(g.h+1)), sqr: make([]float64, w*(g.h+1))}
	for y := 1; y <= g.h; y++ {
		var rowSum, rowSqr float64
		for x := 1; x <= g.w; x++ {
			v := g.at(x-1, y-1)
			rowSum += v
			rowSqr += v * v
			in.sum[y*w+x] = in.sum[(y-1)*w+x] + rowSum
			in.sqr[y*w+x] = in.sqr[(y-1)*w+x] + rowSqr
		}
	}
	return in
}

// window returns the sum and sum of squares over [x, x+tw) x [y, y+th)
func (in *integral) window(x, y, tw, th int) (float64, float64) {
	a, b := y*in.w+x, y*in.w+x+tw
	c, d := (y+th)*in.w+x, (y+th)*in.w+x+tw
	return in.sum[d] - in.sum[b] - in.sum[c] + in.sum[a],
		in.sqr[d] - in.sqr[b] - in.sqr[c] + in.sqr[a]
}

type peak struct {
	x, y  int
	score float64
}

// correlate computes the TM_CCOEFF_NORMED surface of tmpl over img and
// returns its first global maximum in row-major order. Rows are scored in
// parallel; ctx is checked before each row.
func correlate(ctx context.Context, img, tmpl *grayPlane, workers int) (peak, error) {
	tw, th := tmpl.w, tmpl.h
	n := float64(tw * th)
	outW, outH := img.w-tw+1, img.h-th+1

	var tMean float64
	for _, v := range tmpl.pix {
		tMean += v
	}
	tMean /= n

	centered := make([]float64, len(tmpl.pix))
	var tVar float64
	for i, v := range tmpl.pix {
		centered[i] = v - tMean
		tVar += centered[i] * centered[i]
	}

	if tVar <= flatVariance {
		return peak{score: noScore}, ctx.Err()
	}

	in := newIntegral(img)
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	rows := make([]peak, outH)
	for y := 0; y < outH; y++ {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			best := peak{x: 0, y: y, score: noScore}
			for x := 0; x < outW; x++ {
				s := scoreAt(img, in, centered, tVar, n, x, y, tw, th)
				if s > best.score {
					best = peak{x: x, y: y, score: s}
				}
			}
			rows[y] = best
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return peak{}, err
	}

	best := rows[0]
	for _, r := range rows[1:] {
		if r.score > best.score {
			best = r
		}
	}
	return best, nil
}

func scoreAt(img *grayPlane, in *integral, centered []float64, tVar, n float64, x, y, tw, th int) float64 {
	sum, sqr := in.window(x, y, tw, th)
	wVar := sqr - sum*sum/n
	if wVar <= flatVariance {
		return noScore
	}

	var num float64
	for j := 0; j < th; j++ {
		row := img.pix[(y+j)*img.w+x : (y+j)*img.w+x+tw]
		tRow := centered[j*tw : (j+1)*tw]
		for i, v := range row {
			num += v * tRow[i]
		}
	}

	s := num / math.Sqrt(tVar*wVar)
	if s > 1 {
		return 1
	}
	if s < -1 {
		return -1
	}
	return s
}
