// Package search converges a rectangular window onto the region of maximum
// density in a likelihood map and estimates the tracked region's size and
// orientation from its local second moments.
package search

import (
	"image"
	"math"

	"gocv.io/x/gocv"
	"gonum.org/v1/gonum/mat"
)

// minMass is the smallest total mass considered a usable density region.
const minMass = 1e-9

// Config holds the convergence criteria and stability floors of the adaptive
// search. MinWidth and MinHeight are independent size floors applied to the
// resulting window after the search.
type Config struct {
	MinWidth      float64
	MinHeight     float64
	MaxIterations int
	Epsilon       float64
	// Tolerance is the slack, in pixels per side, added around the converged
	// window before the shape is re-measured.
	Tolerance int
}

// DefaultConfig returns the default search configuration.
func DefaultConfig() Config {
	return Config{
		MinWidth:      20,
		MinHeight:     20,
		MaxIterations: 10,
		Epsilon:       1,
		Tolerance:     10,
	}
}

// Run repositions start toward the centroid of mass in prob until the shift
// falls below cfg.Epsilon or cfg.MaxIterations is reached, then estimates the
// oriented window from second-moment statistics around the converged
// position. Degenerate inputs never fail: a window smaller than the
// configured floors is clamped to them, and a center that lands on or outside
// the map edge is replaced with prev's center rather than clamped, so the
// output does not jitter at boundaries. The returned rectangle is the rotated
// window's bounding box intersected with the map bounds.
func Run(prob gocv.Mat, start image.Rectangle, prev RotatedWindow, cfg Config) (RotatedWindow, image.Rectangle) {
	frame := image.Rect(0, 0, prob.Cols(), prob.Rows())

	win := shift(prob, start, cfg)
	rot, ok := measure(prob, grow(win, cfg.Tolerance).Intersect(frame))
	if !ok {
		rot = RotatedWindow{}
	}

	if rot.Size.Width < cfg.MinWidth {
		rot.Size.Width = cfg.MinWidth
	}
	if rot.Size.Height < cfg.MinHeight {
		rot.Size.Height = cfg.MinHeight
	}
	if rot.Center.X <= 0 || rot.Center.X > float64(frame.Dx()) {
		rot.Center.X = prev.Center.X
	}
	if rot.Center.Y <= 0 || rot.Center.Y > float64(frame.Dy()) {
		rot.Center.Y = prev.Center.Y
	}

	return rot, rot.Bounding().Intersect(frame)
}

// shift runs the plain mean-shift iteration: move the window so its center
// coincides with the centroid of the mass it covers, stopping once the move
// is shorter than epsilon or the mass under the window vanishes.
func shift(prob gocv.Mat, win image.Rectangle, cfg Config) image.Rectangle {
	frame := image.Rect(0, 0, prob.Cols(), prob.Rows())
	if frame.Empty() {
		return win
	}
	eps := math.Max(cfg.Epsilon, 0)
	eps = math.Round(eps * eps)

	cur := win.Intersect(frame)
	for i := 0; i < cfg.MaxIterations; i++ {
		if cur.Empty() {
			// The window drifted fully off the map; restart it with its
			// top-left corner at the map midpoint, clamped to fit.
			w := clamp(win.Dx(), 1, frame.Dx())
			h := clamp(win.Dy(), 1, frame.Dy())
			x := clamp(frame.Dx()/2, 0, frame.Dx()-w)
			y := clamp(frame.Dy()/2, 0, frame.Dy()-h)
			cur = image.Rect(x, y, x+w, y+h)
		}

		region := prob.Region(cur)
		m := gocv.Moments(region, false)
		region.Close()
		if m["m00"] < minMass {
			break
		}

		w, h := cur.Dx(), cur.Dy()
		dx := int(math.Round(m["m10"]/m["m00"] - float64(w)/2))
		dy := int(math.Round(m["m01"]/m["m00"] - float64(h)/2))
		nx := clamp(cur.Min.X+dx, 0, frame.Dx()-w)
		ny := clamp(cur.Min.Y+dy, 0, frame.Dy()-h)
		dx, dy = nx-cur.Min.X, ny-cur.Min.Y
		cur = image.Rect(nx, ny, nx+w, ny+h)

		if float64(dx*dx+dy*dy) < eps {
			break
		}
	}
	return cur
}

// measure estimates an oriented window from the first and second image
// moments of prob restricted to win. The second-moment matrix is
// diagonalised; its principal axes give the window's orientation and, scaled
// to four standard deviations, its extent.
func measure(prob gocv.Mat, win image.Rectangle) (RotatedWindow, bool) {
	if win.Empty() {
		return RotatedWindow{}, false
	}

	region := prob.Region(win)
	m := gocv.Moments(region, false)
	region.Close()

	m00 := m["m00"]
	if m00 < minMass {
		return RotatedWindow{}, false
	}

	cx := m["m10"]/m00 + float64(win.Min.X)
	cy := m["m01"]/m00 + float64(win.Min.Y)

	cov := mat.NewSymDense(2, []float64{
		m["mu20"] / m00, m["mu11"] / m00,
		m["mu11"] / m00, m["mu02"] / m00,
	})
	var eig mat.EigenSym
	if !eig.Factorize(cov, true) {
		return RotatedWindow{}, false
	}
	vals := eig.Values(nil)
	var vecs mat.Dense
	eig.VectorsTo(&vecs)

	// Eigenvalues come back ascending, so the major axis is column 1.
	length := 4 * math.Sqrt(math.Max(vals[1], 0))
	width := 4 * math.Sqrt(math.Max(vals[0], 0))
	theta := math.Atan2(vecs.At(1, 1), vecs.At(0, 1))

	angle := 90 + theta*180/math.Pi
	for angle < 0 {
		angle += 180
	}
	for angle >= 180 {
		angle -= 180
	}

	return RotatedWindow{
		Center: Point{X: cx, Y: cy},
		Size:   Size{Width: width, Height: length},
		Angle:  angle,
	}, true
}

func grow(r image.Rectangle, slack int) image.Rectangle {
	return image.Rect(r.Min.X-slack, r.Min.Y-slack, r.Max.X+slack, r.Max.Y+slack)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
