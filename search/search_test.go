package search

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func densityMap(w, h int, blobs ...image.Rectangle) gocv.Mat {
	m := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h, w, gocv.MatTypeCV8UC1)
	for _, b := range blobs {
		gocv.Rectangle(&m, b, color.RGBA{R: 255}, -1)
	}
	return m
}

func TestRunConvergesOnBlob(t *testing.T) {
	prob := densityMap(200, 200, image.Rect(100, 100, 140, 140))
	defer prob.Close()

	// Start offset from the blob but overlapping it.
	rot, track := Run(prob, image.Rect(80, 80, 140, 140), RotatedWindow{}, DefaultConfig())

	assert.InDelta(t, 120, rot.Center.X, 5, "center x converges on blob centroid")
	assert.InDelta(t, 120, rot.Center.Y, 5, "center y converges on blob centroid")
	assert.GreaterOrEqual(t, rot.Size.Width, 20.0)
	assert.GreaterOrEqual(t, rot.Size.Height, 20.0)
	assert.Less(t, rot.Size.Width, 80.0)
	assert.Less(t, rot.Size.Height, 80.0)

	frame := image.Rect(0, 0, 200, 200)
	require.False(t, track.Empty())
	assert.True(t, track.In(frame), "track stays inside the map")
}

func TestRunEmptyMapFallsBackToPreviousCenter(t *testing.T) {
	prob := densityMap(120, 90)
	defer prob.Close()

	prev := RotatedWindow{Center: Point{X: 55, Y: 40}}
	rot, track := Run(prob, image.Rect(30, 30, 60, 60), prev, DefaultConfig())

	assert.Equal(t, prev.Center, rot.Center, "no mass anywhere reuses the previous center")
	assert.Equal(t, 20.0, rot.Size.Width, "width clamps to its floor")
	assert.Equal(t, 20.0, rot.Size.Height, "height clamps to its floor")
	assert.True(t, track.In(image.Rect(0, 0, 120, 90)))
}

func TestRunClampsSizeFloorsIndependently(t *testing.T) {
	// A sliver of mass much thinner than either floor.
	prob := densityMap(100, 100, image.Rect(48, 40, 52, 60))
	defer prob.Close()

	cfg := DefaultConfig()
	cfg.MinWidth = 24
	cfg.MinHeight = 30

	rot, _ := Run(prob, image.Rect(40, 35, 65, 65), RotatedWindow{}, cfg)

	assert.GreaterOrEqual(t, rot.Size.Width, 24.0)
	assert.GreaterOrEqual(t, rot.Size.Height, 30.0)
}

func TestRunEstimatesOrientation(t *testing.T) {
	// A wide, flat bar: major axis horizontal.
	prob := densityMap(200, 200, image.Rect(40, 90, 160, 110))
	defer prob.Close()

	rot, _ := Run(prob, image.Rect(60, 70, 140, 130), RotatedWindow{}, DefaultConfig())

	assert.InDelta(t, 100, rot.Center.X, 8)
	assert.InDelta(t, 100, rot.Center.Y, 5)
	assert.Greater(t, rot.Size.Height, rot.Size.Width, "major axis is reported as height")
	// Horizontal major axis: angle near 90 degrees in the [0,180) convention.
	assert.InDelta(t, 90, rot.Angle, 10)
}

func TestRunStartWindowOutsideMap(t *testing.T) {
	prob := densityMap(100, 100, image.Rect(40, 40, 60, 60))
	defer prob.Close()

	// Fully out-of-bounds start restarts from the map center and still locks on.
	rot, track := Run(prob, image.Rect(400, 400, 460, 460), RotatedWindow{}, DefaultConfig())

	assert.InDelta(t, 50, rot.Center.X, 10)
	assert.InDelta(t, 50, rot.Center.Y, 10)
	assert.True(t, track.In(image.Rect(0, 0, 100, 100)))
}

func TestBounding(t *testing.T) {
	t.Run("axis aligned", func(t *testing.T) {
		w := RotatedWindow{Center: Point{X: 50, Y: 40}, Size: Size{Width: 20, Height: 10}}
		assert.Equal(t, image.Rect(40, 35, 60, 45), w.Bounding())
	})

	t.Run("rotated square", func(t *testing.T) {
		w := RotatedWindow{Center: Point{X: 0, Y: 0}, Size: Size{Width: 10, Height: 10}, Angle: 45}
		b := w.Bounding()
		// Diagonal of a 10-square is ~14.14.
		assert.InDelta(t, 14, b.Dx(), 2)
		assert.InDelta(t, 14, b.Dy(), 2)
	})

	t.Run("empty", func(t *testing.T) {
		assert.True(t, RotatedWindow{}.Bounding().Empty())
		assert.True(t, RotatedWindow{}.Empty())
	})
}
