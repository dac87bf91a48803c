package morph

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gocv.io/x/gocv"
)

func grayMap(w, h int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), h, w, gocv.MatTypeCV8UC1)
}

func fullMask(w, h int) gocv.Mat {
	return gocv.NewMatWithSizeFromScalar(gocv.NewScalar(255, 0, 0, 0), h, w, gocv.MatTypeCV8UC1)
}

func TestApplyThresholds(t *testing.T) {
	f := NewFilter()
	defer f.Close()

	m := grayMap(60, 60)
	defer m.Close()
	mask := fullMask(60, 60)
	defer mask.Close()

	// A strong blob and a weak one that must not survive the threshold.
	gocv.Rectangle(&m, image.Rect(10, 10, 30, 30), color.RGBA{R: 200}, -1)
	gocv.Rectangle(&m, image.Rect(40, 40, 55, 55), color.RGBA{R: 30}, -1)

	f.Apply(&m, mask, 40, 3)

	assert.Equal(t, uint8(255), m.GetUCharAt(20, 20), "strong blob saturates")
	assert.Equal(t, uint8(0), m.GetUCharAt(47, 47), "weak blob drops to zero")
}

func TestApplyRemovesSpeckle(t *testing.T) {
	f := NewFilter()
	defer f.Close()

	m := grayMap(80, 80)
	defer m.Close()
	mask := fullMask(80, 80)
	defer mask.Close()

	// One isolated hot pixel far from a solid 16x16 blob.
	m.SetUCharAt(10, 70, 255)
	gocv.Rectangle(&m, image.Rect(20, 20, 36, 36), color.RGBA{R: 255}, -1)

	f.Apply(&m, mask, 40, 3)

	assert.Equal(t, uint8(0), m.GetUCharAt(10, 70), "isolated speckle removed")
	assert.Equal(t, uint8(255), m.GetUCharAt(28, 28), "solid blob survives")
}

func TestApplyHonorsMask(t *testing.T) {
	f := NewFilter()
	defer f.Close()

	m := grayMap(60, 60)
	defer m.Close()
	gocv.Rectangle(&m, image.Rect(0, 0, 60, 60), color.RGBA{R: 200}, -1)

	// Mask admits only the left half.
	mask := grayMap(60, 60)
	defer mask.Close()
	gocv.Rectangle(&mask, image.Rect(0, 0, 30, 60), color.RGBA{R: 255}, -1)

	f.Apply(&m, mask, 40, 3)

	assert.Equal(t, uint8(255), m.GetUCharAt(30, 10), "inside mask kept")
	assert.Equal(t, uint8(0), m.GetUCharAt(30, 50), "outside mask zeroed")
}

func TestDiamondElement(t *testing.T) {
	elem := diamondElement(3)
	defer elem.Close()

	require.Equal(t, 7, elem.Rows())
	require.Equal(t, 7, elem.Cols())

	assert.Equal(t, uint8(1), elem.GetUCharAt(3, 3), "center set")
	assert.Equal(t, uint8(1), elem.GetUCharAt(0, 3), "tips set")
	assert.Equal(t, uint8(1), elem.GetUCharAt(3, 0))
	assert.Equal(t, uint8(0), elem.GetUCharAt(0, 0), "corners clear")
	assert.Equal(t, uint8(0), elem.GetUCharAt(6, 6))

	n := gocv.CountNonZero(elem)
	assert.Equal(t, 25, n, "diamond of radius 3 covers 25 cells")
}
