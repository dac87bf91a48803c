// Package morph denoises a likelihood map into compact, binary-like blobs.
package morph

import (
	"image"

	"gocv.io/x/gocv"
)

// Filter turns a noisy likelihood map into a near-binary mask of compact
// blobs. The stages run in place, in order: intersect with the value mask,
// binary threshold, median smoothing, erosion with a small cross element,
// dilation with a larger diamond element. The differently sized elements
// bias the opening toward growth, reconnecting the surviving target blob.
type Filter struct {
	erodeElem  gocv.Mat
	dilateElem gocv.Mat
}

// NewFilter returns a filter with a 3x3 cross erosion element and a 7x7
// diamond dilation element.
func NewFilter() *Filter {
	return &Filter{
		erodeElem:  gocv.GetStructuringElement(gocv.MorphCross, image.Pt(3, 3)),
		dilateElem: diamondElement(3),
	}
}

// diamondElement builds a (2*radius+1) square element whose set cells lie
// within manhattan distance radius of the center. OpenCV has no built-in
// diamond shape.
func diamondElement(radius int) gocv.Mat {
	size := 2*radius + 1
	elem := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(0, 0, 0, 0), size, size, gocv.MatTypeCV8UC1)
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := x-radius, y-radius
			if dx < 0 {
				dx = -dx
			}
			if dy < 0 {
				dy = -dy
			}
			if dx+dy <= radius {
				elem.SetUCharAt(y, x, 1)
			}
		}
	}
	return elem
}

// Apply denoises likelihood in place. Pixels outside mask are zeroed, values
// above threshold saturate to 255 and all others drop to 0, then speckle is
// removed with a kernel-wide median blur before the erode/dilate pass.
// kernel must be odd and greater than 1.
func (f *Filter) Apply(likelihood *gocv.Mat, mask gocv.Mat, threshold, kernel int) {
	gocv.BitwiseAnd(*likelihood, mask, likelihood)
	gocv.Threshold(*likelihood, likelihood, float32(threshold), 255, gocv.ThresholdBinary)
	gocv.MedianBlur(*likelihood, likelihood, kernel)
	gocv.Erode(*likelihood, likelihood, f.erodeElem)
	gocv.Dilate(*likelihood, likelihood, f.dilateElem)
}

// Close releases the structuring elements.
func (f *Filter) Close() {
	f.erodeElem.Close()
	f.dilateElem.Close()
}
