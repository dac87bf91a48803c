// Package histogram builds an HSV color model of a selected region and
// projects it back onto later frames as a per-pixel likelihood map.
package histogram

import (
	"image"

	"github.com/pkg/errors"
	"gocv.io/x/gocv"
)

var (
	// ErrInvalidSelection is returned by Build for selections with a
	// non-positive width or height, or that do not fit inside the frame.
	ErrInvalidSelection = errors.New("invalid selection")
	// ErrNoHistogram is returned by Project before any model has been built.
	ErrNoHistogram = errors.New("histogram has not been built")
)

// Channel ranges of an 8-bit HSV frame as OpenCV encodes it.
const (
	hueMin = 0
	hueMax = 180
	satMin = 0
	satMax = 256
	valMin = 0
	valMax = 256
)

// Model is a 3-dimensional hue/saturation/value histogram of a selected
// region. Build replaces the model contents; Project is a stateless read of
// them. The channel ranges are owned by the instance and never shared.
type Model struct {
	bins     [3]int
	ranges   []float64
	channels []int
	hist     gocv.Mat
	built    bool
}

// NewModel returns an empty model with the given per-channel bin counts.
func NewModel(hueBins, satBins, valBins int) *Model {
	return &Model{
		bins:     [3]int{hueBins, satBins, valBins},
		ranges:   []float64{hueMin, hueMax, satMin, satMax, valMin, valMax},
		channels: []int{0, 1, 2},
		hist:     gocv.NewMat(),
	}
}

// SetBins changes the per-channel bin counts used by the next Build. An
// already built histogram keeps its old binning until then.
func (m *Model) SetBins(hueBins, satBins, valBins int) {
	m.bins = [3]int{hueBins, satBins, valBins}
}

// Build accumulates the histogram over sel, counting only pixels the mask
// marks as in range. hsv and mask must have identical dimensions.
func (m *Model) Build(hsv, mask gocv.Mat, sel image.Rectangle) error {
	if sel.Dx() <= 0 || sel.Dy() <= 0 {
		return errors.Wrapf(ErrInvalidSelection, "selection %v has non-positive size", sel)
	}
	frame := image.Rect(0, 0, hsv.Cols(), hsv.Rows())
	if !sel.In(frame) {
		return errors.Wrapf(ErrInvalidSelection, "selection %v exceeds frame %v", sel, frame)
	}

	region := hsv.Region(sel)
	defer region.Close()
	maskRegion := mask.Region(sel)
	defer maskRegion.Close()

	if err := gocv.CalcHist([]gocv.Mat{region}, m.channels, maskRegion, &m.hist, m.bins[:], m.ranges, false); err != nil {
		return errors.Wrap(err, "calculating histogram")
	}
	m.built = true
	return nil
}

// Project writes the likelihood map of hsv against the model into dst: each
// output pixel is the histogram count of the bin its color falls in,
// saturated to 8 bits. The map has the same width and height as hsv.
// Identical inputs always produce an identical map.
func (m *Model) Project(hsv gocv.Mat, dst *gocv.Mat) error {
	if !m.built {
		return errors.Wrap(ErrNoHistogram, "backprojection")
	}
	if err := gocv.CalcBackProject([]gocv.Mat{hsv}, m.channels, m.hist, dst, m.ranges, true); err != nil {
		return errors.Wrap(err, "calculating backprojection")
	}
	return nil
}

// Built reports whether a histogram is available for projection.
func (m *Model) Built() bool {
	return m.built
}

// Reset discards the built histogram, returning the model to its initial
// state without releasing it.
func (m *Model) Reset() {
	m.built = false
}

// Close releases the histogram buffer.
func (m *Model) Close() error {
	return m.hist.Close()
}
