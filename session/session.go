// Package session orchestrates the per-frame color tracking pipeline: HSV
// conversion and value masking, histogram build on selection, backprojection,
// morphological denoising and the adaptive window search.
package session

import (
	"image"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gocv.io/x/gocv"

	"camtrack/histogram"
	"camtrack/morph"
	"camtrack/params"
	"camtrack/search"
)

var (
	// ErrNoFrame is returned by operations that need a captured frame before
	// one has been set.
	ErrNoFrame = errors.New("no captured frame has been set")
	// ErrNotAvailable is returned by accessors before the corresponding
	// artifact has been produced.
	ErrNotAvailable = errors.New("not available yet")
)

// State is the session's tracking state.
type State int

const (
	// Idle: no captured frame has been set.
	Idle State = iota
	// FrameReady: a frame is present but no histogram has been built.
	FrameReady
	// Tracking: a histogram exists and the track window is maintained.
	Tracking
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case FrameReady:
		return "frame ready"
	case Tracking:
		return "tracking"
	}
	return "unknown"
}

// Session tracks a single colored object across frames. It owns every buffer
// it derives; the captured frame itself is borrowed only for the duration of
// a call. A session must be driven from a single goroutine.
type Session struct {
	id     uuid.UUID
	state  State
	params *params.Store
	model  *histogram.Model
	filter *morph.Filter
	cfg    search.Config

	maskLow  gocv.Scalar
	maskHigh gocv.Scalar

	raw      gocv.Mat
	hsv      gocv.Mat
	mask     gocv.Mat
	backproj gocv.Mat

	track      image.Rectangle
	rotated    search.RotatedWindow
	hasRotated bool
	lastCenter search.Point
}

// New returns an idle session with the default configuration.
func New() *Session {
	store := params.NewStore()
	return &Session{
		id:     uuid.New(),
		params: store,
		model: histogram.NewModel(
			store.Get(params.HueBins),
			store.Get(params.SatBins),
			store.Get(params.ValBins)),
		filter:   morph.NewFilter(),
		cfg:      search.DefaultConfig(),
		maskLow:  gocv.NewScalar(0, 0, 0, 0),
		maskHigh: gocv.NewScalar(180, 256, 256, 0),
		hsv:      gocv.NewMat(),
		mask:     gocv.NewMat(),
		backproj: gocv.NewMat(),
	}
}

// ID returns the session's identity, stable for its lifetime.
func (s *Session) ID() uuid.UUID {
	return s.id
}

// State returns the current tracking state.
func (s *Session) State() State {
	return s.state
}

// SetFrame hands the session the frame to process next: a 3-channel 8-bit
// BGR buffer. The frame is borrowed, not copied; the caller must keep it
// alive until the next SetFrame. Histogram and track survive a frame change.
func (s *Session) SetFrame(frame gocv.Mat) {
	s.raw = frame
	if s.state == Idle && !frame.Empty() {
		s.state = FrameReady
	}
}

// convert recomputes the HSV frame and the value mask from the current raw
// frame.
func (s *Session) convert() error {
	if s.raw.Empty() {
		return errors.Wrap(ErrNoFrame, "converting frame")
	}
	gocv.CvtColor(s.raw, &s.hsv, gocv.ColorBGRToHSV)
	gocv.InRangeWithScalar(s.hsv, s.maskLow, s.maskHigh, &s.mask)
	return nil
}

// Select builds the color model from sel and starts tracking it. The track
// window is initialized to sel and the fallback center to its midpoint. Any
// previous model is replaced. Fails with histogram.ErrInvalidSelection for a
// degenerate or out-of-frame selection and with ErrNoFrame before the first
// SetFrame; the session state is unchanged on failure.
func (s *Session) Select(sel image.Rectangle) error {
	if sel.Dx() <= 0 || sel.Dy() <= 0 {
		return errors.Wrapf(histogram.ErrInvalidSelection, "selection %v has non-positive size", sel)
	}
	if s.state == Idle {
		return errors.Wrap(ErrNoFrame, "selecting")
	}
	if err := s.convert(); err != nil {
		return err
	}

	s.model.SetBins(
		s.params.Get(params.HueBins),
		s.params.Get(params.SatBins),
		s.params.Get(params.ValBins))
	if err := s.model.Build(s.hsv, s.mask, sel); err != nil {
		return err
	}

	s.track = sel
	s.rotated = search.RotatedWindow{}
	s.hasRotated = false
	s.lastCenter = search.Point{
		X: float64(sel.Min.X) + float64(sel.Dx())/2,
		Y: float64(sel.Min.Y) + float64(sel.Dy())/2,
	}
	s.state = Tracking
	return nil
}

// Step runs one tracking iteration on the current frame: backprojection of
// the stored histogram, morphological denoising, then the adaptive window
// search seeded with the previous track. Fails with histogram.ErrNoHistogram
// when no selection has been made yet.
func (s *Session) Step() error {
	if s.state != Tracking {
		return errors.Wrapf(histogram.ErrNoHistogram, "step in state %q", s.state)
	}
	if err := s.convert(); err != nil {
		return err
	}
	if err := s.model.Project(s.hsv, &s.backproj); err != nil {
		return err
	}

	s.filter.Apply(&s.backproj, s.mask,
		s.params.Get(params.Threshold),
		s.params.Get(params.MedianBlur))

	prev := search.RotatedWindow{Center: s.lastCenter}
	rot, track := search.Run(s.backproj, s.track, prev, s.cfg)

	s.rotated = rot
	s.hasRotated = true
	s.track = track
	s.lastCenter = rot.Center
	return nil
}

// Backprojection returns the filtered likelihood map of the last Step. The
// map is owned by the session and overwritten by the next Step.
func (s *Session) Backprojection() (gocv.Mat, error) {
	if s.backproj.Empty() {
		return gocv.Mat{}, errors.Wrap(ErrNotAvailable, "backprojection")
	}
	return s.backproj, nil
}

// Track returns the current axis-aligned track window: the selection before
// the first Step, then the clamped bounding box of the rotated track.
func (s *Session) Track() (image.Rectangle, error) {
	if s.track.Empty() {
		return image.Rectangle{}, errors.Wrap(ErrNotAvailable, "track")
	}
	return s.track, nil
}

// RotatedTrack returns the oriented window produced by the last Step.
func (s *Session) RotatedTrack() (search.RotatedWindow, error) {
	if !s.hasRotated || s.rotated.Empty() {
		return search.RotatedWindow{}, errors.Wrap(ErrNotAvailable, "rotated track")
	}
	return s.rotated, nil
}

// SetParameter validates and applies a tracking parameter. Bin counts take
// effect on the next Select, blur and threshold on the next Step.
func (s *Session) SetParameter(kind params.Kind, value int) error {
	return s.params.Set(kind, value)
}

// Parameter returns the current value of a tracking parameter.
func (s *Session) Parameter(kind params.Kind) int {
	return s.params.Get(kind)
}

// SetMaskBand replaces the HSV in-range band of the value mask. The default
// band admits every pixel.
func (s *Session) SetMaskBand(low, high gocv.Scalar) {
	s.maskLow = low
	s.maskHigh = high
}

// SetSearchConfig replaces the adaptive search configuration, including the
// independent width and height floors.
func (s *Session) SetSearchConfig(cfg search.Config) {
	s.cfg = cfg
}

// SearchConfig returns the current adaptive search configuration.
func (s *Session) SearchConfig() search.Config {
	return s.cfg
}

// Reset discards the histogram and both track windows, returning to
// FrameReady (or staying Idle when no frame has ever been set). The
// parameter store keeps its values.
func (s *Session) Reset() {
	s.model.Reset()
	s.backproj.Close()
	s.backproj = gocv.NewMat()
	s.track = image.Rectangle{}
	s.rotated = search.RotatedWindow{}
	s.hasRotated = false
	s.lastCenter = search.Point{}
	// The state, not the raw Mat, records whether a frame exists: before the
	// first SetFrame the raw Mat is a zero value that must not be touched.
	if s.state != Idle {
		s.state = FrameReady
	}
}

// Close releases every buffer the session owns. The captured frame is the
// caller's and is not touched.
func (s *Session) Close() {
	s.model.Close()
	s.filter.Close()
	s.hsv.Close()
	s.mask.Close()
	s.backproj.Close()
}
