package params

import (
	"math"

	"github.com/pkg/errors"
)

// ErrInvalidValue is returned by Set when a value falls outside the
// documented range for its kind. The stored value is left unchanged.
var ErrInvalidValue = errors.New("invalid parameter value")

// Kind identifies a tunable tracking parameter.
type Kind int

const (
	// HueBins is the number of hue bins in the color histogram.
	HueBins Kind = iota
	// SatBins is the number of saturation bins in the color histogram.
	SatBins
	// ValBins is the number of value (brightness) bins in the color histogram.
	ValBins
	// MedianBlur is the kernel size of the median smoothing stage.
	MedianBlur
	// Threshold is the binary detection threshold applied to the likelihood map.
	Threshold
)

func (k Kind) String() string {
	switch k {
	case HueBins:
		return "hue bins"
	case SatBins:
		return "saturation bins"
	case ValBins:
		return "value bins"
	case MedianBlur:
		return "median blur"
	case Threshold:
		return "threshold"
	}
	return "unknown"
}

// constraint describes the accepted range for one parameter kind. check, when
// set, is consulted in addition to the min/max bounds.
type constraint struct {
	min    int
	max    int
	check  func(int) bool
	reason string
}

var constraints = map[Kind]constraint{
	HueBins:   {min: 0, max: math.MaxInt, reason: "must be at least 0"},
	SatBins:   {min: 0, max: math.MaxInt, reason: "must be at least 0"},
	ValBins:   {min: 0, max: math.MaxInt, reason: "must be at least 0"},
	Threshold: {min: 0, max: 255, reason: "must be between 0 and 255"},
	MedianBlur: {
		min:    3,
		max:    math.MaxInt,
		check:  func(v int) bool { return v%2 == 1 },
		reason: "must be odd and greater than 1",
	},
}

// Store holds the current value of every tracking parameter. Values change
// only through Set, which validates against the constraint table; readers see
// either the prior value or the newly accepted one, never anything in
// between. Store is not safe for concurrent use.
type Store struct {
	values map[Kind]int
}

// NewStore returns a store populated with the default configuration:
// 20 hue bins, 10 saturation bins, 1 value bin, a 3-wide median kernel and a
// detection threshold of 40.
func NewStore() *Store {
	return &Store{
		values: map[Kind]int{
			HueBins:    20,
			SatBins:    10,
			ValBins:    1,
			MedianBlur: 3,
			Threshold:  40,
		},
	}
}

// Set validates value against the constraint for kind and stores it. On
// failure the prior value is retained and the returned error matches
// ErrInvalidValue.
func (s *Store) Set(kind Kind, value int) error {
	c, ok := constraints[kind]
	if !ok {
		return errors.Wrapf(ErrInvalidValue, "unknown parameter kind %d", int(kind))
	}
	if value < c.min || value > c.max || (c.check != nil && !c.check(value)) {
		return errors.Wrapf(ErrInvalidValue, "%s: %s, got %d", kind, c.reason, value)
	}
	s.values[kind] = value
	return nil
}

// Get returns the current value for kind, or 0 for an unrecognized kind.
func (s *Store) Get(kind Kind) int {
	return s.values[kind]
}
