package search

import (
	"image"
	"math"
)

// Point is a sub-pixel position on the likelihood map.
type Point struct {
	X float64
	Y float64
}

// Size is a sub-pixel window extent.
type Size struct {
	Width  float64
	Height float64
}

// RotatedWindow is the true output of the adaptive search: an oriented
// rectangle described by its center, size and rotation angle in degrees,
// normalized to [0, 180).
type RotatedWindow struct {
	Center Point
	Size   Size
	Angle  float64
}

// Empty reports whether the window has no area.
func (w RotatedWindow) Empty() bool {
	return w.Size.Width <= 0 || w.Size.Height <= 0
}

// Corners returns the window's corner points in drawing order.
func (w RotatedWindow) Corners() [4]Point {
	rad := w.Angle * math.Pi / 180
	cos, sin := math.Cos(rad), math.Sin(rad)
	hw, hh := w.Size.Width/2, w.Size.Height/2

	dx := [4]float64{-hw, hw, hw, -hw}
	dy := [4]float64{-hh, -hh, hh, hh}

	var corners [4]Point
	for i := range corners {
		corners[i] = Point{
			X: w.Center.X + dx[i]*cos - dy[i]*sin,
			Y: w.Center.Y + dx[i]*sin + dy[i]*cos,
		}
	}
	return corners
}

// Bounding returns the axis-aligned rectangle containing the window.
func (w RotatedWindow) Bounding() image.Rectangle {
	if w.Empty() {
		return image.Rectangle{}
	}
	corners := w.Corners()
	minX, minY := corners[0].X, corners[0].Y
	maxX, maxY := minX, minY
	for _, c := range corners[1:] {
		minX = math.Min(minX, c.X)
		minY = math.Min(minY, c.Y)
		maxX = math.Max(maxX, c.X)
		maxY = math.Max(maxY, c.Y)
	}
	return image.Rect(
		int(math.Floor(minX)), int(math.Floor(minY)),
		int(math.Ceil(maxX)), int(math.Ceil(maxY)))
}
