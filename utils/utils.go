package utils

import (
	"image"
)

// CenteredRect builds a width x height rectangle around (centerX, centerY)
// and shifts it back inside the imgWidth x imgHeight frame if it sticks out.
func CenteredRect(centerX, centerY, width, height, imgWidth, imgHeight int) image.Rectangle {
	if width > imgWidth {
		width = imgWidth
	}
	if height > imgHeight {
		height = imgHeight
	}

	rect := image.Rect(
		centerX-width/2,
		centerY-height/2,
		centerX-width/2+width,
		centerY-height/2+height,
	)

	if rect.Min.X < 0 {
		rect = rect.Add(image.Pt(-rect.Min.X, 0))
	}
	if rect.Min.Y < 0 {
		rect = rect.Add(image.Pt(0, -rect.Min.Y))
	}
	if rect.Max.X > imgWidth {
		rect = rect.Add(image.Pt(imgWidth-rect.Max.X, 0))
	}
	if rect.Max.Y > imgHeight {
		rect = rect.Add(image.Pt(0, imgHeight-rect.Max.Y))
	}

	return rect
}
