package ui

import (
	"fmt"
	"image"
	"image/color"
	"log"

	"gocv.io/x/gocv"

	"camtrack/search"
	"camtrack/types"
	"camtrack/utils"
)

var (
	Blue   = color.RGBA{B: 255}
	Red    = color.RGBA{R: 255}
	Green  = color.RGBA{G: 255}
	Yellow = color.RGBA{R: 255, G: 255}
	White  = color.RGBA{R: 255, G: 255, B: 255}
	Black  = color.RGBA{A: 120}
)

// DrawTrack draws the axis-aligned track window on the frame.
func DrawTrack(frame *gocv.Mat, rect image.Rectangle) {
	_ = gocv.Rectangle(frame, rect, Blue, 2)
}

// DrawRotatedTrack draws the oriented track window as a 4-corner polygon.
func DrawRotatedTrack(frame *gocv.Mat, window search.RotatedWindow) {
	corners := window.Corners()
	for i := range corners {
		a := corners[i]
		b := corners[(i+1)%4]
		_ = gocv.Line(frame,
			image.Pt(int(a.X), int(a.Y)),
			image.Pt(int(b.X), int(b.Y)),
			Green, 2)
	}
}

// DrawSelection draws the selection rectangle and center crosshair.
func DrawSelection(frame *gocv.Mat, state *types.AppState) {
	if !state.SelectionMode {
		return
	}

	rect := utils.CenteredRect(state.SelCenterX, state.SelCenterY,
		state.SelWidth, state.SelHeight, frame.Cols(), frame.Rows())
	_ = gocv.Rectangle(frame, rect, Yellow, 2)

	_ = gocv.Line(frame, image.Pt(state.SelCenterX-10, state.SelCenterY), image.Pt(state.SelCenterX+10, state.SelCenterY), Yellow, 1)
	_ = gocv.Line(frame, image.Pt(state.SelCenterX, state.SelCenterY-10), image.Pt(state.SelCenterX, state.SelCenterY+10), Yellow, 1)
}

// DrawStatusMessage draws the main status message.
func DrawStatusMessage(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	var statusText string
	var textColor color.RGBA

	switch {
	case state.SelectionMode:
		statusText = "Arrow keys/WASD: move, +/-: resize, ENTER: confirm, ESC: cancel"
		textColor = Yellow
	case !state.Tracking:
		statusText = "Press 's' to select a target"
		textColor = Red
	case state.ShowBackprojection:
		statusText = "Tracking (likelihood view)"
		textColor = Green
	default:
		statusText = "Tracking"
		textColor = Green
	}

	if err := gocv.PutText(frame, statusText, image.Pt(10, 30), gocv.FontHersheyPlain, config.StatusFontSize, textColor, 2); err != nil {
		log.Printf("Error adding status text: %v", err)
	}
}

// DrawRecordingStatus draws the recording indicator and timer.
func DrawRecordingStatus(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	if !state.Recorder.Active() {
		return
	}

	duration := state.Recorder.Duration()
	recordingText := fmt.Sprintf("REC %02d:%02d", int(duration.Minutes()), int(duration.Seconds())%60)

	if err := gocv.PutText(frame, recordingText, image.Pt(10, 60), gocv.FontHersheyPlain, config.StatusFontSize, Red, 2); err != nil {
		log.Printf("Error adding recording text: %v", err)
	}
}

// DrawHelpText draws the compact help text in the bottom corner.
func DrawHelpText(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	helpY := frame.Rows() - config.HelpOffsetY

	var helpText string
	if state.SelectionMode {
		helpText = "Select: Arrows=move  +/-=resize  Enter=confirm  Esc=cancel"
	} else {
		helpText = "Keys: s=select  b=likelihood  t/T=threshold  m/M=blur  r=reset  v=record  q=quit"
	}

	// Small background for readability
	textSize := gocv.GetTextSize(helpText, gocv.FontHersheyPlain, config.HelpFontSize, 1)
	helpRect := image.Rect(5, helpY-5, textSize.X+15, helpY+textSize.Y+5)

	if err := gocv.Rectangle(frame, helpRect, Black, -1); err != nil {
		log.Printf("Error drawing help background: %v", err)
	}

	if err := gocv.PutText(frame, helpText, image.Pt(10, helpY+10), gocv.FontHersheyPlain, config.HelpFontSize, White, 1); err != nil {
		log.Printf("Error adding help text: %v", err)
	}
}

// RenderFrame draws all overlays for the current tick.
func RenderFrame(frame *gocv.Mat, state *types.AppState, config types.UIConfig) {
	if state.Tracking {
		if track, err := state.Session.Track(); err == nil {
			DrawTrack(frame, track)
		}
		if rotated, err := state.Session.RotatedTrack(); err == nil {
			DrawRotatedTrack(frame, rotated)
		}
	}

	DrawSelection(frame, state)
	DrawStatusMessage(frame, state, config)
	DrawRecordingStatus(frame, state, config)
	DrawHelpText(frame, state, config)
}
