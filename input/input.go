package input

import (
	"log"

	"gocv.io/x/gocv"

	"camtrack/params"
	"camtrack/types"
	"camtrack/utils"
)

// HandleEscapeKey handles the ESC key press based on current mode.
func HandleEscapeKey(state *types.AppState) bool {
	if state.SelectionMode {
		state.SelectionMode = false
		log.Println("Selection cancelled")
		return false // Don't quit
	}

	state.Recorder.Cleanup()
	return true // Quit program
}

// adjustParameter nudges a session parameter by delta, logging rejected
// values; the session keeps its prior value on rejection.
func adjustParameter(state *types.AppState, kind params.Kind, delta int) {
	value := state.Session.Parameter(kind) + delta
	if err := state.Session.SetParameter(kind, value); err != nil {
		log.Printf("Rejected %s=%d: %v", kind, value, err)
		return
	}
	log.Printf("Set %s=%d", kind, value)
}

// HandleMainKeys handles the main application keyboard commands.
func HandleMainKeys(key int, state *types.AppState, frame gocv.Mat) bool {
	switch key {
	case 'q': // 'q' to quit
		state.Recorder.Cleanup()
		return true

	case 's': // 's' to start live target selection
		if !state.SelectionMode {
			state.SelectionMode = true
			state.SelCenterX = frame.Cols() / 2
			state.SelCenterY = frame.Rows() / 2
			if state.SelWidth == 0 || state.SelHeight == 0 {
				state.SelWidth = 100
				state.SelHeight = 100
			}
			log.Println("Selection mode. Use arrow keys or WASD to move, +/- to resize, ENTER to confirm.")
		}

	case 'b': // 'b' to toggle the likelihood map view
		state.ShowBackprojection = !state.ShowBackprojection

	case 'r': // 'r' to reset tracking
		state.Session.Reset()
		state.Tracking = false
		log.Println("Tracking reset")

	case 'v': // 'v' to toggle video recording
		if err := state.Recorder.Toggle(frame); err != nil {
			log.Printf("Recording error: %v\n", err)
		}

	case 't': // threshold down
		adjustParameter(state, params.Threshold, -5)
	case 'T': // threshold up
		adjustParameter(state, params.Threshold, 5)
	case 'm': // median kernel down
		adjustParameter(state, params.MedianBlur, -2)
	case 'M': // median kernel up
		adjustParameter(state, params.MedianBlur, 2)
	}

	return false // Don't quit
}

// HandleSelectionKeys handles keyboard input during selection mode.
func HandleSelectionKeys(key int, state *types.AppState, frame gocv.Mat) {
	if !state.SelectionMode {
		return
	}

	switch key {
	case 0, 'w': // Up
		state.SelCenterY -= 10
		if state.SelCenterY < state.SelHeight/2 {
			state.SelCenterY = state.SelHeight / 2
		}
	case 1, 'x': // Down
		state.SelCenterY += 10
		if state.SelCenterY > frame.Rows()-state.SelHeight/2 {
			state.SelCenterY = frame.Rows() - state.SelHeight/2
		}
	case 2, 'a': // Left
		state.SelCenterX -= 10
		if state.SelCenterX < state.SelWidth/2 {
			state.SelCenterX = state.SelWidth / 2
		}
	case 3, 'd': // Right
		state.SelCenterX += 10
		if state.SelCenterX > frame.Cols()-state.SelWidth/2 {
			state.SelCenterX = frame.Cols() - state.SelWidth/2
		}
	case '+', '=': // Increase size
		state.SelWidth += 20
		state.SelHeight += 20
		if state.SelWidth > frame.Cols() {
			state.SelWidth = frame.Cols()
		}
		if state.SelHeight > frame.Rows() {
			state.SelHeight = frame.Rows()
		}
	case '-', '_': // Decrease size
		state.SelWidth -= 20
		state.SelHeight -= 20
		if state.SelWidth < 20 {
			state.SelWidth = 20
		}
		if state.SelHeight < 20 {
			state.SelHeight = 20
		}
	case 13: // ENTER - confirm selection
		sel := utils.CenteredRect(state.SelCenterX, state.SelCenterY,
			state.SelWidth, state.SelHeight, frame.Cols(), frame.Rows())

		if err := state.Session.Select(sel); err != nil {
			log.Printf("Selection failed: %v", err)
			state.SelectionMode = false
			return
		}
		state.SelectionMode = false
		state.Tracking = true
		log.Printf("Tracking started, session %s, target %v", state.Session.ID(), sel)
	}
}

// ProcessInput processes all keyboard input for the application.
func ProcessInput(key int, state *types.AppState, frame gocv.Mat) bool {
	if key == 27 {
		return HandleEscapeKey(state)
	}

	if shouldQuit := HandleMainKeys(key, state, frame); shouldQuit {
		return true
	}

	HandleSelectionKeys(key, state, frame)

	return false
}
