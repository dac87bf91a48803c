package main

import (
	"fmt"
	"log"
	"os"

	"gocv.io/x/gocv"

	"camtrack/input"
	"camtrack/recording"
	"camtrack/types"
	"camtrack/ui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Usage: camtrack [camera ID or video file]")
		return
	}

	// open capture device
	device := os.Args[1]
	var capture *gocv.VideoCapture
	var err error
	if _, err = os.Stat(device); err == nil {
		capture, err = gocv.VideoCaptureFile(device)
	} else {
		capture, err = gocv.VideoCaptureDevice(parseCameraID(device))
	}
	if err != nil {
		fmt.Println(err)
		return
	}
	defer capture.Close()

	window := gocv.NewWindow("Color Tracker")
	defer window.Close()

	state := types.NewAppState(recording.DefaultConfig())
	defer state.Session.Close()
	defer state.Recorder.Cleanup()

	uiConfig := types.DefaultUIConfig()

	frame := gocv.NewMat()
	defer frame.Close()

	display := gocv.NewMat()
	defer display.Close()

	log.Printf("Session %s ready", state.Session.ID())

	for {
		if ok := capture.Read(&frame); !ok || frame.Empty() {
			break
		}
		state.FrameCount++

		state.Session.SetFrame(frame)

		if state.Tracking {
			// A bad frame must not kill the loop; log and carry on.
			if err := state.Session.Step(); err != nil {
				log.Printf("Tracking step failed: %v", err)
			}
		}

		renderDisplay(state, frame, &display)
		ui.RenderFrame(&display, state, uiConfig)

		if err := state.Recorder.Write(display); err != nil {
			log.Printf("Recording write failed: %v", err)
		}

		window.IMShow(display)
		if input.ProcessInput(window.WaitKey(10), state, frame) {
			break
		}
	}
}

// renderDisplay composes the frame to show: the camera frame, or the
// likelihood map expanded to 3 channels so overlays can be drawn in color.
func renderDisplay(state *types.AppState, frame gocv.Mat, display *gocv.Mat) {
	if state.ShowBackprojection {
		if backproj, err := state.Session.Backprojection(); err == nil {
			gocv.CvtColor(backproj, display, gocv.ColorGrayToBGR)
			return
		}
	}
	frame.CopyTo(display)
}

func parseCameraID(arg string) int {
	var id int
	fmt.Sscanf(arg, "%d", &id)
	return id
}
