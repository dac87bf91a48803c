package types

import (
	"camtrack/recording"
	"camtrack/session"
)

// AppState holds the complete application state for the demo driver. The
// tracking pipeline itself lives in the session; everything here is glue for
// selection, display and recording.
type AppState struct {
	Session *session.Session

	// Tracking state
	Tracking bool

	// Selection box (keyboard-driven)
	SelectionMode bool
	SelCenterX    int
	SelCenterY    int
	SelWidth      int
	SelHeight     int

	// Display
	ShowBackprojection bool

	// Video recording
	Recorder *recording.Recorder

	FrameCount int
}

// NewAppState wires a fresh session and recorder into an idle app state.
func NewAppState(videoConfig recording.Config) *AppState {
	return &AppState{
		Session:  session.New(),
		Recorder: recording.NewRecorder(videoConfig),
	}
}

// UIConfig holds UI drawing constants.
type UIConfig struct {
	HelpFontSize   float64
	StatusFontSize float64
	HelpOffsetY    int
}

// DefaultUIConfig returns the default UI configuration.
func DefaultUIConfig() UIConfig {
	return UIConfig{
		HelpFontSize:   0.9,
		StatusFontSize: 1.5,
		HelpOffsetY:    60,
	}
}
