package recording

import (
	"fmt"
	"time"

	"gocv.io/x/gocv"
)

// Config holds video recording configuration.
type Config struct {
	FPS    float64
	Codecs []string
}

// DefaultConfig returns the default recording configuration. The codec list
// is tried in order for compatibility across platforms.
func DefaultConfig() Config {
	return Config{
		FPS:    30.0,
		Codecs: []string{"H264", "avc1", "x264", "mp4v"},
	}
}

// Recorder writes annotated output frames to an mp4 file.
type Recorder struct {
	config  Config
	writer  *gocv.VideoWriter
	started time.Time
}

// NewRecorder returns an idle recorder.
func NewRecorder(config Config) *Recorder {
	return &Recorder{config: config}
}

// Active reports whether a recording is in progress.
func (r *Recorder) Active() bool {
	return r.writer != nil
}

// Start opens a timestamped output file sized to frame, trying each
// configured codec in turn.
func (r *Recorder) Start(frame gocv.Mat) error {
	if r.Active() {
		return fmt.Errorf("recording already active")
	}
	if len(r.config.Codecs) == 0 {
		return fmt.Errorf("no codecs configured")
	}

	filename := fmt.Sprintf("camtrack_%s.mp4", time.Now().Format("20060102_150405"))

	var vw *gocv.VideoWriter
	var err error
	var usedCodec string
	for _, fourcc := range r.config.Codecs {
		vw, err = gocv.VideoWriterFile(filename, fourcc, r.config.FPS, frame.Cols(), frame.Rows(), true)
		if err == nil {
			usedCodec = fourcc
			break
		}
	}
	if err != nil {
		return fmt.Errorf("could not create video writer with any codec: %v", err)
	}

	r.writer = vw
	r.started = time.Now()
	fmt.Printf("Recording started: %s (codec: %s)\n", filename, usedCodec)
	return nil
}

// Stop closes the output file.
func (r *Recorder) Stop() error {
	if !r.Active() {
		return fmt.Errorf("no active recording")
	}
	err := r.writer.Close()
	r.writer = nil
	if err != nil {
		return fmt.Errorf("error closing video writer: %v", err)
	}
	fmt.Println("Recording stopped")
	return nil
}

// Toggle starts or stops recording depending on the current state.
func (r *Recorder) Toggle(frame gocv.Mat) error {
	if r.Active() {
		return r.Stop()
	}
	return r.Start(frame)
}

// Write appends a frame when recording is active, and is a no-op otherwise.
func (r *Recorder) Write(frame gocv.Mat) error {
	if !r.Active() {
		return nil
	}
	return r.writer.Write(frame)
}

// Duration returns how long the current recording has been running.
func (r *Recorder) Duration() time.Duration {
	if !r.Active() {
		return 0
	}
	return time.Since(r.started)
}

// Cleanup stops any in-flight recording, discarding errors.
func (r *Recorder) Cleanup() {
	if r.Active() {
		_ = r.Stop()
	}
}
