package recording_session

import (
	"time"

	"voice-actuator/audio_capture"
)

type State int

const (
	Idle State = iota
	Armed
	Finalizing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Armed:
		return "armed"
	case Finalizing:
		return "finalizing"
	default:
		return "unknown"
	}
}

// Recording is a finalized capture. Frames must not be modified.
type Recording struct {
	Name      string
	Path      string
	StartedAt time.Time
	Format    audio_capture.Format
	Frames    []audio_capture.Frame
}

func (r *Recording) NumSamples() int {
	n := 0
	for _, frame := range r.Frames {
		n += len(frame)
	}
	return n
}

func (r *Recording) Duration() time.Duration {
	if r.Format.SampleRate == 0 || r.Format.Channels == 0 {
		return 0
	}

	perChannel := r.NumSamples() / r.Format.Channels
	return time.Duration(perChannel) * time.Second / time.Duration(r.Format.SampleRate)
}
