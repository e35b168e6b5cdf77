package audio_capture

type Interface interface {
	// Arm opens the input stream and starts buffering frames. Arming an armed
	// capture does nothing.
	Arm() error
	// Disarm stops buffering, then stops and closes the input stream. No frame
	// is appended once Disarm has started.
	Disarm() error
	Armed() bool
	// Frames drains the buffered frames in arrival order.
	Frames() []Frame
}

// Stream is an open hardware input stream.
type Stream interface {
	Start() error
	Stop() error
	Close() error
}

// StreamOpener opens an input stream that calls deliver with every chunk of
// samples the hardware produces. The slice passed to deliver may be reused by
// the caller after deliver returns.
type StreamOpener func(format Format, deliver func(in []int32)) (Stream, error)
