package recording_session

type Interface interface {
	// Start arms capture on a background worker. Starting an armed session
	// does nothing.
	Start() error
	// Stop joins the capture worker and writes the finished recording. Stop on
	// an idle session returns a nil recording.
	Stop() (*Recording, error)
	State() State
	// Discard removes a finished recording.
	Discard(rec *Recording) error
	// Cleanup removes every recording left in the recordings directory.
	Cleanup() error
}
