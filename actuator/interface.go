package actuator

type Interface interface {
	// Write sends one command. Writing to a closed link fails with
	// failure.ErrLinkClosed and nothing is sent.
	Write(command []byte) error
	IsOpen() bool
	Close() error
}

// Port is the byte sink behind a link.
type Port interface {
	Write(p []byte) (int, error)
	Close() error
}
