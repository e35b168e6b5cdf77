package actuator

import (
	"fmt"
	"io"
	"sync"

	"voice-actuator/failure"
)

type linkImpl struct {
	name string

	mu   sync.Mutex
	port Port
	open bool
}

// NewLink wraps an already open port.
func NewLink(name string, port Port) (Interface, error) {
	if port == nil {
		return nil, fmt.Errorf("port is nil")
	}

	return &linkImpl{
		name: name,
		port: port,
		open: true,
	}, nil
}

func (l *linkImpl) Write(command []byte) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.open {
		return failure.New(failure.ErrLinkClosed, "%s is not open", l.name)
	}

	n, err := l.port.Write(command)
	if err != nil {
		return failure.Wrap(failure.ErrLinkWrite, err, l.name)
	}

	if n != len(command) {
		return failure.Wrap(failure.ErrLinkWrite, io.ErrShortWrite, fmt.Sprintf("%s: wrote %d of %d bytes", l.name, n, len(command)))
	}

	return nil
}

func (l *linkImpl) IsOpen() bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.open
}

func (l *linkImpl) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.open {
		return nil
	}

	l.open = false

	return l.port.Close()
}
