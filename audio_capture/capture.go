package audio_capture

import (
	"fmt"
	"log"
	"sync"

	"voice-actuator/failure"
	"voice-actuator/ring_buffer"
)

const initialFrameCapacity = 256

type captureImpl struct {
	format Format
	open   StreamOpener

	mu     sync.Mutex
	armed  bool
	stream Stream
	frames *ring_buffer.Buffer[Frame]
}

type Config struct {
	Format Format
	Open   StreamOpener
}

func New(cfg *Config) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Open == nil {
		return nil, fmt.Errorf("stream opener is nil")
	}

	if err := cfg.Format.Validate(); err != nil {
		return nil, err
	}

	return &captureImpl{
		format: cfg.Format,
		open:   cfg.Open,
		frames: ring_buffer.New[Frame](initialFrameCapacity),
	}, nil
}

func (c *captureImpl) Arm() error {
	c.mu.Lock()
	if c.armed {
		c.mu.Unlock()
		return nil
	}
	c.frames.Clear()
	c.mu.Unlock()

	stream, err := c.open(c.format, c.deliver)
	if err != nil {
		return failure.Wrap(failure.ErrDeviceOpen, err, "open input stream")
	}

	c.mu.Lock()
	c.armed = true
	c.stream = stream
	c.mu.Unlock()

	if err := stream.Start(); err != nil {
		c.mu.Lock()
		c.armed = false
		c.stream = nil
		c.mu.Unlock()

		if closeErr := stream.Close(); closeErr != nil {
			log.Printf("error closing input stream: %v", closeErr)
		}

		return failure.Wrap(failure.ErrDeviceOpen, err, "start input stream")
	}

	return nil
}

// Disarm must not hold the lock while stopping the stream: stopping waits for
// in-flight callbacks, which take the lock in deliver.
func (c *captureImpl) Disarm() error {
	c.mu.Lock()
	if !c.armed {
		c.mu.Unlock()
		return nil
	}
	stream := c.stream
	c.armed = false
	c.stream = nil
	c.mu.Unlock()

	stopErr := stream.Stop()
	closeErr := stream.Close()

	if stopErr != nil {
		return fmt.Errorf("stop input stream: %w", stopErr)
	}

	if closeErr != nil {
		return fmt.Errorf("close input stream: %w", closeErr)
	}

	return nil
}

func (c *captureImpl) Armed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.armed
}

func (c *captureImpl) Frames() []Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.frames.Drain()
}

func (c *captureImpl) deliver(in []int32) {
	frame := make(Frame, len(in))
	copy(frame, in)

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.armed {
		c.frames.Add(frame)
	}
}
