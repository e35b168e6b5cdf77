package audio_capture

import (
	"log"

	"github.com/gordonklaus/portaudio"
)

// Host owns the PortAudio library for the lifetime of the process.
type Host struct {
	running bool
}

func InitHost() (*Host, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, err
	}

	return &Host{running: true}, nil
}

func (h *Host) Terminate() {
	if h.running {
		err := portaudio.Terminate()
		if err != nil {
			log.Printf("Error while freeing audio: %v", err)
		}

		h.running = false
	}
}

// OpenPortAudio opens the default input device with a callback stream.
func OpenPortAudio(format Format, deliver func(in []int32)) (Stream, error) {
	stream, err := portaudio.OpenDefaultStream(format.Channels, 0, float64(format.SampleRate), format.ChunkSize, func(in []int32) {
		deliver(in)
	})
	if err != nil {
		return nil, err
	}

	return stream, nil
}
