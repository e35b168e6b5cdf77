package audio_capture

import "fmt"

// Format describes the raw PCM captured from the microphone.
type Format struct {
	SampleRate int `yaml:"sample_rate"`
	Channels   int `yaml:"channels"`
	BitDepth   int `yaml:"bit_depth"`
	ChunkSize  int `yaml:"chunk_size"`
}

// DefaultFormat is mono 24-bit 48 kHz in chunks of 1024 samples.
var DefaultFormat = Format{
	SampleRate: 48000,
	Channels:   1,
	BitDepth:   24,
	ChunkSize:  1024,
}

func (f Format) Validate() error {
	if f.SampleRate <= 0 {
		return fmt.Errorf("sample rate must be positive, got %d", f.SampleRate)
	}

	if f.Channels < 1 {
		return fmt.Errorf("channels must be at least 1, got %d", f.Channels)
	}

	switch f.BitDepth {
	case 16, 24, 32:
	default:
		return fmt.Errorf("bit depth must be 16, 24 or 32, got %d", f.BitDepth)
	}

	if f.ChunkSize <= 0 {
		return fmt.Errorf("chunk size must be positive, got %d", f.ChunkSize)
	}

	return nil
}

// Frame is one chunk of interleaved samples, left-justified in 32 bits as
// delivered by the input stream.
type Frame []int32

// Sample returns the i-th sample scaled down to the format's bit depth.
func (f Format) Sample(frame Frame, i int) int {
	return int(frame[i] >> (32 - f.BitDepth))
}
