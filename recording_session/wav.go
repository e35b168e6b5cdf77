package recording_session

import (
	"io"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"voice-actuator/audio_capture"
)

const pcmFormat = 1

func writeWAV(out io.WriteSeeker, format audio_capture.Format, frames []audio_capture.Frame) error {
	data := make([]int, 0, len(frames)*format.ChunkSize)

	for _, frame := range frames {
		for i := range frame {
			data = append(data, format.Sample(frame, i))
		}
	}

	encoder := wav.NewEncoder(out, format.SampleRate, format.BitDepth, format.Channels, pcmFormat)

	err := encoder.Write(&audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: format.Channels,
			SampleRate:  format.SampleRate,
		},
		Data:           data,
		SourceBitDepth: format.BitDepth,
	})
	if err != nil {
		return err
	}

	return encoder.Close()
}
