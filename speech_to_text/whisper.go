package speech_to_text

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/ggerganov/whisper.cpp/bindings/go/pkg/whisper"
	"github.com/go-audio/wav"
	"github.com/spf13/afero"

	"voice-actuator/failure"
)

const whisperSampleRate = 16000

type whisperImpl struct {
	model    whisper.Model
	fileSys  afero.Fs
	language string
}

type WhisperConfig struct {
	Model    whisper.Model
	FileSys  afero.Fs
	Language string
}

func NewWhisper(cfg *WhisperConfig) (Interface, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	if cfg.Model == nil {
		return nil, fmt.Errorf("model is nil")
	}

	if cfg.FileSys == nil {
		return nil, fmt.Errorf("fileSys is nil")
	}

	return &whisperImpl{
		model:    cfg.Model,
		fileSys:  cfg.FileSys,
		language: cfg.Language,
	}, nil
}

// Transcribe runs the local model. The context is not consulted once
// processing has started.
func (w *whisperImpl) Transcribe(ctx context.Context, wavFilename string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", failure.Wrap(failure.ErrTranscription, err, "whisper")
	}

	samples, err := w.loadSamples(wavFilename)
	if err != nil {
		return "", failure.Wrap(failure.ErrTranscription, err, "load recording")
	}

	wctx, err := w.model.NewContext()
	if err != nil {
		return "", failure.Wrap(failure.ErrTranscription, err, "whisper context")
	}

	if w.language != "" {
		if err := wctx.SetLanguage(w.language); err != nil {
			return "", failure.Wrap(failure.ErrTranscription, err, "whisper language")
		}
	}

	var cb whisper.SegmentCallback

	if err := wctx.Process(samples, cb); err != nil {
		return "", failure.Wrap(failure.ErrTranscription, err, "whisper process")
	}

	segments, err := readSegments(wctx)
	if err != nil {
		return "", failure.Wrap(failure.ErrTranscription, err, "whisper segments")
	}

	return normalizeTranscript(joinSegments(segments))
}

// loadSamples decodes the recording into mono float32 samples at the rate
// whisper expects.
func (w *whisperImpl) loadSamples(wavFilename string) ([]float32, error) {
	file, err := w.fileSys.Open(wavFilename)
	if err != nil {
		return nil, err
	}

	defer file.Close()

	decoder := wav.NewDecoder(file)
	if !decoder.IsValidFile() {
		return nil, fmt.Errorf("%s is not a valid wav file", wavFilename)
	}

	buf, err := decoder.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	channels := buf.Format.NumChannels
	if channels < 1 {
		channels = 1
	}

	mono := downmix(buf.AsFloat32Buffer().Data, channels)

	return resample(mono, buf.Format.SampleRate, whisperSampleRate), nil
}

func readSegments(wctx whisper.Context) ([]whisper.Segment, error) {
	segments := make([]whisper.Segment, 0)

	for {
		segment, err := wctx.NextSegment()
		if err == io.EOF {
			return segments, nil
		} else if err != nil {
			return nil, err
		}

		segments = append(segments, segment)
	}
}

// joinSegments drops annotations such as "[music]" or "(laughs)" and repeated
// segments, which whisper tends to hallucinate on silence.
func joinSegments(segments []whisper.Segment) string {
	seenText := make(map[string]bool)
	parts := make([]string, 0, len(segments))

	for _, segment := range segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}

		if text[0] == '(' || text[0] == '[' || text[len(text)-1] == ')' || text[len(text)-1] == ']' {
			continue
		}

		if seenText[text] {
			continue
		}

		seenText[text] = true
		parts = append(parts, text)
	}

	return strings.Join(parts, " ")
}
