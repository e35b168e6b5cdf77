package speech_to_text

import "context"

type Interface interface {
	// Transcribe returns the lowercase text spoken in a WAV file. Failures and
	// empty results are failure.ErrTranscription.
	Transcribe(ctx context.Context, wavFilename string) (string, error)
}
