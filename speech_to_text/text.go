package speech_to_text

import (
	"strings"

	"voice-actuator/failure"
)

func normalizeTranscript(text string) (string, error) {
	text = strings.ToLower(strings.TrimSpace(text))

	if text == "" {
		return "", failure.New(failure.ErrTranscription, "empty transcript")
	}

	return text, nil
}
