package command

import (
	"regexp"
	"strconv"
	"strings"

	"voice-actuator/failure"
)

type keywordSet struct {
	direction Direction
	phrases   []string
}

// directionKeywords is scanned in order; the first set with a matching phrase
// decides the direction.
var directionKeywords = []keywordSet{
	{direction: Left, phrases: []string{"왼쪽으로", "좌회전"}},
	{direction: Right, phrases: []string{"오른쪽으로", "우회전"}},
}

// anglePattern matches a run of digits immediately followed by a degree marker.
var anglePattern = regexp.MustCompile(`(\d+)(?:도|度)`)

// Extract parses a transcript into a Command. Transcripts without a direction
// keyword, or with a direction but no angle, fail with
// failure.ErrUnrecognizedSpeech. A numeral too large for uint32 fails with
// failure.ErrEncoding.
func Extract(transcript string) (Command, error) {
	text := strings.ToLower(transcript)

	direction, ok := matchDirection(text)
	if !ok {
		return Command{}, failure.New(failure.ErrUnrecognizedSpeech, "no direction keyword in %q", transcript)
	}

	match := anglePattern.FindStringSubmatch(text)
	if match == nil {
		return Command{}, failure.New(failure.ErrUnrecognizedSpeech, "no angle in %q", transcript)
	}

	angle, err := strconv.ParseUint(match[1], 10, 32)
	if err != nil {
		return Command{}, failure.Wrap(failure.ErrEncoding, err, "angle "+match[1])
	}

	return Command{Direction: direction, Angle: uint32(angle)}, nil
}

func matchDirection(text string) (Direction, bool) {
	for _, set := range directionKeywords {
		for _, phrase := range set.phrases {
			if strings.Contains(text, phrase) {
				return set.direction, true
			}
		}
	}

	return 0, false
}
