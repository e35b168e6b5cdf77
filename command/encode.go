package command

import (
	"fmt"

	"voice-actuator/failure"
)

// WireSize is the length of every command written to the actuator.
const WireSize = 4

// MaxAngle is the largest angle that fits the three angle digits.
const MaxAngle = 999

// Wire is the ASCII command understood by the microcontroller: one direction
// digit followed by the zero-padded angle.
type Wire [WireSize]byte

func (w Wire) String() string {
	return string(w[:])
}

// Bytes returns the wire command as a slice ready for writing.
func (w Wire) Bytes() []byte {
	return w[:]
}

var directionDigits = map[Direction]byte{
	Right: '1',
	Left:  '2',
}

// Encode maps a command to its wire form. Angles above MaxAngle fail with
// failure.ErrEncoding rather than being truncated.
func Encode(cmd Command) (Wire, error) {
	var wire Wire

	digit, ok := directionDigits[cmd.Direction]
	if !ok {
		return wire, failure.New(failure.ErrEncoding, "unknown direction %d", cmd.Direction)
	}

	if cmd.Angle > MaxAngle {
		return wire, failure.New(failure.ErrEncoding, "angle %d does not fit in 3 digits", cmd.Angle)
	}

	wire[0] = digit
	copy(wire[1:], fmt.Sprintf("%03d", cmd.Angle))

	return wire, nil
}
