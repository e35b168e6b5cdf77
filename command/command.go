// Package command turns a transcript into a rotation command and encodes it
// for the actuator.
package command

// Direction is the rotation sense of the actuator.
type Direction int

const (
	Left Direction = iota + 1
	Right
)

func (d Direction) String() string {
	switch d {
	case Left:
		return "left"
	case Right:
		return "right"
	default:
		return "unknown"
	}
}

// Command is a recognized rotation request.
type Command struct {
	Direction Direction
	Angle     uint32
}
