package model

// Direction is the order in which turns pass around the table
type Direction int

const (
	DirectionForward Direction = iota // clockwise
	DirectionReverse                  // counter-clockwise
)

// String returns the wire form of the direction
func (d Direction) String() string {
	if d == DirectionReverse {
		return "CCW"
	}
	return "CW"
}

// Flip returns the opposite direction
func (d Direction) Flip() Direction {
	if d == DirectionReverse {
		return DirectionForward
	}
	return DirectionReverse
}

// Game constants
const (
	// TargetNumber is the value at which the running number wraps back to zero
	TargetNumber = 13
	// MaxTrap is the largest trap number that can be drawn
	MaxTrap = 13
)
