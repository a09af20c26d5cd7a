package maze

import "fmt"

// Direction is one of the four cardinal directions on the grid.
type Direction uint8

const (
	North Direction = iota
	South
	East
	West
)

// Directions lists the cardinal directions in canonical order. All
// iteration over cell edges uses this order so traversals stay
// deterministic.
var Directions = [4]Direction{North, South, East, West}

var directionNames = [4]string{"north", "south", "east", "west"}

// String returns the lowercase name used on the wire and in exports.
func (d Direction) String() string {
	if int(d) >= len(directionNames) {
		return fmt.Sprintf("direction(%d)", uint8(d))
	}
	return directionNames[d]
}

// Opposite returns the direction pointing back across the shared edge.
func (d Direction) Opposite() Direction {
	switch d {
	case North:
		return South
	case South:
		return North
	case East:
		return West
	default:
		return East
	}
}

// Delta returns the grid offset of a single step in d. North is +y,
// east is +x.
func (d Direction) Delta() (dx, dy int) {
	switch d {
	case North:
		return 0, 1
	case South:
		return 0, -1
	case East:
		return 1, 0
	default:
		return -1, 0
	}
}

// ParseDirection converts a lowercase direction name back to a Direction.
func ParseDirection(s string) (Direction, error) {
	for i, name := range directionNames {
		if name == s {
			return Direction(i), nil
		}
	}
	return North, fmt.Errorf("maze: unknown direction %q", s)
}

// Relative is a direction relative to the robot's current heading.
type Relative uint8

const (
	Left Relative = iota
	Front
	Right
	Back
)

var relativeNames = [4]string{"left", "front", "right", "back"}

// String returns the lowercase name used in configuration.
func (r Relative) String() string {
	if int(r) >= len(relativeNames) {
		return fmt.Sprintf("relative(%d)", uint8(r))
	}
	return relativeNames[r]
}

// ParseRelative converts a lowercase relative-direction name, as found
// in the PRIORITY_ORDER configuration, back to a Relative.
func ParseRelative(s string) (Relative, error) {
	for i, name := range relativeNames {
		if name == s {
			return Relative(i), nil
		}
	}
	return Left, fmt.Errorf("maze: unknown relative direction %q", s)
}

// HeadingMapper resolves a relative direction to an absolute one given
// the robot's current heading. The mapping is injected because heading
// tracking belongs to the vehicle layer; the engine never guesses the
// robot's orientation logic.
type HeadingMapper func(heading Direction, rel Relative) Direction

// clockwise orders the compass for quarter-turn arithmetic.
var clockwise = [4]Direction{North, East, South, West}

// CompassMapping is the default HeadingMapper. Front is the heading
// itself, right and left are quarter turns, back is the opposite.
func CompassMapping(heading Direction, rel Relative) Direction {
	idx := 0
	for i, d := range clockwise {
		if d == heading {
			idx = i
			break
		}
	}
	switch rel {
	case Front:
		return clockwise[idx]
	case Right:
		return clockwise[(idx+1)%4]
	case Back:
		return clockwise[(idx+2)%4]
	default:
		return clockwise[(idx+3)%4]
	}
}
