package game

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownDirection is returned when movement is computed for a direction
// that is not one of Up, Down, Left or Right.
var ErrUnknownDirection = errors.New("unrecognized direction")

type Direction int

const (
	Up Direction = iota + 1
	Down
	Left
	Right
)

type Point struct {
	X, Y int
}

// Delta returns the one-step offset for d. Squares are laid out with the
// origin at the top left, so Up decreases Y.
func (d Direction) Delta() (dx, dy int, err error) {
	switch d {
	case Up:
		return 0, -1, nil
	case Down:
		return 0, 1, nil
	case Left:
		return -1, 0, nil
	case Right:
		return 1, 0, nil
	}
	return 0, 0, fmt.Errorf("%w: %d", ErrUnknownDirection, int(d))
}

func (d Direction) Opposite() Direction {
	switch d {
	case Up:
		return Down
	case Down:
		return Up
	case Left:
		return Right
	case Right:
		return Left
	}
	return d
}

func (d Direction) String() string {
	switch d {
	case Up:
		return "UP"
	case Down:
		return "DOWN"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// ParseDirection accepts the names produced by String, in any case.
func ParseDirection(name string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(name)) {
	case "UP":
		return Up, nil
	case "DOWN":
		return Down, nil
	case "LEFT":
		return Left, nil
	case "RIGHT":
		return Right, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownDirection, name)
}
