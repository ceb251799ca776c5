package game

import "fmt"

// Snake is the state of the single snake on the board. History holds every
// cell the snake has occupied, oldest first; the last entry is the head.
type Snake struct {
	X         int
	Y         int
	Direction Direction
	History   []Point
}

// SnakeView is a copy of a snake's state that is safe to hand to other goroutines.
type SnakeView struct {
	Position  Point
	Direction Direction
	History   []Point
	Score     int
}

func NewSnake() *Snake {
	return &Snake{
		X:         startX,
		Y:         startY,
		Direction: Right,
		History:   []Point{{X: startX, Y: startY}},
	}
}

// MoveTo does no bounds checking.
func (s *Snake) MoveTo(x, y int) {
	s.X = x
	s.Y = y
	s.History = append(s.History, Point{X: x, Y: y})
}

func (s *Snake) HasVisited(x, y int) bool {
	for _, p := range s.History {
		if p.X == x && p.Y == y {
			return true
		}
	}
	return false
}

func (s *Snake) NextCoordinates() (Point, error) {
	dx, dy, err := s.Direction.Delta()
	if err != nil {
		return Point{}, fmt.Errorf("next coordinates from (%d, %d): %w", s.X, s.Y, err)
	}
	return Point{X: s.X + dx, Y: s.Y + dy}, nil
}

func (s *Snake) Score() int {
	return len(s.History) - 1
}

func (s *Snake) View() SnakeView {
	history := make([]Point, len(s.History))
	copy(history, s.History)
	return SnakeView{
		Position:  Point{X: s.X, Y: s.Y},
		Direction: s.Direction,
		History:   history,
		Score:     s.Score(),
	}
}

// IsWallCollision reports whether (x, y) lies outside the board.
func IsWallCollision(x, y int) bool {
	return x < 0 || x >= BoardSize || y < 0 || y >= BoardSize
}
