package ui

import (
	"strings"
	"sync"

	"github.com/Mshel/ninesnake/internal/game"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// BoardChangedMsg tells the view that the board was redrawn by the game loop.
type BoardChangedMsg struct{}

const (
	linkUp = iota
	linkDown
	linkLeft
	linkRight
)

type cell struct {
	visited bool
	links   [4]bool
}

var (
	voidColor = "233"
	voidStyle = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color("237"))
	tailStyle = lipgloss.NewStyle().Background(lipgloss.Color(voidColor)).Foreground(lipgloss.Color("42"))
	headStyle = tailStyle.Bold(true).Foreground(lipgloss.Color("48"))
	deadStyle = tailStyle.Bold(true).Foreground(lipgloss.Color("9"))

	headRunes = map[game.Direction]string{
		game.Up:    "▲",
		game.Down:  "▼",
		game.Left:  "◀",
		game.Right: "▶",
	}
)

// Board is the terminal implementation of game.Renderer. The game loop writes
// to it from its own goroutine and the Bubble Tea model reads it in View.
type Board struct {
	mu         sync.RWMutex
	cells      [game.BoardSize][game.BoardSize]cell
	head       game.Point
	headDir    game.Direction
	score      int
	highScores []int
	gameOver   bool
	finalScore int

	updates chan tea.Msg
}

func NewBoard() *Board {
	return &Board{updates: make(chan tea.Msg, 16)}
}

// Updates delivers a BoardChangedMsg after every render call. Messages are
// dropped while the buffer is full.
func (b *Board) Updates() <-chan tea.Msg {
	return b.updates
}

func (b *Board) notify() {
	select {
	case b.updates <- BoardChangedMsg{}:
	default:
	}
}

func inBounds(x, y int) bool {
	return !game.IsWallCollision(x, y)
}

func (b *Board) ResetBoard() {
	b.mu.Lock()
	b.cells = [game.BoardSize][game.BoardSize]cell{}
	b.headDir = 0
	b.gameOver = false
	b.finalScore = 0
	b.mu.Unlock()
	b.notify()
}

func (b *Board) RenderScore(score int) {
	b.mu.Lock()
	b.score = score
	b.mu.Unlock()
	b.notify()
}

func (b *Board) RenderSnakeHead(x, y int) {
	b.mu.Lock()
	if inBounds(x, y) {
		b.cells[y][x].visited = true
		b.head = game.Point{X: x, Y: y}
	}
	b.mu.Unlock()
	b.notify()
}

// RenderSnakeStep joins the two cells so the trail is drawn as one line.
func (b *Board) RenderSnakeStep(fromX, fromY, toX, toY int) {
	b.mu.Lock()
	if inBounds(fromX, fromY) && inBounds(toX, toY) {
		dir := stepDirection(fromX, fromY, toX, toY)
		from, to := &b.cells[fromY][fromX], &b.cells[toY][toX]
		switch dir {
		case game.Up:
			from.links[linkUp], to.links[linkDown] = true, true
		case game.Down:
			from.links[linkDown], to.links[linkUp] = true, true
		case game.Left:
			from.links[linkLeft], to.links[linkRight] = true, true
		case game.Right:
			from.links[linkRight], to.links[linkLeft] = true, true
		}
		to.visited = true
		b.head = game.Point{X: toX, Y: toY}
		b.headDir = dir
	}
	b.mu.Unlock()
	b.notify()
}

func (b *Board) RenderHighScores(highScores []int) {
	b.mu.Lock()
	b.highScores = append([]int(nil), highScores...)
	b.mu.Unlock()
	b.notify()
}

func (b *Board) RenderGameOver(finalScore int) {
	b.mu.Lock()
	b.gameOver = true
	b.finalScore = finalScore
	b.mu.Unlock()
	b.notify()
}

// stepDirection returns the direction that points from one cell to the next.
func stepDirection(fromX, fromY, toX, toY int) game.Direction {
	switch {
	case toX > fromX:
		return game.Right
	case toX < fromX:
		return game.Left
	case toY > fromY:
		return game.Down
	case toY < fromY:
		return game.Up
	}
	return 0
}

func (b *Board) Score() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.score
}

func (b *Board) HighScores() []int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]int(nil), b.highScores...)
}

// GameOver reports whether the last game ended and with which score.
func (b *Board) GameOver() (bool, int) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.gameOver, b.finalScore
}

// Render draws the grid two terminal columns per cell so it looks square.
func (b *Board) Render() string {
	b.mu.RLock()
	defer b.mu.RUnlock()

	var sb strings.Builder
	for y := 0; y < game.BoardSize; y++ {
		for x := 0; x < game.BoardSize; x++ {
			c := b.cells[y][x]
			filler := " "
			if c.links[linkRight] {
				filler = "─"
			}

			switch {
			case c.visited && b.head == (game.Point{X: x, Y: y}):
				style := headStyle
				if b.gameOver {
					style = deadStyle
				}
				headRune, ok := headRunes[b.headDir]
				if !ok {
					headRune = "●"
				}
				sb.WriteString(style.Render(headRune + filler))
			case c.visited:
				sb.WriteString(tailStyle.Render(trailRune(c) + filler))
			default:
				sb.WriteString(voidStyle.Render("·" + filler))
			}
		}
		if y < game.BoardSize-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

func trailRune(c cell) string {
	hasUp, hasDown := c.links[linkUp], c.links[linkDown]
	hasLeft, hasRight := c.links[linkLeft], c.links[linkRight]

	switch {
	case (hasUp && hasDown) || (hasUp && !hasLeft && !hasRight && !hasDown) || (hasDown && !hasLeft && !hasRight && !hasUp):
		return "│"
	case (hasLeft && hasRight) || (hasLeft && !hasUp && !hasDown && !hasRight) || (hasRight && !hasUp && !hasDown && !hasLeft):
		return "─"
	case hasUp && hasRight:
		return "└"
	case hasUp && hasLeft:
		return "┘"
	case hasDown && hasRight:
		return "┌"
	case hasDown && hasLeft:
		return "┐"
	}
	return "•"
}
