package game

import (
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

type SessionState int

const (
	StateStopped SessionState = iota
	StateRunning
)

func (s SessionState) String() string {
	if s == StateRunning {
		return "running"
	}
	return "stopped"
}

// tickLoop is the handle of one running ticker goroutine.
type tickLoop struct {
	done chan struct{}
}

// Session is one game: a snake, the loop that advances it and the
// collaborators it reports to. All methods are safe for concurrent use.
type Session struct {
	mu         sync.Mutex
	id         string
	snake      *Snake
	state      SessionState
	loop       *tickLoop
	tickPeriod time.Duration

	renderer   Renderer
	highScores *HighScoreService
	pilot      DirectionSource
}

type SessionOption func(*Session)

// WithAutopilot makes the session ask source for a direction before every tick.
func WithAutopilot(source DirectionSource) SessionOption {
	return func(s *Session) {
		s.pilot = source
	}
}

// NewSession builds a stopped session. Call Initialize before the first Start.
func NewSession(renderer Renderer, highScores *HighScoreService, opts ...SessionOption) *Session {
	s := &Session{
		id:         uuid.NewString(),
		snake:      NewSnake(),
		state:      StateStopped,
		tickPeriod: GameTickDuration,
		renderer:   renderer,
		highScores: highScores,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Session) ID() string { return s.id }

// Initialize puts a fresh snake in the middle of the board and stops the loop.
func (s *Session) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialize()
}

func (s *Session) initialize() {
	s.snake = NewSnake()
	s.stop()
	s.renderer.ResetBoard()
	s.renderer.RenderScore(s.snake.Score())
	s.renderer.RenderSnakeHead(s.snake.X, s.snake.Y)
	s.renderer.RenderHighScores(s.highScores.Load())
}

// Start begins ticking every GameTickDuration. It is a no-op when already running.
func (s *Session) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.start()
}

func (s *Session) start() {
	if s.state == StateRunning {
		return
	}
	loop := &tickLoop{done: make(chan struct{})}
	s.loop = loop
	s.state = StateRunning
	log.Debug("Game loop started.", "session", s.id)
	go s.runLoop(loop, s.tickPeriod)
}

// Stop cancels the loop. No tick runs after Stop returns.
func (s *Session) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stop()
}

func (s *Session) stop() {
	if s.loop != nil {
		close(s.loop.done)
		s.loop = nil
		log.Debug("Game loop stopped.", "session", s.id)
	}
	s.state = StateStopped
}

func (s *Session) runLoop(loop *tickLoop, period time.Duration) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-loop.done:
			return
		case <-ticker.C:
			if !s.tickFrom(loop) {
				return
			}
		}
	}
}

// tickFrom runs one tick on behalf of loop and reports whether loop should keep going.
func (s *Session) tickFrom(loop *tickLoop) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A stop may have won the race against a ticker that already fired.
	if s.loop != loop {
		return false
	}
	if err := s.tick(); err != nil {
		log.Error("Game tick failed, stopping session", "session", s.id, "error", err)
		s.stop()
		return false
	}
	return s.loop == loop
}

// Tick advances the snake by one cell, ending the game on a collision.
// An error means the snake's direction is invalid; the snake is left untouched.
func (s *Session) Tick() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.tick()
}

func (s *Session) tick() error {
	if s.pilot != nil {
		direction, err := s.pilot.NextDirection(s.snake.View())
		if err != nil {
			log.Warn("Autopilot failed, keeping direction", "session", s.id, "error", err)
		} else {
			s.snake.Direction = direction
		}
	}

	next, err := s.snake.NextCoordinates()
	if err != nil {
		return err
	}

	switch {
	case s.snake.HasVisited(next.X, next.Y):
		log.Debug("Self collision", "session", s.id, "x", next.X, "y", next.Y)
		s.gameOver()
	case IsWallCollision(next.X, next.Y):
		log.Debug("Wall collision", "session", s.id, "x", next.X, "y", next.Y)
		s.gameOver()
	default:
		s.renderer.RenderSnakeStep(s.snake.X, s.snake.Y, next.X, next.Y)
		s.snake.MoveTo(next.X, next.Y)
	}
	s.renderer.RenderScore(s.snake.Score())
	return nil
}

func (s *Session) gameOver() {
	s.stop()
	score := s.snake.Score()

	highScores, err := s.highScores.Record(score)
	if err != nil {
		log.Error("High score persist failed", "session", s.id, "score", score, "error", err)
	}
	log.Info("Game over", "session", s.id, "score", score)

	s.renderer.RenderHighScores(highScores)
	if r, ok := s.renderer.(GameOverRenderer); ok {
		r.RenderGameOver(score)
	}
}

// SetDirection takes effect on the next tick. Reversing onto the previous
// cell is allowed and ends the game on that tick.
func (s *Session) SetDirection(d Direction) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snake.Direction = d
}

// OnStart always begins a fresh game.
func (s *Session) OnStart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.initialize()
	s.start()
}

func (s *Session) OnReset() {
	s.Initialize()
}

func (s *Session) OnDirection(d Direction) {
	s.SetDirection(d)
}

func (s *Session) View() SnakeView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snake.View()
}

func (s *Session) State() SessionState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) Running() bool {
	return s.State() == StateRunning
}

func (s *Session) HighScores() []int {
	return s.highScores.Load()
}
