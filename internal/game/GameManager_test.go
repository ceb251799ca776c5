package game

import (
	"errors"
	"fmt"
	"reflect"
	"sync"
	"testing"
	"time"
)

// recordingRenderer is a headless Renderer that remembers what it was asked to draw.
type recordingRenderer struct {
	mu         sync.Mutex
	resets     int
	score      int
	heads      []Point
	steps      [][2]Point
	highScores []int
	gameOvers  []int
}

func (r *recordingRenderer) ResetBoard() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.resets++
	r.steps = nil
}

func (r *recordingRenderer) RenderScore(score int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.score = score
}

func (r *recordingRenderer) RenderSnakeHead(x, y int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.heads = append(r.heads, Point{X: x, Y: y})
}

func (r *recordingRenderer) RenderSnakeStep(fromX, fromY, toX, toY int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.steps = append(r.steps, [2]Point{{X: fromX, Y: fromY}, {X: toX, Y: toY}})
}

func (r *recordingRenderer) RenderHighScores(highScores []int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.highScores = append([]int(nil), highScores...)
}

func (r *recordingRenderer) RenderGameOver(finalScore int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.gameOvers = append(r.gameOvers, finalScore)
}

type mapStore struct {
	mu      sync.Mutex
	values  map[string]string
	failGet error
	failSet error
}

func newMapStore() *mapStore {
	return &mapStore{values: make(map[string]string)}
}

func (m *mapStore) Get(key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return "", false, m.failGet
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *mapStore) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failSet != nil {
		return m.failSet
	}
	m.values[key] = value
	return nil
}

func newTestSession(t *testing.T, opts ...SessionOption) (*Session, *recordingRenderer, *mapStore) {
	t.Helper()
	renderer := &recordingRenderer{}
	store := newMapStore()
	session := NewSession(renderer, NewHighScoreService(store), opts...)
	session.Initialize()
	t.Cleanup(session.Stop)
	return session, renderer, store
}

func mustTick(t *testing.T, s *Session) {
	t.Helper()
	if err := s.Tick(); err != nil {
		t.Fatalf("Tick: %v", err)
	}
}

func TestInitializeAndFirstTick(t *testing.T) {
	session, renderer, _ := newTestSession(t)

	view := session.View()
	if view.Position != (Point{X: 4, Y: 4}) || view.Score != 0 || view.Direction != Right {
		t.Fatalf("initial view = %+v", view)
	}
	if !reflect.DeepEqual(view.History, []Point{{4, 4}}) {
		t.Fatalf("initial history = %v", view.History)
	}
	if session.Running() {
		t.Fatal("session should be stopped after Initialize")
	}
	if renderer.resets != 1 || !reflect.DeepEqual(renderer.heads, []Point{{4, 4}}) {
		t.Fatalf("renderer after Initialize: resets=%d heads=%v", renderer.resets, renderer.heads)
	}

	mustTick(t, session)

	view = session.View()
	if view.Position != (Point{X: 5, Y: 4}) || view.Score != 1 {
		t.Fatalf("after tick view = %+v", view)
	}
	if !reflect.DeepEqual(view.History, []Point{{4, 4}, {5, 4}}) {
		t.Fatalf("after tick history = %v", view.History)
	}
	if renderer.score != 1 {
		t.Errorf("rendered score = %d, want 1", renderer.score)
	}
	if want := [][2]Point{{{4, 4}, {5, 4}}}; !reflect.DeepEqual(renderer.steps, want) {
		t.Errorf("rendered steps = %v, want %v", renderer.steps, want)
	}
}

func TestTurnLeftAfterInitialize(t *testing.T) {
	session, renderer, _ := newTestSession(t)

	session.SetDirection(Left)
	mustTick(t, session)

	view := session.View()
	if view.Position != (Point{X: 3, Y: 4}) || view.Score != 1 {
		t.Fatalf("view = %+v, want (3,4) score 1", view)
	}
	if len(renderer.gameOvers) != 0 {
		t.Fatalf("unexpected game over: %v", renderer.gameOvers)
	}
}

func TestScoreEqualsMoveCount(t *testing.T) {
	// A spiral that never revisits a cell and stays on the board.
	moves := []Direction{Up, Up, Left, Left, Down, Down, Down, Down, Right, Right, Right, Right, Up}

	for n := 0; n <= len(moves); n++ {
		t.Run(fmt.Sprintf("moves=%d", n), func(t *testing.T) {
			session, renderer, _ := newTestSession(t)
			for _, d := range moves[:n] {
				session.SetDirection(d)
				mustTick(t, session)
			}
			if got := session.View().Score; got != n {
				t.Errorf("score = %d, want %d", got, n)
			}
			if len(renderer.gameOvers) != 0 {
				t.Errorf("unexpected game over %v", renderer.gameOvers)
			}
		})
	}
}

func TestReversalAlwaysSelfCollides(t *testing.T) {
	paths := map[string][]Direction{
		"straight":     {Right},
		"long":         {Right, Right, Right},
		"turned":       {Up, Up, Left},
		"down then up": {Down, Down},
	}

	for name, path := range paths {
		t.Run(name, func(t *testing.T) {
			session, renderer, _ := newTestSession(t)
			for _, d := range path {
				session.SetDirection(d)
				mustTick(t, session)
			}
			before := session.View()
			session.SetDirection(before.Direction.Opposite())
			mustTick(t, session)

			if want := []int{before.Score}; !reflect.DeepEqual(renderer.gameOvers, want) {
				t.Fatalf("game overs = %v, want %v", renderer.gameOvers, want)
			}
			if after := session.View(); after.Position != before.Position || after.Score != before.Score {
				t.Errorf("snake moved on collision: before %+v after %+v", before, after)
			}
		})
	}
}

func TestWallCollision(t *testing.T) {
	cases := []struct {
		name  string
		steps int
		dir   Direction
	}{
		{"left wall", 4, Left},
		{"right wall", 4, Right},
		{"top wall", 4, Up},
		{"bottom wall", 4, Down},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			session, renderer, _ := newTestSession(t)
			session.SetDirection(tc.dir)
			for i := 0; i < tc.steps; i++ {
				mustTick(t, session)
			}
			if len(renderer.gameOvers) != 0 {
				t.Fatalf("game ended before reaching the edge")
			}

			mustTick(t, session)
			if want := []int{tc.steps}; !reflect.DeepEqual(renderer.gameOvers, want) {
				t.Fatalf("game overs = %v, want %v", renderer.gameOvers, want)
			}
			if !reflect.DeepEqual(renderer.highScores, []int{tc.steps}) {
				t.Errorf("high scores = %v", renderer.highScores)
			}
		})
	}
}

func TestFullTopRowHitsWall(t *testing.T) {
	session, renderer, _ := newTestSession(t)

	session.mu.Lock()
	session.snake = &Snake{X: 0, Y: 0, Direction: Right, History: []Point{{0, 0}}}
	session.mu.Unlock()

	for x := 1; x < BoardSize; x++ {
		mustTick(t, session)
	}
	if view := session.View(); view.Position != (Point{X: 8, Y: 0}) || view.Score != 8 {
		t.Fatalf("view = %+v", view)
	}

	mustTick(t, session)
	if !reflect.DeepEqual(renderer.gameOvers, []int{8}) {
		t.Fatalf("game overs = %v, want [8]", renderer.gameOvers)
	}
	if !reflect.DeepEqual(session.HighScores(), []int{8}) {
		t.Errorf("stored high scores = %v", session.HighScores())
	}
}

func TestSelfCollisionCheckedBeforeWall(t *testing.T) {
	session, renderer, _ := newTestSession(t)

	// The cell ahead is off the board and also in the history.
	session.mu.Lock()
	session.snake = &Snake{X: 0, Y: 1, Direction: Left, History: []Point{{-1, 1}, {0, 1}}}
	session.mu.Unlock()

	mustTick(t, session)
	if !reflect.DeepEqual(renderer.gameOvers, []int{1}) {
		t.Fatalf("game overs = %v", renderer.gameOvers)
	}
}

func TestUnknownDirectionFails(t *testing.T) {
	session, renderer, _ := newTestSession(t)

	session.SetDirection(Direction(99))
	err := session.Tick()
	if !errors.Is(err, ErrUnknownDirection) {
		t.Fatalf("Tick error = %v, want ErrUnknownDirection", err)
	}
	if view := session.View(); view.Score != 0 || view.Position != (Point{X: 4, Y: 4}) {
		t.Errorf("snake changed after fault: %+v", view)
	}
	if len(renderer.gameOvers) != 0 {
		t.Errorf("fault must not end the game: %v", renderer.gameOvers)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.Start()

	session.Stop()
	once := session.View()
	state := session.State()
	session.Stop()

	if session.State() != state || state != StateStopped {
		t.Fatalf("state = %v, want stopped", session.State())
	}
	if !reflect.DeepEqual(session.View(), once) {
		t.Errorf("second Stop changed the snake")
	}
}

func TestLoopTicksAndStops(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.tickPeriod = 5 * time.Millisecond
	session.SetDirection(Up)

	session.Start()
	deadline := time.Now().Add(2 * time.Second)
	for session.View().Score == 0 {
		if time.Now().After(deadline) {
			t.Fatal("loop never ticked")
		}
		time.Sleep(time.Millisecond)
	}
	session.Stop()

	stopped := session.View()
	time.Sleep(30 * time.Millisecond)
	if after := session.View(); after.Score != stopped.Score {
		t.Fatalf("snake moved after Stop: %d -> %d", stopped.Score, after.Score)
	}
}

func TestStartTwiceKeepsOneLoop(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.tickPeriod = time.Hour

	session.Start()
	first := session.loop
	session.Start()
	if session.loop != first {
		t.Fatal("second Start replaced the running loop")
	}
	if !session.Running() {
		t.Fatal("session should be running")
	}
}

func TestLoopEndsOnGameOver(t *testing.T) {
	session, renderer, _ := newTestSession(t)
	session.tickPeriod = 2 * time.Millisecond
	session.SetDirection(Left)

	session.Start()
	deadline := time.Now().Add(2 * time.Second)
	for session.Running() {
		if time.Now().After(deadline) {
			t.Fatal("game never ended")
		}
		time.Sleep(time.Millisecond)
	}

	renderer.mu.Lock()
	defer renderer.mu.Unlock()
	if !reflect.DeepEqual(renderer.gameOvers, []int{4}) {
		t.Errorf("game overs = %v, want [4]", renderer.gameOvers)
	}
}

func TestLoopStopsOnFault(t *testing.T) {
	session, _, _ := newTestSession(t)
	session.tickPeriod = 2 * time.Millisecond
	session.SetDirection(Direction(0))

	session.Start()
	deadline := time.Now().Add(2 * time.Second)
	for session.Running() {
		if time.Now().After(deadline) {
			t.Fatal("loop kept running after a fault")
		}
		time.Sleep(time.Millisecond)
	}
}

func TestOnStartBeginsFreshGame(t *testing.T) {
	session, renderer, _ := newTestSession(t)
	session.tickPeriod = time.Hour
	mustTick(t, session)
	mustTick(t, session)

	session.OnStart()
	if !session.Running() {
		t.Fatal("OnStart should start the loop")
	}
	if view := session.View(); view.Score != 0 || view.Position != (Point{X: 4, Y: 4}) {
		t.Errorf("OnStart kept the old snake: %+v", view)
	}
	if renderer.resets != 2 {
		t.Errorf("resets = %d, want 2", renderer.resets)
	}

	session.OnReset()
	if session.Running() {
		t.Error("OnReset should stop the loop")
	}
}

func TestGameOverPersistFailureStillRenders(t *testing.T) {
	session, renderer, store := newTestSession(t)
	store.failSet = errors.New("disk full")

	session.SetDirection(Up)
	for i := 0; i < 5; i++ {
		mustTick(t, session)
	}
	if !reflect.DeepEqual(renderer.highScores, []int{4}) {
		t.Errorf("rendered high scores = %v, want [4]", renderer.highScores)
	}
}

type fixedPilot struct {
	direction Direction
	err       error
	views     []SnakeView
}

func (p *fixedPilot) NextDirection(view SnakeView) (Direction, error) {
	p.views = append(p.views, view)
	return p.direction, p.err
}

func TestAutopilotSteersEachTick(t *testing.T) {
	pilot := &fixedPilot{direction: Down}
	session, _, _ := newTestSession(t, WithAutopilot(pilot))

	mustTick(t, session)
	if view := session.View(); view.Position != (Point{X: 4, Y: 5}) {
		t.Fatalf("position = %+v, want (4,5)", view.Position)
	}
	if len(pilot.views) != 1 || pilot.views[0].Position != (Point{X: 4, Y: 4}) {
		t.Errorf("pilot views = %+v", pilot.views)
	}

	pilot.err = errors.New("confused")
	pilot.direction = Up
	mustTick(t, session)
	if view := session.View(); view.Position != (Point{X: 4, Y: 6}) {
		t.Errorf("failing pilot should keep direction, position = %+v", view.Position)
	}
}
