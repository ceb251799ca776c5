package game

// Renderer is the UI side of a session. Calls arrive while the session lock is
// held, so implementations must not call back into the session synchronously.
type Renderer interface {
	ResetBoard()
	RenderScore(score int)
	RenderSnakeHead(x, y int)
	RenderSnakeStep(fromX, fromY, toX, toY int)
	RenderHighScores(highScores []int)
}

// GameOverRenderer is implemented by renderers that want to show the end of a game.
type GameOverRenderer interface {
	RenderGameOver(finalScore int)
}

// Controls are the callbacks a UI invokes in response to player input.
type Controls interface {
	OnStart()
	OnReset()
	OnDirection(d Direction)
}

// DirectionSource picks the direction for the coming tick.
type DirectionSource interface {
	NextDirection(view SnakeView) (Direction, error)
}
