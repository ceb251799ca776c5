package game

import "time"

const (
	// BoardSize is the width and height of the square board.
	BoardSize        = 9
	GameTickDuration = 500 * time.Millisecond
	HighScoreLimit   = 10
	HighScoresKey    = "high_scores"

	// AutopilotCallTimeout bounds one call into a Lua autopilot.
	AutopilotCallTimeout = 50 * time.Millisecond

	startX = 4
	startY = 4
)
