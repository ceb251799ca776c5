package game

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	lua "github.com/yuin/gopher-lua"
)

const autopilotFunction = "nextDirection"

// DefaultAutopilotScript keeps going straight and turns clockwise whenever the
// cell ahead is part of the trail or off the board.
const DefaultAutopilotScript = `
local deltas = {
	UP = {0, -1},
	RIGHT = {1, 0},
	DOWN = {0, 1},
	LEFT = {-1, 0},
}
local clockwise = {UP = "RIGHT", RIGHT = "DOWN", DOWN = "LEFT", LEFT = "UP"}

local function blocked(snake, dir)
	local d = deltas[dir]
	local x, y = snake.x + d[1], snake.y + d[2]
	if x < 0 or y < 0 or x >= snake.size or y >= snake.size then
		return true
	end
	for _, cell in ipairs(snake.history) do
		if cell.x == x and cell.y == y then
			return true
		end
	end
	return false
end

function nextDirection(snake)
	local dir = snake.direction
	for _ = 1, 4 do
		if not blocked(snake, dir) then
			return dir
		end
		dir = clockwise[dir]
	end
	return snake.direction
end
`

// LuaAutopilot steers a snake with a Lua function named nextDirection. The
// function receives the snake as a table and returns "UP", "DOWN", "LEFT" or "RIGHT".
// Every call is cut off after AutopilotCallTimeout.
type LuaAutopilot struct {
	mu      sync.Mutex
	state   *lua.LState
	timeout time.Duration
}

func NewLuaAutopilot(script string) (*LuaAutopilot, error) {
	return newLuaAutopilot(script, AutopilotCallTimeout)
}

func newLuaAutopilot(script string, timeout time.Duration) (*LuaAutopilot, error) {
	luaState := lua.NewState()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	luaState.SetContext(ctx)
	err := luaState.DoString(script)
	luaState.RemoveContext()
	cancel()
	if err != nil {
		luaState.Close()
		return nil, fmt.Errorf("could not parse lua autopilot: %w", err)
	}
	if luaState.GetGlobal(autopilotFunction).Type() != lua.LTFunction {
		luaState.Close()
		return nil, errors.New("lua autopilot does not define " + autopilotFunction)
	}
	return &LuaAutopilot{state: luaState, timeout: timeout}, nil
}

func (a *LuaAutopilot) NextDirection(view SnakeView) (Direction, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), a.timeout)
	defer cancel()
	a.state.SetContext(ctx)
	defer a.state.RemoveContext()

	a.state.Push(a.state.GetGlobal(autopilotFunction))
	a.state.Push(a.snakeTable(view))
	if err := a.state.PCall(1, 1, nil); err != nil {
		if ctx.Err() != nil {
			return 0, fmt.Errorf("lua autopilot gave no answer within %v: %w", a.timeout, ctx.Err())
		}
		return 0, fmt.Errorf("could not execute lua autopilot: %w", err)
	}

	luaReturn := a.state.Get(-1)
	a.state.Pop(1)

	name, ok := luaReturn.(lua.LString)
	if !ok {
		return 0, errors.New("lua autopilot returned " + luaReturn.Type().String() + ", expected string")
	}
	return ParseDirection(string(name))
}

func (a *LuaAutopilot) snakeTable(view SnakeView) *lua.LTable {
	history := a.state.NewTable()
	for _, p := range view.History {
		cell := a.state.NewTable()
		cell.RawSetString("x", lua.LNumber(p.X))
		cell.RawSetString("y", lua.LNumber(p.Y))
		history.Append(cell)
	}

	snake := a.state.NewTable()
	snake.RawSetString("x", lua.LNumber(view.Position.X))
	snake.RawSetString("y", lua.LNumber(view.Position.Y))
	snake.RawSetString("direction", lua.LString(view.Direction.String()))
	snake.RawSetString("score", lua.LNumber(view.Score))
	snake.RawSetString("size", lua.LNumber(BoardSize))
	snake.RawSetString("history", history)
	return snake
}

func (a *LuaAutopilot) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.state.Close()
}
