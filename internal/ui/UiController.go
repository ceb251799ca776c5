package ui

import (
	"github.com/Mshel/ninesnake/internal/game"
	tea "github.com/charmbracelet/bubbletea"
)

type Screen int

const (
	IntroScreen Screen = iota
	GameScreen
	HighScoresScreen
)

// IntroSubmitMsg carries the chosen menu entry: 0 for Play, 1 for High Scores.
type IntroSubmitMsg int

// BackToIntroMsg returns the controller to the main menu.
type BackToIntroMsg struct{}

// GameControls is what the UI needs from a game session.
type GameControls interface {
	game.Controls
	Stop()
	Running() bool
	HighScores() []int
}

type ControllerModel struct {
	CurrentScreen Screen
	Session       GameControls
	Board         *Board

	IntroModel      tea.Model
	GameModel       tea.Model
	HighScoresModel tea.Model

	ScreenWidth  int
	ScreenHeight int
}

func NewControllerModel(session GameControls, board *Board, screenWidth int, screenHeight int) ControllerModel {
	return ControllerModel{
		Session:       session,
		Board:         board,
		CurrentScreen: IntroScreen,

		IntroModel: NewIntroModel(screenWidth, screenHeight),

		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m ControllerModel) Init() tea.Cmd {
	return m.IntroModel.Init()
}

func (m ControllerModel) View() string {
	switch m.CurrentScreen {
	case IntroScreen:
		return m.IntroModel.View()
	case GameScreen:
		if m.GameModel != nil {
			return m.GameModel.View()
		}
		return "Game Loading..."
	case HighScoresScreen:
		if m.HighScoresModel != nil {
			return m.HighScoresModel.View()
		}
		return "Loading high scores..."
	default:
		return "Unknown Screen"
	}
}

func (m ControllerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	if msg, ok := msg.(tea.KeyMsg); ok && msg.String() == "ctrl+c" {
		m.Session.Stop()
		return m, tea.Quit
	}

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.IntroModel, _ = m.IntroModel.Update(msg)
		if m.GameModel != nil {
			m.GameModel, _ = m.GameModel.Update(msg)
		}
		if m.HighScoresModel != nil {
			m.HighScoresModel, _ = m.HighScoresModel.Update(msg)
		}
		return m, nil

	case IntroSubmitMsg:
		if msg == 0 {
			m.CurrentScreen = GameScreen
			m.Session.OnReset()
			m.GameModel = NewGameModel(m.Session, m.Board, m.ScreenWidth, m.ScreenHeight)
			return m, m.GameModel.Init()
		}
		m.CurrentScreen = HighScoresScreen
		m.HighScoresModel = NewHighScoresModel(m.Session.HighScores(), m.ScreenWidth, m.ScreenHeight)
		return m, m.HighScoresModel.Init()

	case BackToIntroMsg:
		m.Session.Stop()
		m.CurrentScreen = IntroScreen
		return m, m.IntroModel.Init()
	}

	switch m.CurrentScreen {
	case IntroScreen:
		if key, ok := msg.(tea.KeyMsg); ok && key.String() == "q" {
			return m, tea.Quit
		}
		m.IntroModel, cmd = m.IntroModel.Update(msg)
	case GameScreen:
		if m.GameModel != nil {
			m.GameModel, cmd = m.GameModel.Update(msg)
		}
	case HighScoresScreen:
		if m.HighScoresModel != nil {
			m.HighScoresModel, cmd = m.HighScoresModel.Update(msg)
		}
	}
	return m, cmd
}
