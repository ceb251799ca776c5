package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/Mshel/ninesnake/internal/game"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// frameMsg redraws the view when the game loop had nothing new to say.
type frameMsg struct{}

const frameInterval = 50 * time.Millisecond

var (
	mapViewStyle = lipgloss.NewStyle().
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("240")).
			Padding(0, 0)

	statusPanelStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("8")).
				Padding(1, 2).
				Width(28)

	gameOverStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("9")).
			Padding(0, 1)

	panelTitleStyle = lipgloss.NewStyle().Bold(true)
)

type GameViewModel struct {
	session      GameControls
	board        *Board
	help         help.Model
	ScreenWidth  int
	ScreenHeight int
}

func NewGameModel(session GameControls, board *Board, screenWidth int, screenHeight int) GameViewModel {
	return GameViewModel{
		session:      session,
		board:        board,
		help:         help.New(),
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m GameViewModel) Init() tea.Cmd {
	return m.listenForBoardUpdates()
}

func (m GameViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, gameKeys.Up):
			m.session.OnDirection(game.Up)
		case key.Matches(msg, gameKeys.Down):
			m.session.OnDirection(game.Down)
		case key.Matches(msg, gameKeys.Left):
			m.session.OnDirection(game.Left)
		case key.Matches(msg, gameKeys.Right):
			m.session.OnDirection(game.Right)
		case key.Matches(msg, gameKeys.Start):
			m.session.OnStart()
		case key.Matches(msg, gameKeys.Reset):
			m.session.OnReset()
		case key.Matches(msg, gameKeys.Quit):
			m.session.Stop()
			return m, tea.Quit
		case key.Matches(msg, gameKeys.Back):
			return m, func() tea.Msg { return BackToIntroMsg{} }
		case key.Matches(msg, gameKeys.Help):
			m.help.ShowAll = !m.help.ShowAll
		}
		return m, nil

	case BoardChangedMsg, frameMsg:
		return m, m.listenForBoardUpdates()
	}

	return m, nil
}

func (m GameViewModel) View() string {
	boardBox := mapViewStyle.Render(m.board.Render())
	statusBox := statusPanelStyle.Render(m.renderStatusPanel())

	content := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Top, boardBox, statusBox),
		m.help.View(gameKeys),
	)
	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight, lipgloss.Center, lipgloss.Center, content)
}

func (m GameViewModel) renderStatusPanel() string {
	var statusContent strings.Builder

	statusContent.WriteString(panelTitleStyle.Render("--- Score ---") + "\n")
	statusContent.WriteString(fmt.Sprintf("Score: %d\n", m.board.Score()))

	over, finalScore := m.board.GameOver()
	switch {
	case over:
		statusContent.WriteString(gameOverStyle.Render(fmt.Sprintf("GAME OVER: %d", finalScore)) + "\n")
		statusContent.WriteString(lipgloss.NewStyle().Faint(true).Render("enter to play again") + "\n")
	case m.session.Running():
		statusContent.WriteString("Running\n")
	default:
		statusContent.WriteString(lipgloss.NewStyle().Faint(true).Render("enter to start") + "\n")
	}

	statusContent.WriteString("\n" + panelTitleStyle.Render("--- High Scores ---") + "\n")
	highScores := m.board.HighScores()
	if len(highScores) == 0 {
		statusContent.WriteString(lipgloss.NewStyle().Faint(true).Render("none yet") + "\n")
	}
	for i, score := range highScores {
		statusContent.WriteString(fmt.Sprintf("%2d. %d\n", i+1, score))
	}

	return statusContent.String()
}

func (m GameViewModel) listenForBoardUpdates() tea.Cmd {
	return tea.Tick(frameInterval, func(t time.Time) tea.Msg {
		select {
		case msg := <-m.board.Updates():
			return msg
		default:
			return frameMsg{}
		}
	})
}
