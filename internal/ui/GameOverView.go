package ui

import (
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	leaderboardHeaderStyle = lipgloss.NewStyle().
				Bold(true).
				Foreground(lipgloss.Color("15")).
				Background(lipgloss.Color("236")).
				Padding(0, 1).
				Align(lipgloss.Center)

	leaderboardRowStyle = lipgloss.NewStyle().
				Padding(0, 1)

	leaderboardBorderStyle = lipgloss.NewStyle().
				Border(lipgloss.NormalBorder(), false, false, true, false).
				BorderForeground(lipgloss.Color("8"))
)

// HighScoresModel shows the stored top scores.
type HighScoresModel struct {
	HighScores   []int
	ScreenWidth  int
	ScreenHeight int
}

func NewHighScoresModel(highScores []int, screenWidth, screenHeight int) HighScoresModel {
	return HighScoresModel{
		HighScores:   highScores,
		ScreenWidth:  screenWidth,
		ScreenHeight: screenHeight,
	}
}

func (m HighScoresModel) Init() tea.Cmd { return nil }

func (m HighScoresModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.ScreenWidth = msg.Width
		m.ScreenHeight = msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "enter", "q":
			return m, func() tea.Msg { return BackToIntroMsg{} }
		}
	}
	return m, nil
}

func (m HighScoresModel) View() string {
	return lipgloss.Place(m.ScreenWidth, m.ScreenHeight,
		lipgloss.Center, lipgloss.Center,
		lipgloss.NewStyle().Border(lipgloss.ThickBorder()).Render(RenderHighScoresTable(m.HighScores)),
	)
}

// RenderHighScoresTable draws highScores as a ranked table.
func RenderHighScoresTable(highScores []int) string {
	var tableContent strings.Builder

	rankWidth := 4
	scoreWidth := 10

	header := lipgloss.JoinHorizontal(lipgloss.Top,
		leaderboardHeaderStyle.Width(rankWidth).Render("#"),
		leaderboardHeaderStyle.Width(scoreWidth).Render("Score"),
	)
	tableContent.WriteString(header + "\n")

	if len(highScores) == 0 {
		tableContent.WriteString(leaderboardRowStyle.Faint(true).Render("No games played yet") + "\n")
	}
	for i, score := range highScores {
		row := lipgloss.JoinHorizontal(lipgloss.Top,
			leaderboardRowStyle.Width(rankWidth).Render(strconv.Itoa(i+1)),
			leaderboardRowStyle.Width(scoreWidth).Render(strconv.Itoa(score)),
		)
		tableContent.WriteString(leaderboardBorderStyle.Render(row) + "\n")
	}

	title := lipgloss.NewStyle().Bold(true).Padding(1, 0).Render("HIGH SCORES")
	instruction := lipgloss.NewStyle().Faint(true).Margin(1, 0).Render("Press ESC or ENTER to return.")

	return lipgloss.JoinVertical(lipgloss.Center,
		title,
		tableContent.String(),
		instruction,
	)
}
