package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/Mshel/ninesnake/internal/game"
	"github.com/Mshel/ninesnake/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

const defaultAutopilot = "default"

func newPlayCmd() *cobra.Command {
	var autopilot string

	cmd := &cobra.Command{
		Use:   "play",
		Short: "Play in this terminal",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay(autopilot)
		},
	}
	cmd.Flags().StringVar(&autopilot, "autopilot", "", "let a Lua script steer (path, or \"default\" for the built-in one)")
	cmd.Flags().Lookup("autopilot").NoOptDefVal = defaultAutopilot
	return cmd
}

func runPlay(autopilot string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return errors.New("play needs an interactive terminal")
	}

	cfg, err := initConfig()
	if err != nil {
		return err
	}
	if autopilot == defaultAutopilot && cfg.AutopilotScript != "" {
		autopilot = cfg.AutopilotScript
	}

	scores, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer scores.Close()

	var opts []game.SessionOption
	if autopilot != "" {
		pilot, err := loadAutopilot(autopilot)
		if err != nil {
			return err
		}
		defer pilot.Close()
		opts = append(opts, game.WithAutopilot(pilot))
	}

	board := ui.NewBoard()
	session := game.NewSession(board, game.NewHighScoreService(scores), opts...)
	session.Initialize()
	defer session.Stop()

	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		log.Debug("Could not read terminal size", "error", err)
	}

	p := tea.NewProgram(ui.NewControllerModel(session, board, width, height), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("run terminal ui: %w", err)
	}
	return nil
}

func loadAutopilot(source string) (*game.LuaAutopilot, error) {
	script := game.DefaultAutopilotScript
	if source != defaultAutopilot {
		data, err := os.ReadFile(source)
		if err != nil {
			return nil, fmt.Errorf("read autopilot script: %w", err)
		}
		script = string(data)
	}
	return game.NewLuaAutopilot(script)
}
