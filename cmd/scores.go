package main

import (
	"fmt"

	"github.com/Mshel/ninesnake/internal/game"
	"github.com/spf13/cobra"
)

func newScoresCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scores",
		Short: "Print the stored high scores",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := initConfig()
			if err != nil {
				return err
			}
			scores, err := openStore(cfg)
			if err != nil {
				return err
			}
			defer scores.Close()

			highScores := game.NewHighScoreService(scores).Load()
			if len(highScores) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No high scores yet.")
				return nil
			}
			for i, score := range highScores {
				fmt.Fprintf(cmd.OutOrStdout(), "%2d. %d\n", i+1, score)
			}
			return nil
		},
	}
}
