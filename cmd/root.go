package main

import (
	"fmt"
	"os"

	"github.com/Mshel/ninesnake/internal/config"
	"github.com/Mshel/ninesnake/internal/game"
	"github.com/Mshel/ninesnake/internal/store"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	cfgFile       string
	dbPathFlag    string
	logLevelFlag  string
	ephemeralFlag bool
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "snake",
		Short:         "Nine by nine snake for the terminal",
		Long:          "snake is the classic snake game on a 9x9 board, playable locally or over SSH.",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPlay("")
		},
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path (default ~/.config/snake/config.yaml)")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "high score database path")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "debug, info, warn or error")
	rootCmd.PersistentFlags().BoolVar(&ephemeralFlag, "ephemeral", false, "keep high scores in memory only")

	rootCmd.AddCommand(newPlayCmd())
	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newScoresCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// initConfig loads configuration, applying CLI flag overrides.
func initConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	if dbPathFlag != "" {
		cfg.Storage.DBPath = dbPathFlag
	}
	if logLevelFlag != "" {
		cfg.LogLevel = logLevelFlag
	}

	level, err := cfg.Level()
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	return cfg, nil
}

type scoreStore interface {
	game.KeyValueStore
	Close() error
}

func openStore(cfg *config.Config) (scoreStore, error) {
	if ephemeralFlag {
		return store.NewMemoryStore(), nil
	}
	s, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return nil, fmt.Errorf("open high score store %s: %w", cfg.Storage.DBPath, err)
	}
	log.Debug("High score store opened", "path", cfg.Storage.DBPath)
	return s, nil
}
