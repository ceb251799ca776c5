// Package config loads settings for the snake binary.
// Sources, highest priority first:
//  1. command line flags (applied by cmd)
//  2. environment variables (SNAKE_HOST, SNAKE_PORT, SNAKE_PRIVATE_KEY_PATH, SNAKE_DB_PATH, SNAKE_LOG_LEVEL)
//  3. the YAML file given with --config, or ~/.config/snake/config.yaml
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Host                string `yaml:"host"`
	Port                int    `yaml:"port"`
	HostKeyPath         string `yaml:"host_key_path"`
	MaxConnectionsPerIP int    `yaml:"max_connections_per_ip"`
}

type StorageConfig struct {
	// DBPath is the SQLite file that holds the high scores.
	DBPath string `yaml:"db_path"`
}

type Config struct {
	Server  ServerConfig  `yaml:"server"`
	Storage StorageConfig `yaml:"storage"`

	// LogLevel is one of debug, info, warn, error.
	LogLevel string `yaml:"log_level"`

	// AutopilotScript is a Lua file used by play --autopilot when no path is given.
	AutopilotScript string `yaml:"autopilot_script"`
}

func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:                "0.0.0.0",
			Port:                6996,
			HostKeyPath:         ".ssh/id_ed25519",
			MaxConnectionsPerIP: 2,
		},
		Storage: StorageConfig{
			DBPath: defaultDBPath(),
		},
		LogLevel: "info",
	}
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "highscores.db"
	}
	return filepath.Join(home, ".local", "share", "snake", "highscores.db")
}

// Load reads configPath (or the default location when empty) and applies
// environment overrides. A missing file is not an error.
func Load(configPath string) (*Config, error) {
	cfg := DefaultConfig()

	if configPath == "" {
		if home, err := os.UserHomeDir(); err == nil {
			configPath = filepath.Join(home, ".config", "snake", "config.yaml")
		}
	}

	if configPath != "" {
		data, err := os.ReadFile(configPath)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("invalid config file %s: %w", configPath, err)
			}
		case !errors.Is(err, os.ErrNotExist):
			return nil, fmt.Errorf("read config file %s: %w", configPath, err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}
	if _, err := cfg.Level(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("SNAKE_HOST"); v != "" {
		cfg.Server.Host = v
	}
	if v := os.Getenv("SNAKE_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid SNAKE_PORT %q: %w", v, err)
		}
		cfg.Server.Port = port
	}
	if v := os.Getenv("SNAKE_PRIVATE_KEY_PATH"); v != "" {
		cfg.Server.HostKeyPath = v
	}
	if v := os.Getenv("SNAKE_DB_PATH"); v != "" {
		cfg.Storage.DBPath = v
	}
	if v := os.Getenv("SNAKE_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	return nil
}

// Level parses LogLevel.
func (c *Config) Level() (log.Level, error) {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.InfoLevel, fmt.Errorf("invalid log level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// Address is the host:port the SSH server listens on.
func (c *Config) Address() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}
