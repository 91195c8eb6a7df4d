// Package config provides configuration utilities for the application.
package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config is the application configuration, loaded from the config file,
// environment and flags via viper.
type Config struct {
	Username string
	Password string
	Language string
	BaseURL  string
	MemoryDB string
}

// Load reads the current viper state into a Config, applying defaults.
func Load() Config {
	cfg := Config{
		Username: viper.GetString("credentials.username"),
		Password: viper.GetString("credentials.password"),
		Language: viper.GetString("language"),
		BaseURL:  viper.GetString("catalog.base_url"),
		MemoryDB: ExpandPath(viper.GetString("memory.path")),
	}
	if cfg.Language == "" {
		cfg.Language = "pb"
	}
	if cfg.MemoryDB == "" {
		cfg.MemoryDB = DefaultMemoryPath()
	}
	return cfg
}

// DefaultMemoryPath returns the default location of the persistent choice
// database.
func DefaultMemoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "choices.db"
	}
	return filepath.Join(home, ".local", "share", "ltv", "choices.db")
}

// ExpandPath expands ~ and environment variables in a file path.
// It handles both ~ for home directory and $VAR style environment variables.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
