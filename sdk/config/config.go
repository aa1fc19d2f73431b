// Package config provides configuration parsing for threecard bots.
// It defines the standard environment variables used by the dealer and bots.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Environment variable names used by bots
const (
	// EnvServer specifies the WebSocket URL of the dealer
	EnvServer = "THREECARD_SERVER"

	// EnvSeed provides a random seed for deterministic play
	EnvSeed = "THREECARD_SEED"

	// EnvBotID provides a unique identifier for the bot
	EnvBotID = "THREECARD_BOT_ID"

	// EnvWeights points at an HCL file of strategy weight overrides
	EnvWeights = "THREECARD_WEIGHTS"
)

// BotConfig holds configuration parsed from environment variables
type BotConfig struct {
	// ServerURL is the WebSocket URL for connecting to the dealer
	ServerURL string

	// Seed is the random seed for deterministic behavior (0 means not set)
	Seed int64

	// BotID is the unique identifier for this bot instance
	BotID string

	// WeightsFile is an optional HCL weights file
	WeightsFile string
}

// Load reads the given dotenv files (".env" when none are named) into the
// process environment and then parses it with FromEnv. Missing files are
// ignored; variables already set in the environment win.
func Load(files ...string) (*BotConfig, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

// FromEnv parses configuration from environment variables.
// Returns an error if required variables are missing or invalid.
func FromEnv() (*BotConfig, error) {
	cfg := &BotConfig{}

	// Parse server URL (required)
	cfg.ServerURL = os.Getenv(EnvServer)
	if cfg.ServerURL == "" {
		return nil, fmt.Errorf("%s environment variable is required", EnvServer)
	}

	if seedStr := os.Getenv(EnvSeed); seedStr != "" {
		seed, err := strconv.ParseInt(seedStr, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid %s value: %w", EnvSeed, err)
		}
		cfg.Seed = seed
	}

	cfg.BotID = os.Getenv(EnvBotID)
	cfg.WeightsFile = os.Getenv(EnvWeights)

	return cfg, nil
}

// SetEnv appends a KEY=value pair to an environment list.
// This is a helper for launching bot processes.
func SetEnv(env []string, key, value string) []string {
	return append(env, fmt.Sprintf("%s=%s", key, value))
}
