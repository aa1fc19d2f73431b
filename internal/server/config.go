package server

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/threecard/internal/game"
)

// Config represents the complete dealer configuration
type Config struct {
	Server *ServerSettings `hcl:"server,block"`
	Match  *MatchSettings  `hcl:"match,block"`
}

// ServerSettings contains listener configuration
type ServerSettings struct {
	Address  string `hcl:"address,optional"`
	Port     int    `hcl:"port,optional"`
	LogLevel string `hcl:"log_level,optional"`
}

// MatchSettings defines the rules every hosted match is played under
type MatchSettings struct {
	StartingStack int    `hcl:"starting_stack,optional"`
	SmallBlind    int    `hcl:"small_blind,optional"`
	BigBlind      int    `hcl:"big_blind,optional"`
	Rounds        int    `hcl:"rounds,optional"`
	GameClock     string `hcl:"game_clock,optional"` // Go duration, e.g. "30s"
	Seed          int64  `hcl:"seed,optional"`       // 0 picks a time-based seed
}

// DefaultConfig returns default dealer configuration
func DefaultConfig() *Config {
	rules := game.DefaultRules()
	return &Config{
		Server: &ServerSettings{
			Address:  "localhost",
			Port:     8080,
			LogLevel: "info",
		},
		Match: &MatchSettings{
			StartingStack: rules.StartingStack,
			SmallBlind:    rules.SmallBlind,
			BigBlind:      rules.BigBlind,
			Rounds:        rules.Rounds,
			GameClock:     rules.GameClock.String(),
		},
	}
}

// LoadConfig loads dealer configuration from an HCL file. A missing file
// yields the defaults.
func LoadConfig(filename string) (*Config, error) {
	src, err := os.ReadFile(filename)
	if errors.Is(err, fs.ErrNotExist) {
		return DefaultConfig(), nil
	}
	if err != nil {
		return nil, err
	}
	return ParseConfig(src, filename)
}

// ParseConfig decodes HCL source and fills missing values with defaults.
func ParseConfig(src []byte, filename string) (*Config, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var config Config
	diags = gohcl.DecodeBody(file.Body, nil, &config)
	if diags.HasErrors() {
		return nil, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	defaults := DefaultConfig()
	if config.Server == nil {
		config.Server = defaults.Server
	}
	if config.Match == nil {
		config.Match = defaults.Match
	}

	// Apply defaults for missing values
	if config.Server.Address == "" {
		config.Server.Address = defaults.Server.Address
	}
	if config.Server.Port == 0 {
		config.Server.Port = defaults.Server.Port
	}
	if config.Server.LogLevel == "" {
		config.Server.LogLevel = defaults.Server.LogLevel
	}

	m, d := config.Match, defaults.Match
	if m.StartingStack == 0 {
		m.StartingStack = d.StartingStack
	}
	if m.SmallBlind == 0 {
		m.SmallBlind = d.SmallBlind
	}
	if m.BigBlind == 0 {
		m.BigBlind = d.BigBlind
	}
	if m.Rounds == 0 {
		m.Rounds = d.Rounds
	}
	if m.GameClock == "" {
		m.GameClock = d.GameClock
	}

	if _, err := config.Rules(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Addr returns the listen address
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Server.Address, c.Server.Port)
}

// Rules converts the match settings to validated game rules
func (c *Config) Rules() (game.Rules, error) {
	clock, err := time.ParseDuration(c.Match.GameClock)
	if err != nil {
		return game.Rules{}, fmt.Errorf("invalid game_clock: %w", err)
	}
	rules := game.Rules{
		StartingStack: c.Match.StartingStack,
		SmallBlind:    c.Match.SmallBlind,
		BigBlind:      c.Match.BigBlind,
		Rounds:        c.Match.Rounds,
		GameClock:     clock,
	}
	if err := rules.Validate(); err != nil {
		return game.Rules{}, err
	}
	return rules, nil
}
