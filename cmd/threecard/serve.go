package main

import (
	"fmt"
	"net"
	"os"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/threecard/cmd/threecard/shared"
	"github.com/lox/threecard/internal/server"
	"github.com/lox/threecard/internal/spawner"
)

// ServeCmd runs the dealer
type ServeCmd struct {
	Config   string   `default:"threecard.hcl" type:"path" help:"HCL dealer config (defaults apply when missing)"`
	Addr     string   `help:"Listen address, overrides the config (e.g. :8080)"`
	Rounds   int      `help:"Rounds per match, overrides the config"`
	Seed     int64    `help:"Deterministic RNG seed, overrides the config"`
	LogLevel string   `help:"Log level, overrides the config (debug|info|warn|error)"`
	LogJSON  bool     `help:"Output JSON logs instead of console format"`
	Spawn    []string `help:"Bot types to launch against this dealer, comma separated (e.g. discard,random)"`
}

func (c *ServeCmd) Run() error {
	cfg, err := server.LoadConfig(c.Config)
	if err != nil {
		return fmt.Errorf("load %s: %w", c.Config, err)
	}
	if c.Rounds > 0 {
		cfg.Match.Rounds = c.Rounds
	}
	if c.Seed != 0 {
		cfg.Match.Seed = c.Seed
	}
	if c.LogLevel != "" {
		cfg.Server.LogLevel = c.LogLevel
	}

	logger, err := shared.SetupLogger(cfg.Server.LogLevel, c.LogJSON)
	if err != nil {
		return err
	}

	srv, err := server.NewServer(cfg, logger, quartz.NewReal())
	if err != nil {
		return err
	}

	addr := cfg.Addr()
	if c.Addr != "" {
		addr = c.Addr
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}

	if len(c.Spawn) > 0 {
		sp, err := spawnBots(ln, cfg.Match.Seed, c.Spawn, logger)
		if err != nil {
			_ = ln.Close()
			return err
		}
		defer sp.StopAll()
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()
	return srv.Serve(ctx, ln)
}

// spawnBots re-executes this binary once per bot name, pointed at ln
func spawnBots(ln net.Listener, seed int64, names []string, logger *log.Logger) (*spawner.Spawner, error) {
	for _, name := range names {
		if _, ok := botHandlers[name]; !ok {
			return nil, fmt.Errorf("unknown bot: %s (available: %s)", name, botNames())
		}
	}

	exe, err := os.Executable()
	if err != nil {
		return nil, err
	}
	_, port, err := net.SplitHostPort(ln.Addr().String())
	if err != nil {
		return nil, err
	}

	sp := spawner.New("ws://localhost:"+port+"/ws", seed, logger)
	for _, name := range names {
		if err := sp.Spawn(spawner.Spec{Command: exe, Args: []string{"bot", name}}); err != nil {
			return nil, err
		}
	}
	return sp, nil
}
