package main

import (
	"github.com/lox/threecard/cmd/threecard/shared"
	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/sdk/bot"
	"github.com/lox/threecard/sdk/config"
	"github.com/lox/threecard/sdk/strategy"
)

type BotCmd struct {
	Name     string `arg:"" optional:"" default:"discard" help:"Bot type (discard, calling-station, random, aggressive)"`
	Server   string `help:"WebSocket dealer URL (default: THREECARD_SERVER, else ws://localhost:8080/ws)"`
	ID       string `help:"Bot name sent to the dealer (auto-generated when empty)"`
	Weights  string `type:"path" help:"HCL file of strategy weight overrides"`
	Seed     int64  `help:"Random seed (0 picks one from the clock)"`
	EnvFile  string `default:".env" help:"Dotenv file with THREECARD_* settings"`
	LogLevel string `default:"info" help:"Log level (debug|info|warn|error)"`
	LogJSON  bool   `help:"Output JSON logs instead of console format"`
}

const defaultServerURL = "ws://localhost:8080/ws"

// applyEnv fills the settings no flag was given for from env, which may be nil
func (c *BotCmd) applyEnv(env *config.BotConfig) {
	if env != nil {
		if c.Server == "" {
			c.Server = env.ServerURL
		}
		if c.Weights == "" {
			c.Weights = env.WeightsFile
		}
		if c.Seed == 0 {
			c.Seed = env.Seed
		}
	}
	if c.Server == "" {
		c.Server = defaultServerURL
	}
}

func (c *BotCmd) Run() error {
	logger, err := shared.SetupLogger(c.LogLevel, c.LogJSON)
	if err != nil {
		return err
	}

	// Flags win over the environment
	env, err := config.Load(c.EnvFile)
	if err != nil {
		logger.Debug("No environment config", "error", err)
	}
	c.applyEnv(env)

	weights := strategy.DefaultWeights()
	if c.Weights != "" {
		if weights, err = strategy.LoadWeights(c.Weights); err != nil {
			return err
		}
	}

	seed := randutil.Seed(c.Seed)
	rng := randutil.New(seed)
	handler, err := newBot(c.Name, botDeps{logger: logger, rng: rng, weights: weights})
	if err != nil {
		return err
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	logger.Info("Starting bot", "bot", c.Name, "seed", seed)
	res, err := bot.Run(ctx, handler, c.Server, c.ID,
		bot.WithPrefix(botPrefixes[c.Name]),
		bot.WithLogger(logger),
		bot.WithRNG(rng),
	)
	if ctx.Err() != nil {
		return nil
	}
	if err != nil {
		return err
	}
	if res != nil {
		logger.Info("Match finished", "match", res.Match, "rounds", res.Rounds, "bankroll", res.Bankroll, "opponent", res.Opponent)
	}
	return nil
}
