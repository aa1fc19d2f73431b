package main

import (
	"fmt"
	rand "math/rand/v2"
	"os"
	"runtime"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/lox/threecard/cmd/threecard/shared"
	"github.com/lox/threecard/internal/fileutil"
	"github.com/lox/threecard/internal/game"
	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/internal/simulator"
	"github.com/lox/threecard/sdk"
	"github.com/lox/threecard/sdk/strategy"
	"github.com/muesli/termenv"
)

// SimulateCmd plays the heuristic bot against a baseline in-process
type SimulateCmd struct {
	Opponent  string        `default:"calling-station" help:"Opponent bot (calling-station, random, aggressive, discard)"`
	Matches   int           `default:"4" help:"Number of matches to play"`
	Rounds    int           `default:"1000" help:"Rounds per match"`
	Parallel  int           `default:"0" help:"Matches run at once (0 uses every CPU)"`
	Seed      int64         `help:"Base seed; each match derives its own (0 picks one from the clock)"`
	Duplicate bool          `help:"Replay every match with the same cards and seats swapped"`
	Timeout   time.Duration `default:"5m" help:"Abort a match that runs longer than this (0 disables)"`
	Weights   string        `type:"path" help:"HCL file of strategy weight overrides"`
	NoColor   bool          `help:"Disable colors in the report"`
	Output    string        `type:"path" help:"Also write a JSON summary to this file"`
	LogLevel  string        `default:"warn" help:"Log level (debug|info|warn|error)"`
}

func (c *SimulateCmd) Run() error {
	logger, err := shared.SetupLogger(c.LogLevel, false)
	if err != nil {
		return err
	}

	weights := strategy.DefaultWeights()
	if c.Weights != "" {
		if weights, err = strategy.LoadWeights(c.Weights); err != nil {
			return err
		}
	}
	if _, ok := botHandlers[c.Opponent]; !ok {
		return fmt.Errorf("unknown bot: %s (available: %s)", c.Opponent, botNames())
	}

	rules := game.DefaultRules()
	rules.Rounds = c.Rounds

	parallel := c.Parallel
	if parallel <= 0 {
		parallel = runtime.NumCPU()
	}

	ctx, cancel := shared.SetupSignalHandler(logger)
	defer cancel()

	cfg := simulationConfig(rules, c.Opponent, weights, randutil.Seed(c.Seed), logger)
	cfg.Matches = c.Matches
	cfg.Parallel = parallel
	cfg.Duplicate = c.Duplicate
	cfg.Timeout = c.Timeout

	res, err := simulator.New(cfg).Run(ctx)
	if err != nil {
		return err
	}

	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	renderReport(os.Stdout, cfg, res)

	if c.Output != "" {
		if err := fileutil.WriteJSON(c.Output, summarize(cfg, res)); err != nil {
			return fmt.Errorf("writing %s: %w", c.Output, err)
		}
		logger.Info("Wrote summary", "path", c.Output)
	}
	return nil
}

// simulationConfig pits the discard bot against the named opponent
func simulationConfig(rules game.Rules, opponent string, weights strategy.Weights, seed int64, logger *log.Logger) simulator.Config {
	factory := func(name string) simulator.Factory {
		return func(rng *rand.Rand, logger *log.Logger) (sdk.Handler, error) {
			return newBot(name, botDeps{logger: logger, rng: rng, weights: weights})
		}
	}
	return simulator.Config{
		Rules:        rules,
		Hero:         factory("discard"),
		HeroName:     "discard",
		Opponent:     factory(opponent),
		OpponentName: opponent,
		Matches:      1,
		Parallel:     1,
		Seed:         seed,
		Logger:       logger,
	}
}

// simulationSummary is the JSON form of a simulation written by --output
type simulationSummary struct {
	Opponent   string     `json:"opponent"`
	Seed       int64      `json:"seed"`
	Duplicate  bool       `json:"duplicate"`
	Games      int        `json:"games"`
	Rounds     int        `json:"rounds"`
	Won        int        `json:"games_won"`
	Bankroll   int        `json:"bankroll"`
	BBPerRound float64    `json:"bb_per_round"`
	CI95       [2]float64 `json:"ci95"`
	Illegal    int        `json:"illegal"`
	Timeouts   int        `json:"timeouts"`
	Showdowns  int        `json:"showdown_wins"`
	Elapsed    string     `json:"elapsed"`
}

func summarize(cfg simulator.Config, res *simulator.Result) simulationSummary {
	lo, hi := res.Stats.ConfidenceInterval95()
	return simulationSummary{
		Opponent:   cfg.OpponentName,
		Seed:       cfg.Seed,
		Duplicate:  cfg.Duplicate,
		Games:      len(res.Games),
		Rounds:     res.Stats.Rounds,
		Won:        res.Won,
		Bankroll:   res.Bankroll,
		BBPerRound: res.Stats.Mean(),
		CI95:       [2]float64{lo, hi},
		Illegal:    res.Illegal,
		Timeouts:   res.Timeouts,
		Showdowns:  res.Stats.ShowdownWins,
		Elapsed:    res.Elapsed.Round(time.Millisecond).String(),
	}
}
