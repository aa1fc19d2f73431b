// Package simulator plays a hero bot against an opponent in-process over many
// matches and aggregates the hero's results.
package simulator

import (
	"context"
	"errors"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/threecard/internal/game"
	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/internal/statistics"
	"github.com/lox/threecard/sdk"
	"golang.org/x/sync/errgroup"
)

// ErrMatchTimeout is returned when a match exceeds Config.Timeout
var ErrMatchTimeout = errors.New("match timed out")

// Factory builds a fresh handler for one match
type Factory func(rng *rand.Rand, logger *log.Logger) (sdk.Handler, error)

// Config holds configuration for running simulations
type Config struct {
	Rules        game.Rules
	Hero         Factory
	HeroName     string
	Opponent     Factory
	OpponentName string

	Matches  int
	Parallel int   // matches run at once, at least one
	Seed     int64 // every match derives its own seeds from this

	// Duplicate replays every match with the same cards and the players'
	// seats swapped, so the hero plays both sides of every deal.
	Duplicate bool

	Timeout time.Duration // per match, zero for none
	Logger  *log.Logger
}

// Game is one played match
type Game struct {
	Match   int // 1-based match number
	Swapped bool
	Hero    int // index of the hero in Result.Players
	Result  game.Result
}

// HeroStats returns the hero's side of the match
func (g Game) HeroStats() game.PlayerStats {
	return g.Result.Players[g.Hero]
}

// Result aggregates every game from the hero's side
type Result struct {
	Games    []Game
	Stats    statistics.Statistics
	Bankroll int
	Won      int // games with a positive hero bankroll
	Illegal  int
	Timeouts int
	Elapsed  time.Duration
}

// Simulator runs matches between two bots
type Simulator struct {
	config Config
}

// New creates a new simulator with the given configuration
func New(config Config) *Simulator {
	if config.Logger == nil {
		config.Logger = log.New(io.Discard)
	}
	if config.HeroName == "" {
		config.HeroName = "hero"
	}
	if config.OpponentName == "" {
		config.OpponentName = "opponent"
	}
	config.Parallel = max(config.Parallel, 1)
	return &Simulator{config: config}
}

// Run plays every match and returns the hero's aggregate results. Results
// depend only on the configuration, not on scheduling.
func (s *Simulator) Run(ctx context.Context) (*Result, error) {
	cfg := s.config
	if err := cfg.Rules.Validate(); err != nil {
		return nil, err
	}
	if cfg.Hero == nil || cfg.Opponent == nil {
		return nil, errors.New("simulator needs a hero and an opponent")
	}
	if cfg.Matches < 1 {
		return nil, fmt.Errorf("invalid match count: %d", cfg.Matches)
	}

	start := time.Now()
	plays := 1
	if cfg.Duplicate {
		plays = 2
	}

	games := make([]Game, cfg.Matches*plays)
	recorders := make([]*statistics.Recorder, len(games))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Parallel)

	for i := range games {
		g.Go(func() error {
			match, swapped := i/plays, i%plays == 1
			played, rec, err := s.play(gctx, match, swapped)
			if err != nil {
				return err
			}
			games[i], recorders[i] = played, rec
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res := &Result{Games: games}
	for i, played := range games {
		hero := played.HeroStats()
		res.Bankroll += hero.Bankroll
		res.Illegal += hero.Illegal
		res.Timeouts += hero.Timeouts
		if hero.Bankroll > 0 {
			res.Won++
		}
		stats := recorders[i].Stats()
		res.Stats.Merge(&stats)
	}
	res.Elapsed = time.Since(start)

	if err := res.Stats.Validate(); err != nil {
		return nil, fmt.Errorf("statistics validation failed: %w", err)
	}
	return res, nil
}

// play runs match number n, with the hero as player b when swapped. Both
// plays of a match share their seeds.
func (s *Simulator) play(ctx context.Context, n int, swapped bool) (Game, *statistics.Recorder, error) {
	cfg := s.config
	logger := cfg.Logger.With("match", n+1, "swapped", swapped)

	heroHandler, err := cfg.Hero(randutil.New(randutil.Derive(cfg.Seed, 3*n)), logger)
	if err != nil {
		return Game{}, nil, fmt.Errorf("hero: %w", err)
	}
	opp, err := cfg.Opponent(randutil.New(randutil.Derive(cfg.Seed, 3*n+1)), logger)
	if err != nil {
		return Game{}, nil, fmt.Errorf("opponent: %w", err)
	}

	rec := statistics.NewRecorder(heroHandler, cfg.Rules.BigBlind)
	hero := game.Player{Name: cfg.HeroName, Handler: rec}
	villain := game.Player{Name: cfg.OpponentName, Handler: opp}

	a, b, heroIdx := hero, villain, 0
	if swapped {
		a, b, heroIdx = villain, hero, 1
	}

	if cfg.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeoutCause(ctx, cfg.Timeout, ErrMatchTimeout)
		defer cancel()
	}

	m := game.NewMatch(cfg.Rules, a, b,
		randutil.New(randutil.Derive(cfg.Seed, 3*n+2)),
		game.WithClock(quartz.NewReal()),
		game.WithLogger(logger))

	// The match only sees ctx between rounds, so a handler stuck inside a
	// decision is abandoned rather than waited for
	type outcome struct {
		res game.Result
		err error
	}
	done := make(chan outcome, 1)
	go func() {
		res, err := m.Run(ctx)
		done <- outcome{res, err}
	}()

	var res game.Result
	select {
	case out := <-done:
		res, err = out.res, out.err
	case <-ctx.Done():
		return Game{}, nil, fmt.Errorf("match %d: %w", n+1, context.Cause(ctx))
	}
	if err != nil {
		if cause := context.Cause(ctx); errors.Is(cause, ErrMatchTimeout) {
			err = cause
		}
		return Game{}, nil, fmt.Errorf("match %d after %d rounds: %w", n+1, res.Rounds, err)
	}
	logger.Info("Match complete", "bankroll", res.Players[heroIdx].Bankroll)

	return Game{Match: n + 1, Swapped: swapped, Hero: heroIdx, Result: res}, rec, nil
}
