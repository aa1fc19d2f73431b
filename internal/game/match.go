package game

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
)

// Player is a named bot taking part in a match.
type Player struct {
	Name    string
	Handler sdk.Handler
}

// PlayerStats summarises one player's match.
type PlayerStats struct {
	Name      string
	Bankroll  int
	Wins      int // rounds with a positive delta
	Decisions int
	Illegal   int // actions replaced because they were not legal
	Timeouts  int // actions replaced because the game clock ran out
	ClockLeft time.Duration
}

// Result is the outcome of a match. Players are in the order given to NewMatch.
type Result struct {
	Rounds    int
	Showdowns int
	Players   [2]PlayerStats
}

// Match plays a fixed number of rounds between two players, alternating
// blinds every round.
type Match struct {
	rules   Rules
	players [2]Player
	rng     *rand.Rand
	clock   quartz.Clock
	logger  *log.Logger

	stats [2]PlayerStats
}

// Option configures a Match
type Option func(*Match)

// WithClock sets the clock used to charge decision time
func WithClock(clock quartz.Clock) Option {
	return func(m *Match) {
		m.clock = clock
	}
}

// WithLogger sets the match logger
func WithLogger(logger *log.Logger) Option {
	return func(m *Match) {
		m.logger = logger
	}
}

// NewMatch creates a match. rng drives every shuffle.
func NewMatch(rules Rules, a, b Player, rng *rand.Rand, opts ...Option) *Match {
	m := &Match{
		rules:   rules,
		players: [2]Player{a, b},
		rng:     rng,
		clock:   quartz.NewReal(),
		logger:  log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(m)
	}
	for i, p := range m.players {
		m.stats[i] = PlayerStats{Name: p.Name, ClockLeft: rules.GameClock}
	}
	return m
}

// Run plays the match. On cancellation it stops between rounds and returns
// the partial result with the context error.
func (m *Match) Run(ctx context.Context) (Result, error) {
	if err := m.rules.Validate(); err != nil {
		return Result{}, fmt.Errorf("invalid rules: %w", err)
	}

	res := Result{}
	for n := 1; n <= m.rules.Rounds; n++ {
		if err := ctx.Err(); err != nil {
			res.Players = m.stats
			return res, err
		}

		showdown, err := m.playRound(n)
		if err != nil {
			res.Players = m.stats
			return res, fmt.Errorf("round %d: %w", n, err)
		}
		res.Rounds++
		if showdown {
			res.Showdowns++
		}
	}

	res.Players = m.stats
	m.logger.Info("Match complete",
		"rounds", res.Rounds,
		m.stats[0].Name, m.stats[0].Bankroll,
		m.stats[1].Name, m.stats[1].Bankroll)
	return res, nil
}

// seatPlayer maps a seat to a player index for round n.
func seatPlayer(n, seat int) int {
	return (seat + n + 1) % 2
}

func (m *Match) playRound(n int) (bool, error) {
	round := NewRound(m.rules, poker.NewDeck(m.rng))

	for seat := range 2 {
		p := seatPlayer(n, seat)
		start := sdk.RoundStart{
			Round:     n,
			Seat:      seat,
			Bankroll:  m.stats[p].Bankroll,
			GameClock: m.stats[p].ClockLeft,
			HoleCards: round.Hand(seat),
		}
		if err := m.players[p].Handler.OnRoundStart(start); err != nil {
			m.logger.Warn("OnRoundStart error", "player", m.players[p].Name, "error", err)
		}
	}

	for !round.Done() {
		seat := round.Active()
		p := seatPlayer(n, seat)

		view := round.View(seat)
		view.Round = n
		view.Bankroll = m.stats[p].Bankroll
		view.GameClock = m.stats[p].ClockLeft

		if err := round.Apply(m.decide(p, view)); err != nil {
			return false, err
		}
	}

	deltas := round.Deltas()
	for seat := range 2 {
		p := seatPlayer(n, seat)
		m.stats[p].Bankroll += deltas[seat]
		if deltas[seat] > 0 {
			m.stats[p].Wins++
		}

		result := sdk.RoundResult{
			Round:     n,
			Seat:      seat,
			Delta:     deltas[seat],
			Street:    round.Street(),
			HoleCards: round.Hand(seat),
			Board:     round.Board(),
		}
		if round.Showdown() {
			result.OpponentCards = round.Hand(1 - seat)
		}
		if err := m.players[p].Handler.OnRoundOver(result); err != nil {
			m.logger.Warn("OnRoundOver error", "player", m.players[p].Name, "error", err)
		}
	}

	m.logger.Debug("Round complete", "round", n, "street", sdk.StreetName(round.Street()),
		"showdown", round.Showdown(), "deltas", deltas)
	return round.Showdown(), nil
}

// decide asks player p for an action, charging its game clock and replacing
// late or illegal answers with a passive default.
func (m *Match) decide(p int, view sdk.RoundView) sdk.Action {
	stats := &m.stats[p]
	name := m.players[p].Name

	if stats.ClockLeft <= 0 {
		stats.Timeouts++
		return sdk.Passive(view.Legal)
	}

	start := m.clock.Now()
	action, err := m.players[p].Handler.OnActionRequest(view)
	stats.ClockLeft -= m.clock.Since(start)
	stats.Decisions++

	switch {
	case stats.ClockLeft <= 0:
		m.logger.Warn("Game clock exhausted", "player", name, "round", view.Round)
		stats.Timeouts++
		return sdk.Passive(view.Legal)
	case err != nil:
		m.logger.Warn("OnActionRequest error", "player", name, "error", err)
		stats.Illegal++
		return sdk.Passive(view.Legal)
	}

	if err := view.Legal.Validate(action, view.Bounds); err != nil {
		m.logger.Warn("Illegal action replaced", "player", name, "round", view.Round, "error", err)
		stats.Illegal++
		return sdk.Passive(view.Legal)
	}
	return action
}
