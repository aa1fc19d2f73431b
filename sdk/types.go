package sdk

import (
	"time"

	"github.com/lox/threecard/poker"
)

// Streets, numbered by the board size at which betting or discarding happens
const (
	StreetPreflop = 0
	StreetFlop    = 2 // discard phase
	StreetTurn    = 4
	StreetRiver   = 5
)

// StreetName returns a readable name for a street number
func StreetName(street int) string {
	switch street {
	case StreetPreflop:
		return "preflop"
	case StreetFlop:
		return "flop"
	case StreetTurn:
		return "turn"
	case StreetRiver:
		return "river"
	default:
		return "unknown"
	}
}

// Handler defines the interface for bot decision-making
type Handler interface {
	// OnRoundStart is called when a new round begins
	OnRoundStart(start RoundStart) error

	// OnActionRequest is called when the bot needs to act; the returned
	// action must be in view.Legal
	OnActionRequest(view RoundView) (Action, error)

	// OnRoundOver is called when a round completes
	OnRoundOver(result RoundResult) error
}

// RoundStart carries the state known when a round is dealt
type RoundStart struct {
	Round     int           // 1-based round number
	Seat      int           // 0 posts the small blind, 1 the big blind
	Bankroll  int           // chips won or lost before this round
	GameClock time.Duration // decision time left for the whole game
	HoleCards []poker.Card
}

// BigBlind reports whether the bot posts the big blind this round
func (s RoundStart) BigBlind() bool {
	return s.Seat == 1
}

// RoundView is the read-only snapshot handed to a bot for one decision
type RoundView struct {
	Round     int
	Seat      int
	Street    int
	Legal     LegalActions
	Bounds    RaiseBounds // meaningful only when Legal has ActionRaise
	HoleCards []poker.Card
	Board     poker.Board
	MyPip     int
	OppPip    int
	MyStack   int
	OppStack  int
	Bankroll  int
	GameClock time.Duration
}

// ContinueCost returns the chips needed to stay in the pot
func (v RoundView) ContinueCost() int {
	return v.OppPip - v.MyPip
}

// OpponentDiscard returns the opponent's discarded card when it is already
// visible as the board's third card at discard time.
func (v RoundView) OpponentDiscard() (poker.Card, bool) {
	if v.Street != StreetFlop || len(v.Board) != 3 {
		return poker.Card{}, false
	}
	return v.Board[2], true
}

// RoundResult describes how a round ended
type RoundResult struct {
	Round         int
	Seat          int
	Delta         int // bankroll change from this round
	Street        int // street on which the round ended
	HoleCards     []poker.Card
	OpponentCards []poker.Card // empty unless shown down
	Board         poker.Board
}
