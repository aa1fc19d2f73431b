package game

import (
	"errors"
	"fmt"
	"slices"

	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
)

// ErrRoundOver is returned when an action is applied to a finished round.
var ErrRoundOver = errors.New("round is over")

// Round is the state of a single deal between seats 0 and 1.
type Round struct {
	rules Rules
	deck  *poker.Deck

	// button counts actions on the current street; the seat to act is
	// button%2. Streets after preflop start at 1 so seat 1 acts first.
	button int
	street int
	pips   [2]int
	stacks [2]int
	hands  [2][]poker.Card
	board  poker.Board

	done     bool
	showdown bool
	deltas   [2]int
}

// NewRound deals three hole cards to each seat and posts the blinds.
func NewRound(rules Rules, deck *poker.Deck) *Round {
	r := &Round{
		rules:  rules,
		deck:   deck,
		street: sdk.StreetPreflop,
		pips:   [2]int{rules.SmallBlind, rules.BigBlind},
		stacks: [2]int{rules.StartingStack - rules.SmallBlind, rules.StartingStack - rules.BigBlind},
	}
	r.hands[0] = deck.Deal(poker.HandSize)
	r.hands[1] = deck.Deal(poker.HandSize)
	return r
}

// Active returns the seat to act.
func (r *Round) Active() int { return r.button % 2 }

// Street returns the current street number.
func (r *Round) Street() int { return r.street }

// Done reports whether the round has ended.
func (r *Round) Done() bool { return r.done }

// Showdown reports whether the round ended at showdown.
func (r *Round) Showdown() bool { return r.showdown }

// Deltas returns each seat's chip result once the round is done.
func (r *Round) Deltas() [2]int { return r.deltas }

// Hand returns a copy of a seat's hole cards.
func (r *Round) Hand(seat int) []poker.Card { return slices.Clone(r.hands[seat]) }

// Board returns a copy of the community cards.
func (r *Round) Board() poker.Board { return slices.Clone(r.board) }

// Legal returns the actions available to the active seat.
func (r *Round) Legal() sdk.LegalActions {
	if r.done {
		return 0
	}
	if r.street == sdk.StreetFlop {
		return sdk.NewLegalActions(sdk.ActionDiscard)
	}

	a := r.Active()
	cost := r.pips[1-a] - r.pips[a]
	if cost == 0 {
		// Raising needs chips behind on both sides.
		if r.stacks[0] == 0 || r.stacks[1] == 0 {
			return sdk.NewLegalActions(sdk.ActionCheck)
		}
		return sdk.NewLegalActions(sdk.ActionCheck, sdk.ActionRaise)
	}
	if cost >= r.stacks[a] || r.stacks[1-a] == 0 {
		return sdk.NewLegalActions(sdk.ActionFold, sdk.ActionCall)
	}
	return sdk.NewLegalActions(sdk.ActionFold, sdk.ActionCall, sdk.ActionRaise)
}

// RaiseBounds returns the smallest and largest raise totals for the active
// seat. The result is only meaningful when Legal contains ActionRaise.
func (r *Round) RaiseBounds() sdk.RaiseBounds {
	a := r.Active()
	cost := r.pips[1-a] - r.pips[a]
	maxContribution := min(r.stacks[a], r.stacks[1-a]+cost)
	minContribution := min(maxContribution, cost+max(cost, r.rules.BigBlind))
	return sdk.RaiseBounds{Min: r.pips[a] + minContribution, Max: r.pips[a] + maxContribution}
}

// View returns the snapshot a seat sees. Only the active seat gets a
// non-empty legal set.
func (r *Round) View(seat int) sdk.RoundView {
	v := sdk.RoundView{
		Seat:      seat,
		Street:    r.street,
		HoleCards: r.Hand(seat),
		Board:     r.Board(),
		MyPip:     r.pips[seat],
		OppPip:    r.pips[1-seat],
		MyStack:   r.stacks[seat],
		OppStack:  r.stacks[1-seat],
	}
	if seat == r.Active() {
		v.Legal = r.Legal()
		if v.Legal.Has(sdk.ActionRaise) {
			v.Bounds = r.RaiseBounds()
		}
	}
	return v
}

// Apply plays an action for the active seat.
func (r *Round) Apply(action sdk.Action) error {
	if r.done {
		return ErrRoundOver
	}
	if err := r.Legal().Validate(action, r.RaiseBounds()); err != nil {
		return err
	}

	a := r.Active()
	switch act := action.(type) {
	case sdk.Fold:
		lost := r.rules.StartingStack - r.stacks[a]
		r.deltas[a], r.deltas[1-a] = -lost, lost
		r.done = true

	case sdk.Call:
		r.contribute(a, r.pips[1-a])
		// The small blind completing preflop leaves the big blind its option.
		if r.street == sdk.StreetPreflop && r.button == 0 {
			r.button = 1
			return nil
		}
		return r.nextStreet()

	case sdk.Check:
		if (r.street == sdk.StreetPreflop && r.button > 0) || r.button > 1 {
			return r.nextStreet()
		}
		r.button++

	case sdk.Raise:
		r.contribute(a, act.Amount)
		r.button++

	case sdk.Discard:
		card := r.hands[a][act.Index]
		r.hands[a] = slices.Delete(slices.Clone(r.hands[a]), act.Index, act.Index+1)
		r.board = append(r.board, card)
		if r.button > 1 {
			return r.nextStreet()
		}
		r.button++
	}
	return nil
}

// contribute raises a seat's pip to total.
func (r *Round) contribute(seat, total int) {
	r.stacks[seat] -= total - r.pips[seat]
	r.pips[seat] = total
}

func (r *Round) nextStreet() error {
	switch r.street {
	case sdk.StreetPreflop:
		r.board = append(r.board, r.deck.Deal(2)...)
		r.street = sdk.StreetFlop
	case sdk.StreetFlop:
		// Both discards are already on the board.
		r.street = sdk.StreetTurn
	case sdk.StreetTurn:
		r.board = append(r.board, r.deck.Deal(1)...)
		r.street = sdk.StreetRiver
	default:
		return r.settle()
	}
	r.button = 1
	r.pips = [2]int{}
	return nil
}

func (r *Round) settle() error {
	s0, err := poker.Evaluate(r.hands[0], r.board)
	if err != nil {
		return fmt.Errorf("seat 0 showdown: %w", err)
	}
	s1, err := poker.Evaluate(r.hands[1], r.board)
	if err != nil {
		return fmt.Errorf("seat 1 showdown: %w", err)
	}

	switch {
	case s0 > s1:
		r.deltas[0] = r.rules.StartingStack - r.stacks[1]
	case s1 > s0:
		r.deltas[0] = r.stacks[0] - r.rules.StartingStack
	default:
		r.deltas[0] = (r.stacks[0] - r.stacks[1]) / 2
	}
	r.deltas[1] = -r.deltas[0]
	r.done = true
	r.showdown = true
	return nil
}
