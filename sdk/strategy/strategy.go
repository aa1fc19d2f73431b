// Package strategy implements the discard and betting heuristics of the
// three-card discard bot.
//
// Both heuristics draw randomness from an injected Source so that a fixed
// seed reproduces every decision. Strategy values are not safe for
// concurrent use; each bot owns its own.
package strategy

import (
	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
)

// Source supplies uniform floats in [0, 1). A *rand.Rand from math/rand/v2
// satisfies it.
type Source interface {
	Float64() float64
}

// Strategy routes a decision to the discard evaluator when a discard is
// legal and to the betting policy otherwise.
type Strategy struct {
	discard *DiscardEvaluator
	betting *BettingPolicy
}

// New creates a Strategy sharing one random source between both heuristics.
func New(w Weights, rng Source) *Strategy {
	return &Strategy{
		discard: NewDiscardEvaluator(w, rng),
		betting: NewBettingPolicy(w, rng),
	}
}

// Decide returns exactly one action from view.Legal.
func (s *Strategy) Decide(view sdk.RoundView) sdk.Action {
	if view.Legal.Has(sdk.ActionDiscard) {
		var hand poker.Hand
		copy(hand[:], view.HoleCards)
		return s.discard.Choose(hand, view.Board)
	}
	return s.betting.Decide(view)
}
