package strategy

import (
	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
)

// BettingPolicy is a fixed mixed strategy over fold, call, check and raise.
// It looks only at hand strength, the legal set and the raise bounds.
type BettingPolicy struct {
	w   Weights
	rng Source
}

// NewBettingPolicy creates a policy with the given weights.
func NewBettingPolicy(w Weights, rng Source) *BettingPolicy {
	return &BettingPolicy{w: w, rng: rng}
}

// Decide picks a non-discard action from view.Legal.
func (p *BettingPolicy) Decide(view sdk.RoundView) sdk.Action {
	if view.Legal.Has(sdk.ActionRaise) {
		if p.IsStrong(view.HoleCards) {
			return sdk.Raise{Amount: min(view.Bounds.Min*p.w.RaiseMultiplier, view.Bounds.Max)}
		}
		if p.rng.Float64() < p.w.RaiseProbability {
			return sdk.Raise{Amount: view.Bounds.Min}
		}
	}

	if view.Legal.Has(sdk.ActionCheck) {
		return sdk.Check{}
	}

	fold := p.rng.Float64() < p.w.FoldProbability
	switch {
	case fold && view.Legal.Has(sdk.ActionFold):
		return sdk.Fold{}
	case view.Legal.Has(sdk.ActionCall):
		return sdk.Call{}
	default:
		return sdk.Fold{}
	}
}

// IsStrong reports whether every hole card is at or above StrongRank.
func (p *BettingPolicy) IsStrong(cards []poker.Card) bool {
	if len(cards) == 0 {
		return false
	}
	for _, c := range cards {
		if c.Rank() < p.w.StrongRank {
			return false
		}
	}
	return true
}
