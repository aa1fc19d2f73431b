package strategy

import (
	"math"

	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
)

// DiscardEvaluator picks which hole card to throw onto the board.
type DiscardEvaluator struct {
	w   Weights
	rng Source
}

// NewDiscardEvaluator creates an evaluator with the given weights.
func NewDiscardEvaluator(w Weights, rng Source) *DiscardEvaluator {
	return &DiscardEvaluator{w: w, rng: rng}
}

// Choose returns the discard for hand given the visible board. A small pair
// with a much higher kicker throws one of the paired cards; otherwise the
// card whose placement on the board scores least dangerous is thrown.
func (e *DiscardEvaluator) Choose(hand poker.Hand, board poker.Board) sdk.Discard {
	if i, ok := e.pairSplit(hand); ok {
		return sdk.Discard{Index: i}
	}

	best, bestScore := 0, math.Inf(1)
	for i, c := range hand {
		score := e.DangerScore(c, board) + e.w.Noise*e.rng.Float64()
		if score < bestScore {
			best, bestScore = i, score
		}
	}
	return sdk.Discard{Index: best}
}

// pairSplit returns the index of the first paired card when the hand is one
// pair plus a kicker more than PairSplitGap ranks above it.
func (e *DiscardEvaluator) pairSplit(hand poker.Hand) (int, bool) {
	var counts [poker.NumRanks]int
	for _, c := range hand {
		counts[c.Rank()]++
	}

	pair, kicker := -1, -1
	for _, c := range hand {
		switch counts[c.Rank()] {
		case 2:
			pair = int(c.Rank())
		case 1:
			kicker = int(c.Rank())
		}
	}
	if pair < 0 || kicker < 0 || kicker-pair <= e.w.PairSplitGap {
		return 0, false
	}

	for i, c := range hand {
		if int(c.Rank()) == pair {
			return i, true
		}
	}
	return 0, false
}

// DangerScore is the deterministic part of a candidate's score: how much
// putting card on the board helps the opponent. Lower is safer.
func (e *DiscardEvaluator) DangerScore(card poker.Card, board poker.Board) float64 {
	future := board.With(card)
	score := 0.0

	switch n := future.CountSuit(card.Suit()); {
	case n >= 3:
		score += e.w.FlushThree
	case n == 2:
		score += e.w.FlushTwo
	}

	// A run of k consecutive ranks is charged k-2 times.
	ranks := future.DistinctRanks()
	run := 0
	for j := 0; j+1 < len(ranks); j++ {
		if ranks[j+1] == ranks[j]+1 {
			run++
		} else {
			run = 0
		}
		if run >= 2 {
			score += e.w.StraightRun
		}
	}

	score += e.w.HighCard * float64(card.Rank())

	// With three board cards the third is the opponent's discard.
	if len(board) == 3 && board[2].Rank() == card.Rank() {
		score += e.w.OpponentPair
	}
	return score
}
