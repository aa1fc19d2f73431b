package poker

import (
	"fmt"

	ph "github.com/paulhankin/poker"
)

// Score ranks a seven-card holding; higher is stronger.
type Score int16

// Evaluate scores two hole cards plus a complete five-card board.
func Evaluate(hole []Card, board Board) (Score, error) {
	if len(hole)+len(board) != 7 {
		return 0, fmt.Errorf("showdown needs 7 cards, got %d hole and %d board", len(hole), len(board))
	}
	var seven [7]ph.Card
	i := 0
	for _, group := range [][]Card{hole, board} {
		for _, c := range group {
			pc, err := toLibrary(c)
			if err != nil {
				return 0, err
			}
			seven[i] = pc
			i++
		}
	}
	return Score(ph.Eval7(&seven)), nil
}

// Describe names the best five-card hand in a seven-card holding, e.g. "flush".
func Describe(hole []Card, board Board) (string, error) {
	cards := make([]ph.Card, 0, len(hole)+len(board))
	for _, group := range [][]Card{hole, board} {
		for _, c := range group {
			pc, err := toLibrary(c)
			if err != nil {
				return "", err
			}
			cards = append(cards, pc)
		}
	}
	return ph.Describe(cards)
}

// toLibrary converts to the evaluator's card. Its ranks run 1..13 with the
// ace low at 1.
func toLibrary(c Card) (ph.Card, error) {
	var s ph.Suit
	switch c.suit {
	case Clubs:
		s = ph.Club
	case Diamonds:
		s = ph.Diamond
	case Hearts:
		s = ph.Heart
	case Spades:
		s = ph.Spade
	default:
		return 0, fmt.Errorf("card %s: unknown suit", c)
	}
	r := ph.Rank(c.rank + 2)
	if c.rank == Ace {
		r = ph.Rank(1)
	}
	return ph.MakeCard(s, r)
}
