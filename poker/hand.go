package poker

import "fmt"

// HandSize is the number of hole cards dealt to each side.
const HandSize = 3

// MaxBoard is the number of community cards on a completed board.
const MaxBoard = 5

// Hand is the three hole cards held before the discard. A discard
// references a card by its index.
type Hand [HandSize]Card

// NewHand builds a Hand from exactly three cards.
func NewHand(cards []Card) (Hand, error) {
	var h Hand
	if len(cards) != HandSize {
		return h, fmt.Errorf("hand needs %d cards, got %d", HandSize, len(cards))
	}
	copy(h[:], cards)
	return h, nil
}

// Cards returns the hand as a slice.
func (h Hand) Cards() []Card {
	return h[:]
}

// Board is the ordered list of community cards. In this variant the third
// card, once present, is the first discard made onto the board.
type Board []Card

// With returns a new board with c appended; the receiver is not modified.
func (b Board) With(c Card) Board {
	out := make(Board, len(b), len(b)+1)
	copy(out, b)
	return append(out, c)
}

// CountSuit returns how many board cards have the given suit.
func (b Board) CountSuit(suit byte) int {
	n := 0
	for _, c := range b {
		if c.suit == suit {
			n++
		}
	}
	return n
}

// DistinctRanks returns the board's ranks, deduplicated and sorted ascending.
func (b Board) DistinctRanks() []Rank {
	var seen [NumRanks]bool
	for _, c := range b {
		seen[c.rank] = true
	}
	ranks := make([]Rank, 0, len(b))
	for r, ok := range seen {
		if ok {
			ranks = append(ranks, Rank(r))
		}
	}
	return ranks
}
