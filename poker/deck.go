package poker

import (
	rand "math/rand/v2"
)

// Deck represents a standard 52-card deck
type Deck struct {
	cards [52]Card // Fixed size array
	next  int
	rng   *rand.Rand // Random source for deterministic shuffling
}

// NewDeck creates a new shuffled deck with explicit RNG
func NewDeck(rng *rand.Rand) *Deck {
	d := &Deck{rng: rng}

	i := 0
	for s := range len(suitSymbols) {
		for r := range NumRanks {
			d.cards[i] = NewCard(Rank(r), suitSymbols[s])
			i++
		}
	}

	d.Shuffle()
	return d
}

// Shuffle shuffles the deck using Fisher-Yates
func (d *Deck) Shuffle() {
	d.next = 0
	d.rng.Shuffle(len(d.cards), func(i, j int) {
		d.cards[i], d.cards[j] = d.cards[j], d.cards[i]
	})
}

// Deal deals n cards from the deck. It returns nil when fewer than n remain.
func (d *Deck) Deal(n int) []Card {
	if d.next+n > len(d.cards) {
		return nil
	}
	cards := make([]Card, n)
	copy(cards, d.cards[d.next:d.next+n])
	d.next += n
	return cards
}

// CardsRemaining returns the number of cards left in the deck
func (d *Deck) CardsRemaining() int {
	return len(d.cards) - d.next
}

// NewStackedDeck returns a deck that deals the given cards in order,
// followed by the rest of the standard deck in suit-major order.
func NewStackedDeck(top ...Card) *Deck {
	d := &Deck{}
	seen := make(map[Card]bool, len(top))
	i := 0
	for _, c := range top {
		if seen[c] || i == len(d.cards) {
			continue
		}
		seen[c] = true
		d.cards[i] = c
		i++
	}
	for s := range len(suitSymbols) {
		for r := range NumRanks {
			c := NewCard(Rank(r), suitSymbols[s])
			if !seen[c] {
				d.cards[i] = c
				i++
			}
		}
	}
	return d
}
