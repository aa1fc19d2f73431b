// Package poker holds the card model shared by the bot, the engine and the wire protocol.
package poker

import (
	"fmt"
	"strings"
)

// rankSymbols is the fixed rank ordering, lowest first.
const rankSymbols = "23456789TJQKA"

// suitSymbols lists the suits accepted by ParseCard, in deck order.
const suitSymbols = "cdhs"

// Rank is the ordinal of a card's rank, 0 for a deuce up to 12 for an ace.
type Rank uint8

// Rank constants (0-12 for 2-A)
const (
	Two Rank = iota
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// NumRanks is the number of distinct ranks.
const NumRanks = len(rankSymbols)

// String returns the single-character rank symbol.
func (r Rank) String() string {
	if int(r) >= NumRanks {
		return "?"
	}
	return rankSymbols[r : r+1]
}

// Suit symbols, normalised to lowercase.
const (
	Clubs    byte = 'c'
	Diamonds byte = 'd'
	Hearts   byte = 'h'
	Spades   byte = 's'
)

// Card is an immutable rank and suit pair.
type Card struct {
	rank Rank
	suit byte
}

// NewCard creates a card from a rank and a suit symbol. The suit is lowercased.
func NewCard(rank Rank, suit byte) Card {
	return Card{rank: rank, suit: lower(suit)}
}

// Rank returns the card's rank ordinal.
func (c Card) Rank() Rank { return c.rank }

// Suit returns the card's lowercase suit symbol.
func (c Card) Suit() byte { return c.suit }

// String returns the canonical two-character token, e.g. "As".
func (c Card) String() string {
	return c.rank.String() + string(c.suit)
}

// MarshalText encodes the card as its canonical token.
func (c Card) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText parses a card token.
func (c *Card) UnmarshalText(text []byte) error {
	parsed, err := ParseCard(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// RankOf returns the rank of a well-formed card token such as "Th". The rank
// symbol is case-insensitive, as in ParseCard. Malformed tokens are a caller
// bug and are not reported.
func RankOf(token string) Rank {
	return Rank(strings.IndexByte(rankSymbols, upper(token[0])))
}

// SuitOf returns the lowercase suit symbol of a well-formed card token.
func SuitOf(token string) byte {
	return lower(token[1])
}

// ParseCard parses a token like "As" or "tD". Rank symbols are uppercase
// ("T" for ten); the suit is case-insensitive.
func ParseCard(s string) (Card, error) {
	if len(s) != 2 {
		return Card{}, fmt.Errorf("invalid card %q: want 2 characters", s)
	}
	rank := strings.IndexByte(rankSymbols, upper(s[0]))
	if rank < 0 {
		return Card{}, fmt.Errorf("invalid card %q: unknown rank %q", s, s[0])
	}
	suit := lower(s[1])
	if strings.IndexByte(suitSymbols, suit) < 0 {
		return Card{}, fmt.Errorf("invalid card %q: unknown suit %q", s, s[1])
	}
	return Card{rank: Rank(rank), suit: suit}, nil
}

// ParseCards parses a list of card tokens.
func ParseCards(tokens ...string) ([]Card, error) {
	cards := make([]Card, 0, len(tokens))
	for _, tok := range tokens {
		c, err := ParseCard(tok)
		if err != nil {
			return nil, err
		}
		cards = append(cards, c)
	}
	return cards, nil
}

// ParseCardList parses a comma or space separated list such as "As,Kd 7h".
func ParseCardList(s string) ([]Card, error) {
	fields := strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ' ' })
	return ParseCards(fields...)
}

// MustParseCards is ParseCards for literals; it panics on a bad token.
func MustParseCards(tokens ...string) []Card {
	cards, err := ParseCards(tokens...)
	if err != nil {
		panic(err)
	}
	return cards
}

// Strings returns the canonical tokens of cards.
func Strings(cards []Card) []string {
	out := make([]string, len(cards))
	for i, c := range cards {
		out[i] = c.String()
	}
	return out
}

func lower(b byte) byte {
	if b >= 'A' && b <= 'Z' {
		return b + ('a' - 'A')
	}
	return b
}

func upper(b byte) byte {
	if b >= 'a' && b <= 'z' {
		return b - ('a' - 'A')
	}
	return b
}
