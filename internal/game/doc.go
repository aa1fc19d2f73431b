// Package game implements the heads-up rules of the three-card discard
// variant and a match runner that plays bots against each other.
//
// The main type is Round, which holds one deal: blinds, the betting streets,
// the discard phase and the showdown. Seat 0 posts the small blind and acts
// first preflop; seat 1 acts first on every later street, so it also
// discards first and seat 0 sees that discard as the third board card.
//
// # Streets
//
//	preflop (0 board cards)  betting
//	flop    (2 board cards)  each side discards one hole card onto the board
//	turn    (4 board cards)  betting
//	river   (5 board cards)  betting, then showdown on 2 hole + 5 board
//
// # Deterministic Testing
//
// Rounds draw from a poker.Deck built on an injected *rand.Rand, and the
// Match runner measures decision time on an injected quartz.Clock:
//
//	m := game.NewMatch(game.DefaultRules(), a, b, randutil.New(42),
//	    game.WithClock(quartz.NewMock(t)))
//	res, err := m.Run(ctx)
package game
