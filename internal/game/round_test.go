package game

import (
	"testing"

	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stackedRound deals seat 0 "As Ks Qs", seat 1 "2c 7d 9h", then a flop of
// "Ah 3c", a turn card "4d" and nothing else of note.
func stackedRound(t *testing.T) *Round {
	t.Helper()
	deck := poker.NewStackedDeck(poker.MustParseCards("As", "Ks", "Qs", "2c", "7d", "9h", "Ah", "3c", "4d")...)
	return NewRound(DefaultRules(), deck)
}

func mustApply(t *testing.T, r *Round, actions ...sdk.Action) {
	t.Helper()
	for _, a := range actions {
		require.NoError(t, r.Apply(a), "apply %s", a)
	}
}

func TestNewRoundPostsBlinds(t *testing.T) {
	r := stackedRound(t)

	assert.Equal(t, 0, r.Active())
	assert.Equal(t, sdk.StreetPreflop, r.Street())
	assert.Equal(t, poker.MustParseCards("As", "Ks", "Qs"), r.Hand(0))
	assert.Equal(t, poker.MustParseCards("2c", "7d", "9h"), r.Hand(1))
	assert.Empty(t, r.Board())

	v := r.View(0)
	assert.Equal(t, 1, v.MyPip)
	assert.Equal(t, 2, v.OppPip)
	assert.Equal(t, 399, v.MyStack)
	assert.Equal(t, 398, v.OppStack)
	assert.Equal(t, 1, v.ContinueCost())
}

func TestPreflopLegalActionsAndBounds(t *testing.T) {
	r := stackedRound(t)

	assert.Equal(t, sdk.NewLegalActions(sdk.ActionFold, sdk.ActionCall, sdk.ActionRaise), r.Legal())
	assert.Equal(t, sdk.RaiseBounds{Min: 4, Max: 400}, r.RaiseBounds())

	// The waiting seat sees no legal actions.
	assert.Zero(t, r.View(1).Legal)
}

func TestBigBlindOptionAfterCall(t *testing.T) {
	r := stackedRound(t)
	mustApply(t, r, sdk.Call{})

	assert.Equal(t, 1, r.Active())
	assert.Equal(t, sdk.StreetPreflop, r.Street())
	assert.Equal(t, sdk.NewLegalActions(sdk.ActionCheck, sdk.ActionRaise), r.Legal())
}

func TestDiscardPhase(t *testing.T) {
	r := stackedRound(t)
	mustApply(t, r, sdk.Call{}, sdk.Check{})

	require.Equal(t, sdk.StreetFlop, r.Street())
	assert.Equal(t, poker.MustParseCards("Ah", "3c"), []poker.Card(r.Board()))
	assert.Equal(t, 1, r.Active(), "big blind discards first")
	assert.Equal(t, sdk.NewLegalActions(sdk.ActionDiscard), r.Legal())

	_, ok := r.View(1).OpponentDiscard()
	assert.False(t, ok, "first discarder sees no opponent discard")

	mustApply(t, r, sdk.Discard{Index: 0})
	assert.Equal(t, poker.MustParseCards("7d", "9h"), r.Hand(1))
	assert.Len(t, r.Board(), 3)

	v := r.View(0)
	card, ok := v.OpponentDiscard()
	require.True(t, ok)
	assert.Equal(t, poker.MustParseCards("2c")[0], card)
	assert.Len(t, v.HoleCards, 3)

	mustApply(t, r, sdk.Discard{Index: 2})
	assert.Equal(t, sdk.StreetTurn, r.Street())
	assert.Equal(t, poker.MustParseCards("As", "Ks"), r.Hand(0))
	assert.Len(t, r.Board(), 4)
	assert.Equal(t, 1, r.Active())
	assert.Equal(t, sdk.NewLegalActions(sdk.ActionCheck, sdk.ActionRaise), r.Legal())
}

func TestShowdown(t *testing.T) {
	r := stackedRound(t)
	mustApply(t, r,
		sdk.Call{}, sdk.Check{}, // preflop
		sdk.Discard{Index: 0}, sdk.Discard{Index: 2}, // flop
		sdk.Check{}, sdk.Check{}, // turn
	)
	require.Equal(t, sdk.StreetRiver, r.Street())
	assert.Len(t, r.Board(), 5)

	mustApply(t, r, sdk.Check{}, sdk.Check{})

	require.True(t, r.Done())
	assert.True(t, r.Showdown())
	// Pair of aces beats ace high.
	assert.Equal(t, [2]int{2, -2}, r.Deltas())
	assert.Zero(t, r.Legal())
}

func TestFoldDeltas(t *testing.T) {
	tests := []struct {
		name    string
		actions []sdk.Action
		want    [2]int
	}{
		{
			name:    "small blind folds",
			actions: []sdk.Action{sdk.Fold{}},
			want:    [2]int{-1, 1},
		},
		{
			name:    "big blind folds to raise",
			actions: []sdk.Action{sdk.Raise{Amount: 6}, sdk.Fold{}},
			want:    [2]int{2, -2},
		},
		{
			name:    "small blind folds to reraise",
			actions: []sdk.Action{sdk.Raise{Amount: 6}, sdk.Raise{Amount: 20}, sdk.Fold{}},
			want:    [2]int{-6, 6},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := stackedRound(t)
			mustApply(t, r, tt.actions...)
			require.True(t, r.Done())
			assert.False(t, r.Showdown())
			assert.Equal(t, tt.want, r.Deltas())
		})
	}
}

func TestAllInLeavesOnlyChecks(t *testing.T) {
	r := stackedRound(t)
	mustApply(t, r, sdk.Raise{Amount: 400})

	assert.Equal(t, sdk.NewLegalActions(sdk.ActionFold, sdk.ActionCall), r.Legal())
	mustApply(t, r, sdk.Call{}, sdk.Discard{Index: 0}, sdk.Discard{Index: 2})

	assert.Equal(t, sdk.NewLegalActions(sdk.ActionCheck), r.Legal())
	mustApply(t, r, sdk.Check{}, sdk.Check{}, sdk.Check{}, sdk.Check{})

	require.True(t, r.Done())
	assert.Equal(t, [2]int{400, -400}, r.Deltas())
}

func TestApplyRejectsIllegal(t *testing.T) {
	r := stackedRound(t)

	assert.ErrorIs(t, r.Apply(sdk.Check{}), sdk.ErrIllegalAction)
	assert.ErrorIs(t, r.Apply(sdk.Discard{Index: 0}), sdk.ErrIllegalAction)
	assert.ErrorIs(t, r.Apply(sdk.Raise{Amount: 3}), sdk.ErrRaiseOutOfBounds)
	assert.ErrorIs(t, r.Apply(sdk.Raise{Amount: 401}), sdk.ErrRaiseOutOfBounds)

	// Nothing changed.
	assert.Equal(t, 0, r.Active())
	assert.Equal(t, 1, r.View(0).MyPip)

	mustApply(t, r, sdk.Fold{})
	assert.ErrorIs(t, r.Apply(sdk.Fold{}), ErrRoundOver)
}

func TestRandomRoundsAreZeroSum(t *testing.T) {
	rng := randutil.New(7)
	rules := DefaultRules()

	for i := range 2000 {
		r := NewRound(rules, poker.NewDeck(rng))
		for steps := 0; !r.Done(); steps++ {
			require.Less(t, steps, 200, "round %d did not terminate", i)

			legal := r.Legal().List()
			require.NotEmpty(t, legal)

			var action sdk.Action
			switch legal[rng.IntN(len(legal))] {
			case sdk.ActionFold:
				action = sdk.Fold{}
			case sdk.ActionCall:
				action = sdk.Call{}
			case sdk.ActionCheck:
				action = sdk.Check{}
			case sdk.ActionRaise:
				b := r.RaiseBounds()
				action = sdk.Raise{Amount: b.Min + rng.IntN(b.Max-b.Min+1)}
			case sdk.ActionDiscard:
				action = sdk.Discard{Index: rng.IntN(len(r.Hand(r.Active())))}
			}
			require.NoError(t, r.Apply(action))
		}

		d := r.Deltas()
		require.Zero(t, d[0]+d[1], "round %d", i)
		require.LessOrEqual(t, max(d[0], d[1]), rules.StartingStack)
		if r.Showdown() {
			require.Len(t, r.Board(), poker.MaxBoard)
			require.Len(t, r.Hand(0), 2)
			require.Len(t, r.Hand(1), 2)
		}
	}
}
