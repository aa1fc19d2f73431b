package aggressive

import (
	"testing"

	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDiscardsLowestCard(t *testing.T) {
	h := NewHandler(randutil.New(1))
	a, err := h.OnActionRequest(sdk.RoundView{
		Legal:     sdk.NewLegalActions(sdk.ActionDiscard),
		HoleCards: poker.MustParseCards("Kd", "4c", "9h"),
	})
	require.NoError(t, err)
	assert.Equal(t, sdk.Discard{Index: 1}, a)
}

func TestRaisesMostOfTheTime(t *testing.T) {
	h := NewHandler(randutil.New(1))
	view := sdk.RoundView{
		Legal:  sdk.NewLegalActions(sdk.ActionFold, sdk.ActionCall, sdk.ActionRaise),
		Bounds: sdk.RaiseBounds{Min: 4, Max: 400},
	}

	raises := 0
	const trials = 5000
	for range trials {
		a, err := h.OnActionRequest(view)
		require.NoError(t, err)
		switch a.(type) {
		case sdk.Raise:
			raises++
			assert.Equal(t, sdk.Raise{Amount: 4}, a)
		default:
			assert.Equal(t, sdk.Call{}, a)
		}
	}
	assert.InDelta(t, 0.7, float64(raises)/trials, 0.03)
}
