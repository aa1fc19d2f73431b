package aggressive

import (
	rand "math/rand/v2"

	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
)

// Handler implements an aggressive strategy that raises 70% of the time when
// possible and keeps its two highest cards
type Handler struct {
	rng *rand.Rand
}

func NewHandler(rng *rand.Rand) *Handler {
	return &Handler{rng: rng}
}

func (*Handler) OnRoundStart(sdk.RoundStart) error { return nil }
func (*Handler) OnRoundOver(sdk.RoundResult) error { return nil }

func (h *Handler) OnActionRequest(view sdk.RoundView) (sdk.Action, error) {
	if view.Legal.Has(sdk.ActionDiscard) {
		return sdk.Discard{Index: lowest(view.HoleCards)}, nil
	}
	if view.Legal.Has(sdk.ActionRaise) && h.rng.Float64() < 0.7 {
		return sdk.Raise{Amount: view.Bounds.Min}, nil
	}
	if view.Legal.Has(sdk.ActionCheck) {
		return sdk.Check{}, nil
	}
	if view.Legal.Has(sdk.ActionCall) {
		return sdk.Call{}, nil
	}
	return sdk.Fold{}, nil
}

// lowest returns the index of the lowest-ranked card.
func lowest(cards []poker.Card) int {
	idx := 0
	for i, c := range cards {
		if c.Rank() < cards[idx].Rank() {
			idx = i
		}
	}
	return idx
}

// Check it implements the sdk.Handler interface
var _ sdk.Handler = (*Handler)(nil)
