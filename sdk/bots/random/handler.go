package random

import (
	rand "math/rand/v2"

	"github.com/lox/threecard/sdk"
)

// Handler implements a random strategy that makes random valid actions
type Handler struct {
	rng *rand.Rand
}

func NewHandler(rng *rand.Rand) *Handler {
	return &Handler{rng: rng}
}

func (*Handler) OnRoundStart(sdk.RoundStart) error { return nil }
func (*Handler) OnRoundOver(sdk.RoundResult) error { return nil }

func (h *Handler) OnActionRequest(view sdk.RoundView) (sdk.Action, error) {
	legal := view.Legal.List()
	if len(legal) == 0 {
		return sdk.Fold{}, nil
	}
	switch t := legal[h.rng.IntN(len(legal))]; t {
	case sdk.ActionRaise:
		return sdk.Raise{Amount: view.Bounds.Min}, nil
	case sdk.ActionDiscard:
		return sdk.Discard{Index: h.rng.IntN(len(view.HoleCards))}, nil
	default:
		return sdk.NewAction(t, 0, 0, view.Bounds)
	}
}

// Check it implements the sdk.Handler interface
var _ sdk.Handler = (*Handler)(nil)
