package callingstation

import (
	"github.com/lox/threecard/sdk"
)

// Handler implements a calling station strategy that always calls or checks
// and throws away its first card
type Handler struct{}

func (Handler) OnRoundStart(sdk.RoundStart) error { return nil }
func (Handler) OnRoundOver(sdk.RoundResult) error { return nil }

func (Handler) OnActionRequest(view sdk.RoundView) (sdk.Action, error) {
	switch {
	case view.Legal.Has(sdk.ActionDiscard):
		return sdk.Discard{Index: 0}, nil
	case view.Legal.Has(sdk.ActionCheck):
		return sdk.Check{}, nil
	case view.Legal.Has(sdk.ActionCall):
		return sdk.Call{}, nil
	}
	return sdk.Fold{}, nil
}

// Check it implements the sdk.Handler interface
var _ sdk.Handler = (*Handler)(nil)
