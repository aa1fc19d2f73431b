// Package discard is the heuristic three-card discard bot: it throws the card
// that helps the opponent least and bets on a coarse strength test.
package discard

import (
	"io"

	"github.com/charmbracelet/log"
	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
	"github.com/lox/threecard/sdk/strategy"
)

// Handler wraps a strategy.Strategy as an sdk.Handler.
type Handler struct {
	strategy *strategy.Strategy
	logger   *log.Logger

	bankroll int
}

// NewHandler creates the bot. A nil logger discards output.
func NewHandler(w strategy.Weights, rng strategy.Source, logger *log.Logger) *Handler {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Handler{
		strategy: strategy.New(w, rng),
		logger:   logger,
	}
}

// Bankroll returns the running total reported by the dealer.
func (h *Handler) Bankroll() int {
	return h.bankroll
}

func (h *Handler) OnRoundStart(start sdk.RoundStart) error {
	h.logger.Debug("Round start",
		"round", start.Round,
		"big_blind", start.BigBlind(),
		"hole", poker.Strings(start.HoleCards),
		"clock", start.GameClock)
	return nil
}

func (h *Handler) OnActionRequest(view sdk.RoundView) (sdk.Action, error) {
	action := h.strategy.Decide(view)
	h.logger.Debug("Decision",
		"round", view.Round,
		"street", sdk.StreetName(view.Street),
		"legal", view.Legal,
		"hole", poker.Strings(view.HoleCards),
		"board", poker.Strings(view.Board),
		"action", action)
	return action, nil
}

func (h *Handler) OnRoundOver(result sdk.RoundResult) error {
	h.bankroll += result.Delta
	h.logger.Debug("Round over",
		"round", result.Round,
		"delta", result.Delta,
		"bankroll", h.bankroll,
		"street", sdk.StreetName(result.Street))
	return nil
}

// Check it implements the sdk.Handler interface
var _ sdk.Handler = (*Handler)(nil)
