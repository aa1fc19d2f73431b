package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/threecard/internal/randutil"
	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
	"github.com/lox/threecard/sdk/strategy"
	"github.com/muesli/termenv"
)

// DecideCmd prints one decision of the heuristic bot, for tuning weights
type DecideCmd struct {
	Hole     string `arg:"" help:"Hole cards, e.g. 'As Kd 7h'"`
	Board    string `help:"Board cards, e.g. '9s 5h'"`
	Legal    string `help:"Legal actions, comma separated (default: discard with three hole cards, else check,raise)"`
	MinRaise int    `default:"4" help:"Smallest legal raise total"`
	MaxRaise int    `default:"400" help:"Largest legal raise total"`
	Seed     int64  `default:"1" help:"Random seed for noise and betting coins"`
	Weights  string `type:"path" help:"HCL file of strategy weight overrides"`
	NoColor  bool   `help:"Disable colors"`
}

func (c *DecideCmd) Run() error {
	if c.NoColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
	return c.run(os.Stdout)
}

func (c *DecideCmd) run(w io.Writer) error {
	weights := strategy.DefaultWeights()
	if c.Weights != "" {
		var err error
		if weights, err = strategy.LoadWeights(c.Weights); err != nil {
			return err
		}
	}

	view, err := c.view()
	if err != nil {
		return err
	}

	if view.Legal.Has(sdk.ActionDiscard) {
		eval := strategy.NewDiscardEvaluator(weights, nil)
		fmt.Fprintln(w, headerStyle.Render("Danger scores"))
		for i, card := range view.HoleCards {
			fmt.Fprintf(w, "  %d %s %6.1f\n", i, card, eval.DangerScore(card, view.Board))
		}
	}

	action := strategy.New(weights, randutil.New(c.Seed)).Decide(view)
	fmt.Fprintln(w, row("Decision", winStyle.Render(describe(action, view))))
	return nil
}

func (c *DecideCmd) view() (sdk.RoundView, error) {
	hole, err := poker.ParseCardList(c.Hole)
	if err != nil {
		return sdk.RoundView{}, fmt.Errorf("hole: %w", err)
	}
	board, err := poker.ParseCardList(c.Board)
	if err != nil {
		return sdk.RoundView{}, fmt.Errorf("board: %w", err)
	}
	if len(board) > poker.MaxBoard {
		return sdk.RoundView{}, fmt.Errorf("board has %d cards, at most %d allowed", len(board), poker.MaxBoard)
	}

	legalSpec := c.Legal
	if legalSpec == "" {
		legalSpec = "check,raise"
		if len(hole) == poker.HandSize {
			legalSpec = "discard"
		}
	}
	var legal sdk.LegalActions
	for _, name := range strings.Split(legalSpec, ",") {
		t, err := sdk.ParseActionType(strings.TrimSpace(name))
		if err != nil {
			return sdk.RoundView{}, err
		}
		legal |= sdk.NewLegalActions(t)
	}

	switch {
	case legal.Has(sdk.ActionDiscard) && len(hole) != poker.HandSize:
		return sdk.RoundView{}, fmt.Errorf("discarding needs %d hole cards, got %d", poker.HandSize, len(hole))
	case len(hole) < 2 || len(hole) > poker.HandSize:
		return sdk.RoundView{}, fmt.Errorf("need 2 or 3 hole cards, got %d", len(hole))
	}

	street := sdk.StreetPreflop
	switch {
	case legal.Has(sdk.ActionDiscard):
		street = sdk.StreetFlop
	case len(board) == 5:
		street = sdk.StreetRiver
	case len(board) >= 3:
		street = sdk.StreetTurn
	}

	return sdk.RoundView{
		Street:    street,
		Legal:     legal,
		Bounds:    sdk.RaiseBounds{Min: c.MinRaise, Max: c.MaxRaise},
		HoleCards: hole,
		Board:     board,
	}, nil
}

func describe(action sdk.Action, view sdk.RoundView) string {
	if d, ok := action.(sdk.Discard); ok {
		return fmt.Sprintf("discard %s (index %d)", view.HoleCards[d.Index], d.Index)
	}
	return action.String()
}
