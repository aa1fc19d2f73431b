package protocol

import (
	"fmt"
	"time"

	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
)

// NewRoundStart builds the wire form of a round start.
func NewRoundStart(s sdk.RoundStart) *RoundStart {
	return &RoundStart{
		Type:        TypeRoundStart,
		Round:       s.Round,
		Seat:        s.Seat,
		Bankroll:    s.Bankroll,
		GameClockMs: s.GameClock.Milliseconds(),
		HoleCards:   poker.Strings(s.HoleCards),
	}
}

// ToSDK converts a round start back to the SDK type.
func (m *RoundStart) ToSDK() (sdk.RoundStart, error) {
	hole, err := poker.ParseCards(m.HoleCards...)
	if err != nil {
		return sdk.RoundStart{}, fmt.Errorf("hole cards: %w", err)
	}
	return sdk.RoundStart{
		Round:     m.Round,
		Seat:      m.Seat,
		Bankroll:  m.Bankroll,
		GameClock: time.Duration(m.GameClockMs) * time.Millisecond,
		HoleCards: hole,
	}, nil
}

// NewActionRequest builds the wire form of a decision snapshot.
func NewActionRequest(v sdk.RoundView) *ActionRequest {
	valid := make([]string, 0, 3)
	for _, t := range v.Legal.List() {
		valid = append(valid, t.String())
	}

	req := &ActionRequest{
		Type:         TypeActionRequest,
		Round:        v.Round,
		Seat:         v.Seat,
		Street:       v.Street,
		ValidActions: valid,
		HoleCards:    poker.Strings(v.HoleCards),
		Board:        poker.Strings(v.Board),
		MyPip:        v.MyPip,
		OppPip:       v.OppPip,
		MyStack:      v.MyStack,
		OppStack:     v.OppStack,
		Bankroll:     v.Bankroll,
		GameClockMs:  v.GameClock.Milliseconds(),
	}
	if v.Legal.Has(sdk.ActionRaise) {
		req.MinRaise = v.Bounds.Min
		req.MaxRaise = v.Bounds.Max
	}
	return req
}

// ToSDK converts an action request to the view a handler decides on.
func (m *ActionRequest) ToSDK() (sdk.RoundView, error) {
	var legal sdk.LegalActions
	for _, name := range m.ValidActions {
		t, err := sdk.ParseActionType(name)
		if err != nil {
			return sdk.RoundView{}, err
		}
		legal |= sdk.NewLegalActions(t)
	}

	hole, err := poker.ParseCards(m.HoleCards...)
	if err != nil {
		return sdk.RoundView{}, fmt.Errorf("hole cards: %w", err)
	}
	board, err := poker.ParseCards(m.Board...)
	if err != nil {
		return sdk.RoundView{}, fmt.Errorf("board: %w", err)
	}

	return sdk.RoundView{
		Round:     m.Round,
		Seat:      m.Seat,
		Street:    m.Street,
		Legal:     legal,
		Bounds:    sdk.RaiseBounds{Min: m.MinRaise, Max: m.MaxRaise},
		HoleCards: hole,
		Board:     board,
		MyPip:     m.MyPip,
		OppPip:    m.OppPip,
		MyStack:   m.MyStack,
		OppStack:  m.OppStack,
		Bankroll:  m.Bankroll,
		GameClock: time.Duration(m.GameClockMs) * time.Millisecond,
	}, nil
}

// NewAction builds the wire form of a bot's answer.
func NewAction(round int, a sdk.Action) *Action {
	msg := &Action{Type: TypeAction, Round: round, Action: a.Type().String()}
	switch act := a.(type) {
	case sdk.Raise:
		msg.Amount = act.Amount
	case sdk.Discard:
		msg.Index = act.Index
	}
	return msg
}

// ToSDK converts a wire action, validating raise totals against bounds.
func (m *Action) ToSDK(bounds sdk.RaiseBounds) (sdk.Action, error) {
	t, err := sdk.ParseActionType(m.Action)
	if err != nil {
		return nil, err
	}
	return sdk.NewAction(t, m.Amount, m.Index, bounds)
}

// NewRoundOver builds the wire form of a round result.
func NewRoundOver(r sdk.RoundResult) *RoundOver {
	msg := &RoundOver{
		Type:          TypeRoundOver,
		Round:         r.Round,
		Seat:          r.Seat,
		Delta:         r.Delta,
		Street:        r.Street,
		HoleCards:     poker.Strings(r.HoleCards),
		OpponentCards: poker.Strings(r.OpponentCards),
		Board:         poker.Strings(r.Board),
	}
	if len(r.OpponentCards) > 0 {
		if desc, err := poker.Describe(r.HoleCards, r.Board); err == nil {
			msg.HandRank = desc
		}
	}
	return msg
}

// ToSDK converts a round over message back to the SDK type.
func (m *RoundOver) ToSDK() (sdk.RoundResult, error) {
	hole, err := poker.ParseCards(m.HoleCards...)
	if err != nil {
		return sdk.RoundResult{}, fmt.Errorf("hole cards: %w", err)
	}
	opp, err := poker.ParseCards(m.OpponentCards...)
	if err != nil {
		return sdk.RoundResult{}, fmt.Errorf("opponent cards: %w", err)
	}
	board, err := poker.ParseCards(m.Board...)
	if err != nil {
		return sdk.RoundResult{}, fmt.Errorf("board: %w", err)
	}
	return sdk.RoundResult{
		Round:         m.Round,
		Seat:          m.Seat,
		Delta:         m.Delta,
		Street:        m.Street,
		HoleCards:     hole,
		OpponentCards: opp,
		Board:         board,
	}, nil
}
