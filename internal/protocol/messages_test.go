package protocol

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalRejectsUnknownTypes(t *testing.T) {
	_, err := Marshal(struct{ Type string }{Type: "bogus"})
	assert.ErrorIs(t, err, ErrUnknownMessageType)

	// Messages are marshalled by pointer.
	_, err = Marshal(Hello{Type: TypeHello})
	assert.ErrorIs(t, err, ErrUnknownMessageType)

	var s string
	assert.ErrorIs(t, Unmarshal([]byte(`{}`), &s), ErrUnknownMessageType)
}

func TestDecode(t *testing.T) {
	data, err := Marshal(&Hello{Type: TypeHello, Name: "discard"})
	require.NoError(t, err)

	msg, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, &Hello{Type: TypeHello, Name: "discard"}, msg)

	_, err = Decode([]byte(`{"type":"table_state"}`))
	assert.ErrorIs(t, err, ErrUnknownMessageType)

	_, err = Decode([]byte(`not json`))
	assert.Error(t, err)
}

func TestActionRequestWireFormat(t *testing.T) {
	req := &ActionRequest{
		Type:         TypeActionRequest,
		Round:        3,
		ValidActions: []string{"fold", "call", "raise"},
		MinRaise:     4,
		MaxRaise:     400,
		HoleCards:    []string{"As", "Kd", "7h"},
		Board:        []string{},
	}
	data, err := Marshal(req)
	require.NoError(t, err)

	assert.Contains(t, string(data), `"type":"action_request"`)
	assert.Contains(t, string(data), `"valid_actions":["fold","call","raise"]`)
	assert.Contains(t, string(data), `"hole_cards":["As","Kd","7h"]`)
}

func TestActionRequestConversion(t *testing.T) {
	view := sdk.RoundView{
		Round:     12,
		Seat:      0,
		Street:    sdk.StreetFlop,
		Legal:     sdk.NewLegalActions(sdk.ActionDiscard),
		HoleCards: poker.MustParseCards("As", "Kd", "7h"),
		Board:     poker.MustParseCards("2c", "9s", "Td"),
		MyPip:     0,
		OppPip:    0,
		MyStack:   390,
		OppStack:  390,
		Bankroll:  -14,
		GameClock: 12500 * time.Millisecond,
	}

	req := NewActionRequest(view)
	assert.Equal(t, []string{"discard"}, req.ValidActions)
	assert.Zero(t, req.MinRaise, "bounds only sent when raising is legal")

	data, err := Marshal(req)
	require.NoError(t, err)
	var decoded ActionRequest
	require.NoError(t, Unmarshal(data, &decoded))

	got, err := decoded.ToSDK()
	require.NoError(t, err)
	assert.Equal(t, view, got)

	card, ok := got.OpponentDiscard()
	require.True(t, ok)
	assert.Equal(t, "Td", card.String())
}

func TestActionRequestBadPayload(t *testing.T) {
	_, err := (&ActionRequest{ValidActions: []string{"allin"}}).ToSDK()
	assert.Error(t, err)

	_, err = (&ActionRequest{ValidActions: []string{"fold"}, HoleCards: []string{"1s"}}).ToSDK()
	assert.Error(t, err)
}

func TestActionConversion(t *testing.T) {
	bounds := sdk.RaiseBounds{Min: 4, Max: 400}
	tests := []struct {
		action sdk.Action
		wire   Action
	}{
		{sdk.Fold{}, Action{Type: TypeAction, Round: 2, Action: "fold"}},
		{sdk.Call{}, Action{Type: TypeAction, Round: 2, Action: "call"}},
		{sdk.Check{}, Action{Type: TypeAction, Round: 2, Action: "check"}},
		{sdk.Raise{Amount: 40}, Action{Type: TypeAction, Round: 2, Action: "raise", Amount: 40}},
		{sdk.Discard{Index: 2}, Action{Type: TypeAction, Round: 2, Action: "discard", Index: 2}},
	}

	for _, tt := range tests {
		t.Run(tt.action.String(), func(t *testing.T) {
			msg := NewAction(2, tt.action)
			assert.Equal(t, tt.wire, *msg)

			back, err := msg.ToSDK(bounds)
			require.NoError(t, err)
			assert.Equal(t, tt.action, back)
		})
	}

	_, err := (&Action{Action: "raise", Amount: 2}).ToSDK(bounds)
	assert.ErrorIs(t, err, sdk.ErrRaiseOutOfBounds)

	_, err = (&Action{Action: "discard", Index: 3}).ToSDK(bounds)
	assert.ErrorIs(t, err, sdk.ErrDiscardIndex)

	_, err = (&Action{Action: "shove"}).ToSDK(bounds)
	assert.Error(t, err)
}

func TestRoundOverConversion(t *testing.T) {
	result := sdk.RoundResult{
		Round:         7,
		Seat:          1,
		Delta:         24,
		Street:        sdk.StreetRiver,
		HoleCards:     poker.MustParseCards("As", "Ad"),
		OpponentCards: poker.MustParseCards("Kc", "Qc"),
		Board:         poker.MustParseCards("2c", "7d", "9h", "Js", "3s"),
	}

	msg := NewRoundOver(result)
	assert.NotEmpty(t, msg.HandRank)

	got, err := msg.ToSDK()
	require.NoError(t, err)
	assert.Equal(t, result, got)

	// A fold shows no cards.
	folded := NewRoundOver(sdk.RoundResult{Round: 1, Delta: -1, HoleCards: poker.MustParseCards("2c", "7d", "9h")})
	assert.Empty(t, folded.HandRank)
	assert.Empty(t, folded.OpponentCards)
}

func TestRoundStartConversion(t *testing.T) {
	start := sdk.RoundStart{
		Round:     1,
		Seat:      1,
		Bankroll:  0,
		GameClock: 30 * time.Second,
		HoleCards: poker.MustParseCards("Th", "9h", "2s"),
	}
	got, err := NewRoundStart(start).ToSDK()
	require.NoError(t, err)
	assert.Equal(t, start, got)
}

func TestConcurrentMarshal(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 50)

	for i := range 50 {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			msg := &Hello{Type: TypeHello, Name: fmt.Sprintf("bot-%d", id)}
			data, err := Marshal(msg)
			if err != nil {
				errs <- err
				return
			}
			var decoded Hello
			if err := Unmarshal(data, &decoded); err != nil {
				errs <- err
				return
			}
			if decoded.Name != msg.Name {
				errs <- fmt.Errorf("name mismatch: got %s, want %s", decoded.Name, msg.Name)
			}
		}(i)
	}

	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
