package sdk

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lox/threecard/poker"
)

var (
	// ErrIllegalAction is returned when an action is not in the legal set.
	ErrIllegalAction = errors.New("illegal action")
	// ErrRaiseOutOfBounds is returned for a raise outside the supplied bounds.
	ErrRaiseOutOfBounds = errors.New("raise amount out of bounds")
	// ErrDiscardIndex is returned for a discard index outside 0..2.
	ErrDiscardIndex = errors.New("discard index out of range")
)

// ActionType identifies the kind of an Action
type ActionType uint8

const (
	// ActionFold gives up the pot
	ActionFold ActionType = iota
	// ActionCall matches the opponent's pip
	ActionCall
	// ActionCheck passes when there is nothing to call
	ActionCheck
	// ActionRaise raises to an absolute pip total
	ActionRaise
	// ActionDiscard moves one hole card onto the board
	ActionDiscard
)

// String returns the wire name of an action type
func (t ActionType) String() string {
	switch t {
	case ActionFold:
		return "fold"
	case ActionCall:
		return "call"
	case ActionCheck:
		return "check"
	case ActionRaise:
		return "raise"
	case ActionDiscard:
		return "discard"
	default:
		return "unknown"
	}
}

// ParseActionType converts a wire name to an ActionType
func ParseActionType(s string) (ActionType, error) {
	switch strings.ToLower(s) {
	case "fold":
		return ActionFold, nil
	case "call":
		return ActionCall, nil
	case "check":
		return ActionCheck, nil
	case "raise":
		return ActionRaise, nil
	case "discard":
		return ActionDiscard, nil
	default:
		return 0, fmt.Errorf("unknown action %q", s)
	}
}

// Action is one of Fold, Call, Check, Raise or Discard. The set is closed:
// only this package can add variants.
type Action interface {
	Type() ActionType
	String() string
	isAction()
}

// Fold gives up the pot.
type Fold struct{}

// Call matches the opponent's pip.
type Call struct{}

// Check passes without adding chips.
type Check struct{}

// Raise raises to Amount, an absolute pip total for the street.
type Raise struct {
	Amount int
}

// Discard moves the hole card at Index onto the board.
type Discard struct {
	Index int
}

func (Fold) Type() ActionType    { return ActionFold }
func (Call) Type() ActionType    { return ActionCall }
func (Check) Type() ActionType   { return ActionCheck }
func (Raise) Type() ActionType   { return ActionRaise }
func (Discard) Type() ActionType { return ActionDiscard }

func (Fold) String() string      { return "fold" }
func (Call) String() string      { return "call" }
func (Check) String() string     { return "check" }
func (r Raise) String() string   { return fmt.Sprintf("raise %d", r.Amount) }
func (d Discard) String() string { return fmt.Sprintf("discard %d", d.Index) }

func (Fold) isAction()    {}
func (Call) isAction()    {}
func (Check) isAction()   {}
func (Raise) isAction()   {}
func (Discard) isAction() {}

// NewRaise creates a raise, rejecting amounts outside bounds.
func NewRaise(amount int, bounds RaiseBounds) (Raise, error) {
	if !bounds.Contains(amount) {
		return Raise{}, fmt.Errorf("%w: %d not in [%d, %d]", ErrRaiseOutOfBounds, amount, bounds.Min, bounds.Max)
	}
	return Raise{Amount: amount}, nil
}

// NewDiscard creates a discard of the hole card at index.
func NewDiscard(index int) (Discard, error) {
	if index < 0 || index >= poker.HandSize {
		return Discard{}, fmt.Errorf("%w: %d", ErrDiscardIndex, index)
	}
	return Discard{Index: index}, nil
}

// NewAction builds an Action from its wire form. Payloads are validated
// against bounds for raises and against the hand size for discards.
func NewAction(t ActionType, amount, index int, bounds RaiseBounds) (Action, error) {
	switch t {
	case ActionFold:
		return Fold{}, nil
	case ActionCall:
		return Call{}, nil
	case ActionCheck:
		return Check{}, nil
	case ActionRaise:
		return NewRaise(amount, bounds)
	case ActionDiscard:
		return NewDiscard(index)
	default:
		return nil, fmt.Errorf("unknown action type %d", t)
	}
}

// RaiseBounds are the smallest and largest legal raise totals.
type RaiseBounds struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// Contains reports whether amount is a legal raise total.
func (b RaiseBounds) Contains(amount int) bool {
	return amount >= b.Min && amount <= b.Max
}

// LegalActions is the set of action types allowed for a decision.
type LegalActions uint8

// NewLegalActions builds a set from action types.
func NewLegalActions(types ...ActionType) LegalActions {
	var l LegalActions
	for _, t := range types {
		l |= 1 << t
	}
	return l
}

// Has reports whether t is in the set.
func (l LegalActions) Has(t ActionType) bool {
	return l&(1<<t) != 0
}

// List returns the set's members in ActionType order.
func (l LegalActions) List() []ActionType {
	var out []ActionType
	for t := ActionFold; t <= ActionDiscard; t++ {
		if l.Has(t) {
			out = append(out, t)
		}
	}
	return out
}

// String returns the members joined by commas, e.g. "fold,call,raise".
func (l LegalActions) String() string {
	names := make([]string, 0, 5)
	for _, t := range l.List() {
		names = append(names, t.String())
	}
	return strings.Join(names, ",")
}

// Validate checks that a is in the set and that its payload is within
// bounds. bounds is only consulted for raises.
func (l LegalActions) Validate(a Action, bounds RaiseBounds) error {
	if a == nil {
		return fmt.Errorf("%w: no action", ErrIllegalAction)
	}
	if !l.Has(a.Type()) {
		return fmt.Errorf("%w: %s not in {%s}", ErrIllegalAction, a, l)
	}
	switch act := a.(type) {
	case Raise:
		if !bounds.Contains(act.Amount) {
			return fmt.Errorf("%w: %d not in [%d, %d]", ErrRaiseOutOfBounds, act.Amount, bounds.Min, bounds.Max)
		}
	case Discard:
		if act.Index < 0 || act.Index >= poker.HandSize {
			return fmt.Errorf("%w: %d", ErrDiscardIndex, act.Index)
		}
	}
	return nil
}

// Passive returns the default action for a decision that went unanswered:
// discard the first card, else check, else fold.
func Passive(legal LegalActions) Action {
	switch {
	case legal.Has(ActionDiscard):
		return Discard{Index: 0}
	case legal.Has(ActionCheck):
		return Check{}
	default:
		return Fold{}
	}
}
