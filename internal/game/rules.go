package game

import (
	"errors"
	"fmt"
	"time"
)

// Rules are the fixed parameters of a match.
type Rules struct {
	StartingStack int
	SmallBlind    int
	BigBlind      int
	Rounds        int
	GameClock     time.Duration // total decision time per player per match
}

// DefaultRules returns the standard match parameters.
func DefaultRules() Rules {
	return Rules{
		StartingStack: 400,
		SmallBlind:    1,
		BigBlind:      2,
		Rounds:        1000,
		GameClock:     30 * time.Second,
	}
}

// Validate checks that the rules describe a playable match.
func (r Rules) Validate() error {
	var errs []error
	if r.SmallBlind <= 0 {
		errs = append(errs, fmt.Errorf("small blind must be positive, got %d", r.SmallBlind))
	}
	if r.BigBlind < r.SmallBlind {
		errs = append(errs, fmt.Errorf("big blind %d below small blind %d", r.BigBlind, r.SmallBlind))
	}
	if r.StartingStack < r.BigBlind {
		errs = append(errs, fmt.Errorf("starting stack %d cannot cover the big blind %d", r.StartingStack, r.BigBlind))
	}
	if r.Rounds <= 0 {
		errs = append(errs, fmt.Errorf("rounds must be positive, got %d", r.Rounds))
	}
	if r.GameClock <= 0 {
		errs = append(errs, fmt.Errorf("game clock must be positive, got %s", r.GameClock))
	}
	return errors.Join(errs...)
}
