package main

import (
	"fmt"
	rand "math/rand/v2"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/lox/threecard/sdk"
	"github.com/lox/threecard/sdk/bots/aggressive"
	"github.com/lox/threecard/sdk/bots/callingstation"
	"github.com/lox/threecard/sdk/bots/discard"
	"github.com/lox/threecard/sdk/bots/random"
	"github.com/lox/threecard/sdk/strategy"
)

// botDeps are what a bot constructor may use
type botDeps struct {
	logger  *log.Logger
	rng     *rand.Rand
	weights strategy.Weights
}

// botHandlers maps bot names to their handler constructors
var botHandlers = map[string]func(botDeps) sdk.Handler{
	"discard":         func(d botDeps) sdk.Handler { return discard.NewHandler(d.weights, d.rng, d.logger) },
	"calling-station": func(botDeps) sdk.Handler { return callingstation.Handler{} },
	"random":          func(d botDeps) sdk.Handler { return random.NewHandler(d.rng) },
	"aggressive":      func(d botDeps) sdk.Handler { return aggressive.NewHandler(d.rng) },
}

// botPrefixes maps bot names to their ID prefixes
var botPrefixes = map[string]string{
	"discard":         "discard",
	"calling-station": "calling",
	"random":          "random",
	"aggressive":      "aggressive",
}

func botNames() string {
	names := make([]string, 0, len(botHandlers))
	for name := range botHandlers {
		names = append(names, name)
	}
	slices.Sort(names)
	return strings.Join(names, ", ")
}

func newBot(name string, deps botDeps) (sdk.Handler, error) {
	fn, ok := botHandlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown bot: %s (available: %s)", name, botNames())
	}
	return fn(deps), nil
}
