package strategy

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/lox/threecard/poker"
)

// Weights holds every tunable constant of the discard and betting heuristics.
type Weights struct {
	// Discard danger scoring
	FlushThree   float64 // candidate's suit appears 3+ times on the hypothetical board
	FlushTwo     float64 // candidate's suit appears exactly twice
	StraightRun  float64 // per step at which a run reaches three consecutive ranks
	HighCard     float64 // multiplied by the candidate's rank ordinal
	OpponentPair float64 // candidate pairs the opponent's visible discard
	Noise        float64 // width of the uniform tie-breaking term

	// PairSplitGap is how far the kicker must outrank the pair before one
	// of the paired cards is thrown instead of scoring.
	PairSplitGap int

	// Betting
	StrongRank       poker.Rank // every hole card at or above this rank makes a strong hand
	RaiseMultiplier  int        // strong hands raise to min raise times this, capped at max
	RaiseProbability float64    // chance a non-strong hand min-raises
	FoldProbability  float64    // chance of folding when facing a bet without a check
}

// DefaultWeights returns the tuned production weights.
func DefaultWeights() Weights {
	return Weights{
		FlushThree:       100,
		FlushTwo:         20,
		StraightRun:      50,
		HighCard:         1.5,
		OpponentPair:     25,
		Noise:            5,
		PairSplitGap:     4,
		StrongRank:       poker.Ten,
		RaiseMultiplier:  10,
		RaiseProbability: 0.5,
		FoldProbability:  0.25,
	}
}

// Validate checks the weights are usable.
func (w Weights) Validate() error {
	var errs []error
	if w.Noise < 0 {
		errs = append(errs, fmt.Errorf("noise must not be negative, got %v", w.Noise))
	}
	if w.RaiseMultiplier < 1 {
		errs = append(errs, fmt.Errorf("raise_multiplier must be at least 1, got %d", w.RaiseMultiplier))
	}
	if w.RaiseProbability < 0 || w.RaiseProbability > 1 {
		errs = append(errs, fmt.Errorf("raise_probability must be in [0, 1], got %v", w.RaiseProbability))
	}
	if w.FoldProbability < 0 || w.FoldProbability > 1 {
		errs = append(errs, fmt.Errorf("fold_probability must be in [0, 1], got %v", w.FoldProbability))
	}
	if int(w.StrongRank) >= poker.NumRanks {
		errs = append(errs, fmt.Errorf("strong_rank out of range: %d", w.StrongRank))
	}
	return errors.Join(errs...)
}

// weightsFile is the HCL form of Weights. Pointer fields distinguish an
// absent attribute from an explicit zero.
type weightsFile struct {
	FlushThree       *float64 `hcl:"flush_three,optional"`
	FlushTwo         *float64 `hcl:"flush_two,optional"`
	StraightRun      *float64 `hcl:"straight_run,optional"`
	HighCard         *float64 `hcl:"high_card,optional"`
	OpponentPair     *float64 `hcl:"opponent_pair,optional"`
	Noise            *float64 `hcl:"noise,optional"`
	PairSplitGap     *int     `hcl:"pair_split_gap,optional"`
	StrongRank       *string  `hcl:"strong_rank,optional"`
	RaiseMultiplier  *int     `hcl:"raise_multiplier,optional"`
	RaiseProbability *float64 `hcl:"raise_probability,optional"`
	FoldProbability  *float64 `hcl:"fold_probability,optional"`
}

// LoadWeights reads weight overrides from an HCL file. Attributes that are
// not set keep their DefaultWeights value. A missing file yields defaults.
func LoadWeights(filename string) (Weights, error) {
	if _, err := os.Stat(filename); os.IsNotExist(err) {
		return DefaultWeights(), nil
	}
	src, err := os.ReadFile(filename)
	if err != nil {
		return Weights{}, fmt.Errorf("read weights: %w", err)
	}
	return ParseWeights(src, filename)
}

// ParseWeights decodes HCL weight overrides on top of DefaultWeights.
func ParseWeights(src []byte, filename string) (Weights, error) {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return Weights{}, fmt.Errorf("failed to parse HCL file: %s", diags.Error())
	}

	var raw weightsFile
	diags = gohcl.DecodeBody(file.Body, nil, &raw)
	if diags.HasErrors() {
		return Weights{}, fmt.Errorf("failed to decode HCL: %s", diags.Error())
	}

	w := DefaultWeights()
	setFloat(&w.FlushThree, raw.FlushThree)
	setFloat(&w.FlushTwo, raw.FlushTwo)
	setFloat(&w.StraightRun, raw.StraightRun)
	setFloat(&w.HighCard, raw.HighCard)
	setFloat(&w.OpponentPair, raw.OpponentPair)
	setFloat(&w.Noise, raw.Noise)
	setFloat(&w.RaiseProbability, raw.RaiseProbability)
	setFloat(&w.FoldProbability, raw.FoldProbability)
	if raw.PairSplitGap != nil {
		w.PairSplitGap = *raw.PairSplitGap
	}
	if raw.RaiseMultiplier != nil {
		w.RaiseMultiplier = *raw.RaiseMultiplier
	}
	if raw.StrongRank != nil {
		if len(*raw.StrongRank) != 1 {
			return Weights{}, fmt.Errorf("strong_rank must be a single rank symbol, got %q", *raw.StrongRank)
		}
		// Borrow the card parser for the rank symbol.
		c, err := poker.ParseCard(*raw.StrongRank + "s")
		if err != nil {
			return Weights{}, fmt.Errorf("strong_rank: %w", err)
		}
		w.StrongRank = c.Rank()
	}

	if err := w.Validate(); err != nil {
		return Weights{}, err
	}
	return w, nil
}

func setFloat(dst *float64, v *float64) {
	if v != nil {
		*dst = *v
	}
}
