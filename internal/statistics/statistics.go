package statistics

import (
	"fmt"
	"math"
	"sort"
)

// RoundResult represents the outcome of a single round for one bot
type RoundResult struct {
	NetBB          float64 // Net big blinds won/lost for our bot
	Seat           int     // 0 small blind, 1 big blind
	WentToShowdown bool    // Did the round go to showdown?
	Street         int     // Street on which the round ended
}

// SeatStats tracks statistics for one blind position
type SeatStats struct {
	Rounds int
	SumBB  float64
	SumBB2 float64
}

// Statistics tracks match results in big blinds per round
type Statistics struct {
	Rounds int
	SumBB  float64
	SumBB2 float64   // Sum of squares for variance calculation
	Values []float64 // Store all values for median/percentile calculation

	// Track ALL results, not just wins
	ShowdownWins    int     // Rounds won at showdown
	NonShowdownWins int     // Rounds won without showdown (fold equity)
	ShowdownBB      float64 // BB from showdown (wins AND losses)
	NonShowdownBB   float64 // BB from fold equity (wins AND losses)
	AllBB           float64 // Total BB for sanity check

	SeatResults [2]SeatStats

	// Rounds ending on each street, indexed by street number
	StreetEnds [6]int
}

// Mean returns the arithmetic mean of all results in big blinds per round
func (s *Statistics) Mean() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.SumBB / float64(s.Rounds)
}

// Variance returns the sample variance of all results
func (s *Statistics) Variance() float64 {
	if s.Rounds < 2 {
		return 0
	}
	mean := s.Mean()
	return (s.SumBB2 - float64(s.Rounds)*mean*mean) / float64(s.Rounds-1)
}

// StdDev returns the sample standard deviation of all results
func (s *Statistics) StdDev() float64 {
	return math.Sqrt(max(s.Variance(), 0))
}

// StdError returns the standard error of the mean
func (s *Statistics) StdError() float64 {
	if s.Rounds == 0 {
		return 0
	}
	return s.StdDev() / math.Sqrt(float64(s.Rounds))
}

// ConfidenceInterval95 returns the 95% confidence interval for the mean
func (s *Statistics) ConfidenceInterval95() (float64, float64) {
	mean := s.Mean()
	margin := 1.96 * s.StdError()
	return mean - margin, mean + margin
}

// Add incorporates a new round result into the statistics
func (s *Statistics) Add(result RoundResult) {
	netBB := result.NetBB
	s.Rounds++
	s.SumBB += netBB
	s.SumBB2 += netBB * netBB
	s.Values = append(s.Values, netBB)

	if netBB > 0 {
		if result.WentToShowdown {
			s.ShowdownWins++
		} else {
			s.NonShowdownWins++
		}
	}

	if result.WentToShowdown {
		s.ShowdownBB += netBB
	} else {
		s.NonShowdownBB += netBB
	}
	s.AllBB += netBB

	if seat := result.Seat; seat == 0 || seat == 1 {
		s.SeatResults[seat].Rounds++
		s.SeatResults[seat].SumBB += netBB
		s.SeatResults[seat].SumBB2 += netBB * netBB
	}

	if result.Street >= 0 && result.Street < len(s.StreetEnds) {
		s.StreetEnds[result.Street]++
	}
}

// Merge folds other into s, for combining parallel matches
func (s *Statistics) Merge(other *Statistics) {
	s.Rounds += other.Rounds
	s.SumBB += other.SumBB
	s.SumBB2 += other.SumBB2
	s.Values = append(s.Values, other.Values...)
	s.ShowdownWins += other.ShowdownWins
	s.NonShowdownWins += other.NonShowdownWins
	s.ShowdownBB += other.ShowdownBB
	s.NonShowdownBB += other.NonShowdownBB
	s.AllBB += other.AllBB
	for i := range s.SeatResults {
		s.SeatResults[i].Rounds += other.SeatResults[i].Rounds
		s.SeatResults[i].SumBB += other.SeatResults[i].SumBB
		s.SeatResults[i].SumBB2 += other.SeatResults[i].SumBB2
	}
	for i := range s.StreetEnds {
		s.StreetEnds[i] += other.StreetEnds[i]
	}
}

// Median returns the median value of all results
func (s *Statistics) Median() float64 {
	return s.Percentile(0.5)
}

// Percentile returns the value at the given percentile (0.0 to 1.0)
func (s *Statistics) Percentile(p float64) float64 {
	if len(s.Values) == 0 {
		return 0
	}
	sorted := make([]float64, len(s.Values))
	copy(sorted, s.Values)
	sort.Float64s(sorted)

	index := p * float64(len(sorted)-1)
	lower := int(index)
	upper := lower + 1

	if upper >= len(sorted) {
		return sorted[len(sorted)-1]
	}

	weight := index - float64(lower)
	return sorted[lower]*(1-weight) + sorted[upper]*weight
}

// SeatMean returns the mean result from one blind position
func (s *Statistics) SeatMean(seat int) float64 {
	if seat < 0 || seat > 1 {
		return 0
	}
	ss := s.SeatResults[seat]
	if ss.Rounds == 0 {
		return 0
	}
	return ss.SumBB / float64(ss.Rounds)
}

// IsLedgerBalanced checks if the accounting is consistent
func (s *Statistics) IsLedgerBalanced() bool {
	return math.Abs(s.AllBB-s.ShowdownBB-s.NonShowdownBB) <= 1e-6
}

// Validate checks the internal consistency of the collected data
func (s *Statistics) Validate() error {
	if !s.IsLedgerBalanced() {
		return fmt.Errorf("ledger mismatch: AllBB=%.6f, ShowdownBB=%.6f, NonShowdownBB=%.6f",
			s.AllBB, s.ShowdownBB, s.NonShowdownBB)
	}
	if s.Rounds <= 0 {
		return fmt.Errorf("invalid rounds count: %d", s.Rounds)
	}
	if len(s.Values) != s.Rounds {
		return fmt.Errorf("values array length (%d) does not match rounds count (%d)",
			len(s.Values), s.Rounds)
	}
	if wins := s.ShowdownWins + s.NonShowdownWins; wins > s.Rounds {
		return fmt.Errorf("total wins (%d) exceeds total rounds (%d)", wins, s.Rounds)
	}
	if seats := s.SeatResults[0].Rounds + s.SeatResults[1].Rounds; seats != s.Rounds {
		return fmt.Errorf("seat rounds total (%d) does not match total rounds (%d)", seats, s.Rounds)
	}
	return nil
}
