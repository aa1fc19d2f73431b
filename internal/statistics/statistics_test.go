package statistics

import (
	"math"
	"testing"

	"github.com/lox/threecard/poker"
	"github.com/lox/threecard/sdk"
	"github.com/lox/threecard/sdk/bots/callingstation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatistics_Empty(t *testing.T) {
	stats := &Statistics{}

	assert.Zero(t, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Zero(t, stats.StdDev())
	assert.Zero(t, stats.StdError())
	assert.Zero(t, stats.Median())
	assert.Zero(t, stats.Percentile(0.5))
	assert.Error(t, stats.Validate())
}

func TestStatistics_SingleValue(t *testing.T) {
	stats := &Statistics{}
	stats.Add(RoundResult{NetBB: 2.5, Seat: 1, WentToShowdown: true, Street: sdk.StreetRiver})

	assert.Equal(t, 1, stats.Rounds)
	assert.Equal(t, 2.5, stats.Mean())
	assert.Zero(t, stats.Variance())
	assert.Equal(t, 2.5, stats.Median())
	assert.Equal(t, 1, stats.ShowdownWins)
	assert.Equal(t, 1, stats.SeatResults[1].Rounds)
	assert.Equal(t, 1, stats.StreetEnds[sdk.StreetRiver])
	assert.NoError(t, stats.Validate())
}

func TestStatistics_MultipleValues(t *testing.T) {
	stats := &Statistics{}
	values := []float64{1, 2, 3, 4, 5}
	for i, v := range values {
		stats.Add(RoundResult{NetBB: v, Seat: i % 2})
	}

	assert.Equal(t, 5, stats.Rounds)
	assert.Equal(t, 3.0, stats.Mean())
	assert.InDelta(t, 2.5, stats.Variance(), 1e-9)
	assert.InDelta(t, math.Sqrt(2.5), stats.StdDev(), 1e-9)
	assert.InDelta(t, math.Sqrt(2.5)/math.Sqrt(5), stats.StdError(), 1e-9)
	assert.Equal(t, 3.0, stats.Median())
	assert.Equal(t, 5, stats.NonShowdownWins)
	assert.InDelta(t, 3.0, stats.SeatMean(0), 1e-9) // 1, 3, 5
	assert.InDelta(t, 3.0, stats.SeatMean(1), 1e-9) // 2, 4
	assert.Zero(t, stats.SeatMean(2))
}

func TestStatistics_Percentiles(t *testing.T) {
	stats := &Statistics{}
	for i := 1; i <= 11; i++ {
		stats.Add(RoundResult{NetBB: float64(i)})
	}

	assert.Equal(t, 1.0, stats.Percentile(0))
	assert.Equal(t, 11.0, stats.Percentile(1))
	assert.Equal(t, 6.0, stats.Percentile(0.5))
	assert.InDelta(t, 3.5, stats.Percentile(0.25), 1e-9)
}

func TestStatistics_ConfidenceInterval(t *testing.T) {
	stats := &Statistics{}
	for i := range 100 {
		stats.Add(RoundResult{NetBB: float64(i%3 - 1)})
	}

	lo, hi := stats.ConfidenceInterval95()
	mean := stats.Mean()
	assert.Less(t, lo, mean)
	assert.Greater(t, hi, mean)
	assert.InDelta(t, 1.96*stats.StdError(), hi-mean, 1e-9)
}

func TestStatistics_Merge(t *testing.T) {
	a, b, all := &Statistics{}, &Statistics{}, &Statistics{}
	for i := range 10 {
		r := RoundResult{NetBB: float64(i - 4), Seat: i % 2, WentToShowdown: i%3 == 0, Street: sdk.StreetTurn}
		all.Add(r)
		if i < 4 {
			a.Add(r)
		} else {
			b.Add(r)
		}
	}

	a.Merge(b)
	assert.Equal(t, all.Rounds, a.Rounds)
	assert.InDelta(t, all.Mean(), a.Mean(), 1e-9)
	assert.InDelta(t, all.Variance(), a.Variance(), 1e-9)
	assert.Equal(t, all.SeatResults, a.SeatResults)
	assert.Equal(t, all.StreetEnds, a.StreetEnds)
	assert.NoError(t, a.Validate())
}

func TestStatistics_Validate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Statistics)
	}{
		{"ledger mismatch", func(s *Statistics) { s.ShowdownBB += 5 }},
		{"values mismatch", func(s *Statistics) { s.Values = s.Values[:1] }},
		{"too many wins", func(s *Statistics) { s.ShowdownWins = s.Rounds + 1 }},
		{"seat mismatch", func(s *Statistics) { s.SeatResults[0].Rounds++ }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stats := &Statistics{}
			stats.Add(RoundResult{NetBB: 1, Seat: 0})
			stats.Add(RoundResult{NetBB: -1, Seat: 1, WentToShowdown: true})
			require.NoError(t, stats.Validate())

			tt.mutate(stats)
			assert.Error(t, stats.Validate())
		})
	}
}

func TestRecorder(t *testing.T) {
	rec := NewRecorder(callingstation.Handler{}, 2)

	require.NoError(t, rec.OnRoundOver(sdk.RoundResult{Seat: 0, Delta: -1, Street: sdk.StreetPreflop}))
	require.NoError(t, rec.OnRoundOver(sdk.RoundResult{
		Seat:          1,
		Delta:         40,
		Street:        sdk.StreetRiver,
		OpponentCards: poker.MustParseCards("2c", "3d"),
	}))

	stats := rec.Stats()
	assert.Equal(t, 2, stats.Rounds)
	assert.Equal(t, 1, stats.ShowdownWins)
	assert.InDelta(t, 19.5, stats.AllBB, 1e-9)
	assert.Equal(t, 1, stats.StreetEnds[sdk.StreetPreflop])

	// Decisions pass straight through.
	a, err := rec.OnActionRequest(sdk.RoundView{Legal: sdk.NewLegalActions(sdk.ActionCheck)})
	require.NoError(t, err)
	assert.Equal(t, sdk.Check{}, a)
}
