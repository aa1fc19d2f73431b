package statistics

import (
	"sync"

	"github.com/lox/threecard/sdk"
)

// Recorder wraps a handler and feeds every round result into Statistics.
type Recorder struct {
	sdk.Handler

	bigBlind int
	mu       sync.Mutex
	stats    Statistics
}

// NewRecorder wraps h. Deltas are converted to big blinds of size bigBlind.
func NewRecorder(h sdk.Handler, bigBlind int) *Recorder {
	return &Recorder{Handler: h, bigBlind: bigBlind}
}

// OnRoundOver records the result and forwards it.
func (r *Recorder) OnRoundOver(result sdk.RoundResult) error {
	r.mu.Lock()
	r.stats.Add(RoundResult{
		NetBB:          float64(result.Delta) / float64(r.bigBlind),
		Seat:           result.Seat,
		WentToShowdown: len(result.OpponentCards) > 0,
		Street:         result.Street,
	})
	r.mu.Unlock()
	return r.Handler.OnRoundOver(result)
}

// Stats returns a copy of the collected statistics.
func (r *Recorder) Stats() Statistics {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := r.stats
	out.Values = append([]float64(nil), r.stats.Values...)
	return out
}
