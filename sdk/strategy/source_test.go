package strategy

// sequence replays fixed values and counts how often it was read.
type sequence struct {
	vals  []float64
	calls int
}

func (s *sequence) Float64() float64 {
	v := s.vals[s.calls%len(s.vals)]
	s.calls++
	return v
}

func constant(v float64) *sequence {
	return &sequence{vals: []float64{v}}
}
