package resample

import "slices"

// Stream is a causal rational converter for signals that arrive in blocks.
// It uses the same filter as Aligned but cannot look ahead, so its output
// trails the input by Delay output samples. Feeding a signal in any block
// partition yields the same samples as feeding it at once.
//
// A Stream keeps state between calls and is not safe for concurrent use.
type Stream struct {
	up   int
	down int
	taps []float64

	next     int       // upsampled-grid position of the next output
	consumed int       // input samples seen so far
	tail     []float64 // input samples consumed-len(tail) .. consumed-1
	keep     int
}

// NewStream creates a streaming converter for ratio up/down.
func NewStream(up, down int, opts ...Option) (*Stream, error) {
	up, down, err := reduce(up, down)
	if err != nil {
		return nil, err
	}

	taps, err := designFIR(up, down, applyOptions(opts))
	if err != nil {
		return nil, err
	}

	return &Stream{
		up:   up,
		down: down,
		taps: taps,
		keep: (len(taps)+up-1)/up + 1,
	}, nil
}

// NewStreamForRates creates a streaming converter by approximating
// outRate/inRate as a ratio.
func NewStreamForRates(inRate, outRate float64, opts ...Option) (*Stream, error) {
	up, down, err := ratioForRates(inRate, outRate, applyOptions(opts))
	if err != nil {
		return nil, err
	}

	return NewStream(up, down, opts...)
}

// Ratio returns reduced up/down conversion factors.
func (s *Stream) Ratio() (up, down int) {
	return s.up, s.down
}

// Delay returns the group delay in output samples.
func (s *Stream) Delay() float64 {
	if s.identity() {
		return 0
	}

	return float64(len(s.taps)/2) / float64(s.down)
}

func (s *Stream) identity() bool {
	return s.up == 1 && s.down == 1
}

// Process consumes block and returns every output sample whose newest
// contributing input is now available.
func (s *Stream) Process(block []float64) []float64 {
	if len(block) == 0 {
		return nil
	}

	if s.identity() {
		return slices.Clone(block)
	}

	base := s.consumed - len(s.tail)
	work := slices.Concat(s.tail, block)
	s.consumed += len(block)

	var out []float64
	for s.next/s.up < s.consumed {
		out = append(out, interpolate(work, base, s.taps, s.up, s.next))
		s.next += s.down
	}

	keep := min(s.keep, len(work))
	s.tail = append(s.tail[:0], work[len(work)-keep:]...)

	return out
}
