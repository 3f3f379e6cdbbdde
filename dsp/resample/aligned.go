package resample

import "github.com/cwbudde/algo-augment/dsp/core"

// Aligned performs offline rational conversion with zero group delay:
// output sample m is the band-limited interpolation of the input at time
// m*down/up. Samples outside the input are treated as zero.
//
// An Aligned holds no streaming state. Its filter is read-only after
// construction, so one instance can be shared by concurrent callers.
type Aligned struct {
	up   int
	down int

	quality Quality
	taps    []float64
	center  int
}

// NewAligned creates an aligned converter for ratio up/down.
func NewAligned(up, down int, opts ...Option) (*Aligned, error) {
	up, down, err := reduce(up, down)
	if err != nil {
		return nil, err
	}

	cfg := applyOptions(opts)

	taps, err := designFIR(up, down, cfg)
	if err != nil {
		return nil, err
	}

	return &Aligned{
		up:      up,
		down:    down,
		quality: cfg.quality,
		taps:    taps,
		center:  len(taps) / 2,
	}, nil
}

// NewAlignedForRates creates an aligned converter by approximating
// outRate/inRate as a ratio.
func NewAlignedForRates(inRate, outRate float64, opts ...Option) (*Aligned, error) {
	up, down, err := ratioForRates(inRate, outRate, applyOptions(opts))
	if err != nil {
		return nil, err
	}

	return NewAligned(up, down, opts...)
}

// Ratio returns reduced up/down conversion factors.
func (a *Aligned) Ratio() (up, down int) {
	return a.up, a.down
}

// Quality returns the configured quality mode.
func (a *Aligned) Quality() Quality {
	return a.quality
}

// Taps returns a copy of the centered prototype filter.
func (a *Aligned) Taps() []float64 {
	out := make([]float64, len(a.taps))
	copy(out, a.taps)

	return out
}

// OutputLen returns ceil(inputLen*up/down), the number of output samples
// that cover an input of inputLen samples.
func (a *Aligned) OutputLen(inputLen int) int {
	if inputLen <= 0 {
		return 0
	}

	return (inputLen*a.up + a.down - 1) / a.down
}

// Process converts input and returns OutputLen(len(input)) samples.
func (a *Aligned) Process(input []float64) []float64 {
	out := make([]float64, a.OutputLen(len(input)))
	a.ProcessTo(out, input)

	return out
}

// ProcessTo fills every sample of dst with the converted signal of src.
// dst may be shorter or longer than OutputLen(len(src)).
func (a *Aligned) ProcessTo(dst, src []float64) {
	if a.up == 1 && a.down == 1 {
		core.CopyInto(dst, src)
		return
	}

	for m := range dst {
		// Shift by the center tap so output m lines up with input m*down/up.
		dst[m] = interpolate(src, 0, a.taps, a.up, m*a.down+a.center)
	}
}
