package speed

import (
	"errors"
	"fmt"
	"math"
	"sync"

	"github.com/cwbudde/algo-augment/dsp/batch"
	"github.com/cwbudde/algo-augment/dsp/resample"
)

var (
	// ErrInvalidFactor indicates a speed factor that is not positive and finite.
	ErrInvalidFactor = errors.New("speed: invalid factor")
	// ErrInvalidSampleRate indicates a non-positive sample rate.
	ErrInvalidSampleRate = errors.New("speed: invalid sample rate")
	// ErrInvalidLength indicates a valid length outside (0, T].
	ErrInvalidLength = errors.New("speed: invalid length")
	// ErrInvalidIndex indicates a forced perturbation index out of range.
	ErrInvalidIndex = errors.New("speed: invalid index")
	// ErrNoFactors indicates an empty perturbation factor list.
	ErrNoFactors = errors.New("speed: no factors")
)

type config struct {
	resampleOpts []resample.Option
	workers      int
}

// Option configures a speed change.
type Option func(*config)

// WithResampleOptions overrides the anti-aliasing filter settings. The
// default is resample.QualityBalanced, which keeps aliases below about
// -55 dB for any factor.
func WithResampleOptions(opts ...resample.Option) Option {
	return func(cfg *config) {
		cfg.resampleOpts = append(cfg.resampleOpts, opts...)
	}
}

// WithWorkers bounds the number of rows resampled concurrently.
// Values <= 0 select GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		cfg.workers = n
	}
}

func applyOptions(opts []Option) config {
	var cfg config
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	return cfg
}

func (c config) filterOptions() []resample.Option {
	return append([]resample.Option{resample.WithQuality(resample.QualityBalanced)}, c.resampleOpts...)
}

type filterKey struct {
	sampleRate int
	factor     float64
}

// maxCachedFilters bounds the shared converter cache. Factors are
// arbitrary floats, so callers drawing them from a continuous range would
// otherwise grow the cache without limit.
const maxCachedFilters = 64

// filterCache shares converters built with the default filter settings.
// Converters are immutable once stored. When the cache is full an
// arbitrary entry is evicted.
type filterCache struct {
	mu      sync.RWMutex
	limit   int
	entries map[filterKey]*resample.Aligned
}

var defaultFilters = newFilterCache(maxCachedFilters)

func newFilterCache(limit int) *filterCache {
	return &filterCache{limit: limit, entries: make(map[filterKey]*resample.Aligned)}
}

func (c *filterCache) len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()

	return len(c.entries)
}

func (c *filterCache) get(sampleRate int, factor float64) (*resample.Aligned, error) {
	key := filterKey{sampleRate: sampleRate, factor: factor}

	c.mu.RLock()
	a, ok := c.entries[key]
	c.mu.RUnlock()

	if ok {
		return a, nil
	}

	a, err := newConverter(sampleRate, factor, config{}.filterOptions())
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if prev, ok := c.entries[key]; ok {
		return prev, nil
	}

	for k := range c.entries {
		if len(c.entries) < c.limit {
			break
		}

		delete(c.entries, k)
	}

	c.entries[key] = a

	return a, nil
}

func newConverter(sampleRate int, factor float64, opts []resample.Option) (*resample.Aligned, error) {
	sr := float64(sampleRate)

	return resample.NewAlignedForRates(factor*sr, sr, opts...)
}

func validate(sampleRate int, factor float64) error {
	if sampleRate <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidSampleRate, sampleRate)
	}

	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return fmt.Errorf("%w: %v", ErrInvalidFactor, factor)
	}

	return nil
}

// OutputLength returns the number of meaningful samples produced from a
// row of the given valid length.
func OutputLength(length int, factor float64) int {
	return max(1, int(math.Round(float64(length)/factor)))
}

// Apply resamples every row of waveform from sampleRate to sampleRate/factor
// and returns the new waveform with its valid lengths.
//
// lengths must have the batch shape of waveform with values in (0, T].
// A nil lengths treats every row as fully valid. A factor of exactly 1
// returns copies of the inputs.
func Apply(waveform *batch.Signal, lengths *batch.Lengths, sampleRate int, factor float64, opts ...Option) (*batch.Signal, *batch.Lengths, error) {
	if err := validate(sampleRate, factor); err != nil {
		return nil, nil, err
	}

	cfg := applyOptions(opts)

	var (
		conv *resample.Aligned
		err  error
	)

	if factor != 1 {
		if len(cfg.resampleOpts) == 0 {
			conv, err = defaultFilters.get(sampleRate, factor)
		} else {
			conv, err = newConverter(sampleRate, factor, cfg.filterOptions())
		}

		if err != nil {
			return nil, nil, err
		}
	}

	return apply(conv, waveform, lengths, factor, cfg.workers)
}

func apply(conv *resample.Aligned, waveform *batch.Signal, lengths *batch.Lengths, factor float64, workers int) (*batch.Signal, *batch.Lengths, error) {
	lengths, err := checkLengths(waveform, lengths)
	if err != nil {
		return nil, nil, err
	}

	if factor == 1 {
		return waveform.Clone(), lengths.Clone(), nil
	}

	in := lengths.Values()
	outLens := make([]int, len(in))
	for i, l := range in {
		outLens[i] = OutputLength(l, factor)
	}

	outLengths, err := batch.NewLengths(outLens, lengths.Shape()...)
	if err != nil {
		return nil, nil, err
	}

	out, err := batch.New(append(waveform.BatchShape(), max(1, outLengths.Max()))...)
	if err != nil {
		return nil, nil, err
	}

	err = batch.ForEachRow(out.Rows(), workers, func(i int) error {
		conv.ProcessTo(out.Row(i)[:outLens[i]], waveform.Row(i)[:in[i]])
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return out, outLengths, nil
}

func checkLengths(waveform *batch.Signal, lengths *batch.Lengths) (*batch.Lengths, error) {
	if waveform == nil {
		return nil, fmt.Errorf("%w: nil waveform", batch.ErrInvalidShape)
	}

	t := waveform.Len()
	if lengths == nil {
		return batch.Full(t, waveform.BatchShape()...), nil
	}

	if !lengths.Describes(waveform) {
		return nil, fmt.Errorf("%w: lengths shape %v, waveform batch shape %v",
			batch.ErrShapeMismatch, lengths.Shape(), waveform.BatchShape())
	}

	for i := range lengths.Len() {
		if l := lengths.At(i); l <= 0 || l > t {
			return nil, fmt.Errorf("%w: lengths[%d] = %d, want (0, %d]", ErrInvalidLength, i, l, t)
		}
	}

	return lengths, nil
}

// Speed applies a fixed speed factor. Its converter is built once, so a
// Speed is cheap to reuse and safe for concurrent use.
type Speed struct {
	sampleRate int
	factor     float64
	workers    int
	conv       *resample.Aligned
}

// New creates a Speed transform for the given sample rate and factor.
func New(sampleRate int, factor float64, opts ...Option) (*Speed, error) {
	if err := validate(sampleRate, factor); err != nil {
		return nil, err
	}

	cfg := applyOptions(opts)
	s := &Speed{sampleRate: sampleRate, factor: factor, workers: cfg.workers}

	if factor != 1 {
		conv, err := newConverter(sampleRate, factor, cfg.filterOptions())
		if err != nil {
			return nil, err
		}

		s.conv = conv
	}

	return s, nil
}

// SampleRate returns the input sample rate.
func (s *Speed) SampleRate() int {
	return s.sampleRate
}

// Factor returns the speed factor.
func (s *Speed) Factor() float64 {
	return s.factor
}

// Ratio returns the reduced resampling ratio, 1/1 for the identity.
func (s *Speed) Ratio() (up, down int) {
	if s.conv == nil {
		return 1, 1
	}

	return s.conv.Ratio()
}

// Apply changes the speed of waveform. See the package function Apply.
func (s *Speed) Apply(waveform *batch.Signal, lengths *batch.Lengths) (*batch.Signal, *batch.Lengths, error) {
	return apply(s.conv, waveform, lengths, s.factor, s.workers)
}
