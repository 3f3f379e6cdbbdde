package resample

import (
	"errors"
	"math"
)

var (
	// ErrInvalidRatio indicates a non-positive up or down factor.
	ErrInvalidRatio = errors.New("resample: invalid ratio")
	// ErrInvalidRate indicates a sample rate that is not positive and finite.
	ErrInvalidRate = errors.New("resample: invalid sample rate")
)

// Quality selects a filter profile.
type Quality int

const (
	// QualityFast uses short filters with a wide transition band.
	QualityFast Quality = iota
	// QualityBalanced is the default profile.
	QualityBalanced
	// QualityBest uses long filters with a narrow transition band.
	QualityBest
)

// Profile holds the filter parameters of a quality mode. TapsPerPhase is
// multiplied by max(up, down) to get the prototype length, so the
// transition band keeps the same width relative to the cutoff for every
// ratio.
type Profile struct {
	TapsPerPhase      int
	CutoffScale       float64
	KaiserBeta        float64
	NominalStopbandDB float64
}

// QualityProfile returns the defaults of quality mode q.
func QualityProfile(q Quality) Profile {
	switch q {
	case QualityFast:
		return Profile{TapsPerPhase: 16, CutoffScale: 0.88, KaiserBeta: 5.0, NominalStopbandDB: 55}
	case QualityBest:
		return Profile{TapsPerPhase: 64, CutoffScale: 0.96, KaiserBeta: 9.0, NominalStopbandDB: 90}
	default:
		return Profile{TapsPerPhase: 32, CutoffScale: 0.92, KaiserBeta: 7.5, NominalStopbandDB: 75}
	}
}

type config struct {
	quality      Quality
	tapsPerPhase int
	cutoffScale  float64
	kaiserBeta   float64
	maxDen       int
}

// Option configures a converter.
type Option func(*config)

// WithQuality selects the profile that supplies every parameter not set
// explicitly.
func WithQuality(q Quality) Option {
	return func(cfg *config) {
		cfg.quality = q
	}
}

// WithTapsPerPhase overrides the profile filter length. Values <= 0 are
// ignored.
func WithTapsPerPhase(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.tapsPerPhase = n
		}
	}
}

// WithCutoffScale places the cutoff at v times the lower Nyquist
// frequency. Values outside (0, 1] are ignored.
func WithCutoffScale(v float64) Option {
	return func(cfg *config) {
		if v > 0 && v <= 1 {
			cfg.cutoffScale = v
		}
	}
}

// WithKaiserBeta overrides the Kaiser window shape. Values <= 0 are
// ignored.
func WithKaiserBeta(beta float64) Option {
	return func(cfg *config) {
		if beta > 0 {
			cfg.kaiserBeta = beta
		}
	}
}

// WithMaxDenominator bounds the ratio found by the ForRates constructors.
// The default is 4096.
func WithMaxDenominator(n int) Option {
	return func(cfg *config) {
		if n > 0 {
			cfg.maxDen = n
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{quality: QualityBalanced}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	p := QualityProfile(cfg.quality)
	if cfg.tapsPerPhase == 0 {
		cfg.tapsPerPhase = p.TapsPerPhase
	}

	if cfg.cutoffScale == 0 {
		cfg.cutoffScale = p.CutoffScale
	}

	if cfg.kaiserBeta == 0 {
		cfg.kaiserBeta = p.KaiserBeta
	}

	if cfg.maxDen == 0 {
		cfg.maxDen = 4096
	}

	return cfg
}

func validRate(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

// ratioForRates reduces outRate/inRate to up/down.
func ratioForRates(inRate, outRate float64, cfg config) (up, down int, err error) {
	if !validRate(inRate) || !validRate(outRate) {
		return 0, 0, ErrInvalidRate
	}

	up, down = rationalize(outRate/inRate, cfg.maxDen)

	return up, down, nil
}

// reduce validates up/down and divides out their common factor.
func reduce(up, down int) (int, int, error) {
	if up <= 0 || down <= 0 {
		return 0, 0, ErrInvalidRatio
	}

	g := gcd(up, down)

	return up / g, down / g, nil
}

// interpolate evaluates the zero-stuffed input filtered by taps at position
// t of the upsampled grid. src holds input samples base..base+len(src)-1;
// samples outside that range count as zero.
func interpolate(src []float64, base int, taps []float64, up, t int) float64 {
	lo := base
	if first := t - len(taps) + 1; first > 0 {
		lo = max(lo, (first+up-1)/up)
	}

	hi := min(t/up, base+len(src)-1)

	var y float64
	for n := lo; n <= hi; n++ {
		y += src[n-base] * taps[t-n*up]
	}

	return y
}
