package main

import (
	"fmt"
	"math"
	"math/rand/v2"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/cwbudde/algo-augment/dsp/batch"
	"github.com/cwbudde/algo-augment/dsp/conv"
	"github.com/cwbudde/algo-augment/dsp/core"
	"github.com/cwbudde/algo-augment/dsp/filter/sinc"
	"github.com/cwbudde/algo-augment/dsp/mix"
	"github.com/cwbudde/algo-augment/dsp/resample"
	"github.com/cwbudde/algo-augment/dsp/speed"
	"github.com/cwbudde/algo-augment/dsp/synth"
	"github.com/cwbudde/algo-augment/internal/audioio"
)

type options struct {
	speed       float64
	factors     []float64
	seed        uint64
	hasSeed     bool
	noise       string
	snr         float64
	ir          string
	lowpass     float64
	lowpassTaps int
	rate        int
	workers     int
	peak        float64
}

// state is the signal flowing through the pipeline.
type state struct {
	sig        *batch.Signal
	lengths    *batch.Lengths
	sampleRate int
}

// streamChunk is the block size used when streaming noise files through
// a rate converter.
const streamChunk = 4096

func process(inPath, outPath string, opts options, log *logrus.Logger) (string, error) {
	cfg := core.ApplyProcessorOptions(core.WithSampleRate(opts.rate), core.WithWorkers(opts.workers))
	reg := audioio.DefaultRegistry()

	clip, err := reg.ReadFile(inPath)
	if err != nil {
		return "", err
	}

	sig, err := clip.Signal()
	if err != nil {
		return "", err
	}

	st := &state{sig: sig, sampleRate: clip.SampleRate}

	log.WithFields(logrus.Fields{
		"function":    "process",
		"input":       inPath,
		"channels":    sig.Rows(),
		"frames":      sig.Len(),
		"sample_rate": clip.SampleRate,
	}).Info("Decoded input")

	applied := 1.0

	switch {
	case len(opts.factors) > 0:
		if applied, err = perturb(st, opts, cfg); err != nil {
			return "", err
		}
	case opts.speed != 0:
		if err = changeSpeed(st, opts.speed, cfg); err != nil {
			return "", err
		}

		applied = opts.speed
	}

	log.WithFields(logrus.Fields{
		"function": "process",
		"factor":   applied,
		"frames":   st.sig.Len(),
	}).Debug("Speed stage done")

	if opts.noise != "" {
		if err := addNoise(st, reg, opts, cfg); err != nil {
			return "", err
		}

		log.WithFields(logrus.Fields{
			"function": "process",
			"noise":    opts.noise,
			"snr_db":   opts.snr,
		}).Debug("Noise stage done")
	}

	if opts.ir != "" {
		if err := reverberate(st, reg, opts.ir); err != nil {
			return "", err
		}

		log.WithFields(logrus.Fields{
			"function": "process",
			"ir":       opts.ir,
		}).Debug("Reverb stage done")
	}

	if opts.lowpass > 0 {
		if err := lowPass(st, opts.lowpass, opts.lowpassTaps); err != nil {
			return "", err
		}

		log.WithFields(logrus.Fields{
			"function":  "process",
			"cutoff_hz": opts.lowpass,
			"taps":      opts.lowpassTaps,
		}).Debug("Low-pass stage done")
	}

	if cfg.SampleRate != 0 && cfg.SampleRate != st.sampleRate {
		if err := convertRate(st, cfg); err != nil {
			return "", err
		}
	}

	gain, err := limitPeak(st, opts.peak)
	if err != nil {
		return "", err
	}

	if gain != 1 {
		log.WithFields(logrus.Fields{
			"function": "process",
			"gain":     gain,
		}).Warn("Output scaled down to avoid clipping")
	}

	out, err := audioio.ClipFromSignal(st.sig, st.lengths, st.sampleRate)
	if err != nil {
		return "", err
	}

	f, err := os.Create(outPath)
	if err != nil {
		return "", err
	}

	if err := audioio.WriteWAV16(f, out); err != nil {
		f.Close()
		return "", err
	}

	if err := f.Close(); err != nil {
		return "", err
	}

	log.WithFields(logrus.Fields{
		"function": "process",
		"output":   outPath,
		"frames":   out.Frames(),
	}).Info("Wrote output")

	return fmt.Sprintf("%s: %d ch, %d frames @ %d Hz, speed %.3g", outPath, len(out.Channels), out.Frames(), out.SampleRate, applied), nil
}

func perturb(st *state, opts options, cfg core.ProcessorConfig) (float64, error) {
	popts := []speed.PerturbationOption{speed.WithSpeedOptions(speed.WithWorkers(cfg.Workers))}
	if opts.hasSeed {
		popts = append(popts, speed.WithSeed(opts.seed))
	}

	p, err := speed.NewPerturbation(st.sampleRate, opts.factors, popts...)
	if err != nil {
		return 0, err
	}

	sig, lengths, factor, err := p.Apply(st.sig, st.lengths)
	if err != nil {
		return 0, err
	}

	st.sig, st.lengths = sig, lengths

	return factor, nil
}

func changeSpeed(st *state, factor float64, cfg core.ProcessorConfig) error {
	sig, lengths, err := speed.Apply(st.sig, st.lengths, st.sampleRate, factor, speed.WithWorkers(cfg.Workers))
	if err != nil {
		return err
	}

	st.sig, st.lengths = sig, lengths

	return nil
}

func addNoise(st *state, reg *audioio.Registry, opts options, cfg core.ProcessorConfig) error {
	rows, frames := st.sig.Rows(), st.sig.Len()

	var sources [][]float64

	if opts.noise == "white" {
		seed := opts.seed
		if !opts.hasSeed {
			seed = rand.Uint64()
		}

		w, err := whiteNoise(rows, frames, st.sampleRate, seed)
		if err != nil {
			return err
		}

		sources = w
	} else {
		clip, err := reg.ReadFile(opts.noise)
		if err != nil {
			return err
		}

		channels := clip.Channels
		if clip.SampleRate != st.sampleRate {
			channels, err = streamResample(channels, clip.SampleRate, st.sampleRate)
			if err != nil {
				return err
			}
		}

		for i := range rows {
			sources = append(sources, channels[i%len(channels)])
		}
	}

	noise, err := batch.New(rows, frames)
	if err != nil {
		return err
	}

	for i, src := range sources {
		tile(noise.Row(i), src)
	}

	snr := batch.Full(opts.snr, rows)

	mixed, err := mix.AddNoise(st.sig, noise, st.lengths, snr, mix.WithWorkers(cfg.Workers))
	if err != nil {
		return err
	}

	st.sig = mixed

	return nil
}

// whiteNoise draws one uncorrelated noise row per channel from a single
// seeded sequence.
func whiteNoise(rows, frames, sampleRate int, seed uint64) ([][]float64, error) {
	gen := synth.NewGenerator([]core.ProcessorOption{core.WithSampleRate(sampleRate)}, synth.WithSeed(seed))

	w, err := gen.WhiteNoise(1, rows*frames)
	if err != nil {
		return nil, err
	}

	out := make([][]float64, rows)
	for i := range out {
		out[i] = w[i*frames : (i+1)*frames]
	}

	return out, nil
}

// tile fills dst by repeating src.
func tile(dst, src []float64) {
	if len(src) == 0 {
		return
	}

	for off := 0; off < len(dst); off += len(src) {
		copy(dst[off:], src)
	}
}

// streamResample converts each channel block by block. The converter delay
// is irrelevant for noise beds.
func streamResample(channels [][]float64, from, to int) ([][]float64, error) {
	out := make([][]float64, len(channels))

	for i, ch := range channels {
		s, err := resample.NewStreamForRates(float64(from), float64(to))
		if err != nil {
			return nil, err
		}

		for off := 0; off < len(ch); off += streamChunk {
			out[i] = append(out[i], s.Process(ch[off:min(off+streamChunk, len(ch))])...)
		}
	}

	return out, nil
}

func reverberate(st *state, reg *audioio.Registry, path string) error {
	clip, err := reg.ReadFile(path)
	if err != nil {
		return err
	}

	if clip.SampleRate != st.sampleRate {
		return fmt.Errorf("impulse response rate %d Hz differs from signal rate %d Hz", clip.SampleRate, st.sampleRate)
	}

	h := clip.Channels[0]

	norm := math.Sqrt(core.Energy(h))
	if norm == 0 {
		return fmt.Errorf("impulse response %s is silent", path)
	}

	rir := make([]float64, len(h))
	for i, v := range h {
		rir[i] = v / norm
	}

	ir, err := batch.FromSlice(rir, len(rir))
	if err != nil {
		return err
	}

	full, err := conv.FFTConvolveBatch(st.sig, ir, conv.ModeFull)
	if err != nil {
		return err
	}

	// Keep the input length so the reverb tail does not extend the clip.
	out, err := batch.New(st.sig.Shape()...)
	if err != nil {
		return err
	}

	for i := range out.Rows() {
		copy(out.Row(i), full.Row(i))
	}

	st.sig = out

	return nil
}

func lowPass(st *state, cutoffHz float64, taps int) error {
	nyquist := float64(st.sampleRate) / 2

	h, err := sinc.LowPass(min(cutoffHz/nyquist, 1), taps)
	if err != nil {
		return err
	}

	kernel, err := batch.FromSlice(h, len(h))
	if err != nil {
		return err
	}

	out, err := conv.ConvolveBatch(st.sig, kernel, conv.ModeSame)
	if err != nil {
		return err
	}

	st.sig = out

	return nil
}

// convertRate resamples every row with a delay-free converter so valid
// lengths stay aligned with content.
func convertRate(st *state, cfg core.ProcessorConfig) error {
	a, err := resample.NewAlignedForRates(float64(st.sampleRate), float64(cfg.SampleRate))
	if err != nil {
		return err
	}

	out, err := batch.New(st.sig.Rows(), a.OutputLen(st.sig.Len()))
	if err != nil {
		return err
	}

	err = batch.ForEachRow(out.Rows(), cfg.Workers, func(i int) error {
		a.ProcessTo(out.Row(i), st.sig.Row(i))
		return nil
	})
	if err != nil {
		return err
	}

	if st.lengths != nil {
		values := st.lengths.Values()
		for i, l := range values {
			values[i] = min(a.OutputLen(l), out.Len())
		}

		if st.lengths, err = batch.NewLengths(values, out.Rows()); err != nil {
			return err
		}
	}

	st.sig = out
	st.sampleRate = cfg.SampleRate

	return nil
}

// limitPeak scales the whole clip down when its peak exceeds limit and
// returns the applied gain.
func limitPeak(st *state, limit float64) (float64, error) {
	if limit <= 0 {
		return 1, nil
	}

	data := st.sig.Data()

	peak := core.Peak(data)
	if peak <= limit {
		return 1, nil
	}

	scaled, err := synth.Normalize(data, limit)
	if err != nil {
		return 0, err
	}

	sig, err := batch.FromSlice(scaled, st.sig.Shape()...)
	if err != nil {
		return 0, err
	}

	st.sig = sig

	return limit / peak, nil
}
