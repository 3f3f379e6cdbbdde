package audioio

import (
	"fmt"
	"io"
	"math"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/cwbudde/algo-augment/dsp/core"
)

// WAVDecoder decodes integer PCM WAV files.
type WAVDecoder struct{}

// Decode implements Decoder.
func (WAVDecoder) Decode(r io.Reader) (*Clip, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := wav.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not a PCM WAV file", ErrInvalidFile)
	}

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, err
	}

	if buf.Format == nil || buf.Format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}

	scale, err := fullScale(int(dec.BitDepth))
	if err != nil {
		return nil, err
	}

	return &Clip{
		SampleRate: buf.Format.SampleRate,
		Channels:   deinterleave(buf.Data, buf.Format.NumChannels, scale),
	}, nil
}

// WriteWAV16 encodes clip as 16-bit PCM. Samples outside [-1, 1] are clipped.
func WriteWAV16(w io.WriteSeeker, clip *Clip) error {
	nch := len(clip.Channels)
	frames := clip.Frames()
	if nch == 0 || frames == 0 {
		return ErrEmptyClip
	}

	for i, ch := range clip.Channels {
		if len(ch) != frames {
			return fmt.Errorf("%w: channel %d has %d samples, want %d", ErrInvalidFile, i, len(ch), frames)
		}
	}

	data := make([]int, nch*frames)
	for c, ch := range clip.Channels {
		for i, v := range ch {
			data[i*nch+c] = int(math.Round(core.Clamp(v, -1, 1) * math.MaxInt16))
		}
	}

	enc := wav.NewEncoder(w, clip.SampleRate, 16, nch, 1)
	buf := &audio.IntBuffer{
		Format:         &audio.Format{NumChannels: nch, SampleRate: clip.SampleRate},
		Data:           data,
		SourceBitDepth: 16,
	}

	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("audioio: write wav: %w", err)
	}

	return enc.Close()
}
