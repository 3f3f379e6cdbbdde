package audioio

import (
	"errors"
	"fmt"
	"io"

	"github.com/go-audio/aiff"
	"github.com/go-audio/audio"
)

// pcmReader is the part of aiff.Decoder used after the header is parsed.
type pcmReader interface {
	Format() *audio.Format
	PCMBuffer(buf *audio.IntBuffer) (int, error)
}

// AIFFDecoder decodes integer PCM AIFF files.
type AIFFDecoder struct{}

// Decode implements Decoder.
func (AIFFDecoder) Decode(r io.Reader) (*Clip, error) {
	rs, err := readSeeker(r)
	if err != nil {
		return nil, err
	}

	dec := aiff.NewDecoder(rs)
	if !dec.IsValidFile() {
		return nil, fmt.Errorf("%w: not an AIFF file", ErrInvalidFile)
	}

	dec.ReadInfo()

	return readPCM(dec, int(dec.BitDepth))
}

func readPCM(dec pcmReader, bitDepth int) (*Clip, error) {
	format := dec.Format()
	if format == nil || format.NumChannels <= 0 {
		return nil, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}

	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	chunk := &audio.IntBuffer{Format: format, Data: make([]int, 4096*format.NumChannels)}
	var data []int
	for {
		n, err := dec.PCMBuffer(chunk)
		data = append(data, chunk.Data[:n]...)
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}

		if n == 0 || err != nil {
			break
		}
	}

	return &Clip{
		SampleRate: format.SampleRate,
		Channels:   deinterleave(data, format.NumChannels, scale),
	}, nil
}
