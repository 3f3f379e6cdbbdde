package audioio

import (
	"fmt"
	"io"

	"github.com/jfreymuth/oggvorbis"
)

// OggDecoder decodes Ogg Vorbis files.
type OggDecoder struct{}

// Decode implements Decoder.
func (OggDecoder) Decode(r io.Reader) (*Clip, error) {
	data, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return nil, err
	}

	if format == nil || format.Channels <= 0 {
		return nil, fmt.Errorf("%w: missing format", ErrInvalidFile)
	}

	nch := format.Channels
	frames := len(data) / nch
	channels := make([][]float64, nch)
	for c := range channels {
		ch := make([]float64, frames)
		for i := range ch {
			ch[i] = float64(data[i*nch+c])
		}

		channels[c] = ch
	}

	return &Clip{SampleRate: format.SampleRate, Channels: channels}, nil
}
