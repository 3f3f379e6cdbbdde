package audioio

import (
	"encoding/binary"
	"io"

	gomp3 "github.com/hajimehoshi/go-mp3"
)

// MP3Decoder decodes MPEG-1/2 Layer III files. go-mp3 always produces
// 16-bit little-endian stereo.
type MP3Decoder struct{}

// Decode implements Decoder.
func (MP3Decoder) Decode(r io.Reader) (*Clip, error) {
	dec, err := gomp3.NewDecoder(r)
	if err != nil {
		return nil, err
	}

	raw, err := io.ReadAll(dec)
	if err != nil {
		return nil, err
	}

	return &Clip{
		SampleRate: dec.SampleRate(),
		Channels:   decodeS16LE(raw, 2),
	}, nil
}

func decodeS16LE(raw []byte, channels int) [][]float64 {
	samples := make([]int, len(raw)/2)
	for i := range samples {
		samples[i] = int(int16(binary.LittleEndian.Uint16(raw[2*i:])))
	}

	return deinterleave(samples, channels, 32768)
}
