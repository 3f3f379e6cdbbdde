// Package audioio decodes audio files into planar float64 clips and writes
// 16-bit PCM WAV files.
package audioio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cwbudde/algo-augment/dsp/batch"
)

var (
	// ErrUnsupportedFormat indicates no decoder is registered for a file extension.
	ErrUnsupportedFormat = errors.New("audioio: unsupported format")
	// ErrInvalidFile indicates a file that its decoder rejected.
	ErrInvalidFile = errors.New("audioio: invalid file")
	// ErrUnsupportedBitDepth indicates a PCM bit depth other than 8, 16, 24 or 32.
	ErrUnsupportedBitDepth = errors.New("audioio: unsupported bit depth")
	// ErrEmptyClip indicates a clip without channels or samples.
	ErrEmptyClip = errors.New("audioio: empty clip")
)

// Clip is decoded audio. Channels are planar with samples in [-1, 1].
type Clip struct {
	SampleRate int
	Channels   [][]float64
}

// Frames returns the number of samples per channel.
func (c *Clip) Frames() int {
	if len(c.Channels) == 0 {
		return 0
	}

	return len(c.Channels[0])
}

// Signal copies the clip into a (channels, frames) batch.
func (c *Clip) Signal() (*batch.Signal, error) {
	if len(c.Channels) == 0 || c.Frames() == 0 {
		return nil, ErrEmptyClip
	}

	return batch.FromRows(c.Channels)
}

// ClipFromSignal splits a (channels, frames) batch into a clip. The first
// lengths[i] samples of each row are kept when lengths is not nil, and
// channels are padded with zeros to a common length.
func ClipFromSignal(s *batch.Signal, lengths *batch.Lengths, sampleRate int) (*Clip, error) {
	if s == nil || s.Rank() != 2 {
		return nil, fmt.Errorf("%w: want (channels, frames)", batch.ErrInvalidShape)
	}

	frames := s.Len()
	if lengths != nil {
		frames = lengths.Max()
	}

	clip := &Clip{SampleRate: sampleRate, Channels: make([][]float64, s.Rows())}
	for i := range clip.Channels {
		ch := make([]float64, frames)
		row := s.Row(i)
		if lengths != nil {
			row = row[:lengths.At(i)]
		}

		copy(ch, row)
		clip.Channels[i] = ch
	}

	return clip, nil
}

// Decoder reads a whole file into a Clip.
type Decoder interface {
	Decode(r io.Reader) (*Clip, error)
}

// Registry maps lower-case file extensions without the dot to decoders.
type Registry struct {
	mu     sync.RWMutex
	codecs map[string]Decoder
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{codecs: make(map[string]Decoder)}
}

// DefaultRegistry returns a registry with every built-in decoder.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register("wav", WAVDecoder{})
	r.Register("aiff", AIFFDecoder{})
	r.Register("aif", AIFFDecoder{})
	r.Register("mp3", MP3Decoder{})
	r.Register("ogg", OggDecoder{})

	return r
}

// Register adds or replaces the decoder for ext.
func (r *Registry) Register(ext string, d Decoder) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.codecs[normalizeExt(ext)] = d
}

// Get returns the decoder for ext.
func (r *Registry) Get(ext string) (Decoder, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	d, ok := r.codecs[normalizeExt(ext)]

	return d, ok
}

// ReadFile decodes path with the decoder registered for its extension.
func (r *Registry) ReadFile(path string) (*Clip, error) {
	ext := filepath.Ext(path)
	d, ok := r.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	defer f.Close()

	clip, err := d.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}

	return clip, nil
}

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(ext, "."))
}

// readSeeker returns r itself when it can seek and an in-memory copy otherwise.
func readSeeker(r io.Reader) (io.ReadSeeker, error) {
	if rs, ok := r.(io.ReadSeeker); ok {
		return rs, nil
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	return bytes.NewReader(data), nil
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 8, 16, 24, 32:
		return float64(int64(1) << (bitDepth - 1)), nil
	default:
		return 0, fmt.Errorf("%w: %d", ErrUnsupportedBitDepth, bitDepth)
	}
}

// deinterleave splits interleaved integer PCM into planar channels.
func deinterleave(data []int, channels int, scale float64) [][]float64 {
	frames := len(data) / channels
	out := make([][]float64, channels)
	for c := range out {
		ch := make([]float64, frames)
		for i := range ch {
			ch[i] = float64(data[i*channels+c]) / scale
		}

		out[c] = ch
	}

	return out
}
