package scale

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBarkRoundTrip(t *testing.T) {
	for _, s := range []Scale{Traunmuller, Schroeder, Wang} {
		for _, hz := range []float64{0, 20, 100, 500, 1000, 4000, 8000, 15500} {
			back := BarkToHz(HzToBark(hz, s), s)
			assert.InDelta(t, hz, back, 1e-9*math.Max(1, hz), "%v %v Hz", s, hz)
		}
	}
}

func TestHzToBarkKnownValues(t *testing.T) {
	assert.InDelta(t, 8.527, HzToBark(1000, Traunmuller), 1e-3)
	assert.InDelta(t, 6*math.Asinh(1000.0/600), HzToBark(1000, Wang), 1e-12)
	assert.InDelta(t, 7*math.Asinh(1000.0/650), HzToBark(1000, Schroeder), 1e-12)

	// Monotonic across the Traunmuller correction thresholds.
	prev := HzToBark(0, Traunmuller)
	for hz := 10.0; hz < 20000; hz += 10 {
		b := HzToBark(hz, Traunmuller)
		require.Greater(t, b, prev, "at %v Hz", hz)
		prev = b
	}
}

func TestBarkFilterbankShape(t *testing.T) {
	fb, err := BarkFilterbank(201, 0, 8000, 24, 16000, Traunmuller)
	require.NoError(t, err)

	nFreqs, nBarks := fb.Dims()
	assert.Equal(t, 201, nFreqs)
	assert.Equal(t, 24, nBarks)
	assert.Equal(t, Traunmuller, fb.Scale())
	assert.Empty(t, fb.EmptyFilters())

	w := fb.Weights()
	require.Len(t, w, 201)
	for k := range w {
		require.Len(t, w[k], 24)
		for _, v := range w[k] {
			assert.GreaterOrEqual(t, v, 0.0)
			assert.LessOrEqual(t, v, 1.0)
		}
	}
}

func TestBarkFilterbankTriangles(t *testing.T) {
	fb, err := BarkFilterbank(513, 50, 7000, 10, 16000, Wang)
	require.NoError(t, err)

	w := fb.Weights()
	for m := range 10 {
		peak, peakBin := 0.0, 0
		for k := range w {
			if w[k][m] > peak {
				peak, peakBin = w[k][m], k
			}
		}

		assert.Greater(t, peak, 0.9, "band %d", m)

		// Weights rise up to the peak and fall after it.
		for k := 1; k <= peakBin; k++ {
			require.GreaterOrEqual(t, w[k][m], w[k-1][m], "band %d bin %d", m, k)
		}

		for k := peakBin + 1; k < len(w); k++ {
			require.LessOrEqual(t, w[k][m], w[k-1][m], "band %d bin %d", m, k)
		}
	}
}

func TestBarkFilterbankEmptyFilters(t *testing.T) {
	fb, err := BarkFilterbank(8, 0, 8000, 40, 16000, Schroeder)
	require.NoError(t, err)
	assert.NotEmpty(t, fb.EmptyFilters())
}

func TestFilterbankApply(t *testing.T) {
	fb, err := BarkFilterbank(65, 0, 4000, 6, 8000, Traunmuller)
	require.NoError(t, err)

	spec := make([][]float64, 65)
	for k := range spec {
		spec[k] = []float64{1, float64(k), 0}
	}

	out, err := fb.Apply(spec)
	require.NoError(t, err)
	require.Len(t, out, 6)

	w := fb.Weights()
	for m := range 6 {
		var sum, weighted float64
		for k := range w {
			sum += w[k][m]
			weighted += w[k][m] * float64(k)
		}

		assert.InDelta(t, sum, out[m][0], 1e-9)
		assert.InDelta(t, weighted, out[m][1], 1e-9)
		assert.Zero(t, out[m][2])
	}

	_, err = fb.Apply(spec[:10])
	require.ErrorIs(t, err, ErrShapeMismatch)

	spec[3] = []float64{1}
	_, err = fb.Apply(spec)
	require.ErrorIs(t, err, ErrShapeMismatch)
}

func TestBarkFilterbankValidation(t *testing.T) {
	_, err := BarkFilterbank(201, 0, 8000, 24, 16000, Scale(9))
	require.ErrorIs(t, err, ErrInvalidScale)

	for _, tc := range []struct {
		nFreqs, nBarks int
		fMin, fMax, sr float64
	}{
		{1, 24, 0, 8000, 16000},
		{201, 0, 0, 8000, 16000},
		{201, 24, 100, 100, 16000},
		{201, 24, 0, 9000, 16000},
		{201, 24, -1, 8000, 16000},
		{201, 24, 0, 8000, 0},
	} {
		_, err := BarkFilterbank(tc.nFreqs, tc.fMin, tc.fMax, tc.nBarks, tc.sr, Traunmuller)
		require.ErrorIs(t, err, ErrInvalidArgument, "%+v", tc)
	}
}

func TestParseScale(t *testing.T) {
	for _, s := range []Scale{Traunmuller, Schroeder, Wang} {
		got, err := ParseScale(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	_, err := ParseScale("mel")
	require.ErrorIs(t, err, ErrInvalidScale)
	assert.Equal(t, "Scale(7)", Scale(7).String())
}
