package spectrum

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// MagnitudeFromParts computes |X[k]| = sqrt(re[k]^2 + im[k]^2) into dst
// using the SIMD kernels of algo-vecmath. All three slices must have the
// same length.
func MagnitudeFromParts(dst, re, im []float64) {
	vecmath.Magnitude(dst, re, im)
}

// MagnitudeFromBins splits the first len(dst) bins of spec and writes their
// magnitudes into dst.
func MagnitudeFromBins(dst []float64, spec []complex128) {
	n := len(dst)
	re := make([]float64, n)
	im := make([]float64, n)
	for k := range n {
		re[k] = real(spec[k])
		im[k] = imag(spec[k])
	}

	MagnitudeFromParts(dst, re, im)
}

// InterpolateBin returns mag at fractional bin position pos, interpolating
// linearly between neighbours. pos is clamped to the valid range.
func InterpolateBin(mag []float64, pos float64) float64 {
	if len(mag) == 0 || math.IsNaN(pos) {
		return 0
	}

	pos = math.Max(0, math.Min(pos, float64(len(mag)-1)))
	k := int(math.Floor(pos))
	frac := pos - float64(k)

	m := mag[k]
	if k+1 < len(mag) {
		m += frac * (mag[k+1] - m)
	}

	return m
}
