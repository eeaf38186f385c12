package biquad

import (
	"math"
	"math/cmplx"
	"testing"
)

func TestMagnitudeSquared_MatchesResponse(t *testing.T) {
	sr := 48000.0

	for _, freq := range []float64{20, 100, 500, 1000, 5000, 10000, 20000} {
		h := smoothing.Response(freq, sr)
		fromResponse := real(h)*real(h) + imag(h)*imag(h)

		fromClosed := smoothing.MagnitudeSquared(freq, sr)
		if !almostEqual(fromClosed, fromResponse, 1e-10) {
			t.Errorf("freq=%v: MagnitudeSquared=%.15f, |Response|²=%.15f", freq, fromClosed, fromResponse)
		}
	}
}

func TestMagnitudeDB_MatchesMagnitudeSquared(t *testing.T) {
	sr := 44100.0

	for _, freq := range []float64{100, 1000, 10000} {
		db := smoothing.MagnitudeDB(freq, sr)

		fromSq := 10 * math.Log10(smoothing.MagnitudeSquared(freq, sr))
		if !almostEqual(db, fromSq, 1e-12) {
			t.Errorf("freq=%v: MagnitudeDB=%.15f, 10*log10(MagSq)=%.15f", freq, db, fromSq)
		}
	}
}

func TestResponse_Identity(t *testing.T) {
	c := Identity()

	for _, freq := range []float64{0, 100, 1000, 10000, 24000} {
		if mag := cmplx.Abs(c.Response(freq, 48000)); !almostEqual(mag, 1, 1e-12) {
			t.Errorf("freq=%v: |H|=%v, want 1", freq, mag)
		}

		if phase := cmplx.Phase(c.Response(freq, 48000)); !almostEqual(phase, 0, 1e-12) {
			t.Errorf("freq=%v: phase=%v, want 0", freq, phase)
		}
	}
}

func TestResponse_Allpass(t *testing.T) {
	a1, a2 := -0.5, 0.3
	c := Coefficients{B0: a2, B1: a1, B2: 1, A1: a1, A2: a2}

	for _, freq := range []float64{100, 500, 1000, 5000, 10000, 20000} {
		if mag := cmplx.Abs(c.Response(freq, 48000)); !almostEqual(mag, 1, 1e-10) {
			t.Errorf("freq=%v: |H|=%.15f, want 1", freq, mag)
		}
	}
}
