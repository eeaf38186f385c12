package design

import (
	"errors"
	"fmt"
	"math"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

const defaultQ = 1 / math.Sqrt2

// Limits of the peaking design. Outside them the section's poles are too
// close to the unit circle, or its gain overflows, for float64 coefficients.
const (
	MinQ      = 1e-3
	MaxQ      = 1e3
	MaxGainDB = 120
)

// ErrInvalidFilterDesign is returned when a corner frequency lies outside
// (0, sampleRate/2), Q is not positive, or any input is not finite.
var ErrInvalidFilterDesign = errors.New("design: invalid filter design")

// ValidateSampleRate checks that sampleRate is positive and finite.
func ValidateSampleRate(sampleRate float64) error {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return fmt.Errorf("%w: sample rate %v must be positive", ErrInvalidFilterDesign, sampleRate)
	}

	return nil
}

// ValidateFrequency checks that freq lies strictly inside (0, sampleRate/2).
func ValidateFrequency(freq, sampleRate float64) error {
	if err := ValidateSampleRate(sampleRate); err != nil {
		return err
	}

	if math.IsNaN(freq) || math.IsInf(freq, 0) || freq <= 0 || freq >= sampleRate/2 {
		return fmt.Errorf("%w: frequency %v Hz outside (0, %v)", ErrInvalidFilterDesign, freq, sampleRate/2)
	}

	return nil
}

// ValidateQ checks that q is positive and inside [MinQ, MaxQ].
func ValidateQ(q float64) error {
	if math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return fmt.Errorf("%w: Q %v must be positive", ErrInvalidFilterDesign, q)
	}

	if q < MinQ || q > MaxQ {
		return fmt.Errorf("%w: Q %v outside [%v, %v]", ErrInvalidFilterDesign, q, MinQ, MaxQ)
	}

	return nil
}

// ValidateGain checks that gainDB is finite and at most MaxGainDB in
// magnitude. Either sign is allowed.
func ValidateGain(gainDB float64) error {
	if math.IsNaN(gainDB) || math.IsInf(gainDB, 0) {
		return fmt.Errorf("%w: gain %v dB must be finite", ErrInvalidFilterDesign, gainDB)
	}

	if math.Abs(gainDB) > MaxGainDB {
		return fmt.Errorf("%w: gain %v dB outside ±%v", ErrInvalidFilterDesign, gainDB, MaxGainDB)
	}

	return nil
}

// Lowpass designs an RBJ lowpass biquad at freq (Hz) with quality factor q.
func Lowpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b1 := 1 - cw
	b0 := b1 / 2
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Highpass designs an RBJ highpass biquad at freq (Hz) with quality factor q.
func Highpass(freq, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	alpha := math.Sin(w0) / (2 * q)

	b0 := (1 + cw) / 2
	b1 := -(1 + cw)
	b2 := b0
	a0 := 1 + alpha
	a1 := -2 * cw
	a2 := 1 - alpha

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

// Peak designs an RBJ peaking-EQ biquad with gain in dB. The magnitude at
// freq is exactly gainDB; it returns to unity far from freq.
func Peak(freq, gainDB, q, sampleRate float64) biquad.Coefficients {
	w0, ok := normalizedW0(freq, sampleRate)
	if !ok {
		return biquad.Coefficients{}
	}

	q = normalizedQ(q)
	cw := math.Cos(w0)
	sw := math.Sin(w0)
	alpha := sw / (2 * q)
	a := math.Pow(10, gainDB/40)

	b0 := 1 + alpha*a
	b1 := -2 * cw
	b2 := 1 - alpha*a
	a0 := 1 + alpha/a
	a1 := -2 * cw
	a2 := 1 - alpha/a

	return normalizeBiquad(b0, b1, b2, a0, a1, a2)
}

func normalizedW0(freq, sampleRate float64) (float64, bool) {
	if sampleRate <= 0 || math.IsNaN(sampleRate) || math.IsInf(sampleRate, 0) {
		return 0, false
	}

	nyquist := sampleRate / 2
	if freq <= 0 || freq >= nyquist || math.IsNaN(freq) || math.IsInf(freq, 0) {
		return 0, false
	}

	return 2 * math.Pi * freq / sampleRate, true
}

func normalizedQ(q float64) float64 {
	if q <= 0 || math.IsNaN(q) || math.IsInf(q, 0) {
		return defaultQ
	}

	return q
}

func normalizeBiquad(b0, b1, b2, a0, a1, a2 float64) biquad.Coefficients {
	if a0 == 0 || math.IsNaN(a0) || math.IsInf(a0, 0) {
		return biquad.Coefficients{}
	}

	return biquad.Coefficients{
		B0: b0 / a0,
		B1: b1 / a0,
		B2: b2 / a0,
		A1: a1 / a0,
		A2: a2 / a0,
	}
}
