package eq

import (
	"errors"
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/signal"
	"github.com/cwbudde/algo-eq/dsp/spectrum"
)

// ErrInvalidFFTSize is returned by MeasureCurve for sizes below 16.
var ErrInvalidFFTSize = errors.New("eq: fft size must be at least 16")

// Stepped-sine measurement windows.
const (
	toneSettleSeconds = 0.5
	toneMinCycles     = 50
	toneMinSamples    = 4096
)

// MinMeasureFreq is the lowest frequency either measurement accepts. It
// bounds the stepped-sine window, which grows as 1/f.
const MinMeasureFreq = 1.0

func validMeasureRate(sampleRate float64) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("eq: measure: %w: sample rate %v", ErrInvalidFilterDesign, sampleRate)
	}
	return nil
}

func validMeasureFreq(f float64) error {
	if !core.IsFinite(f) || f < MinMeasureFreq {
		return fmt.Errorf("eq: measure: %w: frequency %v Hz below %v Hz or not finite", ErrInvalidFilterDesign, f, MinMeasureFreq)
	}
	return nil
}

// MeasureCurve renders the impulse response of a fresh chain built from
// coeffs, transforms it and returns the magnitude in dB at each of freqs,
// interpolating linearly between bins. It is a simulation-based cross-check
// of ComputeCurve; fftSize must be large enough for the impulse response to
// decay. Frequencies must be finite and at least MinMeasureFreq; those above
// Nyquist read the Nyquist bin.
func MeasureCurve(coeffs ChainCoefficients, sampleRate float64, fftSize int, freqs []float64) ([]float64, error) {
	if fftSize < 16 {
		return nil, ErrInvalidFFTSize
	}

	if err := validMeasureRate(sampleRate); err != nil {
		return nil, err
	}

	for _, f := range freqs {
		if err := validMeasureFreq(f); err != nil {
			return nil, err
		}
	}

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("eq: measure fft plan: %w", err)
	}

	var fc FilterChain
	fc.Prepare(sampleRate)
	fc.Apply(coeffs)

	ir := make([]float64, fftSize)
	ir[0] = 1
	fc.ProcessBlock(ir)

	in := make([]complex128, fftSize)
	for i, v := range ir {
		in[i] = complex(v, 0)
	}

	spec := make([]complex128, fftSize)
	if err := plan.Forward(spec, in); err != nil {
		return nil, fmt.Errorf("eq: measure fft: %w", err)
	}

	mag := make([]float64, fftSize/2+1)
	spectrum.MagnitudeFromBins(mag, spec)

	binHz := sampleRate / float64(fftSize)
	out := make([]float64, len(freqs))

	for i, f := range freqs {
		out[i] = core.LinearToDB(spectrum.InterpolateBin(mag, f/binHz))
	}

	return out, nil
}

// MeasureTones drives a fresh chain built from coeffs with a sine at each of
// freqs, lets it settle and compares output and input with a Goertzel
// analyzer. It returns the gain in dB per frequency. Every frequency must lie
// in [MinMeasureFreq, nyquist).
func MeasureTones(coeffs ChainCoefficients, sampleRate float64, freqs []float64) ([]float64, error) {
	if err := validMeasureRate(sampleRate); err != nil {
		return nil, err
	}

	settle := int(toneSettleSeconds * sampleRate)
	out := make([]float64, len(freqs))

	var fc FilterChain
	gen := signal.NewGenerator(core.WithSampleRate(sampleRate))

	for i, f := range freqs {
		if err := validMeasureFreq(f); err != nil {
			return nil, err
		}

		if f >= sampleRate/2 {
			return nil, fmt.Errorf("eq: measure: %w: frequency %v Hz at or above Nyquist %v", ErrInvalidFilterDesign, f, sampleRate/2)
		}

		// A window of nearly whole cycles keeps the image term negligible.
		cycles := max(toneMinCycles, math.Ceil(toneMinSamples*f/sampleRate))
		window := int(math.Round(cycles * sampleRate / f))

		gIn, err := spectrum.NewGoertzel(f, sampleRate)
		if err != nil {
			return nil, err
		}
		gOut, _ := spectrum.NewGoertzel(f, sampleRate)

		fc.Prepare(sampleRate)
		fc.Apply(coeffs)
		gen.Reset()

		buf := make([]float64, settle+window)
		gen.FillSine(buf, f, 1)
		gIn.ProcessBlock(buf[settle:])

		fc.ProcessBlock(buf)
		gOut.ProcessBlock(buf[settle:])

		out[i] = core.LinearToDB(gOut.Magnitude() / gIn.Magnitude())
	}

	return out, nil
}
