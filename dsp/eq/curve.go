package eq

import (
	"math"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// Display band of the response curve.
const (
	CurveMinFreq = 20.0
	CurveMaxFreq = 20000.0
)

// CurvePoint is the composite magnitude at one display column.
type CurvePoint struct {
	X           int     `json:"x"`
	Freq        float64 `json:"freq"`
	MagnitudeDB float64 `json:"db"`
}

// MagnitudeCurve is one CurvePoint per pixel column, in ascending frequency.
type MagnitudeCurve []CurvePoint

// CurveFrequency maps column i of width to 20·1000^(i/width) Hz.
func CurveFrequency(i, width int) float64 {
	if width <= 0 {
		return CurveMinFreq
	}

	return CurveMinFreq * math.Pow(CurveMaxFreq/CurveMinFreq, float64(i)/float64(width))
}

// ComputeCurve evaluates the closed-form magnitude of every active stage of
// coeffs at width log-spaced frequencies and returns the product in dB.
// Frequencies at or above Nyquist are evaluated just below it. A
// non-positive width or sample rate yields an empty curve.
func ComputeCurve(coeffs ChainCoefficients, sampleRate float64, width int) MagnitudeCurve {
	if width <= 0 || sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return MagnitudeCurve{}
	}

	limit := sampleRate / 2 * (1 - nyquistMargin)
	curve := make(MagnitudeCurve, width)

	for i := range curve {
		freq := CurveFrequency(i, width)
		db := coeffs.MagnitudeAt(min(freq, limit), sampleRate)

		curve[i] = CurvePoint{X: i, Freq: freq, MagnitudeDB: db}
	}

	return curve
}

// MagnitudeAt evaluates the composite response of c at one frequency.
func (c *ChainCoefficients) MagnitudeAt(freq, sampleRate float64) float64 {
	power := c.LowCut.MagnitudeSquared(freq, sampleRate)
	power *= c.Peak.MagnitudeSquared(freq, sampleRate)
	power *= c.HighCut.MagnitudeSquared(freq, sampleRate)

	return core.PowerToDB(power)
}

// At returns the magnitude of the column whose frequency is nearest freq on
// a log scale. It returns NaN for an empty curve.
func (mc MagnitudeCurve) At(freq float64) float64 {
	if len(mc) == 0 || freq <= 0 {
		return math.NaN()
	}

	target := math.Log(freq)
	best, bestDist := 0, math.Inf(1)

	for i, p := range mc {
		if d := math.Abs(math.Log(p.Freq) - target); d < bestDist {
			best, bestDist = i, d
		}
	}

	return mc[best].MagnitudeDB
}

// Min returns the smallest magnitude in the curve, or NaN when empty.
func (mc MagnitudeCurve) Min() float64 {
	if len(mc) == 0 {
		return math.NaN()
	}

	v := mc[0].MagnitudeDB
	for _, p := range mc[1:] {
		v = min(v, p.MagnitudeDB)
	}

	return v
}

// Max returns the largest magnitude in the curve, or NaN when empty.
func (mc MagnitudeCurve) Max() float64 {
	if len(mc) == 0 {
		return math.NaN()
	}

	v := mc[0].MagnitudeDB
	for _, p := range mc[1:] {
		v = max(v, p.MagnitudeDB)
	}

	return v
}

// Values returns just the dB magnitudes.
func (mc MagnitudeCurve) Values() []float64 {
	out := make([]float64, len(mc))
	for i, p := range mc {
		out[i] = p.MagnitudeDB
	}

	return out
}
