package eq

import (
	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

// FilterChain is the per-channel signal path: low cut, then peak, then high
// cut. It shares nothing with other channels.
type FilterChain struct {
	LowCut  CutCascade
	Peak    biquad.Section
	HighCut CutCascade

	sampleRate float64
}

// NewFilterChain returns a pass-through chain at the default sample rate.
func NewFilterChain() *FilterChain {
	fc := &FilterChain{}
	fc.Prepare(core.DefaultSampleRate)

	return fc
}

// Prepare clears all state and installs pass-through coefficients. Call it
// once before streaming starts.
func (fc *FilterChain) Prepare(sampleRate float64) {
	fc.sampleRate = sampleRate
	fc.Apply(ChainCoefficients{
		LowCut:  CascadeCoefficients{Sections: identitySections(), Active: 1},
		Peak:    biquad.Identity(),
		HighCut: CascadeCoefficients{Sections: identitySections(), Active: 1},
	})
	fc.Reset()
}

// SampleRate returns the rate passed to Prepare.
func (fc *FilterChain) SampleRate() float64 {
	return fc.sampleRate
}

// Update designs coefficients for p and applies them. Invalid parameters
// leave the chain unchanged and return ErrInvalidFilterDesign.
func (fc *FilterChain) Update(p ParameterSnapshot) error {
	coeffs, err := MakeChain(p, fc.sampleRate)
	if err != nil {
		return err
	}

	fc.Apply(coeffs)

	return nil
}

// Apply installs a complete coefficient set without touching delay lines.
func (fc *FilterChain) Apply(c ChainCoefficients) {
	fc.LowCut.Configure(c.LowCut)
	fc.Peak.SetCoefficients(c.Peak)
	fc.HighCut.Configure(c.HighCut)
}

// Coefficients returns the installed coefficients.
func (fc *FilterChain) Coefficients() ChainCoefficients {
	return ChainCoefficients{
		LowCut:  fc.LowCut.Coefficients(),
		Peak:    fc.Peak.Coefficients,
		HighCut: fc.HighCut.Coefficients(),
	}
}

// ProcessSample filters one sample.
func (fc *FilterChain) ProcessSample(x float64) float64 {
	x = fc.LowCut.ProcessSample(x)
	x = fc.Peak.ProcessSample(x)

	return fc.HighCut.ProcessSample(x)
}

// ProcessBlock filters buf in-place and then flushes denormal state.
func (fc *FilterChain) ProcessBlock(buf []float64) {
	fc.LowCut.ProcessBlock(buf)
	fc.Peak.ProcessBlock(buf)
	fc.HighCut.ProcessBlock(buf)
	fc.FlushDenormals()
}

// FlushDenormals zeroes vanishing state in all active stages.
func (fc *FilterChain) FlushDenormals() {
	fc.LowCut.FlushDenormals(core.DenormalThreshold)
	fc.Peak.FlushDenormals(core.DenormalThreshold)
	fc.HighCut.FlushDenormals(core.DenormalThreshold)
}

// Reset clears every delay line.
func (fc *FilterChain) Reset() {
	fc.LowCut.Reset()
	fc.Peak.Reset()
	fc.HighCut.Reset()
}
