package eq

import "github.com/cwbudde/algo-eq/dsp/filter/biquad"

// CutCascade is a fixed arena of MaxStages biquad sections. Only the first
// ActiveCount stages process audio; the others keep their state frozen.
type CutCascade struct {
	stages [MaxStages]biquad.Section
	active int
}

// NewCutCascade returns a cascade with one identity stage active.
func NewCutCascade() *CutCascade {
	c := &CutCascade{}
	c.Configure(CascadeCoefficients{Active: 1, Sections: identitySections()})

	return c
}

func identitySections() [MaxStages]biquad.Coefficients {
	var s [MaxStages]biquad.Coefficients
	for i := range s {
		s[i] = biquad.Identity()
	}

	return s
}

// Configure installs coeffs and marks stages below coeffs.Active as active.
// Delay lines are kept. Active is clamped to [1, MaxStages].
func (c *CutCascade) Configure(coeffs CascadeCoefficients) {
	for i := range c.stages {
		c.stages[i].SetCoefficients(coeffs.Sections[i])
	}

	c.active = min(max(coeffs.Active, 1), MaxStages)
}

// ActiveCount returns how many stages are applied.
func (c *CutCascade) ActiveCount() int {
	return c.active
}

// IsActive reports whether stage i is applied.
func (c *CutCascade) IsActive(i int) bool {
	return i >= 0 && i < c.active
}

// Stage exposes slot i for inspection.
func (c *CutCascade) Stage(i int) *biquad.Section {
	return &c.stages[i]
}

// Coefficients returns the installed coefficients.
func (c *CutCascade) Coefficients() CascadeCoefficients {
	out := CascadeCoefficients{Active: c.active}
	for i := range c.stages {
		out.Sections[i] = c.stages[i].Coefficients
	}

	return out
}

// ProcessSample runs x through the active stages in slot order.
func (c *CutCascade) ProcessSample(x float64) float64 {
	for i := range c.active {
		x = c.stages[i].ProcessSample(x)
	}

	return x
}

// ProcessBlock filters buf in-place through stages 0..ActiveCount-1.
func (c *CutCascade) ProcessBlock(buf []float64) {
	for i := range c.active {
		c.stages[i].ProcessBlock(buf)
	}
}

// Reset clears the state of every slot, bypassed ones included.
func (c *CutCascade) Reset() {
	for i := range c.stages {
		c.stages[i].Reset()
	}
}

// FlushDenormals zeroes vanishing state in the active stages.
func (c *CutCascade) FlushDenormals(threshold float64) {
	for i := range c.active {
		c.stages[i].FlushDenormals(threshold)
	}
}

// MagnitudeSquared returns the product of |H|² over the active stages.
func (cc *CascadeCoefficients) MagnitudeSquared(freq, sampleRate float64) float64 {
	p := 1.0
	for i := range min(max(cc.Active, 0), MaxStages) {
		p *= cc.Sections[i].MagnitudeSquared(freq, sampleRate)
	}

	return p
}
