// Package signal generates test and excitation signals for the equalizer:
// deterministic white noise and phase-continuous sines, either as whole
// buffers or streamed block by block.
package signal

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// Generator creates deterministic signals from a shared configuration.
// Fill methods keep state between calls so consecutive blocks join without
// discontinuities. A Generator is not safe for concurrent use.
type Generator struct {
	cfg   core.ProcessorConfig
	seed  uint64
	rng   *rand.Rand
	phase float64
}

// Option configures a Generator.
type Option func(*Generator)

// WithSeed sets deterministic random seed for noise generation.
func WithSeed(seed uint64) Option {
	return func(g *Generator) {
		g.seed = seed
	}
}

// NewGenerator creates a configured signal generator.
func NewGenerator(opts ...core.ProcessorOption) *Generator {
	return NewGeneratorWithOptions(opts)
}

// NewGeneratorWithOptions creates a configured signal generator with signal-specific options.
func NewGeneratorWithOptions(coreOpts []core.ProcessorOption, opts ...Option) *Generator {
	g := &Generator{
		cfg:  core.ApplyProcessorOptions(coreOpts...),
		seed: 1,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	g.Reset()
	return g
}

// Config returns the generator processor configuration.
func (g *Generator) Config() core.ProcessorConfig {
	return g.cfg
}

// Seed returns the noise seed.
func (g *Generator) Seed() uint64 { return g.seed }

// SetSeed changes the noise seed and restarts the noise sequence.
func (g *Generator) SetSeed(seed uint64) {
	g.seed = seed
	g.Reset()
}

// Reset restarts the noise sequence and the sine phase.
func (g *Generator) Reset() {
	g.rng = rand.New(rand.NewPCG(g.seed, g.seed^0x9e3779b97f4a7c15))
	g.phase = 0
}

// Sine generates a sine wave starting at phase zero.
func (g *Generator) Sine(freqHz, amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("sine samples must be > 0: %d", samples)
	}
	if g.cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sine sample rate must be > 0: %f", g.cfg.SampleRate)
	}
	out := make([]float64, samples)
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}
	return out, nil
}

// WhiteNoise generates deterministic white noise in [-amplitude, amplitude]
// from the start of the seeded sequence.
func (g *Generator) WhiteNoise(amplitude float64, samples int) ([]float64, error) {
	if samples <= 0 {
		return nil, fmt.Errorf("noise samples must be > 0: %d", samples)
	}
	if amplitude < 0 {
		return nil, fmt.Errorf("noise amplitude must be >= 0: %f", amplitude)
	}
	g.Reset()
	out := make([]float64, samples)
	g.FillNoise(out, amplitude)
	return out, nil
}

// FillNoise overwrites dst with the next white noise samples. It does not
// allocate.
func (g *Generator) FillNoise(dst []float64, amplitude float64) {
	for i := range dst {
		dst[i] = (g.rng.Float64()*2 - 1) * amplitude
	}
}

// FillSine overwrites dst with the next samples of a sine, continuing the
// phase of the previous call. It does not allocate.
func (g *Generator) FillSine(dst []float64, freqHz, amplitude float64) {
	step := 2 * math.Pi * freqHz / g.cfg.SampleRate
	for i := range dst {
		dst[i] = amplitude * math.Sin(g.phase)
		g.phase += step
		if g.phase > math.Pi {
			g.phase -= 2 * math.Pi
		}
	}
}

// Normalize scales data to target peak amplitude and returns a new slice.
func Normalize(data []float64, targetPeak float64) ([]float64, error) {
	if targetPeak < 0 {
		return nil, fmt.Errorf("normalize target peak must be >= 0: %f", targetPeak)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("normalize input must not be empty")
	}

	maxAbs := 0.0
	for _, v := range data {
		maxAbs = max(maxAbs, math.Abs(v))
	}

	out := make([]float64, len(data))
	if maxAbs == 0 || targetPeak == 0 {
		return out, nil
	}

	scale := targetPeak / maxAbs
	for i, v := range data {
		out[i] = v * scale
	}
	return out, nil
}
