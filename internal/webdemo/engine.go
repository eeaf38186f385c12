// Package webdemo is the browser demo behind web/wasm: a 16-step tone
// sequencer whose output runs through an eq.Engine. It has no js
// dependencies so it can be tested natively.
package webdemo

import (
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/eq"
)

const (
	stepCount       = 16
	minDecaySeconds = 0.01
	maxVoices       = 64
	blockSize       = 256
)

// StepConfig defines one sequencer step.
type StepConfig struct {
	Enabled bool
	FreqHz  float64
}

// Engine renders the demo. SetEQ may be called from the UI thread while
// Render runs on the audio callback.
type Engine struct {
	sampleRate float64
	tempoBPM   float64
	decaySec   float64
	master     float64
	running    bool

	steps       [stepCount]StepConfig
	currentStep int

	samplesUntilNextStep float64
	voices               []voice

	eq          *eq.Engine
	left, right []float64
}

// NewEngine creates a demo engine at sampleRate with a neutral equalizer.
func NewEngine(sampleRate float64) (*Engine, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be > 0: %f", sampleRate)
	}

	e := &Engine{
		sampleRate: sampleRate,
		tempoBPM:   110,
		decaySec:   0.2,
		master:     0.75,
		eq:         eq.NewEngine(core.WithSampleRate(sampleRate), core.WithMaxBlockSize(blockSize)),
		left:       make([]float64, blockSize),
		right:      make([]float64, blockSize),
	}
	for i := range stepCount {
		e.steps[i] = StepConfig{Enabled: i%4 == 0, FreqHz: defaultStepFreq(i)}
	}
	e.samplesUntilNextStep = e.stepDurationSamples()

	return e, nil
}

// SetEQ clamps p to the user-facing ranges and publishes it. It returns an
// error when the result cannot be realised at the demo sample rate.
func (e *Engine) SetEQ(p eq.ParameterSnapshot) error {
	return e.eq.Update(p.Clamp())
}

// EQ returns the equalizer for inspection.
func (e *Engine) EQ() *eq.Engine { return e.eq }

// SetMaster sets the output gain in [0, 1].
func (e *Engine) SetMaster(v float64) {
	e.master = core.Clamp(v, 0, 1)
}

// CurrentStep returns the currently playing step index.
func (e *Engine) CurrentStep() int {
	return e.currentStep
}

// Render fills dst with interleaved stereo PCM in [-1, 1]. A trailing odd
// sample is zeroed.
func (e *Engine) Render(dst []float32) {
	frames := len(dst) / 2
	if len(dst)%2 == 1 {
		dst[len(dst)-1] = 0
	}

	for off := 0; off < frames; off += blockSize {
		n := min(blockSize, frames-off)
		left, right := e.left[:n], e.right[:n]

		for i := range left {
			e.advance()
			left[i] = e.nextSample()
		}
		copy(right, left)

		e.eq.ProcessStereo(left, right)

		out := dst[2*off : 2*(off+n)]
		for i := range left {
			out[2*i] = float32(core.Clamp(left[i]*e.master, -1, 1))
			out[2*i+1] = float32(core.Clamp(right[i]*e.master, -1, 1))
		}
	}
}

// ResponseCurve returns the applied equalizer response at width points,
// including the master gain.
func (e *Engine) ResponseCurve(width int) eq.MagnitudeCurve {
	curve := e.eq.Curve(width)
	offset := core.LinearToDB(max(e.master, 1e-6))
	for i := range curve {
		curve[i].MagnitudeDB += offset
	}

	return curve
}
