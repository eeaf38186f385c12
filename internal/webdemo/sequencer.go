package webdemo

import "math"

// voice is one decaying sine tone.
type voice struct {
	phase       float64
	phaseStep   float64
	ageSamples  int
	decaySample int
}

// SetTransport updates tempo and decay.
func (e *Engine) SetTransport(tempoBPM, decaySec float64) {
	if tempoBPM > 0 {
		e.tempoBPM = tempoBPM
	}
	e.decaySec = max(decaySec, minDecaySeconds)
}

// SetRunning starts or stops new step triggering.
func (e *Engine) SetRunning(running bool) {
	if running && !e.running {
		e.currentStep = 0
		e.samplesUntilNextStep = 0
	}
	e.running = running
}

// SetSteps updates the 16-step pattern. Non-positive frequencies become
// 110 Hz.
func (e *Engine) SetSteps(steps []StepConfig) {
	for i := 0; i < stepCount && i < len(steps); i++ {
		cfg := steps[i]
		if cfg.FreqHz <= 0 {
			cfg.FreqHz = 110
		}
		e.steps[i] = cfg
	}
}

// advance moves the transport by one sample.
func (e *Engine) advance() {
	if !e.running {
		return
	}

	e.samplesUntilNextStep--
	for e.samplesUntilNextStep <= 0 {
		e.triggerCurrentStep()
		e.currentStep = (e.currentStep + 1) % stepCount
		e.samplesUntilNextStep += e.stepDurationSamples()
	}
}

func (e *Engine) triggerCurrentStep() {
	step := e.steps[e.currentStep]
	if !step.Enabled || step.FreqHz <= 0 {
		return
	}
	if len(e.voices) >= maxVoices {
		copy(e.voices, e.voices[1:])
		e.voices = e.voices[:maxVoices-1]
	}

	e.voices = append(e.voices, voice{
		phaseStep:   2 * math.Pi * step.FreqHz / e.sampleRate,
		decaySample: max(1, int(e.decaySec*e.sampleRate)),
	})
}

func (e *Engine) nextSample() float64 {
	if len(e.voices) == 0 {
		return 0
	}
	attackSamples := max(1, int(0.005*e.sampleRate))

	sum := 0.0
	write := 0
	for i := range e.voices {
		v := e.voices[i]
		if v.ageSamples >= v.decaySample {
			continue
		}

		sum += envelope(v.ageSamples, attackSamples, v.decaySample) * math.Sin(v.phase)

		v.phase += v.phaseStep
		if v.phase > math.Pi {
			v.phase -= 2 * math.Pi
		}
		v.ageSamples++
		e.voices[write] = v
		write++
	}
	e.voices = e.voices[:write]

	return sum
}

func (e *Engine) stepDurationSamples() float64 {
	return e.sampleRate * 60.0 / e.tempoBPM / 4.0
}

// envelope is an exponential attack to 0.22 followed by an exponential
// decay.
func envelope(age, attack, decay int) float64 {
	const (
		start = 0.0001
		peak  = 0.22
		end   = 0.0001
	)

	if age < attack {
		t := float64(age) / float64(attack)
		return start * math.Pow(peak/start, t)
	}
	if decay <= attack {
		return end
	}
	t := float64(age-attack) / float64(decay-attack)

	return peak * math.Pow(end/peak, t)
}

func defaultStepFreq(i int) float64 {
	defaults := [...]float64{130.81, 164.81, 196, 220, 261.63, 329.63, 392, 440}
	return defaults[i%8]
}
