// Package testutil provides deterministic test signals and tolerance checks
// shared by the DSP package tests.
package testutil

import (
	"math"
	"math/rand/v2"
)

// DeterministicSine generates a sine wave starting at phase 0.
func DeterministicSine(freqHz, sampleRate, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	step := 2 * math.Pi * freqHz / sampleRate
	for i := range out {
		out[i] = amplitude * math.Sin(step*float64(i))
	}

	return out
}

// DeterministicNoise generates uniform white noise in [-amplitude, amplitude)
// from a fixed seed.
func DeterministicNoise(seed uint64, amplitude float64, length int) []float64 {
	out := make([]float64, length)

	rng := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range out {
		out[i] = (rng.Float64()*2 - 1) * amplitude
	}

	return out
}

// StereoNoise returns two independent noise channels.
func StereoNoise(seed uint64, amplitude float64, length int) (left, right []float64) {
	return DeterministicNoise(seed, amplitude, length), DeterministicNoise(seed+1, amplitude, length)
}

// InterleavedNoise returns length stereo frames of float32 noise.
func InterleavedNoise(seed uint64, amplitude float64, frames int) []float32 {
	left, right := StereoNoise(seed, amplitude, frames)

	out := make([]float32, 2*frames)
	for i := range frames {
		out[2*i] = float32(left[i])
		out[2*i+1] = float32(right[i])
	}

	return out
}

// Impulse generates a unit impulse at the given position.
func Impulse(length, pos int) []float64 {
	out := make([]float64, length)
	if pos >= 0 && pos < length {
		out[pos] = 1
	}

	return out
}

// Silence returns length zero samples.
func Silence(length int) []float64 {
	return make([]float64, length)
}
