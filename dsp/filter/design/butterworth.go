package design

import (
	"math"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

// MaxSections is the largest number of second-order sections a Butterworth
// cascade can hold (order 8, 48 dB/oct).
const MaxSections = 4

// MaxOrder is the highest supported Butterworth order.
const MaxOrder = 2 * MaxSections

// Sections is a fixed-size cascade. Only the first n entries returned
// alongside it are meaningful; the rest are left as identity.
type Sections = [MaxSections]biquad.Coefficients

// ButterworthLP designs an even-order lowpass Butterworth cascade without
// heap allocation. order is clamped to [2, MaxOrder] and rounded down to an
// even value. Sections are emitted lowest-Q first.
func ButterworthLP(freq float64, order int, sampleRate float64) (Sections, int) {
	return butterworth(freq, order, sampleRate, Lowpass)
}

// ButterworthHP designs an even-order highpass Butterworth cascade. See
// ButterworthLP for the ordering and clamping rules.
func ButterworthHP(freq float64, order int, sampleRate float64) (Sections, int) {
	return butterworth(freq, order, sampleRate, Highpass)
}

func butterworth(freq float64, order int, sampleRate float64,
	section func(freq, q, sampleRate float64) biquad.Coefficients,
) (Sections, int) {
	var out Sections
	for i := range out {
		out[i] = biquad.Identity()
	}

	order = clampOrder(order)
	n2 := order / 2

	k := 0
	for i := n2 - 1; i >= 0; i-- {
		out[k] = section(freq, butterworthQ(order, i), sampleRate)
		k++
	}

	return out, n2
}

func clampOrder(order int) int {
	order = min(max(order, 2), MaxOrder)
	return order &^ 1
}

// butterworthQ returns the Q of the index-th pole pair of an order-N
// Butterworth prototype: 1 / (2 sin((2k+1)π / 2N)).
func butterworthQ(order, index int) float64 {
	theta := math.Pi * float64(2*index+1) / (2 * float64(order))

	s := math.Sin(theta)
	if s == 0 {
		return defaultQ
	}

	return 1 / (2 * s)
}
