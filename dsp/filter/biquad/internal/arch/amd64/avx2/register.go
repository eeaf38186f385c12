//go:build amd64 && !purego

// Package avx2 registers a 4x-unrolled kernel for AVX2-capable CPUs. The
// recurrence is serial, so unrolling only trims loop overhead and lets the
// compiler schedule the feedforward products early.
package avx2

import (
	"github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/registry"
	"github.com/cwbudde/algo-vecmath/cpu"
)

func init() {
	registry.Global.Register(registry.OpEntry{
		Name:         "avx2",
		SIMDLevel:    cpu.SIMDAVX2,
		Priority:     20,
		ProcessBlock: processBlock,
	})
}

func processBlock(c registry.Coefficients, d0, d1 float64, buf []float64) (newD0, newD1 float64) {
	b0, b1, b2 := c.B0, c.B1, c.B2
	a1, a2 := c.A1, c.A2

	n := len(buf) &^ 3
	for i := 0; i < n; i += 4 {
		q := buf[i : i+4 : i+4]

		// Feedforward terms do not depend on y and can issue up front.
		f0, f1, f2, f3 := b1*q[0], b1*q[1], b1*q[2], b1*q[3]
		g0, g1, g2, g3 := b2*q[0], b2*q[1], b2*q[2], b2*q[3]

		y := b0*q[0] + d0
		d0 = f0 - a1*y + d1
		d1 = g0 - a2*y
		q[0] = y

		y = b0*q[1] + d0
		d0 = f1 - a1*y + d1
		d1 = g1 - a2*y
		q[1] = y

		y = b0*q[2] + d0
		d0 = f2 - a1*y + d1
		d1 = g2 - a2*y
		q[2] = y

		y = b0*q[3] + d0
		d0 = f3 - a1*y + d1
		d1 = g3 - a2*y
		q[3] = y
	}

	for i := n; i < len(buf); i++ {
		x := buf[i]
		y := b0*x + d0
		d0 = b1*x - a1*y + d1
		d1 = b2*x - a2*y
		buf[i] = y
	}

	return d0, d1
}
