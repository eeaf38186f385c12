//go:build amd64 && !purego

package avx2

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/generic"
	"github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/registry"
)

func TestProcessBlock_MatchesGeneric(t *testing.T) {
	c := registry.Coefficients{B0: 0.25, B1: 0.5, B2: 0.25, A1: -0.2, A2: 0.04}

	for _, n := range []int{0, 1, 3, 4, 9, 64} {
		in := make([]float64, n)
		for i := range in {
			in[i] = math.Sin(float64(i) * 0.37)
		}

		got := append([]float64(nil), in...)
		want := append([]float64(nil), in...)

		d0g, d1g := processBlock(c, 0.1, -0.05, got)
		d0w, d1w := generic.ProcessBlock(c, 0.1, -0.05, want)

		if math.Abs(d0g-d0w) > 1e-12 || math.Abs(d1g-d1w) > 1e-12 {
			t.Fatalf("n=%d: state mismatch: got (%g,%g), want (%g,%g)", n, d0g, d1g, d0w, d1w)
		}

		for i := range got {
			if math.Abs(got[i]-want[i]) > 1e-12 {
				t.Fatalf("n=%d sample %d: got %.15f, want %.15f", n, i, got[i], want[i])
			}
		}
	}
}
