package spectrum

import (
	"math"
	"testing"
)

func TestMagnitudeFromBins(t *testing.T) {
	spec := []complex128{3 + 4i, -1, 2i, 99}
	dst := make([]float64, 3)
	MagnitudeFromBins(dst, spec)

	want := []float64{5, 1, 2}
	for i := range want {
		if math.Abs(dst[i]-want[i]) > 1e-12 {
			t.Fatalf("dst[%d] = %v, want %v", i, dst[i], want[i])
		}
	}
}

func TestInterpolateBin(t *testing.T) {
	mag := []float64{0, 2, 4}

	tests := []struct {
		pos, want float64
	}{
		{0, 0},
		{0.5, 1},
		{1.25, 2.5},
		{2, 4},
		{7, 4},
		{-3, 0},
		{math.NaN(), 0},
	}

	for _, tt := range tests {
		if got := InterpolateBin(mag, tt.pos); math.Abs(got-tt.want) > 1e-12 {
			t.Errorf("InterpolateBin(%v) = %v, want %v", tt.pos, got, tt.want)
		}
	}

	if got := InterpolateBin(nil, 1); got != 0 {
		t.Errorf("empty input = %v, want 0", got)
	}
}
