package core

import (
	"math"
	"testing"
)

func TestClamp(t *testing.T) {
	tests := []struct {
		name      string
		v, lo, hi float64
		want      float64
	}{
		{"inside", 5, 0, 10, 5},
		{"below", -1, 0, 10, 0},
		{"above", 11, 0, 10, 10},
		{"swapped bounds", 11, 10, 0, 10},
		{"nan", math.NaN(), 1, 2, 1},
		{"+inf", math.Inf(1), 1, 2, 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Clamp(tt.v, tt.lo, tt.hi); got != tt.want {
				t.Fatalf("Clamp(%v, %v, %v) = %v, want %v", tt.v, tt.lo, tt.hi, got, tt.want)
			}
		})
	}
}

func TestDBConversions(t *testing.T) {
	if got := DBToLinear(20); math.Abs(got-10) > 1e-12 {
		t.Fatalf("DBToLinear(20) = %v, want 10", got)
	}

	if got := LinearToDB(0.5); math.Abs(got+6.0206) > 1e-4 {
		t.Fatalf("LinearToDB(0.5) = %v, want -6.0206", got)
	}

	if got := LinearToDB(0); !math.IsInf(got, -1) {
		t.Fatalf("LinearToDB(0) = %v, want -Inf", got)
	}

	if got := PowerToDB(0.5); math.Abs(got+3.0103) > 1e-4 {
		t.Fatalf("PowerToDB(0.5) = %v, want -3.0103", got)
	}

	if got := PowerToDB(-1); !math.IsNaN(got) {
		t.Fatalf("PowerToDB(-1) = %v, want NaN", got)
	}
}
