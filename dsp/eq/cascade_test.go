package eq

import (
	"testing"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
	"github.com/cwbudde/algo-eq/internal/testutil"
)

func TestCutCascade_ActiveCountFollowsSlope(t *testing.T) {
	tests := []struct {
		slope Slope
		want  int
	}{
		{Slope12, 1},
		{Slope24, 2},
		{Slope36, 3},
		{Slope48, 4},
	}

	c := NewCutCascade()
	for _, tt := range tests {
		coeffs, err := MakeLowCutCascade(100, tt.slope, 48000)
		if err != nil {
			t.Fatal(err)
		}

		c.Configure(coeffs)

		if c.ActiveCount() != tt.want {
			t.Fatalf("%v: ActiveCount() = %d, want %d", tt.slope, c.ActiveCount(), tt.want)
		}

		active := 0
		for i := range MaxStages {
			if c.IsActive(i) {
				active++
			}
		}

		if active != tt.want {
			t.Fatalf("%v: %d stages report active, want %d", tt.slope, active, tt.want)
		}
	}
}

func TestCutCascade_ConfigureClampsActive(t *testing.T) {
	c := NewCutCascade()

	c.Configure(CascadeCoefficients{Sections: identitySections(), Active: 0})
	if c.ActiveCount() != 1 {
		t.Fatalf("Active 0 -> %d, want 1", c.ActiveCount())
	}

	c.Configure(CascadeCoefficients{Sections: identitySections(), Active: 9})
	if c.ActiveCount() != MaxStages {
		t.Fatalf("Active 9 -> %d, want %d", c.ActiveCount(), MaxStages)
	}
}

func TestCutCascade_BypassedStagesFrozen(t *testing.T) {
	steep, _ := MakeHighCutCascade(2000, Slope48, 48000)
	gentle, _ := MakeHighCutCascade(2000, Slope12, 48000)

	c := NewCutCascade()
	c.Configure(steep)
	c.ProcessBlock(testutil.DeterministicNoise(1, 0.5, 256))

	var frozen [MaxStages][2]float64
	for i := range MaxStages {
		frozen[i] = c.Stage(i).State()
	}

	c.Configure(gentle)
	c.ProcessBlock(testutil.DeterministicNoise(2, 0.5, 256))

	if c.Stage(0).State() == frozen[0] {
		t.Fatal("active stage 0 did not advance")
	}

	for i := 1; i < MaxStages; i++ {
		if c.Stage(i).State() != frozen[i] {
			t.Fatalf("bypassed stage %d advanced: %v -> %v", i, frozen[i], c.Stage(i).State())
		}
	}
}

func TestCutCascade_BlockMatchesSampleInSlotOrder(t *testing.T) {
	coeffs, _ := MakeLowCutCascade(150, Slope36, 44100)
	input := testutil.DeterministicNoise(3, 1, 300)

	// Reference: the active sections applied one after another.
	want := append([]float64(nil), input...)
	for i := range coeffs.Active {
		s := biquad.NewSection(coeffs.Sections[i])
		for n := range want {
			want[n] = s.ProcessSample(want[n])
		}
	}

	block := NewCutCascade()
	block.Configure(coeffs)

	got := append([]float64(nil), input...)
	block.ProcessBlock(got)
	testutil.RequireSliceNearlyEqual(t, got, want, 1e-12)

	sample := NewCutCascade()
	sample.Configure(coeffs)

	for n, x := range input {
		if y := sample.ProcessSample(x); y != got[n] {
			t.Fatalf("sample %d: ProcessSample=%v ProcessBlock=%v", n, y, got[n])
		}
	}
}

func TestCutCascade_CoefficientsRoundTrip(t *testing.T) {
	coeffs, _ := MakeLowCutCascade(80, Slope24, 48000)

	c := NewCutCascade()
	c.Configure(coeffs)

	if got := c.Coefficients(); got != coeffs {
		t.Fatalf("Coefficients() = %+v, want %+v", got, coeffs)
	}
}
