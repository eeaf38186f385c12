package design

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
)

func cascadeDB(sections Sections, n int, freq, sr float64) float64 {
	p := 1.0
	for i := range n {
		p *= sections[i].MagnitudeSquared(freq, sr)
	}

	return 10 * math.Log10(p)
}

func TestButterworthQ(t *testing.T) {
	tests := []struct {
		order int
		want  []float64
	}{
		{2, []float64{0.7071067811865475}},
		{4, []float64{1.3065629648763766, 0.5411961001461970}},
		{8, []float64{2.5629154477415055, 0.8999762231364157, 0.6013448869350453, 0.5097955791041592}},
	}

	for _, tt := range tests {
		for i, want := range tt.want {
			if got := butterworthQ(tt.order, i); !almostEqual(got, want, 1e-12) {
				t.Errorf("order=%d index=%d: Q=%.16f, want %.16f", tt.order, i, got, want)
			}
		}
	}
}

func TestButterworth_SectionCount(t *testing.T) {
	tests := []struct {
		order, want int
	}{
		{-3, 1}, {0, 1}, {1, 1}, {2, 1}, {3, 1}, {4, 2}, {6, 3}, {8, 4}, {9, 4}, {16, 4},
	}

	for _, tt := range tests {
		sections, n := ButterworthHP(100, tt.order, 48000)
		if n != tt.want {
			t.Errorf("order=%d: n=%d, want %d", tt.order, n, tt.want)
		}

		for i := n; i < MaxSections; i++ {
			if sections[i] != biquad.Identity() {
				t.Errorf("order=%d: unused slot %d = %+v, want identity", tt.order, i, sections[i])
			}
		}
	}
}

func TestButterworth_CornerIsMinus3dB(t *testing.T) {
	for _, sr := range []float64{44100, 48000} {
		for _, order := range []int{2, 4, 6, 8} {
			for _, freq := range []float64{50, 1000, 8000} {
				lp, nlp := ButterworthLP(freq, order, sr)
				hp, nhp := ButterworthHP(freq, order, sr)

				if got := cascadeDB(lp, nlp, freq, sr); math.Abs(got+3.0103) > 0.1 {
					t.Errorf("LP sr=%v order=%d f=%v: corner %.4f dB", sr, order, freq, got)
				}

				if got := cascadeDB(hp, nhp, freq, sr); math.Abs(got+3.0103) > 0.1 {
					t.Errorf("HP sr=%v order=%d f=%v: corner %.4f dB", sr, order, freq, got)
				}
			}
		}
	}
}

func TestButterworth_SlopeSteepens(t *testing.T) {
	sr := 48000.0

	prev := 0.0
	for _, order := range []int{2, 4, 6, 8} {
		hp, n := ButterworthHP(1000, order, sr)

		// One octave below the corner attenuates by roughly 6 dB per pole.
		got := cascadeDB(hp, n, 500, sr)
		if got >= prev {
			t.Fatalf("order=%d: %.2f dB at 500 Hz not below previous %.2f dB", order, got, prev)
		}

		prev = got
	}

	if prev > -40 {
		t.Fatalf("8th-order highpass only %.2f dB down one octave below corner", prev)
	}
}

func TestButterworth_SectionsStableAndOrdered(t *testing.T) {
	for _, order := range []int{2, 4, 6, 8} {
		lp, n := ButterworthLP(20000, order, 44100)

		for i := range n {
			if !lp[i].IsStable() {
				t.Fatalf("order=%d section %d unstable: radius %v", order, i, lp[i].MaxPoleRadius())
			}
		}

		// Lowest Q first: the pole radius grows with Q at a fixed corner.
		for i := 1; i < n; i++ {
			if lp[i].MaxPoleRadius() < lp[i-1].MaxPoleRadius() {
				t.Fatalf("order=%d: section %d radius %v below section %d radius %v",
					order, i, lp[i].MaxPoleRadius(), i-1, lp[i-1].MaxPoleRadius())
			}
		}
	}
}

func TestButterworth_Deterministic(t *testing.T) {
	a, na := ButterworthHP(123.4, 6, 44100)
	b, nb := ButterworthHP(123.4, 6, 44100)

	if a != b || na != nb {
		t.Fatal("identical inputs produced different cascades")
	}
}

func TestButterworth_NoAllocs(t *testing.T) {
	allocs := testing.AllocsPerRun(100, func() {
		_, _ = ButterworthLP(1000, 8, 48000)
		_, _ = ButterworthHP(1000, 8, 48000)
	})

	if allocs != 0 {
		t.Fatalf("Butterworth design allocated %v times per run", allocs)
	}
}
