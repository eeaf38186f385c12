package eq

import (
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/internal/testutil"
)

func TestCurveFrequency(t *testing.T) {
	const width = 600

	if got := CurveFrequency(0, width); got != 20 {
		t.Fatalf("column 0 = %v Hz, want 20", got)
	}

	if got := CurveFrequency(width/2, width); math.Abs(got-20*math.Sqrt(1000)) > 1e-9 {
		t.Fatalf("middle column = %v Hz", got)
	}

	if got := CurveFrequency(width, width); math.Abs(got-20000) > 1e-9 {
		t.Fatalf("column width = %v Hz, want 20000", got)
	}

	for i := 1; i < width; i++ {
		if CurveFrequency(i, width) <= CurveFrequency(i-1, width) {
			t.Fatalf("frequencies not increasing at column %d", i)
		}
	}
}

func TestComputeCurve_FlatChain(t *testing.T) {
	for _, sr := range []float64{44100, 48000} {
		for slope := Slope12; slope <= Slope48; slope++ {
			p := DefaultSnapshot()
			p.LowCutSlope = slope
			p.HighCutSlope = slope

			coeffs, err := MakeChain(p, sr)
			if err != nil {
				t.Fatal(err)
			}

			curve := ComputeCurve(coeffs, sr, 800)
			if len(curve) != 800 {
				t.Fatalf("len = %d, want 800", len(curve))
			}

			for _, pt := range curve {
				// Butterworth corners sit exactly on the band edges, so the
				// curve reaches -3.01 dB there and stays flat inside.
				if pt.MagnitudeDB < -3.02 || pt.MagnitudeDB > 0.01 {
					t.Fatalf("sr=%v slope=%v: %.1f Hz at %.4f dB", sr, slope, pt.Freq, pt.MagnitudeDB)
				}

				if pt.Freq >= 40 && pt.Freq <= 10000 && math.Abs(pt.MagnitudeDB) > 0.5 {
					t.Fatalf("sr=%v slope=%v: passband %.1f Hz at %.4f dB", sr, slope, pt.Freq, pt.MagnitudeDB)
				}
			}

			testutil.RequireDBNear(t, "low corner", curve[0].MagnitudeDB, -3.0103, 0.1)
		}
	}
}

func TestComputeCurve_Scenario(t *testing.T) {
	const sr = 44100

	coeffs, err := MakeChain(scenarioSnapshot(), sr)
	if err != nil {
		t.Fatal(err)
	}

	curve := ComputeCurve(coeffs, sr, 1000)

	testutil.RequireDBNear(t, "peak centre", coeffs.MagnitudeAt(1000, sr), 6, 0.2)
	testutil.RequireDBNear(t, "curve near 1 kHz", curve.At(1000), 6, 0.2)
	testutil.RequireDBNear(t, "20 Hz corner", coeffs.MagnitudeAt(20, sr), -3.0103, 0.1)
	testutil.RequireDBNear(t, "20 kHz corner", coeffs.MagnitudeAt(20000, sr), -3.0103, 0.1)
	testutil.RequireDBNear(t, "octave above low cut", coeffs.MagnitudeAt(40, sr), 0, 0.5)
	testutil.RequireDBNear(t, "octave below high cut", coeffs.MagnitudeAt(10000, sr), 0, 0.5)

	if got := curve.Max(); math.Abs(got-6) > 0.2 {
		t.Fatalf("curve max = %.4f dB, want ~6", got)
	}
}

func TestComputeCurve_MatchesProductOfStages(t *testing.T) {
	const sr = 48000

	p := ParameterSnapshot{
		PeakFreq: 2500, PeakGainDB: -9, PeakQ: 3,
		LowCutFreq: 150, HighCutFreq: 9000,
		LowCutSlope: Slope36, HighCutSlope: Slope24,
	}

	coeffs, err := MakeChain(p, sr)
	if err != nil {
		t.Fatal(err)
	}

	curve := ComputeCurve(coeffs, sr, 300)
	for _, pt := range curve {
		h := coeffs.Peak.Response(pt.Freq, sr)
		power := real(h)*real(h) + imag(h)*imag(h)

		for i := range coeffs.LowCut.Active {
			power *= coeffs.LowCut.Sections[i].MagnitudeSquared(pt.Freq, sr)
		}

		for i := range coeffs.HighCut.Active {
			power *= coeffs.HighCut.Sections[i].MagnitudeSquared(pt.Freq, sr)
		}

		if want := 10 * math.Log10(power); math.Abs(pt.MagnitudeDB-want) > 1e-6 {
			t.Fatalf("x=%d %.1f Hz: %.9f dB, want %.9f", pt.X, pt.Freq, pt.MagnitudeDB, want)
		}
	}
}

func TestComputeCurve_EdgeCases(t *testing.T) {
	coeffs, _ := MakeChain(DefaultSnapshot(), 48000)

	if got := ComputeCurve(coeffs, 48000, 0); len(got) != 0 {
		t.Fatalf("width 0 produced %d points", len(got))
	}

	if got := ComputeCurve(coeffs, 0, 10); len(got) != 0 {
		t.Fatalf("sample rate 0 produced %d points", len(got))
	}

	// At 16 kHz the top of the display band lies above Nyquist.
	low, _ := MakeChain(DefaultSnapshot().Sanitize(16000), 16000)
	curve := ComputeCurve(low, 16000, 200)

	testutil.RequireFinite(t, curve.Values())

	for i, pt := range curve {
		if pt.X != i {
			t.Fatalf("point %d has X=%d", i, pt.X)
		}
	}

	var empty MagnitudeCurve
	if !math.IsNaN(empty.At(100)) || !math.IsNaN(empty.Min()) || !math.IsNaN(empty.Max()) {
		t.Fatal("empty curve helpers should return NaN")
	}
}

func TestEngine_CurveFollowsAppliedSnapshot(t *testing.T) {
	e := newTestEngine(t, 44100, 64)

	if got := e.Curve(200).Max(); math.Abs(got) > 0.01 {
		t.Fatalf("default curve max %.4f dB", got)
	}

	if err := e.Update(scenarioSnapshot()); err != nil {
		t.Fatal(err)
	}

	// Requested but not yet applied: the curve still shows the old state.
	if got := e.Curve(200).Max(); math.Abs(got) > 0.01 {
		t.Fatalf("curve moved before the update was applied: max %.4f dB", got)
	}

	buf := make([]float64, 64)
	e.ProcessStereo(buf, buf)

	if e.AppliedCoefficients() != e.Left().Coefficients() {
		t.Fatal("control-context coefficients differ from the processing context")
	}

	testutil.RequireDBNear(t, "applied curve at 1 kHz", e.Curve(1000).At(1000), 6, 0.2)
}
