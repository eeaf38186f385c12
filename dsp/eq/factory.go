package eq

import (
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/filter/biquad"
	"github.com/cwbudde/algo-eq/dsp/filter/design"
)

// MaxStages is the number of biquad slots in a cut cascade.
const MaxStages = design.MaxSections

// ErrInvalidFilterDesign reports a corner frequency outside (0, fs/2), a
// non-positive Q or a non-finite parameter.
var ErrInvalidFilterDesign = design.ErrInvalidFilterDesign

// CascadeCoefficients is the coefficient set for one cut cascade. Sections
// beyond Active are identity and are bypassed by CutCascade.
type CascadeCoefficients struct {
	Sections [MaxStages]biquad.Coefficients
	Active   int
}

// ChainCoefficients holds every coefficient of one FilterChain as plain
// values, so it can be copied between contexts without sharing memory.
type ChainCoefficients struct {
	LowCut  CascadeCoefficients
	Peak    biquad.Coefficients
	HighCut CascadeCoefficients
}

// MakePeak designs the peaking section. freq must lie in (0, fs/2) and q
// must be positive; gainDB may have either sign.
func MakePeak(freq, q, gainDB, sampleRate float64) (biquad.Coefficients, error) {
	if err := design.ValidateFrequency(freq, sampleRate); err != nil {
		return biquad.Coefficients{}, fmt.Errorf("peak: %w", err)
	}

	if err := design.ValidateQ(q); err != nil {
		return biquad.Coefficients{}, fmt.Errorf("peak: %w", err)
	}

	if err := design.ValidateGain(gainDB); err != nil {
		return biquad.Coefficients{}, fmt.Errorf("peak: %w", err)
	}

	return design.Peak(freq, gainDB, q, sampleRate), nil
}

// MakeLowCutCascade designs the Butterworth highpass cascade realising slope.
func MakeLowCutCascade(freq float64, slope Slope, sampleRate float64) (CascadeCoefficients, error) {
	if err := validateCut(freq, slope, sampleRate); err != nil {
		return CascadeCoefficients{}, fmt.Errorf("low cut: %w", err)
	}

	return lowCutCascade(freq, slope, sampleRate), nil
}

// MakeHighCutCascade designs the Butterworth lowpass cascade realising slope.
func MakeHighCutCascade(freq float64, slope Slope, sampleRate float64) (CascadeCoefficients, error) {
	if err := validateCut(freq, slope, sampleRate); err != nil {
		return CascadeCoefficients{}, fmt.Errorf("high cut: %w", err)
	}

	return highCutCascade(freq, slope, sampleRate), nil
}

// MakeChain designs all three roles of a FilterChain from p. It fails on
// the first invalid role and never clamps; see ParameterSnapshot.Sanitize
// for the lenient variant.
func MakeChain(p ParameterSnapshot, sampleRate float64) (ChainCoefficients, error) {
	low, err := MakeLowCutCascade(p.LowCutFreq, p.LowCutSlope, sampleRate)
	if err != nil {
		return ChainCoefficients{}, err
	}

	peak, err := MakePeak(p.PeakFreq, p.PeakQ, p.PeakGainDB, sampleRate)
	if err != nil {
		return ChainCoefficients{}, err
	}

	high, err := MakeHighCutCascade(p.HighCutFreq, p.HighCutSlope, sampleRate)
	if err != nil {
		return ChainCoefficients{}, err
	}

	return ChainCoefficients{LowCut: low, Peak: peak, HighCut: high}, nil
}

// designChain builds coefficients for an already sanitized snapshot. It is
// the allocation-free path used inside the processing context.
func designChain(p ParameterSnapshot, sampleRate float64) ChainCoefficients {
	return ChainCoefficients{
		LowCut:  lowCutCascade(p.LowCutFreq, p.LowCutSlope, sampleRate),
		Peak:    design.Peak(p.PeakFreq, p.PeakGainDB, p.PeakQ, sampleRate),
		HighCut: highCutCascade(p.HighCutFreq, p.HighCutSlope, sampleRate),
	}
}

func lowCutCascade(freq float64, slope Slope, sampleRate float64) CascadeCoefficients {
	sections, n := design.ButterworthHP(freq, slope.Order(), sampleRate)
	return CascadeCoefficients{Sections: sections, Active: n}
}

func highCutCascade(freq float64, slope Slope, sampleRate float64) CascadeCoefficients {
	sections, n := design.ButterworthLP(freq, slope.Order(), sampleRate)
	return CascadeCoefficients{Sections: sections, Active: n}
}

func validateCut(freq float64, slope Slope, sampleRate float64) error {
	if err := design.ValidateFrequency(freq, sampleRate); err != nil {
		return err
	}

	if !slope.Valid() {
		return fmt.Errorf("%w: slope %d outside 0..%d", ErrInvalidFilterDesign, int(slope), NumSlopes-1)
	}

	return nil
}
