package eq

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/filter/design"
)

// Slope is the steepness of a cut filter as an ordinal 0..3, meaning
// 12, 24, 36 or 48 dB/octave.
type Slope int

const (
	Slope12 Slope = iota
	Slope24
	Slope36
	Slope48
)

// NumSlopes is the number of selectable slopes.
const NumSlopes = 4

// DBPerOctave returns the nominal attenuation rate of the slope.
func (s Slope) DBPerOctave() int {
	return 12 * (int(s.clamped()) + 1)
}

// Order returns the Butterworth order realised by the slope.
func (s Slope) Order() int {
	return 2 * s.Stages()
}

// Stages returns the number of active second-order sections.
func (s Slope) Stages() int {
	return int(s.clamped()) + 1
}

// Valid reports whether s is one of the four defined slopes.
func (s Slope) Valid() bool {
	return s >= Slope12 && s <= Slope48
}

func (s Slope) clamped() Slope {
	return min(max(s, Slope12), Slope48)
}

func (s Slope) String() string {
	if !s.Valid() {
		return "Slope(" + strconv.Itoa(int(s)) + ")"
	}

	return strconv.Itoa(s.DBPerOctave()) + " dB/oct"
}

// MarshalText encodes the slope as "24 dB/oct".
func (s Slope) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("eq: cannot encode invalid slope %d", int(s))
	}

	return []byte(s.String()), nil
}

// UnmarshalText accepts every form understood by ParseSlope.
func (s *Slope) UnmarshalText(text []byte) error {
	v, err := ParseSlope(string(text))
	if err != nil {
		return err
	}

	*s = v

	return nil
}

// UnmarshalJSON accepts a JSON string or number.
func (s *Slope) UnmarshalJSON(data []byte) error {
	return s.UnmarshalText(bytes.Trim(data, `"`))
}

// ParseSlope accepts "24", "24dB", "24 dB/oct" or the ordinal "1".
func ParseSlope(text string) (Slope, error) {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.TrimSuffix(t, "/oct")
	t = strings.TrimSpace(strings.TrimSuffix(t, "db"))

	n, err := strconv.Atoi(t)
	if err != nil {
		return 0, fmt.Errorf("eq: parse slope %q: %w", text, err)
	}

	switch {
	case n >= 0 && n < NumSlopes:
		return Slope(n), nil
	case n%12 == 0 && n >= 12 && n <= 48:
		return Slope(n/12 - 1), nil
	default:
		return 0, fmt.Errorf("eq: slope %q is not one of 12, 24, 36, 48 dB/oct", text)
	}
}

// ParameterSnapshot is one immutable set of equalizer parameters.
type ParameterSnapshot struct {
	PeakFreq     float64 `json:"peakFreq" yaml:"peak_freq" mapstructure:"peak_freq"`
	PeakGainDB   float64 `json:"peakGainDb" yaml:"peak_gain_db" mapstructure:"peak_gain_db"`
	PeakQ        float64 `json:"peakQ" yaml:"peak_q" mapstructure:"peak_q"`
	LowCutFreq   float64 `json:"lowCutFreq" yaml:"low_cut_freq" mapstructure:"low_cut_freq"`
	HighCutFreq  float64 `json:"highCutFreq" yaml:"high_cut_freq" mapstructure:"high_cut_freq"`
	LowCutSlope  Slope   `json:"lowCutSlope" yaml:"low_cut_slope" mapstructure:"low_cut_slope"`
	HighCutSlope Slope   `json:"highCutSlope" yaml:"high_cut_slope" mapstructure:"high_cut_slope"`
}

// Range bounds one continuous parameter.
type Range struct {
	Min, Max, Default float64
}

// Clamp limits v to the range. NaN maps to Default.
func (r Range) Clamp(v float64) float64 {
	if math.IsNaN(v) {
		return r.Default
	}

	return core.Clamp(v, r.Min, r.Max)
}

// Contains reports whether v lies inside the closed range.
func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Parameter ranges exposed by the equalizer's control surface.
var Ranges = struct {
	LowCutFreq, HighCutFreq, PeakFreq, PeakGainDB, PeakQ Range
}{
	LowCutFreq:  Range{Min: 20, Max: 20000, Default: 20},
	HighCutFreq: Range{Min: 20, Max: 20000, Default: 20000},
	PeakFreq:    Range{Min: 20, Max: 20000, Default: 600},
	PeakGainDB:  Range{Min: -24, Max: 24, Default: 0},
	PeakQ:       Range{Min: 0.1, Max: 10, Default: 1},
}

// DefaultSnapshot returns the neutral setting: no peak gain and both cuts at
// the edges of the audible band.
func DefaultSnapshot() ParameterSnapshot {
	return ParameterSnapshot{
		PeakFreq:     Ranges.PeakFreq.Default,
		PeakGainDB:   Ranges.PeakGainDB.Default,
		PeakQ:        Ranges.PeakQ.Default,
		LowCutFreq:   Ranges.LowCutFreq.Default,
		HighCutFreq:  Ranges.HighCutFreq.Default,
		LowCutSlope:  Slope12,
		HighCutSlope: Slope12,
	}
}

// Clamp limits every field to its user-facing range. The control context
// applies it before Update.
func (p ParameterSnapshot) Clamp() ParameterSnapshot {
	return ParameterSnapshot{
		PeakFreq:     Ranges.PeakFreq.Clamp(p.PeakFreq),
		PeakGainDB:   Ranges.PeakGainDB.Clamp(p.PeakGainDB),
		PeakQ:        Ranges.PeakQ.Clamp(p.PeakQ),
		LowCutFreq:   Ranges.LowCutFreq.Clamp(p.LowCutFreq),
		HighCutFreq:  Ranges.HighCutFreq.Clamp(p.HighCutFreq),
		LowCutSlope:  p.LowCutSlope.clamped(),
		HighCutSlope: p.HighCutSlope.clamped(),
	}
}

// Sanitize forces p into a design that is valid at sampleRate. Frequencies
// are limited as by LimitFrequencies, Q and gain to the design limits of
// the peaking section, slopes to 0..3, and non-finite or non-positive
// fields fall back to defaults. A snapshot MakeChain accepts passes through
// unchanged. It never fails and does not allocate, so the processing
// context can call it on every update.
func (p ParameterSnapshot) Sanitize(sampleRate float64) ParameterSnapshot {
	p = p.LimitFrequencies(sampleRate)

	gain := p.PeakGainDB
	if !core.IsFinite(gain) {
		gain = Ranges.PeakGainDB.Default
	}

	q := p.PeakQ
	if !core.IsFinite(q) || q <= 0 {
		q = Ranges.PeakQ.Default
	}

	p.PeakGainDB = core.Clamp(gain, -design.MaxGainDB, design.MaxGainDB)
	p.PeakQ = core.Clamp(q, design.MinQ, design.MaxQ)
	p.LowCutSlope = p.LowCutSlope.clamped()
	p.HighCutSlope = p.HighCutSlope.clamped()

	return p
}

// LimitFrequencies clamps the three frequencies to [1, nyquist-ε] at
// sampleRate and replaces NaN with the defaults. Other fields are left as
// they are. Hosts use it to fit stored parameters to a stream's rate.
func (p ParameterSnapshot) LimitFrequencies(sampleRate float64) ParameterSnapshot {
	nyquist := sampleRate / 2
	hi := nyquist - nyquistMargin*nyquist

	freq := func(v, def float64) float64 {
		if math.IsNaN(v) {
			v = def
		}

		return core.Clamp(v, 1, hi)
	}

	p.PeakFreq = freq(p.PeakFreq, Ranges.PeakFreq.Default)
	p.LowCutFreq = freq(p.LowCutFreq, Ranges.LowCutFreq.Default)
	p.HighCutFreq = freq(p.HighCutFreq, Ranges.HighCutFreq.Default)

	return p
}

// nyquistMargin is ε as a fraction of Nyquist for the last-resort clamp.
const nyquistMargin = 1e-3

func (p ParameterSnapshot) String() string {
	return fmt.Sprintf("lowcut=%.1fHz/%v peak=%.1fHz %+.2fdB Q=%.2f highcut=%.1fHz/%v",
		p.LowCutFreq, p.LowCutSlope, p.PeakFreq, p.PeakGainDB, p.PeakQ, p.HighCutFreq, p.HighCutSlope)
}
