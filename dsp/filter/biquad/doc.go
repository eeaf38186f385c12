// Package biquad provides the second-order IIR section used by every stage
// of the equalizer.
//
// A [Section] implements Direct Form II Transposed processing for a single
// second-order section defined by [Coefficients]. Coefficients are plain
// values: a new set replaces the old one wholesale through
// [Section.SetCoefficients] without touching the delay line, so an update
// may produce a short, bounded transient but never a reset click.
//
// Frequency-domain helpers ([Coefficients.MagnitudeSquared],
// [Coefficients.Response], [Coefficients.Poles]) evaluate the transfer
// function in closed form and never depend on runtime state.
//
// Coefficient design lives in dsp/filter/design.
package biquad
