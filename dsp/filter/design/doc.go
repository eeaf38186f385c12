// Package design provides the biquad coefficient designers used by the
// equalizer.
//
// The functions in this package produce coefficients consumable by
// dsp/filter/biquad for runtime processing: RBJ cookbook Peak, Lowpass and
// Highpass sections, and Butterworth lowpass/highpass cascades decomposed
// into at most [MaxSections] second-order sections.
//
// Designers never allocate. Invalid input yields zero coefficients; callers
// that need an error use [ValidateFrequency] and [ValidateQ], which report
// [ErrInvalidFilterDesign].
package design
