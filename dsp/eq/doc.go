// Package eq implements a real-time stereo three-band parametric equalizer:
// a Butterworth low-cut cascade, one RBJ peaking section and a Butterworth
// high-cut cascade, applied identically to the left and right channels.
//
// Parameters arrive as immutable [ParameterSnapshot] values. [Engine]
// publishes them from the control context with an atomic pointer and a
// pending flag; the processing context picks up at most one snapshot per
// block, recomputes both channels' coefficients inline and filters the
// block. No locks are taken and no memory is allocated on that path.
//
// [ComputeCurve] derives the composite magnitude response from coefficients
// alone, so the displayed curve matches what is being applied regardless of
// the audio currently playing.
package eq
