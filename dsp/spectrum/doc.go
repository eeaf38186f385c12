// Package spectrum holds the frequency-domain measurement helpers used to
// cross-check equalizer responses: single-bin Goertzel analysis for
// stepped-sine measurement and magnitude extraction for FFT bins.
package spectrum
