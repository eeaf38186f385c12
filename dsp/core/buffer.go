package core

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}

	if cap(buf) >= n {
		return buf[:n]
	}

	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero(buf []float64) {
	clear(buf)
}

// Deinterleave splits interleaved stereo float32 frames into two planar
// float64 channels. It returns the number of frames written, limited by the
// shortest destination.
func Deinterleave(left, right []float64, interleaved []float32) int {
	n := min(len(interleaved)/2, len(left), len(right))
	for i := range n {
		left[i] = float64(interleaved[2*i])
		right[i] = float64(interleaved[2*i+1])
	}

	return n
}

// Interleave writes the first n frames of left/right back into interleaved
// float32 stereo.
func Interleave(interleaved []float32, left, right []float64, n int) {
	n = min(n, len(interleaved)/2, len(left), len(right))
	for i := range n {
		interleaved[2*i] = float32(left[i])
		interleaved[2*i+1] = float32(right[i])
	}
}
