package biquad

import (
	"fmt"
	"testing"
)

func BenchmarkProcessSample(b *testing.B) {
	s := NewSection(smoothing)

	x := 1.0
	for b.Loop() {
		x = s.ProcessSample(x)
	}

	_ = x
}

func BenchmarkProcessBlock(b *testing.B) {
	for _, size := range []int{64, 256, 1024} {
		b.Run(fmt.Sprintf("N=%d", size), func(b *testing.B) {
			s := NewSection(smoothing)

			buf := make([]float64, size)
			for i := range buf {
				buf[i] = float64(i) * 0.001
			}

			b.SetBytes(int64(size * 8))
			b.ReportAllocs()

			for b.Loop() {
				s.ProcessBlock(buf)
			}
		})
	}
}
