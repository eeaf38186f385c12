//go:build amd64 && !purego

package biquad

import (
	_ "github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/amd64/avx2" // register unrolled AVX2-class backend
	_ "github.com/cwbudde/algo-eq/dsp/filter/biquad/internal/arch/generic"    // register generic backend
)
