package spectrum_test

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-eq/dsp/spectrum"
)

func ExampleAnalyzeBlock() {
	const sr = 8000.0
	x := make([]float64, 800)
	for n := range x {
		x[n] = 0.5 * math.Sin(2*math.Pi*1000*float64(n)/sr)
	}

	p, err := spectrum.AnalyzeBlock(x, 1000, sr)
	if err != nil {
		panic(err)
	}

	// A sinusoid of amplitude A over N samples has |X| = A·N/2.
	fmt.Printf("amplitude=%.3f\n", 2*math.Sqrt(p)/float64(len(x)))
	// Output:
	// amplitude=0.500
}
