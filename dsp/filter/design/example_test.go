package design_test

import (
	"fmt"

	"github.com/cwbudde/algo-eq/dsp/filter/design"
)

func ExampleButterworthHP() {
	sections, n := design.ButterworthHP(100, 4, 48000)

	total := 1.0
	for i := range n {
		total *= sections[i].MagnitudeSquared(100, 48000)
	}

	fmt.Printf("sections=%d corner=%.2f\n", n, total)
	// Output:
	// sections=2 corner=0.50
}
