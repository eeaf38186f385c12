// Command eqtool drives the three-band equalizer engine from the command
// line.
//
// Usage:
//
//	eqtool [global flags] <command> [args]
//
// Examples:
//
//	eqtool curve --peak-freq 1000 --peak-gain 6 --width 32
//	eqtool curve --measured --format json
//	eqtool render --low-cut 120 --low-slope 24 in.wav out.wav
//	eqtool play --peak-gain -6 --loop music.wav
//	eqtool serve --listen 127.0.0.1:8080
//	eqtool config --config eq.yaml
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
