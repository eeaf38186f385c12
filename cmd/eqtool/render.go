package main

import (
	"time"

	"github.com/cwbudde/algo-eq/internal/wavio"
	"github.com/spf13/cobra"
)

func (a *app) renderCommand() *cobra.Command {
	var bitDepth int

	cmd := &cobra.Command{
		Use:   "render <in.wav> <out.wav>",
		Short: "Filter a WAV file offline",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			start := time.Now()

			s, err := wavio.ReadFile(args[0])
			if err != nil {
				return err
			}

			e, err := a.newEngine(float64(s.SampleRate))
			if err != nil {
				return err
			}

			block := a.settings.Audio.BlockSize
			for off := 0; off < s.Frames(); off += block {
				end := min(off+block, s.Frames())
				e.ProcessStereo(s.Left[off:end], s.Right[off:end])
			}

			depth := bitDepth
			if depth == 0 {
				depth = s.BitDepth
			}
			if err := wavio.WriteFile(args[1], s, depth); err != nil {
				return err
			}

			a.log.Info("rendered",
				"in", args[0],
				"out", args[1],
				"frames", s.Frames(),
				"blocks", e.Stats().Blocks,
				"elapsed", time.Since(start))
			return nil
		},
	}

	cmd.Flags().IntVar(&bitDepth, "bit-depth", 0, "output bit depth: 16, 24 or 32 (default: same as input)")

	return cmd
}
