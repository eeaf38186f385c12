package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/algo-eq/internal/player"
	"github.com/cwbudde/algo-eq/internal/wavio"
	"github.com/spf13/cobra"
)

func (a *app) playCommand() *cobra.Command {
	var loop bool

	cmd := &cobra.Command{
		Use:   "play <in.wav>",
		Short: "Play a WAV file through the equalizer",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := wavio.ReadFile(args[0])
			if err != nil {
				return err
			}

			e, err := a.newEngine(float64(s.SampleRate))
			if err != nil {
				return err
			}

			buffer := time.Duration(a.settings.Audio.BufferMS) * time.Millisecond
			dev, err := player.Open(s.SampleRate, buffer)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			stream := player.NewStream(e, s.Interleave(), loop)
			err = dev.Play(ctx, stream)

			st := e.Stats()
			a.log.Info("playback finished",
				"frames", stream.FramesPlayed(),
				"blocks", st.Blocks,
				"updates_applied", st.Applied,
				"generation", st.Generation)

			return err
		},
	}

	cmd.Flags().BoolVar(&loop, "loop", false, "repeat until interrupted")

	return cmd
}
