package player

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cwbudde/algo-eq/internal/logging"
	"github.com/ebitengine/oto/v3"
)

// pollInterval is how often Play checks whether the device drained.
const pollInterval = 50 * time.Millisecond

// Device is an opened stereo float32 output. Only one may exist per process.
type Device struct {
	ctx        *oto.Context
	sampleRate int
	log        *slog.Logger
}

// Open initializes the audio output. buffer is the device latency hint;
// zero selects the driver default.
func Open(sampleRate int, buffer time.Duration) (*Device, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("player: invalid sample rate %d", sampleRate)
	}

	ctx, ready, err := oto.NewContext(&oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 2,
		Format:       oto.FormatFloat32LE,
		BufferSize:   buffer,
	})
	if err != nil {
		return nil, fmt.Errorf("player: open device: %w", err)
	}
	<-ready

	return &Device{ctx: ctx, sampleRate: sampleRate, log: logging.ForService("player")}, nil
}

// SampleRate returns the device rate.
func (d *Device) SampleRate() int { return d.sampleRate }

// Play streams s until it ends or ctx is cancelled.
func (d *Device) Play(ctx context.Context, s *Stream) error {
	p := d.ctx.NewPlayer(s)
	defer p.Close()

	p.Play()
	d.log.Info("playback started", "sample_rate", d.sampleRate)

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			p.Pause()
			d.log.Info("playback stopped", "frames", s.FramesPlayed())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := p.Err(); err != nil {
				return fmt.Errorf("player: %w", err)
			}
			if !p.IsPlaying() {
				d.log.Info("playback finished", "frames", s.FramesPlayed())
				return nil
			}
		}
	}
}
