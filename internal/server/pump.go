package server

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/signal"
)

// levelMeter publishes the last block RMS from the processing context.
type levelMeter struct {
	bits atomic.Uint64
}

func (m *levelMeter) store(rms float64) { m.bits.Store(math.Float64bits(rms)) }

func (m *levelMeter) dB() float64 {
	rms := math.Float64frombits(m.bits.Load())
	if rms <= 0 {
		return -200
	}
	return 20 * math.Log10(rms)
}

// Pump runs the processing context without an audio device: it filters
// white noise at the configured noise level in real-time sized blocks until
// ctx is cancelled. It never allocates after start-up.
func (s *Server) Pump(ctx context.Context) error {
	cfg := s.engine.Config()
	block := cfg.MaxBlockSize
	left := make([]float64, block)
	right := make([]float64, block)

	amp := core.DBToLinear(s.settings.Server.NoiseLevelDB)
	gl := signal.NewGeneratorWithOptions(nil, signal.WithSeed(1))
	gr := signal.NewGeneratorWithOptions(nil, signal.WithSeed(2))

	period := time.Duration(float64(block) / cfg.SampleRate * float64(time.Second))
	ticker := time.NewTicker(period)
	defer ticker.Stop()

	s.log.Info("pump started", "block", block, "period", period)

	for {
		select {
		case <-ctx.Done():
			s.log.Info("pump stopped", "blocks", s.engine.Stats().Blocks)
			return nil
		case <-ticker.C:
		}

		gl.FillNoise(left, amp)
		gr.FillNoise(right, amp)

		s.engine.ProcessStereo(left, right)

		var sum float64
		for i := range left {
			sum += left[i]*left[i] + right[i]*right[i]
		}
		s.level.store(math.Sqrt(sum / float64(2*block)))
	}
}
