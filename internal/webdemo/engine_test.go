package webdemo

import (
	"testing"

	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestEngine(t *testing.T) *Engine {
	t.Helper()

	e, err := NewEngine(48000)
	require.NoError(t, err)

	return e
}

func TestNewEngine_RejectsBadRate(t *testing.T) {
	_, err := NewEngine(0)
	assert.Error(t, err)
}

func TestRender_SilentWhenStopped(t *testing.T) {
	e := newTestEngine(t)

	buf := make([]float32, 1024)
	for i := range buf {
		buf[i] = 1
	}
	e.Render(buf)

	for i, v := range buf {
		require.Zero(t, v, "sample %d", i)
	}
}

func TestRender_RunningProducesBoundedStereo(t *testing.T) {
	e := newTestEngine(t)
	e.SetRunning(true)

	buf := make([]float32, 2*4800+1)
	e.Render(buf)

	var energy float64
	for i := 0; i+1 < len(buf); i += 2 {
		require.LessOrEqual(t, buf[i], float32(1))
		require.GreaterOrEqual(t, buf[i], float32(-1))
		assert.Equal(t, buf[i], buf[i+1])
		energy += float64(buf[i]) * float64(buf[i])
	}
	assert.Positive(t, energy)
	assert.Zero(t, buf[len(buf)-1])
}

func TestSetEQ_AppliesOnNextRender(t *testing.T) {
	e := newTestEngine(t)

	p := eq.DefaultSnapshot()
	p.PeakFreq = 1000
	p.PeakGainDB = 50 // clamped to the range maximum
	require.NoError(t, e.SetEQ(p))
	assert.Zero(t, e.EQ().Generation())

	e.Render(make([]float32, 64))
	applied, gen := e.EQ().AppliedSnapshot()
	assert.Equal(t, uint64(1), gen)
	assert.InDelta(t, eq.Ranges.PeakGainDB.Max, applied.PeakGainDB, 0)
}

func TestResponseCurve_IncludesMaster(t *testing.T) {
	e := newTestEngine(t)
	e.SetMaster(0.5)

	curve := e.ResponseCurve(128)
	require.Len(t, curve, 128)

	// Neutral EQ at 1 kHz leaves only the master gain.
	testutil.RequireDBNear(t, "1 kHz", curve.At(1000), -6.02, 0.05)
}

func TestSetSteps_DefaultsFrequency(t *testing.T) {
	e := newTestEngine(t)
	e.SetSteps([]StepConfig{{Enabled: true, FreqHz: -1}})
	assert.InDelta(t, 110.0, e.steps[0].FreqHz, 0)

	e.SetTransport(120, 0)
	assert.InDelta(t, minDecaySeconds, e.decaySec, 0)
}
