package player

import (
	"encoding/binary"
	"io"
	"math"
	"testing"

	"github.com/cwbudde/algo-eq/dsp/core"
	"github.com/cwbudde/algo-eq/dsp/eq"
	"github.com/cwbudde/algo-eq/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(p []byte) []float32 {
	out := make([]float32, len(p)/4)
	for i := range out {
		out[i] = math.Float32frombits(binary.LittleEndian.Uint32(p[4*i:]))
	}
	return out
}

func TestStream_MatchesEngine(t *testing.T) {
	src := testutil.InterleavedNoise(7, 0.5, 1000)

	streamEngine := eq.NewEngine(core.WithSampleRate(48000), core.WithMaxBlockSize(256))
	refEngine := eq.NewEngine(core.WithSampleRate(48000), core.WithMaxBlockSize(256))

	p := eq.DefaultSnapshot()
	p.PeakGainDB = 9
	require.NoError(t, streamEngine.Update(p))
	require.NoError(t, refEngine.Update(p))

	s := NewStream(streamEngine, src, false)

	var got []float32
	buf := make([]byte, 8*300)
	for {
		n, err := s.Read(buf)
		got = append(got, decode(buf[:n])...)
		if err == io.EOF {
			break
		}
		require.NoError(t, err)
	}

	want := append([]float32(nil), src...)
	refEngine.ProcessInterleaved(want)

	require.Len(t, got, len(want))
	for i := range want {
		assert.InDelta(t, want[i], got[i], 1e-6, "sample %d", i)
	}
	assert.Equal(t, uint64(1000), s.FramesPlayed())
}

func TestStream_Loop(t *testing.T) {
	e := eq.NewEngine()
	s := NewStream(e, []float32{0.1, 0.2, 0.3, 0.4}, true)

	buf := make([]byte, 8*5)
	n, err := s.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, len(buf), n)
	assert.Equal(t, uint64(5), s.FramesPlayed())
}

func TestStream_EmptyAndShortReads(t *testing.T) {
	e := eq.NewEngine()

	s := NewStream(e, nil, true)
	_, err := s.Read(make([]byte, 64))
	assert.Equal(t, io.EOF, err)

	s = NewStream(e, []float32{1, 1}, false)
	n, err := s.Read(make([]byte, 7))
	require.NoError(t, err)
	assert.Zero(t, n)
}
