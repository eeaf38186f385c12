package wavio

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/cwbudde/algo-eq/internal/testutil"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteRead_RoundTrip(t *testing.T) {
	for _, depth := range []int{16, 24, 32} {
		path := filepath.Join(t.TempDir(), "rt.wav")
		in := &Stereo{
			SampleRate: 44100,
			Left:       testutil.DeterministicSine(440, 44100, 0.5, 3000),
			Right:      testutil.DeterministicSine(1000, 44100, 0.25, 3000),
		}

		require.NoError(t, WriteFile(path, in, depth))

		out, err := ReadFile(path)
		require.NoError(t, err)
		assert.Equal(t, 44100, out.SampleRate)
		assert.Equal(t, depth, out.BitDepth)
		require.Equal(t, in.Frames(), out.Frames())

		tol := 1.0 / float64(uint64(1)<<(depth-1))
		testutil.RequireSliceNearlyEqual(t, out.Left, in.Left, tol)
		testutil.RequireSliceNearlyEqual(t, out.Right, in.Right, tol)
	}
}

func TestRead_MonoDuplicated(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mono.wav")
	f, err := os.Create(path)
	require.NoError(t, err)

	enc := wav.NewEncoder(f, 48000, 16, 1, 1)
	require.NoError(t, enc.Write(&audio.IntBuffer{
		Data:           []int{0, 16384, -16384, 32767},
		Format:         &audio.Format{SampleRate: 48000, NumChannels: 1},
		SourceBitDepth: 16,
	}))
	require.NoError(t, enc.Close())
	require.NoError(t, f.Close())

	s, err := ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, 4, s.Frames())
	assert.Equal(t, s.Left, s.Right)
	assert.InDelta(t, 0.5, s.Left[1], 1e-12)
	assert.InDelta(t, -0.5, s.Left[2], 1e-12)
}

func TestWrite_Clips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clip.wav")
	in := &Stereo{SampleRate: 8000, Left: []float64{2, -2}, Right: []float64{0, 0}}
	require.NoError(t, WriteFile(path, in, 16))

	out, err := ReadFile(path)
	require.NoError(t, err)
	assert.InDelta(t, 32767.0/32768.0, out.Left[0], 1e-12)
	assert.InDelta(t, -1.0, out.Left[1], 1e-12)
}

func TestWrite_Errors(t *testing.T) {
	dir := t.TempDir()

	err := WriteFile(filepath.Join(dir, "a.wav"), &Stereo{SampleRate: 8000, Left: []float64{0}}, 16)
	assert.Error(t, err)

	err = WriteFile(filepath.Join(dir, "b.wav"), &Stereo{SampleRate: 8000}, 12)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestRead_InvalidFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "junk.wav")
	require.NoError(t, os.WriteFile(path, []byte("definitely not a riff file"), 0o600))

	_, err := ReadFile(path)
	assert.ErrorIs(t, err, ErrInvalidWAV)
}

func TestStereo_Interleave(t *testing.T) {
	s := &Stereo{SampleRate: 4, Left: []float64{1, 2}, Right: []float64{-1, -2}}
	assert.Equal(t, []float32{1, -1, 2, -2}, s.Interleave())
	assert.InDelta(t, 0.5, s.Duration(), 1e-12)
}
