// Package player streams preloaded audio through an eq.Engine to the
// default output device. The device pulls samples on its own goroutine,
// which therefore acts as the processing context.
package player

import (
	"encoding/binary"
	"io"
	"math"
	"sync/atomic"

	"github.com/cwbudde/algo-eq/dsp/eq"
)

// bytesPerFrame is one interleaved stereo float32 frame.
const bytesPerFrame = 8

// Stream is an io.Reader producing little-endian float32 stereo frames.
// Read filters each chunk through the engine before encoding it.
type Stream struct {
	engine  *eq.Engine
	samples []float32 // interleaved source
	pos     int       // next sample index in samples
	loop    bool
	scratch []float32

	frames atomic.Uint64
}

// NewStream wraps interleaved stereo samples. When loop is set the source
// repeats forever.
func NewStream(engine *eq.Engine, interleaved []float32, loop bool) *Stream {
	n := len(interleaved) &^ 1
	return &Stream{
		engine:  engine,
		samples: interleaved[:n],
		loop:    loop,
		scratch: make([]float32, 2048),
	}
}

// FramesPlayed returns the number of frames delivered so far. Safe from
// any goroutine.
func (s *Stream) FramesPlayed() uint64 { return s.frames.Load() }

// Read implements io.Reader. It returns io.EOF once a non-looping source is
// exhausted.
func (s *Stream) Read(p []byte) (int, error) {
	want := 2 * (len(p) / bytesPerFrame)
	if want == 0 {
		return 0, nil
	}
	if len(s.samples) == 0 || (!s.loop && s.pos >= len(s.samples)) {
		return 0, io.EOF
	}

	if cap(s.scratch) < want {
		s.scratch = make([]float32, want)
	}
	buf := s.scratch[:want]

	got := s.fill(buf)
	buf = buf[:got]

	s.engine.ProcessInterleaved(buf)

	for i, v := range buf {
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(v))
	}

	s.frames.Add(uint64(got / 2))
	return 4 * got, nil
}

func (s *Stream) fill(buf []float32) int {
	got := 0
	for got < len(buf) {
		if s.pos >= len(s.samples) {
			if !s.loop {
				break
			}
			s.pos = 0
		}
		n := copy(buf[got:], s.samples[s.pos:])
		got += n
		s.pos += n
	}
	return got
}
