// Package wavio converts between PCM WAV files and planar float64 stereo
// buffers suitable for eq.Engine.ProcessStereo.
package wavio

import (
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// ErrInvalidWAV is returned for inputs the decoder cannot interpret.
var ErrInvalidWAV = errors.New("wavio: invalid WAV file")

// readChunk is the number of interleaved samples decoded per PCMBuffer call.
const readChunk = 16384

// Stereo is a planar two-channel signal. Mono sources are duplicated into
// both channels.
type Stereo struct {
	SampleRate int
	BitDepth   int
	Left       []float64
	Right      []float64
}

// Frames returns the number of sample frames.
func (s *Stereo) Frames() int { return len(s.Left) }

// Duration returns the signal length in seconds.
func (s *Stereo) Duration() float64 {
	if s.SampleRate <= 0 {
		return 0
	}
	return float64(len(s.Left)) / float64(s.SampleRate)
}

// Interleave returns L/R interleaved samples as float32.
func (s *Stereo) Interleave() []float32 {
	out := make([]float32, 2*len(s.Left))
	for i := range s.Left {
		out[2*i] = float32(s.Left[i])
		out[2*i+1] = float32(s.Right[i])
	}
	return out
}

func fullScale(bitDepth int) (float64, error) {
	switch bitDepth {
	case 16, 24, 32:
		return float64(uint64(1) << (bitDepth - 1)), nil
	default:
		return 0, fmt.Errorf("%w: unsupported bit depth %d", ErrInvalidWAV, bitDepth)
	}
}

// ReadFile decodes the WAV file at path.
func ReadFile(path string) (*Stereo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	s, err := Read(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// Read decodes a mono or stereo PCM WAV stream.
func Read(r io.ReadSeeker) (*Stereo, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, ErrInvalidWAV
	}

	channels := int(dec.NumChans)
	if channels != 1 && channels != 2 {
		return nil, fmt.Errorf("%w: unsupported channel count %d", ErrInvalidWAV, channels)
	}

	bitDepth := int(dec.BitDepth)
	scale, err := fullScale(bitDepth)
	if err != nil {
		return nil, err
	}

	s := &Stereo{SampleRate: int(dec.SampleRate), BitDepth: bitDepth}
	buf := &audio.IntBuffer{
		Data:   make([]int, readChunk),
		Format: &audio.Format{SampleRate: s.SampleRate, NumChannels: channels},
	}

	// Interleaved frames may straddle PCMBuffer calls.
	var carry []int
	for {
		n, err := dec.PCMBuffer(buf)
		if err != nil {
			return nil, fmt.Errorf("decode: %w", err)
		}
		if n == 0 {
			break
		}

		data := buf.Data[:n]
		if len(carry) > 0 {
			data = append(carry, data...)
			carry = carry[:0]
		}

		whole := len(data) - len(data)%channels
		for i := 0; i < whole; i += channels {
			l := float64(data[i]) / scale
			rv := l
			if channels == 2 {
				rv = float64(data[i+1]) / scale
			}
			s.Left = append(s.Left, l)
			s.Right = append(s.Right, rv)
		}
		carry = append(carry[:0], data[whole:]...)
	}

	return s, nil
}

// WriteFile encodes s as a stereo PCM WAV file at path.
func WriteFile(path string, s *Stereo, bitDepth int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}

	if err := Write(f, s, bitDepth); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	return f.Close()
}

// Write encodes s as stereo PCM. Samples outside [-1, 1) are clipped.
func Write(w io.WriteSeeker, s *Stereo, bitDepth int) error {
	if len(s.Left) != len(s.Right) {
		return fmt.Errorf("wavio: channel length mismatch %d != %d", len(s.Left), len(s.Right))
	}
	scale, err := fullScale(bitDepth)
	if err != nil {
		return err
	}

	enc := wav.NewEncoder(w, s.SampleRate, bitDepth, 2, 1)

	data := make([]int, 2*len(s.Left))
	for i := range s.Left {
		data[2*i] = quantize(s.Left[i], scale)
		data[2*i+1] = quantize(s.Right[i], scale)
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: s.SampleRate, NumChannels: 2},
		SourceBitDepth: bitDepth,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return enc.Close()
}

func quantize(x, scale float64) int {
	if math.IsNaN(x) {
		return 0
	}
	v := math.Round(x * scale)
	if v > scale-1 {
		v = scale - 1
	}
	if v < -scale {
		v = -scale
	}
	return int(v)
}
