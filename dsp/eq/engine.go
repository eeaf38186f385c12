package eq

import (
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/cwbudde/algo-eq/dsp/core"
)

// snapshotRecord is an immutable published parameter set. The processing
// context only ever reads records; the control context only ever allocates
// new ones.
type snapshotRecord struct {
	params     ParameterSnapshot
	generation uint64
}

// Stats are monotonically increasing engine counters.
type Stats struct {
	Blocks     uint64 `json:"blocks"`     // blocks processed
	Requests   uint64 `json:"requests"`   // accepted Update calls
	Applied    uint64 `json:"applied"`    // recomputations performed in the processing context
	Coalesced  uint64 `json:"coalesced"`  // requests superseded before being applied
	Rejected   uint64 `json:"rejected"`   // Update calls that failed validation
	Generation uint64 `json:"generation"` // generation of the applied snapshot
}

// Engine owns the left and right FilterChain and the lock-free handoff of
// parameter snapshots between the control and processing contexts.
//
// Update, Curve, AppliedSnapshot, Stats and Generation belong to the control
// context and may be called from any goroutine. ProcessStereo and
// ProcessInterleaved belong to the processing context and must be called
// from one goroutine at a time. Prepare and Reset must not overlap with
// processing.
type Engine struct {
	// control context
	mu  sync.Mutex
	gen uint64

	// shared
	latest  atomic.Pointer[snapshotRecord]
	applied atomic.Pointer[snapshotRecord]
	pending atomic.Bool

	blocks    atomic.Uint64
	requests  atomic.Uint64
	recomputs atomic.Uint64
	coalesced atomic.Uint64
	rejected  atomic.Uint64

	// processing context
	cfg               core.ProcessorConfig
	left, right       FilterChain
	leftGen, rightGen uint64
	scratchL          []float64
	scratchR          []float64
}

// NewEngine returns an engine prepared with the given stream settings and
// the default snapshot applied.
func NewEngine(opts ...core.ProcessorOption) *Engine {
	e := &Engine{}
	e.latest.Store(&snapshotRecord{params: DefaultSnapshot()})

	cfg := core.ApplyProcessorOptions(opts...)
	_ = e.Prepare(cfg.SampleRate, cfg.MaxBlockSize)

	return e
}

// Prepare resets both channels for a new stream and applies the most recent
// snapshot immediately.
func (e *Engine) Prepare(sampleRate float64, maxBlockSize int) error {
	if sampleRate <= 0 || !core.IsFinite(sampleRate) {
		return fmt.Errorf("eq: prepare: %w: sample rate %v", ErrInvalidFilterDesign, sampleRate)
	}

	if maxBlockSize <= 0 {
		return fmt.Errorf("eq: prepare: block size %d must be positive", maxBlockSize)
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	e.cfg = core.ProcessorConfig{SampleRate: sampleRate, MaxBlockSize: maxBlockSize}
	e.scratchL = core.EnsureLen(e.scratchL, maxBlockSize)
	e.scratchR = core.EnsureLen(e.scratchR, maxBlockSize)

	e.left.Prepare(sampleRate)
	e.right.Prepare(sampleRate)

	e.pending.Store(false)
	e.applyRecord(e.latest.Load())

	return nil
}

// Config returns the stream settings passed to Prepare.
func (e *Engine) Config() core.ProcessorConfig {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.cfg
}

// Update validates p and publishes it for the next processed block. It
// returns ErrInvalidFilterDesign without publishing when p cannot be
// realised at the current sample rate. Requests made faster than blocks are
// processed coalesce; only the latest is applied.
func (e *Engine) Update(p ParameterSnapshot) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if _, err := MakeChain(p, e.cfg.SampleRate); err != nil {
		e.rejected.Add(1)
		return fmt.Errorf("eq: update: %w", err)
	}

	e.gen++
	e.latest.Store(&snapshotRecord{params: p, generation: e.gen})
	e.requests.Add(1)

	if e.pending.Swap(true) {
		e.coalesced.Add(1)
	}

	return nil
}

// ProcessStereo filters left and right in-place as one block. Both slices
// should have the same length; extra samples in the longer one are left
// untouched.
func (e *Engine) ProcessStereo(left, right []float64) {
	n := min(len(left), len(right))

	e.blocks.Add(1)
	e.applyPending()

	e.left.ProcessBlock(left[:n])
	e.right.ProcessBlock(right[:n])
}

// ProcessInterleaved filters an interleaved stereo float32 buffer in-place,
// in blocks of at most the prepared block size. A trailing odd sample is
// left untouched.
func (e *Engine) ProcessInterleaved(buf []float32) {
	block := 2 * len(e.scratchL)
	if block == 0 {
		return
	}

	for start := 0; start+1 < len(buf); start += block {
		chunk := buf[start:min(start+block, len(buf))]

		n := core.Deinterleave(e.scratchL, e.scratchR, chunk)
		e.ProcessStereo(e.scratchL[:n], e.scratchR[:n])
		core.Interleave(chunk, e.scratchL, e.scratchR, n)
	}
}

// applyPending runs at the start of every block. It performs at most one
// recomputation and applies the same record to both channels.
func (e *Engine) applyPending() {
	if !e.pending.Swap(false) {
		return
	}

	rec := e.latest.Load()
	if rec == nil || rec == e.applied.Load() {
		return
	}

	e.applyRecord(rec)
}

func (e *Engine) applyRecord(rec *snapshotRecord) {
	sr := e.cfg.SampleRate
	coeffs := designChain(rec.params.Sanitize(sr), sr)

	e.left.Apply(coeffs)
	e.leftGen = rec.generation
	e.right.Apply(coeffs)
	e.rightGen = rec.generation

	e.applied.Store(rec)
	e.recomputs.Add(1)
}

// Left returns the left channel chain. Processing context only.
func (e *Engine) Left() *FilterChain { return &e.left }

// Right returns the right channel chain. Processing context only.
func (e *Engine) Right() *FilterChain { return &e.right }

// ChannelGenerations reports the snapshot generation each channel's
// coefficients were derived from. Processing context only.
func (e *Engine) ChannelGenerations() (left, right uint64) {
	return e.leftGen, e.rightGen
}

// Reset clears the delay lines of both channels. Call it only while the
// stream is stopped.
func (e *Engine) Reset() {
	e.left.Reset()
	e.right.Reset()
}

// AppliedSnapshot returns the snapshot currently applied by the processing
// context and its generation.
func (e *Engine) AppliedSnapshot() (ParameterSnapshot, uint64) {
	rec := e.applied.Load()
	return rec.params, rec.generation
}

// RequestedSnapshot returns the most recently published snapshot, which may
// not be applied yet.
func (e *Engine) RequestedSnapshot() (ParameterSnapshot, uint64) {
	rec := e.latest.Load()
	return rec.params, rec.generation
}

// Generation returns the generation of the applied snapshot.
func (e *Engine) Generation() uint64 {
	return e.applied.Load().generation
}

// Pending reports whether a published snapshot awaits the next block.
func (e *Engine) Pending() bool {
	return e.pending.Load()
}

// Stats returns a copy of the engine counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Blocks:     e.blocks.Load(),
		Requests:   e.requests.Load(),
		Applied:    e.recomputs.Load(),
		Coalesced:  e.coalesced.Load(),
		Rejected:   e.rejected.Load(),
		Generation: e.Generation(),
	}
}

// AppliedCoefficients recomputes the coefficients in use from the applied
// snapshot. Design is deterministic, so the result is bit-identical to what
// the processing context installed, without reading its state.
func (e *Engine) AppliedCoefficients() ChainCoefficients {
	sr := e.Config().SampleRate
	rec := e.applied.Load()

	return designChain(rec.params.Sanitize(sr), sr)
}

// Curve returns the magnitude response of the applied snapshot sampled at
// width log-spaced frequencies.
func (e *Engine) Curve(width int) MagnitudeCurve {
	return ComputeCurve(e.AppliedCoefficients(), e.Config().SampleRate, width)
}
