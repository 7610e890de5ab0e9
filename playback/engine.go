// SPDX-License-Identifier: EPL-2.0

package playback

import (
	"encoding/binary"
	"fmt"
	"log/slog"
	"math"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/gen2brain/malgo"

	"github.com/ik5/audstream/stream"
)

// BlockSource yields ready sample blocks to the device data callback.
// *stream.Streamer satisfies it; the interface keeps the engine testable
// without a running worker.
type BlockSource interface {
	NextBlock() *stream.Block
}

// State names a point in the engine lifecycle.
type State int

const (
	// Closed is the zero value: no device, no context.
	Closed State = iota
	// Initialized means the device exists but is not running.
	Initialized
	// Running means the device is live and data callbacks fire.
	Running
	// Stopped means the device exists and callbacks have ceased.
	Stopped
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Initialized:
		return "initialized"
	case Running:
		return "running"
	case Stopped:
		return "stopped"
	}
	return "unknown"
}

// Stats is a snapshot of the engine's callback counters. All counters are
// updated atomically on the device thread and may be read at any time.
type Stats struct {
	// Callbacks counts data callback invocations.
	Callbacks uint64
	// Underruns counts callbacks that found no ready file block and fell
	// back to the live input signal.
	Underruns uint64
	// ProcErrors counts processor invocations that returned an error; those
	// callbacks produced silence.
	ProcErrors uint64
}

// Engine drives a duplex miniaudio device: one mono float32 capture stream
// and one mono float32 playback stream at the same rate. Each data callback
// claims a block from the BlockSource when one is ready, substitutes it for
// the captured input, runs the injected Processor and writes the result to
// the playback stream.
//
// Every Engine owns its own device and context; two engines never share
// host state. The lifecycle is Closed -> Init -> Initialized -> Start ->
// Running -> Stop -> Stopped, with Close returning to Closed from any state.
type Engine struct {
	src  BlockSource
	proc Processor
	log  *slog.Logger

	mu    sync.Mutex // guards state and device lifecycle
	state State

	ctx    *malgo.AllocatedContext
	device *malgo.Device

	blockSize  int
	sampleRate int

	// callback scratch, sized at Init so the device thread never allocates
	inBuf  []float32
	outBuf []float32

	callbacks  atomic.Uint64
	underruns  atomic.Uint64
	procErrors atomic.Uint64
}

// NewEngine returns an engine in the Closed state. A nil src leaves the
// captured input untouched (a pure live processing rig), a nil proc falls
// back to Passthrough and a nil log to slog.Default(). Call Init before
// Start.
func NewEngine(src BlockSource, proc Processor, log *slog.Logger) *Engine {
	if proc == nil {
		proc = Passthrough
	}
	if log == nil {
		log = slog.Default()
	}

	return &Engine{
		src:  src,
		proc: proc,
		log:  log,
	}
}

// defaultBackends picks the native backend for the running platform, or
// leaves the choice to miniaudio everywhere else.
func defaultBackends() []malgo.Backend {
	switch runtime.GOOS {
	case "linux":
		return []malgo.Backend{malgo.BackendAlsa}
	case "windows":
		return []malgo.Backend{malgo.BackendWasapi}
	case "darwin":
		return []malgo.Backend{malgo.BackendCoreaudio}
	}
	return nil
}

// Init opens the host context and the duplex device: mono float32 on both
// sides, sampleRate frames per second, blockSize frames per callback. The
// engine must be Closed; reconfiguring requires a Close first.
func (e *Engine) Init(blockSize, sampleRate int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Closed {
		return ErrInitialized
	}
	if blockSize <= 0 {
		return ErrZeroBlockSize
	}
	if sampleRate <= 0 {
		return ErrZeroSampleRate
	}

	ctx, err := malgo.InitContext(defaultBackends(), malgo.ContextConfig{}, func(message string) {
		e.log.Debug("miniaudio", "message", strings.TrimSpace(message))
	})
	if err != nil {
		return fmt.Errorf("audio context: %w", err)
	}

	config := malgo.DefaultDeviceConfig(malgo.Duplex)
	config.SampleRate = uint32(sampleRate)
	config.PeriodSizeInFrames = uint32(blockSize)
	config.Capture.Format = malgo.FormatF32
	config.Capture.Channels = 1
	config.Playback.Format = malgo.FormatF32
	config.Playback.Channels = 1
	config.Alsa.NoMMap = 1

	device, err := malgo.InitDevice(ctx.Context, config, malgo.DeviceCallbacks{
		Data: e.onData,
	})
	if err != nil {
		ctx.Uninit()
		return fmt.Errorf("audio device: %w", err)
	}

	e.ctx = ctx
	e.device = device
	e.blockSize = blockSize
	e.sampleRate = sampleRate
	e.inBuf = make([]float32, blockSize)
	e.outBuf = make([]float32, blockSize)
	e.state = Initialized

	e.log.Info("audio engine initialized", "rate", sampleRate, "block_size", blockSize)

	return nil
}

// Start brings the device live. Data callbacks begin firing before Start
// returns. Starting a Running engine is a no-op.
func (e *Engine) Start() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.state {
	case Closed:
		return ErrNotInitialized
	case Running:
		return nil
	}

	if err := e.device.Start(); err != nil {
		return fmt.Errorf("starting audio device: %w", err)
	}
	e.state = Running

	e.log.Info("audio engine running")

	return nil
}

// Stop halts the device; no data callback runs after Stop returns. Call it
// before draining the block source (stream.Streamer.StopFiles), so no
// callback can claim a block out of a ring that is being emptied. The device
// stays initialized and Start may be called again.
func (e *Engine) Stop() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state != Running {
		return nil
	}

	if err := e.device.Stop(); err != nil {
		return fmt.Errorf("stopping audio device: %w", err)
	}
	e.state = Stopped

	e.log.Info("audio engine stopped")

	return nil
}

// Close stops the device if needed and releases the device and the host
// context. Closing a Closed engine is a no-op.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.state == Closed {
		return nil
	}

	if e.device != nil {
		if e.state == Running {
			e.device.Stop()
		}
		e.device.Uninit()
		e.device = nil
	}
	if e.ctx != nil {
		e.ctx.Uninit()
		e.ctx = nil
	}
	e.state = Closed

	e.log.Info("audio engine closed")

	return nil
}

// State reports the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()

	return e.state
}

// Stats returns a snapshot of the callback counters.
func (e *Engine) Stats() Stats {
	return Stats{
		Callbacks:  e.callbacks.Load(),
		Underruns:  e.underruns.Load(),
		ProcErrors: e.procErrors.Load(),
	}
}

// onData is the duplex data callback. It runs on the device thread against a
// hard deadline, so it only touches preallocated buffers, the lock-free
// NextBlock path and the atomic counters.
func (e *Engine) onData(out, in []byte, frameCount uint32) {
	e.callbacks.Add(1)

	n := min(int(frameCount), len(e.inBuf))
	bytesToSamples(e.inBuf[:n], in)
	signal := e.inBuf[:n]

	var blk *stream.Block
	if e.src != nil {
		blk = e.src.NextBlock()
		if blk == nil {
			e.underruns.Add(1)
		}
	}
	if blk != nil {
		samples := blk.Samples()
		if len(samples) < n {
			n = len(samples)
		}
		signal = samples[:n]
	}

	dst := e.outBuf[:n]
	if err := e.proc.Process(signal, dst); err != nil {
		e.procErrors.Add(1)
		clear(dst)
	}

	if blk != nil {
		blk.MarkGarbage()
	}

	samplesToBytes(out, dst)
	clear(out[len(dst)*4:])
}

// bytesToSamples decodes little-endian float32 frames into dst. A short or
// missing source leaves the remainder silent.
func bytesToSamples(dst []float32, src []byte) {
	for i := range dst {
		off := i * 4
		if off+4 > len(src) {
			clear(dst[i:])
			return
		}
		dst[i] = math.Float32frombits(binary.LittleEndian.Uint32(src[off:]))
	}
}

// samplesToBytes encodes samples as little-endian float32 frames.
func samplesToBytes(dst []byte, src []float32) {
	for i, v := range src {
		binary.LittleEndian.PutUint32(dst[i*4:], math.Float32bits(v))
	}
}
