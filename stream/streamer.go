// SPDX-License-Identifier: EPL-2.0

package stream

import (
	"io"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ik5/audstream/audio"
)

// OpenFunc opens an audio file by path and returns a decoded Source.
// The Streamer never opens files itself; the opener is injected so the
// decoding stack stays replaceable (and mockable in tests).
type OpenFunc func(path string) (audio.Source, error)

// DefaultBufferBlocks is the ring capacity used when Init receives a
// non-positive block count.
const DefaultBufferBlocks = 10

// Streamer pulls audio files from a playlist and feeds their samples, block
// by block, to a real-time consumer that must never wait on file I/O.
//
// A single background worker goroutine (started by Spawn) opens files,
// resamples them to the target rate, down-mixes to mono and publishes the
// result into a ring of preallocated blocks. The consumer claims blocks with
// NextBlock, which takes no locks and never allocates.
//
// The playlist mutex also serializes ring window mutation between the worker
// and StopFiles; the real-time path only performs atomic loads and a status
// compare-and-swap, so it is never blocked by either side.
type Streamer struct {
	opener OpenFunc
	log    *slog.Logger

	mu       sync.Mutex // guards playlist, ring mutation and geometry
	playlist []string

	blockSize  int
	sampleRate int
	ring       Ring[Block]

	playing atomic.Bool
	running atomic.Bool
	stopGen atomic.Uint64

	quit chan struct{}
	done chan struct{}

	// session state for the file being streamed, owned by the worker
	src         audio.Source
	srcRate     int
	srcChannels int
	cacheFrames int
	cache       []float32
}

// NewStreamer returns a streamer that opens files through opener. A nil log
// falls back to slog.Default(). Call Init before Spawn.
func NewStreamer(opener OpenFunc, log *slog.Logger) *Streamer {
	if log == nil {
		log = slog.Default()
	}

	return &Streamer{
		opener: opener,
		log:    log,
	}
}

// Init (re)allocates the block ring: bufferBlocks blocks of blockSize mono
// samples each, produced at sampleRate. A non-positive bufferBlocks selects
// DefaultBufferBlocks. Init refuses to run while a file is playing, so the
// ring is never reallocated under an active stream.
func (s *Streamer) Init(blockSize, sampleRate, bufferBlocks int) error {
	if s.playing.Load() {
		return ErrPlaying
	}
	if blockSize <= 0 {
		return ErrZeroBlockSize
	}
	if sampleRate <= 0 {
		return ErrZeroSampleRate
	}
	if bufferBlocks <= 0 {
		bufferBlocks = DefaultBufferBlocks
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.blockSize = blockSize
	s.sampleRate = sampleRate
	s.ring.Allocate(bufferBlocks, func() Block { return NewBlock(blockSize) })

	return nil
}

// Spawn starts the background worker. It is a no-op when the worker is
// already running. Init must have succeeded first.
func (s *Streamer) Spawn() error {
	if s.opener == nil {
		return ErrNoOpener
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.blockSize == 0 {
		return ErrNotInitialized
	}
	if s.running.Load() {
		return nil
	}

	s.quit = make(chan struct{})
	s.done = make(chan struct{})
	s.running.Store(true)
	go s.run()

	return nil
}

// Close stops the background worker and waits for it to finish. The worker
// closes any file it still holds open. Close is a no-op when the worker is
// not running.
func (s *Streamer) Close() error {
	if !s.running.CompareAndSwap(true, false) {
		return nil
	}

	close(s.quit)
	<-s.done

	return nil
}

// Playing reports whether a file is currently being streamed.
func (s *Streamer) Playing() bool { return s.playing.Load() }

// AppendFile checks that path exists and, if so, appends it to the playlist.
// It reports whether the file was enqueued.
func (s *Streamer) AppendFile(path string) bool {
	if _, err := os.Stat(path); err != nil {
		return false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.playlist = append(s.playlist, path)

	return true
}

// StopFiles clears the playlist, stops streaming the current file and drains
// the block ring. Stop the real-time consumer before calling this; a block
// claimed earlier stays valid memory, but its samples are abandoned.
func (s *Streamer) StopFiles() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.playing.Store(false)
	s.stopGen.Add(1)
	s.playlist = nil

	for !s.ring.Empty() {
		s.ring.PopFront()
	}

	// Retired slots keep their last status. Scrub them so a future PushBack
	// always exposes a Garbage slot, never a stale ReadyToPlay one.
	for i := range s.ring.data {
		s.ring.data[i].MarkGarbage()
	}

	return true
}

// NextBlock claims the oldest ReadyToPlay block, flips it to Playing and
// returns it, or returns nil when no block is ready.
//
// This is the real-time entry point: it never locks, never allocates and
// never touches the playlist or the file system. Cost is bounded by the ring
// capacity. The caller must MarkGarbage the block once done with it, within
// the same callback invocation.
func (s *Streamer) NextBlock() *Block {
	n := s.ring.Len()
	for i := range n {
		b := s.ring.At(i)
		if b != nil && b.TryClaim() {
			return b
		}
	}

	return nil
}

func (s *Streamer) run() {
	defer close(s.done)

	s.log.Debug("file streamer worker started")

	for {
		s.mu.Lock()
		blockSize := s.blockSize
		rate := s.sampleRate
		s.mu.Unlock()

		s.checkFiles(blockSize, rate)
		s.collectGarbage()
		s.fillBlocks(rate)

		// Pace production at roughly one block per block duration, so the
		// worker tracks the real-time consumption rate without spinning.
		sleep := time.Duration(float64(blockSize) / float64(rate) * float64(time.Second))
		select {
		case <-s.quit:
			s.closeSource()
			s.log.Debug("file streamer worker stopped")
			return
		case <-time.After(sleep):
		}
	}
}

// checkFiles advances the playlist until a file opens or the list is empty.
// A path leaves the playlist exactly once; a file that fails to open is
// logged and skipped, never re-enqueued.
func (s *Streamer) checkFiles(blockSize, rate int) {
	if !s.playing.Load() && s.src != nil {
		// A stop request arrived mid file. The worker owns the handle, so it
		// is closed here and not in StopFiles.
		s.closeSource()
	}

	for !s.playing.Load() {
		s.mu.Lock()
		if len(s.playlist) == 0 {
			s.mu.Unlock()
			return
		}
		path := s.playlist[0]
		s.playlist = s.playlist[1:]
		s.mu.Unlock()

		src, err := s.opener(path)
		if err != nil {
			s.log.Error("cannot open audio file", "path", path, "err", err)
			continue
		}

		srcRate := src.SampleRate()
		channels := src.Channels()
		if srcRate <= 0 || channels <= 0 {
			s.log.Error("audio file reports unusable format",
				"path", path, "rate", srcRate, "channels", channels)
			src.Close()
			continue
		}

		s.src = src
		s.srcRate = srcRate
		s.srcChannels = channels

		// Worst case source frames needed to produce one full block.
		s.cacheFrames = (blockSize*srcRate + rate - 1) / rate
		need := s.cacheFrames * channels
		if cap(s.cache) < need {
			s.cache = make([]float32, need)
		}
		s.cache = s.cache[:need]

		s.log.Info("playing audio file", "path", path, "rate", srcRate, "channels", channels)
		s.playing.Store(true)
	}
}

// collectGarbage retires consumed blocks from the front of the ring.
func (s *Streamer) collectGarbage() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for {
		front := s.ring.Front()
		if front == nil || front.Status() != Garbage {
			return
		}
		s.ring.PopFront()
	}
}

// fillBlocks produces new blocks while a file is playing and the ring has
// room. The slow part, readBlock, runs outside the guard.
func (s *Streamer) fillBlocks(rate int) {
	for {
		s.mu.Lock()
		if !s.playing.Load() || s.ring.Full() {
			s.mu.Unlock()
			return
		}

		// The generation snapshot happens under the guard, together with the
		// push: StopFiles bumps the generation under the same guard, so a
		// stop landing anywhere after this point trips the check below.
		gen := s.stopGen.Load()
		s.ring.PushBack()
		b := s.ring.Back()
		s.mu.Unlock()

		s.readBlock(b, rate)
		if s.stopGen.Load() != gen {
			// StopFiles drained the ring while this block was being filled;
			// its slot already left the window, discard the samples.
			b.MarkGarbage()
		}
	}
}

// readBlock fills one block from the current file: read up to cacheFrames
// interleaved frames, resample by fractional stride to the target rate,
// average all channels into mono and zero-fill whatever remains. The block
// becomes ReadyToPlay only at the very end, once every sample is written.
//
// A short read marks the end of the file: the source is closed and the
// playing flag cleared, so the next worker iteration advances the playlist.
func (s *Streamer) readBlock(b *Block, rate int) {
	if s.src == nil {
		return
	}

	srcRate := s.srcRate
	channels := s.srcChannels

	want := s.cacheFrames * channels
	n, err := audio.ReadFull(s.src, s.cache[:want])
	frames := n / channels

	if frames < s.cacheFrames {
		if err != nil && err != io.EOF {
			s.log.Warn("audio file ended with error", "err", err)
		}
		s.closeSource()
		s.playing.Store(false)
	}

	// How many target-rate samples do the read frames cover?
	total := min(b.Len(), frames*rate/srcRate)
	fstep := float64(srcRate) / float64(rate)
	out := b.Samples()

	fidx := 0.0
	for i := range total {
		idx := int(fidx) * channels
		acc := s.cache[idx]
		for c := 1; c < channels; c++ {
			acc += s.cache[idx+c]
		}
		out[i] = acc / float32(channels)
		fidx += fstep
	}

	clear(out[total:])

	b.MarkReady()
}

func (s *Streamer) closeSource() {
	if s.src == nil {
		return
	}

	if err := s.src.Close(); err != nil {
		s.log.Warn("closing audio source", "err", err)
	}
	s.src = nil
	s.srcRate = 0
	s.srcChannels = 0
}
