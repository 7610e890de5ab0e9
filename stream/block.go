// SPDX-License-Identifier: EPL-2.0

package stream

import "sync/atomic"

// Status tags the lifecycle stage of a Block inside the ring.
//
// Every block cycles through Garbage -> ReadyToPlay -> Playing -> Garbage,
// and each transition belongs to exactly one side of the handoff: the worker
// marks a filled block ReadyToPlay, the real-time consumer claims it into
// Playing and releases it back to Garbage. No other transition exists.
type Status int32

const (
	// Garbage marks a block whose contents are spent and may be overwritten.
	Garbage Status = iota
	// ReadyToPlay marks a block filled with samples, waiting for a consumer.
	ReadyToPlay
	// Playing marks a block claimed by the real-time consumer.
	Playing
)

func (s Status) String() string {
	switch s {
	case Garbage:
		return "garbage"
	case ReadyToPlay:
		return "ready"
	case Playing:
		return "playing"
	}
	return "unknown"
}

// Block is a fixed-capacity buffer of mono float32 samples tagged with an
// atomic status. The status is the only field shared across goroutines; the
// sample storage is protected by the ownership rule encoded in the status
// transitions, not by a lock.
//
// The zero value is an empty block in the Garbage state.
type Block struct {
	samples []float32
	status  int32
}

// NewBlock returns a block with storage for size samples. A size of zero or
// less yields an empty block.
func NewBlock(size int) Block {
	if size <= 0 {
		return Block{}
	}
	return Block{samples: make([]float32, size)}
}

// Resize replaces the sample storage with a fresh buffer of size samples and
// forces the status back to Garbage. Only the owner may call this, never
// concurrently with real-time access.
func (b *Block) Resize(size int) {
	atomic.StoreInt32(&b.status, int32(Garbage))
	if size <= 0 {
		b.samples = nil
		return
	}
	b.samples = make([]float32, size)
}

// Samples exposes the raw sample storage for in-place reads and writes.
func (b *Block) Samples() []float32 { return b.samples }

// Len reports the sample capacity of the block.
func (b *Block) Len() int { return len(b.samples) }

// Empty reports whether the block has no storage.
func (b *Block) Empty() bool { return len(b.samples) == 0 }

// Clone returns a deep copy of the block, samples and status included.
func (b *Block) Clone() Block {
	nb := Block{status: atomic.LoadInt32(&b.status)}
	if len(b.samples) > 0 {
		nb.samples = make([]float32, len(b.samples))
		copy(nb.samples, b.samples)
	}
	return nb
}

// Status returns the current lifecycle tag.
func (b *Block) Status() Status {
	return Status(atomic.LoadInt32(&b.status))
}

// MarkReady publishes the block to consumers. The worker calls this once,
// after the sample storage is completely written.
func (b *Block) MarkReady() {
	atomic.StoreInt32(&b.status, int32(ReadyToPlay))
}

// MarkGarbage releases the block back to the pool. The consumer calls this
// when it is done with the samples, within the same callback invocation that
// claimed them.
func (b *Block) MarkGarbage() {
	atomic.StoreInt32(&b.status, int32(Garbage))
}

// TryClaim atomically flips a ReadyToPlay block to Playing. It reports false
// when the block is in any other state. This is the consumer's claim step and
// is safe against a concurrent worker.
func (b *Block) TryClaim() bool {
	return atomic.CompareAndSwapInt32(&b.status, int32(ReadyToPlay), int32(Playing))
}
