// SPDX-License-Identifier: EPL-2.0

package playback

// Processor transforms one block of mono samples inside the device data
// callback. Process receives the input signal in in and writes exactly
// len(in) samples to out; the two slices never alias.
//
// Process runs on the real-time device thread. It must not block, allocate
// or take locks, and a returned error replaces the block with silence.
type Processor interface {
	Process(in, out []float32) error
}

// ProcessorFunc adapts a plain function to the Processor interface.
type ProcessorFunc func(in, out []float32) error

func (f ProcessorFunc) Process(in, out []float32) error { return f(in, out) }

// Passthrough copies the input to the output unchanged. It is the processor
// an Engine falls back to when none is injected.
var Passthrough Processor = ProcessorFunc(func(in, out []float32) error {
	copy(out, in)
	return nil
})
