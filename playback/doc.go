// SPDX-License-Identifier: EPL-2.0

// Package playback runs the real-time side of the pipeline: a duplex
// miniaudio device whose data callback mixes streamed file blocks with the
// live input and pushes the processed result to the speakers.
//
// # The Data Callback
//
// Each callback handles one block of mono float32 frames:
//
//  1. Decode the captured input into a preallocated buffer.
//  2. Ask the BlockSource for the next ready file block. When one is
//     claimed, its samples replace the captured input; when none is ready,
//     the live input plays through and the underrun counter ticks.
//  3. Run the injected Processor over the chosen signal.
//  4. Release the claimed block and encode the result to the playback
//     stream. A processor error yields silence for that block.
//
// The callback runs on the device thread against a hard deadline. It never
// allocates, never locks and never touches the file system; the claim is a
// single compare-and-swap.
//
// # Wiring
//
//	streamer := stream.NewStreamer(audstream.Open, nil)
//	streamer.Init(1024, 48000, 0)
//	streamer.Spawn()
//
//	engine := playback.NewEngine(streamer, chain, nil)
//	if err := engine.Init(1024, 48000); err != nil {
//	    return err
//	}
//	if err := engine.Start(); err != nil {
//	    return err
//	}
//
// The engine and the streamer must agree on the block size; the engine's
// device delivers exactly one block per callback.
//
// # Shutdown Order
//
// Stop the device first, then the files, then release everything:
//
//	engine.Stop()
//	streamer.StopFiles()
//	streamer.Close()
//	engine.Close()
//
// Stop guarantees no callback runs after it returns, so StopFiles can drain
// the ring without racing a claim.
package playback
