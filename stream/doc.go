// SPDX-License-Identifier: EPL-2.0

// Package stream feeds audio files into a real-time consumer without ever
// blocking it on file I/O.
//
// A real-time audio callback runs on a deadline-bound thread: miss the
// deadline and the result is an audible glitch. Opening, decoding and
// resampling files are slow, variable-latency operations that must not run
// there. This package separates the two worlds:
//   - Ring, a fixed-capacity circular window over preallocated slots
//   - Block, a reusable buffer of mono samples tagged with an atomic status
//   - Streamer, a background worker filling blocks from a playlist
//
// # The Handoff Protocol
//
// Blocks cycle through three states, and each transition belongs to exactly
// one side:
//
//	Garbage -> ReadyToPlay   worker, after completely filling the block
//	ReadyToPlay -> Playing   consumer, claiming the block in NextBlock
//	Playing -> Garbage       consumer, once it is done with the samples
//
// Because at most one side may touch a block's samples in each state, no
// lock is needed around the sample storage. The status itself is atomic, so
// the transitions are visible across goroutines in order.
//
// # Producing Blocks
//
// The Streamer worker runs one loop per block duration:
//
//  1. While no file is playing, pop the next playlist entry and try to open
//     it. Files that fail to open are logged and skipped.
//  2. Retire consumed (Garbage) blocks from the front of the ring.
//  3. While the ring has room, read frames from the file, resample them by
//     fractional stride to the target rate, average all channels into mono,
//     zero-fill the tail and publish the block as ReadyToPlay.
//  4. Sleep for roughly blockSize/sampleRate seconds.
//
// A short read marks the end of the file; the worker closes it and advances
// to the next playlist entry on its own.
//
// # Consuming Blocks
//
// The consumer side is three calls:
//
//	block := streamer.NextBlock()
//	if block != nil {
//	    copy(out, block.Samples())
//	    block.MarkGarbage()
//	}
//
// NextBlock never locks, never allocates, and its cost is bounded by the
// ring capacity. When the worker cannot keep up (slow disk, slow decoder),
// NextBlock returns nil and the caller falls back to silence or to its live
// input signal.
//
// # Setting Up
//
//	streamer := stream.NewStreamer(audstream.Open, nil)
//	if err := streamer.Init(1024, 48000, 0); err != nil {
//	    return err
//	}
//	if err := streamer.Spawn(); err != nil {
//	    return err
//	}
//	streamer.AppendFile("intro.wav")
//	streamer.AppendFile("music.ogg")
//
// # Stopping
//
// StopFiles empties the playlist and drains the ring. Deactivate the
// real-time consumer first, then stop the files, then Close the streamer:
//
//	engine.Stop()
//	streamer.StopFiles()
//	streamer.Close()
//
// StopFiles and the worker serialize their ring mutations on the playlist
// guard, so a stop can land at any moment; the real-time path stays
// lock-free throughout.
package stream
