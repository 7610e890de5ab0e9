// SPDX-License-Identifier: EPL-2.0

// Package audstream streams audio files into a real-time playback pipeline
// and converts audio between formats and sample rates.
//
// The package is split along the real-time boundary. Everything slow lives
// in background goroutines: opening files, decoding, resampling. Everything
// fast lives on the audio device callback: claiming a prepared block,
// running it through a processor, handing it to the device. The two halves
// meet in a lock-free ring of preallocated sample blocks.
//
// # Supported Formats
//
// The package decodes the following audio formats:
//   - WAV (PCM 16-bit) via formats/wav
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//   - AIFF (PCM 16-bit) via formats/aiff
//
// # Opening Files
//
// Open picks a decoder by file extension and returns a ready audio source:
//
//	src, err := audstream.Open("music.ogg")
//	if err != nil {
//	    return err
//	}
//	defer src.Close()
//
// The mapping from extension to decoder lives in an audio.Registry;
// DefaultRegistry covers the formats above, and OpenWith accepts a custom
// one.
//
// # Live Playback
//
// Playing files through a sound card takes a stream.Streamer, which decodes
// and resamples files into blocks in the background, and a playback.Engine,
// which claims those blocks on the device callback:
//
//	streamer := stream.NewStreamer(audstream.Open, nil)
//	engine := playback.NewEngine(streamer, nil, nil)
//
//	streamer.Init(1024, 48000, 0)
//	engine.Init(1024, 48000)
//	streamer.Spawn()
//	engine.Start()
//
//	streamer.AppendFile("intro.wav")
//	streamer.AppendFile("music.ogg")
//
// Shutdown runs in the opposite order, engine first, so no device callback
// can touch a block while the ring is being drained:
//
//	engine.Stop()
//	streamer.StopFiles()
//	streamer.Close()
//	engine.Close()
//
// # Filtering
//
// The engine passes every block through a playback.Processor before it
// reaches the device. The dsp subpackage provides one: a chain of biquad
// filter sections loaded from a coefficient file:
//
//	chain, err := dsp.LoadCoeffs("lowpass.coeffs")
//	if err != nil {
//	    return err
//	}
//	engine := playback.NewEngine(streamer, chain, nil)
//
// # Offline Conversion
//
// Without a sound card in the picture, ResampleToMono16 collapses the
// decode, resample and downmix steps into one call:
//
//	src, _ := audstream.Open("audio.mp3")
//	samples, rate, err := audstream.ResampleToMono16(src, 8000, 4096)
//	if err != nil && err != io.EOF {
//	    return err
//	}
//	wav.WriteWAV16(out, rate, samples)
//
// For more control, build the pipeline from the audio subpackage directly:
//
//	resampler := audio.NewResampler(src, 16000)
//	mono := audio.NewMonoMixer(resampler)
//
//	buf := make([]float32, 4096)
//	n, err := mono.ReadSamples(buf)
//
// # Performance
//
// The real-time path is allocation-free: blocks, ring slots and device
// buffers are sized once at Init. The offline path reuses buffers and
// converts samples in batches. Resampling uses cubic interpolation with a
// basic anti-aliasing filter when downsampling.
//
// See the stream, playback and dsp subpackages for the details of each
// half.
package audstream
