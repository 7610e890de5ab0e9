// SPDX-License-Identifier: EPL-2.0

// Package dsp filters audio with chains of second-order IIR sections.
//
// A Chain runs its sections in series per sample and plugs straight into the
// playback engine as its Processor. Sections come from two places: the
// cookbook designs (LowPass, HighPass, BandPass, Notch) or a coefficient
// file in the sos matrix layout that Octave's tf2sos prints:
//
//	% 4th order Butterworth low-pass, fs 48000, fc 2000
//	0.0144 0.0289 0.0144 1.0000 -1.6330 0.6906
//	0.0144 0.0289 0.0144 1.0000 -1.7658 0.8252
//
// Load it and hand the chain to the engine:
//
//	chain, err := dsp.LoadCoeffs("lowpass.sos")
//	if err != nil {
//	    return err
//	}
//	engine := playback.NewEngine(streamer, chain, nil)
//
// Chains keep per-section delay state between calls, so one chain serves
// exactly one signal; call Reset before reusing it on another.
package dsp
