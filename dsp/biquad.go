// SPDX-License-Identifier: EPL-2.0

package dsp

import "math"

// Section is one second-order IIR stage (a biquad) in Direct Form I. The
// coefficients are normalized so the a0 term is gone:
//
//	y[n] = B0*x[n] + B1*x[n-1] + B2*x[n-2] - A1*y[n-1] - A2*y[n-2]
//
// The zero value is an all-zero section (it outputs silence); an identity
// section is Section{B0: 1}.
type Section struct {
	B0, B1, B2 float64
	A1, A2     float64

	x1, x2 float64
	y1, y2 float64
}

func (s *Section) process(x float64) float64 {
	y := s.B0*x + s.B1*s.x1 + s.B2*s.x2 - s.A1*s.y1 - s.A2*s.y2

	s.x2, s.x1 = s.x1, x
	s.y2, s.y1 = s.y1, y

	return y
}

func (s *Section) reset() {
	s.x1, s.x2 = 0, 0
	s.y1, s.y2 = 0, 0
}

// LowPass designs a second-order low-pass section with cutoff freq hertz and
// quality q at the given sample rate. freq must sit below the Nyquist rate.
func LowPass(sampleRate, freq, q float64) Section {
	w := 2 * math.Pi * freq / sampleRate
	cosw := math.Cos(w)
	alpha := math.Sin(w) / (2 * q)

	return normalize(
		(1-cosw)/2, 1-cosw, (1-cosw)/2,
		1+alpha, -2*cosw, 1-alpha,
	)
}

// HighPass designs a second-order high-pass section with cutoff freq hertz
// and quality q at the given sample rate.
func HighPass(sampleRate, freq, q float64) Section {
	w := 2 * math.Pi * freq / sampleRate
	cosw := math.Cos(w)
	alpha := math.Sin(w) / (2 * q)

	return normalize(
		(1+cosw)/2, -(1 + cosw), (1+cosw)/2,
		1+alpha, -2*cosw, 1-alpha,
	)
}

// BandPass designs a second-order band-pass section centered on freq hertz
// with quality q at the given sample rate.
func BandPass(sampleRate, freq, q float64) Section {
	w := 2 * math.Pi * freq / sampleRate
	cosw := math.Cos(w)
	alpha := math.Sin(w) / (2 * q)

	return normalize(
		alpha, 0, -alpha,
		1+alpha, -2*cosw, 1-alpha,
	)
}

// Notch designs a second-order band-reject section centered on freq hertz
// with quality q at the given sample rate.
func Notch(sampleRate, freq, q float64) Section {
	w := 2 * math.Pi * freq / sampleRate
	cosw := math.Cos(w)
	alpha := math.Sin(w) / (2 * q)

	return normalize(
		1, -2*cosw, 1,
		1+alpha, -2*cosw, 1-alpha,
	)
}

func normalize(b0, b1, b2, a0, a1, a2 float64) Section {
	return Section{
		B0: b0 / a0, B1: b1 / a0, B2: b2 / a0,
		A1: a1 / a0, A2: a2 / a0,
	}
}

// Chain applies second-order sections in series, one sample at a time. An
// empty chain passes the signal through unchanged.
//
// Chain carries filter state across calls, so a single chain must stick to
// one signal; it satisfies the playback Processor contract and allocates
// nothing in Process.
type Chain struct {
	sections []Section
}

// NewChain returns a chain over the given sections. The sections are copied;
// later changes to the caller's slice do not affect the chain.
func NewChain(sections ...Section) *Chain {
	c := &Chain{sections: make([]Section, len(sections))}
	copy(c.sections, sections)

	return c
}

// Len reports the number of sections in the chain.
func (c *Chain) Len() int { return len(c.sections) }

// Reset clears the delay state of every section, as if no samples had been
// processed yet.
func (c *Chain) Reset() {
	for i := range c.sections {
		c.sections[i].reset()
	}
}

// Process filters in through every section in order and writes the result to
// out, sample by sample. It processes min(len(in), len(out)) samples and
// never returns an error.
func (c *Chain) Process(in, out []float32) error {
	n := min(len(in), len(out))

	for i := range n {
		v := float64(in[i])
		for j := range c.sections {
			v = c.sections[j].process(v)
		}
		out[i] = float32(v)
	}

	return nil
}
