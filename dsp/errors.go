// SPDX-License-Identifier: EPL-2.0

package dsp

import "errors"

var (
	// ErrBadSection is returned for an sos row without exactly six values.
	ErrBadSection = errors.New("sos row must have 6 coefficients")
	// ErrZeroA0 is returned for an sos row whose a0 term is zero.
	ErrZeroA0 = errors.New("sos row a0 coefficient must be non-zero")
	// ErrNoSections is returned by LoadCoeffs for a file without any rows.
	ErrNoSections = errors.New("coefficient file holds no sections")
)
