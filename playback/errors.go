// SPDX-License-Identifier: EPL-2.0

package playback

import "errors"

var (
	// ErrInitialized is returned by Init when the engine already holds a
	// device. Close it first to reconfigure.
	ErrInitialized = errors.New("engine already initialized")
	// ErrNotInitialized is returned by Start before a successful Init.
	ErrNotInitialized = errors.New("engine not initialized")
	// ErrZeroBlockSize is returned by Init for a non-positive block size.
	ErrZeroBlockSize = errors.New("block size must be positive")
	// ErrZeroSampleRate is returned by Init for a non-positive sample rate.
	ErrZeroSampleRate = errors.New("sample rate must be positive")
)
