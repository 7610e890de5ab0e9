// SPDX-License-Identifier: EPL-2.0

package stream

import "errors"

var (
	// ErrPlaying is returned by Init while a file is currently playing.
	ErrPlaying = errors.New("streamer is playing a file")
	// ErrNotInitialized is returned by Spawn before a successful Init.
	ErrNotInitialized = errors.New("streamer not initialized")
	// ErrZeroBlockSize is returned by Init for a non-positive block size.
	ErrZeroBlockSize = errors.New("block size must be positive")
	// ErrZeroSampleRate is returned by Init for a non-positive sample rate.
	ErrZeroSampleRate = errors.New("sample rate must be positive")
	// ErrNoOpener is returned by Spawn when no file opener is configured.
	ErrNoOpener = errors.New("no file opener configured")
)
