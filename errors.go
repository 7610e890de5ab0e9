// SPDX-License-Identifier: EPL-2.0

package audstream

import "errors"

var (
	// ErrUnknownFormat is returned by Open for a file extension with no
	// registered decoder.
	ErrUnknownFormat = errors.New("unknown audio format")
)
