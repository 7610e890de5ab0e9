// SPDX-License-Identifier: EPL-2.0

package audio

import "io"

// ReadFull reads from src until dst is completely filled or the source is
// exhausted. A Source may legally return fewer samples than requested while
// more remain (mp3 decoders do this at internal frame boundaries), so a
// single ReadSamples call cannot distinguish "slow" from "finished". After
// ReadFull, a count below len(dst) always means the source truly ended.
//
// The returned error is nil on a full read, io.EOF when the source ended,
// or the source's own error.
func ReadFull(src Source, dst []float32) (int, error) {
	total := 0
	for total < len(dst) {
		n, err := src.ReadSamples(dst[total:])
		total += n

		if err != nil {
			return total, err
		}
		if n == 0 {
			return total, io.EOF
		}
	}

	return total, nil
}
