// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"io"
)

// readKeys feeds single bytes read from r into the returned channel. The
// channel is closed on the first read error, so a closed stdin does not
// spin the loop.
func readKeys(r io.Reader) <-chan byte {
	keys := make(chan byte)

	go func() {
		defer close(keys)

		buf := make([]byte, 1)
		for {
			n, err := r.Read(buf)
			if n > 0 {
				keys <- buf[0]
			}
			if err != nil {
				return
			}
		}
	}()

	return keys
}

var crlf = []byte("\r\n")

// crlfWriter rewrites every \n as \r\n on its way to w. Needed while the
// terminal is in raw mode, where output post-processing is disabled.
type crlfWriter struct {
	w io.Writer
}

func (c *crlfWriter) Write(p []byte) (int, error) {
	written := 0

	for len(p) > 0 {
		i := bytes.IndexByte(p, '\n')
		if i < 0 {
			n, err := c.w.Write(p)
			return written + n, err
		}

		n, err := c.w.Write(p[:i])
		written += n
		if err != nil {
			return written, err
		}

		if _, err := c.w.Write(crlf); err != nil {
			return written, err
		}
		written++

		p = p[i+1:]
	}

	return written, nil
}
