// SPDX-License-Identifier: EPL-2.0

package dsp

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ParseCoeffs reads second-order sections in the sos matrix layout Octave
// and Matlab emit (tf2sos, zp2sos): one section per line, six whitespace
// separated coefficients
//
//	b0 b1 b2 a0 a1 a2
//
// Everything after a '%' or '#' is a comment; blank lines are skipped. Each
// row is divided by its a0, so unnormalized rows are accepted.
func ParseCoeffs(r io.Reader) ([]Section, error) {
	var sections []Section

	scanner := bufio.NewScanner(r)
	line := 0
	for scanner.Scan() {
		line++

		text := scanner.Text()
		if idx := strings.IndexAny(text, "%#"); idx >= 0 {
			text = text[:idx]
		}

		fields := strings.Fields(text)
		if len(fields) == 0 {
			continue
		}
		if len(fields) != coeffsPerSection {
			return nil, fmt.Errorf("line %d has %d values: %w", line, len(fields), ErrBadSection)
		}

		var row [coeffsPerSection]float64
		for i, field := range fields {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", line, err)
			}
			row[i] = v
		}

		if row[3] == 0 {
			return nil, fmt.Errorf("line %d: %w", line, ErrZeroA0)
		}

		sections = append(sections, normalize(row[0], row[1], row[2], row[3], row[4], row[5]))
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading coefficients: %w", err)
	}

	return sections, nil
}

const coeffsPerSection = 6

// LoadCoeffs parses the coefficient file at path into a ready filter chain.
// A file with no sections is an error; an explicit passthrough is the
// identity row "1 0 0 1 0 0".
func LoadCoeffs(path string) (*Chain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening coefficients: %w", err)
	}
	defer f.Close()

	sections, err := ParseCoeffs(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if len(sections) == 0 {
		return nil, fmt.Errorf("%s: %w", path, ErrNoSections)
	}

	return NewChain(sections...), nil
}
