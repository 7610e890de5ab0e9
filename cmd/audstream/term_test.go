// SPDX-License-Identifier: EPL-2.0

package main

import (
	"bytes"
	"strings"
	"testing"
)

func TestCrlfWriter_RewritesNewlines(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "single line",
			in:   "hello\n",
			want: "hello\r\n",
		},
		{
			name: "multiple lines",
			in:   "a\nb\nc\n",
			want: "a\r\nb\r\nc\r\n",
		},
		{
			name: "no newline",
			in:   "partial",
			want: "partial",
		},
		{
			name: "newline only",
			in:   "\n",
			want: "\r\n",
		},
		{
			name: "empty",
			in:   "",
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w := &crlfWriter{w: &buf}

			n, err := w.Write([]byte(tt.in))
			if err != nil {
				t.Fatalf("Write() error = %v", err)
			}

			if n != len(tt.in) {
				t.Errorf("Write() n = %d, want %d", n, len(tt.in))
			}

			if got := buf.String(); got != tt.want {
				t.Errorf("Write(%q) wrote %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCrlfWriter_SplitWrites(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	w := &crlfWriter{w: &buf}

	for _, chunk := range []string{"first", " line\nsecond", " line\n"} {
		if _, err := w.Write([]byte(chunk)); err != nil {
			t.Fatalf("Write(%q) error = %v", chunk, err)
		}
	}

	want := "first line\r\nsecond line\r\n"
	if got := buf.String(); got != want {
		t.Errorf("wrote %q, want %q", got, want)
	}
}

func TestReadKeys_DeliversBytes(t *testing.T) {
	t.Parallel()

	keys := readKeys(strings.NewReader("xr"))

	for _, want := range []byte{'x', 'r'} {
		got, ok := <-keys
		if !ok {
			t.Fatalf("channel closed before delivering %q", want)
		}
		if got != want {
			t.Errorf("key = %q, want %q", got, want)
		}
	}

	if _, ok := <-keys; ok {
		t.Error("channel still open after the reader drained")
	}
}

func TestReadKeys_ClosesOnEmptyReader(t *testing.T) {
	t.Parallel()

	keys := readKeys(strings.NewReader(""))

	if _, ok := <-keys; ok {
		t.Error("channel open for an empty reader, want closed")
	}
}
