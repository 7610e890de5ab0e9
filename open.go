// SPDX-License-Identifier: EPL-2.0

package audstream

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ik5/audstream/audio"
	"github.com/ik5/audstream/formats/aiff"
	"github.com/ik5/audstream/formats/mp3"
	"github.com/ik5/audstream/formats/vorbis"
	"github.com/ik5/audstream/formats/wav"
)

// DefaultRegistry returns a fresh registry with every bundled decoder
// registered under its usual file extensions.
func DefaultRegistry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("ogg", vorbis.Decoder{})
	reg.Register("oga", vorbis.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("aif", aiff.Decoder{})

	return reg
}

// Open opens the audio file at path with the decoder registered for its
// extension in DefaultRegistry. Closing the returned Source also closes the
// underlying file.
//
// Open matches the stream.OpenFunc signature, so it plugs straight into a
// Streamer.
func Open(path string) (audio.Source, error) {
	return OpenWith(DefaultRegistry(), path)
}

// OpenWith is Open against a caller-supplied registry. The registry is keyed
// by lowercase extension without the dot, "wav" for "song.WAV".
func OpenWith(reg *audio.Registry, path string) (audio.Source, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(path), "."))

	dec, ok := reg.Get(ext)
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrUnknownFormat)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src, err := dec.Decode(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}

	return &fileSource{Source: src, f: f}, nil
}

// fileSource ties the lifetime of the backing file to the decoded source.
type fileSource struct {
	audio.Source
	f *os.File
}

func (s *fileSource) Close() error {
	err := s.Source.Close()
	if cerr := s.f.Close(); err == nil {
		err = cerr
	}

	return err
}
