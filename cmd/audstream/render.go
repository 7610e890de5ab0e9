// SPDX-License-Identifier: EPL-2.0

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/formats/wav"
)

func newRenderCmd() *cobra.Command {
	var (
		rate   int
		buffer int
	)

	cmd := &cobra.Command{
		Use:   "render <input> <output.wav>",
		Short: "Convert an audio file to mono 16-bit WAV",
		Long: `Render decodes the input file, resamples it to the target rate, mixes
all channels down to mono and writes the result as a 16-bit PCM WAV file.
No sound device is involved.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd.OutOrStdout(), args[0], args[1], rate, buffer)
		},
	}

	cmd.Flags().IntVar(&rate, "rate", 8000, "output sample rate in Hz")
	cmd.Flags().IntVar(&buffer, "buffer", 4096, "read buffer size in samples")

	return cmd
}

func runRender(out io.Writer, inPath, outPath string, rate, buffer int) error {
	if rate <= 0 {
		return fmt.Errorf("rate must be positive, got %d", rate)
	}
	if buffer <= 0 {
		buffer = 4096
	}

	src, err := audstream.Open(inPath)
	if err != nil {
		return err
	}
	defer src.Close()

	samples, outRate, err := audstream.ResampleToMono16(src, rate, buffer)
	if err != nil && err != io.EOF {
		return fmt.Errorf("resampling %s: %w", inPath, err)
	}

	f, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("%w", err)
	}

	if err := wav.WriteWAV16(f, outRate, samples); err != nil {
		f.Close()
		return fmt.Errorf("writing %s: %w", outPath, err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("closing %s: %w", outPath, err)
	}

	duration := float64(len(samples)) / float64(outRate)
	fmt.Fprintf(out, "Wrote %s: %d samples at %d Hz (%.2f s)\n", outPath, len(samples), outRate, duration)

	return nil
}
