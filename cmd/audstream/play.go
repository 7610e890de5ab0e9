// SPDX-License-Identifier: EPL-2.0

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/ik5/audstream"
	"github.com/ik5/audstream/dsp"
	"github.com/ik5/audstream/playback"
	"github.com/ik5/audstream/stream"
)

type playOpts struct {
	files  []string
	coeffs string
	rate   int
	block  int
	buffer int
}

func newPlayCmd() *cobra.Command {
	var opts playOpts

	cmd := &cobra.Command{
		Use:   "play [files...]",
		Short: "Play audio files through the default sound device",
		Long: `Play decodes the given audio files in the background, resamples them to
the device rate and feeds them block by block to the default sound device.
An optional biquad filter chain is applied to the signal on its way out.

While playing, keys are read directly from the terminal:

  x      stop playing and exit
  r      append the file list to the playlist again
  Ctrl-C same as x`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.files = append(opts.files, args...)

			level := slog.LevelInfo
			if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
				level = slog.LevelDebug
			}

			return runPlay(opts, level)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.files, "files", "f", nil, "audio file to play (repeatable)")
	cmd.Flags().StringVarP(&opts.coeffs, "coeffs", "c", "", "file with filter coefficients (from GNU/Octave)")
	cmd.Flags().IntVar(&opts.rate, "rate", 48000, "device sample rate in Hz")
	cmd.Flags().IntVar(&opts.block, "block", 1024, "block size in frames")
	cmd.Flags().IntVar(&opts.buffer, "buffer", 0, "ring capacity in blocks (0 selects the default)")

	return cmd
}

func runPlay(opts playOpts, level slog.Level) error {
	// Raw mode turns off output post-processing, so a bare newline moves the
	// cursor down without returning it to column one. Route both stdout and
	// the logger through a CR/LF translator.
	stdout := &crlfWriter{w: os.Stdout}
	log := slog.New(slog.NewTextHandler(&crlfWriter{w: os.Stderr}, &slog.HandlerOptions{
		Level: level,
	}))

	var proc playback.Processor
	if opts.coeffs != "" {
		chain, err := dsp.LoadCoeffs(opts.coeffs)
		if err != nil {
			return fmt.Errorf("loading coefficients: %w", err)
		}
		fmt.Fprintf(stdout, "%d filter sections read from %s\n", chain.Len(), opts.coeffs)
		proc = chain
	}

	streamer := stream.NewStreamer(audstream.Open, log)
	if err := streamer.Init(opts.block, opts.rate, opts.buffer); err != nil {
		return fmt.Errorf("initializing streamer: %w", err)
	}

	engine := playback.NewEngine(streamer, proc, log)
	if err := engine.Init(opts.block, opts.rate); err != nil {
		return fmt.Errorf("initializing playback: %w", err)
	}

	if err := streamer.Spawn(); err != nil {
		engine.Close()
		return fmt.Errorf("starting streamer: %w", err)
	}

	if err := engine.Start(); err != nil {
		streamer.Close()
		engine.Close()
		return fmt.Errorf("starting playback: %w", err)
	}

	for _, f := range opts.files {
		reportAdd(stdout, "Adding", f, streamer.AppendFile(f))
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if term.IsTerminal(int(os.Stdin.Fd())) {
		oldState, err := term.MakeRaw(int(os.Stdin.Fd()))
		if err == nil {
			defer term.Restore(int(os.Stdin.Fd()), oldState)
		}
	}

	interact(ctx, readKeys(os.Stdin), stdout, opts.files, streamer.AppendFile)

	// Deactivate the device callback first, so no callback can claim a block
	// out of a ring that is being drained.
	engine.Stop()
	streamer.StopFiles()
	streamer.Close()

	return engine.Close()
}

// interact runs the keyboard loop until the user exits or ctx is canceled.
func interact(ctx context.Context, keys <-chan byte, out io.Writer, files []string, add func(string) bool) {
	fmt.Fprintln(out, "Press x to exit, r to repeat the playlist")

	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "Ctrl-C caught, cleaning up and exiting")
			return
		case key, ok := <-keys:
			if !ok {
				// stdin is gone; keep playing until a signal arrives
				keys = nil
				continue
			}

			switch key {
			case 'x', 3: // in raw mode Ctrl-C arrives as a byte
				fmt.Fprintln(out, "Finishing...")
				return
			case 'r':
				for _, f := range files {
					reportAdd(out, "  Re-adding", f, add(f))
				}
				fmt.Fprintln(out, "Repeat playing files")
			default:
				if key > 32 && key < 127 {
					fmt.Fprintf(out, "Key %c pressed\n", key)
				} else {
					fmt.Fprintf(out, "Key %d pressed\n", key)
				}
			}
		}
	}
}

func reportAdd(out io.Writer, verb, path string, ok bool) {
	result := "succeeded"
	if !ok {
		result = "failed"
	}

	fmt.Fprintf(out, "%s file %q %s\n", verb, path, result)
}
