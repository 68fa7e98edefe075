// Command imgscale resizes a single PNG or JPEG image from the
// command line, preserving aspect ratio within a requested bounding
// box.
//
// Usage:
//
//	imgscale [options] <input> <output>
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/deepteams/imgscale/avatar"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "imgscale: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("imgscale", flag.ContinueOnError)
	width := fs.Int("w", 0, "bounding box width in pixels")
	height := fs.Int("h", 0, "bounding box height in pixels")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
  imgscale [options] <input> <output>

Resizes a PNG or JPEG image to fit within -w x -h, preserving aspect
ratio, and writes a PNG. Use "-" for stdin/stdout.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 2 {
		fs.Usage()
		return fmt.Errorf("missing input and/or output path")
	}
	if *width <= 0 || *height <= 0 {
		return fmt.Errorf("-w and -h are required and must be positive")
	}

	in, err := openInput(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("opening input: %w", err)
	}
	defer in.Close()

	out, err := openOutput(fs.Arg(1))
	if err != nil {
		return fmt.Errorf("opening output: %w", err)
	}
	defer out.Close()

	rows, w, h, cs, err := avatar.DecodeImage(in)
	if err != nil {
		return fmt.Errorf("decoding input: %w", err)
	}

	scaled, outW, outH, err := avatar.Resize(rows, w, h, cs, *width, *height)
	if err != nil {
		return fmt.Errorf("scaling: %w", err)
	}
	defer avatar.ReleaseRows(scaled)

	avatar.Log.Info().Int("in_w", w).Int("in_h", h).Int("out_w", outW).Int("out_h", outH).Str("colorspace", cs.String()).Msg("resized image")

	if err := avatar.EncodePNG(out, scaled, outW, outH, cs); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// openInput returns an io.ReadCloser for path. If path is "-", stdin
// is returned (not closed by the caller).
func openInput(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	return os.Open(path)
}

// openOutput returns an io.WriteCloser for path. If path is "-",
// stdout is returned (not closed by the caller).
func openOutput(path string) (io.WriteCloser, error) {
	if path == "-" {
		return nopWriteCloser{os.Stdout}, nil
	}
	return os.Create(path)
}

type nopWriteCloser struct{ io.Writer }

func (nopWriteCloser) Close() error { return nil }
