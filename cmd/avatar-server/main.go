// Command avatar-server serves GET /avatar/<hash> over HTTP from a
// local directory of PNG/JPEG source images.
//
// Usage:
//
//	avatar-server -dir /var/avatars [-addr :8080]
package main

import (
	"flag"
	"fmt"
	"net/http"
	"os"

	"github.com/deepteams/imgscale/avatar"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "avatar-server: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("avatar-server", flag.ContinueOnError)
	dir := fs.String("dir", "", "directory of source images, named <hash>.png/.jpg/.jpeg")
	addr := fs.String("addr", ":8080", "listen address")
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `Usage:
  avatar-server -dir <directory> [-addr :8080]

Serves GET /avatar/<hash>?s=&d=&f= from the given directory, resizing
each source image to the requested size.

Options:
`)
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *dir == "" {
		fs.Usage()
		return fmt.Errorf("-dir is required")
	}
	if fi, err := os.Stat(*dir); err != nil {
		return fmt.Errorf("checking -dir: %w", err)
	} else if !fi.IsDir() {
		return fmt.Errorf("-dir %q is not a directory", *dir)
	}

	mux := http.NewServeMux()
	mux.Handle("/avatar/", avatar.NewHandler(*dir))

	avatar.Log.Info().Str("addr", *addr).Str("dir", *dir).Msg("listening")
	return http.ListenAndServe(*addr, mux)
}
