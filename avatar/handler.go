package avatar

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

const (
	defaultSize = 80
	minSize     = 1
	maxSize     = 512
)

// Handler serves GET /avatar/<hash>?s=&d=&f=&r= from a local directory
// of source images named <hash>.png, <hash>.jpg or <hash>.jpeg.
type Handler struct {
	// Dir is the directory to look hashes up in.
	Dir string
}

// NewHandler returns a Handler serving source images from dir.
func NewHandler(dir string) *Handler {
	return &Handler{Dir: dir}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	hash := strings.Trim(strings.TrimPrefix(r.URL.Path, "/avatar/"), "/")
	q := r.URL.Query()
	fallback := q.Get("d")
	forced := q.Get("f") == "y"

	size, err := parseSize(q.Get("s"))
	if err != nil {
		Log.Warn().Str("hash", hash).Str("s", q.Get("s")).Msg("bad size parameter")
		http.Error(w, "bad request", http.StatusBadRequest)
		return
	}

	path, found := h.lookup(hash)
	if forced || !found {
		Log.Debug().Str("hash", hash).Int("size", size).Str("fallback", fallback).Bool("forced", forced).Msg("serving avatar fallback")
		h.serveFallback(w, r, fallback, size)
		return
	}

	f, err := os.Open(path)
	if err != nil {
		Log.Warn().Str("hash", hash).Err(err).Msg("opening avatar source")
		h.serveFallback(w, r, fallback, size)
		return
	}
	defer f.Close()

	rows, width, height, cs, err := DecodeImage(f)
	if err != nil {
		Log.Warn().Str("hash", hash).Err(err).Msg("decoding avatar source")
		h.serveFallback(w, r, fallback, size)
		return
	}

	out, outW, outH, err := Resize(rows, width, height, cs, size, size)
	if err != nil {
		Log.Error().Str("hash", hash).Err(err).Msg("scaling avatar")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}
	defer ReleaseRows(out)

	Log.Debug().Str("hash", hash).Int("size", size).Msg("serving avatar")
	setCacheHeaders(w)
	w.Header().Set("Content-Type", "image/png")
	if err := EncodePNG(w, out, outW, outH, cs); err != nil {
		Log.Error().Str("hash", hash).Err(err).Msg("encoding avatar response")
	}
}

// lookup resolves hash to a source file path under Dir, trying each
// supported extension in turn.
func (h *Handler) lookup(hash string) (string, bool) {
	if hash == "" {
		return "", false
	}
	for _, ext := range []string{".png", ".jpg", ".jpeg"} {
		p := filepath.Join(h.Dir, hash+ext)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
	}
	return "", false
}

// serveFallback implements the d= fallback selector: 404, the
// mystery-man silhouette, a transparent placeholder, or a redirect to
// an arbitrary URL. Absent d with a missing hash behaves as d=mm.
func (h *Handler) serveFallback(w http.ResponseWriter, r *http.Request, fallback string, size int) {
	switch fallback {
	case "404":
		w.WriteHeader(http.StatusNotFound)
	case "blank":
		setCacheHeaders(w)
		w.Header().Set("Content-Type", "image/png")
		if err := WriteBlank(w, size); err != nil {
			Log.Error().Err(err).Msg("writing blank fallback")
		}
	case "", "mm":
		setCacheHeaders(w)
		w.Header().Set("Content-Type", "image/png")
		if err := WriteMysteryMan(w, size); err != nil {
			Log.Error().Err(err).Msg("writing mystery-man fallback")
		}
	default:
		setCacheHeaders(w)
		http.Redirect(w, r, fallback, http.StatusTemporaryRedirect)
	}
}

func setCacheHeaders(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "max-age=86400")
	w.Header().Set("Access-Control-Allow-Origin", "*")
}

func parseSize(s string) (int, error) {
	if s == "" {
		return defaultSize, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("invalid size %q: %w", s, err)
	}
	if n < minSize || n > maxSize {
		return 0, fmt.Errorf("size %d out of range [%d,%d]", n, minSize, maxSize)
	}
	return n, nil
}
