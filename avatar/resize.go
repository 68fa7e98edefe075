package avatar

import (
	"github.com/deepteams/imgscale"
	"github.com/deepteams/imgscale/internal/pool"
)

// Resize fits (width, height) into the (boundW, boundH) bounding box
// via imgscale.FixRatio, then drives an imgscale.Scaler through the
// Slots/Feed/Emit protocol to produce the scaled rows. One Scaler is
// created per call, matching the "one instance per worker/request"
// concurrency guidance: callers resizing concurrently never share
// scaler state.
//
// Output row buffers are drawn from the shared size-bucketed pool
// rather than allocated fresh, since this is the per-request hot path
// of the avatar HTTP handler. Callers should pass the result to
// ReleaseRows once they're done with it (after encoding a response, for
// instance) to return the buffers to the pool.
func Resize(rows [][]byte, width, height int, cs imgscale.ColorSpace, boundW, boundH int) (out [][]byte, outW, outH int, err error) {
	outW, outH, err = imgscale.FixRatio(width, height, boundW, boundH)
	if err != nil {
		return nil, 0, 0, err
	}

	s, err := imgscale.New(width, height, outW, outH, cs)
	if err != nil {
		return nil, 0, 0, err
	}
	defer s.Free()

	out = make([][]byte, outH)
	fed := 0
	for p := 0; p < outH; p++ {
		for s.Slots() > 0 {
			if err := s.Feed(rows[fed]); err != nil {
				return nil, 0, 0, err
			}
			fed++
		}
		row := pool.Get(s.RowLen())
		if err := s.Emit(row); err != nil {
			return nil, 0, 0, err
		}
		out[p] = row
	}
	return out, outW, outH, nil
}

// ReleaseRows returns every row in rows to the shared buffer pool.
// rows must not be used again after calling this.
func ReleaseRows(rows [][]byte) {
	for _, row := range rows {
		pool.Put(row)
	}
}
